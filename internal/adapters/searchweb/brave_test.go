package searchweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/testutil"
)

func newTestBrave(t *testing.T, handler http.Handler) *brave {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{Provider: ProviderBrave, BraveKey: "secret-token", BaseURL: server.URL}
	return newBrave(cfg, testutil.TestLogger())
}

func TestBrave_Search(t *testing.T) {
	var servedToken, servedAccept, servedQuery, servedCount string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedToken = r.Header.Get("X-Subscription-Token")
		servedAccept = r.Header.Get("Accept")
		servedQuery = r.URL.Query().Get("q")
		servedCount = r.URL.Query().Get("count")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"web": {
				"results": [
					{"title": "Acme Corp", "url": "https://acme.example", "description": "Industrial supplies"},
					{"title": "", "url": "", "description": "empty row"},
					{"title": "Acme careers", "url": "https://acme.example/jobs", "description": ""}
				]
			}
		}`))
	})

	searcher := newTestBrave(t, handler)
	resp, err := searcher.Search(context.Background(), `"Acme Corp"`, ports.SearchOptions{Limit: 5})

	testutil.AssertNoError(t, err, "search")
	testutil.AssertEqual(t, servedToken, "secret-token", "auth header")
	testutil.AssertEqual(t, servedAccept, "application/json", "accept header")
	testutil.AssertEqual(t, servedQuery, `"Acme Corp"`, "query param")
	testutil.AssertEqual(t, servedCount, "5", "count param")

	testutil.AssertEqual(t, resp.Provider, ProviderBrave, "provider")
	testutil.AssertEqual(t, resp.Query, `"Acme Corp"`, "query echoed")

	if len(resp.Results) != 2 {
		t.Fatalf("expected empty row filtered out, got %d results", len(resp.Results))
	}
	testutil.AssertEqual(t, resp.Results[0].Title, "Acme Corp", "first title")
	testutil.AssertEqual(t, resp.Results[0].URL, "https://acme.example", "first url")
	testutil.AssertEqual(t, resp.Results[0].Snippet, "Industrial supplies", "description mapped to snippet")
	testutil.AssertEqual(t, resp.Results[1].Title, "Acme careers", "second title")
}

func TestBrave_NoCountWithoutLimit(t *testing.T) {
	var hasCount bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasCount = r.URL.Query().Has("count")
		w.Write([]byte(`{"web": {"results": []}}`))
	})

	searcher := newTestBrave(t, handler)
	resp, err := searcher.Search(context.Background(), "acme", ports.SearchOptions{})

	testutil.AssertNoError(t, err, "search")
	testutil.AssertFalse(t, hasCount, "count param omitted")
	testutil.AssertEqual(t, len(resp.Results), 0, "no results")
}

func TestBrave_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	searcher := newTestBrave(t, handler)
	_, err := searcher.Search(context.Background(), "acme", ports.DefaultSearchOptions())

	testutil.AssertError(t, err, "unauthorized")
	testutil.AssertTrue(t, errors.IsUnauthorized(err), "mapped sentinel")
}

func TestBrave_MalformedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	searcher := newTestBrave(t, handler)
	_, err := searcher.Search(context.Background(), "acme", ports.DefaultSearchOptions())

	testutil.AssertError(t, err, "malformed body")
	testutil.AssertTrue(t, errors.IsInvalidResponse(err), "invalid response sentinel")
}
