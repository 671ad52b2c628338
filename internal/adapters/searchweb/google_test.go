package searchweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/testutil"
)

func newTestGoogle(t *testing.T, handler http.Handler) *google {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{Provider: ProviderGoogle, GoogleKey: "api-key", GoogleCX: "engine-id", BaseURL: server.URL}
	return newGoogle(cfg, testutil.TestLogger())
}

func TestGoogle_Search(t *testing.T) {
	var servedKey, servedCX, servedQuery, servedNum string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedKey = r.URL.Query().Get("key")
		servedCX = r.URL.Query().Get("cx")
		servedQuery = r.URL.Query().Get("q")
		servedNum = r.URL.Query().Get("num")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"title": "Acme Corp - Official Site", "link": "https://acme.example", "snippet": "Industrial supplies."},
				{"title": "", "link": "", "snippet": ""},
				{"title": "Acme on the register", "link": "https://registry.example/acme", "snippet": "Filing details."}
			]
		}`))
	})

	searcher := newTestGoogle(t, handler)
	resp, err := searcher.Search(context.Background(), "site:acme.example", ports.SearchOptions{Limit: 4})

	testutil.AssertNoError(t, err, "search")
	testutil.AssertEqual(t, servedKey, "api-key", "key param")
	testutil.AssertEqual(t, servedCX, "engine-id", "cx param")
	testutil.AssertEqual(t, servedQuery, "site:acme.example", "query param")
	testutil.AssertEqual(t, servedNum, "4", "num param")

	testutil.AssertEqual(t, resp.Provider, ProviderGoogle, "provider")

	if len(resp.Results) != 2 {
		t.Fatalf("expected empty item filtered out, got %d results", len(resp.Results))
	}
	testutil.AssertEqual(t, resp.Results[0].Title, "Acme Corp - Official Site", "first title")
	testutil.AssertEqual(t, resp.Results[0].URL, "https://acme.example", "link mapped to url")
	testutil.AssertEqual(t, resp.Results[0].Snippet, "Industrial supplies.", "snippet")
}

func TestGoogle_CapsNumParam(t *testing.T) {
	var servedNum string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedNum = r.URL.Query().Get("num")
		w.Write([]byte(`{"items": []}`))
	})

	searcher := newTestGoogle(t, handler)
	_, err := searcher.Search(context.Background(), "acme", ports.SearchOptions{Limit: 25})

	testutil.AssertNoError(t, err, "search")
	// La API rechaza num > 10.
	testutil.AssertEqual(t, servedNum, "10", "num capped")
}

func TestGoogle_NoItems(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"searchInformation": {"totalResults": "0"}}`))
	})

	searcher := newTestGoogle(t, handler)
	resp, err := searcher.Search(context.Background(), "acme", ports.DefaultSearchOptions())

	testutil.AssertNoError(t, err, "search")
	testutil.AssertEqual(t, len(resp.Results), 0, "no results")
}
