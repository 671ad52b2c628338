package searchweb

import (
	"context"
	"testing"
	"time"

	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/rate"
	"github.com/theclubco2025/osint/internal/testutil"
)

func TestNew_ProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		provider string
		wantErr  bool
		wantNil  bool
	}{
		{name: "disabled", cfg: Config{}, wantNil: true},
		{name: "brave", cfg: Config{Provider: "brave", BraveKey: "k"}, provider: ProviderBrave},
		{name: "brave sin key", cfg: Config{Provider: "brave"}, wantErr: true},
		{name: "google", cfg: Config{Provider: "google", GoogleKey: "k", GoogleCX: "cx"}, provider: ProviderGoogle},
		{name: "google sin engine id", cfg: Config{Provider: "google", GoogleKey: "k"}, wantErr: true},
		{name: "duckduckgo case-insensitive", cfg: Config{Provider: "DuckDuckGo"}, provider: ProviderDuckDuckGo},
		{name: "unknown", cfg: Config{Provider: "bing"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, err := New(tt.cfg, testutil.TestLogger())
			if tt.wantErr {
				testutil.AssertError(t, err, "constructor")
				return
			}
			testutil.AssertNoError(t, err, "constructor")

			if tt.wantNil {
				if searcher != nil {
					t.Fatalf("expected nil searcher for disabled config, got %v", searcher)
				}
				return
			}
			testutil.AssertNotNil(t, searcher, "searcher")
			testutil.AssertEqual(t, searcher.Provider(), tt.provider, "provider name")
		})
	}
}

func TestValidProvider(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"brave", true},
		{"google", true},
		{"duckduckgo", true},
		{" Brave ", true},
		{"", false},
		{"bing", false},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, ValidProvider(tt.name), tt.want, "provider "+tt.name)
	}
}

func TestPacedSearcher_DelaysQueries(t *testing.T) {
	mock := &testutil.MockSearcher{ProviderName: ProviderBrave}
	paced := &pacedSearcher{inner: mock, pace: rate.NewInterval(60 * time.Millisecond)}

	testutil.AssertEqual(t, paced.Provider(), ProviderBrave, "provider passthrough")

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := paced.Search(context.Background(), "acme", ports.DefaultSearchOptions())
		testutil.AssertNoError(t, err, "paced search")
	}
	elapsed := time.Since(start)

	// Dos consultas pagan dos intervalos, incluida la primera.
	if elapsed < 100*time.Millisecond {
		t.Fatalf("expected both queries paced, elapsed %v", elapsed)
	}
	testutil.AssertLen(t, mock.Queries(), 2, "queries forwarded")
}

func TestPacedSearcher_CancelledContext(t *testing.T) {
	mock := &testutil.MockSearcher{}
	paced := &pacedSearcher{inner: mock, pace: rate.NewInterval(time.Minute)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := paced.Search(ctx, "acme", ports.DefaultSearchOptions())
	testutil.AssertError(t, err, "cancelled wait")
	testutil.AssertLen(t, mock.Queries(), 0, "query never dispatched")
}

func TestNormalizeHits(t *testing.T) {
	hits := []ports.SearchHit{
		{Title: "  Acme Corp  ", URL: " https://acme.example ", Snippet: " hq "},
		{Title: "", URL: "", Snippet: "orphan snippet"},
		{Title: "Untitled", URL: ""},
		{Title: "", URL: "https://only.example"},
		{Title: "Extra", URL: "https://extra.example"},
	}

	out := normalizeHits(hits, 3)

	if len(out) != 3 {
		t.Fatalf("expected 3 hits after filtering and capping, got %d", len(out))
	}
	testutil.AssertEqual(t, out[0].Title, "Acme Corp", "trimmed title")
	testutil.AssertEqual(t, out[0].URL, "https://acme.example", "trimmed url")
	testutil.AssertEqual(t, out[0].Snippet, "hq", "trimmed snippet")
	testutil.AssertEqual(t, out[1].Title, "Untitled", "title-only hit kept")
	testutil.AssertEqual(t, out[2].URL, "https://only.example", "url-only hit kept")
}

func TestNormalizeHits_NoLimit(t *testing.T) {
	hits := []ports.SearchHit{
		{Title: "a", URL: "https://a.example"},
		{Title: "b", URL: "https://b.example"},
	}

	out := normalizeHits(hits, 0)
	if len(out) != 2 {
		t.Fatalf("expected all hits kept without limit, got %d", len(out))
	}
}
