package searchweb

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// brave consulta la Web Search API de Brave autenticando por header.
type brave struct {
	client  httpclient.Client
	key     string
	baseURL string
	logger  logx.Logger
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func newBrave(cfg Config, logger logx.Logger) *brave {
	base := cfg.BaseURL
	if base == "" {
		base = braveEndpoint
	}

	return &brave{
		client:  newHTTPClient(cfg, logger),
		key:     cfg.BraveKey,
		baseURL: strings.TrimSuffix(base, "/"),
		logger:  logger.With("provider", ProviderBrave),
	}
}

// Provider implementa ports.Searcher.
func (b *brave) Provider() string {
	return ProviderBrave
}

// Search implementa ports.Searcher.
func (b *brave) Search(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error) {
	ctx, cancel := searchContext(ctx, opts)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	if opts.Limit > 0 {
		params.Set("count", strconv.Itoa(opts.Limit))
	}

	b.logger.Debug("dispatching search", "query", query)

	body, err := b.client.FetchJSONWithHeaders(ctx, b.baseURL+"?"+params.Encode(), map[string]string{
		"X-Subscription-Token": b.key,
	})
	if err != nil {
		return nil, err
	}

	var parsed braveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	hits := make([]ports.SearchHit, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		hits = append(hits, ports.SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}

	return &ports.SearchResponse{
		Provider: ProviderBrave,
		Query:    query,
		Results:  normalizeHits(hits, opts.Limit),
	}, nil
}
