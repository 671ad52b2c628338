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

const (
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"

	// googleMaxNum es el máximo que acepta el parámetro num de la API.
	googleMaxNum = 10
)

// google consulta la Custom Search JSON API con key y engine id.
type google struct {
	client  httpclient.Client
	key     string
	cx      string
	baseURL string
	logger  logx.Logger
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func newGoogle(cfg Config, logger logx.Logger) *google {
	base := cfg.BaseURL
	if base == "" {
		base = googleEndpoint
	}

	return &google{
		client:  newHTTPClient(cfg, logger),
		key:     cfg.GoogleKey,
		cx:      cfg.GoogleCX,
		baseURL: strings.TrimSuffix(base, "/"),
		logger:  logger.With("provider", ProviderGoogle),
	}
}

// Provider implementa ports.Searcher.
func (g *google) Provider() string {
	return ProviderGoogle
}

// Search implementa ports.Searcher.
func (g *google) Search(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error) {
	ctx, cancel := searchContext(ctx, opts)
	defer cancel()

	params := url.Values{}
	params.Set("key", g.key)
	params.Set("cx", g.cx)
	params.Set("q", query)
	if opts.Limit > 0 {
		num := opts.Limit
		if num > googleMaxNum {
			num = googleMaxNum
		}
		params.Set("num", strconv.Itoa(num))
	}

	g.logger.Debug("dispatching search", "query", query)

	body, err := g.client.FetchJSON(ctx, g.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	hits := make([]ports.SearchHit, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		hits = append(hits, ports.SearchHit{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}

	return &ports.SearchResponse{
		Provider: ProviderGoogle,
		Query:    query,
		Results:  normalizeHits(hits, opts.Limit),
	}, nil
}
