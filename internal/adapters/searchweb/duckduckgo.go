package searchweb

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
)

const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// duckduckgo raspa el endpoint HTML clásico, el único que no exige
// credenciales. El marcado es estable: anclas .result__a dentro de
// contenedores .result, con el snippet en .result__snippet.
type duckduckgo struct {
	client  httpclient.Client
	baseURL string
	logger  logx.Logger
}

func newDuckDuckGo(cfg Config, logger logx.Logger) *duckduckgo {
	base := cfg.BaseURL
	if base == "" {
		base = duckduckgoEndpoint
	}

	return &duckduckgo{
		client:  newHTTPClient(cfg, logger),
		baseURL: strings.TrimSuffix(base, "/"),
		logger:  logger.With("provider", ProviderDuckDuckGo),
	}
}

// Provider implementa ports.Searcher.
func (d *duckduckgo) Provider() string {
	return ProviderDuckDuckGo
}

// Search implementa ports.Searcher.
func (d *duckduckgo) Search(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error) {
	ctx, cancel := searchContext(ctx, opts)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)

	d.logger.Debug("dispatching search", "query", query)

	resp, err := d.client.Get(ctx, d.baseURL+"/?"+params.Encode(), map[string]string{
		"Accept": "text/html",
	})
	if err != nil {
		return nil, err
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	hits, err := parseResultsHTML(body)
	if err != nil {
		return nil, err
	}

	return &ports.SearchResponse{
		Provider: ProviderDuckDuckGo,
		Query:    query,
		Results:  normalizeHits(hits, opts.Limit),
	}, nil
}

// parseResultsHTML extrae los resultados orgánicos del marcado, saltando
// los bloques patrocinados.
func parseResultsHTML(body []byte) ([]ports.SearchHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	hits := make([]ports.SearchHit, 0)
	doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("result--ad") {
			return
		}

		anchor := sel.Find(".result__a").First()
		href, _ := anchor.Attr("href")

		hits = append(hits, ports.SearchHit{
			Title:   anchor.Text(),
			URL:     resolveRedirect(href),
			Snippet: sel.Find(".result__snippet").First().Text(),
		})
	})

	return hits, nil
}

// resolveRedirect deshace el redirect /l/?uddg= que DuckDuckGo antepone a
// las URLs de resultado.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if parsed.Path != "/l/" {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
