// internal/core/usecases/search.go
package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/extract"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/validator"
)

// typeQueries construye las consultas de búsqueda de un objetivo según
// su tipo. Los tipos no buscables retornan nil.
func typeQueries(target domain.Target) []string {
	v := target.Value
	switch target.Type {
	case domain.TargetTypeName:
		return []string{quoted(v), quoted(v) + " profile"}
	case domain.TargetTypeUsername:
		return []string{quoted(v), quoted(v) + " instagram", quoted(v) + " facebook"}
	case domain.TargetTypeDomain:
		return []string{"site:" + v, quoted(v) + " contact"}
	case domain.TargetTypeEmail:
		return []string{quoted(v), quoted(v) + " account"}
	case domain.TargetTypePhone:
		return []string{quoted(v), quoted(v) + " contact"}
	case domain.TargetTypeIP:
		return []string{quoted(v), quoted(v) + " server"}
	default:
		return nil
	}
}

func quoted(v string) string {
	return `"` + v + `"`
}

// searchPass ejecuta una pasada de búsqueda acotada. SkipWebSearch la
// suprime por completo y en silencio; sin proveedor configurado queda
// constancia en una única evidencia de aviso y no se reintenta.
func (c *Collector) searchPass(ctx context.Context, col *collection, queries []string) {
	if col.target.SkipWebSearch || len(queries) == 0 {
		return
	}

	if c.searcher == nil {
		c.notify("search skipped, not configured")
		ev := domain.NewTextEvidence(
			"Web search skipped",
			collectorSource,
			"no search provider configured",
		).WithTags(tagSearch, "skipped").WithConfidence(domain.ConfidenceSkipped)
		col.result.Evidence = append(col.result.Evidence, ev)
		return
	}

	if len(queries) > col.limits.searchQueries {
		queries = queries[:col.limits.searchQueries]
	}

	for _, query := range queries {
		if c.expired(col) {
			return
		}
		c.runSearchQuery(ctx, col, query)
	}
}

// runSearchQuery despacha una consulta y cosecha sus resultados. Un
// fallo del proveedor se degrada a evidencia y no corta la pasada.
func (c *Collector) runSearchQuery(ctx context.Context, col *collection, query string) {
	c.notify(fmt.Sprintf("searching %s", query))

	opts := ports.DefaultSearchOptions()
	opts.Limit = maxResultsPerQuery

	resp, err := c.searcher.Search(ctx, query, opts)
	if err != nil {
		c.logger.Warn("search query failed", "query", query, "error", err.Error())
		ev := domain.NewTextEvidence(
			fmt.Sprintf("Web search failed for %s", query),
			c.searcher.Provider(),
			err.Error(),
		).WithTags(tagSearch, "error").WithConfidence(domain.ConfidenceFailed)
		col.result.Evidence = append(col.result.Evidence, ev)
		return
	}

	c.harvest(col, resp)
}

// harvest convierte la respuesta de una consulta en evidencia y
// entidades: URL y hostname de cada resultado, perfiles reconocidos y
// emails/teléfonos de título y snippet, cada uno con su tope.
func (c *Collector) harvest(col *collection, resp *ports.SearchResponse) {
	results := resp.Results
	if len(results) > maxResultsPerQuery {
		results = results[:maxResultsPerQuery]
	}

	payload := ports.SearchResponse{Provider: resp.Provider, Query: resp.Query, Results: results}
	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Search results for %s", resp.Query),
		resp.Provider,
		payload,
	); err == nil {
		ev.WithTags(tagSearch).WithConfidence(domain.ConfidenceLow)
		col.result.Evidence = append(col.result.Evidence, ev)
	}

	for _, hit := range results {
		if hit.URL != "" {
			col.result.Entities = append(col.result.Entities,
				domain.NewEntity(domain.EntityTypeURL, hit.URL).WithMeta("query", resp.Query))

			if host := hostnameOf(hit.URL); host != "" {
				col.result.Entities = append(col.result.Entities,
					domain.NewEntity(domain.EntityTypeDomain, host))
			}

			if prof, ok := extract.ParseProfileURL(hit.URL); ok {
				col.result.Entities = append(col.result.Entities,
					domain.NewEntity(domain.EntityTypeUsername, prof.Username).
						WithMeta("platform", prof.Platform))
			}
		}

		text := hit.Title + " " + hit.Snippet
		for _, e := range extract.ExtractEmails(text, maxEmailsPerResult) {
			col.result.Entities = append(col.result.Entities,
				domain.NewEntity(domain.EntityTypeEmail, e))
		}
		for _, p := range extract.ExtractPhones(text, maxPhonesPerResult) {
			col.result.Entities = append(col.result.Entities,
				domain.NewEntity(domain.EntityTypePhone, p))
		}
	}
}

// hostnameOf extrae el hostname de una URL si es un dominio válido.
func hostnameOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := validator.NormalizeDomain(u.Hostname())
	if !validator.IsDomain(host) {
		return ""
	}
	return host
}
