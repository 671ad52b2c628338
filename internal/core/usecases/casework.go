// internal/core/usecases/casework.go
package usecases

import (
	"context"
	"fmt"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/extract"
)

// caseSummary es el payload de la evidencia con los indicadores
// extraídos de una descripción de caso.
type caseSummary struct {
	Count      int             `json:"count"`
	Indicators []caseIndicator `json:"indicators"`
}

type caseIndicator struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// collectCase descompone una descripción libre en indicadores tipados,
// lanza una sub-recolección secuencial por cada uno y cierra con una
// única pasada de búsqueda sobre los indicadores de mayor señal.
func (c *Collector) collectCase(ctx context.Context, col *collection) {
	c.notify("analyzing case description")

	// Dos items fijos de evidencia: la descripción cruda y la lista de
	// indicadores. Ninguno lleva anotación de confianza: documentan la
	// descomposición, no la fiabilidad de una fuente.
	raw := domain.NewTextEvidence("Case description", collectorSource, col.target.Value).
		WithTags(tagCase)
	col.result.Evidence = append(col.result.Evidence, raw)

	indicators := extract.ExtractIndicators(col.target.Value)

	summary := caseSummary{
		Count:      len(indicators),
		Indicators: make([]caseIndicator, 0, len(indicators)),
	}
	for _, ind := range indicators {
		summary.Indicators = append(summary.Indicators, caseIndicator{
			Type:  string(ind.Type),
			Value: ind.Value,
		})
	}
	if ev, err := domain.NewJSONEvidence("Extracted indicators", collectorSource, summary); err == nil {
		ev.WithTags(tagCase)
		col.result.Evidence = append(col.result.Evidence, ev)
	}

	c.logger.Info("case decomposed", "indicators", len(indicators))

	// Sub-recolección secuencial por indicador hasta la cuota de la
	// profundidad, parando en cuanto el presupuesto se agote.
	followed := 0
	for _, ind := range indicators {
		if followed >= col.limits.caseIndicators {
			break
		}
		if c.expired(col) {
			break
		}

		sub := col.target.Sub(ind.Value, ind.Type, col.target.Depth, col.target.SkipWebSearch)
		c.recurse(ctx, col, sub, fmt.Sprintf("collecting %s %s", ind.Type, ind.Value))
		followed++
	}

	// La pasada extra del caso: una única búsqueda sobre los indicadores
	// de mayor señal, además de las que ya hicieron las sub-recolecciones.
	c.searchPass(ctx, col, caseQueries(indicators, col.limits.caseQueries))
}

// caseQueries elige los indicadores de mayor señal de un caso y los
// convierte en consultas: nombres y emails como frase entre comillas,
// dominios como site:. Un nombre identifica más que un email y un email
// más que un dominio; el resto de tipos no participa.
func caseQueries(indicators []extract.Indicator, max int) []string {
	if max <= 0 {
		return nil
	}

	queries := make([]string, 0, max)
	for _, tt := range []domain.TargetType{
		domain.TargetTypeName,
		domain.TargetTypeEmail,
		domain.TargetTypeDomain,
	} {
		for _, ind := range indicators {
			if ind.Type != tt {
				continue
			}
			if len(queries) == max {
				return queries
			}
			if tt == domain.TargetTypeDomain {
				queries = append(queries, "site:"+ind.Value)
			} else {
				queries = append(queries, quoted(ind.Value))
			}
		}
	}

	return queries
}
