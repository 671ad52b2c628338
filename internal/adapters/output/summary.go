// internal/adapters/output/summary.go
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
)

// SummaryExporter imprime un resumen legible en terminal.
type SummaryExporter struct{}

// NewSummary crea el exportador de resumen.
func NewSummary() *SummaryExporter {
	return &SummaryExporter{}
}

// Name retorna el nombre del exporter.
func (e *SummaryExporter) Name() string {
	return "summary"
}

// SupportedFormats retorna los formatos soportados.
func (e *SummaryExporter) SupportedFormats() []string {
	return []string{"summary"}
}

// Export imprime el resumen en stdout.
func (e *SummaryExporter) Export(result *domain.CollectionResult, opts ports.ExportOptions) error {
	return e.ExportToWriter(result, os.Stdout, opts)
}

// ExportToWriter imprime el resumen en el writer indicado.
func (e *SummaryExporter) ExportToWriter(result *domain.CollectionResult, out io.Writer, opts ports.ExportOptions) error {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\n=== OSINT Collection Results ===\n")
	fmt.Fprintf(w, "Target:\t%s\n", describeValue(result.Target))
	fmt.Fprintf(w, "Type:\t%s\n", result.Target.Type)
	fmt.Fprintf(w, "Depth:\t%s\n", result.Target.Depth)
	if result.Target.CaseID != "" {
		fmt.Fprintf(w, "Case:\t%s\n", result.Target.CaseID)
	}
	fmt.Fprintf(w, "Duration:\t%s\n", result.Metadata.Duration)
	fmt.Fprintf(w, "Probes:\t%s\n", strings.Join(result.Metadata.ProbesRun, ", "))
	if result.Metadata.SearchProvider != "" {
		fmt.Fprintf(w, "Search:\t%s\n", result.Metadata.SearchProvider)
	}
	if result.Metadata.Recursions > 0 {
		fmt.Fprintf(w, "Recursions:\t%d\n", result.Metadata.Recursions)
	}
	fmt.Fprintf(w, "Confidence:\t%.3f (%s)\n", result.Confidence, domain.GetConfidenceLabel(result.Confidence))
	if result.RiskDelta != 0 {
		fmt.Fprintf(w, "Risk delta:\t%+d\n", result.RiskDelta)
	}
	fmt.Fprintf(w, "Evidence:\t%d\n", result.TotalEvidence())
	fmt.Fprintf(w, "Entities:\t%d\n\n", result.TotalEntities())

	// Tabla de entidades, ya deduplicadas y en orden de descubrimiento
	if len(result.Entities) > 0 {
		fmt.Fprintln(w, "TYPE\tVALUE\tRISK")
		fmt.Fprintln(w, "----\t-----\t----")

		for _, en := range result.Entities {
			risk := string(en.RiskLevel)
			if risk == "" {
				risk = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", en.Type, en.Value, risk)
		}
	} else {
		fmt.Fprintln(w, "No entities discovered.")
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}

	// Consultas degradadas u omitidas, el análogo de los warnings de un scan
	degraded := degradedEvidence(result.Evidence)
	if len(degraded) > 0 {
		fmt.Fprintf(out, "\n⚠️  Degraded lookups (%d):\n", len(degraded))
		for i, ev := range degraded {
			fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, ev.Source, ev.Title)
		}
	}

	if len(result.Entities) > 0 {
		fmt.Fprintln(out, "\n📊 Entities by Type:")
		stats := result.EntityStats()
		types := make([]string, 0, len(stats))
		for entityType := range stats {
			types = append(types, entityType)
		}
		sort.Strings(types)
		for _, entityType := range types {
			fmt.Fprintf(out, "  - %s: %d\n", entityType, stats[entityType])
		}
	}

	fmt.Fprintln(out)
	return nil
}

// degradedEvidence filtra la evidencia anotada al nivel de fallo u omisión.
func degradedEvidence(evidence []*domain.EvidenceDraft) []*domain.EvidenceDraft {
	var out []*domain.EvidenceDraft
	for _, ev := range evidence {
		if c, ok := ev.Confidence(); ok && c <= domain.ConfidenceFailed {
			out = append(out, ev)
		}
	}
	return out
}

// describeValue acorta las descripciones de caso para el encabezado.
func describeValue(target domain.Target) string {
	if target.Type != domain.TargetTypeCase {
		return target.Value
	}
	const maxLen = 60
	value := strings.Join(strings.Fields(target.Value), " ")
	if runes := []rune(value); len(runes) > maxLen {
		value = string(runes[:maxLen]) + "..."
	}
	return value
}
