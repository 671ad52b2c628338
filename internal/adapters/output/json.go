// internal/adapters/output/json.go

// Package output exporta un CollectionResult en formatos consumibles por
// el operador: documento JSON (stdout o fichero) y resumen de terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
)

// resultDocument es el sobre JSON público de un resultado. Los drafts del
// dominio no llevan tags JSON: la forma externa del documento la decide
// el exportador, no el dominio.
type resultDocument struct {
	Target          targetDocument     `json:"target"`
	Confidence      float64            `json:"confidence"`
	ConfidenceLabel string             `json:"confidence_label"`
	RiskDelta       int                `json:"risk_delta"`
	Entities        []entityDocument   `json:"entities"`
	Evidence        []evidenceDocument `json:"evidence"`
	Metadata        *metadataDocument  `json:"metadata,omitempty"`
}

type targetDocument struct {
	Value  string `json:"value"`
	Type   string `json:"type"`
	Depth  string `json:"depth"`
	CaseID string `json:"case_id,omitempty"`
}

type entityDocument struct {
	Type      string         `json:"type"`
	Value     string         `json:"value"`
	RiskLevel string         `json:"risk_level,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type evidenceDocument struct {
	Kind       string         `json:"kind"`
	Title      string         `json:"title"`
	Source     string         `json:"source"`
	Content    string         `json:"content,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type metadataDocument struct {
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	DurationMs     int64     `json:"duration_ms"`
	ProbesRun      []string  `json:"probes_run"`
	SearchProvider string    `json:"search_provider,omitempty"`
	Recursions     int       `json:"recursions"`
	Version        string    `json:"version,omitempty"`
}

// JSONExporter escribe el documento JSON del resultado.
type JSONExporter struct{}

// NewJSON crea el exportador JSON.
func NewJSON() *JSONExporter {
	return &JSONExporter{}
}

// Name retorna el nombre del exporter.
func (e *JSONExporter) Name() string {
	return "json"
}

// SupportedFormats retorna los formatos soportados.
func (e *JSONExporter) SupportedFormats() []string {
	return []string{"json"}
}

// Export escribe a stdout cuando OutputPath está vacío; en caso contrario
// OutputPath se interpreta como directorio y el documento se escribe en un
// fichero con sello temporal dentro de él.
func (e *JSONExporter) Export(result *domain.CollectionResult, opts ports.ExportOptions) error {
	if opts.OutputPath == "" {
		return e.ExportToWriter(result, os.Stdout, opts)
	}
	_, err := e.WriteFile(result, opts.OutputPath, opts)
	return err
}

// ExportToWriter escribe el documento en el writer indicado.
func (e *JSONExporter) ExportToWriter(result *domain.CollectionResult, writer io.Writer, opts ports.ExportOptions) error {
	enc := json.NewEncoder(writer)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(buildDocument(result, opts)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteFile escribe el documento en dir bajo un nombre derivado del
// objetivo y el instante actual, y retorna la ruta escrita.
func (e *JSONExporter) WriteFile(result *domain.CollectionResult, dir string, opts ports.ExportOptions) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("osint_%s_%s.json", sanitizeTargetName(result.Target.Value), timestamp)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := e.ExportToWriter(result, f, opts); err != nil {
		return "", err
	}
	return path, nil
}

// buildDocument aplana el resultado al sobre público aplicando las
// opciones: MinConfidence descarta la evidencia anotada por debajo del
// umbral (la no anotada se conserva: es contexto estructural, no señal
// débil) e IncludeMetadata controla el bloque de ejecución.
func buildDocument(result *domain.CollectionResult, opts ports.ExportOptions) resultDocument {
	doc := resultDocument{
		Target: targetDocument{
			Value:  result.Target.Value,
			Type:   string(result.Target.Type),
			Depth:  string(result.Target.Depth),
			CaseID: result.Target.CaseID,
		},
		Confidence:      result.Confidence,
		ConfidenceLabel: domain.GetConfidenceLabel(result.Confidence),
		RiskDelta:       result.RiskDelta,
		Entities:        make([]entityDocument, 0, len(result.Entities)),
		Evidence:        make([]evidenceDocument, 0, len(result.Evidence)),
	}

	for _, en := range result.Entities {
		doc.Entities = append(doc.Entities, entityDocument{
			Type:      string(en.Type),
			Value:     en.Value,
			RiskLevel: string(en.RiskLevel),
			Metadata:  en.Metadata,
		})
	}

	for _, ev := range result.Evidence {
		confidence, annotated := ev.Confidence()
		if annotated && confidence < opts.MinConfidence {
			continue
		}

		entry := evidenceDocument{
			Kind:     string(ev.Kind),
			Title:    ev.Title,
			Source:   ev.Source,
			Content:  ev.Content,
			Tags:     ev.Tags,
			Metadata: evidenceMeta(ev.Metadata),
		}
		if annotated {
			entry.Confidence = &confidence
		}
		doc.Evidence = append(doc.Evidence, entry)
	}

	if opts.IncludeMetadata {
		meta := result.Metadata
		doc.Metadata = &metadataDocument{
			StartedAt:      meta.StartedAt,
			EndedAt:        meta.EndedAt,
			DurationMs:     meta.Duration.Milliseconds(),
			ProbesRun:      meta.ProbesRun,
			SearchProvider: meta.SearchProvider,
			Recursions:     meta.Recursions,
			Version:        meta.Version,
		}
	}

	return doc
}

// evidenceMeta copia la metadata del draft sin la anotación de confianza,
// que ya viaja como campo propio del documento.
func evidenceMeta(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if k == domain.MetaConfidence {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sanitizeTargetName convierte el valor del objetivo en un fragmento
// seguro de nombre de fichero. Las descripciones de caso se truncan.
func sanitizeTargetName(value string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(value))

	const maxLen = 40
	if len(sanitized) > maxLen {
		sanitized = sanitized[:maxLen]
	}
	if sanitized == "" {
		sanitized = "result"
	}
	return sanitized
}
