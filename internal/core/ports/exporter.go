// internal/core/ports/exporter.go
package ports

import (
	"io"

	"github.com/theclubco2025/osint/internal/core/domain"
)

// Exporter es el port para exportar resultados en diferentes formatos.
type Exporter interface {
	// Name retorna el nombre del exporter (ej: "json", "summary")
	Name() string

	// SupportedFormats retorna los formatos soportados por el exporter
	SupportedFormats() []string

	// Export exporta el resultado en el formato especificado
	Export(result *domain.CollectionResult, opts ExportOptions) error
}

// WriterExporter permite exportar a cualquier io.Writer.
type WriterExporter interface {
	Exporter

	// ExportToWriter exporta el resultado a un Writer personalizado
	ExportToWriter(result *domain.CollectionResult, writer io.Writer, opts ExportOptions) error
}

// ExportOptions configura las opciones de exportación.
type ExportOptions struct {
	// OutputPath ruta donde guardar el resultado (vacío = stdout)
	OutputPath string

	// Format formato específico (json, summary)
	Format string

	// Pretty indica si el output debe ser formateado para legibilidad humana
	Pretty bool

	// IncludeMetadata si se debe incluir metadata de la recolección
	IncludeMetadata bool

	// MinConfidence confianza mínima para incluir evidencia (0.0-1.0)
	MinConfidence float64
}

// DefaultExportOptions retorna opciones por defecto.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		OutputPath:      "",
		Format:          "json",
		Pretty:          true,
		IncludeMetadata: true,
		MinConfidence:   0.0,
	}
}

// ExporterFactory es una función que crea una instancia de Exporter.
type ExporterFactory func() (Exporter, error)
