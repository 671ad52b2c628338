// internal/core/ports/probe.go
package ports

import (
	"context"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
)

// Probe es el port primario para todas las sondas de recolección.
// Cada sonda consulta una fuente concreta (DNS, RDAP, CT logs, etc.)
// y devuelve sus hallazgos sin efectos sobre el resto del pipeline.
type Probe interface {
	// Name retorna el nombre único de la sonda (ej: "dns", "rdap", "ctlog")
	Name() string

	// Targets retorna los tipos de objetivo que la sonda sabe procesar.
	// El orquestador solo invoca la sonda cuando el tipo del objetivo
	// aparece en esta lista.
	Targets() []domain.TargetType

	// Run ejecuta la sonda contra el objetivo y retorna sus hallazgos.
	// Un error aquí nunca aborta la recolección: el orquestador lo
	// degrada a evidencia de fallo y continúa con la siguiente sonda.
	Run(ctx context.Context, target domain.Target) (*domain.Findings, error)

	// Close libera recursos utilizados por la sonda (conexiones, etc.)
	Close() error
}

// ProbeConfig contiene la configuración específica de una sonda.
type ProbeConfig struct {
	// Enabled indica si la sonda está habilitada
	Enabled bool

	// Timeout tiempo máximo de ejecución de una invocación
	Timeout time.Duration

	// Priority prioridad de ejecución (mayor = antes)
	Priority int

	// Custom configuración específica de la sonda (API keys, resolvers, etc.)
	Custom map[string]interface{}
}

// DefaultProbeConfig retorna una configuración por defecto.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Enabled:  true,
		Timeout:  12 * time.Second,
		Priority: 0,
		Custom:   make(map[string]interface{}),
	}
}

// ProbeMetadata contiene metadatos sobre una sonda registrada.
type ProbeMetadata struct {
	Name         string
	Description  string
	Version      string
	Author       string
	RequiresAuth bool

	// Targets declara los tipos de objetivo que la sonda acepta.
	Targets []domain.TargetType

	// Priority prioridad por defecto al construir la sonda.
	Priority int
}

// Accepts indica si la sonda declara soporte para el tipo dado.
func (m ProbeMetadata) Accepts(t domain.TargetType) bool {
	for _, tt := range m.Targets {
		if tt == t {
			return true
		}
	}
	return false
}
