// internal/platform/ui/presenter.go

// Package ui presenta el progreso de una recolección en terminal. El
// motor emite pasos como texto libre; el presenter decide cómo
// renderizarlos según el modo: spinner interactivo, logfmt plano o nada.
package ui

import (
	"os"
	"time"
)

// Mode define el modo de visualización.
type Mode string

const (
	// ModeFancy spinner y paneles pterm (terminal interactiva)
	ModeFancy Mode = "fancy"

	// ModePlain líneas logfmt sin control de cursor (pipes, CI)
	ModePlain Mode = "plain"

	// ModeQuiet sin salida visual
	ModeQuiet Mode = "quiet"
)

// Presenter define la interfaz para presentar el progreso de una
// recolección de manera visual.
type Presenter interface {
	// Start inicia la presentación con información de la recolección
	Start(info CollectionInfo)

	// Step muestra el paso en curso del motor
	Step(msg string)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con estadísticas finales
	Finish(stats CollectionStats)

	// Close limpia recursos del presenter
	Close() error
}

// CollectionInfo contiene información inicial de la recolección.
type CollectionInfo struct {
	Target         string
	Type           string
	Depth          string
	CaseID         string
	Budget         time.Duration
	Probes         []string
	SearchProvider string
	Version        string
}

// CollectionStats contiene estadísticas finales de la recolección.
type CollectionStats struct {
	Duration        time.Duration
	Evidence        int
	Entities        int
	Recursions      int
	RiskDelta       int
	Confidence      float64
	ConfidenceLabel string
	ProbesRun       []string
	EntitiesByType  map[string]int
}

// New construye el presenter para el modo dado.
func New(mode Mode) Presenter {
	switch mode {
	case ModeQuiet:
		return NewNoop()
	case ModePlain:
		return NewPlain(os.Stdout)
	default:
		return NewPTerm()
	}
}

// DetectMode elige el modo según la configuración y el destino de la
// salida: quiet manda, y sin terminal interactiva se cae a plain.
func DetectMode(quiet bool, out *os.File) Mode {
	if quiet {
		return ModeQuiet
	}
	if !isTerminal(out) {
		return ModePlain
	}
	return ModeFancy
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
