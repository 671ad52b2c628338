// internal/platform/ui/plain_presenter.go
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// PlainPresenter implementa Presenter emitiendo líneas logfmt sin control
// de cursor. Es el modo para pipes y CI, donde un spinner solo ensucia.
type PlainPresenter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPlain crea un presenter de líneas planas sobre el writer dado.
func NewPlain(out io.Writer) *PlainPresenter {
	return &PlainPresenter{out: out}
}

// log escribe una línea logfmt: timestamp LEVEL message key=value...
// Las claves van ordenadas para que la salida sea determinista.
func (r *PlainPresenter) log(level, message string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	parts := []string{
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf("%-5s", level),
		message,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(fields[k])))
	}

	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios).
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, " ") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.String()
	case float64:
		return fmt.Sprintf("%.3f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Start inicia la presentación.
func (r *PlainPresenter) Start(info CollectionInfo) {
	fields := map[string]any{
		"target": info.Target,
		"type":   info.Type,
		"depth":  info.Depth,
		"budget": info.Budget,
		"probes": strings.Join(info.Probes, ","),
	}
	if info.CaseID != "" {
		fields["case"] = info.CaseID
	}
	if info.SearchProvider != "" {
		fields["search"] = info.SearchProvider
	}
	if info.Version != "" {
		fields["version"] = info.Version
	}

	r.log("INFO", "collection_started", fields)
}

// Step muestra el paso en curso del motor.
func (r *PlainPresenter) Step(msg string) {
	r.log("INFO", "step", map[string]any{"msg": msg})
}

// Info muestra un mensaje informativo.
func (r *PlainPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning muestra una advertencia.
func (r *PlainPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error muestra un error.
func (r *PlainPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Finish finaliza la presentación con estadísticas finales.
func (r *PlainPresenter) Finish(stats CollectionStats) {
	r.log("INFO", "collection_completed", map[string]any{
		"duration":   stats.Duration,
		"evidence":   stats.Evidence,
		"entities":   stats.Entities,
		"recursions": stats.Recursions,
		"risk":       stats.RiskDelta,
		"confidence": stats.Confidence,
		"label":      stats.ConfidenceLabel,
		"probes":     strings.Join(stats.ProbesRun, ","),
	})

	if len(stats.EntitiesByType) > 0 {
		fields := make(map[string]any, len(stats.EntitiesByType))
		for entityType, count := range stats.EntitiesByType {
			fields[entityType] = count
		}
		r.log("INFO", "entities_by_type", fields)
	}
}

// Close limpia recursos.
func (r *PlainPresenter) Close() error {
	return nil
}
