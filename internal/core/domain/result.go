// internal/core/domain/result.go
package domain

import (
	"fmt"
	"time"
)

// Findings acumula los hallazgos de un probe o de una rama de recolección.
// La fusión es por concatenación: el orden de append se preserva siempre.
type Findings struct {
	// Evidence items de evidencia en orden de descubrimiento
	Evidence []*EvidenceDraft

	// Entities entidades descubiertas, aún sin deduplicar
	Entities []*EntityDraft

	// RiskDelta incremento de riesgo aportado por estos hallazgos
	RiskDelta int
}

// NewFindings crea un acumulador vacío.
func NewFindings() *Findings {
	return &Findings{
		Evidence: []*EvidenceDraft{},
		Entities: []*EntityDraft{},
	}
}

// AddEvidence añade un item de evidencia al acumulador.
func (f *Findings) AddEvidence(ev *EvidenceDraft) {
	if ev != nil && ev.IsValid() {
		f.Evidence = append(f.Evidence, ev)
	}
}

// AddEntity añade una entidad al acumulador.
func (f *Findings) AddEntity(en *EntityDraft) {
	if en != nil && en.IsValid() {
		f.Entities = append(f.Entities, en)
	}
}

// AddEntities añade múltiples entidades al acumulador.
func (f *Findings) AddEntities(entities ...*EntityDraft) {
	for _, en := range entities {
		f.AddEntity(en)
	}
}

// AddRisk suma un incremento de riesgo.
func (f *Findings) AddRisk(delta int) {
	f.RiskDelta += delta
}

// Merge concatena los hallazgos de otro acumulador preservando el orden.
func (f *Findings) Merge(other *Findings) {
	if other == nil {
		return
	}
	f.Evidence = append(f.Evidence, other.Evidence...)
	f.Entities = append(f.Entities, other.Entities...)
	f.RiskDelta += other.RiskDelta
}

// IsEmpty indica si el acumulador no tiene hallazgos.
func (f *Findings) IsEmpty() bool {
	return len(f.Evidence) == 0 && len(f.Entities) == 0 && f.RiskDelta == 0
}

// CollectionResult representa el resultado completo de una recolección.
type CollectionResult struct {
	// Target objetivo de la recolección
	Target Target

	// Evidence items de evidencia acumulados
	Evidence []*EvidenceDraft

	// Entities entidades descubiertas, ya deduplicadas
	Entities []*EntityDraft

	// RiskDelta riesgo acumulado de todos los probes y recursiones
	RiskDelta int

	// Confidence puntuación agregada [0.0-1.0] calculada por el scorer
	Confidence float64

	// Metadata información sobre la ejecución
	Metadata CollectionMetadata
}

// CollectionMetadata contiene información sobre la ejecución de la recolección.
type CollectionMetadata struct {
	// StartedAt momento de inicio
	StartedAt time.Time

	// EndedAt momento de finalización
	EndedAt time.Time

	// Duration duración total
	Duration time.Duration

	// ProbesRun nombres de los probes ejecutados
	ProbesRun []string

	// SearchProvider proveedor de búsqueda usado (vacío = sin búsqueda)
	SearchProvider string

	// Recursions número de sub-recolecciones ejecutadas
	Recursions int

	// Version versión del colector
	Version string
}

// NewCollectionResult crea un resultado vacío para un target.
func NewCollectionResult(target Target) *CollectionResult {
	return &CollectionResult{
		Target:   target,
		Evidence: []*EvidenceDraft{},
		Entities: []*EntityDraft{},
		Metadata: CollectionMetadata{
			StartedAt: time.Now(),
			ProbesRun: []string{},
		},
	}
}

// Absorb incorpora hallazgos al resultado preservando el orden de append.
func (r *CollectionResult) Absorb(f *Findings) {
	if f == nil {
		return
	}
	r.Evidence = append(r.Evidence, f.Evidence...)
	r.Entities = append(r.Entities, f.Entities...)
	r.RiskDelta += f.RiskDelta
}

// RecordProbe registra un probe ejecutado.
func (r *CollectionResult) RecordProbe(name string) {
	r.Metadata.ProbesRun = append(r.Metadata.ProbesRun, name)
}

// Finalize cierra la recolección: sella tiempos y calcula la confianza
// agregada sobre toda la evidencia acumulada.
func (r *CollectionResult) Finalize() {
	r.Metadata.EndedAt = time.Now()
	r.Metadata.Duration = r.Metadata.EndedAt.Sub(r.Metadata.StartedAt)
	r.Confidence = Score(r.Evidence)
}

// EntityStats retorna el número de entidades agrupadas por tipo.
func (r *CollectionResult) EntityStats() map[string]int {
	stats := make(map[string]int)
	for _, en := range r.Entities {
		stats[string(en.Type)]++
	}
	return stats
}

// TotalEvidence retorna el número total de items de evidencia.
func (r *CollectionResult) TotalEvidence() int {
	return len(r.Evidence)
}

// TotalEntities retorna el número total de entidades.
func (r *CollectionResult) TotalEntities() int {
	return len(r.Entities)
}

// Summary retorna un resumen legible del resultado.
func (r *CollectionResult) Summary() string {
	return fmt.Sprintf(
		"CollectionResult{target=%s, evidence=%d, entities=%d, risk=%+d, confidence=%.3f, duration=%s}",
		r.Target.Value,
		len(r.Evidence),
		len(r.Entities),
		r.RiskDelta,
		r.Confidence,
		r.Metadata.Duration,
	)
}
