// internal/core/domain/drafts.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theclubco2025/osint/internal/platform/validator"
)

// EvidenceKind clasifica el contenido de un item de evidencia.
type EvidenceKind string

const (
	// EvidenceKindJSON contenido serializado como JSON
	EvidenceKindJSON EvidenceKind = "json"

	// EvidenceKindText contenido en texto plano
	EvidenceKindText EvidenceKind = "text"
)

// IsValid verifica si el kind es válido.
func (k EvidenceKind) IsValid() bool {
	return k == EvidenceKindJSON || k == EvidenceKindText
}

// MetaConfidence es la clave de metadata que anota la fiabilidad [0.0-1.0]
// de un item de evidencia. Es la única señal por-item que consume el scorer.
const MetaConfidence = "confidence"

// EvidenceDraft representa una unidad de material recolectado, previa a su
// persistencia. Los drafts son append-only dentro de una recolección: el
// orquestador nunca muta un draft después de crearlo, solo acumula.
type EvidenceDraft struct {
	// Kind clasifica el contenido (json, text)
	Kind EvidenceKind

	// Title título corto legible
	Title string

	// Source nombre legible del proveedor que lo produjo
	Source string

	// Content contenido serializado
	Content string

	// Tags permite categorización adicional
	Tags []string

	// Metadata información adicional; Metadata[MetaConfidence] anota la
	// fiabilidad del item
	Metadata map[string]any
}

// NewEvidence crea un draft de evidencia.
func NewEvidence(kind EvidenceKind, title, source, content string) *EvidenceDraft {
	return &EvidenceDraft{
		Kind:     kind,
		Title:    strings.TrimSpace(title),
		Source:   strings.TrimSpace(source),
		Content:  content,
		Tags:     []string{},
		Metadata: make(map[string]any),
	}
}

// NewTextEvidence crea un draft de evidencia de texto plano.
func NewTextEvidence(title, source, content string) *EvidenceDraft {
	return NewEvidence(EvidenceKindText, title, source, content)
}

// NewJSONEvidence crea un draft de evidencia serializando payload como JSON.
func NewJSONEvidence(title, source string, payload any) (*EvidenceDraft, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvidence, err)
	}
	return NewEvidence(EvidenceKindJSON, title, source, string(data)), nil
}

// WithConfidence anota la fiabilidad del item y retorna el mismo draft.
func (e *EvidenceDraft) WithConfidence(confidence float64) *EvidenceDraft {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[MetaConfidence] = confidence
	return e
}

// WithTags añade tags y retorna el mismo draft.
func (e *EvidenceDraft) WithTags(tags ...string) *EvidenceDraft {
	for _, t := range tags {
		e.AddTag(t)
	}
	return e
}

// Confidence retorna la anotación de fiabilidad si existe y es numérica.
func (e *EvidenceDraft) Confidence() (float64, bool) {
	if e.Metadata == nil {
		return 0, false
	}
	switch v := e.Metadata[MetaConfidence].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AddTag añade un tag sin duplicados.
func (e *EvidenceDraft) AddTag(tag string) {
	if tag == "" {
		return
	}
	for _, t := range e.Tags {
		if t == tag {
			return
		}
	}
	e.Tags = append(e.Tags, tag)
}

// IsValid verifica si el draft tiene datos válidos.
func (e *EvidenceDraft) IsValid() bool {
	if !e.Kind.IsValid() {
		return false
	}
	if e.Title == "" || e.Source == "" {
		return false
	}
	return true
}

// String retorna una representación legible del draft.
func (e *EvidenceDraft) String() string {
	if c, ok := e.Confidence(); ok {
		return fmt.Sprintf("[%s] %s (source: %s, confidence: %.2f)", e.Kind, e.Title, e.Source, c)
	}
	return fmt.Sprintf("[%s] %s (source: %s)", e.Kind, e.Title, e.Source)
}

// EntityDraft representa un indicador descubierto, previo a su persistencia.
// Dos entidades con la misma clave son duplicados sin importar su metadata.
type EntityDraft struct {
	// Type clasifica la entidad
	Type EntityType

	// Value valor normalizado de la entidad
	Value string

	// RiskLevel nivel de riesgo opcional (vacío = sin calificar)
	RiskLevel RiskLevel

	// Metadata información adicional de provenance
	Metadata map[string]any
}

// NewEntity crea un draft de entidad normalizando el valor según su tipo.
func NewEntity(entityType EntityType, value string) *EntityDraft {
	e := &EntityDraft{
		Type:     entityType,
		Value:    value,
		Metadata: make(map[string]any),
	}
	e.Normalize()
	return e
}

// Normalize normaliza el valor de la entidad según su tipo.
func (e *EntityDraft) Normalize() {
	e.Value = strings.TrimSpace(e.Value)

	switch e.Type {
	case EntityTypeDomain:
		e.Value = validator.NormalizeDomain(e.Value)
	case EntityTypeEmail:
		e.Value = validator.NormalizeEmail(e.Value)
	case EntityTypeIP:
		if normalized := validator.NormalizeIP(e.Value); normalized != "" {
			e.Value = normalized
		}
	case EntityTypeURL:
		e.Value = validator.NormalizeURL(e.Value)
	}
}

// Key retorna la clave de identidad de la entidad: lower(type):lower(value).
func (e *EntityDraft) Key() string {
	return strings.ToLower(string(e.Type)) + ":" + strings.ToLower(strings.TrimSpace(e.Value))
}

// WithRisk califica el riesgo y retorna el mismo draft.
func (e *EntityDraft) WithRisk(level RiskLevel) *EntityDraft {
	e.RiskLevel = level
	return e
}

// WithMeta anota un par de metadata y retorna el mismo draft.
func (e *EntityDraft) WithMeta(key string, value any) *EntityDraft {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// MetaString retorna un valor de metadata como string si existe.
func (e *EntityDraft) MetaString(key string) (string, bool) {
	if e.Metadata == nil {
		return "", false
	}
	s, ok := e.Metadata[key].(string)
	return s, ok
}

// IsValid verifica si el draft tiene datos válidos.
func (e *EntityDraft) IsValid() bool {
	if !e.Type.IsValid() {
		return false
	}
	if strings.TrimSpace(e.Value) == "" {
		return false
	}
	if e.RiskLevel != "" && !e.RiskLevel.IsValid() {
		return false
	}
	return true
}

// String retorna una representación legible del draft.
func (e *EntityDraft) String() string {
	if e.RiskLevel != "" {
		return fmt.Sprintf("[%s] %s (risk: %s)", e.Type, e.Value, e.RiskLevel)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Value)
}
