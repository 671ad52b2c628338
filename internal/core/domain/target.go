// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"github.com/theclubco2025/osint/internal/platform/validator"
)

// Target representa el identificador objetivo de una recolección.
// Es inmutable una vez que la recolección arranca.
type Target struct {
	// Value es el valor ya normalizado del objetivo. Para type=case es la
	// descripción libre completa, sin normalizar.
	Value string

	// Type clasifica el objetivo (domain, email, username, ip, phone,
	// address, name, case)
	Type TargetType

	// Depth define el nivel de esfuerzo (normal, thorough)
	Depth Depth

	// CaseID identificador opcional del caso al que pertenece la recolección
	CaseID string

	// SkipWebSearch suprime la pasada de búsqueda web. Se activa en las
	// invocaciones recursivas para evitar amplificación de búsquedas.
	SkipWebSearch bool
}

// NewTarget crea un nuevo target con profundidad por defecto.
func NewTarget(value string, targetType TargetType) *Target {
	return &Target{
		Value: strings.TrimSpace(value),
		Type:  targetType,
		Depth: DepthNormal,
	}
}

// Validate verifica que el target sea válido.
func (t *Target) Validate() error {
	if strings.TrimSpace(t.Value) == "" {
		return ErrEmptyTarget
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidTargetType, t.Type)
	}
	if !t.Depth.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidDepth, t.Depth)
	}

	switch t.Type {
	case TargetTypeDomain:
		t.Value = validator.NormalizeDomain(t.Value)
		if !validator.IsDomain(t.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidTargetValue, t.Value)
		}
	case TargetTypeEmail:
		t.Value = validator.NormalizeEmail(t.Value)
		if !validator.IsEmail(t.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidTargetValue, t.Value)
		}
	case TargetTypeIP:
		normalized := validator.NormalizeIP(t.Value)
		if normalized == "" {
			return fmt.Errorf("%w: %s", ErrInvalidTargetValue, t.Value)
		}
		t.Value = normalized
	}

	return nil
}

// Matches compara un valor con el objetivo sin distinguir mayúsculas.
// Se usa para excluir el target original al seguir leads.
func (t *Target) Matches(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), t.Value)
}

// Sub crea el target de una sub-recolección. Hereda caso y profundidad
// del padre; la supresión de búsqueda la decide el orquestador.
func (t *Target) Sub(value string, targetType TargetType, depth Depth, skipSearch bool) Target {
	return Target{
		Value:         strings.TrimSpace(value),
		Type:          targetType,
		Depth:         depth,
		CaseID:        t.CaseID,
		SkipWebSearch: skipSearch,
	}
}

// String retorna una representación legible del target.
func (t *Target) String() string {
	value := t.Value
	if t.Type == TargetTypeCase && len(value) > 40 {
		value = value[:40] + "..."
	}
	return fmt.Sprintf("Target{type=%s, value=%s, depth=%s}", t.Type, value, t.Depth)
}
