// internal/core/usecases/dedupe_service.go
package usecases

import (
	"github.com/theclubco2025/osint/internal/core/domain"
)

// DedupeService maneja la deduplicación y normalización de entidades.
type DedupeService struct{}

// NewDedupeService crea una nueva instancia del servicio.
func NewDedupeService() *DedupeService {
	return &DedupeService{}
}

// Deduplicate normaliza y elimina duplicados de una lista de entidades.
// Gana la primera aparición de cada clave: la metadata de duplicados
// posteriores se descarta y el orden original se conserva, así la
// operación es estable e idempotente.
func (d *DedupeService) Deduplicate(entities []*domain.EntityDraft) []*domain.EntityDraft {
	if len(entities) == 0 {
		return entities
	}

	seen := make(map[string]struct{}, len(entities))
	result := make([]*domain.EntityDraft, 0, len(entities))

	for _, en := range entities {
		if en == nil {
			continue
		}
		en.Normalize()
		if !en.IsValid() {
			continue
		}

		key := en.Key()
		if _, found := seen[key]; found {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, en)
	}

	return result
}

// FilterByType filtra entidades por tipo.
func (d *DedupeService) FilterByType(entities []*domain.EntityDraft, types ...domain.EntityType) []*domain.EntityDraft {
	if len(types) == 0 {
		return entities
	}

	typeMap := make(map[domain.EntityType]bool)
	for _, t := range types {
		typeMap[t] = true
	}

	filtered := make([]*domain.EntityDraft, 0)
	for _, en := range entities {
		if typeMap[en.Type] {
			filtered = append(filtered, en)
		}
	}

	return filtered
}

// GroupByType agrupa entidades por tipo.
func (d *DedupeService) GroupByType(entities []*domain.EntityDraft) map[domain.EntityType][]*domain.EntityDraft {
	groups := make(map[domain.EntityType][]*domain.EntityDraft)
	for _, en := range entities {
		groups[en.Type] = append(groups[en.Type], en)
	}
	return groups
}
