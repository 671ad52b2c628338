// internal/core/usecases/leads.go
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/theclubco2025/osint/internal/core/domain"
)

// followLeads recursa sobre los dominios y usernames descubiertos
// durante la recolección. Los sub-objetivos nacen con SkipWebSearch
// activo y profundidad normal, lo que corta la amplificación: un lead
// nunca genera más búsquedas ni más leads.
func (c *Collector) followLeads(ctx context.Context, col *collection) {
	if col.target.SkipWebSearch {
		return
	}
	if c.expired(col) {
		return
	}

	leads := c.pickLeads(col, domain.EntityTypeDomain, domain.TargetTypeDomain)
	leads = append(leads, c.pickLeads(col, domain.EntityTypeUsername, domain.TargetTypeUsername)...)
	if len(leads) == 0 {
		return
	}

	c.logger.Info("following leads", "count", len(leads))

	for _, lead := range leads {
		if c.expired(col) {
			return
		}
		c.recurse(ctx, col, lead, fmt.Sprintf("following lead %s %s", lead.Type, lead.Value))
	}
}

// pickLeads selecciona hasta limits.leads entidades del tipo dado como
// sub-objetivos, descartando el objetivo original y los duplicados.
func (c *Collector) pickLeads(col *collection, entityType domain.EntityType, targetType domain.TargetType) []domain.Target {
	var leads []domain.Target
	seen := make(map[string]struct{})

	for _, en := range c.dedupe.FilterByType(col.result.Entities, entityType) {
		value := strings.TrimSpace(en.Value)
		if value == "" || col.target.Matches(value) {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		leads = append(leads, col.target.Sub(value, targetType, domain.DepthNormal, true))
		if len(leads) >= col.limits.leads {
			break
		}
	}
	return leads
}
