// internal/core/ports/searcher.go
package ports

import (
	"context"
	"time"
)

// Searcher es el port para proveedores de búsqueda web.
// La implementación concreta (Brave, Google CSE, DuckDuckGo) se decide
// por configuración; el orquestador solo conoce esta interfaz.
type Searcher interface {
	// Provider retorna el nombre del proveedor (ej: "brave", "google")
	Provider() string

	// Search ejecuta una consulta y retorna los resultados crudos.
	Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
}

// SearchOptions configura una consulta individual.
type SearchOptions struct {
	// Limit número máximo de resultados a retornar (0 = default del proveedor)
	Limit int

	// Timeout tiempo máximo para la consulta
	Timeout time.Duration
}

// DefaultSearchOptions retorna opciones por defecto.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:   10,
		Timeout: 10 * time.Second,
	}
}

// SearchResponse agrupa los resultados de una consulta. Se serializa tal
// cual dentro del payload de evidencia de la pasada de búsqueda.
type SearchResponse struct {
	Provider string      `json:"provider"`
	Query    string      `json:"query"`
	Results  []SearchHit `json:"results"`
}

// SearchHit es un resultado individual de búsqueda.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}
