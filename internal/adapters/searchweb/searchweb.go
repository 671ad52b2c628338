// Package searchweb implementa el port de búsqueda web con un proveedor
// activo a la vez: Brave Search API, Google Custom Search o el endpoint
// HTML de DuckDuckGo. Cada proveedor normaliza su formato de respuesta al
// registro común y descarta resultados sin título ni URL.
package searchweb

import (
	"context"
	"strings"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/platform/rate"
)

const (
	ProviderBrave      = "brave"
	ProviderGoogle     = "google"
	ProviderDuckDuckGo = "duckduckgo"

	defaultTimeout = 10 * time.Second

	// queryDelay espacia las consultas como medida de cortesía hacia el
	// proveedor, también antes de la primera.
	queryDelay = 400 * time.Millisecond
)

// Config selecciona y credencializa el proveedor activo. Provider vacío
// significa búsqueda desactivada.
type Config struct {
	Provider  string
	BraveKey  string
	GoogleKey string
	GoogleCX  string

	// BaseURL sustituye el endpoint del proveedor (tests, proxies)
	BaseURL string

	// Timeout del transporte HTTP (0 = default)
	Timeout time.Duration

	UserAgent string
}

// ValidProvider indica si el nombre corresponde a un proveedor soportado.
func ValidProvider(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderBrave, ProviderGoogle, ProviderDuckDuckGo:
		return true
	}
	return false
}

// New construye el Searcher configurado, con el pacing de cortesía ya
// aplicado. Retorna (nil, nil) cuando no hay proveedor configurado: la
// búsqueda desactivada es un estado legítimo, no un error.
func New(cfg Config, logger logx.Logger) (ports.Searcher, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		return nil, nil
	}

	var inner ports.Searcher
	switch provider {
	case ProviderBrave:
		if cfg.BraveKey == "" {
			return nil, errors.Wrap(domain.ErrInvalidConfig, "brave search requires an API key")
		}
		inner = newBrave(cfg, logger)
	case ProviderGoogle:
		if cfg.GoogleKey == "" || cfg.GoogleCX == "" {
			return nil, errors.Wrap(domain.ErrInvalidConfig, "google search requires an API key and engine id")
		}
		inner = newGoogle(cfg, logger)
	case ProviderDuckDuckGo:
		inner = newDuckDuckGo(cfg, logger)
	default:
		return nil, errors.Wrapf(domain.ErrInvalidConfig, "unknown search provider %q", provider)
	}

	return &pacedSearcher{inner: inner, pace: rate.NewInterval(queryDelay)}, nil
}

// pacedSearcher antepone el delay de cortesía a cada consulta del
// proveedor envuelto.
type pacedSearcher struct {
	inner ports.Searcher
	pace  *rate.Limiter
}

func (p *pacedSearcher) Provider() string {
	return p.inner.Provider()
}

func (p *pacedSearcher) Search(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error) {
	if err := p.pace.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Search(ctx, query, opts)
}

// searchContext acota una consulta individual con el timeout de Options.
func searchContext(ctx context.Context, opts ports.SearchOptions) (context.Context, context.CancelFunc) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// normalizeHits recorta espacios, descarta resultados sin título ni URL y
// aplica el límite pedido.
func normalizeHits(hits []ports.SearchHit, limit int) []ports.SearchHit {
	out := make([]ports.SearchHit, 0, len(hits))
	for _, hit := range hits {
		hit.Title = strings.TrimSpace(hit.Title)
		hit.URL = strings.TrimSpace(hit.URL)
		hit.Snippet = strings.TrimSpace(hit.Snippet)

		if hit.Title == "" && hit.URL == "" {
			continue
		}

		out = append(out, hit)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// newHTTPClient comparte la configuración de transporte entre proveedores.
func newHTTPClient(cfg Config, logger logx.Logger) httpclient.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = httpclient.DefaultUserAgent
	}

	return *httpclient.New(httpclient.Config{
		Timeout:        timeout,
		MaxRetries:     1,
		RetryBackoff:   500 * time.Millisecond,
		UserAgent:      userAgent,
		RateLimit:      2,
		RateLimitBurst: 1,
	}, logger)
}
