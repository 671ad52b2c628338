// Package rdap consulta el agregador público rdap.org para obtener datos
// de registro de dominios e IPs (Registration Data Access Protocol).
// Las respuestas se cachean durante la ejecución para que el seguimiento
// recursivo de leads no repita consultas sobre el mismo recurso.
package rdap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/cache"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/platform/registry"
)

// Auto-registro del probe al importar el package
func init() {
	if err := registry.Global().Register(
		probeName,
		func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
			return New(cfg, logger), nil
		},
		ports.ProbeMetadata{
			Name:         probeName,
			Description:  "Registration data lookup via the rdap.org aggregator",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypeDomain,
				domain.TargetTypeIP,
			},
			Priority: 90,
		},
	); err != nil {
		logx.New().Warn("failed to register rdap probe", "error", err.Error())
	}
}

const (
	probeName = "rdap"
	tagRDAP   = "rdap"

	defaultBaseURL = "https://rdap.org"
	defaultTimeout = 10 * time.Second

	// rdapConfidence: datos oficiales de registro, por debajo de una
	// resolución directa pero por encima de fuentes agregadas.
	rdapConfidence = 0.85

	cacheTTL = 24 * time.Hour
)

// Probe implementa ports.Probe para consultas RDAP.
type Probe struct {
	client      httpclient.Client
	cache       *cache.MemoryCache
	baseURL     string
	timeout     time.Duration
	logger      logx.Logger
	stopCleanup func()
}

// rdapResponse es la respuesta RDAP reducida a los campos que consumimos.
type rdapResponse struct {
	ObjectClassName string       `json:"objectClassName"`
	Handle          string       `json:"handle"`
	LDHName         string       `json:"ldhName"`
	Name            string       `json:"name"`
	Status          []string     `json:"status"`
	Events          []rdapEvent  `json:"events"`
	Remarks         []rdapRemark `json:"remarks"`
}

type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

type rdapRemark struct {
	Title       string   `json:"title"`
	Description []string `json:"description"`
}

// rdapSummary es el payload de la evidencia JSON.
type rdapSummary struct {
	Query  string      `json:"query"`
	Kind   string      `json:"kind"`
	Handle string      `json:"handle,omitempty"`
	Name   string      `json:"name,omitempty"`
	Status []string    `json:"status,omitempty"`
	Events []rdapEvent `json:"events,omitempty"`
	Org    string      `json:"org,omitempty"`
}

// New crea un probe RDAP a partir de su configuración. Custom admite
// "base_url" para apuntar a un agregador distinto.
func New(cfg ports.ProbeConfig, logger logx.Logger) *Probe {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpConfig := httpclient.Config{
		Timeout:        timeout,
		MaxRetries:     1,
		RetryBackoff:   500 * time.Millisecond,
		UserAgent:      httpclient.DefaultUserAgent,
		RateLimit:      2,
		RateLimitBurst: 1,
	}

	responseCache := cache.NewMemoryCache(256)

	p := &Probe{
		client:  *httpclient.New(httpConfig, logger),
		cache:   responseCache,
		baseURL: strings.TrimSuffix(registry.GetStringConfig(cfg.Custom, "base_url", defaultBaseURL), "/"),
		timeout: timeout,
		logger:  logger.With("probe", probeName),
	}
	p.stopCleanup = responseCache.StartCleanupWorker(1 * time.Hour)

	return p
}

// Name implementa ports.Probe.
func (p *Probe) Name() string {
	return probeName
}

// Targets implementa ports.Probe.
func (p *Probe) Targets() []domain.TargetType {
	return []domain.TargetType{domain.TargetTypeDomain, domain.TargetTypeIP}
}

// Run implementa ports.Probe. Hace un único GET al agregador; un fallo se
// degrada a evidencia de confianza baja en lugar de propagarse.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	path, query := p.queryPath(target)
	p.logger.Debug("querying RDAP aggregator", "query", query, "path", path)

	resp, err := p.fetch(ctx, path)
	if err != nil {
		p.logger.Warn("RDAP lookup failed", "query", query, "error", err.Error())
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("RDAP lookup failed for %s", query),
			probeName,
			err.Error(),
		).WithTags(tagRDAP, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	summary := &rdapSummary{
		Query:  query,
		Kind:   string(target.Type),
		Handle: resp.Handle,
		Name:   displayName(resp),
		Status: resp.Status,
		Events: resp.Events,
		Org:    orgFromResponse(resp),
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("RDAP registration data for %s", query),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagRDAP).WithConfidence(rdapConfidence))
	}

	if summary.Org != "" {
		findings.AddEntity(domain.NewEntity(domain.EntityTypeOrg, summary.Org).
			WithMeta("registry", probeName).
			WithMeta("handle", resp.Handle))
	}

	p.logger.Info("RDAP lookup completed",
		"query", query,
		"handle", resp.Handle,
		"org", summary.Org,
	)

	return findings, nil
}

// Close implementa ports.Probe. Detiene el cleanup worker del cache.
func (p *Probe) Close() error {
	if p.stopCleanup != nil {
		p.stopCleanup()
	}
	return nil
}

// queryPath resuelve el path RDAP según el tipo de objetivo: /ip/{addr}
// para IPs, /domain/{eTLD+1} para dominios.
func (p *Probe) queryPath(target domain.Target) (path, query string) {
	value := strings.TrimSpace(target.Value)
	if target.Type == domain.TargetTypeIP {
		return "/ip/" + value, value
	}

	name := p.baseDomain(value)
	return "/domain/" + name, name
}

// fetch consulta el agregador colapsando peticiones duplicadas en vuelo y
// cacheando la respuesta parseada. La llamada completa queda acotada por el
// timeout del probe aunque el transporte reintente.
func (p *Probe) fetch(ctx context.Context, path string) (*rdapResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	v, err := p.cache.GetOrFetch(ctx, "rdap:"+path, cacheTTL, func(ctx context.Context) (interface{}, error) {
		body, err := p.client.FetchJSON(ctx, p.baseURL+path)
		if err != nil {
			return nil, err
		}

		var parsed rdapResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := v.(*rdapResponse)
	if !ok {
		return nil, errors.New("unexpected cache payload type")
	}
	return resp, nil
}

// baseDomain extrae el eTLD+1 usando la Public Suffix List, con fallback
// al valor limpio cuando la lista no lo reconoce (hosts internos, etc.)
func (p *Probe) baseDomain(value string) string {
	value = strings.TrimSuffix(strings.ToLower(value), ".")

	base, err := publicsuffix.EffectiveTLDPlusOne(value)
	if err != nil {
		p.logger.Debug("eTLD+1 extraction failed, using raw value",
			"value", value,
			"error", err.Error(),
		)
		return value
	}
	return base
}

// displayName prefiere el nombre de red RDAP y cae al ldhName del dominio.
func displayName(resp *rdapResponse) string {
	if resp.Name != "" {
		return resp.Name
	}
	return resp.LDHName
}

// orgFromResponse extrae el nombre de organización: el campo name si está
// presente, si no la primera línea de descripción del primer remark.
func orgFromResponse(resp *rdapResponse) string {
	if name := strings.TrimSpace(resp.Name); name != "" {
		return name
	}

	for _, remark := range resp.Remarks {
		for _, line := range remark.Description {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return ""
}
