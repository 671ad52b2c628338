// Package geocode resuelve direcciones postales contra la API pública de
// Nominatim (OpenStreetMap). La política de uso del servicio exige como
// máximo una petición por segundo, de ahí el delay de cortesía antes de
// cada consulta.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/platform/rate"
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
			Description:  "Address geocoding via the public Nominatim API",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypeAddress,
			},
			Priority: 70,
		},
	); err != nil {
		logx.New().Warn("failed to register geocode probe", "error", err.Error())
	}
}

const (
	probeName  = "geocode"
	tagGeocode = "geocode"

	defaultBaseURL = "https://nominatim.openstreetmap.org"
	defaultTimeout = 10 * time.Second
	defaultDelay   = 1 * time.Second
	maxResults     = 3

	// geocodeConfidence: la coincidencia depende de lo bien escrita que
	// esté la dirección, Nominatim devuelve candidatos, no certezas.
	geocodeConfidence = 0.7
)

// Probe implementa ports.Probe sobre la búsqueda de Nominatim.
type Probe struct {
	client  httpclient.Client
	limiter *rate.Limiter
	baseURL string
	timeout time.Duration
	logger  logx.Logger
}

// geocodeResult es una fila de la respuesta de Nominatim reducida a los
// campos que consumimos. Lat y lon llegan como strings.
type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type,omitempty"`
}

// geocodeSummary es el payload de la evidencia JSON.
type geocodeSummary struct {
	Query   string          `json:"query"`
	Matches []geocodeResult `json:"matches"`
}

// New crea un probe de geocoding. Custom admite "base_url" para usar una
// instancia propia de Nominatim y "delay" para ajustar el espaciado entre
// peticiones.
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
		RateLimit:      1,
		RateLimitBurst: 1,
	}

	delay := registry.GetDurationConfig(cfg.Custom, "delay", defaultDelay)

	return &Probe{
		client:  *httpclient.New(httpConfig, logger),
		limiter: rate.NewInterval(delay),
		baseURL: strings.TrimSuffix(registry.GetStringConfig(cfg.Custom, "base_url", defaultBaseURL), "/"),
		timeout: timeout,
		logger:  logger.With("probe", probeName),
	}
}

// Name implementa ports.Probe.
func (p *Probe) Name() string {
	return probeName
}

// Targets implementa ports.Probe.
func (p *Probe) Targets() []domain.TargetType {
	return []domain.TargetType{domain.TargetTypeAddress}
}

// Run implementa ports.Probe. Busca la dirección y convierte el mejor
// candidato en entidades de localización y dirección canónica. Un fallo
// se degrada a evidencia de confianza baja en lugar de propagarse.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	query := strings.TrimSpace(target.Value)
	p.logger.Debug("geocoding address", "query", query)

	results, err := p.fetch(ctx, query)
	if err != nil {
		p.logger.Warn("geocoding failed", "query", query, "error", err.Error())
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("Geocoding failed for %s", query),
			probeName,
			err.Error(),
		).WithTags(tagGeocode, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	summary := &geocodeSummary{Query: query, Matches: results}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Geocoding results for %s", query),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagGeocode).WithConfidence(geocodeConfidence))
	}

	if len(results) > 0 {
		top := results[0]
		if top.Lat != "" && top.Lon != "" {
			findings.AddEntity(domain.NewEntity(domain.EntityTypeLocation, top.Lat+","+top.Lon).
				WithMeta("display_name", top.DisplayName))
		}
		if top.DisplayName != "" {
			findings.AddEntity(domain.NewEntity(domain.EntityTypeAddress, top.DisplayName).
				WithMeta("geocoder", "nominatim"))
		}
	}

	p.logger.Info("geocoding completed", "query", query, "matches", len(results))

	return findings, nil
}

// Close implementa ports.Probe.
func (p *Probe) Close() error {
	return nil
}

// fetch espera el delay de cortesía y consulta el endpoint de búsqueda.
// La llamada completa, delay incluido, queda acotada por el timeout del
// probe aunque el transporte reintente.
func (p *Probe) fetch(ctx context.Context, query string) ([]geocodeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(maxResults))

	body, err := p.client.FetchJSON(ctx, p.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	return results, nil
}
