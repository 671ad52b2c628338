// internal/sources/ctlog/ctlog.go

// Package ctlog consulta los logs de Certificate Transparency a través de
// crt.sh para descubrir subdominios del dominio objetivo. Una superficie
// grande de subdominios añade riesgo al caso.
package ctlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/cache"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/httpclient"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/platform/registry"
	"github.com/theclubco2025/osint/internal/platform/validator"
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
			Description:  "Subdomain discovery via crt.sh certificate transparency logs",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypeDomain,
			},
			Priority: 80,
		},
	); err != nil {
		logx.New().Warn("failed to register ctlog probe", "error", err.Error())
	}
}

const (
	probeName = "ctlog"
	tagCT     = "ctlog"

	defaultBaseURL  = "https://crt.sh"
	defaultTimeout  = 12 * time.Second
	defaultMaxHosts = 500

	// ctlogConfidence: los certificados emitidos son públicos y verificables,
	// pero la lista incluye hosts históricos que pueden ya no existir.
	ctlogConfidence = domain.ConfidenceHigh

	// riskyHostCount: por encima de este número de subdominios la superficie
	// expuesta del dominio se considera relevante para el caso.
	riskyHostCount   = 50
	surfaceRiskDelta = 5

	cacheTTL = 6 * time.Hour
)

// Probe implementa ports.Probe sobre la API JSON de crt.sh.
type Probe struct {
	client      httpclient.Client
	cache       *cache.MemoryCache
	baseURL     string
	maxHosts    int
	timeout     time.Duration
	logger      logx.Logger
	stopCleanup func()
}

// certRecord representa un registro de certificado de crt.sh.
type certRecord struct {
	IssuerName   string `json:"issuer_name"`
	NameValue    string `json:"name_value"`
	NotAfter     string `json:"not_after"`
	NotBefore    string `json:"not_before"`
	SerialNumber string `json:"serial_number"`
}

// ctlogSummary es el payload de la evidencia JSON.
type ctlogSummary struct {
	Domain    string   `json:"domain"`
	Records   int      `json:"records"`
	Hosts     []string `json:"hosts"`
	Truncated bool     `json:"truncated,omitempty"`
}

// New crea un probe de CT logs. Custom admite "base_url" para apuntar a un
// mirror y "max_hosts" para ajustar el tope de subdominios procesados.
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
		RateLimit:      2, // ser respetuoso con crt.sh
		RateLimitBurst: 1,
	}

	responseCache := cache.NewMemoryCache(64)

	p := &Probe{
		client:   *httpclient.New(httpConfig, logger),
		cache:    responseCache,
		baseURL:  strings.TrimSuffix(registry.GetStringConfig(cfg.Custom, "base_url", defaultBaseURL), "/"),
		maxHosts: registry.GetIntConfig(cfg.Custom, "max_hosts", defaultMaxHosts),
		timeout:  timeout,
		logger:   logger.With("probe", probeName),
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
	return []domain.TargetType{domain.TargetTypeDomain}
}

// Run implementa ports.Probe. Consulta %.{dominio} en crt.sh y convierte
// cada host único en scope en una entidad de dominio. Un fallo se degrada
// a evidencia de confianza baja en lugar de propagarse.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(target.Value)), ".")
	p.logger.Debug("querying certificate transparency logs", "domain", name)

	records, err := p.fetch(ctx, name)
	if err != nil {
		p.logger.Warn("ctlog lookup failed", "domain", name, "error", err.Error())
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("Certificate transparency lookup failed for %s", name),
			probeName,
			err.Error(),
		).WithTags(tagCT, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	hosts, truncated := collectHosts(records, name, p.maxHosts)

	summary := &ctlogSummary{
		Domain:    name,
		Records:   len(records),
		Hosts:     hosts,
		Truncated: truncated,
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Certificate transparency results for %s", name),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagCT).WithConfidence(ctlogConfidence))
	}

	for _, host := range hosts {
		findings.AddEntity(domain.NewEntity(domain.EntityTypeDomain, host).
			WithMeta("log", "crt.sh"))
	}

	if len(hosts) > riskyHostCount {
		findings.AddRisk(surfaceRiskDelta)
	}

	p.logger.Info("ctlog lookup completed",
		"domain", name,
		"records", len(records),
		"hosts", len(hosts),
		"truncated", truncated,
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

// fetch consulta crt.sh colapsando peticiones duplicadas en vuelo y
// cacheando las filas parseadas. La llamada completa queda acotada por el
// timeout del probe aunque el transporte reintente.
func (p *Probe) fetch(ctx context.Context, name string) ([]certRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	v, err := p.cache.GetOrFetch(ctx, "ctlog:"+name, cacheTTL, func(ctx context.Context) (interface{}, error) {
		url := fmt.Sprintf("%s/?q=%%25.%s&output=json", p.baseURL, name)

		body, err := p.client.FetchJSON(ctx, url)
		if err != nil {
			return nil, err
		}

		// crt.sh devuelve HTML en algunos errores; tratarlo como respuesta inválida
		var records []certRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	records, ok := v.([]certRecord)
	if !ok {
		return nil, errors.New("unexpected cache payload type")
	}
	return records, nil
}

// collectHosts aplana los name_value multilinea, normaliza wildcards y
// devuelve los hosts únicos en scope hasta el tope configurado. El apex
// no cuenta como subdominio.
func collectHosts(records []certRecord, root string, limit int) ([]string, bool) {
	seen := make(map[string]struct{})
	hosts := make([]string, 0)
	truncated := false

	for _, record := range records {
		for _, raw := range strings.Split(record.NameValue, "\n") {
			host := strings.ToLower(strings.TrimSpace(raw))
			host = strings.TrimPrefix(host, "*.")

			if host == "" || !validator.IsSubdomain(host, root) {
				continue
			}
			if !validator.IsDomain(host) {
				continue
			}
			if _, dup := seen[host]; dup {
				continue
			}
			if len(hosts) >= limit {
				truncated = true
				sort.Strings(hosts)
				return hosts, truncated
			}

			seen[host] = struct{}{}
			hosts = append(hosts, host)
		}
	}

	sort.Strings(hosts)
	return hosts, truncated
}
