// Package kb contrasta nombres de persona contra la base de conocimiento
// pública de Wikidata. Primero busca candidatos con wbsearchentities y
// después pide los detalles del mejor con wbgetentities, espaciando las
// llamadas con un delay de cortesía.
package kb

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
			Description:  "Person lookup against the Wikidata knowledge base",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypeName,
			},
			Priority: 60,
		},
	); err != nil {
		logx.New().Warn("failed to register kb probe", "error", err.Error())
	}
}

const (
	probeName = "kb"
	tagKB     = "kb"

	defaultBaseURL = "https://www.wikidata.org"
	defaultTimeout = 10 * time.Second
	defaultDelay   = 1 * time.Second
	maxMatches     = 3

	// viafProperty es el identificador VIAF en Wikidata, el id externo
	// más extendido para personas.
	viafProperty = "P214"

	// kbConfidence: una coincidencia de nombre en la base de conocimiento
	// no garantiza que sea la misma persona del caso.
	kbConfidence = domain.ConfidenceMedium
)

// Probe implementa ports.Probe sobre la API de acciones de Wikidata.
type Probe struct {
	client  httpclient.Client
	limiter *rate.Limiter
	baseURL string
	timeout time.Duration
	logger  logx.Logger
}

type kbSearchResponse struct {
	Search []kbSearchHit `json:"search"`
}

type kbSearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type kbEntitiesResponse struct {
	Entities map[string]kbEntity `json:"entities"`
}

type kbEntity struct {
	Descriptions map[string]kbText    `json:"descriptions"`
	Claims       map[string][]kbClaim `json:"claims"`
}

type kbText struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type kbClaim struct {
	Mainsnak struct {
		Property  string `json:"property"`
		Datavalue struct {
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

// kbResult agrega lo aprendido en las dos llamadas.
type kbResult struct {
	Matches     []kbSearchHit
	Best        *kbSearchHit
	Description string
	VIAF        string
}

// kbSummary es el payload de la evidencia JSON.
type kbSummary struct {
	Query       string        `json:"query"`
	Matches     []kbSearchHit `json:"matches"`
	BestID      string        `json:"best_id,omitempty"`
	Description string        `json:"description,omitempty"`
	VIAF        string        `json:"viaf,omitempty"`
}

// New crea un probe de knowledge base. Custom admite "base_url" para una
// instancia alternativa y "delay" para el espaciado entre llamadas.
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
	return []domain.TargetType{domain.TargetTypeName}
}

// Run implementa ports.Probe. Si hay coincidencia emite una entidad de
// persona con el nombre consultado, anotada con el id de Wikidata y la
// descripción. Un fallo se degrada a evidencia de confianza baja en lugar
// de propagarse.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	query := strings.TrimSpace(target.Value)
	p.logger.Debug("searching knowledge base", "query", query)

	result, err := p.lookup(ctx, query)
	if err != nil {
		p.logger.Warn("knowledge base lookup failed", "query", query, "error", err.Error())
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("Knowledge base lookup failed for %s", query),
			probeName,
			err.Error(),
		).WithTags(tagKB, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	summary := &kbSummary{Query: query, Matches: result.Matches, Description: result.Description, VIAF: result.VIAF}
	if result.Best != nil {
		summary.BestID = result.Best.ID
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Knowledge base results for %s", query),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagKB).WithConfidence(kbConfidence))
	}

	if result.Best != nil {
		person := domain.NewEntity(domain.EntityTypePerson, query).
			WithMeta("kb_id", result.Best.ID)
		if result.Description != "" {
			person.WithMeta("description", result.Description)
		}
		if result.VIAF != "" {
			person.WithMeta("viaf", result.VIAF)
		}
		findings.AddEntity(person)
	}

	p.logger.Info("knowledge base lookup completed",
		"query", query,
		"matches", len(result.Matches),
	)

	return findings, nil
}

// Close implementa ports.Probe.
func (p *Probe) Close() error {
	return nil
}

// lookup ejecuta las dos llamadas bajo un único timeout. Si la segunda
// falla se conserva lo aprendido en la búsqueda, un detalle incompleto no
// invalida la coincidencia.
func (p *Probe) lookup(ctx context.Context, query string) (*kbResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	matches, err := p.search(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &kbResult{Matches: matches}
	if len(matches) == 0 {
		return result, nil
	}

	best := matches[0]
	result.Best = &best
	result.Description = best.Description

	entity, err := p.getEntity(ctx, best.ID)
	if err != nil {
		p.logger.Warn("entity details unavailable", "id", best.ID, "error", err.Error())
		return result, nil
	}

	if desc := entity.description("en"); desc != "" {
		result.Description = desc
	}
	result.VIAF = entity.externalID(viafProperty)

	return result, nil
}

// search llama a wbsearchentities tras esperar el delay de cortesía.
func (p *Probe) search(ctx context.Context, query string) ([]kbSearchHit, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", query)
	params.Set("language", "en")
	params.Set("type", "item")
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxMatches))

	body, err := p.client.FetchJSON(ctx, p.apiURL(params))
	if err != nil {
		return nil, err
	}

	var parsed kbSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	return parsed.Search, nil
}

// getEntity llama a wbgetentities tras esperar el delay de cortesía.
func (p *Probe) getEntity(ctx context.Context, id string) (*kbEntity, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", id)
	params.Set("props", "descriptions|claims")
	params.Set("languages", "en")
	params.Set("format", "json")

	body, err := p.client.FetchJSON(ctx, p.apiURL(params))
	if err != nil {
		return nil, err
	}

	var parsed kbEntitiesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	entity, ok := parsed.Entities[id]
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "entity missing from response")
	}
	return &entity, nil
}

func (p *Probe) apiURL(params url.Values) string {
	return p.baseURL + "/w/api.php?" + params.Encode()
}

// description retorna la descripción en el idioma pedido.
func (e *kbEntity) description(lang string) string {
	if d, ok := e.Descriptions[lang]; ok {
		return strings.TrimSpace(d.Value)
	}
	return ""
}

// externalID extrae el primer valor string de la propiedad indicada.
// Las propiedades con valores estructurados (fechas, cantidades) no son
// identificadores externos y se ignoran.
func (e *kbEntity) externalID(property string) string {
	claims, ok := e.Claims[property]
	if !ok || len(claims) == 0 {
		return ""
	}

	var id string
	if err := json.Unmarshal(claims[0].Mainsnak.Datavalue.Value, &id); err != nil {
		return ""
	}
	return id
}
