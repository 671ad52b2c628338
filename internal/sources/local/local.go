// Package local analiza teléfonos y emails sin tocar la red. Todo lo que
// se puede derivar del propio valor (forma canónica, dominio del email,
// prefijo internacional) se extrae aquí con confianza alta.
package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/extract"
	"github.com/theclubco2025/osint/internal/core/ports"
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
			Description:  "Offline normalization and analysis of phones and emails",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypePhone,
				domain.TargetTypeEmail,
			},
			Priority: 40,
		},
	); err != nil {
		logx.New().Warn("failed to register local probe", "error", err.Error())
	}
}

const (
	probeName = "local"
	tagLocal  = "local"

	// localConfidence: el análisis es determinista sobre el propio valor,
	// no depende de terceros.
	localConfidence = domain.ConfidenceVerified
)

// countryPrefixes cubre los prefijos telefónicos más comunes en los casos
// que manejamos. No pretende ser exhaustivo.
var countryPrefixes = map[string]string{
	"1":  "US/CA",
	"7":  "RU/KZ",
	"33": "FR",
	"34": "ES",
	"39": "IT",
	"44": "UK",
	"49": "DE",
	"52": "MX",
	"55": "BR",
	"81": "JP",
	"86": "CN",
	"91": "IN",
}

// Probe implementa ports.Probe sin dependencias externas.
type Probe struct {
	logger logx.Logger
}

type phoneSummary struct {
	Input         string `json:"input"`
	Normalized    string `json:"normalized"`
	Digits        int    `json:"digits"`
	International bool   `json:"international"`
	CountryHint   string `json:"country_hint,omitempty"`
}

type emailSummary struct {
	Input     string `json:"input"`
	LocalPart string `json:"local_part"`
	Domain    string `json:"domain"`
	Valid     bool   `json:"valid"`
	PlusAlias bool   `json:"plus_alias"`
}

// New crea el probe local. No abre conexiones ni reserva recursos.
func New(cfg ports.ProbeConfig, logger logx.Logger) *Probe {
	return &Probe{logger: logger.With("probe", probeName)}
}

// Name implementa ports.Probe.
func (p *Probe) Name() string {
	return probeName
}

// Targets implementa ports.Probe.
func (p *Probe) Targets() []domain.TargetType {
	return []domain.TargetType{domain.TargetTypePhone, domain.TargetTypeEmail}
}

// Run implementa ports.Probe. Nunca falla: el peor caso es evidencia que
// documenta un valor que no se pudo normalizar.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	switch target.Type {
	case domain.TargetTypePhone:
		p.analyzePhone(findings, target.Value)
	case domain.TargetTypeEmail:
		p.analyzeEmail(findings, target.Value)
	}

	return findings, nil
}

// Close implementa ports.Probe.
func (p *Probe) Close() error {
	return nil
}

func (p *Probe) analyzePhone(findings *domain.Findings, raw string) {
	normalized := extract.NormalizePhone(raw)

	summary := &phoneSummary{
		Input:         strings.TrimSpace(raw),
		Normalized:    normalized,
		Digits:        digitCount(normalized),
		International: strings.HasPrefix(normalized, "+"),
		CountryHint:   countryHint(normalized),
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Phone number analysis for %s", summary.Input),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagLocal).WithConfidence(localConfidence))
	}

	if normalized == "" {
		p.logger.Debug("phone did not normalize", "input", raw)
		return
	}

	phone := domain.NewEntity(domain.EntityTypePhone, normalized)
	if summary.CountryHint != "" {
		phone.WithMeta("country_hint", summary.CountryHint)
	}
	findings.AddEntity(phone)
}

func (p *Probe) analyzeEmail(findings *domain.Findings, raw string) {
	email := validator.NormalizeEmail(raw)
	local, domainPart := splitEmail(email)

	summary := &emailSummary{
		Input:     email,
		LocalPart: local,
		Domain:    domainPart,
		Valid:     validator.IsEmail(email),
		PlusAlias: strings.Contains(local, "+"),
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("Email address analysis for %s", email),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagLocal).WithConfidence(localConfidence))
	}

	if domainPart == "" || !validator.IsDomain(domainPart) {
		p.logger.Debug("email has no usable domain", "input", raw)
		return
	}

	findings.AddEntity(domain.NewEntity(domain.EntityTypeDomain, domainPart).
		WithMeta("relation", "email_domain").
		WithMeta("email", email))
}

// splitEmail separa el email en parte local y dominio normalizado. El
// último @ manda, la parte local puede contener arrobas entre comillas.
func splitEmail(email string) (local, domainPart string) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return email, ""
	}
	return email[:at], validator.NormalizeDomain(email[at+1:])
}

// countryHint busca el prefijo internacional más largo que conozcamos.
func countryHint(normalized string) string {
	if !strings.HasPrefix(normalized, "+") {
		return ""
	}

	digits := strings.TrimPrefix(normalized, "+")
	for l := 2; l >= 1; l-- {
		if len(digits) >= l {
			if country, ok := countryPrefixes[digits[:l]]; ok {
				return country
			}
		}
	}
	return ""
}

func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
