// internal/sources/dnsprobe/dnsprobe.go

// Package dnsprobe resuelve registros A, AAAA, NS y MX de un dominio
// contra un resolver público. Cada tipo de registro se consulta de forma
// independiente: el fallo de uno no aborta los demás.
package dnsprobe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
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
			Description:  "DNS record resolution (A, AAAA, NS, MX) against a public resolver",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets:      []domain.TargetType{domain.TargetTypeDomain},
			Priority:     100,
		},
	); err != nil {
		logx.New().Warn("failed to register dns probe", "error", err.Error())
	}
}

const (
	probeName = "dns"
	tagDNS    = "dns"

	defaultResolver = "1.1.1.1:53"
	defaultTimeout  = 8 * time.Second
)

// Tipos de registro consultados, en orden fijo.
var queryTypes = []struct {
	name  string
	qtype uint16
}{
	{"A", dns.TypeA},
	{"AAAA", dns.TypeAAAA},
	{"NS", dns.TypeNS},
	{"MX", dns.TypeMX},
}

// Probe implementa ports.Probe para resolución DNS directa.
type Probe struct {
	client   *dns.Client
	resolver string
	logger   logx.Logger
}

// recordSummary es el payload de evidencia con los registros resueltos.
// Los errores por tipo de registro se anotan sin abortar el resto.
type recordSummary struct {
	Domain string            `json:"domain"`
	A      []string          `json:"a,omitempty"`
	AAAA   []string          `json:"aaaa,omitempty"`
	NS     []string          `json:"ns,omitempty"`
	MX     []string          `json:"mx,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (rs *recordSummary) addError(recordType string, err error) {
	if rs.Errors == nil {
		rs.Errors = make(map[string]string)
	}
	rs.Errors[recordType] = err.Error()
}

func (rs *recordSummary) firstError() string {
	for _, qt := range queryTypes {
		if msg, ok := rs.Errors[qt.name]; ok {
			return msg
		}
	}
	return ""
}

// New crea un probe DNS a partir de su configuración. Custom admite
// "resolver" (host o host:puerto) para apuntar a un resolver distinto.
func New(cfg ports.ProbeConfig, logger logx.Logger) *Probe {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	resolver := registry.GetStringConfig(cfg.Custom, "resolver", defaultResolver)

	return &Probe{
		client:   &dns.Client{Timeout: timeout},
		resolver: withDefaultPort(resolver),
		logger:   logger.With("probe", probeName),
	}
}

// Name implementa ports.Probe.
func (p *Probe) Name() string {
	return probeName
}

// Targets implementa ports.Probe.
func (p *Probe) Targets() []domain.TargetType {
	return []domain.TargetType{domain.TargetTypeDomain}
}

// Run implementa ports.Probe. Consulta los cuatro tipos de registro y
// retorna una evidencia JSON con lo resuelto; si todos los tipos fallan,
// degrada a una evidencia de fallo en lugar de propagar el error.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()
	name := strings.TrimSpace(target.Value)

	p.logger.Debug("resolving DNS records", "domain", name, "resolver", p.resolver)

	summary := &recordSummary{Domain: name}
	failures := 0
	for _, qt := range queryTypes {
		answers, err := p.query(ctx, name, qt.qtype)
		if err != nil {
			p.logger.Warn("DNS query failed",
				"domain", name,
				"type", qt.name,
				"error", err.Error(),
			)
			summary.addError(qt.name, err)
			failures++
			continue
		}
		appendRecords(summary, answers)
	}

	if failures == len(queryTypes) {
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("DNS resolution failed for %s", name),
			probeName,
			summary.firstError(),
		).WithTags(tagDNS, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("DNS records for %s", name),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagDNS).WithConfidence(domain.ConfidenceVerified))
	}

	findings.AddEntities(entitiesFromSummary(summary)...)

	p.logger.Info("DNS resolution completed",
		"domain", name,
		"a", len(summary.A),
		"aaaa", len(summary.AAAA),
		"ns", len(summary.NS),
		"mx", len(summary.MX),
	)

	return findings, nil
}

// Close implementa ports.Probe. El cliente DNS no mantiene conexiones.
func (p *Probe) Close() error {
	return nil
}

// query ejecuta una consulta de un único tipo de registro.
func (p *Probe) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	resp, _, err := p.client.ExchangeContext(ctx, m, p.resolver)
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("resolver returned %s", dns.RcodeToString[resp.Rcode])
	}
	return resp.Answer, nil
}

// appendRecords vuelca las respuestas de una consulta en el resumen.
func appendRecords(rs *recordSummary, answers []dns.RR) {
	for _, rr := range answers {
		switch v := rr.(type) {
		case *dns.A:
			rs.A = append(rs.A, v.A.String())
		case *dns.AAAA:
			rs.AAAA = append(rs.AAAA, v.AAAA.String())
		case *dns.NS:
			rs.NS = append(rs.NS, strings.TrimSuffix(v.Ns, "."))
		case *dns.MX:
			rs.MX = append(rs.MX, strings.TrimSuffix(v.Mx, "."))
		}
	}
}

// entitiesFromSummary deriva entidades de los registros resueltos:
// A/AAAA producen entidades ip, NS produce entidades domain. Los MX se
// conservan solo como evidencia.
func entitiesFromSummary(rs *recordSummary) []*domain.EntityDraft {
	entities := make([]*domain.EntityDraft, 0, len(rs.A)+len(rs.AAAA)+len(rs.NS))

	for _, ip := range rs.A {
		entities = append(entities,
			domain.NewEntity(domain.EntityTypeIP, ip).WithMeta("record", "A"))
	}
	for _, ip := range rs.AAAA {
		entities = append(entities,
			domain.NewEntity(domain.EntityTypeIP, ip).WithMeta("record", "AAAA"))
	}
	for _, host := range rs.NS {
		entities = append(entities,
			domain.NewEntity(domain.EntityTypeDomain, host).WithMeta("record", "NS"))
	}

	return entities
}

// withDefaultPort añade el puerto 53 cuando el resolver se configura sin él.
func withDefaultPort(addr string) string {
	if !strings.Contains(addr, ":") {
		return addr + ":53"
	}
	return addr
}
