// Package profile resuelve usernames contra la API pública de GitHub.
// Se consulta sin autenticar, lo que limita la cuota pero evita exigir
// credenciales para un lookup puntual por ejecución.
package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v53/github"

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
			Description:  "Public profile lookup against the GitHub API",
			Version:      "1.0.0",
			Author:       "osint",
			RequiresAuth: false,
			Targets: []domain.TargetType{
				domain.TargetTypeUsername,
			},
			Priority: 50,
		},
	); err != nil {
		logx.New().Warn("failed to register profile probe", "error", err.Error())
	}
}

const (
	probeName  = "profile"
	tagProfile = "profile"

	defaultTimeout = 10 * time.Second

	// profileConfidence: el perfil pertenece con certeza al username, lo
	// incierto es que el username pertenezca al sujeto del caso.
	profileConfidence = domain.ConfidenceHigh
)

// Probe implementa ports.Probe sobre el cliente oficial de GitHub.
type Probe struct {
	client  *github.Client
	timeout time.Duration
	logger  logx.Logger
}

// profileSummary es el payload de la evidencia JSON.
type profileSummary struct {
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	Company   string `json:"company,omitempty"`
	Blog      string `json:"blog,omitempty"`
	Location  string `json:"location,omitempty"`
	Email     string `json:"email,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Repos     int    `json:"public_repos"`
	Followers int    `json:"followers"`
	CreatedAt string `json:"created_at,omitempty"`
}

// New crea un probe de perfiles. Custom admite "base_url" para apuntar a
// una instancia de GitHub Enterprise o a un servidor de pruebas.
func New(cfg ports.ProbeConfig, logger logx.Logger) *Probe {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := github.NewClient(&http.Client{Timeout: timeout})

	if raw := registry.GetStringConfig(cfg.Custom, "base_url", ""); raw != "" {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if base, err := url.Parse(raw); err == nil {
			client.BaseURL = base
		} else {
			logger.Warn("invalid profile base_url, using default", "base_url", raw, "error", err.Error())
		}
	}

	return &Probe{
		client:  client,
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
	return []domain.TargetType{domain.TargetTypeUsername}
}

// Run implementa ports.Probe. La compañía del perfil se convierte en una
// entidad de organización y el blog en una URL. Un fallo, incluido el
// username inexistente, se degrada a evidencia de confianza baja en lugar
// de propagarse.
func (p *Probe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	findings := domain.NewFindings()

	username := strings.TrimSpace(target.Value)
	p.logger.Debug("fetching public profile", "username", username)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	user, _, err := p.client.Users.Get(ctx, username)
	if err != nil {
		if _, ok := err.(*github.RateLimitError); ok {
			p.logger.Warn("profile API rate limited", "username", username)
		} else {
			p.logger.Warn("profile lookup failed", "username", username, "error", err.Error())
		}
		findings.AddEvidence(domain.NewTextEvidence(
			fmt.Sprintf("Profile lookup failed for %s", username),
			probeName,
			err.Error(),
		).WithTags(tagProfile, "error").WithConfidence(domain.ConfidenceFailed))
		return findings, nil
	}

	summary := &profileSummary{
		Username:  user.GetLogin(),
		Name:      user.GetName(),
		Company:   user.GetCompany(),
		Blog:      user.GetBlog(),
		Location:  user.GetLocation(),
		Email:     user.GetEmail(),
		Bio:       user.GetBio(),
		Repos:     user.GetPublicRepos(),
		Followers: user.GetFollowers(),
	}
	if created := user.GetCreatedAt(); !created.IsZero() {
		summary.CreatedAt = created.Format(time.RFC3339)
	}

	if ev, err := domain.NewJSONEvidence(
		fmt.Sprintf("GitHub profile for %s", username),
		probeName,
		summary,
	); err == nil {
		findings.AddEvidence(ev.WithTags(tagProfile).WithConfidence(profileConfidence))
	}

	// Las compañías en GitHub suelen escribirse como @handle.
	if company := strings.TrimPrefix(strings.TrimSpace(summary.Company), "@"); company != "" {
		findings.AddEntity(domain.NewEntity(domain.EntityTypeOrg, company).
			WithMeta("platform", "github").
			WithMeta("username", username))
	}

	if blog := strings.TrimSpace(summary.Blog); blog != "" {
		findings.AddEntity(domain.NewEntity(domain.EntityTypeURL, blog).
			WithMeta("platform", "github").
			WithMeta("relation", "blog"))
	}

	p.logger.Info("profile lookup completed",
		"username", username,
		"company", summary.Company,
		"followers", summary.Followers,
	)

	return findings, nil
}

// Close implementa ports.Probe.
func (p *Probe) Close() error {
	return nil
}
