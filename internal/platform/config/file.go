// internal/platform/config/file.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theclubco2025/osint/internal/core/domain"
)

// fileConfig es el overlay YAML de la configuración. Todos los campos
// son punteros para distinguir "ausente" de "valor cero": solo las
// claves presentes en el fichero sobreescriben los defaults.
type fileConfig struct {
	Core struct {
		Target   *string `yaml:"target"`
		Type     *string `yaml:"type"`
		Depth    *string `yaml:"depth"`
		BudgetMs *int    `yaml:"budget_ms"`
		CaseID   *string `yaml:"case_id"`
	} `yaml:"core"`

	Probes map[string]struct {
		Enabled  *bool `yaml:"enabled"`
		Priority *int  `yaml:"priority"`
		TimeoutS *int  `yaml:"timeout_s"`
	} `yaml:"probes"`

	Search struct {
		Provider  *string `yaml:"provider"`
		BraveKey  *string `yaml:"brave_key"`
		GoogleKey *string `yaml:"google_key"`
		GoogleCX  *string `yaml:"google_cx"`
	} `yaml:"search"`

	Output struct {
		Dir        *string `yaml:"dir"`
		Pretty     *bool   `yaml:"pretty"`
		UIDisabled *bool   `yaml:"ui_disabled"`
	} `yaml:"output"`

	Network struct {
		UserAgent *string `yaml:"user_agent"`
		ProxyURL  *string `yaml:"proxy_url"`
		Resolver  *string `yaml:"resolver"`
		TimeoutS  *int    `yaml:"timeout_s"`
	} `yaml:"network"`
}

// loadFromFile aplica un fichero YAML sobre la configuración.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrConfigLoadFailed, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrConfigParseFailed, path, err)
	}

	applyFileConfig(cfg, &fc)
	return nil
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	if fc.Core.Target != nil {
		cfg.Core.Target = *fc.Core.Target
	}
	if fc.Core.Type != nil {
		cfg.Core.Type = *fc.Core.Type
	}
	if fc.Core.Depth != nil {
		cfg.Core.Depth = *fc.Core.Depth
	}
	if fc.Core.BudgetMs != nil {
		cfg.Core.BudgetMs = *fc.Core.BudgetMs
	}
	if fc.Core.CaseID != nil {
		cfg.Core.CaseID = *fc.Core.CaseID
	}

	// Solo se aplican overrides de sondas conocidas; claves desconocidas
	// en el fichero se ignoran en silencio.
	for name, over := range fc.Probes {
		probeCfg, ok := cfg.Probes[name]
		if !ok {
			continue
		}
		if over.Enabled != nil {
			probeCfg.Enabled = *over.Enabled
		}
		if over.Priority != nil {
			probeCfg.Priority = *over.Priority
		}
		if over.TimeoutS != nil {
			probeCfg.Timeout = time.Duration(*over.TimeoutS) * time.Second
		}
		cfg.Probes[name] = probeCfg
	}

	if fc.Search.Provider != nil {
		cfg.Search.Provider = *fc.Search.Provider
	}
	if fc.Search.BraveKey != nil {
		cfg.Search.BraveKey = *fc.Search.BraveKey
	}
	if fc.Search.GoogleKey != nil {
		cfg.Search.GoogleKey = *fc.Search.GoogleKey
	}
	if fc.Search.GoogleCX != nil {
		cfg.Search.GoogleCX = *fc.Search.GoogleCX
	}

	if fc.Output.Dir != nil {
		cfg.Output.Dir = *fc.Output.Dir
	}
	if fc.Output.Pretty != nil {
		cfg.Output.Pretty = *fc.Output.Pretty
	}
	if fc.Output.UIDisabled != nil {
		cfg.Output.UIDisabled = *fc.Output.UIDisabled
	}

	if fc.Network.UserAgent != nil {
		cfg.Network.UserAgent = *fc.Network.UserAgent
	}
	if fc.Network.ProxyURL != nil {
		cfg.Network.ProxyURL = *fc.Network.ProxyURL
	}
	if fc.Network.Resolver != nil {
		cfg.Network.Resolver = *fc.Network.Resolver
	}
	if fc.Network.TimeoutS != nil {
		cfg.Network.TimeoutS = *fc.Network.TimeoutS
	}
}
