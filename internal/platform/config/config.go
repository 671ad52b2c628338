// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
)

// Config agrupa toda la configuración del colector.
type Config struct {
	// Core
	Core CoreConfig

	// Probes: mapa dinámico de configuraciones por sonda
	// Key = probe name (ej: "dns", "rdap", "ctlog")
	// Value = configuración específica de esa sonda
	Probes map[string]ports.ProbeConfig

	// Search
	Search SearchConfig

	// Output
	Output OutputConfig

	// Network
	Network NetworkConfig
}

// CoreConfig controla el objetivo y el presupuesto de la recolección.
type CoreConfig struct {
	Target       string // objetivo a investigar (dominio, email, usuario, nombre, caso...)
	Type         string // tipo explícito del objetivo (vacío = autodetectar)
	Depth        string // normal | thorough
	BudgetMs     int    // presupuesto total en milisegundos (0 = según profundidad)
	CaseID       string // identificador de caso para agrupar hallazgos
	PrintVersion bool
}

// SearchConfig selecciona el proveedor de búsqueda web y sus credenciales.
type SearchConfig struct {
	Provider  string // vacío = búsqueda desactivada | brave | google | duckduckgo
	BraveKey  string
	GoogleKey string
	GoogleCX  string
}

// OutputConfig controla la exportación de resultados.
type OutputConfig struct {
	Dir        string
	Pretty     bool
	UIDisabled bool
}

// NetworkConfig controla el cliente HTTP y el resolver DNS.
type NetworkConfig struct {
	UserAgent string // vacío = user agent por defecto del cliente HTTP
	ProxyURL  string
	Resolver  string // resolver DNS host:port (vacío = resolver del sistema)
	TimeoutS  int    // timeout HTTP por petición en segundos (0 = default del cliente)
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			Target:   "",
			Type:     "",
			Depth:    "normal",
			BudgetMs: 0,
			CaseID:   "",
		},

		Probes: map[string]ports.ProbeConfig{
			"dns": {
				Enabled:  true,
				Timeout:  8 * time.Second,
				Priority: 100,
				Custom:   make(map[string]interface{}),
			},
			"rdap": {
				Enabled:  true,
				Timeout:  10 * time.Second,
				Priority: 90,
				Custom:   make(map[string]interface{}),
			},
			"ctlog": {
				Enabled:  true,
				Timeout:  12 * time.Second,
				Priority: 80,
				Custom:   make(map[string]interface{}),
			},
			"geocode": {
				Enabled:  true,
				Timeout:  10 * time.Second,
				Priority: 70,
				Custom:   make(map[string]interface{}),
			},
			"kb": {
				Enabled:  true,
				Timeout:  10 * time.Second,
				Priority: 60,
				Custom:   make(map[string]interface{}),
			},
			"profile": {
				Enabled:  true,
				Timeout:  10 * time.Second,
				Priority: 50,
				Custom:   make(map[string]interface{}),
			},
			"local": {
				Enabled:  true,
				Timeout:  2 * time.Second,
				Priority: 40,
				Custom:   make(map[string]interface{}),
			},
		},

		Search: SearchConfig{
			Provider: "",
		},

		Output: OutputConfig{
			Dir:        "osint_out",
			Pretty:     true,
			UIDisabled: false,
		},

		Network: NetworkConfig{
			UserAgent: "",
			ProxyURL:  "",
			Resolver:  "",
			TimeoutS:  15,
		},
	}
}

// Load inicializa la configuración: defaults -> fichero YAML -> ENV -> FLAGS
// (cada capa sobreescribe a la anterior). El fichero se localiza con
// --config/-c u OSINT_CONFIG antes de parsear el resto de flags.
func Load(version, commit, date string) (Config, error) {
	cfg := DefaultConfig()

	if path := configPath(os.Args[1:]); path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Core.PrintVersion {
		PrintVersion(version, commit, date)
	}

	normalize(&cfg)

	return cfg, nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("OSINT_TARGET", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv("OSINT_TYPE", ""); v != "" {
		cfg.Core.Type = v
	}
	if v := getenv("OSINT_DEPTH", ""); v != "" {
		cfg.Core.Depth = v
	}
	if v := getenv("OSINT_BUDGET_MS", ""); v != "" {
		cfg.Core.BudgetMs = parseInt(v, cfg.Core.BudgetMs)
	}
	if v := getenv("OSINT_CASE_ID", ""); v != "" {
		cfg.Core.CaseID = v
	}
	if v := getenv("OSINT_OUTPUT_DIR", ""); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv("OSINT_OUTPUT_PRETTY", ""); v != "" {
		cfg.Output.Pretty = parseBool(v)
	}
	if v := getenv("OSINT_UI_DISABLED", ""); v != "" {
		cfg.Output.UIDisabled = parseBool(v)
	}
	if v := getenv("OSINT_SEARCH_PROVIDER", ""); v != "" {
		cfg.Search.Provider = v
	}
	if v := getenv("OSINT_BRAVE_API_KEY", ""); v != "" {
		cfg.Search.BraveKey = v
	}
	if v := getenv("OSINT_GOOGLE_API_KEY", ""); v != "" {
		cfg.Search.GoogleKey = v
	}
	if v := getenv("OSINT_GOOGLE_CX", ""); v != "" {
		cfg.Search.GoogleCX = v
	}
	if v := getenv("OSINT_USER_AGENT", ""); v != "" {
		cfg.Network.UserAgent = v
	}
	if v := getenv("OSINT_PROXY_URL", ""); v != "" {
		cfg.Network.ProxyURL = v
	}
	if v := getenv("OSINT_RESOLVER", ""); v != "" {
		cfg.Network.Resolver = v
	}
	if v := getenv("OSINT_HTTP_TIMEOUT", ""); v != "" {
		cfg.Network.TimeoutS = parseInt(v, cfg.Network.TimeoutS)
	}

	// Probes config desde ENV
	// Formato: OSINT_PROBES_DNS_ENABLED=false
	//          OSINT_PROBES_DNS_PRIORITY=50
	//          OSINT_PROBES_DNS_TIMEOUT=15
	for name := range cfg.Probes {
		prefix := fmt.Sprintf("OSINT_PROBES_%s_", strings.ToUpper(name))

		probeCfg := cfg.Probes[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			probeCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			probeCfg.Priority = parseInt(v, probeCfg.Priority)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			probeCfg.Timeout = time.Duration(parseInt(v, int(probeCfg.Timeout.Seconds()))) * time.Second
		}

		cfg.Probes[name] = probeCfg
	}
}

// loadFromFlags parsea flags de CLI sobre pflag.CommandLine.
func loadFromFlags(cfg *Config) error {
	fs := pflag.CommandLine

	fs.StringVarP(&cfg.Core.Target, "target", "t", cfg.Core.Target,
		"Objetivo a investigar (dominio, email, usuario, nombre, caso...)")
	fs.StringVar(&cfg.Core.Type, "type", cfg.Core.Type,
		"Tipo del objetivo (domain, email, username, ip, phone, address, name, case; vacío = autodetectar)")
	fs.StringVarP(&cfg.Core.Depth, "depth", "d", cfg.Core.Depth,
		"Profundidad de la recolección (normal|thorough)")
	fs.IntVarP(&cfg.Core.BudgetMs, "budget-ms", "b", cfg.Core.BudgetMs,
		"Presupuesto de tiempo en milisegundos (0 = según profundidad)")
	fs.StringVar(&cfg.Core.CaseID, "case", cfg.Core.CaseID,
		"Identificador de caso para agrupar hallazgos")

	fs.StringVarP(&cfg.Output.Dir, "out", "o", cfg.Output.Dir, "Directorio de salida")
	fs.BoolVar(&cfg.Output.Pretty, "pretty", cfg.Output.Pretty, "Formatear el JSON de salida")
	fs.BoolVarP(&cfg.Output.UIDisabled, "quiet", "q", cfg.Output.UIDisabled,
		"Desactivar salida visual (JSON solamente)")

	fs.StringVarP(&cfg.Search.Provider, "search", "s", cfg.Search.Provider,
		"Proveedor de búsqueda web (brave|google|duckduckgo; vacío = desactivada)")

	// Probe configs (solo enabled y priority via flags, el resto via ENV,
	// fichero o defaults). Los punteros se vuelcan al mapa tras Parse.
	type probeFlags struct {
		name     string
		enabled  *bool
		priority *int
	}
	flags := make([]probeFlags, 0, len(cfg.Probes))
	for name := range cfg.Probes {
		probeCfg := cfg.Probes[name]
		flags = append(flags, probeFlags{
			name: name,
			enabled: fs.Bool(fmt.Sprintf("probe.%s", name), probeCfg.Enabled,
				fmt.Sprintf("Habilitar sonda %s", name)),
			priority: fs.Int(fmt.Sprintf("probe.%s.priority", name), probeCfg.Priority,
				fmt.Sprintf("Prioridad de sonda %s (mayor = antes)", name)),
		})
	}

	// Network
	fs.StringVarP(&cfg.Network.ProxyURL, "proxy", "p", cfg.Network.ProxyURL,
		"Proxy HTTP(S) para peticiones salientes (opcional)")
	fs.StringVar(&cfg.Network.Resolver, "resolver", cfg.Network.Resolver,
		"Resolver DNS host:port (vacío = resolver del sistema)")
	fs.IntVarP(&cfg.Network.TimeoutS, "timeout", "T", cfg.Network.TimeoutS,
		"Timeout HTTP por petición en segundos")

	// El fichero ya se localizó antes de Parse; el flag se registra para
	// que pflag no lo rechace como desconocido.
	fs.StringP("config", "c", "", "Ruta a fichero de configuración YAML")

	fs.BoolVarP(&cfg.Core.PrintVersion, "version", "v", false, "Imprimir versión y salir")
	help := fs.BoolP("help", "h", false, "Mostrar esta ayuda")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *help {
		PrintHelp()
	}

	for _, pf := range flags {
		probeCfg := cfg.Probes[pf.name]
		probeCfg.Enabled = *pf.enabled
		probeCfg.Priority = *pf.priority
		cfg.Probes[pf.name] = probeCfg
	}

	return nil
}

// configPath localiza el fichero de configuración en args o ENV.
// Los args tienen prioridad sobre OSINT_CONFIG.
func configPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		}
	}
	return getenv("OSINT_CONFIG", "")
}

func normalize(c *Config) {
	// El valor del objetivo conserva mayúsculas: nombres de persona y
	// texto de caso son sensibles a ellas. La normalización por tipo
	// ocurre más adelante, al construir el Target.
	c.Core.Target = strings.TrimSpace(c.Core.Target)
	c.Core.Type = strings.ToLower(strings.TrimSpace(c.Core.Type))
	c.Core.Depth = strings.ToLower(strings.TrimSpace(c.Core.Depth))
	if c.Core.Depth == "" {
		c.Core.Depth = "normal"
	}
	if c.Core.BudgetMs < 0 {
		c.Core.BudgetMs = 0
	}
	c.Core.CaseID = strings.TrimSpace(c.Core.CaseID)

	c.Search.Provider = strings.ToLower(strings.TrimSpace(c.Search.Provider))

	if c.Output.Dir == "" {
		c.Output.Dir = "osint_out"
	}

	if c.Network.TimeoutS < 0 {
		c.Network.TimeoutS = 0
	}
}

// Budget construye el presupuesto de tiempo de la recolección.
// Sin presupuesto explícito se deriva de la profundidad: 60s en modo
// normal, 180s en thorough.
func (c Config) Budget() *domain.Budget {
	if c.Core.BudgetMs > 0 {
		return domain.NewBudget(time.Duration(c.Core.BudgetMs) * time.Millisecond)
	}
	if c.Core.Depth == "thorough" {
		return domain.NewBudget(180 * time.Second)
	}
	return domain.NewBudget(60 * time.Second)
}

// Depth retorna la profundidad como tipo de dominio.
func (c Config) Depth() domain.Depth {
	if c.Core.Depth == "thorough" {
		return domain.DepthThorough
	}
	return domain.DepthNormal
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout HTTP como time.Duration.
func (c Config) Timeout() time.Duration {
	if c.Network.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Network.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}
