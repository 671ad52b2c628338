// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
osint - Recursive OSINT Collection Engine

USAGE:
  osint -t <target> [options]

IMPORTANT:
  Use double dash (--) for long flag names: --target, --depth, --search
  Use single dash (-) for short flags: -t, -d, -s

  ❌ WRONG:  osint -target example.com
  ✓  RIGHT:  osint --target example.com
  ✓  RIGHT:  osint -t example.com

CORE OPTIONS:
  -t, --target string      Target to investigate (required). Accepts a domain,
                           email, username, IP, phone, address, person name or
                           free-form case text.
      --type string        Explicit target type (domain, email, username, ip,
                           phone, address, name, case). Empty = auto-detect.
  -d, --depth string       Collection depth: normal or thorough (default: normal)
  -b, --budget-ms int      Total time budget in milliseconds.
                           0 = derive from depth (normal: 60s, thorough: 180s)
      --case string        Case identifier to group findings under

PROBE OPTIONS:
  --probe.dns                  Enable DNS record probe (default: true)
  --probe.dns.priority int     Set DNS probe priority (default: 100)

  --probe.rdap                 Enable RDAP registration probe (default: true)
  --probe.rdap.priority int    Set RDAP probe priority (default: 90)

  --probe.ctlog                Enable certificate transparency probe (default: true)
  --probe.geocode              Enable address geocoding probe (default: true)
  --probe.kb                   Enable knowledge base probe (default: true)
  --probe.profile              Enable public profile probe (default: true)
  --probe.local                Enable local phone/email analysis (default: true)

SEARCH OPTIONS:
  -s, --search string      Web search provider: brave, google or duckduckgo.
                           Empty = web search disabled (default).

OUTPUT OPTIONS:
  -o, --out string         Output directory (default: "osint_out")
      --pretty             Indent the JSON report (default: true)
  -q, --quiet              Disable visual output, JSON only (default: false)

NETWORK OPTIONS:
  -p, --proxy string       HTTP(S) proxy URL for outbound requests (optional)
      --resolver string    DNS resolver host:port (empty = system resolver)
  -T, --timeout int        Per-request HTTP timeout in seconds (default: 15)

INFO:
  -c, --config string      Path to YAML config file
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Investigate a domain:
    osint -t example.com

  Investigate a person with web search enabled:
    osint -t "Jane Doe" -s brave

  Thorough run against a username:
    osint -t jdoe42 --type username -d thorough

  Decompose a free-form case:
    osint --type case -t "Name: Jane Doe
  Email: jane@example.com" --case case-42

  Tight time budget:
    osint -t example.com -b 5000

  Disable specific probes:
    osint -t example.com --probe.ctlog=false --probe.rdap=false

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with OSINT_ prefix:

  OSINT_TARGET                  Target value
  OSINT_TYPE=domain             Explicit target type
  OSINT_DEPTH=thorough          Collection depth
  OSINT_BUDGET_MS=30000         Time budget in milliseconds
  OSINT_OUTPUT_DIR=/path        Output directory
  OSINT_SEARCH_PROVIDER=brave   Web search provider
  OSINT_BRAVE_API_KEY=...       Brave Search API key
  OSINT_GOOGLE_API_KEY=...      Google Custom Search API key
  OSINT_GOOGLE_CX=...           Google Custom Search engine ID
  OSINT_PROXY_URL=http://...    Proxy URL
  OSINT_RESOLVER=1.1.1.1:53     DNS resolver
  OSINT_CONFIG=/path/cfg.yaml   Config file path

  Probe-specific (replace DNS with probe name):
  OSINT_PROBES_DNS_ENABLED=false
  OSINT_PROBES_DNS_PRIORITY=20
  OSINT_PROBES_DNS_TIMEOUT=15

  Note: CLI flags override environment variables, which override the
  YAML config file.

TIME BUDGET:
  Every probe, recursion and search batch checks the shared budget
  before starting. When the budget expires the run stops launching new
  work and returns whatever was collected so far. A single in-flight
  probe may overrun by its own timeout at most.

OUTPUT:
  osint writes a JSON report to the output directory:
  - Evidence items with per-item confidence annotations
  - Deduplicated entities (first occurrence wins)
  - Run metadata: probes used, recursions, overall confidence

For more information and documentation:
  https://github.com/theclubco2025/osint
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("osint %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
