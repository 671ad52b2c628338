// internal/core/extract/extract.go

// Package extract contiene la lógica pura de descomposición de texto:
// extracción de indicadores tipados, inferencia de tipo de objetivo y
// reconocimiento de URLs de perfil. No hace I/O.
package extract

import (
	"regexp"
	"strings"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/platform/validator"
)

// Topes por tipo de indicador. Acotan el fan-out de las recolecciones
// recursivas que el orquestador lanza sobre cada indicador.
const (
	maxEmails  = 3
	maxIPs     = 3
	maxDomains = 3
	maxPhones  = 2
)

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	ipv4Pattern   = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	domainPattern = regexp.MustCompile(`\b(?:[a-zA-Z0-9][a-zA-Z0-9\-]*\.)+[a-zA-Z]{2,}\b`)
	phonePattern  = regexp.MustCompile(`\+?\d[\d\s\-\.\(\)/]{8,}\d`)
)

// Líneas que empiezan con una etiqueta de campo reconocida se excluyen
// de las heurísticas de dirección y nombre.
var fieldLabels = []string{
	"name:", "email:", "e-mail:", "phone:", "tel:", "telephone:",
	"address:", "domain:", "ip:", "username:", "user:", "case:",
}

var streetSuffixes = map[string]bool{
	"st": true, "street": true, "ave": true, "avenue": true,
	"rd": true, "road": true, "blvd": true, "boulevard": true,
	"dr": true, "drive": true, "ln": true, "lane": true,
	"ct": true, "court": true, "way": true, "hwy": true,
	"highway": true, "pkwy": true, "parkway": true, "pl": true,
	"place": true, "plaza": true, "sq": true, "square": true,
	"terrace": true,
}

// Indicator es un candidato tipado extraído de texto libre, aún sin
// verificar. Type nunca es case ni username: los usernames solo emergen
// de resultados de búsqueda web, no de texto crudo.
type Indicator struct {
	Type  domain.TargetType
	Value string
}

// ExtractIndicators analiza texto libre y extrae candidatos tipados en
// orden fijo: emails, IPv4, dominios (unión con los dominios de los
// emails), teléfonos, dirección y nombre. Cada paso aplica su propio
// tope; la lista final se deduplica por type:value sin distinguir
// mayúsculas.
func ExtractIndicators(text string) []Indicator {
	indicators := make([]Indicator, 0, 8)
	lines := strings.Split(text, "\n")

	// 1. Emails (case-folded, deduplicados)
	emails := ExtractEmails(text, maxEmails)
	for _, e := range emails {
		indicators = append(indicators, Indicator{Type: domain.TargetTypeEmail, Value: e})
	}

	// 2. IPv4
	seenIPs := make(map[string]bool)
	ipCount := 0
	for _, m := range ipv4Pattern.FindAllString(text, -1) {
		if !validator.IsIPv4(m) || seenIPs[m] {
			continue
		}
		seenIPs[m] = true
		indicators = append(indicators, Indicator{Type: domain.TargetTypeIP, Value: m})
		ipCount++
		if ipCount == maxIPs {
			break
		}
	}

	// 3. Dominios: patrón genérico sobre el texto, más los dominios de
	// los emails extraídos si queda hueco bajo el tope.
	seenDomains := make(map[string]bool)
	domains := make([]string, 0, maxDomains)
	for _, m := range domainPattern.FindAllString(text, -1) {
		d := validator.NormalizeDomain(m)
		if d == "" || !validator.IsDomain(d) || seenDomains[d] {
			continue
		}
		seenDomains[d] = true
		domains = append(domains, d)
		if len(domains) == maxDomains {
			break
		}
	}
	for _, e := range emails {
		if len(domains) == maxDomains {
			break
		}
		d := emailDomain(e)
		if d == "" || seenDomains[d] {
			continue
		}
		seenDomains[d] = true
		domains = append(domains, d)
	}
	for _, d := range domains {
		indicators = append(indicators, Indicator{Type: domain.TargetTypeDomain, Value: d})
	}

	// 4. Teléfonos (normalizados; vacíos tras normalizar se descartan)
	for _, p := range ExtractPhones(text, maxPhones) {
		indicators = append(indicators, Indicator{Type: domain.TargetTypePhone, Value: p})
	}

	// 5. Dirección (como mucho una)
	if addr := extractAddress(lines); addr != "" {
		indicators = append(indicators, Indicator{Type: domain.TargetTypeAddress, Value: addr})
	}

	// 6. Nombre (como mucho uno)
	if name := extractName(lines); name != "" {
		indicators = append(indicators, Indicator{Type: domain.TargetTypeName, Value: name})
	}

	return dedupIndicators(indicators)
}

// ExtractEmails retorna los emails del texto, normalizados y deduplicados,
// hasta el tope indicado. La usan tanto la extracción de indicadores como
// la cosecha de títulos y snippets de resultados de búsqueda.
func ExtractEmails(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	emails := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, m := range emailPattern.FindAllString(text, -1) {
		e := validator.NormalizeEmail(m)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		emails = append(emails, e)
		if len(emails) == limit {
			break
		}
	}
	return emails
}

// ExtractPhones retorna los teléfonos del texto ya normalizados, hasta el
// tope indicado. Los que quedan vacíos tras normalizar se descartan.
func ExtractPhones(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	phones := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, m := range phonePattern.FindAllString(text, -1) {
		p := NormalizePhone(m)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		phones = append(phones, p)
		if len(phones) == limit {
			break
		}
	}
	return phones
}

// extractAddress busca una dirección postal: primero una línea con
// etiqueta "Address:", después la primera línea que parezca una calle
// (número inicial más coma o sufijo vial) o que combine coma, dígito y
// longitud mayor que 12.
func extractAddress(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= len("address:") && strings.EqualFold(trimmed[:len("address:")], "address:") {
			if v := strings.TrimSpace(trimmed[len("address:"):]); v != "" {
				return v
			}
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isLabeledLine(trimmed) {
			continue
		}
		if looksLikeStreetLine(trimmed) {
			return trimmed
		}
		if strings.Contains(trimmed, ",") && containsDigit(trimmed) && len(trimmed) > 12 {
			return trimmed
		}
	}

	return ""
}

// extractName busca un nombre de persona: primero una línea "Name:",
// después la primera línea con alguna letra, al menos dos palabras y
// longitud razonable. Las líneas etiquetadas y las que empiezan por un
// número (probables direcciones) se saltan.
func extractName(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= len("name:") && strings.EqualFold(trimmed[:len("name:")], "name:") {
			if v := strings.TrimSpace(trimmed[len("name:"):]); v != "" {
				return v
			}
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > 80 || isLabeledLine(trimmed) {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		if allDigits(fields[0]) {
			continue
		}
		if !containsLetter(trimmed) {
			continue
		}
		return trimmed
	}

	return ""
}

func isLabeledLine(line string) bool {
	lower := strings.ToLower(line)
	for _, label := range fieldLabels {
		if strings.HasPrefix(lower, label) {
			return true
		}
	}
	return false
}

func looksLikeStreetLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 || !allDigits(fields[0]) {
		return false
	}
	if strings.Contains(line, ",") {
		return true
	}
	for _, f := range fields[1:] {
		w := strings.ToLower(strings.Trim(f, ".,;"))
		if streetSuffixes[w] {
			return true
		}
	}
	return false
}

func dedupIndicators(in []Indicator) []Indicator {
	seen := make(map[string]bool, len(in))
	out := make([]Indicator, 0, len(in))
	for _, ind := range in {
		key := string(ind.Type) + ":" + strings.ToLower(ind.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ind)
	}
	return out
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
