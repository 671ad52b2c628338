// internal/core/extract/normalize.go
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/platform/validator"
)

var leadingStreetNumber = regexp.MustCompile(`^\d+\s+\S+`)

// NormalizeTarget limpia un valor de objetivo tal y como lo escribe un
// usuario: recorta espacios, elimina el esquema http(s):// y descarta
// cualquier path tras el primer "/".
func NormalizeTarget(value string) string {
	v := strings.TrimSpace(value)

	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") {
		v = v[len("http://"):]
	} else if strings.HasPrefix(lower, "https://") {
		v = v[len("https://"):]
	}

	if idx := strings.Index(v, "/"); idx >= 0 {
		v = v[:idx]
	}

	return v
}

// GuessTargetType infiere el tipo de un objetivo cuando el caller no lo
// indica explícitamente. Las heurísticas se evalúan en orden: de la más
// específica (ip) a la más genérica (username como fallback).
func GuessTargetType(value string) domain.TargetType {
	v := strings.TrimSpace(value)

	if validator.IsIPv4(v) {
		return domain.TargetTypeIP
	}

	if strings.Contains(v, "@") {
		return domain.TargetTypeEmail
	}

	if strings.Contains(v, ".") && !strings.Contains(v, " ") {
		return domain.TargetTypeDomain
	}

	if n := digitCount(v); n >= 10 && n <= 15 {
		return domain.TargetTypePhone
	}

	if leadingStreetNumber.MatchString(v) || strings.Contains(v, ",") {
		return domain.TargetTypeAddress
	}

	if containsLetter(v) && len(strings.Fields(v)) >= 2 {
		return domain.TargetTypeName
	}

	return domain.TargetTypeUsername
}

// NormalizePhone reduce un teléfono a sus dígitos, conservando un único
// "+" inicial si estaba presente. Retorna cadena vacía si no quedan
// dígitos.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	return digits
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// emailDomain retorna la parte de dominio de un email, ya normalizada.
func emailDomain(email string) string {
	idx := strings.LastIndex(email, "@")
	if idx < 0 || idx == len(email)-1 {
		return ""
	}
	return validator.NormalizeDomain(email[idx+1:])
}
