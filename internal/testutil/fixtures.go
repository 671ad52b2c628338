// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureDomains contiene dominios de prueba válidos.
var FixtureDomains = []string{
	"example.com",
	"test.example.com",
	"subdomain.example.com",
	"another.test.example.com",
}

// FixtureInvalidDomains contiene dominios inválidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"2001:db8::1",
	"-invalid.com",
	"invalid-.com",
	".example.com",
	"example..com",
}

// FixtureIPs contiene IPs de prueba.
var FixtureIPs = []string{
	"192.168.1.1",
	"10.0.0.1",
	"172.16.0.1",
	"8.8.8.8",
}

// FixtureIPv6 contiene IPv6 de prueba.
var FixtureIPv6 = []string{
	"2001:db8::1",
	"fe80::1",
	"::1",
}

// FixtureEmails contiene emails de prueba.
var FixtureEmails = []string{
	"admin@example.com",
	"contact@example.com",
	"info@subdomain.example.com",
}

// FixtureUsernames contiene usernames de prueba.
var FixtureUsernames = []string{
	"jdoe",
	"maria_garcia",
	"dev.ops42",
}

// FixturePhones contiene teléfonos de prueba en varios formatos.
var FixturePhones = []string{
	"+12125550123",
	"+1 (212) 555-0123",
	"212-555-0123",
	"+34 612 34 56 78",
}

// FixtureAddresses contiene direcciones postales de prueba.
var FixtureAddresses = []string{
	"123 Main Street, Springfield, IL",
	"Calle Mayor 5, 28013 Madrid",
}

// FixtureNames contiene nombres de persona de prueba.
var FixtureNames = []string{
	"John Doe",
	"Maria Garcia Lopez",
}

// FixtureURLs contiene URLs de prueba.
var FixtureURLs = []string{
	"https://example.com",
	"https://example.com/path",
	"https://subdomain.example.com/api/v1",
	"http://test.example.com:8080",
}

// FixtureProfileURLs contiene URLs de perfiles sociales de prueba.
var FixtureProfileURLs = []string{
	"https://github.com/jdoe",
	"https://twitter.com/jdoe",
	"https://www.instagram.com/jdoe/",
	"https://www.linkedin.com/in/jdoe",
}
