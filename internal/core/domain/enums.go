// internal/core/domain/enums.go
package domain

// TargetType clasifica el identificador objetivo de una recolección.
type TargetType string

const (
	// TargetTypeDomain representa un dominio (example.com)
	TargetTypeDomain TargetType = "domain"

	// TargetTypeEmail representa una dirección de correo
	TargetTypeEmail TargetType = "email"

	// TargetTypeUsername representa un alias o handle
	TargetTypeUsername TargetType = "username"

	// TargetTypeIP representa una dirección IP
	TargetTypeIP TargetType = "ip"

	// TargetTypePhone representa un número de teléfono
	TargetTypePhone TargetType = "phone"

	// TargetTypeAddress representa una dirección postal
	TargetTypeAddress TargetType = "address"

	// TargetTypeName representa un nombre de persona
	TargetTypeName TargetType = "name"

	// TargetTypeCase representa una descripción libre multi-línea que se
	// descompone en indicadores antes de recolectar
	TargetTypeCase TargetType = "case"
)

// IsValid verifica si el tipo de target es válido.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeDomain, TargetTypeEmail, TargetTypeUsername, TargetTypeIP,
		TargetTypePhone, TargetTypeAddress, TargetTypeName, TargetTypeCase:
		return true
	default:
		return false
	}
}

// Searchable indica si el tipo participa en la pasada de búsqueda web.
func (t TargetType) Searchable() bool {
	switch t {
	case TargetTypeName, TargetTypeUsername, TargetTypeEmail,
		TargetTypePhone, TargetTypeDomain, TargetTypeIP:
		return true
	default:
		return false
	}
}

// String retorna la representación string del tipo.
func (t TargetType) String() string {
	return string(t)
}

// Depth define el nivel de esfuerzo de una recolección.
type Depth string

const (
	// DepthNormal es la profundidad por defecto
	DepthNormal Depth = "normal"

	// DepthThorough amplía cuotas de indicadores, consultas y leads
	DepthThorough Depth = "thorough"
)

// IsValid verifica si la profundidad es válida.
func (d Depth) IsValid() bool {
	switch d {
	case DepthNormal, DepthThorough:
		return true
	default:
		return false
	}
}

// String retorna la representación string de la profundidad.
func (d Depth) String() string {
	return string(d)
}

// EntityType clasifica los distintos tipos de entidades descubiertas.
type EntityType string

const (
	// EntityTypeEmail representa una dirección de correo electrónico
	EntityTypeEmail EntityType = "email"

	// EntityTypeIP representa una dirección IP
	EntityTypeIP EntityType = "ip"

	// EntityTypeDomain representa un dominio o subdominio
	EntityTypeDomain EntityType = "domain"

	// EntityTypeURL representa una URL completa
	EntityTypeURL EntityType = "url"

	// EntityTypePhone representa un número de teléfono
	EntityTypePhone EntityType = "phone"

	// EntityTypeAddress representa una dirección postal
	EntityTypeAddress EntityType = "address"

	// EntityTypePerson representa una persona identificada
	EntityTypePerson EntityType = "person"

	// EntityTypeOrg representa una organización
	EntityTypeOrg EntityType = "org"

	// EntityTypeUsername representa un alias en una plataforma
	EntityTypeUsername EntityType = "username"

	// EntityTypeLocation representa coordenadas geográficas
	EntityTypeLocation EntityType = "location"
)

// IsValid verifica si el tipo de entidad es válido.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeEmail, EntityTypeIP, EntityTypeDomain, EntityTypeURL,
		EntityTypePhone, EntityTypeAddress, EntityTypePerson, EntityTypeOrg,
		EntityTypeUsername, EntityTypeLocation:
		return true
	default:
		return false
	}
}

// Category retorna la categoría a la que pertenece el tipo de entidad.
func (t EntityType) Category() string {
	switch t {
	case EntityTypeDomain, EntityTypeIP:
		return "infrastructure"

	case EntityTypeURL:
		return "web"

	case EntityTypeEmail, EntityTypePhone:
		return "contact"

	case EntityTypePerson, EntityTypeOrg, EntityTypeUsername:
		return "identity"

	case EntityTypeAddress, EntityTypeLocation:
		return "geo"

	default:
		return "unknown"
	}
}

// String retorna la representación string del tipo.
func (t EntityType) String() string {
	return string(t)
}

// RiskLevel califica el riesgo asociado a una entidad descubierta.
type RiskLevel string

const (
	// RiskLow riesgo bajo (valor por defecto)
	RiskLow RiskLevel = "low"

	// RiskMedium riesgo medio
	RiskMedium RiskLevel = "medium"

	// RiskHigh riesgo alto
	RiskHigh RiskLevel = "high"
)

// IsValid verifica si el nivel de riesgo es válido.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// String retorna la representación string del nivel.
func (r RiskLevel) String() string {
	return string(r)
}
