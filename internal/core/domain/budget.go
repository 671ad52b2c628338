// internal/core/domain/budget.go
package domain

import (
	"time"
)

// Budget representa el presupuesto de tiempo compartido de una recolección.
// Se comparte por puntero entre la invocación raíz y todas sus recursiones:
// el instante de inicio nunca se reinicia, de modo que el coste total de un
// caso completo (incluidas sus sub-recolecciones) queda acotado por un único
// deadline.
type Budget struct {
	// StartedAt instante en el que arrancó la invocación raíz
	StartedAt time.Time

	// Window duración total permitida. Un valor <= 0 significa presupuesto
	// agotado desde el inicio.
	Window time.Duration
}

// NewBudget crea un presupuesto que arranca ahora.
func NewBudget(window time.Duration) *Budget {
	return &Budget{
		StartedAt: time.Now(),
		Window:    window,
	}
}

// Expired indica si el presupuesto se agotó.
func (b *Budget) Expired() bool {
	if b.Window <= 0 {
		return true
	}
	return time.Since(b.StartedAt) >= b.Window
}

// Remaining retorna el tiempo restante (0 si ya expiró).
func (b *Budget) Remaining() time.Duration {
	if b.Window <= 0 {
		return 0
	}
	rem := b.Window - time.Since(b.StartedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// Elapsed retorna el tiempo consumido desde el arranque.
func (b *Budget) Elapsed() time.Duration {
	return time.Since(b.StartedAt)
}

// Deadline retorna el instante límite absoluto.
func (b *Budget) Deadline() time.Time {
	return b.StartedAt.Add(b.Window)
}
