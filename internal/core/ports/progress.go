// internal/core/ports/progress.go
package ports

// StepFunc recibe notificaciones de avance legibles por humanos durante
// una recolección ("probing dns", "searching web", ...). Es opcional:
// un valor nil desactiva las notificaciones.
type StepFunc func(step string)

// NotifyStep invoca el callback de progreso si está presente.
// Un panic dentro del callback nunca debe abortar la recolección,
// así que se recupera y se descarta.
func NotifyStep(fn StepFunc, step string) {
	if fn == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	fn(step)
}
