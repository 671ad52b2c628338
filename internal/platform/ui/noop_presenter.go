// internal/platform/ui/noop_presenter.go
package ui

// NoopPresenter es una implementación vacía del Presenter que no produce
// ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoop crea una instancia del presenter sin salida.
func NewNoop() *NoopPresenter {
	return &NoopPresenter{}
}

// Start no hace nada
func (n *NoopPresenter) Start(info CollectionInfo) {}

// Step no hace nada
func (n *NoopPresenter) Step(msg string) {}

// Info no hace nada
func (n *NoopPresenter) Info(msg string) {}

// Warning no hace nada
func (n *NoopPresenter) Warning(msg string) {}

// Error no hace nada
func (n *NoopPresenter) Error(msg string) {}

// Finish no hace nada
func (n *NoopPresenter) Finish(stats CollectionStats) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
