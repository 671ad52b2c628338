// internal/testutil/mocks.go
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
)

// StepRecorder captura los pasos de progreso emitidos durante una recolección.
type StepRecorder struct {
	mu    sync.Mutex
	steps []string
}

// NewStepRecorder crea un recorder vacío.
func NewStepRecorder() *StepRecorder {
	return &StepRecorder{}
}

// Func retorna el callback que registra cada paso.
func (r *StepRecorder) Func() func(string) {
	return func(step string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.steps = append(r.steps, step)
	}
}

// Steps retorna una copia de los pasos registrados.
func (r *StepRecorder) Steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.steps))
	copy(out, r.steps)
	return out
}

// Contains indica si algún paso registrado contiene el substring dado.
func (r *StepRecorder) Contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// MockProbe es una sonda configurable para tests. Por defecto acepta
// dominios y retorna hallazgos vacíos; RunFunc permite inyectar
// comportamiento por test.
type MockProbe struct {
	ProbeName    string
	ProbeTargets []domain.TargetType
	RunFunc      func(ctx context.Context, target domain.Target) (*domain.Findings, error)

	mu     sync.Mutex
	runs   []domain.Target
	closed bool
}

// Name retorna el nombre configurado o "mock".
func (m *MockProbe) Name() string {
	if m.ProbeName == "" {
		return "mock"
	}
	return m.ProbeName
}

// Targets retorna los tipos configurados o domain por defecto.
func (m *MockProbe) Targets() []domain.TargetType {
	if len(m.ProbeTargets) == 0 {
		return []domain.TargetType{domain.TargetTypeDomain}
	}
	return m.ProbeTargets
}

// Run registra la invocación y delega en RunFunc si está definido.
func (m *MockProbe) Run(ctx context.Context, target domain.Target) (*domain.Findings, error) {
	m.mu.Lock()
	m.runs = append(m.runs, target)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, target)
	}
	return domain.NewFindings(), nil
}

// Close marca la sonda como cerrada.
func (m *MockProbe) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Runs retorna una copia de los targets con los que se invocó la sonda.
func (m *MockProbe) Runs() []domain.Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Target, len(m.runs))
	copy(out, m.runs)
	return out
}

// RunCount retorna el número de invocaciones.
func (m *MockProbe) RunCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

// Closed indica si Close fue llamado.
func (m *MockProbe) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockSearcher es un proveedor de búsqueda configurable para tests.
type MockSearcher struct {
	ProviderName string
	SearchFunc   func(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error)

	mu      sync.Mutex
	queries []string
}

// Provider retorna el nombre configurado o "mock".
func (m *MockSearcher) Provider() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Search registra la consulta y delega en SearchFunc si está definido.
func (m *MockSearcher) Search(ctx context.Context, query string, opts ports.SearchOptions) (*ports.SearchResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return &ports.SearchResponse{Provider: m.Provider(), Query: query}, nil
}

// Queries retorna una copia de las consultas recibidas.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
