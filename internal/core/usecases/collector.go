// internal/core/usecases/collector.go

// Package usecases implementa el orquestador de recolección: decide qué
// sondas aplican a un objetivo, las ejecuta secuencialmente bajo un
// presupuesto de tiempo compartido, lanza la pasada de búsqueda web y
// sigue de forma acotada los leads descubiertos. El manejo de fallos es
// degradante en todos los niveles: una sonda que falla se convierte en
// evidencia de baja confianza, nunca en un error del caller.
package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/extract"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/platform/logx"
)

// collectorSource identifica la evidencia emitida por el propio
// orquestador (descomposición de casos, avisos de búsqueda omitida).
const collectorSource = "collector"

// Tags de la evidencia emitida por el orquestador.
const (
	tagCase   = "case"
	tagSearch = "search"
)

// Ventanas de presupuesto por defecto cuando el caller no aporta una.
const (
	defaultWindowNormal   = 60 * time.Second
	defaultWindowThorough = 180 * time.Second
)

// Topes independientes de la profundidad.
const (
	// maxResultsPerQuery resultados procesados por consulta de búsqueda
	maxResultsPerQuery = 10

	// maxEmailsPerResult emails cosechados de título+snippet por resultado
	maxEmailsPerResult = 3

	// maxPhonesPerResult teléfonos cosechados por resultado
	maxPhonesPerResult = 2
)

// depthLimits agrupa las cuotas que dependen de la profundidad.
type depthLimits struct {
	// caseIndicators sub-recolecciones lanzadas por los indicadores de un caso
	caseIndicators int

	// caseQueries indicadores de mayor señal buscados en la pasada del caso
	caseQueries int

	// searchQueries consultas por pasada de búsqueda
	searchQueries int

	// leads dominios y usernames seguidos, por categoría
	leads int
}

func limitsFor(depth domain.Depth) depthLimits {
	if depth == domain.DepthThorough {
		return depthLimits{caseIndicators: 20, caseQueries: 4, searchQueries: 5, leads: 4}
	}
	return depthLimits{caseIndicators: 8, caseQueries: 2, searchQueries: 2, leads: 1}
}

// Collector orquesta una recolección completa contra un objetivo.
// Es reentrante: todo el estado mutable de una invocación vive en su
// propia collection, y el presupuesto compartido viaja por puntero a
// través de cada recursión.
type Collector struct {
	probes   []ports.Probe
	searcher ports.Searcher
	dedupe   *DedupeService
	logger   logx.Logger
	onStep   ports.StepFunc
	version  string
}

// CollectorOptions configura el colector.
type CollectorOptions struct {
	// Probes sondas disponibles, ya construidas y ordenadas por prioridad
	Probes []ports.Probe

	// Searcher proveedor de búsqueda activo; nil = búsqueda desactivada
	Searcher ports.Searcher

	Logger logx.Logger

	// OnStep sink opcional de progreso legible por el operador
	OnStep ports.StepFunc

	// Version se copia a los metadatos de cada resultado
	Version string
}

// NewCollector crea el orquestador.
func NewCollector(opts CollectorOptions) *Collector {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &Collector{
		probes:   opts.Probes,
		searcher: opts.Searcher,
		dedupe:   NewDedupeService(),
		logger:   opts.Logger.With("component", "collector"),
		onStep:   opts.OnStep,
		version:  opts.Version,
	}
}

// collection agrupa el estado mutable de una invocación. Cada recursión
// crea la suya; el presupuesto es el único estado compartido entre la
// invocación raíz y sus descendientes.
type collection struct {
	target domain.Target
	budget *domain.Budget
	result *domain.CollectionResult
	limits depthLimits

	// budgetNoted evita repetir el paso "time budget reached"
	budgetNoted bool
}

// Collect ejecuta una recolección contra el objetivo y retorna siempre
// lo acumulado: los fallos parciales se degradan a evidencia de baja
// confianza. El único error posible es un objetivo inválido. Un budget
// nil arranca uno nuevo con la ventana por defecto de la profundidad;
// las invocaciones recursivas comparten el del padre, cuyo inicio nunca
// se reinicia.
func (c *Collector) Collect(ctx context.Context, target domain.Target, budget *domain.Budget) (*domain.CollectionResult, error) {
	if !target.Depth.IsValid() {
		target.Depth = domain.DepthNormal
	}

	// Las descripciones de caso se conservan tal cual; el resto de
	// valores se limpia y, si el caller no fijó tipo, se infiere.
	if target.Type != domain.TargetTypeCase {
		target.Value = extract.NormalizeTarget(target.Value)
		if target.Type == "" {
			target.Type = extract.GuessTargetType(target.Value)
		}
	}

	if err := target.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid collection target")
	}

	if budget == nil {
		budget = defaultBudget(target.Depth)
	}

	col := &collection{
		target: target,
		budget: budget,
		result: domain.NewCollectionResult(target),
		limits: limitsFor(target.Depth),
	}
	col.result.Metadata.Version = c.version
	if c.searcher != nil && !target.SkipWebSearch {
		col.result.Metadata.SearchProvider = c.searcher.Provider()
	}

	c.notify(fmt.Sprintf("collecting %s target %s", target.Type, describeTarget(target)))
	c.logger.Info("collection started",
		"type", string(target.Type),
		"depth", string(target.Depth),
		"skip_search", target.SkipWebSearch,
		"remaining_ms", budget.Remaining().Milliseconds(),
	)

	if target.Type == domain.TargetTypeCase {
		c.collectCase(ctx, col)
	} else {
		c.collectSingle(ctx, col)
	}

	// Deduplicación única por invocación, sobre la lista acumulada.
	col.result.Entities = c.dedupe.Deduplicate(col.result.Entities)
	col.result.Finalize()

	c.logger.Info("collection finished",
		"evidence", len(col.result.Evidence),
		"entities", len(col.result.Entities),
		"risk_delta", col.result.RiskDelta,
		"confidence", col.result.Confidence,
		"duration_ms", col.result.Metadata.Duration.Milliseconds(),
	)

	return col.result, nil
}

// collectSingle ejecuta la rama no-case: sondas filtradas por tipo, la
// pasada de búsqueda y el seguimiento de leads, comprobando el deadline
// antes de cada unidad de trabajo.
func (c *Collector) collectSingle(ctx context.Context, col *collection) {
	for _, probe := range c.probes {
		if !probeAccepts(probe, col.target.Type) {
			continue
		}
		if c.expired(col) {
			return
		}
		c.runProbe(ctx, col, probe)
	}

	if col.target.Type.Searchable() {
		c.searchPass(ctx, col, typeQueries(col.target))
	}

	c.followLeads(ctx, col)
}

// runProbe ejecuta una sonda con aislamiento total: un error o un panic
// se degradan a evidencia de fallo y la recolección continúa.
func (c *Collector) runProbe(ctx context.Context, col *collection, probe ports.Probe) {
	name := probe.Name()
	c.notify(fmt.Sprintf("querying %s", name))
	col.result.RecordProbe(name)

	findings, err := c.safeRun(ctx, probe, col.target)
	if err != nil {
		c.logger.Warn("probe failed", "probe", name, "error", err.Error())
		ev := domain.NewTextEvidence(
			fmt.Sprintf("%s lookup failed for %s", name, col.target.Value),
			name,
			err.Error(),
		).WithTags(name, "error").WithConfidence(domain.ConfidenceFailed)
		col.result.Evidence = append(col.result.Evidence, ev)
		return
	}

	col.result.Absorb(findings)
}

// safeRun aísla la ejecución de una sonda: un panic dentro de la sonda
// se convierte en un error normal en lugar de tumbar la recolección.
func (c *Collector) safeRun(ctx context.Context, probe ports.Probe, target domain.Target) (findings *domain.Findings, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = errors.Errorf("probe %s panicked: %v", probe.Name(), r)
		}
	}()
	return probe.Run(ctx, target)
}

// recurse lanza una sub-recolección con el mismo presupuesto compartido
// y absorbe su resultado. Un sub-objetivo que no valida se descarta sin
// dejar rastro más allá del log.
func (c *Collector) recurse(ctx context.Context, col *collection, sub domain.Target, step string) {
	c.notify(step)

	subResult, err := c.Collect(ctx, sub, col.budget)
	if err != nil {
		c.logger.Debug("sub-collection discarded", "value", sub.Value, "error", err.Error())
		return
	}

	col.result.Evidence = append(col.result.Evidence, subResult.Evidence...)
	col.result.Entities = append(col.result.Entities, subResult.Entities...)
	col.result.RiskDelta += subResult.RiskDelta
	col.result.Metadata.Recursions += 1 + subResult.Metadata.Recursions
}

// expired comprueba el presupuesto compartido. El paso "time budget
// reached" se registra una sola vez por invocación, en el momento en que
// se detecta el agotamiento.
func (c *Collector) expired(col *collection) bool {
	if !col.budget.Expired() {
		return false
	}

	if !col.budgetNoted {
		col.budgetNoted = true
		c.notify("time budget reached")
		c.logger.Info("time budget reached",
			"elapsed_ms", col.budget.Elapsed().Milliseconds(),
		)
	}
	return true
}

func (c *Collector) notify(step string) {
	ports.NotifyStep(c.onStep, step)
}

func probeAccepts(probe ports.Probe, t domain.TargetType) bool {
	for _, tt := range probe.Targets() {
		if tt == t {
			return true
		}
	}
	return false
}

func defaultBudget(depth domain.Depth) *domain.Budget {
	if depth == domain.DepthThorough {
		return domain.NewBudget(defaultWindowThorough)
	}
	return domain.NewBudget(defaultWindowNormal)
}

func describeTarget(t domain.Target) string {
	if t.Type == domain.TargetTypeCase {
		return fmt.Sprintf("(%d chars)", len(t.Value))
	}
	return t.Value
}
