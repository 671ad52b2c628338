// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm para
// renderizar un spinner de actividad, colores y paneles en la terminal.
// El motor es secuencial: un único spinner refleja el paso en curso.
type PTermPresenter struct {
	mu sync.Mutex

	spinner *pterm.SpinnerPrinter
}

// NewPTerm crea una nueva instancia del presenter con pterm.
func NewPTerm() *PTermPresenter {
	return &PTermPresenter{}
}

// Start inicia la presentación mostrando el header de la recolección.
func (p *PTermPresenter) Start(info CollectionInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	title := "OSINT Collector"
	if info.Version != "" {
		title = fmt.Sprintf("OSINT Collector %s", info.Version)
	}

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println(title)

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Collection Target").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	targetInfo := fmt.Sprintf("%s Target: %s\n", IconTarget, pterm.Cyan(info.Target))
	targetInfo += fmt.Sprintf("   Type: %s\n", pterm.Yellow(info.Type))
	targetInfo += fmt.Sprintf("   Depth: %s\n", pterm.Yellow(info.Depth))
	if info.CaseID != "" {
		targetInfo += fmt.Sprintf("   Case: %s\n", info.CaseID)
	}
	targetInfo += fmt.Sprintf("%s Budget: %s\n", IconTime, formatDuration(info.Budget))
	targetInfo += fmt.Sprintf("%s Probes: %s\n", IconProbes, strings.Join(info.Probes, ", "))
	targetInfo += fmt.Sprintf("%s Search: %s", IconSearch, searchLabel(info.SearchProvider))

	infoPanel.Println(targetInfo)

	pterm.Println()
	pterm.Println(pterm.LightBlue(SeparatorHeavy))
	pterm.Println()
}

// Step actualiza el spinner con el paso en curso del motor.
func (p *PTermPresenter) Step(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := fmt.Sprintf("  %s", msg)

	if p.spinner == nil {
		spinner, err := pterm.DefaultSpinner.
			WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
			Start(text)
		if err != nil {
			pterm.Println(text)
			return
		}
		p.spinner = spinner
		return
	}

	p.spinner.UpdateText(text)
}

// Info muestra un mensaje informativo.
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia.
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error.
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish finaliza la presentación con estadísticas finales.
func (p *PTermPresenter) Finish(stats CollectionStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	pterm.Println()
	pterm.Println(pterm.LightBlue(SeparatorHeavy))
	pterm.Println()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgGreen)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Collection Completed")

	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Collection Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	statsContent := fmt.Sprintf("%s Duration: %s\n",
		IconTime,
		pterm.Green(formatDuration(stats.Duration)),
	)
	statsContent += fmt.Sprintf("%s Evidence: %s\n",
		IconEvidence,
		pterm.Cyan(fmt.Sprintf("%d", stats.Evidence)),
	)
	statsContent += fmt.Sprintf("   Entities: %s\n",
		pterm.Yellow(fmt.Sprintf("%d", stats.Entities)),
	)
	statsContent += fmt.Sprintf("%s Probes Run: %s\n",
		IconProbes,
		pterm.Cyan(fmt.Sprintf("%d", len(stats.ProbesRun))),
	)

	if stats.Recursions > 0 {
		statsContent += fmt.Sprintf("   Recursions: %s\n",
			pterm.Magenta(fmt.Sprintf("%d", stats.Recursions)),
		)
	}
	if stats.RiskDelta != 0 {
		statsContent += fmt.Sprintf("   Risk Delta: %s\n",
			pterm.Red(fmt.Sprintf("%+d", stats.RiskDelta)),
		)
	}

	statsContent += fmt.Sprintf("%s Confidence: %s",
		IconStats,
		pterm.Cyan(fmt.Sprintf("%.3f (%s)", stats.Confidence, stats.ConfidenceLabel)),
	)

	statsPanel.Println(statsContent)

	// Tabla de entidades por tipo (si hay datos)
	if len(stats.EntitiesByType) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Entities by Type")

		types := make([]string, 0, len(stats.EntitiesByType))
		for entityType := range stats.EntitiesByType {
			types = append(types, entityType)
		}
		sort.Strings(types)

		tableData := pterm.TableData{
			{"Type", "Count"},
		}
		for _, entityType := range types {
			tableData = append(tableData, []string{
				entityType,
				fmt.Sprintf("%d", stats.EntitiesByType[entityType]),
			})
		}

		pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(tableData).
			Render()
	}

	pterm.Println()
}

// Close limpia recursos del presenter.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	return nil
}

// stopSpinner detiene el spinner activo. Requiere p.mu.
func (p *PTermPresenter) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

// searchLabel renderiza el proveedor de búsqueda u OFF si no hay.
func searchLabel(provider string) string {
	if provider == "" {
		return pterm.Gray("OFF")
	}
	return pterm.Green(provider)
}
