// cmd/osint/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theclubco2025/osint/internal/adapters/output"
	"github.com/theclubco2025/osint/internal/adapters/searchweb"
	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/core/usecases"
	"github.com/theclubco2025/osint/internal/platform/config"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/platform/registry"
	"github.com/theclubco2025/osint/internal/platform/ui"

	// Import probes for auto-registration via init()
	_ "github.com/theclubco2025/osint/internal/sources/ctlog"
	_ "github.com/theclubco2025/osint/internal/sources/dnsprobe"
	_ "github.com/theclubco2025/osint/internal/sources/geocode"
	_ "github.com/theclubco2025/osint/internal/sources/kb"
	_ "github.com/theclubco2025/osint/internal/sources/local"
	_ "github.com/theclubco2025/osint/internal/sources/profile"
	_ "github.com/theclubco2025/osint/internal/sources/rdap"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (handles help/version internally)
	cfg, err := config.Load(version, commit, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	// Validate target
	if cfg.Core.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: target is required")
		fmt.Fprintln(os.Stderr, "Usage: osint -t <target>")
		fmt.Fprintln(os.Stderr, "Try: osint -h for help")
		os.Exit(2)
	}

	// 2. Shared logger
	logger := logx.New()

	logger.Info("osint starting",
		"version", version,
		"commit", commit,
		"date", date,
		"target", cfg.Core.Target,
		"depth", cfg.Core.Depth,
	)

	applyProxy(cfg, logger)

	// 3. Shared time budget and context with signal cancellation
	budget := cfg.Budget()

	ctx, cancel := rootContextWithSignals(budget)
	defer cancel()

	// 4. Build probes from registry
	probes, err := buildProbes(cfg, logger)
	if err != nil {
		logger.Err(err, "phase", "probe-build")
		os.Exit(2)
	}

	if len(probes) == 0 {
		logger.Err(fmt.Errorf("no probes enabled"))
		os.Exit(2)
	}

	// Ensure probe cleanup on exit
	defer func() {
		for _, probe := range probes {
			if err := probe.Close(); err != nil {
				logger.Warn("failed to close probe",
					"probe", probe.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	logger.Info("probes built", "count", len(probes))

	// 5. Build web search provider (nil = search disabled)
	searcher, err := searchweb.New(searchweb.Config{
		Provider:  cfg.Search.Provider,
		BraveKey:  cfg.Search.BraveKey,
		GoogleKey: cfg.Search.GoogleKey,
		GoogleCX:  cfg.Search.GoogleCX,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Network.UserAgent,
	}, logger)
	if err != nil {
		logger.Err(err, "phase", "search-build")
		os.Exit(2)
	}

	// 6. Progress presenter (fancy/plain/quiet depending on terminal)
	presenter := ui.New(ui.DetectMode(cfg.Output.UIDisabled, os.Stdout))
	defer presenter.Close()

	presenter.Start(collectionInfo(cfg, probes, budget))

	// 7. Create collection orchestrator
	collector := usecases.NewCollector(usecases.CollectorOptions{
		Probes:   probes,
		Searcher: searcher,
		Logger:   logger,
		OnStep:   presenter.Step,
		Version:  version,
	})

	// 8. Execute collection workflow
	target := domain.Target{
		Value:  cfg.Core.Target,
		Type:   domain.TargetType(cfg.Core.Type),
		Depth:  cfg.Depth(),
		CaseID: cfg.Core.CaseID,
	}

	result, err := collector.Collect(ctx, target, budget)
	if err != nil {
		// Collect solo retorna error ante un objetivo inválido; el resto
		// de fallos se degradan a evidencia dentro del resultado.
		presenter.Error(fmt.Sprintf("invalid target: %v", err))
		presenter.Close()
		logger.Err(err, "phase", "validation")
		os.Exit(2)
	}

	presenter.Finish(collectionStats(result))

	// 9. Write outputs
	if err := writeOutputs(cfg, result, logger); err != nil {
		logger.Err(err, "phase", "output")
		os.Exit(1)
	}

	// 10. Summary
	logger.Info("osint finished",
		"duration_ms", result.Metadata.Duration.Milliseconds(),
		"evidence", result.TotalEvidence(),
		"entities", result.TotalEntities(),
		"recursions", result.Metadata.Recursions,
		"confidence", result.Confidence,
	)
}

// buildProbes builds enabled probes from the registry, injecting the
// network-level resolver into the DNS probe config.
func buildProbes(cfg config.Config, logger logx.Logger) ([]ports.Probe, error) {
	if cfg.Network.Resolver != "" {
		if probeCfg, ok := cfg.Probes["dns"]; ok {
			if probeCfg.Custom == nil {
				probeCfg.Custom = make(map[string]interface{})
			}
			probeCfg.Custom["resolver"] = cfg.Network.Resolver
			cfg.Probes["dns"] = probeCfg
		}
	}

	probes, err := registry.Global().Build(cfg.Probes, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build probes: %w", err)
	}

	return probes, nil
}

// applyProxy publishes the configured proxy in the process environment.
// The default HTTP transport reads HTTP(S)_PROXY on first use.
func applyProxy(cfg config.Config, logger logx.Logger) {
	if cfg.Network.ProxyURL == "" {
		return
	}

	os.Setenv("HTTP_PROXY", cfg.Network.ProxyURL)
	os.Setenv("HTTPS_PROXY", cfg.Network.ProxyURL)
	logger.Debug("proxy configured", "url", cfg.Network.ProxyURL)
}

// collectionInfo assembles the banner data shown before the run starts.
func collectionInfo(cfg config.Config, probes []ports.Probe, budget *domain.Budget) ui.CollectionInfo {
	names := make([]string, 0, len(probes))
	for _, probe := range probes {
		names = append(names, probe.Name())
	}

	targetType := cfg.Core.Type
	if targetType == "" {
		targetType = "auto"
	}

	return ui.CollectionInfo{
		Target:         cfg.Core.Target,
		Type:           targetType,
		Depth:          cfg.Core.Depth,
		CaseID:         cfg.Core.CaseID,
		Budget:         budget.Window,
		Probes:         names,
		SearchProvider: cfg.Search.Provider,
		Version:        version,
	}
}

// collectionStats maps the final result onto the presenter stats panel.
func collectionStats(result *domain.CollectionResult) ui.CollectionStats {
	return ui.CollectionStats{
		Duration:        result.Metadata.Duration,
		Evidence:        result.TotalEvidence(),
		Entities:        result.TotalEntities(),
		Recursions:      result.Metadata.Recursions,
		RiskDelta:       result.RiskDelta,
		Confidence:      result.Confidence,
		ConfidenceLabel: domain.GetConfidenceLabel(result.Confidence),
		ProbesRun:       result.Metadata.ProbesRun,
		EntitiesByType:  result.EntityStats(),
	}
}

// writeOutputs decides and executes outputs based on config.
// The JSON file is always written; stdout carries raw JSON in quiet mode
// and the human-readable summary otherwise.
func writeOutputs(cfg config.Config, result *domain.CollectionResult, logger logx.Logger) error {
	opts := ports.DefaultExportOptions()
	opts.Pretty = cfg.Output.Pretty

	path, err := output.NewJSON().WriteFile(result, cfg.Output.Dir, opts)
	if err != nil {
		return fmt.Errorf("json output: %w", err)
	}

	logger.Info("result written", "path", path)

	if cfg.Output.UIDisabled {
		if err := output.NewJSON().ExportToWriter(result, os.Stdout, opts); err != nil {
			return fmt.Errorf("json stdout: %w", err)
		}
		return nil
	}

	if err := output.NewSummary().Export(result, opts); err != nil {
		return fmt.Errorf("summary output: %w", err)
	}

	return nil
}

// rootContextWithSignals creates the root context with signal cancellation
// and a deadline slightly past the budget window. The orchestrator checks
// the budget between steps; the context deadline is the safety net that
// cuts off a hung probe.
func rootContextWithSignals(budget *domain.Budget) (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithDeadline(
		context.Background(),
		budget.Deadline().Add(30*time.Second),
	)

	// System signal channel
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	// Cleanup function that releases signals and the base context
	cleanupCancel := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
