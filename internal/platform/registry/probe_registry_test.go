// internal/platform/registry/probe_registry_test.go
package registry

import (
	"errors"
	"testing"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/logx"
	"github.com/theclubco2025/osint/internal/testutil"
)

func TestProbeRegistry_Register(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "test"}, nil
	}

	meta := ports.ProbeMetadata{
		Name:    "test",
		Targets: []domain.TargetType{domain.TargetTypeDomain},
	}

	err := registry.Register("test", factory, meta)
	testutil.AssertNoError(t, err, "register should succeed")

	testutil.AssertTrue(t, registry.IsRegistered("test"), "probe should be registered")
}

func TestProbeRegistry_Register_Duplicate(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "test"}, nil
	}

	meta := ports.ProbeMetadata{Name: "test"}

	registry.Register("test", factory, meta)
	err := registry.Register("test", factory, meta)

	testutil.AssertTrue(t, err != nil, "duplicate registration should fail")
}

func TestProbeRegistry_Build(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "test"}, nil
	}

	meta := ports.ProbeMetadata{
		Name:    "test",
		Targets: []domain.TargetType{domain.TargetTypeDomain},
	}

	registry.Register("test", factory, meta)

	configs := map[string]ports.ProbeConfig{
		"test": {
			Enabled:  true,
			Priority: 5,
		},
	}

	probes, err := registry.Build(configs, logx.NewSilent())

	testutil.AssertNoError(t, err, "build should succeed")
	testutil.AssertEqual(t, len(probes), 1, "should build one probe")
}

func TestProbeRegistry_Build_DisabledProbe(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "test"}, nil
	}

	meta := ports.ProbeMetadata{Name: "test"}
	registry.Register("test", factory, meta)

	configs := map[string]ports.ProbeConfig{
		"test": {
			Enabled: false,
		},
	}

	_, err := registry.Build(configs, logx.NewSilent())

	// Cero sondas construidas con configuración no vacía es un error
	testutil.AssertError(t, err, "build with all probes disabled should fail")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoProbesAvailable), "error should be ErrNoProbesAvailable")
}

func TestProbeRegistry_Build_Priority(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factoryA := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "probe_a"}, nil
	}
	factoryB := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "probe_b"}, nil
	}

	registry.Register("probe_a", factoryA, ports.ProbeMetadata{Name: "probe_a"})
	registry.Register("probe_b", factoryB, ports.ProbeMetadata{Name: "probe_b"})

	configs := map[string]ports.ProbeConfig{
		"probe_a": {Enabled: true, Priority: 10},
		"probe_b": {Enabled: true, Priority: 5},
	}

	probes, err := registry.Build(configs, logx.NewSilent())

	testutil.AssertNoError(t, err, "build should succeed")
	testutil.AssertEqual(t, len(probes), 2, "should build two probes")

	// probe_a (priority 10) debe venir antes que probe_b (priority 5)
	testutil.AssertEqual(t, probes[0].Name(), "probe_a", "higher priority first")
	testutil.AssertEqual(t, probes[1].Name(), "probe_b", "lower priority second")
}

func TestProbeRegistry_Build_UnknownProbe(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{ProbeName: "known"}, nil
	}
	registry.Register("known", factory, ports.ProbeMetadata{Name: "known"})

	configs := map[string]ports.ProbeConfig{
		"known":   {Enabled: true},
		"unknown": {Enabled: true},
	}

	probes, err := registry.Build(configs, logx.NewSilent())

	// La sonda desconocida se ignora sin abortar el build
	testutil.AssertNoError(t, err, "build should succeed")
	testutil.AssertEqual(t, len(probes), 1, "should build only the known probe")
}

func TestProbeRegistry_List(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{}, nil
	}

	registry.Register("alpha", factory, ports.ProbeMetadata{Name: "alpha"})
	registry.Register("beta", factory, ports.ProbeMetadata{Name: "beta"})

	names := registry.List()

	testutil.AssertEqual(t, len(names), 2, "should list two probes")
	testutil.AssertEqual(t, names[0], "alpha", "should be sorted alphabetically")
	testutil.AssertEqual(t, names[1], "beta", "should be sorted alphabetically")
}

func TestProbeRegistry_GetMetadata(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{}, nil
	}

	meta := ports.ProbeMetadata{
		Name:        "test",
		Description: "Test probe",
		Version:     "1.0.0",
		Targets:     []domain.TargetType{domain.TargetTypeDomain, domain.TargetTypeIP},
	}

	registry.Register("test", factory, meta)

	retrieved, exists := registry.GetMetadata("test")

	testutil.AssertTrue(t, exists, "metadata should exist")
	testutil.AssertEqual(t, retrieved.Name, "test", "name should match")
	testutil.AssertEqual(t, retrieved.Description, "Test probe", "description should match")
	testutil.AssertTrue(t, retrieved.Accepts(domain.TargetTypeIP), "should accept ip targets")
	testutil.AssertFalse(t, retrieved.Accepts(domain.TargetTypeEmail), "should not accept email targets")
}

func TestProbeRegistry_Clear(t *testing.T) {
	registry := NewProbeRegistry(logx.NewSilent())

	factory := func(cfg ports.ProbeConfig, logger logx.Logger) (ports.Probe, error) {
		return &testutil.MockProbe{}, nil
	}

	registry.Register("test", factory, ports.ProbeMetadata{Name: "test"})
	testutil.AssertTrue(t, registry.IsRegistered("test"), "probe should be registered")

	registry.Clear()
	testutil.AssertTrue(t, !registry.IsRegistered("test"), "probe should not be registered after clear")
}
