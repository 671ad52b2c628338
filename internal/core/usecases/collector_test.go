// internal/core/usecases/collector_test.go
package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/errors"
	"github.com/theclubco2025/osint/internal/testutil"
)

func newTestCollector(opts CollectorOptions) *Collector {
	if opts.Logger == nil {
		opts.Logger = testutil.TestLogger()
	}
	return NewCollector(opts)
}

// stepIndex retorna la posición del primer paso que contiene substr, o -1.
func stepIndex(steps []string, substr string) int {
	for i, s := range steps {
		if strings.Contains(s, substr) {
			return i
		}
	}
	return -1
}

func countSteps(steps []string, substr string) int {
	n := 0
	for _, s := range steps {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

func findEvidence(result *domain.CollectionResult, title string) *domain.EvidenceDraft {
	for _, ev := range result.Evidence {
		if strings.Contains(ev.Title, title) {
			return ev
		}
	}
	return nil
}

func hasEntity(result *domain.CollectionResult, entityType domain.EntityType, value string) bool {
	for _, en := range result.Entities {
		if en.Type == entityType && en.Value == value {
			return true
		}
	}
	return false
}

func TestCollect_InvalidTarget(t *testing.T) {
	c := newTestCollector(CollectorOptions{})

	tests := []struct {
		name    string
		target  domain.Target
		wantErr error
	}{
		{
			name:    "empty value",
			target:  domain.Target{Value: "   "},
			wantErr: domain.ErrEmptyTarget,
		},
		{
			name:    "unknown explicit type",
			target:  domain.Target{Value: "something", Type: "satellite"},
			wantErr: domain.ErrInvalidTargetType,
		},
		{
			name:    "malformed domain value",
			target:  domain.Target{Value: "not a domain", Type: domain.TargetTypeDomain},
			wantErr: domain.ErrInvalidTargetValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Collect(context.Background(), tt.target, nil)
			testutil.AssertError(t, err, "collect should fail")
			testutil.AssertTrue(t, errors.Is(err, tt.wantErr), "error chain preserves the cause")
			if result != nil {
				t.Errorf("expected nil result, got %v", result.Summary())
			}
		})
	}
}

func TestCollect_NormalizesAndInfersType(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  domain.TargetType
		wantValue string
	}{
		{
			name:      "url stripped to domain",
			input:     "https://Example.com/path/page",
			wantType:  domain.TargetTypeDomain,
			wantValue: "example.com",
		},
		{
			name:      "email folded to lowercase",
			input:     "  JANE@Example.com ",
			wantType:  domain.TargetTypeEmail,
			wantValue: "jane@example.com",
		},
		{
			name:      "ipv4",
			input:     "203.0.113.7",
			wantType:  domain.TargetTypeIP,
			wantValue: "203.0.113.7",
		},
		{
			name:      "two words with letters is a name",
			input:     "Jane Doe",
			wantType:  domain.TargetTypeName,
			wantValue: "Jane Doe",
		},
		{
			name:      "fallback to username",
			input:     "jdoe_99",
			wantType:  domain.TargetTypeUsername,
			wantValue: "jdoe_99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &testutil.MockProbe{
				ProbeName: "all",
				ProbeTargets: []domain.TargetType{
					domain.TargetTypeDomain, domain.TargetTypeEmail,
					domain.TargetTypeIP, domain.TargetTypeName,
					domain.TargetTypeUsername,
				},
			}
			c := newTestCollector(CollectorOptions{Probes: []ports.Probe{probe}})

			target := domain.Target{Value: tt.input, SkipWebSearch: true}
			result, err := c.Collect(context.Background(), target, nil)
			testutil.AssertNoError(t, err, "collect")

			testutil.AssertEqual(t, result.Target.Type, tt.wantType, "inferred type")
			testutil.AssertEqual(t, result.Target.Value, tt.wantValue, "normalized value")

			runs := probe.Runs()
			testutil.AssertEqual(t, len(runs), 1, "probe invocations")
			testutil.AssertEqual(t, runs[0].Value, tt.wantValue, "probe sees the normalized value")
		})
	}
}

func TestCollect_ExplicitTypeNotOverridden(t *testing.T) {
	probe := &testutil.MockProbe{
		ProbeName:    "social",
		ProbeTargets: []domain.TargetType{domain.TargetTypeUsername},
	}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{probe}})

	// Parece un dominio, pero el caller lo declaró username.
	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeUsername, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	testutil.AssertEqual(t, result.Target.Type, domain.TargetTypeUsername, "type untouched")
	testutil.AssertEqual(t, probe.RunCount(), 1, "probe ran")
}

func TestCollect_ProbeGating(t *testing.T) {
	dns := &testutil.MockProbe{
		ProbeName:    "dns",
		ProbeTargets: []domain.TargetType{domain.TargetTypeDomain, domain.TargetTypeIP},
	}
	social := &testutil.MockProbe{
		ProbeName:    "social",
		ProbeTargets: []domain.TargetType{domain.TargetTypeUsername},
	}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{dns, social}})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	testutil.AssertEqual(t, dns.RunCount(), 1, "matching probe runs")
	testutil.AssertEqual(t, social.RunCount(), 0, "non-matching probe skipped")
	testutil.AssertLen(t, result.Metadata.ProbesRun, 1, "probes recorded")
	testutil.AssertContains(t, result.Metadata.ProbesRun, "dns", "probe name recorded")
}

func TestCollect_ProbeFailureDegrades(t *testing.T) {
	probe := &testutil.MockProbe{
		ProbeName: "whois",
		RunFunc: func(ctx context.Context, target domain.Target) (*domain.Findings, error) {
			return nil, errors.New("rate limited")
		},
	}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{probe}})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "probe failure must not abort the collection")

	testutil.AssertEqual(t, len(result.Evidence), 1, "failure evidence recorded")
	ev := result.Evidence[0]
	testutil.AssertEqual(t, ev.Title, "whois lookup failed for acme.example", "evidence title")
	testutil.AssertEqual(t, ev.Source, "whois", "evidence source")
	testutil.AssertEqual(t, ev.Content, "rate limited", "evidence content")
	testutil.AssertContains(t, ev.Tags, "error", "error tag")
	testutil.AssertContains(t, ev.Tags, "whois", "probe tag")

	conf, ok := ev.Confidence()
	testutil.AssertTrue(t, ok, "failure evidence is annotated")
	testutil.AssertEqual(t, conf, domain.ConfidenceFailed, "failure confidence")
	testutil.AssertEqual(t, result.Confidence, domain.ConfidenceFailed, "aggregate over the single item")
}

func TestCollect_ProbePanicIsolated(t *testing.T) {
	angry := &testutil.MockProbe{
		ProbeName: "angry",
		RunFunc: func(ctx context.Context, target domain.Target) (*domain.Findings, error) {
			panic("boom")
		},
	}
	calm := &testutil.MockProbe{ProbeName: "calm"}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{angry, calm}})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "panic must not escape the collection")

	testutil.AssertEqual(t, calm.RunCount(), 1, "later probes still run")

	ev := findEvidence(result, "angry lookup failed")
	testutil.AssertNotNil(t, ev, "panic degraded to failure evidence")
	testutil.AssertContains(t, ev.Content, "panicked", "panic noted in content")
	testutil.AssertContains(t, ev.Content, "boom", "panic value preserved")
}

func TestCollect_ZeroBudget(t *testing.T) {
	probe := &testutil.MockProbe{ProbeName: "dns"}
	recorder := testutil.NewStepRecorder()
	c := newTestCollector(CollectorOptions{
		Probes: []ports.Probe{probe},
		OnStep: recorder.Func(),
	})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain}
	result, err := c.Collect(context.Background(), target, domain.NewBudget(0))
	testutil.AssertNoError(t, err, "collect")

	testutil.AssertEqual(t, probe.RunCount(), 0, "no probes under an exhausted budget")
	testutil.AssertEqual(t, len(result.Evidence), 0, "no evidence accumulated")
	testutil.AssertEqual(t, result.Confidence, 0.0, "confidence when nothing ran")
	testutil.AssertTrue(t, recorder.Contains("time budget reached"), "budget step notified")
	testutil.AssertEqual(t, countSteps(recorder.Steps(), "time budget reached"), 1, "budget step fires once")
}

func TestCollect_ConfidenceAggregation(t *testing.T) {
	probe := &testutil.MockProbe{
		ProbeName: "dns",
		RunFunc: func(ctx context.Context, target domain.Target) (*domain.Findings, error) {
			f := domain.NewFindings()
			f.AddEvidence(domain.NewTextEvidence("A record", "dns", "203.0.113.7").
				WithConfidence(domain.ConfidenceVerified))
			f.AddEvidence(domain.NewTextEvidence("Search trace", "dns", "loose match").
				WithConfidence(domain.ConfidenceLow))
			f.AddEvidence(domain.NewTextEvidence("Raw banner", "dns", "unannotated"))
			return f, nil
		},
	}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{probe}})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	// (0.9 + 0.5) / 2: los items sin anotación no diluyen la media.
	testutil.AssertEqual(t, result.Confidence, 0.7, "aggregate confidence")
}

func TestCollect_AbsorbsFindings(t *testing.T) {
	probe := &testutil.MockProbe{
		ProbeName: "dns",
		RunFunc: func(ctx context.Context, target domain.Target) (*domain.Findings, error) {
			f := domain.NewFindings()
			f.AddEvidence(domain.NewTextEvidence("A record", "dns", "203.0.113.7").
				WithConfidence(domain.ConfidenceVerified))
			f.AddEntity(domain.NewEntity(domain.EntityTypeIP, "203.0.113.7"))
			f.AddEntity(domain.NewEntity(domain.EntityTypeIP, "203.0.113.7"))
			f.AddRisk(25)
			return f, nil
		},
	}
	c := newTestCollector(CollectorOptions{Probes: []ports.Probe{probe}})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	testutil.AssertEqual(t, len(result.Evidence), 1, "evidence absorbed")
	testutil.AssertEqual(t, len(result.Entities), 1, "duplicate entities collapsed")
	testutil.AssertEqual(t, result.RiskDelta, 25, "risk delta absorbed")
	testutil.AssertTrue(t, hasEntity(result, domain.EntityTypeIP, "203.0.113.7"), "entity value")
}

func TestCollect_SearchProviderMetadata(t *testing.T) {
	tests := []struct {
		name     string
		searcher ports.Searcher
		skip     bool
		want     string
	}{
		{name: "provider recorded", searcher: &testutil.MockSearcher{ProviderName: "brave"}, want: "brave"},
		{name: "empty when search skipped", searcher: &testutil.MockSearcher{ProviderName: "brave"}, skip: true, want: ""},
		{name: "empty without provider", searcher: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollector(CollectorOptions{Searcher: tt.searcher})
			target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: tt.skip}
			result, err := c.Collect(context.Background(), target, nil)
			testutil.AssertNoError(t, err, "collect")
			testutil.AssertEqual(t, result.Metadata.SearchProvider, tt.want, "search provider metadata")
		})
	}
}

func TestCollect_VersionMetadata(t *testing.T) {
	c := newTestCollector(CollectorOptions{Version: "1.2.3"})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain, SkipWebSearch: true}
	result, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	testutil.AssertEqual(t, result.Metadata.Version, "1.2.3", "version metadata")
	testutil.AssertFalse(t, result.Metadata.EndedAt.IsZero(), "finalize seals the end time")
}

func TestCollect_StepOrder(t *testing.T) {
	probe := &testutil.MockProbe{ProbeName: "dns"}
	searcher := &testutil.MockSearcher{}
	recorder := testutil.NewStepRecorder()
	c := newTestCollector(CollectorOptions{
		Probes:   []ports.Probe{probe},
		Searcher: searcher,
		OnStep:   recorder.Func(),
	})

	target := domain.Target{Value: "acme.example", Type: domain.TargetTypeDomain}
	_, err := c.Collect(context.Background(), target, nil)
	testutil.AssertNoError(t, err, "collect")

	steps := recorder.Steps()
	collecting := stepIndex(steps, "collecting domain target acme.example")
	querying := stepIndex(steps, "querying dns")
	searching := stepIndex(steps, "searching site:acme.example")

	testutil.AssertEqual(t, collecting, 0, "announcement first")
	testutil.AssertTrue(t, querying > collecting, "probes after announcement")
	testutil.AssertTrue(t, searching > querying, "search pass after probes")
}
