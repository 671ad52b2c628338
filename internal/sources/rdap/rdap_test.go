// internal/sources/rdap/rdap_test.go
package rdap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theclubco2025/osint/internal/core/domain"
	"github.com/theclubco2025/osint/internal/core/ports"
	"github.com/theclubco2025/osint/internal/platform/registry"
	"github.com/theclubco2025/osint/internal/testutil"
)

func newTestProbe(t *testing.T, handler http.Handler) *Probe {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ports.DefaultProbeConfig()
	cfg.Timeout = 2 * time.Second
	cfg.Custom = map[string]interface{}{"base_url": server.URL}

	probe := New(cfg, testutil.TestLogger())
	t.Cleanup(func() { _ = probe.Close() })
	return probe
}

func TestRun_Domain(t *testing.T) {
	var servedPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/rdap+json")
		w.Write([]byte(`{
			"objectClassName": "domain",
			"handle": "EXAMPLE-1",
			"ldhName": "EXAMPLE.COM",
			"status": ["active"],
			"events": [{"eventAction": "registration", "eventDate": "1995-08-14T04:00:00Z"}],
			"remarks": [{"title": "registrant", "description": ["Example Registry Org"]}]
		}`))
	})

	probe := newTestProbe(t, handler)
	target := domain.Target{Value: "sub.example.com", Type: domain.TargetTypeDomain, Depth: domain.DepthNormal}

	findings, err := probe.Run(context.Background(), target)

	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, servedPath, "/domain/example.com", "eTLD+1 used in query path")

	if len(findings.Evidence) != 1 {
		t.Fatalf("expected 1 evidence item, got %d", len(findings.Evidence))
	}
	ev := findings.Evidence[0]
	testutil.AssertEqual(t, ev.Kind, domain.EvidenceKindJSON, "evidence kind")
	testutil.AssertContains(t, ev.Tags, "rdap", "evidence tag")
	testutil.AssertContains(t, ev.Content, "EXAMPLE-1", "handle in payload")
	testutil.AssertContains(t, ev.Content, "registration", "events in payload")

	conf, ok := ev.Confidence()
	testutil.AssertTrue(t, ok, "confidence annotated")
	testutil.AssertEqual(t, conf, rdapConfidence, "confidence value")

	if len(findings.Entities) != 1 {
		t.Fatalf("expected 1 org entity, got %d", len(findings.Entities))
	}
	testutil.AssertEqual(t, findings.Entities[0].Type, domain.EntityTypeOrg, "entity type")
	testutil.AssertEqual(t, findings.Entities[0].Value, "Example Registry Org", "org from first remark")

	registryMeta, ok := findings.Entities[0].MetaString("registry")
	testutil.AssertTrue(t, ok, "registry metadata present")
	testutil.AssertEqual(t, registryMeta, "rdap", "registry metadata value")
}

func TestRun_IP(t *testing.T) {
	var servedPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedPath = r.URL.Path
		w.Write([]byte(`{
			"objectClassName": "ip network",
			"handle": "NET-192-0-2-0-1",
			"name": "TEST-NET-1",
			"status": ["active"]
		}`))
	})

	probe := newTestProbe(t, handler)
	target := domain.Target{Value: "192.0.2.10", Type: domain.TargetTypeIP, Depth: domain.DepthNormal}

	findings, err := probe.Run(context.Background(), target)

	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, servedPath, "/ip/192.0.2.10", "ip query path")

	if len(findings.Entities) != 1 {
		t.Fatalf("expected 1 org entity, got %d", len(findings.Entities))
	}
	testutil.AssertEqual(t, findings.Entities[0].Value, "TEST-NET-1", "org from network name")
}

func TestRun_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	probe := newTestProbe(t, handler)
	target := domain.Target{Value: "example.com", Type: domain.TargetTypeDomain, Depth: domain.DepthNormal}

	findings, err := probe.Run(context.Background(), target)

	testutil.AssertNoError(t, err, "failures degrade, never propagate")
	if len(findings.Evidence) != 1 {
		t.Fatalf("expected 1 failure evidence item, got %d", len(findings.Evidence))
	}

	ev := findings.Evidence[0]
	testutil.AssertEqual(t, ev.Kind, domain.EvidenceKindText, "failure evidence kind")
	testutil.AssertContains(t, ev.Tags, "error", "failure tag")

	conf, _ := ev.Confidence()
	testutil.AssertEqual(t, conf, domain.ConfidenceFailed, "failure confidence")
	testutil.AssertEqual(t, len(findings.Entities), 0, "no entities on failure")
}

func TestRun_CachesResponses(t *testing.T) {
	var hits int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"objectClassName": "domain", "handle": "X", "name": "Org"}`))
	})

	probe := newTestProbe(t, handler)
	target := domain.Target{Value: "example.com", Type: domain.TargetTypeDomain, Depth: domain.DepthNormal}

	_, err := probe.Run(context.Background(), target)
	testutil.AssertNoError(t, err, "first run")
	_, err = probe.Run(context.Background(), target)
	testutil.AssertNoError(t, err, "second run")

	testutil.AssertEqual(t, atomic.LoadInt64(&hits), int64(1), "second run served from cache")
}

func TestOrgFromResponse(t *testing.T) {
	tests := []struct {
		name     string
		resp     rdapResponse
		expected string
	}{
		{
			"name field wins",
			rdapResponse{Name: "ACME Networks", Remarks: []rdapRemark{{Description: []string{"other"}}}},
			"ACME Networks",
		},
		{
			"remark fallback",
			rdapResponse{Remarks: []rdapRemark{{Title: "registrant", Description: []string{"ACME Corp"}}}},
			"ACME Corp",
		},
		{
			"skips empty description lines",
			rdapResponse{Remarks: []rdapRemark{{Description: []string{"", "  ", "Real Org"}}}},
			"Real Org",
		},
		{
			"nothing available",
			rdapResponse{Handle: "X"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, orgFromResponse(&tt.resp), tt.expected, "org extraction")
		})
	}
}

func TestBaseDomain(t *testing.T) {
	probe := New(ports.DefaultProbeConfig(), testutil.TestLogger())
	t.Cleanup(func() { _ = probe.Close() })

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain domain", "example.com", "example.com"},
		{"subdomain", "api.test.example.com", "example.com"},
		{"multi-part tld", "sub.example.co.uk", "example.co.uk"},
		{"uppercase", "EXAMPLE.COM", "example.com"},
		{"trailing dot", "example.com.", "example.com"},
		{"unlisted suffix falls back", "localhost", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, probe.baseDomain(tt.input), tt.expected, "base domain")
		})
	}
}

func TestRegistration(t *testing.T) {
	testutil.AssertTrue(t, registry.Global().IsRegistered(probeName), "rdap registered globally")

	meta, ok := registry.Global().GetMetadata(probeName)
	testutil.AssertTrue(t, ok, "metadata available")
	testutil.AssertTrue(t, meta.Accepts(domain.TargetTypeDomain), "accepts domains")
	testutil.AssertTrue(t, meta.Accepts(domain.TargetTypeIP), "accepts ips")

	probe := New(ports.DefaultProbeConfig(), testutil.TestLogger())
	t.Cleanup(func() { _ = probe.Close() })

	testutil.AssertEqual(t, probe.Name(), probeName, "probe name")
	testutil.AssertLen(t, targetTypeNames(probe.Targets()), 2, "accepted target types")
}

func targetTypeNames(types []domain.TargetType) []string {
	names := make([]string, 0, len(types))
	for _, tt := range types {
		names = append(names, string(tt))
	}
	return names
}
