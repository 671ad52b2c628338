// internal/core/domain/confidence.go
package domain

import "math"

// Confidence levels for collected evidence.
// Represents how reliable a single evidence item is considered.
const (
	// ConfidenceSkipped marks work that was skipped (e.g. search provider
	// not configured).
	ConfidenceSkipped float64 = 0.05

	// ConfidenceFailed marks a probe that errored out; the failure note is
	// still recorded as evidence.
	ConfidenceFailed float64 = 0.15

	// ConfidenceLow indicates loosely corroborated data.
	// Used for: web search result harvesting.
	ConfidenceLow float64 = 0.5

	// ConfidenceMedium indicates data from a curated but fuzzy source.
	// Used for: knowledge-base candidate matches.
	ConfidenceMedium float64 = 0.6

	// ConfidenceHigh indicates data from an authoritative aggregated source.
	// Used for: certificate transparency logs, profile APIs.
	ConfidenceHigh float64 = 0.8

	// ConfidenceVerified indicates direct resolution against the source of
	// truth. Used for: DNS lookups, local normalization.
	ConfidenceVerified float64 = 0.9
)

// Score aggregates per-evidence confidence annotations into a single value.
// It collects all present, numeric, in-range [0,1] annotations; if none are
// present the score is 0, otherwise the clamped mean rounded to 3 decimals.
// Pure function, safe to call at any point over the accumulated evidence.
func Score(evidence []*EvidenceDraft) float64 {
	var sum float64
	var count int

	for _, ev := range evidence {
		if ev == nil {
			continue
		}
		c, ok := ev.Confidence()
		if !ok || c < 0 || c > 1 {
			continue
		}
		sum += c
		count++
	}

	if count == 0 {
		return 0
	}

	mean := sum / float64(count)
	if mean < 0 {
		mean = 0
	}
	if mean > 1 {
		mean = 1
	}
	return math.Round(mean*1000) / 1000
}

// GetConfidenceLabel returns a human-readable label for a confidence value.
func GetConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= ConfidenceVerified:
		return "verified"
	case confidence >= ConfidenceHigh:
		return "high"
	case confidence >= ConfidenceMedium:
		return "medium"
	case confidence >= ConfidenceLow:
		return "low"
	default:
		return "unknown"
	}
}
