// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget        = errors.New("target cannot be empty")
	ErrInvalidTargetType  = errors.New("invalid target type")
	ErrInvalidDepth       = errors.New("invalid collection depth")
	ErrInvalidTargetValue = errors.New("invalid target value")

	// Draft errors
	ErrInvalidEvidence   = errors.New("invalid evidence draft")
	ErrInvalidEntity     = errors.New("invalid entity draft")
	ErrEmptyEntityValue  = errors.New("entity value cannot be empty")
	ErrInvalidEntityType = errors.New("invalid entity type")

	// Probe errors
	ErrProbeNotFound     = errors.New("probe not found")
	ErrProbeInitFailed   = errors.New("probe initialization failed")
	ErrNoProbesAvailable = errors.New("no probes available for target")

	// Collection errors
	ErrCollectionCanceled = errors.New("collection was canceled")

	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrConfigLoadFailed  = errors.New("failed to load configuration")
	ErrConfigParseFailed = errors.New("failed to parse configuration")

	// Export errors
	ErrExportFailed      = errors.New("export failed")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrInvalidOutputPath = errors.New("invalid output path")
)
