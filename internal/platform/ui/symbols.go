// internal/platform/ui/symbols.go
package ui

import (
	"fmt"
	"time"
)

// Icons para los elementos de la UI
var (
	IconTarget   = "🎯"
	IconTime     = "⏱"
	IconProbes   = "🔌"
	IconSearch   = "🔍"
	IconEvidence = "📦"
	IconStats    = "📊"
)

// SeparatorHeavy delimita las secciones principales de la salida.
var SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// formatDuration formatea una duración de manera legible.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
