// internal/platform/registry/helpers.go
package registry

import (
	"time"
)

// Type-safe configuration extraction helpers for probe factories.
// These functions eliminate repetitive nil checks and type assertions when
// extracting custom configuration values from the cfg.Custom map.

// GetStringConfig extracts a string value from custom config map with a default fallback.
// Returns the default value if:
//   - custom map is nil
//   - key doesn't exist
//   - value is not a string
//   - value is an empty string
func GetStringConfig(custom map[string]interface{}, key, defaultValue string) string {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key].(string); ok && val != "" {
		return val
	}

	return defaultValue
}

// GetIntConfig extracts an int value from custom config map with a default fallback.
// Handles both int and float64 (JSON numbers are parsed as float64).
// Returns the default value if:
//   - custom map is nil
//   - key doesn't exist
//   - value is neither int nor float64
func GetIntConfig(custom map[string]interface{}, key string, defaultValue int) int {
	if custom == nil {
		return defaultValue
	}

	// Try direct int first
	if val, ok := custom[key].(int); ok {
		return val
	}

	// Try float64 (JSON numbers are typically float64)
	if val, ok := custom[key].(float64); ok {
		return int(val)
	}

	return defaultValue
}

// GetBoolConfig extracts a bool value from custom config map with a default fallback.
// Returns the default value if:
//   - custom map is nil
//   - key doesn't exist
//   - value is not a bool
func GetBoolConfig(custom map[string]interface{}, key string, defaultValue bool) bool {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key].(bool); ok {
		return val
	}

	return defaultValue
}

// GetDurationConfig extracts a time.Duration value from custom config map with a default fallback.
// Accepts duration as:
//   - time.Duration (direct)
//   - int64 (nanoseconds)
//   - float64 (nanoseconds)
//   - string (parsed via time.ParseDuration)
//
// Returns the default value if:
//   - custom map is nil
//   - key doesn't exist
//   - value cannot be converted to duration
func GetDurationConfig(custom map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if custom == nil {
		return defaultValue
	}

	val, exists := custom[key]
	if !exists {
		return defaultValue
	}

	// Try time.Duration directly
	if d, ok := val.(time.Duration); ok {
		return d
	}

	// Try int64 (nanoseconds)
	if i, ok := val.(int64); ok {
		return time.Duration(i)
	}

	// Try float64 (nanoseconds, common for JSON)
	if f, ok := val.(float64); ok {
		return time.Duration(f)
	}

	// Try string (e.g., "5s", "10m")
	if s, ok := val.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}

	return defaultValue
}
