package feature

import "strings"

const negation = "!"

// EnabledWhen returns the activation condition "feature key is enabled".
func EnabledWhen(key string) string { return key }

// DisabledWhen returns the activation condition "feature key is not enabled".
func DisabledWhen(key string) string { return negation + key }

// Active evaluates an activation condition against the enabled feature keys.
// An empty condition is always active.
func Active(condition string, enabled map[string]bool) bool {
	if condition == "" {
		return true
	}
	if key, ok := strings.CutPrefix(condition, negation); ok {
		return !enabled[key]
	}
	return enabled[condition]
}
