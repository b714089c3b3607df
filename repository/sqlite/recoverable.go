package sqlite

import "strings"

// isRecoverable classifies sqlite's busy/locked errors as transient,
// matching spec.md §9's "targeted list of recoverable error classes"
// guidance rather than retrying every storage error.
func isRecoverable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
