// Package repository implements the data access layer for the application.
package repository

import (
	"strings"
)

// isUniqueConstraintError reports whether err is a unique constraint
// violation. Matched textually so both the postgres and sqlite drivers are
// covered.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
