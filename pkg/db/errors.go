package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique-constraint failure from
// Postgres (pgx or lib/pq) or sqlite. When constraintName is provided the
// constraint must match as well.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	dump := pkgerrors.Dump(err)
	if dump.UniqueViolation() {
		return constraintName == "" || dump.PGConstraint == constraintName ||
			strings.Contains(dump.PGMessage, constraintName)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
