package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation reports whether err is a unique constraint violation and,
// when the driver exposes it, which constraint was hit. GORM translates
// driver errors when TranslateError is on; the pgconn check covers raw SQL
// paths that bypass translation.
func uniqueViolation(err error) (constraint string, ok bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	// SQLite used by tests reports constraint failures as plain strings.
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return "", true
	}
	return "", false
}
