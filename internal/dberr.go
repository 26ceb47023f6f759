package internal

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// EmailIndex is the unique index on lower(email) shared by the SQL stores.
const EmailIndex = "users_email_lower_key"

const (
	pgUniqueViolation    = "23505"
	sqliteUniqueFailure  = "UNIQUE constraint failed"
	sqliteEmailColumnRef = "users.email"
)

// IsDuplicateEmail reports whether err is a unique violation of the users
// email index, from Postgres (through pgx) or SQLite. Other unique failures,
// such as a primary key collision, report false.
func IsDuplicateEmail(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == EmailIndex
	}
	msg := err.Error()
	if !strings.Contains(msg, sqliteUniqueFailure) {
		return false
	}
	// expression indexes are reported by name, plain column indexes as table.column
	return strings.Contains(msg, EmailIndex) || strings.Contains(msg, sqliteEmailColumnRef)
}
