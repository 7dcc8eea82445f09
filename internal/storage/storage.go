package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	pq "github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup, update or delete matched no row.
	ErrNotFound = errors.New("storage: record not found")
	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("storage: unique constraint violated")
	// ErrInvalidValue is returned when a value fails a CHECK constraint or
	// overflows its column.
	ErrInvalidValue = errors.New("storage: value rejected by column constraint")
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNumericOverflow     = "22003"
)

// psql builds statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// withTimeout derives the per-call context. A non-positive timeout only
// inherits the caller's deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrNotFound
		case pqCheckViolation, pqNumericOverflow:
			return ErrInvalidValue
		}
	}
	return err
}
