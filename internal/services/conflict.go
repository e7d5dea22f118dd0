package services

import (
	"errors"

	"github.com/smarttransit/ticketing-core/internal/database"
)

// tryInsertOrResolveConflict runs insert once. When storage rejects the row
// with a unique violation the outcome is decided by resolve, exactly once;
// there is no retry loop. Any other insert error is returned as a
// PersistenceError.
func tryInsertOrResolveConflict[T any](op string, insert func() (T, error), resolve func() (T, error)) (T, error) {
	result, err := insert()
	if err == nil {
		return result, nil
	}
	if errors.Is(err, database.ErrUniqueViolation) {
		return resolve()
	}
	var zero T
	return zero, persistenceError(op, err)
}
