package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUniqueViolation is returned by inserts that lost a race on a unique
// key. Callers match it with errors.Is.
var ErrUniqueViolation = errors.New("unique constraint violation")

// PostgreSQL SQLSTATE for unique_violation
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// translateInsertError marks unique violations with ErrUniqueViolation. The
// driver error stays in the chain either way.
func translateInsertError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUniqueViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
