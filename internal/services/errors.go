package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// ValidationError reports malformed or out-of-range input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced entity that does not exist
type NotFoundError struct {
	Resource string // flight, route, passenger, ticket
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a lost race for a seat. The caller should re-query
// availability and let the user choose again.
type ConflictError struct {
	FlightID   uuid.UUID
	SeatNumber string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s on flight %s is already taken", e.SeatNumber, e.FlightID)
}

// NotAllowedError reports a business rule rejection
type NotAllowedError struct {
	Reason string
}

func (e *NotAllowedError) Error() string {
	return e.Reason
}

// InvalidTransitionError reports a ticket state machine violation
type InvalidTransitionError struct {
	TicketID uuid.UUID
	From     models.TicketStatus
	To       models.TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("ticket %s cannot move from %s to %s", e.TicketID, e.From, e.To)
}

// ConsistencyError reports a broken invariant the service cannot repair
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsNotAllowed(err error) bool {
	var target *NotAllowedError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsConsistency(err error) bool {
	var target *ConsistencyError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
