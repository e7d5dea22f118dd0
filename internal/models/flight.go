package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlightStatus represents the operational status of a trip instance
type FlightStatus string

const (
	FlightStatusPlanned   FlightStatus = "PLANNED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
)

// IsValid reports whether s is a known flight status
func (s FlightStatus) IsValid() bool {
	switch s {
	case FlightStatusPlanned, FlightStatusDelayed, FlightStatusCancelled,
		FlightStatusDeparted, FlightStatusArrived:
		return true
	}
	return false
}

// IsOpen reports whether the trip still accepts holds and cancellations
func (s FlightStatus) IsOpen() bool {
	return s == FlightStatusPlanned || s == FlightStatusDelayed
}

// Flight is one scheduled departure of a route. Seats are allocated per flight.
type Flight struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	RouteID       uuid.UUID       `json:"route_id" db:"route_id"`
	DepartureTime time.Time       `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time" db:"arrival_time"`
	TotalSeats    int             `json:"total_seats" db:"total_seats"`
	PricePerSeat  decimal.Decimal `json:"price_per_seat" db:"price_per_seat"`
	Status        FlightStatus    `json:"status" db:"status"`
	BusModel      *string         `json:"bus_model,omitempty" db:"bus_model"`
}

// Validate checks the flight invariants
func (f *Flight) Validate() error {
	if !f.DepartureTime.Before(f.ArrivalTime) {
		return errors.New("departure time must be before arrival time")
	}
	if f.TotalSeats <= 0 {
		return errors.New("total seats must be positive")
	}
	if f.PricePerSeat.IsNegative() {
		return errors.New("price per seat cannot be negative")
	}
	if !f.Status.IsValid() {
		return errors.New("invalid flight status")
	}
	return nil
}

// IsBookable reports whether new holds may be placed on the flight
func (f *Flight) IsBookable() bool {
	return f.Status.IsOpen()
}

// TicketsFrozen reports whether tickets on this flight can no longer be
// cancelled: the departure time has passed and the trip is no longer
// planned or delayed.
func (f *Flight) TicketsFrozen(now time.Time) bool {
	return f.DepartureTime.Before(now) && !f.Status.IsOpen()
}
