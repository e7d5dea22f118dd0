package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketStatus represents the lifecycle state of a seat reservation
type TicketStatus string

const (
	TicketStatusHold      TicketStatus = "HOLD"
	TicketStatusSold      TicketStatus = "SOLD"
	TicketStatusCancelled TicketStatus = "CANCELLED"
	TicketStatusUsed      TicketStatus = "USED"
)

// AllTicketStatuses lists every ticket status in display order
func AllTicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusHold,
		TicketStatusSold,
		TicketStatusCancelled,
		TicketStatusUsed,
	}
}

// OccupyingStatuses are the statuses that make a seat unavailable
func OccupyingStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusHold, TicketStatusSold}
}

// IsValid reports whether s is a known ticket status
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusHold, TicketStatusSold, TicketStatusCancelled, TicketStatusUsed:
		return true
	}
	return false
}

// Occupies reports whether a ticket in this status occupies its seat
func (s TicketStatus) Occupies() bool {
	return s == TicketStatusHold || s == TicketStatusSold
}

// Ticket is a reservation of one seat on one flight for one passenger.
// Tickets are never deleted; cancellation is a status change.
type Ticket struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	FlightID     uuid.UUID       `json:"flight_id" db:"flight_id"`
	PassengerID  uuid.UUID       `json:"passenger_id" db:"passenger_id"`
	SeatNumber   string          `json:"seat_number" db:"seat_number"`
	BookingTime  time.Time       `json:"booking_time" db:"booking_time"`
	PurchaseTime *time.Time      `json:"purchase_time,omitempty" db:"purchase_time"`
	HoldExpiry   *time.Time      `json:"hold_expiry,omitempty" db:"hold_expiry"`
	PricePaid    decimal.Decimal `json:"price_paid" db:"price_paid"`
	Status       TicketStatus    `json:"status" db:"status"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// HoldSeatRequest is the body of POST /flights/:flightId/holds
type HoldSeatRequest struct {
	SeatNumber  string           `json:"seat_number" binding:"required"`
	PassengerID string           `json:"passenger_id" binding:"required,uuid"`
	PricePaid   *decimal.Decimal `json:"price_paid" binding:"required"`
}

// SellTicketRequest is the optional body of POST /tickets/:ticketId/sell
type SellTicketRequest struct {
	PurchaseTime *time.Time `json:"purchase_time,omitempty"`
}

// BookingRequest carries everything needed to hold a seat for a passenger
// who may not be registered yet
type BookingRequest struct {
	FlightID        string          `json:"flight_id" binding:"required,uuid"`
	SeatNumber      string          `json:"seat_number" binding:"required"`
	DocumentType    string          `json:"document_type" binding:"required"`
	DocumentNumber  string          `json:"document_number" binding:"required"`
	FullName        string          `json:"full_name" binding:"required"`
	PhoneNumber     string          `json:"phone_number" binding:"required"`
	Email           *string         `json:"email,omitempty"`
	BenefitCategory BenefitCategory `json:"benefit_category"`
}

// Profile extracts the passenger profile of the booking
func (r *BookingRequest) Profile() PassengerProfile {
	benefit := r.BenefitCategory
	if benefit == "" {
		benefit = BenefitNone
	}
	return PassengerProfile{
		FullName:        r.FullName,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		BenefitCategory: benefit,
	}
}

// BookingResponse is returned after a successful booking
type BookingResponse struct {
	Ticket      *Ticket         `json:"ticket"`
	PassengerID uuid.UUID       `json:"passenger_id"`
	BaseFare    decimal.Decimal `json:"base_fare"`
	Discount    decimal.Decimal `json:"discount"`
	Fare        decimal.Decimal `json:"fare"`
}
