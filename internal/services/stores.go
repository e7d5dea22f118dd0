package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// The stores below are the persistence collaborator of the reservation
// core. Finders return (nil, nil) when the row does not exist. Inserts
// report a lost uniqueness race with an error wrapping
// database.ErrUniqueViolation.

// TicketStore persists tickets
type TicketStore interface {
	FindTicket(ctx context.Context, flightID uuid.UUID, seatNumber string) (*models.Ticket, error)
	FindTicketByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	FindTicketsByFlight(ctx context.Context, flightID uuid.UUID, statuses []models.TicketStatus) ([]models.Ticket, error)
	InsertTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, from, to models.TicketStatus, purchaseTime *time.Time) (bool, error)
}

// PassengerStore persists passengers
type PassengerStore interface {
	FindPassengerByDocument(ctx context.Context, documentType, documentNumber string) (*models.Passenger, error)
	FindPassengerByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error)
	InsertPassenger(ctx context.Context, passenger *models.Passenger) (*models.Passenger, error)
}

// FlightStore reads the trip and route reference data
type FlightStore interface {
	FindFlightByID(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	FindRouteByID(ctx context.Context, id uuid.UUID) (*models.Route, error)
}

// ReportStore runs aggregate queries
type ReportStore interface {
	AggregateSales(ctx context.Context, from, until time.Time) ([]models.RouteSalesRow, error)
	CountTicketsByStatus(ctx context.Context) ([]models.StatusCountRow, error)
}

// Clock returns the current time; tests substitute a fixed clock
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
