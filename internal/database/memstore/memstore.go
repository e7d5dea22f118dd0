// Package memstore keeps tickets, passengers, flights and routes in memory.
// It enforces the same uniqueness rules as the Postgres schema and reports
// violations with database.ErrUniqueViolation, so services behave the same
// against either store.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/smarttransit/ticketing-core/internal/database"
	"github.com/smarttransit/ticketing-core/internal/models"
)

type seatKey struct {
	flightID   uuid.UUID
	seatNumber string
}

type documentKey struct {
	documentType   string
	documentNumber string
}

// Store is an in-memory ticket, passenger, flight and report store
type Store struct {
	mu sync.RWMutex

	routes     map[uuid.UUID]models.Route
	flights    map[uuid.UUID]models.Flight
	passengers map[uuid.UUID]models.Passenger
	documents  map[documentKey]uuid.UUID
	tickets    map[uuid.UUID]models.Ticket
	liveSeats  map[seatKey]uuid.UUID
}

// New creates an empty Store
func New() *Store {
	return &Store{
		routes:     make(map[uuid.UUID]models.Route),
		flights:    make(map[uuid.UUID]models.Flight),
		passengers: make(map[uuid.UUID]models.Passenger),
		documents:  make(map[documentKey]uuid.UUID),
		tickets:    make(map[uuid.UUID]models.Ticket),
		liveSeats:  make(map[seatKey]uuid.UUID),
	}
}

// AddRoute stores or replaces a route
func (s *Store) AddRoute(route models.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[route.ID] = route
}

// AddFlight stores or replaces a flight
func (s *Store) AddFlight(flight models.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[flight.ID] = flight
}

// FindFlightByID returns a flight, or nil
func (s *Store) FindFlightByID(_ context.Context, id uuid.UUID) (*models.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flight, ok := s.flights[id]
	if !ok {
		return nil, nil
	}
	return &flight, nil
}

// FindRouteByID returns a route, or nil
func (s *Store) FindRouteByID(_ context.Context, id uuid.UUID) (*models.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	route, ok := s.routes[id]
	if !ok {
		return nil, nil
	}
	route.IntermediateStops = slices.Clone(route.IntermediateStops)
	return &route, nil
}

// FindPassengerByDocument returns the passenger owning a document, or nil
func (s *Store) FindPassengerByDocument(_ context.Context, documentType, documentNumber string) (*models.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.documents[documentKey{documentType, documentNumber}]
	if !ok {
		return nil, nil
	}
	passenger := s.passengers[id]
	return &passenger, nil
}

// FindPassengerByID returns a passenger, or nil
func (s *Store) FindPassengerByID(_ context.Context, id uuid.UUID) (*models.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	passenger, ok := s.passengers[id]
	if !ok {
		return nil, nil
	}
	return &passenger, nil
}

// InsertPassenger stores a new passenger unless its document is taken
func (s *Store) InsertPassenger(_ context.Context, passenger *models.Passenger) (*models.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := documentKey{passenger.DocumentType, passenger.DocumentNumber}
	if _, taken := s.documents[key]; taken {
		return nil, fmt.Errorf("failed to insert passenger: %w", database.ErrUniqueViolation)
	}
	if _, taken := s.passengers[passenger.ID]; taken {
		return nil, fmt.Errorf("failed to insert passenger: %w", database.ErrUniqueViolation)
	}

	s.passengers[passenger.ID] = *passenger
	s.documents[key] = passenger.ID
	return passenger, nil
}

// FindTicket returns the live ticket of a seat, or nil
func (s *Store) FindTicket(_ context.Context, flightID uuid.UUID, seatNumber string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.liveSeats[seatKey{flightID, seatNumber}]
	if !ok {
		return nil, nil
	}
	ticket := s.tickets[id]
	return &ticket, nil
}

// FindTicketByID returns a ticket, or nil
func (s *Store) FindTicketByID(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	return &ticket, nil
}

// FindTicketsByFlight returns the tickets of a flight in the given statuses,
// oldest booking first
func (s *Store) FindTicketsByFlight(_ context.Context, flightID uuid.UUID, statuses []models.TicketStatus) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := lo.Filter(lo.Values(s.tickets), func(t models.Ticket, _ int) bool {
		return t.FlightID == flightID && slices.Contains(statuses, t.Status)
	})
	slices.SortFunc(tickets, func(a, b models.Ticket) int {
		return a.BookingTime.Compare(b.BookingTime)
	})
	return tickets, nil
}

// InsertTicket stores a new ticket. A HOLD or SOLD ticket is rejected when
// the seat already has a live ticket.
func (s *Store) InsertTicket(_ context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.tickets[ticket.ID]; taken {
		return nil, fmt.Errorf("failed to insert ticket: %w", database.ErrUniqueViolation)
	}

	key := seatKey{ticket.FlightID, ticket.SeatNumber}
	if ticket.Status.Occupies() {
		if _, taken := s.liveSeats[key]; taken {
			return nil, fmt.Errorf("failed to insert ticket: %w", database.ErrUniqueViolation)
		}
		s.liveSeats[key] = ticket.ID
	}

	s.tickets[ticket.ID] = *ticket
	return ticket, nil
}

// UpdateTicketStatus moves a ticket from one status to another, returning
// false when the ticket is not in the expected status
func (s *Store) UpdateTicketStatus(_ context.Context, id uuid.UUID, from, to models.TicketStatus, purchaseTime *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok || ticket.Status != from {
		return false, nil
	}

	key := seatKey{ticket.FlightID, ticket.SeatNumber}
	if to.Occupies() && !from.Occupies() {
		if _, taken := s.liveSeats[key]; taken {
			return false, fmt.Errorf("failed to update ticket status: %w", database.ErrUniqueViolation)
		}
		s.liveSeats[key] = id
	}
	if !to.Occupies() {
		delete(s.liveSeats, key)
	}

	ticket.Status = to
	if purchaseTime != nil {
		ticket.PurchaseTime = purchaseTime
	}
	ticket.HoldExpiry = nil
	ticket.UpdatedAt = time.Now()
	s.tickets[id] = ticket
	return true, nil
}

// AggregateSales sums SOLD tickets purchased in [from, until) per route
func (s *Store) AggregateSales(_ context.Context, from, until time.Time) ([]models.RouteSalesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byRoute := make(map[uuid.UUID]*models.RouteSalesRow)
	for _, ticket := range s.tickets {
		if ticket.Status != models.TicketStatusSold || ticket.PurchaseTime == nil {
			continue
		}
		if ticket.PurchaseTime.Before(from) || !ticket.PurchaseTime.Before(until) {
			continue
		}
		flight, ok := s.flights[ticket.FlightID]
		if !ok {
			continue
		}

		row, ok := byRoute[flight.RouteID]
		if !ok {
			row = &models.RouteSalesRow{RouteID: flight.RouteID}
			byRoute[flight.RouteID] = row
		}
		row.TotalRevenue = row.TotalRevenue.Add(ticket.PricePaid)
		row.TicketCount++
	}

	rows := lo.MapToSlice(byRoute, func(_ uuid.UUID, row *models.RouteSalesRow) models.RouteSalesRow {
		return *row
	})
	slices.SortFunc(rows, func(a, b models.RouteSalesRow) int {
		return slices.Compare(a.RouteID[:], b.RouteID[:])
	})
	return rows, nil
}

// CountTicketsByStatus counts tickets per status present in the store
func (s *Store) CountTicketsByStatus(_ context.Context) ([]models.StatusCountRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := lo.GroupBy(lo.Values(s.tickets), func(t models.Ticket) models.TicketStatus {
		return t.Status
	})
	return lo.MapToSlice(groups, func(status models.TicketStatus, tickets []models.Ticket) models.StatusCountRow {
		return models.StatusCountRow{Status: status, Count: len(tickets)}
	}), nil
}
