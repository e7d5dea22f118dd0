package services

import (
	"context"
	"iter"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/events"
	"github.com/smarttransit/ticketing-core/internal/metrics"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// DefaultHoldTTL is how long a new hold is recorded as valid
const DefaultHoldTTL = 24 * time.Hour

// SeatAllocationService computes seat availability and places holds.
// Exclusivity of a seat is guaranteed by the ticket store's uniqueness
// constraint; no in-process locking is done.
type SeatAllocationService struct {
	tickets    TicketStore
	flights    FlightStore
	passengers PassengerStore
	publisher  events.Publisher
	holdTTL    time.Duration
	clock      Clock
	logger     *logrus.Logger
}

// NewSeatAllocationService creates a new seat allocation service
func NewSeatAllocationService(
	tickets TicketStore,
	flights FlightStore,
	passengers PassengerStore,
	publisher events.Publisher,
	holdTTL time.Duration,
	logger *logrus.Logger,
) *SeatAllocationService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	return &SeatAllocationService{
		tickets:    tickets,
		flights:    flights,
		passengers: passengers,
		publisher:  publisher,
		holdTTL:    holdTTL,
		logger:     logger,
	}
}

// WithClock replaces the time source, for tests
func (s *SeatAllocationService) WithClock(clock Clock) *SeatAllocationService {
	s.clock = clock
	return s
}

// OccupiedSeats returns the labels of every seat on the flight that has a
// HOLD or SOLD ticket. Expired holds still count as occupied.
func (s *SeatAllocationService) OccupiedSeats(ctx context.Context, flightID uuid.UUID) (map[string]struct{}, error) {
	tickets, err := s.tickets.FindTicketsByFlight(ctx, flightID, models.OccupyingStatuses())
	if err != nil {
		return nil, persistenceError("find occupied seats", err)
	}

	return lo.SliceToMap(tickets, func(t models.Ticket) (string, struct{}) {
		return t.SeatNumber, struct{}{}
	}), nil
}

// ListAvailableSeats yields the free seat labels "1".."totalSeats" in
// ascending order. Occupancy is read once per call; ranging over the
// returned sequence again replays the same snapshot.
func (s *SeatAllocationService) ListAvailableSeats(ctx context.Context, flightID uuid.UUID, totalSeats int) (iter.Seq[string], error) {
	if totalSeats <= 0 {
		return nil, &ValidationError{Field: "total_seats", Message: "must be positive"}
	}

	occupied, err := s.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		for n := 1; n <= totalSeats; n++ {
			label := strconv.Itoa(n)
			if _, taken := occupied[label]; taken {
				continue
			}
			if !yield(label) {
				return
			}
		}
	}, nil
}

// AvailableSeats returns the free seat labels of a flight
func (s *SeatAllocationService) AvailableSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	flight, err := s.getFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	seats, err := s.ListAvailableSeats(ctx, flightID, flight.TotalSeats)
	if err != nil {
		return nil, err
	}

	available := slices.Collect(seats)
	if available == nil {
		available = []string{}
	}
	return available, nil
}

// HoldSeat reserves a seat for a passenger by inserting a HOLD ticket. When
// another caller holds or bought the seat first, a ConflictError is returned
// and nothing is retried.
func (s *SeatAllocationService) HoldSeat(
	ctx context.Context,
	flightID uuid.UUID,
	seatNumber string,
	passengerID uuid.UUID,
	pricePaid decimal.Decimal,
) (*models.Ticket, error) {
	ticket, err := s.holdSeat(ctx, flightID, seatNumber, passengerID, pricePaid)
	metrics.SeatHolds.WithLabelValues(holdResult(err)).Inc()
	return ticket, err
}

func (s *SeatAllocationService) holdSeat(
	ctx context.Context,
	flightID uuid.UUID,
	seatNumber string,
	passengerID uuid.UUID,
	pricePaid decimal.Decimal,
) (*models.Ticket, error) {
	if pricePaid.IsNegative() {
		return nil, &ValidationError{Field: "price_paid", Message: "must not be negative"}
	}

	flight, err := s.getFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	if !flight.IsBookable() {
		return nil, &NotAllowedError{Reason: "flight " + flight.ID.String() + " is " + string(flight.Status) + " and does not accept holds"}
	}

	if err := validateSeatLabel(seatNumber, flight.TotalSeats); err != nil {
		return nil, err
	}

	passenger, err := s.passengers.FindPassengerByID(ctx, passengerID)
	if err != nil {
		return nil, persistenceError("find passenger", err)
	}
	if passenger == nil {
		return nil, &NotFoundError{Resource: "passenger", ID: passengerID.String()}
	}

	now := s.clock.now()
	expiry := now.Add(s.holdTTL)
	ticket := &models.Ticket{
		ID:          uuid.New(),
		FlightID:    flight.ID,
		PassengerID: passengerID,
		SeatNumber:  seatNumber,
		BookingTime: now,
		HoldExpiry:  &expiry,
		PricePaid:   pricePaid,
		Status:      models.TicketStatusHold,
		UpdatedAt:   now,
	}

	held, err := tryInsertOrResolveConflict("insert ticket",
		func() (*models.Ticket, error) {
			return s.tickets.InsertTicket(ctx, ticket)
		},
		func() (*models.Ticket, error) {
			s.logger.WithFields(logrus.Fields{
				"flight_id":   flight.ID,
				"seat_number": seatNumber,
			}).Info("Seat hold lost to a concurrent booking")
			return nil, &ConflictError{FlightID: flight.ID, SeatNumber: seatNumber}
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":    held.ID,
		"flight_id":    held.FlightID,
		"seat_number":  held.SeatNumber,
		"passenger_id": held.PassengerID,
		"hold_expiry":  expiry,
	}).Info("Seat held")

	if err := s.publisher.PublishTicketEvent(ctx, events.NewTicketEvent(held, now)); err != nil {
		s.logger.WithError(err).WithField("ticket_id", held.ID).Warn("Failed to publish ticket event")
	}

	return held, nil
}

func (s *SeatAllocationService) getFlight(ctx context.Context, flightID uuid.UUID) (*models.Flight, error) {
	flight, err := s.flights.FindFlightByID(ctx, flightID)
	if err != nil {
		return nil, persistenceError("find flight", err)
	}
	if flight == nil {
		return nil, &NotFoundError{Resource: "flight", ID: flightID.String()}
	}
	return flight, nil
}

// validateSeatLabel accepts only the canonical labels "1".."totalSeats"
func validateSeatLabel(seatNumber string, totalSeats int) error {
	n, err := strconv.Atoi(seatNumber)
	if err != nil || strconv.Itoa(n) != seatNumber {
		return &ValidationError{Field: "seat_number", Message: "invalid seat label " + strconv.Quote(seatNumber)}
	}
	if n < 1 || n > totalSeats {
		return &ValidationError{Field: "seat_number", Message: "seat " + seatNumber + " is outside 1.." + strconv.Itoa(totalSeats)}
	}
	return nil
}

func holdResult(err error) string {
	switch {
	case err == nil:
		return "held"
	case IsConflict(err):
		return "conflict"
	case IsPersistence(err):
		return "error"
	default:
		return "rejected"
	}
}
