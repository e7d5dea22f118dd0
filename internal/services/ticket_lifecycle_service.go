package services

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/events"
	"github.com/smarttransit/ticketing-core/internal/metrics"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// allowedTransitions is the ticket state machine. USED is set by check-in
// outside this service and CANCELLED is terminal.
var allowedTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.TicketStatusHold: {models.TicketStatusSold, models.TicketStatusCancelled},
	models.TicketStatusSold: {models.TicketStatusCancelled},
}

// CanTransition reports whether a ticket may move from one status to another
func CanTransition(from, to models.TicketStatus) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// TicketLifecycleService sells and cancels existing tickets
type TicketLifecycleService struct {
	tickets   TicketStore
	flights   FlightStore
	publisher events.Publisher
	clock     Clock
	logger    *logrus.Logger
}

// NewTicketLifecycleService creates a new ticket lifecycle service
func NewTicketLifecycleService(tickets TicketStore, flights FlightStore, publisher events.Publisher, logger *logrus.Logger) *TicketLifecycleService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TicketLifecycleService{
		tickets:   tickets,
		flights:   flights,
		publisher: publisher,
		logger:    logger,
	}
}

// WithClock replaces the time source, for tests
func (s *TicketLifecycleService) WithClock(clock Clock) *TicketLifecycleService {
	s.clock = clock
	return s
}

// GetTicket returns a ticket by id
func (s *TicketLifecycleService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.tickets.FindTicketByID(ctx, ticketID)
	if err != nil {
		return nil, persistenceError("find ticket", err)
	}
	if ticket == nil {
		return nil, &NotFoundError{Resource: "ticket", ID: ticketID.String()}
	}
	return ticket, nil
}

// Sell converts a held ticket into a sold one. A nil purchaseTime means now.
func (s *TicketLifecycleService) Sell(ctx context.Context, ticketID uuid.UUID, purchaseTime *time.Time) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if purchaseTime == nil {
		now := s.clock.now()
		purchaseTime = &now
	}

	return s.transition(ctx, ticket, models.TicketStatusSold, purchaseTime)
}

// Cancel cancels a held or sold ticket. Tickets of a flight that already
// left and is no longer planned or delayed cannot be cancelled.
func (s *TicketLifecycleService) Cancel(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(ticket.Status, models.TicketStatusCancelled) {
		return nil, s.rejectTransition(ticket, models.TicketStatusCancelled)
	}

	flight, err := s.flights.FindFlightByID(ctx, ticket.FlightID)
	if err != nil {
		return nil, persistenceError("find flight", err)
	}
	if flight == nil {
		return nil, &NotFoundError{Resource: "flight", ID: ticket.FlightID.String()}
	}

	if flight.TicketsFrozen(s.clock.now()) {
		metrics.TicketTransitions.WithLabelValues(string(models.TicketStatusCancelled), "rejected").Inc()
		return nil, &NotAllowedError{Reason: "flight " + flight.ID.String() + " has already departed and is " + string(flight.Status)}
	}

	return s.transition(ctx, ticket, models.TicketStatusCancelled, nil)
}

// transition applies a legal status change as a compare-and-set on the
// status the ticket was read with. Losing that race to a concurrent
// transition re-reads the ticket and reports the status that won.
func (s *TicketLifecycleService) transition(ctx context.Context, ticket *models.Ticket, to models.TicketStatus, purchaseTime *time.Time) (*models.Ticket, error) {
	if !CanTransition(ticket.Status, to) {
		return nil, s.rejectTransition(ticket, to)
	}

	updated, err := s.tickets.UpdateTicketStatus(ctx, ticket.ID, ticket.Status, to, purchaseTime)
	if err != nil {
		metrics.TicketTransitions.WithLabelValues(string(to), "error").Inc()
		return nil, persistenceError("update ticket status", err)
	}

	if !updated {
		current, err := s.GetTicket(ctx, ticket.ID)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"expected":  ticket.Status,
			"actual":    current.Status,
		}).Info("Ticket changed concurrently")
		return nil, s.rejectTransition(current, to)
	}

	result, err := s.GetTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitions.WithLabelValues(string(to), "applied").Inc()
	s.logger.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"from":      ticket.Status,
		"to":        to,
	}).Info("Ticket status changed")

	if err := s.publisher.PublishTicketEvent(ctx, events.NewTicketEvent(result, s.clock.now())); err != nil {
		s.logger.WithError(err).WithField("ticket_id", result.ID).Warn("Failed to publish ticket event")
	}

	return result, nil
}

func (s *TicketLifecycleService) rejectTransition(ticket *models.Ticket, to models.TicketStatus) error {
	metrics.TicketTransitions.WithLabelValues(string(to), "invalid").Inc()
	return &InvalidTransitionError{TicketID: ticket.ID, From: ticket.Status, To: to}
}
