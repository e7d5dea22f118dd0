package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// TicketEventsTopic carries every ticket state change
const TicketEventsTopic = "ticket-events"

// TicketEvent is published after a ticket is held, sold or cancelled
type TicketEvent struct {
	TicketID    uuid.UUID           `json:"ticket_id"`
	FlightID    uuid.UUID           `json:"flight_id"`
	PassengerID uuid.UUID           `json:"passenger_id"`
	SeatNumber  string              `json:"seat_number"`
	Status      models.TicketStatus `json:"status"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewTicketEvent builds the event for the current state of a ticket
func NewTicketEvent(ticket *models.Ticket, at time.Time) TicketEvent {
	return TicketEvent{
		TicketID:    ticket.ID,
		FlightID:    ticket.FlightID,
		PassengerID: ticket.PassengerID,
		SeatNumber:  ticket.SeatNumber,
		Status:      ticket.Status,
		OccurredAt:  at,
	}
}

// Publisher publishes ticket events
type Publisher interface {
	PublishTicketEvent(ctx context.Context, event TicketEvent) error
}

// WatermillPublisher publishes ticket events as JSON messages
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new WatermillPublisher
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishTicketEvent marshals and publishes the event on TicketEventsTopic
func (p *WatermillPublisher) PublishTicketEvent(ctx context.Context, event TicketEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("status", string(event.Status))
	msg.Metadata.Set("flight_id", event.FlightID.String())

	if err := p.publisher.Publish(TicketEventsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}
	return nil
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// PublishTicketEvent implements Publisher
func (NoopPublisher) PublishTicketEvent(context.Context, TicketEvent) error { return nil }
