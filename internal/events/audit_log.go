package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"
)

// StartAuditLog subscribes to ticket events and writes each one to the
// logger. It returns once the subscription is established; consumption
// stops when ctx is cancelled or the subscriber is closed.
func StartAuditLog(ctx context.Context, subscriber message.Subscriber, logger *logrus.Logger) error {
	messages, err := subscriber.Subscribe(ctx, TicketEventsTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TicketEventsTopic, err)
	}

	go func() {
		for msg := range messages {
			var event TicketEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				// Malformed payloads are dropped, redelivery would not fix them
				logger.WithError(err).WithField("message_uuid", msg.UUID).Warn("Discarding malformed ticket event")
				msg.Ack()
				continue
			}

			logger.WithFields(logrus.Fields{
				"ticket_id":   event.TicketID,
				"flight_id":   event.FlightID,
				"seat_number": event.SeatNumber,
				"status":      event.Status,
				"occurred_at": event.OccurredAt,
			}).Info("Ticket audit")
			msg.Ack()
		}
	}()

	return nil
}
