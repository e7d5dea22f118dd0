package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/pkg/sms"
)

// sriLankaTime is used to render departure times in confirmations
var sriLankaTime = time.FixedZone("SLST", 5*60*60+30*60)

// PassengerLookup finds the passenger a ticket belongs to
type PassengerLookup interface {
	FindPassengerByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error)
}

// FlightLookup finds the flight a ticket is for
type FlightLookup interface {
	FindFlightByID(ctx context.Context, id uuid.UUID) (*models.Flight, error)
}

// TicketNotifier sends an SMS confirmation to the passenger when a ticket is sold
type TicketNotifier struct {
	passengers PassengerLookup
	flights    FlightLookup
	gateway    sms.Gateway
	logger     *logrus.Logger
}

// NewTicketNotifier creates a new TicketNotifier
func NewTicketNotifier(passengers PassengerLookup, flights FlightLookup, gateway sms.Gateway, logger *logrus.Logger) *TicketNotifier {
	return &TicketNotifier{
		passengers: passengers,
		flights:    flights,
		gateway:    gateway,
		logger:     logger,
	}
}

// Start subscribes to ticket events. Delivery failures are logged and the
// event is acknowledged; a sale never depends on its confirmation SMS.
func (n *TicketNotifier) Start(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, TicketEventsTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TicketEventsTopic, err)
	}

	go func() {
		for msg := range messages {
			var event TicketEvent
			if err := json.Unmarshal(msg.Payload, &event); err == nil && event.Status == models.TicketStatusSold {
				n.notify(msg.Context(), event)
			}
			msg.Ack()
		}
	}()

	return nil
}

func (n *TicketNotifier) notify(ctx context.Context, event TicketEvent) {
	log := n.logger.WithFields(logrus.Fields{
		"ticket_id":    event.TicketID,
		"passenger_id": event.PassengerID,
		"gateway":      n.gateway.Name(),
	})

	passenger, err := n.passengers.FindPassengerByID(ctx, event.PassengerID)
	if err != nil || passenger == nil {
		log.WithError(err).Warn("Skipping sale confirmation, passenger not found")
		return
	}
	flight, err := n.flights.FindFlightByID(ctx, event.FlightID)
	if err != nil || flight == nil {
		log.WithError(err).Warn("Skipping sale confirmation, flight not found")
		return
	}

	err = n.gateway.Send(ctx, passenger.PhoneNumber, ConfirmationMessage(event, flight))
	switch {
	case errors.Is(err, sms.ErrNotMobile):
		log.Debug("Skipping sale confirmation, phone number is not reachable by SMS")
	case err != nil:
		log.WithError(err).Error("Failed to send sale confirmation")
	default:
		log.Info("Sale confirmation sent")
	}
}

// ConfirmationMessage renders the SMS text for a sold ticket
func ConfirmationMessage(event TicketEvent, flight *models.Flight) string {
	return fmt.Sprintf(
		"SmartTransit: seat %s confirmed, departing %s. Ticket %s. Have a safe journey.",
		event.SeatNumber,
		flight.DepartureTime.In(sriLankaTime).Format("02 Jan 2006 15:04"),
		event.TicketID.String()[:8],
	)
}
