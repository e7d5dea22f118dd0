package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// BookingService runs a complete booking: resolve the passenger, price the
// seat for the passenger's benefit category, then hold it at that fare
type BookingService struct {
	fares      *FareCalculator
	passengers *PassengerResolverService
	seats      *SeatAllocationService
	logger     *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(fares *FareCalculator, passengers *PassengerResolverService, seats *SeatAllocationService, logger *logrus.Logger) *BookingService {
	return &BookingService{
		fares:      fares,
		passengers: passengers,
		seats:      seats,
		logger:     logger,
	}
}

// Book holds a seat for the passenger described by req. A passenger created
// along the way is kept even if the hold then fails.
func (s *BookingService) Book(ctx context.Context, req *models.BookingRequest) (*models.BookingResponse, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, &ValidationError{Field: "flight_id", Message: "must be a UUID"}
	}

	flight, err := s.seats.getFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	passengerID, err := s.passengers.Resolve(ctx, req.DocumentType, req.DocumentNumber, req.Profile())
	if err != nil {
		return nil, err
	}

	// An already registered passenger keeps the benefit category on record
	passenger, err := s.passengers.passengers.FindPassengerByID(ctx, passengerID)
	if err != nil {
		return nil, persistenceError("find passenger", err)
	}
	if passenger == nil {
		return nil, &ConsistencyError{Message: "resolved passenger " + passengerID.String() + " cannot be found"}
	}
	benefit := passenger.BenefitCategory

	discount, err := s.fares.Discount(benefit)
	if err != nil {
		return nil, err
	}
	fare, err := s.fares.ComputeFare(flight.PricePerSeat, benefit)
	if err != nil {
		return nil, err
	}

	ticket, err := s.seats.HoldSeat(ctx, flight.ID, req.SeatNumber, passengerID, fare)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":    ticket.ID,
		"passenger_id": passengerID,
		"benefit":      benefit,
		"fare":         fare.StringFixed(2),
	}).Info("Booking completed")

	return &models.BookingResponse{
		Ticket:      ticket,
		PassengerID: passengerID,
		BaseFare:    flight.PricePerSeat,
		Discount:    discount,
		Fare:        fare,
	}, nil
}
