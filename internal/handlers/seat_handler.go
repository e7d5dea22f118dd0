package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/middleware"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
	"github.com/smarttransit/ticketing-core/internal/utils"
)

// SeatHandler handles seat availability, hold and booking endpoints
type SeatHandler struct {
	seats    *services.SeatAllocationService
	bookings *services.BookingService
	reports  *services.SalesReportService
	logger   *logrus.Logger
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(
	seats *services.SeatAllocationService,
	bookings *services.BookingService,
	reports *services.SalesReportService,
	logger *logrus.Logger,
) *SeatHandler {
	return &SeatHandler{
		seats:    seats,
		bookings: bookings,
		reports:  reports,
		logger:   logger,
	}
}

// AvailableSeatsResponse lists the free seats of a flight
type AvailableSeatsResponse struct {
	FlightID uuid.UUID `json:"flight_id"`
	Seats    []string  `json:"seats"`
	Count    int       `json:"count"`
}

func flightIDParam(c *gin.Context) (uuid.UUID, bool) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		badRequest(c, "flightId must be a UUID")
		return uuid.Nil, false
	}
	return flightID, true
}

// GetAvailableSeats handles GET /api/v1/flights/:flightId/seats
func (h *SeatHandler) GetAvailableSeats(c *gin.Context) {
	flightID, ok := flightIDParam(c)
	if !ok {
		return
	}

	seats, err := h.seats.AvailableSeats(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, AvailableSeatsResponse{FlightID: flightID, Seats: seats, Count: len(seats)})
}

// GetOccupancy handles GET /api/v1/flights/:flightId/occupancy
func (h *SeatHandler) GetOccupancy(c *gin.Context) {
	flightID, ok := flightIDParam(c)
	if !ok {
		return
	}

	occupancy, err := h.reports.Occupancy(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, occupancy)
}

// HoldSeat handles POST /api/v1/flights/:flightId/holds
func (h *SeatHandler) HoldSeat(c *gin.Context) {
	flightID, ok := flightIDParam(c)
	if !ok {
		return
	}

	var req models.HoldSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ticket, err := h.seats.HoldSeat(c.Request.Context(), flightID, req.SeatNumber, uuid.MustParse(req.PassengerID), *req.PricePaid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditLog(c, ticket).Info("Seat held by agent")
	c.JSON(http.StatusCreated, ticket)
}

// CreateBooking handles POST /api/v1/bookings
func (h *SeatHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.Book(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditLog(c, booking.Ticket).Info("Booking created by agent")
	c.JSON(http.StatusCreated, booking)
}

// auditLog returns a log entry naming the agent and device behind a change
func (h *SeatHandler) auditLog(c *gin.Context, ticket *models.Ticket) *logrus.Entry {
	return agentLogEntry(h.logger, c).WithFields(logrus.Fields{
		"ticket_id":   ticket.ID,
		"flight_id":   ticket.FlightID,
		"seat_number": ticket.SeatNumber,
	})
}

func agentLogEntry(logger *logrus.Logger, c *gin.Context) *logrus.Entry {
	client := utils.DescribeClient(c)
	fields := logrus.Fields{
		"ip":          client.IP,
		"device_type": client.DeviceType,
	}
	if agent, ok := middleware.GetAgentContext(c); ok {
		fields["agent_id"] = agent.AgentID
	}
	return logger.WithFields(fields)
}
