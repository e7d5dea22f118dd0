package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smarttransit/ticketing-core/internal/middleware"
	"github.com/smarttransit/ticketing-core/pkg/jwt"
)

// Handlers groups the reservation API handlers
type Handlers struct {
	Fares      *FareHandler
	Seats      *SeatHandler
	Tickets    *TicketHandler
	Passengers *PassengerHandler
	Reports    *ReportHandler
}

// Register mounts the reservation routes on v1. auth must authenticate the
// agent; role checks are applied here.
func (h *Handlers) Register(v1 *gin.RouterGroup, auth gin.HandlerFunc) {
	// Public lookups
	v1.GET("/fares/quote", h.Fares.Quote)
	v1.GET("/flights/:flightId/seats", h.Seats.GetAvailableSeats)
	v1.GET("/flights/:flightId/occupancy", h.Seats.GetOccupancy)

	agents := v1.Group("")
	agents.Use(auth, middleware.RequireRole(jwt.RoleAgent, jwt.RoleAdmin))
	{
		agents.POST("/flights/:flightId/holds", h.Seats.HoldSeat)
		agents.POST("/bookings", h.Seats.CreateBooking)

		agents.GET("/tickets/:ticketId", h.Tickets.GetTicket)
		agents.POST("/tickets/:ticketId/sell", h.Tickets.SellTicket)
		agents.POST("/tickets/:ticketId/cancel", h.Tickets.CancelTicket)

		agents.POST("/passengers/resolve", h.Passengers.ResolvePassenger)
	}

	reports := v1.Group("/reports")
	reports.Use(auth, middleware.RequireRole(jwt.RoleAdmin))
	{
		reports.GET("/sales", h.Reports.GetSalesByRoute)
		reports.GET("/ticket-status", h.Reports.GetTicketStatusCounts)
	}
}
