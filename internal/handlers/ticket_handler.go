package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
)

// TicketHandler handles ticket lifecycle endpoints
type TicketHandler struct {
	lifecycle *services.TicketLifecycleService
	logger    *logrus.Logger
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(lifecycle *services.TicketLifecycleService, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{lifecycle: lifecycle, logger: logger}
}

func ticketIDParam(c *gin.Context) (uuid.UUID, bool) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		badRequest(c, "ticketId must be a UUID")
		return uuid.Nil, false
	}
	return ticketID, true
}

// GetTicket handles GET /api/v1/tickets/:ticketId
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.lifecycle.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// SellTicket handles POST /api/v1/tickets/:ticketId/sell. The body is
// optional; without a purchase_time the sale is stamped with the current time.
func (h *TicketHandler) SellTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}

	var req models.SellTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	ticket, err := h.lifecycle.Sell(c.Request.Context(), ticketID, req.PurchaseTime)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	agentLogEntry(h.logger, c).WithField("ticket_id", ticket.ID).Info("Ticket sold by agent")
	c.JSON(http.StatusOK, ticket)
}

// CancelTicket handles POST /api/v1/tickets/:ticketId/cancel
func (h *TicketHandler) CancelTicket(c *gin.Context) {
	ticketID, ok := ticketIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.lifecycle.Cancel(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	agentLogEntry(h.logger, c).WithField("ticket_id", ticket.ID).Info("Ticket cancelled by agent")
	c.JSON(http.StatusOK, ticket)
}
