package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
)

// PassengerHandler handles passenger identity endpoints
type PassengerHandler struct {
	resolver *services.PassengerResolverService
	logger   *logrus.Logger
}

// NewPassengerHandler creates a new PassengerHandler
func NewPassengerHandler(resolver *services.PassengerResolverService, logger *logrus.Logger) *PassengerHandler {
	return &PassengerHandler{resolver: resolver, logger: logger}
}

// ResolvePassengerResponse carries the stable id of a passenger
type ResolvePassengerResponse struct {
	PassengerID uuid.UUID `json:"passenger_id"`
}

// ResolvePassenger handles POST /api/v1/passengers/resolve
func (h *PassengerHandler) ResolvePassenger(c *gin.Context) {
	var req models.ResolvePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	passengerID, err := h.resolver.Resolve(c.Request.Context(), req.DocumentType, req.DocumentNumber, req.Profile())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ResolvePassengerResponse{PassengerID: passengerID})
}
