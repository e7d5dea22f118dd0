package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Code:    "INVALID_REQUEST",
	})
}

// respondError maps a service error onto its HTTP status and body. Seat
// conflicts are routine and distinct from storage failures, so clients can
// tell "pick another seat" apart from "try again later".
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
		notAllowed *services.NotAllowedError
		transition *services.InvalidTransitionError
		consistent *services.ConsistencyError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error(), Code: "INVALID_REQUEST"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error(), Code: "NOT_FOUND"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat_taken", Message: err.Error(), Code: "SEAT_TAKEN"})
	case errors.As(err, &notAllowed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "not_allowed", Message: err.Error(), Code: "NOT_ALLOWED"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid_transition", Message: err.Error(), Code: "INVALID_TRANSITION"})
	case errors.As(err, &consistent):
		logger.WithError(err).Error("Consistency violation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Reservation data is inconsistent", Code: "CONSISTENCY_ERROR"})
	case services.IsPersistence(err):
		logger.WithError(err).Error("Storage failure")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage_unavailable", Message: "Reservation storage is unavailable, try again later", Code: "STORAGE_UNAVAILABLE"})
	default:
		logger.WithError(err).Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An unexpected error occurred", Code: "INTERNAL_ERROR"})
	}
}
