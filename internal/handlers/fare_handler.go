package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
)

// FareHandler handles fare quote endpoints
type FareHandler struct {
	fares  *services.FareCalculator
	logger *logrus.Logger
}

// NewFareHandler creates a new FareHandler
func NewFareHandler(fares *services.FareCalculator, logger *logrus.Logger) *FareHandler {
	return &FareHandler{fares: fares, logger: logger}
}

// FareQuoteResponse is the body of a fare quote
type FareQuoteResponse struct {
	BaseFare        decimal.Decimal        `json:"base_fare"`
	BenefitCategory models.BenefitCategory `json:"benefit_category"`
	Discount        decimal.Decimal        `json:"discount"`
	Fare            decimal.Decimal        `json:"fare"`
}

// Quote handles GET /api/v1/fares/quote?base=&benefit=
func (h *FareHandler) Quote(c *gin.Context) {
	base, err := decimal.NewFromString(c.Query("base"))
	if err != nil {
		badRequest(c, "base must be a decimal amount")
		return
	}

	benefit := models.BenefitCategory(strings.ToUpper(c.DefaultQuery("benefit", string(models.BenefitNone))))

	fare, err := h.fares.ComputeFare(base, benefit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	discount, err := h.fares.Discount(benefit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, FareQuoteResponse{
		BaseFare:        base,
		BenefitCategory: benefit,
		Discount:        discount,
		Fare:            fare,
	})
}
