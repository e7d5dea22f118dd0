package services

import (
	"github.com/shopspring/decimal"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// benefitDiscounts is the discount rate per benefit category
var benefitDiscounts = map[models.BenefitCategory]decimal.Decimal{
	models.BenefitNone:      decimal.Zero,
	models.BenefitStudent:   decimal.RequireFromString("0.20"),
	models.BenefitPensioner: decimal.RequireFromString("0.15"),
	models.BenefitCombatant: decimal.RequireFromString("0.50"),
}

// FareCalculator computes what a passenger pays for a seat. It holds no
// state and performs no I/O.
type FareCalculator struct{}

// NewFareCalculator creates a new FareCalculator
func NewFareCalculator() *FareCalculator {
	return &FareCalculator{}
}

// Discount returns the discount rate of a benefit category (0.20 for 20%)
func (c *FareCalculator) Discount(benefit models.BenefitCategory) (decimal.Decimal, error) {
	discount, ok := benefitDiscounts[benefit]
	if !ok {
		return decimal.Zero, &ValidationError{Field: "benefit_category", Message: "unknown benefit category " + string(benefit)}
	}
	return discount, nil
}

// ComputeFare applies the benefit discount to baseFare and rounds the result
// half-up to two decimal places
func (c *FareCalculator) ComputeFare(baseFare decimal.Decimal, benefit models.BenefitCategory) (decimal.Decimal, error) {
	if baseFare.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "base_fare", Message: "must not be negative"}
	}

	discount, err := c.Discount(benefit)
	if err != nil {
		return decimal.Zero, err
	}

	// Round is half away from zero, which is half-up for non-negative amounts
	return baseFare.Mul(decimal.NewFromInt(1).Sub(discount)).Round(2), nil
}
