package models

import (
	"time"

	"github.com/google/uuid"
)

// BenefitCategory is a passenger's discount class
type BenefitCategory string

const (
	BenefitNone      BenefitCategory = "NONE"
	BenefitStudent   BenefitCategory = "STUDENT"
	BenefitPensioner BenefitCategory = "PENSIONER"
	BenefitCombatant BenefitCategory = "COMBATANT"
)

// IsValid reports whether c is a known benefit category
func (c BenefitCategory) IsValid() bool {
	switch c {
	case BenefitNone, BenefitStudent, BenefitPensioner, BenefitCombatant:
		return true
	}
	return false
}

// Passenger is identified by its (document type, document number) pair
type Passenger struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	FullName        string          `json:"full_name" db:"full_name"`
	DocumentType    string          `json:"document_type" db:"document_type"`
	DocumentNumber  string          `json:"document_number" db:"document_number"`
	PhoneNumber     string          `json:"phone_number" db:"phone_number"`
	Email           *string         `json:"email,omitempty" db:"email"`
	BenefitCategory BenefitCategory `json:"benefit_category" db:"benefit_category"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// PassengerProfile holds the non-identity fields used when a passenger is
// registered for the first time
type PassengerProfile struct {
	FullName        string          `json:"full_name"`
	PhoneNumber     string          `json:"phone_number"`
	Email           *string         `json:"email,omitempty"`
	BenefitCategory BenefitCategory `json:"benefit_category"`
}

// ResolvePassengerRequest is the body of POST /passengers/resolve
type ResolvePassengerRequest struct {
	DocumentType    string          `json:"document_type" binding:"required"`
	DocumentNumber  string          `json:"document_number" binding:"required"`
	FullName        string          `json:"full_name" binding:"required"`
	PhoneNumber     string          `json:"phone_number" binding:"required"`
	Email           *string         `json:"email,omitempty"`
	BenefitCategory BenefitCategory `json:"benefit_category"`
}

// Profile extracts the profile fields of the request
func (r *ResolvePassengerRequest) Profile() PassengerProfile {
	benefit := r.BenefitCategory
	if benefit == "" {
		benefit = BenefitNone
	}
	return PassengerProfile{
		FullName:        r.FullName,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		BenefitCategory: benefit,
	}
}
