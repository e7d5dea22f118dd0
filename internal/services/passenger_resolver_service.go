package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/metrics"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/pkg/validator"
)

// PassengerResolverService maps identity documents to stable passenger ids
type PassengerResolverService struct {
	passengers PassengerStore
	clock      Clock
	logger     *logrus.Logger
}

// NewPassengerResolverService creates a new passenger resolver service
func NewPassengerResolverService(passengers PassengerStore, logger *logrus.Logger) *PassengerResolverService {
	return &PassengerResolverService{
		passengers: passengers,
		logger:     logger,
	}
}

// WithClock replaces the time source, for tests
func (s *PassengerResolverService) WithClock(clock Clock) *PassengerResolverService {
	s.clock = clock
	return s
}

// Resolve returns the id of the passenger owning the document, registering
// a new passenger from profile when none exists. The profile of an existing
// passenger is never updated.
//
// Two concurrent calls for the same document race on the insert; the loser
// looks the winner up once and returns its id.
func (s *PassengerResolverService) Resolve(ctx context.Context, documentType, documentNumber string, profile models.PassengerProfile) (uuid.UUID, error) {
	id, outcome, err := s.resolve(ctx, documentType, documentNumber, profile)
	metrics.PassengerResolutions.WithLabelValues(outcome).Inc()
	return id, err
}

func (s *PassengerResolverService) resolve(ctx context.Context, documentType, documentNumber string, profile models.PassengerProfile) (uuid.UUID, string, error) {
	documentType = strings.TrimSpace(documentType)
	documentNumber = strings.TrimSpace(documentNumber)
	if documentType == "" {
		return uuid.Nil, "rejected", &ValidationError{Field: "document_type", Message: "is required"}
	}
	if documentNumber == "" {
		return uuid.Nil, "rejected", &ValidationError{Field: "document_number", Message: "is required"}
	}

	existing, err := s.passengers.FindPassengerByDocument(ctx, documentType, documentNumber)
	if err != nil {
		return uuid.Nil, "error", persistenceError("find passenger by document", err)
	}
	if existing != nil {
		return existing.ID, "existing", nil
	}

	passenger, err := newPassenger(documentType, documentNumber, profile, s.clock.now())
	if err != nil {
		return uuid.Nil, "rejected", err
	}

	outcome := "created"
	resolved, err := tryInsertOrResolveConflict("insert passenger",
		func() (*models.Passenger, error) {
			return s.passengers.InsertPassenger(ctx, passenger)
		},
		func() (*models.Passenger, error) {
			outcome = "race_resolved"
			winner, err := s.passengers.FindPassengerByDocument(ctx, documentType, documentNumber)
			if err != nil {
				return nil, persistenceError("find passenger by document", err)
			}
			if winner == nil {
				return nil, &ConsistencyError{Message: "passenger " + documentType + " " + documentNumber + " was reported as duplicate but cannot be found"}
			}
			return winner, nil
		},
	)
	if err != nil {
		if IsConsistency(err) {
			s.logger.WithFields(logrus.Fields{
				"document_type": documentType,
			}).Error("Passenger uniqueness conflict could not be resolved")
			return uuid.Nil, "inconsistent", err
		}
		return uuid.Nil, "error", err
	}

	s.logger.WithFields(logrus.Fields{
		"passenger_id": resolved.ID,
		"outcome":      outcome,
	}).Info("Passenger resolved")

	return resolved.ID, outcome, nil
}

func newPassenger(documentType, documentNumber string, profile models.PassengerProfile, now time.Time) (*models.Passenger, error) {
	fullName := strings.TrimSpace(profile.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Message: "is required"}
	}

	if strings.TrimSpace(profile.PhoneNumber) == "" {
		return nil, &ValidationError{Field: "phone_number", Message: "is required"}
	}
	phone, err := validator.NormalizePhone(profile.PhoneNumber)
	if err != nil {
		return nil, &ValidationError{Field: "phone_number", Message: err.Error()}
	}

	benefit := profile.BenefitCategory
	if benefit == "" {
		benefit = models.BenefitNone
	}
	if !benefit.IsValid() {
		return nil, &ValidationError{Field: "benefit_category", Message: "unknown benefit category " + string(benefit)}
	}

	var email *string
	if profile.Email != nil {
		if trimmed := strings.TrimSpace(*profile.Email); trimmed != "" {
			email = &trimmed
		}
	}

	return &models.Passenger{
		ID:              uuid.New(),
		FullName:        fullName,
		DocumentType:    documentType,
		DocumentNumber:  documentNumber,
		PhoneNumber:     phone,
		Email:           email,
		BenefitCategory: benefit,
		CreatedAt:       now,
	}, nil
}
