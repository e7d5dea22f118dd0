package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// PassengerRepository handles passengers database operations
type PassengerRepository struct {
	db DB
}

// NewPassengerRepository creates a new PassengerRepository
func NewPassengerRepository(db DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

// FindPassengerByDocument looks a passenger up by identity document, returning nil if absent
func (r *PassengerRepository) FindPassengerByDocument(ctx context.Context, documentType, documentNumber string) (*models.Passenger, error) {
	query := `
		SELECT id, full_name, document_type, document_number, phone_number,
			   email, benefit_category, created_at
		FROM passengers
		WHERE document_type = $1 AND document_number = $2
	`

	var passenger models.Passenger
	err := r.db.GetContext(ctx, &passenger, query, documentType, documentNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch passenger by document: %w", err)
	}

	return &passenger, nil
}

// FindPassengerByID returns a passenger by id, or nil if absent
func (r *PassengerRepository) FindPassengerByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error) {
	query := `
		SELECT id, full_name, document_type, document_number, phone_number,
			   email, benefit_category, created_at
		FROM passengers
		WHERE id = $1
	`

	var passenger models.Passenger
	err := r.db.GetContext(ctx, &passenger, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch passenger: %w", err)
	}

	return &passenger, nil
}

// InsertPassenger stores a new passenger. A second row with the same
// document pair is rejected with ErrUniqueViolation.
func (r *PassengerRepository) InsertPassenger(ctx context.Context, passenger *models.Passenger) (*models.Passenger, error) {
	query := `
		INSERT INTO passengers (
			id, full_name, document_type, document_number, phone_number,
			email, benefit_category, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		passenger.ID,
		passenger.FullName,
		passenger.DocumentType,
		passenger.DocumentNumber,
		passenger.PhoneNumber,
		passenger.Email,
		passenger.BenefitCategory,
		passenger.CreatedAt,
	)
	if err != nil {
		return nil, translateInsertError("failed to insert passenger", err)
	}

	return passenger, nil
}
