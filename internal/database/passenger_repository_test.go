package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var passengerRowColumns = []string{
	"id", "full_name", "document_type", "document_number", "phone_number",
	"email", "benefit_category", "created_at",
}

func TestFindPassengerByDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPassengerRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		passengerID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM passengers WHERE document_type = \$1 AND document_number = \$2`).
			WithArgs("Passport", "AA123456").
			WillReturnRows(sqlmock.NewRows(passengerRowColumns).AddRow(
				passengerID.String(), "Kamal Silva", "Passport", "AA123456", "0771234567",
				nil, "STUDENT", time.Now(),
			))

		passenger, err := repo.FindPassengerByDocument(ctx, "Passport", "AA123456")
		require.NoError(t, err)
		require.NotNil(t, passenger)
		assert.Equal(t, passengerID, passenger.ID)
		assert.Equal(t, models.BenefitStudent, passenger.BenefitCategory)
		assert.Nil(t, passenger.Email)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM passengers`).
			WithArgs("NIC", "199012345678").
			WillReturnError(sql.ErrNoRows)

		passenger, err := repo.FindPassengerByDocument(ctx, "NIC", "199012345678")
		assert.NoError(t, err)
		assert.Nil(t, passenger)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM passengers`).
			WillReturnError(fmt.Errorf("database error"))

		passenger, err := repo.FindPassengerByDocument(ctx, "NIC", "1")
		assert.Error(t, err)
		assert.Nil(t, passenger)
		assert.Contains(t, err.Error(), "failed to fetch passenger by document")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindPassengerByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPassengerRepository(db)

	passengerID := uuid.New()
	email := "kamal@example.com"

	mock.ExpectQuery(`SELECT (.+) FROM passengers WHERE id = \$1`).
		WithArgs(passengerID).
		WillReturnRows(sqlmock.NewRows(passengerRowColumns).AddRow(
			passengerID.String(), "Kamal Silva", "Passport", "AA123456", "0771234567",
			email, "NONE", time.Now(),
		))

	passenger, err := repo.FindPassengerByID(context.Background(), passengerID)
	require.NoError(t, err)
	require.NotNil(t, passenger.Email)
	assert.Equal(t, email, *passenger.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPassenger(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPassengerRepository(db)
	ctx := context.Background()

	now := time.Now()
	passenger := &models.Passenger{
		ID:              uuid.New(),
		FullName:        "Kamal Silva",
		DocumentType:    "Passport",
		DocumentNumber:  "AA123456",
		PhoneNumber:     "0771234567",
		BenefitCategory: models.BenefitNone,
		CreatedAt:       now,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO passengers`).
			WithArgs(passenger.ID, "Kamal Silva", "Passport", "AA123456", "0771234567", nil, "NONE", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := repo.InsertPassenger(ctx, passenger)
		require.NoError(t, err)
		assert.Equal(t, passenger.ID, inserted.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Document", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "passengers_document_key"})

		inserted, err := repo.InsertPassenger(ctx, passenger)
		assert.Nil(t, inserted)
		assert.ErrorIs(t, err, ErrUniqueViolation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
