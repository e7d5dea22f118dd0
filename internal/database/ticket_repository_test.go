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
	"github.com/shopspring/decimal"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketRowColumns = []string{
	"id", "flight_id", "passenger_id", "seat_number", "booking_time", "purchase_time",
	"hold_expiry", "price_paid", "status", "updated_at",
}

func TestFindTicket(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	flightID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ticketID := uuid.New()
		passengerID := uuid.New()
		now := time.Now()
		expiry := now.Add(24 * time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM tickets WHERE flight_id = \$1 AND seat_number = \$2`).
			WithArgs(flightID, "7").
			WillReturnRows(sqlmock.NewRows(ticketRowColumns).AddRow(
				ticketID.String(), flightID.String(), passengerID.String(), "7", now, nil,
				expiry, "80.00", "HOLD", now,
			))

		ticket, err := repo.FindTicket(ctx, flightID, "7")
		require.NoError(t, err)
		require.NotNil(t, ticket)
		assert.Equal(t, ticketID, ticket.ID)
		assert.Equal(t, passengerID, ticket.PassengerID)
		assert.Equal(t, models.TicketStatusHold, ticket.Status)
		assert.Equal(t, "80.00", ticket.PricePaid.StringFixed(2))
		assert.Nil(t, ticket.PurchaseTime)
		require.NotNil(t, ticket.HoldExpiry)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs(flightID, "8").
			WillReturnError(sql.ErrNoRows)

		ticket, err := repo.FindTicket(ctx, flightID, "8")
		assert.NoError(t, err)
		assert.Nil(t, ticket)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs(flightID, "9").
			WillReturnError(fmt.Errorf("database error"))

		ticket, err := repo.FindTicket(ctx, flightID, "9")
		assert.Error(t, err)
		assert.Nil(t, ticket)
		assert.Contains(t, err.Error(), "failed to fetch ticket")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindTicketsByFlight(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)

	flightID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM tickets WHERE flight_id = \$1 AND status = ANY\(\$2\)`).
		WithArgs(flightID, pq.Array([]string{"HOLD", "SOLD"})).
		WillReturnRows(sqlmock.NewRows(ticketRowColumns).
			AddRow(uuid.NewString(), flightID.String(), uuid.NewString(), "1", now, nil, now, "100.00", "HOLD", now).
			AddRow(uuid.NewString(), flightID.String(), uuid.NewString(), "4", now, now, nil, "100.00", "SOLD", now))

	tickets, err := repo.FindTicketsByFlight(context.Background(), flightID, models.OccupyingStatuses())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "1", tickets[0].SeatNumber)
	assert.Equal(t, models.TicketStatusSold, tickets[1].Status)
	require.NotNil(t, tickets[1].PurchaseTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTicket(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	now := time.Now()
	expiry := now.Add(24 * time.Hour)
	ticket := &models.Ticket{
		ID:          uuid.New(),
		FlightID:    uuid.New(),
		PassengerID: uuid.New(),
		SeatNumber:  "3",
		BookingTime: now,
		HoldExpiry:  &expiry,
		PricePaid:   decimal.RequireFromString("85.00"),
		Status:      models.TicketStatusHold,
		UpdatedAt:   now,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tickets`).
			WithArgs(ticket.ID, ticket.FlightID, ticket.PassengerID, "3", now, nil, expiry, ticket.PricePaid, "HOLD", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := repo.InsertTicket(ctx, ticket)
		require.NoError(t, err)
		assert.Equal(t, ticket, inserted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Taken", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tickets`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "tickets_active_seat_key"})

		inserted, err := repo.InsertTicket(ctx, ticket)
		assert.Nil(t, inserted)
		assert.ErrorIs(t, err, ErrUniqueViolation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tickets`).
			WillReturnError(fmt.Errorf("database error"))

		inserted, err := repo.InsertTicket(ctx, ticket)
		assert.Nil(t, inserted)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUniqueViolation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateTicketStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	ticketID := uuid.New()
	purchased := time.Now()

	t.Run("Applied", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tickets SET status = \$1`).
			WithArgs("SOLD", purchased, sqlmock.AnyArg(), ticketID, "HOLD").
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.UpdateTicketStatus(ctx, ticketID, models.TicketStatusHold, models.TicketStatusSold, &purchased)
		require.NoError(t, err)
		assert.True(t, updated)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Status Changed Concurrently", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tickets`).
			WithArgs("CANCELLED", nil, sqlmock.AnyArg(), ticketID, "HOLD").
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.UpdateTicketStatus(ctx, ticketID, models.TicketStatusHold, models.TicketStatusCancelled, nil)
		require.NoError(t, err)
		assert.False(t, updated)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tickets`).
			WillReturnError(fmt.Errorf("database error"))

		updated, err := repo.UpdateTicketStatus(ctx, ticketID, models.TicketStatusSold, models.TicketStatusCancelled, nil)
		assert.Error(t, err)
		assert.False(t, updated)
		assert.Contains(t, err.Error(), "failed to update ticket status")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
