package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/smarttransit/ticketing-core/internal/models"
)

const ticketColumns = `
	id, flight_id, passenger_id, seat_number, booking_time, purchase_time,
	hold_expiry, price_paid, status, updated_at`

// TicketRepository handles tickets database operations
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// FindTicket returns the live (HOLD or SOLD) ticket for a seat, or nil
func (r *TicketRepository) FindTicket(ctx context.Context, flightID uuid.UUID, seatNumber string) (*models.Ticket, error) {
	query := `SELECT` + ticketColumns + `
		FROM tickets
		WHERE flight_id = $1 AND seat_number = $2 AND status IN ('HOLD', 'SOLD')
	`

	var ticket models.Ticket
	err := r.db.GetContext(ctx, &ticket, query, flightID, seatNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}

	return &ticket, nil
}

// FindTicketByID returns a ticket by id, or nil if it does not exist
func (r *TicketRepository) FindTicketByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	query := `SELECT` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	var ticket models.Ticket
	err := r.db.GetContext(ctx, &ticket, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}

	return &ticket, nil
}

// FindTicketsByFlight returns the tickets of a flight in any of the given statuses
func (r *TicketRepository) FindTicketsByFlight(ctx context.Context, flightID uuid.UUID, statuses []models.TicketStatus) ([]models.Ticket, error) {
	query := `SELECT` + ticketColumns + `
		FROM tickets
		WHERE flight_id = $1 AND status = ANY($2)
		ORDER BY booking_time
	`

	statusArgs := lo.Map(statuses, func(s models.TicketStatus, _ int) string { return string(s) })

	tickets := []models.Ticket{}
	err := r.db.SelectContext(ctx, &tickets, query, flightID, pq.Array(statusArgs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flight tickets: %w", err)
	}

	return tickets, nil
}

// InsertTicket stores a new ticket. A concurrent live ticket on the same seat
// makes the partial unique index reject the row with ErrUniqueViolation.
func (r *TicketRepository) InsertTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	query := `
		INSERT INTO tickets (
			id, flight_id, passenger_id, seat_number, booking_time, purchase_time,
			hold_expiry, price_paid, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.FlightID,
		ticket.PassengerID,
		ticket.SeatNumber,
		ticket.BookingTime,
		ticket.PurchaseTime,
		ticket.HoldExpiry,
		ticket.PricePaid,
		ticket.Status,
		ticket.UpdatedAt,
	)
	if err != nil {
		return nil, translateInsertError("failed to insert ticket", err)
	}

	return ticket, nil
}

// UpdateTicketStatus moves a ticket from one status to another in a single
// conditional write. It returns false when the ticket is no longer in the
// expected status (or does not exist). The hold expiry is always cleared;
// purchaseTime is only written when non-nil.
func (r *TicketRepository) UpdateTicketStatus(ctx context.Context, id uuid.UUID, from, to models.TicketStatus, purchaseTime *time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET status = $1,
			purchase_time = COALESCE($2, purchase_time),
			hold_expiry = NULL,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, to, purchaseTime, time.Now(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update ticket status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rowsAffected == 1, nil
}
