package database

import (
	"context"
	"fmt"
	"time"

	"github.com/smarttransit/ticketing-core/internal/models"
)

// ReportRepository runs the aggregate queries behind sales reporting
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AggregateSales sums SOLD tickets purchased in [from, until) per route of
// the ticket's flight
func (r *ReportRepository) AggregateSales(ctx context.Context, from, until time.Time) ([]models.RouteSalesRow, error) {
	query := `
		SELECT
			f.route_id,
			COALESCE(SUM(t.price_paid), 0) AS total_revenue,
			COUNT(*) AS ticket_count
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		WHERE t.status = 'SOLD'
		  AND t.purchase_time >= $1
		  AND t.purchase_time < $2
		GROUP BY f.route_id
		ORDER BY f.route_id
	`

	rows := []models.RouteSalesRow{}
	if err := r.db.SelectContext(ctx, &rows, query, from, until); err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	return rows, nil
}

// CountTicketsByStatus counts tickets per status. Statuses without tickets
// are absent from the result.
func (r *ReportRepository) CountTicketsByStatus(ctx context.Context) ([]models.StatusCountRow, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM tickets
		GROUP BY status
	`

	rows := []models.StatusCountRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	return rows, nil
}
