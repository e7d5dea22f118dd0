package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// FlightRepository reads trips and routes. Both are maintained by the
// fleet administration; this repository never writes them.
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindFlightByID returns a flight by id, or nil if absent
func (r *FlightRepository) FindFlightByID(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	query := `
		SELECT id, route_id, departure_time, arrival_time, total_seats,
			   price_per_seat, status, bus_model
		FROM flights
		WHERE id = $1
	`

	var flight models.Flight
	err := r.db.GetContext(ctx, &flight, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}

	return &flight, nil
}

// routeRow is the flat shape of a route joined with its terminal stops
type routeRow struct {
	ID                  uuid.UUID `db:"id"`
	DepartureStopID     uuid.UUID `db:"departure_stop_id"`
	DepartureStopName   string    `db:"departure_stop_name"`
	DepartureStopCity   string    `db:"departure_stop_city"`
	DestinationStopID   uuid.UUID `db:"destination_stop_id"`
	DestinationStopName string    `db:"destination_stop_name"`
	DestinationStopCity string    `db:"destination_stop_city"`
}

// FindRouteByID returns a route with its stops in travel order, or nil if absent
func (r *FlightRepository) FindRouteByID(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	query := `
		SELECT
			r.id,
			ds.id AS departure_stop_id, ds.name AS departure_stop_name, ds.city AS departure_stop_city,
			ts.id AS destination_stop_id, ts.name AS destination_stop_name, ts.city AS destination_stop_city
		FROM routes r
		JOIN stops ds ON ds.id = r.departure_stop_id
		JOIN stops ts ON ts.id = r.destination_stop_id
		WHERE r.id = $1
	`

	var row routeRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	intermediate := []models.Stop{}
	err = r.db.SelectContext(ctx, &intermediate, `
		SELECT s.id, s.name, s.city
		FROM route_stops rs
		JOIN stops s ON s.id = rs.stop_id
		WHERE rs.route_id = $1
		ORDER BY rs.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route stops: %w", err)
	}

	return &models.Route{
		ID:                row.ID,
		DepartureStop:     models.Stop{ID: row.DepartureStopID, Name: row.DepartureStopName, City: row.DepartureStopCity},
		DestinationStop:   models.Stop{ID: row.DestinationStopID, Name: row.DestinationStopName, City: row.DestinationStopCity},
		IntermediateStops: intermediate,
	}, nil
}
