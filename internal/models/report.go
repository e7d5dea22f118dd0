package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RouteSales is the revenue summary of one route
type RouteSales struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TicketCount  int             `json:"ticket_count"`
}

// RouteSalesRow is one aggregate row of sold tickets grouped by route
type RouteSalesRow struct {
	RouteID      uuid.UUID       `db:"route_id"`
	TotalRevenue decimal.Decimal `db:"total_revenue"`
	TicketCount  int             `db:"ticket_count"`
}

// StatusCountRow is one aggregate row of tickets grouped by status
type StatusCountRow struct {
	Status TicketStatus `db:"status"`
	Count  int          `db:"count"`
}

// Occupancy is the load of a single flight
type Occupancy struct {
	FlightID      uuid.UUID `json:"flight_id"`
	OccupiedSeats int       `json:"occupied_seats"`
	TotalSeats    int       `json:"total_seats"`
	Ratio         float64   `json:"ratio"`
	Percentage    float64   `json:"percentage"`
}
