package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/models"
)

// SalesReportService builds read-only sales and load reports
type SalesReportService struct {
	reports ReportStore
	flights FlightStore
	seats   *SeatAllocationService
	logger  *logrus.Logger
}

// NewSalesReportService creates a new sales report service. Occupancy is
// computed through seats so that reports and availability agree.
func NewSalesReportService(reports ReportStore, flights FlightStore, seats *SeatAllocationService, logger *logrus.Logger) *SalesReportService {
	return &SalesReportService{
		reports: reports,
		flights: flights,
		seats:   seats,
		logger:  logger,
	}
}

// SalesByRoute sums SOLD tickets whose purchase date is within
// [startDate, endDate], both inclusive, keyed by route description. A route
// missing from the reference data is reported under a placeholder label
// carrying its id.
func (s *SalesReportService) SalesByRoute(ctx context.Context, startDate, endDate time.Time) (map[string]models.RouteSales, error) {
	from := truncateToDate(startDate)
	to := truncateToDate(endDate)
	if from.After(to) {
		return nil, &ValidationError{Field: "start", Message: "must not be after end"}
	}

	rows, err := s.reports.AggregateSales(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, persistenceError("aggregate sales", err)
	}

	sales := make(map[string]models.RouteSales, len(rows))
	for _, row := range rows {
		description, err := s.describeRoute(ctx, row.RouteID)
		if err != nil {
			return nil, err
		}

		// Two routes may share a description; their totals are merged
		total := sales[description]
		total.TotalRevenue = total.TotalRevenue.Add(row.TotalRevenue)
		total.TicketCount += row.TicketCount
		sales[description] = total
	}

	s.logger.WithFields(logrus.Fields{
		"start":  from.Format(time.DateOnly),
		"end":    to.Format(time.DateOnly),
		"routes": len(sales),
	}).Debug("Sales aggregated")

	return sales, nil
}

// TicketCountsByStatus counts tickets per status; every status is present
func (s *SalesReportService) TicketCountsByStatus(ctx context.Context) (map[models.TicketStatus]int, error) {
	rows, err := s.reports.CountTicketsByStatus(ctx)
	if err != nil {
		return nil, persistenceError("count tickets by status", err)
	}

	counts := make(map[models.TicketStatus]int, len(models.AllTicketStatuses()))
	for _, status := range models.AllTicketStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] += row.Count
	}

	return counts, nil
}

// Occupancy reports how many seats of a flight are held or sold
func (s *SalesReportService) Occupancy(ctx context.Context, flightID uuid.UUID) (*models.Occupancy, error) {
	flight, err := s.seats.getFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.seats.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}

	if flight.TotalSeats <= 0 {
		return nil, &ConsistencyError{Message: "flight " + flight.ID.String() + " has no seats"}
	}

	ratio := float64(len(occupied)) / float64(flight.TotalSeats)
	return &models.Occupancy{
		FlightID:      flight.ID,
		OccupiedSeats: len(occupied),
		TotalSeats:    flight.TotalSeats,
		Ratio:         ratio,
		Percentage:    ratio * 100,
	}, nil
}

func (s *SalesReportService) describeRoute(ctx context.Context, routeID uuid.UUID) (string, error) {
	route, err := s.flights.FindRouteByID(ctx, routeID)
	if err != nil {
		return "", persistenceError("find route", err)
	}
	if route == nil {
		s.logger.WithField("route_id", routeID).Warn("Sold tickets reference an unknown route")
		return models.UnknownRouteDescription(routeID), nil
	}
	return route.Description(), nil
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
