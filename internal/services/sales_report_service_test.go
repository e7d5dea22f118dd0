package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestSalesByRoute_SumsSoldTickets(t *testing.T) {
	f := newFixture(t)
	flight := f.addFlight(t, 40)

	f.soldTicket(t, flight.ID, "1", "250.00", date(2024, 1, 3).Add(9*time.Hour))
	f.soldTicket(t, flight.ID, "2", "300.00", date(2024, 1, 31).Add(23*time.Hour))

	cancelled := f.soldTicket(t, flight.ID, "3", "400.00", date(2024, 1, 10))
	_, err := f.lifecycle.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	f.holdSeat(t, flight.ID, "4", "500.00")
	f.soldTicket(t, flight.ID, "5", "600.00", date(2024, 2, 1))

	sales, err := f.reports.SalesByRoute(context.Background(), date(2024, 1, 1), date(2024, 1, 31))

	require.NoError(t, err)
	require.Len(t, sales, 1)
	summary, ok := sales["Central Bus Stand (Colombo) → Goods Shed (Kandy)"]
	require.True(t, ok, "sales: %v", sales)
	assert.Equal(t, "550.00", summary.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, summary.TicketCount)
}

func TestSalesByRoute_IgnoresTimeOfDayInBounds(t *testing.T) {
	f := newFixture(t)
	flight := f.addFlight(t, 40)
	f.soldTicket(t, flight.ID, "1", "100.00", date(2024, 1, 31).Add(18*time.Hour))

	sales, err := f.reports.SalesByRoute(context.Background(), date(2024, 1, 31).Add(20*time.Hour), date(2024, 1, 31).Add(time.Hour))

	require.NoError(t, err)
	require.Len(t, sales, 1)
}

func TestSalesByRoute_UnknownRoute(t *testing.T) {
	f := newFixture(t)
	orphanRoute := uuid.New()
	flight := f.addFlight(t, 40, func(fl *models.Flight) { fl.RouteID = orphanRoute })
	f.soldTicket(t, flight.ID, "1", "120.00", date(2024, 1, 5))

	sales, err := f.reports.SalesByRoute(context.Background(), date(2024, 1, 1), date(2024, 1, 31))

	require.NoError(t, err)
	summary, ok := sales[models.UnknownRouteDescription(orphanRoute)]
	require.True(t, ok)
	assert.Contains(t, models.UnknownRouteDescription(orphanRoute), orphanRoute.String())
	assert.Equal(t, 1, summary.TicketCount)
}

func TestSalesByRoute_MergesSameDescription(t *testing.T) {
	f := newFixture(t)
	twin := f.route
	twin.ID = uuid.New()
	f.store.AddRoute(twin)

	first := f.addFlight(t, 40)
	second := f.addFlight(t, 40, func(fl *models.Flight) { fl.RouteID = twin.ID })
	f.soldTicket(t, first.ID, "1", "100.00", date(2024, 1, 5))
	f.soldTicket(t, second.ID, "1", "150.00", date(2024, 1, 6))

	sales, err := f.reports.SalesByRoute(context.Background(), date(2024, 1, 1), date(2024, 1, 31))

	require.NoError(t, err)
	require.Len(t, sales, 1)
	for _, summary := range sales {
		assert.Equal(t, "250.00", summary.TotalRevenue.StringFixed(2))
		assert.Equal(t, 2, summary.TicketCount)
	}
}

func TestSalesByRoute_EmptyPeriod(t *testing.T) {
	f := newFixture(t)

	sales, err := f.reports.SalesByRoute(context.Background(), date(2024, 1, 1), date(2024, 1, 31))

	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSalesByRoute_StartAfterEnd(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.SalesByRoute(context.Background(), date(2024, 2, 1), date(2024, 1, 31))

	assert.True(t, IsValidation(err))
}

func TestTicketCountsByStatus_ZeroFilled(t *testing.T) {
	f := newFixture(t)

	counts, err := f.reports.TicketCountsByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[models.TicketStatus]int{
		models.TicketStatusHold:      0,
		models.TicketStatusSold:      0,
		models.TicketStatusCancelled: 0,
		models.TicketStatusUsed:      0,
	}, counts)
}

func TestTicketCountsByStatus(t *testing.T) {
	f := newFixture(t)
	flight := f.addFlight(t, 40)
	f.holdSeat(t, flight.ID, "1", "100")
	f.holdSeat(t, flight.ID, "2", "100")
	f.soldTicket(t, flight.ID, "3", "100", testNow)
	cancelled := f.holdSeat(t, flight.ID, "4", "100")
	_, err := f.lifecycle.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	counts, err := f.reports.TicketCountsByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.TicketStatusHold])
	assert.Equal(t, 1, counts[models.TicketStatusSold])
	assert.Equal(t, 1, counts[models.TicketStatusCancelled])
	assert.Equal(t, 0, counts[models.TicketStatusUsed])
}

func TestOccupancy_MatchesAvailability(t *testing.T) {
	f := newFixture(t)
	flight := f.addFlight(t, 8)
	f.holdSeat(t, flight.ID, "1", "100")
	f.soldTicket(t, flight.ID, "2", "100", testNow)
	cancelled := f.holdSeat(t, flight.ID, "3", "100")
	_, err := f.lifecycle.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	occupancy, err := f.reports.Occupancy(context.Background(), flight.ID)
	require.NoError(t, err)
	available, err := f.seats.AvailableSeats(context.Background(), flight.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, occupancy.OccupiedSeats)
	assert.Equal(t, 8, occupancy.TotalSeats)
	assert.InDelta(t, 0.25, occupancy.Ratio, 1e-9)
	assert.InDelta(t, 25.0, occupancy.Percentage, 1e-9)
	assert.Equal(t, occupancy.TotalSeats-occupancy.OccupiedSeats, len(available))
}

func TestOccupancy_UnknownFlight(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.Occupancy(context.Background(), uuid.New())

	assert.True(t, IsNotFound(err))
}
