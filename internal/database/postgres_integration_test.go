//go:build integration

package database_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/database"
	"github.com/smarttransit/ticketing-core/internal/models"
	"github.com/smarttransit/ticketing-core/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
)

func startPostgres(t *testing.T) *database.PostgresDB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		postgres.WithDatabase("reservations"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := database.NewFromSQLX(conn)
	require.NoError(t, database.EnsureSchema(ctx, db))
	// Applying twice must be harmless
	require.NoError(t, database.EnsureSchema(ctx, db))

	return db
}

func seedFlight(t *testing.T, db *database.PostgresDB, totalSeats int) (routeID, flightID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	from, to := uuid.New(), uuid.New()
	routeID, flightID = uuid.New(), uuid.New()

	_, err := db.ExecContext(ctx, `INSERT INTO stops (id, name, city) VALUES ($1, 'Central Bus Stand', 'Colombo'), ($2, 'Goods Shed', 'Kandy')`, from, to)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO routes (id, departure_stop_id, destination_stop_id) VALUES ($1, $2, $3)`, routeID, from, to)
	require.NoError(t, err)

	departure := time.Now().Add(48 * time.Hour)
	_, err = db.ExecContext(ctx, `
		INSERT INTO flights (id, route_id, departure_time, arrival_time, total_seats, price_per_seat, status)
		VALUES ($1, $2, $3, $4, $5, 100.00, 'PLANNED')
	`, flightID, routeID, departure, departure.Add(4*time.Hour), totalSeats)
	require.NoError(t, err)

	return routeID, flightID
}

func TestPostgres_ReservationFlow(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	_, flightID := seedFlight(t, db, 1)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tickets := database.NewTicketRepository(db)
	passengers := database.NewPassengerRepository(db)
	flights := database.NewFlightRepository(db)
	reports := database.NewReportRepository(db)

	resolver := services.NewPassengerResolverService(passengers, logger)
	seats := services.NewSeatAllocationService(tickets, flights, passengers, nil, services.DefaultHoldTTL, logger)
	lifecycle := services.NewTicketLifecycleService(tickets, flights, nil, logger)
	salesReports := services.NewSalesReportService(reports, flights, seats, logger)

	profile := models.PassengerProfile{FullName: "Kamal Silva", PhoneNumber: "0771234567"}

	// Concurrent identity resolution converges on one passenger
	ids := make([]uuid.UUID, 8)
	var g errgroup.Group
	for i := range ids {
		g.Go(func() error {
			id, err := resolver.Resolve(ctx, "Passport", "AA123456", profile)
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	other, err := resolver.Resolve(ctx, "Passport", "BB654321", profile)
	require.NoError(t, err)

	// Concurrent holds on the single seat: exactly one wins
	var held, conflicts atomic.Int32
	var winner atomic.Value
	g = errgroup.Group{}
	for _, passengerID := range []uuid.UUID{ids[0], other} {
		g.Go(func() error {
			ticket, err := seats.HoldSeat(ctx, flightID, "1", passengerID, decimal.RequireFromString("100.00"))
			switch {
			case err == nil:
				held.Add(1)
				winner.Store(ticket.ID)
			case services.IsConflict(err):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), held.Load())
	assert.Equal(t, int32(1), conflicts.Load())

	available, err := seats.AvailableSeats(ctx, flightID)
	require.NoError(t, err)
	assert.Empty(t, available)

	ticketID := winner.Load().(uuid.UUID)
	purchased := time.Now().UTC()
	sold, err := lifecycle.Sell(ctx, ticketID, &purchased)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusSold, sold.Status)
	assert.Nil(t, sold.HoldExpiry)

	_, err = lifecycle.Sell(ctx, ticketID, nil)
	assert.True(t, services.IsInvalidTransition(err))

	sales, err := salesReports.SalesByRoute(ctx, purchased, purchased)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	for _, summary := range sales {
		assert.Equal(t, 1, summary.TicketCount)
		assert.Equal(t, "100.00", summary.TotalRevenue.StringFixed(2))
	}

	cancelled, err := lifecycle.Cancel(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, cancelled.Status)

	// The seat is free again once the live ticket is cancelled
	_, err = seats.HoldSeat(ctx, flightID, "1", other, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	counts, err := salesReports.TicketCountsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.TicketStatusHold])
	assert.Equal(t, 1, counts[models.TicketStatusCancelled])
	assert.Equal(t, 0, counts[models.TicketStatusSold])
	assert.Equal(t, 0, counts[models.TicketStatusUsed])
}
