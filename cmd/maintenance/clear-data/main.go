package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/smarttransit/ticketing-core/internal/config"
	"github.com/smarttransit/ticketing-core/internal/database"
	flag "github.com/spf13/pflag"
)

// Reservation tables only; stops, routes and flights belong to fleet administration
var reservationTables = []string{"tickets", "passengers"}

func main() {
	dbURLFlag := flag.String("database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	confirm := flag.Bool("yes", false, "confirm that all tickets and passengers should be deleted")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := *dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and --database-url was not provided")
	}
	if !*confirm {
		log.Fatal("refusing to clear reservation data without --yes")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Println("Connected to database. Truncating reservation tables...")

	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE tickets, passengers`); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range reservationTables {
		var count int
		if err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", t)); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
