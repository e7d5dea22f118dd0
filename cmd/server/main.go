package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/internal/config"
	"github.com/smarttransit/ticketing-core/internal/database"
	"github.com/smarttransit/ticketing-core/internal/events"
	"github.com/smarttransit/ticketing-core/internal/handlers"
	"github.com/smarttransit/ticketing-core/internal/middleware"
	"github.com/smarttransit/ticketing-core/internal/services"
	"github.com/smarttransit/ticketing-core/pkg/jwt"
	"github.com/smarttransit/ticketing-core/pkg/sms"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit ticketing core")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(migrateCtx, db)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	// Initialize repositories
	ticketRepo := database.NewTicketRepository(db)
	passengerRepo := database.NewPassengerRepository(db)
	flightRepo := database.NewFlightRepository(db)
	reportRepo := database.NewReportRepository(db)

	// Ticket events go through an in-process pub/sub consumed by the audit log and sale confirmations
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, events.NewLogrusAdapter(logger))
	defer pubSub.Close()

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	if err := events.StartAuditLog(eventsCtx, pubSub, logger); err != nil {
		logger.Fatalf("Failed to start ticket audit log: %v", err)
	}
	publisher := events.NewWatermillPublisher(pubSub)

	// Sale confirmations are only logged unless a Dialog key is configured
	var gateway sms.Gateway = sms.NewLogGateway(logger)
	if cfg.SMS.Enabled {
		gateway = sms.NewDialogGateway(sms.DialogConfig{
			APIURL: cfg.SMS.APIURL,
			APIKey: cfg.SMS.APIKey,
			Mask:   cfg.SMS.Mask,
		})
	}
	if err := events.NewTicketNotifier(passengerRepo, flightRepo, gateway, logger).Start(eventsCtx, pubSub); err != nil {
		logger.Fatalf("Failed to start sale confirmations: %v", err)
	}
	logger.Infof("Sale confirmations via %s", gateway.Name())

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	fareCalculator := services.NewFareCalculator()
	seatService := services.NewSeatAllocationService(ticketRepo, flightRepo, passengerRepo, publisher, cfg.Booking.HoldTTL, logger)
	passengerResolver := services.NewPassengerResolverService(passengerRepo, logger)
	lifecycleService := services.NewTicketLifecycleService(ticketRepo, flightRepo, publisher, logger)
	reportService := services.NewSalesReportService(reportRepo, flightRepo, seatService, logger)
	bookingService := services.NewBookingService(fareCalculator, passengerResolver, seatService, logger)
	logger.Info("All services initialized")

	// Initialize handlers
	h := &handlers.Handlers{
		Fares:      handlers.NewFareHandler(fareCalculator, logger),
		Seats:      handlers.NewSeatHandler(seatService, bookingService, reportService, logger),
		Tickets:    handlers.NewTicketHandler(lifecycleService, logger),
		Passengers: handlers.NewPassengerHandler(passengerResolver, logger),
		Reports:    handlers.NewReportHandler(reportService, logger),
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		// cors refuses credentials together with a wildcard origin
		AllowCredentials: !lo.Contains(cfg.CORS.AllowedOrigins, "*"),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	h.Register(v1, middleware.AuthMiddleware(jwtService, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
