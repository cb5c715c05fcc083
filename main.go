package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"slotify/config"
	"slotify/cron"
	"slotify/database"
	bookingRepoPkg "slotify/database/repository/booking"
	ratingRepoPkg "slotify/database/repository/rating"
	serviceRepoPkg "slotify/database/repository/service"
	slotRepoPkg "slotify/database/repository/slot"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/routes"
	"slotify/services/availability"
	"slotify/services/catalog"
	"slotify/services/rating"
	"slotify/services/reservation"
	"slotify/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	ratingRepo := ratingRepoPkg.NewMongoRatingRepo()

	// services.
	ratingAggregator := &rating.Aggregator{
		Ratings:  ratingRepo,
		Services: serviceRepo,
		Logger:   logger,
	}

	cache := availability.NewCache(
		availability.NewRedisStore(utils.GetCacheClient()),
		slotRepo,
		bookingRepo,
		ratingAggregator,
		config.CacheTTL(),
		logger,
	)
	ratingAggregator.Cache = cache

	reapClient := cron.NewReapClient()
	defer reapClient.Close()

	coordinator := reservation.NewCoordinator(
		slotRepo,
		serviceRepo,
		bookingRepo,
		cache,
		&cron.ReapScheduler{Client: reapClient, Inspector: cron.NewReapInspector()},
		config.PendingTTL(),
		logger,
	)

	catalogService := &catalog.Catalog{
		Services: serviceRepo,
		Slots:    slotRepo,
		Logger:   logger,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Catalog:      handlers.NewCatalogHandler(catalogService, cache, logger),
		Booking:      handlers.NewBookingHandler(coordinator, logger),
		Availability: handlers.NewAvailabilityHandler(cache, logger),
		Rating:       handlers.NewRatingHandler(ratingAggregator, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers and health monitoring.
	cron.InitReapWorker(coordinator)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
