package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geoweather/internal/api"
	"geoweather/internal/config"
	"geoweather/internal/location"
	"geoweather/internal/services"
	"geoweather/internal/websocket"
	"geoweather/pkg/client"
	"geoweather/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Geo Weather Station Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Metrics and live-update hub
	collector := metrics.NewCollector("geoweather")
	hub := websocket.NewHub(collector, logger)

	// Weather client
	weatherClient := client.NewOpenWeatherClient(
		cfg.WeatherAPI.APIKey,
		cfg.WeatherAPI.BaseURL,
		client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)

	// Station state
	station := services.NewStation(weatherClient, hub, collector, logger)

	// Location tracking
	provider := location.NewSimulatedProvider(location.SimulatedConfig{
		StartLatitude:   cfg.Location.StartLatitude,
		StartLongitude:  cfg.Location.StartLongitude,
		Tick:            cfg.Location.SimTick,
		StepM:           cfg.Location.SimStepM,
		GrantPermission: cfg.Location.PermissionGrant,
	}, logger)

	tracker := location.NewTracker(provider, station, location.SubscriptionConfig{
		Accuracy:     location.AccuracyHigh,
		MinInterval:  cfg.Location.MinInterval,
		MinDistanceM: cfg.Location.MinDistanceM,
	}, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(station, tracker, logger)
	api.SetupRoutes(app, handler, hub, logger)

	// Start tracking. A permission denial is terminal for tracking but the
	// service stays interactive.
	if err := tracker.Start(context.Background()); err != nil {
		if errors.Is(err, location.ErrPermissionDenied) {
			logger.Warn("Location tracking unavailable", zap.Error(err))
		} else {
			logger.Error("Location tracking failed to start", zap.Error(err))
		}
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Release the position subscription before stopping the server
	tracker.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
