package api

import (
	"errors"
	"time"

	"geoweather/internal/location"
	"geoweather/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	station *services.Station
	tracker *location.Tracker
	logger  *zap.Logger
}

func NewHandler(station *services.Station, tracker *location.Tracker, logger *zap.Logger) *Handler {
	return &Handler{
		station: station,
		tracker: tracker,
		logger:  logger,
	}
}

// GetState handles GET /api/v1/state
func (h *Handler) GetState(c *fiber.Ctx) error {
	return c.JSON(h.station.Snapshot())
}

// GetWeather handles GET /api/v1/weather
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	record := h.station.WeatherRecord()
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No weather data available yet",
		})
	}
	return c.JSON(record)
}

// RefreshWeather handles POST /api/v1/weather/refresh
func (h *Handler) RefreshWeather(c *fiber.Ctx) error {
	h.logger.Info("Manual weather refresh requested")
	h.station.RefreshWeather()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "refresh triggered",
	})
}

// OpenDialog handles POST /api/v1/dialog/open
func (h *Handler) OpenDialog(c *fiber.Ctx) error {
	h.station.OpenDialog()
	return c.JSON(h.station.Snapshot())
}

// CloseDialog handles POST /api/v1/dialog/close
func (h *Handler) CloseDialog(c *fiber.Ctx) error {
	h.station.CloseDialog()
	return c.JSON(h.station.Snapshot())
}

// StartTracking handles POST /api/v1/tracking/start
func (h *Handler) StartTracking(c *fiber.Ctx) error {
	err := h.tracker.Start(c.Context())
	if err != nil {
		h.logger.Error("Failed to start tracking", zap.Error(err))

		status := fiber.StatusInternalServerError
		if errors.Is(err, location.ErrPermissionDenied) {
			status = fiber.StatusForbidden
		}

		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(h.station.Snapshot())
}

// StopTracking handles POST /api/v1/tracking/stop
func (h *Handler) StopTracking(c *fiber.Ctx) error {
	h.tracker.Stop()
	return c.JSON(fiber.Map{
		"status": "tracking stopped",
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"tracking":  h.tracker.Active(),
		"uptime":    time.Since(startTime).String(),
	})
}

var startTime = time.Now()
