package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"geoweather/internal/models"
	"geoweather/pkg/client"
	"geoweather/pkg/metrics"
	"go.uber.org/zap"
)

// WeatherClient fetches current conditions for a coordinate pair.
type WeatherClient interface {
	CurrentByCoords(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error)
}

// Notifier pushes messages to connected UI clients. Alerts sent through it are
// the user-visible channel.
type Notifier interface {
	Broadcast(msgType string, data map[string]interface{})
}

// Snapshot is the full renderable UI state.
type Snapshot struct {
	Region        models.MapRegion      `json:"region"`
	Weather       *models.WeatherRecord `json:"weather"`
	DialogOpen    bool                  `json:"dialog_open"`
	LocationError string                `json:"location_error,omitempty"`
}

// Station holds the session state: the tracked coordinates, the latest
// weather record, the dialog flag and the persistent location error. Each
// cell has exactly one producer path; the mutex covers concurrent reads.
type Station struct {
	client   WeatherClient
	notifier Notifier
	metrics  *metrics.Collector
	logger   *zap.Logger

	fetchSeq atomic.Uint64

	mu          sync.RWMutex
	coords      models.Coordinates
	record      *models.WeatherRecord
	locationErr string
	dialogOpen  bool
}

func NewStation(weatherClient WeatherClient, notifier Notifier, collector *metrics.Collector, logger *zap.Logger) *Station {
	return &Station{
		client:   weatherClient,
		notifier: notifier,
		metrics:  collector,
		logger:   logger,
	}
}

// UpdatePosition replaces the tracked coordinates and triggers an automatic
// weather fetch. Called by the tracker on each delivered position.
func (s *Station) UpdatePosition(lat, lon float64) {
	s.mu.Lock()
	s.coords = models.Coordinates{Latitude: lat, Longitude: lon}
	region := s.coords.Region()
	s.mu.Unlock()

	s.metrics.PositionUpdatesTotal.Inc()
	s.notifier.Broadcast("position_update", map[string]interface{}{
		"region": region,
	})

	// Fire-and-forget: position deliveries are already throttled upstream.
	go s.fetchWeather(context.Background(), lat, lon)
}

// RefreshWeather triggers a manual fetch for the current coordinates. It runs
// through the same path as automatic fetches. In-flight fetches are never
// cancelled; staleness is handled by the sequence number.
func (s *Station) RefreshWeather() {
	s.mu.RLock()
	coords := s.coords
	s.mu.RUnlock()

	go s.fetchWeather(context.Background(), coords.Latitude, coords.Longitude)
}

// fetchWeather is the single fetch path for automatic and manual triggers.
// A completed fetch is applied only if its sequence number is still the
// latest issued, so a slow response never overwrites a newer one.
func (s *Station) fetchWeather(ctx context.Context, lat, lon float64) {
	seq := s.fetchSeq.Add(1)
	start := time.Now()

	conditions, err := s.client.CurrentByCoords(ctx, lat, lon)
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, client.ErrMissingAPIKey) {
			s.metrics.FetchesTotal.WithLabelValues("config_error").Inc()
			s.logger.Error("Weather fetch aborted", zap.Error(err))
			s.Alert("config_error", "Weather API key is not configured")
			return
		}

		// Fetch failures are deliberately silent for the user: the previous
		// record stays in place and the failure goes to the log and metrics.
		s.metrics.FetchesTotal.WithLabelValues("error").Inc()
		s.logger.Error("Weather fetch failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return
	}

	record := models.NewWeatherRecord(lat, lon, conditions)

	s.mu.Lock()
	if seq != s.fetchSeq.Load() {
		s.mu.Unlock()
		s.metrics.StaleResultsTotal.Inc()
		s.logger.Debug("Discarding stale weather result",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.fetchSeq.Load()))
		return
	}
	s.record = record
	s.mu.Unlock()

	s.metrics.FetchesTotal.WithLabelValues("success").Inc()
	s.logger.Info("Weather updated",
		zap.String("place", record.Place),
		zap.String("temp_c", record.TemperatureC))

	s.notifier.Broadcast("weather_update", map[string]interface{}{
		"weather": record,
	})
}

// OpenDialog opens the weather dialog and triggers a manual fetch.
func (s *Station) OpenDialog() {
	s.mu.Lock()
	s.dialogOpen = true
	s.mu.Unlock()

	s.RefreshWeather()
}

// CloseDialog closes the weather dialog. No other state changes.
func (s *Station) CloseDialog() {
	s.mu.Lock()
	s.dialogOpen = false
	s.mu.Unlock()
}

// SetLocationError sets the persistent error banner text.
func (s *Station) SetLocationError(message string) {
	s.mu.Lock()
	s.locationErr = message
	s.mu.Unlock()

	s.metrics.TrackingFailuresTotal.Inc()
	s.notifier.Broadcast("state_update", map[string]interface{}{
		"location_error": message,
	})
}

// ClearLocationError removes the banner. Called on a successful tracking
// start.
func (s *Station) ClearLocationError() {
	s.mu.Lock()
	changed := s.locationErr != ""
	s.locationErr = ""
	s.mu.Unlock()

	if changed {
		s.notifier.Broadcast("state_update", map[string]interface{}{
			"location_error": "",
		})
	}
}

// Alert raises a user-visible alert and logs it.
func (s *Station) Alert(kind, message string) {
	s.logger.Warn("Alert raised",
		zap.String("kind", kind),
		zap.String("message", message))

	s.notifier.Broadcast("alert", map[string]interface{}{
		"kind":    kind,
		"message": message,
	})
}

// WeatherRecord returns the latest record, or nil when none has been fetched.
func (s *Station) WeatherRecord() *models.WeatherRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Snapshot returns the full renderable state.
func (s *Station) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Region:        s.coords.Region(),
		Weather:       s.record,
		DialogOpen:    s.dialogOpen,
		LocationError: s.locationErr,
	}
}
