package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoweather/internal/location"
	"geoweather/internal/models"
	"geoweather/internal/services"
	ws "geoweather/internal/websocket"
	"geoweather/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var testCollector = metrics.NewCollector("geoweather_api_test")

type stubWeatherClient struct{}

func (stubWeatherClient) CurrentByCoords(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error) {
	return &models.CurrentConditions{
		Place:       "Valka",
		Temperature: 18.456,
		Pressure:    1012,
		Humidity:    60,
		Description: "clear sky",
	}, nil
}

type stubProvider struct {
	granted bool
}

func (p stubProvider) RequestPermission(ctx context.Context) (bool, error) {
	return p.granted, nil
}

func (p stubProvider) Subscribe(cfg location.SubscriptionConfig, cb func(location.Position)) (location.Subscription, error) {
	return stubSubscription{}, nil
}

type stubSubscription struct{}

func (stubSubscription) Release() {}

func newTestApp(t *testing.T, granted bool) (*fiber.App, *services.Station) {
	t.Helper()

	logger := zap.NewNop()
	hub := ws.NewHub(testCollector, logger)
	station := services.NewStation(stubWeatherClient{}, hub, testCollector, logger)
	tracker := location.NewTracker(stubProvider{granted: granted}, station, location.SubscriptionConfig{
		Accuracy:     location.AccuracyHigh,
		MinInterval:  5 * time.Second,
		MinDistanceM: 10,
	}, logger)

	app := fiber.New()
	handler := NewHandler(station, tracker, logger)
	SetupRoutes(app, handler, hub, logger)

	return app, station
}

func doRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestGetStateDefaults(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doRequest(t, app, "GET", "/api/v1/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snap services.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snap.DialogOpen {
		t.Error("dialog should start closed")
	}
	if snap.Weather != nil {
		t.Error("no weather record should exist before a fetch")
	}
}

func TestGetWeatherWithoutRecord(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doRequest(t, app, "GET", "/api/v1/weather")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDialogOpenAndClose(t *testing.T) {
	app, station := newTestApp(t, true)

	resp := doRequest(t, app, "POST", "/api/v1/dialog/open")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !station.Snapshot().DialogOpen {
		t.Error("dialog should be open")
	}

	resp = doRequest(t, app, "POST", "/api/v1/dialog/close")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if station.Snapshot().DialogOpen {
		t.Error("dialog should be closed")
	}
}

func TestStartTrackingDenied(t *testing.T) {
	app, station := newTestApp(t, false)

	resp := doRequest(t, app, "POST", "/api/v1/tracking/start")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if station.Snapshot().LocationError == "" {
		t.Error("location error should be set after a denial")
	}
}

func TestStartAndStopTracking(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doRequest(t, app, "POST", "/api/v1/tracking/start")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("start status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, app, "POST", "/api/v1/tracking/stop")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("stop status = %d, want 200", resp.StatusCode)
	}
}

func TestRefreshWeatherAccepted(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doRequest(t, app, "POST", "/api/v1/weather/refresh")
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}
}
