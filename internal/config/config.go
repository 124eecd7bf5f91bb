package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	WeatherAPI struct {
		APIKey  string
		BaseURL string
		Timeout time.Duration
	}

	Location struct {
		StartLatitude   float64
		StartLongitude  float64
		MinInterval     time.Duration
		MinDistanceM    float64
		PermissionGrant bool
		SimTick         time.Duration
		SimStepM        float64
	}

	CircuitBreaker struct {
		Timeout time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))

	// Weather API configuration
	cfg.WeatherAPI.APIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.WeatherAPI.BaseURL = getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.WeatherAPI.Timeout = parseDuration(getEnv("OPENWEATHER_TIMEOUT", "10s"))

	// Location tracking configuration
	cfg.Location.StartLatitude = parseFloat(getEnv("START_LATITUDE", "57.5389"))
	cfg.Location.StartLongitude = parseFloat(getEnv("START_LONGITUDE", "25.4257"))
	cfg.Location.MinInterval = parseDuration(getEnv("LOCATION_MIN_INTERVAL", "5s"))
	cfg.Location.MinDistanceM = parseFloat(getEnv("LOCATION_MIN_DISTANCE_M", "10"))
	cfg.Location.PermissionGrant = parseBool(getEnv("LOCATION_PERMISSION_GRANT", "true"))
	cfg.Location.SimTick = parseDuration(getEnv("LOCATION_SIM_TICK", "1s"))
	cfg.Location.SimStepM = parseFloat(getEnv("LOCATION_SIM_STEP_M", "4"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}

func parseBool(value string) bool {
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Failed to parse bool", zap.String("value", value), zap.Error(err))
		return false
	}
	return boolValue
}
