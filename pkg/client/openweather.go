package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"geoweather/internal/models"
	"go.uber.org/zap"
)

// PlaceholderAPIKey is the value shipped in sample configuration. A key equal
// to it is treated the same as no key at all.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// ErrMissingAPIKey aborts a fetch before any network call is made.
var ErrMissingAPIKey = errors.New("weather API key is missing or a placeholder")

// ErrMalformedResponse marks a 2xx body without the required temperature block
// or weather description. Treated like an HTTP failure by callers.
var ErrMalformedResponse = errors.New("malformed weather response")

type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Pressure int     `json:"pressure"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	baseClient := NewBaseClient("openweather", config, logger)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// CurrentByCoords fetches metric current conditions for a coordinate pair.
// With an absent or placeholder key it returns ErrMissingAPIKey without
// touching the network.
func (c *OpenWeatherClient) CurrentByCoords(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error) {
	if c.apiKey == "" || c.apiKey == PlaceholderAPIKey {
		return nil, ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&appid=%s&units=metric", c.baseURL, lat, lon, c.apiKey)

	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response openWeatherResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Main == nil || len(response.Weather) == 0 {
		return nil, ErrMalformedResponse
	}

	conditions := &models.CurrentConditions{
		Place:       response.Name,
		Temperature: response.Main.Temp,
		Pressure:    response.Main.Pressure,
		Humidity:    response.Main.Humidity,
		Description: response.Weather[0].Description,
	}

	return conditions, nil
}
