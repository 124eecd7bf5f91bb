package models

import (
	"fmt"
)

// DefaultPlace is used when the weather API returns no place name.
const DefaultPlace = "Unknown Location"

// CurrentConditions is the normalized payload of a successful weather fetch,
// before display formatting.
type CurrentConditions struct {
	Place       string
	Temperature float64
	Pressure    int
	Humidity    int
	Description string
}

// WeatherRecord is the display record shown in the weather dialog. Latitude
// and longitude carry exactly 4 decimal places, temperature exactly 2.
type WeatherRecord struct {
	Place        string `json:"place"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	TemperatureC string `json:"temperature_c"`
	Pressure     int    `json:"pressure"`
	Humidity     int    `json:"humidity"`
	Description  string `json:"description"`
}

// NewWeatherRecord builds a display record from the fetch coordinates and the
// normalized conditions. The place falls back to DefaultPlace when absent.
func NewWeatherRecord(lat, lon float64, cond *CurrentConditions) *WeatherRecord {
	place := cond.Place
	if place == "" {
		place = DefaultPlace
	}

	return &WeatherRecord{
		Place:        place,
		Latitude:     fmt.Sprintf("%.4f", lat),
		Longitude:    fmt.Sprintf("%.4f", lon),
		TemperatureC: fmt.Sprintf("%.2f", cond.Temperature),
		Pressure:     cond.Pressure,
		Humidity:     cond.Humidity,
		Description:  cond.Description,
	}
}
