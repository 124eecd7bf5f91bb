package models

// Coordinates is the tracked position. Written by the tracker path only,
// read by everything else.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fixed viewport span around the tracked position.
const (
	RegionLatSpan = 0.0922
	RegionLonSpan = 0.0421
)

// MapRegion is a renderable viewport centered on a coordinate pair.
type MapRegion struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	LatSpan   float64 `json:"latitude_delta"`
	LonSpan   float64 `json:"longitude_delta"`
}

// Region projects the coordinates into a map region with the fixed span.
// Pure projection, no validation.
func (c Coordinates) Region() MapRegion {
	return MapRegion{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		LatSpan:   RegionLatSpan,
		LonSpan:   RegionLonSpan,
	}
}
