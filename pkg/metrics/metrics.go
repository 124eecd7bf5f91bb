package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	FetchesTotal          *prometheus.CounterVec
	FetchDuration         prometheus.Histogram
	StaleResultsTotal     prometheus.Counter
	PositionUpdatesTotal  prometheus.Counter
	TrackingFailuresTotal prometheus.Counter
	WebsocketClients      prometheus.Gauge
}

// NewCollector creates a new metrics collector
func NewCollector(namespace string) *Collector {
	return &Collector{
		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_fetches_total",
				Help:      "Total number of weather fetches by result",
			},
			[]string{"result"},
		),

		FetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_fetch_duration_seconds",
				Help:      "Weather fetch duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		StaleResultsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_stale_results_total",
				Help:      "Total number of fetch results discarded as stale",
			},
		),

		PositionUpdatesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "position_updates_total",
				Help:      "Total number of position updates delivered by the tracker",
			},
		),

		TrackingFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tracking_failures_total",
				Help:      "Total number of permission denials and subscription failures",
			},
		),

		WebsocketClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "websocket_clients",
				Help:      "Number of connected WebSocket clients",
			},
		),
	}
}
