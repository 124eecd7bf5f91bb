package location

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Sink receives the tracker's output: position updates and location error
// state. Implemented by the station service.
type Sink interface {
	UpdatePosition(lat, lon float64)
	SetLocationError(message string)
	ClearLocationError()
	Alert(kind, message string)
}

// Tracker owns the single active position subscription. Start releases any
// previous subscription before opening a new one; Stop releases it exactly
// once.
type Tracker struct {
	provider Provider
	sink     Sink
	cfg      SubscriptionConfig
	logger   *zap.Logger

	mu  sync.Mutex
	sub Subscription
}

func NewTracker(provider Provider, sink Sink, cfg SubscriptionConfig, logger *zap.Logger) *Tracker {
	return &Tracker{
		provider: provider,
		sink:     sink,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start requests permission and opens the position subscription. A denial
// sets the persistent location error and performs no further action. A
// successful start clears any previous location error.
//
// The mutex is held end to end: concurrent starts serialize, so the old
// subscription is always released before a new one can be stored.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sub != nil {
		t.sub.Release()
		t.sub = nil
		t.logger.Info("Released previous location subscription")
	}

	granted, err := t.provider.RequestPermission(ctx)
	if err != nil {
		t.sink.SetLocationError(err.Error())
		t.sink.Alert("tracking_failure", "Location tracking could not be started")
		return fmt.Errorf("requesting location permission: %w", err)
	}
	if !granted {
		t.logger.Warn("Location permission denied")
		t.sink.SetLocationError(PermissionDeniedMessage)
		return ErrPermissionDenied
	}

	sub, err := t.provider.Subscribe(t.cfg, func(pos Position) {
		t.sink.UpdatePosition(pos.Latitude, pos.Longitude)
	})
	if err != nil {
		t.logger.Error("Failed to subscribe to position updates", zap.Error(err))
		t.sink.SetLocationError(err.Error())
		t.sink.Alert("tracking_failure", "Location tracking could not be started")
		return fmt.Errorf("subscribing to position updates: %w", err)
	}

	t.sub = sub

	t.sink.ClearLocationError()
	t.logger.Info("Location tracking started",
		zap.Duration("min_interval", t.cfg.MinInterval),
		zap.Float64("min_distance_m", t.cfg.MinDistanceM))

	return nil
}

// Stop releases the active subscription, if any.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sub == nil {
		return
	}

	t.sub.Release()
	t.sub = nil
	t.logger.Info("Location tracking stopped")
}

// Active reports whether a subscription is currently held.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sub != nil
}
