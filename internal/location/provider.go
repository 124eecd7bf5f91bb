package location

import (
	"context"
	"errors"
	"time"
)

// Accuracy selects the position quality requested from a provider.
type Accuracy int

const (
	AccuracyBalanced Accuracy = iota
	AccuracyHigh
)

// Position is a single observed device position.
type Position struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// SubscriptionConfig controls how a provider filters position deliveries.
// A callback fires when either threshold is satisfied, whichever comes first.
type SubscriptionConfig struct {
	Accuracy     Accuracy
	MinInterval  time.Duration
	MinDistanceM float64
}

// Subscription is an active position stream. Release stops deliveries and is
// safe to call more than once.
type Subscription interface {
	Release()
}

// Provider abstracts the platform location service.
type Provider interface {
	// RequestPermission resolves to whether foreground location access was
	// granted. A denial is terminal for the session.
	RequestPermission(ctx context.Context) (bool, error)

	// Subscribe starts a continuous position stream filtered by cfg. The
	// callback runs to completion before the next delivery.
	Subscribe(cfg SubscriptionConfig, callback func(Position)) (Subscription, error)
}

// ErrPermissionDenied is returned by Tracker.Start when the provider refuses
// foreground location access.
var ErrPermissionDenied = errors.New("location permission denied")

// PermissionDeniedMessage is the fixed banner text shown for a denial.
const PermissionDeniedMessage = "Permission to access location was denied"
