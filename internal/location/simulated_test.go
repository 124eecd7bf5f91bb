package location

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSimulatedProviderPermission(t *testing.T) {
	granted := NewSimulatedProvider(SimulatedConfig{GrantPermission: true}, zap.NewNop())
	ok, err := granted.RequestPermission(context.Background())
	if err != nil || !ok {
		t.Errorf("RequestPermission() = (%v, %v), want granted", ok, err)
	}

	denied := NewSimulatedProvider(SimulatedConfig{GrantPermission: false}, zap.NewNop())
	ok, err = denied.RequestPermission(context.Background())
	if err != nil || ok {
		t.Errorf("RequestPermission() = (%v, %v), want denied", ok, err)
	}
}

func TestSimulatedProviderFiltersDeliveries(t *testing.T) {
	provider := NewSimulatedProvider(SimulatedConfig{
		StartLatitude:   57.5389,
		StartLongitude:  25.4257,
		Tick:            5 * time.Millisecond,
		StepM:           0, // stationary: distance threshold never satisfied
		GrantPermission: true,
	}, zap.NewNop())

	var deliveries atomic.Int64
	sub, err := provider.Subscribe(SubscriptionConfig{
		MinInterval:  time.Hour,
		MinDistanceM: 10,
	}, func(Position) {
		deliveries.Add(1)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Release()

	time.Sleep(60 * time.Millisecond)

	// Only the immediate initial delivery: neither threshold is reachable.
	if got := deliveries.Load(); got != 1 {
		t.Errorf("deliveries = %d, want 1", got)
	}
}

func TestSimulatedProviderDeliversOnInterval(t *testing.T) {
	provider := NewSimulatedProvider(SimulatedConfig{
		StartLatitude:   57.5389,
		StartLongitude:  25.4257,
		Tick:            5 * time.Millisecond,
		StepM:           0,
		GrantPermission: true,
	}, zap.NewNop())

	var deliveries atomic.Int64
	sub, err := provider.Subscribe(SubscriptionConfig{
		MinInterval:  time.Millisecond, // interval threshold satisfied every tick
		MinDistanceM: 1000,
	}, func(Position) {
		deliveries.Add(1)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Release()

	time.Sleep(60 * time.Millisecond)

	if got := deliveries.Load(); got < 3 {
		t.Errorf("deliveries = %d, want at least 3", got)
	}
}

func TestSimulatedSubscriptionReleaseIdempotent(t *testing.T) {
	provider := NewSimulatedProvider(SimulatedConfig{
		Tick:            time.Millisecond,
		GrantPermission: true,
	}, zap.NewNop())

	var deliveries atomic.Int64
	sub, err := provider.Subscribe(SubscriptionConfig{
		MinInterval: time.Millisecond,
	}, func(Position) {
		deliveries.Add(1)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sub.Release()
	sub.Release() // must not panic

	// Let any in-flight delivery land before sampling.
	time.Sleep(5 * time.Millisecond)
	settled := deliveries.Load()
	time.Sleep(20 * time.Millisecond)
	if got := deliveries.Load(); got != settled {
		t.Errorf("deliveries continued after release: %d -> %d", settled, got)
	}
}
