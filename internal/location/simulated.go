package location

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SimulatedProvider is a Provider that walks a position randomly around a
// starting point on a fixed tick. It stands in for a real GPS source and
// applies the same interval/distance delivery filter a platform location
// service would.
type SimulatedProvider struct {
	start   Position
	tick    time.Duration
	stepM   float64
	granted bool
	logger  *zap.Logger
	rng     *rand.Rand
}

type SimulatedConfig struct {
	StartLatitude   float64
	StartLongitude  float64
	Tick            time.Duration
	StepM           float64
	GrantPermission bool
}

func NewSimulatedProvider(cfg SimulatedConfig, logger *zap.Logger) *SimulatedProvider {
	return &SimulatedProvider{
		start: Position{
			Latitude:  cfg.StartLatitude,
			Longitude: cfg.StartLongitude,
		},
		tick:    cfg.Tick,
		stepM:   cfg.StepM,
		granted: cfg.GrantPermission,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *SimulatedProvider) RequestPermission(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	return p.granted, nil
}

func (p *SimulatedProvider) Subscribe(cfg SubscriptionConfig, callback func(Position)) (Subscription, error) {
	sub := &simulatedSubscription{stop: make(chan struct{})}

	go p.run(cfg, callback, sub.stop)

	p.logger.Info("Simulated position subscription opened",
		zap.Float64("start_lat", p.start.Latitude),
		zap.Float64("start_lon", p.start.Longitude),
		zap.Duration("tick", p.tick))

	return sub, nil
}

func (p *SimulatedProvider) run(cfg SubscriptionConfig, callback func(Position), stop <-chan struct{}) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	// First position is delivered immediately.
	current := p.start
	current.Timestamp = time.Now()
	callback(current)

	lastDelivered := current
	lastDeliveredAt := current.Timestamp

	for {
		select {
		case <-ticker.C:
			current = p.step(current)

			elapsed := time.Since(lastDeliveredAt)
			moved := DistanceM(lastDelivered.Latitude, lastDelivered.Longitude,
				current.Latitude, current.Longitude)

			if elapsed < cfg.MinInterval && moved < cfg.MinDistanceM {
				continue
			}

			current.Timestamp = time.Now()
			callback(current)
			lastDelivered = current
			lastDeliveredAt = current.Timestamp

		case <-stop:
			return
		}
	}
}

// step moves the position by stepM meters in a random direction.
func (p *SimulatedProvider) step(pos Position) Position {
	bearing := p.rng.Float64() * 2 * math.Pi

	dLat := (p.stepM * math.Cos(bearing)) / earthRadiusM * 180 / math.Pi
	dLon := (p.stepM * math.Sin(bearing)) / (earthRadiusM * math.Cos(pos.Latitude*math.Pi/180)) * 180 / math.Pi

	return Position{
		Latitude:  pos.Latitude + dLat,
		Longitude: pos.Longitude + dLon,
	}
}

type simulatedSubscription struct {
	once sync.Once
	stop chan struct{}
}

func (s *simulatedSubscription) Release() {
	s.once.Do(func() { close(s.stop) })
}
