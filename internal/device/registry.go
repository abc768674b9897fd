package device

import (
	"context"
	"fmt"
	"time"
)

// Logger is a minimal logging interface so the registry doesn't depend
// on a concrete logging implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsWriter receives telemetry from device check-ins.
// Implementations must not block the check-in path.
type MetricsWriter interface {
	WriteCheckIn(deviceID string, batteryLevel *int, at time.Time)
}

// Registry is the domain service for device presence and lifecycle.
//
// Presence is never stored: every read derives Online from last_seen
// against a single captured "now", so one listing is internally
// consistent even when devices sit on either side of the threshold.
type Registry struct {
	repo      *Repository
	threshold time.Duration
	logger    Logger
	metrics   MetricsWriter
	nowFn     func() time.Time
}

// NewRegistry creates a registry with the given presence threshold.
func NewRegistry(repo *Repository, threshold time.Duration) *Registry {
	return &Registry{
		repo:      repo,
		threshold: threshold,
		logger:    noopLogger{},
		nowFn:     time.Now,
	}
}

// SetLogger configures logging for the registry.
func (g *Registry) SetLogger(logger Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// SetMetrics configures a telemetry sink for check-ins.
func (g *Registry) SetMetrics(metrics MetricsWriter) {
	g.metrics = metrics
}

// CheckIn processes a device heartbeat: registers the device with its
// metadata on first contact, refreshes last_seen on every contact.
// Returns the device record as stored after the check-in.
func (g *Registry) CheckIn(ctx context.Context, c CheckIn) (*Device, error) {
	now := g.nowFn().UTC()
	created, err := g.repo.Upsert(ctx, c, now.Format(TimeLayout))
	if err != nil {
		return nil, fmt.Errorf("processing check-in: %w", err)
	}

	if created {
		g.logger.Info("device registered", "device_id", c.DeviceID)
	} else {
		g.logger.Debug("device check-in", "device_id", c.DeviceID)
	}

	if g.metrics != nil {
		g.metrics.WriteCheckIn(c.DeviceID, c.BatteryLevel, now)
	}

	d, err := g.repo.GetByID(ctx, c.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("reading device after check-in: %w", err)
	}
	return d, nil
}

// GetStatus returns a single device with its presence evaluated now.
// Returns ErrNotFound if the device doesn't exist.
func (g *Registry) GetStatus(ctx context.Context, deviceID string) (*Status, error) {
	d, err := g.repo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	now := g.nowFn()
	return &Status{
		Device: *d,
		Online: IsOnline(d.LastSeen, now, g.threshold),
	}, nil
}

// ListStatuses returns all devices with presence evaluated against a
// single instant captured at the start of the call.
func (g *Registry) ListStatuses(ctx context.Context) ([]*Status, error) {
	devices, err := g.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := g.nowFn()
	statuses := make([]*Status, 0, len(devices))
	for _, d := range devices {
		statuses = append(statuses, &Status{
			Device: *d,
			Online: IsOnline(d.LastSeen, now, g.threshold),
		})
	}
	return statuses, nil
}

// Delete removes a device and everything recorded for it.
// Returns ErrNotFound if the device doesn't exist.
func (g *Registry) Delete(ctx context.Context, deviceID string) error {
	if err := g.repo.DeleteCascade(ctx, deviceID); err != nil {
		return err
	}
	g.logger.Info("device deleted", "device_id", deviceID)
	return nil
}

// Threshold returns the configured presence threshold.
func (g *Registry) Threshold() time.Duration {
	return g.threshold
}
