package command

import (
	"context"
	"fmt"
	"time"
)

// Logger is a minimal logging interface so the dispatcher doesn't
// depend on a concrete logging implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Dispatcher is the domain service for the command lifecycle:
// enqueue, deliver on device poll, confirm on device report.
type Dispatcher struct {
	repo   *Repository
	logger Logger
	nowFn  func() time.Time
}

// NewDispatcher creates a dispatcher over the given repository.
func NewDispatcher(repo *Repository) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		logger: noopLogger{},
		nowFn:  time.Now,
	}
}

// SetLogger configures logging for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Enqueue queues a command for a device and returns it as stored.
//
// The target device is not required to exist: commands may be staged
// for devices expected to check in later.
func (d *Dispatcher) Enqueue(ctx context.Context, deviceID, cmdType string, data map[string]any) (*Command, error) {
	if deviceID == "" || cmdType == "" {
		return nil, ErrInvalidCommand
	}

	now := d.nowFn().UTC().Format(timeLayout)
	id, err := d.repo.Create(ctx, deviceID, cmdType, data, now)
	if err != nil {
		return nil, fmt.Errorf("enqueueing command: %w", err)
	}

	d.logger.Info("command enqueued",
		"command_id", id, "device_id", deviceID, "command_type", cmdType)

	cmd, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading enqueued command: %w", err)
	}
	return cmd, nil
}

// DeliverPending hands every pending command for the device to the
// caller, marking each sent. Delivery is exactly-once per command:
// concurrent polls for the same device receive disjoint sets.
// Returns an empty slice when nothing is queued.
func (d *Dispatcher) DeliverPending(ctx context.Context, deviceID string) ([]*Command, error) {
	commands, err := d.repo.MarkPendingSent(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("delivering commands: %w", err)
	}

	if len(commands) > 0 {
		d.logger.Info("commands delivered",
			"device_id", deviceID, "count", len(commands))
	}
	if commands == nil {
		commands = []*Command{}
	}
	return commands, nil
}

// ConfirmExecuted records that a device finished a command.
//
// The update is unconditional on current status: confirming an
// already-executed command is an accepted no-op, and a pending command
// may jump straight to executed if the device confirms out of band.
// Returns ErrNotFound for unknown command IDs.
func (d *Dispatcher) ConfirmExecuted(ctx context.Context, id int64) error {
	if err := d.repo.MarkExecuted(ctx, id); err != nil {
		return err
	}
	d.logger.Info("command executed", "command_id", id)
	return nil
}

// History returns every command ever queued for a device, oldest first.
func (d *Dispatcher) History(ctx context.Context, deviceID string) ([]*Command, error) {
	commands, err := d.repo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if commands == nil {
		commands = []*Command{}
	}
	return commands, nil
}

// timeLayout mirrors the storage timestamp format used fleet-wide.
const timeLayout = "2006-01-02 15:04:05"
