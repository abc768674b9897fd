package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
)

// Repository handles device persistence in SQLite.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new device repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records a device contact at the given timestamp. If the device
// is new it is inserted with created_at = now and the supplied metadata;
// otherwise only last_seen is refreshed. Metadata from the first
// check-in is authoritative and later check-ins never overwrite it.
//
// Returns true when the check-in created a new device row.
func (r *Repository) Upsert(ctx context.Context, c CheckIn, now string) (bool, error) {
	if c.DeviceID == "" {
		return false, ErrInvalidDeviceID
	}

	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE device_id = ?", c.DeviceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking device existence: %w", err)
	}

	// On conflict only last_seen moves. Metadata stays as first recorded.
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO devices (device_id, name, os_version, phone_number, battery_level, last_seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			last_seen = excluded.last_seen`,
		c.DeviceID, c.Name, c.OSVersion, c.PhoneNumber, c.BatteryLevel, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("upserting device: %w", err)
	}

	return exists == 0, nil
}

// GetByID retrieves a device by its ID.
// Returns ErrNotFound if the device doesn't exist.
func (r *Repository) GetByID(ctx context.Context, deviceID string) (*Device, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT device_id, name, os_version, phone_number, battery_level, last_seen, created_at
		FROM devices
		WHERE device_id = ?`,
		deviceID,
	)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting device %s: %w", deviceID, err)
	}
	return d, nil
}

// List returns all devices ordered by registration time, oldest first.
func (r *Repository) List(ctx context.Context) ([]*Device, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT device_id, name, os_version, phone_number, battery_level, last_seen, created_at
		FROM devices
		ORDER BY created_at ASC, device_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	var devices []*Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}

	return devices, nil
}

// DeleteCascade removes a device together with all of its commands,
// message logs and form submissions in a single transaction.
// Returns ErrNotFound if the device doesn't exist.
//
// Cascading is explicit here rather than via foreign keys: commands may
// be enqueued for devices that never checked in, so the schema carries
// no device_id foreign key.
func (r *Repository) DeleteCascade(ctx context.Context, deviceID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, "DELETE FROM devices WHERE device_id = ?", deviceID)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", deviceID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	for _, table := range []string{"commands", "message_logs", "form_submissions"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE device_id = ?", table), deviceID,
		); err != nil {
			return fmt.Errorf("deleting %s for device %s: %w", table, deviceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing device delete: %w", err)
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDevice(row rowScanner) (*Device, error) {
	var d Device
	err := row.Scan(
		&d.DeviceID,
		&d.Name,
		&d.OSVersion,
		&d.PhoneNumber,
		&d.BatteryLevel,
		&d.LastSeen,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
