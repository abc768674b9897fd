package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
)

// Repository handles command persistence in SQLite.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new command repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending command and returns its assigned ID.
func (r *Repository) Create(ctx context.Context, deviceID, cmdType string, data map[string]any, now string) (int64, error) {
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("encoding command data: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO commands (device_id, command_type, command_data, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		deviceID, cmdType, string(payload), StatusPending, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating command: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading command ID: %w", err)
	}
	return id, nil
}

// MarkPendingSent atomically transitions every pending command for the
// device to sent and returns them, oldest first. A second caller racing
// this one gets a disjoint (typically empty) set: the UPDATE both
// selects and claims in one statement.
func (r *Repository) MarkPendingSent(ctx context.Context, deviceID string) ([]*Command, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE commands
		SET status = ?
		WHERE device_id = ? AND status = ?
		RETURNING id, device_id, command_type, command_data, status, created_at`,
		StatusSent, deviceID, StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming pending commands: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	commands, err := scanCommands(rows)
	if err != nil {
		return nil, err
	}

	// RETURNING order is unspecified; deliver in enqueue order.
	sort.Slice(commands, func(i, j int) bool { return commands[i].ID < commands[j].ID })
	return commands, nil
}

// MarkExecuted sets a command's status to executed regardless of its
// current status. Returns ErrNotFound for unknown IDs.
func (r *Repository) MarkExecuted(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE commands SET status = ? WHERE id = ?", StatusExecuted, id,
	)
	if err != nil {
		return fmt.Errorf("marking command %d executed: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a command by its ID.
// Returns ErrNotFound if the command doesn't exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Command, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, device_id, command_type, command_data, status, created_at
		FROM commands
		WHERE id = ?`,
		id,
	)

	c, err := scanCommand(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting command %d: %w", id, err)
	}
	return c, nil
}

// ListByDevice returns every command for a device, oldest first.
func (r *Repository) ListByDevice(ctx context.Context, deviceID string) ([]*Command, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, device_id, command_type, command_data, status, created_at
		FROM commands
		WHERE device_id = ?
		ORDER BY id ASC`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing commands for %s: %w", deviceID, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	return scanCommands(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCommand(row rowScanner) (*Command, error) {
	var c Command
	var rawData string
	err := row.Scan(&c.ID, &c.DeviceID, &c.Type, &rawData, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rawData), &c.Data); err != nil {
		return nil, fmt.Errorf("decoding data for command %d: %w", c.ID, err)
	}
	return &c, nil
}

func scanCommands(rows *sql.Rows) ([]*Command, error) {
	var commands []*Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning command row: %w", err)
		}
		commands = append(commands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating command rows: %w", err)
	}
	return commands, nil
}
