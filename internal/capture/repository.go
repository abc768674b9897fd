package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
)

// Sentinel errors for capture operations.
var (
	// ErrMessageNotFound indicates the requested message log doesn't exist.
	ErrMessageNotFound = errors.New("capture: message not found")

	// ErrInvalidDeviceID indicates a missing device ID on an upload.
	ErrInvalidDeviceID = errors.New("capture: invalid device ID")
)

const timeLayout = "2006-01-02 15:04:05"

// Repository persists device-captured message logs and form submissions.
type Repository struct {
	db    *database.DB
	nowFn func() time.Time
}

// NewRepository creates a capture repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db, nowFn: time.Now}
}

// AddMessage stores a reported message and returns its assigned ID.
func (r *Repository) AddMessage(ctx context.Context, deviceID, sender, body, receivedAt string) (int64, error) {
	if deviceID == "" {
		return 0, ErrInvalidDeviceID
	}

	now := r.nowFn().UTC().Format(timeLayout)
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO message_logs (device_id, sender, body, received_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		deviceID, sender, body, receivedAt, now,
	)
	if err != nil {
		return 0, fmt.Errorf("storing message log: %w", err)
	}
	return result.LastInsertId()
}

// MessagesByDevice returns a device's message logs, newest first by
// received time with ID as tiebreak.
func (r *Repository) MessagesByDevice(ctx context.Context, deviceID string) ([]*MessageLog, error) {
	return r.queryMessages(ctx,
		"WHERE device_id = ? ORDER BY received_at DESC, id DESC", deviceID)
}

// AllMessages returns every stored message log, newest first.
func (r *Repository) AllMessages(ctx context.Context) ([]*MessageLog, error) {
	return r.queryMessages(ctx, "ORDER BY received_at DESC, id DESC")
}

// DeleteMessage removes a single message log.
// Returns ErrMessageNotFound for unknown IDs.
func (r *Repository) DeleteMessage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM message_logs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// AddForm stores a form submission and returns its assigned ID.
func (r *Repository) AddForm(ctx context.Context, deviceID, formType string, formData map[string]any) (int64, error) {
	if deviceID == "" {
		return 0, ErrInvalidDeviceID
	}
	if formData == nil {
		formData = map[string]any{}
	}
	payload, err := json.Marshal(formData)
	if err != nil {
		return 0, fmt.Errorf("encoding form data: %w", err)
	}

	now := r.nowFn().UTC().Format(timeLayout)
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO form_submissions (device_id, form_type, form_data, created_at)
		VALUES (?, ?, ?, ?)`,
		deviceID, formType, string(payload), now,
	)
	if err != nil {
		return 0, fmt.Errorf("storing form submission: %w", err)
	}
	return result.LastInsertId()
}

// FormsByDevice returns a device's form submissions, newest first by
// submission time with ID as tiebreak.
func (r *Repository) FormsByDevice(ctx context.Context, deviceID string) ([]*FormSubmission, error) {
	return r.queryForms(ctx,
		"WHERE device_id = ? ORDER BY created_at DESC, id DESC", deviceID)
}

// AllForms returns every stored form submission, newest first.
func (r *Repository) AllForms(ctx context.Context) ([]*FormSubmission, error) {
	return r.queryForms(ctx, "ORDER BY created_at DESC, id DESC")
}

func (r *Repository) queryMessages(ctx context.Context, clause string, args ...any) ([]*MessageLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, device_id, COALESCE(sender, ''), COALESCE(body, ''), COALESCE(received_at, ''), created_at
		FROM message_logs `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying message logs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	logs := []*MessageLog{}
	for rows.Next() {
		var m MessageLog
		if err := rows.Scan(&m.ID, &m.DeviceID, &m.Sender, &m.Body, &m.ReceivedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		logs = append(logs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return logs, nil
}

func (r *Repository) queryForms(ctx context.Context, clause string, args ...any) ([]*FormSubmission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, device_id, COALESCE(form_type, ''), form_data, created_at
		FROM form_submissions `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying form submissions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	forms := []*FormSubmission{}
	for rows.Next() {
		var f FormSubmission
		var rawData string
		if err := rows.Scan(&f.ID, &f.DeviceID, &f.FormType, &rawData, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning form row: %w", err)
		}
		if err := json.Unmarshal([]byte(rawData), &f.FormData); err != nil {
			return nil, fmt.Errorf("decoding data for form %d: %w", f.ID, err)
		}
		forms = append(forms, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating form rows: %w", err)
	}
	return forms, nil
}
