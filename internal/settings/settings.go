// Package settings stores fleet-wide key/value configuration such as
// the message forwarding target. Reads of unset keys return an empty
// value rather than an error so clients can render defaults.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
)

// ErrInvalidKey indicates an empty settings key.
var ErrInvalidKey = errors.New("settings: invalid key")

// Well-known settings keys.
const (
	KeyForwardingNumber = "forwarding_number"
	KeyTelegramBotToken = "telegram_bot_token"
	KeyTelegramChatID   = "telegram_chat_id"
)

const timeLayout = "2006-01-02 15:04:05"

// Store persists global settings in SQLite.
type Store struct {
	db    *database.DB
	nowFn func() time.Time
}

// NewStore creates a settings store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, nowFn: time.Now}
}

// Get returns the value for a key, or "" when the key has never been set.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM global_settings WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value for a key, replacing any previous value.
// An empty value is stored as-is; it clears the setting from the
// clients' point of view.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	now := s.nowFn().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO global_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
