package capture

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
	_ "github.com/machinech97-sudo/fleetrms/migrations"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewRepository(db)
}

func TestRepository_Messages(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.AddMessage(ctx, "dev-1", "+15550100", "hello", "2026-08-30 11:59:00")
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if _, err := repo.AddMessage(ctx, "dev-1", "+15550101", "world", "2026-08-30 11:59:30"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if _, err := repo.AddMessage(ctx, "dev-2", "+15550102", "elsewhere", "2026-08-30 11:59:45"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	logs, err := repo.MessagesByDevice(ctx, "dev-1")
	if err != nil {
		t.Fatalf("MessagesByDevice() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	// Newest first
	if logs[0].Body != "world" || logs[1].Body != "hello" {
		t.Errorf("order = [%q, %q], want newest first", logs[0].Body, logs[1].Body)
	}
	if logs[1].ReceivedAt != "2026-08-30 11:59:00" {
		t.Errorf("ReceivedAt = %q", logs[1].ReceivedAt)
	}

	all, err := repo.AllMessages(ctx)
	if err != nil {
		t.Fatalf("AllMessages() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	if err := repo.DeleteMessage(ctx, first); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	if err := repo.DeleteMessage(ctx, first); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("repeat DeleteMessage() error = %v, want ErrMessageNotFound", err)
	}
}

func TestRepository_AddMessage_EmptyDeviceID(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.AddMessage(context.Background(), "", "x", "y", "")
	if !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("AddMessage() error = %v, want ErrInvalidDeviceID", err)
	}
}

func TestRepository_Forms(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.AddForm(ctx, "dev-1", "survey", map[string]any{"q1": "yes"}); err != nil {
		t.Fatalf("AddForm() error = %v", err)
	}
	if _, err := repo.AddForm(ctx, "dev-1", "checkin", nil); err != nil {
		t.Fatalf("AddForm() with nil data error = %v", err)
	}

	forms, err := repo.FormsByDevice(ctx, "dev-1")
	if err != nil {
		t.Fatalf("FormsByDevice() error = %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("len(forms) = %d, want 2", len(forms))
	}
	if forms[0].FormType != "checkin" {
		t.Errorf("forms[0].FormType = %q, want newest first", forms[0].FormType)
	}
	if forms[0].FormData == nil || len(forms[0].FormData) != 0 {
		t.Errorf("nil data stored as %v, want empty object", forms[0].FormData)
	}
	if forms[1].FormData["q1"] != "yes" {
		t.Errorf("FormData = %v, want q1 preserved", forms[1].FormData)
	}

	all, err := repo.AllForms(ctx)
	if err != nil {
		t.Fatalf("AllForms() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}
}

func TestRepository_EmptyListsNotNil(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	logs, err := repo.MessagesByDevice(ctx, "ghost")
	if err != nil {
		t.Fatalf("MessagesByDevice() error = %v", err)
	}
	if logs == nil {
		t.Error("MessagesByDevice() = nil, want empty slice")
	}

	forms, err := repo.FormsByDevice(ctx, "ghost")
	if err != nil {
		t.Fatalf("FormsByDevice() error = %v", err)
	}
	if forms == nil {
		t.Error("FormsByDevice() = nil, want empty slice")
	}
}
