package device

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
	_ "github.com/machinech97-sudo/fleetrms/migrations"
)

func openTestDB(t *testing.T) *database.DB {
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
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRepository_Upsert_CreatesDevice(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Upsert(ctx, CheckIn{
		DeviceID:     "dev-1",
		Name:         strPtr("Front Desk Tablet"),
		OSVersion:    strPtr("14"),
		BatteryLevel: intPtr(80),
	}, "2026-08-30 12:00:00")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("Upsert() created = false, want true for new device")
	}

	d, err := repo.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if d.Name == nil || *d.Name != "Front Desk Tablet" {
		t.Errorf("Name = %v, want Front Desk Tablet", d.Name)
	}
	if d.LastSeen != "2026-08-30 12:00:00" {
		t.Errorf("LastSeen = %q", d.LastSeen)
	}
	if d.CreatedAt != "2026-08-30 12:00:00" {
		t.Errorf("CreatedAt = %q", d.CreatedAt)
	}
}

func TestRepository_Upsert_NeverOverwritesMetadata(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, CheckIn{
		DeviceID:    "dev-1",
		Name:        strPtr("Tablet"),
		OSVersion:   strPtr("13"),
		PhoneNumber: strPtr("+15550100"),
	}, "2026-08-30 12:00:00"); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	// Second check-in reports different metadata; only last_seen moves.
	created, err := repo.Upsert(ctx, CheckIn{
		DeviceID:  "dev-1",
		Name:      strPtr("Renamed"),
		OSVersion: strPtr("14"),
	}, "2026-08-30 12:00:10")
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if created {
		t.Error("Upsert() created = true, want false for existing device")
	}

	d, err := repo.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if d.Name == nil || *d.Name != "Tablet" {
		t.Errorf("Name = %v, want preserved Tablet", d.Name)
	}
	if d.OSVersion == nil || *d.OSVersion != "13" {
		t.Errorf("OSVersion = %v, want preserved 13", d.OSVersion)
	}
	if d.PhoneNumber == nil || *d.PhoneNumber != "+15550100" {
		t.Errorf("PhoneNumber = %v, want preserved +15550100", d.PhoneNumber)
	}
	if d.LastSeen != "2026-08-30 12:00:10" {
		t.Errorf("LastSeen = %q, want refreshed timestamp", d.LastSeen)
	}
	if d.CreatedAt != "2026-08-30 12:00:00" {
		t.Errorf("CreatedAt = %q, want original timestamp", d.CreatedAt)
	}
}

func TestRepository_Upsert_EmptyDeviceID(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.Upsert(context.Background(), CheckIn{}, "2026-08-30 12:00:00")
	if !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("Upsert() error = %v, want ErrInvalidDeviceID", err)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestRepository_List_OrderedByRegistration(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	for i, id := range []string{"dev-c", "dev-a", "dev-b"} {
		ts := "2026-08-30 12:00:0" + string(rune('0'+i))
		if _, err := repo.Upsert(ctx, CheckIn{DeviceID: id}, ts); err != nil {
			t.Fatalf("Upsert(%s) error = %v", id, err)
		}
	}

	devices, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("len(devices) = %d, want 3", len(devices))
	}
	want := []string{"dev-c", "dev-a", "dev-b"}
	for i, d := range devices {
		if d.DeviceID != want[i] {
			t.Errorf("devices[%d] = %s, want %s", i, d.DeviceID, want[i])
		}
	}
}

func TestRepository_DeleteCascade(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, CheckIn{DeviceID: "dev-1"}, "2026-08-30 12:00:00"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Seed dependent rows directly.
	seeds := []string{
		"INSERT INTO commands (device_id, command_type, created_at) VALUES ('dev-1', 'ping', '2026-08-30 12:00:01')",
		"INSERT INTO message_logs (device_id, sender, body, created_at) VALUES ('dev-1', 'x', 'y', '2026-08-30 12:00:01')",
		"INSERT INTO form_submissions (device_id, form_type, created_at) VALUES ('dev-1', 'survey', '2026-08-30 12:00:01')",
	}
	for _, q := range seeds {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	if err := repo.DeleteCascade(ctx, "dev-1"); err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, "dev-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("device still present after delete: %v", err)
	}
	for _, table := range []string{"commands", "message_logs", "form_submissions"} {
		var count int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM "+table+" WHERE device_id = 'dev-1'",
		).Scan(&count); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s rows remaining = %d, want 0", table, count)
		}
	}
}

func TestRepository_DeleteCascade_NotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	err := repo.DeleteCascade(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCascade() error = %v, want ErrNotFound", err)
	}
}
