package database

import (
	"context"
	"testing"
	"testing/fstest"
)

func setTestMigrations(t *testing.T, files map[string]string) {
	t.Helper()

	mapFS := fstest.MapFS{}
	for name, sql := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(sql)}
	}

	old := MigrationsFS
	MigrationsFS = mapFS
	t.Cleanup(func() { MigrationsFS = old })
}

func TestDB_Migrate(t *testing.T) {
	setTestMigrations(t, map[string]string{
		"20260101_000000_create_widgets.up.sql": `
			CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		`,
		"20260102_000000_add_widget_index.up.sql": `
			CREATE INDEX idx_widgets_name ON widgets(name);
		`,
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations recorded
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("applied migrations = %d, want 2", count)
	}

	// Schema in place
	if _, err := db.ExecContext(ctx, "INSERT INTO widgets (name) VALUES ('a')"); err != nil {
		t.Errorf("inserting into migrated table: %v", err)
	}
}

func TestDB_Migrate_Idempotent(t *testing.T) {
	setTestMigrations(t, map[string]string{
		"20260101_000000_create_widgets.up.sql": `
			CREATE TABLE widgets (id INTEGER PRIMARY KEY);
		`,
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	// Second run must skip the already-applied migration, not fail on
	// CREATE TABLE.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestDB_Migrate_FailureRollsBack(t *testing.T) {
	setTestMigrations(t, map[string]string{
		"20260101_000000_broken.up.sql": `
			CREATE TABLE ok_table (id INTEGER PRIMARY KEY);
			THIS IS NOT SQL;
		`,
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() with broken SQL should return error")
	}

	// Nothing recorded for the failed migration
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("applied migrations = %d, want 0 after failure", count)
	}
}

func TestDB_MigrationStatus(t *testing.T) {
	setTestMigrations(t, map[string]string{
		"20260101_000000_first.up.sql":  "CREATE TABLE t1 (id INTEGER);",
		"20260102_000000_second.up.sql": "CREATE TABLE t2 (id INTEGER);",
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	status, err := db.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(status) != 2 {
		t.Fatalf("len(status) = %d, want 2", len(status))
	}
	for _, m := range status {
		if !m.Applied {
			t.Errorf("migration %s not marked applied", m.Version)
		}
		if m.AppliedAt == nil {
			t.Errorf("migration %s has nil AppliedAt", m.Version)
		}
	}
	if status[0].Version != "20260101_000000" {
		t.Errorf("status[0].Version = %q, want sorted order", status[0].Version)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantErr     bool
	}{
		{"20260830_120000_initial_schema.up.sql", "20260830_120000", "initial_schema", false},
		{"20260830_120000_add_forms_table.up.sql", "20260830_120000", "add_forms_table", false},
		{"bad.up.sql", "", "", true},
		{"20260830.up.sql", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, err := parseMigrationFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMigrationFilename() error = %v, wantErr %v", err, tt.wantErr)
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}
