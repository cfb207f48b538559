package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestSQLiteGet_NotFound(t *testing.T) {
	backend := setupTestDB(t)

	_, err := backend.Get(context.Background(), "todos")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLitePutGet(t *testing.T) {
	backend := setupTestDB(t)
	ctx := context.Background()

	if err := backend.Put(ctx, "todos", []byte(`[{"id":1,"text":"a","completed":false}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := backend.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":1,"text":"a","completed":false}]` {
		t.Errorf("unexpected value %s", got)
	}
}

func TestSQLitePut_Overwrites(t *testing.T) {
	backend := setupTestDB(t)
	ctx := context.Background()

	backend.Put(ctx, "todos", []byte(`[1]`))
	if err := backend.Put(ctx, "todos", []byte(`[]`)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := backend.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("expected [], got %s", got)
	}

	var count int
	if err := backend.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&count); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	backend := setupTestDB(t)
	ctx := context.Background()

	backend.Put(ctx, "home", []byte(`["home"]`))
	backend.Put(ctx, "work", []byte(`["work"]`))

	home, _ := backend.Get(ctx, "home")
	work, _ := backend.Get(ctx, "work")
	if string(home) != `["home"]` || string(work) != `["work"]` {
		t.Errorf("keys leaked into each other: home=%s work=%s", home, work)
	}
}

func TestNewSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todolist.db")
	ctx := context.Background()

	first, err := NewSQLiteBackend(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	if err := first.Put(ctx, "todos", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := NewSQLiteBackend(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to reopen backend: %v", err)
	}
	t.Cleanup(func() { second.Close() })

	got, err := second.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("expected value to persist: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("expected [], got %s", got)
	}

	var migrationCount int
	if err := second.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("failed to count schema migrations: %v", err)
	}
	if migrationCount != 1 {
		t.Fatalf("expected migrations to be applied once, got %d", migrationCount)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestParseStepFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion int
		wantName    string
		wantErr     bool
	}{
		{filename: "001_create_kv.sql", wantVersion: 1, wantName: "create_kv"},
		{filename: "12_add_index_on_key.sql", wantVersion: 12, wantName: "add_index_on_key"},
		{filename: "create.sql", wantErr: true},
		{filename: "abc_create.sql", wantErr: true},
		{filename: "0_zero.sql", wantErr: true},
		{filename: "002_.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, err := parseStepFilename(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if version != tt.wantVersion || name != tt.wantName {
				t.Errorf("expected %d/%s, got %d/%s", tt.wantVersion, tt.wantName, version, name)
			}
		})
	}
}

func TestNewSQLiteBackend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend, err := NewSQLiteBackend(ctx, filepath.Join(t.TempDir(), "todolist.db"))
	if err == nil {
		backend.Close()
		t.Fatal("expected migrations to fail with a cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReadSchemaSteps(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_add_index.sql": {Data: []byte("CREATE INDEX kv_updated ON kv(updated_at);")},
		"migrations/001_create_kv.sql": {Data: []byte("CREATE TABLE kv (key TEXT);")},
		"migrations/README.md":         {Data: []byte("ignored")},
	}

	steps, err := readSchemaSteps(fsys)
	if err != nil {
		t.Fatalf("readSchemaSteps failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].String() != "001_create_kv" || steps[1].String() != "002_add_index" {
		t.Errorf("unexpected order: %s, %s", steps[0], steps[1])
	}

	fsys["migrations/2_other.sql"] = &fstest.MapFile{Data: []byte("SELECT 1;")}
	if _, err := readSchemaSteps(fsys); err == nil {
		t.Error("expected duplicate version error")
	}
}
