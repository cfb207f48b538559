package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"todolist/internal/config"
	"todolist/internal/models"
)

func TestEncode_EmptyListIsArray(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.Task
		wantErr bool
	}{
		{name: "empty array", input: `[]`, want: []models.Task{}},
		{name: "null", input: `null`, want: []models.Task{}},
		{
			name:  "records",
			input: `[{"id":1,"text":"a","completed":false},{"id":2,"text":"b","completed":true}]`,
			want: []models.Task{
				{ID: 1, Text: "a"},
				{ID: 2, Text: "b", Completed: true},
			},
		},
		{name: "invalid json", input: `[{"id":`, wantErr: true},
		{name: "wrong shape", input: `{"id":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTaskStorage_RoundTripPreservesOrder(t *testing.T) {
	s := New(NewMemoryBackend(), "todos")
	ctx := context.Background()

	tasks := []models.Task{
		{ID: 30, Text: "third by id, first by insertion"},
		{ID: 10, Text: "buy milk", Completed: true},
		{ID: 20, Text: "walk dog"},
	}
	if err := s.Save(ctx, tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("expected %+v, got %+v", tasks, got)
	}
}

func TestTaskStorage_LoadMissingKey(t *testing.T) {
	s := New(NewMemoryBackend(), "todos")

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskStorage_LoadCorruptValue(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Put(context.Background(), "todos", []byte("not json"))
	s := New(backend, "todos")

	_, err := s.Load(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("corrupt data should not be reported as missing")
	}
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	value := []byte("[]")
	backend.Put(ctx, "todos", value)
	value[0] = 'x'

	got, _ := backend.Get(ctx, "todos")
	if string(got) != "[]" {
		t.Errorf("stored value changed through caller slice: %s", got)
	}
}

func TestFileBackend_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	ctx := context.Background()

	if _, err := backend.Get(ctx, "todos"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := backend.Put(ctx, "todos", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	if err != nil {
		t.Fatalf("expected todos.json to exist: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("expected [], got %s", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestFileBackend_RejectsPathKeys(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := backend.Put(context.Background(), key, []byte(`[]`)); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Kind: config.StorageMemory, Key: "todos"}},
		{name: "file", cfg: config.StorageConfig{Kind: config.StorageFile, DataDir: filepath.Join(dir, "files"), Key: "todos"}},
		{name: "sqlite", cfg: config.StorageConfig{Kind: config.StorageSQLite, DBPath: filepath.Join(dir, "db", "todolist.db"), Key: "todos"}},
		{name: "unknown", cfg: config.StorageConfig{Kind: "redis", Key: "todos"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer s.Close()

			ctx := context.Background()
			want := []models.Task{{ID: 1, Text: "a"}}
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %+v, got %+v", want, got)
			}
		})
	}
}
