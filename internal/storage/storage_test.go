package storage

import (
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pomodo.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Key-value operations
// ============================================================

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	v, ok, err := s.Get("timer")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected missing key, got %q", v)
	}
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("timer", `{"name":"Deep Work"}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get("timer")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != `{"name":"Deep Work"}` {
		t.Fatalf("unexpected value: %q (present=%v)", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)

	s.Set("modes", "a")
	s.Set("modes", "b")

	v, ok, _ := s.Get("modes")
	if !ok || v != "b" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	s.Set("timer", "x")
	if err := s.Delete("timer"); err != nil {
		t.Fatal(err)
	}
	_, ok, _ := s.Get("timer")
	if ok {
		t.Fatal("key should be gone after delete")
	}
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.Delete("nothing"); err != nil {
		t.Fatalf("delete of missing key should not error: %v", err)
	}
}
