package store

import (
	"path/filepath"
	"testing"

	"github.com/chazu/bfk/interp"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLookupMiss(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "cache.db"))

	prog, err := s.Lookup([]byte("+[-]"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if prog != nil {
		t.Errorf("expected a miss, got %d instructions", prog.Len())
	}
}

func TestIndexAndLookup(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "cache.db"))

	source := []byte("+[>,[-]<-].")
	prog, err := interp.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.Index(source, prog); err != nil {
		t.Fatalf("Index: %v", err)
	}

	got, err := s.Lookup(source)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.Len() != prog.Len() {
		t.Errorf("cached program has %d instructions, want %d", got.Len(), prog.Len())
	}
	for a, b := range prog.Jumps {
		if got.Jumps[a] != b {
			t.Errorf("cached jump(%d) = %d, want %d", a, got.Jumps[a], b)
		}
	}

	// A different source must not hit the same entry.
	other, err := s.Lookup([]byte("++."))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if other != nil {
		t.Error("unexpected hit for unindexed source")
	}
}

func TestReindexReplaces(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "cache.db"))

	source := []byte("++.")
	prog, err := interp.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.Index(source, prog); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := s.Index(source, prog); err != nil {
		t.Fatalf("Index (second): %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestPersistenceAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	source := []byte("+[-]")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	prog, err := interp.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := s.Index(source, prog); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openStore(t, path)
	got, err := reopened.Lookup(source)
	if err != nil {
		t.Fatalf("Lookup after reopen: %v", err)
	}
	if got == nil {
		t.Fatal("entry did not survive reopen")
	}
}
