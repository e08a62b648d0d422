package hashcache

import (
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Section 1: disabled cache
// =============================================================================

func TestOpenEmptyPathIsDisabled(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	defer c.Close()

	id := Identity{ProviderName: "gdrive", FileID: "a", Size: 10, ModTime: time.Now()}
	c.Store(id, "deadbeef")
	if _, ok := c.Lookup(id); ok {
		t.Errorf("expected disabled cache to never hit")
	}
}

// =============================================================================
// Section 2: store then lookup within one open session
// =============================================================================

func TestStoreThenLookupSameSession(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()

	id := Identity{ProviderName: "gdrive", FileID: "file-1", Size: 2048, ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.Store(id, "abc123")

	got, ok := c.Lookup(id)
	if !ok {
		t.Fatalf("expected lookup to find stored entry")
	}
	if got != "abc123" {
		t.Errorf("expected abc123, got %s", got)
	}
}

// =============================================================================
// Section 3: entries survive an atomic swap across sessions
// =============================================================================

func TestEntrySurvivesCloseAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	id := Identity{ProviderName: "gdrive", FileID: "file-2", Size: 4096, ModTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}

	c1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	c1.Store(id, "fingerprint-v1")
	if err := c1.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open() error: %v", err)
	}
	defer c2.Close()

	got, ok := c2.Lookup(id)
	if !ok {
		t.Fatalf("expected entry to survive reopen")
	}
	if got != "fingerprint-v1" {
		t.Errorf("expected fingerprint-v1, got %s", got)
	}
}

// =============================================================================
// Section 4: a changed identity is a miss (self-cleaning)
// =============================================================================

func TestChangedIdentityIsMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	original := Identity{ProviderName: "gdrive", FileID: "file-3", Size: 100, ModTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	changed := original
	changed.ModTime = original.ModTime.Add(time.Hour)

	c1, _ := Open(path)
	c1.Store(original, "stale-hash")
	c1.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c2.Close()

	if _, ok := c2.Lookup(changed); ok {
		t.Errorf("expected a modtime change to invalidate the cached entry")
	}
}

// =============================================================================
// Section 5: unset fingerprint is never stored
// =============================================================================

func TestStoreEmptyFingerprintIsNoop(t *testing.T) {
	dir := t.TempDir()
	c, _ := Open(filepath.Join(dir, "cache.db"))
	defer c.Close()

	id := Identity{ProviderName: "gdrive", FileID: "file-4", Size: 1}
	c.Store(id, "")
	if _, ok := c.Lookup(id); ok {
		t.Errorf("expected empty fingerprint to never be stored")
	}
}
