package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/treedot/pkg/cache"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if count != 3 {
		t.Errorf("clearDir() = %d, want 3", count)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should survive clearing: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear, want 0", len(entries))
	}
}

func TestClearDirMissing(t *testing.T) {
	count, err := clearDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil || count != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", count, err)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache(false) error: %v", err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("newCache(false) = %T, want *cache.FileCache", store)
	}

	store, _ = c.newCache(true)
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want *cache.NullCache", store)
	}

	disabled := false
	c.config.Cache = &disabled
	store, _ = c.newCache(false)
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("newCache with cache = false in config = %T, want *cache.NullCache", store)
	}
}
