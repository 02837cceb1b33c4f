package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/loopgrid/internal/config"
	"github.com/matzehuels/loopgrid/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c := &CLI{Config: config.Default()}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $XDG_CACHE_HOME/loopgrid
	expected := filepath.Join(base, "loopgrid")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/loopgrid"

	c := &CLI{Config: cfg}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/var/cache/loopgrid" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}

func TestCachePathCommand(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	t.Setenv("LOOPGRID_CACHE_DIR", dir)

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache path: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path printed %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	t.Setenv("LOOPGRID_CACHE_DIR", dir)

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("entry %q survived cache clear", key)
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOOPGRID_CACHE_DIR", filepath.Join(t.TempDir(), "missing"))

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear on a missing directory: %v", err)
	}
}

// isolateConfig keeps a developer's loopgrid.toml out of command tests.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, err := os.Stat("loopgrid.toml"); err == nil {
		t.Fatal("temp dir unexpectedly holds a config file")
	}
}
