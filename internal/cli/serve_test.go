package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/loopgrid/internal/config"
	"github.com/matzehuels/loopgrid/pkg/observability"
	"github.com/matzehuels/loopgrid/pkg/store"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		c := &CLI{Config: config.Default(), Logger: log.New(&bytes.Buffer{})}
		st, kind, err := c.newStore(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := st.(*store.MemoryStore); !ok {
			t.Errorf("newStore() = %T, want *store.MemoryStore", st)
		}
		if kind != "memory" {
			t.Errorf("kind = %q", kind)
		}
	})

	t.Run("files when a directory is set", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Dir = t.TempDir()
		c := &CLI{Config: cfg, Logger: log.New(&bytes.Buffer{})}
		st, kind, err := c.newStore(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := st.(*store.FileStore); !ok {
			t.Errorf("newStore() = %T, want *store.FileStore", st)
		}
		if !strings.Contains(kind, cfg.Store.Dir) {
			t.Errorf("kind = %q, want the directory", kind)
		}
	})
}

func TestHTTPLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := httpLogHooks{logger: newLogger(&buf, log.InfoLevel)}

	h.OnRequest(context.Background(), "GET", "/healthz")
	if buf.Len() != 0 {
		t.Errorf("OnRequest logged %q", buf.String())
	}

	h.OnResponse(context.Background(), "POST", "/v1/layouts/", 201, 3*time.Millisecond)
	for _, want := range []string{"POST", "/v1/layouts/", "201"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("OnResponse output %q missing %q", buf.String(), want)
		}
	}
}

func TestServeCommandBadAddress(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOOPGRID_CACHE_DISABLED", "true")
	t.Cleanup(observability.Reset)

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"serve", "--addr", "256.0.0.1:bad"})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("serve on an invalid address returned nil")
	}
}
