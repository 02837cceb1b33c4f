package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		Version: graph.FormatVersion,
		Name:    "Heating",
		Width:   4,
		Height:  5,
		Cells: []graph.Cell{
			{Path: "0", Kind: graph.KindSystem, Width: 4, Height: 5},
		},
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := New(sampleLayout(), "abc123", time.Hour)
			if err := s.Put(ctx, rec); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != rec.ID || got.TopologyHash != "abc123" {
				t.Errorf("Get() = %+v, want id %s", got, rec.ID)
			}
			if got.Layout.Name != "Heating" || len(got.Layout.Cells) != 1 {
				t.Errorf("Layout = %+v", got.Layout)
			}

			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Errorf("Delete() of missing record error = %v", err)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "nope", "../../etc/passwd", New(sampleLayout(), "", 0).ID} {
				if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
					t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
				}
			}
		})
	}
}

func TestStoreRejectsInvalidID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := New(sampleLayout(), "", 0)
			rec.ID = "../escape"
			if err := s.Put(ctx, rec); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Put() error = %v, want ErrInvalidID", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			expired := New(sampleLayout(), "", time.Hour)
			expired.ExpiresAt = time.Now().Add(-time.Minute)
			live := New(sampleLayout(), "", time.Hour)
			forever := New(sampleLayout(), "", 0)

			for _, rec := range []*Record{expired, live, forever} {
				if err := s.Put(ctx, rec); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}
			if _, err := s.Get(ctx, expired.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
			}
			if err := s.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup() error = %v", err)
			}
			for _, rec := range []*Record{live, forever} {
				if _, err := s.Get(ctx, rec.ID); err != nil {
					t.Errorf("Get(%s) after cleanup error = %v", rec.ID, err)
				}
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := New(sampleLayout(), "", time.Hour)
	rec.ExpiresAt = time.Now().Add(-time.Second)
	_ = s.Put(ctx, rec)
	_ = s.Put(ctx, New(sampleLayout(), "", 0))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	_ = s.Cleanup(ctx)
	if s.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", s.Len())
	}
}

func TestFileStoreCleanupRemovesFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	rec := New(sampleLayout(), "", time.Hour)
	rec.ExpiresAt = time.Now().Add(-time.Second)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := s.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "notes.txt" {
		t.Errorf("entries after cleanup = %v, want only notes.txt", entries)
	}
}

func TestNew(t *testing.T) {
	a := New(sampleLayout(), "h", time.Hour)
	b := New(sampleLayout(), "h", time.Hour)
	if a.ID == b.ID {
		t.Error("New() returned duplicate ids")
	}
	if err := ValidateID(a.ID); err != nil {
		t.Errorf("ValidateID(%q) error = %v", a.ID, err)
	}
	if a.CreatedAt.IsZero() || !a.ExpiresAt.After(a.CreatedAt) {
		t.Errorf("timestamps = %v / %v", a.CreatedAt, a.ExpiresAt)
	}
	if c := New(sampleLayout(), "", 0); !c.ExpiresAt.IsZero() || c.IsExpired() {
		t.Errorf("zero ttl record expires at %v", c.ExpiresAt)
	}
}
