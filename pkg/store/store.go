// Package store keeps composed layouts addressable by id.
//
// The HTTP service stores every layout it composes so that clients can
// fetch it again, or fetch a rendering of it, by the id returned from the
// POST. Backends:
//   - memory: In-memory storage for development and tests
//   - file: One JSON file per record, for a single-node deployment
//   - mongo: MongoDB-backed storage for multi-instance deployments
//
// # Usage
//
//	s := store.NewMemoryStore()
//	rec := store.New(layout, hash, store.DefaultTTL)
//	if err := s.Put(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err := s.Get(ctx, rec.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown or expired
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/loopgrid/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist or has expired.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid record id")
)

// DefaultTTL is how long a stored layout is kept.
const DefaultTTL = 7 * 24 * time.Hour

// Record is a stored layout.
type Record struct {
	ID           string       `json:"id" bson:"_id"`
	TopologyHash string       `json:"topology_hash" bson:"topology_hash"`
	Layout       graph.Layout `json:"layout" bson:"layout"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at,omitzero" bson:"expires_at,omitempty"`
}

// IsExpired returns true if the record has expired.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// Store is the interface for layout storage backends.
type Store interface {
	// Get retrieves a record by id. Unknown and expired records return
	// ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, replacing any record with the same id.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records.
	Cleanup(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// New creates a record with a fresh random id.
func New(l graph.Layout, topologyHash string, ttl time.Duration) *Record {
	now := time.Now().UTC()
	rec := &Record{
		ID:           uuid.NewString(),
		TopologyHash: topologyHash,
		Layout:       l,
		CreatedAt:    now,
	}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec
}

// ValidateID checks that id is a UUID, so ids can be used as file names
// and query values without escaping.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
