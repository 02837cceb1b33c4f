package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a composed layout.
	LayoutKey(topologyHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of one rendered output format.
	ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a composed layout.
type LayoutKeyOpts struct {
	DropZones bool `json:"drop_zones"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Layout     LayoutKeyOpts `json:"layout"`
	Format     string        `json:"format"`
	Unit       int           `json:"unit"`
	ShowLabels bool          `json:"show_labels"`
	Containers bool          `json:"containers,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(topologyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", topologyHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", topologyHash, opts)
}

// Hash returns the hex SHA-256 digest of data. Topologies, layouts and file
// cache paths are all addressed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the digest of the topology hash and options.
func hashKey(kind, topologyHash string, opts any) string {
	data, _ := json.Marshal([]any{topologyHash, opts})
	return kind + ":" + Hash(data)
}
