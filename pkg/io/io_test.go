package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/topology"
	"github.com/matzehuels/loopgrid/pkg/topology/topologytest"
)

const seriesTOML = `
name = "Series"
kind = "plant"
chains = [["s-in", "pump", "s-out"], ["d-in", "coil", "d-out"]]

[supply]
inlet = "s-in"
outlets = ["s-out"]

[demand]
inlets = ["d-in"]
outlet = "d-out"

[[components]]
id = "s-in"
category = "node"

[[components]]
id = "s-out"
category = "node"

[[components]]
id = "d-in"
category = "node"

[[components]]
id = "d-out"
category = "node"

[[components]]
id = "pump"
name = "Pump"
category = "straight"
removable = false

[[components]]
id = "coil"
category = "water-to-air"
zone = "Kitchen"
`

func TestDecodeTOML(t *testing.T) {
	l, err := Decode([]byte(seriesTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if l.Name != "Series" || l.Kind != topology.KindPlant {
		t.Errorf("Name, Kind = %q, %q", l.Name, l.Kind)
	}
	if l.Len() != 6 {
		t.Errorf("Len() = %d, want 6", l.Len())
	}
	if l.IsRemovable("pump") {
		t.Error("pump removable despite removable = false")
	}
	if !l.IsRemovable("coil") || l.IsRemovable("s-in") {
		t.Error("removable defaults not applied")
	}
	if z, _ := l.ZoneName("coil"); z != "Kitchen" {
		t.Errorf("ZoneName(coil) = %q", z)
	}
	if got := l.ComponentName("pump"); got != "Pump" {
		t.Errorf("ComponentName(pump) = %q", got)
	}
	path, err := l.OrderedComponentsBetween("s-in", "s-out")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]topology.Ref{"s-in", "pump", "s-out"}, path); diff != "" {
		t.Errorf("supply path mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   Format
		wantCode errs.Code
	}{
		{"bad toml", "name = ", FormatTOML, errs.ErrCodeInvalidFormat},
		{"unknown toml key", "name = \"x\"\ncolour = \"red\"", FormatTOML, errs.ErrCodeInvalidFormat},
		{"bad json", "{", FormatJSON, errs.ErrCodeInvalidFormat},
		{"unknown json key", `{"colour": "red"}`, FormatJSON, errs.ErrCodeInvalidFormat},
		{"unknown format", "", Format("yaml"), errs.ErrCodeInvalidFormat},
		{"empty id", `{"components": [{"id": "", "category": "node"}]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"id with space", `{"components": [{"id": "a b", "category": "node"}]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"duplicate id", `{"components": [{"id": "a", "category": "node"}, {"id": "a", "category": "node"}]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"unknown ref", `{"components": [{"id": "a", "category": "node"}], "connections": [{"from": "a", "to": "b"}]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"bad chain", `{"components": [{"id": "a", "category": "node"}], "chains": [["a", "a"]]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"no sides", `{"components": [{"id": "a", "category": "node"}]}`, FormatJSON, errs.ErrCodeInvalidTopology},
		{"bad kind", `{"kind": "steam", "components": []}`, FormatJSON, errs.ErrCodeInvalidTopology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatJSON} {
		for _, fixture := range []func() *topology.Loop{topologytest.ChilledWater, topologytest.VAV, topologytest.DualDuct} {
			want := fixture()
			t.Run(string(format)+"/"+want.Name, func(t *testing.T) {
				var buf bytes.Buffer
				if err := Write(want, &buf, format); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
				got, err := Read(&buf, format)
				if err != nil {
					t.Fatalf("Read() error = %v", err)
				}
				wantHash, _ := want.Hash()
				gotHash, _ := got.Hash()
				if wantHash != gotHash {
					a, _ := want.Canonical()
					b, _ := got.Canonical()
					t.Errorf("round trip changed the loop:\nwant %s\ngot  %s", a, b)
				}
			})
		}
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	want := topologytest.VAV()

	for _, name := range []string{"vav.toml", "vav.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(want, path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(want.Components(), got.Components()); diff != "" {
				t.Errorf("components mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("name = "), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode errs.Code
	}{
		{"empty path", "", errs.ErrCodeInvalidPath},
		{"extension", filepath.Join(dir, "loop.yaml"), errs.ErrCodeInvalidFormat},
		{"missing", filepath.Join(dir, "missing.toml"), errs.ErrCodeFileNotFound},
		{"malformed", bad, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("Load(%q) error = %v, want code %s", tt.path, err, tt.wantCode)
			}
		})
	}
}

func TestLoadExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "topologies", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example topologies")
	}
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			if _, err := Load(p); err != nil {
				t.Errorf("Load() error = %v", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"loop.toml":     FormatTOML,
		"dir/LOOP.TOML": FormatTOML,
		"loop.json":     FormatJSON,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("loop"); err == nil || !strings.Contains(err.Error(), "extension") {
		t.Errorf("FormatFromPath(loop) error = %v", err)
	}
}
