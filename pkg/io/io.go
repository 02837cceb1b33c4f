package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/loopgrid/pkg/errors"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Format is a topology file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported topology file extension %q (want .toml or .json)", filepath.Ext(path))
}

// Read decodes a topology from r and builds the loop.
// Read does not close r.
func Read(r io.Reader, format Format) (*topology.Loop, error) {
	doc, err := ReadDocument(r, format)
	if err != nil {
		return nil, err
	}
	return doc.Loop()
}

// ReadDocument decodes a topology document from r without building the loop.
func ReadDocument(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return Document{}, errs.New(errs.ErrCodeInvalidFormat, "unknown key %q", keys[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return Document{}, errs.New(errs.ErrCodeInvalidFormat, "unknown topology format %q", format)
	}
	return doc, nil
}

// Decode is Read over a byte slice.
func Decode(data []byte, format Format) (*topology.Loop, error) {
	return Read(bytes.NewReader(data), format)
}

// Load reads the topology file at path.
func Load(path string) (*topology.Loop, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "topology file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	l, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Write encodes l to w.
func Write(l *topology.Loop, w io.Writer, format Format) error {
	doc := FromLoop(l)
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown topology format %q", format)
	}
	return nil
}

// Save writes l to path in the encoding its extension names.
func Save(l *topology.Loop, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(l, &buf, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
