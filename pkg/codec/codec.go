// Package codec encodes and decodes exchange documents (exports, backups)
// in the formats notekeep understands.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an exchange format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats without a codec.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats, canonical first.
func Formats() []Format {
	return []Format{JSON, YAML}
}

// ParseFormat converts a user supplied name ("json", "yml", ...) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers the format from a file extension.
// Files without a known extension are treated as JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return JSON
	}
	return f
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yaml"
	}
	return ".json"
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode reads a single document from r into v.
func Decode(r io.Reader, f Format, v any) error {
	switch f {
	case JSON, "":
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
		return nil
	case YAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("invalid yaml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
