package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported topology file extension %q", filepath.Ext(path))
	}
}

// Decode parses and validates a document. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("toml unmarshal: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown topology format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("topology %q: %w", doc.Name, err)
	}
	return &doc, nil
}

// Encode serializes doc.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("toml marshal: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown topology format %q", format)
	}
}

// LoadFile reads a document, picking the format from the extension.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology: %w", err)
	}
	return Decode(data, format)
}

// SaveFile writes doc to path in the format implied by its extension.
func SaveFile(path string, doc *Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write topology: %w", err)
	}
	return nil
}
