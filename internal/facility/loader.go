package facility

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound    = errors.New("facility document not found")
	ErrEmptySource = errors.New("facility source is empty")
)

// Decode parses a facility document. JSON is a subset of YAML, so the same
// decoder handles .json, .yaml and .yml bodies. Unknown keys are ignored and
// absent keys stay zero-valued.
func Decode(body []byte) (*Data, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptySource
	}

	var data Data
	if err := yaml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode facility document: %w", err)
	}
	return &data, nil
}

// LoadFile reads and decodes the facility document at path.
func LoadFile(path string) (*Data, error) {
	if path == "" {
		return nil, ErrEmptySource
	}

	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Source describes where the facility document lives.
type Source struct {
	Kind        string // "file" or "postgres"
	Path        string
	DatabaseURL string
	Slug        string
}

// Load resolves src into facility data. A postgres source opens a short-lived
// connection that is closed once the document has been read.
func Load(ctx context.Context, src Source) (*Data, error) {
	switch src.Kind {
	case "file", "":
		return LoadFile(src.Path)
	case "postgres":
		store, err := OpenStore(ctx, src.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ctx, src.Slug)
	default:
		return nil, fmt.Errorf("unknown facility source %q", src.Kind)
	}
}
