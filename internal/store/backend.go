package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Backend persists the ordered connection-record collection. Writes replace
// the whole collection; there are no partial updates.
type Backend interface {
	Load() ([]core.ConnectionConfig, error)
	Save([]core.ConnectionConfig) error
}

// YAMLBackend stores the collection as a YAML document. A missing file is
// not an error: it reads as an empty collection and is created on the first
// save.
type YAMLBackend struct {
	path string
}

// NewYAMLBackend creates a backend writing to path.
func NewYAMLBackend(path string) *YAMLBackend {
	return &YAMLBackend{path: path}
}

// Load reads the persisted collection.
func (b *YAMLBackend) Load() ([]core.ConnectionConfig, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return []core.ConnectionConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	var records []core.ConnectionConfig
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", b.path, err)
	}
	if records == nil {
		records = []core.ConnectionConfig{}
	}
	return records, nil
}

// Save writes the full collection. The write goes through a temp file and
// rename so readers never observe a partial document.
func (b *YAMLBackend) Save(records []core.ConnectionConfig) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}
