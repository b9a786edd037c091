package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestStats holds aggregate counts for a fetched snapshot.
type ManifestStats struct {
	TotalModels int `yaml:"total_models"`
	FreeModels  int `yaml:"free_models"`
	PaidModels  int `yaml:"paid_models"`
}

// Manifest describes a fetched dataset snapshot.
type Manifest struct {
	GeneratedAt   string        `yaml:"generated_at"`
	SourceURL     string        `yaml:"source_url"`
	SchemaVersion string        `yaml:"schema_version"`
	Stats         ManifestStats `yaml:"stats"`
}

const schemaVersion = "1"

// NewManifest builds a manifest for a snapshot fetched from sourceURL.
func NewManifest(sourceURL string, records []Record) *Manifest {
	m := &Manifest{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		SourceURL:     sourceURL,
		SchemaVersion: schemaVersion,
	}
	m.Stats.TotalModels = len(records)
	for i := range records {
		if records[i].Free() {
			m.Stats.FreeModels++
		}
	}
	m.Stats.PaidModels = m.Stats.TotalModels - m.Stats.FreeModels
	return m
}

// WriteManifest writes the manifest YAML next to the dataset.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadManifest reads a manifest YAML from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
