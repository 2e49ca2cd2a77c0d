package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/pxlassets/pkg/shard"
)

// ManifestFileName is written next to the shards by the compile command
const ManifestFileName = "assets-manifest.yaml"

// Manifest describes one compiler run
type Manifest struct {
	BuildID       string          `yaml:"build_id"`
	CreatedAt     time.Time       `yaml:"created_at"`
	FormatVersion uint8           `yaml:"format_version"`
	Shards        []ManifestShard `yaml:"shards"`
}

// ManifestShard describes one shard file
type ManifestShard struct {
	File      string          `yaml:"file"`
	Entries   int             `yaml:"entries"`
	TotalSize int             `yaml:"total_size"`
	Assets    []ManifestAsset `yaml:"assets"`
}

// ManifestAsset describes one entry
type ManifestAsset struct {
	Key        string `yaml:"key"`
	Type       string `yaml:"type"`
	Size       int    `yaml:"size"`
	Compressed bool   `yaml:"compressed,omitempty"`
}

// NewManifest describes dbs written to files. files and dbs must line up.
func NewManifest(files []string, dbs []*shard.Database) (*Manifest, error) {
	if len(files) != len(dbs) {
		return nil, fmt.Errorf("manifest needs one file per shard: %d files, %d shards", len(files), len(dbs))
	}

	m := &Manifest{
		BuildID:       ksuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		FormatVersion: shard.Version,
	}

	for i, db := range dbs {
		s := ManifestShard{
			File:      filepath.Base(files[i]),
			Entries:   db.Len(),
			TotalSize: db.TotalSize(),
		}
		for _, e := range db.Iter() {
			s.Assets = append(s.Assets, ManifestAsset{
				Key:        e.Key(),
				Type:       e.Type().String(),
				Size:       len(e.Payload()),
				Compressed: e.Compressed(),
			})
		}
		m.Shards = append(m.Shards, s)
	}

	return m, nil
}

// Created returns the time embedded in the build id
func (m *Manifest) Created() (time.Time, error) {
	id, err := ksuid.Parse(m.BuildID)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid build id: %w", err)
	}
	return id.Time(), nil
}

// SaveManifest writes m as YAML
func SaveManifest(m *Manifest, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// LoadManifest reads a manifest written by SaveManifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}
