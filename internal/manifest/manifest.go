// Package manifest writes the machine-readable index of a prep run.
// Downstream automation gets one file naming every artifact instead of
// globbing the output directory.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file written beside the artifacts.
const FileName = "run.yaml"

// Manifest describes the artifacts of one prep run.
type Manifest struct {
	Target    string    `yaml:"target"`
	Compiler  string    `yaml:"compiler"`
	FailFast  bool      `yaml:"fail_fast"`
	Source    string    `yaml:"source"`
	FlagsFile string    `yaml:"flags_file"`
	Harness   string    `yaml:"harness"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Write serializes m into dir/run.yaml and returns the written path.
func Write(dir string, m Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Read loads a manifest written by Write.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
