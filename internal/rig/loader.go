package rig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, validates, and normalizes a rig document from a
// YAML file.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig file: %w", err)
	}
	return Parse(data)
}

// Parse parses a rig document from YAML bytes.
func Parse(data []byte) (*Rig, error) {
	var r Rig
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rig yaml: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Normalize()
	return &r, nil
}
