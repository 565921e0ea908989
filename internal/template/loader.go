package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a template document from a YAML file. The
// CLI compiles straight from files; the daemon reads the catalog
// database instead.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a template document from YAML bytes.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing template yaml: %w", err)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
