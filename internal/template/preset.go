package template

import (
	"time"

	"github.com/nerrad567/lumen-core/internal/curve"
)

// Preset is a named curve definition stored in the catalog: a base
// curve id plus parameter overrides and modifiers. Presets resolve
// through the curve registry; they never carry points of their own.
type Preset struct {
	ID          string           `json:"id" yaml:"id"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Definition  curve.Definition `json:"definition" yaml:"definition"`
	CreatedAt   time.Time        `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
