package resolve

import (
	"fmt"

	"github.com/nerrad567/lumen-core/internal/template"
)

// Intensity depth table. The numeric depths are contractual: templates
// mined from historical shows were labelled against exactly these
// values, so they are reproduced rather than tuned.
const (
	depthSmooth   = 0.5
	depthDramatic = 0.8
	depthIntense  = 1.0
)

// IntensityDepth maps the closed smooth/dramatic/intense vocabulary to
// its numeric depth. An empty level means smooth.
func IntensityDepth(level template.Intensity) (float64, error) {
	switch level {
	case "", template.IntensitySmooth:
		return depthSmooth, nil
	case template.IntensityDramatic:
		return depthDramatic, nil
	case template.IntensityIntense:
		return depthIntense, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownIntensity, level)
	}
}
