package curve

import "fmt"

// Native shape path. Some fixture firmware runs waveforms on the device
// itself; for those channels the compiler emits a shape descriptor rather
// than a sampled point array. The vocabulary is closed: it mirrors what
// the device generation understands, and an unknown name is a
// configuration error, never a fallback.

// NativeShape is a waveform type understood by fixture firmware.
type NativeShape string

const (
	NativeSine     NativeShape = "sine"
	NativeCosine   NativeShape = "cosine"
	NativeSquare   NativeShape = "square"
	NativeSawtooth NativeShape = "sawtooth"
	NativeTriangle NativeShape = "triangle"
	NativeStep     NativeShape = "step"
	NativeRamp     NativeShape = "ramp"
)

// nativeShapes is the closed device vocabulary.
var nativeShapes = map[NativeShape]bool{
	NativeSine:     true,
	NativeCosine:   true,
	NativeSquare:   true,
	NativeSawtooth: true,
	NativeTriangle: true,
	NativeStep:     true,
	NativeRamp:     true,
}

// ShapeDescriptor is the four-parameter native waveform description sent
// to the device in place of a point array. All four parameters are
// normalized to [0,1] and interpreted by firmware.
type ShapeDescriptor struct {
	Type   NativeShape `json:"type"`
	Speed  float64     `json:"speed"`  // waveform rate
	Size   float64     `json:"size"`   // amplitude
	Phase  float64     `json:"phase"`  // start offset within the waveform
	Offset float64     `json:"offset"` // vertical centre
}

// ResolveNative validates name against the device vocabulary and builds
// its descriptor from params.
// Params: speed (default 0.5), size (default 1), phase (default 0),
// offset (default 0.5). All clamped to [0,1].
func ResolveNative(name string, p Params) (ShapeDescriptor, error) {
	shape := NativeShape(name)
	if !nativeShapes[shape] {
		return ShapeDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownNativeShape, name)
	}
	return ShapeDescriptor{
		Type:   shape,
		Speed:  Clamp01(p.get("speed", 0.5)),
		Size:   Clamp01(p.get("size", 1)),
		Phase:  Clamp01(p.get("phase", 0)),
		Offset: Clamp01(p.get("offset", 0.5)),
	}, nil
}
