package projection

import (
	"fmt"
	"strings"

	"github.com/woozymasta/terraconv/internal/vectorfield"
)

// DefaultScale makes one plane unit equal one world block.
const DefaultScale = 7318261.522857145

// Orientation selects how the assembled plane is oriented.
type Orientation string

const (
	OrientationNone    Orientation = "none"
	OrientationUpright Orientation = "upright"
	OrientationSwapped Orientation = "swapped"
)

// ParseOrientation accepts none, upright or swapped (case-insensitive).
// An empty string means upright.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrientationUpright, nil
	case OrientationNone, OrientationUpright, OrientationSwapped:
		return o, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// Orient wraps base so that it has the requested orientation.
func Orient(base Projection, o Orientation) Projection {
	if base.Upright() {
		if o == OrientationUpright {
			return base
		}
		base = NewUprightOrientation(base)
	}

	switch o {
	case OrientationSwapped:
		return NewInvertedOrientation(base)
	case OrientationUpright:
		base = NewUprightOrientation(base)
	}

	return base
}

// Options control pipeline assembly.
type Options struct {
	Orientation Orientation
	ScaleX      float64
	ScaleY      float64
}

// DefaultOptions returns the world layout used by the game: upright, one
// unit per block.
func DefaultOptions() Options {
	return Options{Orientation: OrientationUpright, ScaleX: DefaultScale, ScaleY: DefaultScale}
}

// New assembles the full pipeline over the conformal correction field:
// world layout, orientation and scale.
func New(field *vectorfield.Field, opts Options) Projection {
	if opts.Orientation == "" {
		opts.Orientation = OrientationUpright
	}
	if opts.ScaleX == 0 {
		opts.ScaleX = DefaultScale
	}
	if opts.ScaleY == 0 {
		opts.ScaleY = opts.ScaleX
	}

	return NewScaleProjection(Orient(NewModifiedAirocean(field), opts.Orientation), opts.ScaleX, opts.ScaleY)
}
