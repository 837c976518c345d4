// Package projection converts between geographic coordinates and the flat
// world plane.
//
// A pipeline is a chain of Projection values: the icosahedral base
// (Airocean), its conformal variant, the world layout remapper and a few
// orientation and scale decorators on top. Every stage is immutable once
// built and safe for concurrent use.
package projection

import "math"

// EarthCircumference is the equatorial circumference in meters.
const EarthCircumference = 40075017.0

var earthCircumference = EarthCircumference

// Derived constants are computed in float64 at init instead of being folded
// exactly by the compiler; projected values are compared bit for bit with
// values produced by plain float64 arithmetic.
var (
	pi        = math.Pi
	toRadians = pi / 180
)

// OutOfBounds is the (NaN, NaN) pair returned when a point has no image.
var OutOfBounds = [2]float64{math.NaN(), math.NaN()}

// Projection is the capability shared by every pipeline stage.
type Projection interface {
	// FromGeo projects a longitude/latitude pair in degrees onto the plane.
	FromGeo(lon, lat float64) (x, y float64)

	// ToGeo maps a plane point back to longitude/latitude in degrees.
	// Points without a preimage yield (NaN, NaN).
	ToGeo(x, y float64) (lon, lat float64)

	// Bounds returns [minX, minY, maxX, maxY] of the projected plane.
	Bounds() [4]float64

	// Upright reports whether the north pole image has a Y coordinate
	// smaller than or equal to the south pole image.
	Upright() bool

	// MetersPerUnit approximates how many meters one plane unit spans.
	MetersPerUnit() float64
}

// IsOutOfBounds reports whether (a, b) is the out-of-bounds sentinel.
func IsOutOfBounds(a, b float64) bool {
	return math.IsNaN(a) || math.IsNaN(b)
}

func outOfBounds() (float64, float64) {
	return OutOfBounds[0], OutOfBounds[1]
}

// NormalizeBounds orders each axis of b as min, max. Bounds of a stage with a
// negative scale come back reversed on that axis.
func NormalizeBounds(b [4]float64) [4]float64 {
	if b[0] > b[2] {
		b[0], b[2] = b[2], b[0]
	}
	if b[1] > b[3] {
		b[1], b[3] = b[3], b[1]
	}

	return b
}

// geoBounds derives bounds from the images of the antimeridian and the poles.
func geoBounds(p Projection) [4]float64 {
	minX, _ := p.FromGeo(-180, 0)
	_, minY := p.FromGeo(0, -90)
	maxX, _ := p.FromGeo(180, 0)
	_, maxY := p.FromGeo(0, 90)

	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	return [4]float64{minX, minY, maxX, maxY}
}

func geoUpright(p Projection) bool {
	_, north := p.FromGeo(0, 90)
	_, south := p.FromGeo(0, -90)
	return north <= south
}
