package projection

import (
	"math"

	"github.com/woozymasta/terraconv/internal/vectorfield"
)

// Reference points of the seam between Eurasia and the Americas, in
// conformal net units.
const (
	beringX = -0.3420420960118339
	beringY = -0.322211064085279
	arcticY = -0.2

	aleutianY  = -0.5000446805492526
	aleutianXL = -0.5149231279757507
	aleutianXR = -0.45
)

var (
	theta    = -150 * toRadians
	sinTheta = math.Sin(theta)
	cosTheta = math.Cos(theta)

	arcticM   = (arcticY - root3*Arc/4) / (beringX - (-0.5 * Arc))
	arcticB   = arcticY - arcticM*beringX
	aleutianM = (beringY - aleutianY) / (beringX - aleutianXR)
	aleutianB = beringY - aleutianM*beringX
)

// ModifiedAirocean rearranges the conformal net into the world layout:
// Eurasia is cut along the Bering strait, moved next to the Americas and
// rotated by -150 degrees, then the axes are swapped.
type ModifiedAirocean struct {
	Transform
	conformal *ConformalEstimate
}

// NewModifiedAirocean builds the world layout over the conformal projection
// defined by field.
func NewModifiedAirocean(field *vectorfield.Field) *ModifiedAirocean {
	c := NewConformalEstimate(field)
	return &ModifiedAirocean{Transform: Transform{Input: c}, conformal: c}
}

// isEurasianPart tells on which side of the seam a conformal net point lies.
func isEurasianPart(x, y float64) bool {
	if x > 0 {
		return false
	}
	if x < -0.5*Arc {
		return true
	}

	if y > root3*Arc/4 { // above the arctic ocean
		return x < 0
	}

	if y < aleutianY { // below the bering sea
		return y < (aleutianY+aleutianXL)-x
	}

	if y > beringY { // across the arctic ocean
		if y < arcticY { // in the strait
			return x < beringX
		}
		return y < arcticM*x+arcticB
	}

	return y > aleutianM*x+aleutianB
}

func (m *ModifiedAirocean) FromGeo(lon, lat float64) (float64, float64) {
	x, y := m.conformal.FromGeo(lon, lat)

	easia := isEurasianPart(x, y)

	y -= 0.75 * Arc * root3

	if easia {
		x += Arc

		t := x
		x = cosTheta*x - sinTheta*y
		y = sinTheta*t + cosTheta*y
	} else {
		x -= Arc
	}

	return y, -x
}

func (m *ModifiedAirocean) ToGeo(x, y float64) (float64, float64) {
	var easia bool
	switch {
	case y < 0:
		easia = x > 0
	case y > Arc/2:
		easia = x > -root3*Arc/2
	default:
		easia = y*-root3 < x
	}

	x, y = -y, x

	if easia {
		t := x
		x = cosTheta*x + sinTheta*y
		y = cosTheta*y - sinTheta*t
		x -= Arc
	} else {
		x += Arc
	}

	y += 0.75 * Arc * root3

	// the hemisphere guess must hold for the recovered point
	if easia != isEurasianPart(x, y) {
		return outOfBounds()
	}

	return m.conformal.ToGeo(x, y)
}

func (m *ModifiedAirocean) Bounds() [4]float64 {
	return [4]float64{-1.5 * Arc * root3, -1.5 * Arc, 3 * Arc, root3 * Arc}
}

func (m *ModifiedAirocean) Upright() bool { return geoUpright(m) }
