package projection

import (
	"math"

	"github.com/woozymasta/terraconv/internal/newton"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Triangle geometry of the airocean net.
var (
	root3 = math.Sqrt(3)

	// Arc is the angular length of an icosahedron edge; net triangles
	// have side Arc.
	Arc = 2 * math.Asin(math.Sqrt(5-math.Sqrt(5))/math.Sqrt(10))

	triZ   = math.Sqrt(5+2*math.Sqrt(5)) / math.Sqrt(15)
	triEL  = math.Sqrt(8) / math.Sqrt(5+math.Sqrt(5))
	triEL6 = triEL / 6
	triDVE = math.Sqrt(3+math.Sqrt(5)) / math.Sqrt(5+math.Sqrt(5))
	triR   = -3 * triEL6 / triDVE
)

// newtonIterations is the fixed step count of every Newton solve in the
// pipeline. Projected values depend on it.
const newtonIterations = 5

// TriangleTransform maps a point in a face's local frame onto the planar
// triangle centered at the origin, and back.
type TriangleTransform interface {
	Forward(v r3.Vector) r2.Point
	Inverse(p r2.Point) r3.Vector
}

// analyticTriangle is the closed-form airocean triangle transform.
type analyticTriangle struct {
	iterations int
}

func (analyticTriangle) Forward(v r3.Vector) r2.Point {
	s := triZ / v.Z

	xp := s * v.X
	yp := s * v.Y

	a := math.Atan((2*yp/root3 - triEL6) / triDVE)
	b := math.Atan((xp - yp/root3 - triEL6) / triDVE)
	c := math.Atan((-xp - yp/root3 - triEL6) / triDVE)

	return r2.Point{X: 0.5 * (b - c), Y: (2*a - b - c) / (2 * root3)}
}

// Inverse solves tan(a) + tan(b) + tan(c) = R for tan(c), with a and b
// offset from c by angles fixed by the plane point.
func (t analyticTriangle) Inverse(p r2.Point) r3.Vector {
	tanAOff := math.Tan(root3*p.Y + p.X)
	tanBOff := math.Tan(2 * p.X)

	aNumer := tanAOff*tanAOff + 1
	bNumer := tanBOff*tanBOff + 1

	tangents := func(tanC float64) (tanA, tanB, aDenom, bDenom float64) {
		aDenom = 1 / (1 - tanC*tanAOff)
		bDenom = 1 / (1 - tanC*tanBOff)
		return (tanC + tanAOff) * aDenom, (tanC + tanBOff) * bDenom, aDenom, bDenom
	}

	tanC := newton.Solve(func(tanC float64) (float64, float64) {
		tanA, tanB, aDenom, bDenom := tangents(tanC)
		return tanA + tanB + tanC - triR, aNumer*aDenom*aDenom + bNumer*bDenom*bDenom + 1
	}, 0, t.iterations)

	tanA, tanB, _, _ := tangents(tanC)

	yp := root3 * (triDVE*tanA + triEL6) / 2
	xp := triDVE*tanB + yp/root3 + triEL6

	xpOverZ := xp / triZ
	ypOverZ := yp / triZ

	z := 1 / math.Sqrt(1+xpOverZ*xpOverZ+ypOverZ*ypOverZ)

	return r3.Vector{X: z * xpOverZ, Y: z * ypOverZ, Z: z}
}
