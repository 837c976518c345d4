package projection

import (
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// ConformalSide is the number of cells along an edge of the correction grid.
const ConformalSide = 256

var vectorStretch = 1.1473979730192934

// VectorScaleFactor converts raw dataset vectors into net units; it undoes
// the average stretch of the correction field.
var VectorScaleFactor = 1 / vectorStretch

// NewConformalField reshapes the flat correction dataset into the grid
// used by ConformalEstimate.
func NewConformalField(pairs []r2.Point) (*vectorfield.Field, error) {
	return vectorfield.FromPairs(ConformalSide, pairs, VectorScaleFactor)
}

// conformalTriangle corrects the analytic triangle transform so that it
// preserves angles. The field maps corrected positions inside the unit
// triangle to analytic net positions: the forward direction inverts it,
// the inverse direction samples it.
type conformalTriangle struct {
	base       TriangleTransform
	field      *vectorfield.Field
	iterations int
}

func (c conformalTriangle) Forward(v r3.Vector) r2.Point {
	p := c.base.Forward(v)

	x := p.X/Arc + 0.5
	y := p.Y/Arc + root3/6

	x, y = c.field.Invert(p, x, y, c.iterations)

	return r2.Point{X: (x - 0.5) * Arc, Y: (y - root3/6) * Arc}
}

func (c conformalTriangle) Inverse(p r2.Point) r3.Vector {
	x := p.X/Arc + 0.5
	y := p.Y/Arc + root3/6

	vx, vy, _, _, _, _ := c.field.Interpolate(x, y)

	return c.base.Inverse(r2.Point{X: vx, Y: vy})
}

// ConformalEstimate is the airocean projection with the conformal
// correction applied inside every face.
type ConformalEstimate struct {
	*Airocean
	field *vectorfield.Field
}

// NewConformalEstimate builds the corrected projection over field, which is
// usually produced by NewConformalField.
func NewConformalEstimate(field *vectorfield.Field) *ConformalEstimate {
	return &ConformalEstimate{
		Airocean: newAirocean(conformalTriangle{
			base:       analyticTriangle{iterations: newtonIterations},
			field:      field,
			iterations: newtonIterations,
		}),
		field: field,
	}
}

// Field returns the correction grid.
func (c *ConformalEstimate) Field() *vectorfield.Field { return c.field }

func (c *ConformalEstimate) MetersPerUnit() float64 {
	return (earthCircumference / (2 * pi)) / VectorScaleFactor
}
