// Package vectorfield implements a 2D vector field sampled on a triangular grid.
//
// The grid covers the unit equilateral triangle with corners (0, 0), (1, 0)
// and (1/2, √3/2). Node (u, v) with u+v <= side sits at
// ((u + v/2)/side, (v·√3/2)/side). Values between nodes are interpolated
// barycentrically from the three nodes of the enclosing grid cell.
package vectorfield

import (
	"fmt"
	"math"

	"github.com/woozymasta/terraconv/internal/newton"

	"github.com/golang/geo/r2"
)

var root3 = math.Sqrt(3)

// Field is an immutable triangular grid of 2D vectors.
type Field struct {
	x    [][]float64
	y    [][]float64
	side int
}

// Len returns the number of nodes of a grid with the given side length.
func Len(side int) int {
	return (side + 1) * (side + 2) / 2
}

// New builds a field from jagged component arrays indexed [u][v].
// Row u must hold side+1-u values.
func New(x, y [][]float64) (*Field, error) {
	if len(x) < 2 || len(x) != len(y) {
		return nil, fmt.Errorf("vector field: bad row count %d/%d", len(x), len(y))
	}

	side := len(x) - 1
	for u := range x {
		want := side + 1 - u
		if len(x[u]) != want || len(y[u]) != want {
			return nil, fmt.Errorf("vector field: row %d has %d/%d values, want %d", u, len(x[u]), len(y[u]), want)
		}
	}

	return &Field{x: x, y: y, side: side}, nil
}

// FromPairs reshapes a flat sequence of vectors into a field. Pairs are
// enumerated row-major over v = 0..side, u = 0..side-v and multiplied by scale.
func FromPairs(side int, pairs []r2.Point, scale float64) (*Field, error) {
	if side < 1 {
		return nil, fmt.Errorf("vector field: side %d too small", side)
	}
	if len(pairs) != Len(side) {
		return nil, fmt.Errorf("vector field: got %d vectors, want %d for side %d", len(pairs), Len(side), side)
	}

	xs, ys := alloc(side)

	i := 0
	for v := 0; v <= side; v++ {
		for u := 0; u <= side-v; u++ {
			xs[u][v] = pairs[i].X * scale
			ys[u][v] = pairs[i].Y * scale
			i++
		}
	}

	return &Field{x: xs, y: ys, side: side}, nil
}

// Sample builds a field by evaluating fn at every node position.
func Sample(side int, fn func(p r2.Point) r2.Point) *Field {
	xs, ys := alloc(side)

	for u := 0; u <= side; u++ {
		for v := 0; v <= side-u; v++ {
			p := fn(NodePosition(side, u, v))
			xs[u][v] = p.X
			ys[u][v] = p.Y
		}
	}

	return &Field{x: xs, y: ys, side: side}
}

// NodePosition returns the location of node (u, v) inside the unit triangle.
func NodePosition(side, u, v int) r2.Point {
	s := float64(side)
	return r2.Point{
		X: (float64(u) + 0.5*float64(v)) / s,
		Y: 0.5 * root3 * float64(v) / s,
	}
}

func alloc(side int) ([][]float64, [][]float64) {
	xs := make([][]float64, side+1)
	ys := make([][]float64, side+1)
	for u := range xs {
		xs[u] = make([]float64, side+1-u)
		ys[u] = make([]float64, side+1-u)
	}

	return xs, ys
}

// Side returns the number of grid cells along one edge.
func (f *Field) Side() int { return f.side }

// At returns the stored vector at node (u, v).
func (f *Field) At(u, v int) r2.Point {
	return r2.Point{X: f.x[u][v], Y: f.y[u][v]}
}

// Interpolate returns the interpolated vector (vx, vy) at (x, y) and the
// partial derivatives of both components, taken from the enclosing cell.
// Points outside the triangle are extrapolated from the nearest edge cell.
func (f *Field) Interpolate(x, y float64) (vx, vy, dfdx, dfdy, dgdx, dgdy float64) {
	side := float64(f.side)

	x *= side
	y *= side

	// triangle units
	v := 2 * y / root3
	u := x - v*0.5

	u1 := max(0, min(int(u), f.side-1))
	v1 := max(0, min(int(v), f.side-u1-1))

	var (
		x1, y1, x2, y2, x3, y3 float64
		px, py                 float64
		flip                   = 1.0
	)

	if y < -root3*(x-float64(u1)-float64(v1)-1) || v1 == f.side-u1-1 {
		x1, y1 = f.x[u1][v1], f.y[u1][v1]
		x2, y2 = f.x[u1][v1+1], f.y[u1][v1+1]
		x3, y3 = f.x[u1+1][v1], f.y[u1+1][v1]

		py = 0.5 * root3 * float64(v1)
		px = float64(u1+1) + 0.5*float64(v1)
	} else {
		// upper cell, mirrored onto the lower one
		x1, y1 = f.x[u1][v1+1], f.y[u1][v1+1]
		x2, y2 = f.x[u1+1][v1], f.y[u1+1][v1]
		x3, y3 = f.x[u1+1][v1+1], f.y[u1+1][v1+1]

		flip = -1
		y = -y

		py = -(0.5 * root3 * float64(v1+1))
		px = float64(u1+1) + 0.5*float64(v1+1)
	}

	w1 := -(y-py)/root3 - (x - px)
	w2 := 2 * (y - py) / root3
	w3 := 1 - w1 - w2

	vx = x1*w1 + x2*w2 + x3*w3
	vy = y1*w1 + y2*w2 + y3*w3

	dfdx = (x3 - x1) * side
	dfdy = side * flip * (2*x2 - x1 - x3) / root3
	dgdx = (y3 - y1) * side
	dgdy = side * flip * (2*y2 - y1 - y3) / root3

	return vx, vy, dfdx, dfdy, dgdx, dgdy
}

// Invert finds the point whose interpolated vector equals target, starting
// from (x, y) and running a fixed number of Newton steps.
func (f *Field) Invert(target r2.Point, x, y float64, iterations int) (float64, float64) {
	return newton.Solve2(func(x, y float64) (float64, float64, float64, float64, float64, float64) {
		vx, vy, dfdx, dfdy, dgdx, dgdy := f.Interpolate(x, y)
		return vx - target.X, vy - target.Y, dfdx, dfdy, dgdx, dgdy
	}, x, y, iterations)
}

// Residual reports how far the interpolated vector at (x, y) is from target.
func (f *Field) Residual(target r2.Point, x, y float64) float64 {
	vx, vy, _, _, _, _ := f.Interpolate(x, y)
	return math.Hypot(vx-target.X, vy-target.Y)
}
