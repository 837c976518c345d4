// Package render draws coverage tiles of the projected world plane.
//
// The tile pyramid covers the square that encloses the projection bounds.
// Tile (0, 0) at every zoom level is the north-west corner; y grows with
// world Z.
package render

import (
	"fmt"
	"math"

	"github.com/woozymasta/terraconv/internal/projection"
)

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

func (t TileCoordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Grid maps tile coordinates to world coordinates.
type Grid struct {
	MinX, MinZ float64
	Size       float64
}

// NewGrid returns the square grid centered on bounds (minX, minZ, maxX, maxZ).
func NewGrid(bounds [4]float64) Grid {
	bounds = projection.NormalizeBounds(bounds)
	w := bounds[2] - bounds[0]
	h := bounds[3] - bounds[1]
	size := math.Max(w, h)

	return Grid{
		MinX: (bounds[0]+bounds[2])/2 - size/2,
		MinZ: (bounds[1]+bounds[3])/2 - size/2,
		Size: size,
	}
}

// Valid reports whether t lies inside the pyramid.
func (g Grid) Valid(t TileCoordinate) bool {
	if t.Z < 0 || t.Z > 30 {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.Y >= 0 && t.X < n && t.Y < n
}

// TileSpan returns the world edge length of a tile at zoom z.
func (g Grid) TileSpan(z int) float64 {
	return g.Size / float64(int(1)<<z)
}

// TileBounds returns the world rectangle (minX, minZ, maxX, maxZ) of t.
func (g Grid) TileBounds(t TileCoordinate) [4]float64 {
	span := g.TileSpan(t.Z)
	x0 := g.MinX + float64(t.X)*span
	z0 := g.MinZ + float64(t.Y)*span

	return [4]float64{x0, z0, x0 + span, z0 + span}
}

// World returns the world position of pixel (px, py) in a tile rendered at
// size pixels. Fractional pixel positions are allowed.
func (g Grid) World(t TileCoordinate, px, py float64, size int) (float64, float64) {
	b := g.TileBounds(t)
	step := (b[2] - b[0]) / float64(size)

	return b[0] + px*step, b[1] + py*step
}
