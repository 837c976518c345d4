package projection

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Icosahedron vertices as longitude, latitude in degrees.
var vertexDegrees = [12][2]float64{
	{10.536199, 64.700000},
	{-5.245390, 2.300882},
	{58.157706, 10.447378},
	{122.300000, 39.100000},
	{-143.478490, 50.103201},
	{-67.132330, 23.717925},
	{36.521510, -50.103200},
	{112.867673, -23.717930},
	{174.754610, -2.300882},
	{-121.842290, -10.447350},
	{-57.700000, -39.100000},
	{-169.463800, -64.700000},
}

// Vertex indices of the 20 faces plus the two pseudo-triangles 20 and 21,
// which take the halves of faces 14 and 15 moved across the net.
var faceVertices = [22][3]int{
	{2, 1, 6},
	{1, 0, 2},
	{0, 1, 5},
	{1, 5, 10},
	{1, 6, 10},
	{7, 2, 6},
	{2, 3, 7},
	{3, 0, 2},
	{0, 3, 4},
	{4, 0, 5}, // Quebec
	{5, 4, 9},
	{9, 5, 10},
	{10, 9, 11},
	{11, 6, 10},
	{6, 7, 11}, // left side, right half cut off to 20
	{8, 3, 7},
	{8, 3, 4},
	{8, 4, 9},
	{9, 8, 11},
	{7, 8, 11},
	{11, 6, 7}, // child of 14
	{3, 7, 8},  // child of 15
}

// Face centers in the net, in units of Arc/2 horizontally and Arc·√3/12
// vertically.
var faceCenters = [22][2]float64{
	{-3, 7},
	{-2, 5},
	{-1, 7},
	{2, 5},
	{4, 5},
	{-4, 1},
	{-3, -1},
	{-2, 1},
	{-1, -1},
	{0, 1},
	{1, -1},
	{2, 1},
	{3, -1},
	{4, 1},
	{5, -1},
	{-3, -5},
	{-1, -5},
	{1, -5},
	{2, -7},
	{-4, -7},
	{-5, -5},
	{-2, -7},
}

var faceFlipped = [22]bool{
	true, false, true, false, false,
	true, false, true, false, true, false, true, false, true, false,
	true, true, true, false, false,
	true, false,
}

// faceOnGrid maps the rows and columns of faceAt to faces; -1 is empty.
var faceOnGrid = [3][11]int{
	{-1, -1, 0, 1, 2, -1, -1, 3, -1, 4, -1},
	{-1, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
	{20, 19, 15, 21, 16, -1, 17, 18, -1, -1, -1},
}

// matrix is a row-major 3x3 rotation.
type matrix [9]float64

func (m *matrix) apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: v.X*m[0] + v.Y*m[1] + v.Z*m[2],
		Y: v.X*m[3] + v.Y*m[4] + v.Z*m[5],
		Z: v.X*m[6] + v.Y*m[7] + v.Z*m[8],
	}
}

// zyzRotation composes rotations about Z by a, Y by b and Z by c.
func zyzRotation(a, b, c float64) matrix {
	sinA, cosA := math.Sin(a), math.Cos(a)
	sinB, cosB := math.Sin(b), math.Cos(b)
	sinC, cosC := math.Sin(c), math.Cos(c)

	return matrix{
		cosA*cosB*cosC - sinC*sinA,
		-sinA*cosB*cosC - sinC*cosA,
		cosC * sinB,

		sinC*cosB*cosA + cosC*sinA,
		cosC*cosA - sinC*cosB*sinA,
		sinC * sinB,

		-sinB * cosA,
		sinB * sinA,
		cosB,
	}
}

type face struct {
	centroid r3.Vector
	rotation matrix
	inverse  matrix
	center   r2.Point
	flip     bool
}

// Airocean is Buckminster Fuller's icosahedral projection as unfolded for
// the world layout: the sphere is split over 20 faces and each face is
// mapped onto a planar triangle of the net.
type Airocean struct {
	triangle TriangleTransform
	faces    [22]face
}

// NewAirocean returns the plain airocean projection.
func NewAirocean() *Airocean {
	return newAirocean(analyticTriangle{iterations: newtonIterations})
}

func newAirocean(t TriangleTransform) *Airocean {
	a := &Airocean{triangle: t}

	var verts [12][2]float64
	for i, d := range vertexDegrees {
		verts[i] = [2]float64{d[0] * toRadians, (90 - d[1]) * toRadians}
	}

	for i := range a.faces {
		f := &a.faces[i]
		iso := faceVertices[i]

		p1 := cartesian(verts[iso[0]][0], verts[iso[0]][1])
		p2 := cartesian(verts[iso[1]][0], verts[iso[1]][1])
		p3 := cartesian(verts[iso[2]][0], verts[iso[2]][1])

		xSum := p1.X + p2.X + p3.X
		ySum := p1.Y + p2.Y + p3.Y
		zSum := p1.Z + p2.Z + p3.Z

		mag := math.Sqrt(xSum*xSum + ySum*ySum + zSum*zSum)
		f.centroid = r3.Vector{X: xSum / mag, Y: ySum / mag, Z: zSum / mag}

		cLon := math.Atan2(ySum, xSum)
		cLat := math.Atan2(math.Sqrt(xSum*xSum+ySum*ySum), zSum)

		// bring the first vertex to the reference direction
		vLon, _ := yRotation(verts[iso[0]][0]-cLon, verts[iso[0]][1], -cLat)

		f.rotation = zyzRotation(-cLon, -cLat, math.Pi/2-vLon)
		f.inverse = zyzRotation(vLon-math.Pi/2, cLat, cLon)

		f.center = r2.Point{
			X: faceCenters[i][0] * 0.5 * Arc,
			Y: faceCenters[i][1] * Arc * root3 / 12,
		}
		f.flip = faceFlipped[i]
	}

	return a
}

// cartesian converts a longitude and polar angle to a unit vector.
func cartesian(lon, phi float64) r3.Vector {
	sinPhi := math.Sin(phi)
	return r3.Vector{X: sinPhi * math.Cos(lon), Y: sinPhi * math.Sin(lon), Z: math.Cos(phi)}
}

// yRotation rotates a spherical point about the Y axis and returns its new
// longitude and polar angle.
func yRotation(lon, phi, rot float64) (float64, float64) {
	c := cartesian(lon, phi)

	x := c.Z*math.Sin(rot) + c.X*math.Cos(rot)
	z := c.Z*math.Cos(rot) - c.X*math.Sin(rot)

	mag := math.Sqrt(x*x + c.Y*c.Y + z*z)
	x /= mag
	y := c.Y / mag
	z /= mag

	return math.Atan2(y, x), math.Atan2(math.Sqrt(x*x+y*y), z)
}

// findFace picks the face whose centroid is nearest to v. This is not an
// exact containment test; the inverse relies on its exact behavior.
func (a *Airocean) findFace(v r3.Vector) int {
	minDist := math.Inf(1)
	best := 0

	for i := 0; i < 20; i++ {
		c := a.faces[i].centroid
		dx := c.X - v.X
		dy := c.Y - v.Y
		dz := c.Z - v.Z

		dist := dx*dx + dy*dy + dz*dz
		if dist < minDist {
			if dist < 0.1 {
				return i
			}
			best = i
			minDist = dist
		}
	}

	return best
}

func faceAt(x, y float64) int {
	xp := x / Arc
	yp := y / (Arc * root3)

	var row int
	switch {
	case yp > -0.25 && yp < 0.25:
		row = 1
	case yp > -0.25 && yp <= 0.75:
		row = 0
		yp = 0.5 - yp // move to the middle row and flip
	case yp > -0.25:
		return -1
	case yp >= -0.75:
		row = 2
		yp = -yp - 0.5 // move to the middle row and flip
	default:
		return -1
	}

	yp += 0.25 // origin at vertex 4

	// rotate by 45 degrees
	xr := xp - yp
	yr := xp + yp

	gx := int(math.Floor(xr))
	gy := int(math.Floor(yr))

	col := 2*gx + 6
	if gy != gx {
		col++
	}

	if col < 0 || col >= 11 {
		return -1
	}

	return faceOnGrid[row][col]
}

func (a *Airocean) FromGeo(lon, lat float64) (float64, float64) {
	lat = 90 - lat
	lonRad := lon * toRadians
	latRad := lat * toRadians

	sinPhi := math.Sin(latRad)
	v := r3.Vector{
		X: math.Cos(lonRad) * sinPhi,
		Y: math.Sin(lonRad) * sinPhi,
		Z: math.Cos(latRad),
	}

	idx := a.findFace(v)
	f := &a.faces[idx]

	p := a.triangle.Forward(f.rotation.apply(v))

	if f.flip {
		p.X, p.Y = -p.X, -p.Y
	}

	// faces 14 and 15 are split: the part past the diagonal moves to 20/21
	origX := p.X
	if ((idx == 15 && origX > p.Y*root3) || idx == 14) && origX > 0 {
		p.X = 0.5*origX - 0.5*root3*p.Y
		p.Y = 0.5*root3*origX + 0.5*p.Y
		idx += 6
	}

	c := a.faces[idx].center
	return p.X + c.X, p.Y + c.Y
}

func (a *Airocean) ToGeo(x, y float64) (float64, float64) {
	idx := faceAt(x, y)
	if idx == -1 {
		return outOfBounds()
	}

	f := &a.faces[idx]
	x -= f.center.X
	y -= f.center.Y

	switch {
	case idx == 14 && x > 0,
		idx == 20 && -y*root3 > x,
		idx == 15 && x > 0 && x > y*root3,
		idx == 21 && (x < 0 || -y*root3 > x):
		return outOfBounds()
	}

	if f.flip {
		x, y = -x, -y
	}

	v := f.inverse.apply(a.triangle.Inverse(r2.Point{X: x, Y: y}))

	lon := math.Atan2(v.Y, v.X) / toRadians
	lat := 90 - math.Acos(v.Z)/toRadians

	return lon, lat
}

func (a *Airocean) Bounds() [4]float64 { return geoBounds(a) }

func (a *Airocean) Upright() bool { return geoUpright(a) }

// MetersPerUnit is the earth surface spread evenly over the 20 net triangles.
func (a *Airocean) MetersPerUnit() float64 {
	return math.Sqrt(510100000000000.0 / (20 * root3 * Arc * Arc / 4))
}
