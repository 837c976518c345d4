package projection

import "math"

// Transform is embedded by decorators. It delegates everything except
// FromGeo and ToGeo to the wrapped projection.
type Transform struct {
	Input Projection
}

// Bounds returns the bounds of the wrapped projection.
func (t Transform) Bounds() [4]float64 { return t.Input.Bounds() }

// Upright reports the orientation of the wrapped projection.
func (t Transform) Upright() bool { return t.Input.Upright() }

// MetersPerUnit returns the scale hint of the wrapped projection.
func (t Transform) MetersPerUnit() float64 { return t.Input.MetersPerUnit() }

// UprightOrientation mirrors the Y axis.
type UprightOrientation struct {
	Transform
}

// NewUprightOrientation wraps p with a Y flip.
func NewUprightOrientation(p Projection) *UprightOrientation {
	return &UprightOrientation{Transform{Input: p}}
}

func (u *UprightOrientation) FromGeo(lon, lat float64) (float64, float64) {
	x, y := u.Input.FromGeo(lon, lat)
	return x, -y
}

func (u *UprightOrientation) ToGeo(x, y float64) (float64, float64) {
	return u.Input.ToGeo(x, -y)
}

func (u *UprightOrientation) Upright() bool { return !u.Input.Upright() }

func (u *UprightOrientation) Bounds() [4]float64 {
	b := u.Input.Bounds()
	return [4]float64{b[0], -b[3], b[2], -b[1]}
}

// InvertedOrientation swaps X and Y of the forward result. The inverse
// passes through unchanged; the decorator is only used to normalize the
// orientation of a freshly assembled pipeline.
type InvertedOrientation struct {
	Transform
}

// NewInvertedOrientation wraps p with an X/Y swap.
func NewInvertedOrientation(p Projection) *InvertedOrientation {
	return &InvertedOrientation{Transform{Input: p}}
}

func (o *InvertedOrientation) FromGeo(lon, lat float64) (float64, float64) {
	x, y := o.Input.FromGeo(lon, lat)
	return y, x
}

func (o *InvertedOrientation) ToGeo(x, y float64) (float64, float64) {
	return o.Input.ToGeo(x, y)
}

func (o *InvertedOrientation) Bounds() [4]float64 {
	b := o.Input.Bounds()
	return [4]float64{b[1], b[0], b[3], b[2]}
}

// ScaleProjection multiplies plane coordinates by independent factors.
type ScaleProjection struct {
	Transform
	ScaleX float64
	ScaleY float64
}

// NewScaleProjection wraps p, scaling X by sx and Y by sy.
func NewScaleProjection(p Projection, sx, sy float64) *ScaleProjection {
	return &ScaleProjection{Transform: Transform{Input: p}, ScaleX: sx, ScaleY: sy}
}

func (s *ScaleProjection) FromGeo(lon, lat float64) (float64, float64) {
	x, y := s.Input.FromGeo(lon, lat)
	return x * s.ScaleX, y * s.ScaleY
}

func (s *ScaleProjection) ToGeo(x, y float64) (float64, float64) {
	return s.Input.ToGeo(x/s.ScaleX, y/s.ScaleY)
}

func (s *ScaleProjection) Upright() bool {
	if s.ScaleY < 0 {
		return !s.Input.Upright()
	}
	return s.Input.Upright()
}

func (s *ScaleProjection) Bounds() [4]float64 {
	b := s.Input.Bounds()
	return [4]float64{b[0] * s.ScaleX, b[1] * s.ScaleY, b[2] * s.ScaleX, b[3] * s.ScaleY}
}

func (s *ScaleProjection) MetersPerUnit() float64 {
	return s.Input.MetersPerUnit() / math.Sqrt((s.ScaleX*s.ScaleX+s.ScaleY*s.ScaleY)/2)
}
