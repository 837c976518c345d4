package projection

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

// angleDelta is the distance between two longitudes, treating -180 and 180
// as the same meridian.
func angleDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

func unitVector(lon, lat float64) r3.Vector {
	return cartesian(lon*toRadians, (90-lat)*toRadians)
}

func TestAiroceanFromGeoKnown(t *testing.T) {
	a := NewAirocean()

	tests := []struct {
		lon, lat float64
		x, y     float64
	}{
		{20, 10, -1.2911595045091384, 1.0171819190965303},
		{80, -5, -1.8997183897091376, 0.07950911447467648},
		{2.350987, 48.856667, -0.6911431036110889, 0.7320006258003655},
		{-74.005974, 40.714268, 0.29823109757661304, 0.28458659163018396},
		{0, 90, -0.44074198176145607, 0.04910467909344782},
		{0, -90, 2.327129814907268, -0.049104683227556484},
	}

	for _, tt := range tests {
		x, y := a.FromGeo(tt.lon, tt.lat)
		assert.InDelta(t, tt.x, x, 1e-12, "x of (%v, %v)", tt.lon, tt.lat)
		assert.InDelta(t, tt.y, y, 1e-12, "y of (%v, %v)", tt.lon, tt.lat)
	}
}

func TestAiroceanOrientation(t *testing.T) {
	a := NewAirocean()

	assert.False(t, a.Upright())

	b := a.Bounds()
	assert.LessOrEqual(t, b[0], b[2])
	assert.LessOrEqual(t, b[1], b[3])
}

func TestAiroceanRoundTrip(t *testing.T) {
	a := NewAirocean()

	for lat := -85.0; lat <= 85; lat += 2.5 {
		for lon := -180.0; lon < 180; lon += 2.5 {
			gotLon, gotLat := a.ToGeo(a.FromGeo(lon, lat))
			if IsOutOfBounds(gotLon, gotLat) {
				t.Errorf("(%v, %v) has no inverse", lon, lat)
				continue
			}
			assert.InDelta(t, lat, gotLat, 1e-5, "lat of (%v, %v)", lon, lat)
			assert.InDelta(t, 0, angleDelta(lon, gotLon), 1e-5, "lon of (%v, %v)", lon, lat)
		}
	}
}

// Five Newton steps already sit on the converged solution; the remaining
// round trip error of a few 1e-6 degrees comes from the analytic inverse.
func TestAiroceanNewtonConvergence(t *testing.T) {
	fixed := NewAirocean()
	long := newAirocean(analyticTriangle{iterations: 50})

	worst := 0.0
	for lat := -85.0; lat <= 85; lat += 2.5 {
		for lon := -180.0; lon < 180; lon += 2.5 {
			x, y := fixed.FromGeo(lon, lat)
			lon5, lat5 := fixed.ToGeo(x, y)
			lon50, lat50 := long.ToGeo(x, y)

			d := math.Max(math.Abs(lat5-lat50), angleDelta(lon5, lon50))
			worst = math.Max(worst, d)
		}
	}

	t.Logf("largest difference between 5 and 50 Newton steps: %g degrees", worst)
	assert.Less(t, worst, 1e-8)
}

func TestFaceClassifierAgreesWithForward(t *testing.T) {
	a := NewAirocean()

	for lat := -89.0; lat <= 89; lat++ {
		for lon := -179.5; lon < 180; lon++ {
			want := a.findFace(unitVector(lon, lat))
			got := faceAt(a.FromGeo(lon, lat))

			if got == want || ((want == 14 || want == 15) && got == want+6) {
				continue
			}
			t.Errorf("(%v, %v): forward used face %d, classifier found %d", lon, lat, want, got)
		}
	}
}

func TestFaceAt(t *testing.T) {
	assert.Equal(t, 9, faceAt(0, 0))
	assert.Equal(t, 10, faceAt(0.5, 0.2))
	assert.Equal(t, -1, faceAt(100, 0))
	assert.Equal(t, -1, faceAt(0, 5))
	assert.Equal(t, -1, faceAt(0, -5))
}

func TestAiroceanToGeoOutOfBounds(t *testing.T) {
	a := NewAirocean()

	for _, p := range [][2]float64{{100, 0}, {0, 5}, {-100, -100}} {
		lon, lat := a.ToGeo(p[0], p[1])
		assert.True(t, IsOutOfBounds(lon, lat), "%v", p)
	}
}

func TestFaceGeometry(t *testing.T) {
	a := NewAirocean()

	for i, f := range a.faces {
		assert.InDelta(t, 1, f.centroid.Norm(), 1e-12, "centroid %d", i)

		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				want := 0.0
				if r == c {
					want = 1
				}

				var orth, inv float64
				for k := 0; k < 3; k++ {
					orth += f.rotation[3*r+k] * f.rotation[3*c+k]
					inv += f.inverse[3*r+k] * f.rotation[3*k+c]
				}
				assert.InDelta(t, want, orth, 1e-12, "face %d rotation not orthonormal", i)
				assert.InDelta(t, want, inv, 1e-12, "face %d inverse does not undo rotation", i)
			}
		}
	}
}

func TestNearestCentroidEarlyExit(t *testing.T) {
	a := NewAirocean()

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, a.findFace(a.faces[i].centroid))
	}
}

func TestAiroceanMetersPerUnit(t *testing.T) {
	assert.InDelta(t, 6931965.370862, NewAirocean().MetersPerUnit(), 1e-3)
}
