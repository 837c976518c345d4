package main

import (
	"math"
	"testing"

	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/projection"
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
class CfgWorlds {
	class Names {
		class Paris {
			name = "Paris";
			position[] = {2953711.55, -5220740.22};
			type = "NameCityCapital";
		};
		class Void {
			name = "Void";
			position[] = {0, 0};
			type = "NameLocal";
		};
		class Broken {
			name = "Broken";
			position[] = {1.2.3, 4};
			type = "NameLocal";
		};
	};
};
`

func TestParseLocations(t *testing.T) {
	locs := parseLocations(sample)

	require.Len(t, locs, 2)
	assert.Equal(t, location{Name: "Paris", Type: "namecitycapital", X: 2953711.55, Z: -5220740.22}, locs[0])
	assert.Equal(t, "Void", locs[1].Name)
}

func TestToGeoJSON(t *testing.T) {
	root3 := math.Sqrt(3)
	field := vectorfield.Sample(projection.ConformalSide, func(p r2.Point) r2.Point {
		return r2.Point{X: (p.X - 0.5) * projection.Arc, Y: (p.Y - root3/6) * projection.Arc}
	})
	conv := geo.NewConverter(projection.New(field, projection.DefaultOptions()))

	fc := toGeoJSON(conv, parseLocations(sample))

	// (0, 0) has no inverse
	require.Len(t, fc.Features, 1)

	lon, lat, err := fc.Features[0].Point()
	require.NoError(t, err)
	assert.InDelta(t, 48.856667, lat, 1e-5)
	assert.InDelta(t, 2.350987, lon, 1e-5)
	assert.Equal(t, "Paris", fc.Features[0].Name())
}
