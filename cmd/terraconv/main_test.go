package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/projection"
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func identityConverter() *geo.Converter {
	root3 := math.Sqrt(3)
	field := vectorfield.Sample(projection.ConformalSide, func(p r2.Point) r2.Point {
		return r2.Point{X: (p.X - 0.5) * projection.Arc, Y: (p.Y - root3/6) * projection.Arc}
	})

	return geo.NewConverter(projection.New(field, projection.DefaultOptions()))
}

// run parses args against a fresh option set with stdin set to input and
// returns what the command printed.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	conv := identityConverter()
	oldLoad, oldIn, oldOut := loadConverter, stdin, stdout
	t.Cleanup(func() { loadConverter, stdin, stdout = oldLoad, oldIn, oldOut })

	var out bytes.Buffer
	loadConverter = func() (*geo.Converter, error) { return conv, nil }
	stdin = strings.NewReader(input)
	stdout = &out
	opts = Options{}

	_, err := newParser().ParseArgs(args)
	return out.String(), err
}

func TestToGameText(t *testing.T) {
	out, err := run(t, "", "togame", "--lat", "48.856667", "--lon", "2.350987")
	require.NoError(t, err)

	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.True(t, strings.HasPrefix(fields[0], "2953711.55"), fields[0])
	assert.True(t, strings.HasPrefix(fields[1], "-5220740.21"), fields[1])
}

func TestToGeoJSON(t *testing.T) {
	out, err := run(t, "", "--format", "json", "togeo", "--x=-8442652.260239001", "--z=-5919870.695198735")
	require.NoError(t, err)

	var p geo.GeoPoint
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.InDelta(t, 40.714268, p.Lat, 1e-5)
	assert.InDelta(t, -74.005974, p.Lon, 1e-5)
}

func TestToGameRangeError(t *testing.T) {
	_, err := run(t, "", "togame", "--lat", "91", "--lon", "0")
	assert.ErrorIs(t, err, geo.ErrLatitudeRange)
}

func TestBatch(t *testing.T) {
	input := "# lat,lon\n48.856667,2.350987\n\n95 0\nnot a pair\n40.714268;-74.005974\n"

	out, err := run(t, input, "--format", "yaml", "batch")
	require.NoError(t, err)

	var results []BatchResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 4)

	assert.Equal(t, 2, results[0].Line)
	assert.Empty(t, results[0].Error)
	assert.InDelta(t, 2953711.552497071, results[0].Out[0], 1e-4)

	assert.Equal(t, 4, results[1].Line)
	assert.Contains(t, results[1].Error, "latitude")

	assert.Equal(t, 5, results[2].Line)
	assert.NotEmpty(t, results[2].Error)

	assert.Equal(t, 6, results[3].Line)
	assert.InDelta(t, -8442652.260239001, results[3].Out[0], 1e-4)
}

func TestBatchReverseText(t *testing.T) {
	out, err := run(t, "-8442652.260239001,-5919870.695198735\n0,0\n", "batch", "--reverse")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	a, b, err := parsePair(lines[0])
	require.NoError(t, err)
	assert.InDelta(t, 40.714268, a, 1e-5)
	assert.InDelta(t, -74.005974, b, 1e-5)
	assert.True(t, strings.HasPrefix(lines[1], "error: line 2:"), lines[1])
}

func TestInfo(t *testing.T) {
	out, err := run(t, "", "-f", "json", "info")
	require.NoError(t, err)

	var info Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.True(t, info.Upright)
	assert.InDelta(t, 1, info.MetersPerUnit, 1e-9)
	assert.Less(t, info.Bounds[0], info.Bounds[2])
}

func TestParsePair(t *testing.T) {
	a, b, err := parsePair("1.5, -2")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{1.5, -2}, [2]float64{a, b})

	_, _, err = parsePair("1")
	assert.Error(t, err)
	_, _, err = parsePair("1,x")
	assert.Error(t, err)
}
