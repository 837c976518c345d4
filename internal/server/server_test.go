package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/projection"
	"github.com/woozymasta/terraconv/internal/render"
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/chai2010/webp"
	"github.com/golang/geo/r2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*ServerContext, http.Handler) {
	t.Helper()

	root3 := math.Sqrt(3)
	field := vectorfield.Sample(projection.ConformalSide, func(p r2.Point) r2.Point {
		return r2.Point{X: (p.X - 0.5) * projection.Arc, Y: (p.Y - root3/6) * projection.Arc}
	})
	conv := geo.NewConverter(projection.New(field, projection.DefaultOptions()))

	cfg := config.Default()
	cfg.Tiles.TileSize = 32
	cfg.Tiles.Supersample = 1
	cfg.Tiles.Zoom = 2

	s, err := NewServerContext(cfg, conv, 8)
	require.NoError(t, err)

	return s, s.Routes()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestToGameEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := get(h, "/api/togame?lat=48.856667&lon=2.350987")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var p geo.WorldPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.InDelta(t, 2953711.552497071, p.X, 1e-4)
	assert.InDelta(t, -5220740.218542065, p.Z, 1e-4)
}

func TestToGeoEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := get(h, "/api/togeo?x=-8442652.260239001&z=-5919870.695198735")
	require.Equal(t, http.StatusOK, rec.Code)

	var p geo.GeoPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.InDelta(t, 40.714268, p.Lat, 1e-5)
	assert.InDelta(t, -74.005974, p.Lon, 1e-5)
}

func TestConversionErrors(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		target string
		status int
	}{
		{"/api/togame?lat=abc&lon=0", http.StatusBadRequest},
		{"/api/togame?lat=0", http.StatusBadRequest},
		{"/api/togame?lat=95&lon=0", http.StatusBadRequest},
		{"/api/togame?lat=0&lon=-200", http.StatusBadRequest},
		{"/api/togeo?x=1e12&z=0", http.StatusBadRequest},
		{"/api/togeo?x=0&z=0", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(h, tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestInfoEndpoint(t *testing.T) {
	s, h := newTestServer(t)

	rec := get(h, "/api/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.Upright)
	assert.Equal(t, "upright", info.Orientation)
	assert.Equal(t, 2, info.MaxZoom)
	assert.Equal(t, 32, info.TileSize)
	assert.InDelta(t, 1, info.MetersPerUnit, 1e-9)
	assert.Equal(t, s.Converter.Bounds(), info.Bounds)
}

func TestTileEndpoint(t *testing.T) {
	s, h := newTestServer(t)

	rec := get(h, "/tiles/1/0/1.webp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))

	img, err := webp.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	_, cached := s.tiles.Get(render.TileCoordinate{Z: 1, X: 0, Y: 1}.String())
	assert.True(t, cached)

	req := httptest.NewRequest(http.MethodGet, "/tiles/1/0/1.webp", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestTileNotFound(t *testing.T) {
	_, h := newTestServer(t)

	for _, target := range []string{
		"/tiles/3/0/0.webp", // beyond max zoom
		"/tiles/1/2/0.webp",
		"/tiles/1/0/x.webp",
		"/tiles/1/0/0.png",
		"/tiles/1/0",
	} {
		assert.Equal(t, http.StatusNotFound, get(h, target).Code, target)
	}
}

func TestIndexAndFavicon(t *testing.T) {
	s, h := newTestServer(t)

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.IndexHTML, rec.Body.Bytes())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(h, "/missing").Code)

	rec = get(h, "/favicon.svg")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

func TestRequestLoggerCapturesStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	rec := get(h, "/")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short", rec.Body.String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, levelFor(200))
	assert.Equal(t, zerolog.WarnLevel, levelFor(404))
	assert.Equal(t, zerolog.ErrorLevel, levelFor(503))
}
