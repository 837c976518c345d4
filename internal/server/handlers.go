// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/render"

	"github.com/rs/zerolog/log"
)

// Info describes the loaded projection.
type Info struct {
	Bounds        [4]float64 `json:"bounds"`
	Orientation   string     `json:"orientation"`
	Attribution   string     `json:"attribution,omitempty"`
	MetersPerUnit float64    `json:"meters_per_unit"`
	ScaleX        float64    `json:"scale_x"`
	ScaleY        float64    `json:"scale_y"`
	MaxZoom       int        `json:"max_zoom"`
	TileSize      int        `json:"tile_size"`
	Upright       bool       `json:"upright"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleToGame converts ?lat=&lon= to world coordinates.
func (s *ServerContext) HandleToGame(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := queryPair(r, "lat", "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.Converter.ToWorldPoint(lat, lon)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleToGeo converts ?x=&z= to latitude/longitude.
func (s *ServerContext) HandleToGeo(w http.ResponseWriter, r *http.Request) {
	x, z, err := queryPair(r, "x", "z")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.Converter.ToGeoPoint(x, z)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleInfo serves the projection description.
func (s *ServerContext) HandleInfo(w http.ResponseWriter, r *http.Request) {
	p := s.Converter.Projection()

	writeJSON(w, http.StatusOK, Info{
		Bounds:        p.Bounds(),
		Upright:       p.Upright(),
		MetersPerUnit: p.MetersPerUnit(),
		Orientation:   s.Config.Orientation,
		ScaleX:        s.Config.ScaleX,
		ScaleY:        s.Config.ScaleY,
		MaxZoom:       s.Config.Tiles.Zoom,
		TileSize:      s.Renderer.Options().TileSize,
		Attribution:   s.Config.Attribution,
	})
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleTile serves /tiles/{z}/{x}/{y}.webp, rendering on demand.
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	t, ok := parseTilePath(r.URL.Path)
	if !ok || !s.Renderer.Grid().Valid(t) || t.Z > s.Config.Tiles.Zoom {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%d-%d-%d"`, t.Z, t.X, t.Y)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := s.tile(t)
	if err != nil {
		log.Error().Err(err).Str("tile", t.String()).Msg("Failed to render tile")
		http.Error(w, "tile rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// parseTilePath accepts /tiles/{z}/{x}/{y}.webp.
func parseTilePath(path string) (render.TileCoordinate, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "tiles" || !strings.HasSuffix(parts[3], ".webp") {
		return render.TileCoordinate{}, false
	}

	var nums [3]int
	for i, s := range []string{parts[1], parts[2], strings.TrimSuffix(parts[3], ".webp")} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return render.TileCoordinate{}, false
		}
		nums[i] = n
	}

	return render.TileCoordinate{Z: nums[0], X: nums[1], Y: nums[2]}, true
}

func queryPair(r *http.Request, a, b string) (float64, float64, error) {
	q := r.URL.Query()

	va, err := strconv.ParseFloat(q.Get(a), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %q parameter: %q", a, q.Get(a))
	}

	vb, err := strconv.ParseFloat(q.Get(b), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %q parameter: %q", b, q.Get(b))
	}

	return va, vb, nil
}

func statusFor(err error) int {
	if errors.Is(err, geo.ErrOutOfBounds) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
