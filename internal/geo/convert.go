package geo

import (
	"errors"
	"fmt"
	"time"

	"github.com/woozymasta/terraconv/internal/dataset"
	"github.com/woozymasta/terraconv/internal/projection"

	"github.com/rs/zerolog/log"
)

var (
	ErrLatitudeRange  = errors.New("latitude out of range [-90, 90]")
	ErrLongitudeRange = errors.New("longitude out of range [-180, 180]")
	ErrWorldRange     = errors.New("world coordinates outside the map")
	ErrOutOfBounds    = errors.New("point is outside the projectable area")
)

// boundsMargin widens the projection bounds when validating world input.
const boundsMargin = 0.01

// WorldPoint is a position on the game world plane.
type WorldPoint struct {
	X float64 `json:"x" yaml:"x"`
	Z float64 `json:"z" yaml:"z"`
}

// GeoPoint is a position on the globe in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Converter validates input and runs it through a projection pipeline.
// It is safe for concurrent use.
type Converter struct {
	proj   projection.Projection
	bounds [4]float64
}

// NewConverter wraps an assembled pipeline.
func NewConverter(p projection.Projection) *Converter {
	b := projection.NormalizeBounds(p.Bounds())
	dx := (b[2] - b[0]) * boundsMargin
	dz := (b[3] - b[1]) * boundsMargin

	return &Converter{
		proj:   p,
		bounds: [4]float64{b[0] - dx, b[1] - dz, b[2] + dx, b[3] + dz},
	}
}

// Load reads the conformal dataset at path and assembles the pipeline.
func Load(path string, opts projection.Options) (*Converter, error) {
	start := time.Now()

	field, err := dataset.LoadField(path)
	if err != nil {
		return nil, fmt.Errorf("load conformal dataset: %w", err)
	}

	c := NewConverter(projection.New(field, opts))

	log.Info().
		Str("dataset", path).
		Str("orientation", string(opts.Orientation)).
		Float64("meters_per_unit", c.proj.MetersPerUnit()).
		Dur("duration", time.Since(start)).
		Msg("Projection ready")

	return c, nil
}

// Projection returns the underlying pipeline.
func (c *Converter) Projection() projection.Projection { return c.proj }

// ToWorld converts latitude/longitude in degrees to world (x, z).
func (c *Converter) ToWorld(lat, lon float64) (float64, float64, error) {
	if !(lat >= -90 && lat <= 90) {
		return 0, 0, fmt.Errorf("%w: %v", ErrLatitudeRange, lat)
	}
	if !(lon >= -180 && lon <= 180) {
		return 0, 0, fmt.Errorf("%w: %v", ErrLongitudeRange, lon)
	}

	x, z := c.proj.FromGeo(lon, lat)
	if projection.IsOutOfBounds(x, z) {
		return 0, 0, fmt.Errorf("%w: lat %v, lon %v", ErrOutOfBounds, lat, lon)
	}

	return x, z, nil
}

// ToGeo converts world (x, z) to latitude/longitude in degrees.
func (c *Converter) ToGeo(x, z float64) (float64, float64, error) {
	if !(x >= c.bounds[0] && x <= c.bounds[2] && z >= c.bounds[1] && z <= c.bounds[3]) {
		return 0, 0, fmt.Errorf("%w: x %v, z %v", ErrWorldRange, x, z)
	}

	lon, lat := c.proj.ToGeo(x, z)
	if projection.IsOutOfBounds(lon, lat) {
		return 0, 0, fmt.Errorf("%w: x %v, z %v", ErrOutOfBounds, x, z)
	}

	return lat, lon, nil
}

// ToWorldPoint is ToWorld returning a keyed result.
func (c *Converter) ToWorldPoint(lat, lon float64) (WorldPoint, error) {
	x, z, err := c.ToWorld(lat, lon)
	if err != nil {
		return WorldPoint{}, err
	}

	return WorldPoint{X: x, Z: z}, nil
}

// ToGeoPoint is ToGeo returning a keyed result.
func (c *Converter) ToGeoPoint(x, z float64) (GeoPoint, error) {
	lat, lon, err := c.ToGeo(x, z)
	if err != nil {
		return GeoPoint{}, err
	}

	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// Bounds returns the pipeline bounds as minX, minZ, maxX, maxZ.
func (c *Converter) Bounds() [4]float64 { return c.proj.Bounds() }
