// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/projection"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// defining GeoJSON directly in config.yaml
	LocationsInline *geo.GeoJSONFeatureCollection `yaml:"locations_geojson,omitempty" json:"-"`

	Conformal   string  `yaml:"conformal" json:"-"`
	Orientation string  `yaml:"orientation,omitempty" json:"orientation"`
	Attribution string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Locations   string  `yaml:"locations,omitempty" json:"-"`
	Tiles       Tiles   `yaml:"tiles,omitempty" json:"tiles"`
	Scale       float64 `yaml:"scale,omitempty" json:"-"`
	ScaleX      float64 `yaml:"scale_x,omitempty" json:"scale_x"`
	ScaleY      float64 `yaml:"scale_y,omitempty" json:"scale_y"`
}

// Tiles configures rendering of the coverage tile pyramid.
type Tiles struct {
	Dir         string  `yaml:"dir,omitempty" json:"-"`
	Zoom        int     `yaml:"zoom" json:"zoom"`
	TileSize    int     `yaml:"tile_size,omitempty" json:"tile_size"`
	Quality     float32 `yaml:"quality,omitempty" json:"-"`
	Supersample int     `yaml:"supersample,omitempty" json:"-"`
}

const (
	DefaultConformal   = "data/conformal.txt"
	DefaultTilesDir    = "tiles"
	DefaultZoom        = 6
	DefaultTileSize    = 256
	DefaultQuality     = 85
	DefaultSupersample = 2

	maxZoom = 12
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := unset()
	cfg.ApplyDefaults()
	return cfg
}

// unset is the zero configuration with the defaults that zero cannot stand
// for: zoom 0 is a valid single-tile pyramid.
func unset() *Config {
	return &Config{Tiles: Tiles{Zoom: DefaultZoom}}
}

// Load reads and parses the YAML configuration file from the specified path,
// applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := unset()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills unset fields. A single scale sets both axes.
func (c *Config) ApplyDefaults() {
	if c.Conformal == "" {
		c.Conformal = DefaultConformal
	}
	if c.Orientation == "" {
		c.Orientation = string(projection.OrientationUpright)
	}

	if c.Scale == 0 {
		c.Scale = projection.DefaultScale
	}
	if c.ScaleX == 0 {
		c.ScaleX = c.Scale
	}
	if c.ScaleY == 0 {
		c.ScaleY = c.Scale
	}

	if c.Tiles.Dir == "" {
		c.Tiles.Dir = DefaultTilesDir
	}
	if c.Tiles.TileSize <= 0 {
		c.Tiles.TileSize = DefaultTileSize
	}
	if c.Tiles.Quality <= 0 {
		c.Tiles.Quality = DefaultQuality
	}
	if c.Tiles.Supersample <= 0 {
		c.Tiles.Supersample = DefaultSupersample
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := projection.ParseOrientation(c.Orientation); err != nil {
		result = multierror.Append(result, err)
	}
	if c.ScaleX == 0 || c.ScaleY == 0 {
		result = multierror.Append(result, errors.New("scale must not be zero"))
	}
	if c.Tiles.Zoom < 0 || c.Tiles.Zoom > maxZoom {
		result = multierror.Append(result, fmt.Errorf("tiles.zoom %d out of range [0, %d]", c.Tiles.Zoom, maxZoom))
	}
	if c.Tiles.TileSize < 16 || c.Tiles.TileSize > 2048 {
		result = multierror.Append(result, fmt.Errorf("tiles.tile_size %d out of range [16, 2048]", c.Tiles.TileSize))
	}
	if c.Tiles.Quality > 100 {
		result = multierror.Append(result, fmt.Errorf("tiles.quality %v exceeds 100", c.Tiles.Quality))
	}
	if c.Tiles.Supersample > 8 {
		result = multierror.Append(result, fmt.Errorf("tiles.supersample %d exceeds 8", c.Tiles.Supersample))
	}
	if c.Locations != "" && c.LocationsInline != nil {
		result = multierror.Append(result, errors.New("locations and locations_geojson are mutually exclusive"))
	}

	return result.ErrorOrNil()
}

// ProjectionOptions returns the pipeline options described by the config.
func (c *Config) ProjectionOptions() projection.Options {
	o, err := projection.ParseOrientation(c.Orientation)
	if err != nil {
		o = projection.OrientationUpright
	}

	return projection.Options{Orientation: o, ScaleX: c.ScaleX, ScaleY: c.ScaleY}
}
