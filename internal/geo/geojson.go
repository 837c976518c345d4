// Package geo is the validated conversion API between latitude/longitude and
// world coordinates, plus the GeoJSON types used to exchange locations.
package geo

import "fmt"

// GeoJSONFeatureCollection represents a collection of geographic features.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single point feature with its properties.
type GeoJSONFeature struct {
	Properties map[string]any  `json:"properties" yaml:"properties"`
	Type       string          `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry is a Point geometry. Coordinates are [lon, lat] for
// geographic collections and [x, z] for world collections.
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"`
}

// NewFeatureCollection returns an empty collection with room for n features.
func NewFeatureCollection(n int) GeoJSONFeatureCollection {
	return GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, n),
	}
}

// NewPointFeature builds a Point feature at (a, b).
func NewPointFeature(a, b float64, props map[string]any) GeoJSONFeature {
	if props == nil {
		props = map[string]any{}
	}

	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: []float64{a, b},
		},
		Properties: props,
	}
}

// Point returns the first two coordinates of a Point feature.
func (f GeoJSONFeature) Point() (float64, float64, error) {
	if f.Geometry.Type != "Point" {
		return 0, 0, fmt.Errorf("unsupported geometry %q", f.Geometry.Type)
	}
	if len(f.Geometry.Coordinates) < 2 {
		return 0, 0, fmt.Errorf("point has %d coordinates", len(f.Geometry.Coordinates))
	}

	return f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], nil
}

// Name returns the "name" property, if any.
func (f GeoJSONFeature) Name() string {
	name, _ := f.Properties["name"].(string)
	return name
}
