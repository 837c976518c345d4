// Package processor writes tile pyramids and projected location files.
package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"

	"github.com/rs/zerolog/log"
)

// LocationsFile is the name of the projected locations file in the output dir.
const LocationsFile = "locations.geojson"

// ProcessLocations projects the configured locations into world coordinates
// and writes them to dir. It does nothing when no locations are configured.
func ProcessLocations(client *http.Client, cfg *config.Config, conv *geo.Converter, dir string, force bool) error {
	destFile := filepath.Join(dir, LocationsFile)

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil {
		if !force {
			log.Debug().Str("path", destFile).Msg("Locations file exists, skipping")
			return nil
		}
	}

	var src geo.GeoJSONFeatureCollection

	switch {
	case cfg.LocationsInline != nil:
		log.Info().Msg("Using inline locations data from config")
		src = *cfg.LocationsInline

	case cfg.Locations != "":
		log.Info().Str("source", cfg.Locations).Msg("Processing locations")

		var err error
		if src, err = fetchLocations(client, cfg.Locations); err != nil {
			return err
		}

	default:
		return nil
	}

	fc := ProjectLocations(conv, src)

	log.Info().
		Int("features", len(src.Features)).
		Int("projected", len(fc.Features)).
		Str("path", destFile).
		Msg("Locations projected")

	return saveGeoJSON(dir, destFile, fc)
}

// ProjectLocations converts the [lon, lat] points of src into [x, z] world
// points. Features that cannot be projected are logged and dropped; their
// properties are kept and gain "lat" and "lon".
func ProjectLocations(conv *geo.Converter, src geo.GeoJSONFeatureCollection) geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection(len(src.Features))

	for i, f := range src.Features {
		lon, lat, err := f.Point()
		if err == nil {
			var x, z float64
			if x, z, err = conv.ToWorld(lat, lon); err == nil {
				props := make(map[string]any, len(f.Properties)+2)
				for k, v := range f.Properties {
					props[k] = v
				}
				props["lat"] = lat
				props["lon"] = lon

				fc.Features = append(fc.Features, geo.NewPointFeature(x, z, props))
				continue
			}
		}

		log.Warn().
			Err(err).
			Int("index", i).
			Str("name", f.Name()).
			Msg("Skipping location")
	}

	return fc
}

// fetchLocations reads a GeoJSON collection from a URL or a local file.
func fetchLocations(client *http.Client, source string) (geo.GeoJSONFeatureCollection, error) {
	var fc geo.GeoJSONFeatureCollection
	var reader io.Reader

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := client.Get(source)
		if err != nil {
			return fc, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fc, fmt.Errorf("download failed: %d", resp.StatusCode)
		}
		reader = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return fc, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&fc); err != nil {
		return fc, fmt.Errorf("decode %s: %w", source, err)
	}

	return fc, nil
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
