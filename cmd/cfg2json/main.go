package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/logger"
	"github.com/woozymasta/terraconv/internal/projection"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input       string  `short:"i" long:"in"          description:"Input file path (cfgNames.hpp). Reads from stdin if empty"`
	Output      string  `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format      string  `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Conformal   string  `short:"d" long:"conformal"   env:"CONFORMAL_DATA" description:"Path to the conformal dataset" default:"data/conformal.txt"`
	Orientation string  `long:"orientation"           description:"Pipeline orientation" choice:"none" choice:"upright" choice:"swapped" default:"upright"`
	Scale       float64 `short:"s" long:"scale"       description:"World units per projection unit" default:"7318261.522857145"`
}

// Regex Pattern captures: 1=Name, 2=X, 3=Z, 4=Type
var cfgRegex = regexp.MustCompile(
	`class\s+\w+\s*\{` + // Start of class block (e.g. "class City {")
		`[\s\S]*?` + // Non-greedy skip (matches across newlines)
		`name\s*=\s*"([^"]+)";` + // Group 1: Name
		`[\s\S]*?` + // Skip content
		`position\[\]\s*=\s*\{` + // Start of position array
		`\s*(-?[\d\.]+)\s*,\s*(-?[\d\.]+)\s*` + // Group 2 & 3: X and Z coordinates
		`\};` + // End of position array
		`[\s\S]*?` + // Skip content
		`type\s*=\s*"([^"]+)";` + // Group 4: Type
		`[\s\S]*?\};`, // End of class block
)

type location struct {
	Name string
	Type string
	X, Z float64
}

// parseLocations extracts named world positions from cfgNames.hpp content.
func parseLocations(content string) []location {
	matches := cfgRegex.FindAllStringSubmatch(content, -1)
	locs := make([]location, 0, len(matches))

	for _, match := range matches {
		x, err1 := strconv.ParseFloat(match[2], 64)
		z, err2 := strconv.ParseFloat(match[3], 64)
		if err1 != nil || err2 != nil {
			log.Warn().Str("name", match[1]).Msg("Skipping location with invalid coordinates")
			continue
		}

		locs = append(locs, location{Name: match[1], Type: strings.ToLower(match[4]), X: x, Z: z})
	}

	return locs
}

// toGeoJSON converts world positions to a [lon, lat] feature collection,
// dropping positions outside the projectable area.
func toGeoJSON(conv *geo.Converter, locs []location) geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection(len(locs))

	for _, l := range locs {
		lat, lon, err := conv.ToGeo(l.X, l.Z)
		if err != nil {
			log.Warn().Err(err).Str("name", l.Name).Msg("Skipping location")
			continue
		}

		fc.Features = append(fc.Features, geo.NewPointFeature(lon, lat, map[string]any{
			"name": l.Name,
			"type": l.Type,
			"x":    l.X,
			"z":    l.Z,
		}))
	}

	return fc
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if opts.Scale == 0 {
		log.Fatal().Msg("--scale must not be zero")
	}

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	conv, err := geo.Load(opts.Conformal, projection.Options{
		Orientation: projection.Orientation(opts.Orientation),
		ScaleX:      opts.Scale,
		ScaleY:      opts.Scale,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build projection")
	}

	locs := parseLocations(string(inputData))
	fc := toGeoJSON(conv, locs)

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal data")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output file")
		}
		log.Info().
			Int("found", len(locs)).
			Int("converted", len(fc.Features)).
			Str("path", opts.Output).
			Str("format", opts.Format).
			Msg("Locations converted")
	} else {
		fmt.Println(string(outputData))
	}
}
