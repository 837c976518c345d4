package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/logger"
	"github.com/woozymasta/terraconv/internal/processor"
	"github.com/woozymasta/terraconv/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"    description:"Path to configuration file (defaults are used if empty)"`
	Conformal   string `short:"d" long:"conformal"    env:"CONFORMAL_DATA" description:"Path to the conformal dataset, overrides the config"`
	OutDir      string `short:"o" long:"out"          env:"OUT_DIR"        description:"Output directory, overrides tiles.dir"`
	Concurrency int    `short:"p" long:"concurrency"  env:"CONCURRENCY"    description:"Concurrency (defaults to the number of CPUs)"`
	ZoomLimit   int    `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"     description:"Tiles zoom limit, overrides the config when not negative" default:"-1"`
	TilesOnly   bool   `short:"t" long:"tiles-only"   description:"Render tiles only"`
	GeoJSONOnly bool   `short:"g" long:"geojson-only" description:"Generate GeoJSON only"`
	Force       bool   `short:"f" long:"force"        description:"Force overwrite of existing files"`
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

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	if opts.Conformal != "" {
		cfg.Conformal = opts.Conformal
	}
	if opts.OutDir != "" {
		cfg.Tiles.Dir = opts.OutDir
	}
	if opts.ZoomLimit >= 0 {
		cfg.Tiles.Zoom = opts.ZoomLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	processTiles := true
	processGeo := true
	if opts.TilesOnly && !opts.GeoJSONOnly {
		processGeo = false
	} else if opts.GeoJSONOnly && !opts.TilesOnly {
		processTiles = false
	}

	conv, err := geo.Load(cfg.Conformal, cfg.ProjectionOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build projection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("out", cfg.Tiles.Dir).
		Int("zoom", cfg.Tiles.Zoom).
		Int("concurrency", opts.Concurrency).
		Bool("tiles", processTiles).
		Bool("geojson", processGeo).
		Msg("Starting loader")

	if processGeo {
		client := &http.Client{Timeout: 15 * time.Second}
		if err := processor.ProcessLocations(client, cfg, conv, cfg.Tiles.Dir, opts.Force); err != nil {
			log.Error().Err(err).Msg("Failed to process locations")
		}
	}

	if processTiles {
		r := render.NewRenderer(conv.Projection(), render.Options{
			TileSize:    cfg.Tiles.TileSize,
			Supersample: cfg.Tiles.Supersample,
			Quality:     cfg.Tiles.Quality,
		})

		if _, err := processor.ProcessTiles(ctx, r, cfg.Tiles.Dir, cfg.Tiles.Zoom, opts.Concurrency, opts.Force); err != nil {
			log.Fatal().Err(err).Msg("Failed to render tiles")
		}
	}

	log.Info().Msg("Loader finished successfully")
}
