package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/logger"
	"github.com/woozymasta/terraconv/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Path to configuration file (defaults are used if empty)"`
	Conformal  string `short:"d" long:"conformal"  env:"CONFORMAL_DATA" description:"Path to the conformal dataset, overrides the config"`
	Addr       string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	ZoomLimit  int    `short:"z" long:"zoom-limit" env:"ZOOM_LIMIT"     description:"Tiles zoom limit, overrides the config when not negative" default:"-1"`
	CacheSize  int    `long:"tile-cache"           env:"TILE_CACHE"     description:"Number of rendered tiles kept in memory" default:"1024"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
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
	if opts.ZoomLimit >= 0 {
		cfg.Tiles.Zoom = opts.ZoomLimit
	}

	conv, err := geo.Load(cfg.Conformal, cfg.ProjectionOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build projection")
	}

	srvCtx, err := server.NewServerContext(cfg, conv, opts.CacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Str("orientation", cfg.Orientation).
		Int("max_zoom", cfg.Tiles.Zoom).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
