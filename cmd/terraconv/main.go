package main

import (
	"os"

	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/logger"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string  `short:"c" long:"config"      env:"CONFIG_FILE"    description:"Path to configuration file (defaults are used if empty)"`
	Conformal   string  `short:"d" long:"conformal"   env:"CONFORMAL_DATA" description:"Path to the conformal dataset, overrides the config"`
	Orientation string  `long:"orientation"           description:"Pipeline orientation, overrides the config" choice:"none" choice:"upright" choice:"swapped"`
	Scale       float64 `short:"s" long:"scale"       description:"World units per projection unit, overrides the config"`
	Format      string  `short:"f" long:"format"      description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
}

var opts Options

// loadConverter builds the converter described by the global options.
var loadConverter = func() (*geo.Converter, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if opts.Conformal != "" {
		cfg.Conformal = opts.Conformal
	}
	if opts.Orientation != "" {
		cfg.Orientation = opts.Orientation
	}
	if opts.Scale != 0 {
		cfg.ScaleX, cfg.ScaleY = opts.Scale, opts.Scale
	}

	return geo.Load(cfg.Conformal, cfg.ProjectionOptions())
}

func newParser() *flags.Parser {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	mustAdd(parser.AddCommand("togame", "Convert latitude/longitude to world coordinates",
		"Prints the world x and z of a geographic position.", &ToGameCommand{}))
	mustAdd(parser.AddCommand("togeo", "Convert world coordinates to latitude/longitude",
		"Prints the latitude and longitude of a world position.", &ToGeoCommand{}))
	mustAdd(parser.AddCommand("batch", "Convert coordinate pairs read from stdin",
		"Reads one \"a,b\" or \"a b\" pair per line: lat,lon by default, x,z with --reverse.", &BatchCommand{}))
	mustAdd(parser.AddCommand("info", "Describe the projection",
		"Prints bounds, orientation and scale of the assembled pipeline.", &InfoCommand{}))

	return parser
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	if _, err := newParser().Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
