package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/terraconv/internal/geo"

	"gopkg.in/yaml.v3"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// ToGameCommand converts one geographic position.
type ToGameCommand struct {
	Lat float64 `long:"lat" description:"Latitude in degrees" required:"true"`
	Lon float64 `long:"lon" description:"Longitude in degrees" required:"true"`
}

func (c *ToGameCommand) Execute([]string) error {
	conv, err := loadConverter()
	if err != nil {
		return err
	}

	p, err := conv.ToWorldPoint(c.Lat, c.Lon)
	if err != nil {
		return err
	}

	return emit(p, formatPair(p.X, p.Z))
}

// ToGeoCommand converts one world position.
type ToGeoCommand struct {
	X float64 `long:"x" description:"World X" required:"true"`
	Z float64 `long:"z" description:"World Z" required:"true"`
}

func (c *ToGeoCommand) Execute([]string) error {
	conv, err := loadConverter()
	if err != nil {
		return err
	}

	p, err := conv.ToGeoPoint(c.X, c.Z)
	if err != nil {
		return err
	}

	return emit(p, formatPair(p.Lat, p.Lon))
}

// BatchCommand converts many pairs, one per input line.
type BatchCommand struct {
	Reverse bool `short:"r" long:"reverse" description:"Input is x,z and output is lat,lon"`
}

// BatchResult is the outcome of one input line.
type BatchResult struct {
	Line  int        `json:"line" yaml:"line"`
	In    [2]float64 `json:"in" yaml:"in"`
	Out   [2]float64 `json:"out" yaml:"out"`
	Error string     `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c *BatchCommand) Execute([]string) error {
	conv, err := loadConverter()
	if err != nil {
		return err
	}

	results, err := c.run(conv, stdin)
	if err != nil {
		return err
	}

	var text strings.Builder
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(&text, "error: line %d: %s\n", r.Line, r.Error)
			continue
		}
		text.WriteString(formatPair(r.Out[0], r.Out[1]))
		text.WriteByte('\n')
	}

	return emit(results, strings.TrimSuffix(text.String(), "\n"))
}

func (c *BatchCommand) run(conv *geo.Converter, r io.Reader) ([]BatchResult, error) {
	var results []BatchResult

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res := BatchResult{Line: n}

		a, b, err := parsePair(line)
		if err == nil {
			res.In = [2]float64{a, b}
			if c.Reverse {
				res.Out[0], res.Out[1], err = conv.ToGeo(a, b)
			} else {
				res.Out[0], res.Out[1], err = conv.ToWorld(a, b)
			}
		}
		if err != nil {
			res.Out = [2]float64{}
			res.Error = err.Error()
		}

		results = append(results, res)
	}

	return results, scanner.Err()
}

// InfoCommand describes the pipeline.
type InfoCommand struct{}

// Info is the output of the info command.
type Info struct {
	Bounds        [4]float64 `json:"bounds" yaml:"bounds"`
	MetersPerUnit float64    `json:"meters_per_unit" yaml:"meters_per_unit"`
	Upright       bool       `json:"upright" yaml:"upright"`
}

func (c *InfoCommand) Execute([]string) error {
	conv, err := loadConverter()
	if err != nil {
		return err
	}

	p := conv.Projection()
	info := Info{Bounds: p.Bounds(), MetersPerUnit: p.MetersPerUnit(), Upright: p.Upright()}

	b := info.Bounds
	text := fmt.Sprintf("bounds: %s %s %s %s\nmeters per unit: %s\nupright: %t",
		formatFloat(b[0]), formatFloat(b[1]), formatFloat(b[2]), formatFloat(b[3]),
		formatFloat(info.MetersPerUnit), info.Upright)

	return emit(info, text)
}

func parsePair(line string) (float64, float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 values, got %d", len(fields))
	}

	a, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatPair(a, b float64) string {
	return formatFloat(a) + " " + formatFloat(b)
}

// emit writes v in the selected output format; text is used for "text".
func emit(v any, text string) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		_, err := fmt.Fprintln(stdout, text)
		return err
	default:
		return errors.New("unknown format " + opts.Format)
	}
}
