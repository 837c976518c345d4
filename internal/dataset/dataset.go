// Package dataset reads the conformal correction dataset.
//
// The dataset is a JSON array of [dx, dy] pairs, one per correction grid
// node, stored either as plain JSON or base64-encoded JSON.
package dataset

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/woozymasta/terraconv/internal/projection"
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/golang/geo/r2"
	"github.com/rs/zerolog/log"
)

// ErrEmpty is returned for a dataset without any vectors.
var ErrEmpty = errors.New("dataset is empty")

// Format names the encoding a dataset was stored in.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBase64 Format = "base64"
)

// Read parses a dataset from r and reports which encoding it used.
func Read(r io.Reader) ([]r2.Point, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}

	format := FormatJSON
	if data[0] != '[' {
		format = FormatBase64

		decoded, err := decodeBase64(data)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64 dataset: %w", err)
		}
		data = bytes.TrimSpace(decoded)
	}

	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("parse %s dataset: %w", format, err)
	}
	if len(raw) == 0 {
		return nil, "", ErrEmpty
	}

	pairs := make([]r2.Point, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return nil, "", fmt.Errorf("entry %d: want 2 values, got %d", i, len(p))
		}
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return nil, "", fmt.Errorf("entry %d: non-finite vector %v", i, p)
		}
		pairs[i] = r2.Point{X: p[0], Y: p[1]}
	}

	return pairs, format, nil
}

// decodeBase64 ignores line breaks and other whitespace in the payload.
func decodeBase64(data []byte) ([]byte, error) {
	clean := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, data)

	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err != nil {
		return nil, err
	}

	return out[:n], nil
}

// Load reads the dataset file at path.
func Load(path string) ([]r2.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	pairs, format, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("vectors", len(pairs)).
		Dur("duration", time.Since(start)).
		Msg("Conformal dataset loaded")

	return pairs, nil
}

// LoadField reads the dataset at path and shapes it into the correction grid.
func LoadField(path string) (*vectorfield.Field, error) {
	pairs, err := Load(path)
	if err != nil {
		return nil, err
	}

	field, err := projection.NewConformalField(pairs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return field, nil
}
