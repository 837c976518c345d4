package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/woozymasta/terraconv/internal/render"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TileStats summarizes a pyramid run.
type TileStats struct {
	Written int64
	Skipped int64
}

// TilePath returns the on-disk location of tile t under baseDir.
func TilePath(baseDir string, t render.TileCoordinate) string {
	return filepath.Join(
		baseDir,
		fmt.Sprintf("%d", t.Z),
		fmt.Sprintf("%d", t.X),
		fmt.Sprintf("%d", t.Y)+".webp",
	)
}

// ProcessTiles renders every tile of zoom levels 0..zoomLimit into baseDir.
// Existing non-empty tiles are kept unless force is set. The first write
// error cancels the run.
func ProcessTiles(ctx context.Context, r *render.Renderer, baseDir string, zoomLimit, concurrency int, force bool) (TileStats, error) {
	var stats TileStats

	if concurrency <= 0 {
		concurrency = 1
	}

	log.Info().
		Str("dir", baseDir).
		Int("zoom", zoomLimit).
		Int("tile_size", r.Options().TileSize).
		Int("supersample", r.Options().Supersample).
		Msg("Starting tile rendering")

	for z := 0; z <= zoomLimit; z++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		start := time.Now()
		gridSize := 1 << z

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

	level:
		for x := 0; x < gridSize; x++ {
			for y := 0; y < gridSize; y++ {
				if gctx.Err() != nil {
					break level
				}

				t := render.TileCoordinate{Z: z, X: x, Y: y}
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}

					written, err := writeTile(r, baseDir, t, force)
					if err != nil {
						return fmt.Errorf("tile %s: %w", t, err)
					}
					if written {
						atomic.AddInt64(&stats.Written, 1)
					} else {
						atomic.AddInt64(&stats.Skipped, 1)
					}

					return nil
				})
			}
		}

		if err := g.Wait(); err != nil {
			return stats, err
		}

		log.Debug().
			Int("zoom", z).
			Int("count", gridSize*gridSize).
			Dur("duration", time.Since(start)).
			Msg("Zoom level rendered")
	}

	log.Info().
		Int64("written", stats.Written).
		Int64("skipped", stats.Skipped).
		Msg("Tile rendering finished")

	return stats, nil
}

func writeTile(r *render.Renderer, baseDir string, t render.TileCoordinate, force bool) (bool, error) {
	outPath := TilePath(baseDir, t)

	if !force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return false, nil
		}
	}

	err := writeFile(outPath, func(w io.Writer) error {
		return r.Encode(w, r.Image(t))
	})

	return err == nil, err
}

// writeFile creates path and fills it with encode. A failed write leaves no
// file behind, so later runs do not skip it.
func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = encode(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	return nil
}
