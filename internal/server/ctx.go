package server

import (
	"fmt"

	"github.com/woozymasta/terraconv/assets"
	"github.com/woozymasta/terraconv/internal/config"
	"github.com/woozymasta/terraconv/internal/geo"
	"github.com/woozymasta/terraconv/internal/render"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

// DefaultCacheSize is the number of encoded tiles kept in memory.
const DefaultCacheSize = 1024

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Converter *geo.Converter
	Renderer  *render.Renderer
	IndexHTML []byte
	Favicon   []byte

	tiles *lru.Cache
}

// NewServerContext builds the renderer, the tile cache and the index page.
func NewServerContext(cfg *config.Config, conv *geo.Converter, cacheSize int) (*ServerContext, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	tiles, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("tile cache: %w", err)
	}

	index, err := assets.Index()
	if err != nil {
		return nil, fmt.Errorf("build index page: %w", err)
	}

	favicon, err := assets.Favicon()
	if err != nil {
		return nil, err
	}

	renderer := render.NewRenderer(conv.Projection(), render.Options{
		TileSize:    cfg.Tiles.TileSize,
		Supersample: cfg.Tiles.Supersample,
		Quality:     cfg.Tiles.Quality,
	})

	log.Info().
		Int("tile_cache", cacheSize).
		Int("max_zoom", cfg.Tiles.Zoom).
		Int("index_bytes", len(index)).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		Converter: conv,
		Renderer:  renderer,
		IndexHTML: index,
		Favicon:   favicon,
		tiles:     tiles,
	}, nil
}

// tile returns the encoded tile t, rendering it on a cache miss.
func (s *ServerContext) tile(t render.TileCoordinate) ([]byte, error) {
	key := t.String()
	if v, ok := s.tiles.Get(key); ok {
		return v.([]byte), nil
	}

	data, err := s.Renderer.Tile(t)
	if err != nil {
		return nil, err
	}

	s.tiles.Add(key, data)
	log.Trace().Str("tile", key).Int("bytes", len(data)).Msg("Tile rendered")

	return data, nil
}
