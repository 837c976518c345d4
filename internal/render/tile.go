package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/woozymasta/terraconv/internal/projection"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	// graticule spacing in degrees
	graticuleStep = 15.0
	// graticule line width in pixels
	graticuleWidth = 1.0
)

var graticuleColor = color.NRGBA{R: 40, G: 40, B: 40, A: 255}

// Options control tile rendering.
type Options struct {
	TileSize    int
	Supersample int
	Quality     float32
}

// Renderer draws coverage tiles of a projection: every pixel that the inverse
// projection maps back to the globe is colored by its longitude and latitude,
// with a graticule on top. Pixels outside the projectable area stay
// transparent.
type Renderer struct {
	proj projection.Projection
	grid Grid
	opts Options
}

// NewRenderer builds a renderer over the bounds of p.
func NewRenderer(p projection.Projection, opts Options) *Renderer {
	if opts.TileSize <= 0 {
		opts.TileSize = 256
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Quality <= 0 {
		opts.Quality = 85
	}

	return &Renderer{proj: p, grid: NewGrid(p.Bounds()), opts: opts}
}

// Grid returns the tile grid.
func (r *Renderer) Grid() Grid { return r.grid }

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Image renders tile t at the configured tile size.
func (r *Renderer) Image(t TileCoordinate) *image.NRGBA {
	size := r.opts.TileSize
	ss := size * r.opts.Supersample

	src := r.raster(t, ss)
	if ss == size {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return dst
}

// Encode writes img as WebP.
func (r *Renderer) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: r.opts.Quality})
}

// Tile renders and encodes tile t.
func (r *Renderer) Tile(t TileCoordinate) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf, r.Image(t)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *Renderer) raster(t TileCoordinate, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	// graticule tolerance in degrees, roughly one pixel at this zoom
	tol := graticuleWidth * 360 / (float64(size) * float64(int(1)<<t.Z))

	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			x, z := r.grid.World(t, float64(px)+0.5, float64(py)+0.5, size)

			lon, lat := r.proj.ToGeo(x, z)
			if projection.IsOutOfBounds(lon, lat) {
				continue
			}

			img.SetNRGBA(px, py, Color(lon, lat, tol))
		}
	}

	return img
}

// Color returns the coverage color of (lon, lat). Points within tol degrees
// of a graticule line get the line color.
func Color(lon, lat, tol float64) color.NRGBA {
	if onGraticule(lon, tol) || onGraticule(lat, tol) {
		return graticuleColor
	}

	h := (lon + 180) / 360
	v := 0.55 + 0.4*math.Cos(lat*math.Pi/180)

	return hsv(h, 0.6, v)
}

func onGraticule(deg, tol float64) bool {
	d := math.Mod(math.Abs(deg), graticuleStep)
	return d < tol || graticuleStep-d < tol
}

// hsv converts hue, saturation and value in [0, 1] to an opaque color.
func hsv(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.NRGBA{R: uint8(r*255 + 0.5), G: uint8(g*255 + 0.5), B: uint8(b*255 + 0.5), A: 255}
}
