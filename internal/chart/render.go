package chart

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/handiism/universally-acclaimed/internal/aggregate"
	ioutils "github.com/handiism/universally-acclaimed/internal/io"
)

// Headline is the text drawn across the top of the image.
const Headline = "Metacritic: number of \"universally acclaimed\"\nalbums per release year"

// Options controls chart selection and image layout.
type Options struct {
	// MaxGenreCharts caps the number of per-genre charts.
	MaxGenreCharts int
	// YearTickStep is the distance in years between x-axis labels.
	YearTickStep int

	TileWidth    vg.Length
	TileHeight   vg.Length
	HeaderHeight vg.Length
	DPI          int
	// Gap is the spacing between tiles in pixels.
	Gap int

	// MaxWidth downscales the final image to at most this many pixels
	// across. Zero keeps the natural size.
	MaxWidth int
	// Workers bounds how many tiles are rasterized at once.
	Workers int
}

// DefaultOptions returns the standard layout.
func DefaultOptions() *Options {
	return &Options{
		MaxGenreCharts: 28,
		YearTickStep:   4,
		TileWidth:      6 * vg.Inch,
		TileHeight:     3.5 * vg.Inch,
		HeaderHeight:   1.2 * vg.Inch,
		DPI:            96,
		Gap:            16,
		MaxWidth:       0,
		Workers:        runtime.NumCPU(),
	}
}

// OutputPath returns the image path for a run at now.
func OutputPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("universally_acclaimed_%d.png", now.Year()))
}

// Renderer draws the acclaim charts into a single PNG.
type Renderer struct {
	opts *Options
}

// NewRenderer creates a renderer. A nil opts uses DefaultOptions.
func NewRenderer(opts *Options) *Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Renderer{opts: opts}
}

// tile is one rasterized piece of the final image.
type tile struct {
	build func() (image.Image, error)
	img   image.Image
}

// Render writes the chart image to w.
//
// The image holds the headline, the All chart centered across the middle
// two thirds, then one chart per entry of genres, two per row.
func (r *Renderer) Render(ctx context.Context, w io.Writer, counts *aggregate.Counts, genres []string) error {
	header := &tile{build: func() (image.Image, error) {
		return r.headline()
	}}
	all := &tile{build: func() (image.Image, error) {
		return r.plot(aggregate.All, counts, r.opts.TileWidth*4/3, r.opts.TileHeight*4/3, true)
	}}
	tiles := make([]*tile, len(genres))
	for i, g := range genres {
		tiles[i] = &tile{build: func() (image.Image, error) {
			return r.plot(g, counts, r.opts.TileWidth, r.opts.TileHeight, false)
		}}
	}

	jobs := append([]*tile{header, all}, tiles...)
	g, ctx := errgroup.WithContext(ctx)
	workers := r.opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := job.build()
			if err != nil {
				return err
			}
			job.img = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	tileImgs := make([]image.Image, len(tiles))
	for i, t := range tiles {
		tileImgs[i] = t.img
	}
	img := r.compose(header.img, all.img, tileImgs)
	img = r.downscale(img)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// RenderFile renders into path, replacing any existing file only once the
// image is complete.
func (r *Renderer) RenderFile(ctx context.Context, path string, counts *aggregate.Counts, genres []string) error {
	return ioutils.WriteAtomic(path, func(w io.Writer) error {
		return r.Render(ctx, w, counts, genres)
	})
}

func (r *Renderer) plot(genre string, counts *aggregate.Counts, w, h vg.Length, headline bool) (image.Image, error) {
	p, err := newPlot(genre, counts, r.opts, headline)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.opts.DPI))
	p.Draw(draw.New(c))
	return c.Image(), nil
}

func (r *Renderer) headline() (image.Image, error) {
	w := 2 * r.opts.TileWidth
	h := r.opts.HeaderHeight
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.opts.DPI))
	dc := draw.New(c)

	style := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(22)),
		XAlign:  text.XCenter,
		YAlign:  text.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	lines := strings.Split(Headline, "\n")
	lineHeight := style.Height("M") * 1.3
	top := h/2 + lineHeight*vg.Length(len(lines)-1)/2
	for i, line := range lines {
		dc.FillText(style, vg.Point{X: w / 2, Y: top - lineHeight*vg.Length(i)}, line)
	}
	return c.Image(), nil
}

// compose stacks the header, the All chart and the genre tiles on a white
// canvas.
func (r *Renderer) compose(header, all image.Image, tiles []image.Image) image.Image {
	gap := r.opts.Gap
	width := header.Bounds().Dx()
	tileW, tileH := 0, 0
	if len(tiles) > 0 {
		tileW = tiles[0].Bounds().Dx()
		tileH = tiles[0].Bounds().Dy()
	}
	if 2*tileW+gap > width {
		width = 2*tileW + gap
	}

	rows := (len(tiles) + 1) / 2
	height := header.Bounds().Dy() + gap + all.Bounds().Dy() + gap + rows*(tileH+gap)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	y := 0
	place := func(img image.Image, x, y int) {
		b := img.Bounds()
		xdraw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, xdraw.Over)
	}

	place(header, (width-header.Bounds().Dx())/2, y)
	y += header.Bounds().Dy() + gap

	place(all, (width-all.Bounds().Dx())/2, y)
	y += all.Bounds().Dy() + gap

	left := (width - (2*tileW + gap)) / 2
	for i, t := range tiles {
		x := left
		if i%2 == 1 {
			x += tileW + gap
		}
		place(t, x, y+(i/2)*(tileH+gap))
	}

	return canvas
}

// downscale shrinks img to MaxWidth pixels wide, keeping its aspect ratio.
func (r *Renderer) downscale(img image.Image) image.Image {
	b := img.Bounds()
	if r.opts.MaxWidth <= 0 || b.Dx() <= r.opts.MaxWidth {
		return img
	}

	ratio := float64(r.opts.MaxWidth) / float64(b.Dx())
	height := int(float64(b.Dy()) * ratio)
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.opts.MaxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
