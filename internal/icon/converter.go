package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/webbox/internal/domain/generation"
)

// Asset is a converted icon container and what was learned while producing it.
type Asset struct {
	// Data is the encoded ICNS container.
	Data []byte
	// SourceWidth and SourceHeight are the decoded source dimensions.
	SourceWidth  int
	SourceHeight int
	// SourceFormat is the decoder that read the source, e.g. "png".
	SourceFormat string
	// Warnings are non-fatal quality advisories, e.g. about upscaling.
	Warnings []string
}

// ProgressFunc receives the number of finished sizes out of total.
// It may be called concurrently from several goroutines.
type ProgressFunc func(done, total int)

// Converter renders source images into ICNS containers.
type Converter struct {
	// workers bounds concurrent rendition rendering; zero means one per size.
	workers int
}

// Option configures a Converter.
type Option func(*Converter)

// WithWorkers bounds the number of renditions rendered at once.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// NewConverter creates a converter.
func NewConverter(opts ...Option) *Converter {
	c := new(Converter)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Convert decodes the image at path and returns the packed container.
// Decode failures are generation.KindIconDecode; small sources only add a warning.
func (c *Converter) Convert(ctx context.Context, path string, onProgress ProgressFunc) (*Asset, error) {
	src, format, err := decodeFile(path)
	if err != nil {
		return nil, generation.Wrapf(generation.KindIconDecode, "convert icon", err, "cannot read %s as an image", path)
	}

	bounds := src.Bounds()

	asset := &Asset{
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
		SourceFormat: format,
	}

	if asset.SourceWidth == 0 || asset.SourceHeight == 0 {
		return nil, generation.Wrapf(generation.KindIconDecode, "convert icon", nil, "%s has no pixels", path)
	}

	square := squareCrop(bounds)

	if square.Dx() < MaxSize {
		asset.Warnings = append(asset.Warnings, fmt.Sprintf(
			"source icon is %dx%d; renditions larger than %dpx are upscaled and may look soft",
			asset.SourceWidth, asset.SourceHeight, square.Dx()))
	}

	if asset.SourceWidth != asset.SourceHeight {
		asset.Warnings = append(asset.Warnings, fmt.Sprintf(
			"source icon is not square; the centered %dx%d region is used", square.Dx(), square.Dy()))
	}

	encoded, err := c.renderAll(ctx, src, square, onProgress)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(Renditions))
	for _, r := range Renditions {
		entries = append(entries, Entry{Type: r.Type, Data: encoded[r.Size]})
	}

	asset.Data, err = Encode(entries)
	if err != nil {
		return nil, generation.Wrap(generation.KindIO, "pack icon", err)
	}

	return asset, nil
}

// renderAll renders and PNG-encodes every distinct size; each goroutine owns one slot.
func (c *Converter) renderAll(
	ctx context.Context,
	src image.Image,
	square image.Rectangle,
	onProgress ProgressFunc,
) (map[int][]byte, error) {
	sizes := uniqueSizes()
	slots := make([][]byte, len(sizes))

	var done atomic.Int32

	group, groupCtx := errgroup.WithContext(ctx)
	if c.workers > 0 {
		group.SetLimit(c.workers)
	}

	for i, size := range sizes {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return generation.Wrap(generation.KindCanceled, "convert icon", err)
			}

			data, err := renderPNG(src, square, size)
			if err != nil {
				return generation.Wrapf(generation.KindIO, "convert icon", err, "encode %dpx rendition", size)
			}

			slots[i] = data

			if onProgress != nil {
				onProgress(int(done.Add(1)), len(sizes))
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	encoded := make(map[int][]byte, len(sizes))
	for i, size := range sizes {
		encoded[size] = slots[i]
	}

	return encoded, nil
}

// renderPNG draws the square region of src at size x size and encodes it.
// A region already at the target size is copied without interpolation.
func renderPNG(src image.Image, square image.Rectangle, size int) ([]byte, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	if square.Dx() == size {
		draw.Copy(dst, image.Point{}, src, square, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, square, draw.Src, nil)
	}

	var buf bytes.Buffer

	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// squareCrop returns the largest centered square inside bounds.
func squareCrop(bounds image.Rectangle) image.Rectangle {
	side := min(bounds.Dx(), bounds.Dy())
	x := bounds.Min.X + (bounds.Dx()-side)/2
	y := bounds.Min.Y + (bounds.Dy()-side)/2

	return image.Rect(x, y, x+side, y+side)
}
