// Package imagefile adapts image files to the pixel interfaces the
// scanner consumes. PNG decoding and encoding use the standard
// library; WebP input comes in through a registered decoder, and BMP
// output is encoded with golang.org/x/image/bmp.
package imagefile

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Registers the WebP decoder with image.Decode so input images may
	// be WebP as well as PNG.
	_ "github.com/deepteams/webp"

	"golang.org/x/image/bmp"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// Image is an in-memory byte-RGB raster. It implements both
// pixel.Source and pixel.Sink.
type Image struct {
	width, height int
	pix           []pixel.Pixel
}

// NewImage allocates a black raster of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		pix:    make([]pixel.Pixel, width*height),
	}
}

func (im *Image) Width() int { return im.width }

func (im *Image) Height() int { return im.height }

func (im *Image) Get(x, y int) pixel.Pixel {
	return im.pix[x+y*im.width]
}

// Set writes the pixel at (x,y). Out-of-bounds writes are ignored;
// outline points can sit one cell outside the image.
func (im *Image) Set(x, y int, p pixel.Pixel) {
	if x < 0 || y < 0 || x >= im.width || y >= im.height {
		return
	}
	im.pix[x+y*im.width] = p
}

// FromImage copies a decoded image into a byte-RGB raster, dropping
// alpha.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	im := NewImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			im.Set(x-bounds.Min.X, y-bounds.Min.Y, pixel.Pixel{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			})
		}
	}
	return im
}

// ToNRGBA converts the raster to an NRGBA image with full alpha.
func (im *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.width, im.height))
	for y := 0; y < im.height; y++ {
		for x := 0; x < im.width; x++ {
			p := im.Get(x, y)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = p.R
			out.Pix[i+1] = p.G
			out.Pix[i+2] = p.B
			out.Pix[i+3] = 255
		}
	}
	return out
}

// Load reads and decodes an image file.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoFailure, fmt.Errorf("failed to open image: %w", err))
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidFormat, fmt.Errorf("failed to decode image %s: %w", path, err))
	}
	return FromImage(img), nil
}

// Save encodes the raster to a file. The encoder is picked from the
// extension: .bmp writes BMP, everything else PNG.
func Save(path string, im *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to create image file: %w", err))
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(f, im.ToNRGBA())
	default:
		err = png.Encode(f, im.ToNRGBA())
	}
	if err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to encode %s: %w", path, err))
	}

	if err := f.Close(); err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to close %s: %w", path, err))
	}
	return nil
}
