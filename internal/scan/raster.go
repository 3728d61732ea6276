package scan

import (
	"log/slog"

	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// darkColorCutoff is the squared color magnitude under which a shape
// counts as nearly black, so single-shape rasters invert their
// background to keep the shape visible.
const darkColorCutoff = 0.15

var invertedBackground = pixel.PixelF{R: 0.8, G: 0.8, B: 0.8}

// RenderShapes paints every shape's filled region into img.
func (ps *PixelScan) RenderShapes(img pixel.Sink) {
	for _, sh := range ps.shapes {
		fillShape(sh, img)
	}
}

// RenderShape paints a single shape's filled region into img. An
// out-of-range index returns false without writing.
func (ps *PixelScan) RenderShape(index int, img pixel.Sink) bool {
	if index < 0 || index >= len(ps.shapes) {
		return false
	}

	sh := ps.shapes[index]
	logShape(index, sh)
	if sh.Color().SqrMag() < darkColorCutoff {
		fillBackground(img, invertedBackground.ToPixel())
	}

	fillShape(sh, img)
	return true
}

// RenderBorders paints every shape's outline points into img.
func (ps *PixelScan) RenderBorders(img pixel.Sink) {
	for _, sh := range ps.shapes {
		drawBorder(sh, img)
	}
}

// RenderBorder paints a single shape's outline points into img. An
// out-of-range index returns false without writing.
func (ps *PixelScan) RenderBorder(index int, img pixel.Sink) bool {
	if index < 0 || index >= len(ps.shapes) {
		return false
	}

	sh := ps.shapes[index]
	logShape(index, sh)
	if sh.Color().SqrMag() < darkColorCutoff {
		fillBackground(img, invertedBackground.ToPixel())
	}

	drawBorder(sh, img)
	return true
}

func fillShape(sh *Shape, img pixel.Sink) {
	b := sh.Bounds()
	c := sh.Color().ToPixel()
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			if sh.Has(geom.Vector2i{X: x, Y: y}) {
				img.Set(x, y, c)
			}
		}
	}
}

func drawBorder(sh *Shape, img pixel.Sink) {
	c := sh.Color().ToPixel()
	for _, e := range sh.OuterEdgePoints() {
		img.Set(e.X, e.Y, c)
	}
}

func fillBackground(img pixel.Sink, c pixel.Pixel) {
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			img.Set(x, y, c)
		}
	}
}

func logShape(index int, sh *Shape) {
	c := sh.Color()
	slog.Info("Rendering shape",
		"index", index,
		"color_r", c.R, "color_g", c.G, "color_b", c.B,
		"chunks", sh.ChunkCount(),
		"dark", c.SqrMag() < darkColorCutoff)
}
