// Package scan implements the pixel scan: region segmentation over a
// pixel grid, outline tracing, rasterization, serialization and SVG
// emission.
package scan

import (
	"log/slog"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// maxOuterIterations caps the number of seed restarts during
// segmentation, as a watchdog against pathological inputs.
const maxOuterIterations = 5000

// PixelScan owns a float copy of the source image, the per-pixel shape
// assignment and the discovered shapes. Shape indices are stable from
// ScanForShapes onwards and are the identity used by serialization and
// the per-index rasterizers.
type PixelScan struct {
	imageSize   geom.Vector2i
	image       []pixel.PixelF
	imageShapes []int
	shapes      []*Shape
	hasBorders  bool
}

// New seeds a scan from a pixel source.
func New(src pixel.Source) (*PixelScan, error) {
	w, h := src.Width(), src.Height()
	if w < 1 || h < 1 {
		return nil, errs.Newf(errs.InvalidArgument, "cannot scan an empty %dx%d image", w, h)
	}

	ps := &PixelScan{
		imageSize:   geom.Vector2i{X: w, Y: h},
		image:       make([]pixel.PixelF, w*h),
		imageShapes: make([]int, w*h),
	}
	ix := ps.indexer()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ps.image[ix.Index(x, y)] = src.Get(x, y).ToF()
		}
	}
	for i := range ps.imageShapes {
		ps.imageShapes[i] = -1
	}
	return ps, nil
}

func (ps *PixelScan) indexer() geom.Indexer { return geom.Indexer{Width: ps.imageSize.X} }

func (ps *PixelScan) ImageSize() geom.Vector2i { return ps.imageSize }

func (ps *PixelScan) Shapes() []*Shape { return ps.shapes }

func (ps *PixelScan) HasBorders() bool { return ps.hasBorders }

// ShapeIndexAt returns the shape index owning the pixel at spot, or -1
// if the pixel is outside the image or not yet assigned.
func (ps *PixelScan) ShapeIndexAt(spot geom.Vector2i) int {
	if ps.isOutsideImage(spot) {
		return -1
	}
	return ps.imageShapes[ps.indexer().IndexV(spot)]
}

func (ps *PixelScan) hasShape(spot geom.Vector2i) bool {
	return !ps.isOutsideImage(spot) && ps.imageShapes[ps.indexer().IndexV(spot)] != -1
}

func (ps *PixelScan) isOutsideImage(spot geom.Vector2i) bool {
	return spot.X < 0 || spot.Y < 0 || spot.X >= ps.imageSize.X || spot.Y >= ps.imageSize.Y
}

// neighborOffsets is the 8-neighborhood probed by the frontier walk.
var neighborOffsets = [8]geom.Vector2i{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// ScanForShapes partitions the image into shapes of transitively
// color-similar pixels. A pixel joins a shape when it is similar to an
// already-absorbed neighbor, so the result is an equivalence class of
// the walk, not of raw color equality. Seeds are discovered in
// row-major order, which fixes shape indices.
//
// If the outer restart cap fires the scan stops early with a warning;
// every assigned pixel still references a valid shape.
func (ps *PixelScan) ScanForShapes(threshold float32) {
	slog.Info("Scanning for shapes", "threshold", threshold)

	ps.shapes = ps.shapes[:0]
	for i := range ps.imageShapes {
		ps.imageShapes[i] = -1
	}

	ix := ps.indexer()
	frontier := make([]geom.Vector2i, 0, 64)

	outerIter := 0
	for {
		seed := -1
		for i, owner := range ps.imageShapes {
			if owner == -1 {
				seed = i
				break
			}
		}
		if seed == -1 {
			break
		}

		outerIter++
		if outerIter > maxOuterIterations {
			slog.Warn("Killing shape search: outer iteration cap hit",
				"cap", maxOuterIterations, "shapes", len(ps.shapes))
			break
		}

		pos := ix.Reverse(seed)
		sh := newShape(ps.image[seed], ps.imageSize, pos)
		ps.shapes = append(ps.shapes, sh)
		ps.imageShapes[seed] = len(ps.shapes) - 1
		frontier = append(frontier, pos)

		for len(frontier) > 0 {
			spotIndex := -1
			for i, q := range frontier {
				if ps.hasShape(q) {
					spotIndex = i
					break
				}
			}
			if spotIndex == -1 {
				break
			}

			spot := frontier[spotIndex]
			spotPix := ps.image[ix.IndexV(spot)]
			owner := ps.imageShapes[ix.IndexV(spot)]
			for _, off := range neighborOffsets {
				n := spot.Add(off)
				if ps.isOutsideImage(n) {
					continue
				}
				ni := ix.IndexV(n)
				if ps.imageShapes[ni] == -1 && ps.image[ni].SimilarTo(spotPix, threshold) {
					frontier = append(frontier, n)
					sh.InsertChunk(n)
					ps.imageShapes[ni] = owner
				}
			}

			frontier[spotIndex] = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		}
	}

	slog.Info("Scanned shapes", "count", len(ps.shapes))
}

// AverageColors replaces each shape's color with the arithmetic mean
// of its member pixels.
func (ps *PixelScan) AverageColors() {
	ix := ps.indexer()
	for _, sh := range ps.shapes {
		var sum pixel.PixelD
		b := sh.Bounds()
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				if sh.Has(geom.Vector2i{X: x, Y: y}) {
					sum = sum.AddF(ps.image[ix.Index(x, y)])
				}
			}
		}
		sh.SetColor(sum.Div(float64(sh.ChunkCount())).ToF())
	}
}

// CompressShapes compacts every shape's membership bitmap to its
// bounding box.
func (ps *PixelScan) CompressShapes() {
	for _, sh := range ps.shapes {
		sh.CompressChunks()
	}
}
