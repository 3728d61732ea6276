package scan

import (
	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// Shape is one contiguous region of color-similar pixels: its average
// color, tight bounding box, membership bitmap and traced outline.
//
// The bitmap has two representations. Uncompressed, it is sized to the
// whole image with a zero offset and coordinates index it directly.
// After CompressChunks it is sized to the bounding box and coordinates
// are shifted by the offset before indexing. Has works on both.
type Shape struct {
	color  pixel.PixelF
	bounds geom.Bounds2di

	chunks       []bool
	chunksSize   geom.Vector2i
	chunksOffset geom.Vector2i
	chunkCount   int
	compressed   bool

	outerEdge       []geom.Vector2
	outerEdgePoints []geom.Vector2i
}

// newShape creates a shape seeded with a single chunk.
func newShape(color pixel.PixelF, imageSize, firstChunk geom.Vector2i) *Shape {
	s := &Shape{
		color:      color,
		bounds:     geom.Bounds2di{Min: firstChunk, Max: firstChunk},
		chunks:     make([]bool, imageSize.X*imageSize.Y),
		chunksSize: imageSize,
		chunkCount: 1,
	}
	s.chunks[s.indexer().IndexV(firstChunk)] = true
	return s
}

func (s *Shape) indexer() geom.Indexer { return geom.Indexer{Width: s.chunksSize.X} }

func (s *Shape) Color() pixel.PixelF { return s.color }

func (s *Shape) SetColor(c pixel.PixelF) { s.color = c }

func (s *Shape) Bounds() geom.Bounds2di { return s.bounds }

func (s *Shape) ChunkCount() int { return s.chunkCount }

// OuterEdge is the traced outline in half-integer coordinates.
func (s *Shape) OuterEdge() []geom.Vector2 { return s.outerEdge }

// OuterEdgePoints is the integer twin of OuterEdge, in the same order.
func (s *Shape) OuterEdgePoints() []geom.Vector2i { return s.outerEdgePoints }

// Has reports whether the pixel at spot belongs to the shape.
func (s *Shape) Has(spot geom.Vector2i) bool {
	spot = spot.Add(s.chunksOffset)
	if spot.X < 0 || spot.Y < 0 || spot.X >= s.chunksSize.X || spot.Y >= s.chunksSize.Y {
		return false
	}
	return s.chunks[s.indexer().IndexV(spot)]
}

// InsertChunk adds the pixel at to the shape and grows the bounding
// box. Inserting into a compressed shape is an invalid state.
func (s *Shape) InsertChunk(at geom.Vector2i) error {
	if s.compressed {
		return errs.New(errs.InvalidState, "cannot insert chunks into a compressed shape")
	}
	s.bounds.Extend(at)
	s.chunks[s.indexer().IndexV(at)] = true
	s.chunkCount++
	return nil
}

func (s *Shape) insertOuterEdge(at geom.Vector2) {
	s.outerEdge = append(s.outerEdge, at)
}

func (s *Shape) insertOuterEdgePoint(at geom.Vector2i) {
	s.outerEdgePoints = append(s.outerEdgePoints, at)
}

// CompressChunks shrinks the membership bitmap from image-sized to
// bounding-box-sized. Idempotent; Has answers identically before and
// after.
func (s *Shape) CompressChunks() {
	if s.compressed {
		return
	}

	w := s.bounds.Width() + 1
	h := s.bounds.Height() + 1
	compact := make([]bool, w*h)
	ix := geom.Indexer{Width: w}

	for y := s.bounds.Min.Y; y <= s.bounds.Max.Y; y++ {
		for x := s.bounds.Min.X; x <= s.bounds.Max.X; x++ {
			compact[ix.Index(x-s.bounds.Min.X, y-s.bounds.Min.Y)] = s.chunks[s.indexer().Index(x, y)]
		}
	}

	s.chunksSize = geom.Vector2i{X: w, Y: h}
	s.chunksOffset = s.bounds.Min.Neg()
	s.chunks = compact
	s.compressed = true
}
