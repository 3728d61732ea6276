package scan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// Scan data is laid out as whitespace-separated text with version tags
// so that a scan can be written to disk and read back losslessly:
//
//	v1
//	[has borders]
//	[image width] [image height]
//	[shape count]
//	[shapes]
//	[image count]
//	[image colors]
//	[image shapes]
//
// and each shape as:
//
//	v1.1
//	[R] [G] [B]
//	[min bounds x] [min bounds y] [max bounds x] [max bounds y]
//	[chunks width] [chunks height]
//	[chunks offset x] [chunks offset y]
//	[chunk count]
//	[chunks length]
//	[chunks]
//	[border length]
//	[border]
//	[border points length]
//	[border points]

const (
	scanVersionTag  = "v1"
	shapeVersionTag = "v1.1"
)

// ftoa formats a float32 with the shortest representation that parses
// back exactly, keeping serialization round-trip stable.
func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Serialize writes the scan in the v1 layout.
func (ps *PixelScan) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, scanVersionTag)
	fmt.Fprintln(bw, boolBit(ps.hasBorders))
	fmt.Fprintln(bw, ps.imageSize.X, ps.imageSize.Y)
	fmt.Fprintln(bw, len(ps.shapes))
	for _, sh := range ps.shapes {
		sh.serialize(bw)
	}
	fmt.Fprintln(bw, len(ps.image))
	for _, c := range ps.image {
		fmt.Fprintf(bw, "%s %s %s ", ftoa(c.R), ftoa(c.G), ftoa(c.B))
	}
	fmt.Fprintln(bw)
	for _, owner := range ps.imageShapes {
		fmt.Fprintf(bw, "%d ", owner)
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoFailure, err)
	}
	return nil
}

func (s *Shape) serialize(bw *bufio.Writer) {
	fmt.Fprintln(bw, shapeVersionTag)
	fmt.Fprintln(bw, ftoa(s.color.R), ftoa(s.color.G), ftoa(s.color.B))
	fmt.Fprintln(bw, s.bounds.Min.X, s.bounds.Min.Y, s.bounds.Max.X, s.bounds.Max.Y)
	fmt.Fprintln(bw, s.chunksSize.X, s.chunksSize.Y)
	fmt.Fprintln(bw, s.chunksOffset.X, s.chunksOffset.Y)
	fmt.Fprintln(bw, s.chunkCount)

	fmt.Fprintln(bw, len(s.chunks))
	for _, bit := range s.chunks {
		fmt.Fprintf(bw, "%d ", boolBit(bit))
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, len(s.outerEdge))
	for _, e := range s.outerEdge {
		fmt.Fprintf(bw, "%s %s ", ftoa(e.X), ftoa(e.Y))
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, len(s.outerEdgePoints))
	for _, e := range s.outerEdgePoints {
		fmt.Fprintf(bw, "%d %d ", e.X, e.Y)
	}
	fmt.Fprintln(bw)
}

// tokenReader pulls whitespace-separated tokens from a stream.
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (tr *tokenReader) nextToken() (string, error) {
	if !tr.sc.Scan() {
		if err := tr.sc.Err(); err != nil {
			return "", errs.Wrap(errs.IoFailure, err)
		}
		return "", errs.New(errs.InvalidFormat, "unexpected end of scan data")
	}
	return tr.sc.Text(), nil
}

func (tr *tokenReader) nextInt() (int, error) {
	w, err := tr.nextToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, errs.Newf(errs.InvalidFormat, "expected integer, got %q", w)
	}
	return n, nil
}

func (tr *tokenReader) nextFloat() (float32, error) {
	w, err := tr.nextToken()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(w, 32)
	if err != nil {
		return 0, errs.Newf(errs.InvalidFormat, "expected float, got %q", w)
	}
	return float32(f), nil
}

func (tr *tokenReader) nextBool() (bool, error) {
	n, err := tr.nextInt()
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// Read deserializes a scan written by Serialize. Unknown version tags
// are refused.
func Read(r io.Reader) (*PixelScan, error) {
	tr := newTokenReader(r)

	version, err := tr.nextToken()
	if err != nil {
		return nil, err
	}
	if version != scanVersionTag {
		return nil, errs.Newf(errs.InvalidFormat, "scan version %q does not match %q", version, scanVersionTag)
	}

	ps := &PixelScan{}
	if ps.hasBorders, err = tr.nextBool(); err != nil {
		return nil, err
	}
	if ps.imageSize.X, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if ps.imageSize.Y, err = tr.nextInt(); err != nil {
		return nil, err
	}

	shapeCount, err := tr.nextInt()
	if err != nil {
		return nil, err
	}
	if shapeCount < 0 {
		return nil, errs.Newf(errs.InvalidFormat, "negative shape count %d", shapeCount)
	}
	ps.shapes = make([]*Shape, shapeCount)
	for i := range ps.shapes {
		if ps.shapes[i], err = readShape(tr, ps.imageSize); err != nil {
			return nil, err
		}
	}

	imageCount, err := tr.nextInt()
	if err != nil {
		return nil, err
	}
	if imageCount < 0 {
		return nil, errs.Newf(errs.InvalidFormat, "negative image count %d", imageCount)
	}
	ps.image = make([]pixel.PixelF, imageCount)
	for i := range ps.image {
		if ps.image[i].R, err = tr.nextFloat(); err != nil {
			return nil, err
		}
		if ps.image[i].G, err = tr.nextFloat(); err != nil {
			return nil, err
		}
		if ps.image[i].B, err = tr.nextFloat(); err != nil {
			return nil, err
		}
	}

	ps.imageShapes = make([]int, imageCount)
	for i := range ps.imageShapes {
		if ps.imageShapes[i], err = tr.nextInt(); err != nil {
			return nil, err
		}
	}

	return ps, nil
}

func readShape(tr *tokenReader, imageSize geom.Vector2i) (*Shape, error) {
	version, err := tr.nextToken()
	if err != nil {
		return nil, err
	}
	if version != shapeVersionTag {
		return nil, errs.Newf(errs.InvalidFormat, "shape version %q does not match %q", version, shapeVersionTag)
	}

	s := &Shape{}
	if s.color.R, err = tr.nextFloat(); err != nil {
		return nil, err
	}
	if s.color.G, err = tr.nextFloat(); err != nil {
		return nil, err
	}
	if s.color.B, err = tr.nextFloat(); err != nil {
		return nil, err
	}
	if s.bounds.Min.X, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.bounds.Min.Y, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.bounds.Max.X, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.bounds.Max.Y, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.chunksSize.X, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.chunksSize.Y, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.chunksOffset.X, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.chunksOffset.Y, err = tr.nextInt(); err != nil {
		return nil, err
	}
	if s.chunkCount, err = tr.nextInt(); err != nil {
		return nil, err
	}

	chunksLen, err := tr.nextInt()
	if err != nil {
		return nil, err
	}
	if chunksLen < 0 {
		return nil, errs.Newf(errs.InvalidFormat, "negative chunks length %d", chunksLen)
	}
	s.chunks = make([]bool, chunksLen)
	for i := range s.chunks {
		if s.chunks[i], err = tr.nextBool(); err != nil {
			return nil, err
		}
	}

	edgeLen, err := tr.nextInt()
	if err != nil {
		return nil, err
	}
	if edgeLen < 0 {
		return nil, errs.Newf(errs.InvalidFormat, "negative border length %d", edgeLen)
	}
	s.outerEdge = make([]geom.Vector2, edgeLen)
	for i := range s.outerEdge {
		if s.outerEdge[i].X, err = tr.nextFloat(); err != nil {
			return nil, err
		}
		if s.outerEdge[i].Y, err = tr.nextFloat(); err != nil {
			return nil, err
		}
	}

	pointLen, err := tr.nextInt()
	if err != nil {
		return nil, err
	}
	if pointLen < 0 {
		return nil, errs.Newf(errs.InvalidFormat, "negative border point length %d", pointLen)
	}
	s.outerEdgePoints = make([]geom.Vector2i, pointLen)
	for i := range s.outerEdgePoints {
		if s.outerEdgePoints[i].X, err = tr.nextInt(); err != nil {
			return nil, err
		}
		if s.outerEdgePoints[i].Y, err = tr.nextInt(); err != nil {
			return nil, err
		}
	}

	// An uncompressed bitmap is image-sized with a zero offset; anything
	// else came from compression.
	s.compressed = s.chunksOffset != (geom.Vector2i{}) || s.chunksSize != imageSize

	return s, nil
}
