package scan

import (
	"testing"

	"github.com/cwbudde/pixelscan/internal/pixel"
)

// testSink is an in-memory raster recording writes.
type testSink struct {
	w, h int
	pix  []pixel.Pixel
}

func newTestSink(w, h int) *testSink {
	return &testSink{w: w, h: h, pix: make([]pixel.Pixel, w*h)}
}

func (s *testSink) Width() int { return s.w }

func (s *testSink) Height() int { return s.h }

func (s *testSink) Set(x, y int, p pixel.Pixel) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.pix[x+y*s.w] = p
}

func (s *testSink) at(x, y int) pixel.Pixel { return s.pix[x+y*s.w] }

func TestRenderShapesPaintsMembers(t *testing.T) {
	src := newGridSource(3, 3, pixel.Pixel{R: 200, G: 200, B: 200})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)

	sink := newTestSink(3, 3)
	ps.RenderShapes(sink)

	want := ps.Shapes()[0].Color().ToPixel()
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if sink.at(x, y) != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, sink.at(x, y), want)
			}
		}
	}
}

func TestRenderShapeOutOfRange(t *testing.T) {
	ps := scannedFixture(t)

	sink := newTestSink(4, 3)
	if ps.RenderShape(len(ps.Shapes()), sink) {
		t.Error("out-of-range index should render nothing")
	}
	if ps.RenderShape(-1, sink) {
		t.Error("negative index should render nothing")
	}
	for i, p := range sink.pix {
		if p != (pixel.Pixel{}) {
			t.Fatalf("pixel %d was written: %+v", i, p)
		}
	}

	if ps.RenderBorder(len(ps.Shapes()), sink) {
		t.Error("out-of-range border index should render nothing")
	}
}

func TestRenderShapeInvertsDarkBackground(t *testing.T) {
	// A nearly black shape flips the backdrop so it stays visible.
	src := newGridSource(2, 2, pixel.Pixel{R: 10, G: 10, B: 10})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)

	sink := newTestSink(4, 4)
	if !ps.RenderShape(0, sink) {
		t.Fatal("RenderShape failed for valid index")
	}

	bg := invertedBackground.ToPixel()
	if sink.at(3, 3) != bg {
		t.Errorf("background = %+v, want inverted %+v", sink.at(3, 3), bg)
	}
}

func TestRenderShapeKeepsBlackBackgroundForBrightShapes(t *testing.T) {
	src := newGridSource(2, 2, pixel.Pixel{R: 250, G: 250, B: 250})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)

	sink := newTestSink(4, 4)
	if !ps.RenderShape(0, sink) {
		t.Fatal("RenderShape failed for valid index")
	}

	if sink.at(3, 3) != (pixel.Pixel{}) {
		t.Errorf("background = %+v, want untouched black", sink.at(3, 3))
	}
}

func TestRenderBorderWritesOutlinePoints(t *testing.T) {
	src := newGridSource(3, 3, pixel.Pixel{R: 200, G: 200, B: 200})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)
	ps.CalculateBorders()

	sink := newTestSink(3, 3)
	if !ps.RenderBorder(0, sink) {
		t.Fatal("RenderBorder failed for valid index")
	}

	sh := ps.Shapes()[0]
	c := sh.Color().ToPixel()
	for _, e := range sh.OuterEdgePoints() {
		if e.X < 0 || e.Y < 0 || e.X >= 3 || e.Y >= 3 {
			continue
		}
		if sink.at(e.X, e.Y) != c {
			t.Fatalf("outline point %+v not painted", e)
		}
	}
}
