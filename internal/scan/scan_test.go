package scan

import (
	"testing"

	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// gridSource is a minimal in-memory pixel source for tests.
type gridSource struct {
	w, h int
	pix  []pixel.Pixel
}

func newGridSource(w, h int, fill pixel.Pixel) *gridSource {
	g := &gridSource{w: w, h: h, pix: make([]pixel.Pixel, w*h)}
	for i := range g.pix {
		g.pix[i] = fill
	}
	return g
}

func (g *gridSource) Width() int { return g.w }

func (g *gridSource) Height() int { return g.h }

func (g *gridSource) Get(x, y int) pixel.Pixel { return g.pix[x+y*g.w] }

func (g *gridSource) set(x, y int, p pixel.Pixel) { g.pix[x+y*g.w] = p }

func mustScan(t *testing.T, src pixel.Source) *PixelScan {
	t.Helper()
	ps, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ps
}

func TestNewRejectsEmptyImage(t *testing.T) {
	if _, err := New(newGridSource(0, 4, pixel.Pixel{})); err == nil {
		t.Error("expected error for zero-width image")
	}
	if _, err := New(newGridSource(4, 0, pixel.Pixel{})); err == nil {
		t.Error("expected error for zero-height image")
	}
}

func TestScanUniformImage(t *testing.T) {
	// A 4x4 grid of one color collapses into a single shape covering
	// the whole image.
	ps := mustScan(t, newGridSource(4, 4, pixel.Pixel{R: 100, G: 100, B: 100}))

	ps.ScanForShapes(10)

	if len(ps.Shapes()) != 1 {
		t.Fatalf("shapes = %d, want 1", len(ps.Shapes()))
	}
	sh := ps.Shapes()[0]
	if sh.ChunkCount() != 16 {
		t.Errorf("chunk count = %d, want 16", sh.ChunkCount())
	}
	want := geom.Bounds2di{Max: geom.Vector2i{X: 3, Y: 3}}
	if sh.Bounds() != want {
		t.Errorf("bounds = %+v, want %+v", sh.Bounds(), want)
	}

	ps.CalculateBorders()
	if got := len(sh.OuterEdge()); got != 16 {
		t.Errorf("outline length = %d, want 16", got)
	}
}

func TestScanTwoColorSplit(t *testing.T) {
	// Left column red, right column blue. Row-major seeding discovers
	// the red shape first.
	src := newGridSource(2, 2, pixel.Pixel{R: 255})
	src.set(1, 0, pixel.Pixel{B: 255})
	src.set(1, 1, pixel.Pixel{B: 255})

	ps := mustScan(t, src)
	ps.ScanForShapes(20)

	if len(ps.Shapes()) != 2 {
		t.Fatalf("shapes = %d, want 2", len(ps.Shapes()))
	}

	red, blue := ps.Shapes()[0], ps.Shapes()[1]
	if red.Color() != (pixel.PixelF{R: 1}) {
		t.Errorf("first shape color = %+v, want red", red.Color())
	}
	if blue.Color() != (pixel.PixelF{B: 1}) {
		t.Errorf("second shape color = %+v, want blue", blue.Color())
	}
	if red.ChunkCount() != 2 || blue.ChunkCount() != 2 {
		t.Errorf("chunk counts = %d/%d, want 2/2", red.ChunkCount(), blue.ChunkCount())
	}
}

func TestScanSinglePixel(t *testing.T) {
	ps := mustScan(t, newGridSource(1, 1, pixel.Pixel{R: 42, G: 42, B: 42}))

	ps.ScanForShapes(10)
	ps.CalculateBorders()

	if len(ps.Shapes()) != 1 {
		t.Fatalf("shapes = %d, want 1", len(ps.Shapes()))
	}
	sh := ps.Shapes()[0]
	if sh.Bounds() != (geom.Bounds2di{}) {
		t.Errorf("bounds = %+v, want origin-only", sh.Bounds())
	}
	if got := len(sh.OuterEdge()); got != 4 {
		t.Errorf("outline length = %d, want 4", got)
	}
	if got := len(sh.OuterEdgePoints()); got != 4 {
		t.Errorf("outline point length = %d, want 4", got)
	}
}

func TestScanAssignsEveryPixel(t *testing.T) {
	src := newGridSource(8, 8, pixel.Pixel{R: 10, G: 20, B: 30})
	src.set(5, 5, pixel.Pixel{R: 200})
	src.set(6, 5, pixel.Pixel{R: 200})

	ps := mustScan(t, src)
	ps.ScanForShapes(15)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			owner := ps.ShapeIndexAt(geom.Vector2i{X: x, Y: y})
			if owner < 0 || owner >= len(ps.Shapes()) {
				t.Fatalf("pixel (%d,%d) has owner %d outside [0,%d)", x, y, owner, len(ps.Shapes()))
			}
		}
	}
}

func TestScanTransitiveSimilarity(t *testing.T) {
	// A smooth gradient where each pixel is similar to its neighbor
	// but the ends differ sharply still forms one shape, because
	// membership propagates along the walk.
	src := newGridSource(8, 1, pixel.Pixel{})
	for x := 0; x < 8; x++ {
		v := uint8(x * 10)
		src.set(x, 0, pixel.Pixel{R: v, G: v, B: v})
	}

	ps := mustScan(t, src)
	ps.ScanForShapes(20)

	if len(ps.Shapes()) != 1 {
		t.Errorf("shapes = %d, want 1 (transitive absorption)", len(ps.Shapes()))
	}
}

func TestScanWatchdogCap(t *testing.T) {
	// Every pixel differs from all its neighbors, so each seed only
	// claims itself. 72x72 = 5184 required seeds trip the 5000 cap;
	// the partial result must stay consistent.
	src := newGridSource(72, 72, pixel.Pixel{})
	for y := 0; y < 72; y++ {
		for x := 0; x < 72; x++ {
			src.set(x, y, pixel.Pixel{R: uint8(x), G: uint8(y), B: uint8((x + y) % 251)})
		}
	}

	ps := mustScan(t, src)
	ps.ScanForShapes(0)

	if got := len(ps.Shapes()); got != maxOuterIterations {
		t.Errorf("shapes = %d, want exactly the cap %d", got, maxOuterIterations)
	}

	assigned := 0
	for y := 0; y < 72; y++ {
		for x := 0; x < 72; x++ {
			owner := ps.ShapeIndexAt(geom.Vector2i{X: x, Y: y})
			if owner >= len(ps.Shapes()) {
				t.Fatalf("pixel (%d,%d) references shape %d of %d", x, y, owner, len(ps.Shapes()))
			}
			if owner >= 0 {
				assigned++
			}
		}
	}
	if assigned != maxOuterIterations {
		t.Errorf("assigned pixels = %d, want %d", assigned, maxOuterIterations)
	}
}

func TestAverageColors(t *testing.T) {
	// One shape of two pixels: (100,100,100) and (200,200,200) at
	// threshold wide enough to merge them.
	src := newGridSource(2, 1, pixel.Pixel{R: 100, G: 100, B: 100})
	src.set(1, 0, pixel.Pixel{R: 200, G: 200, B: 200})

	ps := mustScan(t, src)
	ps.ScanForShapes(250)

	if len(ps.Shapes()) != 1 {
		t.Fatalf("shapes = %d, want 1", len(ps.Shapes()))
	}

	ps.AverageColors()

	got := ps.Shapes()[0].Color()
	want := float32(150.0 / 255.0)
	if diff := got.R - want; diff < -1e-5 || diff > 1e-5 {
		t.Errorf("averaged R = %v, want ~%v", got.R, want)
	}
}

func TestChunkCountMatchesBitmap(t *testing.T) {
	src := newGridSource(6, 6, pixel.Pixel{R: 50, G: 50, B: 50})
	src.set(2, 2, pixel.Pixel{R: 250})
	src.set(3, 2, pixel.Pixel{R: 250})
	src.set(2, 3, pixel.Pixel{R: 250})

	ps := mustScan(t, src)
	ps.ScanForShapes(15)

	for i, sh := range ps.Shapes() {
		b := sh.Bounds()
		pop := 0
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				if sh.Has(geom.Vector2i{X: x, Y: y}) {
					pop++
				}
			}
		}
		if pop != sh.ChunkCount() {
			t.Errorf("shape %d: popcount %d != chunk count %d", i, pop, sh.ChunkCount())
		}
	}
}

func TestOutlineEdgeAndPointsAgree(t *testing.T) {
	src := newGridSource(5, 4, pixel.Pixel{R: 80, G: 80, B: 80})
	src.set(4, 3, pixel.Pixel{B: 255})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)
	ps.CalculateBorders()

	if !ps.HasBorders() {
		t.Fatal("HasBorders should be true after CalculateBorders")
	}

	for i, sh := range ps.Shapes() {
		edge := sh.OuterEdge()
		points := sh.OuterEdgePoints()
		if len(edge) == 0 {
			t.Errorf("shape %d: empty outline", i)
		}
		if len(edge) != len(points) {
			t.Errorf("shape %d: outline lengths differ: %d vs %d", i, len(edge), len(points))
		}
	}
}
