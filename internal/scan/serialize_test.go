package scan

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/geom"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

func scannedFixture(t *testing.T) *PixelScan {
	t.Helper()
	src := newGridSource(4, 3, pixel.Pixel{R: 90, G: 90, B: 90})
	src.set(3, 2, pixel.Pixel{R: 255})

	ps := mustScan(t, src)
	ps.ScanForShapes(10)
	ps.CalculateBorders()
	ps.CompressShapes()
	return ps
}

func TestSerializeIsDeterministic(t *testing.T) {
	ps := scannedFixture(t)

	var first, second bytes.Buffer
	if err := ps.Serialize(&first); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := ps.Serialize(&second); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("serializing the same scan twice produced different bytes")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	ps := scannedFixture(t)

	var out bytes.Buffer
	if err := ps.Serialize(&out); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	read, err := Read(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	// Reserializing what was read reproduces the stream byte for byte.
	var again bytes.Buffer
	if err := read.Serialize(&again); err != nil {
		t.Fatalf("Serialize after Read failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), again.Bytes()) {
		t.Error("serialize-deserialize-serialize is not the identity")
	}

	if read.ImageSize() != ps.ImageSize() {
		t.Errorf("image size = %+v, want %+v", read.ImageSize(), ps.ImageSize())
	}
	if read.HasBorders() != ps.HasBorders() {
		t.Errorf("has borders = %v, want %v", read.HasBorders(), ps.HasBorders())
	}
	if len(read.Shapes()) != len(ps.Shapes()) {
		t.Fatalf("shape count = %d, want %d", len(read.Shapes()), len(ps.Shapes()))
	}
	for i, sh := range read.Shapes() {
		orig := ps.Shapes()[i]
		if sh.Bounds() != orig.Bounds() {
			t.Errorf("shape %d bounds = %+v, want %+v", i, sh.Bounds(), orig.Bounds())
		}
		if sh.ChunkCount() != orig.ChunkCount() {
			t.Errorf("shape %d chunk count = %d, want %d", i, sh.ChunkCount(), orig.ChunkCount())
		}
		if sh.Color() != orig.Color() {
			t.Errorf("shape %d color = %+v, want %+v", i, sh.Color(), orig.Color())
		}
		if len(sh.OuterEdge()) != len(orig.OuterEdge()) {
			t.Errorf("shape %d outline length = %d, want %d", i, len(sh.OuterEdge()), len(orig.OuterEdge()))
		}
	}
}

func TestRoundTripPreservesMembership(t *testing.T) {
	ps := scannedFixture(t)

	var out bytes.Buffer
	if err := ps.Serialize(&out); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	read, err := Read(&out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	size := ps.ImageSize()
	for i, sh := range read.Shapes() {
		orig := ps.Shapes()[i]
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				spot := geom.Vector2i{X: x, Y: y}
				if sh.Has(spot) != orig.Has(spot) {
					t.Fatalf("shape %d membership differs at %v", i, spot)
				}
			}
		}
	}
}

func TestReadRefusesUnknownScanVersion(t *testing.T) {
	_, err := Read(strings.NewReader("v9\n0\n1 1\n0\n1\n0 0 0 \n0 "))
	if err == nil {
		t.Fatal("expected error for unknown scan version")
	}
	if errs.KindOf(err) != errs.InvalidFormat {
		t.Errorf("error kind = %v, want invalid format", errs.KindOf(err))
	}
}

func TestReadRefusesUnknownShapeVersion(t *testing.T) {
	data := "v1\n0\n1 1\n1\nv2.0\n"
	_, err := Read(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for unknown shape version")
	}
	if errs.KindOf(err) != errs.InvalidFormat {
		t.Errorf("error kind = %v, want invalid format", errs.KindOf(err))
	}
}

func TestReadRefusesTruncatedStream(t *testing.T) {
	ps := scannedFixture(t)

	var out bytes.Buffer
	if err := ps.Serialize(&out); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	truncated := out.Bytes()[:out.Len()/2]
	if _, err := Read(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error for truncated stream")
	}
}

func TestReadRefusesMalformedNumbers(t *testing.T) {
	_, err := Read(strings.NewReader("v1\nmaybe\n"))
	if err == nil {
		t.Fatal("expected error for malformed bool")
	}
	if errs.KindOf(err) != errs.InvalidFormat {
		t.Errorf("error kind = %v, want invalid format", errs.KindOf(err))
	}
}
