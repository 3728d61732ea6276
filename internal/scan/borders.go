package scan

import (
	"log/slog"

	"github.com/cwbudde/pixelscan/internal/geom"
)

// CalculateBorders traces each shape's outline as an ordered closed
// polyline. The tracer walks the 4-connected dual of the shape: spot
// is a grid cell just outside a shape pixel and edge is the facing
// direction, so emitted outline points sit on half-edges between
// pixels. The interior stays on the walker's left.
func (ps *PixelScan) CalculateBorders() {
	slog.Info("Calculating shape borders")

	for _, sh := range ps.shapes {
		traceOutline(sh)
	}
	ps.hasBorders = true
}

func traceOutline(sh *Shape) {
	const firstDir = geom.North
	edge := firstDir

	// Find a piece on the outer edge and follow it around.
	var first, spot geom.Vector2i
	b := sh.Bounds()
	for x := b.Min.X; x <= b.Max.X; x++ {
		if sh.Has(geom.Vector2i{X: x, Y: b.Min.Y}) {
			first = geom.Vector2i{X: x, Y: b.Min.Y - 1}
			spot = first
			break
		}
	}

	emit := func() {
		sh.insertOuterEdge(spot.ToVector2().Add(edge.Dir().Scale(0.5)))
		sh.insertOuterEdgePoint(spot.Add(edge.DirI()))
	}

	maxIter := sh.ChunkCount()*4 + 1
	for iter := 0; iter < maxIter; iter++ {
		ahead := spot.Add(edge.TurnedBy(1).DirI())
		switch {
		case sh.Has(ahead):
			emit()
			edge = edge.TurnedBy(1)
		case sh.Has(ahead.Add(edge.DirI())):
			emit()
			spot = ahead
		default:
			emit()
			spot = ahead.Add(edge.DirI())
			edge = edge.TurnedBy(-1)
		}

		if spot == first && edge == firstDir {
			break
		}
	}
}
