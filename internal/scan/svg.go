package scan

import (
	"bufio"
	"io"
	"log/slog"
	"sort"

	"github.com/cwbudde/pixelscan/internal/errs"
)

// ToSVG writes an SVG document with one filled path per shape. Shapes
// are painted back-to-front by bounding-box area, so larger regions go
// down first and smaller overlaps sit on top; shapes with equal area
// keep their scan order. Borders are computed first if missing.
func (ps *PixelScan) ToSVG(w io.Writer) error {
	if !ps.hasBorders {
		slog.Info("Scan has no borders yet, calculating them first")
		ps.CalculateBorders()
	}

	sorted := make([]*Shape, len(ps.shapes))
	copy(sorted, ps.shapes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bounds().Area() > sorted[j].Bounds().Area()
	})

	bw := bufio.NewWriter(w)

	width := ftoa(float32(ps.imageSize.X))
	height := ftoa(float32(ps.imageSize.Y))
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no" ?>` + "\n")
	bw.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="2" width="` +
		width + `" height="` + height + `" viewport="0 0 ` + width + ` ` + height + `">` + "\n")

	for _, sh := range sorted {
		edge := sh.OuterEdge()
		if len(edge) == 0 {
			continue
		}
		c := sh.Color()
		bw.WriteString(`  <path fill="rgb(` + ftoa(c.R*255) + `, ` + ftoa(c.G*255) + `, ` + ftoa(c.B*255) + `)" d="`)
		bw.WriteString("M " + ftoa(edge[0].X) + " " + ftoa(edge[0].Y) + " ")
		for _, e := range edge[1:] {
			bw.WriteString(" L " + ftoa(e.X) + " " + ftoa(e.Y))
		}
		bw.WriteString(` Z" />` + "\n")
	}

	bw.WriteString("</svg>")

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoFailure, err)
	}
	return nil
}
