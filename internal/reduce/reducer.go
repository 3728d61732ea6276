// Package reduce implements the pre-processing smoother: three passes
// of neighborhood averaging and a popularity vote that snaps each
// pixel to its most representative neighbor.
package reduce

import (
	"log/slog"

	"github.com/cwbudde/pixelscan/internal/imagefile"
	"github.com/cwbudde/pixelscan/internal/pixel"
)

// DefaultSimilarity is the average-similarity threshold used when the
// caller does not supply one.
const DefaultSimilarity = 20

// Reducer smooths an image by replacing each pixel with the original
// pixel at its most popular similarly-averaged neighbor.
//
// All three passes iterate the square window
// [x-reach, x+reach) x [y-reach, y+reach), clipped to the image. The
// window is half-open and excludes the +reach row and column; this
// asymmetry is part of the reducer's contract and is preserved
// bit-exact.
type Reducer struct {
	reach      int
	threshold  float32
	similarity float32
}

// New creates a reducer. reach is the half-side-length of the
// neighborhood window, threshold bounds the average difference a vote
// may cross, similarity decides which averages count as matching.
func New(reach int, threshold, similarity float32) *Reducer {
	return &Reducer{reach: reach, threshold: threshold, similarity: similarity}
}

// Reduce runs the three passes over from and returns the smoothed
// image. The input is not modified and no state is shared between
// passes.
func (r *Reducer) Reduce(from pixel.Source) *imagefile.Image {
	slog.Info("Reducing image",
		"width", from.Width(), "height", from.Height(),
		"reach", r.reach, "threshold", r.threshold, "similarity", r.similarity)

	averages := averagesOf(from, r.reach)
	counts := similarNeighborCounts(averages, r.reach, r.similarity)
	return mostPopularNeighbors(from, averages, counts, r.reach, r.threshold)
}

// windowBounds clips [c-reach, c+reach) to [0, limit).
func windowBounds(c, reach, limit int) (lo, hi int) {
	lo = c - reach
	if lo < 0 {
		lo = 0
	}
	hi = c + reach
	if hi > limit {
		hi = limit
	}
	return lo, hi
}

// averagesOf computes the windowed arithmetic mean around every pixel.
// A pixel whose window clips to nothing keeps its own value.
func averagesOf(from pixel.Source, reach int) *imagefile.Image {
	w, h := from.Width(), from.Height()
	averages := imagefile.NewImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB, count int
			loX, hiX := windowBounds(x, reach, w)
			loY, hiY := windowBounds(y, reach, h)
			for ny := loY; ny < hiY; ny++ {
				for nx := loX; nx < hiX; nx++ {
					n := from.Get(nx, ny)
					sumR += int(n.R)
					sumG += int(n.G)
					sumB += int(n.B)
					count++
				}
			}

			if count == 0 {
				averages.Set(x, y, from.Get(x, y))
				continue
			}
			averages.Set(x, y, pixel.Pixel{
				R: uint8(float32(sumR) / float32(count)),
				G: uint8(float32(sumG) / float32(count)),
				B: uint8(float32(sumB) / float32(count)),
			})
		}
	}

	return averages
}

// similarNeighborCounts counts, for every pixel, the window neighbors
// whose average matches the pixel's own average within similarity.
func similarNeighborCounts(averages *imagefile.Image, reach int, similarity float32) []int {
	w, h := averages.Width(), averages.Height()
	counts := make([]int, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mine := averages.Get(x, y)
			loX, hiX := windowBounds(x, reach, w)
			loY, hiY := windowBounds(y, reach, h)
			for ny := loY; ny < hiY; ny++ {
				for nx := loX; nx < hiX; nx++ {
					if mine.SimilarTo(averages.Get(nx, ny), similarity) {
						counts[x+y*w]++
					}
				}
			}
		}
	}

	return counts
}

// mostPopularNeighbors picks, for every pixel, the window neighbor
// with the highest count whose average differs by less than threshold,
// and outputs the original pixel at that neighbor's coordinate. Ties
// keep the first candidate in row-major order; when no neighbor
// qualifies the pixel keeps its own coordinate.
func mostPopularNeighbors(from pixel.Source, averages *imagefile.Image, counts []int, reach int, threshold float32) *imagefile.Image {
	w, h := averages.Width(), averages.Height()
	output := imagefile.NewImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			highestCount := 0
			highestX, highestY := x, y

			mine := averages.Get(x, y)
			loX, hiX := windowBounds(x, reach, w)
			loY, hiY := windowBounds(y, reach, h)
			for ny := loY; ny < hiY; ny++ {
				for nx := loX; nx < hiX; nx++ {
					difference := mine.DifferenceFrom(averages.Get(nx, ny))
					popularity := counts[nx+ny*w]
					if difference < threshold && popularity > highestCount {
						highestCount = popularity
						highestX, highestY = nx, ny
					}
				}
			}

			output.Set(x, y, from.Get(highestX, highestY))
		}
	}

	return output
}
