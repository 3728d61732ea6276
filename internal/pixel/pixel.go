// Package pixel holds the RGB sample types and the similarity metric
// shared by the scanner and the reducer.
package pixel

import "math"

// normDivisor rescales a byte-space threshold for use against
// normalized components: 441/3, where 441 approximates the diagonal
// of the 0-255 RGB cube.
const normDivisor = 441.0 / 3.0

// Pixel is an 8-bit RGB sample.
type Pixel struct {
	R, G, B uint8
}

// ToF converts to normalized float components.
func (p Pixel) ToF() PixelF {
	return PixelF{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255}
}

// ToD converts to normalized double components.
func (p Pixel) ToD() PixelD {
	return PixelD{float64(p.R) / 255, float64(p.G) / 255, float64(p.B) / 255}
}

// DifferenceFrom returns the Euclidean distance to o in 0-255 space.
func (p Pixel) DifferenceFrom(o Pixel) float32 {
	dr := float32(int(p.R) - int(o.R))
	dg := float32(int(p.G) - int(o.G))
	db := float32(int(p.B) - int(o.B))
	return float32(math.Sqrt(float64(dr*dr + dg*dg + db*db)))
}

// SimilarTo reports whether the Euclidean distance to o is within
// threshold, both interpreted in 0-255 space.
func (p Pixel) SimilarTo(o Pixel, threshold float32) bool {
	return p.DifferenceFrom(o) <= threshold
}

// PixelF is a normalized float RGB sample with components in [0,1].
type PixelF struct {
	R, G, B float32
}

// ToPixel converts back to byte components.
func (p PixelF) ToPixel() Pixel {
	return Pixel{uint8(p.R * 255), uint8(p.G * 255), uint8(p.B * 255)}
}

// SqrMag is the squared magnitude of the components, used to detect
// nearly-black colors.
func (p PixelF) SqrMag() float32 {
	return p.R*p.R + p.G*p.G + p.B*p.B
}

// DifferenceFrom returns the Euclidean distance to o in normalized space.
func (p PixelF) DifferenceFrom(o PixelF) float32 {
	dr := p.R - o.R
	dg := p.G - o.G
	db := p.B - o.B
	return float32(math.Sqrt(float64(dr*dr + dg*dg + db*db)))
}

// SimilarTo reports whether p and o are within threshold of each other.
// The threshold is given in 0-255 space and rescaled so that callers
// can use one threshold value against either representation.
func (p PixelF) SimilarTo(o PixelF, threshold float32) bool {
	return p.DifferenceFrom(o) <= threshold/normDivisor
}

// PixelD is a double-precision RGB accumulator.
type PixelD struct {
	R, G, B float64
}

// AddF accumulates a float sample.
func (p PixelD) AddF(o PixelF) PixelD {
	return PixelD{p.R + float64(o.R), p.G + float64(o.G), p.B + float64(o.B)}
}

// Div divides all components by n.
func (p PixelD) Div(n float64) PixelD {
	return PixelD{p.R / n, p.G / n, p.B / n}
}

// ToF converts to float components.
func (p PixelD) ToF() PixelF {
	return PixelF{float32(p.R), float32(p.G), float32(p.B)}
}
