package geom

import "math"

// Vector2 is a float 2-vector used for outline coordinates.
type Vector2 struct {
	X, Y float32
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }

func (v Vector2) Neg() Vector2 { return Vector2{-v.X, -v.Y} }

// Scale multiplies both components by fac.
func (v Vector2) Scale(fac float32) Vector2 { return Vector2{v.X * fac, v.Y * fac} }

func (v Vector2) Dot(o Vector2) float32 { return v.X*o.X + v.Y*o.Y }

func (v Vector2) SqrMag() float32 { return v.X*v.X + v.Y*v.Y }

func (v Vector2) Mag() float32 { return float32(math.Sqrt(float64(v.SqrMag()))) }

// Vector2i is an integer 2-vector used for pixel coordinates and sizes.
type Vector2i struct {
	X, Y int
}

func (v Vector2i) Add(o Vector2i) Vector2i { return Vector2i{v.X + o.X, v.Y + o.Y} }

func (v Vector2i) Sub(o Vector2i) Vector2i { return Vector2i{v.X - o.X, v.Y - o.Y} }

func (v Vector2i) Neg() Vector2i { return Vector2i{-v.X, -v.Y} }

// ToVector2 converts to float coordinates.
func (v Vector2i) ToVector2() Vector2 { return Vector2{float32(v.X), float32(v.Y)} }

// Bounds2di is an inclusive integer rectangle.
type Bounds2di struct {
	Min, Max Vector2i
}

func (b Bounds2di) Width() int  { return b.Max.X - b.Min.X }
func (b Bounds2di) Height() int { return b.Max.Y - b.Min.Y }
func (b Bounds2di) Area() int   { return b.Width() * b.Height() }

func (b Bounds2di) Size() Vector2i { return b.Max.Sub(b.Min) }

// Extend grows the rectangle to contain v.
func (b *Bounds2di) Extend(v Vector2i) {
	if v.X < b.Min.X {
		b.Min.X = v.X
	}
	if v.Y < b.Min.Y {
		b.Min.Y = v.Y
	}
	if v.X > b.Max.X {
		b.Max.X = v.X
	}
	if v.Y > b.Max.Y {
		b.Max.Y = v.Y
	}
}

// Indexer maps 2-D coordinates onto a row-major buffer of the given width.
type Indexer struct {
	Width int
}

func (ix Indexer) Index(x, y int) int { return x + y*ix.Width }

func (ix Indexer) IndexV(v Vector2i) int { return v.X + v.Y*ix.Width }

func (ix Indexer) Reverse(i int) Vector2i { return Vector2i{i % ix.Width, i / ix.Width} }
