package geometry

import (
	"fmt"
	"math"
)

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist2 returns the squared distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.Dist2(q))
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Rect is an axis-aligned box given by its upper-left and lower-right
// corners.
type Rect struct {
	UL Point
	LR Point
}

// RectFromSize builds a rect from its upper-left corner and size.
func RectFromSize(ul Point, width, height float64) Rect {
	return Rect{UL: ul, LR: Point{X: ul.X + width, Y: ul.Y + height}}
}

// Width returns LR.X - UL.X.
func (r Rect) Width() float64 { return r.LR.X - r.UL.X }

// Height returns LR.Y - UL.Y.
func (r Rect) Height() float64 { return r.LR.Y - r.UL.Y }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: (r.UL.X + r.LR.X) / 2, Y: (r.UL.Y + r.LR.Y) / 2}
}

// Contains reports whether p lies strictly inside r widened by pad.
func (r Rect) Contains(p Point, pad float64) bool {
	return p.X > r.UL.X-pad && p.X < r.LR.X+pad &&
		p.Y > r.UL.Y-pad && p.Y < r.LR.Y+pad
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{UL: r.UL.Add(d), LR: r.LR.Add(d)}
}

// Union returns the smallest rect holding r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		UL: Point{X: math.Min(r.UL.X, o.UL.X), Y: math.Min(r.UL.Y, o.UL.Y)},
		LR: Point{X: math.Max(r.LR.X, o.LR.X), Y: math.Max(r.LR.Y, o.LR.Y)},
	}
}

// Canon returns r with its corners ordered.
func (r Rect) Canon() Rect {
	if r.UL.X > r.LR.X {
		r.UL.X, r.LR.X = r.LR.X, r.UL.X
	}
	if r.UL.Y > r.LR.Y {
		r.UL.Y, r.LR.Y = r.LR.Y, r.UL.Y
	}
	return r
}

// String formats the rect as "(x, y)-(x, y)".
func (r Rect) String() string {
	return r.UL.String() + "-" + r.LR.String()
}
