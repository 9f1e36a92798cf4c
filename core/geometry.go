package core

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Point is a position in 2D space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector pointing from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float32 {
	return math32.Hypot(p.X-q.X, p.Y-q.Y)
}

// Vector is a displacement in 2D space.
type Vector struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Size is a width and height.
type Size struct {
	Width, Height float32
}

// Infinite is a size with both dimensions set to +Inf. It is used for
// text bounds that should never wrap or clip.
var Infinite = Size{Width: math32.Inf(1), Height: math32.Inf(1)}

// Rectangle is an axis-aligned rectangle with its origin at the top-left.
type Rectangle struct {
	X, Y          float32
	Width, Height float32
}

// Rect is shorthand for Rectangle{X: x, Y: y, Width: w, Height: h}.
func Rect(x, y, w, h float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

// NewRectangle creates a rectangle from its top-left corner and size.
func NewRectangle(p Point, s Size) Rectangle {
	return Rectangle{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// WithSize creates a rectangle at the origin with the given size.
func WithSize(s Size) Rectangle {
	return Rectangle{Width: s.Width, Height: s.Height}
}

// Position returns the top-left corner.
func (r Rectangle) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the width and height.
func (r Rectangle) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Center returns the center point.
func (r Rectangle) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r. The right and bottom edges
// are inclusive.
func (r Rectangle) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.Width &&
		r.Y <= p.Y && p.Y <= r.Y+r.Height
}

// IsEmpty reports whether r covers no area.
func (r Rectangle) IsEmpty() bool {
	return !(r.Width > 0 && r.Height > 0)
}

// Intersection returns the overlap of r and o. The boolean is false when
// they do not overlap with a positive area.
func (r Rectangle) Intersection(o Rectangle) (Rectangle, bool) {
	x := math32.Max(r.X, o.X)
	y := math32.Max(r.Y, o.Y)
	right := math32.Min(r.X+r.Width, o.X+o.Width)
	bottom := math32.Min(r.Y+r.Height, o.Y+o.Height)

	w := right - x
	h := bottom - y
	if w > 0 && h > 0 {
		return Rectangle{X: x, Y: y, Width: w, Height: h}, true
	}
	return Rectangle{}, false
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	x := math32.Min(r.X, o.X)
	y := math32.Min(r.Y, o.Y)
	right := math32.Max(r.X+r.Width, o.X+o.Width)
	bottom := math32.Max(r.Y+r.Height, o.Y+o.Height)
	return Rectangle{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Translate returns r moved by v.
func (r Rectangle) Translate(v Vector) Rectangle {
	return Rectangle{X: r.X + v.X, Y: r.Y + v.Y, Width: r.Width, Height: r.Height}
}

// Scale multiplies every component of r by s.
func (r Rectangle) Scale(s float32) Rectangle {
	return Rectangle{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// Snap converts r to whole pixels. The origin is truncated toward zero and
// the size is rounded up, so the snapped rectangle never loses coverage on
// its right or bottom edge. Negative values clamp to zero.
func (r Rectangle) Snap() URect {
	return URect{
		X:      toUint(r.X),
		Y:      toUint(r.Y),
		Width:  toUint(math32.Ceil(r.Width)),
		Height: toUint(math32.Ceil(r.Height)),
	}
}

// String returns a human-readable representation of r.
func (r Rectangle) String() string {
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

func toUint(v float32) uint32 {
	switch {
	case v <= 0 || math32.IsNaN(v):
		return 0
	case v >= math32.MaxUint32:
		return math32.MaxUint32
	default:
		return uint32(v)
	}
}

// URect is a rectangle in whole physical pixels.
type URect struct {
	X, Y          uint32
	Width, Height uint32
}

// FlipY converts r from top-left origin to the bottom-left origin used by
// GL scissor and viewport calls. The result may be negative when r extends
// below targetHeight.
func (r URect) FlipY(targetHeight uint32) (x, y int32, w, h uint32) {
	return int32(r.X), int32(targetHeight) - int32(r.Y+r.Height), r.Width, r.Height
}

// String returns a human-readable representation of r.
func (r URect) String() string {
	return fmt.Sprintf("URect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
