// Package geom provides the small float32 value types shared by the
// paint effects: vectors, rectangles, the CSS box model and vertex meshes.
package geom

import (
	"math"

	"github.com/chewxy/math32"
)

// Vec2 is a 2D vector, in pixels unless stated otherwise.
type Vec2 struct{ X, Y float32 }

// Vec2i is an integer 2D vector, typically pixel dimensions.
type Vec2i struct{ X, Y int }

// Splat returns a vector with both components equal to v.
func Splat(v float32) Vec2 { return Vec2{v, v} }

func (a Vec2) Add(b Vec2) Vec2             { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2             { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Mul(b Vec2) Vec2             { return Vec2{a.X * b.X, a.Y * b.Y} }
func (a Vec2) Scale(s float32) Vec2        { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float32          { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Magnitude() float32          { return math32.Sqrt(a.Dot(a)) }
func (a Vec2) Abs() Vec2                   { return Vec2{math32.Abs(a.X), math32.Abs(a.Y)} }
func (a Vec2) Round() Vec2                 { return Vec2{round(a.X), round(a.Y)} }
func (a Vec2) Min(b Vec2) Vec2             { return Vec2{math32.Min(a.X, b.X), math32.Min(a.Y, b.Y)} }
func (a Vec2) Max(b Vec2) Vec2             { return Vec2{math32.Max(a.X, b.X), math32.Max(a.Y, b.Y)} }
func (a Vec2) ToInt() Vec2i                { return Vec2i{int(a.X), int(a.Y)} }
func (a Vec2i) ToFloat() Vec2              { return Vec2{float32(a.X), float32(a.Y)} }
func (a Vec2i) Area() int                  { return a.X * a.Y }
func (a Vec2i) Positive() bool             { return a.X > 0 && a.Y > 0 }
func (a Vec2) Lerp(b Vec2, t float32) Vec2 { return a.Add(b.Sub(a).Scale(t)) }

// Rect is an axis aligned rectangle, Min inclusive, Max exclusive.
type Rect struct{ Min, Max Vec2 }

// RectFromSize returns the rectangle at origin with the given size.
func RectFromSize(origin, size Vec2) Rect { return Rect{origin, origin.Add(size)} }

// Size returns the width and height of r.
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Extend grows r outward by margin on every side.
func (r Rect) Extend(margin float32) Rect {
	return Rect{r.Min.Sub(Splat(margin)), r.Max.Add(Splat(margin))}
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{r.Min.Min(o.Min), r.Max.Max(o.Max)}
}

// round rounds half away from zero, like math.Round.
func round(x float32) float32 { return float32(math.Round(float64(x))) }
