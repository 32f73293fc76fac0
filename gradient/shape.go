package gradient

import (
	"github.com/chewxy/math32"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/style"
)

// LinearGradientShape is the gradient line of a linear gradient: color
// stop 0 lies at P0 and color stop 1 at P1.
type LinearGradientShape struct {
	P0, P1 geom.Vec2
	Length float32
}

// closestOnLine returns the point of the line through linePoint with unit
// direction lineVector closest to point.
func closestOnLine(point, linePoint, lineVector geom.Vec2) geom.Vec2 {
	delta := linePoint.Sub(point)
	return linePoint.Sub(lineVector.Scale(delta.Dot(lineVector)))
}

// normalizeAnglePositive returns angle modulo 2*Pi, in [0, 2*Pi).
func normalizeAnglePositive(angle float32) float32 {
	a := math32.Mod(angle, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}

// LinearShape returns the gradient line for angle, in radians with 0
// pointing up and increasing clockwise, over a box of size dim.
// The line goes through the box center, and its end points are placed so
// that the corners of the box get the colors of stops 0 and 1.
func LinearShape(angle float32, dim geom.Vec2) LinearGradientShape {
	const (
		topRight = iota
		bottomRight
		bottomLeft
		topLeft
	)
	corners := [4]geom.Vec2{{X: dim.X}, dim, {Y: dim.Y}, {}}
	center := dim.Scale(0.5)

	quadrant := uint(normalizeAnglePositive(angle)*(4/(2*math32.Pi))) % 4
	opposite := (quadrant + 2) % 4

	lineVector := geom.Vec2{X: math32.Sin(angle), Y: -math32.Cos(angle)}
	length := math32.Abs(dim.X*lineVector.X) + math32.Abs(-dim.Y*lineVector.Y)

	return LinearGradientShape{
		P0:     closestOnLine(corners[opposite], center, lineVector),
		P1:     closestOnLine(corners[quadrant], center, lineVector),
		Length: math32.Max(length, 1),
	}
}

// Shape is the ending shape of a radial gradient.
type Shape uint8

const (
	Circle Shape = iota
	Ellipse
)

// SizeType selects how the radius of a radial gradient is computed.
type SizeType uint8

const (
	ClosestSide SizeType = iota
	FarthestSide
	ClosestCorner
	FarthestCorner
	LengthPercentage
)

// Size is the size of a radial gradient. X and Y are only used with
// LengthPercentage; circles only use X.
type Size struct {
	Type SizeType
	X, Y style.NumericValue
}

// Position is the center of a radial gradient, as lengths or percentages
// of the box.
type Position struct {
	X, Y style.NumericValue
}

// CenterPosition is the default position, at the center of the box.
var CenterPosition = Position{
	X: style.NumericValue{Number: 50, Unit: style.Percent},
	Y: style.NumericValue{Number: 50, Unit: style.Percent},
}

// NumericResolver resolves lengths and percentages of a base length to
// pixels.
type NumericResolver interface {
	ResolveNumericValue(v style.NumericValue, base float32) float32
}

// RadialGradientShape is the ending shape of a radial gradient: the
// ellipse where color stop 1 lies.
type RadialGradientShape struct {
	Center, Radius geom.Vec2
}

// RadialShape returns the center and radii of a radial gradient over a box
// of size dim. Radii are at least 1.
func RadialShape(r NumericResolver, shape Shape, size Size, position Position, dim geom.Vec2) RadialGradientShape {
	var result RadialGradientShape
	result.Center.X = r.ResolveNumericValue(position.X, dim.X)
	result.Center.Y = r.ResolveNumericValue(position.Y, dim.Y)
	isCircle := shape == Circle

	c := result.Center
	closestSide := c.Min(dim.Sub(c)).Abs()
	farthestSide := c.Max(dim.Sub(c)).Abs()

	switch size.Type {
	case ClosestSide:
		result.Radius = closestSide
		if isCircle {
			result.Radius = geom.Splat(math32.Min(closestSide.X, closestSide.Y))
		}
	case FarthestSide:
		result.Radius = farthestSide
		if isCircle {
			result.Radius = geom.Splat(math32.Max(farthestSide.X, farthestSide.Y))
		}
	case ClosestCorner, FarthestCorner:
		side := closestSide
		if size.Type == FarthestCorner {
			side = farthestSide
		}
		if isCircle {
			result.Radius = geom.Splat(side.Magnitude())
		} else {
			// keep the aspect ratio of the side distances, and scale so
			// that the ellipse goes through the corner
			side = side.Max(geom.Splat(1))
			result.Radius.X = math32.Sqrt(2 * side.X * side.X)
			result.Radius.Y = result.Radius.X * (side.Y / side.X)
		}
	case LengthPercentage:
		result.Radius.X = r.ResolveNumericValue(size.X, dim.X)
		result.Radius.Y = result.Radius.X
		if !isCircle {
			result.Radius.Y = r.ResolveNumericValue(size.Y, dim.Y)
		}
		result.Radius = result.Radius.Abs()
	}

	result.Radius = result.Radius.Max(geom.Splat(1))
	return result
}
