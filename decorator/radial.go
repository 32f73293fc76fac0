package decorator

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/gradient"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

// RadialGradient paints a CSS radial gradient through the backend
// "radial-gradient" effect, which receives the parameters:
//
//	center           geom.Vec2
//	radius           geom.Vec2, radii of the ending ellipse
//	repeating        bool
//	color_stop_list  []style.ColorStop, resolved to numbers
type RadialGradient struct {
	repeating  bool
	shape      gradient.Shape
	size       gradient.Size
	position   gradient.Position
	colorStops []style.ColorStop
}

// NewRadialGradient returns a radial gradient. It fails if stops is empty.
func NewRadialGradient(repeating bool, shape gradient.Shape, size gradient.Size, position gradient.Position,
	stops []style.ColorStop,
) (*RadialGradient, error) {
	if len(stops) == 0 {
		return nil, ErrEmptyColorStops
	}
	return &RadialGradient{repeating: repeating, shape: shape, size: size, position: position, colorStops: stops}, nil
}

func (rg *RadialGradient) GenerateElementData(el paint.Element, area geom.BoxArea) (ElementData, error) {
	ri := el.RenderInterface()
	if ri == nil {
		return nil, ErrNoRenderInterface
	}

	dims := el.Box().Size(area)
	shape := gradient.RadialShape(el, rg.shape, rg.size, rg.position, dims)

	// one pixel minimum spacing between stops, to avoid aliasing
	softSpacing := 1 / math32.Min(shape.Radius.X, shape.Radius.Y)

	stops := gradient.ResolveColorStops(el, shape.Radius.X, softSpacing, rg.colorStops)

	effect := ri.CompileShader("radial-gradient", render.Params{
		"center":          shape.Center,
		"radius":          shape.Radius,
		"repeating":       rg.repeating,
		"color_stop_list": stops,
	})
	if effect == 0 {
		return nil, fmt.Errorf("radial-gradient: %w", ErrEffectUnsupported)
	}

	geometry := render.NewGeometry(ri, backgroundMesh(el, area))
	return &effectData{geometry: geometry, effect: effect}, nil
}

func (rg *RadialGradient) ReleaseElementData(data ElementData) {
	data.(*effectData).release()
}

func (rg *RadialGradient) RenderElement(el paint.Element, data ElementData) {
	data.(*effectData).render(el)
}

// keyword indices of the radial gradient properties
const (
	shapeCircle = iota
	shapeEllipse
	shapeUnspecified
)

const (
	positionStart = iota // left or top
	positionCenter
	positionEnd // right or bottom
)

var radialProperties = []paint.PropertyDef{
	{Name: "ending-shape", Default: style.KeywordProperty(shapeUnspecified), Keywords: []string{"circle", "ellipse", "unspecified"}},
	{
		Name: "size-x", Default: style.KeywordProperty(int(gradient.FarthestCorner)),
		Keywords: []string{"closest-side", "farthest-side", "closest-corner", "farthest-corner"},
	},
	{Name: "size-y", Default: style.KeywordProperty(0), Keywords: []string{"unspecified"}},
	{Name: "position-x", Default: style.KeywordProperty(positionCenter), Keywords: []string{"left", "center", "right"}},
	{Name: "position-y", Default: style.KeywordProperty(positionCenter), Keywords: []string{"top", "center", "bottom"}},
	{Name: "color-stops", Default: style.Property{}},
}

type radialInstancer struct{}

func (radialInstancer) Properties() []paint.PropertyDef { return radialProperties }

// lengthPercent returns p as a length or percentage.
func lengthPercent(p style.Property) (style.NumericValue, bool) {
	v, ok := p.NumericValue()
	return v, ok && v.Unit.Has(style.LengthPercent)
}

func (radialInstancer) Instance(name string, props style.Dictionary) (Decorator, error) {
	pShape, pSizeX, pSizeY := props["ending-shape"], props["size-x"], props["size-y"]

	shapeKeyword, ok := pShape.Keyword()
	if !ok || shapeKeyword < shapeCircle || shapeKeyword > shapeUnspecified {
		return nil, fmt.Errorf("ending-shape: %w", paint.ErrInvalidProperty)
	}

	var size gradient.Size
	if k, ok := pSizeX.Keyword(); ok {
		if k < int(gradient.ClosestSide) || k > int(gradient.FarthestCorner) {
			return nil, fmt.Errorf("size-x: %w", paint.ErrInvalidProperty)
		}
		size.Type = gradient.SizeType(k)
	} else if x, ok := lengthPercent(pSizeX); ok {
		size.Type = gradient.LengthPercentage
		size.X, size.Y = x, x
		if y, ok := lengthPercent(pSizeY); ok {
			size.Y = y
		} else if _, ok := pSizeY.Keyword(); !ok {
			return nil, fmt.Errorf("size-y: %w", paint.ErrInvalidProperty)
		}
	} else {
		return nil, fmt.Errorf("size-x: %w", paint.ErrInvalidProperty)
	}

	var shape gradient.Shape
	switch shapeKeyword {
	case shapeCircle:
		shape = gradient.Circle
	case shapeEllipse:
		shape = gradient.Ellipse
	default:
		// a single length means a circle
		_, sizeYIsKeyword := pSizeY.Keyword()
		if pSizeX.Unit.Has(style.Length) && sizeYIsKeyword {
			shape = gradient.Circle
		} else {
			shape = gradient.Ellipse
		}
	}

	var position gradient.Position
	for i, key := range [2]string{"position-x", "position-y"} {
		p := props[key]
		var value style.NumericValue
		if k, ok := p.Keyword(); ok {
			switch k {
			case positionStart:
				value = style.NumericValue{Number: 0, Unit: style.Percent}
			case positionCenter:
				value = style.NumericValue{Number: 50, Unit: style.Percent}
			case positionEnd:
				value = style.NumericValue{Number: 100, Unit: style.Percent}
			default:
				return nil, fmt.Errorf("%s: %w", key, paint.ErrInvalidProperty)
			}
		} else if value, ok = lengthPercent(p); !ok {
			return nil, fmt.Errorf("%s: %w", key, paint.ErrInvalidProperty)
		}
		if i == 0 {
			position.X = value
		} else {
			position.Y = value
		}
	}

	stops, ok := props["color-stops"].ColorStops()
	if !ok {
		return nil, fmt.Errorf("color-stops: %w", paint.ErrInvalidProperty)
	}

	repeating := name == "repeating-radial-gradient"
	rg, err := NewRadialGradient(repeating, shape, size, position, stops)
	if err != nil {
		return nil, err
	}
	return rg, nil
}
