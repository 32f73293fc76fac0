package decorator

import (
	"fmt"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/gradient"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

// LinearGradient paints a CSS linear gradient through the backend
// "linear-gradient" effect, which receives the parameters:
//
//	angle            float32, radians
//	p0, p1           geom.Vec2, gradient line end points
//	length           float32, gradient line length
//	repeating        bool
//	color_stop_list  []style.ColorStop, resolved to numbers
type LinearGradient struct {
	repeating  bool
	angle      float32
	colorStops []style.ColorStop
}

// NewLinearGradient returns a linear gradient with direction angle (in
// radians, 0 pointing up, clockwise). It fails if stops is empty.
func NewLinearGradient(repeating bool, angle float32, stops []style.ColorStop) (*LinearGradient, error) {
	if len(stops) == 0 {
		return nil, ErrEmptyColorStops
	}
	return &LinearGradient{repeating: repeating, angle: angle, colorStops: stops}, nil
}

func (lg *LinearGradient) GenerateElementData(el paint.Element, area geom.BoxArea) (ElementData, error) {
	ri := el.RenderInterface()
	if ri == nil {
		return nil, ErrNoRenderInterface
	}

	dims := el.Box().Size(area)
	shape := gradient.LinearShape(lg.angle, dims)

	// one pixel minimum spacing between stops, to avoid aliasing
	softSpacing := 1 / shape.Length

	stops := gradient.ResolveColorStops(el, shape.Length, softSpacing, lg.colorStops)

	effect := ri.CompileShader("linear-gradient", render.Params{
		"angle":           lg.angle,
		"p0":              shape.P0,
		"p1":              shape.P1,
		"length":          shape.Length,
		"repeating":       lg.repeating,
		"color_stop_list": stops,
	})
	if effect == 0 {
		return nil, fmt.Errorf("linear-gradient: %w", ErrEffectUnsupported)
	}

	geometry := render.NewGeometry(ri, backgroundMesh(el, area))
	return &effectData{geometry: geometry, effect: effect}, nil
}

func (lg *LinearGradient) ReleaseElementData(data ElementData) {
	data.(*effectData).release()
}

func (lg *LinearGradient) RenderElement(el paint.Element, data ElementData) {
	data.(*effectData).render(el)
}

var linearProperties = []paint.PropertyDef{
	{Name: "angle", Default: style.NumericProperty(180, style.Deg)},
	{Name: "color-stops", Default: style.Property{}},
}

type linearInstancer struct{}

func (linearInstancer) Properties() []paint.PropertyDef { return linearProperties }

func (linearInstancer) Instance(name string, props style.Dictionary) (Decorator, error) {
	angle, ok := props["angle"].NumericValue()
	if !ok || !angle.Unit.Has(style.Angle) {
		return nil, fmt.Errorf("angle: %w", paint.ErrInvalidProperty)
	}
	stops, ok := props["color-stops"].ColorStops()
	if !ok {
		return nil, fmt.Errorf("color-stops: %w", paint.ErrInvalidProperty)
	}
	repeating := name == "repeating-linear-gradient"
	lg, err := NewLinearGradient(repeating, style.ComputeAngle(angle), stops)
	if err != nil {
		return nil, err
	}
	return lg, nil
}
