package decorator

import (
	"fmt"
	"image/color"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

var whiteOpaque = color.NRGBA{255, 255, 255, 255}

// Direction is the axis of a flat gradient.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

// Gradient is a two-color gradient along one axis of the box, with the
// colors baked into the vertices. It needs no backend effect.
//
// Usage in style sheets:
//
//	decorator: gradient( vertical #ff00ff #00ff00 );
type Gradient struct {
	dir         Direction
	start, stop color.NRGBA
}

// NewGradient returns a flat gradient from start to stop along dir.
func NewGradient(dir Direction, start, stop color.NRGBA) *Gradient {
	return &Gradient{dir: dir, start: start, stop: stop}
}

type flatData struct {
	geometry *render.Geometry
}

func (g *Gradient) GenerateElementData(el paint.Element, area geom.BoxArea) (ElementData, error) {
	ri := el.RenderInterface()
	if ri == nil {
		return nil, ErrNoRenderInterface
	}
	box := el.Box()
	computed := el.ComputedValues()

	mesh := geom.GenerateBackground(box, geom.Vec2{}, computed.BorderRadius, whiteOpaque, area)

	start := geom.ApplyOpacity(g.start, computed.Opacity)
	stop := geom.ApplyOpacity(g.stop, computed.Opacity)

	offset := box.Position(area)
	size := box.Size(area)
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		var t float32
		if g.dir == Horizontal && size.X > 0 {
			t = (v.Position.X - offset.X) / size.X
		} else if g.dir == Vertical && size.Y > 0 {
			t = (v.Position.Y - offset.Y) / size.Y
		}
		v.Color = geom.RoundedLerp(geom.Clamp(t, 0, 1), start, stop)
	}

	return &flatData{geometry: render.NewGeometry(ri, mesh)}, nil
}

func (g *Gradient) ReleaseElementData(data ElementData) {
	data.(*flatData).geometry.Release()
}

func (g *Gradient) RenderElement(el paint.Element, data ElementData) {
	data.(*flatData).geometry.Render(el.AbsoluteOffset(geom.Border))
}

var flatProperties = []paint.PropertyDef{
	{Name: "direction", Default: style.KeywordProperty(int(Horizontal)), Keywords: []string{"horizontal", "vertical"}},
	{Name: "start-color", Default: style.ColorProperty(whiteOpaque)},
	{Name: "stop-color", Default: style.ColorProperty(whiteOpaque)},
}

// flatInstancer creates Gradient decorators. When fixed is true, the
// direction property is ignored and dir is used.
type flatInstancer struct {
	fixed bool
	dir   Direction
}

func (flatInstancer) Properties() []paint.PropertyDef { return flatProperties }

func (fi flatInstancer) Instance(_ string, props style.Dictionary) (Decorator, error) {
	dir := fi.dir
	if !fi.fixed {
		k, ok := props["direction"].Keyword()
		if !ok || k < 0 || k > int(Vertical) {
			return nil, fmt.Errorf("direction: %w", paint.ErrInvalidProperty)
		}
		dir = Direction(k)
	}
	start, ok := props["start-color"].Color()
	if !ok {
		return nil, fmt.Errorf("start-color: %w", paint.ErrInvalidProperty)
	}
	stop, ok := props["stop-color"].Color()
	if !ok {
		return nil, fmt.Errorf("stop-color: %w", paint.ErrInvalidProperty)
	}
	return NewGradient(dir, start, stop), nil
}
