// Package decorator implements gradient paint styles for element
// backgrounds: a flat two-color gradient with baked vertex colors, and
// linear and radial gradients drawn by backend effects.
//
// A decorator is created once per style declaration, and generates per
// element data when the element is painted:
//
//	data, err := dec.GenerateElementData(el, geom.Padding)
//	...
//	dec.RenderElement(el, data) // every frame
//	...
//	dec.ReleaseElementData(data) // when the element box or style changes
package decorator

import (
	"errors"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
)

var (
	// ErrEmptyColorStops is returned when instancing a gradient without
	// color stops.
	ErrEmptyColorStops = errors.New("empty color stop list")
	// ErrNoRenderInterface is returned when generating data for an element
	// not attached to a backend.
	ErrNoRenderInterface = errors.New("element has no render interface")
	// ErrEffectUnsupported is returned when the backend can't compile a
	// gradient effect.
	ErrEffectUnsupported = errors.New("effect not supported by the backend")
)

// ElementData is the per element data generated by a decorator. It must
// only be passed back to the decorator which generated it.
type ElementData any

// Decorator is a paint style applied to an area of an element box.
type Decorator interface {
	// GenerateElementData computes the geometry and backend resources
	// needed to paint area of el.
	GenerateElementData(el paint.Element, area geom.BoxArea) (ElementData, error)
	// ReleaseElementData frees the resources held by data.
	ReleaseElementData(data ElementData)
	// RenderElement paints el using data.
	RenderElement(el paint.Element, data ElementData)
}

// effectData is the element data of decorators drawn through a compiled
// effect.
type effectData struct {
	geometry *render.Geometry
	effect   render.CompiledShaderHandle
}

func (d *effectData) release() {
	d.geometry.Release()
	d.geometry.RenderInterface().ReleaseShader(d.effect)
}

func (d *effectData) render(el paint.Element) {
	d.geometry.RenderWithShader(d.effect, el.AbsoluteOffset(geom.Border))
}

// backgroundMesh returns the mesh of area, shaded by an effect: the vertex
// colors carry the element opacity, and the texture coordinates are the
// positions relative to the area corner.
func backgroundMesh(el paint.Element, area geom.BoxArea) geom.Mesh {
	box := el.Box()
	computed := el.ComputedValues()
	white := geom.ApplyOpacity(whiteOpaque, computed.Opacity)
	mesh := geom.GenerateBackground(box, geom.Vec2{}, computed.BorderRadius, white, area)

	offset := box.Position(area)
	for i := range mesh.Vertices {
		mesh.Vertices[i].TexCoord = mesh.Vertices[i].Position.Sub(offset)
	}
	return mesh
}

// NewFactory returns a registry with the gradient decorators:
// "gradient", "horizontal-gradient", "vertical-gradient",
// "linear-gradient", "repeating-linear-gradient", "radial-gradient" and
// "repeating-radial-gradient".
func NewFactory(logger *zap.Logger) *paint.Registry[Decorator] {
	r := paint.NewRegistry[Decorator]("decorator", logger)
	r.Register("gradient", flatInstancer{})
	r.Register("horizontal-gradient", flatInstancer{fixed: true, dir: Horizontal})
	r.Register("vertical-gradient", flatInstancer{fixed: true, dir: Vertical})
	r.Register("linear-gradient", linearInstancer{})
	r.Register("repeating-linear-gradient", linearInstancer{})
	r.Register("radial-gradient", radialInstancer{})
	r.Register("repeating-radial-gradient", radialInstancer{})
	return r
}
