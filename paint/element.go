// Package paint holds what decorators and filters share: the view they
// have of a document element, and the registry instancing them by name
// from style properties.
package paint

import (
	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

// Element is a laid out document element, as seen by paint effects.
type Element interface {
	// Box returns the element box, relative to its border area.
	Box() geom.Box
	// ComputedValues returns the element computed style.
	ComputedValues() style.ComputedValues
	// RenderInterface returns the backend drawing the element, or nil if
	// the element is not attached to a render context.
	RenderInterface() render.Interface
	// AbsoluteOffset returns the position of area in document space.
	AbsoluteOffset(area geom.BoxArea) geom.Vec2

	// ResolveLength converts a length to pixels, using the element font
	// size and the document viewport.
	ResolveLength(v style.NumericValue) float32
	// ResolveNumericValue resolves lengths to pixels and percentages
	// against base.
	ResolveNumericValue(v style.NumericValue, base float32) float32
}

// StaticElement is an Element with fixed values, for tools and tests
// without a document tree.
type StaticElement struct {
	BoxModel geom.Box
	Style    style.ComputedValues
	Metrics  style.Metrics
	Offset   geom.Vec2 // position of the border area
	Renderer render.Interface
}

func (e *StaticElement) Box() geom.Box                        { return e.BoxModel }
func (e *StaticElement) ComputedValues() style.ComputedValues { return e.Style }
func (e *StaticElement) RenderInterface() render.Interface    { return e.Renderer }

func (e *StaticElement) AbsoluteOffset(area geom.BoxArea) geom.Vec2 {
	return e.Offset.Add(e.BoxModel.Position(area))
}

func (e *StaticElement) ResolveLength(v style.NumericValue) float32 {
	return e.Metrics.ResolveLength(v)
}

func (e *StaticElement) ResolveNumericValue(v style.NumericValue, base float32) float32 {
	return e.Metrics.ResolveNumericValue(v, base)
}
