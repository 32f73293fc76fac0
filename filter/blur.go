// Package filter implements post effects applied to the layer an element
// is painted to. Only the gaussian blur is provided.
package filter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

// ErrNotALength is returned when a blur radius is not a length.
var ErrNotALength = errors.New("blur radius is not a length")

// Filter is a post effect descriptor, shared by every element using it.
type Filter interface {
	// CompileFilter resolves the filter for el and compiles it with the
	// element backend. The result is invalid if el has no backend or the
	// backend does not support the filter.
	CompileFilter(el paint.Element) render.CompiledFilter
	// ExtendInkOverflow grows region, the area painted by el, to include
	// what the filter draws outside of it.
	ExtendInkOverflow(el paint.Element, region *geom.Rect)
}

// Blur is a gaussian blur, compiled as the backend "blur" filter with the
// parameter:
//
//	sigma  float32, standard deviation in pixels
type Blur struct {
	radius style.NumericValue
}

// NewBlur returns a blur of the given radius (the standard deviation).
func NewBlur(radius style.NumericValue) (*Blur, error) {
	var b Blur
	if err := b.Initialise(radius); err != nil {
		return nil, err
	}
	return &b, nil
}

// Initialise sets the blur radius, which must be a length.
func (b *Blur) Initialise(radius style.NumericValue) error {
	if !radius.Unit.Has(style.Length) {
		return fmt.Errorf("%s: %w", radius, ErrNotALength)
	}
	b.radius = radius
	return nil
}

func (b *Blur) sigma(el paint.Element) float32 {
	return el.ResolveLength(b.radius)
}

func (b *Blur) CompileFilter(el paint.Element) render.CompiledFilter {
	ri := el.RenderInterface()
	if ri == nil {
		return render.CompiledFilter{}
	}
	h := ri.CompileFilter("blur", render.Params{"sigma": b.sigma(el)})
	return render.NewCompiledFilter(ri, h)
}

// ExtendInkOverflow grows region by three standard deviations, beyond
// which the blur contribution is negligible.
func (b *Blur) ExtendInkOverflow(el paint.Element, region *geom.Rect) {
	sigma := b.sigma(el)
	if sigma > 0 {
		*region = region.Extend(3 * sigma)
	}
}

type blurInstancer struct{}

var blurProperties = []paint.PropertyDef{
	{Name: "radius", Default: style.NumericProperty(0, style.Px)},
}

func (blurInstancer) Properties() []paint.PropertyDef { return blurProperties }

func (blurInstancer) Instance(_ string, props style.Dictionary) (Filter, error) {
	radius, ok := props["radius"].NumericValue()
	if !ok {
		return nil, fmt.Errorf("radius: %w", paint.ErrInvalidProperty)
	}
	b, err := NewBlur(radius)
	if err != nil {
		return nil, fmt.Errorf("radius: %w", errors.Join(paint.ErrInvalidProperty, err))
	}
	return b, nil
}

// NewFactory returns a registry with the "blur" filter.
func NewFactory(logger *zap.Logger) *paint.Registry[Filter] {
	r := paint.NewRegistry[Filter]("filter", logger)
	r.Register("blur", blurInstancer{})
	return r
}
