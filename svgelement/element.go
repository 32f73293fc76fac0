// Package svgelement implements the <svg> element of a document: it
// displays the image named by its src attribute, rasterized at the size
// of its content box through a shared svgcache.Cache.
package svgelement

import (
	"path"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/svgcache"
	"github.com/benoitkugler/okpaint/svgraster"
)

// Host is the document node owning an Element.
type Host interface {
	paint.Element

	// Attribute returns the value of the named attribute.
	Attribute(name string) (string, bool)
	// DocumentURL returns the source URL of the owner document, or an
	// empty string.
	DocumentURL() string
	// DirtyLayout requests a new layout of the document.
	DirtyLayout()
}

// Properties whose change requires a new image.
const (
	PropertyImageColor = "image-color"
	PropertyOpacity    = "opacity"
)

// Element tracks the cache handle of one <svg> node. The image is updated
// lazily, when rendering or when the layout asks for the intrinsic size.
type Element struct {
	host   Host
	cache  *svgcache.Cache
	logger *zap.Logger

	// independent dirty flags
	sourceDirty bool
	sizeDirty   bool

	sourcePath string
	handle     svgcache.Handle
	geometry   *render.Geometry
	intrinsic  geom.Vec2
}

// Option configures an Element.
type Option func(*Element)

// WithLogger sets the logger used to report invalid attributes.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Element) { e.logger = logger }
}

// New returns the element displayed by host, using images from cache.
func New(host Host, cache *svgcache.Cache, opts ...Option) *Element {
	e := &Element{host: host, cache: cache, logger: zap.NewNop(), sourceDirty: true, sizeDirty: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnAttributeChange must be called with the names of the attributes which
// changed.
func (e *Element) OnAttributeChange(changed []string) {
	if slices.Contains(changed, "src") {
		e.sourceDirty = true
		e.host.DirtyLayout()
	}
	if slices.Contains(changed, "content-fit") {
		e.sizeDirty = true
		e.host.DirtyLayout()
	}
	if slices.Contains(changed, "width") || slices.Contains(changed, "height") {
		e.host.DirtyLayout()
	}
}

// OnResize must be called when the element box changes.
func (e *Element) OnResize() { e.sizeDirty = true }

// OnPropertyChange must be called with the names of the style properties
// which changed.
func (e *Element) OnPropertyChange(changed []string) {
	if slices.Contains(changed, PropertyImageColor) || slices.Contains(changed, PropertyOpacity) {
		e.sizeDirty = true
	}
}

// IntrinsicDimensions returns the natural size of the element, and its
// aspect ratio (zero if unknown). The width and height attributes
// override the size of the image. ok is false when the element has no
// source.
func (e *Element) IntrinsicDimensions() (dims geom.Vec2, ratio float32, ok bool) {
	if e.sourcePath == "" && !e.sourceDirty {
		return geom.Vec2{}, 0, false
	}
	e.update()
	if e.sourcePath == "" {
		return geom.Vec2{}, 0, false
	}

	dims = e.intrinsic
	if w, ok := e.floatAttribute("width"); ok {
		dims.X = w
	}
	if h, ok := e.floatAttribute("height"); ok {
		dims.Y = h
	}
	if dims.Y > 0 {
		ratio = dims.X / dims.Y
	}
	return dims, ratio, true
}

func (e *Element) floatAttribute(name string) (float32, bool) {
	s, ok := e.host.Attribute(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 32)
	if err != nil {
		e.logger.Warn("invalid svg attribute", zap.String("name", name), zap.String("value", s))
		return 0, false
	}
	return float32(v), true
}

// Render draws the image at the content box of the element.
func (e *Element) Render() {
	e.update()
	if e.geometry != nil {
		e.geometry.Render(e.host.AbsoluteOffset(geom.Content))
	}
}

// Handle returns the cache handle currently held, or zero.
func (e *Element) Handle() svgcache.Handle { return e.handle }

// Close releases the image held by the element.
func (e *Element) Close() {
	e.release()
	e.sourcePath = ""
	e.sourceDirty = false
	e.sizeDirty = false
}

func (e *Element) release() {
	if e.handle != 0 {
		e.cache.ReleaseHandle(e.handle)
	}
	e.handle = 0
	e.geometry = nil
	e.intrinsic = geom.Vec2{}
}

func (e *Element) fit() svgraster.Fit {
	s, _ := e.host.Attribute("content-fit")
	fit, err := svgraster.ParseFit(s)
	if err != nil {
		e.logger.Warn("invalid svg attribute", zap.String("name", "content-fit"), zap.Error(err))
	}
	return fit
}

// update acquires the image matching the current source, box and style.
// The new handle is acquired before the old one is released, so that
// shared resources still in use are kept.
func (e *Element) update() {
	if !e.sourceDirty && !e.sizeDirty {
		return
	}
	if e.sourceDirty {
		src, _ := e.host.Attribute("src")
		e.sourcePath = ""
		if src != "" {
			e.sourcePath = joinPath(e.host.DocumentURL(), src)
		}
	}
	e.sourceDirty, e.sizeDirty = false, false

	if e.sourcePath == "" {
		e.release()
		return
	}

	h := e.cache.GetHandleFor(e.sourcePath, e.host, e.fit(), geom.Content)
	if h == 0 {
		// the cache logged the failure
		e.release()
		return
	}
	geometry, intrinsic := e.cache.GetGeometry(h)
	e.release()
	e.handle, e.geometry, e.intrinsic = h, geometry, intrinsic
}

// joinPath resolves src relative to the directory of the document URL.
// A '|' in the URL stands for the ':' of a drive letter.
func joinPath(documentURL, src string) string {
	if documentURL == "" || strings.HasPrefix(src, "/") {
		return src
	}
	documentURL = strings.ReplaceAll(documentURL, "|", ":")
	return path.Join(path.Dir(documentURL), src)
}
