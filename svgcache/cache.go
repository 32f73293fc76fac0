// Package svgcache shares rasterized SVG images between the elements
// displaying them.
//
// A cache entry is identified by its source, pixel size, fit mode and
// tint color, and is leased through reference counted handles. Entries
// are organized in a three level tree: one parsed document per source,
// one texture per (size, fit) of a document, and one tinted quad per
// color of a texture. Releasing the last handle of an entry removes the
// quad, then the texture and the document if they become unused.
//
// Rasterization is deferred until the backend actually uploads the
// texture, that is when the geometry is first rendered.
package svgcache

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/svgraster"
)

var (
	// ErrEmptySource is reported when requesting a handle without source.
	ErrEmptySource = errors.New("empty source")
	// ErrNegativeSize is reported when requesting a handle with a negative
	// pixel size.
	ErrNegativeSize = errors.New("negative render size")
)

// Handle is a lease on a cache entry. The zero Handle is invalid.
type Handle uint64

// Key identifies a cache entry.
type Key struct {
	Source string
	Size   geom.Vec2i
	Fit    svgraster.Fit
	Tint   color.NRGBA
}

type document struct {
	source string
	svg    *svgraster.Document
	sizes  []*renderSize
}

// renderSize is the rasterization of a document at one size, with one fit
// mode. It is the pixel source of its texture.
type renderSize struct {
	parent  *document
	size    geom.Vec2i
	fit     svgraster.Fit
	texture *render.Texture

	logger *zap.Logger

	geometries []*tintedGeometry
}

var _ render.PixelSource = (*renderSize)(nil) // assert interface conformance

// Pixels rasterizes the document. It is called by the texture upload.
func (rs *renderSize) Pixels() ([]byte, geom.Vec2i, error) {
	img, err := rs.parent.svg.Rasterize(rs.size.X, rs.size.Y, rs.fit)
	if err != nil {
		return nil, geom.Vec2i{}, fmt.Errorf("svg %s: %w", rs.parent.source, err)
	}
	rs.logger.Debug("svg rasterized", zap.String("source", rs.parent.source),
		zap.Int("width", rs.size.X), zap.Int("height", rs.size.Y), zap.Stringer("fit", rs.fit))
	return img.Pix, rs.size, nil
}

// tintedGeometry is a textured quad of one color, and the leaf of the
// cache tree. It is shared by every handle of its key.
type tintedGeometry struct {
	parent    *renderSize
	key       Key
	geometry  *render.Geometry
	intrinsic geom.Vec2
	refs      int
}

// Cache is a deduplicating cache of rasterized SVG images.
// It is not safe for concurrent use.
type Cache struct {
	loader Loader
	ri     render.Interface
	logger *zap.Logger

	documents map[string]*document
	entries   arena[*tintedGeometry]
	byKey     map[Key]Handle
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used to report unloadable sources and cache
// activity.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New returns an empty cache, loading sources with loader and creating
// textures and geometry with ri.
func New(loader Loader, ri render.Interface, opts ...Option) *Cache {
	c := &Cache{
		loader:    loader,
		ri:        ri,
		logger:    zap.NewNop(),
		documents: make(map[string]*document),
		byKey:     make(map[Key]Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetHandle returns a handle on the image of source rasterized at size,
// with the given fit and tint. If the same image is already cached, its
// reference count is incremented and the existing handle is returned.
//
// GetHandle returns the zero Handle if the image can't be created, in
// which case a warning is logged.
func (c *Cache) GetHandle(source string, size geom.Vec2i, fit svgraster.Fit, tint color.NRGBA) Handle {
	h, err := c.getHandle(Key{Source: source, Size: size, Fit: fit, Tint: tint})
	if err != nil {
		c.logger.Warn("can't load svg", zap.String("source", source),
			zap.Int("width", size.X), zap.Int("height", size.Y), zap.Error(err))
		return 0
	}
	return h
}

// GetHandleFor is the same as GetHandle, with the size and tint derived
// from el: the size of area rounded to pixels, and the image color of el
// with its opacity applied.
func (c *Cache) GetHandleFor(source string, el paint.Element, fit svgraster.Fit, area geom.BoxArea) Handle {
	size := el.Box().Size(area).Round().ToInt()
	return c.GetHandle(source, size, fit, el.ComputedValues().TintColor())
}

func (c *Cache) getHandle(key Key) (Handle, error) {
	if key.Source == "" {
		return 0, ErrEmptySource
	}
	if key.Size.X < 0 || key.Size.Y < 0 {
		return 0, ErrNegativeSize
	}

	if h, ok := c.byKey[key]; ok {
		entry, _ := c.entries.get(uint64(h))
		entry.refs++
		return h, nil
	}

	doc, err := c.document(key.Source)
	if err != nil {
		return 0, err
	}
	rs := c.renderSize(doc, key.Size, key.Fit)

	// empty entries only serve the intrinsic size, and draw nothing
	var mesh geom.Mesh
	if key.Size.Positive() {
		mesh = geom.GenerateQuad(geom.Vec2{}, key.Size.ToFloat(), key.Tint, geom.Vec2{}, geom.Vec2{X: 1, Y: 1})
	}
	geometry := render.NewGeometry(c.ri, mesh)
	geometry.SetTexture(rs.texture)

	entry := &tintedGeometry{parent: rs, key: key, geometry: geometry, refs: 1}
	if key.Fit == svgraster.FitContent {
		entry.intrinsic = doc.svg.ContentSize()
	} else {
		entry.intrinsic = doc.svg.IntrinsicSize()
	}
	rs.geometries = append(rs.geometries, entry)

	h := Handle(c.entries.insert(entry))
	c.byKey[key] = h
	return h, nil
}

// document returns the parsed document of source, loading it if needed.
func (c *Cache) document(source string) (*document, error) {
	if doc, ok := c.documents[source]; ok {
		return doc, nil
	}
	data, err := c.loader.LoadFile(source)
	if err != nil {
		return nil, err
	}
	svg, err := svgraster.Parse(data)
	if err != nil {
		return nil, err
	}
	doc := &document{source: source, svg: svg}
	c.documents[source] = doc
	c.logger.Debug("svg document loaded", zap.String("source", source))
	return doc, nil
}

// renderSize returns the render size of doc matching size and fit,
// creating it if needed.
func (c *Cache) renderSize(doc *document, size geom.Vec2i, fit svgraster.Fit) *renderSize {
	for _, rs := range doc.sizes {
		if rs.size == size && rs.fit == fit {
			return rs
		}
	}
	rs := &renderSize{parent: doc, size: size, fit: fit, logger: c.logger}
	rs.texture = render.NewTexture(c.ri, rs)
	doc.sizes = append(doc.sizes, rs)
	return rs
}

// ReleaseHandle decrements the reference count of h, and frees its entry
// when it reaches zero. Parent textures and documents left without
// children are freed too.
//
// ReleaseHandle panics if h is not a live handle.
func (c *Cache) ReleaseHandle(h Handle) {
	entry, ok := c.entries.get(uint64(h))
	if !ok {
		panic(fmt.Sprintf("svgcache: release of unknown handle %#x", uint64(h)))
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}

	c.entries.remove(uint64(h))
	delete(c.byKey, entry.key)
	c.removeGeometry(entry)
}

// removeGeometry frees entry and cascades to its ancestors.
func (c *Cache) removeGeometry(entry *tintedGeometry) {
	entry.geometry.Release()

	rs := entry.parent
	rs.geometries = swapRemove(rs.geometries, entry)
	if len(rs.geometries) != 0 {
		return
	}
	rs.texture.Release()

	doc := rs.parent
	doc.sizes = swapRemove(doc.sizes, rs)
	if len(doc.sizes) != 0 {
		return
	}
	delete(c.documents, doc.source)
	c.logger.Debug("svg document evicted", zap.String("source", doc.source))
}

// swapRemove removes v from list, not preserving the order.
func swapRemove[T comparable](list []T, v T) []T {
	for i, e := range list {
		if e == v {
			last := len(list) - 1
			list[i] = list[last]
			var zero T
			list[last] = zero
			return list[:last]
		}
	}
	return list
}

// GetGeometry returns the shared geometry of h, and the intrinsic size of
// its image: the size of the document, or of its content when fitting
// the content. It returns nil if h is not a live handle.
//
// The geometry must not be released by the caller.
func (c *Cache) GetGeometry(h Handle) (*render.Geometry, geom.Vec2) {
	entry, ok := c.entries.get(uint64(h))
	if !ok {
		return nil, geom.Vec2{}
	}
	return entry.geometry, entry.intrinsic
}

// RefCount returns the number of leases on h, or 0 if h is not live.
func (c *Cache) RefCount(h Handle) int {
	if entry, ok := c.entries.get(uint64(h)); ok {
		return entry.refs
	}
	return 0
}

// Stats reports the content of a Cache.
type Stats struct {
	Documents  int // parsed sources
	Sizes      int // textures
	Geometries int // distinct handles
	References int // sum of the reference counts
}

// Stats returns the number of live objects in c.
func (c *Cache) Stats() Stats {
	st := Stats{Documents: len(c.documents), Geometries: c.entries.len()}
	for _, doc := range c.documents {
		st.Sizes += len(doc.sizes)
	}
	for _, id := range c.entries.ids() {
		entry, _ := c.entries.get(id)
		st.References += entry.refs
	}
	return st
}

// Teardown frees every entry, whatever its reference count. Handles
// still held become invalid: releasing them panics.
func (c *Cache) Teardown() {
	if n := c.entries.len(); n != 0 {
		c.logger.Warn("svg cache teardown with live handles", zap.Int("handles", n))
	}
	for _, id := range c.entries.ids() {
		entry, _ := c.entries.get(id)
		c.entries.remove(id)
		c.removeGeometry(entry)
	}
	c.byKey = make(map[Key]Handle)
	c.documents = make(map[string]*document)
}
