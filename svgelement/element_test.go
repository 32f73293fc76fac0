package svgelement

import (
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render/rendertest"
	"github.com/benoitkugler/okpaint/style"
	"github.com/benoitkugler/okpaint/svgcache"
)

const (
	wide = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20">
	<rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`
	framed = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
	<rect x="10" y="10" width="30" height="10" fill="#000000"/>
</svg>`
)

type host struct {
	*paint.StaticElement
	attributes  map[string]string
	url         string
	layoutDirty int
}

func (h *host) Attribute(name string) (string, bool) {
	v, ok := h.attributes[name]
	return v, ok
}

func (h *host) DocumentURL() string { return h.url }
func (h *host) DirtyLayout()        { h.layoutDirty++ }

func setup(t *testing.T) (*svgcache.Cache, *rendertest.Recorder) {
	t.Helper()
	fs := fstest.MapFS{
		"ui/wide.svg":    {Data: []byte(wide)},
		"ui/framed.svg":  {Data: []byte(framed)},
		"icons/wide.svg": {Data: []byte(wide)},
	}
	rec := rendertest.New()
	return svgcache.New(svgcache.FSLoader{FS: fs}, rec), rec
}

func newHost(rec *rendertest.Recorder, src string) *host {
	return &host{
		StaticElement: &paint.StaticElement{
			BoxModel: geom.Box{Content: geom.Vec2{X: 20, Y: 10}, Padding: geom.Edges{2, 2, 2, 2}},
			Style:    style.DefaultComputedValues,
			Metrics:  style.DefaultMetrics,
			Offset:   geom.Vec2{X: 100, Y: 50},
			Renderer: rec,
		},
		attributes: map[string]string{"src": src},
		url:        "ui/main.rml",
	}
}

func TestRender(t *testing.T) {
	cache, rec := setup(t)
	h := newHost(rec, "wide.svg")
	el := New(h, cache)

	el.Render()
	require.NotZero(t, el.Handle())
	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.Equal(t, geom.Vec2{X: 102, Y: 52}, draw.Translation, "drawn at the content box")
	assert.Equal(t, geom.Rect{Max: geom.Vec2{X: 20, Y: 10}}, draw.Mesh.Bounds())
	assert.NotZero(t, draw.Texture)

	// no update without changes
	handle := el.Handle()
	el.Render()
	assert.Equal(t, handle, el.Handle())
	assert.Equal(t, 1, cache.RefCount(handle))

	el.Close()
	assert.Zero(t, el.Handle())
	assert.Equal(t, svgcache.Stats{}, cache.Stats())
	assert.Zero(t, rec.Live())
}

func TestSourceSwap(t *testing.T) {
	cache, rec := setup(t)
	h := newHost(rec, "wide.svg")
	el := New(h, cache)
	el.Render()
	assert.Equal(t, svgcache.Stats{Documents: 1, Sizes: 1, Geometries: 1, References: 1}, cache.Stats())

	h.attributes["src"] = "framed.svg"
	el.OnAttributeChange([]string{"src"})
	assert.Equal(t, 1, h.layoutDirty)
	el.Render()
	// the old document is released once the new one is acquired
	assert.Equal(t, svgcache.Stats{Documents: 1, Sizes: 1, Geometries: 1, References: 1}, cache.Stats())

	h.attributes["src"] = ""
	el.OnAttributeChange([]string{"src"})
	dims, ratio, ok := el.IntrinsicDimensions()
	assert.False(t, ok)
	assert.Equal(t, geom.Vec2{}, dims)
	assert.Zero(t, ratio)
	assert.Zero(t, el.Handle())
	assert.Equal(t, svgcache.Stats{}, cache.Stats())

	// nothing drawn without source
	draws := len(rec.Draws)
	el.Render()
	assert.Len(t, rec.Draws, draws)
}

func TestSharedHandles(t *testing.T) {
	cache, rec := setup(t)
	h1, h2 := newHost(rec, "wide.svg"), newHost(rec, "wide.svg")
	el1, el2 := New(h1, cache), New(h2, cache)
	el1.Render()
	el2.Render()
	assert.Equal(t, el1.Handle(), el2.Handle())
	assert.Equal(t, 2, cache.RefCount(el1.Handle()))

	h2.BoxModel.Content = geom.Vec2{X: 40, Y: 20}
	el2.OnResize()
	el2.Render()
	assert.NotEqual(t, el1.Handle(), el2.Handle())
	assert.Equal(t, 1, cache.RefCount(el1.Handle()))
	assert.Equal(t, svgcache.Stats{Documents: 1, Sizes: 2, Geometries: 2, References: 2}, cache.Stats())

	// the same file under another path is another document
	h3 := newHost(rec, "/icons/wide.svg")
	el3 := New(h3, cache)
	el3.Render()
	assert.NotZero(t, el3.Handle())
	assert.Equal(t, 2, cache.Stats().Documents)

	el1.Close()
	el2.Close()
	el3.Close()
	assert.Zero(t, rec.Live())
}

func TestStyleChange(t *testing.T) {
	cache, rec := setup(t)
	h := newHost(rec, "wide.svg")
	el := New(h, cache)
	el.Render()
	first := el.Handle()

	h.Style.ImageColor = color.NRGBA{0, 0, 255, 255}
	el.OnPropertyChange([]string{"font-size"})
	el.Render()
	assert.Equal(t, first, el.Handle(), "unrelated property")

	el.OnPropertyChange([]string{PropertyImageColor})
	el.Render()
	assert.NotEqual(t, first, el.Handle())
	assert.Zero(t, cache.RefCount(first))
	assert.Equal(t, svgcache.Stats{Documents: 1, Sizes: 1, Geometries: 1, References: 1}, cache.Stats())

	g, _ := cache.GetGeometry(el.Handle())
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, g.Mesh().Vertices[0].Color)
	el.Close()
}

func TestIntrinsicDimensions(t *testing.T) {
	cache, rec := setup(t)
	h := newHost(rec, "wide.svg")
	el := New(h, cache)

	dims, ratio, ok := el.IntrinsicDimensions()
	require.True(t, ok)
	assert.Equal(t, geom.Vec2{X: 40, Y: 20}, dims)
	assert.Equal(t, float32(2), ratio)

	h.attributes["width"] = "80"
	el.OnAttributeChange([]string{"width"})
	assert.Equal(t, 1, h.layoutDirty)
	dims, ratio, ok = el.IntrinsicDimensions()
	require.True(t, ok)
	assert.Equal(t, geom.Vec2{X: 80, Y: 20}, dims)
	assert.Equal(t, float32(4), ratio)

	h.attributes["height"] = "0"
	dims, ratio, _ = el.IntrinsicDimensions()
	assert.Equal(t, geom.Vec2{X: 80, Y: 0}, dims)
	assert.Zero(t, ratio)
	el.Close()
}

func TestContentFit(t *testing.T) {
	cache, rec := setup(t)
	h := newHost(rec, "framed.svg")
	el := New(h, cache)

	dims, _, _ := el.IntrinsicDimensions()
	assert.Equal(t, geom.Vec2{X: 100, Y: 100}, dims)

	h.attributes["content-fit"] = "content"
	el.OnAttributeChange([]string{"content-fit"})
	dims, ratio, _ := el.IntrinsicDimensions()
	assert.InDelta(t, 30, dims.X, 0.1)
	assert.InDelta(t, 10, dims.Y, 0.1)
	assert.InDelta(t, 3, ratio, 0.01)
	assert.Equal(t, 1, cache.Stats().Sizes)
	el.Close()
}

func TestInvalidSource(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cache := svgcache.New(svgcache.FSLoader{FS: fstest.MapFS{}}, rendertest.New(), svgcache.WithLogger(zap.New(core)))
	rec := rendertest.New()
	el := New(newHost(rec, "missing.svg"), cache)

	el.Render()
	el.Render()
	assert.Zero(t, el.Handle())
	assert.Empty(t, rec.Draws)
	assert.Equal(t, 1, logs.Len(), "failures are not retried until the element changes")

	dims, _, ok := el.IntrinsicDimensions()
	assert.True(t, ok)
	assert.Equal(t, geom.Vec2{}, dims)
}

func TestJoinPath(t *testing.T) {
	for _, test := range []struct{ url, src, want string }{
		{"ui/main.rml", "img/a.svg", "ui/img/a.svg"},
		{"ui/main.rml", "../a.svg", "a.svg"},
		{"ui/main.rml", "/abs/a.svg", "/abs/a.svg"},
		{"", "a.svg", "a.svg"},
		{"C|/ui/main.rml", "a.svg", "C:/ui/a.svg"},
	} {
		assert.Equal(t, test.want, joinPath(test.url, test.src), test.url+" "+test.src)
	}
}
