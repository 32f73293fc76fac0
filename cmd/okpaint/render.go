package main

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/benoitkugler/okpaint/decorator"
	"github.com/benoitkugler/okpaint/filter"
	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/softrender"
	"github.com/benoitkugler/okpaint/style"
	"github.com/benoitkugler/okpaint/svgcache"
	"github.com/benoitkugler/okpaint/svgelement"
)

// node is a scene element, hosting an <svg> element when it has a source.
type node struct {
	*paint.StaticElement
	attributes map[string]string
	url        string
	logger     *zap.Logger
}

func (n *node) Attribute(name string) (string, bool) {
	v, ok := n.attributes[name]
	return v, ok
}

func (n *node) DocumentURL() string { return n.url }

// DirtyLayout is a no-op: scenes have a fixed layout.
func (n *node) DirtyLayout() { n.logger.Debug("layout change ignored") }

// sceneRenderer draws scenes, sharing the effect registries and the SVG
// cache between renderings.
type sceneRenderer struct {
	logger     *zap.Logger
	decorators *paint.Registry[decorator.Decorator]
	filters    *paint.Registry[filter.Filter]
	loader     svgcache.Loader
}

func newSceneRenderer(logger *zap.Logger) *sceneRenderer {
	return &sceneRenderer{
		logger:     logger,
		decorators: decorator.NewFactory(logger),
		filters:    filter.NewFactory(logger),
		loader:     svgcache.OSLoader{},
	}
}

// Render draws scene, read from the file at path. Invalid elements are
// skipped and reported in the returned error, after the others have been
// drawn.
func (sr *sceneRenderer) Render(scene Scene, path string) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, scene.Width, scene.Height))
	ri := softrender.New(img, softrender.WithLogger(sr.logger))
	if scene.Background != "" {
		bg, err := style.ParseColor(scene.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		ri.Clear(bg)
	}

	cache := svgcache.New(sr.loader, ri, svgcache.WithLogger(sr.logger))
	defer cache.Teardown()

	url := filepath.ToSlash(path)
	var errs []error
	for i, desc := range scene.Elements {
		if err := sr.renderElement(ri, cache, url, desc); err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", i+1, err))
		}
	}
	if live := ri.Live(); live != 0 {
		sr.logger.Warn("backend resources leaked", zap.Int("count", live))
	}
	return img, errors.Join(errs...)
}

func (sr *sceneRenderer) renderElement(ri *softrender.Renderer, cache *svgcache.Cache, url string, desc ElementDesc) error {
	cv, err := desc.computedValues()
	if err != nil {
		return err
	}
	metrics := style.DefaultMetrics
	size := ri.Target().Rect.Size()
	metrics.Viewport = [2]float32{float32(size.X), float32(size.Y)}
	n := &node{
		StaticElement: &paint.StaticElement{
			BoxModel: desc.box(),
			Style:    cv,
			Metrics:  metrics,
			Offset:   geom.Vec2{X: desc.X, Y: desc.Y},
			Renderer: ri,
		},
		attributes: map[string]string{"src": desc.Src, "content-fit": desc.ContentFit},
		url:        url,
		logger:     sr.logger,
	}

	var compiled []render.CompiledFilter
	defer func() {
		for i := range compiled {
			compiled[i].Release()
		}
	}()
	for _, fs := range desc.Filters {
		f, err := instance(sr.filters, fs)
		if err != nil {
			return err
		}
		if c := f.CompileFilter(n); c.Valid() {
			compiled = append(compiled, c)
		}
	}

	if len(compiled) != 0 {
		ri.PushLayer()
		defer ri.PopLayer(render.BlendOver, render.Handles(compiled))
	}

	for _, ds := range desc.Decorators {
		dec, err := instance(sr.decorators, ds)
		if err != nil {
			return err
		}
		area, err := parseArea(ds.Area)
		if err != nil {
			return err
		}
		data, err := dec.GenerateElementData(n, area)
		if err != nil {
			return fmt.Errorf("%s: %w", ds.Name, err)
		}
		dec.RenderElement(n, data)
		dec.ReleaseElementData(data)
	}

	if desc.Src != "" {
		svg := svgelement.New(n, cache, svgelement.WithLogger(sr.logger))
		svg.Render()
		svg.Close()
	}
	return nil
}
