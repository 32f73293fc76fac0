// Package softrender implements render.Interface on the CPU, drawing onto
// an *image.RGBA. It supports every effect and filter compiled by the
// decorator and filter packages, and is used to render scenes without a
// GPU.
package softrender

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/render"
)

var _ render.Interface = (*Renderer)(nil) // assert interface conformance

// Renderer draws onto an RGBA image. Textures are stored with
// premultiplied alpha, as uploaded.
type Renderer struct {
	logger *zap.Logger

	layers []*image.RGBA // layers[0] is the target
	ras    vector.Rasterizer

	next       uint64
	geometries map[render.CompiledGeometryHandle]geom.Mesh
	textures   map[render.TextureHandle]*image.RGBA
	shaders    map[render.CompiledShaderHandle]shader
	filters    map[render.CompiledFilterHandle]float32 // blur sigma
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report unsupported effects and
// invalid resources.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// New returns a renderer drawing onto target.
func New(target *image.RGBA, opts ...Option) *Renderer {
	r := &Renderer{
		logger:     zap.NewNop(),
		layers:     []*image.RGBA{target},
		geometries: make(map[render.CompiledGeometryHandle]geom.Mesh),
		textures:   make(map[render.TextureHandle]*image.RGBA),
		shaders:    make(map[render.CompiledShaderHandle]shader),
		filters:    make(map[render.CompiledFilterHandle]float32),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target returns the image drawn onto.
func (r *Renderer) Target() *image.RGBA { return r.layers[0] }

// Clear fills the target with c.
func (r *Renderer) Clear(c color.Color) {
	t := r.Target()
	draw.Draw(t, t.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Live returns the number of backend resources not released.
func (r *Renderer) Live() int {
	return len(r.geometries) + len(r.textures) + len(r.shaders) + len(r.filters)
}

func (r *Renderer) id() uint64 {
	r.next++
	return r.next
}

func (r *Renderer) top() *image.RGBA { return r.layers[len(r.layers)-1] }

func (r *Renderer) CompileGeometry(mesh geom.Mesh) render.CompiledGeometryHandle {
	h := render.CompiledGeometryHandle(r.id())
	r.geometries[h] = mesh
	return h
}

func (r *Renderer) RenderGeometry(geometry render.CompiledGeometryHandle, translation geom.Vec2, texture render.TextureHandle) {
	r.fill(geometry, translation, texture, nil)
}

func (r *Renderer) ReleaseGeometry(geometry render.CompiledGeometryHandle) {
	delete(r.geometries, geometry)
}

// LoadTexture decodes an image file.
func (r *Renderer) LoadTexture(source string) (render.TextureHandle, geom.Vec2i, error) {
	img, err := imaging.Open(source)
	if err != nil {
		return 0, geom.Vec2i{}, fmt.Errorf("loading texture: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)

	h := render.TextureHandle(r.id())
	r.textures[h] = rgba
	return h, geom.Vec2i{X: b.Dx(), Y: b.Dy()}, nil
}

func (r *Renderer) GenerateTexture(pixels []byte, dimensions geom.Vec2i) (render.TextureHandle, error) {
	if len(pixels) != 4*dimensions.Area() {
		return 0, fmt.Errorf("invalid texture data: %d bytes for %dx%d pixels", len(pixels), dimensions.X, dimensions.Y)
	}
	rgba := &image.RGBA{
		Pix:    append([]byte(nil), pixels...),
		Stride: 4 * dimensions.X,
		Rect:   image.Rect(0, 0, dimensions.X, dimensions.Y),
	}
	h := render.TextureHandle(r.id())
	r.textures[h] = rgba
	return h, nil
}

func (r *Renderer) ReleaseTexture(texture render.TextureHandle) {
	delete(r.textures, texture)
}

// CompileShader supports the "linear-gradient" and "radial-gradient"
// effects.
func (r *Renderer) CompileShader(name string, params render.Params) render.CompiledShaderHandle {
	sh, err := compileShader(name, params)
	if err != nil {
		r.logger.Warn("unsupported effect", zap.String("name", name), zap.Error(err))
		return 0
	}
	h := render.CompiledShaderHandle(r.id())
	r.shaders[h] = sh
	return h
}

func (r *Renderer) RenderShader(sh render.CompiledShaderHandle, geometry render.CompiledGeometryHandle, translation geom.Vec2, texture render.TextureHandle) {
	s, ok := r.shaders[sh]
	if !ok {
		r.logger.Warn("unknown effect", zap.Uint64("handle", uint64(sh)))
		return
	}
	r.fill(geometry, translation, texture, s)
}

func (r *Renderer) ReleaseShader(sh render.CompiledShaderHandle) {
	delete(r.shaders, sh)
}

// fill draws a mesh onto the top layer: the coverage of its triangles is
// accumulated in one mask, which is then composited over the layer.
func (r *Renderer) fill(geometry render.CompiledGeometryHandle, translation geom.Vec2, texture render.TextureHandle, sh shader) {
	mesh, ok := r.geometries[geometry]
	if !ok {
		r.logger.Warn("unknown geometry", zap.Uint64("handle", uint64(geometry)))
		return
	}
	dst := r.top()
	bounds := mesh.Bounds()
	area := image.Rect(
		int(math32.Floor(bounds.Min.X+translation.X)), int(math32.Floor(bounds.Min.Y+translation.Y)),
		int(math32.Ceil(bounds.Max.X+translation.X)), int(math32.Ceil(bounds.Max.Y+translation.Y)),
	).Intersect(dst.Rect)
	if area.Empty() {
		return
	}

	r.ras.Reset(area.Dx(), area.Dy())
	r.ras.DrawOp = draw.Over
	origin := translation.Sub(geom.Vec2{X: float32(area.Min.X), Y: float32(area.Min.Y)})
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]].Position.Add(origin)
		b := mesh.Vertices[mesh.Indices[i+1]].Position.Add(origin)
		c := mesh.Vertices[mesh.Indices[i+2]].Position.Add(origin)
		// overlapping triangles must have the same orientation, so that
		// their coverage adds up instead of canceling
		if b.Sub(a).X*c.Sub(a).Y-b.Sub(a).Y*c.Sub(a).X < 0 {
			b, c = c, b
		}
		r.ras.MoveTo(a.X, a.Y)
		r.ras.LineTo(b.X, b.Y)
		r.ras.LineTo(c.X, c.Y)
		r.ras.ClosePath()
	}

	src := &meshImage{mesh: mesh, translation: translation, bounds: area, shader: sh}
	if texture != 0 {
		src.texture = r.textures[texture]
	}
	r.ras.Draw(dst, area, src, area.Min)
}

// PushLayer starts a transparent layer of the size of the target.
func (r *Renderer) PushLayer() {
	r.layers = append(r.layers, image.NewRGBA(r.Target().Rect))
}

// PopLayer applies filters to the top layer, then composites it onto the
// layer below.
func (r *Renderer) PopLayer(blend render.BlendMode, filters []render.CompiledFilterHandle) {
	if len(r.layers) < 2 {
		r.logger.Warn("pop of the base layer")
		return
	}
	layer := r.top()
	r.layers = r.layers[:len(r.layers)-1]

	for _, f := range filters {
		sigma, ok := r.filters[f]
		if !ok {
			r.logger.Warn("unknown filter", zap.Uint64("handle", uint64(f)))
			continue
		}
		layer = gaussian(layer, sigma)
	}

	op := draw.Over
	if blend == render.BlendReplace {
		op = draw.Src
	}
	dst := r.top()
	draw.Draw(dst, dst.Rect, layer, layer.Rect.Min, op)
}

// gaussian blurs img with a standard deviation of sigma pixels.
func gaussian(img *image.RGBA, sigma float32) *image.RGBA {
	if sigma <= 0 {
		return img
	}
	// bild's kernel is exp(-x²/4r), whose variance is 2r
	radius := float64(sigma) * float64(sigma) / 2
	return blur.Gaussian(img, radius)
}

// CompileFilter supports the "blur" filter.
func (r *Renderer) CompileFilter(name string, params render.Params) render.CompiledFilterHandle {
	sigma, ok := params.Float("sigma")
	if name != "blur" || !ok {
		r.logger.Warn("unsupported filter", zap.String("name", name))
		return 0
	}
	h := render.CompiledFilterHandle(r.id())
	r.filters[h] = sigma
	return h
}

func (r *Renderer) ReleaseFilter(filter render.CompiledFilterHandle) {
	delete(r.filters, filter)
}
