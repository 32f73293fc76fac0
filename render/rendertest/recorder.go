// Package rendertest provides a render.Interface recording every call,
// for tests of code built on the render package.
package rendertest

import (
	"fmt"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/render"
)

var _ render.Interface = (*Recorder)(nil) // assert interface conformance

// Shader is a compiled effect, as seen by the Recorder.
type Shader struct {
	Name   string
	Params render.Params
}

// Filter is a compiled filter, as seen by the Recorder.
type Filter struct {
	Name   string
	Params render.Params
}

// Draw records one RenderGeometry or RenderShader call.
type Draw struct {
	Mesh        geom.Mesh
	Translation geom.Vec2
	Texture     render.TextureHandle
	Shader      render.CompiledShaderHandle // zero for RenderGeometry
}

// Recorder implements render.Interface in memory. Handles are allocated
// from one counter, so that no two resources share a handle.
type Recorder struct {
	next uint64

	Geometries map[render.CompiledGeometryHandle]geom.Mesh
	Textures   map[render.TextureHandle]geom.Vec2i
	Shaders    map[render.CompiledShaderHandle]Shader
	Filters    map[render.CompiledFilterHandle]Filter

	Draws  []Draw
	Layers int // current layer depth

	// TextureUploads counts GenerateTexture calls.
	TextureUploads int
	// RejectShaders makes CompileShader fail.
	RejectShaders bool
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Geometries: make(map[render.CompiledGeometryHandle]geom.Mesh),
		Textures:   make(map[render.TextureHandle]geom.Vec2i),
		Shaders:    make(map[render.CompiledShaderHandle]Shader),
		Filters:    make(map[render.CompiledFilterHandle]Filter),
	}
}

func (r *Recorder) id() uint64 {
	r.next++
	return r.next
}

// Live returns the number of resources not yet released.
func (r *Recorder) Live() int {
	return len(r.Geometries) + len(r.Textures) + len(r.Shaders) + len(r.Filters)
}

func (r *Recorder) CompileGeometry(mesh geom.Mesh) render.CompiledGeometryHandle {
	h := render.CompiledGeometryHandle(r.id())
	r.Geometries[h] = mesh
	return h
}

func (r *Recorder) RenderGeometry(geometry render.CompiledGeometryHandle, translation geom.Vec2, texture render.TextureHandle) {
	r.Draws = append(r.Draws, Draw{Mesh: r.mustGeometry(geometry), Translation: translation, Texture: texture})
}

func (r *Recorder) mustGeometry(h render.CompiledGeometryHandle) geom.Mesh {
	mesh, ok := r.Geometries[h]
	if !ok {
		panic(fmt.Sprintf("rendertest: unknown geometry %d", h))
	}
	return mesh
}

func (r *Recorder) ReleaseGeometry(geometry render.CompiledGeometryHandle) {
	r.mustGeometry(geometry)
	delete(r.Geometries, geometry)
}

func (r *Recorder) LoadTexture(source string) (render.TextureHandle, geom.Vec2i, error) {
	return 0, geom.Vec2i{}, fmt.Errorf("rendertest: can't load texture %q", source)
}

func (r *Recorder) GenerateTexture(pixels []byte, dimensions geom.Vec2i) (render.TextureHandle, error) {
	if len(pixels) != 4*dimensions.Area() {
		return 0, fmt.Errorf("rendertest: %d bytes for %v texture", len(pixels), dimensions)
	}
	r.TextureUploads++
	h := render.TextureHandle(r.id())
	r.Textures[h] = dimensions
	return h, nil
}

func (r *Recorder) ReleaseTexture(texture render.TextureHandle) {
	if _, ok := r.Textures[texture]; !ok {
		panic(fmt.Sprintf("rendertest: unknown texture %d", texture))
	}
	delete(r.Textures, texture)
}

func (r *Recorder) CompileShader(name string, params render.Params) render.CompiledShaderHandle {
	if r.RejectShaders {
		return 0
	}
	h := render.CompiledShaderHandle(r.id())
	r.Shaders[h] = Shader{Name: name, Params: params}
	return h
}

func (r *Recorder) RenderShader(shader render.CompiledShaderHandle, geometry render.CompiledGeometryHandle, translation geom.Vec2, texture render.TextureHandle) {
	if _, ok := r.Shaders[shader]; !ok {
		panic(fmt.Sprintf("rendertest: unknown shader %d", shader))
	}
	r.Draws = append(r.Draws, Draw{Mesh: r.mustGeometry(geometry), Translation: translation, Texture: texture, Shader: shader})
}

func (r *Recorder) ReleaseShader(shader render.CompiledShaderHandle) {
	if _, ok := r.Shaders[shader]; !ok {
		panic(fmt.Sprintf("rendertest: unknown shader %d", shader))
	}
	delete(r.Shaders, shader)
}

func (r *Recorder) PushLayer() { r.Layers++ }

func (r *Recorder) PopLayer(blend render.BlendMode, filters []render.CompiledFilterHandle) {
	if r.Layers == 0 {
		panic("rendertest: PopLayer without PushLayer")
	}
	r.Layers--
}

func (r *Recorder) CompileFilter(name string, params render.Params) render.CompiledFilterHandle {
	h := render.CompiledFilterHandle(r.id())
	r.Filters[h] = Filter{Name: name, Params: params}
	return h
}

func (r *Recorder) ReleaseFilter(filter render.CompiledFilterHandle) {
	if _, ok := r.Filters[filter]; !ok {
		panic(fmt.Sprintf("rendertest: unknown filter %d", filter))
	}
	delete(r.Filters, filter)
}
