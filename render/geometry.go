package render

import (
	"github.com/benoitkugler/okpaint/geom"
)

// Geometry is a mesh, compiled lazily by the backend the first time it is
// rendered. It may reference a texture it does not own.
type Geometry struct {
	ri      Interface
	mesh    geom.Mesh
	texture *Texture
	handle  CompiledGeometryHandle
}

// NewGeometry returns geometry for mesh, to be compiled by ri.
func NewGeometry(ri Interface, mesh geom.Mesh) *Geometry {
	return &Geometry{ri: ri, mesh: mesh}
}

// RenderInterface returns the backend compiling g.
func (g *Geometry) RenderInterface() Interface { return g.ri }

// Mesh returns the vertex data. Modifying it after g has been rendered
// has no effect until Release is called.
func (g *Geometry) Mesh() *geom.Mesh { return &g.mesh }

// SetTexture sets the texture sampled when rendering g.
func (g *Geometry) SetTexture(t *Texture) { g.texture = t }

// Texture returns the texture sampled when rendering g, or nil.
func (g *Geometry) Texture() *Texture { return g.texture }

// compile returns the backend handle, compiling the mesh if needed.
// Empty meshes are never compiled.
func (g *Geometry) compile() CompiledGeometryHandle {
	if g.handle == 0 && len(g.mesh.Indices) != 0 {
		g.handle = g.ri.CompileGeometry(g.mesh)
	}
	return g.handle
}

func (g *Geometry) textureHandle() TextureHandle {
	if g.texture == nil {
		return 0
	}
	return g.texture.Handle()
}

// Render draws g at translation.
func (g *Geometry) Render(translation geom.Vec2) {
	if h := g.compile(); h != 0 {
		g.ri.RenderGeometry(h, translation, g.textureHandle())
	}
}

// RenderWithShader draws g at translation through a compiled effect.
func (g *Geometry) RenderWithShader(shader CompiledShaderHandle, translation geom.Vec2) {
	if h := g.compile(); h != 0 {
		g.ri.RenderShader(shader, h, translation, g.textureHandle())
	}
}

// Release frees the compiled backend geometry. The texture is not
// released, since g does not own it.
func (g *Geometry) Release() {
	if g.handle != 0 {
		g.ri.ReleaseGeometry(g.handle)
		g.handle = 0
	}
}
