// Package render defines the abstract interface to the rendering backend,
// and the geometry and texture resources built on top of it.
//
// The paint effects only see the Interface: compiling geometry, effects
// (shaders) and filters, uploading textures and compositing layers are
// all delegated to the backend.
package render

import (
	"github.com/benoitkugler/okpaint/geom"
)

// Backend handles. The zero value of each is invalid.
type (
	CompiledGeometryHandle uint64
	TextureHandle          uint64
	CompiledShaderHandle   uint64
	CompiledFilterHandle   uint64
)

// BlendMode selects how a layer is composited onto the one below.
type BlendMode uint8

const (
	BlendOver    BlendMode = iota // source over destination
	BlendReplace                  // source replaces destination
)

// Interface is implemented by rendering backends.
// All methods are called from the render thread.
type Interface interface {
	// CompileGeometry uploads a mesh and returns a handle to it.
	CompileGeometry(mesh geom.Mesh) CompiledGeometryHandle
	// RenderGeometry draws compiled geometry translated by translation,
	// sampling texture if it is not zero.
	RenderGeometry(geometry CompiledGeometryHandle, translation geom.Vec2, texture TextureHandle)
	// ReleaseGeometry frees compiled geometry.
	ReleaseGeometry(geometry CompiledGeometryHandle)

	// LoadTexture loads an image file, returning its handle and dimensions.
	LoadTexture(source string) (TextureHandle, geom.Vec2i, error)
	// GenerateTexture uploads RGBA8 pixels (premultiplied alpha) of the
	// given dimensions.
	GenerateTexture(pixels []byte, dimensions geom.Vec2i) (TextureHandle, error)
	// ReleaseTexture frees a texture.
	ReleaseTexture(texture TextureHandle)

	// CompileShader compiles the named effect with its parameters.
	// It returns the zero handle if the effect is not supported.
	CompileShader(name string, params Params) CompiledShaderHandle
	// RenderShader draws compiled geometry through a compiled effect.
	RenderShader(shader CompiledShaderHandle, geometry CompiledGeometryHandle, translation geom.Vec2, texture TextureHandle)
	// ReleaseShader frees a compiled effect.
	ReleaseShader(shader CompiledShaderHandle)

	// PushLayer starts a new transparent compositing layer.
	PushLayer()
	// PopLayer applies filters to the top layer and composites it onto the
	// layer below.
	PopLayer(blend BlendMode, filters []CompiledFilterHandle)

	// CompileFilter compiles the named filter with its parameters.
	// It returns the zero handle if the filter is not supported.
	CompileFilter(name string, params Params) CompiledFilterHandle
	// ReleaseFilter frees a compiled filter.
	ReleaseFilter(filter CompiledFilterHandle)
}
