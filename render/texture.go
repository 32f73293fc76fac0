package render

import (
	"errors"

	"github.com/benoitkugler/okpaint/geom"
)

// PixelSource produces the pixels of a texture on demand, when the texture
// is first uploaded to the backend. Pixels are RGBA8 with premultiplied
// alpha, row major, 4*width*height bytes.
//
// A PixelSource must stay valid until the texture using it is released.
type PixelSource interface {
	Pixels() ([]byte, geom.Vec2i, error)
}

// PixelSourceFunc adapts a function to PixelSource.
type PixelSourceFunc func() ([]byte, geom.Vec2i, error)

func (f PixelSourceFunc) Pixels() ([]byte, geom.Vec2i, error) { return f() }

var errEmptyTexture = errors.New("texture has no pixels")

// Texture is a lazily uploaded backend texture. It is either generated
// from a PixelSource or loaded from a file by the backend.
//
// The zero value is not usable: see NewTexture and NewFileTexture.
type Texture struct {
	ri     Interface
	source PixelSource
	file   string

	handle     TextureHandle
	dimensions geom.Vec2i
	err        error // sticky upload error
}

// NewTexture returns a texture whose pixels are requested from source the
// first time the backend needs them.
func NewTexture(ri Interface, source PixelSource) *Texture {
	return &Texture{ri: ri, source: source}
}

// NewFileTexture returns a texture loaded by the backend from file.
func NewFileTexture(ri Interface, file string) *Texture {
	return &Texture{ri: ri, file: file}
}

// ensureLoaded uploads the texture if needed. A failed upload is not
// retried.
func (t *Texture) ensureLoaded() {
	if t.handle != 0 || t.err != nil {
		return
	}
	if t.source == nil {
		t.handle, t.dimensions, t.err = t.ri.LoadTexture(t.file)
		return
	}
	pixels, dims, err := t.source.Pixels()
	if err != nil {
		t.err = err
		return
	}
	if !dims.Positive() || len(pixels) < 4*dims.Area() {
		t.err = errEmptyTexture
		return
	}
	t.handle, t.err = t.ri.GenerateTexture(pixels, dims)
	if t.err == nil {
		t.dimensions = dims
	}
}

// Handle returns the backend handle, uploading the texture on first use.
// It returns zero if the upload failed; see Err.
func (t *Texture) Handle() TextureHandle {
	t.ensureLoaded()
	return t.handle
}

// Dimensions returns the pixel size, uploading the texture on first use.
func (t *Texture) Dimensions() geom.Vec2i {
	t.ensureLoaded()
	return t.dimensions
}

// Loaded reports whether the texture currently lives in the backend.
func (t *Texture) Loaded() bool { return t.handle != 0 }

// Err returns the error of the last upload attempt, if any.
func (t *Texture) Err() error { return t.err }

// Release frees the backend texture. The texture may be uploaded again
// afterwards.
func (t *Texture) Release() {
	if t.handle != 0 {
		t.ri.ReleaseTexture(t.handle)
	}
	t.handle = 0
	t.dimensions = geom.Vec2i{}
	t.err = nil
}
