package softrender

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benoitkugler/okpaint/decorator"
	"github.com/benoitkugler/okpaint/filter"
	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func newRenderer(w, h int) *Renderer {
	return New(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func TestRenderGeometry(t *testing.T) {
	r := newRenderer(10, 10)
	mesh := geom.GenerateQuad(geom.Vec2{X: 2, Y: 2}, geom.Vec2{X: 4, Y: 4}, red, geom.Vec2{}, geom.Vec2{})
	h := r.CompileGeometry(mesh)
	r.RenderGeometry(h, geom.Vec2{X: 1, Y: 1}, 0)

	img := r.Target()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 3 && x < 7 && y >= 3 && y < 7
			c := img.RGBAAt(x, y)
			if inside {
				assert.Equal(t, color.RGBA{255, 0, 0, 255}, c, "pixel %d %d", x, y)
			} else {
				assert.Zero(t, c.A, "pixel %d %d", x, y)
			}
		}
	}

	r.ReleaseGeometry(h)
	assert.Zero(t, r.Live())
}

func TestClippedGeometry(t *testing.T) {
	r := newRenderer(4, 4)
	h := r.CompileGeometry(geom.GenerateQuad(geom.Vec2{}, geom.Vec2{X: 10, Y: 10}, blue, geom.Vec2{}, geom.Vec2{}))
	r.RenderGeometry(h, geom.Vec2{X: -3, Y: 2}, 0)

	img := r.Target()
	assert.Zero(t, img.RGBAAt(0, 1).A)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 2))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(3, 3))
}

func TestTexture(t *testing.T) {
	r := newRenderer(4, 2)
	// red and blue texels
	tex, err := r.GenerateTexture([]byte{255, 0, 0, 255, 0, 0, 255, 255}, geom.Vec2i{X: 2, Y: 1})
	require.NoError(t, err)

	h := r.CompileGeometry(geom.GenerateQuad(geom.Vec2{}, geom.Vec2{X: 4, Y: 2}, white, geom.Vec2{}, geom.Vec2{X: 1, Y: 1}))
	r.RenderGeometry(h, geom.Vec2{}, tex)

	img := r.Target()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(3, 1))

	_, err = r.GenerateTexture([]byte{1, 2, 3}, geom.Vec2i{X: 1, Y: 1})
	assert.Error(t, err)

	r.ReleaseGeometry(h)
	r.ReleaseTexture(tex)
	assert.Zero(t, r.Live())
}

func TestLoadTexture(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, red)
	file := filepath.Join(t.TempDir(), "texture.png")
	require.NoError(t, imaging.Save(src, file))

	r := newRenderer(1, 1)
	h, dims, err := r.LoadTexture(file)
	require.NoError(t, err)
	assert.NotZero(t, h)
	assert.Equal(t, geom.Vec2i{X: 3, Y: 2}, dims)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, r.textures[h].RGBAAt(0, 0))

	_, _, err = r.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestRamp(t *testing.T) {
	rp := ramp{stops: []stop{
		{t: 0, c: premulFrom(black)},
		{t: 0.5, c: premulFrom(white)},
	}}
	assert.Equal(t, premulFrom(black), rp.at(-1))
	assert.InDelta(t, 0.5, rp.at(0.25).r, 1e-6)
	assert.Equal(t, premulFrom(white), rp.at(0.75))

	rp.repeating = true
	assert.InDelta(t, 0.5, rp.at(0.75).r, 1e-6)
	assert.InDelta(t, 0.5, rp.at(-0.25).r, 1e-6)
	assert.InDelta(t, 0.2, rp.at(1.1).r, 1e-5)

	// hard stops
	hard := ramp{stops: []stop{{0, premulFrom(red)}, {0.5, premulFrom(red)}, {0.5, premulFrom(blue)}, {1, premulFrom(blue)}}}
	assert.Equal(t, premulFrom(red), hard.at(0.49))
	assert.Equal(t, premulFrom(blue), hard.at(0.51))
}

func TestShaders(t *testing.T) {
	stops := []style.ColorStop{
		{Color: black, Position: style.NumericValue{Number: 0, Unit: style.Number}},
		{Color: white, Position: style.NumericValue{Number: 1, Unit: style.Number}},
	}

	lin, err := compileShader("linear-gradient", render.Params{
		"p0": geom.Vec2{X: 0, Y: 0}, "p1": geom.Vec2{X: 10, Y: 0}, "length": float32(10),
		"repeating": false, "color_stop_list": stops,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, lin.colorAt(geom.Vec2{X: -5, Y: 3}).r, 1e-6)
	assert.InDelta(t, 0.5, lin.colorAt(geom.Vec2{X: 5, Y: 8}).r, 1e-6)
	assert.InDelta(t, 1, lin.colorAt(geom.Vec2{X: 12}).r, 1e-6)

	rad, err := compileShader("radial-gradient", render.Params{
		"center": geom.Vec2{X: 5, Y: 5}, "radius": geom.Vec2{X: 5, Y: 2},
		"repeating": false, "color_stop_list": stops,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, rad.colorAt(geom.Vec2{X: 5, Y: 5}).r, 1e-6)
	assert.InDelta(t, 0.5, rad.colorAt(geom.Vec2{X: 7.5, Y: 5}).r, 1e-6)
	assert.InDelta(t, 0.5, rad.colorAt(geom.Vec2{X: 5, Y: 6}).r, 1e-6)

	_, err = compileShader("linear-gradient", render.Params{})
	assert.ErrorIs(t, err, errMissingStops)
	_, err = compileShader("conic-gradient", render.Params{"color_stop_list": stops})
	assert.ErrorIs(t, err, errUnknownEffect)
	_, err = compileShader("linear-gradient", render.Params{"color_stop_list": []style.ColorStop{style.AutoStop(red)}})
	assert.Error(t, err)
}

func TestUnsupported(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(image.NewRGBA(image.Rect(0, 0, 1, 1)), WithLogger(zap.New(core)))

	assert.Zero(t, r.CompileShader("conic-gradient", render.Params{}))
	assert.Zero(t, r.CompileFilter("drop-shadow", render.Params{}))
	assert.Zero(t, r.CompileFilter("blur", render.Params{}))
	r.PopLayer(render.BlendOver, nil)
	assert.Equal(t, 4, logs.Len())
	assert.Zero(t, r.Live())
}

func TestLinearGradientDecorator(t *testing.T) {
	r := newRenderer(10, 4)
	el := &paint.StaticElement{
		BoxModel: geom.Box{Content: geom.Vec2{X: 10, Y: 4}},
		Style:    style.DefaultComputedValues,
		Metrics:  style.DefaultMetrics,
		Renderer: r,
	}
	dec, err := decorator.NewLinearGradient(false, math.Pi/2, []style.ColorStop{style.AutoStop(black), style.AutoStop(white)})
	require.NoError(t, err)

	data, err := dec.GenerateElementData(el, geom.Border)
	require.NoError(t, err)
	dec.RenderElement(el, data)

	img := r.Target()
	prev := -1
	for x := 0; x < 10; x++ {
		c := img.RGBAAt(x, 2)
		assert.Equal(t, uint8(255), c.A)
		assert.Greater(t, int(c.R), prev, "increasing from left to right")
		prev = int(c.R)
	}
	assert.Less(t, img.RGBAAt(0, 0).R, uint8(20))
	assert.Greater(t, img.RGBAAt(9, 0).R, uint8(235))

	dec.ReleaseElementData(data)
	assert.Zero(t, r.Live())
}

func TestBlurLayer(t *testing.T) {
	draw := func(blurred bool) *image.RGBA {
		r := newRenderer(20, 20)
		el := &paint.StaticElement{Metrics: style.DefaultMetrics, Renderer: r}
		blur, err := filter.NewBlur(style.NumericValue{Number: 2, Unit: style.Px})
		require.NoError(t, err)
		compiled := blur.CompileFilter(el)
		require.True(t, compiled.Valid())

		h := r.CompileGeometry(geom.GenerateQuad(geom.Vec2{X: 9, Y: 9}, geom.Vec2{X: 2, Y: 2}, white, geom.Vec2{}, geom.Vec2{}))
		r.PushLayer()
		r.RenderGeometry(h, geom.Vec2{}, 0)
		var filters []render.CompiledFilterHandle
		if blurred {
			filters = render.Handles([]render.CompiledFilter{compiled})
		}
		r.PopLayer(render.BlendOver, filters)

		r.ReleaseGeometry(h)
		compiled.Release()
		assert.Zero(t, r.Live())
		return r.Target()
	}

	sharp := draw(false)
	assert.Equal(t, uint8(255), sharp.RGBAAt(10, 10).A)
	assert.Zero(t, sharp.RGBAAt(12, 10).A)

	blurred := draw(true)
	assert.Less(t, blurred.RGBAAt(10, 10).A, uint8(255))
	assert.NotZero(t, blurred.RGBAAt(12, 10).A)
	assert.Zero(t, blurred.RGBAAt(16, 10).A)
	assert.Zero(t, blurred.RGBAAt(0, 0).A)
}

func TestBlendReplace(t *testing.T) {
	r := newRenderer(2, 2)
	r.Clear(red)
	r.PushLayer()
	r.PopLayer(render.BlendOver, nil)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, r.Target().RGBAAt(1, 1))

	r.PushLayer()
	r.PopLayer(render.BlendReplace, nil)
	assert.Zero(t, r.Target().RGBAAt(1, 1).A)
}
