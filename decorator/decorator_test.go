package decorator

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/render/rendertest"
	"github.com/benoitkugler/okpaint/style"
)

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

func newElement(ri render.Interface, content geom.Vec2) *paint.StaticElement {
	return &paint.StaticElement{
		BoxModel: geom.Box{Content: content},
		Style:    style.DefaultComputedValues,
		Metrics:  style.DefaultMetrics,
		Offset:   geom.Vec2{X: 5, Y: 5},
		Renderer: ri,
	}
}

func twoStops() style.Property {
	return style.ColorStopsProperty([]style.ColorStop{style.AutoStop(red), style.AutoStop(blue)})
}

func onlyShader(t *testing.T, rec *rendertest.Recorder) rendertest.Shader {
	t.Helper()
	require.Len(t, rec.Shaders, 1)
	for _, s := range rec.Shaders {
		return s
	}
	return rendertest.Shader{}
}

func TestFactoryNames(t *testing.T) {
	assert.Equal(t, []string{
		"gradient", "horizontal-gradient", "linear-gradient", "radial-gradient",
		"repeating-linear-gradient", "repeating-radial-gradient", "vertical-gradient",
	}, NewFactory(nil).Names())
}

func TestFlatGradient(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 10, Y: 20})

	dec, err := NewFactory(nil).Instance("vertical-gradient", style.Dictionary{
		"start-color": style.ColorProperty(red),
		"stop-color":  style.ColorProperty(blue),
	})
	require.NoError(t, err)

	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)
	assert.Empty(t, rec.Shaders, "flat gradients use no effect")

	dec.RenderElement(el, data)
	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.Equal(t, geom.Vec2{X: 5, Y: 5}, draw.Translation)
	assert.Zero(t, draw.Shader)
	for _, v := range draw.Mesh.Vertices {
		if v.Position.Y == 0 {
			assert.Equal(t, red, v.Color)
		} else {
			assert.Equal(t, blue, v.Color)
		}
	}

	dec.ReleaseElementData(data)
	assert.Zero(t, rec.Live())
}

func TestFlatGradientOpacity(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 10, Y: 10})
	el.Style.Opacity = 0.5

	dec := NewGradient(Horizontal, red, red)
	data, err := dec.GenerateElementData(el, geom.Border)
	require.NoError(t, err)
	dec.RenderElement(el, data)

	for _, v := range rec.Draws[0].Mesh.Vertices {
		assert.Equal(t, uint8(127), v.Color.A)
	}
	dec.ReleaseElementData(data)
}

func TestLinearGradientParams(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 100, Y: 50})

	dec, err := NewFactory(nil).Instance("linear-gradient", style.Dictionary{
		"angle":       style.NumericProperty(90, style.Deg),
		"color-stops": twoStops(),
	})
	require.NoError(t, err)

	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)

	shader := onlyShader(t, rec)
	assert.Equal(t, "linear-gradient", shader.Name)

	p0, _ := shader.Params.Vec2("p0")
	p1, _ := shader.Params.Vec2("p1")
	length, _ := shader.Params.Float("length")
	repeating, _ := shader.Params.Bool("repeating")
	assert.InDelta(t, 0, p0.X, 1e-3)
	assert.InDelta(t, 25, p0.Y, 1e-3)
	assert.InDelta(t, 100, p1.X, 1e-3)
	assert.InDelta(t, 25, p1.Y, 1e-3)
	assert.InDelta(t, 100, length, 1e-3)
	assert.False(t, repeating)

	stops, ok := shader.Params.ColorStops("color_stop_list")
	require.True(t, ok)
	require.Len(t, stops, 2)
	assert.Equal(t, style.NumericValue{Number: 0, Unit: style.Number}, stops[0].Position)
	assert.Equal(t, style.NumericValue{Number: 1, Unit: style.Number}, stops[1].Position)

	dec.RenderElement(el, data)
	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.NotZero(t, draw.Shader)
	assert.Equal(t, geom.Vec2{X: 5, Y: 5}, draw.Translation)

	dec.ReleaseElementData(data)
	assert.Zero(t, rec.Live())
}

func TestLinearGradientTexCoords(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 40, Y: 40})
	el.BoxModel.Border = geom.Edges{2, 2, 2, 2}

	dec, err := NewLinearGradient(false, 0, []style.ColorStop{style.AutoStop(red)})
	require.NoError(t, err)
	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)
	dec.RenderElement(el, data)

	// texture coordinates are relative to the padding area corner
	for _, v := range rec.Draws[0].Mesh.Vertices {
		assert.Equal(t, v.Position.Sub(geom.Vec2{X: 2, Y: 2}), v.TexCoord)
	}
	dec.ReleaseElementData(data)
	assert.Zero(t, rec.Live())
}

func TestRepeatingLinearGradient(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 10, Y: 10})

	dec, err := NewFactory(nil).Instance("repeating-linear-gradient", style.Dictionary{"color-stops": twoStops()})
	require.NoError(t, err)
	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)

	repeating, _ := onlyShader(t, rec).Params.Bool("repeating")
	assert.True(t, repeating)
	dec.ReleaseElementData(data)
}

func TestRadialGradientDefaults(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 200, Y: 100})

	dec, err := NewFactory(nil).Instance("radial-gradient", style.Dictionary{"color-stops": twoStops()})
	require.NoError(t, err)
	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)

	shader := onlyShader(t, rec)
	assert.Equal(t, "radial-gradient", shader.Name)
	center, _ := shader.Params.Vec2("center")
	radius, _ := shader.Params.Vec2("radius")
	assert.InDelta(t, 100, center.X, 1e-3)
	assert.InDelta(t, 50, center.Y, 1e-3)
	// farthest corner ellipse
	assert.InDelta(t, 100*math32.Sqrt2, radius.X, 1e-2)
	assert.InDelta(t, 50*math32.Sqrt2, radius.Y, 1e-2)

	dec.RenderElement(el, data)
	dec.ReleaseElementData(data)
	assert.Zero(t, rec.Live())
}

func TestRadialGradientCircle(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 200, Y: 100})

	dec, err := NewFactory(nil).Instance("repeating-radial-gradient", style.Dictionary{
		"size-x":      style.NumericProperty(50, style.Px),
		"position-x":  style.KeywordProperty(0), // left
		"position-y":  style.NumericProperty(20, style.Px),
		"color-stops": twoStops(),
	})
	require.NoError(t, err)
	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)

	shader := onlyShader(t, rec)
	center, _ := shader.Params.Vec2("center")
	radius, _ := shader.Params.Vec2("radius")
	repeating, _ := shader.Params.Bool("repeating")
	assert.Equal(t, geom.Vec2{X: 0, Y: 20}, center)
	assert.Equal(t, geom.Vec2{X: 50, Y: 50}, radius)
	assert.True(t, repeating)

	dec.ReleaseElementData(data)
	assert.Zero(t, rec.Live())
}

func TestRadialGradientEllipseLengths(t *testing.T) {
	rec := rendertest.New()
	el := newElement(rec, geom.Vec2{X: 200, Y: 100})

	dec, err := NewFactory(nil).Instance("radial-gradient", style.Dictionary{
		"size-x":      style.NumericProperty(50, style.Percent),
		"size-y":      style.NumericProperty(10, style.Px),
		"color-stops": twoStops(),
	})
	require.NoError(t, err)
	data, err := dec.GenerateElementData(el, geom.Padding)
	require.NoError(t, err)

	radius, _ := onlyShader(t, rec).Params.Vec2("radius")
	assert.InDelta(t, 100, radius.X, 1e-3)
	assert.InDelta(t, 10, radius.Y, 1e-3)
	dec.ReleaseElementData(data)
}

func TestInstanceErrors(t *testing.T) {
	factory := NewFactory(nil)
	for _, test := range []struct {
		name  string
		props style.Dictionary
		err   error
	}{
		{"linear-gradient", style.Dictionary{"color-stops": style.ColorStopsProperty(nil)}, ErrEmptyColorStops},
		{"linear-gradient", nil, paint.ErrInvalidProperty},
		{"linear-gradient", style.Dictionary{"angle": style.NumericProperty(10, style.Px), "color-stops": twoStops()}, paint.ErrInvalidProperty},
		{"radial-gradient", style.Dictionary{"color-stops": style.ColorStopsProperty(nil)}, ErrEmptyColorStops},
		{"radial-gradient", style.Dictionary{"size-x": style.NumericProperty(2, style.Deg), "color-stops": twoStops()}, paint.ErrInvalidProperty},
		{"radial-gradient", style.Dictionary{"position-y": style.KeywordProperty(7), "color-stops": twoStops()}, paint.ErrInvalidProperty},
		{"gradient", style.Dictionary{"direction": style.KeywordProperty(4)}, paint.ErrInvalidProperty},
		{"gradient", style.Dictionary{"start-color": style.NumericProperty(1, style.Number)}, paint.ErrInvalidProperty},
		{"conic-gradient", nil, paint.ErrUnknownName},
	} {
		dec, err := factory.Instance(test.name, test.props)
		assert.ErrorIs(t, err, test.err, test.name)
		assert.Nil(t, dec, test.name)
	}
}

func TestGenerateErrors(t *testing.T) {
	dec, err := NewLinearGradient(false, 0, []style.ColorStop{style.AutoStop(red)})
	require.NoError(t, err)

	_, err = dec.GenerateElementData(newElement(nil, geom.Vec2{X: 10, Y: 10}), geom.Padding)
	assert.ErrorIs(t, err, ErrNoRenderInterface)

	rec := rendertest.New()
	rec.RejectShaders = true
	_, err = dec.GenerateElementData(newElement(rec, geom.Vec2{X: 10, Y: 10}), geom.Padding)
	assert.ErrorIs(t, err, ErrEffectUnsupported)
	assert.Zero(t, rec.Live())
}
