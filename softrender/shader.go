package softrender

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/render"
	"github.com/benoitkugler/okpaint/style"
)

var (
	errMissingStops  = errors.New("missing color stops")
	errUnknownEffect = errors.New("unknown effect")
)

// premul is a premultiplied color with components in [0, 1].
type premul struct{ r, g, b, a float32 }

func premulFrom(c color.NRGBA) premul {
	a := float32(c.A) / 255
	return premul{float32(c.R) / 255 * a, float32(c.G) / 255 * a, float32(c.B) / 255 * a, a}
}

func (p premul) lerp(q premul, t float32) premul {
	return premul{
		p.r + (q.r-p.r)*t,
		p.g + (q.g-p.g)*t,
		p.b + (q.b-p.b)*t,
		p.a + (q.a-p.a)*t,
	}
}

// tint modulates p by c, component wise.
func (p premul) tint(c premul) premul {
	return premul{p.r * c.r, p.g * c.g, p.b * c.b, p.a * c.a}
}

func (p premul) rgba64() color.RGBA64 {
	conv := func(v float32) uint16 { return uint16(geom.Clamp(v, 0, 1)*0xffff + 0.5) }
	return color.RGBA64{conv(p.r), conv(p.g), conv(p.b), conv(p.a)}
}

// shader computes the color of a point, given in the texture coordinates of
// the geometry, that is pixels relative to the painted area.
type shader interface {
	colorAt(p geom.Vec2) premul
}

type stop struct {
	t float32
	c premul
}

// ramp is a resolved color stop list.
type ramp struct {
	stops     []stop
	repeating bool
}

func newRamp(params render.Params) (ramp, error) {
	list, ok := params.ColorStops("color_stop_list")
	if !ok || len(list) == 0 {
		return ramp{}, errMissingStops
	}
	repeating, _ := params.Bool("repeating")
	out := ramp{stops: make([]stop, len(list)), repeating: repeating}
	for i, s := range list {
		if s.Position.Unit != style.Number {
			return ramp{}, fmt.Errorf("unresolved color stop position %s", s.Position)
		}
		out.stops[i] = stop{t: s.Position.Number, c: premulFrom(s.Color)}
	}
	return out, nil
}

// at returns the color at t, in units of the gradient line length.
func (rp ramp) at(t float32) premul {
	first, last := rp.stops[0], rp.stops[len(rp.stops)-1]
	if math32.IsNaN(t) || math32.IsInf(t, 0) {
		return last.c
	}
	if span := last.t - first.t; rp.repeating && span > 0 {
		t = first.t + math32.Mod(t-first.t, span)
		if t < first.t {
			t += span
		}
	}
	if t <= first.t {
		return first.c
	}
	for i := 1; i < len(rp.stops); i++ {
		s0, s1 := rp.stops[i-1], rp.stops[i]
		if t > s1.t {
			continue
		}
		if s1.t <= s0.t {
			return s1.c
		}
		return s0.c.lerp(s1.c, (t-s0.t)/(s1.t-s0.t))
	}
	return last.c
}

type linearShader struct {
	p0, p1 geom.Vec2
	ramp   ramp
}

func (s linearShader) colorAt(p geom.Vec2) premul {
	dir := s.p1.Sub(s.p0)
	l2 := dir.Dot(dir)
	if l2 == 0 {
		return s.ramp.at(0)
	}
	return s.ramp.at(p.Sub(s.p0).Dot(dir) / l2)
}

type radialShader struct {
	center, radius geom.Vec2
	ramp           ramp
}

func (s radialShader) colorAt(p geom.Vec2) premul {
	if s.radius.X <= 0 || s.radius.Y <= 0 {
		return s.ramp.at(math32.Inf(1))
	}
	d := p.Sub(s.center)
	return s.ramp.at(geom.Vec2{X: d.X / s.radius.X, Y: d.Y / s.radius.Y}.Magnitude())
}

// compileShader builds the shader of one of the gradient effects.
func compileShader(name string, params render.Params) (shader, error) {
	switch name {
	case "linear-gradient":
		rp, err := newRamp(params)
		if err != nil {
			return nil, err
		}
		p0, _ := params.Vec2("p0")
		p1, _ := params.Vec2("p1")
		return linearShader{p0: p0, p1: p1, ramp: rp}, nil
	case "radial-gradient":
		rp, err := newRamp(params)
		if err != nil {
			return nil, err
		}
		center, _ := params.Vec2("center")
		radius, _ := params.Vec2("radius")
		return radialShader{center: center, radius: radius, ramp: rp}, nil
	}
	return nil, errUnknownEffect
}
