package softrender

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/benoitkugler/okpaint/geom"
)

// meshImage is the paint of a translated mesh: an image whose pixels are
// interpolated from the triangle containing their center. It is used as
// the source of a coverage mask covering the mesh.
type meshImage struct {
	mesh        geom.Mesh
	translation geom.Vec2
	bounds      image.Rectangle

	texture *image.RGBA // optional
	shader  shader      // optional
}

var _ image.Image = (*meshImage)(nil)

func (m *meshImage) ColorModel() color.Model { return color.RGBA64Model }
func (m *meshImage) Bounds() image.Rectangle { return m.bounds }

func (m *meshImage) At(x, y int) color.Color {
	p := geom.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}.Sub(m.translation)
	i0, i1, i2, w := m.locate(p)
	v0, v1, v2 := m.mesh.Vertices[i0], m.mesh.Vertices[i1], m.mesh.Vertices[i2]

	vertex := premulFrom(v0.Color).scale(w[0]).
		add(premulFrom(v1.Color).scale(w[1])).
		add(premulFrom(v2.Color).scale(w[2]))
	uv := v0.TexCoord.Scale(w[0]).Add(v1.TexCoord.Scale(w[1])).Add(v2.TexCoord.Scale(w[2]))

	switch {
	case m.shader != nil:
		return m.shader.colorAt(uv).tint(vertex).rgba64()
	case m.texture != nil:
		return sample(m.texture, uv).tint(vertex).rgba64()
	default:
		return vertex.rgba64()
	}
}

// locate returns the triangle containing p, and the barycentric
// coordinates of p. Points outside the mesh, on anti-aliased edges, are
// projected on the closest triangle.
func (m *meshImage) locate(p geom.Vec2) (i0, i1, i2 int, weights [3]float32) {
	best := math32.Inf(-1)
	idx := m.mesh.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, c := m.mesh.Vertices[idx[t]].Position, m.mesh.Vertices[idx[t+1]].Position, m.mesh.Vertices[idx[t+2]].Position
		w, ok := barycentric(p, a, b, c)
		if !ok {
			continue
		}
		score := math32.Min(w[0], math32.Min(w[1], w[2]))
		if score > best {
			best = score
			i0, i1, i2, weights = idx[t], idx[t+1], idx[t+2], w
		}
		if score >= 0 {
			break
		}
	}
	if best < 0 {
		var sum float32
		for i, v := range weights {
			weights[i] = math32.Max(v, 0)
			sum += weights[i]
		}
		if sum == 0 {
			return i0, i1, i2, [3]float32{1, 0, 0}
		}
		for i := range weights {
			weights[i] /= sum
		}
	}
	return i0, i1, i2, weights
}

// barycentric returns the coordinates of p relative to the triangle abc,
// or false if the triangle is degenerate.
func barycentric(p, a, b, c geom.Vec2) ([3]float32, bool) {
	ab, ac, ap := b.Sub(a), c.Sub(a), p.Sub(a)
	det := ab.X*ac.Y - ab.Y*ac.X
	if det == 0 {
		return [3]float32{}, false
	}
	u := (ap.X*ac.Y - ap.Y*ac.X) / det
	v := (ab.X*ap.Y - ab.Y*ap.X) / det
	return [3]float32{1 - u - v, u, v}, true
}

// sample returns the texel at the normalized coordinates uv, clamped to
// the texture edges.
func sample(texture *image.RGBA, uv geom.Vec2) premul {
	b := texture.Rect
	if b.Empty() {
		return premul{}
	}
	x := b.Min.X + int(math32.Floor(uv.X*float32(b.Dx())))
	y := b.Min.Y + int(math32.Floor(uv.Y*float32(b.Dy())))
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	c := texture.RGBAAt(x, y)
	return premul{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func (p premul) scale(s float32) premul { return premul{p.r * s, p.g * s, p.b * s, p.a * s} }
func (p premul) add(q premul) premul    { return premul{p.r + q.r, p.g + q.g, p.b + q.b, p.a + q.a} }
