package geom

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Vertex is one corner of a triangle mesh.
type Vertex struct {
	Position Vec2
	Color    color.NRGBA
	TexCoord Vec2
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []int
}

// Bounds returns the bounding rectangle of the vertex positions.
func (m Mesh) Bounds() Rect {
	if len(m.Vertices) == 0 {
		return Rect{}
	}
	r := Rect{m.Vertices[0].Position, m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		r.Min = r.Min.Min(v.Position)
		r.Max = r.Max.Max(v.Position)
	}
	return r
}

// GenerateQuad returns a two triangle mesh covering the rectangle at origin
// with the given size, mapping uv0 and uv1 to its top-left and bottom-right
// corners.
func GenerateQuad(origin, size Vec2, c color.NRGBA, uv0, uv1 Vec2) Mesh {
	p1 := origin.Add(size)
	return Mesh{
		Vertices: []Vertex{
			{Position: origin, Color: c, TexCoord: uv0},
			{Position: Vec2{p1.X, origin.Y}, Color: c, TexCoord: Vec2{uv1.X, uv0.Y}},
			{Position: p1, Color: c, TexCoord: uv1},
			{Position: Vec2{origin.X, p1.Y}, Color: c, TexCoord: Vec2{uv0.X, uv1.Y}},
		},
		Indices: []int{0, 3, 1, 1, 3, 2},
	}
}

// CornerRadii holds the border radius of each corner, clockwise from the
// top-left one.
type CornerRadii [4]float32

const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// maxArcSegments bounds the tesselation of one rounded corner.
const maxArcSegments = 16

// GenerateBackground returns a mesh filling the given area of box, placed at
// offset (the border box corner), with rounded corners. Radii are given for
// the border area and shrink by the edge widths for inner areas, as in CSS.
func GenerateBackground(box Box, offset Vec2, radii CornerRadii, c color.NRGBA, area BoxArea) Mesh {
	rect := RectFromSize(offset.Add(box.Position(area)), box.Size(area))
	radii = adjustRadii(box, radii, area, rect.Size())

	if radii == (CornerRadii{}) {
		return GenerateQuad(rect.Min, rect.Size(), c, Vec2{}, Vec2{})
	}

	centers := [4]Vec2{
		{rect.Min.X + radii[TopLeft], rect.Min.Y + radii[TopLeft]},
		{rect.Max.X - radii[TopRight], rect.Min.Y + radii[TopRight]},
		{rect.Max.X - radii[BottomRight], rect.Max.Y - radii[BottomRight]},
		{rect.Min.X + radii[BottomLeft], rect.Max.Y - radii[BottomLeft]},
	}

	var mesh Mesh
	mesh.Vertices = append(mesh.Vertices, Vertex{Position: rect.Min.Lerp(rect.Max, 0.5), Color: c})
	for corner, center := range centers {
		r := radii[corner]
		startAngle := math32.Pi * (1 + 0.5*float32(corner))
		if r <= 0 {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: center, Color: c})
			continue
		}
		n := int(math32.Ceil(r / 2))
		if n > maxArcSegments {
			n = maxArcSegments
		}
		for i := 0; i <= n; i++ {
			a := startAngle + 0.5*math32.Pi*float32(i)/float32(n)
			p := Vec2{center.X + r*math32.Cos(a), center.Y + r*math32.Sin(a)}
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: p, Color: c})
		}
	}

	ring := len(mesh.Vertices) - 1
	for i := 1; i <= ring; i++ {
		next := i%ring + 1
		mesh.Indices = append(mesh.Indices, 0, i, next)
	}
	return mesh
}

func adjustRadii(box Box, radii CornerRadii, area BoxArea, size Vec2) CornerRadii {
	var inset Edges
	switch area {
	case Padding:
		inset = box.Border
	case Content:
		for i := range inset {
			inset[i] = box.Border[i] + box.Padding[i]
		}
	}
	adjacent := [4][2]Edge{{Top, Left}, {Top, Right}, {Bottom, Right}, {Bottom, Left}}
	for i, sides := range adjacent {
		radii[i] = math32.Max(radii[i]-math32.Max(inset[sides[0]], inset[sides[1]]), 0)
	}

	// Shrink all radii uniformly when adjacent corners overlap.
	f := float32(1)
	sums := [4]struct{ length, sum float32 }{
		{size.X, radii[TopLeft] + radii[TopRight]},
		{size.X, radii[BottomLeft] + radii[BottomRight]},
		{size.Y, radii[TopLeft] + radii[BottomLeft]},
		{size.Y, radii[TopRight] + radii[BottomRight]},
	}
	for _, s := range sums {
		if s.sum > 0 {
			f = math32.Min(f, s.length/s.sum)
		}
	}
	if f < 1 {
		for i := range radii {
			radii[i] *= f
		}
	}
	return radii
}

// RoundedLerp interpolates each channel of a and b at t, rounding to the
// nearest integer.
func RoundedLerp(t float32, a, b color.NRGBA) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(round(float32(x) + t*(float32(y)-float32(x))))
	}
	return color.NRGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A)}
}

// ApplyOpacity scales the alpha channel of c by opacity, in [0, 1].
func ApplyOpacity(c color.NRGBA, opacity float32) color.NRGBA {
	c.A = uint8(opacity * float32(c.A))
	return c
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
