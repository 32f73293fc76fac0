package geom

// BoxArea names one of the nested areas of the CSS box model.
type BoxArea uint8

const (
	Margin BoxArea = iota
	Border
	Padding
	Content
)

func (a BoxArea) String() string {
	switch a {
	case Margin:
		return "margin"
	case Border:
		return "border"
	case Padding:
		return "padding"
	case Content:
		return "content"
	default:
		return "<unknown BoxArea>"
	}
}

// Edge indexes the four sides of a box edge.
type Edge uint8

const (
	Top Edge = iota
	Right
	Bottom
	Left
)

// Edges holds one width per side, indexed by Edge.
type Edges [4]float32

// Box is the laid out box of an element: the content size plus the
// padding, border and margin edges around it.
type Box struct {
	Content Vec2
	Padding Edges
	Border  Edges
	Margin  Edges
}

// edgesOutside returns the widths of the edges enclosing area, that is the
// sum of every edge between area and the border box, with margin counted
// negatively.
func (b Box) edgesOutside(area BoxArea) Edges {
	var out Edges
	switch area {
	case Margin:
		for i := range out {
			out[i] = -b.Margin[i]
		}
	case Padding:
		out = b.Border
	case Content:
		for i := range out {
			out[i] = b.Border[i] + b.Padding[i]
		}
	}
	return out
}

// Position returns the top-left corner of area, relative to the top-left
// corner of the border area.
func (b Box) Position(area BoxArea) Vec2 {
	e := b.edgesOutside(area)
	return Vec2{e[Left], e[Top]}
}

// Size returns the dimensions of area.
func (b Box) Size(area BoxArea) Vec2 {
	size := b.Content
	for a := Content; a > area; a-- {
		var e Edges
		switch a {
		case Content:
			e = b.Padding
		case Padding:
			e = b.Border
		case Border:
			e = b.Margin
		}
		size.X += e[Left] + e[Right]
		size.Y += e[Top] + e[Bottom]
	}
	return size
}
