package svgraster

import (
	"image"

	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/okpaint/geom"
)

// extentScanner is a rasterx.Scanner which draws nothing, but records the
// bounds of every drawn path.
type extentScanner struct {
	path, total       fixed.Rectangle26_6
	hasPath, hasTotal bool
}

func (s *extentScanner) set(a fixed.Point26_6) {
	if !s.hasPath {
		s.path = fixed.Rectangle26_6{Min: a, Max: a}
		s.hasPath = true
		return
	}
	s.path.Min.X = min(s.path.Min.X, a.X)
	s.path.Min.Y = min(s.path.Min.Y, a.Y)
	s.path.Max.X = max(s.path.Max.X, a.X)
	s.path.Max.Y = max(s.path.Max.Y, a.Y)
}

func (s *extentScanner) Start(a fixed.Point26_6) { s.set(a) }
func (s *extentScanner) Line(b fixed.Point26_6)  { s.set(b) }

func (s *extentScanner) Draw() {
	if !s.hasPath {
		return
	}
	if !s.hasTotal {
		s.total = s.path
		s.hasTotal = true
		return
	}
	s.total.Min.X = min(s.total.Min.X, s.path.Min.X)
	s.total.Min.Y = min(s.total.Min.Y, s.path.Min.Y)
	s.total.Max.X = max(s.total.Max.X, s.path.Max.X)
	s.total.Max.Y = max(s.total.Max.Y, s.path.Max.Y)
}

func (s *extentScanner) GetPathExtent() fixed.Rectangle26_6 { return s.path }

func (s *extentScanner) Clear() {
	s.path = fixed.Rectangle26_6{}
	s.hasPath = false
}

func (s *extentScanner) SetBounds(int, int)      {}
func (s *extentScanner) SetColor(interface{})    {}
func (s *extentScanner) SetWinding(bool)         {}
func (s *extentScanner) SetClip(image.Rectangle) {}

// extent returns the union of the drawn paths, in pixels.
func (s *extentScanner) extent() geom.Rect {
	if !s.hasTotal {
		return geom.Rect{}
	}
	toVec := func(p fixed.Point26_6) geom.Vec2 {
		return geom.Vec2{X: float32(p.X) / 64, Y: float32(p.Y) / 64}
	}
	return geom.Rect{Min: toVec(s.total.Min), Max: toVec(s.total.Max)}
}
