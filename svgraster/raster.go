// Implements the vector rasterizer boundary of the SVG cache:
// documents are parsed by oksvg and rendered to RGBA bitmaps
// by rasterx.
package svgraster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/chewxy/math32"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/benoitkugler/okpaint/geom"
)

// Fit selects how a document is mapped onto the requested pixel box.
type Fit uint8

const (
	// FitStretch maps the view box onto the pixel box.
	FitStretch Fit = iota
	// FitContent scales the bounding box of the drawn content uniformly so
	// that it fits the pixel box, centered in transparent padding.
	FitContent
)

func (f Fit) String() string {
	switch f {
	case FitStretch:
		return "stretch"
	case FitContent:
		return "content"
	default:
		return fmt.Sprintf("<Fit %d>", uint8(f))
	}
}

// ParseFit returns the Fit named s, as written in the content-fit
// attribute.
func ParseFit(s string) (Fit, error) {
	switch s {
	case "", "stretch", "fill", "false":
		return FitStretch, nil
	case "content", "true":
		return FitContent, nil
	}
	return 0, fmt.Errorf("invalid fit mode %q", s)
}

// Document is a parsed SVG document. Its methods may be called from
// several goroutines.
type Document struct {
	mu sync.Mutex // drawing mutates the icon transform

	icon      *oksvg.SvgIcon
	viewBox   geom.Rect
	intrinsic geom.Vec2

	contentOnce sync.Once
	content     geom.Rect
}

// Parse reads an SVG document. Unsupported elements are ignored.
func Parse(data []byte) (*Document, error) {
	hd, err := readHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("invalid svg: %w", err)
	}

	doc := &Document{icon: icon}
	vb := icon.ViewBox
	doc.viewBox = geom.RectFromSize(geom.Vec2{X: float32(vb.X), Y: float32(vb.Y)}, geom.Vec2{X: float32(vb.W), Y: float32(vb.H)})

	doc.intrinsic = doc.viewBox.Size()
	if hd.width > 0 {
		doc.intrinsic.X = hd.width
	}
	if hd.height > 0 {
		doc.intrinsic.Y = hd.height
	}
	doc.intrinsic = doc.intrinsic.Max(geom.Splat(1))

	// a missing view box is the intrinsic canvas
	if doc.viewBox.Size().X <= 0 {
		doc.viewBox.Max.X = doc.viewBox.Min.X + doc.intrinsic.X
	}
	if doc.viewBox.Size().Y <= 0 {
		doc.viewBox.Max.Y = doc.viewBox.Min.Y + doc.intrinsic.Y
	}
	return doc, nil
}

// IntrinsicSize returns the natural size of the document, in pixels: the
// width and height attributes of the root element, defaulting to the view
// box size. Both dimensions are at least 1.
func (doc *Document) IntrinsicSize() geom.Vec2 { return doc.intrinsic }

// canvasTransform maps user units to the intrinsic canvas.
func (doc *Document) canvasTransform() rasterx.Matrix2D {
	vbSize := doc.viewBox.Size()
	return rasterx.Identity.
		Scale(float64(doc.intrinsic.X/vbSize.X), float64(doc.intrinsic.Y/vbSize.Y)).
		Translate(float64(-doc.viewBox.Min.X), float64(-doc.viewBox.Min.Y))
}

// ContentBox returns the tight bounding box of the drawn content, in
// intrinsic canvas coordinates. It is empty for documents drawing nothing.
func (doc *Document) ContentBox() geom.Rect {
	doc.contentOnce.Do(func() {
		w, h := int(math32.Ceil(doc.intrinsic.X)), int(math32.Ceil(doc.intrinsic.Y))
		var sc extentScanner
		doc.draw(rasterx.NewDasher(w, h, &sc), doc.canvasTransform())
		doc.content = sc.extent()
	})
	return doc.content
}

// ContentSize returns the size of the content box, or the intrinsic size
// if the document draws nothing.
func (doc *Document) ContentSize() geom.Vec2 {
	box := doc.ContentBox()
	if box.Empty() {
		return doc.intrinsic
	}
	return box.Size()
}

func (doc *Document) draw(d *rasterx.Dasher, m rasterx.Matrix2D) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.icon.Transform = m
	doc.icon.Draw(d, 1)
}

var errEmptyTarget = errors.New("empty target size")

// Rasterize renders the document into a new width x height image, with
// premultiplied alpha.
func (doc *Document) Rasterize(width, height int, fit Fit) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rasterizing %dx%d: %w", width, height, errEmptyTarget)
	}
	w, h := float64(width), float64(height)

	var m rasterx.Matrix2D
	box := doc.ContentBox()
	if fit == FitContent && !box.Empty() {
		size := box.Size()
		scale := min(w/float64(size.X), h/float64(size.Y))
		padX := (w - scale*float64(size.X)) / 2
		padY := (h - scale*float64(size.Y)) / 2
		m = rasterx.Identity.
			Translate(padX, padY).
			Scale(scale, scale).
			Translate(float64(-box.Min.X), float64(-box.Min.Y)).
			Mult(doc.canvasTransform())
	} else {
		vbSize := doc.viewBox.Size()
		m = rasterx.Identity.
			Scale(w/float64(vbSize.X), h/float64(vbSize.Y)).
			Translate(float64(-doc.viewBox.Min.X), float64(-doc.viewBox.Min.Y))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	doc.draw(rasterx.NewDasher(width, height, scanner), m)
	return img, nil
}
