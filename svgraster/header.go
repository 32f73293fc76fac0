package svgraster

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrNotSVG is returned when parsing a document whose root element is
// not <svg>.
var ErrNotSVG = errors.New("root element is not svg")

// header holds the root element attributes not kept by oksvg.
type header struct {
	width, height float32 // zero when missing or relative
}

// pixels per absolute unit
var unitScale = map[string]float32{
	"":   1,
	"px": 1,
	"pt": 96. / 72,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
}

// parseLength reads an absolute SVG length in pixels. It returns 0 for
// relative lengths (percentages, em).
func parseLength(s string) float32 {
	s = strings.TrimSpace(s)
	i := strings.LastIndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' || r == '.' })
	num, unit := s[:i+1], s[i+1:]
	scale, ok := unitScale[unit]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(num, 32)
	if err != nil || v < 0 {
		return 0
	}
	return float32(v) * scale
}

// readHeader decodes the root element of an SVG stream.
func readHeader(r io.Reader) (header, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return header{}, ErrNotSVG
		}
		if err != nil {
			return header{}, fmt.Errorf("invalid svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return header{}, fmt.Errorf("<%s>: %w", se.Name.Local, ErrNotSVG)
		}
		var hd header
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				hd.width = parseLength(attr.Value)
			case "height":
				hd.height = parseLength(attr.Value)
			}
		}
		return hd, nil
	}
}
