package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ColorStop is one (position, color) pair of a gradient.
// Position is a length, a percentage, a number, or Auto.
type ColorStop struct {
	Color    color.NRGBA
	Position NumericValue
}

// AutoStop returns a color stop without explicit position.
func AutoStop(c color.NRGBA) ColorStop {
	return ColorStop{Color: c, Position: NumericValue{Unit: Auto}}
}

// Property is a parsed property value with its unit.
// Value holds, depending on Unit: a float32 for numeric units, an int for
// keywords (index into the keyword list of the property), a color.NRGBA,
// a []ColorStop or a string.
type Property struct {
	Value any
	Unit  Unit
}

// NumericProperty returns a numeric property.
func NumericProperty(number float32, unit Unit) Property {
	return Property{Value: number, Unit: unit}
}

// KeywordProperty returns a keyword property, identified by its index.
func KeywordProperty(index int) Property {
	return Property{Value: index, Unit: Keyword}
}

// ColorProperty returns a color property.
func ColorProperty(c color.NRGBA) Property {
	return Property{Value: c, Unit: Color}
}

// ColorStopsProperty returns a color stop list property.
func ColorStopsProperty(stops []ColorStop) Property {
	return Property{Value: stops, Unit: ColorStopList}
}

// NumericValue returns the value as a number with unit, or false if p is
// not numeric.
func (p Property) NumericValue() (NumericValue, bool) {
	f, ok := p.Value.(float32)
	if !ok || p.Unit.Has(Keyword|Color|ColorStopList|String) {
		return NumericValue{}, false
	}
	return NumericValue{Number: f, Unit: p.Unit}, true
}

// Keyword returns the keyword index, or false if p is not a keyword.
func (p Property) Keyword() (int, bool) {
	k, ok := p.Value.(int)
	return k, ok && p.Unit == Keyword
}

// Color returns the color value, or false if p is not a color.
func (p Property) Color() (color.NRGBA, bool) {
	c, ok := p.Value.(color.NRGBA)
	return c, ok && p.Unit == Color
}

// ColorStops returns the color stop list, or false if p is not a list.
func (p Property) ColorStops() ([]ColorStop, bool) {
	s, ok := p.Value.([]ColorStop)
	return s, ok && p.Unit == ColorStopList
}

// Dictionary maps property names to values.
type Dictionary map[string]Property

// ComputedValues is the subset of an element computed style used by the
// paint effects.
type ComputedValues struct {
	Opacity      float32
	ImageColor   color.NRGBA
	BorderRadius [4]float32 // top-left, top-right, bottom-right, bottom-left
}

// DefaultComputedValues is full opacity and a white image color.
var DefaultComputedValues = ComputedValues{Opacity: 1, ImageColor: color.NRGBA{255, 255, 255, 255}}

// TintColor returns the image color with the opacity applied to its alpha.
func (cv ComputedValues) TintColor() color.NRGBA {
	c := cv.ImageColor
	c.A = uint8(cv.Opacity * float32(c.A))
	return c
}

var errInvalidColor = errors.New("invalid color")

// ParseColor reads a CSS hexadecimal color (#rgb, #rgba, #rrggbb,
// #rrggbbaa) or a color name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[s]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: unknown name %q", errInvalidColor, s)
		}
		return color.NRGBA(c), nil
	}

	hex := s[1:]
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
