// Package style holds the computed style values consumed by decorators
// and filters: units, numeric values, color stops and property
// dictionaries. Parsing the property grammar is left to the style system;
// this package only models its output.
package style

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Unit is a bit set describing the unit of a property value.
type Unit uint32

const (
	Unknown Unit = 0

	Number  Unit = 1 << iota // unitless
	Percent                  // %
	Px
	Dp // density independent pixel
	Em
	Rem
	Vw
	Vh
	In
	Cm
	Mm
	Pt
	Pc
	Deg
	Rad
	Keyword
	Color
	ColorStopList
	Auto
	String

	Length        = Px | Dp | Em | Rem | Vw | Vh | In | Cm | Mm | Pt | Pc
	LengthPercent = Length | Percent
	Angle         = Deg | Rad
)

// Has reports whether u shares at least one bit with mask.
func (u Unit) Has(mask Unit) bool { return u&mask != 0 }

func (u Unit) String() string {
	switch u {
	case Unknown:
		return "unknown"
	case Number:
		return ""
	case Percent:
		return "%"
	case Px:
		return "px"
	case Dp:
		return "dp"
	case Em:
		return "em"
	case Rem:
		return "rem"
	case Vw:
		return "vw"
	case Vh:
		return "vh"
	case In:
		return "in"
	case Cm:
		return "cm"
	case Mm:
		return "mm"
	case Pt:
		return "pt"
	case Pc:
		return "pc"
	case Deg:
		return "deg"
	case Rad:
		return "rad"
	case Keyword:
		return "keyword"
	case Color:
		return "color"
	case ColorStopList:
		return "color-stop-list"
	case Auto:
		return "auto"
	case String:
		return "string"
	default:
		return fmt.Sprintf("<unit %#x>", uint32(u))
	}
}

// ParseUnit returns the unit spelled s, as written after a CSS number.
func ParseUnit(s string) (Unit, error) {
	for u := Number; u <= String; u <<= 1 {
		if u.String() == s {
			return u, nil
		}
	}
	return Unknown, fmt.Errorf("unknown unit %q", s)
}

// NumericValue is a number with its unit.
type NumericValue struct {
	Number float32
	Unit   Unit
}

func (v NumericValue) String() string {
	if v.Unit == Auto {
		return "auto"
	}
	return fmt.Sprintf("%g%s", v.Number, v.Unit)
}

// Metrics carries what is needed to resolve relative lengths of one
// element to pixels.
type Metrics struct {
	FontSize     float32
	RootFontSize float32
	DPRatio      float32
	Viewport     [2]float32
}

// DefaultMetrics uses a 16px font and a unit density ratio.
var DefaultMetrics = Metrics{FontSize: 16, RootFontSize: 16, DPRatio: 1}

const (
	pxPerInch = 96
	cmPerInch = 2.54
	ptPerInch = 72
	pcPerInch = 6
)

// ResolveLength converts a length value to pixels.
// Values that are not lengths resolve to their number unchanged.
func (m Metrics) ResolveLength(v NumericValue) float32 {
	switch v.Unit {
	case Px, Number:
		return v.Number
	case Dp:
		return v.Number * m.DPRatio
	case Em:
		return v.Number * m.FontSize
	case Rem:
		return v.Number * m.RootFontSize
	case Vw:
		return v.Number * m.Viewport[0] * 0.01
	case Vh:
		return v.Number * m.Viewport[1] * 0.01
	case In:
		return v.Number * pxPerInch
	case Cm:
		return v.Number * pxPerInch / cmPerInch
	case Mm:
		return v.Number * pxPerInch / (10 * cmPerInch)
	case Pt:
		return v.Number * pxPerInch / ptPerInch
	case Pc:
		return v.Number * pxPerInch / pcPerInch
	}
	return v.Number
}

// ResolveNumericValue resolves lengths to pixels and percentages against
// base.
func (m Metrics) ResolveNumericValue(v NumericValue, base float32) float32 {
	if v.Unit == Percent {
		return v.Number * 0.01 * base
	}
	return m.ResolveLength(v)
}

// ComputeAngle returns the angle v in radians.
// Numbers are interpreted as radians.
func ComputeAngle(v NumericValue) float32 {
	if v.Unit == Deg {
		return v.Number * math32.Pi / 180
	}
	return v.Number
}
