package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/paint"
	"github.com/benoitkugler/okpaint/style"
)

// Scene is the content of a scene file:
//
//	width = 200
//	height = 100
//	background = "white"
//
//	[[element]]
//	x = 10
//	y = 10
//	width = 80
//	height = 40
//	radius = [8, 8, 8, 8]
//	src = "icons/logo.svg"
//
//	[[element.decorator]]
//	name = "linear-gradient"
//	properties = { angle = "90deg", color-stops = ["red", "blue 80%"] }
type Scene struct {
	Width      int           `toml:"width"`
	Height     int           `toml:"height"`
	Background string        `toml:"background"`
	Elements   []ElementDesc `toml:"element"`
}

// ElementDesc describes one element. Positions and sizes are in pixels;
// the box is the content box, surrounded by uniform padding and border.
type ElementDesc struct {
	X       float32   `toml:"x"`
	Y       float32   `toml:"y"`
	Width   float32   `toml:"width"`
	Height  float32   `toml:"height"`
	Padding float32   `toml:"padding"`
	Border  float32   `toml:"border"`
	Radius  []float32 `toml:"radius"`

	Opacity    *float32 `toml:"opacity"`
	ImageColor string   `toml:"image-color"`

	// Src is the SVG image displayed in the content box, relative to the
	// scene file.
	Src        string `toml:"src"`
	ContentFit string `toml:"content-fit"`

	Decorators []EffectDesc `toml:"decorator"`
	Filters    []EffectDesc `toml:"filter"`
}

// EffectDesc names a decorator or a filter, with its properties.
type EffectDesc struct {
	Name string `toml:"name"`
	// Area is the box area painted by a decorator: "border" (default),
	// "padding" or "content".
	Area       string         `toml:"area"`
	Properties map[string]any `toml:"properties"`
}

const colorStopsProperty = "color-stops"

// LoadScene reads a scene file.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, err
	}
	return ParseScene(data)
}

// ParseScene decodes a scene, rejecting unknown keys.
func ParseScene(data []byte) (Scene, error) {
	var scene Scene
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&scene); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Scene{}, fmt.Errorf("invalid scene at %d:%d: %w", row, col, err)
		}
		return Scene{}, fmt.Errorf("invalid scene: %w", err)
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return Scene{}, fmt.Errorf("invalid scene size %dx%d", scene.Width, scene.Height)
	}
	return scene, nil
}

// box returns the layout of e.
func (e ElementDesc) box() geom.Box {
	pad, border := e.Padding, e.Border
	return geom.Box{
		Content: geom.Vec2{X: e.Width, Y: e.Height},
		Padding: geom.Edges{pad, pad, pad, pad},
		Border:  geom.Edges{border, border, border, border},
	}
}

func (e ElementDesc) computedValues() (style.ComputedValues, error) {
	cv := style.DefaultComputedValues
	if e.Opacity != nil {
		cv.Opacity = geom.Clamp(*e.Opacity, 0, 1)
	}
	if e.ImageColor != "" {
		c, err := style.ParseColor(e.ImageColor)
		if err != nil {
			return cv, err
		}
		cv.ImageColor = c
	}
	copy(cv.BorderRadius[:], e.Radius)
	return cv, nil
}

func parseArea(s string) (geom.BoxArea, error) {
	if s == "" {
		return geom.Border, nil
	}
	for _, area := range []geom.BoxArea{geom.Border, geom.Padding, geom.Content} {
		if area.String() == s {
			return area, nil
		}
	}
	return 0, fmt.Errorf("invalid box area %q", s)
}

// instance creates the effect described by desc, converting its
// properties according to the definitions of the registered instancer.
func instance[T any](reg *paint.Registry[T], desc EffectDesc) (T, error) {
	var zero T
	inst, ok := reg.Lookup(desc.Name)
	if !ok {
		return reg.Instance(desc.Name, nil)
	}
	defs := inst.Properties()
	props := make(style.Dictionary, len(desc.Properties))
	for name, raw := range desc.Properties {
		i := slices.IndexFunc(defs, func(def paint.PropertyDef) bool { return def.Name == name })
		if i < 0 {
			return zero, fmt.Errorf("%s: unknown property %q", desc.Name, name)
		}
		p, err := parseProperty(defs[i], raw)
		if err != nil {
			return zero, fmt.Errorf("%s: property %q: %w", desc.Name, name, err)
		}
		props[name] = p
	}
	return reg.Instance(desc.Name, props)
}

// parseProperty converts a TOML value to a property value. Strings are
// read as a keyword of def, a color, or a number with its unit; bare
// numbers take the unit of the default value.
func parseProperty(def paint.PropertyDef, raw any) (style.Property, error) {
	if def.Name == colorStopsProperty {
		return parseColorStops(raw)
	}
	switch v := raw.(type) {
	case int64:
		return style.NumericProperty(float32(v), defaultUnit(def)), nil
	case float64:
		return style.NumericProperty(float32(v), defaultUnit(def)), nil
	case string:
		if i := def.KeywordIndex(v); i >= 0 {
			return style.KeywordProperty(i), nil
		}
		if def.Default.Unit == style.Color {
			c, err := style.ParseColor(v)
			if err != nil {
				return style.Property{}, err
			}
			return style.ColorProperty(c), nil
		}
		nv, err := parseNumeric(v)
		if err != nil {
			return style.Property{}, err
		}
		return style.NumericProperty(nv.Number, nv.Unit), nil
	}
	return style.Property{}, fmt.Errorf("unsupported value %v", raw)
}

func defaultUnit(def paint.PropertyDef) style.Unit {
	switch u := def.Default.Unit; {
	case u.Has(style.Length):
		return style.Px
	case u.Has(style.Angle):
		return style.Deg
	default:
		return style.Number
	}
}

// parseNumeric reads a number followed by its unit, like "12px" or "50%".
func parseNumeric(s string) (style.NumericValue, error) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+')
	})
	if end < 0 {
		end = len(s)
	}
	number, err := strconv.ParseFloat(s[:end], 32)
	if err != nil {
		return style.NumericValue{}, fmt.Errorf("invalid number %q", s)
	}
	unit, err := style.ParseUnit(s[end:])
	if err != nil {
		return style.NumericValue{}, err
	}
	return style.NumericValue{Number: float32(number), Unit: unit}, nil
}

// parseColorStops reads a list of stops, given as an array of strings or
// one comma separated string. Each stop is a color, optionally followed by
// its position.
func parseColorStops(raw any) (style.Property, error) {
	var items []string
	switch v := raw.(type) {
	case string:
		items = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return style.Property{}, fmt.Errorf("invalid color stop %v", item)
			}
			items = append(items, s)
		}
	default:
		return style.Property{}, fmt.Errorf("invalid color stop list %v", raw)
	}

	stops := make([]style.ColorStop, 0, len(items))
	for _, item := range items {
		fields := strings.Fields(item)
		if len(fields) == 0 || len(fields) > 2 {
			return style.Property{}, fmt.Errorf("invalid color stop %q", item)
		}
		c, err := style.ParseColor(fields[0])
		if err != nil {
			return style.Property{}, err
		}
		stop := style.AutoStop(c)
		if len(fields) == 2 {
			if stop.Position, err = parseNumeric(fields[1]); err != nil {
				return style.Property{}, err
			}
		}
		stops = append(stops, stop)
	}
	return style.ColorStopsProperty(stops), nil
}
