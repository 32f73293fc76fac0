package render

import (
	"github.com/benoitkugler/okpaint/geom"
	"github.com/benoitkugler/okpaint/style"
)

// Params is the parameter dictionary passed when compiling effects and
// filters. Values are one of: float32, geom.Vec2, bool, []style.ColorStop.
type Params map[string]any

// Float returns the number stored under key.
func (p Params) Float(key string) (float32, bool) {
	v, ok := p[key].(float32)
	return v, ok
}

// Vec2 returns the vector stored under key.
func (p Params) Vec2(key string) (geom.Vec2, bool) {
	v, ok := p[key].(geom.Vec2)
	return v, ok
}

// Bool returns the boolean stored under key.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// ColorStops returns the resolved color stop list stored under key.
func (p Params) ColorStops(key string) ([]style.ColorStop, bool) {
	v, ok := p[key].([]style.ColorStop)
	return v, ok
}
