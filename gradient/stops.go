// Package gradient implements the geometry of CSS gradients: placement of
// color stops along the gradient line, and the shape of linear and radial
// gradients for a given box.
package gradient

import (
	"github.com/chewxy/math32"

	"github.com/benoitkugler/okpaint/style"
)

// LengthResolver converts lengths (em, px, ...) to pixels.
type LengthResolver interface {
	ResolveLength(v style.NumericValue) float32
}

// ResolveColorStops converts all stop positions to numbers, in units of
// the gradient line length. Lengths are resolved with r and divided by
// lineLength, percentages are divided by 100, and any other unit is
// treated as auto.
//
// Auto stops at the edges are placed at 0 and 1, runs of auto stops are
// evenly spaced between their definite neighbors, and positions are made
// non-decreasing. Finally, interior stops closer than softSpacing to their
// predecessor are spread apart when possible, to avoid aliasing.
//
// The input slice is not modified.
func ResolveColorStops(r LengthResolver, lineLength, softSpacing float32, unresolved []style.ColorStop) []style.ColorStop {
	stops := append([]style.ColorStop(nil), unresolved...)
	n := len(stops)
	if n == 0 {
		return stops
	}
	if lineLength <= 0 {
		lineLength = 1
	}

	for i := range stops {
		pos := &stops[i].Position
		switch {
		case pos.Unit.Has(style.Length):
			*pos = number(r.ResolveLength(*pos) / lineLength)
		case pos.Unit == style.Percent:
			*pos = number(pos.Number * 0.01)
		}
	}

	resolveEdge := func(stop *style.ColorStop, autoValue float32) {
		if stop.Position.Unit != style.Number {
			stop.Position = number(autoValue)
		}
	}
	resolveEdge(&stops[0], 0)
	resolveEdge(&stops[n-1], 1)

	prev := stops[0].Position.Number
	nudge := func(stop *style.ColorStop, updatePrev bool) {
		stop.Position.Number = math32.Max(stop.Position.Number, prev)
		if updatePrev {
			prev = stop.Position.Number
		}
	}

	autoBegin := -1
	for i := 1; i < n; i++ {
		stop := &stops[i]
		switch {
		case stop.Position.Unit != style.Number:
			if autoBegin < 0 {
				autoBegin = i
			}
		case autoBegin < 0:
			nudge(stop, true)
		default:
			// space out the auto stops in [autoBegin, i)
			nudge(stop, false)
			numAuto := i - autoBegin
			t0 := stops[autoBegin-1].Position.Number
			t1 := stop.Position.Number
			for j := 0; j < numAuto; j++ {
				fraction := float32(j+1) / float32(numAuto+1)
				stops[autoBegin+j].Position = number(t0 + (t1-t0)*fraction)
				nudge(&stops[autoBegin+j], true)
			}
			nudge(stop, true)
			autoBegin = -1
		}
	}

	for i := 1; i < n-1; i++ {
		p0 := stops[i-1].Position.Number
		p1 := stops[i].Position.Number
		p2 := stops[i+1].Position.Number
		if p1-p0 < softSpacing {
			if p2-p0 < 2*softSpacing {
				stops[i].Position.Number = 0.5 * (p2 + p0)
			} else {
				stops[i].Position.Number = p0 + softSpacing
			}
		}
	}

	return stops
}

func number(v float32) style.NumericValue {
	return style.NumericValue{Number: v, Unit: style.Number}
}
