package svgeom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// ErrNegativeValue is returned when parsing a non-negative length from a
// negative value.
var ErrNegativeValue = errors.New("value must be non-negative")

// Unit is a CSS length unit.
type Unit uint8

const (
	Px Unit = iota // the default for bare numbers
	Percent
	Em
	Ex
	In
	Cm
	Mm
	Pt
	Pc
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Percent:
		return "%"
	case Em:
		return "em"
	case Ex:
		return "ex"
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
	}
	return "?"
}

// Axis selects which viewport dimension a percentage or physical unit
// normalizes against.
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
	// AxisBoth normalizes against the viewport diagonal, sqrt(w²+h²)/sqrt(2).
	AxisBoth
)

// size selects the axis component of a (w,h) pair, using the SVG diagonal
// formula for AxisBoth.
func (a Axis) size(w, h float64) float64 {
	switch a {
	case AxisHorizontal:
		return w
	case AxisVertical:
		return h
	}
	return math.Sqrt(w*w+h*h) / math.Sqrt2
}

// Length is a CSS length: a numeric value with a unit. Percentages are stored
// pre-divided by 100. A Length is immutable once parsed; Normalize is a pure
// function of the length, the axis, the computed values, and the viewport.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength parses a CSS length value: a number with an optional unit out
// of %, px, em, ex, in, cm, mm, pt, pc. The number must be finite.
func ParseLength(v string) (Length, error) {
	return parseLength(v, false)
}

// ParseNonNegativeLength is ParseLength but rejects negative values, for
// attributes like width and height.
func ParseNonNegativeLength(v string) (Length, error) {
	return parseLength(v, true)
}

func parseLength(v string, unsigned bool) (Length, error) {
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return Length{}, fmt.Errorf("empty length")
	}
	nn, _ := parse.Dimension([]byte(v))
	if nn == 0 {
		return Length{}, fmt.Errorf("bad length: %s", v)
	}
	value, err := strconv.ParseFloat(v[:nn], 64)
	if err != nil {
		return Length{}, fmt.Errorf("bad length: %w: %s", err, v)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Length{}, fmt.Errorf("length is not finite: %s", v)
	}
	if unsigned && value < 0.0 {
		return Length{}, ErrNegativeValue
	}

	var unit Unit
	switch strings.ToLower(v[nn:]) {
	case "", "px":
		unit = Px
	case "%":
		unit = Percent
		value /= 100.0
	case "em":
		unit = Em
	case "ex":
		unit = Ex
	case "in":
		unit = In
	case "cm":
		unit = Cm
	case "mm":
		unit = Mm
	case "pt":
		unit = Pt
	case "pc":
		unit = Pc
	default:
		return Length{}, fmt.Errorf("unknown dimension: %s", v[nn:])
	}
	return Length{value, unit}, nil
}

// Normalize converts the length to user-space pixels against the given axis,
// computed values, and viewport. Percentages normalize against the
// axis-selected viewport dimension; physical units convert to inches by fixed
// constants and then multiply by the axis-selected DPI; em and ex use the
// current font size.
func (l Length) Normalize(axis Axis, values Values, viewport Viewport) float64 {
	switch l.Unit {
	case Px:
		return l.Value
	case Percent:
		return l.Value * axis.size(viewport.Rect.W, viewport.Rect.H)
	case Em:
		return l.Value * values.FontSize
	case Ex:
		return l.Value * values.FontSize / 2.0
	case In:
		return l.Value * axis.size(values.Dpi.X, values.Dpi.Y)
	case Cm:
		return l.Value / 2.54 * axis.size(values.Dpi.X, values.Dpi.Y)
	case Mm:
		return l.Value / 25.4 * axis.size(values.Dpi.X, values.Dpi.Y)
	case Pt:
		return l.Value / 72.0 * axis.size(values.Dpi.X, values.Dpi.Y)
	case Pc:
		return l.Value / 6.0 * axis.size(values.Dpi.X, values.Dpi.Y)
	}
	return l.Value
}

func (l Length) String() string {
	if l.Unit == Percent {
		return num(l.Value*100.0) + "%"
	}
	return num(l.Value) + l.Unit.String()
}
