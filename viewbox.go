package svgeom

import (
	"fmt"
	"strings"
)

// ViewBox is a document-internal coordinate rectangle, mapped onto a viewport
// via preserveAspectRatio. An empty view box (zero width or height) is a
// valid value meaning "do not render".
type ViewBox struct {
	Rect
}

// ParseViewBox parses a viewBox attribute: four whitespace/comma-separated
// numbers x, y, width, height with non-negative width and height.
func ParseViewBox(v string) (ViewBox, error) {
	d, err := parseNumbers(v)
	if err != nil {
		return ViewBox{}, fmt.Errorf("bad viewBox: %w", err)
	}
	if len(d) != 4 {
		return ViewBox{}, fmt.Errorf("bad viewBox: expected 4 numbers, got %d", len(d))
	}
	if d[2] < 0.0 || d[3] < 0.0 {
		return ViewBox{}, fmt.Errorf("bad viewBox: width and height must not be negative")
	}
	return ViewBox{Rect{d[0], d[1], d[2], d[3]}}, nil
}

// String returns the view box as an SVG viewBox attribute value.
func (vb ViewBox) String() string {
	return strings.Join([]string{num(vb.X), num(vb.Y), num(vb.W), num(vb.H)}, " ")
}
