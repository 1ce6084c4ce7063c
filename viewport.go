package svgeom

import "fmt"

// CoordUnits is the coordinate-unit mode of a paint server: either absolute
// user-space units, or fractions of the referencing element's bounding box.
type CoordUnits uint8

const (
	UserSpaceOnUse CoordUnits = iota
	ObjectBoundingBox
)

// ParseCoordUnits parses a patternUnits/patternContentUnits/gradientUnits
// attribute value.
func ParseCoordUnits(v string) (CoordUnits, error) {
	switch v {
	case "userSpaceOnUse":
		return UserSpaceOnUse, nil
	case "objectBoundingBox":
		return ObjectBoundingBox, nil
	}
	return UserSpaceOnUse, fmt.Errorf("unknown coordinate units: %s", v)
}

func (u CoordUnits) String() string {
	if u == ObjectBoundingBox {
		return "objectBoundingBox"
	}
	return "userSpaceOnUse"
}

// Viewport is the currently active rectangle and coordinate-unit mode that
// length normalization runs against.
type Viewport struct {
	Rect  Rect
	Units CoordUnits
}

// ViewportStack tracks the nested coordinate systems created by svg, use,
// pattern and marker elements during one render pass. It is not safe for
// concurrent use; each render pass owns its own stack.
type ViewportStack struct {
	viewports []Viewport
}

// Push enters a new coordinate system.
func (s *ViewportStack) Push(vp Viewport) {
	s.viewports = append(s.viewports, vp)
}

// Pop leaves the current coordinate system. Pushes and pops must pair up;
// popping an empty stack is a programming error.
func (s *ViewportStack) Pop() {
	if len(s.viewports) == 0 {
		panic("pop of empty viewport stack")
	}
	s.viewports = s.viewports[:len(s.viewports)-1]
}

// Current returns the innermost viewport, or false if none has been pushed.
func (s *ViewportStack) Current() (Viewport, bool) {
	if len(s.viewports) == 0 {
		return Viewport{}, false
	}
	return s.viewports[len(s.viewports)-1], true
}
