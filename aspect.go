package svgeom

import (
	"fmt"
	"strings"
)

// Align is the alignment part of preserveAspectRatio: either AlignNone
// (stretch to fill, ignoring the aspect ratio) or one of the nine Min/Mid/Max
// combinations per axis.
type Align uint8

const (
	AlignNone Align = iota
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMidYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

var alignNames = map[string]Align{
	"none":     AlignNone,
	"xMinYMin": AlignXMinYMin,
	"xMidYMin": AlignXMidYMin,
	"xMaxYMin": AlignXMaxYMin,
	"xMinYMid": AlignXMinYMid,
	"xMidYMid": AlignXMidYMid,
	"xMaxYMid": AlignXMaxYMid,
	"xMinYMax": AlignXMinYMax,
	"xMidYMax": AlignXMidYMax,
	"xMaxYMax": AlignXMaxYMax,
}

func (a Align) String() string {
	for name, align := range alignNames {
		if align == a {
			return name
		}
	}
	return "?"
}

// xFactor returns the fraction of the leftover horizontal space placed before
// the scaled view box: 0 for Min, 0.5 for Mid, 1 for Max.
func (a Align) xFactor() float64 {
	switch a {
	case AlignXMidYMin, AlignXMidYMid, AlignXMidYMax:
		return 0.5
	case AlignXMaxYMin, AlignXMaxYMid, AlignXMaxYMax:
		return 1.0
	}
	return 0.0
}

func (a Align) yFactor() float64 {
	switch a {
	case AlignXMinYMid, AlignXMidYMid, AlignXMaxYMid:
		return 0.5
	case AlignXMinYMax, AlignXMidYMax, AlignXMaxYMax:
		return 1.0
	}
	return 0.0
}

// MeetOrSlice selects between scaling the view box to fit inside the viewport
// (Meet) or to cover it (Slice).
type MeetOrSlice uint8

const (
	Meet MeetOrSlice = iota
	Slice
)

// AspectRatio is a parsed preserveAspectRatio attribute. Defer is parsed but
// does not affect Compute; it only matters when aspect-ratio-bearing
// references chain, which is the caller's concern.
type AspectRatio struct {
	Defer       bool
	Align       Align
	MeetOrSlice MeetOrSlice
}

// DefaultAspectRatio is the SVG initial value, xMidYMid meet.
var DefaultAspectRatio = AspectRatio{Align: AlignXMidYMid, MeetOrSlice: Meet}

// ParseAspectRatio parses a preserveAspectRatio attribute: an optional defer
// keyword, an alignment keyword, and an optional meet or slice keyword.
func ParseAspectRatio(v string) (AspectRatio, error) {
	fields := strings.Fields(v)
	i := 0
	ar := AspectRatio{}
	if i < len(fields) && fields[i] == "defer" {
		ar.Defer = true
		i++
	}
	if i == len(fields) {
		return AspectRatio{}, fmt.Errorf("bad preserveAspectRatio: expected alignment: %s", v)
	}
	align, ok := alignNames[fields[i]]
	if !ok {
		return AspectRatio{}, fmt.Errorf("bad preserveAspectRatio: unknown alignment %s", fields[i])
	}
	ar.Align = align
	i++
	if i < len(fields) {
		switch fields[i] {
		case "meet":
			ar.MeetOrSlice = Meet
		case "slice":
			ar.MeetOrSlice = Slice
		default:
			return AspectRatio{}, fmt.Errorf("bad preserveAspectRatio: unknown keyword %s", fields[i])
		}
		i++
	}
	if i != len(fields) {
		return AspectRatio{}, fmt.Errorf("bad preserveAspectRatio: unexpected %s", fields[i])
	}
	return ar, nil
}

// Compute returns the rectangle the view box maps onto within the viewport.
// For AlignNone the viewport is returned unchanged (stretch); otherwise the
// view box is scaled uniformly by the smaller (Meet) or larger (Slice) of the
// two axis ratios and positioned per the Min/Mid/Max alignment on each axis.
// The view box must not be empty.
func (ar AspectRatio) Compute(vbox ViewBox, viewport Rect) Rect {
	if ar.Align == AlignNone {
		return viewport
	}
	fx := viewport.W / vbox.W
	fy := viewport.H / vbox.H
	f := fx
	if ar.MeetOrSlice == Slice {
		if f < fy {
			f = fy
		}
	} else if fy < f {
		f = fy
	}
	w := vbox.W * f
	h := vbox.H * f
	return Rect{
		X: viewport.X + ar.Align.xFactor()*(viewport.W-w),
		Y: viewport.Y + ar.Align.yFactor()*(viewport.H-h),
		W: w,
		H: h,
	}
}

// ViewportToViewBoxTransform returns the transform mapping view box
// coordinates onto the viewport. The second return value is false, with a nil
// error, when the viewport or the view box is empty: nothing should be
// rendered, but it is not an error. A non-nil vbox yields
// translate(computed origin)·scale(computed size / vbox size)·translate(-vbox
// origin); a nil vbox yields a translation to the viewport origin. An error
// wrapping ErrNonInvertibleTransform is returned when the resulting transform
// cannot be inverted, which happens when extreme view box values make the
// scale factor vanish.
func (ar AspectRatio) ViewportToViewBoxTransform(vbox *ViewBox, viewport Rect) (Transform, bool, error) {
	if viewport.IsEmpty() {
		return Identity, false, nil
	}
	if vbox != nil && vbox.IsEmpty() {
		return Identity, false, nil
	}
	var t Transform
	if vbox != nil {
		r := ar.Compute(*vbox, viewport)
		t = Identity.Translate(r.X, r.Y).Scale(r.W/vbox.W, r.H/vbox.H).Translate(-vbox.X, -vbox.Y)
	} else {
		t = Identity.Translate(viewport.X, viewport.Y)
	}
	if !t.IsInvertible() {
		return Identity, false, fmt.Errorf("viewBox transform for viewport %v: %w", viewport, ErrNonInvertibleTransform)
	}
	return t, true, nil
}
