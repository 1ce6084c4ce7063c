package svgeom

import (
	"errors"
	"fmt"
)

// Pattern is the unresolved pattern record built at attribute-parse time.
// Every field is optional; unset fields are inherited from the fallback chain
// and finally filled with the SVG defaults. The record is immutable after
// parsing; resolution works on a copy.
type Pattern struct {
	Units        *CoordUnits
	ContentUnits *CoordUnits
	// HasViewBox marks the view box as specified; ViewBox stays nil when a
	// resolved pattern has no view box, which is a meaningful value distinct
	// from "not yet inherited".
	HasViewBox bool
	ViewBox    *ViewBox
	Ratio      *AspectRatio
	Transform  *Transform
	X, Y       *Length
	Width      *Length
	Height     *Length
	// Fallback is the pattern's own href reference, the next link of the
	// fallback chain. It is not inherited.
	Fallback *NodeID
}

// isResolved reports whether every inheritable field has a value.
func (p *Pattern) isResolved() bool {
	return p.Units != nil && p.ContentUnits != nil && p.HasViewBox &&
		p.Ratio != nil && p.Transform != nil &&
		p.X != nil && p.Y != nil && p.Width != nil && p.Height != nil
}

// mergeFrom fills unset fields from a fallback record. Fields set earlier in
// the chain always win over inherited ones.
func (p *Pattern) mergeFrom(fb *Pattern) {
	if p.Units == nil {
		p.Units = fb.Units
	}
	if p.ContentUnits == nil {
		p.ContentUnits = fb.ContentUnits
	}
	if !p.HasViewBox && fb.HasViewBox {
		p.ViewBox = fb.ViewBox
		p.HasViewBox = true
	}
	if p.Ratio == nil {
		p.Ratio = fb.Ratio
	}
	if p.Transform == nil {
		p.Transform = fb.Transform
	}
	if p.X == nil {
		p.X = fb.X
	}
	if p.Y == nil {
		p.Y = fb.Y
	}
	if p.Width == nil {
		p.Width = fb.Width
	}
	if p.Height == nil {
		p.Height = fb.Height
	}
}

// fillDefaults fills every remaining unset field with the SVG initial value.
func (p *Pattern) fillDefaults() {
	if p.Units == nil {
		units := ObjectBoundingBox
		p.Units = &units
	}
	if p.ContentUnits == nil {
		units := UserSpaceOnUse
		p.ContentUnits = &units
	}
	if !p.HasViewBox {
		p.HasViewBox = true // no view box
	}
	if p.Ratio == nil {
		ratio := DefaultAspectRatio
		p.Ratio = &ratio
	}
	if p.Transform == nil {
		transform := Identity
		p.Transform = &transform
	}
	zero := Length{0.0, Px}
	if p.X == nil {
		p.X = &zero
	}
	if p.Y == nil {
		p.Y = &zero
	}
	if p.Width == nil {
		p.Width = &zero
	}
	if p.Height == nil {
		p.Height = &zero
	}
}

type patternState uint8

const (
	patternUnresolved patternState = iota
	patternResolving
	patternResolved
)

// ResolvedPattern is a fully determined pattern: every attribute has a value,
// resolved from the element itself, its fallback chain, or the SVG default.
type ResolvedPattern struct {
	Units        CoordUnits
	ContentUnits CoordUnits
	// ViewBox is nil when the resolved pattern has no view box.
	ViewBox   *ViewBox
	Ratio     AspectRatio
	Transform Transform
	X, Y      Length
	Width     Length
	Height    Length
	// Children is the node in the fallback chain that supplies renderable
	// content, the first one along the chain with element children. It is nil
	// when no node in the chain has any, in which case the pattern paints
	// nothing. The reference does not own the node; the document does.
	Children *Node
}

// ResolvePattern resolves the pattern element at node by walking its fallback
// chain through acq, merging unset fields first-set-wins and filling SVG
// defaults at the end of the chain. A broken fallback (missing element, wrong
// kind) is logged and treated as end of chain; ErrCircularReference and
// ErrMaxReferencesExceeded propagate. The result is cached on the node for
// the remainder of the pass, and reentrant resolution of a node that is
// already resolving reports a cycle.
func ResolvePattern(node *Node, acq *AcquiredNodes) (*ResolvedPattern, error) {
	if node.Kind != KindPattern || node.Pattern == nil {
		return nil, fmt.Errorf("#%s is a %s: %w", node.ID, node.Kind, ErrInvalidLinkType)
	}
	switch node.patternState {
	case patternResolved:
		return node.resolved, nil
	case patternResolving:
		return nil, fmt.Errorf("pattern #%s: %w", node.ID, ErrCircularReference)
	}
	node.patternState = patternResolving
	defer func() {
		if node.patternState != patternResolved {
			node.patternState = patternUnresolved
		}
	}()

	cur := *node.Pattern
	var children *Node
	if node.HasChildren() {
		children = node
	}
	fallback := cur.Fallback

	// Acquired fallbacks stay held until resolution finishes so that deeper
	// fallbacks pointing back into the chain are caught as cycles.
	var held []*Acquired
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release()
		}
	}()

	for !cur.isResolved() {
		if fallback == nil {
			cur.fillDefaults()
			break
		}
		a, err := acq.Acquire(*fallback, KindPattern)
		if err != nil {
			if errors.Is(err, ErrMaxReferencesExceeded) || errors.Is(err, ErrCircularReference) {
				return nil, err
			}
			Logger().Warn("pattern fallback is not usable", "href", fallback.String(), "err", err)
			fallback = nil
			continue
		}
		held = append(held, a)
		fb := a.Node().Pattern
		if fb == nil {
			fallback = nil
			continue
		}
		cur.mergeFrom(fb)
		if children == nil && a.Node().HasChildren() {
			children = a.Node()
		}
		fallback = fb.Fallback
	}

	resolved := &ResolvedPattern{
		Units:        *cur.Units,
		ContentUnits: *cur.ContentUnits,
		ViewBox:      cur.ViewBox,
		Ratio:        *cur.Ratio,
		Transform:    *cur.Transform,
		X:            *cur.X,
		Y:            *cur.Y,
		Width:        *cur.Width,
		Height:       *cur.Height,
		Children:     children,
	}
	node.resolved = resolved
	node.patternState = patternResolved
	return resolved, nil
}

// UserSpacePattern is a resolved pattern converted to concrete user-space
// geometry, ready for the paint-source-to-backend bridge.
type UserSpacePattern struct {
	// Children supplies the pattern content.
	Children *Node
	// Width and Height are the tile size in user-space pixels.
	Width, Height float64
	// CoordTransform places the tile origin in user space and applies
	// patternTransform.
	CoordTransform Transform
	// ContentTransform maps the pattern's internal content coordinates into
	// the tile.
	ContentTransform Transform
}

// ToUserSpace converts the resolved pattern to user-space geometry against
// the current viewport and, when the pattern uses object-bounding-box units,
// the target element's bounding box. In object-bounding-box mode a temporary
// 1x1 viewport is pushed so that lengths and percentages normalize to
// fractions of the bounding box. It returns nil, meaning "paint nothing",
// when the chain supplies no children, the tile or required bounding box is
// degenerate, or the content mapping is not invertible.
func (rp *ResolvedPattern) ToUserSpace(values Values, viewports *ViewportStack, bbox *Rect) *UserSpacePattern {
	if rp.Children == nil {
		return nil
	}
	vp, ok := viewports.Current()
	if !ok {
		return nil
	}
	if rp.Units == ObjectBoundingBox {
		if bbox == nil || bbox.IsEmpty() {
			return nil
		}
		viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 1.0, 1.0}, Units: ObjectBoundingBox})
		defer viewports.Pop()
		vp, _ = viewports.Current()
	}

	x := rp.X.Normalize(AxisHorizontal, values, vp)
	y := rp.Y.Normalize(AxisVertical, values, vp)
	w := rp.Width.Normalize(AxisHorizontal, values, vp)
	h := rp.Height.Normalize(AxisVertical, values, vp)
	if rp.Units == ObjectBoundingBox {
		x = bbox.X + x*bbox.W
		y = bbox.Y + y*bbox.H
		w *= bbox.W
		h *= bbox.H
	}
	if w == 0.0 || h == 0.0 {
		return nil
	}

	coord := rp.Transform.Mul(Identity.Translate(x, y))

	var content Transform
	if rp.ViewBox != nil {
		t, ok, err := rp.Ratio.ViewportToViewBoxTransform(rp.ViewBox, Rect{0.0, 0.0, w, h})
		if err != nil || !ok {
			return nil
		}
		content = t
	} else if rp.ContentUnits == ObjectBoundingBox {
		if bbox == nil || bbox.IsEmpty() {
			return nil
		}
		content = Identity.Scale(bbox.W, bbox.H)
	} else {
		content = Identity
	}

	return &UserSpacePattern{
		Children:         rp.Children,
		Width:            w,
		Height:           h,
		CoordTransform:   coord,
		ContentTransform: content,
	}
}
