package svgeom

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func resolve(t *testing.T, doc *Document, id string) (*ResolvedPattern, error) {
	t.Helper()
	node, ok := doc.NodeByID(id)
	test.That(t, ok)
	return ResolvePattern(node, NewAcquiredNodes(doc, 0))
}

func TestResolvePatternDefaults(t *testing.T) {
	doc := parseDoc(t, `<svg><pattern id="p"/></svg>`)
	rp, err := resolve(t, doc, "p")
	test.Error(t, err)

	test.T(t, rp.Units, ObjectBoundingBox)
	test.T(t, rp.ContentUnits, UserSpaceOnUse)
	test.That(t, rp.ViewBox == nil)
	test.T(t, rp.Ratio, DefaultAspectRatio)
	test.That(t, rp.Transform.Equals(Identity))
	test.T(t, rp.X, Length{0.0, Px})
	test.T(t, rp.Y, Length{0.0, Px})
	test.T(t, rp.Width, Length{0.0, Px})
	test.T(t, rp.Height, Length{0.0, Px})
	test.That(t, rp.Children == nil)
}

func TestResolvePattern(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="p" patternUnits="userSpaceOnUse" x="10" y="10" width="20" height="20">
			<rect width="20" height="20"/>
		</pattern>
	</svg>`)
	rp, err := resolve(t, doc, "p")
	test.Error(t, err)

	test.T(t, rp.Units, UserSpaceOnUse)
	test.T(t, rp.ContentUnits, UserSpaceOnUse)
	test.That(t, rp.ViewBox == nil)
	test.T(t, rp.X, Length{10.0, Px})
	test.T(t, rp.Y, Length{10.0, Px})
	test.T(t, rp.Width, Length{20.0, Px})
	test.T(t, rp.Height, Length{20.0, Px})

	node, _ := doc.NodeByID("p")
	test.That(t, rp.Children == node)
}

func TestResolvePatternChain(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="a" href="#b" x="1"/>
		<pattern id="b" href="#c" x="2" y="2" viewBox="0 0 10 10">
			<circle id="content"/>
		</pattern>
		<pattern id="c" y="3" width="5" patternUnits="userSpaceOnUse"/>
	</svg>`)
	rp, err := resolve(t, doc, "a")
	test.Error(t, err)

	// the nearest set value along the chain wins
	test.T(t, rp.X, Length{1.0, Px})
	test.T(t, rp.Y, Length{2.0, Px})
	test.T(t, rp.Width, Length{5.0, Px})
	test.T(t, rp.Units, UserSpaceOnUse)
	test.That(t, rp.ViewBox != nil)
	test.T(t, *rp.ViewBox, ViewBox{Rect{0.0, 0.0, 10.0, 10.0}})

	// height was set nowhere and falls back to the default
	test.T(t, rp.Height, Length{0.0, Px})

	// the first node along the chain with children supplies the content
	b, _ := doc.NodeByID("b")
	test.That(t, rp.Children == b)
}

func TestResolvePatternChildren(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="a" href="#b"><rect/></pattern>
		<pattern id="b"><circle/></pattern>
	</svg>`)
	rp, err := resolve(t, doc, "a")
	test.Error(t, err)

	a, _ := doc.NodeByID("a")
	test.That(t, rp.Children == a)
}

func TestResolvePatternCycle(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="a" href="#b"/>
		<pattern id="b" href="#a"/>
		<pattern id="self" href="#self"/>
	</svg>`)

	_, err := resolve(t, doc, "a")
	test.That(t, errors.Is(err, ErrCircularReference))
	_, err = resolve(t, doc, "self")
	test.That(t, errors.Is(err, ErrCircularReference))

	// a failed resolution is not cached, the next attempt fails the same way
	_, err = resolve(t, doc, "a")
	test.That(t, errors.Is(err, ErrCircularReference))
}

func TestResolvePatternBrokenFallback(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="missing" href="#nope" x="7"/>
		<pattern id="wrongkind" href="#r"/>
		<rect id="r"/>
	</svg>`)

	// a dangling href ends the chain, remaining fields get defaults
	rp, err := resolve(t, doc, "missing")
	test.Error(t, err)
	test.T(t, rp.X, Length{7.0, Px})
	test.T(t, rp.Y, Length{0.0, Px})

	// same for an href to a non-pattern element
	rp, err = resolve(t, doc, "wrongkind")
	test.Error(t, err)
	test.T(t, rp.Units, ObjectBoundingBox)
}

func TestResolvePatternLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<svg>`)
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, `<pattern id="p%d" href="#p%d"/>`, i, i+1)
	}
	sb.WriteString(`<pattern id="p10" x="1" y="1" width="1" height="1" viewBox="0 0 1 1" patternUnits="userSpaceOnUse" patternContentUnits="userSpaceOnUse" preserveAspectRatio="none" patternTransform="scale(2)"/></svg>`)
	doc := parseDoc(t, sb.String())

	node, ok := doc.NodeByID("p0")
	test.That(t, ok)

	// a chain longer than the ceiling is rejected
	_, err := ResolvePattern(node, NewAcquiredNodes(doc, 5))
	test.That(t, errors.Is(err, ErrMaxReferencesExceeded))

	// the default ceiling admits the whole chain
	rp, err := ResolvePattern(node, NewAcquiredNodes(doc, 0))
	test.Error(t, err)
	test.T(t, rp.X, Length{1.0, Px})
	test.T(t, rp.Units, UserSpaceOnUse)
}

func TestResolvePatternCached(t *testing.T) {
	doc := parseDoc(t, `<svg><pattern id="p" x="5"/></svg>`)
	node, ok := doc.NodeByID("p")
	test.That(t, ok)

	acq := NewAcquiredNodes(doc, 0)
	rp1, err := ResolvePattern(node, acq)
	test.Error(t, err)
	rp2, err := ResolvePattern(node, acq)
	test.Error(t, err)
	test.That(t, rp1 == rp2)
}

func TestResolvePatternWrongNode(t *testing.T) {
	doc := parseDoc(t, `<svg><rect id="r"/></svg>`)
	node, ok := doc.NodeByID("r")
	test.That(t, ok)

	_, err := ResolvePattern(node, NewAcquiredNodes(doc, 0))
	test.That(t, errors.Is(err, ErrInvalidLinkType))
}

func TestPatternToUserSpace(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="p" patternUnits="userSpaceOnUse" x="10" y="10" width="20" height="20">
			<rect width="20" height="20"/>
		</pattern>
	</svg>`)
	rp, err := resolve(t, doc, "p")
	test.Error(t, err)

	var viewports ViewportStack
	viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 100.0, 100.0}})

	us := rp.ToUserSpace(DefaultValues(), &viewports, nil)
	test.That(t, us != nil)
	test.Float(t, us.Width, 20.0)
	test.Float(t, us.Height, 20.0)
	test.That(t, us.CoordTransform.Equals(Identity.Translate(10.0, 10.0)))
	test.That(t, us.ContentTransform.Equals(Identity))

	node, _ := doc.NodeByID("p")
	test.That(t, us.Children == node)
}

func TestPatternToUserSpaceBoundingBox(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="p" x="0.1" y="0.2" width="0.5" height="0.25"><rect/></pattern>
	</svg>`)
	rp, err := resolve(t, doc, "p")
	test.Error(t, err)

	var viewports ViewportStack
	viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 1000.0, 1000.0}})
	bbox := Rect{50.0, 100.0, 200.0, 400.0}

	us := rp.ToUserSpace(DefaultValues(), &viewports, &bbox)
	test.That(t, us != nil)
	test.Float(t, us.Width, 100.0)
	test.Float(t, us.Height, 100.0)
	test.That(t, us.CoordTransform.Equals(Identity.Translate(70.0, 180.0)))

	// the temporary 1x1 viewport pushed for bounding-box units is popped again
	v, ok := viewports.Current()
	test.That(t, ok)
	test.T(t, v.Rect, Rect{0.0, 0.0, 1000.0, 1000.0})

	// no bounding box means nothing to paint
	test.That(t, rp.ToUserSpace(DefaultValues(), &viewports, nil) == nil)
	empty := Rect{0.0, 0.0, 0.0, 10.0}
	test.That(t, rp.ToUserSpace(DefaultValues(), &viewports, &empty) == nil)
}

func TestPatternToUserSpaceContent(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="vb" patternUnits="userSpaceOnUse" width="20" height="10" viewBox="0 0 2 1"><rect/></pattern>
		<pattern id="obb" patternUnits="userSpaceOnUse" width="20" height="10" patternContentUnits="objectBoundingBox"><rect/></pattern>
	</svg>`)
	var viewports ViewportStack
	viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 100.0, 100.0}})
	bbox := Rect{0.0, 0.0, 10.0, 40.0}

	// a view box maps content coordinates onto the tile
	rp, err := resolve(t, doc, "vb")
	test.Error(t, err)
	us := rp.ToUserSpace(DefaultValues(), &viewports, &bbox)
	test.That(t, us != nil)
	test.T(t, us.ContentTransform.TransformPoint(Point{2.0, 1.0}), Point{20.0, 10.0})

	// bounding-box content units scale content by the bounding box
	rp, err = resolve(t, doc, "obb")
	test.Error(t, err)
	us = rp.ToUserSpace(DefaultValues(), &viewports, &bbox)
	test.That(t, us != nil)
	test.That(t, us.ContentTransform.Equals(Identity.Scale(10.0, 40.0)))
}

func TestPatternToUserSpaceDegenerate(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="empty" patternUnits="userSpaceOnUse" width="20" height="20"/>
		<pattern id="zero" patternUnits="userSpaceOnUse" width="0" height="20"><rect/></pattern>
	</svg>`)
	var viewports ViewportStack
	viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 100.0, 100.0}})

	// no children anywhere along the chain
	rp, err := resolve(t, doc, "empty")
	test.Error(t, err)
	test.That(t, rp.ToUserSpace(DefaultValues(), &viewports, nil) == nil)

	// zero tile size
	rp, err = resolve(t, doc, "zero")
	test.Error(t, err)
	test.That(t, rp.ToUserSpace(DefaultValues(), &viewports, nil) == nil)

	// no current viewport
	var none ViewportStack
	test.That(t, rp.ToUserSpace(DefaultValues(), &none, nil) == nil)
}

func TestPatternToUserSpaceTransform(t *testing.T) {
	doc := parseDoc(t, `<svg>
		<pattern id="p" patternUnits="userSpaceOnUse" x="10" y="0" width="10" height="10" patternTransform="scale(2)"><rect/></pattern>
	</svg>`)
	rp, err := resolve(t, doc, "p")
	test.Error(t, err)

	var viewports ViewportStack
	viewports.Push(Viewport{Rect: Rect{0.0, 0.0, 100.0, 100.0}})

	// patternTransform applies after the tile origin translation
	us := rp.ToUserSpace(DefaultValues(), &viewports, nil)
	test.That(t, us != nil)
	test.T(t, us.CoordTransform.TransformPoint(Point{0.0, 0.0}), Point{20.0, 0.0})
}
