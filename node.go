package svgeom

import (
	"fmt"
	"strings"
)

// NodeKind is the element kind of a node. The set of kinds relevant to
// reference resolution is fixed by the SVG spec, so it is a closed enum
// dispatched with switch, not an open hierarchy.
type NodeKind uint8

const (
	KindUnknown NodeKind = iota
	KindSvg
	KindGroup
	KindDefs
	KindUse
	KindPattern
	KindMarker
	KindMask
	KindClipPath
	KindFilter
	KindLinearGradient
	KindRadialGradient
	KindRect
	KindCircle
	KindEllipse
	KindLine
	KindPolyline
	KindPolygon
	KindPath
	KindText
)

var nodeKinds = map[string]NodeKind{
	"svg":            KindSvg,
	"g":              KindGroup,
	"defs":           KindDefs,
	"use":            KindUse,
	"pattern":        KindPattern,
	"marker":         KindMarker,
	"mask":           KindMask,
	"clipPath":       KindClipPath,
	"filter":         KindFilter,
	"linearGradient": KindLinearGradient,
	"radialGradient": KindRadialGradient,
	"rect":           KindRect,
	"circle":         KindCircle,
	"ellipse":        KindEllipse,
	"line":           KindLine,
	"polyline":       KindPolyline,
	"polygon":        KindPolygon,
	"path":           KindPath,
	"text":           KindText,
}

func kindForTag(tag string) NodeKind {
	if kind, ok := nodeKinds[tag]; ok {
		return kind
	}
	return KindUnknown
}

func (k NodeKind) String() string {
	for tag, kind := range nodeKinds {
		if kind == k {
			return tag
		}
	}
	return "unknown"
}

// IsReferenced reports whether elements of this kind are accessed by
// reference (paint servers, markers, masks, clip paths, filters) and
// therefore participate in cycle tracking when acquired. Plain shapes are
// acquired without tracking; callers resolving use-style element chains call
// AcquireRef directly.
func (k NodeKind) IsReferenced() bool {
	switch k {
	case KindPattern, KindMarker, KindMask, KindClipPath, KindFilter,
		KindLinearGradient, KindRadialGradient:
		return true
	}
	return false
}

// Node is an element in the document tree. Attribute values relevant to
// geometry resolution are parsed eagerly at load time; a malformed attribute
// falls back to its initial value and is logged, it never fails the document.
type Node struct {
	Kind     NodeKind
	ID       string
	Parent   *Node
	Children []*Node

	// Transform is the element's transform attribute, identity when absent.
	Transform Transform
	// X, Y, Width and Height are nil when the attribute is absent.
	X, Y          *Length
	Width, Height *Length
	ViewBox       *ViewBox
	Ratio         *AspectRatio
	// Href is the parsed href/xlink:href attribute, nil when absent.
	Href *NodeID
	// FillRef is the paint-server reference of the fill attribute, nil when
	// the fill is not a url(#id) reference.
	FillRef *NodeID

	// Pattern holds the unresolved pattern record for KindPattern nodes.
	Pattern *Pattern

	patternState patternState
	resolved     *ResolvedPattern
}

// HasChildren reports whether the node has any element children, which for
// pattern resolution decides whether it supplies renderable content.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

////////////////////////////////////////////////////////////////

// NodeID is a reference to an element: an optional document URL and a
// non-empty fragment. An empty URL refers to the current document.
type NodeID struct {
	URL string
	ID  string
}

// ParseNodeID parses an href-style reference of the form [url]#id. The
// fragment must be present and non-empty.
func ParseNodeID(v string) (NodeID, error) {
	i := strings.IndexByte(v, '#')
	if i == -1 {
		return NodeID{}, fmt.Errorf("href requires a fragment identifier: %s", v)
	}
	if i == len(v)-1 {
		return NodeID{}, fmt.Errorf("href fragment must not be empty: %s", v)
	}
	return NodeID{URL: v[:i], ID: v[i+1:]}, nil
}

// IsExternal reports whether the reference points outside the current document.
func (id NodeID) IsExternal() bool {
	return id.URL != ""
}

func (id NodeID) String() string {
	return id.URL + "#" + id.ID
}

// ParseURLReference parses a fill/stroke-style url(#id) value and reports
// whether it is one.
func ParseURLReference(v string) (NodeID, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return NodeID{}, false
	}
	id, err := ParseNodeID(strings.TrimSpace(v[4 : len(v)-1]))
	if err != nil {
		return NodeID{}, false
	}
	return id, true
}

////////////////////////////////////////////////////////////////

// Document is a loaded SVG document: the element tree plus an id index.
type Document struct {
	Root *Node

	ids map[string]*Node
}

// NodeByID returns the element with the given id.
func (d *Document) NodeByID(id string) (*Node, bool) {
	n, ok := d.ids[id]
	return n, ok
}
