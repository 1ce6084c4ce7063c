package svgeom

import (
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// ParseDocument parses an SVG document into its element tree. Only the
// attributes the geometry pipeline consumes are interpreted; a malformed
// attribute value falls back to its initial value and is logged, so that
// broken documents still render as much as possible. The root element must
// be svg.
func ParseDocument(r io.Reader) (*Document, error) {
	z := parse.NewInput(r)
	defer z.Restore()

	l := xml.NewLexer(z)
	doc := &Document{ids: map[string]*Node{}}
	var open []*Node
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, l.Err()
			}
			if doc.Root == nil {
				return nil, fmt.Errorf("expected svg tag")
			}
			return doc, nil
		case xml.StartTagToken:
			tag := string(data[1:])
			node := &Node{Kind: kindForTag(tag), Transform: Identity}
			if node.Kind == KindPattern {
				node.Pattern = &Pattern{}
			}
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				if 2 <= len(val) {
					val = val[1 : len(val)-1]
				}
				node.setAttribute(string(l.Text()), string(val))
			}

			if doc.Root == nil {
				if node.Kind != KindSvg {
					return nil, parse.NewErrorLexer(z, "expected svg tag, got %s", tag)
				}
				doc.Root = node
			} else if 0 < len(open) {
				parent := open[len(open)-1]
				node.Parent = parent
				parent.Children = append(parent.Children, node)
			}
			if node.ID != "" {
				if _, exists := doc.ids[node.ID]; !exists {
					doc.ids[node.ID] = node
				}
			}
			if tt != xml.StartTagCloseVoidToken {
				open = append(open, node)
			}
		case xml.EndTagToken:
			if 0 < len(open) {
				open = open[:len(open)-1]
			}
		}
	}
}

// setAttribute parses one attribute value into the node. Geometry attributes
// of pattern elements go into the pattern record. Errors are recovered: the
// attribute keeps its initial value and a warning is logged.
func (n *Node) setAttribute(key, val string) {
	var err error
	switch key {
	case "id":
		n.ID = val
	case "transform":
		n.Transform, err = ParseTransform(val)
		if err != nil {
			n.Transform = Identity
		}
	case "patternTransform":
		if n.Pattern != nil {
			var t Transform
			if t, err = ParseTransform(val); err == nil {
				n.Pattern.Transform = &t
			}
		}
	case "patternUnits":
		if n.Pattern != nil {
			var u CoordUnits
			if u, err = ParseCoordUnits(val); err == nil {
				n.Pattern.Units = &u
			}
		}
	case "patternContentUnits":
		if n.Pattern != nil {
			var u CoordUnits
			if u, err = ParseCoordUnits(val); err == nil {
				n.Pattern.ContentUnits = &u
			}
		}
	case "x":
		var l Length
		if l, err = ParseLength(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.X = &l
			} else {
				n.X = &l
			}
		}
	case "y":
		var l Length
		if l, err = ParseLength(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.Y = &l
			} else {
				n.Y = &l
			}
		}
	case "width":
		var l Length
		if l, err = ParseNonNegativeLength(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.Width = &l
			} else {
				n.Width = &l
			}
		}
	case "height":
		var l Length
		if l, err = ParseNonNegativeLength(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.Height = &l
			} else {
				n.Height = &l
			}
		}
	case "viewBox":
		var vb ViewBox
		if vb, err = ParseViewBox(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.ViewBox = &vb
				n.Pattern.HasViewBox = true
			} else {
				n.ViewBox = &vb
			}
		}
	case "preserveAspectRatio":
		var ar AspectRatio
		if ar, err = ParseAspectRatio(val); err == nil {
			if n.Pattern != nil {
				n.Pattern.Ratio = &ar
			} else {
				n.Ratio = &ar
			}
		}
	case "href", "xlink:href":
		var id NodeID
		if id, err = ParseNodeID(val); err == nil {
			n.Href = &id
			if n.Pattern != nil {
				n.Pattern.Fallback = &id
			}
		}
	case "fill":
		if id, ok := ParseURLReference(val); ok {
			n.FillRef = &id
		}
	}
	if err != nil {
		Logger().Warn("invalid attribute", "attr", key, "value", val, "err", err)
	}
}
