package svgeom

import (
	"errors"
	"fmt"
)

// MaxReferencedElements is the default ceiling on the number of elements
// acquired by reference during one render or measurement pass. Malicious
// documents can reference thousands of patterns or deeply nested use trees to
// explode CPU time; bounding total acquisitions bounds total work.
const MaxReferencedElements = 500000

var (
	// ErrLinkNotFound is returned when a reference points to no element.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidLinkType is returned when a reference points to an element
	// that cannot serve the expected role.
	ErrInvalidLinkType = errors.New("invalid link type")
	// ErrCircularReference is returned when acquiring an element that is
	// already held on the acquisition stack.
	ErrCircularReference = errors.New("circular reference")
	// ErrMaxReferencesExceeded is returned once the acquisition ceiling is
	// reached. It is fatal: the whole render pass must be aborted, it is not
	// a per-element condition.
	ErrMaxReferencesExceeded = errors.New("maximum number of references exceeded")
)

// AcquiredNodes resolves id references to elements during a single render or
// measurement pass. It counts every acquisition against a ceiling and keeps a
// stack of currently held elements for cycle detection. It must be freshly
// constructed per pass and is not safe for concurrent use.
type AcquiredNodes struct {
	doc      *Document
	limit    int
	acquired int
	stack    []*Node
}

// NewAcquiredNodes returns an acquirer for one pass over doc. A limit of zero
// or less selects MaxReferencedElements.
func NewAcquiredNodes(doc *Document, limit int) *AcquiredNodes {
	if limit <= 0 {
		limit = MaxReferencedElements
	}
	return &AcquiredNodes{doc: doc, limit: limit}
}

// Acquired is a scoped hold on an element. Release must be called when the
// caller is done with it, in reverse acquisition order.
type Acquired struct {
	nodes   *AcquiredNodes
	node    *Node
	tracked bool
}

// Node returns the held element.
func (a *Acquired) Node() *Node {
	return a.node
}

// Release pops the element off the acquisition stack if it was tracked.
func (a *Acquired) Release() {
	if !a.tracked {
		return
	}
	a.tracked = false
	last := len(a.nodes.stack) - 1
	if last < 0 || a.nodes.stack[last] != a.node {
		panic("acquired nodes must be released in reverse acquisition order")
	}
	a.nodes.stack = a.nodes.stack[:last]
}

// Acquire resolves a reference to an element. When kinds are given the
// element must be one of them. Elements of a kind that is accessed by
// reference are additionally pushed onto the acquisition stack, so that
// re-acquiring one along the same resolution chain fails with
// ErrCircularReference. Every call counts against the ceiling regardless of
// outcome; past the ceiling all acquisitions fail with
// ErrMaxReferencesExceeded.
func (a *AcquiredNodes) Acquire(id NodeID, kinds ...NodeKind) (*Acquired, error) {
	if err := a.count(); err != nil {
		return nil, err
	}
	if id.IsExternal() {
		// Cross-document references require a pre-resolved external document,
		// which this resolver does not carry.
		return nil, fmt.Errorf("%s: external reference: %w", id, ErrLinkNotFound)
	}
	node, ok := a.doc.NodeByID(id.ID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrLinkNotFound)
	}
	if len(kinds) > 0 {
		found := false
		for _, kind := range kinds {
			if node.Kind == kind {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s is a %s: %w", id, node.Kind, ErrInvalidLinkType)
		}
	}
	if node.Kind.IsReferenced() {
		return a.acquireRef(node)
	}
	return &Acquired{nodes: a, node: node}, nil
}

// AcquireRef pushes node onto the acquisition stack regardless of its kind,
// for callers that recurse through arbitrary elements such as use chains.
func (a *AcquiredNodes) AcquireRef(node *Node) (*Acquired, error) {
	if err := a.count(); err != nil {
		return nil, err
	}
	return a.acquireRef(node)
}

func (a *AcquiredNodes) acquireRef(node *Node) (*Acquired, error) {
	for _, held := range a.stack {
		if held == node {
			return nil, fmt.Errorf("#%s: %w", node.ID, ErrCircularReference)
		}
	}
	a.stack = append(a.stack, node)
	return &Acquired{nodes: a, node: node, tracked: true}, nil
}

func (a *AcquiredNodes) count() error {
	a.acquired++
	if a.acquired > a.limit {
		return ErrMaxReferencesExceeded
	}
	return nil
}
