// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package domtree models the document tree the navigation engine
// observes: a mutable tree of elements, their computed style and layout
// rect, and the mutation/exit-event channels the rest of the engine
// consumes. It is the concrete stand-in for the browser DOM named as an
// external collaborator throughout spec.md.
package domtree

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
)

// MutationType classifies a single recorded DOM change, mirroring the
// subset of MutationObserver record types spec.md §4.8 cares about.
type MutationType int

const (
	// ChildList records an element insertion or removal.
	ChildList MutationType = iota
	// Attributes records a watched attribute changing value.
	Attributes
)

// MutationRecord describes one observed change, buffered by the host and
// handed to driver.Driver.Flush.
type MutationRecord struct {
	Type          MutationType
	Target        *Element
	AttributeName string
}

// ExitEvent mirrors the detail payload of the spatialNavigationExit
// custom event described in spec.md §6.
type ExitEvent struct {
	Direction  string
	InTrap     bool
	TrapID     string
	EscapeKey  string
}

// ComputedStyle holds the subset of computed style the engine reads:
// visibility, layout mode, scrollability, and the
// --spatial-navigation-* / scroll-snap-* custom properties (§4.1, §4.2).
type ComputedStyle struct {
	Display         string
	VisibilityHidden bool
	OverflowX       string
	OverflowY       string
	// Properties holds arbitrary CSS custom properties and any other
	// declaration cssnav may want to resolve, keyed by property name
	// without normalization beyond what douceur's parser supplies.
	Properties map[string]string
}

func newComputedStyle() *ComputedStyle {
	return &ComputedStyle{Properties: map[string]string{}}
}

// scrollableX and scrollableY report whether that axis's overflow
// allows scrolling.
func (c *ComputedStyle) scrollableX() bool { return isScrollableOverflow(c.OverflowX) }
func (c *ComputedStyle) scrollableY() bool { return isScrollableOverflow(c.OverflowY) }

func isScrollableOverflow(v string) bool {
	switch v {
	case "auto", "scroll", "overlay":
		return true
	}
	return false
}

// Element wraps a live *html.Node with the document that owns it, giving
// the rest of the engine a stable handle independent of the underlying
// parse-tree representation.
type Element struct {
	node *html.Node
	doc  *Document
}

// Node returns the underlying html.Node. Engine code outside domtree
// should treat it as an opaque identity key, not mutate it directly.
func (e *Element) Node() *html.Node { return e.node }

// Doc returns the owning document.
func (e *Element) Doc() *Document { return e.doc }

// Equal reports whether two elements wrap the same underlying node.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.node == o.node
}

// TagName returns the lowercase tag name, or "" for non-element nodes.
func (e *Element) TagName() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// ID returns the element's id attribute, or "".
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// SetAttr sets an attribute, recording an Attributes mutation.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			e.doc.recordMutation(MutationRecord{Type: Attributes, Target: e, AttributeName: key})
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
	e.doc.recordMutation(MutationRecord{Type: Attributes, Target: e, AttributeName: key})
}

// RemoveAttr removes an attribute if present, recording an Attributes
// mutation regardless (matching the DOM's MutationObserver behavior of
// firing on removal too).
func (e *Element) RemoveAttr(key string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			break
		}
	}
	e.doc.recordMutation(MutationRecord{Type: Attributes, Target: e, AttributeName: key})
}

// Parent returns the element's nearest element ancestor, or nil.
func (e *Element) Parent() *Element {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.wrap(p)
		}
	}
	return nil
}

// Children returns the element's direct element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Descendants returns all element descendants in document order.
func (e *Element) Descendants() []*Element {
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, e.doc.wrap(c))
				walk(c)
			}
		}
	}
	walk(e.node)
	return out
}

// AppendChild appends child to e's children, recording a ChildList
// mutation on e.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	e.doc.recordMutation(MutationRecord{Type: ChildList, Target: e})
}

// Remove detaches e from its parent, recording a ChildList mutation on
// the former parent.
func (e *Element) Remove() {
	parent := e.node.Parent
	if parent == nil {
		return
	}
	parent.RemoveChild(e.node)
	e.doc.recordMutation(MutationRecord{Type: ChildList, Target: e.doc.wrap(parent)})
}

// Document owns a tree of elements plus their computed styles, layout
// rects, mutation subscribers, and exit-event listeners.
type Document struct {
	Root *Element

	elements map[*html.Node]*Element
	styles   map[*html.Node]*ComputedStyle
	rects    map[*html.Node]geom.Rect
	// rectFunc, when set, is consulted live instead of the rects map,
	// matching spec.md's "obtained at call time, not cached" policy
	// (§4.1). Tests that just want fixed geometry can skip it and use
	// SetRect instead.
	rectFunc func(*Element) (geom.Rect, bool)

	pending        []MutationRecord
	mutationSubs   []func([]MutationRecord)
	exitListeners  []func(ExitEvent)
	activeElement  *Element
}

// NewDocument returns an empty document with a root <html><body>
// structure, analogous to document.body.
func NewDocument() *Document {
	root := &html.Node{Type: html.ElementNode, Data: "html"}
	body := &html.Node{Type: html.ElementNode, Data: "body"}
	root.AppendChild(body)
	d := &Document{
		elements: map[*html.Node]*Element{},
		styles:   map[*html.Node]*ComputedStyle{},
		rects:    map[*html.Node]geom.Rect{},
	}
	d.Root = d.wrap(root)
	return d
}

// ParseHTML parses r as an HTML document using golang.org/x/net/html and
// returns a Document wrapping its node tree.
func ParseHTML(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{
		elements: map[*html.Node]*Element{},
		styles:   map[*html.Node]*ComputedStyle{},
		rects:    map[*html.Node]geom.Rect{},
	}
	d.Root = d.wrap(n)
	return d, nil
}

// ParseHTMLString is a convenience wrapper around ParseHTML for literal
// HTML fixtures in tests.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

// ElementFor returns the Element wrapping the given underlying node,
// creating one if this is the first time it has been seen. It exists so
// collaborators that walk *html.Node trees directly (e.g. cssnav's
// selector matching) can rejoin the Element identity space.
func (d *Document) ElementFor(n *html.Node) *Element { return d.wrap(n) }

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{node: n, doc: d}
	d.elements[n] = e
	return e
}

// Body returns the document's <body> element, if present.
func (d *Document) Body() *Element {
	var found *Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			found = d.wrap(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.Root.node)
	return found
}

// All returns every element in the document in document order.
func (d *Document) All() []*Element {
	return d.Root.Descendants()
}

// Style returns the computed style record for e, creating an empty one
// (visible, empty Display, non-scrollable) on first access.
func (d *Document) Style(e *Element) *ComputedStyle {
	s, ok := d.styles[e.node]
	if !ok {
		s = newComputedStyle()
		d.styles[e.node] = s
	}
	return s
}

// SetRectFunc installs a live rect provider, consulted on every Rect
// call instead of the static map populated by SetRect.
func (d *Document) SetRectFunc(f func(*Element) (geom.Rect, bool)) {
	d.rectFunc = f
}

// SetRect records a fixed rect for e, used when no live rectFunc is
// installed (typical in tests).
func (d *Document) SetRect(e *Element, r geom.Rect) {
	d.rects[e.node] = r
}

// Rect returns e's current layout rect and whether one is known.
func (d *Document) Rect(e *Element) (geom.Rect, bool) {
	if d.rectFunc != nil {
		return d.rectFunc(e)
	}
	r, ok := d.rects[e.node]
	return r, ok
}

// SetActiveElement marks e as the currently focused element, analogous
// to document.activeElement.
func (d *Document) SetActiveElement(e *Element) { d.activeElement = e }

// ActiveElement returns the currently focused element, or nil.
func (d *Document) ActiveElement() *Element { return d.activeElement }

func (d *Document) recordMutation(r MutationRecord) {
	d.pending = append(d.pending, r)
}

// DrainMutations returns and clears the pending mutation buffer. It is
// the low-level hook driver.Driver polls on its debounce timer; direct
// callers normally use Observe instead.
func (d *Document) DrainMutations() []MutationRecord {
	p := d.pending
	d.pending = nil
	return p
}

// Observe registers cb to be invoked with batches of mutation records.
// This models the MutationObserver contract: driver.Driver calls
// DrainMutations itself on its own schedule and is not a typical
// Observe subscriber. Recording a mutation does not call subscribers;
// they receive each batch only when NotifySubscribers is called, which
// driver.Driver does after it has acted on a flushed batch.
func (d *Document) Observe(cb func([]MutationRecord)) (unobserve func()) {
	d.mutationSubs = append(d.mutationSubs, cb)
	idx := len(d.mutationSubs) - 1
	return func() {
		if idx < len(d.mutationSubs) {
			d.mutationSubs[idx] = nil
		}
	}
}

// NotifySubscribers is called by driver after it drains the buffer, so
// that Observe subscribers see the same batches driver acted on.
func (d *Document) NotifySubscribers(records []MutationRecord) {
	for _, cb := range d.mutationSubs {
		if cb != nil {
			cb(records)
		}
	}
}

// Listen registers cb to receive spatialNavigationExit-equivalent
// events dispatched by DispatchExit.
func (d *Document) Listen(cb func(ExitEvent)) (unlisten func()) {
	d.exitListeners = append(d.exitListeners, cb)
	idx := len(d.exitListeners) - 1
	return func() {
		if idx < len(d.exitListeners) {
			d.exitListeners[idx] = nil
		}
	}
}

// DispatchExit notifies every registered listener of a boundary event.
func (d *Document) DispatchExit(ev ExitEvent) {
	for _, cb := range d.exitListeners {
		if cb != nil {
			cb(ev)
		}
	}
}
