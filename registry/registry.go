// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry implements C4, the focusable registry: discovery,
// incremental maintenance, and geometric bookkeeping of candidate
// elements under mutation and scroll.
package registry

import (
	"strings"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/focusgroup"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
)

// IframeSupport mirrors the iframeSupport.* config block (§6).
type IframeSupport struct {
	Enabled     bool
	Selector    string
	FocusMethod string // "element" or "contentWindow"
}

// Config is the subset of engine configuration the registry consults.
type Config struct {
	MinElementSize            float64
	IframeSupport             IframeSupport
	TraverseShadowDom         bool
	ObserveVirtualContainers  bool
	VirtualContainerSelectors []string
}

// Entry is a FocusableEntry (spec.md §3): one candidate element plus its
// cached geometric bookkeeping and registry-assigned index.
type Entry struct {
	Element     *domtree.Element
	Rect        geom.Rect
	ScrollKey   string
	GroupID     string
	Index       int
}

// Registry owns the ordered sequence of focusable entries and the focus
// group model for the current generation.
type Registry struct {
	Doc    *domtree.Document
	Config Config

	entries []*Entry
	byNode  map[*domtree.Element]*Entry
	groups  *focusgroup.Model

	currentIndex int

	lastFocusedElement *domtree.Element

	virtualSentinels []*domtree.Element
}

// New returns a Registry over doc with the given configuration.
func New(doc *domtree.Document, cfg Config) *Registry {
	return &Registry{
		Doc:          doc,
		Config:       cfg,
		byNode:       map[*domtree.Element]*Entry{},
		groups:       focusgroup.NewModel(),
		currentIndex: -1,
	}
}

// Entries returns the current ordered sequence of focusable entries.
func (r *Registry) Entries() []*Entry { return r.entries }

// Count returns the number of focusable entries.
func (r *Registry) Count() int { return len(r.entries) }

// CurrentIndex returns the index of the presently focused entry, or -1.
func (r *Registry) CurrentIndex() int { return r.currentIndex }

// SetCurrentIndex sets the registry's notion of the focused entry.
func (r *Registry) SetCurrentIndex(i int) { r.currentIndex = i }

// Groups returns the current focus-group model.
func (r *Registry) Groups() *focusgroup.Model { return r.groups }

// EntryAt returns the entry at index i, or nil if out of range.
func (r *Registry) EntryAt(i int) *Entry {
	if i < 0 || i >= len(r.entries) {
		return nil
	}
	return r.entries[i]
}

// EntryFor returns the entry for el, or nil if el is not focusable.
func (r *Registry) EntryFor(el *domtree.Element) *Entry {
	return r.byNode[el]
}

// focusableSelector is the union selector from §4.4. It is evaluated
// element-by-element rather than as a single compiled CSS selector,
// because several clauses (":not([tabindex=\"-1\"])" alongside a bare
// "[tabindex]", "button:not([disabled])") are simplest and most
// reliably expressed as direct attribute predicates; compiled
// ericchiang/css selectors (cssnav.Select) are used only for the
// host-supplied VirtualContainerSelectors list. Iframes match by tag
// when IframeSupport.Enabled is set; IframeSupport.Selector is not
// consulted.
func (r *Registry) matchesFocusableSelector(e *domtree.Element) bool {
	tag := e.TagName()
	switch tag {
	case "a":
		if _, ok := e.Attr("href"); ok {
			return true
		}
		if _, ok := e.Attr("aria-haspopup"); ok {
			return true
		}
	case "button":
		return true
	case "input", "select", "textarea":
		return true
	case "iframe":
		return r.Config.IframeSupport.Enabled
	}
	if role, ok := e.Attr("role"); ok && (role == "link" || role == "button") {
		return true
	}
	if v, ok := e.Attr("aria-haspopup"); ok && v == "true" {
		return true
	}
	if tabindex, ok := e.Attr("tabindex"); ok && tabindex != "-1" {
		return true
	}
	if v, ok := e.Attr("contenteditable"); ok && v == "true" {
		return true
	}
	return false
}

// isFocusable reports (matchesSelector ∧ visible ∧ enabled ∧ not
// aria-hidden), the predicate used by both full and incremental refresh
// (§4.4).
func (r *Registry) isFocusable(e *domtree.Element) bool {
	if !r.matchesFocusableSelector(e) {
		return false
	}
	if r.Doc.IsDisabled(e) {
		return false
	}
	if r.Doc.IsAriaHidden(e) {
		return false
	}
	return r.Doc.IsVisible(e, r.Config.MinElementSize)
}

// nearestGroupDeclaration walks up from e looking for the nearest
// ancestor (inclusive) carrying data-focus-group, returning its raw
// attribute value and the declaring container, or ok=false if none.
func nearestGroupDeclaration(e *domtree.Element) (value string, container *domtree.Element, ok bool) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if v, has := cur.Attr("data-focus-group"); has {
			return v, cur, true
		}
	}
	return "", nil, false
}

// FullRefresh rescans the whole document, rebuilding both the entry
// sequence and the focus-group model from scratch while preserving
// lastFocused per group id across generations (§4.4, §3).
func (r *Registry) FullRefresh() {
	prior := r.groups
	newGroups := focusgroup.NewModel()

	var candidates []*domtree.Element
	seen := map[*domtree.Element]bool{}
	r.walk(r.Doc.Root, &candidates, seen)

	newEntries := make([]*Entry, 0, len(candidates))
	newByNode := map[*domtree.Element]*Entry{}

	activeEl := r.Doc.ActiveElement()
	newCurrent := -1

	for _, c := range candidates {
		if !r.isFocusable(c) {
			continue
		}
		rect, ok := r.Doc.Rect(c)
		if !ok || !rect.IsValid() {
			continue
		}
		entry := &Entry{
			Element:   c,
			Rect:      rect,
			ScrollKey: r.Doc.ScrollContainerKey(c),
		}
		if value, container, has := nearestGroupDeclaration(c); has {
			g := newGroups.AddMember("", value, container, c, prior)
			entry.GroupID = g.ID
		}
		entry.Index = len(newEntries)
		newEntries = append(newEntries, entry)
		newByNode[c] = entry
		if activeEl != nil && activeEl.Equal(c) {
			newCurrent = entry.Index
		}
	}

	newGroups.BuildHierarchy()

	r.entries = newEntries
	r.byNode = newByNode
	r.groups = newGroups
	r.currentIndex = newCurrent

	if newCurrent >= 0 {
		if entry := r.entries[newCurrent]; entry.GroupID != "" {
			if g := r.groups.Get(entry.GroupID); g != nil {
				g.UpdateLastFocused(entry.Element)
			}
		}
	}

	if r.Config.ObserveVirtualContainers {
		r.virtualSentinels = r.refreshVirtualSentinels()
	}
}

// VirtualSentinels returns the first/middle/last children of every
// detected virtual-list container, as of the last FullRefresh (§4.4).
// No component in this module attaches an observer to them; the
// intersection debounce is driver.VirtualListWatcher, whose Notify a
// host's own observer callback calls.
func (r *Registry) VirtualSentinels() []*domtree.Element { return r.virtualSentinels }

// walk performs the document traversal used by FullRefresh, descending
// into shadow roots only when TraverseShadowDom is set. A real browser
// DOM would expose shadowRoot/assignedNodes; domtree models a shadow
// root as a child element carrying data-shadow-root="true". Slot
// distribution is not modelled: elements are visited where they sit in
// the tree, in document order.
func (r *Registry) walk(e *domtree.Element, out *[]*domtree.Element, seen map[*domtree.Element]bool) {
	for _, child := range e.Children() {
		if seen[child] {
			continue
		}
		seen[child] = true
		*out = append(*out, child)
		if v, ok := child.Attr("data-shadow-root"); ok && v == "true" && !r.Config.TraverseShadowDom {
			continue
		}
		r.walk(child, out, seen)
	}
}

// MutatedElement describes one element implicated in a buffered
// attribute mutation, for IncrementalRefresh.
type MutatedElement struct {
	Element *domtree.Element
}

// IncrementalRefresh re-evaluates each mutated element's focusability
// and applies insert/remove/geometry-only updates per §4.4. It must not
// be called for a flush batch that also contains a childList mutation;
// callers (driver) route those to FullRefresh instead, per the §9 open
// question about childList taking precedence.
func (r *Registry) IncrementalRefresh(mutated []MutatedElement) {
	for _, m := range mutated {
		e := m.Element
		existing, present := r.byNode[e]
		focusable := r.isFocusable(e)

		switch {
		case !present && focusable:
			r.insertEntry(e)
		case present && !focusable:
			r.removeEntry(existing)
		case present && focusable:
			rect, ok := r.Doc.Rect(e)
			if ok {
				existing.Rect = rect
			}
			existing.ScrollKey = r.Doc.ScrollContainerKey(e)
		}
	}
}

// insertEntry appends a newly-focusable element to the sequence,
// reindexing (§4.4).
func (r *Registry) insertEntry(e *domtree.Element) {
	rect, ok := r.Doc.Rect(e)
	if !ok || !rect.IsValid() {
		return
	}
	entry := &Entry{
		Element:   e,
		Rect:      rect,
		ScrollKey: r.Doc.ScrollContainerKey(e),
		Index:     len(r.entries),
	}
	if value, container, has := nearestGroupDeclaration(e); has {
		id, _ := focusgroup.ParseDeclaration(value)
		g := r.groups.EnsureGroup(id, value, container, nil)
		g.Members = append(g.Members, e)
		entry.GroupID = g.ID
	}
	r.entries = append(r.entries, entry)
	r.byNode[e] = entry
}

// removeEntry splices out a no-longer-focusable element and adjusts
// currentIndex and lastFocusedElement per §4.4.
func (r *Registry) removeEntry(entry *Entry) {
	idx := entry.Index
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	for i := idx; i < len(r.entries); i++ {
		r.entries[i].Index = i
	}
	delete(r.byNode, entry.Element)

	if r.lastFocusedElement != nil && r.lastFocusedElement.Equal(entry.Element) {
		r.lastFocusedElement = nil
	}
	switch {
	case r.currentIndex == idx:
		r.currentIndex = -1
	case r.currentIndex > idx:
		r.currentIndex--
	}
}

// LastFocusedElement returns the element the registry last recorded as
// focused, independent of whether it remains in the registry.
func (r *Registry) LastFocusedElement() *domtree.Element { return r.lastFocusedElement }

// SetLastFocusedElement records el as the last-focused element.
func (r *Registry) SetLastFocusedElement(el *domtree.Element) { r.lastFocusedElement = el }

// refreshVirtualSentinels locates virtual-list containers by the
// configured selectors (§4.4). It only resolves which first/middle/last
// children those sentinels should be and attaches no observer to them,
// degrading a single bad selector
// rather than the whole feature (ErrorHandling: MutationScanFailure).
func (r *Registry) refreshVirtualSentinels() []*domtree.Element {
	var sentinels []*domtree.Element
	for _, selector := range r.Config.VirtualContainerSelectors {
		containers, err := cssnav.Select(r.Doc, r.Doc.Root, selector)
		if err != nil {
			errutil.Warn("virtual container selector "+quote(selector), err)
			continue
		}
		for _, c := range containers {
			children := c.Children()
			if len(children) == 0 {
				continue
			}
			sentinels = append(sentinels, children[0])
			if len(children) > 2 {
				sentinels = append(sentinels, children[len(children)/2])
			}
			if len(children) > 1 {
				sentinels = append(sentinels, children[len(children)-1])
			}
		}
	}
	return sentinels
}

func quote(s string) string { return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\"" }
