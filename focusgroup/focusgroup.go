// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package focusgroup implements C3, the focus-group model: parsing
// data-focus-group declarations, building the dotted-id hierarchy, and
// resolving effective boundary/enter/remember/priority options.
package focusgroup

import (
	"strconv"
	"strings"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
)

// Boundary is a group's edge-of-region policy (§3).
type Boundary string

const (
	BoundaryExit     Boundary = "exit"
	BoundaryContain  Boundary = "contain"
	BoundaryWrap     Boundary = "wrap"
	BoundaryStop     Boundary = "stop"
)

// EnterMode selects which member receives focus when navigation enters
// a group (§3).
type EnterMode string

const (
	EnterDefault EnterMode = "default"
	EnterFirst   EnterMode = "first"
	EnterLast    EnterMode = "last"
)

// Options are the raw, possibly-partial options parsed off one
// data-focus-group declaration, before inheritance is applied.
type Options struct {
	Boundary       Boundary
	BoundarySet    bool
	Remember       bool
	RememberSet    bool
	Enter          EnterMode
	EnterSet       bool
	Priority       float64
	PrioritySet    bool
	InheritOptions bool
}

// ParseDeclaration parses a data-focus-group attribute value of the
// form "id;k=v;k=v" into an id and its raw Options (§4.3). Recognized
// keys are boundary, remember, enter, priority, inherit.
func ParseDeclaration(value string) (id string, opts Options) {
	parts := strings.Split(value, ";")
	if len(parts) == 0 {
		return "", Options{}
	}
	id = strings.TrimSpace(parts[0])
	opts.InheritOptions = true
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		switch key {
		case "boundary":
			opts.Boundary = Boundary(val)
			opts.BoundarySet = true
		case "remember":
			opts.Remember = val == "true" || val == "1"
			opts.RememberSet = true
		case "enter":
			opts.Enter = EnterMode(val)
			opts.EnterSet = true
		case "priority":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				opts.Priority = f
				opts.PrioritySet = true
			}
		case "inherit":
			opts.InheritOptions = val == "true" || val == "1"
		}
	}
	return id, opts
}

// Group is one navigation region declared by a hierarchical dotted id
// (spec.md §3, FocusGroup).
type Group struct {
	ID        string
	Container *domtree.Element
	Members   []*domtree.Element
	Depth     int
	Parent    *Group
	Children  map[string]*Group

	LastFocused *domtree.Element

	raw Options

	// Effective options, computed by BuildHierarchy.
	Boundary Boundary
	Remember bool
	Enter    EnterMode
	Priority float64
}

// ShouldWrap reports whether this group wraps at its boundary.
func (g *Group) ShouldWrap() bool { return g.Boundary == BoundaryWrap }

// CanExit reports whether navigation may leave this group at its
// boundary.
func (g *Group) CanExit() bool { return g.Boundary == BoundaryExit || g.Boundary == BoundaryWrap }

// Model owns the full set of groups for one registry generation.
type Model struct {
	byID map[string]*Group
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{byID: map[string]*Group{}}
}

// Get returns the group with the given id, or nil.
func (m *Model) Get(id string) *Group { return m.byID[id] }

// All returns every group, in no particular order.
func (m *Model) All() []*Group {
	out := make([]*Group, 0, len(m.byID))
	for _, g := range m.byID {
		out = append(out, g)
	}
	return out
}

// AddMember declares that el belongs to the group named by groupID,
// parsed from a data-focus-group attribute value, creating the group on
// first reference. prior, if non-nil, is the previous generation's
// model, used to carry over LastFocused across a full refresh (§3's
// "recreated by the registry on full refresh, preserving lastFocused").
func (m *Model) AddMember(groupID string, rawValue string, container *domtree.Element, el *domtree.Element, prior *Model) *Group {
	id, opts := ParseDeclaration(rawValue)
	if groupID != "" {
		id = groupID
	}
	g, ok := m.byID[id]
	if !ok {
		g = &Group{ID: id, Container: container, Children: map[string]*Group{}, raw: opts}
		if prior != nil {
			if pg := prior.Get(id); pg != nil && pg.LastFocused != nil {
				g.LastFocused = pg.LastFocused
			}
		}
		m.byID[id] = g
	}
	g.Members = append(g.Members, el)
	return g
}

// EnsureGroup ensures a group with the given id (and raw options) exists
// without attaching a member, used when building containers that may
// have zero direct members.
func (m *Model) EnsureGroup(id string, rawValue string, container *domtree.Element, prior *Model) *Group {
	_, opts := ParseDeclaration(rawValue)
	g, ok := m.byID[id]
	if !ok {
		g = &Group{ID: id, Container: container, Children: map[string]*Group{}, raw: opts}
		if prior != nil {
			if pg := prior.Get(id); pg != nil && pg.LastFocused != nil {
				g.LastFocused = pg.LastFocused
			}
		}
		m.byID[id] = g
	}
	return g
}

// BuildHierarchy links every group to its parent by dotted-id prefix,
// computes depth, and resolves effective options via inheritance
// (§4.3). It must be called once after all groups for a generation have
// been added.
func (m *Model) BuildHierarchy() {
	groups := m.All()
	// Sort by ascending segment-count depth so a parent is always
	// resolved before the children that inherit from it.
	depth := func(id string) int { return strings.Count(id, ".") + 1 }
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			if depth(groups[j].ID) < depth(groups[i].ID) {
				groups[i], groups[j] = groups[j], groups[i]
			}
		}
	}
	for _, g := range groups {
		g.Depth = depth(g.ID)
		if parentID, ok := parentOf(g.ID); ok {
			if p, ok := m.byID[parentID]; ok {
				g.Parent = p
				p.Children[g.ID] = g
			}
		}
	}
	for _, g := range groups {
		g.Boundary = resolveBoundary(g)
		g.Remember = resolveRemember(g)
		g.Enter = resolveEnter(g)
		// priority never inherits (§4.3).
		if g.raw.PrioritySet {
			g.Priority = g.raw.Priority
		}
	}
}

func parentOf(id string) (string, bool) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

func resolveBoundary(g *Group) Boundary {
	if g.raw.BoundarySet {
		return g.raw.Boundary
	}
	if g.raw.InheritOptions && g.Parent != nil {
		return g.Parent.Boundary
	}
	return BoundaryExit
}

func resolveRemember(g *Group) bool {
	if g.raw.RememberSet {
		return g.raw.Remember
	}
	if g.raw.InheritOptions && g.Parent != nil {
		return g.Parent.Remember
	}
	return false
}

func resolveEnter(g *Group) EnterMode {
	if g.raw.EnterSet {
		return g.raw.Enter
	}
	if g.raw.InheritOptions && g.Parent != nil {
		return g.Parent.Enter
	}
	return EnterDefault
}

// UpdateLastFocused records that el (a member of g) just received
// focus, and propagates the enclosing member up to any stale ancestor
// group, per §4.3: "walks ancestors and sets their lastFocused to the
// enclosing member if the ancestor's is stale".
func (g *Group) UpdateLastFocused(el *domtree.Element) {
	g.LastFocused = el
	enclosing := el
	for p := g.Parent; p != nil; p = p.Parent {
		if p.LastFocused == nil || isStale(p.LastFocused) {
			p.LastFocused = enclosing
		}
		enclosing = p.LastFocused
	}
}

// isStale reports whether a previously remembered element is no longer
// attached to the document, using its node's parent pointer as the
// liveness check domtree exposes.
func isStale(el *domtree.Element) bool {
	return el == nil || (el.Node().Parent == nil && el.Doc().Root.Node() != el.Node())
}

// GetPreferredEntry returns the member that should receive focus when
// navigation enters g, per §4.3: lastFocused for EnterLast when still
// attached, otherwise the first member.
func (g *Group) GetPreferredEntry() *domtree.Element {
	if g.Enter == EnterLast && g.LastFocused != nil && !isStale(g.LastFocused) {
		return g.LastFocused
	}
	if len(g.Members) == 0 {
		return nil
	}
	return g.Members[0]
}
