// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statemachine implements C6, the focus state machine: ensuring
// a valid focus exists, position-hint recovery after DOM recycling, and
// boundary emission (spec.md §4.6).
package statemachine

import (
	"math"
	"time"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

// PositionHintTTL bounds how long a stored position hint remains usable
// (§3, §5).
const PositionHintTTL = 2000 * time.Millisecond

// RefocusStrategy selects the autoRefocus fallback policy (§6).
type RefocusStrategy string

const (
	RefocusClosest RefocusStrategy = "closest"
	RefocusFirst   RefocusStrategy = "first"
)

// PositionHint is the transient geometric fingerprint of §3, used to
// recover focus after the previously focused element is recycled.
type PositionHint struct {
	CenterX, CenterY float64
	Top, Left        float64
	ElementDesc      string
	Timestamp        time.Time
	valid            bool
}

// Move records one accepted directional move (lastMove, §3).
type Move struct {
	From, To  int
	Direction scorer.Direction
	PassIndex int
	Timestamp time.Time
}

// FocusApplier abstracts the platform focus call so tests can simulate
// FocusApplicationFailure (§7) without a real DOM.
type FocusApplier interface {
	// Apply attempts to focus el and reports success. preventScroll
	// mirrors the DOM preventScroll option; Machine calls Apply once
	// with it set and, on failure, once more without it (§4.6).
	Apply(el *domtree.Element, preventScroll bool) bool
}

// Clock abstracts time.Now so tests can control position-hint aging
// deterministically.
type Clock func() time.Time

// Machine is C6, holding the transient state the spec assigns to the
// global navigation state singleton that isn't already owned by
// registry (§3).
type Machine struct {
	Reg       *registry.Registry
	Scorer    *scorer.Scorer
	Applier   FocusApplier
	Now       Clock

	AutoRefocus     bool
	RefocusStrategy RefocusStrategy

	ViewportW, ViewportH float64

	hint            *PositionHint
	lastOverlayDesc string
	lastMove        *Move
	lastBoundary    string
	overlaySuppressed bool

	onBoundary func(domtree.ExitEvent)
}

// New returns a Machine wired to reg and sc, applying focus via applier.
func New(reg *registry.Registry, sc *scorer.Scorer, applier FocusApplier) *Machine {
	return &Machine{
		Reg:             reg,
		Scorer:          sc,
		Applier:         applier,
		Now:             time.Now,
		RefocusStrategy: RefocusFirst,
	}
}

// OnBoundary registers the callback invoked when a move fails with no
// candidate (the only reportable "error" per §7).
func (m *Machine) OnBoundary(cb func(domtree.ExitEvent)) { m.onBoundary = cb }

// LastMove returns the last accepted move, or nil.
func (m *Machine) LastMove() *Move { return m.lastMove }

// LastBoundary returns the direction name of the last boundary event, or "".
func (m *Machine) LastBoundary() string { return m.lastBoundary }

// OverlaySuppressed reports whether the overlay is currently suppressed
// following a boundary (§4.6, §4.7).
func (m *Machine) OverlaySuppressed() bool { return m.overlaySuppressed }

// SetLastOverlayDescriptor records the descriptor C7 last showed an
// overlay for, consulted by step 3 of ensureValidFocus (§4.6).
func (m *Machine) SetLastOverlayDescriptor(desc string) { m.lastOverlayDesc = desc }

// now returns the current time via the configured clock, defaulting to
// time.Now.
func (m *Machine) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// EnsureValidFocus implements the six-step resolution order of §4.6.
// It returns true if a valid focus exists afterward.
func (m *Machine) EnsureValidFocus() bool {
	// Step 1: active element is one of ours.
	if active := m.Reg.Doc.ActiveElement(); active != nil {
		if entry := m.Reg.EntryFor(active); entry != nil {
			m.Reg.SetCurrentIndex(entry.Index)
			return true
		}
	}

	// Step 2: lastFocusedElement still attached and registered.
	if lf := m.Reg.LastFocusedElement(); lf != nil {
		top := lf.Node()
		for top.Parent != nil {
			top = top.Parent
		}
		if entry := m.Reg.EntryFor(lf); entry != nil && top == m.Reg.Doc.Root.Node() {
			return m.applyFocus(entry)
		}
	}

	// Step 3: last overlay descriptor still uniquely resolves.
	if m.lastOverlayDesc != "" {
		if entry := m.resolveByDescriptor(m.lastOverlayDesc); entry != nil {
			return m.applyFocus(entry)
		}
	}

	// Step 4: position hint, if fresh.
	if m.hint != nil && m.hint.valid {
		if m.now().Sub(m.hint.Timestamp) <= PositionHintTTL {
			if entry := m.closestToHint(m.hint); entry != nil {
				ok := m.applyFocus(entry)
				m.hint = nil
				return ok
			}
		}
	}

	// Step 5: autoRefocus fallback.
	if m.AutoRefocus {
		if entry := m.autoRefocusCandidate(); entry != nil {
			return m.applyFocus(entry)
		}
	}

	// Step 6: give up without focusing (NoValidFocus, §7).
	return false
}

func (m *Machine) resolveByDescriptor(desc string) *registry.Entry {
	var match *registry.Entry
	count := 0
	for _, e := range m.Reg.Entries() {
		if Describe(e.Element) == desc {
			match = e
			count++
		}
	}
	if count == 1 {
		return match
	}
	return nil
}

func (m *Machine) closestToHint(h *PositionHint) *registry.Entry {
	var best *registry.Entry
	bestDist := math.MaxFloat64
	for _, e := range m.Reg.Entries() {
		dx := e.Rect.CenterX() - h.CenterX
		dy := e.Rect.CenterY() - h.CenterY
		d := math.Hypot(dx, dy)
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

func (m *Machine) autoRefocusCandidate() *registry.Entry {
	entries := m.Reg.Entries()
	if len(entries) == 0 {
		return nil
	}
	if m.RefocusStrategy == RefocusClosest {
		cx, cy := m.ViewportW/2, m.ViewportH/2
		var best *registry.Entry
		bestDist := math.MaxFloat64
		for _, e := range entries {
			d := math.Hypot(e.Rect.CenterX()-cx, e.Rect.CenterY()-cy)
			if d < bestDist {
				bestDist = d
				best = e
			}
		}
		return best
	}
	for _, e := range entries {
		if m.Reg.Doc.IsVisible(e.Element, 0) {
			return e
		}
	}
	return nil
}

// applyFocus applies focus to entry via the FocusApplier, retrying
// without preventScroll on failure (§4.6 FocusApplicationFailure, §7).
// On final failure, state is left unchanged and the failure is logged.
func (m *Machine) applyFocus(entry *registry.Entry) bool {
	if entry == nil {
		return false
	}
	if m.Applier != nil {
		if !m.Applier.Apply(entry.Element, true) {
			if !m.Applier.Apply(entry.Element, false) {
				errutil.Log(focusApplicationError{entry.Element})
				return false
			}
		}
	}
	m.Reg.SetCurrentIndex(entry.Index)
	m.Reg.Doc.SetActiveElement(entry.Element)
	m.Reg.SetLastFocusedElement(entry.Element)
	return true
}

type focusApplicationError struct{ el *domtree.Element }

func (e focusApplicationError) Error() string {
	return "focus application failed for " + Describe(e.el)
}

// storePositionHint captures the current entry's geometry, per §4.6.
func (m *Machine) storePositionHint() {
	idx := m.Reg.CurrentIndex()
	entry := m.Reg.EntryAt(idx)
	if entry == nil {
		return
	}
	m.hint = &PositionHint{
		CenterX:     entry.Rect.CenterX(),
		CenterY:     entry.Rect.CenterY(),
		Top:         entry.Rect.Top,
		Left:        entry.Rect.Left,
		ElementDesc: Describe(entry.Element),
		Timestamp:   m.now(),
		valid:       true,
	}
}

// MoveInDirection implements §4.6's moveInDirection: ensure validity,
// store a position hint, invoke the scorer, and on success apply focus
// and record bookkeeping; on failure, emit a boundary event.
func (m *Machine) MoveInDirection(dir scorer.Direction) bool {
	if !m.EnsureValidFocus() {
		return false
	}
	m.storePositionHint()

	from := m.Reg.CurrentIndex()
	cand := m.Scorer.FindDirectional(from, dir)
	if cand == nil {
		if cur := m.Reg.EntryAt(from); cur != nil && cur.GroupID != "" {
			if g := m.Reg.Groups().Get(cur.GroupID); g != nil && g.ShouldWrap() {
				cand = m.Scorer.FindGroupWrap(cur, dir)
			}
		}
	}
	if cand == nil {
		m.lastBoundary = dir.Name
		m.overlaySuppressed = true
		m.Reg.Doc.DispatchExit(domtree.ExitEvent{Direction: dir.Name})
		if m.onBoundary != nil {
			m.onBoundary(domtree.ExitEvent{Direction: dir.Name})
		}
		return false
	}

	ok := m.applyFocus(cand.Entry)
	if !ok {
		return false
	}
	m.overlaySuppressed = false
	if cand.Entry.GroupID != "" {
		if g := m.Reg.Groups().Get(cand.Entry.GroupID); g != nil {
			g.UpdateLastFocused(cand.Entry.Element)
		}
	}
	m.lastMove = &Move{From: from, To: cand.Index, Direction: dir, PassIndex: cand.PassIndex, Timestamp: m.now()}
	return true
}

// Describe builds a short stable descriptor for an element (tag name
// plus "#id" when present), used for lastOverlay resolution (step 3),
// the position hint's ElementDesc, and focus-failure log messages.
func Describe(el *domtree.Element) string {
	if el == nil {
		return ""
	}
	desc := el.TagName()
	if id := el.ID(); id != "" {
		desc += "#" + id
	}
	return desc
}
