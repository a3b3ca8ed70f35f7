// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overlay implements C7, the preview/overlay scheduler: after a
// successful move, it recomputes the per-direction next targets and
// hands them to a UI observer, coalescing updates the way a browser's
// requestAnimationFrame would (spec.md §4.7).
package overlay

import (
	"time"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

// NoTargetDecay is the §5 timing default for how long a direction stays
// marked "disabled" after being found to have no candidate.
const NoTargetDecay = 320 * time.Millisecond

// Targets maps each of the four directions to the scorer's result from
// the current entry, or nil when that direction has no candidate.
type Targets map[string]*scorer.Candidate

// Observer is the UI collaborator spec.md §4.7 hands
// (target, perDirectionCandidates) to. DOM/visual rendering is out of
// scope; this is the full observer contract the core exposes.
type Observer interface {
	ShowOverlay(current *registry.Entry, targets Targets)
	HideOverlay()
	MarkDirectionDisabled(direction string)
	ClearDirectionDisabled(direction string)
}

// FrameScheduler abstracts requestAnimationFrame-style single-callback
// coalescing. DefaultScheduler below implements it with a time.Timer;
// hosts embedding a real render loop can substitute their own.
type FrameScheduler interface {
	// Schedule arranges for cb to run once, replacing/cancelling any
	// previously scheduled callback on this scheduler.
	Schedule(cb func())
	// Cancel cancels any pending callback.
	Cancel()
}

// DefaultScheduler runs callbacks on a short timer, approximating one
// animation frame at 60Hz.
type DefaultScheduler struct {
	Interval time.Duration
	timer    *time.Timer
}

// NewDefaultScheduler returns a scheduler with a ~16ms frame interval.
func NewDefaultScheduler() *DefaultScheduler {
	return &DefaultScheduler{Interval: 16 * time.Millisecond}
}

func (s *DefaultScheduler) Schedule(cb func()) {
	s.Cancel()
	s.timer = time.AfterFunc(s.Interval, cb)
}

func (s *DefaultScheduler) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Hooks is C7: it recomputes next-direction targets on every successful
// move and coalesces the observer notification onto a single pending
// frame callback, matching the "rate limiting" paragraph of §4.7.
type Hooks struct {
	Scorer    *scorer.Scorer
	Observer  Observer
	Scheduler FrameScheduler

	suppressed bool

	decayTimers map[string]*time.Timer
}

// New returns Hooks wired to sc, notifying obs, coalescing on sched.
func New(sc *scorer.Scorer, obs Observer, sched FrameScheduler) *Hooks {
	if sched == nil {
		sched = NewDefaultScheduler()
	}
	return &Hooks{Scorer: sc, Observer: obs, Scheduler: sched, decayTimers: map[string]*time.Timer{}}
}

// SetSuppressed toggles overlaySuppressed; SetSuppressed(true) cancels
// any pending frame, and while suppressed Recompute returns without
// scheduling a new one (§4.7, §5).
func (h *Hooks) SetSuppressed(v bool) {
	h.suppressed = v
	if v {
		h.Scheduler.Cancel()
	}
}

// Recompute evaluates all four directions from currentIndex and
// schedules a single coalesced observer notification, per §4.7. A
// newer call silently replaces any still-pending one.
func (h *Hooks) Recompute(reg *registry.Registry, currentIndex int) {
	if h.suppressed {
		return
	}
	cur := reg.EntryAt(currentIndex)
	if cur == nil {
		h.Scheduler.Cancel()
		return
	}

	targets := Targets{}
	for _, dir := range []scorer.Direction{scorer.Up, scorer.Down, scorer.Left, scorer.Right} {
		targets[dir.Name] = h.Scorer.FindDirectional(currentIndex, dir)
	}

	h.Scheduler.Schedule(func() {
		if h.suppressed {
			return
		}
		if h.Observer == nil {
			return
		}
		h.Observer.ShowOverlay(cur, targets)
		for name, cand := range targets {
			if cand == nil {
				h.announceDeadDirection(name)
			} else {
				h.Observer.ClearDirectionDisabled(name)
			}
		}
	})
}

// announceDeadDirection marks a direction disabled and schedules its
// automatic clear after NoTargetDecay, per §4.7/§5.
func (h *Hooks) announceDeadDirection(direction string) {
	h.Observer.MarkDirectionDisabled(direction)
	if t, ok := h.decayTimers[direction]; ok {
		t.Stop()
	}
	h.decayTimers[direction] = time.AfterFunc(NoTargetDecay, func() {
		if h.Observer != nil {
			h.Observer.ClearDirectionDisabled(direction)
		}
	})
}

// Hide tells the observer to hide the overlay entirely, cancels any
// pending frame, and resets each direction's disabled decay (used on
// boundary, §4.6: "reset each direction's preview container class to
// its base").
func (h *Hooks) Hide() {
	h.Scheduler.Cancel()
	for dir, t := range h.decayTimers {
		t.Stop()
		delete(h.decayTimers, dir)
		if h.Observer != nil {
			h.Observer.ClearDirectionDisabled(dir)
		}
	}
	if h.Observer != nil {
		h.Observer.HideOverlay()
	}
}
