// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements C8, the mutation/intersection driver: it
// buffers DOM changes, debounces refreshes, and invalidates caches,
// optionally dispatching through a framework-aware scheduler (spec.md
// §4.8). The debounce-timer-over-a-watch-loop shape is grounded on the
// teacher's fsnotify-based directory watcher in core/filepicker.go,
// adapted from filesystem events to domtree mutation records since
// there is no literal filesystem backing a DOM.
package driver

import (
	"time"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
)

// MutationDebounce is the §5 default debounce window between mutation
// arrival and flush.
const MutationDebounce = 100 * time.Millisecond

// VirtualScrollDebounce is the §5 default debounce for virtual-list
// sentinel intersections.
const VirtualScrollDebounce = 150 * time.Millisecond

// watchedAttributes are the attribute names the mutation subscription
// cares about (§4.8).
var watchedAttributes = map[string]bool{
	"style": true, "class": true, "disabled": true, "hidden": true,
	"aria-hidden": true, "tabindex": true, "contenteditable": true,
}

// Scheduler is the capability set a framework-scheduling adapter
// implements (§9 "Polymorphism"): detect on first mutation flush,
// then hand off the actual refresh work for the rest of the process's
// life.
type Scheduler interface {
	Detect() bool
	ScheduleRefresh(callback func())
}

// Hooks lets the driver notify collaborators around a refresh without
// depending on statemachine/overlay directly, keeping C8 a leaf
// component per the spec's dependency shape (C8 feeds C4, which feeds
// C5/C6).
type Hooks struct {
	// StorePositionHint is called before any structural change is
	// reflected in the registry (§4.8 step 1).
	StorePositionHint func()
	// ReapplyOverlay is called after refresh to re-show the overlay on
	// the active element if still registered, or hide it otherwise
	// (§4.8 step 4).
	ReapplyOverlay func()
}

// Driver owns mutation buffering, debounce scheduling, and the single
// active framework adapter (spec.md §4.8, §9).
type Driver struct {
	Doc    *domtree.Document
	Reg    *registry.Registry
	Hooks  Hooks
	Debounce time.Duration

	// Schedulers are probed in order on the first flush; the first
	// whose Detect() returns true becomes the sole active adapter for
	// the rest of the process (§9).
	Schedulers []Scheduler
	active     Scheduler
	detected   bool

	buffer      []domtree.MutationRecord
	flushTimer  *time.Timer

	Dirty               bool
	PrecomputedTargets  bool
}

// New returns a Driver over doc/reg with the default debounce.
func New(doc *domtree.Document, reg *registry.Registry) *Driver {
	return &Driver{Doc: doc, Reg: reg, Debounce: MutationDebounce}
}

// Enqueue buffers a mutation record and (re)starts the debounce timer,
// per §4.8.
func (d *Driver) Enqueue(rec domtree.MutationRecord) {
	if rec.Type == domtree.Attributes && !watchedAttributes[rec.AttributeName] {
		return
	}
	d.buffer = append(d.buffer, rec)
	if d.flushTimer != nil {
		d.flushTimer.Stop()
	}
	d.flushTimer = time.AfterFunc(d.Debounce, d.Flush)
}

// Flush performs the five-step flush procedure of §4.8. It is safe to
// call directly (e.g. in tests, to avoid waiting out the debounce).
func (d *Driver) Flush() {
	batch := d.buffer
	d.buffer = nil
	if len(batch) == 0 {
		return
	}

	run := func() {
		// Step 1: capture the position hint before structural change.
		if d.Hooks.StorePositionHint != nil {
			d.Hooks.StorePositionHint()
		}

		// Step 2: invalidate precomputed targets.
		d.Dirty = true
		d.PrecomputedTargets = false

		// Step 3: a childList mutation anywhere in the batch forces a
		// full refresh and discards the incremental attribute path for
		// the rest of the batch, per the §9 open question.
		if hasChildList(batch) {
			d.Reg.FullRefresh()
		} else {
			d.Reg.IncrementalRefresh(toMutatedElements(batch))
		}

		d.Doc.NotifySubscribers(batch)

		// Step 4: reapply or hide the overlay.
		if d.Hooks.ReapplyOverlay != nil {
			d.Hooks.ReapplyOverlay()
		}
	}

	// Step 5: dispatch through a framework-aware scheduler if detected.
	if sched := d.schedulerFor(); sched != nil {
		sched.ScheduleRefresh(run)
		return
	}
	run()
}

// schedulerFor detects (once) and returns the active scheduler, or nil
// to run inline.
func (d *Driver) schedulerFor() Scheduler {
	if d.detected {
		return d.active
	}
	d.detected = true
	for _, s := range d.Schedulers {
		if s.Detect() {
			d.active = s
			break
		}
	}
	return d.active
}

func hasChildList(batch []domtree.MutationRecord) bool {
	for _, r := range batch {
		if r.Type == domtree.ChildList {
			return true
		}
	}
	return false
}

func toMutatedElements(batch []domtree.MutationRecord) []registry.MutatedElement {
	seen := map[*domtree.Element]bool{}
	out := make([]registry.MutatedElement, 0, len(batch))
	for _, r := range batch {
		if r.Target == nil || seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, registry.MutatedElement{Element: r.Target})
	}
	return out
}
