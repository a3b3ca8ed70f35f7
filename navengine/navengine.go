// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navengine

import (
	"sync"
	"time"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/driver"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/nativebridge"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/overlay"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/statemachine"
)

// SlowRefreshWarning is the §5 threshold above which a full refresh logs
// a warning instead of passing silently.
const SlowRefreshWarning = 50 * time.Millisecond

// NoopApplier is the default FocusApplier: the platform focus call
// itself is out of scope (spec.md Non-goals), so it only reports
// success, leaving Machine free to update its own bookkeeping.
type NoopApplier struct{}

func (NoopApplier) Apply(el *domtree.Element, preventScroll bool) bool { return true }

// Engine is the process-scope handle the host embeds: one per document,
// wiring C1 through C8 behind the operations of spec.md §1. It mirrors
// the teacher's system.TheApp singleton convention, keyed here on the
// single active *Engine instance rather than a platform-global object.
type Engine struct {
	Config Config

	Doc      *domtree.Document
	CSS      *cssnav.Reader
	Registry *registry.Registry
	Scorer   *scorer.Scorer
	Machine  *statemachine.Machine
	Overlay  *overlay.Hooks
	Driver   *driver.Driver
	Bridge   *nativebridge.Bridge

	mu sync.Mutex
}

var (
	currentMu sync.Mutex
	current   *Engine
)

// New constructs an Engine over doc with cfg, wiring every component and
// performing the initial full refresh (spec.md §4.4's "first build").
// It also installs itself as the process-scope singleton returned by
// Get.
func New(doc *domtree.Document, cfg Config) *Engine {
	css := &cssnav.Reader{
		Doc:               doc,
		UseCSSProperties:  cfg.UseCSSProperties.Or(true),
		ConfigScoringMode: cfg.ScoringMode,
	}

	reg := registry.New(doc, registry.Config{
		MinElementSize:            cfg.MinElementSize,
		IframeSupport:             cfg.IframeSupport,
		TraverseShadowDom:         cfg.TraverseShadowDom,
		ObserveVirtualContainers:  cfg.ObserveVirtualContainers,
		VirtualContainerSelectors: cfg.VirtualContainerSelectors,
	})

	scOpt := scorer.DefaultOptions()
	scOpt.ScoringMode = cfg.ScoringMode
	scOpt.DistanceFunction = cfg.DistanceFunction
	scOpt.OverlapThreshold = cfg.OverlapThreshold
	scOpt.GridAlignmentTolerance = cfg.GridAlignmentTolerance
	scOpt.WrapNavigation = cfg.WrapNavigation.Or(false)
	scOpt.Viewport = cfg.Viewport
	sc := scorer.New(reg, css, scOpt)

	machine := statemachine.New(reg, sc, NoopApplier{})
	machine.AutoRefocus = cfg.AutoRefocus.Or(false)
	if cfg.RefocusStrategy == string(statemachine.RefocusClosest) {
		machine.RefocusStrategy = statemachine.RefocusClosest
	}
	machine.ViewportW, machine.ViewportH = cfg.Viewport.Width, cfg.Viewport.Height

	bridge := nativebridge.New(doc)

	e := &Engine{
		Config:   cfg,
		Doc:      doc,
		CSS:      css,
		Registry: reg,
		Scorer:   sc,
		Machine:  machine,
		Bridge:   bridge,
	}

	e.Overlay = overlay.New(sc, nil, nil)

	drv := driver.New(doc, reg)
	drv.Debounce = cfg.MutationDebounce
	drv.Schedulers = nil
	drv.Hooks = driver.Hooks{
		StorePositionHint: func() {},
		ReapplyOverlay: func() {
			if reg.CurrentIndex() >= 0 {
				e.Overlay.Recompute(reg, reg.CurrentIndex())
			} else {
				e.Overlay.Hide()
			}
		},
	}
	e.Driver = drv

	machine.OnBoundary(func(ev domtree.ExitEvent) {
		e.Overlay.Hide()
		e.Bridge.EmitFocusExit(ev)
	})

	e.refresh()

	currentMu.Lock()
	current = e
	currentMu.Unlock()

	return e
}

// Get returns the process-scope engine installed by the most recent call
// to New, or nil if none is active.
func Get() *Engine {
	currentMu.Lock()
	defer currentMu.Unlock()
	return current
}

// Reset tears down the process-scope singleton, if any. A new call to
// New is required before Get returns non-nil again.
func Reset() {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil {
		current.Driver.Flush()
	}
	current = nil
}

// SetObserver installs the overlay UI collaborator (spec.md §4.7).
func (e *Engine) SetObserver(obs overlay.Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Overlay.Observer = obs
}

func (e *Engine) refresh() {
	start := time.Now()
	e.Registry.FullRefresh()
	if elapsed := time.Since(start); elapsed > SlowRefreshWarning {
		errutil.Warn("full refresh", slowRefreshError{elapsed})
	}
	e.Machine.EnsureValidFocus()
}

// Refresh forces an immediate full rescan, bypassing the mutation
// driver's debounce. Hosts call this after bulk DOM surgery they know
// the mutation observer can't see (e.g. a framework that replaces nodes
// without going through the platform's normal mutation path).
func (e *Engine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refresh()
	if e.Registry.CurrentIndex() >= 0 {
		e.Overlay.Recompute(e.Registry, e.Registry.CurrentIndex())
	}
}

// MoveInDirection drives one directional move by key name ("up", "down",
// "left", "right"), the engine's single most important operation
// (spec.md §4.6). It returns false both for an unrecognized direction
// name and for a boundary (no candidate found).
func (e *Engine) MoveInDirection(name string) bool {
	dir, ok := scorer.DirectionByName(name)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.Registry.EntryAt(e.Registry.CurrentIndex())
	ok = e.Machine.MoveInDirection(dir)
	if !ok {
		return false
	}

	to := e.Registry.EntryAt(e.Registry.CurrentIndex())
	var fromEl, toEl *domtree.Element
	if from != nil {
		fromEl = from.Element
	}
	if to != nil {
		toEl = to.Element
	}
	passIndex := -1
	if mv := e.Machine.LastMove(); mv != nil {
		passIndex = mv.PassIndex
	}
	e.Bridge.EmitFocusChange(fromEl, toEl, passIndex)
	e.Machine.SetLastOverlayDescriptor(statemachine.Describe(toEl))
	e.Overlay.Recompute(e.Registry, e.Registry.CurrentIndex())
	return true
}

// EnqueueMutation feeds one observed DOM mutation into the driver's
// debounce buffer (spec.md §4.8). Hosts call this from their platform's
// MutationObserver-equivalent callback.
func (e *Engine) EnqueueMutation(rec domtree.MutationRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Driver.Enqueue(rec)
}

type slowRefreshError struct{ elapsed time.Duration }

func (s slowRefreshError) Error() string { return "full refresh exceeded " + SlowRefreshWarning.String() }
