// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import "time"

// IntersectionRootMargin is the §5 default rootMargin for virtual-list
// sentinel observation.
const IntersectionRootMargin = 200.0

// IntersectionObserver abstracts the platform's IntersectionObserver so
// the driver's virtual-list handling is testable without a real
// viewport. A host implementation calls VirtualListWatcher.Notify
// whenever one of the observed elements crosses the configured
// rootMargin.
type IntersectionObserver interface {
	Observe(el any)
	Disconnect()
}

// VirtualListWatcher debounces sentinel intersections into a single
// full refresh, per §4.4: "On any intersection, debounce
// (virtualScrollDebounce) then trigger a full refresh and mark dirty."
type VirtualListWatcher struct {
	Debounce time.Duration
	OnDirty  func()

	timer *time.Timer
}

// NewVirtualListWatcher returns a watcher with the §5 default debounce.
func NewVirtualListWatcher(onDirty func()) *VirtualListWatcher {
	return &VirtualListWatcher{Debounce: VirtualScrollDebounce, OnDirty: onDirty}
}

// Notify is called by the host's IntersectionObserver callback whenever
// a sentinel's intersection state changes.
func (w *VirtualListWatcher) Notify() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		if w.OnDirty != nil {
			w.OnDirty()
		}
	})
}

// Stop cancels any pending debounce timer.
func (w *VirtualListWatcher) Stop() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
