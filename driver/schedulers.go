// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import "time"

// ReactAdapter models a microtask-then-rAF scheduling hop for a
// React-like host, per §4.8/§9. Go has no microtask queue, so the
// "microtask" leg is a zero-delay timer and the "rAF" leg is a
// second short timer — the two-hop shape is what matters, not the
// exact primitive.
type ReactAdapter struct {
	// Detected, when set, is the detection result a host reports
	// (typically set once after probing for a framework fingerprint
	// the DOM-scaffolding layer supplies; spec.md places that
	// fingerprinting itself out of scope, §1).
	Detected bool
}

func (a *ReactAdapter) Detect() bool { return a.Detected }

func (a *ReactAdapter) ScheduleRefresh(cb func()) {
	time.AfterFunc(0, func() {
		time.AfterFunc(16*time.Millisecond, cb)
	})
}

// VueAdapter models a nextTick-then-timer scheduling hop.
type VueAdapter struct {
	Detected bool
}

func (a *VueAdapter) Detect() bool { return a.Detected }

func (a *VueAdapter) ScheduleRefresh(cb func()) {
	time.AfterFunc(0, func() {
		time.AfterFunc(4*time.Millisecond, cb)
	})
}

// AngularAdapter models a single stability-callback hop (the
// NgZone.onStable analogue).
type AngularAdapter struct {
	Detected     bool
	OnStableHook func(func())
}

func (a *AngularAdapter) Detect() bool { return a.Detected }

func (a *AngularAdapter) ScheduleRefresh(cb func()) {
	if a.OnStableHook != nil {
		a.OnStableHook(cb)
		return
	}
	time.AfterFunc(0, cb)
}

// SvelteAdapter models a single microtask hop.
type SvelteAdapter struct {
	Detected bool
}

func (a *SvelteAdapter) Detect() bool { return a.Detected }

func (a *SvelteAdapter) ScheduleRefresh(cb func()) { time.AfterFunc(0, cb) }
