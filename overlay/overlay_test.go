// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlay

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

// syncScheduler runs callbacks immediately, so overlay tests don't need
// to wait out DefaultScheduler's timer.
type syncScheduler struct{ cancelled bool }

func (s *syncScheduler) Schedule(cb func()) { cb() }
func (s *syncScheduler) Cancel()            { s.cancelled = true }

type recordingObserver struct {
	shown     bool
	hidden    bool
	disabled  map[string]bool
	lastTargets Targets
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{disabled: map[string]bool{}}
}

func (o *recordingObserver) ShowOverlay(current *registry.Entry, targets Targets) {
	o.shown = true
	o.lastTargets = targets
}
func (o *recordingObserver) HideOverlay() { o.hidden = true }
func (o *recordingObserver) MarkDirectionDisabled(direction string) { o.disabled[direction] = true }
func (o *recordingObserver) ClearDirectionDisabled(direction string) { o.disabled[direction] = false }

func buildLine(t *testing.T, n int) *registry.Registry {
	t.Helper()
	doc := domtree.NewDocument()
	body := doc.Body()
	for i := 0; i < n; i++ {
		html := fmt.Sprintf(`<button id="b%d"></button>`, i)
		frag, err := domtree.ParseHTMLString("<html><body>" + html + "</body></html>")
		require.NoError(t, err)
		btn := frag.Body().Children()[0]
		btn.Remove()
		body.AppendChild(btn)
		doc.SetRect(btn, geom.Rect{Left: float64(i * 60), Top: 0, Right: float64(i*60 + 50), Bottom: 20})
	}
	doc.DrainMutations()
	reg := registry.New(doc, registry.Config{MinElementSize: 1})
	reg.FullRefresh()
	return reg
}

func TestRecomputeShowsCurrentTargetsAndMarksDeadDirections(t *testing.T) {
	reg := buildLine(t, 3)
	css := cssnav.NewReader(reg.Doc)
	opt := scorer.DefaultOptions()
	opt.Viewport = geom.Size{Width: 2000, Height: 2000}
	sc := scorer.New(reg, css, opt)

	obs := newRecordingObserver()
	sched := &syncScheduler{}
	h := New(sc, obs, sched)

	h.Recompute(reg, 1)
	require.True(t, obs.shown)
	require.NotNil(t, obs.lastTargets["right"])
	require.NotNil(t, obs.lastTargets["left"])
	assert.Nil(t, obs.lastTargets["up"])
	assert.True(t, obs.disabled["up"])
}

func TestSetSuppressedCancelsScheduler(t *testing.T) {
	reg := buildLine(t, 2)
	css := cssnav.NewReader(reg.Doc)
	sc := scorer.New(reg, css, scorer.DefaultOptions())

	sched := &syncScheduler{}
	h := New(sc, newRecordingObserver(), sched)

	h.SetSuppressed(true)
	assert.True(t, sched.cancelled)

	sched.cancelled = false
	h.Recompute(reg, 0)
	assert.False(t, sched.cancelled, "a suppressed Hooks should return from Recompute before touching the scheduler")
}

func TestHideResetsDisabledDirectionsAndHidesOverlay(t *testing.T) {
	reg := buildLine(t, 1)
	css := cssnav.NewReader(reg.Doc)
	sc := scorer.New(reg, css, scorer.DefaultOptions())

	obs := newRecordingObserver()
	h := New(sc, obs, &syncScheduler{})
	h.Recompute(reg, 0)
	require.True(t, obs.disabled["up"])

	h.Hide()
	assert.True(t, obs.hidden)
	assert.False(t, obs.disabled["up"])
}
