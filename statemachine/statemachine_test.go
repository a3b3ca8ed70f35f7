// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package statemachine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

type stubApplier struct{ fail bool }

func (s *stubApplier) Apply(el *domtree.Element, preventScroll bool) bool { return !s.fail }

func buildLine(t *testing.T, n int) (*domtree.Document, *registry.Registry) {
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
	return doc, reg
}

func newMachine(doc *domtree.Document, reg *registry.Registry) *Machine {
	css := cssnav.NewReader(doc)
	opt := scorer.DefaultOptions()
	opt.Viewport = geom.Size{Width: 2000, Height: 2000}
	sc := scorer.New(reg, css, opt)
	return New(reg, sc, &stubApplier{})
}

func TestEnsureValidFocusFallsBackToFirstWhenStale(t *testing.T) {
	doc, reg := buildLine(t, 2)
	m := newMachine(doc, reg)
	m.AutoRefocus = true
	m.RefocusStrategy = RefocusFirst

	ok := m.EnsureValidFocus()
	require.True(t, ok)
	assert.Equal(t, 0, reg.CurrentIndex())
}

func TestPositionHintStaleIsIgnored(t *testing.T) {
	doc, reg := buildLine(t, 2)
	m := newMachine(doc, reg)
	m.AutoRefocus = true

	clockTime := time.Now()
	m.Now = func() time.Time { return clockTime }

	reg.SetCurrentIndex(1)
	doc.SetActiveElement(reg.EntryAt(1).Element)
	reg.SetLastFocusedElement(reg.EntryAt(1).Element)
	m.storePositionHint()

	// detach the last-focused element and advance the clock past the TTL.
	reg.EntryAt(1).Element.Remove()
	doc.SetActiveElement(nil)
	reg.SetLastFocusedElement(nil)
	clockTime = clockTime.Add(PositionHintTTL + time.Second)

	ok := m.EnsureValidFocus()
	require.True(t, ok)
	assert.Equal(t, 0, reg.CurrentIndex(), "a stale hint must fall through to the first-visible strategy")
}

func TestPositionHintFreshResolvesClosestEntry(t *testing.T) {
	doc := domtree.NewDocument()
	body := doc.Body()
	rects := []geom.Rect{
		{Left: 100, Top: 100, Right: 200, Bottom: 150},
		{Left: 100, Top: 180, Right: 200, Bottom: 230},
		{Left: 100, Top: 260, Right: 200, Bottom: 310},
	}
	for i, r := range rects {
		html := fmt.Sprintf(`<button id="b%d"></button>`, i)
		frag, err := domtree.ParseHTMLString("<html><body>" + html + "</body></html>")
		require.NoError(t, err)
		btn := frag.Body().Children()[0]
		btn.Remove()
		body.AppendChild(btn)
		doc.SetRect(btn, r)
	}
	doc.DrainMutations()
	reg := registry.New(doc, registry.Config{MinElementSize: 1})
	reg.FullRefresh()

	m := newMachine(doc, reg)
	clockTime := time.Now()
	m.Now = func() time.Time { return clockTime }
	m.hint = &PositionHint{CenterX: 155, CenterY: 220, Timestamp: clockTime, valid: true}

	ok := m.EnsureValidFocus()
	require.True(t, ok)
	assert.Equal(t, 1, reg.CurrentIndex(), "the middle rect is closest to the (155, 220) hint")
	assert.Nil(t, m.hint, "a consumed hint must be cleared")
}

func TestMoveInDirectionBoundaryOnSingleElement(t *testing.T) {
	doc, reg := buildLine(t, 1)
	m := newMachine(doc, reg)

	reg.SetCurrentIndex(0)
	doc.SetActiveElement(reg.EntryAt(0).Element)

	var boundaryEvents []domtree.ExitEvent
	m.OnBoundary(func(ev domtree.ExitEvent) { boundaryEvents = append(boundaryEvents, ev) })

	ok := m.MoveInDirection(scorer.Right)
	assert.False(t, ok)
	assert.True(t, m.OverlaySuppressed())
	assert.Equal(t, "right", m.LastBoundary())
	require.Len(t, boundaryEvents, 1)
	assert.Equal(t, "right", boundaryEvents[0].Direction)
}

func TestMoveInDirectionRoundTripReturnsToOrigin(t *testing.T) {
	doc, reg := buildLine(t, 4)
	m := newMachine(doc, reg)

	reg.SetCurrentIndex(1)
	doc.SetActiveElement(reg.EntryAt(1).Element)
	reg.SetLastFocusedElement(reg.EntryAt(1).Element)

	ok := m.MoveInDirection(scorer.Right)
	require.True(t, ok)
	assert.Equal(t, 2, reg.CurrentIndex())

	ok = m.MoveInDirection(scorer.Left)
	require.True(t, ok)
	assert.Equal(t, 1, reg.CurrentIndex())
}

func TestFocusApplicationFailureLeavesStateUnchanged(t *testing.T) {
	doc, reg := buildLine(t, 2)
	css := cssnav.NewReader(doc)
	opt := scorer.DefaultOptions()
	opt.Viewport = geom.Size{Width: 2000, Height: 2000}
	sc := scorer.New(reg, css, opt)
	m := New(reg, sc, &stubApplier{fail: true})

	reg.SetCurrentIndex(0)
	doc.SetActiveElement(reg.EntryAt(0).Element)
	reg.SetLastFocusedElement(reg.EntryAt(0).Element)

	ok := m.MoveInDirection(scorer.Right)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.CurrentIndex())
}
