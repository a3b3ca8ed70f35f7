// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
)

func TestIsVisibleHonorsDisplayAndVisibilityAndSize(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><button id="b"></button></body></html>`)
	require.NoError(t, err)
	btn := doc.Body().Children()[0]
	doc.SetRect(btn, geom.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10})

	assert.True(t, doc.IsVisible(btn, 1))

	doc.Style(btn).Display = "none"
	assert.False(t, doc.IsVisible(btn, 1))
	doc.Style(btn).Display = ""

	doc.Style(btn).VisibilityHidden = true
	assert.False(t, doc.IsVisible(btn, 1))
	doc.Style(btn).VisibilityHidden = false

	doc.SetRect(btn, geom.Rect{Left: 0, Top: 0, Right: 0.5, Bottom: 0.5})
	assert.False(t, doc.IsVisible(btn, 1))
}

func TestIsVisibleHonorsDisabledAndAriaHidden(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><div id="wrap" aria-hidden="true"><button id="b" disabled></button></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	btn := div.Children()[0]
	doc.SetRect(btn, geom.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10})

	assert.True(t, doc.IsDisabled(btn))
	assert.True(t, doc.IsAriaHidden(btn))
	assert.False(t, doc.IsVisible(btn, 1))
}

func TestScrollContainerKeyPrefersID(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><div id="scroller"><button id="b"></button></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	btn := div.Children()[0]

	doc.Style(div).OverflowY = "auto"
	assert.Equal(t, "#scroller", doc.ScrollContainerKey(btn))
}

func TestScrollContainerKeyEmptyWhenNoneScrollable(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><div><button id="b"></button></div></body></html>`)
	require.NoError(t, err)
	btn := doc.Body().Children()[0].Children()[0]
	assert.Equal(t, "", doc.ScrollContainerKey(btn))
}
