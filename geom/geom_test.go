// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectDimensions(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 70}
	assert.Equal(t, 100.0, r.Width())
	assert.Equal(t, 50.0, r.Height())
	assert.Equal(t, 60.0, r.CenterX())
	assert.Equal(t, 45.0, r.CenterY())
}

func TestRectIsValid(t *testing.T) {
	assert.True(t, Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}.IsValid())
	assert.False(t, Rect{Left: 10, Top: 0, Right: 10, Bottom: 10}.IsValid())
	assert.False(t, Rect{Left: 0, Top: 10, Right: 10, Bottom: 10}.IsValid())
}

func TestRectMeetsMinSize(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}
	assert.True(t, r.MeetsMinSize(1))
	assert.False(t, r.MeetsMinSize(3))
}

func TestRectInViewport(t *testing.T) {
	vp := Rect{}
	_ = vp
	r := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	assert.True(t, r.InViewport(1920, 1080, 0))

	offscreen := Rect{Left: -100, Top: -100, Right: -50, Bottom: -50}
	assert.False(t, offscreen.InViewport(1920, 1080, 0))

	// within margin of the top-left edge should count as in viewport.
	nearEdge := Rect{Left: -30, Top: -30, Right: -10, Bottom: -10}
	assert.False(t, nearEdge.InViewport(1920, 1080, 0))
	assert.True(t, nearEdge.InViewport(1920, 1080, 50))

	belowViewport := Rect{Left: 0, Top: 2000, Right: 10, Bottom: 2010}
	assert.False(t, belowViewport.InViewport(1920, 1080, 0))
}
