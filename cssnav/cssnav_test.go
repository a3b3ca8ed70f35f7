// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cssnav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
)

func TestApplyInlineStyleResolvesCustomProperties(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="panel" style="--spatial-navigation-contain: contain;"><button id="b"></button></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	ApplyInlineStyle(doc, div)

	r := NewReader(doc)
	assert.Equal(t, "contain", r.Contain(div))
}

func TestApplyStylesheetMatchesSelectorsAndMergesDeclarations(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div class="grid"><button id="b"></button></div></body></html>`)
	require.NoError(t, err)
	ApplyStylesheet(doc, doc.Root, `.grid { --spatial-navigation-function: grid; display: block; }`)

	div := doc.Body().Children()[0]
	r := NewReader(doc)
	assert.Equal(t, Grid, r.EffectiveScoringMode(div))
	assert.Equal(t, "block", doc.Style(div).Display)
}

func TestPropertyFallsBackToDefaultWhenCSSDisabled(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="panel" style="--spatial-navigation-contain: contain;"></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	ApplyInlineStyle(doc, div)

	r := NewReader(doc)
	r.UseCSSProperties = false
	assert.Equal(t, DefaultContain, r.Contain(div))
}

func TestNavigationContainerWalksAncestors(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="outer" style="--spatial-navigation-contain: contain;"><div id="inner"><button id="b"></button></div></div></body></html>`)
	require.NoError(t, err)
	outer := doc.Body().Children()[0]
	inner := outer.Children()[0]
	btn := inner.Children()[0]
	ApplyInlineStyle(doc, outer)

	r := NewReader(doc)
	container := r.NavigationContainer(btn)
	require.NotNil(t, container)
	assert.True(t, container.Equal(outer))
}

func TestConfigScoringModeOverridesCSSFunction(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="panel" style="--spatial-navigation-function: grid;"></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	ApplyInlineStyle(doc, div)

	r := NewReader(doc)
	r.ConfigScoringMode = Geometric
	assert.Equal(t, Geometric, r.EffectiveScoringMode(div))
}

func TestEffectiveScoringModePrefersGridFromScrollSnapHint(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="carousel" style="scroll-snap-type: x mandatory;"></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	ApplyInlineStyle(doc, div)

	r := NewReader(doc)
	assert.True(t, r.PrefersGrid(div))
	assert.Equal(t, Grid, r.EffectiveScoringMode(div), "a scroll-snap container with no explicit function or config override should bias toward grid mode")
}

func TestEffectiveScoringModeExplicitFunctionBeatsScrollSnapHint(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><div id="carousel" style="scroll-snap-type: x mandatory; --spatial-navigation-function: geometric;"></div></body></html>`)
	require.NoError(t, err)
	div := doc.Body().Children()[0]
	ApplyInlineStyle(doc, div)

	r := NewReader(doc)
	assert.Equal(t, Geometric, r.EffectiveScoringMode(div), "an explicit --spatial-navigation-function must still win over the scroll-snap hint")
}

func TestSelectReturnsMatchingElements(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><ul><li id="a"></li><li id="b"></li></ul></body></html>`)
	require.NoError(t, err)

	matches, err := Select(doc, doc.Root, "li")
	require.NoError(t, err)
	require.Len(t, matches, 2)
}
