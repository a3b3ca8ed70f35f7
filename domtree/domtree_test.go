// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
)

func TestParseHTMLStringWalksChildren(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><div id="a"><button id="b">hi</button></div></body></html>`)
	require.NoError(t, err)

	body := doc.Body()
	require.NotNil(t, body)

	div := body.Children()[0]
	assert.Equal(t, "a", div.ID())
	assert.Equal(t, "div", div.TagName())

	btn := div.Children()[0]
	assert.Equal(t, "b", btn.ID())
	assert.Equal(t, "button", btn.Parent().Children()[0].TagName())
}

func TestSetAttrRecordsMutation(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><button id="b"></button></body></html>`)
	require.NoError(t, err)
	btn := doc.Body().Children()[0]

	btn.SetAttr("disabled", "true")
	records := doc.DrainMutations()
	require.Len(t, records, 1)
	assert.Equal(t, Attributes, records[0].Type)
	assert.Equal(t, "disabled", records[0].AttributeName)
	assert.True(t, records[0].Target.Equal(btn))

	// draining clears the buffer.
	assert.Empty(t, doc.DrainMutations())
}

func TestAppendChildAndRemoveRecordChildList(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	require.NotNil(t, body)

	child := doc.ElementFor(&html.Node{Type: html.ElementNode, Data: "span"})
	body.AppendChild(child)
	records := doc.DrainMutations()
	require.Len(t, records, 1)
	assert.Equal(t, ChildList, records[0].Type)

	child.Remove()
	records = doc.DrainMutations()
	require.Len(t, records, 1)
	assert.Equal(t, ChildList, records[0].Type)
	assert.Nil(t, child.Parent())
}

func TestRectFuncOverridesStaticRect(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	doc.SetRect(body, geom.Rect{Left: 1, Top: 1, Right: 2, Bottom: 2})

	r, ok := doc.Rect(body)
	require.True(t, ok)
	assert.Equal(t, 1.0, r.Left)

	doc.SetRectFunc(func(e *Element) (geom.Rect, bool) {
		return geom.Rect{Left: 9, Top: 9, Right: 10, Bottom: 10}, true
	})
	r, ok = doc.Rect(body)
	require.True(t, ok)
	assert.Equal(t, 9.0, r.Left)
}

func TestListenDispatchesExitEvent(t *testing.T) {
	doc := NewDocument()
	var got *ExitEvent
	doc.Listen(func(ev ExitEvent) { got = &ev })

	doc.DispatchExit(ExitEvent{Direction: "left"})
	require.NotNil(t, got)
	assert.Equal(t, "left", got.Direction)
}

func TestActiveElement(t *testing.T) {
	doc := NewDocument()
	assert.Nil(t, doc.ActiveElement())
	body := doc.Body()
	doc.SetActiveElement(body)
	assert.True(t, doc.ActiveElement().Equal(body))
}
