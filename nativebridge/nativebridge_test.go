// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nativebridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
)

type recordingTransport struct {
	messages []Message
	closed   bool
}

func (r *recordingTransport) WriteJSON(v any) error {
	r.messages = append(r.messages, v.(Message))
	return nil
}
func (r *recordingTransport) Close() error { r.closed = true; return nil }

func TestEmitFocusExitWithoutTransportUsesLegacySignal(t *testing.T) {
	doc := domtree.NewDocument()
	var signal string
	var dispatched *domtree.ExitEvent
	doc.Listen(func(ev domtree.ExitEvent) { dispatched = &ev })

	b := New(doc)
	b.LegacySignal = func(s string) { signal = s }

	b.EmitFocusExit(domtree.ExitEvent{Direction: "down"})
	assert.Equal(t, "__FOCUS_EXIT__:down", signal)
	require.NotNil(t, dispatched)
	assert.Equal(t, "down", dispatched.Direction)
}

func TestEmitFocusExitWithTransportSendsMessage(t *testing.T) {
	doc := domtree.NewDocument()
	tr := &recordingTransport{}
	b := &Bridge{Transport: tr, Doc: doc, Now: func() time.Time { return time.Unix(0, 0) }}

	b.EmitFocusExit(domtree.ExitEvent{Direction: "up", InTrap: true, TrapID: "modal"})
	require.Len(t, tr.messages, 1)
	msg := tr.messages[0]
	assert.Equal(t, FocusExit, msg.Type)
	assert.Equal(t, ProtocolVersion, msg.Version)
	payload, ok := msg.Payload.(ExitPayload)
	require.True(t, ok)
	assert.Equal(t, "up", payload.Direction.Name)
	assert.True(t, payload.InTrap)
	assert.Equal(t, "modal", payload.TrapID)
}

func TestEmitFocusChangeNoopWithoutTransport(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><button id="a"></button></body></html>`)
	require.NoError(t, err)
	a := doc.Body().Children()[0]

	b := New(doc)
	b.EmitFocusChange(a, a, 0) // must not panic with nil Transport
}

func TestEmitFocusChangeDescribesElements(t *testing.T) {
	doc, err := domtree.ParseHTMLString(`<html><body><button id="a" class="x" aria-label="Alpha">hello world</button><button id="b"></button></body></html>`)
	require.NoError(t, err)
	a := doc.Body().Children()[0]
	b := doc.Body().Children()[1]
	doc.SetRect(a, geom.Rect{Left: 1, Top: 2, Right: 4, Bottom: 6})

	tr := &recordingTransport{}
	bridge := &Bridge{Transport: tr, Doc: doc, Now: func() time.Time { return time.Unix(0, 0) }}
	bridge.EmitFocusChange(a, b, 1)

	require.Len(t, tr.messages, 1)
	payload, ok := tr.messages[0].Payload.(ChangePayload)
	require.True(t, ok)
	assert.Equal(t, "button", payload.From.TagName)
	assert.Equal(t, "a", payload.From.ID)
	assert.Equal(t, "x", payload.From.ClassName)
	assert.Equal(t, "Alpha", payload.From.AriaLabel)
	assert.Equal(t, "hello world", payload.From.Text)
	assert.Equal(t, 1, payload.PassIndex)
}
