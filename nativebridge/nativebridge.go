// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nativebridge implements the external messaging collaborator
// of spec.md §6: a default WebExtension-native-messaging-style bridge
// that emits focusExit/focusChange frames, falling back to a DOM-only
// mode (and the legacy __FOCUS_EXIT__ signal) when no bridge is
// present. The transport is grounded on the teacher's
// base/websocket.Client wrapper over gorilla/websocket.
package nativebridge

import (
	"math"
	"strings"
	"time"

	gorilla "github.com/gorilla/websocket"
	"golang.org/x/net/html"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
)

// MessageType names the two outbound message kinds (§6).
type MessageType string

const (
	FocusExit   MessageType = "focusExit"
	FocusChange MessageType = "focusChange"
)

// ProtocolVersion is the version field stamped on every outbound
// message.
const ProtocolVersion = 1

// DirectionPayload mirrors the direction triple inside a focusExit
// message (§6).
type DirectionPayload struct {
	Axis string `json:"axis"`
	Sign int    `json:"sign"`
	Name string `json:"name"`
}

// ExitPayload is the payload of a focusExit message (§6).
type ExitPayload struct {
	Direction DirectionPayload `json:"direction"`
	InTrap    bool             `json:"inTrap"`
	TrapID    string           `json:"trapId,omitempty"`
	EscapeKey string           `json:"escapeKey,omitempty"`
}

// RectPayload is a rounded element rect (§6).
type RectPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ElementDescriptor serializes a from/to element for a focusChange
// message (§6), truncating text to at most 100 characters.
type ElementDescriptor struct {
	TagName   string      `json:"tagName"`
	ID        string      `json:"id,omitempty"`
	ClassName string      `json:"className,omitempty"`
	Text      string      `json:"text,omitempty"`
	Rect      RectPayload `json:"rect"`
	AriaLabel string      `json:"ariaLabel,omitempty"`
}

// ChangePayload is the payload of a focusChange message (§6).
type ChangePayload struct {
	From      ElementDescriptor `json:"from"`
	To        ElementDescriptor `json:"to"`
	PassIndex int               `json:"passIndex"`
}

// Message is the envelope every outbound frame shares (§6).
type Message struct {
	Type      MessageType `json:"type"`
	Version   int         `json:"version"`
	Timestamp int64       `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// Transport abstracts the underlying wire connection so Bridge is
// testable without a real socket.
type Transport interface {
	WriteJSON(v any) error
	Close() error
}

// wsTransport adapts *gorilla.Conn to Transport.
type wsTransport struct{ conn *gorilla.Conn }

func (w *wsTransport) WriteJSON(v any) error { return w.conn.WriteJSON(v) }
func (w *wsTransport) Close() error          { return w.conn.Close() }

// Bridge is the default native-messaging bridge. When Transport is nil
// (injected mode — no native host present), every Emit call degrades to
// firing the DOM-equivalent exit listeners on Doc plus the legacy
// __FOCUS_EXIT__ signal, per §6's fallback paragraph.
type Bridge struct {
	Transport Transport
	Doc       *domtree.Document

	// LegacySignal, if set, receives the best-effort
	// "__FOCUS_EXIT__:<direction>" string some legacy hosts detect
	// instead of listening for the DOM event (§6).
	LegacySignal func(signal string)

	Now func() time.Time
}

// Connect dials url and returns a Bridge whose Transport writes frames
// over that websocket connection.
func Connect(url string, doc *domtree.Document) (*Bridge, error) {
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &Bridge{Transport: &wsTransport{conn: conn}, Doc: doc}, nil
}

// New returns an injected-mode Bridge with no transport: EmitFocusExit
// and EmitFocusChange degrade to DOM events and the legacy signal only.
func New(doc *domtree.Document) *Bridge {
	return &Bridge{Doc: doc}
}

func (b *Bridge) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// EmitFocusExit sends a focusExit message for a boundary (§6, §4.6). It
// always also dispatches the DOM spatialNavigationExit-equivalent event
// on Doc, matching spec.md's description that the DOM event fires
// unconditionally while the native message is additional when a bridge
// is present.
func (b *Bridge) EmitFocusExit(ev domtree.ExitEvent) {
	if b.Doc != nil {
		b.Doc.DispatchExit(ev)
	}
	if b.Transport == nil {
		if b.LegacySignal != nil {
			b.LegacySignal("__FOCUS_EXIT__:" + ev.Direction)
		}
		return
	}
	msg := Message{
		Type:      FocusExit,
		Version:   ProtocolVersion,
		Timestamp: b.now().UnixMilli(),
		Payload: ExitPayload{
			Direction: directionPayload(ev.Direction),
			InTrap:    ev.InTrap,
			TrapID:    ev.TrapID,
			EscapeKey: ev.EscapeKey,
		},
	}
	_ = b.Transport.WriteJSON(msg)
}

// EmitFocusChange optionally sends a focusChange message after a
// successful move (§6). It is a no-op in injected mode, since there is
// no host to receive it and the DOM itself already reflects the new
// focus via document.activeElement.
func (b *Bridge) EmitFocusChange(from, to *domtree.Element, passIndex int) {
	if b.Transport == nil {
		return
	}
	msg := Message{
		Type:      FocusChange,
		Version:   ProtocolVersion,
		Timestamp: b.now().UnixMilli(),
		Payload: ChangePayload{
			From:      b.describe(from),
			To:        b.describe(to),
			PassIndex: passIndex,
		},
	}
	_ = b.Transport.WriteJSON(msg)
}

// Close releases the underlying transport, if any.
func (b *Bridge) Close() error {
	if b.Transport == nil {
		return nil
	}
	return b.Transport.Close()
}

func directionPayload(name string) DirectionPayload {
	switch name {
	case "up":
		return DirectionPayload{Axis: "y", Sign: -1, Name: "up"}
	case "down":
		return DirectionPayload{Axis: "y", Sign: 1, Name: "down"}
	case "left":
		return DirectionPayload{Axis: "x", Sign: -1, Name: "left"}
	case "right":
		return DirectionPayload{Axis: "x", Sign: 1, Name: "right"}
	}
	return DirectionPayload{Name: name}
}

func (b *Bridge) describe(el *domtree.Element) ElementDescriptor {
	if el == nil {
		return ElementDescriptor{}
	}
	className, _ := el.Attr("class")
	ariaLabel, _ := el.Attr("aria-label")
	text := textContent(el)
	if runes := []rune(text); len(runes) > 100 {
		text = string(runes[:100])
	}
	var rectPayload RectPayload
	if b.Doc != nil {
		if r, ok := b.Doc.Rect(el); ok {
			rectPayload = RectPayload{
				X: int(math.Round(r.Left)), Y: int(math.Round(r.Top)),
				W: int(math.Round(r.Width())), H: int(math.Round(r.Height())),
			}
		}
	}
	return ElementDescriptor{
		TagName:   el.TagName(),
		ID:        el.ID(),
		ClassName: className,
		Text:      text,
		Rect:      rectPayload,
		AriaLabel: ariaLabel,
	}
}

// textContent concatenates every text node under el in document order,
// a Go-native stand-in for the DOM's .textContent used only to populate
// the bridge's truncated text field.
func textContent(el *domtree.Element) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(el.Node())
	return sb.String()
}
