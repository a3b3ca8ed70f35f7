// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/nativebridge"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/navengine"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/overlay"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

// consoleObserver prints overlay state to stdout, standing in for a real
// preview UI (spec.md §4.7 names rendering out of scope).
type consoleObserver struct{}

func (consoleObserver) ShowOverlay(current *registry.Entry, targets overlay.Targets) {
	fmt.Printf("  focused: %s\n", describeEntry(current))
	for _, name := range []string{"up", "down", "left", "right"} {
		if cand := targets[name]; cand != nil {
			fmt.Printf("    %-5s -> %s (score %.1f)\n", name, describeEntry(cand.Entry), cand.Score)
		} else {
			fmt.Printf("    %-5s -> (none)\n", name)
		}
	}
}

func (consoleObserver) HideOverlay() { fmt.Println("  overlay hidden") }

func (consoleObserver) MarkDirectionDisabled(direction string)  { fmt.Printf("  %s: dead end\n", direction) }
func (consoleObserver) ClearDirectionDisabled(direction string) {}

func describeEntry(e *registry.Entry) string {
	if e == nil {
		return "(none)"
	}
	tag := e.Element.TagName()
	if id := e.Element.ID(); id != "" {
		return tag + "#" + id
	}
	return fmt.Sprintf("%s@%d", tag, e.Index)
}

func run() error {
	var r io.Reader = os.Stdin
	if htmlPath != "" {
		f, err := os.Open(htmlPath)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	doc, err := domtree.ParseHTML(r)
	if err != nil {
		return fmt.Errorf("parsing fixture: %w", err)
	}

	applyFixtureLayout(doc)
	applyFixtureStyles(doc)

	cfg := loadConfig(configPath)
	eng := navengine.New(doc, cfg)
	eng.SetObserver(consoleObserver{})

	if wsURL != "" {
		bridge, err := nativebridge.Connect(wsURL, doc)
		if errutil.Log(err) == nil {
			eng.Bridge = bridge
			defer bridge.Close()
		}
	}

	eng.Refresh()
	fmt.Println("ready; enter up/down/left/right, or q to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}
		if _, ok := scorer.DirectionByName(line); !ok {
			fmt.Println("unrecognized direction:", line)
			continue
		}
		if !eng.MoveInDirection(line) {
			fmt.Println("  boundary:", line)
		}
	}
	return scanner.Err()
}

// applyFixtureLayout reads a data-rect="x,y,w,h" attribute off every
// element that carries one and installs it into the document's rect
// table. There is no real layout engine behind this command (spec.md
// places rendering/layout out of scope); fixtures supply geometry
// directly instead.
func applyFixtureLayout(doc *domtree.Document) {
	for _, el := range doc.All() {
		raw, ok := el.Attr("data-rect")
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		if len(parts) != 4 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		w, errW := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		h, errH := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if errX != nil || errY != nil || errW != nil || errH != nil {
			continue
		}
		doc.SetRect(el, geom.Rect{Left: x, Top: y, Right: x + w, Bottom: y + h})
	}
}

// applyFixtureStyles pulls every <style> element's text content into
// cssnav via ApplyStylesheet, and every style="" attribute via
// ApplyInlineStyle, so --spatial-navigation-* properties declared either
// way reach the computed style table.
func applyFixtureStyles(doc *domtree.Document) {
	for _, el := range doc.All() {
		if el.TagName() == "style" {
			cssnav.ApplyStylesheet(doc, doc.Root, elementText(el))
		}
		cssnav.ApplyInlineStyle(doc, el)
	}
}

func elementText(el *domtree.Element) string {
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
