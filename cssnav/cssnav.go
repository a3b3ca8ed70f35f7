// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cssnav implements C2, the CSS-Nav reader: resolving the
// --spatial-navigation-{contain,action,function} custom properties and
// scroll-snap hints per element, honoring an engine-level override.
package cssnav

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	selcss "github.com/ericchiang/css"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
)

const (
	propContain  = "--spatial-navigation-contain"
	propAction   = "--spatial-navigation-action"
	propFunction = "--spatial-navigation-function"
)

// ScoringMode selects between plain geometric scoring and grid-aware
// scoring (§4.2, §4.5).
type ScoringMode string

const (
	Geometric ScoringMode = "geometric"
	Grid      ScoringMode = "grid"
)

// Defaults for the three custom properties when unset or when CSS
// reading is disabled (§4.2).
const (
	DefaultContain  = "auto"
	DefaultAction   = "auto"
	DefaultFunction = "normal"
)

// Reader resolves navigation-relevant CSS for a document, honoring
// Config.UseCSSProperties and Config.ScoringMode overrides.
type Reader struct {
	Doc *domtree.Document

	// UseCSSProperties, when false, makes every query return its
	// default regardless of what is declared on the element (§4.2).
	UseCSSProperties bool

	// ConfigScoringMode is the engine-level override; when non-empty,
	// it wins over any per-element --spatial-navigation-function value
	// exactly as spec.md specifies ("config override wins over CSS").
	ConfigScoringMode ScoringMode
}

// NewReader returns a Reader over doc with CSS reading enabled.
func NewReader(doc *domtree.Document) *Reader {
	return &Reader{Doc: doc, UseCSSProperties: true}
}

// Property returns the resolved value of a --spatial-navigation-*
// custom property on e, or def if unset or CSS reading is disabled.
func (r *Reader) Property(e *domtree.Element, name, def string) string {
	if !r.UseCSSProperties {
		return def
	}
	v, ok := r.Doc.Style(e).Properties[name]
	if !ok || v == "" {
		return def
	}
	return v
}

// Contain returns the element's --spatial-navigation-contain value.
func (r *Reader) Contain(e *domtree.Element) string {
	return r.Property(e, propContain, DefaultContain)
}

// Action returns the element's --spatial-navigation-action value.
func (r *Reader) Action(e *domtree.Element) string {
	return r.Property(e, propAction, DefaultAction)
}

// Function returns the element's --spatial-navigation-function value.
func (r *Reader) Function(e *domtree.Element) string {
	return r.Property(e, propFunction, DefaultFunction)
}

// EffectiveScoringMode returns the scoring mode to use for directional
// searches originating at e: the config override if set, else the
// element's --spatial-navigation-function CSS hint, else Grid when
// PrefersGrid reports a scroll-snap hint on e, else Geometric.
func (r *Reader) EffectiveScoringMode(e *domtree.Element) ScoringMode {
	if r.ConfigScoringMode != "" {
		return r.ConfigScoringMode
	}
	switch r.Function(e) {
	case "grid":
		return Grid
	case "geometric":
		return Geometric
	}
	if r.PrefersGrid(e) {
		return Grid
	}
	return Geometric
}

// NavigationContainer returns the nearest ancestor of e (inclusive is
// false; search starts at e's parent) whose resolved
// --spatial-navigation-contain is "contain", or nil if none.
func (r *Reader) NavigationContainer(e *domtree.Element) *domtree.Element {
	for cur := e.Parent(); cur != nil; cur = cur.Parent() {
		if r.Contain(cur) == "contain" {
			return cur
		}
	}
	return nil
}

// PrefersGrid reports a scroll-snap hint on e that should bias toward
// grid mode, per §4.2 ("used only as a hint to prefer grid mode").
func (r *Reader) PrefersGrid(e *domtree.Element) bool {
	if !r.UseCSSProperties {
		return false
	}
	snap := r.Doc.Style(e).Properties["scroll-snap-type"]
	return strings.Contains(snap, "both") || strings.Contains(snap, "x mandatory") || strings.Contains(snap, "y mandatory")
}

// ApplyStylesheet parses a CSS stylesheet string, matches each rule's
// selector against the document via ericchiang/css, and merges the
// resulting declarations (including custom properties) into the
// matched elements' computed styles. This is how --spatial-navigation-*
// properties declared in a <style> block (rather than inline) reach
// domtree.ComputedStyle.Properties.
func ApplyStylesheet(doc *domtree.Document, root *domtree.Element, sheet string) {
	ss, err := parser.Parse(sheet)
	if errutil.Log(err) != nil {
		return
	}
	for _, rule := range ss.Rules {
		sel := compileSelector(rule)
		matches := selectElements(doc, root, sel)
		for _, el := range matches {
			mergeDeclarations(doc.Style(el), rule.Declarations)
		}
	}
}

// ApplyInlineStyle parses the value of e's style="" attribute (if any)
// and merges its declarations into e's computed style, mirroring
// coredom.Context.Config's treatment of the style attribute.
func ApplyInlineStyle(doc *domtree.Document, e *domtree.Element) {
	val, ok := e.Attr("style")
	if !ok || val == "" {
		return
	}
	if !strings.HasSuffix(strings.TrimSpace(val), ";") {
		val += ";"
	}
	decls, err := parser.ParseDeclarations(val)
	if errutil.Log(err) != nil {
		return
	}
	mergeDeclarations(doc.Style(e), decls)
}

func mergeDeclarations(style *domtree.ComputedStyle, decls []*css.Declaration) {
	for _, decl := range decls {
		switch decl.Property {
		case "display":
			style.Display = decl.Value
		case "visibility":
			style.VisibilityHidden = decl.Value == "hidden"
		case "overflow-x":
			style.OverflowX = decl.Value
		case "overflow-y":
			style.OverflowY = decl.Value
		case "overflow":
			style.OverflowX = decl.Value
			style.OverflowY = decl.Value
		default:
			style.Properties[decl.Property] = decl.Value
		}
	}
}

// Select matches selector against root's subtree using
// github.com/ericchiang/css, returning the matched elements. The
// focusable registry uses it to resolve virtualContainerSelectors
// (§4.4).
func Select(doc *domtree.Document, root *domtree.Element, selector string) ([]*domtree.Element, error) {
	sel, err := selcss.Parse(selector)
	if err != nil {
		return nil, err
	}
	return selectElements(doc, root, sel), nil
}

func selectElements(doc *domtree.Document, root *domtree.Element, sel *selcss.Selector) []*domtree.Element {
	nodes := sel.Select(root.Node())
	out := make([]*domtree.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, doc.ElementFor(n))
	}
	return out
}

func compileSelector(rule *css.Rule) *selcss.Selector {
	if len(rule.Selectors) == 0 {
		return &selcss.Selector{}
	}
	sel, err := selcss.Parse(strings.Join(rule.Selectors, ","))
	if errutil.Log(err) != nil {
		return &selcss.Selector{}
	}
	return sel
}
