// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domtree

import "github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"

// IsDisabled reports whether e carries a disabled attribute/property,
// per the "disabled" check folded into visibility (§4.1) and the
// focusable predicate (§4.4).
func (d *Document) IsDisabled(e *Element) bool {
	if _, ok := e.Attr("disabled"); ok {
		return true
	}
	v, ok := e.Attr("aria-disabled")
	return ok && v == "true"
}

// IsAriaHidden reports whether e or any ancestor carries
// aria-hidden="true".
func (d *Document) IsAriaHidden(e *Element) bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if v, ok := cur.Attr("aria-hidden"); ok && v == "true" {
			return true
		}
	}
	return false
}

// IsVisible implements the visibility policy of §4.1: neither
// display:none nor visibility:hidden, not disabled, no aria-hidden
// ancestor, and a rect meeting minElementSize in both dimensions.
func (d *Document) IsVisible(e *Element, minElementSize float64) bool {
	style := d.Style(e)
	if style.Display == "none" {
		return false
	}
	if style.VisibilityHidden {
		return false
	}
	if d.IsDisabled(e) {
		return false
	}
	if d.IsAriaHidden(e) {
		return false
	}
	r, ok := d.Rect(e)
	if !ok {
		return false
	}
	return r.MeetsMinSize(minElementSize)
}

// InViewport reports whether e's current rect is within the viewport
// of the given size, expanded by margin m, per §4.1.
func (d *Document) InViewport(e *Element, viewport geom.Size, margin float64) bool {
	r, ok := d.Rect(e)
	if !ok {
		return false
	}
	return r.InViewport(viewport.Width, viewport.Height, margin)
}

// ScrollContainerKey returns a stable identifier for e's nearest
// scrollable ancestor, or "" if none (§4.1). The key is "#" plus the
// ancestor's id attribute when it has one, and otherwise the formatted
// address of its html.Node.
func (d *Document) ScrollContainerKey(e *Element) string {
	for cur := e.Parent(); cur != nil; cur = cur.Parent() {
		style := d.Style(cur)
		if style.scrollableX() || style.scrollableY() {
			if id := cur.ID(); id != "" {
				return "#" + id
			}
			return nodeKey(cur)
		}
	}
	return ""
}

func nodeKey(e *Element) string {
	// The underlying *html.Node pointer is stable for the element's
	// lifetime in the tree, so its formatted address is a fine opaque
	// key when no id attribute is available.
	return sprintPointer(e.Node())
}
