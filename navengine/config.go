// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package navengine is the spatial-navigation engine's public API: a
// process-scope singleton tying together the geometry, CSS-nav, focus
// group, registry, scorer, state machine, overlay, and mutation-driver
// components (C1-C8) behind the operations spec.md §1 describes.
package navengine

import (
	"log/slog"
	"time"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/focusgroup"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/option"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/scorer"
)

// Config is the host-supplied configuration table of spec.md §6.
type Config struct {
	ScoringMode            cssnav.ScoringMode
	DistanceFunction       scorer.DistanceFunction
	OverlapThreshold       float64
	GridAlignmentTolerance float64
	WrapNavigation         *option.Option[bool]
	UseCSSProperties       *option.Option[bool]

	AutoRefocus     *option.Option[bool]
	RefocusStrategy string

	ObserveMutations    *option.Option[bool]
	ObserveScroll       *option.Option[bool]
	ObserveIntersection *option.Option[bool]

	MutationDebounce      time.Duration
	VirtualScrollDebounce time.Duration

	IntersectionRootMargin float64
	IntersectionThreshold  float64

	IframeSupport registry.IframeSupport

	// FocusGroups holds the focusGroups.* settings. New does not read
	// them; groups take their policy from data-focus-group alone.
	FocusGroups struct {
		Enabled          bool
		DefaultRules     string // "k=v;k=v", the option grammar of focusgroup.ParseDeclaration
		BoundaryBehavior focusgroup.Boundary
	}

	TraverseShadowDom bool

	ObserveVirtualContainers  bool
	VirtualContainerSelectors []string

	MinElementSize float64

	PrecomputeCandidates   bool
	PrecomputeCacheTimeout time.Duration

	Viewport geom.Size

	Logger *slog.Logger
}

// DefaultConfig returns the §5/§6 timing and policy defaults.
func DefaultConfig() Config {
	return Config{
		// ScoringMode is left unset so a per-element
		// --spatial-navigation-function (or scroll-snap grid hint) can
		// take effect; set it explicitly to force geometric or grid
		// scoring regardless of CSS.
		DistanceFunction:       scorer.Euclidean,
		OverlapThreshold:       0,
		GridAlignmentTolerance: 20,
		WrapNavigation:         option.New(false),
		UseCSSProperties:       option.New(true),
		AutoRefocus:            option.New(false),
		RefocusStrategy:        "first",
		ObserveMutations:       option.New(true),
		ObserveScroll:          option.New(true),
		ObserveIntersection:    option.New(true),
		MutationDebounce:       100 * time.Millisecond,
		VirtualScrollDebounce:  150 * time.Millisecond,
		IntersectionRootMargin: 200,
		MinElementSize:         1,
		PrecomputeCandidates:   true,
		PrecomputeCacheTimeout: 0,
		Logger:                 slog.Default(),
	}
}
