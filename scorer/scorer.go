// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scorer implements C5, the directional candidate scorer: the
// multi-pass, CSS-aware selection algorithm described in spec.md §4.5,
// including grid mode, containment, focus-group bias, and wrap.
package scorer

import (
	"math"
	"sort"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/domtree"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/focusgroup"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/registry"
)

// Direction is the immutable {axis, sign, name} triple from spec.md §3.
type Direction struct {
	Axis byte // 'x' or 'y'
	Sign int  // +1 or -1
	Name string
}

var (
	Up    = Direction{Axis: 'y', Sign: -1, Name: "up"}
	Down  = Direction{Axis: 'y', Sign: 1, Name: "down"}
	Left  = Direction{Axis: 'x', Sign: -1, Name: "left"}
	Right = Direction{Axis: 'x', Sign: 1, Name: "right"}
)

// DirectionByName returns the Direction for one of the four arrow key
// names, or ok=false for an unrecognized name (InvalidDirection, §7).
func DirectionByName(name string) (Direction, bool) {
	switch name {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Direction{}, false
}

// Opposite returns the direction's opposite, as in the round-trip
// property of §8.
func (d Direction) Opposite() Direction {
	switch d.Name {
	case "up":
		return Down
	case "down":
		return Up
	case "left":
		return Right
	case "right":
		return Left
	}
	return d
}

// DistanceFunction selects the distance term of the score (§6).
type DistanceFunction string

const (
	Euclidean DistanceFunction = "euclidean"
	Manhattan DistanceFunction = "manhattan"
	Projected DistanceFunction = "projected"
)

// passParams are the per-pass tuning knobs from the table in §4.5.
type passParams struct {
	strictEdges      bool
	allowOverlap     bool
	requireViewport  bool
	viewportMargin   float64
	alignmentWeight  float64
	distanceWeight   float64
	preferScrollKey  bool
}

var passes = []passParams{
	{strictEdges: true, allowOverlap: false, requireViewport: true, viewportMargin: 0, alignmentWeight: 10, distanceWeight: 1.0, preferScrollKey: true},
	{strictEdges: false, allowOverlap: true, requireViewport: true, viewportMargin: 160, alignmentWeight: 8, distanceWeight: 0.9, preferScrollKey: true},
	{strictEdges: false, allowOverlap: true, requireViewport: false, viewportMargin: 0, alignmentWeight: 6, distanceWeight: 0.7, preferScrollKey: false},
}

const (
	gridBonus        = 500
	groupBonus       = 2000
	enterLastBonus   = 1000
	scrollSameBias   = 150
	scrollOtherBias  = 75
	offscreenPenalty = 120
)

// Options carry the host-configurable scoring knobs from §6.
type Options struct {
	ScoringMode          cssnav.ScoringMode
	DistanceFunction     DistanceFunction
	OverlapThreshold     float64
	GridAlignmentTolerance float64
	WrapNavigation       bool
	PreferScrollGroup    bool
	Viewport             geom.Size
}

// DefaultOptions returns the §5/§6 defaults.
func DefaultOptions() Options {
	return Options{
		ScoringMode:            cssnav.Geometric,
		DistanceFunction:       Euclidean,
		OverlapThreshold:       0,
		GridAlignmentTolerance: 20,
		WrapNavigation:         false,
		PreferScrollGroup:      true,
	}
}

// Metrics holds the intermediate geometric computation for one
// candidate against the current entry (§4.5 steps 2-8).
type Metrics struct {
	DX, DY         float64
	Primary        float64
	Secondary      float64
	Distance       float64
	GridAligned    bool
	Score          float64
}

// Candidate is the scorer's result for a single directional search
// (spec.md §4.5).
type Candidate struct {
	Index     int
	Entry     *registry.Entry
	Rect      geom.Rect
	Score     float64
	Metrics   Metrics
	PassIndex int // -1 denotes a wrap selection
}

// Scorer evaluates directional candidates over a registry generation.
type Scorer struct {
	Reg     *registry.Registry
	CSS     *cssnav.Reader
	Options Options
}

// New returns a Scorer over reg using css for containment/grid-mode
// resolution and opt for the tunable knobs.
func New(reg *registry.Registry, css *cssnav.Reader, opt Options) *Scorer {
	return &Scorer{Reg: reg, CSS: css, Options: opt}
}

// FindDirectional evaluates every other entry against currentIndex
// under direction dir and returns the minimum-score acceptable
// candidate, or nil if none of the three passes (and wrap, if enabled)
// finds one (§4.5).
func (s *Scorer) FindDirectional(currentIndex int, dir Direction) *Candidate {
	cur := s.Reg.EntryAt(currentIndex)
	if cur == nil {
		return nil
	}

	container := s.CSS.NavigationContainer(cur.Element)
	mode := s.effectiveMode(cur)

	for passIdx, p := range passes {
		var best *Candidate
		for _, k := range s.Reg.Entries() {
			if k == cur {
				continue
			}
			if container != nil && !isDescendantOf(k.Element, container) {
				continue
			}
			cand := s.evaluate(cur, k, dir, p, mode)
			if cand == nil {
				continue
			}
			cand.PassIndex = passIdx
			if best == nil || isBetter(cand, best, mode) {
				best = cand
			}
		}
		if best != nil {
			return best
		}
	}

	if s.Options.WrapNavigation {
		return s.findWrap(cur, dir, mode)
	}
	return nil
}

func (s *Scorer) effectiveMode(cur *registry.Entry) cssnav.ScoringMode {
	if s.Options.ScoringMode != "" {
		return s.Options.ScoringMode
	}
	return s.CSS.EffectiveScoringMode(cur.Element)
}

// isDescendantOf reports whether el has ancestor somewhere among its
// element ancestors, used by the CSS-containment gate (§4.5: "candidates
// outside that ancestor are rejected before scoring").
func isDescendantOf(el, ancestor *domtree.Element) bool {
	for cur := el.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Equal(ancestor) {
			return true
		}
	}
	return false
}

// isBetter reports whether a scores ahead of b: lower score wins, ties
// broken by metrics.distance; in grid mode, grid-aligned candidates
// always sort ahead of non-aligned ones regardless of raw score (§4.5).
func isBetter(a, b *Candidate, mode cssnav.ScoringMode) bool {
	if mode == cssnav.Grid && a.Metrics.GridAligned != b.Metrics.GridAligned {
		return a.Metrics.GridAligned
	}
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Metrics.Distance < b.Metrics.Distance
}

// evaluate computes the gated metrics and score for one (current,
// candidate) pair under one pass's parameters, or returns nil if any
// gate rejects the candidate (§4.5 steps 1-8, score assembly).
func (s *Scorer) evaluate(cur, k *registry.Entry, dir Direction, p passParams, mode cssnav.ScoringMode) *Candidate {
	c, cand := cur.Rect, k.Rect
	overlap := s.Options.OverlapThreshold

	if cur.GroupID != "" && k.GroupID != cur.GroupID {
		if g := s.Reg.Groups().Get(cur.GroupID); g != nil && !g.CanExit() {
			return nil
		}
	}

	if p.strictEdges && !passesEdgeGate(c, cand, dir, overlap) {
		return nil
	}

	dx := cand.CenterX() - c.CenterX()
	dy := cand.CenterY() - c.CenterY()

	forwardThreshold := 1.0
	if p.allowOverlap {
		forwardThreshold = -(12 + overlap)
	}
	if !passesForwardGate(dx, dy, dir, forwardThreshold) {
		return nil
	}

	var primary, secondary float64
	if dir.Axis == 'x' {
		primary, secondary = math.Abs(dx), math.Abs(dy)
	} else {
		primary, secondary = math.Abs(dy), math.Abs(dx)
	}

	if secondary > math.Max(4, primary*3) {
		return nil
	}

	distance := distanceFor(s.Options.DistanceFunction, dx, dy, primary, secondary)

	if p.requireViewport {
		inViewport := cand.InViewport(s.Options.Viewport.Width, s.Options.Viewport.Height, p.viewportMargin)
		if !inViewport {
			return nil
		}
	}

	gridAligned := crossAxisAligned(c, cand, dir, s.Options.GridAlignmentTolerance)

	score := primary * 1000
	score += secondary * p.alignmentWeight
	score += distance * p.distanceWeight

	if gridAligned && mode == cssnav.Grid {
		score -= gridBonus
	}

	if cur.GroupID != "" && k.GroupID == cur.GroupID {
		score -= groupBonus
	} else if k.GroupID != "" && k.GroupID != cur.GroupID {
		if g := s.Reg.Groups().Get(k.GroupID); g != nil && enteringNewGroup(cur, k) {
			switch g.Enter {
			case focusgroup.EnterLast:
				// §4.5 score assembly: entering a group with
				// enterMode=last accepts only the remembered member;
				// every other candidate is rejected outright.
				if g.LastFocused != nil && g.LastFocused.Equal(k.Element) {
					score -= enterLastBonus
				} else {
					return nil
				}
			default:
				// first/default: bias toward the group's preferred
				// entry member without rejecting other candidates,
				// since only enterMode=last is a hard gate per §4.5.
				if pref := g.GetPreferredEntry(); pref != nil && pref.Equal(k.Element) {
					score -= enterLastBonus
				}
			}
		}
	}

	if p.preferScrollKey && s.Options.PreferScrollGroup {
		if k.ScrollKey != "" && k.ScrollKey == cur.ScrollKey {
			score -= scrollSameBias
		} else {
			score += scrollOtherBias
		}
	}

	visible := candRectInViewport(cand, s.Options.Viewport)
	if !visible {
		score += offscreenPenalty
	}

	return &Candidate{
		Index: k.Index,
		Entry: k,
		Rect:  cand,
		Score: score,
		Metrics: Metrics{
			DX: dx, DY: dy,
			Primary: primary, Secondary: secondary,
			Distance: distance, GridAligned: gridAligned,
			Score: score,
		},
	}
}

// enteringNewGroup reports whether k belongs to a group the current
// entry is not presently inside, the trigger condition for the
// enterMode=last group-entry scoring clause (§4.5).
func enteringNewGroup(cur, k *registry.Entry) bool {
	return k.GroupID != "" && k.GroupID != cur.GroupID
}

func candRectInViewport(r geom.Rect, vp geom.Size) bool {
	if vp.Width == 0 && vp.Height == 0 {
		return true
	}
	return r.InViewport(vp.Width, vp.Height, 0)
}

// passesEdgeGate implements §4.5 step 1.
func passesEdgeGate(c, k geom.Rect, dir Direction, overlap float64) bool {
	switch dir.Name {
	case "right":
		return k.Left >= c.Right-(4+overlap)
	case "left":
		return k.Right <= c.Left+(4+overlap)
	case "down":
		return k.Top >= c.Bottom-(4+overlap)
	case "up":
		return k.Bottom <= c.Top+(4+overlap)
	}
	return true
}

// passesForwardGate implements §4.5 step 3.
func passesForwardGate(dx, dy float64, dir Direction, threshold float64) bool {
	var component float64
	switch dir.Name {
	case "right":
		component = dx
	case "left":
		component = -dx
	case "down":
		component = dy
	case "up":
		component = -dy
	}
	return component > threshold
}

func distanceFor(fn DistanceFunction, dx, dy, primary, secondary float64) float64 {
	switch fn {
	case Manhattan:
		return math.Abs(dx) + math.Abs(dy)
	case Projected:
		return primary + 0.5*secondary
	default:
		return math.Sqrt(dx*dx + dy*dy)
	}
}

// crossAxisAligned implements §4.5 step 8: the mid-coordinate of the
// cross axis differs by at most tolerance.
func crossAxisAligned(c, k geom.Rect, dir Direction, tolerance float64) bool {
	if dir.Axis == 'y' {
		return math.Abs(k.CenterX()-c.CenterX()) <= tolerance
	}
	return math.Abs(k.CenterY()-c.CenterY()) <= tolerance
}

// findWrap implements §4.5's wrap fallback: the element on the opposite
// edge along the direction's axis when all three passes find nothing
// (minimum top for down, maximum bottom for up, minimum left for
// right, maximum right for left). In grid mode, candidates whose
// cross-axis mid matches the current entry's within tolerance sort
// first; ties beyond that are deliberately left to stable input order
// per the open question in spec.md §9.
func (s *Scorer) findWrap(cur *registry.Entry, dir Direction, mode cssnav.ScoringMode) *Candidate {
	return s.findWrapIn(cur, dir, mode, s.Reg.Entries())
}

// FindGroupWrap wraps within cur's own focus group (rather than the
// whole registry), for a group whose effective boundary is wrap
// (focusgroup.Group.ShouldWrap, §3). It returns nil when cur belongs to
// no group, the group no longer exists, or the group has no other
// member to wrap to.
func (s *Scorer) FindGroupWrap(cur *registry.Entry, dir Direction) *Candidate {
	if cur.GroupID == "" {
		return nil
	}
	g := s.Reg.Groups().Get(cur.GroupID)
	if g == nil {
		return nil
	}
	pool := make([]*registry.Entry, 0, len(g.Members))
	for _, el := range g.Members {
		if e := s.Reg.EntryFor(el); e != nil {
			pool = append(pool, e)
		}
	}
	return s.findWrapIn(cur, dir, s.effectiveMode(cur), pool)
}

// findWrapIn runs the wrap fallback over an explicit candidate pool
// (the whole registry for the global wrap, or one group's members for
// FindGroupWrap).
func (s *Scorer) findWrapIn(cur *registry.Entry, dir Direction, mode cssnav.ScoringMode, pool []*registry.Entry) *Candidate {
	if len(pool) == 0 {
		return nil
	}
	candidates := make([]*registry.Entry, 0, len(pool))
	for _, e := range pool {
		if e != cur {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if mode == cssnav.Grid {
			ai := crossAxisAligned(cur.Rect, candidates[i].Rect, dir, s.Options.GridAlignmentTolerance)
			aj := crossAxisAligned(cur.Rect, candidates[j].Rect, dir, s.Options.GridAlignmentTolerance)
			if ai != aj {
				return ai
			}
		}
		return wrapKey(candidates[i].Rect, dir) < wrapKey(candidates[j].Rect, dir)
	})

	winner := candidates[0]
	return &Candidate{
		Index:     winner.Index,
		Entry:     winner,
		Rect:      winner.Rect,
		PassIndex: -1,
		Metrics: Metrics{
			Distance: wrapKey(winner.Rect, dir),
		},
	}
}

// wrapKey returns the sort key used to pick the opposite-edge wrap
// target for each direction (§4.5).
func wrapKey(r geom.Rect, dir Direction) float64 {
	switch dir.Name {
	case "down":
		return r.Top
	case "up":
		return -r.Bottom
	case "right":
		return r.Left
	case "left":
		return -r.Right
	}
	return 0
}
