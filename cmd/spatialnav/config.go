// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/cssnav"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/geom"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/errutil"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/internal/option"
	"github.com/dart-technologies/spatial-navigation-geckoview-sub001/navengine"
)

// fileConfig is the on-disk shape of spatialnav.toml: a small subset of
// navengine.Config worth exposing to a host that just wants to tweak
// policy without recompiling.
type fileConfig struct {
	ScoringMode     string  `toml:"scoring_mode"`
	WrapNavigation  *bool   `toml:"wrap_navigation"`
	AutoRefocus     *bool   `toml:"auto_refocus"`
	RefocusStrategy string  `toml:"refocus_strategy"`
	ViewportWidth   float64 `toml:"viewport_width"`
	ViewportHeight  float64 `toml:"viewport_height"`
}

// loadConfig builds an engine Config from the §5/§6 defaults, overlaid
// with path's TOML contents when path is non-empty.
func loadConfig(path string) navengine.Config {
	cfg := navengine.DefaultConfig()
	cfg.Viewport = geom.Size{Width: 1920, Height: 1080}

	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if errutil.Log(err) != nil {
		return cfg
	}

	var fc fileConfig
	if errutil.Log(toml.Unmarshal(data, &fc)) != nil {
		return cfg
	}

	switch fc.ScoringMode {
	case "grid":
		cfg.ScoringMode = cssnav.Grid
	case "geometric":
		cfg.ScoringMode = cssnav.Geometric
	}
	if fc.WrapNavigation != nil {
		cfg.WrapNavigation = option.New(*fc.WrapNavigation)
	}
	if fc.AutoRefocus != nil {
		cfg.AutoRefocus = option.New(*fc.AutoRefocus)
	}
	if fc.RefocusStrategy != "" {
		cfg.RefocusStrategy = fc.RefocusStrategy
	}
	if fc.ViewportWidth > 0 {
		cfg.Viewport.Width = fc.ViewportWidth
	}
	if fc.ViewportHeight > 0 {
		cfg.Viewport.Height = fc.ViewportHeight
	}
	return cfg
}
