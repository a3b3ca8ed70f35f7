// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errutil provides small error-logging helpers used at the
// absorbed-failure boundaries of the navigation engine (ObserverFailure,
// MutationScanFailure, FocusApplicationFailure).
package errutil

import (
	"log/slog"
	"runtime"
	"strconv"
)

// Log logs the given error if it is non-nil and returns it unchanged.
// The intended usage is:
//
//	errutil.Log(observer.Attach())
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 logs err if it is non-nil and returns v unchanged either way.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Log2 is Log1 for two return values.
func Log2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v1, v2
}

// Warn logs a degrade-and-continue warning with the given cause, matching
// the engine's policy that observer and selector failures never abort
// the feature they belong to.
func Warn(feature string, err error) {
	if err == nil {
		return
	}
	slog.Warn(feature+" degraded: "+err.Error() + " | " + CallerInfo())
}

// CallerInfo returns the file:line of the function that called the
// function that called CallerInfo (i.e. the caller of Log/Log1/Log2/Warn).
func CallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return file + ":" + strconv.Itoa(line)
}
