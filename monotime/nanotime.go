// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monotime provides a fast monotonic clock source. The
// timers of the event loop key off it, so wall-clock adjustments
// never fire or starve a deadline.
package monotime

import (
	"time"
	_ "unsafe" // required to use //go:linkname
)

//go:noescape
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Now returns the current time in nanoseconds from a monotonic clock.
// The time returned is based on some arbitrary platform-dependent
// point in the past and is only meaningful relative to other values
// returned by Now.
func Now() uint64 {
	return uint64(nanotime())
}

// Since returns the amount of time elapsed since t, where t is a
// value previously returned by Now.
func Since(t uint64) time.Duration {
	return time.Duration(Now() - t)
}
