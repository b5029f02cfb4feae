// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xlog is the thin structured-logging shim spec section 7.4
// names for "numerical warnings... logged but do not stop the
// simulation": a colored progress/warning line over gosl/io, the
// teacher's own io.Pf("> ...")-style convention in fem.Main.Run, plus a
// small accumulator so a caller (problem.Problem) can inspect the
// warnings a run produced instead of only seeing them fly past on
// stderr.
package xlog

import (
	"fmt"
	"sync"

	"github.com/cpmech/gosl/io"
)

// Verbose controls whether Warnf prints to stderr in addition to
// recording the message; Record always happens regardless.
var Verbose = true

var (
	mu       sync.Mutex
	warnings []string
)

// Warnf records a formatted warning message and, if Verbose, prints it in
// yellow via gosl/io -- spec section 7.4's "logged but do not stop the
// simulation" numerical-warning category (NUFFT tolerance, external
// velocity/streamfunction curl mismatch).
func Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	mu.Lock()
	warnings = append(warnings, msg)
	mu.Unlock()
	if Verbose {
		io.Pfyel("WARNING: %s\n", msg)
	}
}

// Warnings returns every warning recorded so far, in order.
func Warnings() []string {
	mu.Lock()
	defer mu.Unlock()
	return append([]string(nil), warnings...)
}

// Reset clears the recorded warnings, used between independent runs in
// the same process (e.g. successive test cases) so warnings don't leak
// across them.
func Reset() {
	mu.Lock()
	warnings = nil
	mu.Unlock()
}
