// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconnect

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

// straightLoop builds a closed polygon approximating two long antiparallel
// straight segments joined by end caps -- close enough to a pair of
// antiparallel lines for the reconnection surgery test of spec section 8
// scenario 6, while remaining a single well-defined closed Filament.
func straightLoop(offsetY, halfLen float64, n int) *filament.Filament {
	pts := make([]vec3.Vec3, 0, n)
	// going +x at y=offsetY, then back -x at y=-offsetY
	half := n / 2
	for k := 0; k < half; k++ {
		x := -halfLen + 2*halfLen*float64(k)/float64(half-1)
		pts = append(pts, vec3.Vec3{x, offsetY, 0})
	}
	for k := 0; k < half; k++ {
		x := halfLen - 2*halfLen*float64(k)/float64(half-1)
		pts = append(pts, vec3.Vec3{x, -offsetY, 0})
	}
	return filament.Init(pts, filament.NewFiniteDifference(1, 1), vec3.Zero)
}

func TestEngineStepReconnectsAntiparallelSegments(t *testing.T) {
	chk.Verbose = false

	dcrit := 0.05
	f := straightLoop(dcrit/4, 1.0, 20)
	periods := vec3.Periods{math.Inf(1), math.Inf(1), math.Inf(1)}

	lenRule := quad.GaussLegendre01(4)
	lengthBefore := f.Length(lenRule)

	var engine Engine
	crit := BasedOnDistance{Dcrit: dcrit}
	var finder cell.Naive

	var events []Mode
	cb := func(fi *filament.Filament, mode Mode) { events = append(events, mode) }

	result, stats := engine.Step([]*filament.Filament{f}, crit, &finder, periods, 2*dcrit, lenRule, cb)

	if stats.Reconnections != 1 {
		t.Fatalf("expected 1 reconnection, got %d (events=%v)", stats.Reconnections, events)
	}
	if len(result) != 2 {
		t.Fatalf("expected self-reconnection to split into 2 filaments, got %d", len(result))
	}
	lengthAfter := 0.0
	for _, g := range result {
		lengthAfter += g.Length(lenRule)
	}
	if got, want := lengthBefore-lengthAfter, stats.LengthLost; math.Abs(got-want) > 1e-9 {
		t.Fatalf("length-loss accounting mismatch: direct=%v stats=%v", got, want)
	}
}

func TestEngineStepNoCandidatesWhenFar(t *testing.T) {
	f := straightLoop(10.0, 1.0, 20)
	periods := vec3.Periods{math.Inf(1), math.Inf(1), math.Inf(1)}
	lenRule := quad.GaussLegendre01(4)

	var engine Engine
	crit := BasedOnDistance{Dcrit: 0.05}
	var finder cell.Naive
	result, stats := engine.Step([]*filament.Filament{f}, crit, &finder, periods, 0.1, lenRule, nil)

	if stats.Reconnections != 0 {
		t.Fatalf("expected no reconnections when segments are far apart, got %d", stats.Reconnections)
	}
	if len(result) != 1 {
		t.Fatalf("expected filament set unchanged, got %d filaments", len(result))
	}
}
