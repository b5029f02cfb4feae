// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconnect

import (
	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Mode is the per-filament notification the engine gives a user callback,
// per spec section 4.5.
type Mode int

const (
	Modified Mode = iota
	Appended
	Removed
)

// Callback is invoked once per filament affected by a surgery. f is the
// filament instance being removed or appended (Modified is reserved for
// callers outside this package -- surgery in this engine always replaces
// rather than mutates its operands in place, so only Removed/Appended
// occur here).
type Callback func(f *filament.Filament, mode Mode)

// Stats accumulates the per-step diagnostic totals of spec section 4.5.
type Stats struct {
	Reconnections    int
	LengthLost       float64
	FilamentsRemoved int
	LengthRemoved    float64
}

// Engine runs the per-timestep reconnection flow of spec section 4.5. It
// holds no state of its own: every call is self-contained given the
// current filament set, so a zero Engine is ready to use.
type Engine struct{}

// Step refreshes finder with the current filament set at cutoff (typically
// 2*Dcrit), enumerates candidate pairs, verifies each with crit, and
// applies the accepted surgeries. lenRule is used only to report the
// length diagnostics of Stats. Returns the updated filament slice (parents
// that were cut/merged removed, children appended) and the step's Stats.
//
// Only one reconnection is allowed per unordered pair per step (enforced
// naturally: a filament that already took part in a surgery this step is
// marked dead, and any later candidate pair referencing it is skipped --
// "invalidate any remaining candidates referring to removed filaments" of
// spec section 4.5). Freshly created children never appear in this step's
// candidate pairs, since those were enumerated from the pre-surgery
// geometry, which is exactly spec section 9's resolved "defer" choice for
// self-reconnections occurring after merges.
func (Engine) Step(filaments []*filament.Filament, crit Criterion, finder cell.Finder, periods vec3.Periods, cutoff float64, lenRule *quad.Rule, cb Callback) ([]*filament.Filament, Stats) {
	var stats Stats

	n := len(filaments)
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}
	working := make([]*filament.Filament, n)
	copy(working, filaments)
	var appended []*filament.Filament

	pairs := candidatePairs(working, periods, finder, cutoff)

	notify := func(f *filament.Filament, mode Mode) {
		if cb != nil {
			cb(f, mode)
		}
	}

	for _, pr := range pairs {
		faIdx, segA := pr.A.Filament, pr.A.Segment
		fbIdx, segB := pr.B.Filament, pr.B.Segment
		if !alive[faIdx] || !alive[fbIdx] {
			continue
		}
		fa, fb := working[faIdx], working[fbIdx]
		cand, ok := crit.Check(fa, fb, segA, segB, periods)
		if !ok {
			continue
		}

		if faIdx == fbIdx {
			lengthBefore := fa.Length(lenRule)
			a, b, ok := fa.Split(segA, segB, cand.P, fa.Method)
			if !ok {
				continue
			}
			alive[faIdx] = false
			stats.Reconnections++
			notify(fa, Removed)

			lengthAfter := 0.0
			for _, child := range []*filament.Filament{a, b} {
				if child.CheckNodes() {
					appended = append(appended, child)
					lengthAfter += child.Length(lenRule)
					notify(child, Appended)
				} else {
					stats.FilamentsRemoved++
					stats.LengthRemoved += child.Length(lenRule)
				}
			}
			stats.LengthLost += lengthBefore - lengthAfter

		} else {
			lengthBefore := fa.Length(lenRule) + fb.Length(lenRule)
			merged, ok := fa.Merge(fb, segA, segB, cand.P, fa.Method)
			if !ok {
				continue
			}
			alive[faIdx] = false
			alive[fbIdx] = false
			stats.Reconnections++
			notify(fa, Removed)
			notify(fb, Removed)

			lengthAfter := 0.0
			if merged.CheckNodes() {
				appended = append(appended, merged)
				lengthAfter = merged.Length(lenRule)
				notify(merged, Appended)
			} else {
				stats.FilamentsRemoved++
				stats.LengthRemoved += merged.Length(lenRule)
			}
			stats.LengthLost += lengthBefore - lengthAfter
		}
	}

	result := make([]*filament.Filament, 0, n+len(appended))
	for i, f := range working {
		if alive[i] {
			result = append(result, f)
		}
	}
	result = append(result, appended...)
	return result, stats
}

// candidatePairs rebuilds finder against the current filament set's
// representative node positions (segment i's representative point is node
// i, the same convention biotsavart.ShortCache uses) and returns its pair
// list.
func candidatePairs(filaments []*filament.Filament, periods vec3.Periods, finder cell.Finder, cutoff float64) []cell.Pair {
	var points []vec3.Vec3
	var refs []cell.SegRef
	segCount := make(map[int]int, len(filaments))
	for fi, f := range filaments {
		n := f.N()
		segCount[fi] = n
		for i := 1; i <= n; i++ {
			points = append(points, vec3.Wrap(f.Nodes.At(i), periods))
			refs = append(refs, cell.SegRef{Filament: fi, Segment: i})
		}
	}
	finder.Build(points, refs, periods, segCount, cutoff)
	return finder.Pairs()
}
