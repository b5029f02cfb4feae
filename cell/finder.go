// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cell implements the neighbor finder of spec section 4.2: given a
// set of segment representative points in a periodic (or open) box and a
// cutoff radius, enumerate all segment pairs whose representative points
// lie within 2*cutoff of each other, accounting for periodic wrap.
//
// Two backends are provided: Naive (O(Nseg^2), used as a reference and for
// small filament counts) and Grid (the cell-list proper). Both are
// deterministic in iteration order given fixed inputs, as required by
// spec section 4.2 and the bitwise-reproducibility requirement of section
// 5.
package cell

import "github.com/subhk/vortexpasta-go/vec3"

// SegRef identifies a single segment: the index of its owning filament in
// the caller-supplied slice, and the segment's local index within that
// filament (segment i runs from node i to node i+1).
type SegRef struct {
	Filament int
	Segment  int
}

// Pair is an unordered candidate pair of segments, always stored with A
// ordered before B (by filament index, then segment index) so that the
// same geometric pair is never reported twice in different orders.
type Pair struct {
	A, B SegRef
}

func less(a, b SegRef) bool {
	if a.Filament != b.Filament {
		return a.Filament < b.Filament
	}
	return a.Segment < b.Segment
}

func orderedPair(a, b SegRef) Pair {
	if less(a, b) {
		return Pair{a, b}
	}
	return Pair{b, a}
}

// Finder enumerates candidate segment pairs within a cutoff.
type Finder interface {
	// Build indexes the given representative points (one per segment, in
	// the same order as refs) against the periodic box at the given
	// cutoff. Positions in periodic dimensions must already be folded into
	// [0,L). segCount maps a filament index to its number of segments (==
	// number of nodes for a closed curve), used to cheaply exclude a
	// segment's cyclic immediate neighbors -- always within any reasonable
	// cutoff and never a meaningful reconnection candidate.
	Build(points []vec3.Vec3, refs []SegRef, periods vec3.Periods, segCount map[int]int, cutoff float64)

	// Pairs returns every unordered pair of distinct segments whose
	// representative points are within 2*cutoff of each other under
	// periodic wrap, excluding a segment from pairing with itself or with
	// its immediate cyclic neighbor on the same filament.
	Pairs() []Pair
}

// isCyclicNeighbor reports whether segments i and j of a filament with n
// segments are the same segment or cyclically adjacent.
func isCyclicNeighbor(i, j, n int) bool {
	if n <= 0 {
		return false
	}
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 0 || d == 1 || d == n-1
}
