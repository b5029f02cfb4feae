// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "github.com/subhk/vortexpasta-go/vec3"

// Naive is the O(Nseg^2) reference neighbor finder: it checks every pair of
// segments explicitly. Used for small filament counts and for cross-checking
// Grid (spec section 8 scenario 4); problem.New uses it when no finder is
// configured.
type Naive struct {
	points   []vec3.Vec3
	refs     []SegRef
	periods  vec3.Periods
	segCount map[int]int
	cutoff   float64
}

// Build implements Finder.
func (o *Naive) Build(points []vec3.Vec3, refs []SegRef, periods vec3.Periods, segCount map[int]int, cutoff float64) {
	o.points = points
	o.refs = refs
	o.periods = periods
	o.segCount = segCount
	o.cutoff = cutoff
}

// Pairs implements Finder.
func (o *Naive) Pairs() []Pair {
	limit := 2 * o.cutoff
	limit2 := limit * limit
	var out []Pair
	for i := 0; i < len(o.points); i++ {
		for j := i + 1; j < len(o.points); j++ {
			a, b := o.refs[i], o.refs[j]
			if a.Filament == b.Filament && isCyclicNeighbor(a.Segment, b.Segment, o.segCount[a.Filament]) {
				continue
			}
			d := vec3.NearestImage(o.points[i], o.points[j], o.periods)
			if vec3.Dot(d, d) <= limit2 {
				out = append(out, orderedPair(a, b))
			}
		}
	}
	return out
}
