// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"math"

	"github.com/subhk/vortexpasta-go/vec3"
)

// Grid is the cell-list neighbor finder. It partitions the box into cells
// of side >= 2*cutoff (the pair distance limit, so every pair within range
// lies in the same or an adjacent cell) and enumerates pairs by visiting, for each segment, its
// own cell and the (up to) 26 neighboring cells, replicating the index ring
// by one in each periodic direction as required by spec section 4.2.
//
// Bucket contents are stored in a dense array (no map in the hot path) and
// appended in the caller-supplied order (filament index, then segment
// index), which is what makes iteration order -- and therefore the pairs
// slice -- deterministic given fixed inputs.
type Grid struct {
	points   []vec3.Vec3
	refs     []SegRef
	periods  vec3.Periods
	segCount map[int]int
	cutoff   float64

	ncells   [3]int
	cellSize [3]float64
	lo       [3]float64
	periodic [3]bool
	buckets  [][]int // flattened cell index -> point indices, insertion order
}

// Build implements Finder.
func (o *Grid) Build(points []vec3.Vec3, refs []SegRef, periods vec3.Periods, segCount map[int]int, cutoff float64) {
	o.points = points
	o.refs = refs
	o.periods = periods
	o.segCount = segCount
	o.cutoff = cutoff

	for d := 0; d < 3; d++ {
		o.periodic[d] = periods.IsPeriodic(d)
		if o.periodic[d] {
			o.lo[d] = 0
			n := int(math.Floor(periods[d] / (2 * cutoff)))
			if n < 1 {
				n = 1
			}
			o.ncells[d] = n
			o.cellSize[d] = periods[d] / float64(n)
		} else {
			lo, hi := boundingRange(points, d)
			// pad so that points exactly at the boundary still fall
			// inside a cell, and so an empty/degenerate range still
			// yields one usable cell.
			span := hi - lo
			if span <= 0 {
				span = cutoff
			}
			o.lo[d] = lo - 0.5*cutoff
			n := int(math.Floor((span + cutoff) / (2 * cutoff)))
			if n < 1 {
				n = 1
			}
			o.ncells[d] = n
			o.cellSize[d] = (span + cutoff) / float64(n)
		}
	}

	nb := o.ncells[0] * o.ncells[1] * o.ncells[2]
	o.buckets = make([][]int, nb)
	for idx, p := range points {
		c := o.cellIndexClamped(p)
		flat := o.flatten(c)
		o.buckets[flat] = append(o.buckets[flat], idx)
	}
}

func boundingRange(points []vec3.Vec3, d int) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi = points[0][d], points[0][d]
	for _, p := range points[1:] {
		if p[d] < lo {
			lo = p[d]
		}
		if p[d] > hi {
			hi = p[d]
		}
	}
	return
}

func (o *Grid) cellIndexClamped(p vec3.Vec3) [3]int {
	var c [3]int
	for d := 0; d < 3; d++ {
		idx := int(math.Floor((p[d] - o.lo[d]) / o.cellSize[d]))
		if o.periodic[d] {
			idx = ((idx % o.ncells[d]) + o.ncells[d]) % o.ncells[d]
		} else {
			if idx < 0 {
				idx = 0
			}
			if idx >= o.ncells[d] {
				idx = o.ncells[d] - 1
			}
		}
		c[d] = idx
	}
	return c
}

func (o *Grid) flatten(c [3]int) int {
	return (c[2]*o.ncells[1]+c[1])*o.ncells[0] + c[0]
}

// Pairs implements Finder.
func (o *Grid) Pairs() []Pair {
	limit := 2 * o.cutoff
	limit2 := limit * limit
	seen := make(map[Pair]bool)
	var out []Pair

	nx, ny, nz := o.ncells[0], o.ncells[1], o.ncells[2]
	for cz := 0; cz < nz; cz++ {
		for cy := 0; cy < ny; cy++ {
			for cx := 0; cx < nx; cx++ {
				home := o.flatten([3]int{cx, cy, cz})
				for _, i := range o.buckets[home] {
					for dz := -1; dz <= 1; dz++ {
						for dy := -1; dy <= 1; dy++ {
							for dx := -1; dx <= 1; dx++ {
								nc, ok := o.neighborCell(cx, cy, cz, dx, dy, dz)
								if !ok {
									continue
								}
								other := o.flatten(nc)
								for _, j := range o.buckets[other] {
									if j <= i {
										continue // each unordered pair visited once
									}
									a, b := o.refs[i], o.refs[j]
									if a.Filament == b.Filament && isCyclicNeighbor(a.Segment, b.Segment, o.segCount[a.Filament]) {
										continue
									}
									d := vec3.NearestImage(o.points[i], o.points[j], o.periods)
									if vec3.Dot(d, d) > limit2 {
										continue
									}
									pr := orderedPair(a, b)
									if seen[pr] {
										continue
									}
									seen[pr] = true
									out = append(out, pr)
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

// neighborCell returns the wrapped (periodic dims) or clamped-out (open
// dims) neighbor cell index of (cx,cy,cz) shifted by (dx,dy,dz).
func (o *Grid) neighborCell(cx, cy, cz, dx, dy, dz int) ([3]int, bool) {
	shift := [3]int{dx, dy, dz}
	base := [3]int{cx, cy, cz}
	var out [3]int
	for d := 0; d < 3; d++ {
		v := base[d] + shift[d]
		n := o.ncells[d]
		if o.periodic[d] {
			v = ((v % n) + n) % n
		} else {
			if v < 0 || v >= n {
				return [3]int{}, false
			}
		}
		out[d] = v
	}
	return out, true
}
