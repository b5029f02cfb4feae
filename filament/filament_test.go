// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filament

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

// ringPoints returns n equally spaced points on a circle of radius R in
// the xy-plane, a standard seed geometry for filament tests.
func ringPoints(n int, R float64) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec3.Vec3{R * math.Cos(theta), R * math.Sin(theta), 0}
	}
	return pts
}

func TestFiniteDifferenceReproducesRingLength(tst *testing.T) {
	chk.PrintTitle("filament. finite-difference ring length approaches 2*pi*R as N grows")
	R := 1.0
	rule := quad.GaussLegendre01(6)
	prevErr := math.Inf(1)
	for _, n := range []int{16, 32, 64} {
		f := Init(ringPoints(n, R), NewFiniteDifference(2, 2), vec3.Vec3{})
		length := f.Length(rule)
		err := math.Abs(length - 2*math.Pi*R)
		if err >= prevErr*0.6 {
			tst.Errorf("expected refinement to reduce length error: n=%d err=%v prevErr=%v", n, err, prevErr)
		}
		prevErr = err
	}
}

func TestSplineReproducesRingLength(tst *testing.T) {
	chk.PrintTitle("filament. cubic spline ring length approaches 2*pi*R as N grows")
	R := 1.0
	rule := quad.GaussLegendre01(6)
	f := Init(ringPoints(64, R), NewSpline(4), vec3.Vec3{})
	length := f.Length(rule)
	chk.Scalar(tst, "length", 1e-2, length, 2*math.Pi*R)
}

func TestTangentIsUnitNorm(tst *testing.T) {
	chk.PrintTitle("filament. UnitTangent always has unit norm")
	f := Init(ringPoints(40, 1.0), NewFiniteDifference(1, 1), vec3.Vec3{})
	for i := 1; i <= f.N(); i++ {
		t := f.UnitTangent(i, 0.5)
		chk.Scalar(tst, "|t|", 1e-9, vec3.Norm(t), 1.0)
	}
}

func TestRingCurvatureMatchesOneOverR(tst *testing.T) {
	chk.PrintTitle("filament. planar ring curvature magnitude approaches 1/R")
	R := 2.0
	f := Init(ringPoints(200, R), NewSpline(6), vec3.Vec3{})
	kappa := f.CurvatureScalar(100, 0.5)
	chk.Scalar(tst, "kappa", 5e-2, kappa, 1.0/R)
}

func TestCheckNodesDetectsDegeneracy(tst *testing.T) {
	chk.PrintTitle("filament. CheckNodes rejects a coincident-node filament")
	pts := ringPoints(6, 1.0)
	f := Init(pts, NewFiniteDifference(1, 1), vec3.Vec3{})
	f.Nodes.Set(2, f.Nodes.At(1))
	if f.CheckNodes() {
		tst.Errorf("expected CheckNodes to detect the coincident pair")
	}
}

func TestFoldPeriodicRecentresNodes(tst *testing.T) {
	chk.PrintTitle("filament. FoldPeriodic wraps nodes back into the box")
	pts := ringPoints(20, 1.0)
	for i := range pts {
		pts[i][0] += 10 // push the whole ring outside a box of side 10
	}
	f := Init(pts, NewFiniteDifference(1, 1), vec3.Vec3{})
	periods := vec3.Periods{10, 10, 10}
	moved := f.FoldPeriodic(periods)
	if !moved {
		tst.Fatalf("expected FoldPeriodic to report a change")
	}
	for i := 1; i <= f.N(); i++ {
		p := f.Nodes.At(i)
		if p[0] < 0 || p[0] >= 10 {
			tst.Errorf("node %d not folded into [0,10): %v", i, p)
		}
	}
}

func TestRefineInsertsOnLongSegments(tst *testing.T) {
	chk.PrintTitle("filament. BasedOnSegmentLength inserts a midpoint on an over-long segment")
	pts := ringPoints(8, 1.0)
	f := Init(pts, NewFiniteDifference(1, 1), vec3.Vec3{})
	before := f.N()
	crit := BasedOnSegmentLength{Lmin: 0, Lmax: f.MinimumNodeDistance() * 0.5}
	ins, rem, ok := f.Refine(crit)
	if !ok {
		tst.Fatalf("refine reported degeneracy unexpectedly")
	}
	if ins == 0 || rem != 0 {
		tst.Errorf("expected only insertions, got ins=%d rem=%d", ins, rem)
	}
	if f.N() != before+ins {
		tst.Errorf("node count mismatch after refine: got %d want %d", f.N(), before+ins)
	}
}

func TestSplitProducesTwoValidLoops(tst *testing.T) {
	chk.PrintTitle("filament. Split cuts one loop into two non-degenerate children")
	pts := ringPoints(20, 1.0)
	f := Init(pts, NewFiniteDifference(1, 1), vec3.Vec3{})
	a, b, ok := f.Split(2, 12, vec3.Vec3{}, NewFiniteDifference(1, 1))
	if !ok {
		tst.Fatalf("expected a valid split")
	}
	if a.N()+b.N() != f.N() {
		tst.Errorf("node counts don't add up: %d + %d != %d", a.N(), b.N(), f.N())
	}
	if !a.CheckNodes() || !b.CheckNodes() {
		tst.Errorf("expected both children to be non-degenerate")
	}
}

func TestMergeReassemblesOneLoop(tst *testing.T) {
	chk.PrintTitle("filament. Merge re-joins two filaments into one")
	a := Init(ringPoints(10, 1.0), NewFiniteDifference(1, 1), vec3.Vec3{})
	b := Init(ringPoints(10, 1.5), NewFiniteDifference(1, 1), vec3.Vec3{})
	merged, ok := a.Merge(b, 3, 4, vec3.Vec3{}, NewFiniteDifference(1, 1))
	if !ok {
		tst.Fatalf("expected a valid merge")
	}
	if merged.N() != a.N()+b.N() {
		tst.Errorf("expected %d nodes, got %d", a.N()+b.N(), merged.N())
	}
}

func TestRefineIsIdempotentOnSecondPass(tst *testing.T) {
	chk.PrintTitle("filament. BasedOnSegmentLength performs zero operations once the criterion is already satisfied (spec section 8 scenario 5)")
	pts := ringPoints(16, 1.0)
	f := Init(pts, NewFiniteDifference(1, 1), vec3.Vec3{})
	crit := BasedOnSegmentLength{Lmin: 0.1, Lmax: 0.3}

	insFirst, remFirst, ok := f.Refine(crit)
	if !ok {
		tst.Fatalf("refine reported degeneracy unexpectedly on the first pass")
	}

	knotsAfterFirst := append([]float64(nil), f.Knots...)

	insSecond, remSecond, ok := f.Refine(crit)
	if !ok {
		tst.Fatalf("refine reported degeneracy unexpectedly on the second pass")
	}
	if insSecond != 0 || remSecond != 0 {
		tst.Errorf("expected zero insertions/removals on the second pass once the criterion holds, got ins=%d rem=%d (first pass: ins=%d rem=%d)",
			insSecond, remSecond, insFirst, remFirst)
	}
	if len(f.Knots) != len(knotsAfterFirst) {
		tst.Fatalf("expected knot count unchanged by the no-op second pass: %d vs %d", len(f.Knots), len(knotsAfterFirst))
	}
	for i := range f.Knots {
		if math.Abs(f.Knots[i]-knotsAfterFirst[i]) > 1e-12 {
			tst.Errorf("expected t values unchanged by the no-op second pass, index %d: %v vs %v", i, f.Knots[i], knotsAfterFirst[i])
		}
	}
}
