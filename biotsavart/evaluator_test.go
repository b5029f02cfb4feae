// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package biotsavart

import (
	"math"
	"testing"

	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

func ringPoints(n int, R float64) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec3.Vec3{R * math.Cos(theta), R * math.Sin(theta), 0}
	}
	return pts
}

func openParams() *Params {
	return &Params{
		Gamma:     1.0,
		A:         1e-4,
		Delta:     0.5,
		Periods:   vec3.Periods{math.Inf(1), math.Inf(1), math.Inf(1)},
		Alpha:     1.0,
		Rcut:      1.0,
		GridN:     [3]int{8, 8, 8},
		GaussianM: 2,
		ShortQuad: quad.GaussLegendre01(4),
		LongQuad:  quad.GaussLegendre01(4),
	}
}

func TestValidateRejectsMixedPeriods(t *testing.T) {
	p := openParams()
	p.Periods = vec3.Periods{2 * math.Pi, math.Inf(1), math.Inf(1)}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for mixed periodic/open dimensions")
	}
}

func TestValidateRejectsLargeRcut(t *testing.T) {
	p := openParams()
	p.Periods = vec3.Periods{2.0, 2.0, 2.0}
	p.Rcut = 1.5 // >= L/2
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for rcut >= min(L)/2")
	}
}

func TestValidateRejectsOddGrid(t *testing.T) {
	p := openParams()
	p.Periods = vec3.Periods{2.0, 2.0, 2.0}
	p.Rcut = 0.1
	p.GridN = [3]int{8, 9, 8}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for odd grid dimension")
	}
}

func TestValidateRejectsNonPositiveAlphaOrRcut(t *testing.T) {
	p := openParams()
	p.Alpha = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for non-positive Alpha")
	}
	p = openParams()
	p.Rcut = 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for non-positive Rcut")
	}
}

func TestValidateAcceptsSaneOpenConfig(t *testing.T) {
	p := openParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsPeriodicDetectsAnyFiniteDimension(t *testing.T) {
	p := openParams()
	if p.IsPeriodic() {
		t.Fatal("all-open params should not be periodic")
	}
	p.Periods = vec3.Periods{2.0, 2.0, 2.0}
	if !p.IsPeriodic() {
		t.Fatal("all-periodic params should be periodic")
	}
}

// A large ring's LIA-only velocity should be small, finite, and normal to
// the ring plane (driving the ring to translate along +/-z), consistent
// with the classical thin-vortex-ring self-induction direction.
func TestLIAOnRingIsNormalToPlane(t *testing.T) {
	f := filament.Init(ringPoints(64, 10.0), filament.NewFiniteDifference(2, 2), vec3.Vec3{})
	filaments := []*filament.Filament{f}
	p := openParams()

	fields := NewNodeFields([]int{f.N()})
	addLIA(fields, filaments, p)

	for i, v := range fields.V[0] {
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
			t.Fatalf("node %d: NaN velocity %v", i, v)
		}
		// in-plane components should be negligible relative to the
		// out-of-plane (z) component for a near-circular ring.
		inPlane := math.Hypot(v[0], v[1])
		if inPlane > 0.05*math.Abs(v[2])+1e-9 {
			t.Fatalf("node %d: LIA velocity not normal to ring plane: %v", i, v)
		}
	}
}

// With flags=ShortRangeNoLIA the LIA contribution must be absent even
// though ComputeOnNodes always calls fields.Reset first.
func TestShortRangeNoLIAExcludesLocalTerm(t *testing.T) {
	f := filament.Init(ringPoints(32, 5.0), filament.NewFiniteDifference(2, 2), vec3.Vec3{})
	filaments := []*filament.Filament{f}
	p := openParams()
	p.Rcut = 2.0

	cache := NewCache(p, &cell.Naive{})
	fields := NewNodeFields([]int{f.N()})

	var ev Evaluator
	ev.ComputeOnNodes(fields, cache, filaments, p, ShortRangeNoLIA)

	liaOnly := NewNodeFields([]int{f.N()})
	addLIA(liaOnly, filaments, p)

	for i := range fields.V[0] {
		// The short-range sum over a smooth ring contributes a non-trivial
		// velocity distinct from the singular LIA estimate; we only assert
		// the result is finite and not simply equal to the (unsubtracted)
		// LIA value, guarding against addLIA accidentally running too.
		v := fields.V[0][i]
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
			t.Fatalf("node %d: NaN velocity in short-range-only pass", i)
		}
		if v == liaOnly.V[0][i] {
			t.Fatalf("node %d: short-range-only velocity equals the LIA velocity %v", i, v)
		}
	}
}

// Full evaluation on an open (non-periodic) domain must skip the
// long-range grid path entirely (no Cache.Long), and still produce
// finite fields from short-range + LIA alone.
func TestFullEvaluationOpenDomainSkipsLongRange(t *testing.T) {
	f := filament.Init(ringPoints(32, 3.0), filament.NewSpline(4), vec3.Vec3{})
	filaments := []*filament.Filament{f}
	p := openParams()
	p.Rcut = 1.0

	cache := NewCache(p, &cell.Naive{})
	if cache.Long != nil {
		t.Fatal("expected nil Long cache for an all-open domain")
	}

	fields := NewNodeFields([]int{f.N()})
	var ev Evaluator
	ev.ComputeOnNodes(fields, cache, filaments, p, Full)

	for i, v := range fields.V[0] {
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
			t.Fatalf("node %d: NaN velocity in full open-domain evaluation", i)
		}
	}
}

// Short-range accumulation is chunked across goroutines internally and the
// partial sums are folded back in a fixed chunk order, so two independent
// caches built from the same filaments must give the same node velocities.
func TestComputeShortRangeDeterministicAcrossCache(t *testing.T) {
	f := filament.Init(ringPoints(48, 6.0), filament.NewFiniteDifference(2, 2), vec3.Vec3{})
	filaments := []*filament.Filament{f}
	p := openParams()
	p.Rcut = 3.0

	cacheA := NewCache(p, &cell.Naive{})
	fieldsA := NewNodeFields([]int{f.N()})
	cacheA.Short.Rebuild(filaments, p.Periods, p.Rcut)
	computeShortRange(fieldsA, filaments, p, cacheA.Short, true, true)

	cacheB := NewCache(p, &cell.Naive{})
	fieldsB := NewNodeFields([]int{f.N()})
	cacheB.Short.Rebuild(filaments, p.Periods, p.Rcut)
	computeShortRange(fieldsB, filaments, p, cacheB.Short, true, true)

	for i := range fieldsA.V[0] {
		d := vec3.Distance(fieldsA.V[0][i], fieldsB.V[0][i])
		if d > 1e-9 {
			t.Fatalf("node %d: non-deterministic short-range result, delta=%v", i, d)
		}
	}
}

// A ring in a fully periodic box goes through the whole long-range path
// (grid deposit, forward transform, kernel multiply, inverse transform,
// interpolation back to the nodes) and must give finite velocity and
// streamfunction at every node.
func TestLongRangeProducesFiniteFieldsForPeriodicRing(t *testing.T) {
	f := filament.Init(ringPoints(24, 1.5), filament.NewFiniteDifference(2, 2), vec3.Vec3{})
	filaments := []*filament.Filament{f}
	p := openParams()
	p.Periods = vec3.Periods{8.0, 8.0, 8.0}
	p.Rcut = 2.0
	p.GridN = [3]int{16, 16, 16}

	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	cache := NewCache(p, &cell.Naive{})
	if cache.Long == nil {
		t.Fatal("expected a Long cache for a fully periodic domain")
	}

	fields := NewNodeFields([]int{f.N()})
	computeLongRange(fields, filaments, p, cache.Long, true, true)

	for i, v := range fields.V[0] {
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
			t.Fatalf("node %d: NaN long-range velocity %v", i, v)
		}
		psi := fields.Psi[0][i]
		if math.IsNaN(psi[0]) || math.IsNaN(psi[1]) || math.IsNaN(psi[2]) {
			t.Fatalf("node %d: NaN long-range streamfunction %v", i, psi)
		}
	}
}

func TestShortRangeFactorsApproachOneAtSmallAlphaR(t *testing.T) {
	// as alpha*r -> 0, erfc(ar) -> 1 and the Gaussian term -> 0, so the
	// factor -> 1 (short range recovers the bare kernel close in).
	v := shortRangeVelocityFactor(1e-6, 1.0)
	if math.Abs(v-1.0) > 1e-5 {
		t.Fatalf("expected factor near 1 for small alpha*r, got %v", v)
	}
	s := shortRangeStreamfunctionFactor(1e-6, 1.0)
	if math.Abs(s-1.0) > 1e-5 {
		t.Fatalf("expected factor near 1 for small alpha*r, got %v", s)
	}
}

func TestShortRangeFactorsVanishAtLargeAlphaR(t *testing.T) {
	v := shortRangeVelocityFactor(10.0, 1.0)
	if v > 1e-6 {
		t.Fatalf("expected factor near 0 for large alpha*r, got %v", v)
	}
}
