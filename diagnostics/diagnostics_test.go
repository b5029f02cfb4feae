// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"math"
	"testing"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

func ringPoints(n int, radius float64) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec3.Vec3{radius * math.Cos(theta), radius * math.Sin(theta), 0}
	}
	return pts
}

func TestLineLengthMatchesCircumference(t *testing.T) {
	radius := 2.0
	f := filament.Init(ringPoints(64, radius), filament.NewSpline(4), vec3.Zero)
	rule := quad.GaussLegendre01(6)
	got := LineLength([]*filament.Filament{f}, rule)
	want := 2 * math.Pi * radius
	if math.Abs(got-want)/want > 1e-3 {
		t.Fatalf("got length %v, want approximately %v", got, want)
	}
}

func TestImpulseOfPlanarRingIsAlongAxis(t *testing.T) {
	f := filament.Init(ringPoints(48, 1.5), filament.NewSpline(4), vec3.Zero)
	imp := Impulse([]*filament.Filament{f}, 1.0)
	if math.Abs(imp[0]) > 1e-6 || math.Abs(imp[1]) > 1e-6 {
		t.Fatalf("expected the impulse of a ring in the xy-plane to be purely along z, got %v", imp)
	}
	if imp[2] == 0 {
		t.Fatalf("expected a nonzero z-component, got %v", imp)
	}
}

func TestKineticEnergyParsevalNonNegativeForAlignedFields(t *testing.T) {
	fields := biotsavart.NewNodeFields([]int{2})
	fields.V[0][0] = vec3.Vec3{1, 0, 0}
	fields.V[0][1] = vec3.Vec3{0, 1, 0}
	fields.Psi[0][0] = vec3.Vec3{2, 0, 0}
	fields.Psi[0][1] = vec3.Vec3{0, 2, 0}
	e := KineticEnergyParseval(fields)
	if e <= 0 {
		t.Fatalf("expected positive energy for aligned v/psi, got %v", e)
	}
}

func TestEnergySpectrumFalseWithoutLongRangePass(t *testing.T) {
	lc := biotsavart.NewLongCache([3]int{4, 4, 4})
	if _, ok := EnergySpectrum(lc, 4); ok {
		t.Fatalf("expected ok=false before any long-range pass has populated the cache")
	}
}

func TestEnergySpectrumAfterLongRangePass(t *testing.T) {
	p := &biotsavart.Params{
		Gamma:     1.0,
		A:         1e-3,
		Delta:     0.5,
		Periods:   vec3.Periods{2 * math.Pi, 2 * math.Pi, 2 * math.Pi},
		Alpha:     1.0,
		Rcut:      1.0,
		GridN:     [3]int{8, 8, 8},
		GaussianM: 2,
		ShortQuad: quad.GaussLegendre01(4),
		LongQuad:  quad.GaussLegendre01(4),
	}
	f := filament.Init(ringPoints(24, 1.0), filament.NewSpline(4), vec3.Zero)
	cache := biotsavart.NewCache(p, nil)
	fields := biotsavart.NewNodeFields([]int{f.N()})
	biotsavart.Evaluator{}.ComputeOnNodes(fields, cache, []*filament.Filament{f}, p, biotsavart.LongRange)

	bins, ok := EnergySpectrum(cache.Long, 6)
	if !ok {
		t.Fatalf("expected ok=true after a long-range pass")
	}
	if len(bins) != 6 {
		t.Fatalf("expected 6 bins, got %d", len(bins))
	}
	total := TotalSpectralEnergy(bins)
	if total < 0 {
		t.Fatalf("expected non-negative total spectral energy, got %v", total)
	}
}
