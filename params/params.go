// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params holds the JSON-serializable, user-facing configuration
// that a simulation is built from, mirroring the teacher's `inp.Data`/
// `inp.SolverData` pattern: a plain struct with JSON tags, a SetDefault
// that fills in the usual values, and a Validate/derive step that turns
// it into the runtime types the solver actually uses
// (`biotsavart.Params`) -- exactly the `inp.Data.PostProcess`
// struct-with-defaults-then-derived-fields idiom, applied to the
// Biot-Savart/Ewald configuration instead of a FEM mesh/material set.
package params

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
)

// BiotSavart is the on-disk configuration for the Biot-Savart evaluator:
// plain JSON-friendly fields (no *quad.Rule, no vec3.Periods's Inf
// sentinel for "open") that Build turns into a biotsavart.Params.
type BiotSavart struct {
	Circulation float64    `json:"circulation"`
	CoreRadius  float64    `json:"core_radius"`
	Delta       float64    `json:"delta"`
	Periods     [3]float64 `json:"periods"` // 0 marks an open dimension
	Alpha       float64    `json:"alpha"`
	Rcut        float64    `json:"rcut"`
	GridN       [3]int     `json:"grid_n"`
	GaussianM   int        `json:"gaussian_m"`
	QuadOrder   int        `json:"quad_order"`
	Backend     string     `json:"backend"` // "nufft" (default) or "exact_sum"
}

// SetDefault fills in the values a simulation almost always wants,
// leaving any field the caller already set untouched -- the teacher's
// SetDefault convention of only overwriting zero-valued fields.
func (c *BiotSavart) SetDefault() {
	if c.Delta == 0 {
		c.Delta = 0.5
	}
	if c.Alpha == 0 {
		c.Alpha = 1.0
	}
	if c.GaussianM == 0 {
		c.GaussianM = 6
	}
	if c.QuadOrder == 0 {
		c.QuadOrder = 4
	}
	if c.Backend == "" {
		c.Backend = "nufft"
	}
	for d := 0; d < 3; d++ {
		if c.GridN[d] == 0 {
			c.GridN[d] = 32
		}
	}
}

// Build validates c and constructs the runtime biotsavart.Params it
// describes. A period of exactly 0 in any dimension marks that dimension
// open (mapped to +Inf, vec3.Periods's open-dimension sentinel).
func (c BiotSavart) Build() (*biotsavart.Params, error) {
	if c.Circulation == 0 {
		return nil, chk.Err("params: circulation must be nonzero")
	}
	if c.CoreRadius <= 0 {
		return nil, chk.Err("params: core_radius must be positive")
	}

	var periods vec3.Periods
	for d := 0; d < 3; d++ {
		if c.Periods[d] == 0 {
			periods[d] = math.Inf(1)
		} else {
			periods[d] = c.Periods[d]
		}
	}

	var backend biotsavart.BackendLong
	switch c.Backend {
	case "", "nufft":
		backend = biotsavart.BackendNUFFT
	case "exact_sum":
		backend = biotsavart.BackendExactSum
	default:
		return nil, chk.Err("params: unknown backend %q", c.Backend)
	}

	rule := quad.GaussLegendre01(c.QuadOrder)

	p := &biotsavart.Params{
		Gamma:       c.Circulation,
		A:           c.CoreRadius,
		Delta:       c.Delta,
		Periods:     periods,
		Alpha:       c.Alpha,
		Rcut:        c.Rcut,
		GridN:       c.GridN,
		GaussianM:   c.GaussianM,
		ShortQuad:   rule,
		LongQuad:    rule,
		BackendLong: backend,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
