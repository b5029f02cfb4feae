// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate implements the time-integration schemes and the
// per-step orchestration loop of spec section 4.6: explicit Runge-Kutta,
// IMEX, and multirate MRI-GARK schemes; adaptive timestep control from
// segment length or maximum velocity; and the Solver type that runs the
// ten numbered steps of spec section 4.6 in order, grounded directly on
// fem.SolverImplicit.Run's reject/halve/restore loop.
package integrate

import (
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// VelocityFunc evaluates a right-hand-side velocity field at time t for
// the given filaments' *current* node positions (the caller must already
// have called Filament.UpdateCoefficients on every filament whose nodes it
// moved). The returned slice is indexed the same way as filaments, and
// each inner slice the same way as Filament.VisiblePoints.
type VelocityFunc func(t float64, filaments []*filament.Filament) [][]vec3.Vec3

// Scheme is a time-stepping method. Integrate computes the per-node
// displacement (dt*v_eff, already scaled) that would advance filaments
// from their current state over [t, t+dt], restoring filaments to their
// starting positions before returning so the caller (Solver.Step) decides
// whether to accept or reject the step. slow and fast are the two
// right-hand-side components spec section 4.6 names for the IMEX/MRI-GARK
// schemes; explicit RK schemes simply sum them at every stage, which means
// a caller that has no split to offer can pass slow=full, fast=a
// zero-valued VelocityFunc.
type Scheme interface {
	Name() string
	Integrate(filaments []*filament.Filament, t, dt float64, slow, fast VelocityFunc) (disp [][]vec3.Vec3)
}

// ExplicitRK is a classic explicit Runge-Kutta scheme given by a strictly
// lower-triangular stage matrix A, weights B, and stage offsets C.
type ExplicitRK struct {
	NameStr string
	A       [][]float64
	B       []float64
	C       []float64
}

func (s ExplicitRK) Name() string { return s.NameStr }

// Euler is the 1-stage forward Euler scheme.
func Euler() ExplicitRK {
	return ExplicitRK{NameStr: "euler", A: [][]float64{{0}}, B: []float64{1}, C: []float64{0}}
}

// Midpoint is the classic 2-stage explicit midpoint scheme.
func Midpoint() ExplicitRK {
	return ExplicitRK{
		NameStr: "midpoint",
		A:       [][]float64{{0, 0}, {0.5, 0}},
		B:       []float64{0, 1},
		C:       []float64{0, 0.5},
	}
}

// RK4 is the classic 4-stage, 4th-order Runge-Kutta scheme.
func RK4() ExplicitRK {
	return ExplicitRK{
		NameStr: "rk4",
		A: [][]float64{
			{0, 0, 0, 0},
			{0.5, 0, 0, 0},
			{0, 0.5, 0, 0},
			{0, 0, 1, 0},
		},
		B: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
		C: []float64{0, 0.5, 0.5, 1},
	}
}

// snapshot returns the current visible node positions of every filament.
func snapshot(filaments []*filament.Filament) [][]vec3.Vec3 {
	out := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		out[fi] = f.VisiblePoints()
	}
	return out
}

// setPositions overwrites every filament's visible nodes from x and
// refreshes its interpolation coefficients.
func setPositions(filaments []*filament.Filament, x [][]vec3.Vec3) {
	for fi, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			f.Nodes.Set(i, x[fi][i-1])
		}
		f.UpdateCoefficients()
	}
}

// addVelocityFields returns a+b elementwise; either may be nil, in which
// case it is treated as all-zero.
func addVelocityFields(a, b [][]vec3.Vec3) [][]vec3.Vec3 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := make([][]vec3.Vec3, len(a))
	for fi := range a {
		out[fi] = make([]vec3.Vec3, len(a[fi]))
		for i := range a[fi] {
			out[fi][i] = vec3.Add(a[fi][i], b[fi][i])
		}
	}
	return out
}

// Integrate implements Scheme for ExplicitRK: each stage is evaluated at
// X0 + dt*sum_j<stage A[stage][j]*k[j], and the final displacement is
// dt*sum_stage B[stage]*k[stage], the standard explicit Butcher-tableau
// update.
func (s ExplicitRK) Integrate(filaments []*filament.Filament, t, dt float64, slow, fast VelocityFunc) [][]vec3.Vec3 {
	x0 := snapshot(filaments)
	stages := len(s.B)
	k := make([][][]vec3.Vec3, stages)

	for st := 0; st < stages; st++ {
		xStage := make([][]vec3.Vec3, len(filaments))
		for fi, f := range filaments {
			xStage[fi] = make([]vec3.Vec3, f.N())
			for i := 0; i < f.N(); i++ {
				x := x0[fi][i]
				for j := 0; j < st; j++ {
					if s.A[st][j] == 0 {
						continue
					}
					x = vec3.AddScaled(x, dt*s.A[st][j], k[j][fi][i])
				}
				xStage[fi][i] = x
			}
		}
		setPositions(filaments, xStage)
		k[st] = addVelocityFields(slow(t+s.C[st]*dt, filaments), fast(t+s.C[st]*dt, filaments))
	}

	disp := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		disp[fi] = make([]vec3.Vec3, f.N())
		for i := 0; i < f.N(); i++ {
			d := vec3.Zero
			for st := 0; st < stages; st++ {
				if s.B[st] == 0 {
					continue
				}
				d = vec3.AddScaled(d, dt*s.B[st], k[st][fi][i])
			}
			disp[fi][i] = d
		}
	}

	setPositions(filaments, x0)
	return disp
}

// ZeroVelocity is a VelocityFunc that contributes nothing; used as the
// "fast" term for schemes (ExplicitRK) that do not split the right-hand
// side.
func ZeroVelocity(t float64, filaments []*filament.Filament) [][]vec3.Vec3 {
	out := make([][]vec3.Vec3, len(filaments))
	for fi, f := range filaments {
		out[fi] = make([]vec3.Vec3, f.N())
	}
	return out
}
