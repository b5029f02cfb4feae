// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forcing implements the external-field, stretching, and
// mutual-friction hooks of spec section 4.7, invoked by the time
// integrator at the points the spec names.
//
// External velocity/streamfunction components are typed as gosl/fun.Func
// (F(t float64, x []float64) float64), the same "named function of time
// and space" pattern the teacher uses throughout fem/inp for boundary
// conditions (inp.FaceCond.Func, fem.EssentialBcs.Fcn), rather than a
// bespoke closure type.
package forcing

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// ExternalVelocity is an additive velocity field sampled at node positions
// and the current time (spec section 4.7).
type ExternalVelocity struct {
	Fx, Fy, Fz fun.Func
}

// Evaluate returns the field value at x, t.
func (f ExternalVelocity) Evaluate(x vec3.Vec3, t float64) vec3.Vec3 {
	xs := []float64{x[0], x[1], x[2]}
	return vec3.Vec3{f.Fx.F(t, xs), f.Fy.F(t, xs), f.Fz.F(t, xs)}
}

// ExternalStreamfunction is an additive streamfunction field, sampled with
// a factor of 2 so that the half-sum kinetic-energy identity (spec
// section 4.9's diagnostics) remains correct when this term is present.
type ExternalStreamfunction struct {
	Fx, Fy, Fz fun.Func
}

// Evaluate returns 2*the field value at x, t.
func (f ExternalStreamfunction) Evaluate(x vec3.Vec3, t float64) vec3.Vec3 {
	xs := []float64{x[0], x[1], x[2]}
	return vec3.Vec3{2 * f.Fx.F(t, xs), 2 * f.Fy.F(t, xs), 2 * f.Fz.F(t, xs)}
}

// Stretching adds a velocity -v_L(kappa)*n_hat along the filament's inward
// normal, where v_L is a user-supplied function of the scalar curvature.
type Stretching struct {
	VL func(kappa float64) float64
}

// CheckCurlConsistency is spec section 7.4's numerical warning: it
// samples ev and es at x,t and compares ev's value against a
// central-difference curl of es's underlying vector potential (the raw
// Fx,Fy,Fz components, not the factor-of-2 Evaluate form), returning the
// maximum componentwise absolute discrepancy. The caller (problem.New)
// decides the tolerance and whether to surface it via xlog.Warnf; this
// function only computes the mismatch.
func CheckCurlConsistency(ev ExternalVelocity, es ExternalStreamfunction, x vec3.Vec3, t, h float64) (maxAbsErr float64) {
	partial := func(f func(vec3.Vec3) float64, axis int) float64 {
		plus, minus := x, x
		plus[axis] += h
		minus[axis] -= h
		return (f(plus) - f(minus)) / (2 * h)
	}
	psiX := func(p vec3.Vec3) float64 { return es.Fx.F(t, []float64{p[0], p[1], p[2]}) }
	psiY := func(p vec3.Vec3) float64 { return es.Fy.F(t, []float64{p[0], p[1], p[2]}) }
	psiZ := func(p vec3.Vec3) float64 { return es.Fz.F(t, []float64{p[0], p[1], p[2]}) }

	curl := vec3.Vec3{
		partial(psiZ, 1) - partial(psiY, 2),
		partial(psiX, 2) - partial(psiZ, 0),
		partial(psiY, 0) - partial(psiX, 1),
	}
	v := ev.Evaluate(x, t)
	for axis := 0; axis < 3; axis++ {
		if d := math.Abs(v[axis] - curl[axis]); d > maxAbsErr {
			maxAbsErr = d
		}
	}
	return maxAbsErr
}

// Velocity evaluates the stretching contribution at parameter zeta inside
// segment i of f.
func (s Stretching) Velocity(f *filament.Filament, i int, zeta float64) vec3.Vec3 {
	kvec := f.CurvatureVector(i, zeta)
	kappa := vec3.Norm(kvec)
	if kappa == 0 {
		return vec3.Zero
	}
	nhat := vec3.Scale(1.0/kappa, kvec)
	return vec3.Scale(-s.VL(kappa), nhat)
}

// MutualFriction implements the HVBK normal-fluid coupling law of spec
// section 4.7:
//
//	v_L = v_s + alpha*(v_n-v_s) x that - alpha'*that x ((v_n-v_s) x that)
type MutualFriction struct {
	Alpha, AlphaPrime float64
}

// LineVelocity returns the advected line velocity v_L given the
// self-induced velocity vs, the normal-fluid velocity vn, and the unit
// tangent. vs itself is left unchanged by this call so the caller can
// still report it separately for diagnostics, per spec section 4.7.
func (m MutualFriction) LineVelocity(vs, vn, tangent vec3.Vec3) vec3.Vec3 {
	diff := vec3.Sub(vn, vs)
	cross1 := vec3.Cross(diff, tangent)
	cross2 := vec3.Cross(tangent, cross1)
	vL := vec3.AddScaled(vs, m.Alpha, cross1)
	vL = vec3.AddScaled(vL, -m.AlphaPrime, cross2)
	return vL
}
