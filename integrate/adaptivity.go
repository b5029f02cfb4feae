// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/mathconst"
)

// Info is the per-step state an Adaptivity criterion needs to estimate
// the next dt and the acceptance ceiling for the current one: the
// minimum node distance over all filaments and the maximum nodal
// velocity magnitude observed this step.
type Info struct {
	MinNodeDistance float64
	MaxVelocity     float64
}

// Adaptivity is a timestep-control criterion (spec section 4.6). NextDt
// proposes the timestep for the upcoming step; Ceiling returns the
// maximum nodal displacement |v|*dt the current step may produce before
// Solver.Step rejects and halves dt (spec section 4.6 step 3). A
// criterion with no natural displacement ceiling (NoAdaptivity) returns
// +Inf so the step is never rejected on that basis.
type Adaptivity interface {
	NextDt(info Info, dt float64) float64
	Ceiling(info Info) float64
}

// NoAdaptivity leaves dt unchanged and never rejects a step.
type NoAdaptivity struct{}

func (NoAdaptivity) NextDt(info Info, dt float64) float64 { return dt }
func (NoAdaptivity) Ceiling(info Info) float64            { return math.Inf(1) }

// BasedOnSegmentLength proposes dt = Gamma*T_KW(delta), delta the
// minimum node distance, T_KW the Kelvin-wave period of spec section 4.6:
// T_KW(lambda) = (2*lambda^2/Circulation) * [ln(lambda/(pi*A)) + 1/2 -
// (Delta + EulerGamma)]^-1.
type BasedOnSegmentLength struct {
	GammaFactor float64 // the gamma multiplier in dt = gamma*T_KW(delta)
	Circulation float64
	CoreRadius  float64
	Delta       float64
}

// NewBasedOnSegmentLength builds the criterion from a Biot-Savart Params,
// reading Circulation/CoreRadius/Delta from it (spec section 4.6's
// T_KW depends on the same Gamma, a, Delta as the LIA desingularization).
func NewBasedOnSegmentLength(gamma float64, p *biotsavart.Params) BasedOnSegmentLength {
	return BasedOnSegmentLength{GammaFactor: gamma, Circulation: p.Gamma, CoreRadius: p.A, Delta: p.Delta}
}

func kelvinWavePeriod(lambda, circulation, a, delta float64) float64 {
	logTerm := math.Log(lambda/(math.Pi*a)) + 0.5 - (delta + mathconst.EulerGamma)
	return (2 * lambda * lambda / circulation) / logTerm
}

func (c BasedOnSegmentLength) NextDt(info Info, dt float64) float64 {
	return c.GammaFactor * kelvinWavePeriod(info.MinNodeDistance, c.Circulation, c.CoreRadius, c.Delta)
}

func (c BasedOnSegmentLength) Ceiling(info Info) float64 {
	return info.MinNodeDistance
}

// BasedOnVelocity proposes dt = Delta/max|v|.
type BasedOnVelocity struct {
	Delta float64
}

func (c BasedOnVelocity) NextDt(info Info, dt float64) float64 {
	if info.MaxVelocity == 0 {
		return dt
	}
	return c.Delta / info.MaxVelocity
}

func (c BasedOnVelocity) Ceiling(info Info) float64 {
	return c.Delta
}

// Combined is the disjunction of several criteria: dt is the minimum
// proposal, and the ceiling is the minimum ceiling, per spec section 4.6.
type Combined []Adaptivity

func (c Combined) NextDt(info Info, dt float64) float64 {
	best := dt
	first := true
	for _, a := range c {
		v := a.NextDt(info, dt)
		if first || v < best {
			best = v
			first = false
		}
	}
	return best
}

func (c Combined) Ceiling(info Info) float64 {
	best := math.Inf(1)
	for _, a := range c {
		if v := a.Ceiling(info); v < best {
			best = v
		}
	}
	return best
}
