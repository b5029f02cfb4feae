// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reconnect implements the reconnection engine of spec section
// 4.5: detecting near-miss segment pairs via the cell neighbor finder and
// surgically splitting or merging filaments while preserving periodic
// topology.
package reconnect

import (
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Candidate is the verified reconnection descriptor of spec section 3: the
// periodic displacement p to apply to one side during the surgery.
type Candidate struct {
	P vec3.Vec3
}

// Criterion decides, for a pair of segments (fa,i) and (fb,j), whether they
// should reconnect, and if so under which periodic image.
type Criterion interface {
	Check(fa, fb *filament.Filament, i, j int, periods vec3.Periods) (Candidate, bool)
}

// BasedOnDistance is the criterion of spec section 4.5: minimum distance
// below Dcrit, filtered by an antiparallel tangent check, with the
// periodic image chosen by the closest representative-point wrap.
type BasedOnDistance struct {
	Dcrit float64

	// Precise samples the curve's own parametrization (via fa/fb.Evaluate)
	// at NSamples points per segment instead of treating the segment as a
	// straight line between its two endpoint nodes. Spec section 4.5
	// leaves this as an implementation option.
	Precise  bool
	NSamples int // only used when Precise; defaults to 4 when <= 1
}

// Check implements Criterion.
func (c BasedOnDistance) Check(fa, fb *filament.Filament, i, j int, periods vec3.Periods) (Candidate, bool) {
	a0, a1 := fa.Nodes.At(i), fa.Nodes.At(i+1)
	b0, b1 := fb.Nodes.At(j), fb.Nodes.At(j+1)

	amid := vec3.Scale(0.5, vec3.Add(a0, a1))
	bmid := vec3.Scale(0.5, vec3.Add(b0, b1))
	_, n := vec3.PeriodicDisplacement(amid, bmid, periods)
	shift := vec3.Vec3{float64(n[0]) * periods[0], float64(n[1]) * periods[1], float64(n[2]) * periods[2]}
	b0s, b1s := vec3.Add(b0, shift), vec3.Add(b1, shift)

	var d float64
	if c.Precise {
		d = preciseMinDist(fa, i, fb, j, shift, c.NSamples)
	} else {
		d, _, _ = closestPointsSegments(a0, a1, b0s, b1s)
	}
	if d >= c.Dcrit {
		return Candidate{}, false
	}

	da := vec3.Sub(a1, a0)
	db := vec3.Sub(b1s, b0s)
	ta, tb := vec3.Normalize(da), vec3.Normalize(db)
	if vec3.Dot(ta, tb) >= 0 {
		// grazing/parallel approach, not a genuine reconnection candidate.
		return Candidate{}, false
	}

	return Candidate{P: shift}, true
}

// preciseMinDist samples both segments' own parametrization (Hermite or
// spline, whichever backend each filament uses) instead of the straight
// chord between endpoint nodes, and returns the smallest pairwise sample
// distance after b has been shifted into a's periodic image.
func preciseMinDist(fa *filament.Filament, i int, fb *filament.Filament, j int, shift vec3.Vec3, nSamples int) float64 {
	if nSamples <= 1 {
		nSamples = 4
	}
	as := make([]vec3.Vec3, nSamples+1)
	bs := make([]vec3.Vec3, nSamples+1)
	for k := 0; k <= nSamples; k++ {
		zeta := float64(k) / float64(nSamples)
		as[k] = fa.Evaluate(i, zeta, 0)
		bs[k] = vec3.Add(fb.Evaluate(j, zeta, 0), shift)
	}
	best := vec3.Distance(as[0], bs[0])
	for _, pa := range as {
		for _, pb := range bs {
			d := vec3.Distance(pa, pb)
			if d < best {
				best = d
			}
		}
	}
	return best
}

// closestPointsSegments is the classic closest-point-between-two-segments
// construction (Ericson, "Real-Time Collision Detection" sect. 5.1.9): no
// package in the retrieval pack offers this small piece of computational
// geometry, so it is written directly against vec3 rather than reached for
// from an external library.
func closestPointsSegments(p0, p1, q0, q1 vec3.Vec3) (dist, s, t float64) {
	const eps = 1e-12
	d1 := vec3.Sub(p1, p0)
	d2 := vec3.Sub(q1, q0)
	r := vec3.Sub(p0, q0)
	a := vec3.Dot(d1, d1)
	e := vec3.Dot(d2, d2)
	f := vec3.Dot(d2, r)

	switch {
	case a <= eps && e <= eps:
		s, t = 0, 0
	case a <= eps:
		s = 0
		t = clamp01(f / e)
	default:
		c := vec3.Dot(d1, r)
		if e <= eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := vec3.Dot(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	cp1 := vec3.AddScaled(p0, s, d1)
	cp2 := vec3.AddScaled(q0, t, d2)
	return vec3.Distance(cp1, cp2), s, t
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
