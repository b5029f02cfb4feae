// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filament

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/subhk/vortexpasta-go/vec3"
)

// FiniteDifference estimates the first and second parametric derivative at
// every node from a (2M+1)-point centered stencil over the (possibly
// non-uniform) arc-length knots, solved once per node via a small
// Vandermonde system, then reproduces those values and derivatives inside
// each segment with a Hermite polynomial of order Interp.
type FiniteDifference struct {
	M      int // stencil half-width, 1 or 2
	Interp int // Hermite order, 0, 1 or 2; Interp<=2 always recoverable from M>=1

	xp  []vec3.Vec3 // per-node first derivative w.r.t. arc length, index i-1
	xpp []vec3.Vec3 // per-node second derivative w.r.t. arc length, index i-1
}

// NewFiniteDifference validates and returns a ready-to-use method value.
func NewFiniteDifference(m, interp int) *FiniteDifference {
	if m != 1 && m != 2 {
		chk.Panic("filament.NewFiniteDifference: M must be 1 or 2, got %d", m)
	}
	if interp < 0 || interp > 2 {
		chk.Panic("filament.NewFiniteDifference: Interp must be 0, 1 or 2, got %d", interp)
	}
	if interp == 2 && m < 1 {
		chk.Panic("filament.NewFiniteDifference: Interp=2 needs M>=1")
	}
	return &FiniteDifference{M: m, Interp: interp}
}

func (o *FiniteDifference) Name() string  { return "finite-difference" }
func (o *FiniteDifference) padMargin() int { return o.M }

// Prepare recomputes the per-node derivative estimates. Must be called
// after any mutation of f.Nodes (and after f.repad/f.recomputeKnots, which
// Filament already does before invoking Prepare).
func (o *FiniteDifference) Prepare(f *Filament) {
	n := f.N()
	o.xp = make([]vec3.Vec3, n)
	o.xpp = make([]vec3.Vec3, n)
	width := 2*o.M + 1
	for i := 1; i <= n; i++ {
		dx := make([]float64, width)
		pts := make([]vec3.Vec3, width)
		s0 := f.knotAt(i)
		for k := -o.M; k <= o.M; k++ {
			idx := k + o.M
			dx[idx] = f.knotAt(i+k) - s0
			pts[idx] = f.Nodes.At(i + k)
		}
		w1 := fdWeights(dx, 1)
		w2 := fdWeights(dx, 2)
		for k := 0; k < width; k++ {
			o.xp[i-1] = vec3.AddScaled(o.xp[i-1], w1[k], pts[k])
			o.xpp[i-1] = vec3.AddScaled(o.xpp[i-1], w2[k], pts[k])
		}
	}
}

// Evaluate reproduces position/derivative values inside segment i using a
// Hermite polynomial anchored at the node derivative estimates.
func (o *FiniteDifference) Evaluate(f *Filament, i int, zeta float64, d int) vec3.Vec3 {
	p0 := f.Nodes.At(i)
	p1 := f.Nodes.At(i + 1)
	h := f.SegmentLength(i)
	xp0 := o.xp[i-1]
	var xp1 vec3.Vec3
	if i == f.N() {
		xp1 = o.xp[0]
	} else {
		xp1 = o.xp[i]
	}
	switch o.Interp {
	case 0:
		return hermite0(p0, p1, zeta, d)
	case 1:
		return hermite1(p0, p1, xp0, xp1, h, zeta, d)
	default:
		xpp0 := o.xpp[i-1]
		var xpp1 vec3.Vec3
		if i == f.N() {
			xpp1 = o.xpp[0]
		} else {
			xpp1 = o.xpp[i]
		}
		return hermite2(p0, p1, xp0, xp1, xpp0, xpp1, h, zeta, d)
	}
}

// knotAt extends the arc-length parametrization periodically to node
// indices outside [1,N+1], adding whole multiples of the total length L.
func (f *Filament) knotAt(i int) float64 {
	n := f.N()
	L := f.Knots[n]
	q := 0
	for i < 1 {
		i += n
		q--
	}
	for i > n+1 {
		i -= n
		q++
	}
	return f.Knots[i-1] + float64(q)*L
}

// fdWeights solves for the coefficients c such that sum_j c[j]*f(x+dx[j])
// approximates the order-th derivative of f at x, exact for polynomials up
// to degree len(dx)-1. Built from a Vandermonde system A[k][j]=dx[j]^k,
// A c = order! * e_order, inverted with la.MatInvG as gosl's dense solves
// do elsewhere in the teacher's codebase (e.g. princstrainsup.go).
func fdWeights(dx []float64, order int) []float64 {
	n := len(dx)
	a := la.MatAlloc(n, n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			a[k][j] = math.Pow(dx[j], float64(k))
		}
	}
	ai := la.MatAlloc(n, n)
	err := la.MatInvG(ai, a, 1e-12)
	if err != nil {
		chk.Panic("filament: fdWeights: singular Vandermonde system: %v", err)
	}
	fact := factorial(order)
	c := make([]float64, n)
	for j := 0; j < n; j++ {
		c[j] = fact * ai[j][order]
	}
	return c
}

func factorial(n int) float64 {
	r := 1.0
	for k := 2; k <= n; k++ {
		r *= float64(k)
	}
	return r
}

// hermite0 is degree-1 (linear) interpolation: reproduces only endpoint
// values, per spec "returns 0 for derivatives beyond degree".
func hermite0(p0, p1 vec3.Vec3, t float64, d int) vec3.Vec3 {
	switch d {
	case 0:
		return vec3.Add(vec3.Scale(1-t, p0), vec3.Scale(t, p1))
	case 1:
		return vec3.Sub(p1, p0)
	default:
		return vec3.Vec3{}
	}
}

// hermite1 is the standard cubic Hermite basis, reproducing endpoint
// values and tangents m0=h*xp0, m1=h*xp1.
func hermite1(p0, p1, xp0, xp1 vec3.Vec3, h, t float64, d int) vec3.Vec3 {
	m0 := vec3.Scale(h, xp0)
	m1 := vec3.Scale(h, xp1)
	t2 := t * t
	t3 := t2 * t
	switch d {
	case 0:
		h00 := 2*t3 - 3*t2 + 1
		h10 := t3 - 2*t2 + t
		h01 := -2*t3 + 3*t2
		h11 := t3 - t2
		return sum4(p0, h00, m0, h10, p1, h01, m1, h11)
	case 1:
		h00 := 6*t2 - 6*t
		h10 := 3*t2 - 4*t + 1
		h01 := -6*t2 + 6*t
		h11 := 3*t2 - 2*t
		return sum4(p0, h00, m0, h10, p1, h01, m1, h11)
	case 2:
		h00 := 12*t - 6
		h10 := 6*t - 4
		h01 := -12*t + 6
		h11 := 6*t - 2
		return sum4(p0, h00, m0, h10, p1, h01, m1, h11)
	default:
		return vec3.Vec3{}
	}
}

// hermite2 is the quintic Hermite basis, additionally reproducing
// endpoint second derivatives a0=h^2*xpp0, a1=h^2*xpp1.
func hermite2(p0, p1, xp0, xp1, xpp0, xpp1 vec3.Vec3, h, t float64, d int) vec3.Vec3 {
	m0 := vec3.Scale(h, xp0)
	m1 := vec3.Scale(h, xp1)
	a0 := vec3.Scale(h*h, xpp0)
	a1 := vec3.Scale(h*h, xpp1)
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	t5 := t4 * t
	var h00, h10, h20, h01, h11, h21 float64
	switch d {
	case 0:
		h00 = 1 - 10*t3 + 15*t4 - 6*t5
		h10 = t - 6*t3 + 8*t4 - 3*t5
		h20 = 0.5*t2 - 1.5*t3 + 1.5*t4 - 0.5*t5
		h01 = 10*t3 - 15*t4 + 6*t5
		h11 = -4*t3 + 7*t4 - 3*t5
		h21 = 0.5*t3 - t4 + 0.5*t5
	case 1:
		h00 = -30*t2 + 60*t3 - 30*t4
		h10 = 1 - 18*t2 + 32*t3 - 15*t4
		h20 = t - 4.5*t2 + 6*t3 - 2.5*t4
		h01 = 30*t2 - 60*t3 + 30*t4
		h11 = -12*t2 + 28*t3 - 15*t4
		h21 = 1.5*t2 - 4*t3 + 2.5*t4
	case 2:
		h00 = -60*t + 180*t2 - 120*t3
		h10 = -36*t + 96*t2 - 60*t3
		h20 = 1 - 9*t + 18*t2 - 10*t3
		h01 = 60*t - 180*t2 + 120*t3
		h11 = -24*t + 84*t2 - 60*t3
		h21 = 3*t - 12*t2 + 10*t3
	default:
		return vec3.Vec3{}
	}
	out := vec3.Scale(h00, p0)
	out = vec3.Add(out, vec3.Scale(h10, m0))
	out = vec3.Add(out, vec3.Scale(h20, a0))
	out = vec3.Add(out, vec3.Scale(h01, p1))
	out = vec3.Add(out, vec3.Scale(h11, m1))
	out = vec3.Add(out, vec3.Scale(h21, a1))
	return out
}

func sum4(p0 vec3.Vec3, c0 float64, m0 vec3.Vec3, c1 float64, p1 vec3.Vec3, c2 float64, m1 vec3.Vec3, c3 float64) vec3.Vec3 {
	out := vec3.Scale(c0, p0)
	out = vec3.Add(out, vec3.Scale(c1, m0))
	out = vec3.Add(out, vec3.Scale(c2, p1))
	out = vec3.Add(out, vec3.Scale(c3, m1))
	return out
}
