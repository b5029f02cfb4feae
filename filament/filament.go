// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filament implements the discretized vortex filament of spec
// section 4.3: a closed, periodically-offset curve represented by nodes
// stored in a seq.Padded array, interpolated either by local finite
// differences or by a periodic B-spline, together with the refinement
// and surgery (split/merge) operations that keep the discretization
// adequate as the curve evolves.
//
// Node indices follow seq.Padded's 1-based visible convention: nodes run
// 1..N, segment i (1<=i<=N) connects node i to node i+1, and node N+1 is
// node 1 read back through the right pad (shifted by the filament's
// periodic Offset).
package filament

import (
	"github.com/cpmech/gosl/chk"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/seq"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Method is the discretization backend: it turns a padded node array into
// evaluable position/derivative fields. Two concrete implementations are
// provided, FiniteDifference and Spline, selected the way the teacher
// dispatches element formulations through a concrete value satisfying a
// common interface -- no string-keyed factory is needed here because the
// set of methods is closed and the caller always already holds a
// concrete Method to pass to Init.
type Method interface {
	// Name identifies the method for diagnostics and iostate persistence.
	Name() string

	// Prepare is called whenever the node array changes (construction,
	// refine, split, merge) and must recompute any cached coefficients
	// needed by Evaluate (FD stencil weights are knot-spacing dependent;
	// spline control points solve a cyclic banded system).
	Prepare(f *Filament)

	// Evaluate returns the d-th parametric derivative (d=0 is position)
	// at parameter zeta in [0,1] within segment i (1<=i<=f.N()).
	Evaluate(f *Filament, i int, zeta float64, d int) vec3.Vec3

	// padMargin is the number of ghost slots this method needs on each
	// side of the node array.
	padMargin() int
}

// Filament is a closed, discretized vortex line living in a (possibly
// periodic) box. Nodes are stored unwrapped in a padded array so that FD
// stencils and spline evaluation can read past the cyclic ends without
// branching; Offset is the periodic offset of node N+1 relative to node 1
// (zero for an isolated closed loop).
type Filament struct {
	Nodes  *seq.Padded[vec3.Vec3] // visible length N == number of segments
	Knots  []float64              // arc-length parametrization, 0-based, length N+1; Knots[0]=0
	Method Method
	Offset vec3.Vec3 // periodic offset: node N+1 is node 1 plus Offset
}

// Init constructs a filament from a closed polygon of points (points[0]
// is implicitly connected back to points[len-1]), computing knots and
// method coefficients. It panics with fewer than 3 points; coincident
// nodes are not checked here (CheckNodes reports them).
func Init(points []vec3.Vec3, method Method, offset vec3.Vec3) *Filament {
	n := len(points)
	if n < 3 {
		chk.Panic("filament.Init: need at least 3 nodes, got %d", n)
	}
	f := &Filament{
		Nodes:  seq.FromVisible(points, method.padMargin()),
		Method: method,
		Offset: offset,
	}
	f.repad()
	f.recomputeKnots()
	f.Method.Prepare(f)
	return f
}

// N returns the number of nodes (== number of segments).
func (f *Filament) N() int { return f.Nodes.N() }

// repad re-establishes the ghost pad from the visible nodes, offsetting
// by +-Offset across the periodic wrap.
func (f *Filament) repad() {
	f.Nodes.PadFromCentre(func(v vec3.Vec3, dir int) vec3.Vec3 {
		return vec3.AddScaled(v, float64(dir), f.Offset)
	})
}

// recomputeKnots rebuilds the arc-length parametrization from the current
// node positions. Knots has length N+1; Knots[N] is the total length.
func (f *Filament) recomputeKnots() {
	n := f.N()
	f.Knots = make([]float64, n+1)
	for i := 1; i <= n; i++ {
		a := f.Nodes.At(i)
		b := f.Nodes.At(i + 1)
		f.Knots[i] = f.Knots[i-1] + vec3.Distance(a, b)
	}
}

// UpdateCoefficients re-establishes the pad, the arc-length knots, and the
// method's cached interpolation coefficients from the current node
// positions. Spec section 4.3 names this update_coefficients: any caller
// that mutates Nodes directly (the time integrator staging an
// intermediate Runge-Kutta position, for instance) must call this before
// Evaluate/UnitTangent/CurvatureVector are used again.
func (f *Filament) UpdateCoefficients() {
	f.repad()
	f.recomputeKnots()
	f.Method.Prepare(f)
}

// SegmentLength returns the arc-length of segment i (1<=i<=N).
func (f *Filament) SegmentLength(i int) float64 {
	return f.Knots[i] - f.Knots[i-1]
}

// Evaluate returns the d-th parametric derivative at parameter zeta in
// [0,1] within segment i (spec's evaluate(i, zeta, d)).
func (f *Filament) Evaluate(i int, zeta float64, d int) vec3.Vec3 {
	return f.Method.Evaluate(f, i, zeta, d)
}

// UnitTangent returns the normalized tangent that = X'/|X'|.
func (f *Filament) UnitTangent(i int, zeta float64) vec3.Vec3 {
	xp := f.Evaluate(i, zeta, 1)
	return vec3.Normalize(xp)
}

// CurvatureVector returns (X'' - (X''.that) that) / |X'|^2.
func (f *Filament) CurvatureVector(i int, zeta float64) vec3.Vec3 {
	xp := f.Evaluate(i, zeta, 1)
	xpp := f.Evaluate(i, zeta, 2)
	norm2 := vec3.Dot(xp, xp)
	if norm2 == 0 {
		chk.Panic("filament.CurvatureVector: degenerate tangent at segment %d, zeta=%v", i, zeta)
	}
	that := vec3.Normalize(xp)
	normal := vec3.Sub(xpp, vec3.Scale(vec3.Dot(xpp, that), that))
	return vec3.Scale(1.0/norm2, normal)
}

// CurvatureScalar returns |CurvatureVector|.
func (f *Filament) CurvatureScalar(i int, zeta float64) float64 {
	return vec3.Norm(f.CurvatureVector(i, zeta))
}

// MinimumKnotIncrement returns the smallest knot spacing (arc-length
// segment length).
func (f *Filament) MinimumKnotIncrement() float64 {
	n := f.N()
	min := f.SegmentLength(1)
	for i := 2; i <= n; i++ {
		d := f.SegmentLength(i)
		if d < min {
			min = d
		}
	}
	return min
}

// MinimumNodeDistance returns the smallest Euclidean (not arc-length)
// distance between consecutive nodes.
func (f *Filament) MinimumNodeDistance() float64 {
	n := f.N()
	min := vec3.Distance(f.Nodes.At(1), f.Nodes.At(2))
	for i := 2; i <= n; i++ {
		d := vec3.Distance(f.Nodes.At(i), f.Nodes.At(i+1))
		if d < min {
			min = d
		}
	}
	return min
}

// Length integrates |X'(zeta)| over every segment using the supplied
// Gauss-Legendre rule.
func (f *Filament) Length(rule *quad.Rule) float64 {
	n := f.N()
	total := 0.0
	for i := 1; i <= n; i++ {
		for k, zeta := range rule.Nodes {
			xp := f.Evaluate(i, zeta, 1)
			total += rule.Weights[k] * vec3.Norm(xp)
		}
	}
	return total
}

// FoldPeriodic wraps every node, each one independently, into the
// fundamental cell [0,L) in each periodic dimension and leaves Offset
// unchanged. If any node moved it re-pads, recomputes the knots and calls
// Method.Prepare on the wrapped nodes, and returns true.
func (f *Filament) FoldPeriodic(periods vec3.Periods) bool {
	moved := false
	n := f.N()
	for i := 1; i <= n; i++ {
		p := f.Nodes.At(i)
		wrapped := vec3.Wrap(p, periods)
		if wrapped != p {
			moved = true
		}
		f.Nodes.Set(i, wrapped)
	}
	if moved {
		// Offset is left untouched: it is set at construction and by
		// surgery, not by recentring individual nodes.
		f.repad()
		f.recomputeKnots()
		f.Method.Prepare(f)
	}
	return moved
}

// CheckNodes reports whether the filament is non-degenerate: at least 3
// distinct nodes and no two consecutive nodes coincident.
func (f *Filament) CheckNodes() bool {
	n := f.N()
	if n < 3 {
		return false
	}
	for i := 1; i <= n; i++ {
		if f.Nodes.At(i) == f.Nodes.At(i+1) {
			return false
		}
	}
	return true
}

// VisiblePoints returns a freshly allocated copy of the visible (N)
// nodes, in order.
func (f *Filament) VisiblePoints() []vec3.Vec3 {
	n := f.N()
	out := make([]vec3.Vec3, n)
	for i := 1; i <= n; i++ {
		out[i-1] = f.Nodes.At(i)
	}
	return out
}
