// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quad implements Gauss-Legendre quadrature rules used to integrate
// the Biot-Savart kernel (and filament length) over a segment parametrized
// on [0,1], as described in spec section 2.2.
package quad

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Rule holds the nodes and weights of a fixed-order Gauss-Legendre rule on
// [0,1].
type Rule struct {
	Order   int       // number of points
	Nodes   []float64 // quadrature nodes in [0,1]
	Weights []float64 // quadrature weights, summing to 1
}

// table caches rules built so far, keyed by order; built lazily so a
// process that only ever uses one order never pays for the rest.
var table = map[int]*Rule{}

// GaussLegendre01 returns the order-point Gauss-Legendre rule on [0,1],
// building and caching it on first use. Orders in the fixed low-order table
// below are literal, textbook-precision constants (conventional for fixed
// quadrature rules used inside a tight numerical kernel); any other order
// falls back to the Newton-iteration construction in gaussLegendreNewton.
func GaussLegendre01(order int) *Rule {
	if order < 1 {
		chk.Panic("quad: order must be >= 1; got %d", order)
	}
	if r, ok := table[order]; ok {
		return r
	}
	r := build(order)
	table[order] = r
	return r
}

// build constructs a Rule on [0,1] from the fixed [-1,1] table (or the
// Newton fallback) via the standard affine remap x = (xi+1)/2, w = wi/2.
func build(order int) *Rule {
	xi, wi := nodesWeightsOnPM1(order)
	nodes := make([]float64, order)
	weights := make([]float64, order)
	for i := range xi {
		nodes[i] = 0.5 * (xi[i] + 1)
		weights[i] = 0.5 * wi[i]
	}
	return &Rule{Order: order, Nodes: nodes, Weights: weights}
}

// nodesWeightsOnPM1 returns nodes/weights on [-1,1] for the requested order,
// using the fixed table when available and the Newton fallback otherwise.
func nodesWeightsOnPM1(order int) (nodes, weights []float64) {
	if t, ok := fixedTablePM1[order]; ok {
		return t.nodes, t.weights
	}
	return gaussLegendreNewton(order)
}

// fixedTablePM1 holds textbook nodes/weights on [-1,1] for the orders used
// throughout the short/long-range quadrature choices of ParamsBiotSavart.
var fixedTablePM1 = map[int]struct{ nodes, weights []float64 }{
	1: {[]float64{0}, []float64{2}},
	2: {
		[]float64{-0.5773502691896257, 0.5773502691896257},
		[]float64{1, 1},
	},
	3: {
		[]float64{-0.7745966692414834, 0, 0.7745966692414834},
		[]float64{0.5555555555555556, 0.8888888888888888, 0.5555555555555556},
	},
	4: {
		[]float64{-0.8611363115940526, -0.3399810435848563, 0.3399810435848563, 0.8611363115940526},
		[]float64{0.3478548451374538, 0.6521451548625461, 0.6521451548625461, 0.3478548451374538},
	},
	5: {
		[]float64{-0.9061798459386640, -0.5384693101056831, 0, 0.5384693101056831, 0.9061798459386640},
		[]float64{0.2369268850561891, 0.4786286704993665, 0.5688888888888889, 0.4786286704993665, 0.2369268850561891},
	},
	6: {
		[]float64{-0.9324695142031521, -0.6612093864662645, -0.2386191860831969,
			0.2386191860831969, 0.6612093864662645, 0.9324695142031521},
		[]float64{0.1713244923791704, 0.3607615730481386, 0.4679139345726910,
			0.4679139345726910, 0.3607615730481386, 0.1713244923791704},
	},
	8: {
		[]float64{-0.9602898564975363, -0.7966664774136267, -0.5255324099163290, -0.1834346424956498,
			0.1834346424956498, 0.5255324099163290, 0.7966664774136267, 0.9602898564975363},
		[]float64{0.1012285362903763, 0.2223810344533745, 0.3137066458778873, 0.3626837833783620,
			0.3626837833783620, 0.3137066458778873, 0.2223810344533745, 0.1012285362903763},
	},
	12: {
		[]float64{-0.9815606342467192, -0.9041172563704749, -0.7699026741943047,
			-0.5873179542866175, -0.3678314989981802, -0.1252334085114689,
			0.1252334085114689, 0.3678314989981802, 0.5873179542866175,
			0.7699026741943047, 0.9041172563704749, 0.9815606342467192},
		[]float64{0.0471753363865118, 0.1069393259953184, 0.1600783285433462,
			0.2031674267230659, 0.2334925365383548, 0.2491470458134028,
			0.2491470458134028, 0.2334925365383548, 0.2031674267230659,
			0.1600783285433462, 0.1069393259953184, 0.0471753363865118},
	},
	16: {
		[]float64{-0.9894009349916499, -0.9445750230732326, -0.8656312023878318,
			-0.7554044083550030, -0.6178762444026438, -0.4580167776572274,
			-0.2816035507792589, -0.0950125098376374, 0.0950125098376374,
			0.2816035507792589, 0.4580167776572274, 0.6178762444026438,
			0.7554044083550030, 0.8656312023878318, 0.9445750230732326, 0.9894009349916499},
		[]float64{0.0271524594117541, 0.0622535239386479, 0.0951585116824928,
			0.1246289712555339, 0.1495959888165767, 0.1691565193950025,
			0.1826034150449236, 0.1894506104550685, 0.1894506104550685,
			0.1826034150449236, 0.1691565193950025, 0.1495959888165767,
			0.1246289712555339, 0.0951585116824928, 0.0622535239386479, 0.0271524594117541},
	},
}

// gaussLegendreNewton computes nodes/weights on [-1,1] for an arbitrary
// order via Newton iteration on the Legendre polynomial, the classical
// construction used when no fixed table entry is available (see Abramowitz
// & Stegun 25.4.29). Grounded on the teacher's use of gosl/num.NlSolver for
// Newton-type root finding in msolid/princstrainsup.go.
func gaussLegendreNewton(order int) (nodes, weights []float64) {
	nodes = make([]float64, order)
	weights = make([]float64, order)
	n := float64(order)
	for i := 0; i < order; i++ {
		// initial guess (Chebyshev-like), refined via Newton on P_n; negated
		// so nodes come out in ascending order, like the fixed table
		x := -math.Cos(math.Pi * (float64(i) + 0.75) / (n + 0.5))
		var pp float64
		for iter := 0; iter < 100; iter++ {
			p1, p2 := 1.0, 0.0
			for j := 1; j <= order; j++ {
				p3 := p2
				p2 = p1
				p1 = ((2*float64(j)-1)*x*p2 - (float64(j)-1)*p3) / float64(j)
			}
			pp = n * (x*p1 - p2) / (x*x - 1)
			dx := -p1 / pp
			x += dx
			if math.Abs(dx) < 1e-15 {
				break
			}
		}
		nodes[i] = x
		weights[i] = 2.0 / ((1 - x*x) * pp * pp)
	}
	return
}
