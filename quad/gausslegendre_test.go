// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestWeightsSumToOne(tst *testing.T) {
	chk.PrintTitle("quad. weights on [0,1] sum to 1")
	for _, order := range []int{1, 2, 3, 4, 6, 8, 12} {
		r := GaussLegendre01(order)
		sum := 0.0
		for _, w := range r.Weights {
			sum += w
		}
		chk.Scalar(tst, "sum(weights)", 1e-12, sum, 1)
	}
}

func TestNodesInsideUnitInterval(tst *testing.T) {
	chk.PrintTitle("quad. nodes lie strictly inside (0,1)")
	r := GaussLegendre01(6)
	for _, x := range r.Nodes {
		if x <= 0 || x >= 1 {
			tst.Errorf("node %v outside (0,1)", x)
		}
	}
}

func TestIntegratesPolynomialExactly(tst *testing.T) {
	chk.PrintTitle("quad. an order-n rule integrates degree 2n-1 polynomials exactly")
	r := GaussLegendre01(4) // exact up to degree 7
	// integral of x^5 over [0,1] is 1/6
	sum := 0.0
	for i, x := range r.Nodes {
		sum += r.Weights[i] * math.Pow(x, 5)
	}
	chk.Scalar(tst, "int x^5", 1e-12, sum, 1.0/6.0)
}

func TestNewtonFallbackMatchesFixedOrder(tst *testing.T) {
	chk.PrintTitle("quad. Newton fallback agrees with the fixed table at a shared order")
	nodes, weights := gaussLegendreNewton(5)
	fixed := fixedTablePM1[5]
	for i := range nodes {
		chk.Scalar(tst, "node", 1e-8, nodes[i], fixed.nodes[i])
		chk.Scalar(tst, "weight", 1e-8, weights[i], fixed.weights[i])
	}
}

func TestFallbackOrderIntegratesCorrectly(tst *testing.T) {
	chk.PrintTitle("quad. an order outside the fixed table still integrates correctly")
	r := GaussLegendre01(7)
	sum := 0.0
	for i, x := range r.Nodes {
		sum += r.Weights[i] * math.Pow(x, 9) // degree 2*7-1=13 >= 9
	}
	chk.Scalar(tst, "int x^9", 1e-10, sum, 1.0/10.0)
}
