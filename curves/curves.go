// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package curves provides the small predefined seed-geometry library spec
// section 1 calls out as an external collaborator, restored minimally so
// tests and examples are self-contained: closed-form parametric point
// generators only, no file format or general curve description language,
// grounded on the teacher's `ana` package (small closed-form analytical
// solutions used only to seed or check tests, never part of the solved
// system itself).
package curves

import (
	"math"

	"github.com/subhk/vortexpasta-go/vec3"
)

// Ring returns n equally spaced points around a circle of the given
// radius in the z=0 plane, centred at the origin.
func Ring(radius float64, n int) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec3.Vec3{radius * math.Cos(theta), radius * math.Sin(theta), 0}
	}
	return pts
}

// Helix returns n points of one turn of a helix of the given radius and
// pitch (the z-displacement per full turn), centred on the z axis.
func Helix(radius, pitch float64, n int) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec3.Vec3{
			radius * math.Cos(theta),
			radius * math.Sin(theta),
			pitch * theta / (2 * math.Pi),
		}
	}
	return pts
}

// Trefoil returns n points of the (2,3) torus-knot parametrization scaled
// by radius, a standard closed, self-linking test curve for reconnection
// and helicity diagnostics.
func Trefoil(radius float64, n int) []vec3.Vec3 {
	pts := make([]vec3.Vec3, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		x := math.Sin(t) + 2*math.Sin(2*t)
		y := math.Cos(t) - 2*math.Cos(2*t)
		z := -math.Sin(3 * t)
		pts[i] = vec3.Scale(radius/3, vec3.Vec3{x, y, z})
	}
	return pts
}

// HopfLinkPair returns two linked rings of the given radius and n points
// each: a around the z axis in the z=0 plane, b in the y=0 plane centred
// at (radius,0,0), so that each circle passes through the other's disk
// exactly once (a minimal Hopf link, spec section 8 scenario 3's seed
// geometry).
func HopfLinkPair(radius float64, n int) (a, b []vec3.Vec3) {
	a = Ring(radius, n)
	b = make([]vec3.Vec3, n)
	centre := vec3.Vec3{radius, 0, 0}
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		b[i] = vec3.Add(centre, vec3.Vec3{radius * math.Cos(theta), 0, radius * math.Sin(theta)})
	}
	return a, b
}
