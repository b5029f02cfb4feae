// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curves

import (
	"math"
	"testing"

	"github.com/subhk/vortexpasta-go/vec3"
)

func TestRingPointsLieOnCircle(t *testing.T) {
	radius := 3.0
	pts := Ring(radius, 40)
	for _, p := range pts {
		r := math.Hypot(p[0], p[1])
		if math.Abs(r-radius) > 1e-9 {
			t.Fatalf("point %v not on circle of radius %v", p, radius)
		}
		if p[2] != 0 {
			t.Fatalf("expected ring to lie in z=0, got z=%v", p[2])
		}
	}
}

func TestHelixAdvancesByPitchOverOneTurn(t *testing.T) {
	pitch := 2.0
	n := 100
	pts := Helix(1.0, pitch, n)
	if pts[0][2] != 0 {
		t.Fatalf("expected the first helix point at z=0, got %v", pts[0][2])
	}
	// point i sits at fraction i/n of one full turn, so z should advance
	// linearly by pitch/n per sample.
	for i := 1; i < n; i++ {
		want := pitch * float64(i) / float64(n)
		if math.Abs(pts[i][2]-want) > 1e-9 {
			t.Fatalf("point %d: got z=%v, want z=%v", i, pts[i][2], want)
		}
	}
}

func TestTrefoilIsClosedApproximately(t *testing.T) {
	pts := Trefoil(1.0, 200)
	// The (2,3) torus-knot parametrization is 2*pi periodic, so with a
	// fine sampling the first and last distinct samples should be close
	// to retracing the curve (not coincident, since we never sample t=2pi
	// itself, but bounded away from the overall curve extent).
	var maxDist float64
	for i := 1; i < len(pts); i++ {
		d := vec3.Distance(pts[i], pts[i-1])
		if d > maxDist {
			maxDist = d
		}
	}
	closing := vec3.Distance(pts[len(pts)-1], pts[0])
	if closing > 4*maxDist {
		t.Fatalf("expected the last sample to nearly close back onto the first, got gap %v vs typical step %v", closing, maxDist)
	}
}

func TestHopfLinkPairRingsAreLinked(t *testing.T) {
	radius := 1.0
	a, b := HopfLinkPair(radius, 64)
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("expected 64 points per ring")
	}
	// b is centred at (radius,0,0) in the y=0 plane: its own centroid
	// should sit at that centre, distinct from a's centroid at the origin,
	// confirming the two rings are not coincident.
	var centroidB vec3.Vec3
	for _, p := range b {
		centroidB = vec3.Add(centroidB, p)
	}
	centroidB = vec3.Scale(1.0/float64(len(b)), centroidB)
	want := vec3.Vec3{radius, 0, 0}
	if vec3.Distance(centroidB, want) > 1e-9 {
		t.Fatalf("expected ring b centred at %v, got %v", want, centroidB)
	}
	// Linked: b crosses the z=0 plane of ring a exactly once inside a's
	// disk and once outside it.
	inside := 0
	for i := range b {
		p, q := b[i], b[(i+1)%len(b)]
		if (p[2] >= 0) == (q[2] >= 0) {
			continue
		}
		s := p[2] / (p[2] - q[2])
		if math.Hypot(p[0]+s*(q[0]-p[0]), p[1]+s*(q[1]-p[1])) < radius {
			inside++
		}
	}
	if inside != 1 {
		t.Fatalf("expected ring b to pierce ring a's disk exactly once, got %d", inside)
	}
}
