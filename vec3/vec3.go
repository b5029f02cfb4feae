// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec3 implements the fixed 3-component vector used for every
// spatial quantity in the filament/Biot-Savart core: node positions,
// tangents, curvature vectors, velocities and streamfunction values.
//
// A fixed-size array type is used instead of gosl/la's slice-based vectors
// because the Biot-Savart kernel evaluates this type once per
// (node, segment, quadrature-point) triple; a slice-based vector would force
// a heap allocation in that innermost loop.
package vec3

import "math"

// Vec3 is a Cartesian vector (x, y, z).
type Vec3 [3]float64

// Zero is the additive identity.
var Zero = Vec3{0, 0, 0}

// Add returns a+b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns s*a.
func Scale(s float64, a Vec3) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

// AddScaled returns a + s*b; the common "axpy" pattern used by every RK stage.
func AddScaled(a Vec3, s float64, b Vec3) Vec3 {
	return Vec3{a[0] + s*b[0], a[1] + s*b[1], a[2] + s*b[2]}
}

// Dot returns a.b.
func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns a x b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns |a|.
func Norm(a Vec3) float64 {
	return math.Sqrt(Dot(a, a))
}

// Normalize returns a/|a|; panics-free: returns the zero vector if |a|==0.
func Normalize(a Vec3) Vec3 {
	n := Norm(a)
	if n == 0 {
		return Zero
	}
	return Scale(1.0/n, a)
}

// Distance returns |a-b|.
func Distance(a, b Vec3) float64 {
	return Norm(Sub(a, b))
}

// Periods is the 3-tuple of box periods (L); math.Inf(1) marks an open
// (non-periodic) dimension, per ParamsBiotSavart in the spec.
type Periods [3]float64

// IsPeriodic reports whether dimension i is periodic.
func (p Periods) IsPeriodic(i int) bool {
	return !math.IsInf(p[i], 1)
}

// AllPeriodic reports whether every dimension is periodic.
func (p Periods) AllPeriodic() bool {
	return p.IsPeriodic(0) && p.IsPeriodic(1) && p.IsPeriodic(2)
}

// AllOpen reports whether every dimension is open (periods all infinite).
func (p Periods) AllOpen() bool {
	return !p.IsPeriodic(0) && !p.IsPeriodic(1) && !p.IsPeriodic(2)
}

// Mixed reports whether some but not all dimensions are periodic; the spec
// states this combination is not supported.
func (p Periods) Mixed() bool {
	n := 0
	for i := 0; i < 3; i++ {
		if p.IsPeriodic(i) {
			n++
		}
	}
	return n != 0 && n != 3
}

// Wrap folds x into [0,L) componentwise for periodic dimensions; open
// dimensions pass through unchanged.
func Wrap(x Vec3, p Periods) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		if !p.IsPeriodic(i) {
			out[i] = x[i]
			continue
		}
		L := p[i]
		v := math.Mod(x[i], L)
		if v < 0 {
			v += L
		}
		out[i] = v
	}
	return out
}

// NearestImage returns the periodic displacement dst-src that has the
// smallest magnitude, searching over the 27 (or fewer, for open dimensions)
// candidate period combinations {-1,0,1} per periodic axis.
func NearestImage(src, dst Vec3, p Periods) Vec3 {
	best := Sub(dst, src)
	bestD2 := Dot(best, best)
	var shifts [3][]float64
	for i := 0; i < 3; i++ {
		if p.IsPeriodic(i) {
			shifts[i] = []float64{-p[i], 0, p[i]}
		} else {
			shifts[i] = []float64{0}
		}
	}
	for _, sx := range shifts[0] {
		for _, sy := range shifts[1] {
			for _, sz := range shifts[2] {
				cand := Vec3{dst[0] + sx - src[0], dst[1] + sy - src[1], dst[2] + sz - src[2]}
				d2 := Dot(cand, cand)
				if d2 < bestD2 {
					bestD2 = d2
					best = cand
				}
			}
		}
	}
	return best
}

// PeriodicDisplacement returns the integer combination (in units of the box
// periods) n such that dst+n*L is the periodic image of dst closest to src,
// alongside that closest image's displacement vector. Used by the
// reconnection engine to record the p-vector applied during surgery.
func PeriodicDisplacement(src, dst Vec3, p Periods) (disp Vec3, n [3]int) {
	best := Sub(dst, src)
	bestD2 := Dot(best, best)
	bestN := [3]int{0, 0, 0}
	var shifts [3][]int
	for i := 0; i < 3; i++ {
		if p.IsPeriodic(i) {
			shifts[i] = []int{-1, 0, 1}
		} else {
			shifts[i] = []int{0}
		}
	}
	for _, nx := range shifts[0] {
		for _, ny := range shifts[1] {
			for _, nz := range shifts[2] {
				shift := Vec3{float64(nx) * p[0], float64(ny) * p[1], float64(nz) * p[2]}
				cand := Sub(Add(dst, shift), src)
				d2 := Dot(cand, cand)
				if d2 < bestD2 {
					bestD2 = d2
					best = cand
					bestN = [3]int{nx, ny, nz}
				}
			}
		}
	}
	return best, bestN
}
