// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics computes the scalar and spectral quantities of spec
// section 4.9 from an already-solved filament/field state, grounded on
// the teacher's `out` package pattern of deriving output quantities from
// a solved Domain/Sol rather than a generic plotting/aggregation
// framework (plotting itself is out of scope).
package diagnostics

import (
	"math"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
	"gonum.org/v1/gonum/floats"
)

// KineticEnergyLineIntegral computes the real-space estimator
// E = sum_f (Gamma/2) * integral v . (s x ds) over each filament, the
// form valid for open (non-periodic) domains where no long-range
// streamfunction grid exists.
func KineticEnergyLineIntegral(filaments []*filament.Filament, fields *biotsavart.NodeFields, gamma float64, rule *quad.Rule) float64 {
	total := 0.0
	for fi, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			v0 := fields.V[fi][i-1]
			next := i + 1
			if next > f.N() {
				next = 1
			}
			vNext := fields.V[fi][next-1]
			s0 := f.Nodes.At(i)
			s1 := f.Nodes.At(i + 1)
			ds := vec3.Sub(s1, s0)
			vAvg := vec3.Scale(0.5, vec3.Add(v0, vNext))
			total += vec3.Dot(vAvg, vec3.Cross(s0, ds))
		}
	}
	return 0.5 * gamma * total
}

// KineticEnergyParseval computes the periodic estimator
// E = (1/2) * sum v . psi over nodes, the Parseval-equivalent form valid
// whenever the long-range streamfunction field has been computed (spec
// section 4.9's second estimator).
func KineticEnergyParseval(fields *biotsavart.NodeFields) float64 {
	total := 0.0
	for fi := range fields.V {
		for i := range fields.V[fi] {
			total += vec3.Dot(fields.V[fi][i], fields.Psi[fi][i])
		}
	}
	return 0.5 * total
}

// Helicity computes H = (1/(2*Gamma^2)) * sum_f integral psi . ds, the
// circulation-normalized form named by spec section 4.9 (used directly
// by the Hopf-link test scenario of spec section 8).
func Helicity(filaments []*filament.Filament, fields *biotsavart.NodeFields, gamma float64) float64 {
	total := 0.0
	for fi, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			next := i + 1
			if next > f.N() {
				next = 1
			}
			psi0 := fields.Psi[fi][i-1]
			psiNext := fields.Psi[fi][next-1]
			s0 := f.Nodes.At(i)
			s1 := f.Nodes.At(i + 1)
			ds := vec3.Sub(s1, s0)
			psiAvg := vec3.Scale(0.5, vec3.Add(psi0, psiNext))
			total += vec3.Dot(psiAvg, ds)
		}
	}
	return total / (2 * gamma * gamma)
}

// LineLength sums every filament's arc length under rule.
func LineLength(filaments []*filament.Filament, rule *quad.Rule) float64 {
	total := 0.0
	for _, f := range filaments {
		total += f.Length(rule)
	}
	return total
}

// Impulse computes I = (Gamma/2) * sum_f integral x cross ds.
func Impulse(filaments []*filament.Filament, gamma float64) vec3.Vec3 {
	var total vec3.Vec3
	for _, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			s0 := f.Nodes.At(i)
			s1 := f.Nodes.At(i + 1)
			mid := vec3.Scale(0.5, vec3.Add(s0, s1))
			ds := vec3.Sub(s1, s0)
			total = vec3.Add(total, vec3.Cross(mid, ds))
		}
	}
	return vec3.Scale(0.5*gamma, total)
}

// SpectrumBin is one bin of a 1-D energy spectrum E(k).
type SpectrumBin struct {
	K      float64
	Energy float64
}

// EnergySpectrum bins the kinetic energy density |w_hat(k)|^2/k^2 (the
// same Biot-Savart kernel weighting solveKSpace applies, without the i*k
// cross term since only the magnitude matters for the spectrum) from the
// long-range cache's most recently computed vorticity transform into
// nbins shells of |k|, reusing biotsavart.LongCache rather than
// recomputing a transform (spec section 4.9).
func EnergySpectrum(lc *biotsavart.LongCache, nbins int) ([]SpectrumBin, bool) {
	wxHat, wyHat, wzHat, n, periods, ok := lc.VorticitySpectrum()
	if !ok {
		return nil, false
	}

	type sample struct {
		k float64
		e float64
	}
	var samples []sample
	kmax := 0.0

	for z := 0; z < n[2]; z++ {
		kz := biotsavart.Wavenumber(z, n[2], periods[2])
		for y := 0; y < n[1]; y++ {
			ky := biotsavart.Wavenumber(y, n[1], periods[1])
			for x := 0; x < n[0]; x++ {
				kx := biotsavart.Wavenumber(x, n[0], periods[0])
				k2 := kx*kx + ky*ky + kz*kz
				if k2 == 0 {
					continue
				}
				idx := biotsavart.GridIndex(x, y, z, n[0], n[1])
				w2 := absSq(wxHat[idx]) + absSq(wyHat[idx]) + absSq(wzHat[idx])
				k := math.Sqrt(k2)
				e := w2 / k2
				samples = append(samples, sample{k: k, e: e})
				if k > kmax {
					kmax = k
				}
			}
		}
	}

	bins := make([]SpectrumBin, nbins)
	counts := make([]int, nbins)
	width := kmax / float64(nbins)
	for _, s := range samples {
		b := int(s.k / width)
		if b >= nbins {
			b = nbins - 1
		}
		bins[b].Energy += s.e
		counts[b]++
	}
	for i := range bins {
		bins[i].K = (float64(i) + 0.5) * width
		if counts[i] > 0 {
			bins[i].Energy /= float64(counts[i])
		}
	}
	return bins, true
}

func absSq(c complex128) float64 {
	re, im := real(c), imag(c)
	return re*re + im*im
}

// TotalSpectralEnergy sums a spectrum's per-bin energies, a convenience
// built on gonum/floats rather than a hand-rolled reduction loop.
func TotalSpectralEnergy(bins []SpectrumBin) float64 {
	vals := make([]float64, len(bins))
	for i, b := range bins {
		vals[i] = b.Energy
	}
	return floats.Sum(vals)
}

