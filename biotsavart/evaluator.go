// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package biotsavart

import (
	"math"

	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/mathconst"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Flags selects which subset of {velocity, streamfunction} Evaluator
// computes, and from which terms -- used by split time steppers that
// treat the local (LIA) term implicitly and the rest explicitly.
type Flags int

const (
	Full Flags = iota
	LongRange
	ShortRange
	LIAOnly
	ShortRangeNoLIA
)

// Cache bundles the short-range neighbor-finder state and the long-range
// Fourier grid plans. A combined cache owns both, per spec section 3.
type Cache struct {
	Short *ShortCache
	Long  *LongCache // nil when Params.IsPeriodic() is false
}

// NewCache builds a Cache appropriate for p: a ShortCache always, and a
// LongCache only when the domain has at least one periodic dimension
// (open boundaries disable the long-range path entirely, per spec
// section 4.4's edge case).
func NewCache(p *Params, finder cell.Finder) *Cache {
	c := &Cache{Short: NewShortCache(finder)}
	if p.IsPeriodic() {
		c.Long = NewLongCache(p.GridN)
	}
	return c
}

// Evaluator computes induced velocity and streamfunction at filament
// nodes from a set of filaments and a fixed Params/Cache pair.
type Evaluator struct{}

// ComputeOnNodes fills fields per flags. fields must already be sized to
// match filaments (see NewNodeFields) and is zeroed by Reset before
// accumulation starts, whatever the flags, so each call starts from a
// clean field.
func (Evaluator) ComputeOnNodes(fields *NodeFields, cache *Cache, filaments []*filament.Filament, p *Params, flags Flags) {
	fields.Reset()

	wantLIA := flags == Full || flags == LIAOnly
	wantShort := flags == Full || flags == ShortRange || flags == ShortRangeNoLIA
	wantLong := flags == Full || flags == LongRange

	if wantShort {
		cache.Short.Rebuild(filaments, p.Periods, p.Rcut)
		computeShortRange(fields, filaments, p, cache.Short, true, true)
	}
	if wantLIA && flags != ShortRangeNoLIA {
		addLIA(fields, filaments, p)
	}
	if wantLong && cache.Long != nil {
		computeLongRange(fields, filaments, p, cache.Long, true, true)
	}
}

// addLIA adds the desingularized local-induction velocity at every node:
// v_LIA = Gamma/(4 pi) * (ln(2/(a kappa)) - Delta - gamma + 1/2) * (s' x s'') / |s'|^3
// where s', s'' are the tangent and curvature-producing second derivative
// at the node, kappa is the scalar curvature. The Euler-Mascheroni
// constant gamma and the additive constants Delta, 1/2 are exactly spec
// section 4.4's chosen variant (see DESIGN.md open question 1).
func addLIA(fields *NodeFields, filaments []*filament.Filament, p *Params) {
	for fi, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			sp := f.Evaluate(i, 0, 1)
			spp := f.Evaluate(i, 0, 2)
			normSp := vec3.Norm(sp)
			if normSp == 0 {
				continue
			}
			kappa := f.CurvatureScalar(i, 0)
			if kappa == 0 {
				continue
			}
			coeff := math.Log(2/(p.A*kappa)) - p.Delta - mathconst.EulerGamma + 0.5
			cross := vec3.Cross(sp, spp)
			scale := p.Gamma / (4 * math.Pi) * coeff / (normSp * normSp * normSp)
			fields.AddV(fi, i, vec3.Scale(scale, cross))
		}
	}
}
