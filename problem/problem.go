// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problem is the external-interfaces layer of spec section 6/7:
// a Problem is built from a Config (validated fatally at construction,
// spec section 7.1), and a Solver drives it one Step (or Run to
// completion) at a time, firing the affect-before/callback-after hooks
// of spec section 6's callback contract. Grounded on the teacher's
// fem.Main/fem.NewMain/fem.Domain split (construct-validate-then-drive)
// and inp.Data's SetDefault/PostProcess/validate configuration pattern.
package problem

import (
	"context"

	"github.com/cpmech/gosl/chk"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/forcing"
	"github.com/subhk/vortexpasta-go/integrate"
	"github.com/subhk/vortexpasta-go/params"
	"github.com/subhk/vortexpasta-go/reconnect"
	"github.com/subhk/vortexpasta-go/vec3"
	"github.com/subhk/vortexpasta-go/xlog"
)

// curlConsistencyTol is the absolute mismatch above which New warns that
// the configured ExternalVelocity does not look like the curl of
// ExternalStreamfunction (spec section 7.4); both fields are optional and
// independent, so this is a sanity check, not a requirement.
const curlConsistencyTol = 1e-6

// curlConsistencySampleH is the central-difference step used to probe the
// curl relationship; small enough to resolve smooth analytic fields,
// large enough to stay well clear of float64 cancellation noise.
const curlConsistencySampleH = 1e-4

// FastTerm names the "fast" right-hand-side component of the IMEX/MRI-GARK
// schemes (spec section 4.6's fast_term). New only validates it; it is not
// passed to the solver, whose fast term is always the LIA term, so
// FastTermShortRange integrates the same way as FastTermLIA.
type FastTerm int

const (
	FastTermNone FastTerm = iota
	FastTermLIA
	FastTermShortRange
)

// Config is the user-facing simulation description (spec section 6's
// "Problem construction"): initial filaments, Biot-Savart parameters,
// scheme/adaptivity choices, and the forcing/callback hooks.
type Config struct {
	Filaments  []*filament.Filament
	BiotSavart params.BiotSavart

	Scheme     integrate.Scheme
	Adaptivity integrate.Adaptivity
	FastTerm   FastTerm
	LIAOnly    bool

	Dt    float64
	DtMin float64

	FoldPeriodic bool
	Refine       filament.RefineCriterion

	ReconnectCrit   reconnect.Criterion
	ReconnectCutoff float64
	ReconnectFinder cell.Finder

	ExternalVelocity       *forcing.ExternalVelocity
	ExternalStreamfunction *forcing.ExternalStreamfunction
	Stretching             *forcing.Stretching
	MutualFriction         *forcing.MutualFriction

	// NormalFluidVelocity supplies v_n at every node, required whenever
	// MutualFriction is configured (spec section 4.7's HVBK law needs the
	// normal-fluid velocity alongside the self-induced v_s).
	NormalFluidVelocity func(filaments []*filament.Filament, t float64) [][]vec3.Vec3

	ReconnectCallback reconnect.Callback

	// AffectBefore may inject new filaments (State.Inject) but must not
	// mutate existing node arrays or read stale velocities (spec section
	// 6's callback contract); called once before each Step's stage loop.
	AffectBefore func(s *State)

	// CallbackAfter may read all per-node quantities but must not mutate
	// filament node arrays; called once after each Step completes.
	CallbackAfter func(s *State)
}

// Problem is a validated, ready-to-run simulation (spec section 6).
type Problem struct {
	cfg    Config
	solver *integrate.Solver
}

// New validates cfg per spec section 7.1's fatal configuration errors and
// builds a Problem. Biot-Savart-level errors (rcut>=L/2, odd grid sizes,
// mixed periodic/open) are delegated to params.BiotSavart.Build; this
// function additionally checks the two scheme-level errors spec section
// 7.1 names: scheme incompatible with adaptivity, and LIA_only combined
// with a non-local fast term.
func New(cfg Config) (*Problem, error) {
	if len(cfg.Filaments) == 0 {
		return nil, chk.Err("problem: at least one initial filament is required")
	}
	if cfg.Scheme == nil {
		return nil, chk.Err("problem: a Scheme is required")
	}
	if cfg.MutualFriction != nil && cfg.NormalFluidVelocity == nil {
		return nil, chk.Err("problem: MutualFriction requires a NormalFluidVelocity field")
	}

	bsParams, err := cfg.BiotSavart.Build()
	if err != nil {
		return nil, err
	}

	if cfg.LIAOnly && cfg.FastTerm == FastTermShortRange {
		return nil, chk.Err("problem: LIA_only cannot be combined with a non-local (short-range) fast term")
	}

	switch cfg.Scheme.(type) {
	case integrate.IMEX, integrate.MRIGARK:
		if cfg.FastTerm == FastTermNone {
			return nil, chk.Err("problem: scheme %q requires an explicit fast_term selection", cfg.Scheme.Name())
		}
		if _, isMRI := cfg.Scheme.(integrate.MRIGARK); isMRI {
			if _, isNone := cfg.Adaptivity.(integrate.NoAdaptivity); !isNone && cfg.Adaptivity != nil {
				return nil, chk.Err("problem: scheme %q is incompatible with node-displacement adaptivity -- its accuracy is governed by the inner substep count, not the outer step's displacement ceiling", cfg.Scheme.Name())
			}
		}
	default:
		if cfg.FastTerm != FastTermNone {
			return nil, chk.Err("problem: scheme %q does not split its right-hand side, so fast_term has no effect and must be left unset", cfg.Scheme.Name())
		}
	}

	if cfg.ExternalVelocity != nil && cfg.ExternalStreamfunction != nil {
		sample := cfg.Filaments[0].Nodes.At(1)
		if mismatch := forcing.CheckCurlConsistency(*cfg.ExternalVelocity, *cfg.ExternalStreamfunction, sample, 0, curlConsistencySampleH); mismatch > curlConsistencyTol {
			xlog.Warnf("problem: ExternalVelocity does not match curl(ExternalStreamfunction) at %v (t=0): max component mismatch %.3e exceeds tolerance %.3e", sample, mismatch, curlConsistencyTol)
		}
	}

	finder := cfg.ReconnectFinder
	if finder == nil {
		finder = &cell.Naive{}
	}

	icfg := integrate.Config{
		Params:            bsParams,
		Cache:              biotsavart.NewCache(bsParams, &cell.Naive{}),
		Scheme:            cfg.Scheme,
		Adaptivity:        cfg.Adaptivity,
		FoldPeriodic:      cfg.FoldPeriodic,
		Refine:            cfg.Refine,
		ReconnectCrit:     cfg.ReconnectCrit,
		ReconnectFinder:   finder,
		ReconnectCutoff:   cfg.ReconnectCutoff,
		Dt:                cfg.Dt,
		DtMin:             cfg.DtMin,
		Forcing:           buildForcing(cfg),
		ReconnectCallback: cfg.ReconnectCallback,
	}

	p := &Problem{cfg: cfg}
	if cfg.CallbackAfter != nil {
		icfg.AfterStep = func(s *integrate.Solver) {
			cfg.CallbackAfter(&State{solver: s})
		}
	}

	p.solver = integrate.NewSolver(cfg.Filaments, icfg)
	return p, nil
}

// State is the view of a running simulation exposed to the user's
// AffectBefore/CallbackAfter hooks (spec section 6's callback contract):
// AffectBefore may Inject new filaments but must not mutate existing node
// arrays or read stale velocities; CallbackAfter may read all per-node
// quantities but must not mutate filament node arrays.
type State struct {
	solver *integrate.Solver
}

// Time is the current simulation time.
func (s *State) Time() float64 { return s.solver.Time }

// StepCount is the number of accepted steps taken so far.
func (s *State) StepCount() int { return s.solver.Step_ }

// Dt is the timestep the next stage loop will attempt. By the time
// CallbackAfter runs it has already been replaced by the adaptivity
// criterion's proposal, so it need not equal the step just taken.
func (s *State) Dt() float64 { return s.solver.Dt }

// Filaments returns the current filament set. AffectBefore must not
// mutate the node arrays of any filament already present; it may only
// append via Inject.
func (s *State) Filaments() []*filament.Filament { return s.solver.Filaments }

// Fields returns the per-node velocity/streamfunction fields computed at
// the current positions, index-correlated with Filaments().
func (s *State) Fields() *biotsavart.NodeFields { return s.solver.Fields }

// Stats returns the solver's counters: rejections and lengthLost (length
// removed by reconnections) accumulate over the whole run, while inserted
// and removed count the nodes changed by the latest step's refinement.
func (s *State) Stats() (rejections, inserted, removed int, lengthLost float64) {
	return s.solver.Rejections, s.solver.LastInserted, s.solver.LastRemoved, s.solver.CumulativeLost
}

// Warnings returns every warning recorded so far for this process, via
// xlog's accumulator. The only warning this module records is New's
// external velocity/streamfunction curl-mismatch check.
func (s *State) Warnings() []string {
	return xlog.Warnings()
}

// Inject appends a new filament to the running simulation, the only
// mutation spec section 6's callback contract permits AffectBefore to
// perform. The filament must already be non-degenerate and have
// up-to-date interpolation coefficients (filament.Filament.Init or
// UpdateCoefficients already called).
func (s *State) Inject(f *filament.Filament) {
	s.solver.Filaments = append(s.solver.Filaments, f)
}

// Step runs one accepted timestep of spec section 4.6's ten-step loop,
// firing AffectBefore beforehand and CallbackAfter (via the solver's
// AfterStep hook wired in New) once the step is accepted.
func (p *Problem) Step(ctx context.Context) (integrate.Status, error) {
	if p.cfg.AffectBefore != nil {
		p.cfg.AffectBefore(&State{solver: p.solver})
	}
	return p.solver.Step(ctx)
}

// Run drives Step until tEnd is reached or a terminal Status results.
func (p *Problem) Run(ctx context.Context, tEnd float64) (integrate.Status, error) {
	for p.solver.Time < tEnd {
		status, err := p.Step(ctx)
		if err != nil {
			return status, err
		}
		if status != integrate.Running {
			return status, nil
		}
	}
	return integrate.Finished, nil
}

// Solver exposes the underlying integrate.Solver for callers that need
// direct access (e.g. iostate writers recording per-step snapshots).
func (p *Problem) Solver() *integrate.Solver { return p.solver }

// buildForcing composes the configured forcing hooks into the single
// additive-velocity closure integrate.Config.Forcing expects, at exactly
// the points spec section 4.7 names: external velocity/streamfunction
// curl are additive fields, stretching adds an inward/outward normal
// velocity, and mutual friction replaces the self-induced v_s with the
// HVBK line velocity v_L (so its contribution is v_L - v_s, added on top
// of the v_s the evaluator already computed).
func buildForcing(cfg Config) func(filaments []*filament.Filament, self *biotsavart.NodeFields, t float64) [][]vec3.Vec3 {
	if cfg.ExternalVelocity == nil && cfg.Stretching == nil && cfg.MutualFriction == nil {
		return nil
	}
	return func(filaments []*filament.Filament, self *biotsavart.NodeFields, t float64) [][]vec3.Vec3 {
		out := make([][]vec3.Vec3, len(filaments))
		for fi, f := range filaments {
			out[fi] = make([]vec3.Vec3, f.N())
		}

		if cfg.ExternalVelocity != nil {
			for fi, f := range filaments {
				for i := 1; i <= f.N(); i++ {
					x := f.Nodes.At(i)
					out[fi][i-1] = vec3.Add(out[fi][i-1], cfg.ExternalVelocity.Evaluate(x, t))
				}
			}
		}

		if cfg.Stretching != nil {
			for fi, f := range filaments {
				for i := 1; i <= f.N(); i++ {
					out[fi][i-1] = vec3.Add(out[fi][i-1], cfg.Stretching.Velocity(f, i, 0))
				}
			}
		}

		if cfg.MutualFriction != nil {
			vn := cfg.NormalFluidVelocity(filaments, t)
			for fi, f := range filaments {
				for i := 1; i <= f.N(); i++ {
					vs := self.V[fi][i-1]
					tangent := f.UnitTangent(i, 0)
					vL := cfg.MutualFriction.LineVelocity(vs, vn[fi][i-1], tangent)
					out[fi][i-1] = vec3.Add(out[fi][i-1], vec3.Sub(vL, vs))
				}
			}
		}

		return out
	}
}
