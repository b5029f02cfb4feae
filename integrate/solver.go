// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"context"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/subhk/vortexpasta-go/biotsavart"
	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/reconnect"
	"github.com/subhk/vortexpasta-go/vec3"
)

// Status is the outcome of one Solver.Step call, mirroring
// fem.SolverImplicit.Run's divergence-control flags rather than a Go
// error for the expected, recoverable control-flow cases of spec section
// 7: a rejected step, a degenerate filament set, or running out of
// vortices are not bugs, they are modeled outcomes.
type Status int

const (
	Running Status = iota
	Rejected
	Degenerate
	NoVorticesLeft
	Finished
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Rejected:
		return "rejected"
	case Degenerate:
		return "degenerate"
	case NoVorticesLeft:
		return "no_vortices_left"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config bundles everything Solver.Step needs to run spec section 4.6's
// ten-step loop: the evaluator parameters/cache, the chosen scheme and
// (optional) adaptivity, the refinement and reconnection policies, and
// the forcing/callback hooks.
type Config struct {
	Params *biotsavart.Params
	Cache  *biotsavart.Cache

	Scheme     Scheme
	Adaptivity Adaptivity // nil means NoAdaptivity{}

	FoldPeriodic bool

	Refine          filament.RefineCriterion // nil means NoRefinement{}
	ReconnectEngine reconnect.Engine
	ReconnectCrit   reconnect.Criterion // nil disables reconnection entirely
	ReconnectFinder cell.Finder
	ReconnectCutoff float64
	LengthRule      *quad.Rule

	Dt    float64
	DtMin float64

	// Forcing returns the extra velocity to add at every node, given the
	// self-induced field already computed this stage (spec section 4.7's
	// external velocity/streamfunction, stretching, mutual friction all
	// compose here); nil means no forcing.
	Forcing func(filaments []*filament.Filament, self *biotsavart.NodeFields, t float64) [][]vec3.Vec3

	ReconnectCallback reconnect.Callback

	// AfterStep is fired once a step is accepted, mirroring spec section
	// 4.6 step 10's user callback.
	AfterStep func(s *Solver)
}

// Solver owns the current filament set and per-node fields, and runs the
// per-timestep loop of spec section 4.6, grounded directly on
// fem.SolverImplicit.Run's reject/halve/restore structure.
type Solver struct {
	Filaments []*filament.Filament
	Fields    *biotsavart.NodeFields

	Cfg Config

	Time           float64
	Step_          int
	Rejections     int
	Dt             float64
	LastStats      reconnect.Stats
	LastInserted   int
	LastRemoved    int
	CumulativeLost float64
}

// NewSolver builds a Solver over the given filaments, evaluating the
// initial velocity/streamfunction field so the first step has a valid
// "previous step" slope (spec section 4.6 step 1).
func NewSolver(filaments []*filament.Filament, cfg Config) *Solver {
	if cfg.Adaptivity == nil {
		cfg.Adaptivity = NoAdaptivity{}
	}
	if cfg.Refine == nil {
		cfg.Refine = filament.NoRefinement{}
	}
	if cfg.LengthRule == nil {
		cfg.LengthRule = quad.GaussLegendre01(4)
	}
	s := &Solver{
		Filaments: filaments,
		Fields:    biotsavart.NewNodeFields(nodeCounts(filaments)),
		Cfg:       cfg,
		Dt:        cfg.Dt,
	}
	biotsavart.Evaluator{}.ComputeOnNodes(s.Fields, cfg.Cache, s.Filaments, cfg.Params, biotsavart.Full)
	return s
}

func nodeCounts(filaments []*filament.Filament) []int {
	out := make([]int, len(filaments))
	for i, f := range filaments {
		out[i] = f.N()
	}
	return out
}

// rhsFuncs builds the slow/fast VelocityFunc pair the configured Scheme
// needs: a full right-hand side (self-induced field plus forcing) and,
// for schemes that split (IMEX, MRIGARK), a fast term restricted to the
// LIA-only contribution. ExplicitRK schemes simply sum slow+fast every
// stage, so giving them slow=full, fast=zero is equivalent to no split.
func (s *Solver) rhsFuncs() (slow, fast VelocityFunc) {
	full := func(t float64, filaments []*filament.Filament) [][]vec3.Vec3 {
		fields := biotsavart.NewNodeFields(nodeCounts(filaments))
		biotsavart.Evaluator{}.ComputeOnNodes(fields, s.Cfg.Cache, filaments, s.Cfg.Params, biotsavart.Full)
		v := fields.V
		if s.Cfg.Forcing != nil {
			extra := s.Cfg.Forcing(filaments, fields, t)
			v = addVelocityFields(v, extra)
		}
		return v
	}

	switch s.Cfg.Scheme.(type) {
	case IMEX, MRIGARK:
		slow = func(t float64, filaments []*filament.Filament) [][]vec3.Vec3 {
			fields := biotsavart.NewNodeFields(nodeCounts(filaments))
			biotsavart.Evaluator{}.ComputeOnNodes(fields, s.Cfg.Cache, filaments, s.Cfg.Params, biotsavart.ShortRangeNoLIA)
			long := biotsavart.NewNodeFields(nodeCounts(filaments))
			biotsavart.Evaluator{}.ComputeOnNodes(long, s.Cfg.Cache, filaments, s.Cfg.Params, biotsavart.LongRange)
			fields.V = addVelocityFields(fields.V, long.V)
			v := fields.V
			if s.Cfg.Forcing != nil {
				extra := s.Cfg.Forcing(filaments, fields, t)
				v = addVelocityFields(v, extra)
			}
			return v
		}
		fast = func(t float64, filaments []*filament.Filament) [][]vec3.Vec3 {
			fields := biotsavart.NewNodeFields(nodeCounts(filaments))
			biotsavart.Evaluator{}.ComputeOnNodes(fields, s.Cfg.Cache, filaments, s.Cfg.Params, biotsavart.LIAOnly)
			return fields.V
		}
		return slow, fast
	default:
		return full, ZeroVelocity
	}
}

func maxVelocityMagnitude(v [][]vec3.Vec3) float64 {
	max := 0.0
	for _, row := range v {
		for _, vv := range row {
			if n := vec3.Norm(vv); n > max {
				max = n
			}
		}
	}
	return max
}

func minNodeDistance(filaments []*filament.Filament) float64 {
	min := math.Inf(1)
	for _, f := range filaments {
		if d := f.MinimumNodeDistance(); d < min {
			min = d
		}
	}
	return min
}

// Step runs the ten-numbered-step loop of spec section 4.6 once and
// returns Running, or NoVorticesLeft once no filament remains. An attempt
// whose largest displacement exceeds the adaptivity ceiling is discarded
// and retried inside Step with dt halved (counted in Rejections), so Step
// never returns Rejected; it returns an error once dt falls below DtMin.
func (s *Solver) Step(ctx context.Context) (Status, error) {
	if len(s.Filaments) == 0 {
		return NoVorticesLeft, nil
	}
	if err := ctx.Err(); err != nil {
		return Running, err
	}

	slow, fast := s.rhsFuncs()

	for {
		if s.Dt < s.Cfg.DtMin {
			return Running, chk.Err("integrate: dt=%v fell below dtmin=%v before reaching the end time", s.Dt, s.Cfg.DtMin)
		}

		disp := s.Cfg.Scheme.Integrate(s.Filaments, s.Time, s.Dt, slow, fast)

		if _, ok := s.Cfg.Adaptivity.(NoAdaptivity); !ok {
			maxDisp := 0.0
			for _, row := range disp {
				for _, d := range row {
					if n := vec3.Norm(d); n > maxDisp {
						maxDisp = n
					}
				}
			}
			ceiling := s.Cfg.Adaptivity.Ceiling(Info{MinNodeDistance: minNodeDistance(s.Filaments)})
			if maxDisp > ceiling {
				io.Pfyel("rejected t = %v, dt = %v\n", s.Time, s.Dt)
				s.Dt *= 0.5
				s.Rejections++
				continue
			}
		}

		applyDisplacement(s.Filaments, disp)
		io.Pfgreen("accepted t = %v, dt = %v\n", s.Time, s.Dt)
		break
	}

	if s.Cfg.FoldPeriodic && s.Cfg.Params.IsPeriodic() {
		for _, f := range s.Filaments {
			f.FoldPeriodic(s.Cfg.Params.Periods)
		}
	}

	if s.Cfg.ReconnectCrit != nil {
		updated, stats := s.Cfg.ReconnectEngine.Step(
			s.Filaments, s.Cfg.ReconnectCrit, s.Cfg.ReconnectFinder,
			s.Cfg.Params.Periods, s.Cfg.ReconnectCutoff, s.Cfg.LengthRule, s.Cfg.ReconnectCallback,
		)
		s.Filaments = updated
		s.LastStats = stats
		s.CumulativeLost += stats.LengthLost
	}

	if len(s.Filaments) == 0 {
		return NoVorticesLeft, nil
	}

	s.LastInserted, s.LastRemoved = 0, 0
	kept := s.Filaments[:0]
	for _, f := range s.Filaments {
		inserted, removed, ok := f.Refine(s.Cfg.Refine)
		s.LastInserted += inserted
		s.LastRemoved += removed
		if !ok {
			continue
		}
		kept = append(kept, f)
	}
	s.Filaments = kept
	if len(s.Filaments) == 0 {
		return NoVorticesLeft, nil
	}

	s.Fields = biotsavart.NewNodeFields(nodeCounts(s.Filaments))
	biotsavart.Evaluator{}.ComputeOnNodes(s.Fields, s.Cfg.Cache, s.Filaments, s.Cfg.Params, biotsavart.Full)

	s.Time += s.Dt
	s.Step_++

	maxV := maxVelocityMagnitude(s.Fields.V)
	s.Dt = s.Cfg.Adaptivity.NextDt(Info{MinNodeDistance: minNodeDistance(s.Filaments), MaxVelocity: maxV}, s.Dt)

	if s.Cfg.AfterStep != nil {
		s.Cfg.AfterStep(s)
	}

	return Running, nil
}

// Run drives Step until t reaches tEnd or a terminal Status is reached.
func (s *Solver) Run(ctx context.Context, tEnd float64) (Status, error) {
	for s.Time < tEnd {
		status, err := s.Step(ctx)
		if err != nil {
			return status, err
		}
		if status != Running {
			return status, nil
		}
	}
	return Finished, nil
}

// applyDisplacement adds disp (already dt-scaled) to every filament's
// visible nodes and refreshes its interpolation coefficients -- spec
// section 4.6 step 4, X_new[i] = X_old[i] + dt*v[i].
func applyDisplacement(filaments []*filament.Filament, disp [][]vec3.Vec3) {
	for fi, f := range filaments {
		for i := 1; i <= f.N(); i++ {
			f.Nodes.Set(i, vec3.Add(f.Nodes.At(i), disp[fi][i-1]))
		}
		f.UpdateCoefficients()
	}
}
