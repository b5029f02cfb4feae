// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"context"
	"math"
	"testing"

	"github.com/subhk/vortexpasta-go/curves"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/forcing"
	"github.com/subhk/vortexpasta-go/integrate"
	"github.com/subhk/vortexpasta-go/params"
	"github.com/subhk/vortexpasta-go/vec3"
)

func openRingConfig() params.BiotSavart {
	return params.BiotSavart{
		Circulation: 1.0,
		CoreRadius:  1e-3,
		Delta:       0.5,
		Alpha:       1.0,
		Rcut:        1.0,
		GridN:       [3]int{8, 8, 8},
		GaussianM:   2,
		QuadOrder:   4,
	}
}

func newTestProblem(t *testing.T, cfg Config) *Problem {
	t.Helper()
	if cfg.Filaments == nil {
		cfg.Filaments = []*filament.Filament{
			filament.Init(curves.Ring(math.Pi/3, 32), filament.NewSpline(4), vec3.Zero),
		}
	}
	if cfg.BiotSavart == (params.BiotSavart{}) {
		cfg.BiotSavart = openRingConfig()
	}
	if cfg.Scheme == nil {
		cfg.Scheme = integrate.RK4()
	}
	if cfg.Dt == 0 {
		cfg.Dt = 1e-3
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRejectsEmptyFilaments(t *testing.T) {
	_, err := New(Config{Scheme: integrate.RK4()})
	if err == nil {
		t.Fatalf("expected an error for zero filaments")
	}
}

func TestNewRejectsMutualFrictionWithoutNormalFluid(t *testing.T) {
	cfg := Config{
		Filaments:      []*filament.Filament{filament.Init(curves.Ring(1, 16), filament.NewSpline(4), vec3.Zero)},
		BiotSavart:     openRingConfig(),
		Scheme:         integrate.RK4(),
		Dt:             1e-3,
		MutualFriction: &forcing.MutualFriction{Alpha: 0.1},
	}
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected an error when MutualFriction is set without NormalFluidVelocity")
	}
}

func TestStepAdvancesTimeAndStepCount(t *testing.T) {
	p := newTestProblem(t, Config{})
	status, err := p.Step(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != integrate.Running {
		t.Fatalf("expected Running, got %v", status)
	}
	if p.solver.Step_ != 1 {
		t.Fatalf("expected step count 1, got %d", p.solver.Step_)
	}
}

func TestRunReachesEndTime(t *testing.T) {
	p := newTestProblem(t, Config{})
	status, err := p.Run(context.Background(), 3e-3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != integrate.Finished {
		t.Fatalf("expected Finished, got %v", status)
	}
	if p.solver.Time < 3e-3 {
		t.Fatalf("expected time >= 3e-3, got %v", p.solver.Time)
	}
}

func TestAffectBeforeCanInjectFilament(t *testing.T) {
	var injectedAt int
	cfg := Config{
		AffectBefore: func(s *State) {
			if s.StepCount() == 0 {
				s.Inject(filament.Init(curves.Ring(0.5, 16), filament.NewSpline(4), vec3.Zero))
				injectedAt = len(s.Filaments())
			}
		},
	}
	p := newTestProblem(t, cfg)
	before := len(p.solver.Filaments)
	if _, err := p.Step(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if injectedAt != before+1 {
		t.Fatalf("expected Inject to see %d filaments, got %d", before+1, injectedAt)
	}
	if len(p.solver.Filaments) != before+1 {
		t.Fatalf("expected solver to retain the injected filament: got %d filaments", len(p.solver.Filaments))
	}
}

func TestCallbackAfterSeesAcceptedStepState(t *testing.T) {
	var sawStep int
	var sawTime float64
	cfg := Config{
		CallbackAfter: func(s *State) {
			sawStep = s.StepCount()
			sawTime = s.Time()
		},
	}
	p := newTestProblem(t, cfg)
	if _, err := p.Step(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawStep != 1 {
		t.Fatalf("expected CallbackAfter to see step 1, got %d", sawStep)
	}
	if sawTime != p.solver.Time {
		t.Fatalf("expected CallbackAfter to see the post-step time %v, got %v", p.solver.Time, sawTime)
	}
}
