// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command govortex is the CLI front door for the vortex filament
// simulator (spec section 6's "Problem construction"), grounded on the
// teacher's main.go flag parsing and panic-recovery-with-log-dump
// idiom, minus the dropped MPI start/stop (see DESIGN.md's "Dropped
// teacher dependencies").
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/subhk/vortexpasta-go/curves"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/integrate"
	"github.com/subhk/vortexpasta-go/iostate"
	"github.com/subhk/vortexpasta-go/params"
	"github.com/subhk/vortexpasta-go/problem"
	"github.com/subhk/vortexpasta-go/vec3"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	verbose := io.ArgToBool(1, true)
	seed := io.ArgToString(2, "ring")
	nNodes := io.ArgToInt(3, 32)
	tEnd := io.ArgToFloat(4, 1.0)
	outDir := io.ArgToString(5, "")

	if verbose {
		io.PfWhite("\nvortexpasta-go -- quantized vortex filament simulator\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"config file path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"seed curve", "seed", seed,
			"seed node count", "nNodes", nNodes,
			"simulation end time", "tEnd", tEnd,
			"output directory", "outDir", outDir,
		))
	}

	// read Biot-Savart configuration
	var cfg params.BiotSavart
	f, err := os.Open(fnamepath)
	if err != nil {
		chk.Panic("cannot open config file %q:\n%v", fnamepath, err)
	}
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		chk.Panic("cannot decode config file %q:\n%v", fnamepath, err)
	}
	f.Close()
	cfg.SetDefault()

	// seed geometry
	method := filament.NewSpline(4)
	var fils []*filament.Filament
	switch seed {
	case "ring":
		fils = []*filament.Filament{filament.Init(curves.Ring(1.0, nNodes), method, vec3.Vec3{})}
	case "trefoil":
		fils = []*filament.Filament{filament.Init(curves.Trefoil(1.0, nNodes), method, vec3.Vec3{})}
	case "hopf":
		a, b := curves.HopfLinkPair(1.0, nNodes)
		fils = []*filament.Filament{
			filament.Init(a, method, vec3.Vec3{}),
			filament.Init(b, method, vec3.Vec3{}),
		}
	default:
		chk.Panic("unknown seed curve %q (want ring, trefoil, or hopf)", seed)
	}

	var writer *iostate.Writer
	if outDir != "" {
		os.MkdirAll(outDir, 0755)
		w := iostate.Writer{Dir: outDir}
		writer = &w
	}

	pcfg := problem.Config{
		Filaments:    fils,
		BiotSavart:   cfg,
		Scheme:       integrate.RK4(),
		Dt:           1e-3,
		FoldPeriodic: true,
		Refine:       filament.BasedOnSegmentLength{Lmin: 0.1, Lmax: 0.3},
		CallbackAfter: func(s *problem.State) {
			if verbose {
				rej, ins, rem, lost := s.Stats()
				io.Pf("step %6d  t=%.6f  dt=%.3e  filaments=%d  rejections=%d  +%d/-%d nodes  length_lost=%.3e\n",
					s.StepCount(), s.Time(), s.Dt(), len(s.Filaments()), rej, ins, rem, lost)
			}
			if writer == nil {
				return
			}
			fils := s.Filaments()
			fields := s.Fields()
			fieldStates := make([]iostate.FieldState, len(fils))
			for fi, fl := range fils {
				n := fl.N()
				tangents := make([]vec3.Vec3, n)
				for i := 1; i <= n; i++ {
					tangents[i-1] = fl.UnitTangent(i, 0)
				}
				fieldStates[fi] = iostate.FieldState{
					V:        fields.V[fi],
					Psi:      fields.Psi[fi],
					Tangents: tangents,
				}
			}
			if err := writer.WriteStep(s.StepCount(), fils, fieldStates); err != nil {
				chk.Panic("cannot write step %d:\n%v", s.StepCount(), err)
			}
			if err := writer.WriteSummary(iostate.StepSummary{Step: s.StepCount(), Time: s.Time(), Dt: s.Dt()}); err != nil {
				chk.Panic("cannot write summary at step %d:\n%v", s.StepCount(), err)
			}
		},
	}

	prob, err := problem.New(pcfg)
	if err != nil {
		chk.Panic("problem.New failed:\n%v", err)
	}

	status, err := prob.Run(context.Background(), tEnd)
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}

	if verbose {
		io.PfGreen("\ndone: status=%v\n", status)
	}
}
