// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"math"
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/subhk/vortexpasta-go/vec3"
)

func samplePoints() ([]vec3.Vec3, []SegRef, map[int]int) {
	// two small rings of 8 segments each, close enough that some
	// cross-filament pairs fall within the test cutoff.
	var points []vec3.Vec3
	var refs []SegRef
	segCount := map[int]int{0: 8, 1: 8}
	for fil := 0; fil < 2; fil++ {
		cx := float64(fil) * 0.3
		for i := 0; i < 8; i++ {
			theta := 2 * math.Pi * float64(i) / 8
			points = append(points, vec3.Vec3{cx + math.Cos(theta), math.Sin(theta), 0})
			refs = append(refs, SegRef{Filament: fil, Segment: i})
		}
	}
	return points, refs, segCount
}

func sortPairs(p []Pair) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].A != p[j].A {
			return less(p[i].A, p[j].A)
		}
		return less(p[i].B, p[j].B)
	})
}

func TestGridAgreesWithNaive(tst *testing.T) {
	chk.PrintTitle("cell. Grid and Naive report the same candidate pairs")
	points, refs, segCount := samplePoints()
	periods := vec3.Periods{10, 10, 10}
	cutoff := 0.2

	var naive Naive
	naive.Build(points, refs, periods, segCount, cutoff)
	pn := naive.Pairs()

	var grid Grid
	grid.Build(points, refs, periods, segCount, cutoff)
	pg := grid.Pairs()

	sortPairs(pn)
	sortPairs(pg)

	if len(pn) != len(pg) {
		tst.Fatalf("naive found %d pairs, grid found %d", len(pn), len(pg))
	}
	for i := range pn {
		if pn[i] != pg[i] {
			tst.Errorf("pair %d differs: naive=%v grid=%v", i, pn[i], pg[i])
		}
	}
}

func TestExcludesCyclicNeighbors(tst *testing.T) {
	chk.PrintTitle("cell. cyclic neighbor segments are never candidates")
	points, refs, segCount := samplePoints()
	periods := vec3.Periods{10, 10, 10}
	var naive Naive
	naive.Build(points, refs, periods, segCount, 0.5)
	for _, p := range naive.Pairs() {
		if p.A.Filament == p.B.Filament {
			if isCyclicNeighbor(p.A.Segment, p.B.Segment, segCount[p.A.Filament]) {
				tst.Errorf("pair %v should have been excluded as a cyclic neighbor", p)
			}
		}
	}
}

func TestDeterministicIterationOrder(tst *testing.T) {
	chk.PrintTitle("cell. Grid.Pairs is deterministic across repeated calls")
	points, refs, segCount := samplePoints()
	periods := vec3.Periods{10, 10, 10}
	var grid Grid
	grid.Build(points, refs, periods, segCount, 0.2)
	p1 := grid.Pairs()
	p2 := grid.Pairs()
	if len(p1) != len(p2) {
		tst.Fatalf("lengths differ across calls")
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			tst.Errorf("order differs at %d: %v vs %v", i, p1[i], p2[i])
		}
	}
}

func TestPeriodicWrapFindsImagePairs(tst *testing.T) {
	chk.PrintTitle("cell. periodic wrap finds pairs across the box boundary")
	L := 10.0
	points := []vec3.Vec3{
		{0.05, 5, 5},
		{L - 0.05, 5, 5},
	}
	refs := []SegRef{{Filament: 0, Segment: 0}, {Filament: 1, Segment: 0}}
	segCount := map[int]int{0: 4, 1: 4}
	periods := vec3.Periods{L, L, L}
	var grid Grid
	grid.Build(points, refs, periods, segCount, 0.3)
	pairs := grid.Pairs()
	if len(pairs) != 1 {
		tst.Fatalf("expected 1 periodic-image pair, got %d", len(pairs))
	}
}
