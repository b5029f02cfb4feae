// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package biotsavart

import (
	"math"
	"runtime"

	"github.com/subhk/vortexpasta-go/cell"
	"github.com/subhk/vortexpasta-go/filament"
	"github.com/subhk/vortexpasta-go/quad"
	"github.com/subhk/vortexpasta-go/vec3"
	"golang.org/x/sync/errgroup"
)

// ShortCache holds the neighbor finder and the current candidate segment
// pairs for the short-range (non-local, non-LIA) sum. Rebuilt whenever
// the filament set or node count changes.
type ShortCache struct {
	Finder cell.Finder
	Pairs  []cell.Pair
}

// NewShortCache returns a ShortCache backed by the given Finder (Naive
// for small filament counts, Grid otherwise -- the caller decides, as
// neither is privileged by the evaluator).
func NewShortCache(finder cell.Finder) *ShortCache {
	return &ShortCache{Finder: finder}
}

// Rebuild re-indexes the neighbor finder from the current filament node
// positions (representative point of segment i is node i, the same
// convention as the reconnection engine's candidate search) and refreshes
// the candidate pair list.
func (c *ShortCache) Rebuild(filaments []*filament.Filament, periods vec3.Periods, rcut float64) {
	var points []vec3.Vec3
	var refs []cell.SegRef
	segCount := make(map[int]int, len(filaments))
	for fi, f := range filaments {
		n := f.N()
		segCount[fi] = n
		for i := 1; i <= n; i++ {
			points = append(points, f.Nodes.At(i))
			refs = append(refs, cell.SegRef{Filament: fi, Segment: i})
		}
	}
	c.Finder.Build(points, refs, periods, segCount, rcut)
	c.Pairs = c.Finder.Pairs()
}

// shortRangeVelocityFactor is erfc(alpha*r) + (2*alpha*r/sqrt(pi))*exp(-(alpha*r)^2),
// the complement of the Ewald smoothing function g_alpha differentiated for
// the velocity (1/r^3) kernel.
func shortRangeVelocityFactor(r, alpha float64) float64 {
	ar := alpha * r
	return math.Erfc(ar) + (2*ar/math.Sqrt(math.Pi))*math.Exp(-ar*ar)
}

// shortRangeStreamfunctionFactor is erfc(alpha*r) + (2*alpha*r/sqrt(pi))*exp(-(alpha*r)^2),
// applied to the 1/r (not 1/r^3) potential kernel.
func shortRangeStreamfunctionFactor(r, alpha float64) float64 {
	ar := alpha * r
	return math.Erfc(ar) + (2*ar/math.Sqrt(math.Pi))*math.Exp(-ar*ar)
}

// computeShortRange adds, for every candidate pair delivered by the
// neighbor finder, the induction of each segment on the other's
// representative node, using the supplied Gauss-Legendre rule. Cyclic
// (topologically adjacent) segment pairs are never candidates -- that
// regime is covered by the desingularized LIA term instead.
//
// The pair list is partitioned into contiguous chunks, one per worker
// goroutine (bounded by GOMAXPROCS, following the errgroup worker-pool
// idiom used throughout the gofem pack's assembly routines), each
// accumulating into its own NodeFields to avoid contention; results are
// folded back in chunk order so the total is independent of scheduling.
func computeShortRange(fields *NodeFields, filaments []*filament.Filament, p *Params, cache *ShortCache, wantV, wantPsi bool) {
	rule := p.ShortQuad
	pairs := cache.Pairs
	if len(pairs) == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers < 1 {
		workers = 1
	}

	nodeCounts := make([]int, len(filaments))
	for i, f := range filaments {
		nodeCounts[i] = f.N()
	}

	partials := make([]*NodeFields, workers)
	chunk := (len(pairs) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > len(pairs) {
			hi = len(pairs)
		}
		if lo >= hi {
			continue
		}
		partials[w] = NewNodeFields(nodeCounts)
		g.Go(func() error {
			local := partials[w]
			for _, pr := range pairs[lo:hi] {
				contributeSegmentToNode(local, filaments, p, pr.B, pr.A, rule, wantV, wantPsi)
				contributeSegmentToNode(local, filaments, p, pr.A, pr.B, rule, wantV, wantPsi)
			}
			return nil
		})
	}
	_ = g.Wait() // worker bodies never return an error

	for _, pf := range partials {
		if pf == nil {
			continue
		}
		for fi := range pf.V {
			for ni := range pf.V[fi] {
				fields.V[fi][ni] = vec3.Add(fields.V[fi][ni], pf.V[fi][ni])
				fields.Psi[fi][ni] = vec3.Add(fields.Psi[fi][ni], pf.Psi[fi][ni])
			}
		}
	}
}

// contributeSegmentToNode integrates segRef's induction at the node
// identified by nodeRef (node index nodeRef.Segment of filament
// nodeRef.Filament), accumulating into fields.
func contributeSegmentToNode(fields *NodeFields, filaments []*filament.Filament, p *Params, segRef, nodeRef cell.SegRef, rule *quad.Rule, wantV, wantPsi bool) {
	fSeg := filaments[segRef.Filament]
	fNode := filaments[nodeRef.Filament]
	x := fNode.Nodes.At(nodeRef.Segment)
	pref := p.Gamma / (4 * math.Pi)
	for k, zeta := range rule.Nodes {
		s := fSeg.Evaluate(segRef.Segment, zeta, 0)
		tangent := fSeg.Evaluate(segRef.Segment, zeta, 1) // dX/dzeta, already segment-length scaled
		diff := vec3.NearestImage(x, s, p.Periods)
		r := vec3.Norm(diff)
		if r == 0 {
			continue
		}
		w := rule.Weights[k]
		if wantV {
			factor := shortRangeVelocityFactor(r, p.Alpha)
			contrib := vec3.Cross(vec3.Scale(factor/(r*r*r), diff), tangent)
			fields.AddV(nodeRef.Filament, nodeRef.Segment, vec3.Scale(pref*w, contrib))
		}
		if wantPsi {
			factor := shortRangeStreamfunctionFactor(r, p.Alpha)
			fields.AddPsi(nodeRef.Filament, nodeRef.Segment, vec3.Scale(pref*w*factor/r, tangent))
		}
	}
}
