// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filament

import "github.com/subhk/vortexpasta-go/vec3"

// rotatedNodes returns the n visible nodes of f starting at logical index
// start and wrapping cyclically, i.e. [start, start+1, ..., start+n-1]
// read through the pad-aware At (so start may already be outside [1,N]).
func (f *Filament) rotatedNodes(start, count int) []vec3.Vec3 {
	out := make([]vec3.Vec3, count)
	n := f.N()
	for k := 0; k < count; k++ {
		idx := start + k
		// reduce into [1,n] before reading, since At only guarantees the
		// pad range, not arbitrary large offsets.
		for idx > n {
			idx -= n
		}
		for idx < 1 {
			idx += n
		}
		out[k] = f.Nodes.At(idx)
	}
	return out
}

// Split performs self-reconnection surgery (spec section 4.5): cutting
// the closed curve at segment boundaries i and j produces two new closed
// filaments, one spanning nodes i+1..j and the other spanning j+1..i. p
// is the periodic image offset chosen by the reconnection criterion; it
// is assigned in full to the first child so the two children's offsets
// sum to Offset+p as required, leaving the second child with the
// parent's original winding.
func (f *Filament) Split(i, j int, p vec3.Vec3, method Method) (a, b *Filament, ok bool) {
	n := f.N()
	if i == j {
		return nil, nil, false
	}
	countA := j - i
	for countA < 0 {
		countA += n
	}
	countB := n - countA
	nodesA := f.rotatedNodes(i+1, countA)
	nodesB := f.rotatedNodes(j+1, countB)
	if countA < 3 || countB < 3 {
		return nil, nil, false
	}
	a = Init(nodesA, method, p)
	b = Init(nodesB, method, f.Offset)
	return a, b, a.CheckNodes() && b.CheckNodes()
}

// Merge performs other-reconnection surgery: the result traverses this
// filament up to node i, jumps (via the periodic offset p) to other at
// node j+1, continues along other back to node j, then jumps back (-p)
// to this filament's node i+1, closing the loop. Every node contributed
// by other is translated by +p so the concatenated node list is
// geometrically contiguous in this filament's unwrapped frame. The
// merged offset is the signed sum of the two parents' offsets.
func (f *Filament) Merge(other *Filament, i, j int, p vec3.Vec3, method Method) (merged *Filament, ok bool) {
	na, nb := f.N(), other.N()
	head := f.rotatedNodes(1, i)
	tailOther := other.rotatedNodes(j+1, nb)
	for k := range tailOther {
		tailOther[k] = vec3.Add(tailOther[k], p)
	}
	tailSelf := f.rotatedNodes(i+1, na-i)
	combined := make([]vec3.Vec3, 0, na+nb)
	combined = append(combined, head...)
	combined = append(combined, tailOther...)
	combined = append(combined, tailSelf...)
	if len(combined) < 3 {
		return nil, false
	}
	merged = Init(combined, method, vec3.Add(f.Offset, other.Offset))
	return merged, merged.CheckNodes()
}
