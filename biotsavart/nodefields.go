// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package biotsavart

import "github.com/subhk/vortexpasta-go/vec3"

// NodeFields holds per-node velocity and streamfunction values, one slice
// per filament, indexed by node number 1..N at offset i-1 (matching
// Filament.VisiblePoints' ordering).
type NodeFields struct {
	V   [][]vec3.Vec3
	Psi [][]vec3.Vec3
}

// NewNodeFields allocates zeroed fields sized to match the given node
// counts, one entry per filament.
func NewNodeFields(nodeCounts []int) *NodeFields {
	f := &NodeFields{
		V:   make([][]vec3.Vec3, len(nodeCounts)),
		Psi: make([][]vec3.Vec3, len(nodeCounts)),
	}
	for i, n := range nodeCounts {
		f.V[i] = make([]vec3.Vec3, n)
		f.Psi[i] = make([]vec3.Vec3, n)
	}
	return f
}

// Reset zeroes every entry without reallocating.
func (f *NodeFields) Reset() {
	for i := range f.V {
		for j := range f.V[i] {
			f.V[i][j] = vec3.Vec3{}
			f.Psi[i][j] = vec3.Vec3{}
		}
	}
}

// AddV accumulates a velocity contribution at node (filamentIdx, node).
func (f *NodeFields) AddV(filamentIdx, node int, v vec3.Vec3) {
	f.V[filamentIdx][node-1] = vec3.Add(f.V[filamentIdx][node-1], v)
}

// AddPsi accumulates a streamfunction contribution at node (filamentIdx, node).
func (f *NodeFields) AddPsi(filamentIdx, node int, psi vec3.Vec3) {
	f.Psi[filamentIdx][node-1] = vec3.Add(f.Psi[filamentIdx][node-1], psi)
}
