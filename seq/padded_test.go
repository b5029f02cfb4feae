// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seq

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func addOffsetFloat(total float64) func(v float64, dir int) float64 {
	return func(v float64, dir int) float64 { return v + float64(dir)*total }
}

func TestPadFromCentre(tst *testing.T) {
	chk.PrintTitle("seq. PadFromCentre mirrors visible range with offset")
	o := FromVisible([]float64{0, 1, 2, 3}, 2)
	o.PadFromCentre(addOffsetFloat(4))
	chk.Scalar(tst, "left pad[-1]", 1e-15, o.At(-1), 2-4)
	chk.Scalar(tst, "left pad[0]", 1e-15, o.At(0), 3-4)
	chk.Scalar(tst, "right pad[5]", 1e-15, o.At(5), 0+4)
	chk.Scalar(tst, "right pad[6]", 1e-15, o.At(6), 1+4)
}

func TestPadFromRightLeavesRightAlone(tst *testing.T) {
	chk.PrintTitle("seq. PadFromRight preserves externally-set right pad")
	o := FromVisible([]float64{0, 1, 2, 3}, 2)
	o.Set(5, 999)
	o.Set(6, 888)
	o.PadFromRight(addOffsetFloat(4))
	chk.Scalar(tst, "right pad[5] untouched", 1e-15, o.At(5), 999)
	chk.Scalar(tst, "right pad[6] untouched", 1e-15, o.At(6), 888)
	chk.Scalar(tst, "left pad[0]", 1e-15, o.At(0), 3-4)
}

func TestResizeGrowShrink(tst *testing.T) {
	chk.PrintTitle("seq. Resize preserves existing visible entries")
	o := FromVisible([]float64{10, 20, 30}, 1)
	o.Resize(5)
	if o.N() != 5 {
		tst.Fatalf("N=%d, want 5", o.N())
	}
	chk.Scalar(tst, "visible[1]", 1e-15, o.At(1), 10)
	chk.Scalar(tst, "visible[3]", 1e-15, o.At(3), 30)
	o.Resize(2)
	chk.Scalar(tst, "shrunk visible[1]", 1e-15, o.At(1), 10)
	chk.Scalar(tst, "shrunk visible[2]", 1e-15, o.At(2), 20)
}

func TestInsertAtAndRemoveAt(tst *testing.T) {
	chk.PrintTitle("seq. InsertAt/RemoveAt shift visible entries")
	o := FromVisible([]float64{0, 1, 3}, 1)
	o.InsertAt(3, 2) // 0,1,2,3
	chk.Vector(tst, "after insert", 1e-15, o.Visible(), []float64{0, 1, 2, 3})
	o.RemoveAt(1) // 1,2,3
	chk.Vector(tst, "after remove", 1e-15, o.Visible(), []float64{1, 2, 3})
}

func TestCheckFreshPanicsWhenDirty(tst *testing.T) {
	chk.PrintTitle("seq. CheckFresh panics on stale pad")
	defer func() {
		if r := recover(); r == nil {
			tst.Fatalf("expected panic on stale pad")
		}
	}()
	o := FromVisible([]float64{0, 1, 2}, 1)
	o.CheckFresh()
}

func TestClone(tst *testing.T) {
	chk.PrintTitle("seq. Clone is independent")
	o := FromVisible([]float64{1, 2, 3}, 1)
	o.PadFromCentre(addOffsetFloat(10))
	c := o.Clone()
	c.Set(1, 999)
	chk.Scalar(tst, "original unaffected", 1e-15, o.At(1), 1)
	chk.Scalar(tst, "clone mutated", 1e-15, c.At(1), 999)
}
