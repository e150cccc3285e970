/*
Copyright © 2019 the GLINT2 authors.
This file is part of GLINT2.

GLINT2 is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GLINT2 is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GLINT2.  If not, see <http://www.gnu.org/licenses/>.
*/

package regrid

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/citibob/glint2"
)

func TestAssembleDuplicates(t *testing.T) {
	ovs := []Overlap{{A: 5, B: 3, Area: 2}, {A: 5, B: 3, Area: 1.5}}
	var as Assembler
	m, acc, err := as.Assemble(ovs, BvA)
	if err != nil {
		t.Fatal(err)
	}
	if m.NNZ() != 1 || m.Get(3, 5) != 3.5 {
		t.Errorf("BvA triplets %v", m.Triplets())
	}
	if v, _ := acc.Get(3); v != 3.5 || acc.Len() != 1 {
		t.Errorf("accumulator[3] = %g", v)
	}

	m, acc, err = as.Assemble(ovs, AvB)
	if err != nil {
		t.Fatal(err)
	}
	if m.Get(5, 3) != 3.5 {
		t.Errorf("AvB triplets %v", m.Triplets())
	}
	if v, _ := acc.Get(5); v != 3.5 {
		t.Errorf("accumulator[5] = %g", v)
	}
}

func TestAssembleWeights(t *testing.T) {
	ovs := []Overlap{
		{A: 0, B: 0, Area: 1},
		{A: 0, B: 1, Area: 2},
		{A: 1, B: 1, Area: 4},
		{A: 2, B: 1, Area: 8},
	}
	as := Assembler{
		WeightsA: WeightArray{1, 0.5, math.NaN()},
		WeightsB: MaskArray{0, 0},
		NA:       3,
		NB:       2,
	}
	m, acc, err := as.Assemble(ovs, BvA)
	if err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]float64{{0, 0}: 1, {1, 0}: 2, {1, 1}: 2}
	if m.NNZ() != len(want) {
		t.Errorf("triplets %v", m.Triplets())
	}
	for ij, v := range want {
		if m.Get(ij[0], ij[1]) != v {
			t.Errorf("m%v = %g, want %g", ij, m.Get(ij[0], ij[1]), v)
		}
	}
	// The accumulator receives unweighted areas, and nothing from
	// excluded cells.
	if v, _ := acc.Get(1); v != 6 {
		t.Errorf("accumulator[1] = %g, want 6", v)
	}

	as.WeightsB = MaskArray{0, 1}
	m, acc, err = as.Assemble(ovs, BvA)
	if err != nil {
		t.Fatal(err)
	}
	if m.NNZ() != 1 || acc.Len() != 1 {
		t.Errorf("masked ice cell 1 still contributes: %v", m.Triplets())
	}

	// Ice cell 1 is unmasked so the overlap reaches the extent check.
	as.WeightsB = nil
	as.NB = 1
	if _, _, err := as.Assemble([]Overlap{{A: 0, B: 1, Area: 1}}, BvA); !errors.Is(err, ErrExtent) {
		t.Errorf("row outside the matrix: have %v, want ErrExtent", err)
	}
}

func TestAssembleExchangeGrid(t *testing.T) {
	a, err := glint2.NewGridXY("gcm", "", glint2.XYBoundaries(0, 2, 1), glint2.XYBoundaries(0, 2, 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := glint2.NewGridXY("ice", "", glint2.XYBoundaries(0.5, 2.5, 0.5), glint2.XYBoundaries(0.5, 2.5, 0.5), nil)
	if err != nil {
		t.Fatal(err)
	}
	x, err := glint2.NewExchangeGrid(context.Background(), a, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromGrid(a); err == nil {
		t.Error("FromGrid accepted a non-exchange grid")
	}
	ovs, err := FromGrid(x)
	if err != nil {
		t.Fatal(err)
	}
	as := Assembler{NA: a.NCellsFull(), NB: b.NCellsFull()}
	m, acc, err := as.Assemble(ovs, BvA)
	if err != nil {
		t.Fatal(err)
	}
	if !near(acc.Sum(), 2.25) {
		t.Errorf("total overlap %g, want 2.25", acc.Sum())
	}
	// After dividing by the covered area, a constant field stays constant
	// on every covered cell.
	m.DivideRows(acc)
	y, err := m.MulVec([]float64{3, 3, 3, 3})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range y {
		if _, covered := acc.Get(i); covered && !near(v, 3) {
			t.Errorf("ice cell %d: %g", i, v)
		}
		if _, covered := acc.Get(i); !covered && v != 0 {
			t.Errorf("uncovered ice cell %d: %g", i, v)
		}
	}
	if _, covered := acc.Get(15); covered {
		t.Error("ice cell 15 lies outside the GCM grid")
	}
}
