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
	"fmt"

	"github.com/citibob/glint2"
	"github.com/sirupsen/logrus"
)

// Overlap is the area shared by cell A of one grid and cell B of another.
type Overlap struct {
	A, B int
	Area float64
}

// FromGrid returns the overlaps recorded in an exchange grid, in cell
// index order.
func FromGrid(x *glint2.Grid) ([]Overlap, error) {
	if x.Type != glint2.TypeExchange {
		return nil, fmt.Errorf("regrid: grid %s is %v, not %v", x.Name, x.Type, glint2.TypeExchange)
	}
	cells := x.Cells()
	o := make([]Overlap, len(cells))
	for i, c := range cells {
		o[i] = Overlap{A: c.I, B: c.J, Area: c.NativeArea}
	}
	return o, nil
}

// Direction selects which side of the overlaps is the target of an
// operator.
type Direction int

const (
	// BvA maps fields on grid A to grid B: rows are B indices and columns
	// are A indices.
	BvA Direction = iota

	// AvB maps fields on grid B to grid A.
	AvB
)

func (d Direction) String() string {
	if d == AvB {
		return "AvB"
	}
	return "BvA"
}

// Assembler builds area-weighted regridding operators from overlaps.
type Assembler struct {
	// WeightsA and WeightsB weight or mask the cells of grids A and B.
	// A nil value weights every cell by one.
	WeightsA, WeightsB Weights

	// NA and NB are the full extents of grids A and B. Zero leaves the
	// corresponding matrix dimension unchecked.
	NA, NB int

	Log logrus.FieldLogger
}

// Assemble returns the operator whose (target, source) entry is the sum
// of area*wA*wB over all overlaps between those two cells, together with
// the total overlap area accumulated by target index. Overlaps involving
// an excluded cell contribute nothing to either. The operator is not
// normalized; see Matrix.DivideRows.
func (as *Assembler) Assemble(overlaps []Overlap, dir Direction) (*Matrix, *SparseAccumulator, error) {
	rows, cols := as.NB, as.NA
	if dir == AvB {
		rows, cols = cols, rows
	}
	m := NewMatrix(rows, cols)
	acc := NewSparseAccumulator()
	var skipped int
	for _, o := range overlaps {
		wa, ok := weight(as.WeightsA, o.A)
		if !ok {
			skipped++
			continue
		}
		wb, ok := weight(as.WeightsB, o.B)
		if !ok {
			skipped++
			continue
		}
		target, source := o.B, o.A
		if dir == AvB {
			target, source = o.A, o.B
		}
		if err := m.Add(target, source, o.Area*wa*wb); err != nil {
			return nil, nil, err
		}
		acc.Add(target, o.Area)
	}
	log := as.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"direction": dir,
		"overlaps":  len(overlaps),
		"skipped":   skipped,
		"nnz":       m.NNZ(),
	}).Debug("regrid: assembled operator")
	return m, acc, nil
}
