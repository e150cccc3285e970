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

import "math"

// Weights supplies a per-cell weight for one side of an overlap.
type Weights interface {
	// Weight returns the weight of cell i, and false if the cell is
	// excluded from the operator.
	Weight(i int) (float64, bool)
}

// MaskArray is an ice-sheet mask indexed by cell (or vertex) index. A
// non-zero entry masks the cell out; indices past the end are excluded.
type MaskArray []int32

// Weight implements Weights.
func (m MaskArray) Weight(i int) (float64, bool) {
	if i < 0 || i >= len(m) || m[i] != 0 {
		return 0, false
	}
	return 1, true
}

// WeightArray holds one weight per cell index. NaN entries, and indices
// past the end, are excluded.
type WeightArray []float64

// Weight implements Weights.
func (w WeightArray) Weight(i int) (float64, bool) {
	if i < 0 || i >= len(w) || math.IsNaN(w[i]) {
		return 0, false
	}
	return w[i], true
}

// weight evaluates w, treating a nil w as a weight of one for every cell.
func weight(w Weights, i int) (float64, bool) {
	if w == nil {
		return 1, true
	}
	return w.Weight(i)
}
