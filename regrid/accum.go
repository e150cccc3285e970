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

// Package regrid assembles the sparse linear operators that move fields
// between the grids of a GCM / ice-sheet coupler. Operators are built in
// the sparse index spaces of the grids and can be compacted into dense
// index spaces for the linear algebra that follows.
package regrid

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// ErrExtent is returned when an index does not fit the extent of an index
// space.
var ErrExtent = errors.New("regrid: index outside extent")

// SparseAccumulator sums values by integer index. The zero value is not
// usable; create one with NewSparseAccumulator.
type SparseAccumulator struct {
	vals map[int]float64
}

// NewSparseAccumulator returns an empty accumulator.
func NewSparseAccumulator() *SparseAccumulator {
	return &SparseAccumulator{vals: make(map[int]float64)}
}

// Add adds v to the value at index i.
func (a *SparseAccumulator) Add(i int, v float64) {
	a.vals[i] += v
}

// Get returns the value at index i and whether anything was added there.
func (a *SparseAccumulator) Get(i int) (float64, bool) {
	v, ok := a.vals[i]
	return v, ok
}

// Len returns the number of indices that have been added to.
func (a *SparseAccumulator) Len() int { return len(a.vals) }

// Keys returns the indices that have been added to, in increasing order.
func (a *SparseAccumulator) Keys() []int {
	k := make([]int, 0, len(a.vals))
	for i := range a.vals {
		k = append(k, i)
	}
	sort.Ints(k)
	return k
}

// Sum returns the sum of all values.
func (a *SparseAccumulator) Sum() float64 {
	v := make([]float64, 0, len(a.vals))
	for _, i := range a.Keys() {
		v = append(v, a.vals[i])
	}
	return floats.Sum(v)
}

// Merge adds every value of b to a.
func (a *SparseAccumulator) Merge(b *SparseAccumulator) {
	for i, v := range b.vals {
		a.vals[i] += v
	}
}

// ToSparseArray returns the values as a one-dimensional array of length
// extent. It fails if an index does not fit.
func (a *SparseAccumulator) ToSparseArray(extent int) (*sparse.SparseArray, error) {
	o := sparse.ZerosSparse(extent)
	for i, v := range a.vals {
		if i < 0 || i >= extent {
			return nil, fmt.Errorf("regrid: accumulator index %d, extent %d: %w", i, extent, ErrExtent)
		}
		o.AddVal(v, i)
	}
	return o, nil
}
