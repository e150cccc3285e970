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
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// Entry is one non-zero element of a matrix.
type Entry struct {
	Row, Col int
	Value    float64
}

// Matrix is a sparse matrix in coordinate form. Adding to an existing
// (row, col) pair accumulates into it; entries are otherwise kept in the
// order they were first added.
type Matrix struct {
	rows, cols int
	entries    []Entry
	pos        map[[2]int]int
}

// NewMatrix returns an empty matrix with the given shape. A non-positive
// extent is left open and not checked.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, pos: make(map[[2]int]int)}
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.entries) }

// Add adds v to the element at (i, j).
func (m *Matrix) Add(i, j int, v float64) error {
	if i < 0 || j < 0 || (m.rows > 0 && i >= m.rows) || (m.cols > 0 && j >= m.cols) {
		return fmt.Errorf("regrid: element (%d, %d) of %dx%d matrix: %w", i, j, m.rows, m.cols, ErrExtent)
	}
	k := [2]int{i, j}
	if p, ok := m.pos[k]; ok {
		m.entries[p].Value += v
		return nil
	}
	m.pos[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Row: i, Col: j, Value: v})
	return nil
}

// Get returns the element at (i, j).
func (m *Matrix) Get(i, j int) float64 {
	if p, ok := m.pos[[2]int{i, j}]; ok {
		return m.entries[p].Value
	}
	return 0
}

// Triplets returns a copy of the entries in insertion order.
func (m *Matrix) Triplets() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Merge adds every entry of b to m, in b's order.
func (m *Matrix) Merge(b *Matrix) error {
	for _, e := range b.entries {
		if err := m.Add(e.Row, e.Col, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Scale multiplies every entry by f.
func (m *Matrix) Scale(f float64) {
	for i := range m.entries {
		m.entries[i].Value *= f
	}
}

// DivideRows divides each row i by the value of acc at i, turning an
// operator of summed overlap areas into one of area-weighted means. Rows
// without an accumulated value, or with a zero value, are left unchanged.
func (m *Matrix) DivideRows(acc *SparseAccumulator) {
	for i, e := range m.entries {
		if d, ok := acc.Get(e.Row); ok && d != 0 {
			m.entries[i].Value /= d
		}
	}
}

// MulVec returns m*x, where x is indexed by column and the result by row.
func (m *Matrix) MulVec(x []float64) ([]float64, error) {
	if m.rows <= 0 || m.cols <= 0 {
		return nil, fmt.Errorf("regrid: multiplying matrix of open shape: %w", ErrExtent)
	}
	if len(x) != m.cols {
		return nil, fmt.Errorf("regrid: vector length %d, matrix has %d columns: %w", len(x), m.cols, ErrExtent)
	}
	y := make([]float64, m.rows)
	for _, e := range m.entries {
		y[e.Row] += e.Value * x[e.Col]
	}
	return y, nil
}

// DenseMatrix is a matrix whose rows and columns have been compacted into
// dense index spaces.
type DenseMatrix struct {
	Rows, Cols *SparseSet

	// M has shape (Rows.Len(), Cols.Len()).
	M *sparse.SparseArray
}

// MakeDense compacts m into the dense index spaces rows and cols,
// registering every row and column index of m in entry order. The sparse
// extents of rows and cols are set to the shape of m when it is known.
func MakeDense(m *Matrix, rows, cols *SparseSet) (*DenseMatrix, error) {
	dense := make([]Entry, len(m.entries))
	for k, e := range m.entries {
		dense[k] = Entry{Row: rows.Add(e.Row), Col: cols.Add(e.Col), Value: e.Value}
	}
	if m.rows > 0 {
		if err := rows.SetSparseExtent(m.rows); err != nil {
			return nil, err
		}
	}
	if m.cols > 0 {
		if err := cols.SetSparseExtent(m.cols); err != nil {
			return nil, err
		}
	}
	d := &DenseMatrix{Rows: rows, Cols: cols, M: sparse.ZerosSparse(rows.Len(), cols.Len())}
	for _, e := range dense {
		d.M.AddVal(e.Value, e.Row, e.Col)
	}
	return d, nil
}

// At returns the element at dense position (i, j).
func (d *DenseMatrix) At(i, j int) float64 {
	return d.M.Get(i, j)
}

// Triplets returns the stored elements in dense coordinates, ordered by
// row and then column.
func (d *DenseMatrix) Triplets() []Entry {
	nc := d.Cols.Len()
	o := make([]Entry, 0, len(d.M.Elements))
	for k, v := range d.M.Elements {
		o = append(o, Entry{Row: k / nc, Col: k % nc, Value: v})
	}
	sort.Slice(o, func(i, j int) bool {
		if o[i].Row != o[j].Row {
			return o[i].Row < o[j].Row
		}
		return o[i].Col < o[j].Col
	})
	return o
}

// ToMat returns d as a gonum matrix, or nil if d has no rows or columns.
func (d *DenseMatrix) ToMat() *mat.Dense {
	r, c := d.Rows.Len(), d.Cols.Len()
	if r == 0 || c == 0 {
		return nil
	}
	o := mat.NewDense(r, c, nil)
	for _, e := range d.Triplets() {
		o.Set(e.Row, e.Col, e.Value)
	}
	return o
}

// MulVec returns d*x, with x and the result in dense index spaces.
func (d *DenseMatrix) MulVec(x []float64) ([]float64, error) {
	if len(x) != d.Cols.Len() {
		return nil, fmt.Errorf("regrid: vector length %d, matrix has %d columns: %w", len(x), d.Cols.Len(), ErrExtent)
	}
	y := make([]float64, d.Rows.Len())
	for _, e := range d.Triplets() {
		y[e.Row] += e.Value * x[e.Col]
	}
	return y, nil
}
