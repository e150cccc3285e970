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
	"os"

	"github.com/citibob/glint2"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// WriteDenseCDF writes d, and acc if it is non-nil and non-empty, to a new
// netCDF file stored in rw under the prefix vname. The file holds the
// dense triplets, the dense-to-sparse index maps of both dimensions and
// the accumulated areas keyed by sparse row index.
func WriteDenseCDF(rw cdf.ReaderWriterAt, vname string, d *DenseMatrix, acc *SparseAccumulator) error {
	trips := d.Triplets()
	nr, nc := d.Rows.Len(), d.Cols.Len()
	if len(trips) == 0 || nr == 0 || nc == 0 {
		return fmt.Errorf("regrid: matrix %s has no elements to write: %w", vname, glint2.ErrFormat)
	}
	withArea := acc != nil && acc.Len() > 0

	dims := []string{"one", "two", vname + ".nnz", vname + ".rows.dense", vname + ".cols.dense"}
	lengths := []int{1, 2, len(trips), nr, nc}
	if withArea {
		dims = append(dims, vname+".area.num")
		lengths = append(lengths, acc.Len())
	}
	h := cdf.NewHeader(dims, lengths)
	info := vname + ".info"
	h.AddVariable(info, []string{"one"}, []int32{0})
	h.AddAttribute(info, "rows.sparse_extent", []int32{int32(d.Rows.SparseExtent())})
	h.AddAttribute(info, "cols.sparse_extent", []int32{int32(d.Cols.SparseExtent())})
	h.AddVariable(vname+".rows", []string{vname + ".rows.dense"}, []int32{0})
	h.AddAttribute(vname+".rows", "description", "Sparse index of each dense row")
	h.AddVariable(vname+".cols", []string{vname + ".cols.dense"}, []int32{0})
	h.AddAttribute(vname+".cols", "description", "Sparse index of each dense column")
	h.AddVariable(vname+".cells", []string{vname + ".nnz", "two"}, []int32{0})
	h.AddAttribute(vname+".cells", "description", "Dense (row, column) of each element")
	h.AddVariable(vname+".values", []string{vname + ".nnz"}, []float64{0})
	if withArea {
		h.AddVariable(vname+".area.index", []string{vname + ".area.num"}, []int32{0})
		h.AddVariable(vname+".area.values", []string{vname + ".area.num"}, []float64{0})
		h.AddAttribute(vname+".area.values", "description", "Overlap area accumulated by sparse row index")
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("regrid: defining matrix file: %v", err)
	}
	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("regrid: creating matrix file: %v", err)
	}

	cells := make([]int32, 2*len(trips))
	vals := make([]float64, len(trips))
	for i, e := range trips {
		cells[2*i], cells[2*i+1] = int32(e.Row), int32(e.Col)
		vals[i] = e.Value
	}
	data := map[string]interface{}{
		info:              []int32{0},
		vname + ".rows":   toInt32(d.Rows.SparseIndices()),
		vname + ".cols":   toInt32(d.Cols.SparseIndices()),
		vname + ".cells":  cells,
		vname + ".values": vals,
	}
	if withArea {
		keys := acc.Keys()
		avals := make([]float64, len(keys))
		for i, k := range keys {
			avals[i], _ = acc.Get(k)
		}
		data[vname+".area.index"] = toInt32(keys)
		data[vname+".area.values"] = avals
	}
	for name, v := range data {
		if err := glint2.WriteCDFVar(f, name, v); err != nil {
			return fmt.Errorf("regrid: writing %s: %v", name, err)
		}
	}
	return nil
}

// ReadDenseCDF reads a matrix written by WriteDenseCDF. The returned
// accumulator is empty if the file holds no areas.
func ReadDenseCDF(f *cdf.File, vname string) (*DenseMatrix, *SparseAccumulator, error) {
	info := vname + ".info"
	if f.Header.Lengths(info) == nil {
		return nil, nil, fmt.Errorf("regrid: no variable %s: %w", info, glint2.ErrFormat)
	}
	extent := func(name string) (int, error) {
		v, ok := f.Header.GetAttribute(info, name).([]int32)
		if !ok || len(v) != 1 {
			return 0, fmt.Errorf("regrid: %s: bad attribute %s: %w", info, name, glint2.ErrFormat)
		}
		return int(v[0]), nil
	}
	rowExt, err := extent("rows.sparse_extent")
	if err != nil {
		return nil, nil, err
	}
	colExt, err := extent("cols.sparse_extent")
	if err != nil {
		return nil, nil, err
	}

	var rows, cols, cells, aindex []int32
	var vals, avals []float64
	for _, v := range []struct {
		name string
		dst  interface{}
	}{
		{".rows", &rows},
		{".cols", &cols},
		{".cells", &cells},
		{".values", &vals},
	} {
		if err := readInto(f, vname+v.name, v.dst); err != nil {
			return nil, nil, err
		}
	}
	if len(cells) != 2*len(vals) {
		return nil, nil, fmt.Errorf("regrid: %s: %d cells for %d values: %w", vname, len(cells), len(vals), glint2.ErrFormat)
	}

	rs, err := sparseSet(rows, rowExt)
	if err != nil {
		return nil, nil, err
	}
	cs, err := sparseSet(cols, colExt)
	if err != nil {
		return nil, nil, err
	}
	d := &DenseMatrix{Rows: rs, Cols: cs}
	d.M = sparse.ZerosSparse(rs.Len(), cs.Len())
	for i, v := range vals {
		r, c := int(cells[2*i]), int(cells[2*i+1])
		if r < 0 || r >= rs.Len() || c < 0 || c >= cs.Len() {
			return nil, nil, fmt.Errorf("regrid: %s: element (%d, %d) outside %dx%d: %w",
				vname, r, c, rs.Len(), cs.Len(), glint2.ErrFormat)
		}
		d.M.AddVal(v, r, c)
	}

	acc := NewSparseAccumulator()
	if f.Header.Lengths(vname+".area.index") != nil {
		if err := readInto(f, vname+".area.index", &aindex); err != nil {
			return nil, nil, err
		}
		if err := readInto(f, vname+".area.values", &avals); err != nil {
			return nil, nil, err
		}
		if len(aindex) != len(avals) {
			return nil, nil, fmt.Errorf("regrid: %s: %d area indices for %d values: %w",
				vname, len(aindex), len(avals), glint2.ErrFormat)
		}
		for i, k := range aindex {
			acc.Add(int(k), avals[i])
		}
	}
	return d, acc, nil
}

// WriteDenseFile writes d and acc to a new netCDF file at path.
func WriteDenseFile(path, vname string, d *DenseMatrix, acc *SparseAccumulator) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("regrid: creating matrix file: %v", err)
	}
	if err := WriteDenseCDF(f, vname, d, acc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadDenseFile reads a matrix written by WriteDenseFile.
func ReadDenseFile(path, vname string) (*DenseMatrix, *SparseAccumulator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("regrid: opening matrix file: %v", err)
	}
	defer f.Close()
	cf, err := cdf.Open(f)
	if err != nil {
		return nil, nil, fmt.Errorf("regrid: reading %s: %v: %w", path, err, glint2.ErrFormat)
	}
	return ReadDenseCDF(cf, vname)
}

func sparseSet(idx []int32, extent int) (*SparseSet, error) {
	s := NewSparseSet()
	for _, i := range idx {
		if s.Add(int(i)) != s.Len()-1 {
			return nil, fmt.Errorf("regrid: sparse index %d repeated: %w", i, glint2.ErrFormat)
		}
	}
	if extent > 0 {
		if err := s.SetSparseExtent(extent); err != nil {
			return nil, fmt.Errorf("%w: %w", glint2.ErrFormat, err)
		}
	}
	return s, nil
}

func readInto(f *cdf.File, name string, dst interface{}) error {
	if f.Header.Lengths(name) == nil {
		return fmt.Errorf("regrid: no variable %s: %w", name, glint2.ErrFormat)
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return fmt.Errorf("regrid: reading %s: %v: %w", name, err, glint2.ErrFormat)
	}
	var ok bool
	switch p := dst.(type) {
	case *[]int32:
		*p, ok = buf.([]int32)
	case *[]float64:
		*p, ok = buf.([]float64)
	}
	if !ok {
		return fmt.Errorf("regrid: variable %s has type %T: %w", name, buf, glint2.ErrFormat)
	}
	return nil
}

func toInt32(v []int) []int32 {
	o := make([]int32, len(v))
	for i, x := range v {
		o[i] = int32(x)
	}
	return o
}
