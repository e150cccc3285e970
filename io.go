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

package glint2

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ctessum/cdf"
)

// Shared dimension names.
const (
	dimOne   = "one"
	dimTwo   = "two"
	dimThree = "three"
)

// GridVar is a grid together with the variable name prefix it is stored
// under in a netCDF file.
type GridVar struct {
	VName string
	Grid  *Grid
}

// CDFDims returns the names and lengths of the netCDF dimensions needed
// to store g under the prefix vname. The dimensions "one", "two" and
// "three" are shared by every grid in a file.
func (g *Grid) CDFDims(vname string) (dims []string, lengths []int, err error) {
	nrefs := 0
	for _, c := range g.cells {
		nrefs += len(c.Vertices)
	}
	nv, nc := len(g.vertices), len(g.cells)
	if nv == 0 || nc == 0 || nrefs == 0 {
		return nil, nil, fmt.Errorf("glint2: grid %s has no realized cells to write: %w", g.Name, ErrFormat)
	}
	dims = []string{
		vname + ".vertices.num_realized",
		vname + ".cells.num_realized",
		vname + ".cells.num_realized_plus1",
		vname + ".cells.num_vertex_refs",
		dimOne, dimTwo, dimThree,
	}
	lengths = []int{nv, nc, nc + 1, nrefs, 1, 2, 3}
	return dims, lengths, nil
}

// DefineCDF adds the variables and attributes that describe g under the
// prefix vname to h. h must already contain the dimensions returned by
// CDFDims.
func (g *Grid) DefineCDF(h *cdf.Header, vname string) {
	info := vname + ".info"
	h.AddVariable(info, []string{dimOne}, []int32{0})
	h.AddAttribute(info, "version", []int32{formatVersion})
	h.AddAttribute(info, "name", g.Name)
	h.AddAttribute(info, "type", g.Type.String())
	h.AddAttribute(info, "type.comment", "How the grid was constructed: GENERIC, XY, LONLAT or EXCHANGE")
	h.AddAttribute(info, "coordinates", g.Coordinates.String())
	h.AddAttribute(info, "coordinates.comment",
		"Coordinate system of the vertices: XY or LONLAT (longitude before latitude)")
	h.AddAttribute(info, "parameterization", g.Parameterization.String())
	h.AddAttribute(info, "parameterization.comment",
		"L0 values are constant over cells; L1 values live on vertices")
	if g.Coordinates == CoordXY {
		h.AddAttribute(info, "projection", g.Projection)
		h.AddAttribute(info, "projection.comment",
			"proj4 definition relating the XY coordinates to longitude and latitude")
	}
	h.AddAttribute(info, "cells.num_full", strconv.Itoa(g.NCellsFull()))
	h.AddAttribute(info, "cells.num_full.comment", "Number of cells in the full grid")
	h.AddAttribute(info, "vertices.num_full", []int32{int32(g.NVerticesFull())})

	vdim := vname + ".vertices.num_realized"
	cdim := vname + ".cells.num_realized"
	h.AddVariable(vname+".vertices.index", []string{vdim}, []int32{0})
	h.AddVariable(vname+".vertices.xy", []string{vdim, dimTwo}, []float64{0})
	h.AddVariable(vname+".cells.index", []string{cdim}, []int32{0})
	h.AddVariable(vname+".cells.ijk", []string{cdim, dimThree}, []int32{0})
	h.AddVariable(vname+".cells.area", []string{cdim}, []float64{0})
	h.AddAttribute(vname+".cells.area", "description", "Area of each cell in its native coordinates")
	h.AddVariable(vname+".cells.vertex_refs", []string{vname + ".cells.num_vertex_refs"}, []int32{0})
	h.AddVariable(vname+".cells.vertex_refs_start", []string{vname + ".cells.num_realized_plus1"}, []int32{0})
	h.AddAttribute(vname+".cells.vertex_refs_start", "description",
		"Cell i refers to vertex_refs[vertex_refs_start[i]:vertex_refs_start[i+1]]")
}

// WriteCDFData writes the data of g to the variables defined by
// DefineCDF. Vertices and cells are written in ascending index order.
func (g *Grid) WriteCDFData(f *cdf.File, vname string) error {
	vs := g.Vertices()
	vindex := make([]int32, len(vs))
	xy := make([]float64, 2*len(vs))
	for i, v := range vs {
		vindex[i] = int32(v.Index)
		xy[2*i], xy[2*i+1] = v.X, v.Y
	}

	cs := g.Cells()
	cindex := make([]int32, len(cs))
	ijk := make([]int32, 3*len(cs))
	area := make([]float64, len(cs))
	start := make([]int32, len(cs)+1)
	var refs []int32
	for i, c := range cs {
		cindex[i] = int32(c.Index)
		ijk[3*i], ijk[3*i+1], ijk[3*i+2] = int32(c.I), int32(c.J), int32(c.K)
		area[i] = c.NativeArea
		start[i] = int32(len(refs))
		for _, vi := range c.Vertices {
			refs = append(refs, int32(vi))
		}
	}
	start[len(cs)] = int32(len(refs))

	data := []struct {
		name string
		vals interface{}
	}{
		{".info", []int32{0}},
		{".vertices.index", vindex},
		{".vertices.xy", xy},
		{".cells.index", cindex},
		{".cells.ijk", ijk},
		{".cells.area", area},
		{".cells.vertex_refs", refs},
		{".cells.vertex_refs_start", start},
	}
	for _, d := range data {
		if err := WriteCDFVar(f, vname+d.name, d.vals); err != nil {
			return fmt.Errorf("glint2: writing %s%s: %v", vname, d.name, err)
		}
	}
	return nil
}

// WriteCDFVar writes vals to the whole of the fixed-size variable name
// in f. vals must hold exactly as many elements as the variable.
func WriteCDFVar(f *cdf.File, name string, vals interface{}) error {
	lengths := f.Header.Lengths(name)
	if lengths == nil {
		return fmt.Errorf("glint2: no variable %s: %w", name, ErrFormat)
	}
	// The end index lies one past the last element in every dimension so
	// that a complete write does not run into the end of the stripe.
	begin := make([]int, len(lengths))
	end := append([]int(nil), lengths...)
	w := f.Writer(name, begin, end)
	_, err := w.Write(vals)
	return err
}

// WriteCDF writes one or more grids to a new netCDF file stored in rw.
func WriteCDF(rw cdf.ReaderWriterAt, vars ...GridVar) error {
	var dims []string
	var lengths []int
	seen := make(map[string]bool)
	for _, v := range vars {
		d, l, err := v.Grid.CDFDims(v.VName)
		if err != nil {
			return err
		}
		for i, name := range d {
			if seen[name] {
				continue
			}
			seen[name] = true
			dims = append(dims, name)
			lengths = append(lengths, l[i])
		}
	}
	h := cdf.NewHeader(dims, lengths)
	for _, v := range vars {
		v.Grid.DefineCDF(h, v.VName)
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("glint2: defining grid file: %v", err)
	}
	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("glint2: creating grid file: %v", err)
	}
	for _, v := range vars {
		if err := v.Grid.WriteCDFData(f, v.VName); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes g to a new netCDF file at path under the prefix vname.
func (g *Grid) WriteFile(path, vname string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("glint2: creating grid file: %v", err)
	}
	if err := WriteCDF(f, GridVar{VName: vname, Grid: g}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads the grid stored under the prefix vname from the netCDF
// file at path.
func ReadFile(path, vname string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("glint2: opening grid file: %v", err)
	}
	defer f.Close()
	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("glint2: reading %s: %v: %w", path, err, ErrFormat)
	}
	return ReadCDF(cf, vname)
}

// ReadCDF reads the grid stored under the prefix vname from f.
func ReadCDF(f *cdf.File, vname string) (*Grid, error) {
	info := vname + ".info"
	if f.Header.Lengths(info) == nil {
		return nil, fmt.Errorf("glint2: no variable %s: %w", info, ErrFormat)
	}
	attr := func(name string) (string, error) {
		s, ok := f.Header.GetAttribute(info, name).(string)
		if !ok {
			return "", fmt.Errorf("glint2: %s: missing text attribute %s: %w", info, name, ErrFormat)
		}
		return s, nil
	}

	g := NewGrid("", TypeGeneric, CoordXY, L0)
	var err error
	if g.Name, err = attr("name"); err != nil {
		return nil, err
	}
	s, err := attr("type")
	if err != nil {
		return nil, err
	}
	if g.Type, err = ParseGridType(s); err != nil {
		return nil, err
	}
	if s, err = attr("coordinates"); err != nil {
		return nil, err
	}
	if g.Coordinates, err = ParseCoordinates(s); err != nil {
		return nil, err
	}
	if s, err = attr("parameterization"); err != nil {
		return nil, err
	}
	if g.Parameterization, err = ParseParameterization(s); err != nil {
		return nil, err
	}
	if g.Coordinates == CoordXY {
		if g.Projection, err = attr("projection"); err != nil {
			return nil, err
		}
	}
	if s, err = attr("cells.num_full"); err != nil {
		return nil, err
	}
	ncFull, err := strconv.Atoi(s)
	if err != nil || ncFull < 0 {
		return nil, fmt.Errorf("glint2: %s: bad cells.num_full %q: %w", info, s, ErrFormat)
	}
	nvFull, ok := f.Header.GetAttribute(info, "vertices.num_full").([]int32)
	if !ok || len(nvFull) != 1 || nvFull[0] < 0 {
		return nil, fmt.Errorf("glint2: %s: bad vertices.num_full: %w", info, ErrFormat)
	}
	g.nCellsFull, g.nVerticesFull = ncFull, int(nvFull[0])

	vindex, err := readInts(f, vname+".vertices.index")
	if err != nil {
		return nil, err
	}
	xy, err := readFloats(f, vname+".vertices.xy")
	if err != nil {
		return nil, err
	}
	if len(xy) != 2*len(vindex) {
		return nil, fmt.Errorf("glint2: %s: %d coordinates for %d vertices: %w", vname, len(xy), len(vindex), ErrFormat)
	}
	for i, vi := range vindex {
		if err := g.AddVertex(&Vertex{Index: int(vi), X: xy[2*i], Y: xy[2*i+1]}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
	}

	cindex, err := readInts(f, vname+".cells.index")
	if err != nil {
		return nil, err
	}
	ijk, err := readInts(f, vname+".cells.ijk")
	if err != nil {
		return nil, err
	}
	area, err := readFloats(f, vname+".cells.area")
	if err != nil {
		return nil, err
	}
	refs, err := readInts(f, vname+".cells.vertex_refs")
	if err != nil {
		return nil, err
	}
	start, err := readInts(f, vname+".cells.vertex_refs_start")
	if err != nil {
		return nil, err
	}
	nc := len(cindex)
	if len(ijk) != 3*nc || len(area) != nc || len(start) != nc+1 {
		return nil, fmt.Errorf("glint2: %s: inconsistent cell variable lengths: %w", vname, ErrFormat)
	}
	if start[0] != 0 || int(start[nc]) != len(refs) {
		return nil, fmt.Errorf("glint2: %s: vertex_refs_start does not span vertex_refs: %w", vname, ErrFormat)
	}
	for i := 1; i <= nc; i++ {
		if start[i] < start[i-1] || int(start[i]) > len(refs) {
			return nil, fmt.Errorf("glint2: %s: vertex_refs_start[%d] = %d outside [%d, %d]: %w",
				vname, i, start[i], start[i-1], len(refs), ErrFormat)
		}
	}
	for i, ci := range cindex {
		lo, hi := int(start[i]), int(start[i+1])
		c := &Cell{
			Index:      int(ci),
			I:          int(ijk[3*i]),
			J:          int(ijk[3*i+1]),
			K:          int(ijk[3*i+2]),
			NativeArea: area[i],
			Vertices:   make([]int, 0, hi-lo),
		}
		for _, vi := range refs[lo:hi] {
			c.Vertices = append(c.Vertices, int(vi))
		}
		if err := g.AddCell(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
	}
	return g, nil
}

func readVar(f *cdf.File, name string) (interface{}, error) {
	if f.Header.Lengths(name) == nil {
		return nil, fmt.Errorf("glint2: no variable %s: %w", name, ErrFormat)
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("glint2: reading %s: %v: %w", name, err, ErrFormat)
	}
	return buf, nil
}

func readInts(f *cdf.File, name string) ([]int32, error) {
	buf, err := readVar(f, name)
	if err != nil {
		return nil, err
	}
	v, ok := buf.([]int32)
	if !ok {
		return nil, fmt.Errorf("glint2: variable %s is %T, not int: %w", name, buf, ErrFormat)
	}
	return v, nil
}

func readFloats(f *cdf.File, name string) ([]float64, error) {
	buf, err := readVar(f, name)
	if err != nil {
		return nil, err
	}
	v, ok := buf.([]float64)
	if !ok {
		return nil, fmt.Errorf("glint2: variable %s is %T, not double: %w", name, buf, ErrFormat)
	}
	return v, nil
}
