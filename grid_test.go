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
	"errors"
	"math"
	"reflect"
	"testing"
)

// newStrip returns two unit squares side by side:
//
//	3---4---5
//	| 0 | 1 |
//	0---1---2
func newStrip(t *testing.T) *Grid {
	g := NewGrid("Test Grid", TypeXY, CoordXY, L0)
	for _, xy := range [][2]float64{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}} {
		if err := g.AddVertex(NewVertex(xy[0], xy[1])); err != nil {
			t.Fatal(err)
		}
	}
	c0 := NewCell(0, 1, 4, 3)
	c0.I, c0.J, c0.NativeArea = 0, 0, 2
	c1 := NewCell(1, 2, 5, 4)
	c1.I, c1.J, c1.NativeArea = 1, 0, 3
	for _, c := range []*Cell{c0, c1} {
		if err := g.AddCell(c); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// compareGrids reports every difference between the content of a and b.
func compareGrids(t *testing.T, a, b *Grid) {
	t.Helper()
	if a.Name != b.Name || a.Type != b.Type || a.Coordinates != b.Coordinates ||
		a.Parameterization != b.Parameterization || a.Projection != b.Projection {
		t.Errorf("metadata: %v != %v", a, b)
	}
	if a.NCellsFull() != b.NCellsFull() || a.NVerticesFull() != b.NVerticesFull() {
		t.Errorf("full extents: %d/%d != %d/%d", a.NCellsFull(), a.NVerticesFull(), b.NCellsFull(), b.NVerticesFull())
	}
	av, bv := a.Vertices(), b.Vertices()
	if len(av) != len(bv) {
		t.Fatalf("%d vertices != %d vertices", len(av), len(bv))
	}
	for i := range av {
		if *av[i] != *bv[i] {
			t.Errorf("vertex %d: %+v != %+v", i, *av[i], *bv[i])
		}
	}
	ac, bc := a.Cells(), b.Cells()
	if len(ac) != len(bc) {
		t.Fatalf("%d cells != %d cells", len(ac), len(bc))
	}
	for i := range ac {
		if !reflect.DeepEqual(ac[i], bc[i]) {
			t.Errorf("cell %d: %+v != %+v", i, *ac[i], *bc[i])
		}
	}
}

func TestCreateGrid(t *testing.T) {
	g := newStrip(t)
	if g.NVerticesRealized() != 6 || g.NCellsRealized() != 2 {
		t.Fatalf("have %d vertices and %d cells", g.NVerticesRealized(), g.NCellsRealized())
	}
	for i, want := range []float64{2, 3} {
		c, ok := g.Cell(i)
		if !ok {
			t.Fatalf("missing cell %d", i)
		}
		if c.NativeArea != want {
			t.Errorf("cell %d native area: have %g, want %g", i, c.NativeArea, want)
		}
		a, err := g.CellProjArea(c, nil)
		if err != nil {
			t.Fatal(err)
		}
		if a != 1 {
			t.Errorf("cell %d projected area: have %g, want 1", i, a)
		}
	}
	if v, ok := g.Vertex(5); !ok || v.X != 2 || v.Y != 1 {
		t.Errorf("vertex 5: %+v", v)
	}
	compareGrids(t, g, g)
}

func TestAutoIndex(t *testing.T) {
	g := NewGrid("auto", TypeGeneric, CoordXY, L0)
	if err := g.AddVertex(&Vertex{Index: 10}); err != nil {
		t.Fatal(err)
	}
	v := NewVertex(1, 1)
	if err := g.AddVertex(v); err != nil {
		t.Fatal(err)
	}
	if v.Index != 11 {
		t.Errorf("auto vertex index: have %d, want 11", v.Index)
	}
	if g.MaxRealizedVertexIndex() != 11 || g.NVerticesFull() != 12 {
		t.Errorf("max %d, full %d", g.MaxRealizedVertexIndex(), g.NVerticesFull())
	}
	if g.MaxRealizedCellIndex() != -1 || g.NCellsFull() != 0 {
		t.Errorf("empty cells: max %d, full %d", g.MaxRealizedCellIndex(), g.NCellsFull())
	}
}

func TestAutoIndexFailure(t *testing.T) {
	g := newStrip(t)
	if err := g.SetNVerticesFull(6); err != nil {
		t.Fatal(err)
	}
	if err := g.SetNCellsFull(2); err != nil {
		t.Fatal(err)
	}
	v := NewVertex(9, 9)
	if err := g.AddVertex(v); !errors.Is(err, ErrIndexRange) {
		t.Errorf("vertex beyond full extent: %v", err)
	}
	if v.Index != Unset {
		t.Errorf("rejected vertex was given index %d", v.Index)
	}
	c := NewCell(0, 1, 4)
	if err := g.AddCell(c); !errors.Is(err, ErrIndexRange) {
		t.Errorf("cell beyond full extent: %v", err)
	}
	if c.Index != Unset {
		t.Errorf("rejected cell was given index %d", c.Index)
	}

	// The same values can be added once there is room for them.
	if err := g.SetNCellsFull(3); err != nil {
		t.Fatal(err)
	}
	if err := g.AddCell(c); err != nil {
		t.Fatal(err)
	}
	if c.Index != 2 {
		t.Errorf("retried cell index: have %d, want 2", c.Index)
	}
}

func TestStructuralErrors(t *testing.T) {
	g := newStrip(t)

	err := g.AddVertex(&Vertex{Index: 0, X: 5, Y: 5})
	if !errors.Is(err, ErrDuplicateIndex) || !errors.Is(err, ErrStructure) {
		t.Errorf("duplicate vertex: %v", err)
	}
	c := NewCell(0, 1, 4)
	c.Index = 1
	if err := g.AddCell(c); !errors.Is(err, ErrDuplicateIndex) {
		t.Errorf("duplicate cell: %v", err)
	}
	if err := g.AddCell(NewCell(0, 99, 4)); !errors.Is(err, ErrMissingVertex) {
		t.Errorf("missing vertex: %v", err)
	}
	if err := g.RemoveVertex(4); !errors.Is(err, ErrVertexInUse) {
		t.Errorf("remove used vertex: %v", err)
	}
	if err := g.SetNCellsFull(1); !errors.Is(err, ErrIndexRange) {
		t.Errorf("shrinking full extent: %v", err)
	}
	if g.NCellsRealized() != 2 || g.NVerticesRealized() != 6 {
		t.Errorf("failed operations changed the grid: %v", g)
	}
}

func TestRemove(t *testing.T) {
	g := newStrip(t)
	if !g.RemoveCell(1) {
		t.Fatal("cell 1 not removed")
	}
	if g.RemoveCell(1) {
		t.Error("cell 1 removed twice")
	}
	if g.MaxRealizedCellIndex() != 0 {
		t.Errorf("max cell index: %d", g.MaxRealizedCellIndex())
	}
	for _, vi := range []int{5, 2} {
		if err := g.RemoveVertex(vi); err != nil {
			t.Fatal(err)
		}
	}
	if g.MaxRealizedVertexIndex() != 4 {
		t.Errorf("max vertex index: %d", g.MaxRealizedVertexIndex())
	}
}

func TestFullExtents(t *testing.T) {
	g := newStrip(t)
	if err := g.SetNCellsFull(5); err != nil {
		t.Fatal(err)
	}
	if g.NData() != 5 {
		t.Errorf("L0 ndata: %d", g.NData())
	}
	g.Parameterization = L1
	if g.NData() != 6 {
		t.Errorf("L1 ndata: %d", g.NData())
	}
	if err := g.AddCell(&Cell{Index: 5, Vertices: []int{0, 1, 4}}); !errors.Is(err, ErrIndexRange) {
		t.Errorf("cell beyond full extent: %v", err)
	}

	areas, err := g.NativeAreas()
	if err != nil {
		t.Fatal(err)
	}
	want := Areas{{2, true}, {3, true}, {}, {}, {}}
	if !reflect.DeepEqual(areas, want) {
		t.Errorf("native areas: have %v, want %v", areas, want)
	}
	f := areas.Float64s(math.NaN())
	if f[1] != 3 || !math.IsNaN(f[4]) {
		t.Errorf("filled areas: %v", f)
	}

	g.Clear()
	if g.NCellsFull() != 0 || g.NVerticesRealized() != 0 || g.Name != "Test Grid" {
		t.Errorf("after clear: %v", g)
	}
}

func TestHash(t *testing.T) {
	a := newStrip(t)

	b := NewGrid("Test Grid", TypeXY, CoordXY, L0)
	for _, v := range []*Vertex{{5, 2, 1}, {4, 1, 1}, {3, 0, 1}, {2, 2, 0}, {1, 1, 0}, {0, 0, 0}} {
		if err := b.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range []*Cell{
		{Index: 1, I: 1, J: 0, K: Unset, NativeArea: 3, Vertices: []int{1, 2, 5, 4}},
		{Index: 0, I: 0, J: 0, K: Unset, NativeArea: 2, Vertices: []int{0, 1, 4, 3}},
	} {
		if err := b.AddCell(c); err != nil {
			t.Fatal(err)
		}
	}
	if a.Hash() != b.Hash() {
		t.Errorf("insertion order changed the fingerprint")
	}
	c, _ := b.Cell(1)
	c.NativeArea = 4
	if a.Hash() == b.Hash() {
		t.Errorf("content change did not change the fingerprint")
	}
}

func TestParseTags(t *testing.T) {
	for _, gt := range []GridType{TypeGeneric, TypeXY, TypeLonLat, TypeExchange} {
		p, err := ParseGridType(gt.String())
		if err != nil || p != gt {
			t.Errorf("%v: %v, %v", gt, p, err)
		}
	}
	if c, err := ParseCoordinates("lonlat"); err != nil || c != CoordLonLat {
		t.Errorf("lonlat: %v, %v", c, err)
	}
	if p, err := ParseParameterization("L1"); err != nil || p != L1 {
		t.Errorf("L1: %v, %v", p, err)
	}
	if _, err := ParseGridType("HEXAGONAL"); !errors.Is(err, ErrFormat) {
		t.Errorf("unknown type: %v", err)
	}
	if _, err := ParseParameterization("L2"); !errors.Is(err, ErrFormat) {
		t.Errorf("unknown parameterization: %v", err)
	}
}
