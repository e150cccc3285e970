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

	"github.com/ctessum/geom"
)

func TestXYBoundaries(t *testing.T) {
	have := XYBoundaries(0, 10, 2.5)
	if want := []float64{0, 2.5, 5, 7.5, 10}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	const km = 1000.
	b := XYBoundaries((-2800-2.5)*km, (-2800+1200*5+2.5)*km, 5*km)
	if len(b) != 1202 {
		t.Errorf("SeaRISE grid has %d boundaries, want 1202", len(b))
	}
}

func TestNewGridXY(t *testing.T) {
	g, err := NewGridXY("ice", "+proj=merc", []float64{0, 1, 3}, []float64{10, 12}, KeepAll)
	if err != nil {
		t.Fatal(err)
	}
	if g.Type != TypeXY || g.Coordinates != CoordXY || g.Projection != "+proj=merc" {
		t.Errorf("metadata: %v", g)
	}
	want := []Cell{
		{Index: 0, I: 0, J: 0, K: Unset, NativeArea: 2, Vertices: []int{0, 1, 4, 3}},
		{Index: 1, I: 1, J: 0, K: Unset, NativeArea: 4, Vertices: []int{1, 2, 5, 4}},
	}
	for i, c := range g.Cells() {
		if !reflect.DeepEqual(*c, want[i]) {
			t.Errorf("cell %d: have %+v, want %+v", i, *c, want[i])
		}
		a, err := g.CellArea(c)
		if err != nil {
			t.Fatal(err)
		}
		if a != c.NativeArea {
			t.Errorf("cell %d: polygon area %g, native area %g", i, a, c.NativeArea)
		}
	}
	if v, _ := g.Vertex(5); v.X != 3 || v.Y != 12 {
		t.Errorf("vertex 5: %+v", v)
	}

	if _, err := NewGridXY("bad", "", []float64{0}, []float64{0, 1}, nil); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("single boundary: %v", err)
	}
	if _, err := NewGridXY("bad", "", []float64{0, 2, 1}, []float64{0, 1}, nil); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("decreasing boundaries: %v", err)
	}
}

func TestClippedGridXY(t *testing.T) {
	xb := []float64{0, 1, 2, 3}
	yb := []float64{0, 1, 2}
	left := &geom.Bounds{Min: geom.Point{X: 0.1, Y: 0.1}, Max: geom.Point{X: 0.9, Y: 1.9}}
	g, err := NewGridXY("ice", "", xb, yb, KeepInBounds(left))
	if err != nil {
		t.Fatal(err)
	}
	var have []int
	for _, c := range g.Cells() {
		have = append(have, c.Index)
	}
	if want := []int{0, 3}; !reflect.DeepEqual(have, want) {
		t.Errorf("cells in bounds: have %v, want %v", have, want)
	}
	if g.NCellsFull() != 6 || g.NVerticesFull() != 12 || g.NVerticesRealized() != 6 {
		t.Errorf("clipped grid: %v", g)
	}

	// A triangle that only reaches into the lower-right cell.
	mask := geom.Polygon{{{X: 2.5, Y: 0.2}, {X: 2.8, Y: 0.2}, {X: 2.8, Y: 0.6}}}
	g, err = NewGridXY("ice", "", xb, yb, KeepInPolygon(mask))
	if err != nil {
		t.Fatal(err)
	}
	if g.NCellsRealized() != 1 {
		t.Fatalf("cells in triangle: %v", g)
	}
	if _, ok := g.Cell(2); !ok {
		t.Error("cell 2 not realized")
	}
}

func TestNewGridLonLat(t *testing.T) {
	g, err := NewGridLonLat("gcm", []float64{0, 5, 10}, []float64{0, 5, 10}, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.NCellsRealized() != 4 || g.NVerticesRealized() != 45 || g.NVerticesFull() != 81 {
		t.Fatalf("grid: %v", g)
	}
	var total float64
	for _, c := range g.Cells() {
		if len(c.Vertices) != 16 {
			t.Errorf("cell %d has %d vertices", c.Index, len(c.Vertices))
		}
		a, err := g.CellArea(c)
		if err != nil {
			t.Fatal(err)
		}
		if a != 25 {
			t.Errorf("cell %d has area %g square degrees", c.Index, a)
		}
		total += c.NativeArea
	}
	rad := math.Pi / 180
	want := EarthRadius * EarthRadius * 10 * rad * math.Sin(10*rad)
	if different(total, want, 1e-3) {
		t.Errorf("total area: have %g, want %g", total, want)
	}
	c, _ := g.Cell(3)
	if c.I != 1 || c.J != 1 {
		t.Errorf("cell 3 at (%d, %d)", c.I, c.J)
	}
}
