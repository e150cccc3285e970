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
	"reflect"
	"testing"
)

func TestDomainDecomposer(t *testing.T) {
	d, err := NewDomainDecomposer([]int{2, 4}, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d.Size() != 2 {
		t.Errorf("size: %d", d.Size())
	}
	want := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0}
	for ix, w := range want {
		if r := d.Domain(ix); r != w {
			t.Errorf("cell %d: rank %d, want %d", ix, r, w)
		}
	}

	lonb := []float64{0, 120, 240, 360}
	latb := []float64{-90, -45, 0, 45, 90}
	g, err := NewGridLonLat("gcm", lonb, latb, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	g.FilterCells(d.Keep(1))
	var have []int
	for _, c := range g.Cells() {
		have = append(have, c.Index)
	}
	if want := []int{6, 7, 8, 9, 10, 11}; !reflect.DeepEqual(have, want) {
		t.Errorf("rank 1 cells: %v", have)
	}
	if g.NCellsFull() != 12 {
		t.Errorf("full cells: %d", g.NCellsFull())
	}
}

func TestDomainDecomposerErrors(t *testing.T) {
	for _, endj := range [][]int{nil, {1, 3}, {3, 2, 4}} {
		if _, err := NewDomainDecomposer(endj, 3, 4); err == nil {
			t.Errorf("ends %v accepted", endj)
		}
	}
}
