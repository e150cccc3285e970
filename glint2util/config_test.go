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

package glint2util

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
)

func TestParseMask(t *testing.T) {
	square := geom.Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	t.Run("polygon", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mask.json")
		if err := os.WriteFile(path, []byte(`{"type": "Polygon","coordinates": [ [ [0, 0], [1, 0], [1, 1], [0, 1], [0, 0] ] ] }`), 0644); err != nil {
			t.Fatal(err)
		}
		mask, err := parseMask(path)
		if err != nil {
			t.Fatal(err)
		}
		if want := (geom.Polygon{square}); !reflect.DeepEqual(mask, want) {
			t.Errorf("%v != %v", mask, want)
		}
	})
	t.Run("multipolygon", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mask.json")
		if err := os.WriteFile(path, []byte(`{"type": "MultiPolygon","coordinates": [ [ [ [0, 0], [1, 0], [1, 1], [0, 1], [0, 0] ] ], [ [ [0, 0], [1, 0], [1, 1], [0, 1], [0, 0] ] ] ] }`), 0644); err != nil {
			t.Fatal(err)
		}
		mask, err := parseMask(path)
		if err != nil {
			t.Fatal(err)
		}
		if want := (geom.Polygon{square, square}); !reflect.DeepEqual(mask, want) {
			t.Errorf("%v != %v", mask, want)
		}
	})
	t.Run("bad multipolygon", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mask.json")
		if err := os.WriteFile(path, []byte(`{"type": "MultiPolygon","coordinates": [ [ [ [0, 0], [1, 0], [1, 1] ] ], [ [ [0, 0, 0] ] ] ] }`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := parseMask(path); err == nil {
			t.Error("malformed member accepted")
		}
	})
	t.Run("point", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mask.json")
		if err := os.WriteFile(path, []byte(`{"type": "Point","coordinates": [0, 0]}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := parseMask(path); err == nil {
			t.Error("point mask accepted")
		}
	})
	t.Run("none", func(t *testing.T) {
		mask, err := parseMask("")
		if err != nil || mask != nil {
			t.Errorf("empty file name gave %v, %v", mask, err)
		}
	})
}

func TestMaskedGridXY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.json")
	// The mask covers the lower-left 2x2 cells.
	if err := os.WriteFile(path, []byte(`{"type": "Polygon","coordinates": [ [ [0.5, 0.5], [1.5, 0.5], [1.5, 1.5], [0.5, 1.5], [0.5, 0.5] ] ] }`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := viper.New()
	cfg.Set("Name", "masked")
	cfg.Set("Mask", path)
	cfg.Set("XY.Projection", "")
	cfg.Set("XY.XBoundaries", "0,1,2,3")
	cfg.Set("XY.YBoundaries", []string{"0", "1", "2", "3"})
	g, err := GridXY(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if g.NCellsRealized() != 4 || g.NCellsFull() != 9 {
		t.Errorf("%d of %d cells realized, want 4 of 9", g.NCellsRealized(), g.NCellsFull())
	}
	for _, i := range []int{0, 1, 3, 4} {
		if _, ok := g.Cell(i); !ok {
			t.Errorf("cell %d missing", i)
		}
	}
}

func TestLists(t *testing.T) {
	cfg := viper.New()
	for i, test := range []struct {
		in   interface{}
		want []float64
	}{
		{in: "1, 2.5,3", want: []float64{1, 2.5, 3}},
		{in: "[1,2]", want: []float64{1, 2}},
		{in: []interface{}{int64(1), "2.5", 3.0}, want: []float64{1, 2.5, 3}},
		{in: []string{"4"}, want: []float64{4}},
		{in: []float64{5, 6}, want: []float64{5, 6}},
	} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			cfg.Set("list", test.in)
			got, err := floatList("list", cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("%v != %v", got, test.want)
			}
		})
	}

	cfg.Set("list", "1,x")
	if _, err := floatList("list", cfg); err == nil {
		t.Error("non-numeric list accepted")
	}

	cfg.Set("ints", "[2, 4]")
	ints, err := intList("ints", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ints, []int{2, 4}) {
		t.Errorf("ints %v", ints)
	}
	if got, err := floatList("missing", cfg); err != nil || got != nil {
		t.Errorf("missing list: %v, %v", got, err)
	}
}
