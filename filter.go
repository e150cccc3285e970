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
	"math"
	"sort"
)

// FilterCells removes every cell for which keep returns false, then every
// vertex no remaining cell refers to. The full extents of g are frozen
// before anything is removed, so indices keep their meaning in arrays
// sized to the unfiltered grid.
func (g *Grid) FilterCells(keep func(index int) bool) {
	g.init()
	if g.nCellsFull == 0 {
		g.nCellsFull = g.cellEnd
	}
	if g.nVerticesFull == 0 {
		g.nVerticesFull = g.vertexEnd
	}

	used := make(map[int]struct{})
	for _, c := range g.Cells() {
		if !keep(c.Index) {
			delete(g.cells, c.Index)
			continue
		}
		for _, vi := range c.Vertices {
			used[vi] = struct{}{}
		}
	}
	for vi := range g.vertices {
		if _, ok := used[vi]; !ok {
			delete(g.vertices, vi)
		}
	}
	g.recomputeCellEnd()
	g.recomputeVertexEnd()
}

// SortRenumberVertices renumbers the vertices of g densely from zero in
// order of increasing X, then increasing Y, and updates every cell's
// vertex references to match.
func (g *Grid) SortRenumberVertices() {
	vs := g.Vertices()
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].X != vs[j].X {
			return vs[i].X < vs[j].X
		}
		return vs[i].Y < vs[j].Y
	})
	renum := make(map[int]int, len(vs))
	g.vertices = make(map[int]*Vertex, len(vs))
	for i, v := range vs {
		renum[v.Index] = i
		v.Index = i
		g.vertices[i] = v
	}
	for _, c := range g.cells {
		for k, vi := range c.Vertices {
			c.Vertices[k] = renum[vi]
		}
	}
	g.vertexEnd = len(vs)
	if g.nVerticesFull != 0 && g.nVerticesFull < g.vertexEnd {
		g.nVerticesFull = g.vertexEnd
	}
}

// Project returns a copy of the lon/lat grid g with its vertices
// transformed into the planar projection sproj. Cell and vertex indices
// are preserved and the native area of each cell becomes its area in the
// projected plane.
func (g *Grid) Project(sproj string) (*Grid, error) {
	t, err := g.LLToXY(sproj)
	if err != nil {
		return nil, err
	}
	o := NewGrid(g.Name, g.Type, CoordXY, g.Parameterization)
	o.Projection = sproj
	o.nCellsFull, o.nVerticesFull = g.nCellsFull, g.nVerticesFull
	for _, v := range g.Vertices() {
		x, y, err := t(v.X, v.Y)
		if err != nil {
			return nil, fmt.Errorf("glint2: grid %s: projecting vertex %d: %v", g.Name, v.Index, err)
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return nil, fmt.Errorf("glint2: grid %s: vertex %d has no projection in %q: %w", g.Name, v.Index, sproj, ErrDegenerateGeometry)
		}
		if err := o.AddVertex(&Vertex{Index: v.Index, X: x, Y: y}); err != nil {
			return nil, err
		}
	}
	for _, c := range g.Cells() {
		nc := &Cell{Index: c.Index, I: c.I, J: c.J, K: c.K, Vertices: append([]int(nil), c.Vertices...)}
		if nc.NativeArea, err = o.CellArea(nc); err != nil {
			return nil, err
		}
		if err := o.AddCell(nc); err != nil {
			return nil, err
		}
	}
	return o, nil
}
