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

// Package glint2 holds the grid model shared by the components of a
// GCM / ice-sheet coupler: vertices and cells with explicit indices,
// the polygon geometry kernel, exchange grids built by overlapping two
// grids, and the netCDF representation of all of them.
package glint2

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
)

// Unset marks a vertex or cell index that should be assigned when the
// element is added to a grid.
const Unset = -1

// Vertex is a corner point shared by one or more cells.
type Vertex struct {
	Index int
	X, Y  float64
}

// NewVertex returns a vertex at (x, y) whose index will be assigned
// by Grid.AddVertex.
func NewVertex(x, y float64) *Vertex {
	return &Vertex{Index: Unset, X: x, Y: y}
}

// Point returns the location of v.
func (v *Vertex) Point() geom.Point {
	return geom.Point{X: v.X, Y: v.Y}
}

// Cell is a polygonal grid cell. Its corners are referenced by vertex
// index and are resolved through the grid that owns the cell.
type Cell struct {
	Index int

	// I, J and K are optional structured indices. In an exchange grid
	// I and J hold the indices of the two parent cells and K numbers the
	// pieces of their intersection.
	I, J, K int

	// NativeArea is the area of the cell in the grid's native
	// coordinates.
	NativeArea float64

	// Vertices holds the indices of the cell's corners in
	// counter-clockwise order.
	Vertices []int
}

// NewCell returns a cell with the given corners whose index will be
// assigned by Grid.AddCell.
func NewCell(vertices ...int) *Cell {
	return &Cell{Index: Unset, I: Unset, J: Unset, K: Unset, Vertices: vertices}
}

// Grid is a set of cells and the vertices they refer to. Only some of the
// cells of a conceptual full grid may be realized; NCellsFull and
// NVerticesFull report the size of the full index space.
type Grid struct {
	Name             string
	Type             GridType
	Coordinates      Coordinates
	Parameterization Parameterization

	// Projection is the proj4 definition of the planar coordinate system
	// of an XY grid.
	Projection string

	vertices map[int]*Vertex
	cells    map[int]*Cell

	// vertexEnd and cellEnd are one past the largest realized index.
	vertexEnd, cellEnd int

	// nVerticesFull and nCellsFull are the full extents, or zero if they
	// should be derived from the realized indices.
	nVerticesFull, nCellsFull int
}

// NewGrid returns an empty grid.
func NewGrid(name string, t GridType, c Coordinates, p Parameterization) *Grid {
	g := &Grid{
		Name:             name,
		Type:             t,
		Coordinates:      c,
		Parameterization: p,
	}
	g.init()
	return g
}

func (g *Grid) init() {
	if g.vertices == nil {
		g.vertices = make(map[int]*Vertex)
	}
	if g.cells == nil {
		g.cells = make(map[int]*Cell)
	}
}

// AddVertex adds v to g. If v.Index is Unset it is set to one more than
// the largest realized vertex index.
func (g *Grid) AddVertex(v *Vertex) error {
	g.init()
	idx := v.Index
	if idx == Unset {
		idx = g.vertexEnd
	}
	if idx < 0 || (g.nVerticesFull > 0 && idx >= g.nVerticesFull) {
		return fmt.Errorf("glint2: grid %s: vertex %d: %w", g.Name, idx, ErrIndexRange)
	}
	if _, ok := g.vertices[idx]; ok {
		return fmt.Errorf("glint2: grid %s: vertex %d: %w", g.Name, idx, ErrDuplicateIndex)
	}
	v.Index = idx
	g.vertices[idx] = v
	if idx >= g.vertexEnd {
		g.vertexEnd = idx + 1
	}
	return nil
}

// AddCell adds c to g. Every vertex c refers to must already be realized
// in g. If c.Index is Unset it is set to one more than the largest
// realized cell index.
func (g *Grid) AddCell(c *Cell) error {
	g.init()
	for _, vi := range c.Vertices {
		if _, ok := g.vertices[vi]; !ok {
			return fmt.Errorf("glint2: grid %s: cell refers to vertex %d: %w", g.Name, vi, ErrMissingVertex)
		}
	}
	idx := c.Index
	if idx == Unset {
		idx = g.cellEnd
	}
	if idx < 0 || (g.nCellsFull > 0 && idx >= g.nCellsFull) {
		return fmt.Errorf("glint2: grid %s: cell %d: %w", g.Name, idx, ErrIndexRange)
	}
	if _, ok := g.cells[idx]; ok {
		return fmt.Errorf("glint2: grid %s: cell %d: %w", g.Name, idx, ErrDuplicateIndex)
	}
	c.Index = idx
	g.cells[idx] = c
	if idx >= g.cellEnd {
		g.cellEnd = idx + 1
	}
	return nil
}

// RemoveCell removes the cell with the given index, reporting whether
// it was present. Vertices are not affected.
func (g *Grid) RemoveCell(index int) bool {
	if _, ok := g.cells[index]; !ok {
		return false
	}
	delete(g.cells, index)
	if index == g.cellEnd-1 {
		g.recomputeCellEnd()
	}
	return true
}

// RemoveVertex removes the vertex with the given index. It fails if a
// realized cell still refers to it.
func (g *Grid) RemoveVertex(index int) error {
	if _, ok := g.vertices[index]; !ok {
		return nil
	}
	for _, c := range g.cells {
		for _, vi := range c.Vertices {
			if vi == index {
				return fmt.Errorf("glint2: grid %s: vertex %d used by cell %d: %w", g.Name, index, c.Index, ErrVertexInUse)
			}
		}
	}
	delete(g.vertices, index)
	if index == g.vertexEnd-1 {
		g.recomputeVertexEnd()
	}
	return nil
}

func (g *Grid) recomputeVertexEnd() {
	g.vertexEnd = 0
	for i := range g.vertices {
		if i >= g.vertexEnd {
			g.vertexEnd = i + 1
		}
	}
}

func (g *Grid) recomputeCellEnd() {
	g.cellEnd = 0
	for i := range g.cells {
		if i >= g.cellEnd {
			g.cellEnd = i + 1
		}
	}
}

// Vertex returns the vertex with the given index.
func (g *Grid) Vertex(index int) (*Vertex, bool) {
	v, ok := g.vertices[index]
	return v, ok
}

// Cell returns the cell with the given index.
func (g *Grid) Cell(index int) (*Cell, bool) {
	c, ok := g.cells[index]
	return c, ok
}

// Vertices returns the realized vertices sorted by index.
func (g *Grid) Vertices() []*Vertex {
	o := make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		o = append(o, v)
	}
	sort.Slice(o, func(i, j int) bool { return o[i].Index < o[j].Index })
	return o
}

// Cells returns the realized cells sorted by index.
func (g *Grid) Cells() []*Cell {
	o := make([]*Cell, 0, len(g.cells))
	for _, c := range g.cells {
		o = append(o, c)
	}
	sort.Slice(o, func(i, j int) bool { return o[i].Index < o[j].Index })
	return o
}

// NVerticesRealized returns the number of vertices stored in g.
func (g *Grid) NVerticesRealized() int { return len(g.vertices) }

// NCellsRealized returns the number of cells stored in g.
func (g *Grid) NCellsRealized() int { return len(g.cells) }

// MaxRealizedVertexIndex returns the largest realized vertex index, or
// -1 if there are no vertices.
func (g *Grid) MaxRealizedVertexIndex() int { return g.vertexEnd - 1 }

// MaxRealizedCellIndex returns the largest realized cell index, or -1
// if there are no cells.
func (g *Grid) MaxRealizedCellIndex() int { return g.cellEnd - 1 }

// NVerticesFull returns the size of the full vertex index space. Unless
// it has been set explicitly it is one more than the largest realized
// vertex index.
func (g *Grid) NVerticesFull() int {
	if g.nVerticesFull > 0 {
		return g.nVerticesFull
	}
	return g.vertexEnd
}

// NCellsFull returns the size of the full cell index space. Unless it has
// been set explicitly it is one more than the largest realized cell index.
func (g *Grid) NCellsFull() int {
	if g.nCellsFull > 0 {
		return g.nCellsFull
	}
	return g.cellEnd
}

// SetNVerticesFull sets the size of the full vertex index space.
// Zero reverts to deriving it from the realized vertices.
func (g *Grid) SetNVerticesFull(n int) error {
	if n != 0 && n < g.vertexEnd {
		return fmt.Errorf("glint2: grid %s: full vertex count %d smaller than realized extent %d: %w",
			g.Name, n, g.vertexEnd, ErrIndexRange)
	}
	g.nVerticesFull = n
	return nil
}

// SetNCellsFull sets the size of the full cell index space.
// Zero reverts to deriving it from the realized cells.
func (g *Grid) SetNCellsFull(n int) error {
	if n != 0 && n < g.cellEnd {
		return fmt.Errorf("glint2: grid %s: full cell count %d smaller than realized extent %d: %w",
			g.Name, n, g.cellEnd, ErrIndexRange)
	}
	g.nCellsFull = n
	return nil
}

// NData returns the length of a field defined on g: the full number of
// cells for L0 grids and the full number of vertices for L1 grids.
func (g *Grid) NData() int {
	if g.Parameterization == L1 {
		return g.NVerticesFull()
	}
	return g.NCellsFull()
}

// Clear removes all cells and vertices and resets the full extents.
// Name and type information is kept.
func (g *Grid) Clear() {
	g.vertices = make(map[int]*Vertex)
	g.cells = make(map[int]*Cell)
	g.vertexEnd, g.cellEnd = 0, 0
	g.nVerticesFull, g.nCellsFull = 0, 0
}

// Ring returns the corners of c, resolved through g. The ring is not
// closed.
func (g *Grid) Ring(c *Cell) ([]geom.Point, error) {
	ring := make([]geom.Point, len(c.Vertices))
	for i, vi := range c.Vertices {
		v, ok := g.vertices[vi]
		if !ok {
			return nil, fmt.Errorf("glint2: grid %s: cell %d refers to vertex %d: %w", g.Name, c.Index, vi, ErrMissingVertex)
		}
		ring[i] = v.Point()
	}
	return ring, nil
}

// Polygon returns the outline of c as a closed polygon.
func (g *Grid) Polygon(c *Cell) (geom.Polygon, error) {
	ring, err := g.Ring(c)
	if err != nil {
		return nil, err
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return geom.Polygon{ring}, nil
}

// Bounds returns the extent of the realized vertices of g.
func (g *Grid) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, v := range g.vertices {
		b.Extend(v.Point().Bounds())
	}
	return b
}

func (g *Grid) String() string {
	return fmt.Sprintf("%s (%v %v %v): %d/%d cells, %d/%d vertices", g.Name, g.Type, g.Coordinates,
		g.Parameterization, g.NCellsRealized(), g.NCellsFull(), g.NVerticesRealized(), g.NVerticesFull())
}
