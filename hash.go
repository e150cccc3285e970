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

import "github.com/citibob/glint2/internal/hash"

// gridContent is the canonical form of a grid used for fingerprints.
type gridContent struct {
	Name, Type, Coordinates, Parameterization, Projection string
	NCellsFull, NVerticesFull                             int
	Vertices                                              []Vertex
	Cells                                                 []Cell
}

// Hash returns a fingerprint of the metadata, vertices and cells of g.
// Two grids have the same fingerprint when they have the same content,
// regardless of the order in which it was added.
func (g *Grid) Hash() string {
	c := gridContent{
		Name:             g.Name,
		Type:             g.Type.String(),
		Coordinates:      g.Coordinates.String(),
		Parameterization: g.Parameterization.String(),
		Projection:       g.Projection,
		NCellsFull:       g.NCellsFull(),
		NVerticesFull:    g.NVerticesFull(),
	}
	for _, v := range g.Vertices() {
		c.Vertices = append(c.Vertices, *v)
	}
	for _, cell := range g.Cells() {
		c.Cells = append(c.Cells, *cell)
	}
	return hash.Sum(c)
}
