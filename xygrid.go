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

	"github.com/ctessum/geom"
)

// A CellClip reports whether a candidate cell with outline p should be
// realized when a grid is generated.
type CellClip func(p geom.Polygon) bool

// KeepAll realizes every cell.
func KeepAll(geom.Polygon) bool { return true }

// KeepInBounds realizes the cells whose outline overlaps b.
func KeepInBounds(b *geom.Bounds) CellClip {
	return func(p geom.Polygon) bool {
		return p.Bounds().Overlaps(b)
	}
}

// KeepInPolygon realizes the cells that share a non-zero area with mask.
func KeepInPolygon(mask geom.Polygonal) CellClip {
	mb := mask.Bounds()
	return func(p geom.Polygon) bool {
		if !p.Bounds().Overlaps(mb) {
			return false
		}
		return p.Intersection(mask).Area() > 0
	}
}

// XYBoundaries returns the cell edges x0, x0+dx, x0+2dx, ... up to x1.
// The number of cells is (x1-x0)/dx rounded to the nearest integer.
func XYBoundaries(x0, x1, dx float64) []float64 {
	n := int(math.Round((x1 - x0) / dx))
	if n < 0 {
		n = 0
	}
	b := make([]float64, n+1)
	for i := range b {
		b[i] = x0 + float64(i)*dx
	}
	return b
}

func checkBoundaries(name string, b []float64) error {
	if len(b) < 2 {
		return fmt.Errorf("glint2: %s: need at least two boundaries, have %d: %w", name, len(b), ErrDegenerateGeometry)
	}
	for i := 1; i < len(b); i++ {
		if !(b[i] > b[i-1]) {
			return fmt.Errorf("glint2: %s: boundaries not increasing at %d: %w", name, i, ErrDegenerateGeometry)
		}
	}
	return nil
}

// NewGridXY returns a rectangular grid in the plane of the projection
// sproj, with cell edges xb and yb. Cell (i, j) has index i + j*nx and
// corner (i, j) has index i + j*(nx+1), where nx = len(xb)-1. Only the
// cells accepted by keep are realized, but the full extents always
// describe the complete rectangle.
func NewGridXY(name, sproj string, xb, yb []float64, keep CellClip) (*Grid, error) {
	if err := checkBoundaries("x", xb); err != nil {
		return nil, err
	}
	if err := checkBoundaries("y", yb); err != nil {
		return nil, err
	}
	if keep == nil {
		keep = KeepAll
	}
	nx, ny := len(xb)-1, len(yb)-1
	g := NewGrid(name, TypeXY, CoordXY, L0)
	g.Projection = sproj
	g.nCellsFull = nx * ny
	g.nVerticesFull = (nx + 1) * (ny + 1)

	vertex := func(i, j int) (int, error) {
		index := i + j*(nx+1)
		if _, ok := g.vertices[index]; ok {
			return index, nil
		}
		return index, g.AddVertex(&Vertex{Index: index, X: xb[i], Y: yb[j]})
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			p := geom.Polygon{{
				{X: xb[i], Y: yb[j]}, {X: xb[i+1], Y: yb[j]},
				{X: xb[i+1], Y: yb[j+1]}, {X: xb[i], Y: yb[j+1]},
				{X: xb[i], Y: yb[j]},
			}}
			if !keep(p) {
				continue
			}
			c := &Cell{
				Index:      i + j*nx,
				I:          i,
				J:          j,
				K:          Unset,
				NativeArea: (xb[i+1] - xb[i]) * (yb[j+1] - yb[j]),
			}
			for _, ij := range [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}} {
				vi, err := vertex(ij[0], ij[1])
				if err != nil {
					return nil, err
				}
				c.Vertices = append(c.Vertices, vi)
			}
			if err := g.AddCell(c); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// NewGridLonLat returns a grid in lon/lat coordinates (degrees) with cell
// edges lonb and latb. Cell (i, j) has index i + j*nlon. Each cell side is
// divided into pointsInSide segments so that the outline follows the
// curvature of parallels and meridians once it is projected. The native
// area of each cell is its area on a sphere of radius EarthRadius.
func NewGridLonLat(name string, lonb, latb []float64, pointsInSide int, keep CellClip) (*Grid, error) {
	if err := checkBoundaries("longitude", lonb); err != nil {
		return nil, err
	}
	if err := checkBoundaries("latitude", latb); err != nil {
		return nil, err
	}
	if pointsInSide < 1 {
		pointsInSide = 1
	}
	if keep == nil {
		keep = KeepAll
	}
	nlon, nlat := len(lonb)-1, len(latb)-1
	p := pointsInSide
	// Vertices live on a lattice p times finer than the cell edges.
	nfx, nfy := nlon*p+1, nlat*p+1
	g := NewGrid(name, TypeLonLat, CoordLonLat, L0)
	g.nCellsFull = nlon * nlat
	g.nVerticesFull = nfx * nfy

	lattice := func(b []float64, f int) float64 {
		i, k := f/p, f%p
		if k == 0 {
			return b[i]
		}
		return b[i] + (b[i+1]-b[i])*float64(k)/float64(p)
	}
	for j := 0; j < nlat; j++ {
		for i := 0; i < nlon; i++ {
			// Walk the cell boundary counter-clockwise on the fine lattice.
			var fine [][2]int
			for k := 0; k < p; k++ {
				fine = append(fine, [2]int{i*p + k, j * p})
			}
			for k := 0; k < p; k++ {
				fine = append(fine, [2]int{(i + 1) * p, j*p + k})
			}
			for k := 0; k < p; k++ {
				fine = append(fine, [2]int{(i+1)*p - k, (j + 1) * p})
			}
			for k := 0; k < p; k++ {
				fine = append(fine, [2]int{i * p, (j+1)*p - k})
			}
			ring := make(geom.Path, len(fine), len(fine)+1)
			for k, f := range fine {
				ring[k] = geom.Point{X: lattice(lonb, f[0]), Y: lattice(latb, f[1])}
			}
			if !keep(geom.Polygon{append(ring, ring[0])}) {
				continue
			}
			area, err := SphericalArea(ring)
			if err != nil {
				return nil, fmt.Errorf("glint2: grid %s: cell (%d, %d): %w", name, i, j, err)
			}
			c := &Cell{
				Index:      i + j*nlon,
				I:          i,
				J:          j,
				K:          Unset,
				NativeArea: area * EarthRadius * EarthRadius,
			}
			for k, f := range fine {
				vi := f[0] + f[1]*nfx
				if _, ok := g.vertices[vi]; !ok {
					if err := g.AddVertex(&Vertex{Index: vi, X: ring[k].X, Y: ring[k].Y}); err != nil {
						return nil, err
					}
				}
				c.Vertices = append(c.Vertices, vi)
			}
			if err := g.AddCell(c); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
