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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/golang/geo/s2"
)

// lonLatSR is the spatial reference of grids in lon/lat coordinates.
const lonLatSR = "+proj=longlat +units=degrees"

// EarthRadius is the radius in meters of the sphere used for the native
// areas of lon/lat grids.
const EarthRadius = 6.371e6

// PolygonArea returns the signed area of the polygon whose corners are
// ring. The ring is implicitly closed; the area is positive when the
// corners are in counter-clockwise order.
func PolygonArea(ring []geom.Point) (float64, error) {
	if len(ring) < 3 {
		return 0, fmt.Errorf("glint2: polygon with %d vertices: %w", len(ring), ErrDegenerateGeometry)
	}
	var a float64
	p0 := ring[len(ring)-1]
	for _, p1 := range ring {
		a += p0.X*p1.Y - p1.X*p0.Y
		p0 = p1
	}
	return a / 2, nil
}

// ProjPolygonArea returns the signed area of ring after transforming each
// corner with t. A nil t leaves the corners unchanged.
func ProjPolygonArea(ring []geom.Point, t proj.Transformer) (float64, error) {
	if t == nil {
		return PolygonArea(ring)
	}
	pr := make([]geom.Point, len(ring))
	for i, p := range ring {
		x, y, err := t(p.X, p.Y)
		if err != nil {
			return 0, fmt.Errorf("glint2: projecting (%g, %g): %v", p.X, p.Y, err)
		}
		pr[i] = geom.Point{X: x, Y: y}
	}
	return PolygonArea(pr)
}

// SphericalArea returns the area in steradians of the region of the unit
// sphere bounded by ring, whose corners are longitude and latitude in
// degrees. The smaller of the two regions bounded by the ring is
// measured, so the result does not depend on orientation.
func SphericalArea(ring []geom.Point) (float64, error) {
	pts := make([]s2.Point, 0, len(ring))
	for _, p := range ring {
		sp := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Y, p.X))
		if len(pts) > 0 && pts[len(pts)-1].ApproxEqual(sp) {
			continue
		}
		pts = append(pts, sp)
	}
	if len(pts) > 1 && pts[0].ApproxEqual(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return 0, fmt.Errorf("glint2: spherical polygon with %d distinct vertices: %w", len(pts), ErrDegenerateGeometry)
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop.Area(), nil
}

// CellArea returns the signed area of c in the native coordinates of g.
func (g *Grid) CellArea(c *Cell) (float64, error) {
	ring, err := g.Ring(c)
	if err != nil {
		return 0, err
	}
	return PolygonArea(ring)
}

// CellProjArea returns the signed area of c after projecting its corners
// with t.
func (g *Grid) CellProjArea(c *Cell, t proj.Transformer) (float64, error) {
	ring, err := g.Ring(c)
	if err != nil {
		return 0, err
	}
	return ProjPolygonArea(ring, t)
}

// Centroid returns the location of data point index. For L0 grids that is
// the centroid of cell index, which is only meaningful in planar
// coordinates. For L1 grids it is the location of vertex index.
func (g *Grid) Centroid(index int) (geom.Point, error) {
	if g.Parameterization == L1 {
		v, ok := g.vertices[index]
		if !ok {
			return geom.Point{}, fmt.Errorf("glint2: grid %s: no vertex %d: %w", g.Name, index, ErrIndexRange)
		}
		return v.Point(), nil
	}
	c, ok := g.cells[index]
	if !ok {
		return geom.Point{}, fmt.Errorf("glint2: grid %s: no cell %d: %w", g.Name, index, ErrIndexRange)
	}
	ring, err := g.Ring(c)
	if err != nil {
		return geom.Point{}, err
	}
	a, err := PolygonArea(ring)
	if err != nil {
		return geom.Point{}, err
	}
	if a == 0 {
		return geom.Point{}, fmt.Errorf("glint2: grid %s: centroid of zero-area cell %d: %w", g.Name, index, ErrDegenerateGeometry)
	}
	var cx, cy float64
	p0 := ring[len(ring)-1]
	for _, p1 := range ring {
		cross := p0.X*p1.Y - p1.X*p0.Y
		cx += (p0.X + p1.X) * cross
		cy += (p0.Y + p1.Y) * cross
		p0 = p1
	}
	fact := 1 / (6 * a)
	return geom.Point{X: cx * fact, Y: cy * fact}, nil
}

// OptFloat is a value that may be absent.
type OptFloat struct {
	Value float64
	Valid bool
}

// Areas holds one optional area per index of the full cell extent of a
// grid. Slots of unrealized cells are not Valid.
type Areas []OptFloat

// Float64s returns the areas as a plain slice, with fill in place of
// missing values.
func (a Areas) Float64s(fill float64) []float64 {
	o := make([]float64, len(a))
	for i, v := range a {
		if v.Valid {
			o[i] = v.Value
		} else {
			o[i] = fill
		}
	}
	return o
}

// areas calls f for every realized cell and stores the result in an Areas
// sized to the full cell extent.
func (g *Grid) areas(f func(c *Cell) (float64, error)) (Areas, error) {
	o := make(Areas, g.NCellsFull())
	for _, c := range g.cells {
		if c.Index >= len(o) {
			return nil, fmt.Errorf("glint2: grid %s: cell %d outside full extent %d: %w", g.Name, c.Index, len(o), ErrIndexRange)
		}
		v, err := f(c)
		if err != nil {
			return nil, err
		}
		o[c.Index] = OptFloat{Value: v, Valid: true}
	}
	return o, nil
}

// NativeAreas returns the stored native area of every realized cell.
func (g *Grid) NativeAreas() (Areas, error) {
	return g.areas(func(c *Cell) (float64, error) { return c.NativeArea, nil })
}

// ProjAreas returns the area of every realized cell of a lon/lat grid
// after projecting it with the proj4 definition sproj.
func (g *Grid) ProjAreas(sproj string) (Areas, error) {
	t, err := g.LLToXY(sproj)
	if err != nil {
		return nil, err
	}
	return g.areas(func(c *Cell) (float64, error) { return g.CellProjArea(c, t) })
}

// SphericalAreas returns the area of every realized cell of a lon/lat
// grid on a sphere with the given radius.
func (g *Grid) SphericalAreas(radius float64) (Areas, error) {
	if g.Coordinates != CoordLonLat {
		return nil, fmt.Errorf("glint2: grid %s: spherical areas of %v grid: %w", g.Name, g.Coordinates, ErrCoordinates)
	}
	r2 := radius * radius
	return g.areas(func(c *Cell) (float64, error) {
		ring, err := g.Ring(c)
		if err != nil {
			return 0, err
		}
		a, err := SphericalArea(ring)
		return a * r2, err
	})
}

// LLToXY returns a transformer from the lon/lat coordinates of g to the
// projection sproj.
func (g *Grid) LLToXY(sproj string) (proj.Transformer, error) {
	return g.transformer(sproj, true)
}

// XYToLL returns a transformer from the projection sproj back to the
// lon/lat coordinates of g.
func (g *Grid) XYToLL(sproj string) (proj.Transformer, error) {
	return g.transformer(sproj, false)
}

func (g *Grid) transformer(sproj string, forward bool) (proj.Transformer, error) {
	if g.Coordinates != CoordLonLat {
		return nil, fmt.Errorf("glint2: grid %s: projection of %v grid: %w", g.Name, g.Coordinates, ErrCoordinates)
	}
	ll, err := proj.Parse(lonLatSR)
	if err != nil {
		return nil, err
	}
	xy, err := proj.Parse(sproj)
	if err != nil {
		return nil, fmt.Errorf("glint2: parsing projection %q: %v", sproj, err)
	}
	if forward {
		return ll.NewTransform(xy)
	}
	return xy.NewTransform(ll)
}
