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
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultOverlapTolerance is the default relative area below which an
// intersection piece is discarded as a clipping artifact.
const DefaultOverlapTolerance = 1e-12

type overlapConfig struct {
	batches   int
	tolerance float64
	log       logrus.FieldLogger
}

// An OverlapOption configures NewExchangeGrid.
type OverlapOption func(*overlapConfig)

// WithBatches splits the cells of the first grid into n contiguous batches
// that are intersected concurrently. The result does not depend on n.
func WithBatches(n int) OverlapOption {
	return func(c *overlapConfig) {
		if n > 0 {
			c.batches = n
		}
	}
}

// WithTolerance sets the relative tolerance: an intersection piece is
// dropped if its area is not larger than rel times the area of the
// smaller of its two parent cells.
func WithTolerance(rel float64) OverlapOption {
	return func(c *overlapConfig) { c.tolerance = rel }
}

// WithLogger sets the logger for progress messages.
func WithLogger(l logrus.FieldLogger) OverlapOption {
	return func(c *overlapConfig) { c.log = l }
}

// indexedCell is a cell outline stored in the r-tree.
type indexedCell struct {
	geom.Polygon
	index int
	area  float64
}

// piece is one ring of the intersection of two cells.
type piece struct {
	a, b int
	ring []geom.Point
	area float64
}

// NewExchangeGrid returns the exchange grid of a and b: the polygons
// formed by intersecting every cell of a with every cell of b. Each
// exchange cell has I set to the index of its cell in a, J to the index of
// its cell in b and K to the number of the piece within that pair. Cells
// are numbered densely in (I, J, K) order. a and b must use the same
// coordinate system.
func NewExchangeGrid(ctx context.Context, a, b *Grid, opts ...OverlapOption) (*Grid, error) {
	if a.Coordinates != b.Coordinates {
		return nil, fmt.Errorf("glint2: overlap of %s (%v) and %s (%v): %w",
			a.Name, a.Coordinates, b.Name, b.Coordinates, ErrCoordinates)
	}
	cfg := overlapConfig{
		batches:   runtime.GOMAXPROCS(0),
		tolerance: DefaultOverlapTolerance,
		log:       logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	log := cfg.log.WithFields(logrus.Fields{"grid_a": a.Name, "grid_b": b.Name})
	start := time.Now()

	index := rtree.NewTree(25, 50)
	for _, c := range b.Cells() {
		ic, err := newIndexedCell(b, c)
		if err != nil {
			return nil, err
		}
		index.Insert(ic)
	}

	acells := a.Cells()
	nb := cfg.batches
	if nb > len(acells) {
		nb = len(acells)
	}
	results := make([][]piece, nb)
	eg, ctx := errgroup.WithContext(ctx)
	for k := 0; k < nb; k++ {
		lo, hi := k*len(acells)/nb, (k+1)*len(acells)/nb
		k := k
		eg.Go(func() error {
			for _, c := range acells[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				p, err := overlapCell(a, c, index, cfg.tolerance)
				if err != nil {
					return err
				}
				results[k] = append(results[k], p...)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	x := NewGrid(a.Name+"-"+b.Name, TypeExchange, a.Coordinates, a.Parameterization)
	x.Projection = a.Projection
	if x.Projection == "" {
		x.Projection = b.Projection
	}
	vertices := make(map[geom.Point]int)
	for _, batch := range results {
		k, prevA, prevB := 0, Unset, Unset
		for _, p := range batch {
			if p.a != prevA || p.b != prevB {
				k, prevA, prevB = 0, p.a, p.b
			}
			c := &Cell{Index: Unset, I: p.a, J: p.b, K: k, NativeArea: p.area}
			k++
			for _, pt := range p.ring {
				vi, ok := vertices[pt]
				if !ok {
					v := &Vertex{Index: Unset, X: pt.X, Y: pt.Y}
					if err := x.AddVertex(v); err != nil {
						return nil, err
					}
					vi = v.Index
					vertices[pt] = vi
				}
				c.Vertices = append(c.Vertices, vi)
			}
			if err := x.AddCell(c); err != nil {
				return nil, err
			}
		}
	}
	log.WithFields(logrus.Fields{
		"cells":    x.NCellsRealized(),
		"vertices": x.NVerticesRealized(),
		"batches":  nb,
		"elapsed":  time.Since(start),
	}).Info("glint2: built exchange grid")
	return x, nil
}

func newIndexedCell(g *Grid, c *Cell) (*indexedCell, error) {
	p, err := g.Polygon(c)
	if err != nil {
		return nil, err
	}
	area, err := PolygonArea(p[0])
	if err != nil {
		return nil, fmt.Errorf("glint2: grid %s: cell %d: %w", g.Name, c.Index, err)
	}
	return &indexedCell{Polygon: p, index: c.Index, area: math.Abs(area)}, nil
}

// overlapCell intersects cell c of grid a with every candidate cell of the
// other grid and returns the surviving pieces ordered by the other grid's
// cell index.
func overlapCell(a *Grid, c *Cell, index *rtree.Rtree, tol float64) ([]piece, error) {
	ac, err := newIndexedCell(a, c)
	if err != nil {
		return nil, err
	}
	var cand []*indexedCell
	for _, bI := range index.SearchIntersect(ac.Bounds()) {
		cand = append(cand, bI.(*indexedCell))
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].index < cand[j].index })

	var o []piece
	for _, bc := range cand {
		minArea := tol * math.Min(ac.area, bc.area)
		pieces, err := intersectionPieces(ac.Intersection(bc.Polygon))
		if err != nil {
			return nil, err
		}
		for _, p := range pieces {
			if p.area <= minArea {
				continue
			}
			p.a, p.b = ac.index, bc.index
			o = append(o, p)
		}
	}
	return o, nil
}

// intersectionPieces turns the rings of a polygon intersection into
// counter-clockwise pieces. A ring that lies inside an odd number of the
// other rings is a hole. It does not become a piece; its area is taken
// off the smallest ring enclosing it, whose ring is kept as the outline.
func intersectionPieces(rings geom.Polygon) ([]piece, error) {
	var open [][]geom.Point
	var areas []float64
	for _, r := range rings {
		ring := openRing(r)
		if len(ring) < 3 {
			continue
		}
		area, err := PolygonArea(ring)
		if err != nil {
			return nil, err
		}
		if area < 0 {
			reverseRing(ring)
			area = -area
		}
		open = append(open, ring)
		areas = append(areas, area)
	}

	depth := make([]int, len(open))
	parent := make([]int, len(open))
	for i := range open {
		parent[i] = -1
		for j := range open {
			if i == j || !ringInside(open[i], open[j]) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || areas[j] < areas[parent[i]] {
				parent[i] = j
			}
		}
	}
	net := append([]float64(nil), areas...)
	for i := range open {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			net[parent[i]] -= areas[i]
		}
	}
	var o []piece
	for i, ring := range open {
		if depth[i]%2 == 1 {
			continue
		}
		o = append(o, piece{ring: ring, area: net[i]})
	}
	return o, nil
}

// ringInside reports whether r lies inside outer, judged by the first
// vertex of r that is not on the boundary of outer.
func ringInside(r, outer []geom.Point) bool {
	pg := geom.Polygon{outer}
	for _, p := range r {
		switch p.Within(pg) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

// openRing returns r without its closing point, if it has one.
func openRing(r []geom.Point) []geom.Point {
	if len(r) > 1 && r[0].Equals(r[len(r)-1]) {
		return r[:len(r)-1]
	}
	return r
}

func reverseRing(r []geom.Point) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
