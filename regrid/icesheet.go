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

package regrid

import (
	"fmt"
	"math"
	"sort"

	"github.com/citibob/glint2"
	"github.com/sirupsen/logrus"
)

// HeightClasses holds the elevation boundaries between height points, in
// increasing order. Boundaries belong to the upper class, so there are
// len(hc)+1 height points.
type HeightClasses []float64

// NHP returns the number of height points.
func (hc HeightClasses) NHP() int { return len(hc) + 1 }

// Class returns the height point that elevation e falls in.
func (hc HeightClasses) Class(e float64) int {
	return sort.Search(len(hc), func(k int) bool { return hc[k] > e })
}

func (hc HeightClasses) check() error {
	for k := 1; k < len(hc); k++ {
		if !(hc[k] > hc[k-1]) {
			return fmt.Errorf("regrid: height classes %v are not increasing", []float64(hc))
		}
	}
	return nil
}

// IceSheet couples one ice grid (grid 2) to the atmosphere grid (grid 1)
// through their exchange grid, whose cells carry I = atmosphere index and
// J = ice index.
type IceSheet struct {
	Name string

	Grid2  *glint2.Grid
	Exgrid *glint2.Grid

	// N1 is the full extent of the atmosphere grid.
	N1 int

	// Mask2 masks ice cells out where non-zero. It may be nil.
	Mask2 MaskArray

	// Elev2 is the elevation of each ice cell. NaN elevations are
	// treated like masked cells by the height-point operators.
	Elev2 []float64

	Log logrus.FieldLogger
}

func (s *IceSheet) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *IceSheet) n2() int { return s.Grid2.NCellsFull() }

// overlaps returns the exchange overlaps whose ice cell is not masked out.
func (s *IceSheet) overlaps() ([]Overlap, error) {
	all, err := FromGrid(s.Exgrid)
	if err != nil {
		return nil, fmt.Errorf("regrid: ice sheet %s: %w", s.Name, err)
	}
	if s.Mask2 == nil {
		return all, nil
	}
	o := all[:0:0]
	for _, ov := range all {
		if _, ok := s.Mask2.Weight(ov.B); ok {
			o = append(o, ov)
		}
	}
	return o, nil
}

// hpOverlaps re-indexes the unmasked overlaps by height point: A becomes
// ihp*N1 + i1, with ihp the class of the ice cell's elevation.
func (s *IceSheet) hpOverlaps(hc HeightClasses) ([]Overlap, error) {
	if err := hc.check(); err != nil {
		return nil, err
	}
	if s.N1 <= 0 {
		return nil, fmt.Errorf("regrid: ice sheet %s: atmosphere extent %d: %w", s.Name, s.N1, ErrExtent)
	}
	ovs, err := s.overlaps()
	if err != nil {
		return nil, err
	}
	o := make([]Overlap, 0, len(ovs))
	for _, ov := range ovs {
		if ov.B < 0 || ov.B >= len(s.Elev2) {
			return nil, fmt.Errorf("regrid: ice sheet %s: no elevation for ice cell %d: %w", s.Name, ov.B, ErrExtent)
		}
		if ov.A < 0 || ov.A >= s.N1 {
			return nil, fmt.Errorf("regrid: ice sheet %s: atmosphere cell %d, extent %d: %w", s.Name, ov.A, s.N1, ErrExtent)
		}
		e := s.Elev2[ov.B]
		if math.IsNaN(e) {
			continue
		}
		ov.A += hc.Class(e) * s.N1
		o = append(o, ov)
	}
	return o, nil
}

// AccumAreas adds the ice-covered area of each atmosphere cell to area1.
func (s *IceSheet) AccumAreas(area1 *SparseAccumulator) error {
	ovs, err := s.overlaps()
	if err != nil {
		return err
	}
	for _, ov := range ovs {
		area1.Add(ov.A, ov.Area)
	}
	return nil
}

// IceToAtm returns the un-normalized operator from the ice grid [n2] to
// the atmosphere grid [N1], adding the ice-covered area of each atmosphere
// cell to area1.
func (s *IceSheet) IceToAtm(area1 *SparseAccumulator) (*Matrix, error) {
	ovs, err := s.overlaps()
	if err != nil {
		return nil, err
	}
	as := Assembler{NA: s.N1, NB: s.n2(), Log: s.log()}
	m, acc, err := as.Assemble(ovs, AvB)
	if err != nil {
		return nil, err
	}
	area1.Merge(acc)
	return m, nil
}

// AtmToIce returns the un-normalized operator from the atmosphere grid
// [N1] to the ice grid [n2] together with the area of each ice cell that
// is covered by the atmosphere grid.
func (s *IceSheet) AtmToIce() (*Matrix, *SparseAccumulator, error) {
	ovs, err := s.overlaps()
	if err != nil {
		return nil, nil, err
	}
	as := Assembler{NA: s.N1, NB: s.n2(), Log: s.log()}
	return as.Assemble(ovs, BvA)
}

// HPToAtm returns the operator from height-point space [NHP*N1] to the
// atmosphere grid [N1], adding the ice-covered area of each atmosphere
// cell to area1.
func (s *IceSheet) HPToAtm(hc HeightClasses, area1 *SparseAccumulator) (*Matrix, error) {
	ovs, err := s.hpOverlaps(hc)
	if err != nil {
		return nil, err
	}
	m := NewMatrix(s.N1, hc.NHP()*s.N1)
	for _, ov := range ovs {
		i1 := ov.A % s.N1
		if err := m.Add(i1, ov.A, ov.Area); err != nil {
			return nil, err
		}
		area1.Add(i1, ov.Area)
	}
	s.log().WithFields(logrus.Fields{
		"icesheet": s.Name,
		"nhp":      hc.NHP(),
		"nnz":      m.NNZ(),
	}).Debug("regrid: assembled height points to atmosphere")
	return m, nil
}

// HPToIce returns the un-normalized operator from height-point space
// [NHP*N1] to the ice grid [n2].
func (s *IceSheet) HPToIce(hc HeightClasses) (*Matrix, error) {
	ovs, err := s.hpOverlaps(hc)
	if err != nil {
		return nil, err
	}
	as := Assembler{NA: hc.NHP() * s.N1, NB: s.n2(), Log: s.log()}
	m, _, err := as.Assemble(ovs, BvA)
	return m, err
}
