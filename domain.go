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

import "fmt"

// DomainDecomposer assigns the cells of a GCM grid with im columns and jm
// rows to the ranks of a latitude-band decomposition.
type DomainDecomposer struct {
	im, jm   int
	rankOfJ  []int
	nDomains int
}

// NewDomainDecomposer returns a decomposer in which rank r owns the rows
// endj[r-1] <= j < endj[r] (with endj[-1] = 0). endj must be increasing
// and its last element must equal jm.
func NewDomainDecomposer(endj []int, im, jm int) (*DomainDecomposer, error) {
	if im <= 0 || jm <= 0 {
		return nil, fmt.Errorf("glint2: domain of %d x %d cells: %w", im, jm, ErrIndexRange)
	}
	if len(endj) == 0 || endj[len(endj)-1] != jm {
		return nil, fmt.Errorf("glint2: domain ends %v do not cover %d rows: %w", endj, jm, ErrIndexRange)
	}
	d := &DomainDecomposer{im: im, jm: jm, rankOfJ: make([]int, jm), nDomains: len(endj)}
	j := 0
	for r, end := range endj {
		if end < j {
			return nil, fmt.Errorf("glint2: domain ends %v not increasing: %w", endj, ErrIndexRange)
		}
		for ; j < end; j++ {
			d.rankOfJ[j] = r
		}
	}
	return d, nil
}

// Size returns the number of domains.
func (d *DomainDecomposer) Size() int { return d.nDomains }

// Domain returns the rank that owns the cell with the given zero-based
// index, where index = i + j*im, or -1 for a negative index.
func (d *DomainDecomposer) Domain(index int) int {
	if index < 0 {
		return -1
	}
	j := (index / d.im) % d.jm
	return d.rankOfJ[j]
}

// Keep returns a predicate for Grid.FilterCells that keeps the cells
// owned by rank.
func (d *DomainDecomposer) Keep(rank int) func(index int) bool {
	return func(index int) bool { return d.Domain(index) == rank }
}
