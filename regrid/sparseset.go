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

import "fmt"

// SparseSet maps the indices that actually occur in a sparse index space
// onto a dense index space 0..Len()-1, in the order they were first added.
type SparseSet struct {
	toDense  map[int]int
	toSparse []int
	extent   int
}

// NewSparseSet returns an empty SparseSet.
func NewSparseSet() *SparseSet {
	return &SparseSet{toDense: make(map[int]int)}
}

// Add registers the sparse index i, if it is new, and returns its dense
// index.
func (s *SparseSet) Add(i int) int {
	if d, ok := s.toDense[i]; ok {
		return d
	}
	d := len(s.toSparse)
	s.toDense[i] = d
	s.toSparse = append(s.toSparse, i)
	return d
}

// ToDense returns the dense index of sparse index i.
func (s *SparseSet) ToDense(i int) (int, bool) {
	d, ok := s.toDense[i]
	return d, ok
}

// ToSparse returns the sparse index of dense index d.
func (s *SparseSet) ToSparse(d int) int { return s.toSparse[d] }

// Len returns the size of the dense index space.
func (s *SparseSet) Len() int { return len(s.toSparse) }

// SparseIndices returns the registered sparse indices in dense order.
func (s *SparseSet) SparseIndices() []int {
	return append([]int(nil), s.toSparse...)
}

// SetSparseExtent records the size of the sparse index space. It fails if
// a registered index does not fit.
func (s *SparseSet) SetSparseExtent(n int) error {
	for _, i := range s.toSparse {
		if i < 0 || i >= n {
			return fmt.Errorf("regrid: sparse index %d, extent %d: %w", i, n, ErrExtent)
		}
	}
	s.extent = n
	return nil
}

// SparseExtent returns the size of the sparse index space, or zero if it
// has not been set.
func (s *SparseSet) SparseExtent() int { return s.extent }
