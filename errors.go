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
	"errors"
	"fmt"
)

// ErrStructure is returned when an operation would leave a grid in an
// inconsistent state.
var ErrStructure = errors.New("glint2: structural violation")

var (
	// ErrDuplicateIndex is returned when a vertex or cell is added with an
	// index that is already realized.
	ErrDuplicateIndex = fmt.Errorf("%w: duplicate index", ErrStructure)

	// ErrMissingVertex is returned when a cell refers to a vertex that is not
	// realized in the same grid.
	ErrMissingVertex = fmt.Errorf("%w: missing vertex", ErrStructure)

	// ErrVertexInUse is returned when removing a vertex that a cell still
	// refers to.
	ErrVertexInUse = fmt.Errorf("%w: vertex in use", ErrStructure)

	// ErrIndexRange is returned when an index does not fit in the full
	// extent of a grid.
	ErrIndexRange = fmt.Errorf("%w: index out of range", ErrStructure)
)

// ErrDegenerateGeometry is returned for polygons with fewer than three
// vertices or zero area where a non-zero area is required.
var ErrDegenerateGeometry = errors.New("glint2: degenerate geometry")

// ErrCoordinates is returned when an operation is invoked on a grid with
// the wrong coordinate system, or on two grids whose coordinate systems
// differ.
var ErrCoordinates = errors.New("glint2: coordinate system mismatch")

// ErrFormat is returned when a grid file or a serialized tag is malformed.
var ErrFormat = errors.New("glint2: malformed grid data")
