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
	"strings"
)

// Version gives the version number.
const Version = "2.0.0"

// formatVersion is written to the info variable of every grid file.
const formatVersion = 1

// GridType identifies how a grid was constructed.
type GridType int

// These are the supported grid types.
const (
	TypeGeneric GridType = iota
	TypeXY
	TypeLonLat
	TypeExchange
)

var gridTypeNames = map[GridType]string{
	TypeGeneric:  "GENERIC",
	TypeXY:       "XY",
	TypeLonLat:   "LONLAT",
	TypeExchange: "EXCHANGE",
}

func (t GridType) String() string {
	if s, ok := gridTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("GridType(%d)", int(t))
}

// ParseGridType returns the GridType whose name is s.
func ParseGridType(s string) (GridType, error) {
	for t, name := range gridTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return TypeGeneric, fmt.Errorf("glint2: unknown grid type %q: %w", s, ErrFormat)
}

// Coordinates is the coordinate system of a grid's vertices.
type Coordinates int

// XY coordinates are planar (usually projected) coordinates; LonLat
// coordinates are longitude and latitude in degrees.
const (
	CoordXY Coordinates = iota
	CoordLonLat
)

var coordinatesNames = map[Coordinates]string{
	CoordXY:     "XY",
	CoordLonLat: "LONLAT",
}

func (c Coordinates) String() string {
	if s, ok := coordinatesNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Coordinates(%d)", int(c))
}

// ParseCoordinates returns the Coordinates whose name is s.
func ParseCoordinates(s string) (Coordinates, error) {
	for c, name := range coordinatesNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return CoordXY, fmt.Errorf("glint2: unknown coordinates %q: %w", s, ErrFormat)
}

// Parameterization specifies where field values live on a grid: L0 values
// are constant over each cell and L1 values are attached to vertices.
type Parameterization int

// These are the supported parameterizations.
const (
	L0 Parameterization = iota
	L1
)

var parameterizationNames = map[Parameterization]string{
	L0: "L0",
	L1: "L1",
}

func (p Parameterization) String() string {
	if s, ok := parameterizationNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Parameterization(%d)", int(p))
}

// ParseParameterization returns the Parameterization whose name is s.
func ParseParameterization(s string) (Parameterization, error) {
	for p, name := range parameterizationNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return L0, fmt.Errorf("glint2: unknown parameterization %q: %w", s, ErrFormat)
}
