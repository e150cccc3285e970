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
	"os"
	"path/filepath"

	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// WriteShp writes the realized cells of g to a polygon shapefile named
// after the grid in directory outdir, with the attributes index, i, j, k
// and area.
func (g *Grid) WriteShp(outdir string) error {
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(filepath.Join(outdir, g.Name+ext))
	}
	fields := []goshp.Field{
		goshp.NumberField("index", 10),
		goshp.NumberField("i", 10),
		goshp.NumberField("j", 10),
		goshp.NumberField("k", 10),
		goshp.FloatField("area", 24, 6),
	}
	e, err := shp.NewEncoderFromFields(filepath.Join(outdir, g.Name+".shp"), goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("glint2: creating shapefile for grid %s: %v", g.Name, err)
	}
	for _, c := range g.Cells() {
		p, err := g.Polygon(c)
		if err != nil {
			e.Close()
			return err
		}
		if err := e.EncodeFields(p, c.Index, c.I, c.J, c.K, c.NativeArea); err != nil {
			e.Close()
			return fmt.Errorf("glint2: writing cell %d of grid %s: %v", c.Index, g.Name, err)
		}
	}
	e.Close()
	return nil
}
