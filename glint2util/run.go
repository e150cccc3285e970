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

package glint2util

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/citibob/glint2"
	"github.com/citibob/glint2/regrid"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// GridXY creates the Cartesian grid described by cfg.
func GridXY(cfg *viper.Viper) (*glint2.Grid, error) {
	xb, err := boundaries("XY.XBoundaries", "XY", "X", cfg)
	if err != nil {
		return nil, err
	}
	yb, err := boundaries("XY.YBoundaries", "XY", "Y", cfg)
	if err != nil {
		return nil, err
	}
	keep, err := cellClip(cfg)
	if err != nil {
		return nil, err
	}
	g, err := glint2.NewGridXY(gridName(cfg, "xy"), cfg.GetString("XY.Projection"), xb, yb, keep)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"grid":  g.Name,
		"cells": g.NCellsRealized(),
		"full":  g.NCellsFull(),
	}).Info("glint2: created XY grid")
	return g, nil
}

// GridLonLat creates the longitude-latitude grid described by cfg,
// restricted to one domain if Domain.EndJ and Domain.Rank are set.
func GridLonLat(cfg *viper.Viper) (*glint2.Grid, error) {
	lonb := glint2.XYBoundaries(cfg.GetFloat64("LonLat.Lon0"), cfg.GetFloat64("LonLat.Lon1"), cfg.GetFloat64("LonLat.DLon"))
	latb, err := boundaries("LonLat.LatBoundaries", "LonLat", "Lat", cfg)
	if err != nil {
		return nil, err
	}
	keep, err := cellClip(cfg)
	if err != nil {
		return nil, err
	}
	g, err := glint2.NewGridLonLat(gridName(cfg, "lonlat"), lonb, latb, cfg.GetInt("LonLat.PointsInSide"), keep)
	if err != nil {
		return nil, err
	}
	endj, err := intList("Domain.EndJ", cfg)
	if err != nil {
		return nil, err
	}
	if rank := cfg.GetInt("Domain.Rank"); len(endj) > 0 && rank >= 0 {
		d, err := glint2.NewDomainDecomposer(endj, len(lonb)-1, len(latb)-1)
		if err != nil {
			return nil, err
		}
		if rank >= d.Size() {
			return nil, fmt.Errorf("glint2: Domain.Rank %d, only %d domains", rank, d.Size())
		}
		g.FilterCells(d.Keep(rank))
	}
	logrus.WithFields(logrus.Fields{
		"grid":  g.Name,
		"cells": g.NCellsRealized(),
		"full":  g.NCellsFull(),
	}).Info("glint2: created lon/lat grid")
	return g, nil
}

func gridName(cfg *viper.Viper, def string) string {
	if n := cfg.GetString("Name"); n != "" {
		return n
	}
	return def
}

func readGrid(path, vname string) (*glint2.Grid, error) {
	if path == "" {
		return nil, fmt.Errorf("glint2: no grid file specified")
	}
	return glint2.ReadFile(os.ExpandEnv(path), vname)
}

// Overlap computes the exchange grid of the grids in the GridA and GridB
// files. A longitude-latitude GridA is projected into the coordinates of
// a projected GridB first.
func Overlap(ctx context.Context, cfg *viper.Viper) (*glint2.Grid, error) {
	vname := cfg.GetString("VName")
	a, err := readGrid(cfg.GetString("GridA"), vname)
	if err != nil {
		return nil, err
	}
	b, err := readGrid(cfg.GetString("GridB"), vname)
	if err != nil {
		return nil, err
	}
	if a.Coordinates == glint2.CoordLonLat && b.Coordinates == glint2.CoordXY {
		if a, err = a.Project(b.Projection); err != nil {
			return nil, err
		}
	}
	batches := cfg.GetInt("Batches")
	if batches <= 0 {
		batches = runtime.GOMAXPROCS(-1)
	}
	start := time.Now()
	x, err := glint2.NewExchangeGrid(ctx, a, b, glint2.WithBatches(batches))
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"grid":    x.Name,
		"cells":   x.NCellsRealized(),
		"batches": batches,
		"elapsed": time.Since(start),
	}).Info("glint2: computed overlaps")
	return x, nil
}

// parentExtents returns the data lengths of the grids in the GridA and
// GridB files. A grid that is not given has extent zero, which leaves the
// corresponding matrix dimension open.
func parentExtents(cfg *viper.Viper) (na, nb int, err error) {
	vname := cfg.GetString("VName")
	for _, p := range []struct {
		key string
		n   *int
	}{{"GridA", &na}, {"GridB", &nb}} {
		path := cfg.GetString(p.key)
		if path == "" {
			logrus.Warnf("glint2: %s not given; the matrix will not record its sparse extent", p.key)
			continue
		}
		g, err := readGrid(path, vname)
		if err != nil {
			return 0, 0, err
		}
		*p.n = g.NData()
	}
	return na, nb, nil
}

// Matrix assembles the regridding matrix of the exchange grid in the
// Input file and writes it to outputFile under the prefix "M". The
// sparse extents of the matrix are the data lengths of the parent grids
// named by GridA and GridB.
func Matrix(cfg *viper.Viper, outputFile string) error {
	x, err := readGrid(cfg.GetString("Input"), cfg.GetString("VName"))
	if err != nil {
		return err
	}
	var dir regrid.Direction
	switch d := cfg.GetString("Direction"); strings.ToUpper(d) {
	case "BVA":
		dir = regrid.BvA
	case "AVB":
		dir = regrid.AvB
	default:
		return fmt.Errorf("glint2: invalid Direction %q; must be BvA or AvB", d)
	}
	ovs, err := regrid.FromGrid(x)
	if err != nil {
		return err
	}
	as := regrid.Assembler{Log: logrus.StandardLogger()}
	if as.NA, as.NB, err = parentExtents(cfg); err != nil {
		return err
	}
	m, acc, err := as.Assemble(ovs, dir)
	if err != nil {
		return err
	}
	if cfg.GetBool("Normalize") {
		m.DivideRows(acc)
	}
	d, err := regrid.MakeDense(m, regrid.NewSparseSet(), regrid.NewSparseSet())
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"exgrid":    x.Name,
		"direction": dir,
		"rows":      d.Rows.Len(),
		"cols":      d.Cols.Len(),
		"nnz":       m.NNZ(),
	}).Info("glint2: assembled matrix")
	return regrid.WriteDenseFile(outputFile, "M", d, acc)
}

// Info writes a summary of the grid in the Input file to w.
func Info(w io.Writer, cfg *viper.Viper) error {
	g, err := readGrid(cfg.GetString("Input"), cfg.GetString("VName"))
	if err != nil {
		return err
	}
	areas, err := g.NativeAreas()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "name: %s\n", g.Name)
	fmt.Fprintf(w, "type: %v\n", g.Type)
	fmt.Fprintf(w, "coordinates: %v\n", g.Coordinates)
	fmt.Fprintf(w, "parameterization: %v\n", g.Parameterization)
	if g.Projection != "" {
		fmt.Fprintf(w, "projection: %s\n", g.Projection)
	}
	fmt.Fprintf(w, "cells: %d realized of %d\n", g.NCellsRealized(), g.NCellsFull())
	fmt.Fprintf(w, "vertices: %d realized of %d\n", g.NVerticesRealized(), g.NVerticesFull())
	fmt.Fprintf(w, "area: %g\n", floats.Sum(areas.Float64s(0)))
	fmt.Fprintf(w, "hash: %s\n", g.Hash())
	return nil
}
