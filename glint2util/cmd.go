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

// Package glint2util is the command-line interface for GLINT2. It builds
// grids, overlaps them into exchange grids and assembles regridding
// matrices from the result.
package glint2util

import (
	"context"
	"fmt"
	"os"

	"github.com/citibob/glint2"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GLINT2.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the verbosity of the log: panic, fatal, error,
              warning, info or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "VName",
			usage: `
              VName is the variable name prefix that grids are read from
              and written to in netCDF files.`,
			defaultVal: "grid",
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags(), gridLonLatCmd.Flags(), overlapCmd.Flags(), matrixCmd.Flags(), infoCmd.Flags(), shpCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the netCDF file to write.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags(), gridLonLatCmd.Flags(), overlapCmd.Flags(), matrixCmd.Flags()},
		},
		{
			name: "Input",
			usage: `
              Input is the path of the netCDF grid file to read.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{matrixCmd.Flags(), infoCmd.Flags(), shpCmd.Flags()},
		},
		{
			name: "Name",
			usage: `
              Name is the name given to a new grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags(), gridLonLatCmd.Flags()},
		},
		{
			name: "Mask",
			usage: `
              Mask is an optional GeoJSON file or shapefile holding the
              polygon that new grid cells must overlap to be realized.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags(), gridLonLatCmd.Flags()},
		},
		{
			name: "XY.Projection",
			usage: `
              XY.Projection is the proj4 definition of the grid's
              coordinate system.`,
			defaultVal: "+proj=lcc +lat_1=65 +lat_2=80 +lat_0=72 +lon_0=-40 +x_0=0 +y_0=0 +a=6371000 +b=6371000 +to_meter=1",
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.X0",
			usage: `
              XY.X0 is the lower X boundary of the grid.`,
			defaultVal: -800000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.X1",
			usage: `
              XY.X1 is the upper X boundary of the grid.`,
			defaultVal: 700000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.DX",
			usage: `
              XY.DX is the X edge length of grid cells.`,
			defaultVal: 20000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.Y0",
			usage: `
              XY.Y0 is the lower Y boundary of the grid.`,
			defaultVal: -1300000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.Y1",
			usage: `
              XY.Y1 is the upper Y boundary of the grid.`,
			defaultVal: 1300000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.DY",
			usage: `
              XY.DY is the Y edge length of grid cells.`,
			defaultVal: 20000.0,
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.XBoundaries",
			usage: `
              XY.XBoundaries optionally lists the X cell boundaries
              explicitly, overriding XY.X0, XY.X1 and XY.DX.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "XY.YBoundaries",
			usage: `
              XY.YBoundaries optionally lists the Y cell boundaries
              explicitly, overriding XY.Y0, XY.Y1 and XY.DY.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{gridXYCmd.Flags()},
		},
		{
			name: "LonLat.Lon0",
			usage: `
              LonLat.Lon0 is the western longitude boundary of the grid.`,
			defaultVal: -180.0,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.Lon1",
			usage: `
              LonLat.Lon1 is the eastern longitude boundary of the grid.`,
			defaultVal: 180.0,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.DLon",
			usage: `
              LonLat.DLon is the longitude width of grid cells in degrees.`,
			defaultVal: 2.5,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.Lat0",
			usage: `
              LonLat.Lat0 is the southern latitude boundary of the grid.`,
			defaultVal: -90.0,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.Lat1",
			usage: `
              LonLat.Lat1 is the northern latitude boundary of the grid.`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.DLat",
			usage: `
              LonLat.DLat is the latitude height of grid cells in degrees.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.LatBoundaries",
			usage: `
              LonLat.LatBoundaries optionally lists the latitude cell
              boundaries explicitly, for example to give polar caps,
              overriding LonLat.Lat0, LonLat.Lat1 and LonLat.DLat.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "LonLat.PointsInSide",
			usage: `
              LonLat.PointsInSide is the number of segments each cell edge
              is divided into, so that projected cells follow the curved
              edges of the sphere.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "Domain.EndJ",
			usage: `
              Domain.EndJ lists the exclusive upper latitude row of each
              domain when the grid is split into latitude bands.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "Domain.Rank",
			usage: `
              Domain.Rank selects the domain to keep when Domain.EndJ is
              set. -1 keeps every domain.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{gridLonLatCmd.Flags()},
		},
		{
			name: "GridA",
			usage: `
              GridA is the path of the netCDF file holding the first grid
              of an overlap, typically the GCM grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{overlapCmd.Flags(), matrixCmd.Flags()},
		},
		{
			name: "GridB",
			usage: `
              GridB is the path of the netCDF file holding the second grid
              of an overlap, typically the ice grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{overlapCmd.Flags(), matrixCmd.Flags()},
		},
		{
			name: "Batches",
			usage: `
              Batches is the number of batches the cells of GridA are split
              into when computing overlaps. 0 uses one batch per CPU.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{overlapCmd.Flags()},
		},
		{
			name: "Direction",
			usage: `
              Direction is BvA to regrid from grid A to grid B, or AvB for
              the reverse.`,
			defaultVal: "BvA",
			flagsets:   []*pflag.FlagSet{matrixCmd.Flags()},
		},
		{
			name: "Normalize",
			usage: `
              Normalize divides each matrix row by the overlap area of its
              target cell.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{matrixCmd.Flags()},
		},
		{
			name: "ShapeDir",
			usage: `
              ShapeDir is the directory the shapefile is written to.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{shpCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GLINT2")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case []int:
				set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(gridCmd)
	gridCmd.AddCommand(gridXYCmd)
	gridCmd.AddCommand(gridLonLatCmd)
	Root.AddCommand(overlapCmd)
	Root.AddCommand(matrixCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(shpCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("glint2: problem reading configuration file: %v", err)
		}
	}
	return setLogging(Cfg)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "glint2",
	Short: "Couple GCM and ice sheet grids.",
	Long: `GLINT2 builds GCM and ice sheet grids, computes the exchange grid of
their overlaps and assembles the sparse matrices used to regrid fields
between them.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GLINT2_var' where 'var' is the
name of the variable to be set. File paths may contain environment variables.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GLINT2.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GLINT2 v%s\n", glint2.Version)
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Create a grid.",
	Long: `grid creates a grid and saves it to a netCDF file. Use the subcommands
specified below to choose the kind of grid.`,
	DisableAutoGenTag: true,
}

var gridXYCmd = &cobra.Command{
	Use:   "xy",
	Short: "Create a Cartesian grid.",
	Long: `xy creates a rectangular grid in a projected coordinate system, as used
by ice sheet models. Cells that do not overlap the Mask polygon are left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		g, err := GridXY(Cfg)
		if err != nil {
			return err
		}
		return g.WriteFile(outputFile, Cfg.GetString("VName"))
	},
	DisableAutoGenTag: true,
}

var gridLonLatCmd = &cobra.Command{
	Use:   "lonlat",
	Short: "Create a longitude-latitude grid.",
	Long: `lonlat creates a longitude-latitude grid, as used by GCMs. Cells that do
not overlap the Mask polygon, or fall outside the selected domain, are left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		g, err := GridLonLat(Cfg)
		if err != nil {
			return err
		}
		return g.WriteFile(outputFile, Cfg.GetString("VName"))
	},
	DisableAutoGenTag: true,
}

var overlapCmd = &cobra.Command{
	Use:   "overlap",
	Short: "Compute an exchange grid.",
	Long: `overlap computes the exchange grid of GridA and GridB and saves it to
OutputFile. If GridA is a longitude-latitude grid and GridB is projected,
GridA is first projected into GridB's coordinate system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		x, err := Overlap(context.Background(), Cfg)
		if err != nil {
			return err
		}
		return x.WriteFile(outputFile, Cfg.GetString("VName"))
	},
	DisableAutoGenTag: true,
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Assemble a regridding matrix.",
	Long: `matrix assembles the regridding matrix for the exchange grid in Input
and saves it, together with the overlap area of each target cell, to OutputFile.
GridA and GridB name the parent grids, which fix the extents of the matrix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Matrix(Cfg, outputFile)
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe a grid file.",
	Long:  `info prints a summary of the grid stored in Input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Info(cmd.OutOrStdout(), Cfg)
	},
	DisableAutoGenTag: true,
}

var shpCmd = &cobra.Command{
	Use:   "shp",
	Short: "Export a grid to a shapefile.",
	Long:  `shp writes the cells of the grid stored in Input to a shapefile in ShapeDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := readGrid(Cfg.GetString("Input"), Cfg.GetString("VName"))
		if err != nil {
			return err
		}
		return g.WriteShp(os.ExpandEnv(Cfg.GetString("ShapeDir")))
	},
	DisableAutoGenTag: true,
}
