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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/citibob/glint2"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// setLogging configures the standard logger from the LogLevel option.
func setLogging(cfg *viper.Viper) error {
	lvl, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("glint2: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:  true,
		DisableSorting: true,
	})
	return nil
}

// listItems splits the list option varName into its items. The list may
// come from a configuration file or from the command line, where it can
// arrive as a string such as "[1,2,3]" or "1,2,3".
func listItems(varName string, cfg *viper.Viper) ([]interface{}, error) {
	switch v := cfg.Get(varName).(type) {
	case nil:
		return nil, nil
	case string:
		var items []interface{}
		for _, s := range strings.Split(strings.Trim(v, "[]"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, nil
	case []float64:
		items := make([]interface{}, len(v))
		for i, f := range v {
			items[i] = f
		}
		return items, nil
	case []int:
		items := make([]interface{}, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, nil
	default:
		items, err := cast.ToSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("glint2: option %s: %v", varName, err)
		}
		return items, nil
	}
}

// floatList returns the list option varName as floats.
func floatList(varName string, cfg *viper.Viper) ([]float64, error) {
	items, err := listItems(varName, cfg)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	o := make([]float64, len(items))
	for i, item := range items {
		if o[i], err = cast.ToFloat64E(item); err != nil {
			return nil, fmt.Errorf("glint2: option %s: %v", varName, err)
		}
	}
	return o, nil
}

// intList returns the list option varName as ints.
func intList(varName string, cfg *viper.Viper) ([]int, error) {
	items, err := listItems(varName, cfg)
	if err != nil {
		return nil, err
	}
	o, err := cast.ToIntSliceE(items)
	if err != nil {
		return nil, fmt.Errorf("glint2: option %s: %v", varName, err)
	}
	return o, nil
}

// boundaries returns explicit boundaries from the list option listName if
// it is set, and evenly spaced boundaries from the options prefix+"0",
// prefix+"1" and "D"+prefix otherwise.
func boundaries(listName, section, prefix string, cfg *viper.Viper) ([]float64, error) {
	b, err := floatList(listName, cfg)
	if err != nil || len(b) > 0 {
		return b, err
	}
	return glint2.XYBoundaries(
		cfg.GetFloat64(section+"."+prefix+"0"),
		cfg.GetFloat64(section+"."+prefix+"1"),
		cfg.GetFloat64(section+".D"+prefix),
	), nil
}

// parseMask reads a polygon from a GeoJSON file or a shapefile. An empty
// file name means no mask.
func parseMask(maskFile string) (geom.Polygon, error) {
	if maskFile == "" {
		return nil, nil
	}
	maskFile = os.ExpandEnv(maskFile)
	var mask geom.Polygon
	add := func(g geom.Geom) error {
		switch msk := g.(type) {
		case geom.Polygon:
			mask = append(mask, msk...)
		case geom.MultiPolygon:
			for _, p := range msk {
				mask = append(mask, p...)
			}
		default:
			return fmt.Errorf("glint2: invalid mask geometry type %T", g)
		}
		return nil
	}

	if strings.EqualFold(filepath.Ext(maskFile), ".shp") {
		d, err := shp.NewDecoder(maskFile)
		if err != nil {
			return nil, fmt.Errorf("glint2: opening mask shapefile: %v", err)
		}
		defer d.Close()
		for {
			g, _, more := d.DecodeRowFields()
			if !more {
				break
			}
			if err := add(g); err != nil {
				return nil, err
			}
		}
		if err := d.Error(); err != nil {
			return nil, fmt.Errorf("glint2: reading mask shapefile: %v", err)
		}
		return mask, nil
	}

	b, err := ioutil.ReadFile(maskFile)
	if err != nil {
		return nil, fmt.Errorf("glint2: reading mask file: %v", err)
	}
	g, err := decodeGeoJSON(b)
	if err != nil {
		return nil, fmt.Errorf("glint2: decoding mask file: %v", err)
	}
	if err := add(g); err != nil {
		return nil, err
	}
	return mask, nil
}

// decodeGeoJSON decodes a GeoJSON geometry. geojson.Decode has no
// MultiPolygon support, so each of its members is decoded as a Polygon.
func decodeGeoJSON(b []byte) (geom.Geom, error) {
	var g geojson.Geometry
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}
	if g.Type != "MultiPolygon" {
		return geojson.FromGeoJSON(&g)
	}
	members, ok := g.Coordinates.([]interface{})
	if !ok {
		return nil, geojson.InvalidGeometryError{}
	}
	mp := make(geom.MultiPolygon, 0, len(members))
	for _, c := range members {
		p, err := geojson.FromGeoJSON(&geojson.Geometry{Type: "Polygon", Coordinates: c})
		if err != nil {
			return nil, err
		}
		mp = append(mp, p.(geom.Polygon))
	}
	return mp, nil
}

// cellClip returns the clip predicate for the Mask option.
func cellClip(cfg *viper.Viper) (glint2.CellClip, error) {
	mask, err := parseMask(cfg.GetString("Mask"))
	if err != nil || mask == nil {
		return glint2.KeepAll, err
	}
	return glint2.KeepInPolygon(mask), nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("glint2: OutputFile must be specified")
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return "", fmt.Errorf("glint2: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}
