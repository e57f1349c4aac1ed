/*
Copyright © 2017 the CPGrid authors.
This file is part of CPGrid.

CPGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CPGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CPGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package cpgridutil

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spatialmodel/cpgrid"
	"github.com/spatialmodel/cpgrid/gravity"
	"github.com/spf13/cast"
)

// FieldData holds the gob-encoded inputs to a gravity survey: the
// solution fields at the two report steps being compared, the phase
// configuration, and the optional aquifer markers.
type FieldData struct {
	Step1, Step2 *gravity.Step

	// ModelPhases and FilePhases describe which phases the simulation
	// modeled and which saturations the solution fields contain.
	ModelPhases, FilePhases gravity.Phase

	// Aquifer holds one value per active cell; cells with negative
	// values are excluded from the mass calculation. It may be nil.
	Aquifer []int
}

// loadGrid reads the saved grid named by the GridData configuration
// variable.
func loadGrid() (*cpgrid.Grid, error) {
	path := os.ExpandEnv(Cfg.GetString("GridData"))
	log.WithField("path", path).Info("loading grid")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cpgrid: opening grid data: %v", err)
	}
	defer f.Close()
	return cpgrid.Load(f)
}

// Summary prints a description of the saved grid to w.
func Summary(w io.Writer) error {
	g, err := loadGrid()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, g.Summary())
	return err
}

// parseStation parses a "name,x,y,depth" station specification.
func parseStation(s string) (gravity.Station, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return gravity.Station{}, fmt.Errorf("cpgrid: station %q: want 4 comma-separated fields, got %d", s, len(parts))
	}
	var vals [3]float64
	for i, p := range parts[1:] {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return gravity.Station{}, fmt.Errorf("cpgrid: station %q: %v", s, err)
		}
		vals[i] = v
	}
	return gravity.Station{
		Name:  strings.TrimSpace(parts[0]),
		X:     vals[0],
		Y:     vals[1],
		Depth: vals[2],
	}, nil
}

// Gravity runs a time-lapse gravity survey and writes one line per
// station to w.
func Gravity(w io.Writer) error {
	g, err := loadGrid()
	if err != nil {
		return err
	}

	path := os.ExpandEnv(Cfg.GetString("Gravity.FieldData"))
	log.WithField("path", path).Info("loading solution fields")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cpgrid: opening field data: %v", err)
	}
	defer f.Close()
	var fields FieldData
	if err := gob.NewDecoder(f).Decode(&fields); err != nil {
		return fmt.Errorf("cpgrid: decoding field data: %v", err)
	}

	specs := Cfg.GetStringSlice("Gravity.Stations")
	if len(specs) == 0 {
		return fmt.Errorf("cpgrid: no measurement stations given")
	}
	stations := make([]gravity.Station, len(specs))
	for i, s := range specs {
		if stations[i], err = parseStation(s); err != nil {
			return err
		}
	}

	log.WithField("stations", len(stations)).Info("running gravity survey")
	result, err := gravity.Survey(g, fields.Step1, fields.Step2,
		fields.ModelPhases, fields.FilePhases, fields.Aquifer, stations)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s\t%g\n", name, result[name]); err != nil {
			return err
		}
	}
	return nil
}

// Locate finds the grid cell containing the configured point and
// reports its indices.
func Locate(w io.Writer) error {
	g, err := loadGrid()
	if err != nil {
		return err
	}

	spec := Cfg.GetString("Locate.Point")
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return fmt.Errorf("cpgrid: point %q: want 3 comma-separated fields, got %d", spec, len(parts))
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("cpgrid: point %q: %v", spec, err)
		}
		xyz[i] = v
	}

	global := g.Locate(xyz[0], xyz[1], xyz[2], -1, nil)
	if global < 0 {
		_, err := fmt.Fprintln(w, "point is outside the grid")
		return err
	}
	i, j, k := g.IJK(global)
	_, err = fmt.Fprintf(w, "global %d\tijk (%d,%d,%d)\tactive %d\n",
		global, i, j, k, g.ActiveIndex(global))
	return err
}
