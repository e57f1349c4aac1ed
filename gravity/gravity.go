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

// Package gravity calculates the time-lapse gravimetric response of a
// reservoir: the change in vertical gravity at surface stations caused
// by fluid-mass redistribution between two report steps. It consumes the
// cpgrid cell mesh and per-active-cell solution fields decoded from the
// simulator's output files.
package gravity

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/cpgrid"
	"gonum.org/v1/gonum/floats"
)

// gravConst converts kg and meters to the reported Δg unit of μGal:
// the gravitational constant G as 6.67e-3 in this unit system.
const gravConst = 6.67e-3

// Phase identifies the fluid phases present in a simulation model.
type Phase int

const (
	Oil Phase = 1 << iota
	Gas
	Water
)

// Has reports whether p includes the given phase.
func (p Phase) Has(q Phase) bool { return p&q != 0 }

// Step holds the per-active-cell solution fields of one report step.
// PoreVolume is mandatory; a density field is mandatory for every phase
// the model carries, and a saturation field for every phase the files
// report. Missing saturations are reconstructed from the phase balance
// (all saturations sum to one).
type Step struct {
	PoreVolume *sparse.DenseArray

	OilDensity   *sparse.DenseArray
	GasDensity   *sparse.DenseArray
	WaterDensity *sparse.DenseArray

	GasSaturation   *sparse.DenseArray
	WaterSaturation *sparse.DenseArray
}

// Station is one gravity measurement location: a surface position and a
// true vertical depth.
type Station struct {
	Name  string
	X, Y  float64
	Depth float64
}

// truncate clamps a saturation to [0, 1]; the simulator occasionally
// writes slightly out-of-range values.
func truncate(s float64) float64 {
	return math.Min(1, math.Max(0, s))
}

func fieldValue(a *sparse.DenseArray, i int) float64 {
	if a == nil {
		return 0
	}
	return a.Elements[i]
}

// checkStep validates that a step carries the fields the phase
// configuration requires and that every field has one value per active
// cell.
func checkStep(g *cpgrid.Grid, s *Step, modelPhases, filePhases Phase) error {
	fields := []struct {
		name string
		a    *sparse.DenseArray
		want bool
	}{
		{"pore volume", s.PoreVolume, true},
		{"oil density", s.OilDensity, modelPhases.Has(Oil)},
		{"gas density", s.GasDensity, modelPhases.Has(Gas)},
		{"water density", s.WaterDensity, modelPhases.Has(Water)},
		{"gas saturation", s.GasSaturation, filePhases.Has(Gas)},
		{"water saturation", s.WaterSaturation, filePhases.Has(Water)},
	}
	for _, f := range fields {
		if !f.want {
			continue
		}
		if f.a == nil {
			return fmt.Errorf("gravity: missing %s field", f.name)
		}
		if len(f.a.Elements) != g.ActiveSize() {
			return fmt.Errorf("gravity: %s field has %d values; want %d (one per active cell)",
				f.name, len(f.a.Elements), g.ActiveSize())
		}
	}
	return nil
}

// cellMass returns the fluid mass in one active cell at one report step:
// pore volume times the saturation-weighted phase densities.
func cellMass(s *Step, active int, modelPhases, filePhases Phase) float64 {
	swat := 0.0
	if filePhases.Has(Water) {
		swat = truncate(fieldValue(s.WaterSaturation, active))
	}
	sgas := 0.0
	if modelPhases.Has(Gas) {
		if filePhases.Has(Gas) {
			sgas = truncate(fieldValue(s.GasSaturation, active))
		} else {
			sgas = 1 - swat
		}
	}
	soil := 0.0
	if modelPhases.Has(Oil) {
		soil = truncate(1 - sgas - swat)
	}

	return fieldValue(s.PoreVolume, active) * (soil*fieldValue(s.OilDensity, active) +
		sgas*fieldValue(s.GasDensity, active) +
		swat*fieldValue(s.WaterDensity, active))
}

// DeltaG returns the change in vertical gravity at the station between
// two report steps, in μGal: the sum over all active, non-aquifer cells
// of G·Δm·Δz/r³, with Δm the cell's fluid-mass change and r the distance
// from cell centroid to station.
//
// aquifer optionally carries the per-active-cell numerical-aquifer
// codes; cells with a negative code are accounting cells without
// real-world geometry and are skipped. A station placed exactly on a
// cell centroid makes the response singular and is an input error.
func DeltaG(g *cpgrid.Grid, step1, step2 *Step, modelPhases, filePhases Phase, aquifer []int, st Station) (float64, error) {
	if err := checkStep(g, step1, modelPhases, filePhases); err != nil {
		return 0, err
	}
	if err := checkStep(g, step2, modelPhases, filePhases); err != nil {
		return 0, err
	}
	if aquifer != nil && len(aquifer) != g.ActiveSize() {
		return 0, fmt.Errorf("gravity: aquifer field has %d values; want %d", len(aquifer), g.ActiveSize())
	}

	contributions := make([]float64, 0, g.ActiveSize())
	for global := 0; global < g.GlobalSize(); global++ {
		active := g.ActiveIndex(global)
		if active < 0 {
			continue
		}
		if aquifer != nil && aquifer[active] < 0 {
			continue
		}

		mass1 := cellMass(step1, active, modelPhases, filePhases)
		mass2 := cellMass(step2, active, modelPhases, filePhases)

		x, y, z := g.XYZ(global)
		dx := x - st.X
		dy := y - st.Y
		dz := z - st.Depth
		distSq := dx*dx + dy*dy + dz*dz
		if distSq == 0 {
			return 0, fmt.Errorf("gravity: station %q coincides with the centroid of cell %d", st.Name, global)
		}
		contributions = append(contributions, gravConst*(mass2-mass1)*dz/math.Pow(distSq, 1.5))
	}
	return floats.Sum(contributions), nil
}

// Survey returns the gravity change at every station, keyed by station
// name.
func Survey(g *cpgrid.Grid, step1, step2 *Step, modelPhases, filePhases Phase, aquifer []int, stations []Station) (map[string]float64, error) {
	result := make(map[string]float64, len(stations))
	for _, st := range stations {
		dg, err := DeltaG(g, step1, step2, modelPhases, filePhases, aquifer, st)
		if err != nil {
			return nil, fmt.Errorf("gravity: station %q: %v", st.Name, err)
		}
		result[st.Name] = dg
	}
	return result, nil
}
