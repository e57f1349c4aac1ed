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

package gravity

import (
	"math"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/cpgrid"
)

// testGrid builds a single unit-cube cell with its centroid at
// (1.5, 1.5, 0.5).
func testGrid(t *testing.T) *cpgrid.Grid {
	t.Helper()
	coord := make([]float64, 24)
	for j := 0; j <= 1; j++ {
		for i := 0; i <= 1; i++ {
			n := 6 * (j*2 + i)
			coord[n] = float64(i) + 1
			coord[n+1] = float64(j) + 1
			coord[n+2] = 0
			coord[n+3] = float64(i) + 1
			coord[n+4] = float64(j) + 1
			coord[n+5] = 1
		}
	}
	zcorn := make([]float64, 8)
	for c := 4; c < 8; c++ {
		zcorn[c] = 1
	}
	g, err := cpgrid.NewCornerPointGrid([]cpgrid.CornerPointSection{{
		Head:   cpgrid.GridHead{Type: cpgrid.GridTypeCornerPoint, Nx: 1, Ny: 1, Nz: 1},
		Coord:  coord,
		ZCorn:  zcorn,
		ActNum: []int{1},
	}})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func array(v float64) *sparse.DenseArray {
	a := sparse.ZerosDense(1)
	a.Elements[0] = v
	return a
}

// testStep builds a single-cell report step with the given pore volume,
// phase densities, and saturations.
func testStep(pv, rhoOil, rhoGas, rhoWater, sgas, swat float64) *Step {
	return &Step{
		PoreVolume:      array(pv),
		OilDensity:      array(rhoOil),
		GasDensity:      array(rhoGas),
		WaterDensity:    array(rhoWater),
		GasSaturation:   array(sgas),
		WaterSaturation: array(swat),
	}
}

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func TestDeltaG(t *testing.T) {
	g := testGrid(t)
	step1 := testStep(1000, 800, 100, 1000, 0.2, 0.3) // mass 720000
	step2 := testStep(1000, 800, 100, 1000, 0.1, 0.5) // mass 830000

	// Station 100 m directly above the centroid: dz = 100, r = 100,
	// so dg = G·Δm·100/100³ = 6.67e-3·110000·1e-4.
	st := Station{Name: "BASE", X: 1.5, Y: 1.5, Depth: -99.5}
	dg, err := DeltaG(g, step1, step2, Oil|Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if want := 6.67e-3 * 110000 * 1e-4; different(dg, want, 1e-9) {
		t.Errorf("DeltaG = %g; want %g", dg, want)
	}

	// Mass loss inverts the sign.
	dg, err = DeltaG(g, step2, step1, Oil|Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if dg >= 0 {
		t.Errorf("DeltaG after mass loss = %g; want negative", dg)
	}

	// No mass change, no response.
	dg, err = DeltaG(g, step1, step1, Oil|Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if different(dg, 0, 1e-15) {
		t.Errorf("DeltaG with identical steps = %g; want 0", dg)
	}
}

func TestDeltaGDistance(t *testing.T) {
	g := testGrid(t)
	step1 := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	step2 := testStep(1000, 800, 100, 1000, 0.1, 0.5)

	near := Station{Name: "NEAR", X: 1.5, Y: 1.5, Depth: -99.5}
	far := Station{Name: "FAR", X: 1.5, Y: 1.5, Depth: -199.5}
	dgNear, err := DeltaG(g, step1, step2, Oil|Gas|Water, Gas|Water, nil, near)
	if err != nil {
		t.Fatal(err)
	}
	dgFar, err := DeltaG(g, step1, step2, Oil|Gas|Water, Gas|Water, nil, far)
	if err != nil {
		t.Fatal(err)
	}
	// Doubling the distance quarters the vertical response.
	if different(dgNear/dgFar, 4, 1e-9) {
		t.Errorf("near/far ratio = %g; want 4", dgNear/dgFar)
	}
}

func TestSaturationTruncation(t *testing.T) {
	g := testGrid(t)
	st := Station{Name: "BASE", X: 1.5, Y: 1.5, Depth: -99.5}

	// A water saturation above 1 is clamped, so it behaves exactly like
	// a saturation of 1.
	clamped := testStep(1000, 800, 100, 1000, 0, 1.5)
	exact := testStep(1000, 800, 100, 1000, 0, 1)
	zero := testStep(0, 800, 100, 1000, 0, 1)

	dgClamped, err := DeltaG(g, zero, clamped, Oil|Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	dgExact, err := DeltaG(g, zero, exact, Oil|Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if different(dgClamped, dgExact, 1e-15) {
		t.Errorf("clamped response %g differs from exact %g", dgClamped, dgExact)
	}
}

func TestGasSaturationFromBalance(t *testing.T) {
	g := testGrid(t)
	st := Station{Name: "BASE", X: 1.5, Y: 1.5, Depth: -99.5}

	// When the files carry no gas saturation, gas fills whatever water
	// leaves: sgas = 1 - swat, and oil vanishes from the balance.
	implicit := testStep(1000, 800, 100, 1000, 0, 0.3)
	implicit.GasSaturation = nil
	explicit := testStep(1000, 800, 100, 1000, 0.7, 0.3)
	zero := testStep(0, 800, 100, 1000, 0, 0)
	zeroExplicit := testStep(0, 800, 100, 1000, 0.7, 0.3)

	dgImplicit, err := DeltaG(g, zero, implicit, Gas|Water, Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	dgExplicit, err := DeltaG(g, zeroExplicit, explicit, Gas|Water, Gas|Water, nil, st)
	if err != nil {
		t.Fatal(err)
	}
	if different(dgImplicit, dgExplicit, 1e-12) {
		t.Errorf("reconstructed gas saturation gives %g; explicit gives %g", dgImplicit, dgExplicit)
	}
}

func TestDeltaGErrors(t *testing.T) {
	g := testGrid(t)
	step := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	st := Station{Name: "BASE", X: 1.5, Y: 1.5, Depth: -99.5}

	missing := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	missing.WaterDensity = nil
	if _, err := DeltaG(g, missing, step, Oil|Gas|Water, Gas|Water, nil, st); err == nil || !strings.Contains(err.Error(), "water density") {
		t.Errorf("missing density field: err = %v", err)
	}

	short := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	short.PoreVolume = sparse.ZerosDense(3)
	if _, err := DeltaG(g, short, step, Oil|Gas|Water, Gas|Water, nil, st); err == nil {
		t.Error("wrong-length field not reported")
	}

	onCell := Station{Name: "SINGULAR", X: 1.5, Y: 1.5, Depth: 0.5}
	if _, err := DeltaG(g, step, step, Oil|Gas|Water, Gas|Water, nil, onCell); err == nil {
		t.Error("station on a cell centroid not reported")
	}

	if _, err := DeltaG(g, step, step, Oil|Gas|Water, Gas|Water, []int{1, 2}, st); err == nil {
		t.Error("wrong-length aquifer field not reported")
	}
}

func TestAquiferCellsSkipped(t *testing.T) {
	g := testGrid(t)
	step1 := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	step2 := testStep(1000, 800, 100, 1000, 0.1, 0.5)
	st := Station{Name: "BASE", X: 1.5, Y: 1.5, Depth: -99.5}

	dg, err := DeltaG(g, step1, step2, Oil|Gas|Water, Gas|Water, []int{-1}, st)
	if err != nil {
		t.Fatal(err)
	}
	if dg != 0 {
		t.Errorf("aquifer-only grid gives %g; want 0", dg)
	}
}

func TestSurvey(t *testing.T) {
	g := testGrid(t)
	step1 := testStep(1000, 800, 100, 1000, 0.2, 0.3)
	step2 := testStep(1000, 800, 100, 1000, 0.1, 0.5)

	stations := []Station{
		{Name: "A", X: 1.5, Y: 1.5, Depth: -99.5},
		{Name: "B", X: 101.5, Y: 1.5, Depth: 0.5},
	}
	result, err := Survey(g, step1, step2, Oil|Gas|Water, Gas|Water, nil, stations)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 2 {
		t.Fatalf("Survey returned %d results; want 2", len(result))
	}
	wantA, err := DeltaG(g, step1, step2, Oil|Gas|Water, Gas|Water, nil, stations[0])
	if err != nil {
		t.Fatal(err)
	}
	if different(result["A"], wantA, 1e-15) {
		t.Errorf(`result["A"] = %g; want %g`, result["A"], wantA)
	}
	// Station B sits level with the centroid: no vertical component.
	if different(result["B"], 0, 1e-15) {
		t.Errorf(`result["B"] = %g; want 0`, result["B"])
	}
}
