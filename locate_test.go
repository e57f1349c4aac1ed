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

package cpgrid

import "testing"

func TestLocate(t *testing.T) {
	g := testGrid(t, 3, 3, 3)
	scratch := NewLocateScratch(g)

	// Cell (1,2,1) spans x in [2,3], y in [3,4], z in [1,2].
	want := g.GlobalIndex(1, 2, 1)
	x, y, z := 2.5, 3.5, 1.5

	hints := []int{-1, 0, want, g.GlobalIndex(2, 0, 2), g.GlobalSize() + 10}
	for _, hint := range hints {
		if got := g.Locate(x, y, z, hint, scratch); got != want {
			t.Errorf("Locate with hint %d = %d; want %d", hint, got, want)
		}
	}
	// nil scratch allocates internally.
	if got := g.Locate(x, y, z, -1, nil); got != want {
		t.Errorf("Locate with nil scratch = %d; want %d", got, want)
	}

	// Points outside the grid.
	outside := [][3]float64{
		{0.5, 2.5, 1.5}, // west of the grid
		{2.5, 2.5, -1},  // above
		{2.5, 2.5, 4},   // below
		{9, 9, 9},
	}
	for _, p := range outside {
		if got := g.Locate(p[0], p[1], p[2], -1, scratch); got != -1 {
			t.Errorf("Locate(%v) = %d; want -1", p, got)
		}
	}
}

func TestLocateScratchReuse(t *testing.T) {
	g := testGrid(t, 2, 2, 2)
	scratch := NewLocateScratch(g)
	for global := 0; global < g.GlobalSize(); global++ {
		x, y, z := g.XYZ(global)
		if got := g.Locate(x, y, z, 0, scratch); got != global {
			t.Errorf("Locate of centroid %d = %d", global, got)
		}
	}
	// A scratch sized for another grid is resized, not trusted.
	big := testGrid(t, 4, 4, 4)
	if got := big.Locate(2.5, 2.5, 2.5, -1, scratch); got != big.GlobalIndex(1, 1, 2) {
		t.Errorf("Locate with foreign scratch = %d", got)
	}
}

func TestLocateXY(t *testing.T) {
	g := testGrid(t, 3, 3, 2)

	want := g.GlobalIndex(2, 0, 0)
	if got := g.LocateXYBottom(3.5, 1.5); got != want {
		t.Errorf("LocateXYBottom = %d; want %d", got, want)
	}
	want = g.GlobalIndex(2, 0, g.Nz()-1)
	if got := g.LocateXYTop(3.5, 1.5); got != want {
		t.Errorf("LocateXYTop = %d; want %d", got, want)
	}
	if got := g.LocateXYBottom(0.5, 1.5); got != -1 {
		t.Errorf("LocateXYBottom outside the footprint = %d; want -1", got)
	}
}

func TestSurfaceIndex(t *testing.T) {
	g := testGrid(t, 4, 3, 2)
	si := g.TopSurfaceIndex()

	points := [][2]float64{{1.5, 1.5}, {4.5, 3.5}, {2.2, 2.9}}
	for _, p := range points {
		want := g.LocateXYBottom(p[0], p[1])
		if got := si.Locate(p[0], p[1]); got != want {
			t.Errorf("SurfaceIndex.Locate(%v) = %d; want %d", p, got, want)
		}
	}
	if got := si.Locate(50, 50); got != -1 {
		t.Errorf("SurfaceIndex.Locate outside the grid = %d; want -1", got)
	}
}

func TestSurfaceIndexSkipsTainted(t *testing.T) {
	// Shift the fixture onto the origin so that cell (0,0,*) is tainted.
	section := testSectionAt(2, 2, 1, 0, 0, 0, 1)
	g, err := NewCornerPointGrid([]CornerPointSection{section})
	if err != nil {
		t.Fatal(err)
	}
	if !g.Cell(0).Tainted {
		t.Fatal("fixture cell (0,0,0) should be tainted")
	}
	si := g.TopSurfaceIndex()
	if got := si.Locate(0.5, 0.5); got != -1 {
		t.Errorf("point over a tainted cell located in cell %d", got)
	}
	if got := si.Locate(1.5, 1.5); got != g.GlobalIndex(1, 1, 0) {
		t.Errorf("point over a clean cell = %d", got)
	}
}
