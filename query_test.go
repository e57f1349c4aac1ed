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

import (
	"strings"
	"testing"
)

func TestCellGeometryQueries(t *testing.T) {
	g := testGrid(t, 2, 2, 3)

	global := g.GlobalIndex(1, 0, 2)
	if d := g.Depth(global); different(d, 2.5, 1e-12) {
		t.Errorf("Depth = %g; want 2.5", d)
	}
	if top := g.TopIJK(1, 0, 2); different(top, 2, 1e-12) {
		t.Errorf("TopIJK = %g; want 2", top)
	}
	if bottom := g.BottomIJK(1, 0, 2); different(bottom, 3, 1e-12) {
		t.Errorf("BottomIJK = %g; want 3", bottom)
	}
	if th := g.ThicknessIJK(1, 0, 2); different(th, 1, 1e-12) {
		t.Errorf("ThicknessIJK = %g; want 1", th)
	}
	if top := g.TopOfColumn(1, 0); different(top, 0, 1e-12) {
		t.Errorf("TopOfColumn = %g; want 0", top)
	}
	if bottom := g.BottomOfColumn(1, 0); different(bottom, 3, 1e-12) {
		t.Errorf("BottomOfColumn = %g; want 3", bottom)
	}

	dx, dy, dz := g.Distance(g.GlobalIndex(1, 1, 2), g.GlobalIndex(0, 0, 0))
	if different(dx, 1, 1e-12) || different(dy, 1, 1e-12) || different(dz, 2, 1e-12) {
		t.Errorf("Distance = %g, %g, %g; want 1, 1, 2", dx, dy, dz)
	}

	x, y, z := g.CornerXYZ(0, 0)
	if different(x, 1, 1e-12) || different(y, 1, 1e-12) || different(z, 0, 1e-12) {
		t.Errorf("CornerXYZ(0, 0) = %g, %g, %g; want 1, 1, 0", x, y, z)
	}
	x, y, z = g.CornerXYZ(0, 7)
	if different(x, 2, 1e-12) || different(y, 2, 1e-12) || different(z, 1, 1e-12) {
		t.Errorf("CornerXYZ(0, 7) = %g, %g, %g; want 2, 2, 1", x, y, z)
	}

	if !g.ContainsXYZIJK(1, 0, 2, 2.5, 1.5, 2.5) {
		t.Error("cell does not contain its own centroid")
	}
	if g.ContainsXYZIJK(1, 0, 2, 2.5, 1.5, 0.5) {
		t.Error("cell contains a point two layers up")
	}
}

func TestXYZOfActive(t *testing.T) {
	section := testSection(2, 1, 1)
	section.ActNum[0] = 0
	g, err := NewCornerPointGrid([]CornerPointSection{section})
	if err != nil {
		t.Fatal(err)
	}
	x, y, z := g.XYZOfActive(0)
	if different(x, 2.5, 1e-12) || different(y, 1.5, 1e-12) || different(z, 0.5, 1e-12) {
		t.Errorf("XYZOfActive(0) = %g, %g, %g; want 2.5, 1.5, 0.5", x, y, z)
	}
}

func TestLocateDepth(t *testing.T) {
	g := testGrid(t, 2, 2, 3)
	tests := []struct {
		depth float64
		want  int
	}{
		{-0.5, -1}, // above the column
		{0, 0},     // exactly at the top
		{0.5, 0},
		{1.5, 1},
		{2.999, 2},
		{3, -3}, // at the bottom: outside
		{10, -3},
	}
	for _, test := range tests {
		if got := g.LocateDepth(test.depth, 1, 1); got != test.want {
			t.Errorf("LocateDepth(%g) = %d; want %d", test.depth, got, test.want)
		}
	}
}

func TestIndexPanics(t *testing.T) {
	g := testGrid(t, 2, 2, 2)
	mustPanic := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		f()
	}
	mustPanic("GlobalIndex", func() { g.GlobalIndex(2, 0, 0) })
	mustPanic("IJK", func() { g.IJK(8) })
	mustPanic("IJK negative", func() { g.IJK(-1) })
	mustPanic("GlobalIndexOfActive", func() { g.GlobalIndexOfActive(8) })
	mustPanic("CornerXYZ", func() { g.CornerXYZ(0, 8) })
}

func TestSummary(t *testing.T) {
	g := nestedTestGrid(t)
	g.SetName("CASE")
	s := g.Summary()
	for _, want := range []string{"CASE", "TRAP", "WELL", "2 × 2 × 1", "Active cells:"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary does not mention %q:\n%s", want, s)
		}
	}
}
