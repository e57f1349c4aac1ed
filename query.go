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
	"bytes"
	"fmt"
	"text/tabwriter"
)

// XYZ returns the centroid position of the cell at the global index.
func (g *Grid) XYZ(global int) (x, y, z float64) {
	center := g.Cell(global).Center
	return center.X, center.Y, center.Z
}

// XYZIJK returns the centroid position of the cell at (i, j, k).
func (g *Grid) XYZIJK(i, j, k int) (x, y, z float64) {
	return g.XYZ(g.GlobalIndex(i, j, k))
}

// XYZOfActive returns the centroid position of the cell at the active
// index.
func (g *Grid) XYZOfActive(active int) (x, y, z float64) {
	return g.XYZ(g.GlobalIndexOfActive(active))
}

// CornerXYZ returns the position of one corner of the cell at the global
// index. Corner numbering is documented with the Cell type.
func (g *Grid) CornerXYZ(global, corner int) (x, y, z float64) {
	if corner < 0 || corner > 7 {
		panic(fmt.Sprintf("cpgrid: corner number %d outside [0,8)", corner))
	}
	p := g.Cell(global).Corners[corner]
	return p.X, p.Y, p.Z
}

// Distance returns the vector from the centroid of the second cell to
// the centroid of the first.
func (g *Grid) Distance(global1, global2 int) (dx, dy, dz float64) {
	d := g.Cell(global1).Center.Sub(g.Cell(global2).Center)
	return d.X, d.Y, d.Z
}

// Volume returns the volume of the cell at the global index.
func (g *Grid) Volume(global int) float64 {
	return g.Cell(global).Volume()
}

// VolumeIJK returns the volume of the cell at (i, j, k).
func (g *Grid) VolumeIJK(i, j, k int) float64 {
	return g.Volume(g.GlobalIndex(i, j, k))
}

// Depth returns the centroid depth of the cell at the global index.
func (g *Grid) Depth(global int) float64 {
	return g.Cell(global).Center.Z
}

// Top returns the top-surface depth of the cell at the global index.
func (g *Grid) Top(global int) float64 { return g.Cell(global).Top() }

// TopIJK returns the top-surface depth of the cell at (i, j, k).
func (g *Grid) TopIJK(i, j, k int) float64 {
	return g.Top(g.GlobalIndex(i, j, k))
}

// TopOfColumn returns the top depth of column (i, j): the top of its
// first-layer cell.
func (g *Grid) TopOfColumn(i, j int) float64 {
	return g.Top(g.GlobalIndex(i, j, 0))
}

// Bottom returns the bottom-surface depth of the cell at the global
// index.
func (g *Grid) Bottom(global int) float64 { return g.Cell(global).Bottom() }

// BottomIJK returns the bottom-surface depth of the cell at (i, j, k).
func (g *Grid) BottomIJK(i, j, k int) float64 {
	return g.Bottom(g.GlobalIndex(i, j, k))
}

// BottomOfColumn returns the bottom depth of column (i, j): the bottom
// of its last-layer cell.
func (g *Grid) BottomOfColumn(i, j int) float64 {
	return g.Bottom(g.GlobalIndex(i, j, g.nz-1))
}

// Thickness returns the mean vertical extent of the cell at the global
// index.
func (g *Grid) Thickness(global int) float64 { return g.Cell(global).Thickness() }

// ThicknessIJK returns the mean vertical extent of the cell at
// (i, j, k).
func (g *Grid) ThicknessIJK(i, j, k int) float64 {
	return g.Thickness(g.GlobalIndex(i, j, k))
}

// LocateDepth returns the layer k in column (i, j) whose [top, bottom)
// depth interval contains depth. A depth above the column top returns
// -1; a depth at or below the column bottom returns -Nz().
func (g *Grid) LocateDepth(depth float64, i, j int) int {
	if depth < g.TopOfColumn(i, j) {
		return -1
	}
	if depth >= g.BottomOfColumn(i, j) {
		return -g.nz
	}
	bottom := g.TopIJK(i, j, 0)
	for k := 0; ; k++ {
		top := bottom
		bottom = g.BottomIJK(i, j, k)
		if depth >= top && depth < bottom {
			return k
		}
		if k == g.nz-1 {
			panic(fmt.Sprintf("cpgrid: depth %g escaped column (%d,%d) scan", depth, i, j))
		}
	}
}

// ContainsXYZ reports whether the cell at the global index contains the
// point (x, y, z). Tainted cells contain nothing.
func (g *Grid) ContainsXYZ(global int, x, y, z float64) bool {
	return g.Cell(global).Contains(x, y, z)
}

// ContainsXYZIJK reports whether the cell at (i, j, k) contains the
// point (x, y, z).
func (g *Grid) ContainsXYZIJK(i, j, k int, x, y, z float64) bool {
	return g.ContainsXYZ(g.GlobalIndex(i, j, k), x, y, z)
}

// Summary returns a human-readable description of the grid and, for the
// main grid, of each sub-grid in the hierarchy.
func (g *Grid) Summary() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 2, 1, ' ', 0)
	g.summarize(w, "")
	if g.gridNr == 0 {
		for _, lgr := range g.grids[1:] {
			fmt.Fprintln(w)
			lgr.summarize(w, "  ")
		}
	}
	w.Flush()
	return buf.String()
}

func (g *Grid) summarize(w *tabwriter.Writer, indent string) {
	fmt.Fprintf(w, "%sName:\t%s\n", indent, g.name)
	fmt.Fprintf(w, "%sDimensions:\t%d × %d × %d\n", indent, g.nx, g.ny, g.nz)
	fmt.Fprintf(w, "%sCells:\t%d\n", indent, g.size)
	fmt.Fprintf(w, "%sActive cells:\t%d\n", indent, g.totalActive)
	if g.parentName != "" {
		fmt.Fprintf(w, "%sParent:\t%s\n", indent, g.parentName)
	}
}
