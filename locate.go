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
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// LocateScratch is the visited-cell marker used by Locate. It belongs to
// the caller: geometric queries against a finished grid are otherwise
// read-only and safe for concurrent use, so each concurrent reader must
// bring its own scratch.
type LocateScratch struct {
	visited []bool
}

// NewLocateScratch allocates a scratch buffer sized for g.
func NewLocateScratch(g *Grid) *LocateScratch {
	return &LocateScratch{visited: make([]bool, g.size)}
}

func (s *LocateScratch) clear(size int) {
	if len(s.visited) != size {
		s.visited = make([]bool, size)
		return
	}
	for i := range s.visited {
		s.visited[i] = false
	}
}

// Locate returns the global index of the cell containing the point
// (x, y, z), or -1 if no cell contains it.
//
// hint seeds the search with a guess of where the point is: the hinted
// cell is tested first, then its 3×3×3 neighborhood, then the 5×5×5
// neighborhood, and finally all cells in a linear scan starting at the
// hint and wrapping around. Repeated queries near each other — walking a
// well trajectory, say — mostly resolve in the first stages. A negative
// hint skips straight to the linear scan from index 0.
//
// scratch may be nil, in which case a marker buffer is allocated for the
// call.
func (g *Grid) Locate(x, y, z float64, hint int, scratch *LocateScratch) int {
	if scratch == nil {
		scratch = NewLocateScratch(g)
	}
	scratch.clear(g.size)

	start := 0
	if hint >= 0 && hint < g.size {
		start = hint
		if g.cells[hint].Contains(x, y, z) {
			return hint
		}
		scratch.visited[hint] = true

		i, j, k := g.IJK(hint)
		for _, r := range []int{1, 2} {
			if global := g.boxContains(
				maxInt(0, i-r), minInt(g.nx, i+r+1),
				maxInt(0, j-r), minInt(g.ny, j+r+1),
				maxInt(0, k-r), minInt(g.nz, k+r+1),
				x, y, z, scratch); global >= 0 {
				return global
			}
		}
	}

	for n := 0; n < g.size; n++ {
		global := (n + start) % g.size
		if scratch.visited[global] {
			continue
		}
		if g.cells[global].Contains(x, y, z) {
			return global
		}
	}
	return -1
}

// boxContains scans the half-open box [i1,i2)×[j1,j2)×[k1,k2) for a cell
// containing the point, marking cells visited so that later stages skip
// them.
func (g *Grid) boxContains(i1, i2, j1, j2, k1, k2 int, x, y, z float64, scratch *LocateScratch) int {
	for k := k1; k < k2; k++ {
		for j := j1; j < j2; j++ {
			for i := i1; i < i2; i++ {
				global := g.globalIndex(i, j, k)
				if scratch.visited[global] {
					continue
				}
				scratch.visited[global] = true
				if g.cells[global].Contains(x, y, z) {
					return global
				}
			}
		}
	}
	return -1
}

// LocateXY returns the global index of the cell in layer k whose lower
// (lower == true) or upper face contains the surface point (x, y), or -1
// if no cell does. Use IJK on the result to recover (i, j).
func (g *Grid) LocateXY(k int, lower bool, x, y float64) int {
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			global := g.GlobalIndex(i, j, k)
			if g.cells[global].LayerContains(lower, x, y) {
				return global
			}
		}
	}
	return -1
}

// LocateXYTop returns the cell of the deepest layer whose upper face
// contains the surface point (x, y), or -1.
func (g *Grid) LocateXYTop(x, y float64) int {
	return g.LocateXY(g.nz-1, false, x, y)
}

// LocateXYBottom returns the cell of the shallowest layer whose lower
// face contains the surface point (x, y), or -1.
func (g *Grid) LocateXYBottom(x, y float64) int {
	return g.LocateXY(0, true, x, y)
}

// surfaceCell is one rtree entry of a SurfaceIndex.
type surfaceCell struct {
	bounds *geom.Bounds
	global int
}

func (s *surfaceCell) Bounds() *geom.Bounds { return s.bounds }

// SurfaceIndex is a 2-D spatial index over the footprints of one layer
// of cells, for repeated surface-point lookups such as placing
// measurement stations. It is read-only after construction and safe for
// concurrent use.
type SurfaceIndex struct {
	g     *Grid
	layer int
	lower bool
	tree  *rtree.Rtree
}

// SurfaceIndexLayer builds a surface index over the lower or upper faces
// of layer k. Tainted cells are left out of the index.
func (g *Grid) SurfaceIndexLayer(k int, lower bool) *SurfaceIndex {
	si := &SurfaceIndex{g: g, layer: k, lower: lower, tree: rtree.NewTree(25, 50)}
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			global := g.GlobalIndex(i, j, k)
			cell := &g.cells[global]
			if cell.Tainted {
				continue
			}
			si.tree.Insert(&surfaceCell{bounds: cell.Bounds(), global: global})
		}
	}
	return si
}

// TopSurfaceIndex builds a surface index over the shallowest layer's
// lower faces: the top surface of the reservoir.
func (g *Grid) TopSurfaceIndex() *SurfaceIndex {
	return g.SurfaceIndexLayer(0, true)
}

// Locate returns the global index of the indexed cell whose face
// contains the surface point (x, y), or -1. Bounding boxes prune the
// candidates; the exact planar test decides.
func (si *SurfaceIndex) Locate(x, y float64) int {
	p := geom.Point{X: x, Y: y}
	for _, item := range si.tree.SearchIntersect(geom.NewBoundsPoint(p)) {
		sc := item.(*surfaceCell)
		if si.g.cells[sc.global].LayerContains(si.lower, x, y) {
			return sc.global
		}
	}
	return -1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
