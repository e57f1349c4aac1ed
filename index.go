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

import "fmt"

// globalIndex computes the dense index without range checking; callers
// must have validated (i, j, k).
func (g *Grid) globalIndex(i, j, k int) int {
	return i + j*g.nx + k*g.nx*g.ny
}

// IJKValid reports whether (i, j, k) lies within the grid dimensions.
func (g *Grid) IJKValid(i, j, k int) bool {
	return i >= 0 && i < g.nx && j >= 0 && j < g.ny && k >= 0 && k < g.nz
}

// GlobalIndex converts zero-based logical coordinates to a global index.
// Out-of-range coordinates are a caller error and panic.
func (g *Grid) GlobalIndex(i, j, k int) int {
	if !g.IJKValid(i, j, k) {
		panic(fmt.Sprintf("cpgrid: (i,j,k) = (%d,%d,%d) is outside the %d×%d×%d grid",
			i, j, k, g.nx, g.ny, g.nz))
	}
	return g.globalIndex(i, j, k)
}

// IJK converts a global index back to zero-based logical coordinates; it
// is the exact inverse of GlobalIndex.
func (g *Grid) IJK(global int) (i, j, k int) {
	g.checkGlobal(global)
	k = global / (g.nx * g.ny)
	global -= k * g.nx * g.ny
	j = global / g.nx
	i = global - j*g.nx
	return i, j, k
}

func (g *Grid) checkGlobal(global int) {
	if global < 0 || global >= g.size {
		panic(fmt.Sprintf("cpgrid: global index %d outside [0,%d)", global, g.size))
	}
}

// ActiveIndex converts a global index to an active index, returning -1
// for inactive cells.
func (g *Grid) ActiveIndex(global int) int {
	g.checkGlobal(global)
	return g.indexMap[global]
}

// ActiveIndexIJK converts logical coordinates to an active index,
// returning -1 for inactive cells.
func (g *Grid) ActiveIndexIJK(i, j, k int) int {
	return g.indexMap[g.GlobalIndex(i, j, k)]
}

// GlobalIndexOfActive converts an active index to the global index of the
// same cell. An active index outside [0, ActiveSize()) is a caller error
// and panics.
func (g *Grid) GlobalIndexOfActive(active int) int {
	if active < 0 || active >= g.totalActive {
		panic(fmt.Sprintf("cpgrid: active index %d outside [0,%d)", active, g.totalActive))
	}
	return g.invIndexMap[active]
}

// IJKOfActive converts an active index to logical coordinates.
func (g *Grid) IJKOfActive(active int) (i, j, k int) {
	return g.IJK(g.GlobalIndexOfActive(active))
}

// Dims returns the grid dimensions and the number of active cells.
func (g *Grid) Dims() (nx, ny, nz, activeSize int) {
	return g.nx, g.ny, g.nz, g.totalActive
}

// Nx returns the number of cells in the i direction.
func (g *Grid) Nx() int { return g.nx }

// Ny returns the number of cells in the j direction.
func (g *Grid) Ny() int { return g.ny }

// Nz returns the number of layers.
func (g *Grid) Nz() int { return g.nz }

// GlobalSize returns the dense cell count nx*ny*nz.
func (g *Grid) GlobalSize() int { return g.size }

// ActiveSize returns the number of active cells.
func (g *Grid) ActiveSize() int { return g.totalActive }

// CellActive reports whether the cell at the global index is active.
func (g *Grid) CellActive(global int) bool {
	return g.ActiveIndex(global) >= 0
}

// CellActiveIJK reports whether the cell at (i, j, k) is active.
func (g *Grid) CellActiveIJK(i, j, k int) bool {
	return g.ActiveIndexIJK(i, j, k) >= 0
}

// Cell returns the cell at the global index. The returned cell is shared
// with the grid and must be treated as read-only.
func (g *Grid) Cell(global int) *Cell {
	g.checkGlobal(global)
	return &g.cells[global]
}

// CellIJK returns the cell at logical coordinates (i, j, k).
func (g *Grid) CellIJK(i, j, k int) *Cell {
	return &g.cells[g.GlobalIndex(i, j, k)]
}

// CellOfActive returns the cell at the active index.
func (g *Grid) CellOfActive(active int) *Cell {
	return &g.cells[g.GlobalIndexOfActive(active)]
}
