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

// Package cpgrid builds addressable three-dimensional cell meshes from
// corner-point grid descriptions and answers geometric queries against
// them: point containment, cell volume, and conversions between logical
// (i,j,k), global, and active cell indices. Nested local grid refinements
// (LGRs) are supported; the main grid owns every sub-grid in the
// hierarchy.
//
// There are three ways to address a cell:
//
//  1. By logical coordinates (i, j, k).
//  2. By global index, in [0, nx*ny*nz).
//  3. By active index, in [0, ActiveSize()).
//
// The cpgrid package consumes already-decoded numeric arrays; parsing of
// the simulator's keyword-oriented container files is a separate concern.
package cpgrid

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// GridType discriminates the mesh format declared by the grid file
// header. Only corner-point meshes are supported.
type GridType int

const (
	// GridTypeCornerPoint is a hexahedral mesh defined by pillars and
	// per-layer corner depths.
	GridTypeCornerPoint GridType = 1
	// GridTypeUnstructured is declared by some simulators but is not
	// supported here.
	GridTypeUnstructured GridType = 2
)

// GridHead carries the header fields of one grid section: the format
// discriminator, the dimensions, and the occurrence number of the section
// in the file (0 for the main grid, increasing for each LGR section).
type GridHead struct {
	Type       GridType
	Nx, Ny, Nz int
	GridNr     int
}

// CornerPointSection is the decoded content of one column-major grid
// section: pillar coordinates, corner depths, and activity codes.
// MapAxes is optional and only meaningful on the main-grid section.
// HostNum, Name, and ParentName are only present for LGR sections.
type CornerPointSection struct {
	Head GridHead

	// Coord holds one pillar per (nx+1)*(ny+1) grid-line intersection:
	// six values per pillar, the top and bottom endpoint coordinates.
	Coord []float64

	// ZCorn holds 8*nx*ny*nz corner depths in the simulator's
	// column-major layout.
	ZCorn []float64

	// ActNum holds one activity code per cell. Any strictly positive
	// code marks the cell active; dual-porosity models use codes 2 and 3
	// in addition to 1.
	ActNum []int

	MapAxes *[6]float64

	// HostNum maps each LGR cell to the 1-based global index of the host
	// cell it refines.
	HostNum []int

	Name       string
	ParentName string
}

// CellRecord is one cell of a legacy explicit-cell (GRID format) section.
// Coords carries the 1-based logical coordinates i, j, k and the cell
// number, optionally followed by an activity flag and a 1-based host-cell
// index. Corners carries x, y, z for each of the eight corners.
type CellRecord struct {
	Coords  []int
	Corners [24]float64
}

// ExplicitSection is the decoded content of one explicit-cell grid
// section.
type ExplicitSection struct {
	Nx, Ny, Nz int
	GridNr     int
	Cells      []CellRecord
	MapAxes    *[6]float64
	Name       string
	ParentName string
}

// Grid is an addressable three-dimensional cell mesh: either the main
// grid or one LGR. The main grid additionally owns every LGR in the
// hierarchy, regardless of nesting depth; sub-grids hold only integer
// back-references.
type Grid struct {
	nx, ny, nz  int
	size        int
	totalActive int

	gridNr     int
	name       string
	parentName string

	cells       []Cell
	indexMap    []int // global index -> active index, -1 if inactive
	invIndexMap []int // active index -> global index

	mapAxes *MapAxes

	taint TaintFunc

	// grids is the arena of all grids in the hierarchy, allocated only
	// for the main grid. grids[0] is the main grid itself and grids[n]
	// is the LGR with grid number n.
	grids    []*Grid
	lgrIndex map[string]int
	children map[string]int

	main     *Grid // nil for the main grid
	parentNr int   // grid number of the parent grid; -1 for the main grid
}

// newGrid allocates a blank grid. If main is non-nil the new grid is an
// LGR and inherits the main grid's map transform.
func newGrid(main *Grid, nx, ny, nz, gridNr int) *Grid {
	g := &Grid{
		nx:       nx,
		ny:       ny,
		nz:       nz,
		size:     nx * ny * nz,
		gridNr:   gridNr,
		cells:    make([]Cell, nx*ny*nz),
		taint:    OriginTaint,
		main:     main,
		parentNr: -1,
		children: make(map[string]int),
	}
	for i := range g.cells {
		g.cells[i].ActiveIndex = -1
		g.cells[i].HostCell = -1
		g.cells[i].Refined = -1
	}
	if main != nil {
		g.mapAxes = main.mapAxes
		g.taint = main.taint
	} else {
		g.grids = []*Grid{g}
		g.lgrIndex = make(map[string]int)
	}
	return g
}

// NewCornerPointGrid builds the full grid hierarchy from decoded
// column-major sections. The first section must be the main grid
// (occurrence number 0); any following sections are LGRs in occurrence
// order, each wired to its host grid through its HostNum map and optional
// ParentName.
func NewCornerPointGrid(sections []CornerPointSection) (*Grid, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("cpgrid: no grid sections supplied")
	}
	main, err := buildCornerPointSection(nil, sections[0])
	if err != nil {
		return nil, err
	}
	for _, section := range sections[1:] {
		lgr, err := buildCornerPointSection(main, section)
		if err != nil {
			return nil, err
		}
		if err := main.AddLGR(lgr); err != nil {
			return nil, err
		}
		host, err := main.hostGrid(lgr)
		if err != nil {
			return nil, err
		}
		if err := installLGR(host, lgr, section.HostNum); err != nil {
			return nil, err
		}
	}
	return main, nil
}

func buildCornerPointSection(main *Grid, section CornerPointSection) (*Grid, error) {
	head := section.Head
	if head.Type != GridTypeCornerPoint {
		return nil, fmt.Errorf("cpgrid: grid type discriminator is %d; only corner-point grids (type %d) are supported",
			head.Type, GridTypeCornerPoint)
	}
	nx, ny, nz := head.Nx, head.Ny, head.Nz
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("cpgrid: invalid grid dimensions %d×%d×%d", nx, ny, nz)
	}
	if want := 6 * (nx + 1) * (ny + 1); len(section.Coord) != want {
		return nil, fmt.Errorf("cpgrid: pillar array has %d values; want %d for a %d×%d grid",
			len(section.Coord), want, nx, ny)
	}
	if want := 8 * nx * ny * nz; len(section.ZCorn) != want {
		return nil, fmt.Errorf("cpgrid: corner-depth array has %d values; want %d", len(section.ZCorn), want)
	}
	if want := nx * ny * nz; len(section.ActNum) != want {
		return nil, fmt.Errorf("cpgrid: activity array has %d values; want %d", len(section.ActNum), want)
	}

	g := newGrid(main, nx, ny, nz, head.GridNr)
	g.name = strings.TrimSpace(section.Name)
	g.parentName = strings.TrimSpace(section.ParentName)
	if section.MapAxes != nil {
		if main != nil {
			return nil, fmt.Errorf("cpgrid: map transform coefficients supplied for LGR %q; only the main grid carries a transform", g.name)
		}
		g.mapAxes = NewMapAxes(*section.MapAxes)
	}

	g.initCornerPointCells(section.Coord, section.ZCorn, section.ActNum)
	g.finish()
	return g, nil
}

// initCornerPointCells populates the cell corners from the pillar and
// corner-depth arrays. Each (i,j) column reads only its own four pillars
// and writes only its own cells, so the columns are processed in parallel
// across disjoint j ranges.
func (g *Grid) initCornerPointCells(coord, zcorn []float64, actnum []int) {
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > g.ny {
		nprocs = g.ny
	}
	var wg sync.WaitGroup
	for p := 0; p < nprocs; p++ {
		j1 := g.ny * p / nprocs
		j2 := g.ny * (p + 1) / nprocs
		wg.Add(1)
		go func(j1, j2 int) {
			defer wg.Done()
			g.initColumns(j1, j2, coord, zcorn, actnum)
		}(j1, j2)
	}
	wg.Wait()
}

func (g *Grid) initColumns(j1, j2 int, coord, zcorn []float64, actnum []int) {
	nx, ny := g.nx, g.ny
	var pillars [4][2]Point

	for j := j1; j < j2; j++ {
		for i := 0; i < nx; i++ {
			pillarIndex := [4]int{
				6 * (j*(nx+1) + i),
				6 * (j*(nx+1) + i + 1),
				6 * ((j+1)*(nx+1) + i),
				6 * ((j+1)*(nx+1) + i + 1),
			}
			for ip := 0; ip < 4; ip++ {
				n := pillarIndex[ip]
				pillars[ip][0] = Point{X: coord[n], Y: coord[n+1], Z: coord[n+2]}
				pillars[ip][1] = Point{X: coord[n+3], Y: coord[n+4], Z: coord[n+5]}
			}

			for k := 0; k < g.nz; k++ {
				var z [4][2]float64
				for c := 0; c < 2; c++ {
					base := k*8*nx*ny + j*4*nx + c*4*nx*ny
					z[0][c] = zcorn[base+2*i]
					z[1][c] = zcorn[base+2*i+1]
					z[2][c] = zcorn[base+2*nx+2*i]
					z[3][c] = zcorn[base+2*nx+2*i+1]
				}
				g.setCornerPointCell(i, j, k, pillars, z, actnum)
			}
		}
	}
}

// pillarCrossPlane intersects the pillar line with the horizontal plane
// at depth z by linear interpolation along the pillar. A vertical pillar
// (zero horizontal extent) is handled by the same interpolation.
func pillarCrossPlane(pillar [2]Point, z float64) Point {
	e := pillar[1].Sub(pillar[0])
	t := (z - pillar[0].Z) / e.Z
	return Point{
		X: pillar[0].X + t*e.X,
		Y: pillar[0].Y + t*e.Y,
		Z: z,
	}
}

func (g *Grid) setCornerPointCell(i, j, k int, pillars [4][2]Point, z [4][2]float64, actnum []int) {
	global := g.globalIndex(i, j, k)
	cell := &g.cells[global]

	for iz := 0; iz < 2; iz++ {
		for ip := 0; ip < 4; ip++ {
			corner := pillarCrossPlane(pillars[ip], z[ip][iz])
			if g.mapAxes != nil {
				corner = g.mapAxes.Apply(corner)
			}
			cell.Corners[ip+iz*4] = corner
		}
	}
	cell.Active = actnum[global] > 0
}

// NewExplicitGrid builds the full grid hierarchy from decoded
// explicit-cell (legacy GRID format) sections. Cells carry their own
// logical coordinates, activity flag, and host-cell back-reference, so
// not every cell of a section needs a record; unrecorded cells stay
// inactive with undefined geometry.
func NewExplicitGrid(sections []ExplicitSection) (*Grid, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("cpgrid: no grid sections supplied")
	}
	main, err := buildExplicitSection(nil, sections[0])
	if err != nil {
		return nil, err
	}
	for _, section := range sections[1:] {
		lgr, err := buildExplicitSection(main, section)
		if err != nil {
			return nil, err
		}
		if err := main.AddLGR(lgr); err != nil {
			return nil, err
		}
		host, err := main.hostGrid(lgr)
		if err != nil {
			return nil, err
		}
		installExplicitLGR(host, lgr)
	}
	return main, nil
}

func buildExplicitSection(main *Grid, section ExplicitSection) (*Grid, error) {
	nx, ny, nz := section.Nx, section.Ny, section.Nz
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("cpgrid: invalid grid dimensions %d×%d×%d", nx, ny, nz)
	}
	g := newGrid(main, nx, ny, nz, section.GridNr)
	g.name = strings.TrimSpace(section.Name)
	g.parentName = strings.TrimSpace(section.ParentName)
	if g.parentName == "GLOBAL" {
		// The simulator writes GLOBAL for LGRs descending directly from
		// the main grid.
		g.parentName = ""
	}
	if section.MapAxes != nil {
		if main != nil {
			return nil, fmt.Errorf("cpgrid: map transform coefficients supplied for LGR %q; only the main grid carries a transform", g.name)
		}
		g.mapAxes = NewMapAxes(*section.MapAxes)
	}

	for n, rec := range section.Cells {
		if err := g.setExplicitCell(rec); err != nil {
			return nil, fmt.Errorf("cpgrid: cell record %d of grid %d: %v", n, section.GridNr, err)
		}
	}
	g.finish()
	return g, nil
}

func (g *Grid) setExplicitCell(rec CellRecord) error {
	if len(rec.Coords) < 4 {
		return fmt.Errorf("coordinate record has %d values; want at least 4", len(rec.Coords))
	}
	i, j, k := rec.Coords[0]-1, rec.Coords[1]-1, rec.Coords[2]-1
	if !g.IJKValid(i, j, k) {
		return fmt.Errorf("cell (%d,%d,%d) outside %d×%d×%d grid", rec.Coords[0], rec.Coords[1], rec.Coords[2], g.nx, g.ny, g.nz)
	}
	cell := &g.cells[g.globalIndex(i, j, k)]

	// The coordinate record optionally carries an activity flag and, for
	// LGR members, the 1-based host-cell index.
	switch len(rec.Coords) {
	case 4:
		cell.Active = true
	case 5:
		cell.Active = rec.Coords[4] == 1
	case 7:
		cell.Active = rec.Coords[4] == 1
		cell.HostCell = rec.Coords[5] - 1
	default:
		return fmt.Errorf("coordinate record has %d values; want 4, 5, or 7", len(rec.Coords))
	}

	for c := 0; c < 8; c++ {
		corner := Point{
			X: rec.Corners[3*c],
			Y: rec.Corners[3*c+1],
			Z: rec.Corners[3*c+2],
		}
		if g.mapAxes != nil {
			corner = g.mapAxes.Apply(corner)
		}
		cell.Corners[c] = corner
	}
	return nil
}

// SetTaintFunc replaces the degenerate-geometry predicate for this grid
// hierarchy and re-runs the tainted-cell scan. The default is
// OriginTaint. The predicate applies to the main grid and every LGR.
func (g *Grid) SetTaintFunc(f TaintFunc) {
	g.assertMain()
	g.taint = f
	g.taintCells()
	for _, lgr := range g.grids[1:] {
		lgr.taint = f
		lgr.taintCells()
	}
}

// finish completes construction after all cells are placed: centroids,
// the active index maps, and the tainted-geometry scan.
func (g *Grid) finish() {
	for i := range g.cells {
		g.cells[i].computeCenter()
	}
	g.updateIndex()
	g.taintCells()
}

func (g *Grid) taintCells() {
	for i := range g.cells {
		g.cells[i].Tainted = g.taint(&g.cells[i])
	}
}

// updateIndex rebuilds the active index assignment and the two index
// maps. Active indices are assigned in k-major, then j, then i traversal
// order — the same order as the dense cell storage. Externally supplied
// solution arrays are written in this traversal order, so the assignment
// order is part of the contract.
func (g *Grid) updateIndex() {
	activeIndex := 0
	for k := 0; k < g.nz; k++ {
		for j := 0; j < g.ny; j++ {
			for i := 0; i < g.nx; i++ {
				cell := &g.cells[g.globalIndex(i, j, k)]
				if cell.Active {
					cell.ActiveIndex = activeIndex
					activeIndex++
				} else {
					cell.ActiveIndex = -1
				}
			}
		}
	}
	g.totalActive = activeIndex

	g.indexMap = make([]int, g.size)
	g.invIndexMap = make([]int, g.totalActive)
	for i := range g.cells {
		cell := &g.cells[i]
		if cell.Active {
			g.indexMap[i] = cell.ActiveIndex
			g.invIndexMap[cell.ActiveIndex] = i
		} else {
			g.indexMap[i] = -1
		}
	}
}

// Equal reports whether g and g2 have identical dimensions and
// cell-by-cell equal geometry and activity, within tolerance tol.
func (g *Grid) Equal(g2 *Grid, tol float64) bool {
	if g.size != g2.size || g.nx != g2.nx || g.ny != g2.ny {
		return false
	}
	for i := range g.cells {
		if !g.cells[i].equal(&g2.cells[i], tol) {
			return false
		}
	}
	return true
}

// Name returns the grid name: empty or a case label for the main grid,
// the LGR name for sub-grids.
func (g *Grid) Name() string { return g.name }

// SetName sets the grid name.
func (g *Grid) SetName(name string) { g.name = strings.TrimSpace(name) }

// GridNr returns the occurrence number of this grid: 0 for the main
// grid, the LGR section number otherwise.
func (g *Grid) GridNr() int { return g.gridNr }
