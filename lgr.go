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
	"fmt"
	"sort"
	"strings"
)

/*
Local grid refinement works as follows: some cells of a coarser grid are
subdivided into finer internal grids.

    +--------------------------------------+
    |            |            |            |
    |     X      |      X     |     X      |
    |            |            |            |
    -------------|------------|------------|
    |     |      |      |     |            |
    |-----X------|------X-----|     X      |
    |  x  |  x   |   x  |     |            |
    -------------|------------|------------|
    |            |            |            |
    |     X      |            |            |
    |            |            |            |
    +--------------------------------------+

The main grid and the LGRs use the same Grid type, and indexing works
identically for both. The main grid owns every LGR instance, including
LGRs nested inside other LGRs; a host grid only holds integer references
into the main grid's arena.
*/

func (g *Grid) assertMain() {
	if g.gridNr != 0 {
		panic("cpgrid: LGR lookup on a sub-grid; only the main grid indexes the hierarchy")
	}
}

// AddLGR registers a sub-grid with the main grid. Sub-grids must be added
// in strictly increasing occurrence order: the incoming grid's number
// must equal the current hierarchy size.
func (g *Grid) AddLGR(lgr *Grid) error {
	g.assertMain()
	if next := len(g.grids); lgr.gridNr != next {
		return fmt.Errorf("cpgrid: LGR %q registered out of order: grid number %d, want %d",
			lgr.name, lgr.gridNr, next)
	}
	g.grids = append(g.grids, lgr)
	g.lgrIndex[lgr.name] = lgr.gridNr
	lgr.main = g
	return nil
}

// LGR looks up a sub-grid by name. Leading and trailing whitespace is
// stripped from the name first; the simulator pads names to a fixed
// width.
func (g *Grid) LGR(name string) (*Grid, bool) {
	g.assertMain()
	nr, ok := g.lgrIndex[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	return g.grids[nr], true
}

// HasLGR reports whether a sub-grid with the given name is registered.
func (g *Grid) HasLGR(name string) bool {
	_, ok := g.LGR(name)
	return ok
}

// LGRCount returns the number of sub-grids in the hierarchy, not
// counting the main grid.
func (g *Grid) LGRCount() int {
	g.assertMain()
	return len(g.grids) - 1
}

// LGRByIndex returns the nth sub-grid, zero-offset and not counting the
// main grid, so LGRByIndex(0) returns the grid with grid number 1.
func (g *Grid) LGRByIndex(n int) *Grid {
	g.assertMain()
	if n < 0 || n >= len(g.grids)-1 {
		panic(fmt.Sprintf("cpgrid: LGR index %d outside [0,%d)", n, len(g.grids)-1))
	}
	return g.grids[n+1]
}

// LGRNames returns the sorted names of all registered sub-grids.
func (g *Grid) LGRNames() []string {
	g.assertMain()
	names := make([]string, 0, len(g.lgrIndex))
	for name := range g.lgrIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hostGrid resolves the grid an LGR refines: the grid named by the LGR's
// parent name, or the main grid when no parent name is present.
func (g *Grid) hostGrid(lgr *Grid) (*Grid, error) {
	if lgr.parentName == "" {
		return g, nil
	}
	host, ok := g.LGR(lgr.parentName)
	if !ok {
		return nil, fmt.Errorf("cpgrid: LGR %q names parent %q, which is not registered", lgr.name, lgr.parentName)
	}
	return host, nil
}

// installLGR wires the host/refinement relation from a host-cell map:
// for every active LGR cell, the corresponding host cell gets a reference
// to the LGR and the LGR cell a back-reference to its host. The map is
// 1-based, as written by the simulator.
func installLGR(host, lgr *Grid, hostnum []int) error {
	if len(hostnum) != lgr.size {
		return fmt.Errorf("cpgrid: host-cell map for LGR %q has %d entries; want %d",
			lgr.name, len(hostnum), lgr.size)
	}
	for i := range lgr.cells {
		lgrCell := &lgr.cells[i]
		if !lgrCell.Active {
			continue
		}
		hostGlobal := hostnum[i] - 1
		if hostGlobal < 0 || hostGlobal >= host.size {
			return fmt.Errorf("cpgrid: host-cell map for LGR %q references cell %d of a %d-cell host",
				lgr.name, hostnum[i], host.size)
		}
		host.cells[hostGlobal].Refined = lgr.gridNr
		lgrCell.HostCell = hostGlobal
	}
	host.children[lgr.name] = lgr.gridNr
	lgr.parentNr = host.gridNr
	return nil
}

// installExplicitLGR wires the host/refinement relation for the
// explicit-cell path, where each cell record already carried its own
// host-cell index.
func installExplicitLGR(host, lgr *Grid) {
	for i := range lgr.cells {
		lgrCell := &lgr.cells[i]
		if lgrCell.Active && lgrCell.HostCell >= 0 {
			host.cells[lgrCell.HostCell].Refined = lgr.gridNr
		}
	}
	host.children[lgr.name] = lgr.gridNr
	lgr.parentNr = host.gridNr
}

// Parent returns the grid this LGR refines, or nil for the main grid.
func (g *Grid) Parent() *Grid {
	if g.parentNr < 0 {
		return nil
	}
	if g.parentNr == 0 {
		return g.main
	}
	return g.main.grids[g.parentNr]
}

// ParentName returns the name of the parent grid for a nested LGR, or an
// empty string for the main grid and for LGRs descending directly from
// it.
func (g *Grid) ParentName() string { return g.parentName }

// Main returns the main grid of the hierarchy, or nil if g itself is the
// main grid.
func (g *Grid) Main() *Grid { return g.main }

// CellLGR returns the sub-grid refining the cell at the global index, or
// nil if the cell is not refined. A cell refined in several levels
// returns the first level; descend by repeated calls.
func (g *Grid) CellLGR(global int) *Grid {
	g.checkGlobal(global)
	nr := g.cells[global].Refined
	if nr < 0 {
		return nil
	}
	if g.main != nil {
		return g.main.grids[nr]
	}
	return g.grids[nr]
}

// HostCell returns the global index in the parent grid of the cell this
// LGR cell refines, or -1 for cells of the main grid.
func (g *Grid) HostCell(global int) int {
	g.checkGlobal(global)
	return g.cells[global].HostCell
}
