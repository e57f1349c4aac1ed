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
	"encoding/gob"
	"fmt"
	"io"
)

// gridGob is the serialized form of one grid of a hierarchy.
type gridGob struct {
	Nx, Ny, Nz       int
	GridNr           int
	Name, ParentName string
	ParentNr         int
	Cells            []Cell
	MapAxes          *MapAxes
}

// Save writes the grid hierarchy to w in gob format. Only the geometry
// and relations are stored; the index maps are rebuilt on Load.
func (g *Grid) Save(w io.Writer) error {
	g.assertMain()
	snapshot := make([]gridGob, len(g.grids))
	for n, grid := range g.grids {
		snapshot[n] = gridGob{
			Nx:         grid.nx,
			Ny:         grid.ny,
			Nz:         grid.nz,
			GridNr:     grid.gridNr,
			Name:       grid.name,
			ParentName: grid.parentName,
			ParentNr:   grid.parentNr,
			Cells:      grid.cells,
			MapAxes:    grid.mapAxes,
		}
	}
	if err := gob.NewEncoder(w).Encode(snapshot); err != nil {
		return fmt.Errorf("cpgrid: saving grid: %v", err)
	}
	return nil
}

// Load reads a grid hierarchy previously written with Save.
func Load(r io.Reader) (*Grid, error) {
	var snapshot []gridGob
	if err := gob.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("cpgrid: loading grid: %v", err)
	}
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("cpgrid: loading grid: no grids in stream")
	}

	var main *Grid
	for _, sg := range snapshot {
		if want := sg.Nx * sg.Ny * sg.Nz; len(sg.Cells) != want {
			return nil, fmt.Errorf("cpgrid: loading grid %d: %d cells, want %d", sg.GridNr, len(sg.Cells), want)
		}
		g := newGrid(main, sg.Nx, sg.Ny, sg.Nz, sg.GridNr)
		g.name = sg.Name
		g.parentName = sg.ParentName
		g.parentNr = sg.ParentNr
		g.cells = sg.Cells
		g.mapAxes = sg.MapAxes
		g.updateIndex()

		if main == nil {
			main = g
			continue
		}
		if err := main.AddLGR(g); err != nil {
			return nil, err
		}
	}

	// Rebuild the direct-children tables from the stored parent
	// relations.
	for _, lgr := range main.grids[1:] {
		if lgr.parentNr >= 0 {
			main.grids[lgr.parentNr].children[lgr.name] = lgr.gridNr
		}
	}
	return main, nil
}
