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
	"errors"
	"fmt"
)

// ErrInactiveCell is returned when a property of an inactive cell is
// requested from an array that only carries values for active cells.
var ErrInactiveCell = errors.New("cpgrid: cell is inactive")

// fieldIndex resolves (i, j, k) to a slot in an external flat array.
// An array of dense length is addressed by global index; an array of
// active length by active index, with ErrInactiveCell for inactive
// cells. Any other length is a size mismatch against the grid.
func (g *Grid) fieldIndex(fieldLen, i, j, k int) (int, error) {
	switch fieldLen {
	case g.size:
		return g.GlobalIndex(i, j, k), nil
	case g.totalActive:
		active := g.ActiveIndexIJK(i, j, k)
		if active < 0 {
			return -1, ErrInactiveCell
		}
		return active, nil
	default:
		return -1, fmt.Errorf("cpgrid: field has %d values; want %d (all cells) or %d (active cells)",
			fieldLen, g.size, g.totalActive)
	}
}

// Property resolves (i, j, k) to the corresponding value of an
// externally supplied per-cell field. Petrophysical properties come with
// one value per cell and are addressed globally; solution vectors come
// with one value per active cell and are addressed by active index.
// The addressing mode is selected by the array length; any other length
// is an error.
func (g *Grid) Property(field []float64, i, j, k int) (float64, error) {
	n, err := g.fieldIndex(len(field), i, j, k)
	if err != nil {
		return 0, err
	}
	return field[n], nil
}

// ColumnProperty fills column with the (i, j, ·) values of an externally
// supplied per-cell field. column must have one slot per layer. For an
// active-length field the slots of inactive cells are left untouched, so
// set any default beforehand.
func (g *Grid) ColumnProperty(field []float64, i, j int, column []float64) error {
	if len(column) != g.nz {
		return fmt.Errorf("cpgrid: column has %d slots; want %d", len(column), g.nz)
	}
	for k := 0; k < g.nz; k++ {
		v, err := g.Property(field, i, j, k)
		if err == ErrInactiveCell {
			continue
		}
		if err != nil {
			return err
		}
		column[k] = v
	}
	return nil
}

// RegionCells collects the indices of all cells whose value in the
// region field equals value. The region field must have dense length.
// With activeOnly set, inactive cells are skipped even when they match;
// with exportActive set, the returned indices are active indices rather
// than global ones.
func (g *Grid) RegionCells(region []int, value int, activeOnly, exportActive bool) ([]int, error) {
	if len(region) != g.size {
		return nil, fmt.Errorf("cpgrid: region field has %d values; want %d", len(region), g.size)
	}
	var cells []int
	for global, rv := range region {
		if rv != value {
			continue
		}
		active := g.indexMap[global]
		if activeOnly && active < 0 {
			continue
		}
		if exportActive {
			if active < 0 {
				continue
			}
			cells = append(cells, active)
		} else {
			cells = append(cells, global)
		}
	}
	return cells, nil
}
