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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Blocking scatters irregular observations — measurements along a well
// path, say — into the cells containing them, so that they can be
// reduced per cell and compared with simulated fields. Observations are
// located with the locality-seeded search, seeded with the previously
// hit cell, because consecutive observations tend to be close together.
//
// A Blocking mutates internal state on every AddValue call and must not
// be shared between goroutines.
type Blocking struct {
	g       *Grid
	dim     int
	values  [][]float64
	last    int
	scratch *LocateScratch
}

// NewBlocking creates a blocking over g. dim selects the blocking
// dimension: 3 blocks observations into cells, 2 blocks surface
// observations into (i, j) columns. Any other value is a caller error
// and panics.
func NewBlocking(g *Grid, dim int) *Blocking {
	var n int
	switch dim {
	case 2:
		n = g.nx * g.ny
	case 3:
		n = g.size
	default:
		panic(fmt.Sprintf("cpgrid: blocking dimension must be 2 or 3; got %d", dim))
	}
	return &Blocking{
		g:       g,
		dim:     dim,
		values:  make([][]float64, n),
		scratch: NewLocateScratch(g),
	}
}

// Reset discards all blocked observations.
func (b *Blocking) Reset() {
	for i := range b.values {
		b.values[i] = b.values[i][:0]
	}
	b.last = 0
}

// AddValue blocks one observation at (x, y, z) into the cell containing
// it, reporting whether any cell did. For a 2-dimensional blocking z is
// ignored and the observation lands in the column whose shallowest-layer
// lower face contains (x, y).
func (b *Blocking) AddValue(x, y, z, value float64) bool {
	var slot int
	switch b.dim {
	case 3:
		global := b.g.Locate(x, y, z, b.last, b.scratch)
		if global < 0 {
			return false
		}
		b.last = global
		slot = global
	case 2:
		global := b.g.LocateXYBottom(x, y)
		if global < 0 {
			return false
		}
		i, j, _ := b.g.IJK(global)
		slot = i + j*b.g.nx
	}
	b.values[slot] = append(b.values[slot], value)
	return true
}

func (b *Blocking) slot(i, j, k int) int {
	if b.dim == 2 {
		if i < 0 || i >= b.g.nx || j < 0 || j >= b.g.ny {
			panic(fmt.Sprintf("cpgrid: (i,j) = (%d,%d) is outside the %d×%d surface", i, j, b.g.nx, b.g.ny))
		}
		return i + j*b.g.nx
	}
	return b.g.GlobalIndex(i, j, k)
}

// Count returns the number of observations blocked into (i, j, k). For
// a 2-dimensional blocking k is ignored.
func (b *Blocking) Count(i, j, k int) int {
	return len(b.values[b.slot(i, j, k)])
}

// Sum returns the sum of the observations blocked into (i, j, k).
func (b *Blocking) Sum(i, j, k int) float64 {
	return floats.Sum(b.values[b.slot(i, j, k)])
}

// Mean returns the mean of the observations blocked into (i, j, k), or
// NaN when the cell received none.
func (b *Blocking) Mean(i, j, k int) float64 {
	return stat.Mean(b.values[b.slot(i, j, k)], nil)
}
