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

import "math"

// Point is a location in three-dimensional space. Depths (Z) increase
// downwards, following the reservoir-simulator convention.
type Point struct {
	X, Y, Z float64
}

// Add returns the translation of p by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p with all coordinates multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// MapAxes is an affine transform from local grid coordinates to a map
// (real-world) coordinate system. It is defined by a unit vector for each
// horizontal axis and an origin; the vertical axis is unaffected.
type MapAxes struct {
	UnitX  [2]float64
	UnitY  [2]float64
	Origin [2]float64
}

// NewMapAxes creates a transform from the six coefficients supplied by the
// grid file: a point on the Y axis, the origin, and a point on the X axis,
// in that order. The axis vectors are normalized here.
func NewMapAxes(coeff [6]float64) *MapAxes {
	uy := [2]float64{coeff[0] - coeff[2], coeff[1] - coeff[3]}
	ux := [2]float64{coeff[4] - coeff[2], coeff[5] - coeff[3]}

	normX := 1 / math.Hypot(ux[0], ux[1])
	normY := 1 / math.Hypot(uy[0], uy[1])

	return &MapAxes{
		UnitX:  [2]float64{ux[0] * normX, ux[1] * normX},
		UnitY:  [2]float64{uy[0] * normY, uy[1] * normY},
		Origin: [2]float64{coeff[2], coeff[3]},
	}
}

// Apply transforms p from grid coordinates to map coordinates.
func (m *MapAxes) Apply(p Point) Point {
	return Point{
		X: m.Origin[0] + p.X*m.UnitX[0] + p.Y*m.UnitY[0],
		Y: m.Origin[1] + p.X*m.UnitX[1] + p.Y*m.UnitY[1],
		Z: p.Z,
	}
}
