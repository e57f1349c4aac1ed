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
	"math"

	"github.com/ctessum/geom"
)

/*
Each cell is a hexahedron with eight corners, numbered the way the
simulator numbers them:

   Lower layer:   Upper layer (deeper):

     2---3           6---7
     |   |           |   |
     0---1           4---5

Corner c of the lower layer and corner c+4 of the upper layer lie on the
same pillar.
*/

// Cell is one hexahedral grid cell. Cells are populated during grid
// construction and are read-only afterwards, except for the active-index
// refresh pass.
type Cell struct {
	Corners [8]Point
	Center  Point

	Active      bool
	ActiveIndex int // Dense rank among active cells; -1 if inactive.

	// Tainted marks cells with degenerate geometry which must be kept out
	// of all positional and volumetric queries. See Grid.SetTaintFunc.
	Tainted bool

	// HostCell is the global index of the cell this cell refines, for
	// cells belonging to a local grid refinement; -1 otherwise.
	HostCell int

	// Refined is the grid number of the sub-grid refining this cell, or
	// -1 if the cell is not refined.
	Refined int
}

// TaintFunc decides whether a cell has geometry too degenerate to take
// part in positional computations.
type TaintFunc func(*Cell) bool

// OriginTaint is the default TaintFunc: any corner at horizontal position
// (0,0) taints the cell. Some simulation models place numerical-aquifer
// accounting cells at the coordinate origin; mixing those with
// geo-referenced pillars produces warped hexahedra with doubly covered
// volume. The check is heuristic and can mis-tag a legitimate cell whose
// true position is the origin.
func OriginTaint(c *Cell) bool {
	for i := range c.Corners {
		if c.Corners[i].X == 0 && c.Corners[i].Y == 0 {
			return true
		}
	}
	return false
}

func (c *Cell) computeCenter() {
	var sum Point
	for i := range c.Corners {
		sum = sum.Add(c.Corners[i])
	}
	c.Center = sum.Scale(1.0 / 8.0)
}

// minZ and maxZ consider only the relevant face: the shallowest possible
// point of the cell is on the lower-numbered face and the deepest on the
// upper face.

func (c *Cell) minZ() float64 {
	return min4(c.Corners[0].Z, c.Corners[1].Z, c.Corners[2].Z, c.Corners[3].Z)
}

func (c *Cell) maxZ() float64 {
	return max4(c.Corners[4].Z, c.Corners[5].Z, c.Corners[6].Z, c.Corners[7].Z)
}

// Bounds returns the axis-aligned bounding box of the cell. All eight
// corners are considered because the grid may be rotated, so no single
// face bounds the horizontal extent.
func (c *Cell) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for i := range c.Corners {
		b.Extend(geom.NewBoundsPoint(geom.Point{X: c.Corners[i].X, Y: c.Corners[i].Y}))
	}
	return b
}

// Top returns the depth of the top surface of the cell: the arithmetic
// mean of the four corners of its shallow face.
func (c *Cell) Top() float64 {
	return (c.Corners[0].Z + c.Corners[1].Z + c.Corners[2].Z + c.Corners[3].Z) * 0.25
}

// Bottom returns the depth of the bottom surface of the cell.
func (c *Cell) Bottom() float64 {
	return (c.Corners[4].Z + c.Corners[5].Z + c.Corners[6].Z + c.Corners[7].Z) * 0.25
}

// Thickness returns the mean vertical extent of the cell.
func (c *Cell) Thickness() float64 {
	var t float64
	for i := 0; i < 4; i++ {
		t += c.Corners[i+4].Z - c.Corners[i].Z
	}
	return t * 0.25
}

/*
tetraPermutations describes how a cell is divided into twelve tetrahedra.
There are two alternative decompositions; for cells where the four corners
of a face are not coplanar the two give different volumes, and neither is
more correct than the other. Each tetrahedron additionally includes the
cell center as its first point. The corner numbering follows the cell
diagram above.
*/
var tetraPermutations = [2][12][3]int{
	{
		{0, 2, 6}, {0, 4, 6}, {0, 4, 5}, {0, 1, 5},
		{1, 3, 7}, {1, 5, 7}, {2, 3, 7}, {2, 6, 7},
		{0, 1, 2}, {1, 2, 3}, {4, 5, 6}, {5, 6, 7},
	},
	{
		{0, 2, 4}, {2, 4, 6}, {0, 4, 1}, {4, 5, 1},
		{1, 3, 5}, {3, 5, 7}, {2, 3, 6}, {3, 6, 7},
		{0, 1, 3}, {0, 2, 3}, {4, 5, 7}, {4, 6, 7},
	},
}

// tetrahedron holds four points; p[0] is the cell center when the
// tetrahedron comes from a cell decomposition.
type tetrahedron struct {
	p [4]Point
}

func (c *Cell) tetrahedron(method, nr int) tetrahedron {
	perm := tetraPermutations[method][nr]
	return tetrahedron{p: [4]Point{
		c.Center,
		c.Corners[perm[0]],
		c.Corners[perm[1]],
		c.Corners[perm[2]],
	}}
}

// signedVolume returns the signed volume of the tetrahedron spanned by
// a, b, c, and d: the scalar triple product of the edge vectors from a,
// divided by six.
func signedVolume(a, b, c, d Point) float64 {
	u := b.Sub(a)
	v := c.Sub(a)
	w := d.Sub(a)
	return (u.X*(v.Y*w.Z-v.Z*w.Y) -
		u.Y*(v.X*w.Z-v.Z*w.X) +
		u.Z*(v.X*w.Y-v.Y*w.X)) / 6
}

func (t tetrahedron) volume() float64 {
	return math.Abs(signedVolume(t.p[0], t.p[1], t.p[2], t.p[3]))
}

// containsEpsilon is the tolerance used in the planar and volumetric
// containment tests. Grid coordinates are typically UTM meters, so this
// is far below any physically meaningful length.
const containsEpsilon = 1e-10

// contains reports whether p lies inside the tetrahedron, using the
// same-side test: p is inside iff replacing any one vertex with p gives a
// sub-tetrahedron whose orientation matches the original. Zero-volume
// tetrahedra contain nothing.
func (t tetrahedron) contains(p Point) bool {
	v := signedVolume(t.p[0], t.p[1], t.p[2], t.p[3])
	if math.Abs(v) < containsEpsilon {
		return false
	}
	sign := v > 0
	for i := 0; i < 4; i++ {
		q := t.p
		q[i] = p
		vi := signedVolume(q[0], q[1], q[2], q[3])
		if math.Abs(vi) < containsEpsilon {
			continue // On a face; count as inside.
		}
		if (vi > 0) != sign {
			return false
		}
	}
	return true
}

// Volume returns the cell volume, computed by decomposing the hexahedron
// into twelve tetrahedra around the center with both decomposition
// schemes and averaging the two totals. Using both decompositions gives
// good agreement with the pore volumes reported by the simulator for
// cells with non-planar faces.
func (c *Cell) Volume() float64 {
	var volume float64
	for nr := 0; nr < 12; nr++ {
		volume += c.tetrahedron(0, nr).volume()
		volume += c.tetrahedron(1, nr).volume()
	}
	return volume * 0.5
}

// Contains reports whether the point (x, y, z) lies inside the cell.
// Tainted cells contain nothing. The point is first tested against the
// vertical extent and the bounding box; only then is the full tetrahedral
// decomposition consulted.
func (c *Cell) Contains(x, y, z float64) bool {
	if c.Tainted {
		return false
	}
	if z < c.minZ() || z > c.maxZ() {
		return false
	}
	b := c.Bounds()
	if x < b.Min.X || x > b.Max.X || y < b.Min.Y || y > b.Max.Y {
		return false
	}

	p := Point{X: x, Y: y, Z: z}
	for nr := 0; nr < 12; nr++ {
		if c.tetrahedron(0, nr).contains(p) {
			return true
		}
	}
	return false
}

// triangleArea returns the unsigned area of the triangle with the given
// vertex coordinates.
func triangleArea(x1, y1, x2, y2, x3, y3 float64) float64 {
	return math.Abs(x1*y2+x2*y3+x3*y1-x1*y3-x3*y2-x2*y1) * 0.5
}

// triangleContains tests planar containment of (x, y) via comparison of
// sub-triangle areas. Zero-area triangles contain nothing.
func triangleContains(p0, p1, p2 Point, x, y float64) bool {
	vt := triangleArea(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	if vt < containsEpsilon {
		return false
	}
	v1 := triangleArea(p0.X, p0.Y, p1.X, p1.Y, x, y)
	v2 := triangleArea(p0.X, p0.Y, x, y, p2.X, p2.Y)
	v3 := triangleArea(x, y, p1.X, p1.Y, p2.X, p2.Y)
	return math.Abs(vt-(v1+v2+v3)) < containsEpsilon
}

// LayerContains reports whether the vertical projection of the lower
// (lower == true) or upper face of the cell contains the surface point
// (x, y). The quadrilateral face is split into two triangles which are
// tested in turn. Tainted cells contain nothing.
func (c *Cell) LayerContains(lower bool, x, y float64) bool {
	if c.Tainted {
		return false
	}
	offset := 0
	if !lower {
		offset = 4
	}
	p0 := c.Corners[offset]
	p1 := c.Corners[offset+1]
	p2 := c.Corners[offset+2]
	p3 := c.Corners[offset+3]

	if triangleContains(p0, p1, p2, x, y) {
		return true
	}
	return triangleContains(p1, p2, p3, x, y)
}

// FacePolygon returns the lower or upper face of the cell as a polygon,
// for use with 2-D spatial indexes and plotting layers.
func (c *Cell) FacePolygon(lower bool) geom.Polygon {
	offset := 0
	if !lower {
		offset = 4
	}
	// Corner order within a face is 0,1,3,2 when walking the perimeter.
	ring := []geom.Point{
		{X: c.Corners[offset].X, Y: c.Corners[offset].Y},
		{X: c.Corners[offset+1].X, Y: c.Corners[offset+1].Y},
		{X: c.Corners[offset+3].X, Y: c.Corners[offset+3].Y},
		{X: c.Corners[offset+2].X, Y: c.Corners[offset+2].Y},
	}
	return geom.Polygon{ring}
}

// equal reports whether two cells have the same activity flag and
// geometry, within tolerance tol.
func (c *Cell) equal(c2 *Cell, tol float64) bool {
	if c.Active != c2.Active {
		return false
	}
	for i := range c.Corners {
		if !pointsEqual(c.Corners[i], c2.Corners[i], tol) {
			return false
		}
	}
	return pointsEqual(c.Center, c2.Center, tol)
}

func pointsEqual(p, q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol &&
		math.Abs(p.Y-q.Y) <= tol &&
		math.Abs(p.Z-q.Z) <= tol
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min4(a, b, c, d float64) float64 { return min2(min2(a, b), min2(c, d)) }
func max4(a, b, c, d float64) float64 { return max2(max2(a, b), max2(c, d)) }
