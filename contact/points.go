/*
 * points.go, part of confwater.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package contact

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Points is a set of 2D points, stored row-major, in the order they were added.
type Points struct {
	data   []float64
	frames int
}

//NewPoints returns an empty set of points with room for capacity points.
func NewPoints(capacity int) *Points {
	if capacity < 0 {
		capacity = 0
	}
	return &Points{data: make([]float64, 0, 2*capacity)}
}

//Len returns the number of points in the set.
func (P *Points) Len() int {
	return len(P.data) / 2
}

//Frames returns the number of trajectory frames that contributed to the set.
func (P *Points) Frames() int {
	return P.frames
}

//At returns the two coordinates of the ith point. It panics if i is out of range.
func (P *Points) At(i int) (float64, float64) {
	return P.data[2*i], P.data[2*i+1]
}

//Append adds the point (a,b) at the end of the set.
func (P *Points) Append(a, b float64) {
	P.data = append(P.data, a, b)
}

//AppendPoints adds all the points in Q at the end of the set.
//The frames contributing to Q are added to those of the receiver.
func (P *Points) AppendPoints(Q *Points) {
	P.data = append(P.data, Q.data...)
	P.frames += Q.frames
}

//Raw returns the coordinates of all points, row-major. It's a view, not a copy.
func (P *Points) Raw() []float64 {
	return P.data
}

//Column returns the jth coordinate (0 or 1) of all points, in dst, if given and large enough,
//or in a new slice.
func (P *Points) Column(j int, dst ...[]float64) []float64 {
	if j < 0 || j > 1 {
		panic(fmt.Sprintf("contact: column %d requested from a 2D point set", j))
	}
	var ret []float64
	if len(dst) > 0 && len(dst[0]) >= P.Len() {
		ret = dst[0][:P.Len()]
	} else {
		ret = make([]float64, P.Len())
	}
	for i := range ret {
		ret[i] = P.data[2*i+j]
	}
	return ret
}

//Dense returns a Nx2 gonum matrix sharing the data with the set, or nil if the set is empty.
func (P *Points) Dense() *mat.Dense {
	if P.Len() == 0 {
		return nil
	}
	return mat.NewDense(P.Len(), 2, P.data[:2*P.Len()])
}

//Bounds returns the smallest and largest values for each coordinate.
//It panics if the set is empty.
func (P *Points) Bounds() (min, max [2]float64) {
	for j := 0; j < 2; j++ {
		c := P.Column(j)
		min[j] = floats.Min(c)
		max[j] = floats.Max(c)
	}
	return min, max
}

//WriteTo writes the points to w as text, one point per line. It implements io.WriterTo.
func (P *Points) WriteTo(w io.Writer) (int64, error) {
	b := bufio.NewWriter(w)
	var n int64
	for i := 0; i < P.Len(); i++ {
		c, err := fmt.Fprintf(b, "%.6f %.6f\n", P.data[2*i], P.data[2*i+1])
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, b.Flush()
}
