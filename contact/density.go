/*
 * density.go, part of confwater.
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
	"fmt"
	"math"

	"github.com/rmera/confwater/histo"
	"gonum.org/v1/gonum/floats"
)

//Density bins the points in P in a grid of nx by ny bins, spanning [min[0], max[0]) in the first
//coordinate and [min[1], max[1]) in the second. It returns a histogram matrix with one row
//per bin in the first coordinate, each with the histogram of the second coordinate. Points
//out of range are not counted.
func Density(P *Points, min, max [2]float64, nx, ny int) (*histo.Matrix, error) {
	if nx < 1 || ny < 1 {
		return nil, configError(fmt.Sprintf("Invalid number of bins %d x %d", nx, ny), "Density")
	}
	if !(max[0] > min[0]) || !(max[1] > min[1]) {
		return nil, configError(fmt.Sprintf("Invalid ranges [%g, %g) and [%g, %g)", min[0], max[0], min[1], max[1]), "Density")
	}
	xdiv := floats.Span(make([]float64, nx+1), min[0], max[0])
	ydiv := floats.Span(make([]float64, ny+1), min[1], max[1])
	x := P.Column(0)
	y := P.Column(1)
	M, err := histo.Grid(xdiv, ydiv, x, y)
	if err != nil {
		return nil, Error{message: "Binning failed", kind: errConfig, deco: []string{"Density"}, err: err}
	}
	return M, nil
}

//AutoDensity is like Density, but the ranges are the bounds of the points, so all of them
//are counted. It returns an error if P is empty.
func AutoDensity(P *Points, nx, ny int) (*histo.Matrix, error) {
	if P.Len() == 0 {
		return nil, configError("No points to bin", "AutoDensity")
	}
	min, max := P.Bounds()
	for i := range max {
		//the upper limit is not included in the last bin
		max[i] = math.Nextafter(max[i], math.Inf(1))
		if !(max[i] > min[i]) {
			max[i] = min[i] + 1
		}
	}
	return Density(P, min, max, nx, ny)
}
