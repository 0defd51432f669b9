/*
 * geometric.go, part of confwater.
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

package chem

import (
	"fmt"
	"math"

	v3 "github.com/rmera/confwater/v3"
	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Angle takes 2 vectors and calculate the angle in radians between them
//It does not check for correctness or return errors!
func Angle(v1, v2 *v3.Matrix) float64 {
	normproduct := v1.Norm() * v2.Norm()
	dotprod := v1.Dot(v2)
	argument := dotprod / normproduct
	//Take care of floating point math errors
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//RotatorAroundAxis returns an operator that rotates vectors by angle radians
//around the given axis (which doesn't need to be normalized), following the
//right-hand rule. The operator acts on column vectors, so a set of coordinates
//stored as rows (i.e. a v3.Matrix) is rotated with coords.Mul(coords, rot.T()).
//It uses the Euler-Rodrigues formula. For a zero angle the identity is returned,
//regardless of the axis.
func RotatorAroundAxis(axis *v3.Matrix, angle float64) *v3.Matrix {
	ax := v3.Zeros(1)
	ax.Unit(axis)
	a := math.Cos(angle / 2.0)
	s := -math.Sin(angle / 2.0)
	b, c, d := ax.At(0, 0)*s, ax.At(0, 1)*s, ax.At(0, 2)*s
	aa, bb, cc, dd := a*a, b*b, c*c, d*d
	bc, ad, ac, ab, bd, cd := b*c, a*d, a*c, a*b, b*d, c*d
	operator := []float64{aa + bb - cc - dd, 2 * (bc + ad), 2 * (bd - ac),
		2 * (bc - ad), aa + cc - bb - dd, 2 * (cd + ab),
		2 * (bd + ac), 2 * (cd - ab), aa + dd - bb - cc}
	rot, _ := v3.NewMatrix(operator) //we are hardcoding the operator so it must have the right dimensions.
	return rot
}

//CenterOfMass returns the center of mass the atoms represented by the coordinates in geometry
//and the masses in mass (a column vector), and an error. If mass is nil, it calculates the geometric center
func CenterOfMass(geometry *v3.Matrix, mass *mat.Dense) (*v3.Matrix, error) {
	if geometry == nil {
		return nil, CError{"nil matrix to get the center of mass", []string{"CenterOfMass"}}
	}
	gr, _ := geometry.Dims()
	if gr == 0 {
		return nil, CError{"empty matrix to get the center of mass", []string{"CenterOfMass"}}
	}
	if mass == nil { //just obtain the geometric center
		ones := make([]float64, gr)
		for i := range ones {
			ones[i] = 1
		}
		mass = mat.NewDense(gr, 1, ones)
	}
	mr, mc := mass.Dims()
	if mr != gr || mc != 1 {
		return nil, CError{fmt.Sprintf("%d masses for %d coordinates", mr, gr), []string{"CenterOfMass"}}
	}
	total := mat.Sum(mass)
	if total <= 0 {
		return nil, CError{"Total mass must be positive", []string{"CenterOfMass"}}
	}
	ref := v3.Zeros(1)
	ref.Mul(mass.T(), geometry)
	ref.Scale(1.0/total, ref.Dense)
	return ref, nil
}

//MassCentrate centers in in the center of mass of oref. Mass must be
//A column vector. Returns the centered matrix and the displacement matrix.
func MassCentrate(in, oref *v3.Matrix, mass *mat.Dense) (*v3.Matrix, *v3.Matrix, error) {
	ref2, err := CenterOfMass(oref, mass)
	if err != nil {
		return nil, nil, errDecorate(err, "MassCentrate")
	}
	returned := in.Clone()
	returned.SubVec(returned, ref2)
	return returned, ref2, nil
}
