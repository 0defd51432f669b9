/*
 * box.go, part of confwater.
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
)

//Box is a periodic simulation cell, given by the lengths of its 3 vectors (a, b, c)
//and the angles between them (alpha between b and c, beta between a and c,
//gamma between a and b), in degrees. This is the representation used in the
//CRYST1 record of PDB files.
type Box struct {
	Lengths [3]float64
	Angles  [3]float64
}

//NewBox returns a new box with the given lengths and angles (in degrees).
func NewBox(a, b, c, alpha, beta, gamma float64) (*Box, error) {
	B := &Box{Lengths: [3]float64{a, b, c}, Angles: [3]float64{alpha, beta, gamma}}
	if err := B.check(); err != nil {
		return nil, err
	}
	return B, nil
}

//NewOrthoBox returns a new box with the given lengths and right angles.
func NewOrthoBox(a, b, c float64) (*Box, error) {
	return NewBox(a, b, c, 90, 90, 90)
}

//BoxFromVectors returns a box from a slice with the 9 components of its
//vectors a, b and c, in that order.
func BoxFromVectors(v []float64) (*Box, error) {
	if len(v) < 9 {
		return nil, CError{fmt.Sprintf("9 box vector components needed, %d given", len(v)), []string{"BoxFromVectors"}}
	}
	vecs, _ := v3.NewMatrix(append([]float64(nil), v[:9]...))
	a, b, c := vecs.VecView(0), vecs.VecView(1), vecs.VecView(2)
	B := new(Box)
	B.Lengths = [3]float64{a.Norm(), b.Norm(), c.Norm()}
	B.Angles = [3]float64{Rad2Deg(Angle(b, c)), Rad2Deg(Angle(a, c)), Rad2Deg(Angle(a, b))}
	if err := B.check(); err != nil {
		return nil, errDecorate(err, "BoxFromVectors")
	}
	return B, nil
}

func (B *Box) check() error {
	for i, l := range B.Lengths {
		if !(l > 0) || math.IsInf(l, 0) {
			return CError{fmt.Sprintf("Invalid box length %f for vector %d", l, i), []string{"Box"}}
		}
	}
	for i, a := range B.Angles {
		if !(a > 0 && a < 180) {
			return CError{fmt.Sprintf("Invalid box angle %f for angle %d", a, i), []string{"Box"}}
		}
	}
	return nil
}

//Orthogonal returns true if all the box angles are 90 degrees.
func (B *Box) Orthogonal() bool {
	return B.Angles[0] == 90 && B.Angles[1] == 90 && B.Angles[2] == 90
}

//LengthsAndAngles returns a slice with the 3 lengths followed by the 3 angles.
func (B *Box) LengthsAndAngles() []float64 {
	return []float64{B.Lengths[0], B.Lengths[1], B.Lengths[2], B.Angles[0], B.Angles[1], B.Angles[2]}
}

//cosd is the cosine of an angle in degrees, exact for right angles.
func cosd(a float64) float64 {
	if a == 90 {
		return 0
	}
	return math.Cos(Deg2Rad(a))
}

//Vectors returns the 3 box vectors as the rows of a matrix. The vectors are in the
//usual lower-triangular form: a along x, b in the xy plane.
func (B *Box) Vectors() *v3.Matrix {
	la, lb, lc := B.Lengths[0], B.Lengths[1], B.Lengths[2]
	ca, cb, cg := cosd(B.Angles[0]), cosd(B.Angles[1]), cosd(B.Angles[2])
	sg := math.Sqrt(1 - cg*cg)
	cy := (ca - cb*cg) / sg
	cz := math.Sqrt(math.Max(1-cb*cb-cy*cy, 0))
	ret, _ := v3.NewMatrix([]float64{
		la, 0, 0,
		lb * cg, lb * sg, 0,
		lc * cb, lc * cy, lc * cz,
	})
	return ret
}

//Wrap puts all the coordinates in coords inside the primary cell, i.e. the
//cell spanned by the box vectors from the origin. The coordinates are modified in place.
//Wrapping already wrapped coordinates does nothing.
func (B *Box) Wrap(coords *v3.Matrix) {
	vecs := B.Vectors()
	ax := vecs.At(0, 0)
	bx, by := vecs.At(1, 0), vecs.At(1, 1)
	cx, cy, cz := vecs.At(2, 0), vecs.At(2, 1), vecs.At(2, 2)
	for i := 0; i < coords.NVecs(); i++ {
		x, y, z := coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)
		//a couple of passes take care of the points that roundoff puts exactly
		//on the upper face after a shift.
		for pass := 0; pass < 3; pass++ {
			fc := z / cz
			fb := (y - fc*cy) / by
			fa := (x - fb*bx - fc*cx) / ax
			sa, sb, sc := math.Floor(fa), math.Floor(fb), math.Floor(fc)
			if sa == 0 && sb == 0 && sc == 0 {
				break
			}
			x -= sa*ax + sb*bx + sc*cx
			y -= sb*by + sc*cy
			z -= sc * cz
		}
		coords.Set(i, 0, x)
		coords.Set(i, 1, y)
		coords.Set(i, 2, z)
	}
}

//String returns a CRYST1-like representation of the box.
func (B *Box) String() string {
	return fmt.Sprintf("%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f", B.Lengths[0], B.Lengths[1], B.Lengths[2], B.Angles[0], B.Angles[1], B.Angles[2])
}
