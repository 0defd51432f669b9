/*
 * geometry.go, part of confwater.
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
	"sort"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

//Vectors shorter than this can't define an orientation.
const degenerateNorm = 1e-10

//Periodicity describes which of the 3 cartesian axes (0, 1 and 2 for x, y and z) are
//periodic. The remaining ones are the confined axes.
type Periodicity struct {
	periodic []int
	confined []int
}

//NewPeriodicity returns the Periodicity for the given periodic axes, which must be
//1 or 2 different indexes between 0 and 2. The order of the axes is kept.
func NewPeriodicity(periodic []int) (*Periodicity, error) {
	if len(periodic) != 1 && len(periodic) != 2 {
		return nil, configError(fmt.Sprintf("1 or 2 periodic axes needed, %d given", len(periodic)), "NewPeriodicity")
	}
	var seen [3]bool
	for _, v := range periodic {
		if v < 0 || v > 2 {
			return nil, configError(fmt.Sprintf("Invalid periodic axis %d", v), "NewPeriodicity")
		}
		if seen[v] {
			return nil, configError(fmt.Sprintf("Repeated periodic axis %d", v), "NewPeriodicity")
		}
		seen[v] = true
	}
	P := &Periodicity{periodic: append([]int(nil), periodic...)}
	for i, s := range seen {
		if !s {
			P.confined = append(P.confined, i)
		}
	}
	return P, nil
}

//Periodic returns the periodic axes.
func (P *Periodicity) Periodic() []int {
	return append([]int(nil), P.periodic...)
}

//Confined returns the confined (non-periodic) axes, in increasing order.
func (P *Periodicity) Confined() []int {
	return append([]int(nil), P.confined...)
}

//Vector returns a vector with ones in the periodic axes and zeros elsewhere.
func (P *Periodicity) Vector() [3]float64 {
	var ret [3]float64
	for _, v := range P.periodic {
		ret[v] = 1
	}
	return ret
}

//PlanarAngle returns the angle, in radians, between v and the (1,0) direction. The angle is
//negative when v[1] is positive, so rotating v by the returned angle takes it to (1,0).
//It returns an error if v is too short to define a direction.
func PlanarAngle(v [2]float64) (float64, error) {
	norm := math.Hypot(v[0], v[1])
	if norm < degenerateNorm || math.IsNaN(norm) {
		return 0, Error{message: fmt.Sprintf("Reference vector (%g, %g) is too short to define an orientation", v[0], v[1]), kind: errDegenerate, deco: []string{"PlanarAngle"}}
	}
	cos := v[0] / norm
	//floating point errors can put the ratio slightly out of range
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	angle := math.Acos(cos)
	if v[1] > 0 {
		return -angle, nil
	}
	return angle, nil
}

//Geometry is the shape of the interface, either a Tube or a Slab.
type Geometry interface {
	//Periodicity returns the periodic and confined axes of the system.
	Periodicity() *Periodicity
	liquidDefault() []string
	check(s *system) error
	//anchor obtains the reference configuration from the first frame, which must not be modified.
	anchor(first *v3.Matrix, box *chem.Box, s *system) (*anchor, error)
	//process aligns coords to the anchor and adds the projected points to liquid and solid.
	process(coords *v3.Matrix, box *chem.Box, s *system, a *anchor, w *workspace, liquid, solid *Points) error
}

//NewGeometry returns a Tube if one periodic axis is given, and a Slab if there are 2.
//The tube parameters are taken from o.
func NewGeometry(periodic []int, o *Options) (Geometry, error) {
	P, err := NewPeriodicity(periodic)
	if err != nil {
		return nil, errDecorate(err, "NewGeometry")
	}
	if len(P.periodic) == 2 {
		return &Slab{per: P, SystemAnchor: o.SystemAnchor()}, nil
	}
	t := &Tube{per: P, Radius: o.TubeRadius(), UnitCells: o.TubeUnitCells()}
	if !(t.Radius > 0) || math.IsInf(t.Radius, 0) {
		return nil, configError(fmt.Sprintf("A positive tube radius is needed, %g given", t.Radius), "NewGeometry")
	}
	if t.UnitCells < 1 {
		return nil, configError(fmt.Sprintf("The tube length must be at least one unit cell, %d given", t.UnitCells), "NewGeometry")
	}
	return t, nil
}

//anchor is the reference configuration all frames are aligned to.
type anchor struct {
	com       *v3.Matrix
	axisAtoms []int //tube only, indexes in the whole system.
}

//workspace contains the buffers needed to process one frame.
//Each goroutine processing frames needs its own.
type workspace struct {
	solid *v3.Matrix
}

func newWorkspace(s *system) *workspace {
	return &workspace{solid: v3.Zeros(len(s.solid))}
}

/*******Tube******/

//Tube is a nanotube, periodic along one axis.
type Tube struct {
	per       *Periodicity
	Radius    float64
	UnitCells int
}

//Periodicity returns the periodic and confined axes of the tube.
func (T *Tube) Periodicity() *Periodicity { return T.per }

//Circumference returns the circumference of the tube.
func (T *Tube) Circumference() float64 { return 2 * math.Pi * T.Radius }

func (T *Tube) liquidDefault() []string { return DefaultTubeLiquid }

func (T *Tube) check(s *system) error {
	if 2*T.UnitCells > len(s.solid) {
		return configError(fmt.Sprintf("%d axis atoms needed for a tube of %d unit cells, but there are only %d solid atoms", 2*T.UnitCells, T.UnitCells, len(s.solid)), "Tube")
	}
	if s.allMass == nil {
		return configError("Masses for all atoms are needed for tubes", "Tube")
	}
	return nil
}

//anchor takes the solid center of mass in the first frame, without wrapping, and
//the axis atoms: the 2*UnitCells solid atoms closest to the first solid atom in the confined plane.
func (T *Tube) anchor(first *v3.Matrix, box *chem.Box, s *system) (*anchor, error) {
	w := newWorkspace(s)
	com, err := s.solidCOM(first, w)
	if err != nil {
		return nil, errDecorate(err, "Tube.anchor")
	}
	c0, c1 := T.per.confined[0], T.per.confined[1]
	ref := s.solid[0]
	r0, r1 := first.At(ref, c0), first.At(ref, c1)
	dist := make([]float64, len(s.solid))
	order := make([]int, len(s.solid))
	for i, at := range s.solid {
		dist[i] = math.Hypot(first.At(at, c0)-r0, first.At(at, c1)-r1)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return dist[order[i]] < dist[order[j]] })
	axis := make([]int, 2*T.UnitCells)
	for i := range axis {
		axis[i] = s.solid[order[i]]
	}
	return &anchor{com: com, axisAtoms: axis}, nil
}

//align translates coords so the solid center of mass is on the anchor and rotates them around
//the periodic axis, through the center of mass of the system, so the axis atoms lie along the first confined axis.
//The coordinates are wrapped afterwards.
func (T *Tube) align(coords *v3.Matrix, box *chem.Box, s *system, a *anchor, w *workspace) error {
	com, err := s.solidCOM(coords, w)
	if err != nil {
		return errDecorate(err, "Tube.align")
	}
	com.Sub(com.Dense, a.com.Dense)
	coords.SubVec(coords, com)
	syscom, err := chem.CenterOfMass(coords, s.allMass)
	if err != nil {
		return errDecorate(err, "Tube.align")
	}
	coords.SubVec(coords, syscom)
	c0, c1 := T.per.confined[0], T.per.confined[1]
	var ref [2]float64
	for _, at := range a.axisAtoms {
		ref[0] += coords.At(at, c0)
		ref[1] += coords.At(at, c1)
	}
	n := float64(len(a.axisAtoms))
	ref[0] /= n
	ref[1] /= n
	angle, err := PlanarAngle(ref)
	if err != nil {
		return errDecorate(err, "Tube.align")
	}
	//(x,z,y) is a left-handed system, so the rotation around y goes the other way.
	if T.per.periodic[0] == 1 {
		angle = -angle
	}
	v := T.per.Vector()
	axis, _ := v3.NewMatrix(v[:])
	rot := chem.RotatorAroundAxis(axis, angle)
	coords.Mul(coords, rot.Dense.T())
	coords.AddVec(coords, syscom)
	box.Wrap(coords)
	return nil
}

//unroll returns the position along the tube and the arc length around it for the atom at,
//relative to the solid center of mass com. It also returns the distance of the atom
//to the tube axis.
func (T *Tube) unroll(coords *v3.Matrix, at int, com *v3.Matrix) (axial, arc, radial float64) {
	p, c0, c1 := T.per.periodic[0], T.per.confined[0], T.per.confined[1]
	v0 := coords.At(at, c0) - com.At(0, c0)
	v1 := coords.At(at, c1) - com.At(0, c1)
	axial = coords.At(at, p)
	arc = T.Circumference() * (math.Atan2(v1, v0) + math.Pi) / (2 * math.Pi)
	return axial, arc, math.Hypot(v0, v1)
}

func (T *Tube) process(coords *v3.Matrix, box *chem.Box, s *system, a *anchor, w *workspace, liquid, solid *Points) error {
	if err := T.align(coords, box, s, a, w); err != nil {
		return errDecorate(err, "Tube.process")
	}
	com, err := s.solidCOM(coords, w)
	if err != nil {
		return errDecorate(err, "Tube.process")
	}
	for _, at := range s.liquid {
		axial, arc, r := T.unroll(coords, at, com)
		if r >= s.cutoff {
			liquid.Append(axial, arc)
		}
	}
	for _, at := range s.solid {
		axial, arc, _ := T.unroll(coords, at, com)
		solid.Append(axial, arc)
	}
	liquid.frames++
	solid.frames++
	return nil
}

/*******Slab*****/

//Slab is a flat interface, periodic along 2 axes.
type Slab struct {
	per *Periodicity
	//If true, frames are aligned on the center of mass of the whole system, instead of that of the solid.
	SystemAnchor bool
}

//Periodicity returns the periodic and confined axes of the slab.
func (S *Slab) Periodicity() *Periodicity { return S.per }

func (S *Slab) liquidDefault() []string { return DefaultSlabLiquid }

func (S *Slab) check(s *system) error {
	if S.SystemAnchor && s.allMass == nil {
		return configError("Masses for all atoms are needed to anchor on the whole system", "Slab")
	}
	return nil
}

func (S *Slab) reference(coords *v3.Matrix, s *system, w *workspace) (*v3.Matrix, error) {
	if S.SystemAnchor {
		return chem.CenterOfMass(coords, s.allMass)
	}
	return s.solidCOM(coords, w)
}

//anchor takes the center of mass of the first frame, after wrapping it.
func (S *Slab) anchor(first *v3.Matrix, box *chem.Box, s *system) (*anchor, error) {
	c := first.Clone()
	box.Wrap(c)
	com, err := S.reference(c, s, newWorkspace(s))
	if err != nil {
		return nil, errDecorate(err, "Slab.anchor")
	}
	return &anchor{com: com}, nil
}

func (S *Slab) process(coords *v3.Matrix, box *chem.Box, s *system, a *anchor, w *workspace, liquid, solid *Points) error {
	box.Wrap(coords)
	com, err := S.reference(coords, s, w)
	if err != nil {
		return errDecorate(err, "Slab.process")
	}
	com.Sub(com.Dense, a.com.Dense)
	coords.SubVec(coords, com)
	box.Wrap(coords)
	com, err = s.solidCOM(coords, w)
	if err != nil {
		return errDecorate(err, "Slab.process")
	}
	p0, p1, c := S.per.periodic[0], S.per.periodic[1], S.per.confined[0]
	for _, at := range s.liquid {
		if math.Abs(coords.At(at, c)-com.At(0, c)) <= s.cutoff {
			liquid.Append(coords.At(at, p0), coords.At(at, p1))
		}
	}
	for _, at := range s.solid {
		solid.Append(coords.At(at, p0), coords.At(at, p1))
	}
	liquid.frames++
	solid.frames++
	return nil
}
