/*
 * system.go, part of confwater.
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

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
	"gonum.org/v1/gonum/mat"
)

//Topology is the atomic information of the system, plus its periodic box, which can be nil
//if the trajectory provides the box for each frame.
type Topology interface {
	chem.Atomer
	Box() *chem.Box
}

//system contains the atom groups and everything else about the system that doesn't change
//between frames. It is read-only once built.
type system struct {
	natoms    int
	solid     []int
	liquid    []int
	solidMass *mat.Dense
	allMass   *mat.Dense //nil if some atom has no mass
	cutoff    float64
	static    *chem.Box
}

//atomMass returns the mass of the atom, or the standard mass for its element if it has none.
func atomMass(at *chem.Atom) (float64, bool) {
	if at.Mass > 0 {
		return at.Mass, true
	}
	return chem.SymbolMass(at.Symbol)
}

//newSystem selects the solid and liquid groups in top and collects their masses.
func newSystem(top Topology, g Geometry, cutoff float64, o *Options) (*system, error) {
	if top == nil || top.Len() == 0 {
		return nil, configError("Empty topology", "newSystem")
	}
	if math.IsNaN(cutoff) || cutoff < 0 {
		return nil, configError(fmt.Sprintf("Invalid contact layer cutoff %g", cutoff), "newSystem")
	}
	s := &system{natoms: top.Len(), cutoff: cutoff, static: top.Box()}
	s.solid = chem.SymbolSelect(top, o.SolidSymbols())
	if len(s.solid) == 0 {
		return nil, configError(fmt.Sprintf("No solid atoms with symbols %v", o.SolidSymbols()), "newSystem")
	}
	liquid := o.LiquidSymbols()
	if liquid == nil {
		liquid = g.liquidDefault()
	}
	s.liquid = chem.SymbolSelect(top, liquid)
	solid := make(map[int]bool, len(s.solid))
	for _, v := range s.solid {
		solid[v] = true
	}
	for _, v := range s.liquid {
		if solid[v] {
			return nil, configError(fmt.Sprintf("Atom %d belongs to both the solid and the liquid groups", v), "newSystem")
		}
	}
	sm := make([]float64, len(s.solid))
	for i, v := range s.solid {
		m, ok := atomMass(top.Atom(v))
		if !ok {
			return nil, configError(fmt.Sprintf("No mass for solid atom %d (%s)", v, top.Atom(v).Symbol), "newSystem")
		}
		sm[i] = m
	}
	s.solidMass = mat.NewDense(len(sm), 1, sm)
	all := make([]float64, s.natoms)
	for i := range all {
		m, ok := atomMass(top.Atom(i))
		if !ok {
			all = nil
			break
		}
		all[i] = m
	}
	if all != nil {
		s.allMass = mat.NewDense(len(all), 1, all)
	}
	if err := g.check(s); err != nil {
		return nil, errDecorate(err, "newSystem")
	}
	return s, nil
}

//solidCOM returns the center of mass of the solid group in coords.
func (s *system) solidCOM(coords *v3.Matrix, w *workspace) (*v3.Matrix, error) {
	w.solid.SomeVecs(coords, s.solid)
	return chem.CenterOfMass(w.solid, s.solidMass)
}
