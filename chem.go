/*
 * chem.go, part of confwater.
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

	v3 "github.com/rmera/confwater/v3"
)

//Atom contains the information of an atom, except for the coordinates, which will be in a matrix.
type Atom struct {
	Name      string
	ID        int
	MolName   string
	MolID     int
	Chain     string
	Mass      float64
	Occupancy float64
	Symbol    string
	Het       bool // is hetatm in the pdb file?
}

//Copy copies the data from the atom A into the receiver.
func (N *Atom) Copy(A *Atom) {
	if A == nil || N == nil {
		panic("Attempted to copy from or to a nil atom")
	}
	*N = *A
}

/*****Topology type***/

//Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates)
type Topology struct {
	Atoms []*Atom
}

//NewTopology returns a topology with the given atoms. ats can be nil.
func NewTopology(ats []*Atom) *Topology {
	top := new(Topology)
	if ats == nil {
		ats = make([]*Atom, 0, 10)
	}
	top.Atoms = ats
	return top
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic(fmt.Sprintf("Topology: Requested Atom %d out of bounds", i))
	}
	return T.Atoms[i]
}

//AppendAtom appends an atom at the end of the reference
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

//SomeAtoms puts in the receiver the atoms of ref with the
//indexes in atomlist. The atoms are shared, not copied.
func (T *Topology) SomeAtoms(ref Atomer, atomlist []int) {
	T.Atoms = T.Atoms[:0]
	for _, j := range atomlist {
		T.Atoms = append(T.Atoms, ref.Atom(j))
	}
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//Masses returns a slice with the masses of the atoms in the topology, and an error if
//some of them have not been assigned.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i, at := range T.Atoms {
		if at.Mass <= 0 {
			return nil, CError{fmt.Sprintf("Mass for atom %d (%s %s) not available", i, at.Name, at.Symbol), []string{"Topology.Masses"}}
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

//AssignMasses assigns masses to all atoms from their symbols. Atoms that already have a mass
//keep it. It returns an error if the symbol of an atom without mass is not known.
func (T *Topology) AssignMasses() error {
	for i, at := range T.Atoms {
		if at.Mass > 0 {
			continue
		}
		m, ok := symbolMass[at.Symbol]
		if !ok {
			return CError{fmt.Sprintf("No mass known for symbol '%s' (atom %d, %s)", at.Symbol, i, at.Name), []string{"AssignMasses"}}
		}
		at.Mass = m
	}
	return nil
}

/**Type Molecule**/

//Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
//the coordinates and, for NPT simulations, the box, are stored separately from the atomic info.
//A Molecule implements Traj, so its frames can be read as a trajectory.
type Molecule struct {
	*Topology
	Coords  []*v3.Matrix
	Boxes   []*Box //either nil, or one box per frame. Elements can be nil.
	current int
}

//NewMolecule makes a molecule with the given coordinates, atoms and boxes, and returns it.
//boxes can be nil, or contain a single box which will be used for all frames. It returns
//error if the number of atoms in the topology and the number of coordinates don't match.
func NewMolecule(coords []*v3.Matrix, top *Topology, boxes []*Box) (*Molecule, error) {
	if top == nil {
		return nil, CError{"Supplied a nil Topology", []string{"NewMolecule"}}
	}
	if len(coords) == 0 {
		return nil, CError{"Supplied an empty coordinate slice", []string{"NewMolecule"}}
	}
	for i, c := range coords {
		if c == nil || c.NVecs() != top.Len() {
			return nil, CError{fmt.Sprintf("Inconsistent coordinates/atoms in frame %d", i), []string{"NewMolecule"}}
		}
	}
	if len(boxes) == 1 && len(coords) > 1 {
		b := boxes[0]
		boxes = make([]*Box, len(coords))
		for i := range boxes {
			boxes[i] = b
		}
	}
	if boxes != nil && len(boxes) != len(coords) {
		return nil, CError{fmt.Sprintf("%d boxes for %d frames", len(boxes), len(coords)), []string{"NewMolecule"}}
	}
	return &Molecule{Topology: top, Coords: coords, Boxes: boxes}, nil
}

//Box returns the box of the first frame, or nil, if the molecule has no box.
//It allows a Molecule to be used as the topology of a periodic system.
func (M *Molecule) Box() *Box {
	if len(M.Boxes) == 0 {
		return nil
	}
	return M.Boxes[0]
}

//AddFrame appends a new frame, with its box (which can be nil) to the molecule.
//It checks that the number of coordinates matches the number of atoms.
func (M *Molecule) AddFrame(newframe *v3.Matrix, box *Box) {
	if newframe == nil {
		panic("Attempted to add nil frame")
	}
	if M.Len() != newframe.NVecs() {
		panic(fmt.Sprintf("Wrong number of coordinates (%d)", newframe.NVecs()))
	}
	if M.Boxes == nil && box != nil {
		M.Boxes = make([]*Box, len(M.Coords), len(M.Coords)+1)
	}
	M.Coords = append(M.Coords, newframe)
	if M.Boxes != nil {
		M.Boxes = append(M.Boxes, box)
	}
}

//LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

/******************************************
//The following implement the Traj interface
**********************************************/

//Readable returns true if there are frames left to read.
func (M *Molecule) Readable() bool {
	return M != nil && M.current < len(M.Coords)
}

//Next copies the next frame into output, or just skips it, if output is nil.
//If box is given, the box vectors are copied into box[0], which must have
//at least 9 elements, or zeros, if the frame has no box. When the frames are over
//it returns an error that implements LastFrameError.
func (M *Molecule) Next(output *v3.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		return newlastFrameError("", "Molecule.Next")
	}
	defer func() { M.current++ }()
	if output != nil {
		output.Copy(M.Coords[M.current])
	}
	if len(box) == 0 || len(box[0]) < 9 {
		return nil
	}
	if M.Boxes == nil || M.Boxes[M.current] == nil {
		for i := 0; i < 9; i++ {
			box[0][i] = 0
		}
		return nil
	}
	v := M.Boxes[M.current].Vectors()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			box[0][3*i+j] = v.At(i, j)
		}
	}
	return nil
}

//Rewind sets the trajectory back to the first frame.
func (M *Molecule) Rewind() {
	M.current = 0
}

/**End Traj interface implementation***********/
