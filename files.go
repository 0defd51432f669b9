/*
 * files.go, part of confwater.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/confwater/v3"
)

//PDBFileRead reads the PDB file pdbname and returns a Molecule with all the models
//in it as frames, and the box from the CRYST1 record(s), if present.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, PDBError{err.Error(), pdbname, 0, []string{"PDBFileRead"}}
	}
	defer pdbfile.Close()
	mol, err := PDBRead(pdbfile, pdbname)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead")
	}
	return mol, nil
}

//PDBRead reads a PDB from r. name is only used to report errors. Only ATOM, HETATM, MODEL, ENDMDL and CRYST1
//records are considered. The atomic information is read from the first model only, the
//following models only contribute coordinates. Masses are assigned from the element
//symbols, which are read from columns 77-78 or, if absent, guessed from the atom name.
func PDBRead(r io.Reader, name string) (*Molecule, error) {
	pdb := bufio.NewReader(r)
	top := NewTopology(nil)
	coords := make([][]float64, 1)
	boxes := make([]*Box, 1)
	var box *Box //the last box read, used for models without their own CRYST1.
	firstModel := true
	inModel := false
	contlines := 0
	for {
		line, err := pdb.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, PDBError{err.Error(), name, contlines, []string{"PDBRead"}}
		}
		if len(line) == 0 && err == io.EOF {
			break
		}
		contlines++
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "CRYST1"):
			b, err2 := readCryst1(line)
			if err2 != nil {
				return nil, PDBError{err2.Error(), name, contlines, []string{"PDBRead"}}
			}
			box = b
			boxes[len(boxes)-1] = b
		case strings.HasPrefix(line, "MODEL"):
			if inModel || len(coords[len(coords)-1]) > 0 {
				firstModel = false
				coords = append(coords, make([]float64, 0, len(coords[0])))
				boxes = append(boxes, box)
			}
			inModel = true
		case strings.HasPrefix(line, "ENDMDL"):
			inModel = false
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			var c []float64
			var err2 error
			if firstModel {
				var at *Atom
				at, c, err2 = readFullPDBLine(line)
				if err2 == nil {
					top.AppendAtom(at)
				}
			} else {
				c, err2 = readOnlyCoordsPDBLine(line)
			}
			if err2 != nil {
				return nil, PDBError{err2.Error(), name, contlines, []string{"PDBRead"}}
			}
			coords[len(coords)-1] = append(coords[len(coords)-1], c...)
		}
		if err == io.EOF {
			break
		}
	}
	if len(coords[len(coords)-1]) == 0 && len(coords) > 1 { //a trailing empty MODEL
		coords = coords[:len(coords)-1]
		boxes = boxes[:len(boxes)-1]
	}
	if top.Len() == 0 {
		return nil, PDBError{"No atoms found", name, contlines, []string{"PDBRead"}}
	}
	frames := make([]*v3.Matrix, 0, len(coords))
	for i, c := range coords {
		if len(c) != top.Len()*3 {
			return nil, PDBError{"Model " + strconv.Itoa(i+1) + " has a different number of atoms than the first one", name, contlines, []string{"PDBRead"}}
		}
		m, _ := v3.NewMatrix(c)
		frames = append(frames, m)
	}
	if err := top.AssignMasses(); err != nil {
		return nil, PDBError{err.Error(), name, contlines, []string{"PDBRead"}}
	}
	if box == nil {
		boxes = nil
	}
	return NewMolecule(frames, top, boxes)
}

//readCryst1 parses a CRYST1 record
func readCryst1(line string) (*Box, error) {
	if len(line) < 54 {
		line = line + strings.Repeat(" ", 54-len(line))
	}
	fields := []string{line[6:15], line[15:24], line[24:33], line[33:40], line[40:47], line[47:54]}
	vals := make([]float64, 6)
	var err error
	for i, f := range fields {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
	}
	return NewBox(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
}

//readFullPDBLine parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates, which are returned separately.
func readFullPDBLine(line string) (*Atom, []float64, error) {
	if len(line) < 54 {
		return nil, nil, CError{"ATOM/HETATM line too short", []string{"readFullPDBLine"}}
	}
	err := make([]error, 4) //accumulate errors to check at the end of the read line.
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.MolName = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords, cerr := readOnlyCoordsPDBLine(line)
	err[2] = cerr
	if len(line) >= 60 {
		atom.Occupancy, err[3] = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	}
	//we try to read the symbol only if it is there.
	if len(line) >= 78 {
		atom.Symbol = strings.TrimSpace(line[76:78])
		if len(atom.Symbol) == 2 {
			atom.Symbol = atom.Symbol[0:1] + strings.ToLower(atom.Symbol[1:])
		}
	}
	if atom.Symbol == "" {
		atom.Symbol = symbolFromName(atom.Name)
	}
	for _, e := range err {
		if e != nil {
			return nil, nil, e
		}
	}
	return atom, coords, nil
}

//readOnlyCoordsPDBLine parses a PDB line if only the coordinates are to be read.
func readOnlyCoordsPDBLine(line string) ([]float64, error) {
	if len(line) < 54 {
		return nil, CError{"ATOM/HETATM line too short", []string{"readOnlyCoordsPDBLine"}}
	}
	coords := make([]float64, 3)
	var err error
	for i := 0; i < 3; i++ {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(line[30+8*i:38+8*i]), 64)
		if err != nil {
			return nil, err
		}
	}
	return coords, nil
}
