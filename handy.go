/*
 * handy.go, part of confwater.
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

import "math"

//Deg2Rad converts degrees to radians
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180.0
}

//Rad2Deg converts radians to degrees
func Rad2Deg(f float64) float64 {
	return f * 180.0 / math.Pi
}

//SymbolSelect returns the indexes of all the atoms in mol whose element symbol
//is one of symbols. Atoms without symbol are matched by name instead.
func SymbolSelect(mol Atomer, symbols []string) []int {
	atlist := make([]int, 0, mol.Len()/2)
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		s := at.Symbol
		if s == "" {
			s = at.Name
		}
		if isInString(symbols, s) {
			atlist = append(atlist, i)
		}
	}
	return atlist
}

//Corrupted is a convenience function to check that a reference and a trajectory have the same number of atoms
func Corrupted(R Atomer, X Traj) error {
	if X.Len() != R.Len() {
		return CError{"Mismatched number of atoms/coordinates", []string{"Corrupted"}}
	}
	return nil
}

//Some internal convenience functions.

//isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
