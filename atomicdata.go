/*
 * atomicdata.go, part of confwater.
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

//A map for assigning mass to elements.
//Note that just common "bio-elements", plus the elements
//of usual interface materials (B, N, C, Si) and salts, are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"B":  10.81,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
	"Li": 6.94,
	"Mo": 95.95,
	"Au": 196.97,
}

//SymbolMass returns the mass for the element with the given symbol,
//and whether the symbol is known.
func SymbolMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

//symbolFromName tries to guess the element symbol from a PDB atom name.
//Only the common cases are considered.
func symbolFromName(name string) string {
	if name == "" {
		return ""
	}
	two := map[string]string{"CU": "Cu", "CO": "Co", "CL": "Cl", "NA": "Na", "SE": "Se", "ZN": "Zn", "BR": "Br", "SI": "Si", "LI": "Li", "MO": "Mo", "AU": "Au"}
	if s, ok := two[name]; ok {
		return s
	}
	if len(name) == 4 { //I think only Hs can have 4-char names in amber.
		return "H"
	}
	switch name[0] {
	case 'H', 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'K', 'I':
		return name[0:1]
	}
	return ""
}
