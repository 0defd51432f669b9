/*
 * doc.go, part of confwater.
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

/*Package chem provides the atom, topology and molecule structures used by confwater, together
with the pieces of geometry the analyses are built on: centers of mass, rotation operators,
and the periodic simulation box with its wrapping operation. It also reads PDB files (including
the CRYST1 cell) and defines the interfaces trajectory readers implement.

Coordinates are kept apart from the atoms, in v3.Matrix objects, so the same topology can
be used with any number of frames. A Molecule bundles a topology with a set of frames and
can itself be read as a trajectory.
*/
package chem
