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

//Package contact obtains the spatial distribution of the atoms of a liquid in contact with a solid
//surface, from a molecular dynamics trajectory. Two kinds of surface are supported: slabs, periodic
//in 2 directions, and tubes, periodic along their axis.
//
//Each frame is aligned to the first one, translating it so the solid's center of mass doesn't move,
//and, for tubes, rotating it around the tube axis so the tube keeps its orientation. The positions
//of the liquid atoms in the contact layer, and those of all solid atoms, are then projected
//on 2D coordinates: the positions along the periodic axes for slabs, or along the tube axis and around it
//(the tube "unrolled") for tubes.
package contact
