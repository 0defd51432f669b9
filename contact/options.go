/*
 * options.go, part of confwater.
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

import "runtime"

//Default element symbols for the solid and liquid groups.
var (
	DefaultSolid      = []string{"B", "N", "C", "Na", "Cl"}
	DefaultTubeLiquid = []string{"O", "H"}
	DefaultSlabLiquid = []string{"O"}
)

//Options contains the optional parameters for a distribution calculation.
type Options struct {
	cpus         int
	radius       float64
	unitCells    int
	solid        []string
	liquid       []string
	systemAnchor bool
}

//DefaultOptions returns an Options with the default options. The tube parameters
//have no sensible defaults and must be set for tube systems.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.solid = DefaultSolid
	return ret
}

//Cpus returns the current number of goroutines used to process frames in the
//concurrent calculation, and sets it, if a valid value is given.
func (r *Options) Cpus(cpus ...int) int {
	ret := r.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		r.cpus = cpus[0]
	}
	return ret
}

//TubeRadius returns the radius of the tube, used to unroll the angular
//coordinate, and sets it, if a value is given. Only used for tube systems.
func (r *Options) TubeRadius(radius ...float64) float64 {
	ret := r.radius
	if len(radius) > 0 {
		r.radius = radius[0]
	}
	return ret
}

//TubeUnitCells returns the length of the tube, in unit cells, and sets it, if a value is given.
//Twice that number of solid atoms is used to define the reference orientation
//of the tube. Only used for tube systems.
func (r *Options) TubeUnitCells(cells ...int) int {
	ret := r.unitCells
	if len(cells) > 0 {
		r.unitCells = cells[0]
	}
	return ret
}

//SolidSymbols returns the element symbols that define the solid group, and sets them,
//if a non-empty slice is given.
func (r *Options) SolidSymbols(symbols ...[]string) []string {
	ret := r.solid
	if len(symbols) > 0 && len(symbols[0]) > 0 {
		r.solid = append([]string(nil), symbols[0]...)
	}
	return ret
}

//LiquidSymbols returns the element symbols that define the liquid group, and sets them,
//if a non-empty slice is given. A nil return means that the default for the geometry is
//used (DefaultTubeLiquid or DefaultSlabLiquid).
func (r *Options) LiquidSymbols(symbols ...[]string) []string {
	ret := r.liquid
	if len(symbols) > 0 && len(symbols[0]) > 0 {
		r.liquid = append([]string(nil), symbols[0]...)
	}
	return ret
}

//SystemAnchor returns whether slab frames are aligned on the center of mass of the whole
//system instead of that of the solid, and sets the value, if given. Only used for slab systems.
func (r *Options) SystemAnchor(anchor ...bool) bool {
	ret := r.systemAnchor
	if len(anchor) > 0 {
		r.systemAnchor = anchor[0]
	}
	return ret
}
