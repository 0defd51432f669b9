/*
 * distribution.go, part of confwater.
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

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

//setup contains everything needed to process the frames of a trajectory.
type setup struct {
	geo Geometry
	sys *system
	rd  *reader
	anc *anchor
}

//prepare checks all the parameters, builds the system and the geometry and reads the first frame
//of the trajectory to obtain the anchor. Configuration errors are found before reading the trajectory.
func prepare(traj chem.Traj, top Topology, cutoff float64, periodic []int, r frameRange, o *Options) (*setup, error) {
	if traj == nil {
		return nil, configError("Nil trajectory", "prepare")
	}
	g, err := NewGeometry(periodic, o)
	if err != nil {
		return nil, errDecorate(err, "prepare")
	}
	if err := r.check(); err != nil {
		return nil, errDecorate(err, "prepare")
	}
	s, err := newSystem(top, g, cutoff, o)
	if err != nil {
		return nil, errDecorate(err, "prepare")
	}
	if traj.Len() != s.natoms {
		return nil, configError(fmt.Sprintf("The trajectory has %d atoms, the topology %d", traj.Len(), s.natoms), "prepare")
	}
	if !traj.Readable() {
		return nil, configError("The trajectory is not readable", "prepare")
	}
	rd, first, box, err := newReader(traj, r, s.static)
	if err != nil {
		return nil, errDecorate(err, "prepare")
	}
	a, err := g.anchor(first, box, s)
	if err != nil {
		return nil, errDecorate(err, "prepare")
	}
	return &setup{geo: g, sys: s, rd: rd, anc: a}, nil
}

//maxPrealloc is the largest number of frames for which room is reserved in advance.
//end can be far beyond the length of the trajectory, so it is only a hint.
const maxPrealloc = 64

//estimate returns a guess of the number of frames to be processed, for preallocation.
func (r frameRange) estimate() int {
	if r.end < 0 {
		return 1
	}
	n := (r.end-r.start-1)/r.stride + 1
	if n > maxPrealloc {
		n = maxPrealloc
	}
	return n
}

//SpatialDistribution aligns the frames of traj from start to end (not included, a negative end means
//until the last frame), taking every stride frames, and returns the 2D coordinates of the liquid atoms in
//the contact layer and those of all the solid atoms, in frame order, then atom order.
//
//With 2 periodic axes (a slab) the coordinates are the positions along the periodic axes, and the liquid atoms
//within cutoff of the solid's center of mass along the confined axis are in the contact layer.
//With 1 periodic axis (a tube, whose radius and length must be given in the options), the coordinates are
//the position along the tube and the arc length around it, and the liquid atoms at least cutoff away from
//the tube axis are in the contact layer.
//Invalid parameters are reported with an Error for which Config() is true, before the trajectory is read.
func SpatialDistribution(traj chem.Traj, top Topology, cutoff float64, periodic []int, start, end, stride int, options ...*Options) (liquid, solid *Points, err error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	r := frameRange{start: start, end: end, stride: stride}
	S, err := prepare(traj, top, cutoff, periodic, r, o)
	if err != nil {
		return nil, nil, errDecorate(err, "SpatialDistribution")
	}
	nframes := r.estimate()
	liquid = NewPoints(nframes * len(S.sys.liquid))
	solid = NewPoints(nframes * len(S.sys.solid))
	coords := v3.Zeros(S.sys.natoms)
	w := newWorkspace(S.sys)
	for {
		i, box, err := S.rd.read(coords)
		if err == errNoMoreFrames {
			break
		} else if err != nil {
			return nil, nil, errDecorate(err, "SpatialDistribution")
		}
		if err := S.geo.process(coords, box, S.sys, S.anc, w, liquid, solid); err != nil {
			return nil, nil, errDecorate(err, fmt.Sprintf("SpatialDistribution: frame %d", i))
		}
	}
	return liquid, solid, nil
}
