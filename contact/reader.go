/*
 * reader.go, part of confwater.
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
	"errors"
	"fmt"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

//errNoMoreFrames signals the end of the requested frame range.
var errNoMoreFrames = errors.New("contact: no more frames in range")

//frameRange is the set of frames to process: from start, every stride frames, until end (not included).
//A negative end means until the end of the trajectory.
type frameRange struct {
	start, end, stride int
}

func (r frameRange) check() error {
	if r.start < 0 {
		return configError(fmt.Sprintf("Invalid first frame %d", r.start), "frameRange")
	}
	if r.stride < 1 {
		return configError(fmt.Sprintf("Invalid frame stride %d", r.stride), "frameRange")
	}
	if r.end >= 0 && r.end <= r.start {
		return configError(fmt.Sprintf("Last frame %d not after first frame %d", r.end, r.start), "frameRange")
	}
	return nil
}

func (r frameRange) wanted(i int) bool {
	return i >= r.start && (i-r.start)%r.stride == 0
}

//reader reads the frames in a range from a trajectory. The first frame of the
//trajectory is always read, as it is needed for the anchor.
type reader struct {
	traj    chem.Traj
	r       frameRange
	static  *chem.Box
	next    int //index of the next frame in the trajectory
	first   *v3.Matrix
	fbox    *chem.Box
	boxbuf  []float64
	lastbox *chem.Box
	lastvec [9]float64
}

//newReader reads the first frame of traj and returns a reader for the range r, the first frame and its box.
//The returned frame belongs to the reader, and must not be modified.
func newReader(traj chem.Traj, r frameRange, static *chem.Box) (*reader, *v3.Matrix, *chem.Box, error) {
	R := &reader{traj: traj, r: r, static: static, boxbuf: make([]float64, 9)}
	R.first = v3.Zeros(traj.Len())
	if err := traj.Next(R.first, R.boxbuf); err != nil {
		if _, ok := err.(chem.LastFrameError); ok {
			return nil, nil, nil, Error{message: "The trajectory has no frames", kind: errTraj, deco: []string{"newReader"}}
		}
		return nil, nil, nil, errDecorate(err, "newReader: reading frame 0")
	}
	var err error
	R.fbox, err = R.box(0)
	if err != nil {
		return nil, nil, nil, err
	}
	return R, R.first, R.fbox, nil
}

//box returns the box for the frame just read: the one in the trajectory, or, if
//absent, the static one.
func (R *reader) box(frame int) (*chem.Box, error) {
	empty := true
	for _, v := range R.boxbuf {
		if v != 0 {
			empty = false
			break
		}
	}
	if empty {
		if R.static == nil {
			return nil, configError(fmt.Sprintf("No box available for frame %d", frame), "reader")
		}
		return R.static, nil
	}
	if R.lastbox != nil && [9]float64(R.boxbuf) == R.lastvec {
		return R.lastbox, nil
	}
	b, err := chem.BoxFromVectors(R.boxbuf)
	if err != nil {
		return nil, errDecorate(err, fmt.Sprintf("reader: box of frame %d", frame))
	}
	R.lastbox = b
	copy(R.lastvec[:], R.boxbuf)
	return b, nil
}

//read puts the next frame in the range in coords and returns its index in the trajectory and
//its box. At the end of the range it returns errNoMoreFrames.
func (R *reader) read(coords *v3.Matrix) (int, *chem.Box, error) {
	for {
		i := R.next
		if R.r.end >= 0 && i >= R.r.end {
			return -1, nil, errNoMoreFrames
		}
		want := R.r.wanted(i)
		if i == 0 {
			//the first frame was read already
			R.next++
			if want {
				coords.Copy(R.first)
				return 0, R.fbox, nil
			}
			continue
		}
		var err error
		if want {
			err = R.traj.Next(coords, R.boxbuf)
		} else {
			err = R.traj.Next(nil)
		}
		if err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				if i <= R.r.start {
					Logf("contact: frames from %d requested, but the trajectory has only %d frames. No frame was processed", R.r.start, i)
				} else if R.r.end >= 0 {
					Logf("contact: frames up to %d requested, but the trajectory has only %d frames. The range was clamped", R.r.end, i)
				}
				return -1, nil, errNoMoreFrames
			}
			return -1, nil, errDecorate(err, fmt.Sprintf("reader: reading frame %d", i))
		}
		R.next++
		if !want {
			continue
		}
		box, err := R.box(i)
		if err != nil {
			return -1, nil, err
		}
		return i, box, nil
	}
}
