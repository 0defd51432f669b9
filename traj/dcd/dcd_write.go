/*
 * dcd_write.go, part of confwater.
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

package dcd

import (
	"bytes"
	"encoding/binary"
	"os"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

//DCDWObj is a Charmm/NAMD binary trajectory file
//opened for writing. Compressed output is not supported, as the number
//of frames in the header needs to be updated after each frame.
type DCDWObj struct {
	natoms    int32
	writable  bool //Is it ready to be written on
	filename  string
	unitcell  bool
	frames    int32
	dcd       *os.File //The DCD file
	dcdFields [][]float32
	buf       *bytes.Buffer
	endian    binary.ByteOrder
}

//NewWriter creates a DCD trajectory for writing natoms atoms per frame. If unitcell is given
//and true, each frame will carry the simulation cell.
func NewWriter(filename string, natoms int, unitcell ...bool) (*DCDWObj, error) {
	traj := new(DCDWObj)
	traj.natoms = int32(natoms)
	traj.filename = filename
	traj.unitcell = len(unitcell) > 0 && unitcell[0]
	traj.endian = binary.LittleEndian
	traj.buf = new(bytes.Buffer)
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	traj.dcdFields = make([][]float32, 3)
	for i := range traj.dcdFields {
		traj.dcdFields[i] = make([]float32, natoms)
	}
	return traj, nil
}

//Close closes the trajectory file.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if err := D.dcd.Close(); err != nil {
		return Error{err.Error(), D.filename, []string{"Close"}, true}
	}
	return nil
}

//Len returns the number of atoms per frame.
func (D *DCDWObj) Len() int {
	return int(D.natoms)
}

func (D *DCDWObj) initWrite(name string) error {
	if D.natoms <= 0 {
		return Error{"Trajectory not initialized correctly, the number of atoms must be positive", D.filename, []string{"initWrite"}, true}
	}
	B := D.buf
	B.Reset()
	w := func(data interface{}) {
		binary.Write(B, D.endian, data) //writes to a bytes.Buffer don't fail.
	}
	w(int32(84))
	//For some reason, we have to write this magic number.
	B.WriteString("CORD")
	icntrl := make([]int32, 20)
	icntrl[2] = 1 //step interval (nsavc)
	if D.unitcell {
		icntrl[10] = 1
	}
	icntrl[19] = 24 //charmm version
	w(icntrl[:9])
	w(float32(1)) //delta time, in the place of icntrl[9]
	w(icntrl[10:])
	w(int32(84))
	//A one-line title.
	title := make([]byte, mAXTITLE)
	copy(title, "Written by confwater")
	for j := 20; j < len(title); j++ {
		title[j] = ' '
	}
	w(int32(4 + mAXTITLE))
	w(int32(1))
	B.Write(title)
	w(int32(4 + mAXTITLE))
	//the number of atoms in each snapshot
	w(int32(4))
	w(D.natoms)
	w(int32(4))
	var err error
	D.dcd, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Create", "initWrite"}, true}
	}
	if _, err := D.dcd.Write(B.Bytes()); err != nil {
		D.dcd.Close()
		return Error{err.Error(), D.filename, []string{"Write", "initWrite"}, true}
	}
	D.writable = true
	return nil
}

//WNext writes the next frame to the trajectory. If the trajectory carries the unit cell, the
//box is taken from box[0], which must contain the 9 components of the box vectors. If no box is given,
//or it contains only zeros, an empty cell is written. Otherwise box is ignored.
func (D *DCDWObj) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{"got nil coordinates", D.filename, []string{"WNext"}, true}
	}
	if int32(towrite.NVecs()) != D.natoms {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	var cell [6]float64
	if D.unitcell && len(box) > 0 && len(box[0]) >= 9 && !zeros(box[0][:9]) {
		b, err := chem.BoxFromVectors(box[0])
		if err != nil {
			return Error{"Invalid box: " + err.Error(), D.filename, []string{"WNext"}, true}
		}
		//a, gamma, b, beta, alpha, c
		cell = [6]float64{b.Lengths[0], b.Angles[2], b.Lengths[1], b.Angles[1], b.Angles[0], b.Lengths[2]}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	B := D.buf
	B.Reset()
	if D.unitcell {
		binary.Write(B, D.endian, int32(48))
		binary.Write(B, D.endian, cell[:])
		binary.Write(B, D.endian, int32(48))
	}
	blocksize := 4 * D.natoms
	for _, block := range D.dcdFields {
		binary.Write(B, D.endian, blocksize)
		binary.Write(B, D.endian, block)
		binary.Write(B, D.endian, blocksize)
	}
	if _, err := D.dcd.Write(B.Bytes()); err != nil {
		return Error{err.Error(), D.filename, []string{"Write", "WNext"}, true}
	}
	D.frames++
	return D.updateFrames()
}

//DCD requires the number of frames at the begining.
func (D *DCDWObj) updateFrames() error {
	nframes := make([]byte, 4)
	D.endian.PutUint32(nframes, uint32(D.frames))
	//after the first marker and the magic number.
	if _, err := D.dcd.WriteAt(nframes, 8); err != nil {
		return Error{err.Error(), D.filename, []string{"WriteAt", "updateFrames"}, true}
	}
	return nil
}

func zeros(v []float64) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
