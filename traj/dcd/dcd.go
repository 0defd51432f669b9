/*
 * dcd.go, part of confwater.
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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

const mAXTITLE int32 = 80

//DCDObj reads Charmm/NAMD binary trajectories. It implements chem.Traj.
type DCDObj struct {
	natoms    int32
	readable  bool //Is it ready to be read?
	filename  string
	unitcell  bool //does each frame carry the cell?
	fourdim   bool
	fhandle   *os.File
	dec       io.ReadCloser //the decompressor, or fhandle for plain files
	dcd       *bufio.Reader
	dcdFields [][]float32
	cell      [6]float64
	endian    binary.ByteOrder
}

//New opens a DCD trajectory for reading. The file can be compressed, see prepSource.
//It supports big and little endianness, charmm or namd>=2.1, and no
//fixed atoms.
func New(filename string) (*DCDObj, error) {
	traj := new(DCDObj)
	if err := traj.initRead(filename); err != nil {
		traj.close()
		return nil, errDecorate(err, "New")
	}
	traj.dcdFields = make([][]float32, 3)
	for i := range traj.dcdFields {
		traj.dcdFields[i] = make([]float32, int(traj.natoms))
	}
	return traj, nil
}

//Readable returns true if the object is ready to be read from
//false otherwise. It doesn't guarantee that there is something
//to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//Len returns the number of atoms per frame.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

//UnitCell returns true if the frames of the trajectory carry the simulation cell.
func (D *DCDObj) UnitCell() bool {
	return D.unitcell
}

func (D *DCDObj) initRead(name string) error {
	var err error
	D.dec, err = D.prepSource(name, "")
	if err != nil {
		return err
	}
	D.dcd = bufio.NewReader(D.dec)
	wrap := func(err error) error {
		return Error{fmt.Sprintf("%s: %s", WrongFormat, err.Error()), D.filename, []string{"initRead"}, true}
	}
	//The first record is 84 bytes long. If its size can't be read as 84, the file is big endian.
	first := make([]byte, 4)
	if _, err := io.ReadFull(D.dcd, first); err != nil {
		return wrap(err)
	}
	D.endian = binary.LittleEndian
	if int32(binary.LittleEndian.Uint32(first)) != 84 {
		D.endian = binary.BigEndian
		if int32(binary.BigEndian.Uint32(first)) != 84 {
			return Error{WrongFormat + ": wrong header size", D.filename, []string{"initRead"}, true}
		}
	}
	//Then the magic number "CORD", and 20 ints
	buf := make([]byte, 84)
	if err := D.readRaw(buf, 84); err != nil {
		return wrap(err)
	}
	if string(buf[:4]) != "CORD" {
		return Error{WrongFormat + ": wrong magic number", D.filename, []string{"initRead"}, true}
	}
	icntrl := make([]int32, 20)
	if err := binary.Read(bytes.NewReader(buf[4:]), D.endian, icntrl); err != nil {
		return wrap(err)
	}
	//X-plor sets the last int to zero, charmm sets it to its version number.
	if icntrl[19] == 0 {
		return Error{"X-plor DCD not supported", D.filename, []string{"initRead"}, true}
	}
	if icntrl[8] != 0 {
		return Error{"Fixed atoms not supported", D.filename, []string{"initRead"}, true}
	}
	D.unitcell = icntrl[10] != 0
	D.fourdim = icntrl[11] == 1
	//The title record: the number of 80-character lines, then the lines.
	size, err := D.readMarker()
	if err != nil {
		return wrap(err)
	}
	if size < 4 || size > 1000*mAXTITLE {
		return Error{WrongFormat + ": wrong title record", D.filename, []string{"initRead"}, true}
	}
	title := make([]byte, size)
	if err := D.readRaw(title, size); err != nil {
		return wrap(err)
	}
	if ntitle := int32(D.endian.Uint32(title)); size != 4+ntitle*mAXTITLE {
		return Error{WrongFormat + ": wrong title record", D.filename, []string{"initRead"}, true}
	}
	//and the number of atoms
	natoms := make([]byte, 4)
	if err := D.readRecord(natoms, 4); err != nil {
		return wrap(err)
	}
	D.natoms = int32(D.endian.Uint32(natoms))
	if D.natoms <= 0 {
		return Error{fmt.Sprintf("%s: %d atoms", WrongFormat, D.natoms), D.filename, []string{"initRead"}, true}
	}
	D.readable = true
	return nil
}

//readMarker reads the size of a record.
func (D *DCDObj) readMarker() (int32, error) {
	var size int32
	err := binary.Read(D.dcd, D.endian, &size)
	return size, err
}

//readRaw reads the body of a record of the given size into block, and checks the marker
//that closes the record.
func (D *DCDObj) readRaw(block []byte, size int32) error {
	if _, err := io.ReadFull(D.dcd, block); err != nil {
		return err
	}
	check, err := D.readMarker()
	if err != nil {
		return err
	}
	if check != size {
		return fmt.Errorf("record size %d doesn't match its closing marker %d", size, check)
	}
	return nil
}

//readRecord reads a whole record, which must have the given size.
func (D *DCDObj) readRecord(block []byte, size int32) error {
	s, err := D.readMarker()
	if err != nil {
		return err
	}
	if s != size {
		return fmt.Errorf("record of size %d found, %d expected", s, size)
	}
	return D.readRaw(block, size)
}

//readFloat32Block reads a record with natoms float32 into block.
func (D *DCDObj) readFloat32Block(block []float32) error {
	size, err := D.readMarker()
	if err != nil {
		return err
	}
	if size != 4*D.natoms {
		return fmt.Errorf("coordinate block of %d bytes for %d atoms", size, D.natoms)
	}
	if err := binary.Read(D.dcd, D.endian, block); err != nil {
		return eof2Unexpected(err)
	}
	check, err := D.readMarker()
	if err != nil {
		return eof2Unexpected(err)
	}
	if check != size {
		return fmt.Errorf("record size %d doesn't match its closing marker %d", size, check)
	}
	return nil
}

//Next reads the next frame into keep, or discards it if keep is nil.
//If box is given and the trajectory carries the simulation cell, the 9 components of the box vectors are
//put in box[0]. Otherwise box[0] is filled with zeros.
func (D *DCDObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIni, D.filename, []string{"Next"}, true}
	}
	if err := D.nextRaw(); err != nil {
		if errors.Is(err, io.EOF) {
			D.Close()
			return newlastFrameError(D.filename, "Next")
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("truncated frame")
		}
		return Error{fmt.Sprintf("%s: %s", ReadError, err.Error()), D.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		if err := D.boxVectors(box[0]); err != nil {
			return errDecorate(err, "Next")
		}
	}
	if keep == nil {
		return nil
	}
	if keep.NVecs() != int(D.natoms) {
		return Error{fmt.Sprintf("%s: %d vectors for %d atoms", ReadError, keep.NVecs(), D.natoms), D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		keep.Set(i, 0, float64(D.dcdFields[0][i]))
		keep.Set(i, 1, float64(D.dcdFields[1][i]))
		keep.Set(i, 2, float64(D.dcdFields[2][i]))
	}
	return nil
}

//nextRaw reads a frame into the buffers. It returns io.EOF only if the trajectory ends
//before the frame starts.
func (D *DCDObj) nextRaw() error {
	if D.unitcell {
		size, err := D.readMarker()
		if err != nil {
			return err
		}
		if size != 48 {
			return fmt.Errorf("unit cell record of %d bytes", size)
		}
		if err := binary.Read(D.dcd, D.endian, D.cell[:]); err != nil {
			return eof2Unexpected(err)
		}
		if check, err := D.readMarker(); err != nil || check != size {
			return fmt.Errorf("wrong unit cell record: %v", eof2Unexpected(err))
		}
	}
	for i, block := range D.dcdFields {
		if err := D.readFloat32Block(block); err != nil {
			if i > 0 || D.unitcell {
				return eof2Unexpected(err)
			}
			return err
		}
	}
	//we skip the 4th dimension, if present.
	if D.fourdim {
		size, err := D.readMarker()
		if err != nil {
			return eof2Unexpected(err)
		}
		if err := D.readRaw(make([]byte, size), size); err != nil {
			return eof2Unexpected(err)
		}
	}
	return nil
}

func eof2Unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

//cellBox returns the box from a Charmm unit cell record, which contains
//a, gamma, b, beta, alpha and c, in that order. The angles can be given either in degrees,
//or as cosines. A record with only zeros gives a nil box.
func cellBox(cell [6]float64) (*chem.Box, error) {
	if cell == [6]float64{} {
		return nil, nil
	}
	angles := [3]float64{cell[4], cell[3], cell[1]} //alpha, beta, gamma
	cosines := true
	for _, v := range angles {
		if math.Abs(v) > 1 {
			cosines = false
		}
	}
	if cosines {
		for i, v := range angles {
			angles[i] = chem.Rad2Deg(math.Acos(v))
		}
	}
	return chem.NewBox(cell[0], cell[2], cell[5], angles[0], angles[1], angles[2])
}

//boxVectors puts in vectors the box vectors for the cell just read, or zeros, if there is no cell.
func (D *DCDObj) boxVectors(vectors []float64) error {
	for i := range vectors[:9] {
		vectors[i] = 0
	}
	if !D.unitcell {
		return nil
	}
	b, err := cellBox(D.cell)
	if err != nil {
		return Error{fmt.Sprintf("Invalid unit cell %v: %s", D.cell, err.Error()), D.filename, []string{"boxVectors"}, true}
	}
	if b == nil {
		return nil
	}
	v := b.Vectors()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			vectors[3*i+j] = v.At(i, j)
		}
	}
	return nil
}

func (D *DCDObj) close() {
	if D.dec != nil && D.dec != io.ReadCloser(D.fhandle) {
		D.dec.Close()
	}
	if D.fhandle != nil {
		D.fhandle.Close()
	}
}

//Close closes the trajectory. Calling Close more than once does nothing.
func (D *DCDObj) Close() {
	if !D.readable {
		return
	}
	D.close()
	D.readable = false
}

//Errors

//errDecorate decorates err with the caller's name, if err implements chem.Error.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(chem.Error); ok {
		err2.Decorate(caller)
	}
	return err
}

//Error is the general structure for DCD trajectory errors. It fullfills chem.Error and chem.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "dcd") associated to the error
func (err Error) Format() string { return "dcd" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIni      = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	WrongFormat    = "Wrong format in the DCD file"
)

//lastFrameError implements chem.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "dcd" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
