/*
 * crd.go, part of confwater.
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

//Package crd reads Amber ASCII trajectories (mdcrd), with or without
//a periodic box after each frame.
package crd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

//Coordinates are written in fields of this width, 10 per line. Fields can touch each other,
//so they can't be split on spaces.
const fieldWidth = 8

//CrdObj is an Amber ASCII trajectory file, opened for reading. It implements chem.Traj.
type CrdObj struct {
	natoms   int
	readable bool //Is it ready to be read?
	filename string
	ioread   *os.File //The crd file
	crd      *bufio.Reader
	box      bool
	values   []float64
	boxvals  []float64
}

//New opens an Amber trajectory with natoms atoms per frame. If box is true, each frame
//is expected to be followed by a line with the box lengths (and, optionally, angles).
func New(filename string, natoms int, box bool) (*CrdObj, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("Invalid number of atoms %d", natoms), filename, []string{"New"}, true}
	}
	var err error
	traj := new(CrdObj)
	traj.ioread, err = os.Open(filename)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), filename, []string{"New"}, true}
	}
	traj.filename = filename
	traj.crd = bufio.NewReader(traj.ioread)
	//The first line is just a title
	if _, err = traj.crd.ReadString('\n'); err != nil {
		traj.ioread.Close()
		return nil, Error{"No title line: " + err.Error(), filename, []string{"New"}, true}
	}
	traj.natoms = natoms
	traj.values = make([]float64, 0, 3*natoms)
	traj.boxvals = make([]float64, 0, 6)
	traj.box = box
	traj.readable = true
	return traj, nil
}

//Readable returns true if the object is ready to be read from
//false otherwise. It doesn't guarantee that there is something
//to read.
func (C *CrdObj) Readable() bool {
	return C.readable
}

//Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

//Close closes the trajectory. Calling it more than once does nothing.
func (C *CrdObj) Close() {
	if !C.readable {
		return
	}
	C.ioread.Close()
	C.readable = false
}

//parseFields appends to dest the values in the fixed-width fields of line.
func parseFields(line string, dest []float64) ([]float64, error) {
	line = strings.TrimRight(line, "\r\n")
	for pos := 0; pos < len(line); pos += fieldWidth {
		end := pos + fieldWidth
		if end > len(line) {
			end = len(line)
		}
		field := strings.TrimSpace(line[pos:end])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return dest, err
		}
		dest = append(dest, v)
	}
	return dest, nil
}

//readValues reads lines until n values are collected in dest. It returns io.EOF only if the
//file ends before any value is read.
func (C *CrdObj) readValues(dest []float64, n int) ([]float64, error) {
	for len(dest) < n {
		line, err := C.crd.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF && len(dest) > 0 {
				return dest, io.ErrUnexpectedEOF
			}
			return dest, err
		}
		dest, err = parseFields(line, dest)
		if err != nil {
			return dest, err
		}
	}
	if len(dest) > n {
		return dest, fmt.Errorf("%d values in a block of %d", len(dest), n)
	}
	return dest, nil
}

//Next reads the next frame into keep, or discards it if keep is nil.
//If box is given and the trajectory carries the box, the 9 components of the box vectors are
//put in box[0]. Otherwise box[0] is filled with zeros.
func (C *CrdObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !C.readable {
		return Error{TrajUnIni, C.filename, []string{"Next"}, true}
	}
	var err error
	C.values, err = C.readValues(C.values[:0], 3*C.natoms)
	if err == io.EOF {
		C.Close()
		return newlastFrameError(C.filename, "Next")
	} else if err != nil {
		return Error{ReadError + ": " + err.Error(), C.filename, []string{"Next"}, true}
	}
	var b *chem.Box
	if C.box {
		//the box has 3 lengths, optionally followed by 3 angles.
		line, err := C.crd.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return Error{ReadError + ": missing box", C.filename, []string{"Next"}, true}
		}
		C.boxvals, err = parseFields(line, C.boxvals[:0])
		if err != nil || (len(C.boxvals) != 3 && len(C.boxvals) != 6) {
			return Error{fmt.Sprintf("%s: wrong box line %q", ReadError, line), C.filename, []string{"Next"}, true}
		}
		angles := []float64{90, 90, 90}
		if len(C.boxvals) == 6 {
			angles = C.boxvals[3:]
		}
		b, err = chem.NewBox(C.boxvals[0], C.boxvals[1], C.boxvals[2], angles[0], angles[1], angles[2])
		if err != nil {
			return Error{fmt.Sprintf("%s: %s", ReadError, err.Error()), C.filename, []string{"Next"}, true}
		}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		for i := range box[0][:9] {
			box[0][i] = 0
		}
		if b != nil {
			v := b.Vectors()
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					box[0][3*i+j] = v.At(i, j)
				}
			}
		}
	}
	if keep == nil {
		return nil
	}
	if keep.NVecs() != C.natoms {
		return Error{fmt.Sprintf("%s: %d vectors for %d atoms", ReadError, keep.NVecs(), C.natoms), C.filename, []string{"Next"}, true}
	}
	for i := 0; i < C.natoms; i++ {
		for j := 0; j < 3; j++ {
			keep.Set(i, j, C.values[3*i+j])
		}
	}
	return nil
}

//Errors

//Error is the general structure for Crd trajectory errors. It fullfills chem.Error and chem.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("crd file %s error: %s", err.filename, err.message)
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

//Format returns the format of the file (always "crd") associated to the error
func (err Error) Format() string { return "crd" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIni    = "Traj object uninitialized to read"
	ReadError    = "Error reading frame"
	UnableToOpen = "Unable to open file"
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

func (E *lastFrameError) Format() string { return "crd" }

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
