/*
 * chem_test.go, part of confwater.
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

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	v3 "github.com/rmera/confwater/v3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestRotatorIdentity(Te *testing.T) {
	axes := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}, {-0.3, 0.1, 5}}
	for _, a := range axes {
		axis, _ := v3.NewMatrix(append([]float64(nil), a...))
		rot := RotatorAroundAxis(axis, 0)
		if !mat.EqualApprox(rot, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12) {
			Te.Errorf("Zero-angle rotation around %v is not the identity: %v", a, rot)
		}
	}
}

func TestRotatorOrthonormal(Te *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		axis, _ := v3.NewMatrix([]float64{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5})
		angle := (r.Float64() - 0.5) * 4 * math.Pi
		rot := RotatorAroundAxis(axis, angle)
		id := v3.Zeros(3)
		id.Mul(rot, rot.T())
		if !mat.EqualApprox(id, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-10) {
			Te.Errorf("R*R^T is not the identity for angle %f: %v", angle, id)
		}
		if d := rot.Det(); !scalar.EqualWithinAbs(d, 1, 1e-10) {
			Te.Errorf("Determinant of rotation is %f", d)
		}
	}
}

func TestRotatorDirection(Te *testing.T) {
	z, _ := v3.NewMatrix([]float64{0, 0, 1})
	rot := RotatorAroundAxis(z, math.Pi/2)
	p, _ := v3.NewMatrix([]float64{1, 0, 0})
	p.Mul(p, rot.T())
	want, _ := v3.NewMatrix([]float64{0, 1, 0})
	if !mat.EqualApprox(p, want, 1e-12) {
		Te.Errorf("x rotated 90 degrees around z should be y, got %v", p)
	}
}

func TestAngleClamp(Te *testing.T) {
	a, _ := v3.NewMatrix([]float64{1e-8, 1e-8, 1e-8})
	b, _ := v3.NewMatrix([]float64{3e8, 3e8, 3e8})
	if ang := Angle(a, b); math.IsNaN(ang) || !scalar.EqualWithinAbs(ang, 0, 1e-7) {
		Te.Errorf("Angle between parallel vectors should be 0, got %v", ang)
	}
	b.Scale(-1, b.Dense)
	if ang := Angle(a, b); math.IsNaN(ang) || !scalar.EqualWithinAbs(ang, math.Pi, 1e-7) {
		Te.Errorf("Angle between antiparallel vectors should be pi, got %v", ang)
	}
}

func TestCenterOfMass(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 4, 2, 0})
	mass := mat.NewDense(2, 1, []float64{1, 3})
	com, err := CenterOfMass(coords, mass)
	if err != nil {
		Te.Fatal(err)
	}
	want, _ := v3.NewMatrix([]float64{3, 1.5, 0})
	if !mat.EqualApprox(com, want, 1e-12) {
		Te.Errorf("Wrong center of mass %v", com)
	}
	geo, _ := CenterOfMass(coords, nil)
	want, _ = v3.NewMatrix([]float64{2, 1, 0})
	if !mat.EqualApprox(geo, want, 1e-12) {
		Te.Errorf("Wrong geometric center %v", geo)
	}
	if _, err := CenterOfMass(coords, mat.NewDense(1, 1, []float64{1})); err == nil {
		Te.Errorf("Mismatched masses should be an error")
	}
}

func TestWrapOrtho(Te *testing.T) {
	box, err := NewOrthoBox(10, 10, 20)
	if err != nil {
		Te.Fatal(err)
	}
	coords, _ := v3.NewMatrix([]float64{-1, 25, 3, 10, 0, -20, 5, 5, 5})
	box.Wrap(coords)
	want, _ := v3.NewMatrix([]float64{9, 5, 3, 0, 0, 0, 5, 5, 5})
	if !mat.EqualApprox(coords, want, 1e-12) {
		Te.Errorf("Wrong wrapped coordinates %v", coords)
	}
}

func TestWrapIdempotent(Te *testing.T) {
	boxes := [][6]float64{{10, 10, 10, 90, 90, 90}, {10, 12, 14, 80, 95, 110}, {20, 20, 30, 90, 90, 120}}
	r := rand.New(rand.NewSource(7))
	for _, b := range boxes {
		box, err := NewBox(b[0], b[1], b[2], b[3], b[4], b[5])
		if err != nil {
			Te.Fatal(err)
		}
		data := make([]float64, 300)
		for i := range data {
			data[i] = (r.Float64() - 0.5) * 200
		}
		coords, _ := v3.NewMatrix(data)
		box.Wrap(coords)
		once := coords.Clone()
		box.Wrap(coords)
		if !mat.EqualApprox(once, coords, 1e-9) {
			Te.Errorf("Wrapping twice in box %v changed the coordinates", box)
		}
		//all wrapped points must have fractional coordinates in [0,1)
		inv := mat.NewDense(3, 3, nil)
		if err := inv.Inverse(box.Vectors().Dense); err != nil {
			Te.Fatal(err)
		}
		frac := v3.Zeros(coords.NVecs())
		frac.Mul(coords, inv)
		for i := 0; i < frac.NVecs(); i++ {
			for j := 0; j < 3; j++ {
				if f := frac.At(i, j); f < -1e-9 || f >= 1+1e-9 {
					Te.Errorf("Point %d has fractional coordinate %f after wrapping in box %v", i, f, box)
				}
			}
		}
	}
}

func TestBoxVectors(Te *testing.T) {
	box, _ := NewBox(10, 12, 14, 80, 95, 110)
	vecs := box.Vectors()
	for i := 0; i < 3; i++ {
		if l := vecs.VecView(i).Norm(); !scalar.EqualWithinAbs(l, box.Lengths[i], 1e-10) {
			Te.Errorf("Box vector %d has length %f, expected %f", i, l, box.Lengths[i])
		}
	}
	box2, err := BoxFromVectors(vecs.RawMatrix().Data)
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range box.LengthsAndAngles() {
		if w := box2.LengthsAndAngles()[i]; !scalar.EqualWithinAbs(v, w, 1e-8) {
			Te.Errorf("Box from its own vectors differs in element %d: %f vs %f", i, v, w)
		}
	}
	if _, err := NewBox(10, 10, 10, 90, 0, 90); err == nil {
		Te.Errorf("A zero angle should not be accepted")
	}
}

func pdbAtomLine(id int, name, res string, resid int, x, y, z float64, sym string) string {
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s", "ATOM", id, name, res, "A", resid, x, y, z, 1.0, 0.0, sym)
}

func TestPDBReadCryst1(Te *testing.T) {
	box, _ := NewBox(24.6, 21.3, 30, 90, 90, 120)
	var b strings.Builder
	fmt.Fprintf(&b, "CRYST1%s P 1           1\n", box.String())
	fmt.Fprintln(&b, "MODEL        1")
	fmt.Fprintln(&b, pdbAtomLine(1, "B", "BN", 1, 1, 2, 3, "B"))
	fmt.Fprintln(&b, pdbAtomLine(2, "N", "BN", 1, 2, 2, 3, "N"))
	fmt.Fprintln(&b, pdbAtomLine(3, "OW", "SOL", 2, 5, 5, 10, "O"))
	fmt.Fprintln(&b, pdbAtomLine(4, "HW1", "SOL", 2, 5.9, 5, 10, "")[:66])
	fmt.Fprintln(&b, "ENDMDL")
	fmt.Fprintln(&b, "MODEL        2")
	fmt.Fprintln(&b, pdbAtomLine(1, "B", "BN", 1, 1.1, 2, 3, "B"))
	fmt.Fprintln(&b, pdbAtomLine(2, "N", "BN", 1, 2.1, 2, 3, "N"))
	fmt.Fprintln(&b, pdbAtomLine(3, "OW", "SOL", 2, 5.1, 5, 10, "O"))
	fmt.Fprintln(&b, pdbAtomLine(4, "HW1", "SOL", 2, 6.0, 5, 10, "H"))
	fmt.Fprintln(&b, "ENDMDL")
	fmt.Fprintln(&b, "END")
	mol, err := PDBRead(strings.NewReader(b.String()), "inline")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 4 || mol.LenFrames() != 2 {
		Te.Fatalf("Expected 4 atoms and 2 frames, got %d and %d", mol.Len(), mol.LenFrames())
	}
	if mol.Box() == nil {
		Te.Fatal("The CRYST1 box was not read")
	}
	for i, v := range box.LengthsAndAngles() {
		if w := mol.Box().LengthsAndAngles()[i]; !scalar.EqualWithinAbs(v, w, 1e-3) {
			Te.Errorf("Box element %d read as %f, expected %f", i, w, v)
		}
	}
	symbols := []string{"B", "N", "O", "H"}
	for i, s := range symbols {
		if at := mol.Atom(i); at.Symbol != s || at.Mass <= 0 {
			Te.Errorf("Atom %d: symbol %q mass %f, expected symbol %q", i, at.Symbol, at.Mass, s)
		}
	}
	if x := mol.Coords[1].At(3, 0); !scalar.EqualWithinAbs(x, 6.0, 1e-6) {
		Te.Errorf("Wrong x coordinate for the last atom of the second model: %f", x)
	}
	if sel := SymbolSelect(mol, []string{"O", "H"}); len(sel) != 2 || sel[0] != 2 {
		Te.Errorf("Wrong selection %v", sel)
	}
}

func TestPDBReadErrors(Te *testing.T) {
	if _, err := PDBRead(strings.NewReader("REMARK nothing here\n"), "empty"); err == nil {
		Te.Errorf("A PDB without atoms should be an error")
	}
	bad := pdbAtomLine(1, "OW", "SOL", 1, 0, 0, 0, "O")
	bad = bad[:30] + "   x.000" + bad[38:]
	_, err := PDBRead(strings.NewReader(bad+"\n"), "bad")
	if err == nil {
		Te.Fatal("A malformed coordinate should be an error")
	}
	if e, ok := err.(PDBError); !ok || e.FileName() != "bad" {
		Te.Errorf("Expected a PDBError for file 'bad', got %v", err)
	}
}

func TestMoleculeTraj(Te *testing.T) {
	top := NewTopology([]*Atom{{Name: "OW", Symbol: "O"}, {Name: "HW1", Symbol: "H"}})
	if err := top.AssignMasses(); err != nil {
		Te.Fatal(err)
	}
	box, _ := NewOrthoBox(10, 11, 12)
	frames := make([]*v3.Matrix, 3)
	for i := range frames {
		frames[i], _ = v3.NewMatrix([]float64{float64(i), 0, 0, float64(i) + 1, 0, 0})
	}
	mol, err := NewMolecule(frames, top, []*Box{box})
	if err != nil {
		Te.Fatal(err)
	}
	if err := Corrupted(top, mol); err != nil {
		Te.Error(err)
	}
	out := v3.Zeros(2)
	boxv := make([]float64, 9)
	read := 0
	for {
		err := mol.Next(out, boxv)
		if err != nil {
			if _, ok := err.(LastFrameError); !ok {
				Te.Fatalf("Expected a LastFrameError, got %v", err)
			}
			break
		}
		if out.At(0, 0) != float64(read) {
			Te.Errorf("Frame %d read out of order", read)
		}
		read++
	}
	if read != 3 {
		Te.Errorf("Read %d frames, expected 3", read)
	}
	if boxv[0] != 10 || boxv[4] != 11 || boxv[8] != 12 {
		Te.Errorf("Wrong box vectors %v", boxv)
	}
	mol.Rewind()
	if !mol.Readable() {
		Te.Errorf("Molecule should be readable after Rewind")
	}
	if err := mol.Next(nil); err != nil {
		Te.Errorf("Skipping a frame failed: %v", err)
	}
}
