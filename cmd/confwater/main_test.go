/*
 * main_test.go, part of confwater.
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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/confwater"
	"github.com/rmera/confwater/contact"
	"github.com/rmera/confwater/traj/crd"
	"github.com/rmera/confwater/traj/dcd"
	"github.com/rmera/confwater/traj/stf"
	v3 "github.com/rmera/confwater/v3"
)

func TestParseLists(Te *testing.T) {
	axes, err := parseIntList("0, 2")
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 2}, axes); diff != "" {
		Te.Errorf("Wrong axes (-want +got):\n%s", diff)
	}
	if _, err := parseIntList("0,y"); err == nil {
		Te.Errorf("Expected an error for a non-numeric axis")
	}
	if diff := cmp.Diff([]string{"B", "N"}, parseSymbols("B, N,")); diff != "" {
		Te.Errorf("Wrong symbols (-want +got):\n%s", diff)
	}
	if parseSymbols("") != nil {
		Te.Errorf("An empty list should give nil")
	}
}

func TestOpenTraj(Te *testing.T) {
	dir := Te.TempDir()
	coords := v3.Zeros(2)
	dname := filepath.Join(dir, "traj.dcd")
	dw, err := dcd.NewWriter(dname, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if err := dw.WNext(coords); err != nil {
		Te.Fatal(err)
	}
	dw.Close()
	sname := filepath.Join(dir, "traj.stf")
	sw, err := stf.NewWriter(sname, 2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := sw.WNext(coords); err != nil {
		Te.Fatal(err)
	}
	sw.Close()
	cname := filepath.Join(dir, "traj.mdcrd")
	if err := os.WriteFile(cname, []byte("title\n   0.000   0.000   0.000   0.000   0.000   0.000\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	for name, want := range map[string]string{dname: "*dcd.DCDObj", sname: "*stf.StfR", cname: "*crd.CrdObj"} {
		t, closer, err := openTraj(name, 2, false)
		if err != nil {
			Te.Fatal(err)
		}
		if got := typeName(t); got != want {
			Te.Errorf("%s opened as %s, expected %s", name, got, want)
		}
		if t.Len() != 2 {
			Te.Errorf("%s: %d atoms, expected 2", name, t.Len())
		}
		closer()
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *dcd.DCDObj:
		return "*dcd.DCDObj"
	case *stf.StfR:
		return "*stf.StfR"
	case *crd.CrdObj:
		return "*crd.CrdObj"
	}
	return "unknown"
}

//writeSlab writes a PDB topology with a boron atom and an oxygen above it, and a 2-frame DCD
//trajectory of the same system. It returns the names of both files.
func writeSlab(Te *testing.T, dir string) (string, string) {
	Te.Helper()
	box, _ := chem.NewOrthoBox(10, 10, 20)
	var b strings.Builder
	fmt.Fprintf(&b, "CRYST1%s P 1           1\n", box.String())
	atom := "%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n"
	fmt.Fprintf(&b, atom, "ATOM", 1, "B", "BN", "A", 1, 0.0, 0.0, 10.0, 1.0, 0.0, "B")
	fmt.Fprintf(&b, atom, "ATOM", 2, "OW", "SOL", "A", 2, 1.0, 1.0, 10.5, 1.0, 0.0, "O")
	fmt.Fprintln(&b, "END")
	pname := filepath.Join(dir, "slab.pdb")
	if err := os.WriteFile(pname, []byte(b.String()), 0644); err != nil {
		Te.Fatal(err)
	}
	coords, _ := v3.NewMatrix([]float64{0, 0, 10, 1, 1, 10.5})
	dname := filepath.Join(dir, "slab.dcd")
	dw, err := dcd.NewWriter(dname, 2)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := dw.WNext(coords); err != nil {
			Te.Fatal(err)
		}
	}
	if err := dw.Close(); err != nil {
		Te.Fatal(err)
	}
	return pname, dname
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	pname, dname := writeSlab(Te, dir)
	closed := 0
	openTrajectory = func(name string, natoms int, crdbox bool) (chem.Traj, func(), error) {
		t, closer, err := openTraj(name, natoms, crdbox)
		if err != nil {
			return nil, nil, err
		}
		return t, func() { closed++; closer() }, nil
	}
	defer func() { openTrajectory = openTraj }()
	s := settings{cutoff: 1, periodic: "0,1", end: -1, stride: 1, cpus: 1, nx: 2, ny: 2, prefix: filepath.Join(dir, "out"), crdbox: true}

	//a failed run still closes the trajectory
	bad := s
	bad.cutoff = -1
	err := run(bad, []string{pname, dname})
	if !contact.IsConfig(err) {
		Te.Errorf("Expected a configuration error, got %v", err)
	}
	if closed != 1 {
		Te.Errorf("The trajectory was closed %d times after a failed run, expected 1", closed)
	}

	closed = 0
	if err := run(s, []string{pname, dname}); err != nil {
		Te.Fatal(err)
	}
	if closed != 1 {
		Te.Errorf("The trajectory was closed %d times, expected 1", closed)
	}
	for _, suffix := range []string{"_liquid.dat", "_solid.dat", "_density.json"} {
		if _, err := os.Stat(s.prefix + suffix); err != nil {
			Te.Errorf("Output file missing: %v", err)
		}
	}
}
