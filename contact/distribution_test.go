/*
 * distribution_test.go, part of confwater.
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
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

//newSystemMol builds a trajectory with the atoms of the given symbols, the given frames (flat x y z lists)
//and a static box.
func newSystemMol(Te *testing.T, symbols []string, frames [][]float64, box *chem.Box) *chem.Molecule {
	Te.Helper()
	ats := make([]*chem.Atom, len(symbols))
	for i, s := range symbols {
		ats[i] = &chem.Atom{Name: strings.ToUpper(s), Symbol: s, ID: i + 1}
	}
	top := chem.NewTopology(ats)
	if err := top.AssignMasses(); err != nil {
		Te.Fatal(err)
	}
	coords := make([]*v3.Matrix, len(frames))
	for i, f := range frames {
		var err error
		coords[i], err = v3.NewMatrix(append([]float64(nil), f...))
		if err != nil {
			Te.Fatal(err)
		}
	}
	var boxes []*chem.Box
	if box != nil {
		boxes = []*chem.Box{box}
	}
	mol, err := chem.NewMolecule(coords, top, boxes)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func shifted(frame []float64, d [3]float64) []float64 {
	ret := append([]float64(nil), frame...)
	for i := range ret {
		ret[i] += d[i%3]
	}
	return ret
}

//spyTraj counts the frames read.
type spyTraj struct {
	chem.Traj
	calls int
}

func (s *spyTraj) Next(c *v3.Matrix, box ...[]float64) error {
	s.calls++
	return s.Traj.Next(c, box...)
}

//staticTop is a topology with an arbitrary box.
type staticTop struct {
	*chem.Topology
	box *chem.Box
}

func (s staticTop) Box() *chem.Box { return s.box }

func TestSlabScenario(Te *testing.T) {
	box, _ := chem.NewOrthoBox(10, 10, 20)
	symbols := []string{"B", "O", "O", "H"}
	frame0 := []float64{
		0, 0, 0,
		1, 1, 0.5,
		2, 2, 5.0,
		3, 3, 0.2,
	}
	frames := [][]float64{frame0}
	for k := 1; k < 3; k++ {
		frames = append(frames, shifted(frame0, [3]float64{0.3 * float64(k), -0.2 * float64(k), 0.1 * float64(k)}))
	}
	mol := newSystemMol(Te, symbols, frames, box)
	liquid, solid, err := SpatialDistribution(mol, mol, 1.0, []int{0, 1}, 0, -1, 1)
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{1, 1, 1, 1, 1, 1}
	if diff := cmp.Diff(want, liquid.Raw(), approx); diff != "" {
		Te.Errorf("Wrong liquid points (-want +got):\n%s", diff)
	}
	//the solid atom is on a corner of the box, so it can end up on any of them.
	sraw := solid.Raw()
	for i, v := range sraw {
		if v > 5 {
			sraw[i] = v - 10
		}
	}
	if diff := cmp.Diff(make([]float64, 6), sraw, approx); diff != "" {
		Te.Errorf("Wrong solid points (-want +got):\n%s", diff)
	}
	if liquid.Frames() != 3 || solid.Frames() != 3 {
		Te.Errorf("Expected 3 frames, got %d and %d", liquid.Frames(), solid.Frames())
	}
	//with hydrogens in the liquid, the one at 0.2 from the solid also counts.
	mol.Rewind()
	o := DefaultOptions()
	o.LiquidSymbols([]string{"O", "H"})
	liquid, _, err = SpatialDistribution(mol, mol, 1.0, []int{0, 1}, 0, -1, 1, o)
	if err != nil {
		Te.Fatal(err)
	}
	want = []float64{1, 1, 3, 3, 1, 1, 3, 3, 1, 1, 3, 3}
	if diff := cmp.Diff(want, liquid.Raw(), approx); diff != "" {
		Te.Errorf("Wrong liquid points with hydrogens (-want +got):\n%s", diff)
	}
}

//randomSlab returns a slab of 8 solid atoms around z=10 and nliquid oxygens
//spread along z, in nframes frames with random displacements.
func randomSlab(Te *testing.T, nframes, nliquid int, seed int64) *chem.Molecule {
	r := rand.New(rand.NewSource(seed))
	box, _ := chem.NewOrthoBox(10, 10, 20)
	var symbols []string
	var frame0 []float64
	for i := 0; i < 8; i++ {
		symbols = append(symbols, []string{"B", "N"}[i%2])
		frame0 = append(frame0, 2.5*float64(i%4), 5*float64(i/4), 10)
	}
	for i := 0; i < nliquid; i++ {
		symbols = append(symbols, "O")
		frame0 = append(frame0, 10*r.Float64(), 10*r.Float64(), 20*r.Float64())
	}
	frames := make([][]float64, nframes)
	for k := range frames {
		f := append([]float64(nil), frame0...)
		for i := range f {
			f[i] += 0.3 * (r.Float64() - 0.5)
		}
		frames[k] = shifted(f, [3]float64{2 * r.Float64(), 2 * r.Float64(), 0.5 * r.Float64()})
	}
	return newSystemMol(Te, symbols, frames, box)
}

func TestSlabFrameCount(Te *testing.T) {
	mol := randomSlab(Te, 10, 12, 1)
	liquid, solid, err := SpatialDistribution(mol, mol, 2, []int{0, 1}, 1, 9, 3)
	if err != nil {
		Te.Fatal(err)
	}
	//frames 1, 4 and 7
	if solid.Len() != 3*8 || solid.Frames() != 3 || liquid.Frames() != 3 {
		Te.Errorf("Expected 24 solid points from 3 frames, got %d from %d", solid.Len(), solid.Frames())
	}
	if liquid.Len() > 3*12 {
		Te.Errorf("%d liquid points from 3 frames of 12 liquid atoms", liquid.Len())
	}
}

func TestSlabCutoffMonotonic(Te *testing.T) {
	mol := randomSlab(Te, 6, 40, 2)
	prev := -1
	for _, cutoff := range []float64{0, 0.5, 1, 2, 4, 8, 100} {
		mol.Rewind()
		liquid, _, err := SpatialDistribution(mol, mol, cutoff, []int{0, 1}, 0, -1, 1)
		if err != nil {
			Te.Fatal(err)
		}
		if liquid.Len() < prev {
			Te.Errorf("Cutoff %f gives %d points, fewer than the %d of a smaller cutoff", cutoff, liquid.Len(), prev)
		}
		if liquid.Len() > 6*40 {
			Te.Errorf("Cutoff %f gives %d points, more than liquid atoms", cutoff, liquid.Len())
		}
		prev = liquid.Len()
	}
	if prev != 6*40 {
		Te.Errorf("A cutoff larger than the box should include all %d liquid atoms, got %d", 6*40, prev)
	}
}

//ringTube returns the frame of a tube along the given axis, made of 2 rings of 6 atoms
//of radius 3, plus 3 liquid atoms: an oxygen at radius 5, an oxygen at radius 0.2
//and a hydrogen at radius 6. The tube axis goes through (15,15) in the confined plane.
func ringTube(axis int) ([]string, []float64) {
	var c0, c1 int
	switch axis {
	case 0:
		c0, c1 = 1, 2
	case 1:
		c0, c1 = 0, 2
	default:
		c0, c1 = 0, 1
	}
	var symbols []string
	var frame []float64
	add := func(s string, r, angle, along float64) {
		v := make([]float64, 3)
		v[c0] = 15 + r*math.Cos(angle)
		v[c1] = 15 + r*math.Sin(angle)
		v[axis] = along
		symbols = append(symbols, s)
		frame = append(frame, v...)
	}
	for _, ring := range []struct {
		s     string
		along float64
	}{{"B", 2.5}, {"N", 7.5}} {
		for i := 0; i < 6; i++ {
			add(ring.s, 3, float64(i)*math.Pi/3, ring.along)
		}
	}
	add("O", 5, deg(100), 5)
	add("O", 0.2, deg(30), 5)
	add("H", 6, deg(200), 1)
	return symbols, frame
}

func deg(a float64) float64 { return chem.Deg2Rad(a) }

//rotatedAbout rotates frame by angle around the line parallel to the axis through (15,15), and displaces it.
func rotatedAbout(frame []float64, axis int, angle float64, d [3]float64) []float64 {
	P, _ := NewPeriodicity([]int{axis})
	pv := P.Vector()
	ax, _ := v3.NewMatrix(pv[:])
	rot := chem.RotatorAroundAxis(ax, angle)
	m, _ := v3.NewMatrix(append([]float64(nil), frame...))
	center := v3.Zeros(1)
	for _, c := range P.confined {
		center.Set(0, c, 15)
	}
	m.SubVec(m, center)
	m.Mul(m, rot.Dense.T())
	m.AddVec(m, center)
	return shifted(m.RawMatrix().Data, d)
}

func tubeOptions() *Options {
	o := DefaultOptions()
	o.TubeRadius(3)
	o.TubeUnitCells(1)
	return o
}

func TestTubeScenario(Te *testing.T) {
	for axis := 0; axis < 3; axis++ {
		Te.Run(fmt.Sprintf("axis%d", axis), func(Te *testing.T) {
			box, _ := chem.NewOrthoBox(30, 30, 30)
			if axis == 2 {
				box, _ = chem.NewOrthoBox(30, 30, 10)
			}
			symbols, frame0 := ringTube(axis)
			frame1 := rotatedAbout(frame0, axis, deg(30), [3]float64{1, -2, 0.5})
			frame2 := rotatedAbout(frame0, axis, deg(-140), [3]float64{-0.5, 0.7, 0.2})
			mol := newSystemMol(Te, symbols, [][]float64{frame0, frame1, frame2}, box)
			liquid, solid, err := SpatialDistribution(mol, mol, 1.0, []int{axis}, 0, -1, 1, tubeOptions())
			if err != nil {
				Te.Fatal(err)
			}
			//the oxygen at radius 5 and the hydrogen at 6 are in the contact layer, the oxygen at 0.2 is not.
			if liquid.Len() != 2*3 {
				Te.Fatalf("Expected 6 liquid points, got %d", liquid.Len())
			}
			if solid.Len() != 12*3 {
				Te.Fatalf("Expected 36 solid points, got %d", solid.Len())
			}
			//all frames are the same after alignment
			l, s := liquid.Raw(), solid.Raw()
			for f := 1; f < 3; f++ {
				if diff := cmp.Diff(l[:4], l[4*f:4*f+4], approx); diff != "" {
					Te.Errorf("Liquid points of frame %d differ from those of frame 0 (-frame0 +frame):\n%s", f, diff)
				}
				if diff := cmp.Diff(s[:24], s[24*f:24*f+24], approx); diff != "" {
					Te.Errorf("Solid points of frame %d differ from those of frame 0 (-frame0 +frame):\n%s", f, diff)
				}
			}
			circ := 6 * math.Pi
			for i := 0; i < liquid.Len(); i++ {
				along, arc := liquid.At(i)
				if arc < 0 || arc > circ {
					Te.Errorf("Arc length %f out of range", arc)
				}
				if i%2 == 0 && math.Abs(along-5) > 1e-6 || i%2 == 1 && math.Abs(along-1) > 1e-6 {
					Te.Errorf("Wrong position along the tube %f for liquid point %d", along, i)
				}
			}
			//the unrolled positions keep the angles between atoms: the 2 liquid atoms are 100 degrees apart.
			_, a0 := liquid.At(0)
			_, a1 := liquid.At(1)
			d := math.Abs(a1-a0) * 360 / circ
			if math.Abs(d-100) > 1e-6 && math.Abs(d-260) > 1e-6 {
				Te.Errorf("The liquid atoms are %f degrees apart, expected 100", d)
			}
		})
	}
}

func TestTubeDegenerate(Te *testing.T) {
	box, _ := chem.NewOrthoBox(30, 30, 10)
	symbols := []string{"B", "N", "O", "O"}
	frame := []float64{15, 15, 2.5, 15, 15, 7.5, 18, 15, 5, 12, 15, 5}
	mol := newSystemMol(Te, symbols, [][]float64{frame}, box)
	_, _, err := SpatialDistribution(mol, mol, 1, []int{2}, 0, -1, 1, tubeOptions())
	if err == nil {
		Te.Fatal("A tube with all axis atoms on the center of mass should give an error")
	}
	if e, ok := err.(Error); !ok || !e.Degenerate() {
		Te.Errorf("Expected a degeneracy error, got %v", err)
	}
}

func TestConfigErrors(Te *testing.T) {
	good := tubeOptions()
	cases := []struct {
		name     string
		periodic []int
		cutoff   float64
		r        frameRange
		o        func() *Options
	}{
		{"no axes", nil, 1, frameRange{0, -1, 1}, DefaultOptions},
		{"3 axes", []int{0, 1, 2}, 1, frameRange{0, -1, 1}, DefaultOptions},
		{"repeated axes", []int{0, 0}, 1, frameRange{0, -1, 1}, DefaultOptions},
		{"axis out of range", []int{3}, 1, frameRange{0, -1, 1}, tubeOptions},
		{"tube without radius", []int{2}, 1, frameRange{0, -1, 1}, DefaultOptions},
		{"tube too long", []int{2}, 1, frameRange{0, -1, 1}, func() *Options { o := tubeOptions(); o.TubeUnitCells(7); return o }},
		{"negative start", []int{0, 1}, 1, frameRange{-1, -1, 1}, DefaultOptions},
		{"zero stride", []int{0, 1}, 1, frameRange{0, -1, 0}, DefaultOptions},
		{"end before start", []int{0, 1}, 1, frameRange{3, 3, 1}, DefaultOptions},
		{"negative cutoff", []int{0, 1}, -1, frameRange{0, -1, 1}, DefaultOptions},
		{"NaN cutoff", []int{2}, math.NaN(), frameRange{0, -1, 1}, func() *Options { return good }},
		{"overlapping groups", []int{0, 1}, 1, frameRange{0, -1, 1}, func() *Options { o := DefaultOptions(); o.LiquidSymbols([]string{"O", "B"}); return o }},
		{"no solid", []int{0, 1}, 1, frameRange{0, -1, 1}, func() *Options { o := DefaultOptions(); o.SolidSymbols([]string{"Xe"}); return o }},
	}
	symbols, frame := ringTube(2)
	box, _ := chem.NewOrthoBox(30, 30, 10)
	for _, c := range cases {
		mol := newSystemMol(Te, symbols, [][]float64{frame, frame}, box)
		for _, conc := range []bool{false, true} {
			mol.Rewind()
			spy := &spyTraj{Traj: mol}
			var err error
			if conc {
				_, _, err = ConcSpatialDistribution(spy, mol, c.cutoff, c.periodic, c.r.start, c.r.end, c.r.stride, c.o())
			} else {
				_, _, err = SpatialDistribution(spy, mol, c.cutoff, c.periodic, c.r.start, c.r.end, c.r.stride, c.o())
			}
			if !IsConfig(err) {
				Te.Errorf("%s: expected a configuration error, got %v", c.name, err)
			}
			if spy.calls != 0 {
				Te.Errorf("%s: %d frames were read before failing", c.name, spy.calls)
			}
		}
	}
	//a trajectory that doesn't match the topology
	mol := newSystemMol(Te, symbols, [][]float64{frame}, box)
	other := newSystemMol(Te, symbols[:14], [][]float64{frame[:42]}, box)
	spy := &spyTraj{Traj: other}
	if _, _, err := SpatialDistribution(spy, mol, 1, []int{2}, 0, -1, 1, tubeOptions()); !IsConfig(err) || spy.calls != 0 {
		Te.Errorf("Mismatched trajectory: expected a configuration error and no reads, got %v and %d reads", err, spy.calls)
	}
}

func TestFrameRangeClamp(Te *testing.T) {
	var logged []string
	SetLogger(func(format string, v ...interface{}) { logged = append(logged, fmt.Sprintf(format, v...)) })
	defer SetLogger(nil)
	mol := randomSlab(Te, 4, 5, 3)
	_, solid, err := SpatialDistribution(mol, mol, 1, []int{0, 1}, 0, 10, 1)
	if err != nil {
		Te.Fatal(err)
	}
	if solid.Frames() != 4 {
		Te.Errorf("Expected 4 frames, got %d", solid.Frames())
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "clamped") {
		Te.Errorf("Expected a warning about the clamped range, got %v", logged)
	}
	//a range that ends exactly with the trajectory is not clamped
	logged = nil
	mol.Rewind()
	if _, _, err := SpatialDistribution(mol, mol, 1, []int{0, 1}, 2, 4, 1); err != nil {
		Te.Fatal(err)
	}
	if len(logged) != 0 {
		Te.Errorf("Unexpected warning %v", logged)
	}
	//a range far beyond the trajectory is clamped too, without reserving room for it
	for name, f := range drivers {
		logged = nil
		mol.Rewind()
		_, solid, err := f(mol, mol, 1, []int{0, 1}, 0, 1<<30, 1)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if solid.Frames() != 4 {
			Te.Errorf("%s: expected 4 frames, got %d", name, solid.Frames())
		}
		if len(logged) != 1 || !strings.Contains(logged[0], "clamped") {
			Te.Errorf("%s: expected a warning about the clamped range, got %v", name, logged)
		}
	}
	//no frame in the range
	for _, end := range []int{-1, 200} {
		logged = nil
		mol.Rewind()
		liquid, solid, err := SpatialDistribution(mol, mol, 1, []int{0, 1}, 100, end, 1)
		if err != nil {
			Te.Fatal(err)
		}
		if solid.Frames() != 0 || liquid.Len() != 0 {
			Te.Errorf("End %d: expected no frames, got %d", end, solid.Frames())
		}
		if len(logged) != 1 || !strings.Contains(logged[0], "No frame was processed") {
			Te.Errorf("End %d: expected a warning about the empty range, got %v", end, logged)
		}
	}
}

//drivers are the functions that compute the distributions.
var drivers = map[string]func(chem.Traj, Topology, float64, []int, int, int, int, ...*Options) (*Points, *Points, error){
	"serial":     SpatialDistribution,
	"concurrent": ConcSpatialDistribution,
}

var errDisk = errors.New("disk failure")

//failingTraj returns errDisk when asked for the frame with index fail.
type failingTraj struct {
	chem.Traj
	fail, next int
}

func (f *failingTraj) Next(c *v3.Matrix, box ...[]float64) error {
	if f.next == f.fail {
		return errDisk
	}
	f.next++
	return f.Traj.Next(c, box...)
}

func TestTrajectoryFailure(Te *testing.T) {
	mol := randomSlab(Te, 8, 10, 5)
	o := DefaultOptions()
	o.Cpus(3)
	for name, f := range drivers {
		for _, fail := range []int{0, 4} {
			mol.Rewind()
			traj := &failingTraj{Traj: mol, fail: fail}
			liquid, solid, err := f(traj, mol, 1, []int{0, 1}, 0, -1, 1, o)
			if !errors.Is(err, errDisk) {
				Te.Errorf("%s, frame %d: expected the trajectory error, got %v", name, fail, err)
			}
			if IsConfig(err) {
				Te.Errorf("%s, frame %d: a reading failure is not a configuration error", name, fail)
			}
			if liquid != nil || solid != nil {
				Te.Errorf("%s, frame %d: no output expected after a failure", name, fail)
			}
		}
	}
}

func TestFrameBox(Te *testing.T) {
	symbols := []string{"B", "O"}
	frame := []float64{0, 0, 0, 12, 1, 0.5}
	static, _ := chem.NewOrthoBox(10, 10, 20)
	wide, _ := chem.NewOrthoBox(20, 10, 20)
	mol := newSystemMol(Te, symbols, [][]float64{frame, frame}, wide)
	top := staticTop{Topology: mol.Topology, box: static}
	liquid, _, err := SpatialDistribution(mol, top, 1, []int{0, 1}, 0, -1, 1)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]float64{12, 1, 12, 1}, liquid.Raw(), approx); diff != "" {
		Te.Errorf("The box of the frames should be used instead of the static one (-want +got):\n%s", diff)
	}
	//no box at all
	nobox := newSystemMol(Te, symbols, [][]float64{frame}, nil)
	_, _, err = SpatialDistribution(nobox, nobox, 1, []int{0, 1}, 0, -1, 1)
	if !IsConfig(err) {
		Te.Errorf("A system without box should give a configuration error, got %v", err)
	}
}

func TestDensity(Te *testing.T) {
	mol := randomSlab(Te, 5, 30, 4)
	liquid, _, err := SpatialDistribution(mol, mol, 3, []int{0, 1}, 0, -1, 1)
	if err != nil {
		Te.Fatal(err)
	}
	M, err := AutoDensity(liquid, 4, 5)
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := M.Dims(); r != 4 || c != 1 || len(M.View(0, 0).View()) != 5 {
		Te.Errorf("Wrong density grid dimensions")
	}
	if M.Total() != liquid.Len() {
		Te.Errorf("%d points binned out of %d", M.Total(), liquid.Len())
	}
	half, err := Density(liquid, [2]float64{0, 0}, [2]float64{5, 10}, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	inside := 0
	for i := 0; i < liquid.Len(); i++ {
		if x, y := liquid.At(i); x >= 0 && x < 5 && y >= 0 && y < 10 {
			inside++
		}
	}
	if half.Total() != inside {
		Te.Errorf("%d points binned, %d in range", half.Total(), inside)
	}
	if _, err := Density(liquid, [2]float64{1, 0}, [2]float64{0, 1}, 2, 2); !IsConfig(err) {
		Te.Errorf("An empty range should be an error")
	}
	if _, err := AutoDensity(NewPoints(0), 2, 2); err == nil {
		Te.Errorf("Binning no points should be an error")
	}
}
