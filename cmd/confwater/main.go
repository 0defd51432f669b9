/*
 * main.go, part of confwater.
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

//confwater obtains the 2D distribution of the liquid atoms in contact with a solid
//surface (a slab, or a nanotube) along a trajectory.
//The topology is read from a PDB file, and the frames from an STF, DCD or Amber trajectory or, if
//none is given, from the models in the PDB file.
//
//Usage:
//
//	confwater [flags] topology.pdb [trajectory.stf|.dcd|.crd]
//
//The liquid and solid points are written, one per line, to PREFIX_liquid.dat and
//PREFIX_solid.dat, and the counts of liquid points in a grid to PREFIX_density.json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/confwater"
	"github.com/rmera/confwater/contact"
	"github.com/rmera/confwater/traj/crd"
	"github.com/rmera/confwater/traj/dcd"
	"github.com/rmera/confwater/traj/stf"
)

//parseIntList parses a comma-separated list of ints.
func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid int '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

//parseSymbols parses a comma-separated list of element symbols. An empty
//string gives nil.
func parseSymbols(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writePoints(name string, P *contact.Points) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := P.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//openTraj opens a trajectory, choosing the format from the name: DCD if it contains the .dcd extension (possibly followed by
//a compression extension), Amber ASCII if it ends in .crd or .mdcrd, and STF otherwise. natoms and crdbox are only needed
//by the Amber format, which doesn't store the number of atoms.
func openTraj(name string, natoms int, crdbox bool) (chem.Traj, func(), error) {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.Contains(base, ".dcd"):
		d, err := dcd.New(name)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case strings.HasSuffix(base, ".crd"), strings.HasSuffix(base, ".mdcrd"):
		c, err := crd.New(name, natoms, crdbox)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	s, _, err := stf.New(name)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

//openTrajectory is the function used to open trajectory files.
var openTrajectory = openTraj

//settings are the parameters given in the command line.
type settings struct {
	cutoff             float64
	periodic           string
	start, end, stride int
	radius             float64
	cells, cpus        int
	solid, liquid      string
	sysanchor          bool
	nx, ny             int
	prefix             string
	quiet, crdbox      bool
}

func main() {
	var s settings
	flag.Float64Var(&s.cutoff, "cutoff", 3.0, "Contact layer cutoff, in A")
	flag.StringVar(&s.periodic, "periodic", "0,1", "Comma-separated periodic axes (0=x, 1=y, 2=z). One axis for tubes, two for slabs")
	flag.IntVar(&s.start, "start", 0, "First frame to process")
	flag.IntVar(&s.end, "end", -1, "Process frames up to this one, not included. Negative means until the end of the trajectory")
	flag.IntVar(&s.stride, "stride", 1, "Process every this many frames")
	flag.Float64Var(&s.radius, "radius", 0, "Tube radius, in A. Needed for tubes")
	flag.IntVar(&s.cells, "cells", 0, "Tube length in unit cells. Needed for tubes")
	flag.IntVar(&s.cpus, "cpus", 0, "Number of goroutines to process frames. 0 means one per CPU. 1 uses the serial driver")
	flag.StringVar(&s.solid, "solid", "", "Comma-separated element symbols of the solid atoms (default B,N,C,Na,Cl)")
	flag.StringVar(&s.liquid, "liquid", "", "Comma-separated element symbols of the liquid atoms (default O,H for tubes, O for slabs)")
	flag.BoolVar(&s.sysanchor, "sysanchor", false, "Align slab frames on the center of mass of the whole system, instead of that of the solid")
	flag.IntVar(&s.nx, "nx", 50, "Number of bins for the density map along the first coordinate")
	flag.IntVar(&s.ny, "ny", 50, "Number of bins for the density map along the second coordinate")
	flag.StringVar(&s.prefix, "o", "confwater", "Prefix for the output files")
	flag.BoolVar(&s.quiet, "quiet", false, "Don't print warnings")
	flag.BoolVar(&s.crdbox, "crdbox", true, "Amber trajectories have a box line after each frame")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] topology.pdb [trajectory.stf|.dcd|.crd]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(s, args); err != nil {
		log.Fatal(err)
	}
}

//run computes the distributions for the topology and optional trajectory in args, and writes the results.
func run(s settings, args []string) error {
	if s.quiet {
		contact.SetLogger(nil)
	}
	axes, err := parseIntList(s.periodic)
	if err != nil {
		return fmt.Errorf("invalid periodic axes: %w", err)
	}
	mol, err := chem.PDBFileRead(args[0])
	if err != nil {
		return fmt.Errorf("couldn't read the topology: %w", err)
	}
	var traj chem.Traj = mol
	if len(args) == 2 {
		t, closer, err := openTrajectory(args[1], mol.Len(), s.crdbox)
		if err != nil {
			return fmt.Errorf("couldn't open the trajectory: %w", err)
		}
		defer closer()
		traj = t
	}
	o := contact.DefaultOptions()
	if s.cpus > 0 {
		o.Cpus(s.cpus)
	}
	o.TubeRadius(s.radius)
	o.TubeUnitCells(s.cells)
	if sym := parseSymbols(s.solid); sym != nil {
		o.SolidSymbols(sym)
	}
	o.LiquidSymbols(parseSymbols(s.liquid))
	o.SystemAnchor(s.sysanchor)

	distribution := contact.ConcSpatialDistribution
	if o.Cpus() == 1 {
		distribution = contact.SpatialDistribution
	}
	lpoints, spoints, err := distribution(traj, mol, s.cutoff, axes, s.start, s.end, s.stride, o)
	if err != nil {
		return err
	}
	log.Printf("%d frames processed: %d liquid points in the contact layer, %d solid points", lpoints.Frames(), lpoints.Len(), spoints.Len())
	if err := writePoints(s.prefix+"_liquid.dat", lpoints); err != nil {
		return err
	}
	if err := writePoints(s.prefix+"_solid.dat", spoints); err != nil {
		return err
	}
	if lpoints.Len() == 0 {
		log.Printf("No liquid atoms in the contact layer, the density map will not be written")
		return nil
	}
	density, err := contact.AutoDensity(lpoints, s.nx, s.ny)
	if err != nil {
		return err
	}
	b, err := json.Marshal(density)
	if err != nil {
		return err
	}
	return os.WriteFile(s.prefix+"_density.json", b, 0644)
}
