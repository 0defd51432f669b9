/*
 * histo_test.go, part of confwater.
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

package histo

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestData(Te *testing.T) {
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	orig := append([]float64(nil), rawdata...)
	d := NewData([]float64{0, 1, 2, 3, 4, 8}, rawdata, 7)
	if !cmp.Equal(rawdata, orig) {
		Te.Errorf("NewData modified the raw data")
	}
	//8, 44 and 32 are out of range.
	want := []float64{2, 6, 2, 7, 9}
	if diff := cmp.Diff(want, d.View()); diff != "" {
		Te.Errorf("Wrong histogram (-want +got):\n%s", diff)
	}
	if d.Total() != 26 || d.Sum() != 26 || d.ID() != 7 {
		Te.Errorf("Wrong total %d, sum %f or ID %d", d.Total(), d.Sum(), d.ID())
	}
	d.Normalize()
	if s := d.Sum(); s < 1-1e-12 || s > 1+1e-12 {
		Te.Errorf("Normalized histogram sums to %f", s)
	}
	d.AddData(0.5, 100)
	if !d.Normalized() || d.Total() != 27 {
		Te.Errorf("AddData should keep the normalization and count only in-range points")
	}
	d.UnNormalize()
	if d.View()[0] < 3-1e-9 || d.View()[0] > 3+1e-9 {
		Te.Errorf("Expected 3 points in the first bin, got %f", d.View()[0])
	}
}

func TestGrid(Te *testing.T) {
	x := []float64{0.5, 0.5, 1.5, 2.5, 9, -1}
	y := []float64{0.1, 1.9, 1.1, 0.2, 0.5, 0.5}
	M, err := Grid([]float64{0, 1, 2, 3}, []float64{0, 1, 2}, x, y)
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := M.Dims(); r != 3 || c != 1 {
		Te.Fatalf("Wrong dimensions %d x %d", r, c)
	}
	want := [][]float64{{1, 1}, {0, 1}, {1, 0}}
	for i, w := range want {
		if diff := cmp.Diff(w, M.View(i, 0).View()); diff != "" {
			Te.Errorf("Row %d (-want +got):\n%s", i, diff)
		}
	}
	if M.Total() != 4 {
		Te.Errorf("Expected 4 points in range, got %d", M.Total())
	}
	if _, err := Grid([]float64{0, 0}, []float64{0, 1}, nil, nil); err == nil {
		Te.Errorf("Non-increasing dividers should be an error")
	}
	if _, err := Grid([]float64{0, 1}, []float64{0, 1}, []float64{1}, nil); err == nil {
		Te.Errorf("Mismatched coordinates should be an error")
	}
}

func TestMatrixJSON(Te *testing.T) {
	M := NewMatrix(2, 2, []float64{0, 1, 2, 3})
	M.NewHisto(0, 1, []float64{0.5, 1.5, 1.6, 2.2})
	M.AddData(1, 0, 2.5)
	j, err := json.Marshal(M)
	if err != nil {
		Te.Fatal(err)
	}
	M2 := new(Matrix)
	if err := json.Unmarshal(j, M2); err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(M.View(0, 1).View(), M2.View(0, 1).View()); diff != "" {
		Te.Errorf("Histogram changed after JSON round trip:\n%s", diff)
	}
	if M2.Total() != 5 {
		Te.Errorf("Expected 5 points after JSON round trip, got %d", M2.Total())
	}
	if err := json.Unmarshal([]byte(`{"rows":2,"cols":2,"data":[],"dividers":[0,1]}`), M2); err == nil {
		Te.Errorf("Inconsistent JSON should be an error")
	}
}
