/*
 * histo.go, part of confwater.
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
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram, with the limits of its bins (dividers) and the count, or frequency,
//if normalized, for each bin.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//NewData returns a new histogram from the dividers and rawdata given
//rawdata can be nil. In that case, an empty histogram is created.
//if an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1. rawdata is not modified.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	d := new(Data)
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

//ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

//Total returns the number of data points in the histogram.
func (D *Data) Total() int {
	return D.total
}

//AddData adds the given data point(s) to the histogram. Points outside
//the dividers are not counted.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		if j := floats.Within(D.dividers, v); j >= 0 {
			D.histo[j]++
			D.total++
		}
	}
	if norma {
		D.Normalize()
	}
}

//ReHisto replaces the histogram with one built from dividers and rawdata.
//Values outside the dividers are omitted. rawdata is not modified.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	//stat.Histogram panics with the values that are off limits, so they are removed before the call.
	maxi := sort.SearchFloat64s(data, dividers[len(dividers)-1])
	data = data[:maxi]
	mini := sort.SearchFloat64s(data, dividers[0])
	data = data[mini:]
	if &D.dividers[0] != &dividers[0] {
		D.dividers = append(D.dividers[:0], dividers...)
	}
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, data, nil)
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//Copy copies the bins of the histogram into dest, if given
//and large enough, or in a new slice, and returns the copy.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

//View returns the bins of the histogram, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of all the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

type jsonData struct {
	ID         int       `json:"id"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}

/*****Matrix*****/

//Matrix is a matrix of histograms, all sharing the same dividers.
type Matrix struct {
	rows, cols int
	d          []*Data //row-major
	dividers   []float64
}

//NewMatrix returns a new r x c matrix of empty histograms with the given dividers.
func NewMatrix(r, c int, dividers []float64) *Matrix {
	ret := new(Matrix)
	ret.rows = r
	ret.cols = c
	ret.d = make([]*Data, r*c)
	ret.dividers = append([]float64(nil), dividers...)
	for i := range ret.d {
		ret.d[i] = NewData(ret.dividers, nil, i)
	}
	return ret
}

//Dims returns the number of rows and columns of the matrix.
func (M *Matrix) Dims() (int, int) {
	return M.rows, M.cols
}

//Dividers returns the dividers shared by all the histograms (not a copy).
func (M *Matrix) Dividers() []float64 {
	return M.dividers
}

//returns the index in the []*Data slice of a matrix given
//the row and column indexes.
func (M *Matrix) rc2i(r, c int) int {
	if err := M.Check(r, c); err != nil {
		panic(err.Error())
	}
	return M.cols*r + c
}

//Check returns an error if the given row and column indexes are not within range.
func (M *Matrix) Check(r, c int) error {
	if r < 0 || r >= M.rows {
		return fmt.Errorf("histo: Row %d out of range", r)
	}
	if c < 0 || c >= M.cols {
		return fmt.Errorf("histo: Column %d out of range", c)
	}
	return nil
}

//NewHisto puts a new histogram with the data in rawdata in the r,c position in the matrix.
func (M *Matrix) NewHisto(r, c int, rawdata []float64) {
	i := M.rc2i(r, c)
	M.d[i] = NewData(M.dividers, rawdata, i)
}

//View Returns a view of the histogram in the r,c position in the matrix
func (M *Matrix) View(r, c int) *Data {
	return M.d[M.rc2i(r, c)]
}

//AddData adds one or more data points to the histogram in the r,c position in the matrix
func (M *Matrix) AddData(r, c int, point ...float64) {
	M.d[M.rc2i(r, c)].AddData(point...)
}

//Total returns the number of data points in all the histograms.
func (M *Matrix) Total() int {
	t := 0
	for _, v := range M.d {
		t += v.total
	}
	return t
}

type jsonMatrix struct {
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	D        []*Data   `json:"data"`
	Dividers []float64 `json:"dividers"`
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMatrix{Rows: M.rows, Cols: M.cols, D: M.d, Dividers: M.dividers})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a jsonMatrix
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.D) != a.Rows*a.Cols {
		return fmt.Errorf("histo: %d histograms for a %dx%d matrix", len(a.D), a.Rows, a.Cols)
	}
	M.rows = a.Rows
	M.cols = a.Cols
	M.d = a.D
	M.dividers = a.Dividers
	return nil
}

//Grid bins the 2D points (x[i], y[i]). It returns a matrix with one row per x bin
//and a single column, where each element is the histogram, over ydividers, of the
//points that fall in that x bin. Points outside the dividers in either
//direction are omitted. Both sets of dividers must be strictly increasing, with at least 2 elements.
func Grid(xdividers, ydividers, x, y []float64) (*Matrix, error) {
	for _, d := range [][]float64{xdividers, ydividers} {
		if len(d) < 2 {
			return nil, fmt.Errorf("histo: At least 2 dividers are needed, %d given", len(d))
		}
		for i := 1; i < len(d); i++ {
			if !(d[i] > d[i-1]) {
				return nil, fmt.Errorf("histo: Dividers must be strictly increasing")
			}
		}
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("histo: %d x values for %d y values", len(x), len(y))
	}
	rows := make([][]float64, len(xdividers)-1)
	for i, v := range x {
		if r := floats.Within(xdividers, v); r >= 0 {
			rows[r] = append(rows[r], y[i])
		}
	}
	M := NewMatrix(len(rows), 1, ydividers)
	for r, data := range rows {
		if len(data) > 0 {
			M.NewHisto(r, 0, data)
		}
	}
	return M, nil
}
