/*
 * grid.go, part of gohitran.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package synth

import (
	"math"
	"sort"

	"github.com/rmera/gohitran"
)

//maxGridPoints bounds the size of a grid built from a range and a resolution.
const maxGridPoints = 1 << 27

//Grid is an ascending wavenumber axis, in cm-1. It is shared read-only by all
//the molecules in a synthesis.
type Grid struct {
	wn         []float64
	resolution float64 //0 for grids not built from a resolution
}

//NewGrid returns the grid start, start+resolution, ... up to, but not including, end.
//If start == end the grid has the single point start.
func NewGrid(start, end, resolution float64) (Grid, error) {
	switch {
	case !(resolution > 0) || math.IsInf(resolution, 0):
		return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "resolution must be positive, got %g", resolution)
	case math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0):
		return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "invalid grid range [%g, %g]", start, end)
	case end < start:
		return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "grid end %g is below its start %g", end, start)
	case start == end:
		return Grid{wn: []float64{start}, resolution: resolution}, nil
	}
	steps := math.Ceil((end - start) / resolution)
	if steps > maxGridPoints {
		return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "grid [%g, %g] with resolution %g has too many points (%g)", start, end, resolution, steps)
	}
	n := int(steps)
	//the division above can round up to a point that lands on end.
	for n > 1 && start+float64(n-1)*resolution >= end {
		n--
	}
	wn := make([]float64, n)
	for i := range wn {
		wn[i] = start + float64(i)*resolution
	}
	return Grid{wn: wn, resolution: resolution}, nil
}

//GridFrom returns a grid with the given wavenumbers, which must be strictly ascending.
//The slice is copied.
func GridFrom(wavenumbers []float64) (Grid, error) {
	for i := 1; i < len(wavenumbers); i++ {
		if !(wavenumbers[i] > wavenumbers[i-1]) {
			return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "wavenumbers not ascending at index %d", i)
		}
	}
	wn := append([]float64(nil), wavenumbers...)
	G := Grid{wn: wn}
	if len(wn) > 1 {
		G.resolution = (wn[len(wn)-1] - wn[0]) / float64(len(wn)-1)
	}
	return G, nil
}

//CoverageGrid returns the grid spanning the coverage of all the datasets, with the
//given resolution.
func CoverageGrid(datasets []*hitran.MoleculeDataset, resolution float64) (Grid, error) {
	if len(datasets) == 0 {
		return Grid{}, hitran.Errorf(hitran.ErrInvalidParameter, "no explicit grid and no molecules to derive one from")
	}
	start, end := math.Inf(1), math.Inf(-1)
	for _, d := range datasets {
		start = math.Min(start, d.MinNu)
		end = math.Max(end, d.MaxNu)
	}
	return NewGrid(start, end, resolution)
}

//Len returns the number of points.
func (G Grid) Len() int { return len(G.wn) }

//Resolution returns the step of the grid, or the mean step for grids given
//point by point.
func (G Grid) Resolution() float64 { return G.resolution }

//Range returns the first and last wavenumbers, or two zeros for an empty grid.
func (G Grid) Range() (start, end float64) {
	if len(G.wn) == 0 {
		return 0, 0
	}
	return G.wn[0], G.wn[len(G.wn)-1]
}

//Wavenumbers returns a copy of the grid points.
func (G Grid) Wavenumbers() []float64 {
	return append([]float64(nil), G.wn...)
}

//At returns the i-th wavenumber.
func (G Grid) At(i int) float64 { return G.wn[i] }

//Window returns the indexes [i, j) of the grid points in the closed interval [lo, hi].
//i == j means there are none.
func (G Grid) Window(lo, hi float64) (i, j int) {
	i = sort.SearchFloat64s(G.wn, lo)
	j = i + sort.Search(len(G.wn)-i, func(k int) bool { return G.wn[i+k] > hi })
	return i, j
}
