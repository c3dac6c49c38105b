/*
 * mixture.go, part of gohitran.
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
	"context"
	"math"

	"github.com/rmera/gohitran"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

//Result is the outcome of a mixture synthesis. It is not modified after it is
//returned, so it can be read concurrently.
type Result struct {
	Wavenumbers    []float64   //cm-1
	Names          []string    //molecules, in the order they were given
	Concentrations []float64   //mole fraction of each molecule
	Isotopologues  []hitran.IsotopologueInfo
	LineCounts     []int
	Coefficients   [][]float64 //absorption coefficient of each molecule, cm2/molecule
	Total          []float64   //sum of Coefficients
	OD             []float64   //total optical depth
	Ab             []float64   //absorbance, 1-Tr
	Tr             []float64   //transmittance, exp(-OD)
	MoleculeOD     [][]float64 //optical depth of each molecule
	Conditions     Conditions
	Options        Options
	Resolution     float64
}

//Len returns the number of grid points.
func (R *Result) Len() int { return len(R.Wavenumbers) }

//Index returns the position of the molecule name in the result, or -1.
func (R *Result) Index(name string) int {
	for i, v := range R.Names {
		if v == name {
			return i
		}
	}
	return -1
}

//Aggregate combines the absorption coefficients of several molecules, on the same grid, at
//temperature T (K), pressure p (atm) and path length l (cm). It returns the total optical
//depth, the absorbance, the transmittance, and the optical depth of each molecule.
//The total number density n = p/(kB T) is used for all molecules, as each coefficient
//already depends on its concentration.
func Aggregate(coefs [][]float64, T, p, l float64) (od, ab, tr []float64, perOD [][]float64, err error) {
	_, od, ab, tr, perOD, err = aggregate(coefs, T, p, l)
	return
}

func aggregate(coefs [][]float64, T, p, l float64) (total, od, ab, tr []float64, perOD [][]float64, err error) {
	if len(coefs) == 0 {
		err = hitran.NewError(hitran.ErrNoMoleculesLoaded, "nothing to aggregate", "Aggregate")
		return
	}
	if err = (Conditions{T: T, P: p, PathLength: l}).Check(); err != nil {
		err = hitran.ErrDecorate(err, "Aggregate")
		return
	}
	n := len(coefs[0])
	for i, v := range coefs {
		if len(v) != n {
			err = hitran.Errorf(hitran.ErrInvalidParameter, "coefficient %d has %d points, %d expected", i, len(v), n)
			return
		}
	}
	factor := hitran.NumberDensity(T, p) * l
	total = make([]float64, n)
	for _, v := range coefs {
		floats.Add(total, v)
	}
	od = floats.ScaleTo(make([]float64, n), factor, total)
	tr = make([]float64, n)
	ab = make([]float64, n)
	for i, v := range od {
		tr[i] = math.Exp(-v)
		ab[i] = -math.Expm1(-v)
	}
	perOD = make([][]float64, len(coefs))
	for i, v := range coefs {
		perOD[i] = floats.ScaleTo(make([]float64, n), factor, v)
	}
	return total, od, ab, tr, perOD, nil
}

//SynthesizeMixture computes the spectrum of the mixture of the molecules in datasets, under
//the conditions cond. If grid is nil, a grid covering all the line lists with a step of
//opts.Resolution is used.
func SynthesizeMixture(ctx context.Context, datasets []*hitran.MoleculeDataset, cond Conditions, grid *Grid, opts Options) (*Result, error) {
	if len(datasets) == 0 {
		return nil, hitran.NewError(hitran.ErrNoMoleculesLoaded, "", "SynthesizeMixture")
	}
	if err := cond.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "SynthesizeMixture")
	}
	opts = opts.withDefaults()
	if grid == nil {
		g, err := CoverageGrid(datasets, opts.Resolution)
		if err != nil {
			return nil, hitran.ErrDecorate(err, "SynthesizeMixture")
		}
		grid = &g
	}
	R := &Result{
		Wavenumbers: grid.Wavenumbers(),
		Conditions:  cond,
		Options:     opts,
		Resolution:  grid.Resolution(),
	}
	for _, d := range datasets {
		log.Info().Str("molecule", d.Name).Int("lines", d.Len()).Int("points", grid.Len()).Msg("computing absorption coefficient")
		c, err := Synthesize(ctx, d, cond, *grid, opts)
		if err != nil {
			return nil, hitran.ErrDecorate(err, "SynthesizeMixture")
		}
		R.Names = append(R.Names, d.Name)
		R.Concentrations = append(R.Concentrations, d.Concentration)
		R.Isotopologues = append(R.Isotopologues, d.Info)
		R.LineCounts = append(R.LineCounts, d.Len())
		R.Coefficients = append(R.Coefficients, c)
	}
	var err error
	R.Total, R.OD, R.Ab, R.Tr, R.MoleculeOD, err = aggregate(R.Coefficients, cond.T, cond.P, cond.PathLength)
	if err != nil {
		return nil, hitran.ErrDecorate(err, "SynthesizeMixture")
	}
	return R, nil
}
