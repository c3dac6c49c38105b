/*
 * fit.go, part of gohitran.
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
	"time"

	"github.com/rmera/gohitran"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

//Defaults for FitOptions.
const (
	DefaultFitTMin        = 300.0 //K
	DefaultFitTMax        = 3000.0
	DefaultFitEvaluations = 2000
	DefaultFitTolerance   = 1e-10
	DefaultFitRestarts    = 4
	DefaultFitTDelta      = 0.1 //K
)

//FitOptions control a fit.
type FitOptions struct {
	FixT           bool     //keep the temperature of the conditions, fit only concentrations
	Concentrations []string //molecules whose concentration is fitted. The others are kept
	TMin, TMax     float64  //bounds of the temperature. Default DefaultFitTMin, DefaultFitTMax
	OpticalDepth   bool     //the measured values are optical depths, not absorption coefficients
	MaxEvaluations int      //spectra computed per minimization. Default DefaultFitEvaluations
	Tolerance      float64  //relative decrease of the residual taken as no progress. Default DefaultFitTolerance
	Restarts       int      //maximum number of minimizations. Default DefaultFitRestarts
	TDelta         float64  //the fit stops restarting when T moves less than this. Default DefaultFitTDelta
}

func (F FitOptions) withDefaults() FitOptions {
	if F.TMin == 0 {
		F.TMin = DefaultFitTMin
	}
	if F.TMax == 0 {
		F.TMax = DefaultFitTMax
	}
	if F.MaxEvaluations <= 0 {
		F.MaxEvaluations = DefaultFitEvaluations
	}
	if F.Tolerance <= 0 {
		F.Tolerance = DefaultFitTolerance
	}
	if F.Restarts <= 0 {
		F.Restarts = DefaultFitRestarts
	}
	if F.TDelta <= 0 {
		F.TDelta = DefaultFitTDelta
	}
	return F
}

//FitResult is the outcome of a fit.
type FitResult struct {
	T              float64
	Concentrations []float64 //of every molecule, fitted or not, in the order given
	Residual       float64   //sqrt(sum (model-measured)^2 / sum measured^2)
	Evaluations    int       //spectra computed
	Converged      bool
	Status         optimize.Status //of the last minimization
	Spectrum       *Result         //at the optimum
}

//fitProblem maps the free parameters, which are unbounded, to a temperature and
//concentrations within their bounds.
type fitProblem struct {
	ctx      context.Context
	datasets []*hitran.MoleculeDataset
	cond     Conditions
	grid     Grid
	measured []float64
	norm     float64 //sum of the squares of measured
	opts     Options
	fo       FitOptions
	free     []int //positions in datasets of the fitted concentrations
	model    []float64
	err      error
}

func logistic(u float64) float64 { return 1 / (1 + math.Exp(-u)) }

func logit(p float64) float64 {
	const eps = 1e-9
	p = math.Max(eps, math.Min(1-eps, p))
	return math.Log(p / (1 - p))
}

//params returns the temperature and the concentrations at x.
func (P *fitProblem) params(x []float64) (float64, []float64) {
	T := P.cond.T
	i := 0
	if !P.fo.FixT {
		T = P.fo.TMin + (P.fo.TMax-P.fo.TMin)*logistic(x[0])
		i = 1
	}
	c := make([]float64, len(P.datasets))
	for j, d := range P.datasets {
		c[j] = d.Concentration
	}
	for _, j := range P.free {
		c[j] = math.Max(logistic(x[i]), 1e-12)
		i++
	}
	return T, c
}

//start returns the free parameters that correspond to the initial guess.
func (P *fitProblem) start() []float64 {
	var x []float64
	if !P.fo.FixT {
		x = append(x, logit((P.cond.T-P.fo.TMin)/(P.fo.TMax-P.fo.TMin)))
	}
	for _, j := range P.free {
		x = append(x, logit(P.datasets[j].Concentration))
	}
	return x
}

//spectrum puts in P.model the quantity fitted at temperature T with concentrations c.
func (P *fitProblem) spectrum(T float64, c []float64) error {
	for i := range P.model {
		P.model[i] = 0
	}
	cond := P.cond
	cond.T = T
	for i, d := range P.datasets {
		if c[i] != d.Concentration {
			var err error
			if d, err = d.WithConcentration(c[i]); err != nil {
				return err
			}
		}
		k, err := Synthesize(P.ctx, d, cond, P.grid, P.opts)
		if err != nil {
			return err
		}
		floats.Add(P.model, k)
	}
	if P.fo.OpticalDepth {
		floats.Scale(hitran.NumberDensity(cond.T, cond.P)*cond.PathLength, P.model)
	}
	return nil
}

//residual is the function minimized. Errors stop the minimization through status.
func (P *fitProblem) residual(x []float64) float64 {
	if P.err != nil {
		return math.Inf(1)
	}
	T, c := P.params(x)
	if err := P.spectrum(T, c); err != nil {
		P.err = err
		return math.Inf(1)
	}
	return floats.Distance(P.model, P.measured, 2) / math.Sqrt(P.norm)
}

func (P *fitProblem) status() (optimize.Status, error) {
	if P.err != nil {
		return optimize.Failure, P.err
	}
	if err := P.ctx.Err(); err != nil {
		return optimize.Failure, err
	}
	return optimize.NotTerminated, nil
}

//Fit looks for the temperature, and the concentrations of the molecules named in
//F.Concentrations, whose spectrum on the wavenumbers wn best matches measured, in the
//least squares sense. The temperature and concentrations of cond and datasets are the
//starting point, and the pressure and path length are kept. The Nelder-Mead method is
//used on parameters mapped to the allowed ranges. The minimization is restarted from
//its result, up to F.Restarts times, until the temperature changes by less than F.TDelta.
func Fit(ctx context.Context, datasets []*hitran.MoleculeDataset, cond Conditions, wn, measured []float64, opts Options, F FitOptions) (*FitResult, error) {
	F = F.withDefaults()
	opts = opts.withDefaults()
	if len(datasets) == 0 {
		return nil, hitran.NewError(hitran.ErrNoMoleculesLoaded, "", "Fit")
	}
	if err := cond.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "Fit")
	}
	if err := opts.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "Fit")
	}
	switch {
	case len(wn) != len(measured):
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "%d wavenumbers for %d measured values", len(wn), len(measured))
	case len(wn) == 0:
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "empty measured spectrum")
	case floats.HasNaN(measured):
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "NaN in the measured spectrum")
	case !(F.TMin > 0 && F.TMax > F.TMin):
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "invalid temperature range [%g, %g]", F.TMin, F.TMax)
	case !F.FixT && (cond.T <= F.TMin || cond.T >= F.TMax):
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "initial temperature %g outside (%g, %g)", cond.T, F.TMin, F.TMax)
	}
	grid, err := GridFrom(wn)
	if err != nil {
		return nil, hitran.ErrDecorate(err, "Fit")
	}
	P := &fitProblem{
		ctx:      ctx,
		datasets: datasets,
		cond:     cond,
		grid:     grid,
		measured: measured,
		norm:     floats.Dot(measured, measured),
		opts:     opts,
		fo:       F,
		model:    make([]float64, len(wn)),
	}
	if P.norm == 0 {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "the measured spectrum is zero")
	}
	for _, name := range F.Concentrations {
		j := -1
		for i, d := range datasets {
			if d.Name == name {
				j = i
				break
			}
		}
		if j < 0 {
			return nil, hitran.Errorf(hitran.ErrInvalidParameter, "molecule %q not among the fitted ones", name)
		}
		P.free = append(P.free, j)
	}
	x := P.start()
	if len(x) == 0 {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "nothing to fit, the temperature is fixed and no concentration is free")
	}
	problem := optimize.Problem{Func: P.residual, Status: P.status}
	ret := &FitResult{T: cond.T}
	begin := time.Now()
	for i := 0; i < F.Restarts; i++ {
		settings := &optimize.Settings{
			FuncEvaluations: F.MaxEvaluations,
			Converger:       &optimize.FunctionConverge{Relative: F.Tolerance, Absolute: 1e-15, Iterations: 20 * len(x)},
		}
		res, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		if P.err != nil {
			return nil, hitran.ErrDecorate(P.err, "Fit")
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if err != nil {
			return nil, hitran.Errorf(hitran.ErrInvalidParameter, "minimization failed: %v", err)
		}
		ret.Evaluations += res.Stats.FuncEvaluations
		ret.Status = res.Status
		x = res.Location.X
		T, _ := P.params(x)
		log.Debug().Int("round", i+1).Float64("T", T).Float64("residual", res.Location.F).Str("status", res.Status.String()).Msg("fit round")
		done := math.Abs(T-ret.T) < F.TDelta && i > 0
		ret.T = T
		ret.Residual = res.Location.F
		ret.Converged = !res.Status.Early()
		if done || F.FixT {
			break
		}
	}
	ret.T, ret.Concentrations = P.params(x)
	fitted := make([]*hitran.MoleculeDataset, len(datasets))
	for i, d := range datasets {
		if fitted[i], err = d.WithConcentration(ret.Concentrations[i]); err != nil {
			return nil, hitran.ErrDecorate(err, "Fit")
		}
	}
	cond.T = ret.T
	if ret.Spectrum, err = SynthesizeMixture(ctx, fitted, cond, &grid, opts); err != nil {
		return nil, hitran.ErrDecorate(err, "Fit")
	}
	log.Info().Float64("T", ret.T).Floats64("concentrations", ret.Concentrations).Float64("residual", ret.Residual).Int("evaluations", ret.Evaluations).Dur("elapsed", time.Since(begin)).Msg("fit done")
	return ret, nil
}
