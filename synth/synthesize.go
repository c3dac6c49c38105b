/*
 * synthesize.go, part of gohitran.
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
	"fmt"
	"math"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/lineshape"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

//Defaults for Options.
const (
	DefaultResolution = 0.001 //cm-1
	DefaultBatchSize  = 256
	//DefaultWorkers is the number of line blocks, and goroutines, per molecule. It does not
	//depend on the machine, so the order of the sums, and the result, do not either.
	DefaultWorkers = 8
)

//Conditions is the state of the gas and the geometry of the absorbing path.
type Conditions struct {
	T          float64 //temperature, K
	P          float64 //total pressure, atm
	PathLength float64 //cm
}

//Check returns an error wrapping hitran.ErrInvalidParameter if the conditions are not physical.
func (C Conditions) Check() error {
	switch {
	case !(C.T > 0) || math.IsInf(C.T, 0):
		return hitran.Errorf(hitran.ErrInvalidParameter, "temperature must be positive, got %g", C.T)
	case !(C.P >= 0) || math.IsInf(C.P, 0):
		return hitran.Errorf(hitran.ErrInvalidParameter, "pressure must be non-negative, got %g", C.P)
	case !(C.PathLength >= 0) || math.IsInf(C.PathLength, 0):
		return hitran.Errorf(hitran.ErrInvalidParameter, "path length must be non-negative, got %g", C.PathLength)
	}
	return nil
}

//Options control a synthesis. The zero value gives the defaults.
type Options struct {
	OmegaWing  float64 //half window, in units of the sum of Doppler and pressure half widths. Default hitran.DefaultWing
	Workers    int     //number of goroutines. Default DefaultWorkers
	BatchSize  int     //lines between checks of the context. Default DefaultBatchSize
	Profile    lineshape.Profile
	Beta       float64 //Dicke narrowing parameter, cm-1/atm
	QRounding  hitran.QRounding
	Resolution float64 //used only when the grid is derived from the line lists. Default DefaultResolution
}

func (O Options) withDefaults() Options {
	if O.OmegaWing == 0 {
		O.OmegaWing = hitran.DefaultWing
	}
	if O.Workers <= 0 {
		O.Workers = DefaultWorkers
	}
	if O.BatchSize <= 0 {
		O.BatchSize = DefaultBatchSize
	}
	if O.Resolution == 0 {
		O.Resolution = DefaultResolution
	}
	return O
}

//Check returns an error if an option has an invalid value.
func (O Options) Check() error {
	if !(O.OmegaWing > 0) || math.IsInf(O.OmegaWing, 0) {
		return hitran.Errorf(hitran.ErrInvalidParameter, "omega_wing must be positive, got %g", O.OmegaWing)
	}
	if O.Profile == lineshape.DickeProfile && O.Beta < 0 {
		return hitran.Errorf(hitran.ErrInvalidParameter, "negative Dicke parameter %g", O.Beta)
	}
	if !(O.Resolution > 0) {
		return hitran.Errorf(hitran.ErrInvalidParameter, "resolution must be positive, got %g", O.Resolution)
	}
	return nil
}

//Synthesize returns the absorption coefficient of the molecule in ds, in cm2/molecule,
//at each point of grid.
//Each line contributes only to the grid points within OmegaWing times the sum of its
//Doppler and pressure half widths from its position.
//The lines are split in Options.Workers contiguous blocks, each accumulated in file
//order by its own goroutine, and the partial sums are added in block order, so the
//result is reproducible for a given number of workers. The context is checked every
//Options.BatchSize lines.
func Synthesize(ctx context.Context, ds *hitran.MoleculeDataset, cond Conditions, grid Grid, opts Options) ([]float64, error) {
	opts = opts.withDefaults()
	if err := cond.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "Synthesize")
	}
	if err := opts.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "Synthesize")
	}
	if ds == nil {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "nil dataset")
	}
	state := lineshape.State{T: cond.T, P: cond.P, C: ds.Concentration}
	if err := state.Check(); err != nil {
		return nil, hitran.ErrDecorate(err, "Synthesize")
	}
	coef := make([]float64, grid.Len())
	nlines := ds.Len()
	if grid.Len() == 0 || nlines == 0 {
		return coef, nil
	}
	scaler, err := hitran.NewScaler(ds.Partition, cond.T, opts.QRounding)
	if err != nil {
		return nil, hitran.ErrDecorate(err, "Synthesize")
	}
	start := time.Now()
	workers := opts.Workers
	if workers > nlines {
		workers = nlines
	}
	chunk := (nlines + workers - 1) / workers
	partials := make([][]float64, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > nlines {
			hi = nlines
		}
		if lo >= hi {
			continue
		}
		w := w
		g.Go(func() error {
			acc, err := accumulate(gctx, ds, lo, hi, state, scaler, grid, opts)
			partials[w] = acc
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis of %s: %w", ds.Name, ctx.Err())
		}
		return nil, hitran.ErrDecorate(err, "Synthesize")
	}
	for _, p := range partials {
		if p != nil {
			floats.Add(coef, p)
		}
	}
	log.Debug().Str("molecule", ds.Name).Int("lines", nlines).Int("points", grid.Len()).Int("workers", workers).Dur("elapsed", time.Since(start)).Msg("molecule synthesized")
	return coef, nil
}

//accumulate adds the contributions of the lines [lo, hi) of ds on a new array.
func accumulate(ctx context.Context, ds *hitran.MoleculeDataset, lo, hi int, state lineshape.State, scaler *hitran.Scaler, grid Grid, opts Options) ([]float64, error) {
	acc := make([]float64, grid.Len())
	var buf []float64
	for i := lo; i < hi; i++ {
		if (i-lo)%opts.BatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := ds.Lines[i]
		shape, err := lineshape.NewShape(opts.Profile, lineshape.FromSpectral(line, ds.Mass), state, opts.Beta)
		if err != nil {
			return nil, err
		}
		W := opts.OmegaWing * shape.HalfWidth()
		a, b := grid.Window(line.Nu-W, line.Nu+W)
		if a >= b {
			continue
		}
		buf = shape.Eval(buf, grid.wn[a:b])
		floats.AddScaled(acc[a:b], scaler.Scale(line), buf)
	}
	return acc, nil
}
