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


package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/config"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/synth"
	"github.com/spf13/cobra"
)

type fitFlags struct {
	measured string
	column   string
	free     []string
	fixT     bool
	tMin     float64
	tMax     float64
	evals    int
}

func fitCmd(a *app) *cobra.Command {
	var (
		f  synthFlags
		ff fitFlags
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the temperature and concentrations of a mixture to a measured spectrum",
		Long: `Fit the temperature, and optionally the concentrations, of a gas mixture to a
measured spectrum, by least squares.

The molecules, pressure and path length are given as for synth, and the temperature
and concentrations given there are the starting point. The measured spectrum is a
spectrum file with a wavenumber column; the fit uses its wavenumbers as the grid, so
--start, --end and --res are ignored. The fitted column can be coef_total (absorption
coefficient, cm2/molecule), OD, Ab or Tr. The spectrum at the optimum can be written,
plotted or archived like a synth run.

Example:
  gohitran fit -q data/q --par data/co2.par:0.1 -T 800 -p 1 -l 10 \
      --measured flame.tsv --column Tr --fit-concentration CO2 -o fitted.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			C, err := f.runConfig(cmd.Flags().Changed, a.env)
			if err != nil {
				return err
			}
			return runFit(cmd.Context(), C, ff, cmd.OutOrStdout())
		},
	}
	f.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&ff.measured, "measured", "", "Measured spectrum file (required)")
	fl.StringVar(&ff.column, "column", specio.ColCoef, "Measured column: coef_total, OD, Ab or Tr")
	fl.StringSliceVar(&ff.free, "fit-concentration", nil, "Molecules whose concentration is fitted, comma separated")
	fl.BoolVar(&ff.fixT, "fix-temperature", false, "Keep the temperature, fit only concentrations")
	fl.Float64Var(&ff.tMin, "t-min", synth.DefaultFitTMin, "Lowest temperature allowed, K")
	fl.Float64Var(&ff.tMax, "t-max", synth.DefaultFitTMax, "Highest temperature allowed, K")
	fl.IntVar(&ff.evals, "max-evaluations", synth.DefaultFitEvaluations, "Spectra computed per minimization")
	return cmd
}

//measuredSpectrum reads the wavenumbers and the named column of a spectrum file. Absorbance
//and transmittance are turned into optical depths. It returns true if the values are
//optical depths.
func measuredSpectrum(name, column string) (wn, y []float64, od bool, err error) {
	t, err := specio.LoadSpectrum(name)
	if err != nil {
		return nil, nil, false, err
	}
	wn, _ = t.Column(specio.ColWavenumber)
	v, ok := t.Column(column)
	if !ok {
		return nil, nil, false, hitran.Errorf(hitran.ErrInvalidParameter, "no column %s in %s, the columns are %s", column, name, strings.Join(t.Names, ", "))
	}
	y = make([]float64, len(v))
	switch column {
	case specio.ColCoef:
		copy(y, v)
		return wn, y, false, nil
	case specio.ColOD:
		copy(y, v)
	case specio.ColAb:
		for i, a := range v {
			y[i] = -math.Log1p(-a)
		}
	case specio.ColTr:
		for i, tr := range v {
			y[i] = -math.Log(tr)
		}
	default:
		return nil, nil, false, hitran.Errorf(hitran.ErrInvalidParameter, "can't fit column %s, use coef_total, OD, Ab or Tr", column)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, false, hitran.Errorf(hitran.ErrDataError, "%s at %g cm-1 gives no finite optical depth", column, wn[i]).InFile(name, 0)
		}
	}
	return wn, y, true, nil
}

//runFit fits the run in C to the measured spectrum, prints the fitted parameters to w
//and writes the outputs requested in C for the spectrum at the optimum.
func runFit(ctx context.Context, C *config.RunConfig, ff fitFlags, w io.Writer) error {
	if ff.measured == "" {
		return hitran.Errorf(hitran.ErrInvalidParameter, "no measured spectrum, use --measured")
	}
	wn, y, od, err := measuredSpectrum(ff.measured, ff.column)
	if err != nil {
		return err
	}
	S, cond, err := loadSession(C)
	if err != nil {
		return err
	}
	opts, err := C.Options()
	if err != nil {
		return err
	}
	F := synth.FitOptions{
		FixT:           ff.fixT,
		Concentrations: ff.free,
		TMin:           ff.tMin,
		TMax:           ff.tMax,
		OpticalDepth:   od,
		MaxEvaluations: ff.evals,
	}
	res, err := synth.Fit(ctx, S.Datasets(), cond, wn, y, opts, F)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Fitted to %s (%s, %d points)\n", ff.measured, ff.column, len(wn))
	fmt.Fprintf(w, "T: %.2f K\n", res.T)
	for i, v := range res.Spectrum.Names {
		fmt.Fprintf(w, "Concentration of %s: %.6g\n", v, res.Concentrations[i])
	}
	fmt.Fprintf(w, "Relative residual: %.4g\n", res.Residual)
	fmt.Fprintf(w, "Spectra computed: %d (%s)\n", res.Evaluations, res.Status)
	if !res.Converged {
		fmt.Fprintln(w, "Warning: the fit did not converge")
	}
	return writeOutputs(ctx, C, res.Spectrum, w)
}
