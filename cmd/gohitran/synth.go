/*
 * synth.go, part of gohitran.
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
	"strconv"
	"strings"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/config"
	"github.com/rmera/gohitran/specdb"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/specplot"
	"github.com/rmera/gohitran/synth"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultPlotQuantity = "od"

type synthFlags struct {
	config       string
	pars         []string
	qFolder      string
	T, p, l      float64
	start, end   float64
	res          float64
	omega        float64
	workers      int
	profile      string
	beta         float64
	qRounding    string
	state        string
	output       string
	plot         string
	plotQuantity string
	db           string
	note         string
}

func synthCmd(a *app) *cobra.Command {
	var f synthFlags
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Compute the absorption spectrum of a gas mixture",
		Long: `Compute the absorption spectrum of a gas mixture.

The molecules and conditions are read from a run file (--config, YAML or TOML),
from the flags, or both, the flags taking precedence. Each --par adds a line list.

Examples:
  # CO2 and CO at 600 K, 1 atm, 10 cm path
  gohitran synth -q data/q --par data/co2.par:0.1 --par data/co.par.zst:0.05 \
      -T 600 -p 1 -l 10 --start 2000 --end 2400 -o spectrum.tsv.gz --plot od.png

  # conditions and concentrations from an equilibrium calculation
  gohitran synth -c run.yaml --state equilibrium.yaml --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			C, err := f.runConfig(cmd.Flags().Changed, a.env)
			if err != nil {
				return err
			}
			return runSynth(cmd.Context(), C, cmd.OutOrStdout())
		},
	}
	f.register(cmd)
	return cmd
}

//register adds the flags of the run configuration to cmd.
func (f *synthFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "Run file, YAML or TOML")
	fl.StringArrayVar(&f.pars, "par", nil, "Line list to add, as file:concentration[:name]. Can be repeated")
	fl.StringVarP(&f.qFolder, "q", "q", "", "Folder with the partition functions (q<molecule id>.txt)")
	fl.Float64VarP(&f.T, "temperature", "T", config.DefaultTemperature, "Temperature, K")
	fl.Float64VarP(&f.p, "pressure", "p", config.DefaultPressure, "Pressure, atm")
	fl.Float64VarP(&f.l, "path-length", "l", config.DefaultPathLength, "Path length, cm")
	fl.Float64Var(&f.start, "start", 0, "First wavenumber of the grid, cm-1 (default: coverage of the line lists)")
	fl.Float64Var(&f.end, "end", 0, "End of the grid, cm-1, not included")
	fl.Float64Var(&f.res, "res", config.DefaultResolution, "Grid resolution, cm-1")
	fl.Float64Var(&f.omega, "omega", config.DefaultOmegaWing, "Half width of the line window, in line half widths")
	fl.IntVar(&f.workers, "workers", synth.DefaultWorkers, "Goroutines per molecule")
	fl.StringVar(&f.profile, "profile", config.DefaultProfile, "Line profile: voigt or dicke")
	fl.Float64Var(&f.beta, "beta", 0, "Dicke narrowing parameter, cm-1/atm")
	fl.StringVar(&f.qRounding, "q-rounding", config.DefaultQRounding, "Partition function evaluation: interpolate or round")
	fl.StringVar(&f.state, "state", "", "Gas state file (YAML or JSON) with T, p in Pa, and mole fractions")
	fl.StringVarP(&f.output, "output", "o", "", "Spectrum file; .gz, .zst, .z and .lzw are compressed")
	fl.StringVar(&f.plot, "plot", "", "Plot file (.png, .svg, .pdf)")
	fl.StringVar(&f.plotQuantity, "plot-quantity", defaultPlotQuantity, "Plotted quantity: coef, od, ab or tr")
	fl.StringVar(&f.db, "db", "", "SQLite run archive to store the run in")
	fl.StringVar(&f.note, "note", "", "Note stored with the run")
}

//runConfig builds the configuration of the run: the run file if any, then the environment,
//then the flags that were set.
func (f *synthFlags) runConfig(changed func(string) bool, env config.Env) (*config.RunConfig, error) {
	C := config.Default()
	if f.config != "" {
		var err error
		if C, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	C.Apply(env)
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}
	set("q", func() { C.PartitionFolder = f.qFolder })
	set("temperature", func() { C.Temperature = f.T })
	set("pressure", func() { C.Pressure = f.p })
	set("path-length", func() { C.PathLength = f.l })
	set("start", func() { C.Grid.Start = f.start })
	set("end", func() { C.Grid.End = f.end })
	set("res", func() { C.Grid.Resolution = f.res })
	set("omega", func() { C.OmegaWing = f.omega })
	set("workers", func() { C.Workers = f.workers })
	set("profile", func() { C.Profile = f.profile })
	set("beta", func() { C.Beta = f.beta })
	set("q-rounding", func() { C.QRounding = f.qRounding })
	set("state", func() { C.StateFile = f.state })
	set("output", func() { C.Output = f.output })
	set("plot", func() { C.Plot = f.plot })
	set("plot-quantity", func() { C.PlotQuantity = f.plotQuantity })
	set("db", func() { C.Database = f.db })
	set("note", func() { C.Note = f.note })
	for _, v := range f.pars {
		m, err := parseMolecule(v)
		if err != nil {
			return nil, err
		}
		C.Molecules = append(C.Molecules, m)
	}
	if err := C.Validate(); err != nil {
		return nil, err
	}
	return C, nil
}

//parseMolecule reads a file:concentration[:name] argument. The fields are taken from
//the right, so the file name can contain colons (C:\data\co2.par:0.1). A name is
//recognized when the field before it is a number.
func parseMolecule(s string) (config.MoleculeConfig, error) {
	var m config.MoleculeConfig
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return m, hitran.Errorf(hitran.ErrInvalidParameter, "line list %q not in the form file:concentration[:name]", s)
	}
	file, conc := s[:i], s[i+1:]
	if j := strings.LastIndex(file, ":"); j > 0 {
		if _, err := strconv.ParseFloat(file[j+1:], 64); err == nil {
			m.Name = conc
			file, conc = file[:j], file[j+1:]
		}
	}
	c, err := strconv.ParseFloat(conc, 64)
	if err != nil {
		return m, hitran.Errorf(hitran.ErrInvalidParameter, "concentration in %q: %v", s, err)
	}
	m.File, m.Concentration = file, c
	return m, nil
}

//loadSession reads the molecules of C, and the gas state file if one is given, and
//returns them with the conditions of the run.
func loadSession(C *config.RunConfig) (*synth.Session, synth.Conditions, error) {
	S := synth.NewSession(C.PartitionFolder)
	cond := C.Conditions()
	for _, m := range C.Molecules {
		d, err := hitran.LoadMolecule(m.File, C.PartitionFolder, m.Concentration, m.Name)
		if err != nil {
			return nil, cond, err
		}
		//unlike Load, Insert refuses a name already in the session.
		if !S.Insert(d) {
			return nil, cond, hitran.Errorf(hitran.ErrInvalidParameter, "molecule %s of %s already loaded from another line list, give it a name with file:concentration:name", d.Name, m.File)
		}
	}
	if C.StateFile != "" {
		G, err := config.LoadGasState(C.StateFile)
		if err != nil {
			return nil, cond, err
		}
		if err := G.ApplyTo(S, &cond); err != nil {
			return nil, cond, err
		}
		if S.Len() == 0 {
			return nil, cond, hitran.Errorf(hitran.ErrNoMoleculesLoaded, "all the molecules have a zero mole fraction in %s", C.StateFile)
		}
	}
	return S, cond, nil
}

//runSynth loads the molecules, computes the spectrum, prints its summary to w and writes
//the outputs requested in C.
func runSynth(ctx context.Context, C *config.RunConfig, w io.Writer) error {
	S, cond, err := loadSession(C)
	if err != nil {
		return err
	}
	opts, err := C.Options()
	if err != nil {
		return err
	}
	grid, err := C.SynthGrid()
	if err != nil {
		return err
	}
	start := time.Now()
	r, err := S.Synthesize(ctx, cond, grid, opts)
	if err != nil {
		return err
	}
	log.Info().Int("points", r.Len()).Int("molecules", len(r.Names)).Dur("elapsed", time.Since(start)).Msg("synthesis done")
	fmt.Fprint(w, S.DescribeAll())
	fmt.Fprintf(w, "\nT: %g K, p: %g atm, path length: %g cm\n", cond.T, cond.P, cond.PathLength)
	fmt.Fprint(w, synth.Summarize(r))
	return writeOutputs(ctx, C, r, w)
}

//writeOutputs writes the spectrum file, the plot and the archive entry requested in C.
func writeOutputs(ctx context.Context, C *config.RunConfig, r *synth.Result, w io.Writer) error {
	if C.Output != "" {
		meta := specio.Header{Program: "gohitran " + version, Created: time.Now()}
		if C.Note != "" {
			meta.Notes = []string{"note: " + C.Note}
		}
		if err := specio.SaveSpectrum(C.Output, r, meta); err != nil {
			return err
		}
		fmt.Fprintf(w, "Spectrum written to %s\n", C.Output)
	}
	if C.Plot != "" {
		name := C.PlotQuantity
		if name == "" {
			name = defaultPlotQuantity
		}
		q, err := specplot.ParseQuantity(name)
		if err != nil {
			return err
		}
		if err := specplot.PlotResult(r, q, plotTitle(r), C.Plot); err != nil {
			return err
		}
		fmt.Fprintf(w, "Plot written to %s\n", C.Plot)
	}
	if C.Database != "" {
		store, err := specdb.Open(C.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, r, C.Note)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Run %s saved to %s\n", id, C.Database)
	}
	return nil
}

func plotTitle(r *synth.Result) string {
	c := r.Conditions
	return fmt.Sprintf("%s, %g K, %g atm, %g cm", strings.Join(r.Names, " + "), c.T, c.P, c.PathLength)
}
