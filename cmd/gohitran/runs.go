/*
 * runs.go, part of gohitran.
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
	"strings"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/specdb"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/specplot"
	"github.com/rmera/gohitran/synth"
	"github.com/spf13/cobra"
)

func runsCmd(a *app) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the runs saved in a run archive",
		Long: `Inspect the runs saved in a run archive. The archive is given with --db or
GOHITRAN_DATABASE. Runs can be named by any unique prefix of their id.`,
	}
	cmd.PersistentFlags().StringVar(&db, "db", "", "SQLite run archive (default: GOHITRAN_DATABASE)")
	open := func() (*specdb.Store, error) {
		if db == "" {
			db = a.env.Database
		}
		if db == "" {
			return nil, hitran.Errorf(hitran.ErrInvalidParameter, "no run archive, use --db or GOHITRAN_DATABASE")
		}
		return specdb.Open(db)
	}
	cmd.AddCommand(runsListCmd(open))
	cmd.AddCommand(runsShowCmd(open))
	cmd.AddCommand(runsExportCmd(open))
	cmd.AddCommand(runsDeleteCmd(open))
	return cmd
}

type opener func() (*specdb.Store, error)

func runsListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintf(w, "No runs in %s\n", store.Path())
				return nil
			}
			for _, R := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%g K\t%g atm\t%d points", R.ID, R.Created.Local().Format(time.DateTime), strings.Join(R.Molecules, ","), R.T, R.P, R.Points)
				if R.Note != "" {
					fmt.Fprintf(w, "\t%s", R.Note)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func runsShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the parameters and summary of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			r, info, err := loadRun(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			printRun(cmd.OutOrStdout(), r, info)
			return nil
		},
	}
}

func runsExportCmd(open opener) *cobra.Command {
	var (
		output   string
		plot     string
		quantity string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a saved run as a spectrum file, or plot it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && plot == "" {
				return hitran.Errorf(hitran.ErrInvalidParameter, "nothing to do, use --output or --plot")
			}
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			r, info, err := loadRun(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" {
				meta := specio.Header{Program: "gohitran " + version, Created: info.Created, Notes: []string{"run: " + info.ID}}
				if info.Note != "" {
					meta.Notes = append(meta.Notes, "note: "+info.Note)
				}
				if err := specio.SaveSpectrum(output, r, meta); err != nil {
					return err
				}
				fmt.Fprintf(w, "Spectrum written to %s\n", output)
			}
			if plot != "" {
				q, err := specplot.ParseQuantity(quantity)
				if err != nil {
					return err
				}
				if err := specplot.PlotResult(r, q, plotTitle(r), plot); err != nil {
					return err
				}
				fmt.Fprintf(w, "Plot written to %s\n", plot)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Spectrum file; .gz, .zst, .z and .lzw are compressed")
	cmd.Flags().StringVar(&plot, "plot", "", "Plot file (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&quantity, "plot-quantity", defaultPlotQuantity, "Plotted quantity: coef, od, ab or tr")
	return cmd
}

func runsDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete saved runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			for _, v := range args {
				id, err := resolveID(cmd.Context(), store, v)
				if err != nil {
					return err
				}
				if err := store.DeleteRun(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s deleted\n", id)
			}
			return nil
		},
	}
}

//resolveID returns the id of the only run whose id starts with prefix.
func resolveID(ctx context.Context, store *specdb.Store, prefix string) (string, error) {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	var found []string
	for _, R := range runs {
		if R.ID == prefix {
			return R.ID, nil
		}
		if strings.HasPrefix(R.ID, prefix) {
			found = append(found, R.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", hitran.Errorf(hitran.ErrInvalidParameter, "no run %s in %s", prefix, store.Path())
	case 1:
		return found[0], nil
	}
	return "", hitran.Errorf(hitran.ErrInvalidParameter, "%d runs start with %s", len(found), prefix)
}

func loadRun(ctx context.Context, store *specdb.Store, prefix string) (*synth.Result, specdb.RunInfo, error) {
	id, err := resolveID(ctx, store, prefix)
	if err != nil {
		return nil, specdb.RunInfo{}, err
	}
	return store.LoadRun(ctx, id)
}

func printRun(w io.Writer, r *synth.Result, info specdb.RunInfo) {
	fmt.Fprintf(w, "Run: %s\n", info.ID)
	fmt.Fprintf(w, "Created: %s\n", info.Created.Local().Format(time.DateTime))
	if info.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", info.Note)
	}
	fmt.Fprintf(w, "T: %g K, p: %g atm, path length: %g cm\n", info.T, info.P, info.PathLength)
	fmt.Fprintf(w, "Profile: %s", info.Profile)
	if info.Profile == "dicke" {
		fmt.Fprintf(w, " (beta %g cm-1/atm)", info.Beta)
	}
	fmt.Fprintf(w, ", omega_wing: %g\n", info.OmegaWing)
	fmt.Fprintf(w, "Grid: %.4f - %.4f cm-1, resolution %g cm-1\n", info.Start, info.End, info.Resolution)
	for i, v := range r.Names {
		fmt.Fprintf(w, "Molecule %d: %s, concentration %g", i+1, v, r.Concentrations[i])
		if i < len(r.LineCounts) {
			fmt.Fprintf(w, ", %d lines", r.LineCounts[i])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, synth.Summarize(r))
}
