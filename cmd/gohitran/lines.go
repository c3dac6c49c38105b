/*
 * lines.go, part of gohitran.
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
	"fmt"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/specplot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func describeCmd(a *app) *cobra.Command {
	var (
		qFolder       string
		concentration float64
	)
	cmd := &cobra.Command{
		Use:   "describe <file.par>...",
		Short: "Load line lists and describe them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if qFolder == "" {
				qFolder = a.env.PartitionFolder
			}
			if qFolder == "" {
				return hitran.Errorf(hitran.ErrInvalidParameter, "no partition function folder, use -q or GOHITRAN_PARTITION_FOLDER")
			}
			w := cmd.OutOrStdout()
			for i, v := range args {
				d, err := hitran.LoadMolecule(v, qFolder, concentration, "")
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprint(w, d.Describe())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&qFolder, "q", "q", "", "Folder with the partition functions (q<molecule id>.txt)")
	cmd.Flags().Float64Var(&concentration, "concentration", 1, "Concentration given to the molecules")
	return cmd
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file.par>...",
		Short: "Print the wavenumber coverage of line lists",
		Long: `Print the wavenumber coverage and the number of lines of line lists, reading only the
line positions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range args {
				min, max, n, err := hitran.ScanParRange(v)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d lines\t%.4f - %.4f cm-1\n", v, n, min, max)
			}
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <folder>",
		Short: "List the line lists in a folder, with their coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := hitran.FindParFiles(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(w, "No line lists in %s\n", args[0])
				return nil
			}
			for _, v := range files {
				min, max, n, err := hitran.ScanParRange(v)
				if err != nil {
					log.Warn().Err(err).Str("file", v).Msg("can't scan line list")
					fmt.Fprintf(w, "%s\tunreadable\n", v)
					continue
				}
				fmt.Fprintf(w, "%s\t%d lines\t%.4f - %.4f cm-1\n", v, n, min, max)
			}
			return nil
		},
	}
}

func plotCmd() *cobra.Command {
	var (
		output  string
		title   string
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "plot <spectrum file>",
		Short: "Plot columns of a spectrum file",
		Long: `Plot columns of a spectrum file written by synth or runs export. By default the
total optical depth and the optical depth of each molecule are plotted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := specio.LoadSpectrum(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = args[0]
			}
			if err := specplot.PlotTable(t, columns, title, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plot written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "spectrum.png", "Plot file (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&title, "title", "", "Plot title (default: the file name)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to plot, comma separated (default: OD and OD_*)")
	return cmd
}
