/*
 * main.go, part of gohitran.
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

//Command gohitran computes absorption spectra of gas mixtures from HITRAN line lists.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//Version information, set via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

//app holds the settings shared by all the commands.
type app struct {
	envFile   string
	logLevel  string
	logFormat string
	env       config.Env
}

func rootCmd() *cobra.Command {
	a := new(app)
	cmd := &cobra.Command{
		Use:   "gohitran",
		Short: "Line-by-line absorption spectra from HITRAN line lists",
		Long: `gohitran computes the absorption coefficient, optical depth, absorbance and
transmittance of gas mixtures from HITRAN 160-character line lists.

Settings are taken, from lowest to highest priority, from the defaults, the run
file, the .env file, the environment and the command line flags.

Environment variables:
  GOHITRAN_LOG_LEVEL          trace, debug, info, warn or error (default: info)
  GOHITRAN_LOG_FORMAT         console or json (default: console)
  GOHITRAN_WORKERS            goroutines per molecule (default: 8)
  GOHITRAN_PARTITION_FOLDER   folder with the q<id>.txt partition functions
  GOHITRAN_DATABASE           SQLite run archive`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default: info)")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: console or json (default: console)")

	cmd.AddCommand(synthCmd(a))
	cmd.AddCommand(fitCmd(a))
	cmd.AddCommand(describeCmd(a))
	cmd.AddCommand(scanCmd())
	cmd.AddCommand(listCmd())
	cmd.AddCommand(plotCmd())
	cmd.AddCommand(runsCmd(a))
	return cmd
}

//setup reads the environment and configures the global logger. Flags take precedence
//over the environment.
func (a *app) setup(w io.Writer) error {
	env, err := config.LoadEnv(a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		env.LogLevel = strings.ToLower(a.logLevel)
	}
	if a.logFormat != "" {
		env.LogFormat = strings.ToLower(a.logFormat)
	}
	a.env = env
	return setupLogging(w, env.LogLevel, env.LogFormat)
}

//setupLogging sets the level and format of the global zerolog logger.
func setupLogging(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return hitran.Errorf(hitran.ErrInvalidParameter, "unknown log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	switch format {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	case "console", "":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	default:
		return hitran.Errorf(hitran.ErrInvalidParameter, "unknown log format %q, use console or json", format)
	}
	return nil
}
