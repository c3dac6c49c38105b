/*
 * config.go, part of gohitran.
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

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/lineshape"
	"github.com/rmera/gohitran/synth"
	"gopkg.in/yaml.v3"
)

//Defaults for a RunConfig.
const (
	DefaultTemperature = hitran.TRef //K
	DefaultPressure    = 1.0         //atm
	DefaultPathLength  = 1.0         //cm
	DefaultOmegaWing   = hitran.DefaultWing
	DefaultResolution  = synth.DefaultResolution
	DefaultProfile     = "voigt"
	DefaultQRounding   = "interpolate"
)

//GridConfig is the wavenumber grid of a run, in cm-1. If Start and End are both 0, the grid
//covers all the line lists.
type GridConfig struct {
	Start      float64 `yaml:"start" toml:"start"`
	End        float64 `yaml:"end" toml:"end"`
	Resolution float64 `yaml:"resolution" toml:"resolution"`
}

//MoleculeConfig is a line list to load.
type MoleculeConfig struct {
	File          string  `yaml:"file" toml:"file"`
	Concentration float64 `yaml:"concentration" toml:"concentration"`
	Name          string  `yaml:"name" toml:"name"`
}

//RunConfig is everything needed for a synthesis run.
type RunConfig struct {
	PartitionFolder string           `yaml:"partition_folder" toml:"partition_folder"`
	Temperature     float64          `yaml:"temperature" toml:"temperature"` //K
	Pressure        float64          `yaml:"pressure" toml:"pressure"`       //atm
	PathLength      float64          `yaml:"path_length" toml:"path_length"` //cm
	Grid            GridConfig       `yaml:"grid" toml:"grid"`
	OmegaWing       float64          `yaml:"omega_wing" toml:"omega_wing"`
	Workers         int              `yaml:"workers" toml:"workers"`
	Profile         string           `yaml:"profile" toml:"profile"`
	Beta            float64          `yaml:"beta" toml:"beta"`
	QRounding       string           `yaml:"q_rounding" toml:"q_rounding"`
	Molecules       []MoleculeConfig `yaml:"molecules" toml:"molecules"`
	StateFile       string           `yaml:"state_file" toml:"state_file"`
	Output          string           `yaml:"output" toml:"output"`
	Plot            string           `yaml:"plot" toml:"plot"`
	PlotQuantity    string           `yaml:"plot_quantity" toml:"plot_quantity"`
	Database        string           `yaml:"database" toml:"database"`
	Note            string           `yaml:"note" toml:"note"`
}

//Default returns a RunConfig with the default values.
func Default() *RunConfig {
	return &RunConfig{
		Temperature: DefaultTemperature,
		Pressure:    DefaultPressure,
		PathLength:  DefaultPathLength,
		OmegaWing:   DefaultOmegaWing,
		Grid:        GridConfig{Resolution: DefaultResolution},
		Profile:     DefaultProfile,
		QRounding:   DefaultQRounding,
	}
}

//Load reads a run configuration from a YAML (.yaml, .yml) or TOML (.toml) file. Keys absent
//from the file keep their default values. Relative input paths are taken as relative to the
//folder of the file.
func Load(path string) (*RunConfig, error) {
	C := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err = dec.Decode(C); err == io.EOF {
			err = nil
		}
	case ".toml":
		err = decodeTOML(f, C)
	default:
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "unknown configuration format %q, use .yaml or .toml", filepath.Ext(path)).InFile(path, 0)
	}
	if err != nil {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "decoding configuration: %v", err).InFile(path, 0)
	}
	C.resolve(filepath.Dir(path))
	return C, nil
}

//decodeTOML decodes r into C. Keys absent from the document keep the values in C.
func decodeTOML(r io.Reader, C *RunConfig) error {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return err
	}
	def := *C
	if err := tree.Unmarshal(C); err != nil {
		return err
	}
	restore := map[string]func(){
		"temperature":     func() { C.Temperature = def.Temperature },
		"pressure":        func() { C.Pressure = def.Pressure },
		"path_length":     func() { C.PathLength = def.PathLength },
		"omega_wing":      func() { C.OmegaWing = def.OmegaWing },
		"grid.resolution": func() { C.Grid.Resolution = def.Grid.Resolution },
		"profile":         func() { C.Profile = def.Profile },
		"q_rounding":      func() { C.QRounding = def.QRounding },
	}
	for key, f := range restore {
		if !tree.Has(key) {
			f()
		}
	}
	return nil
}

//resolve makes the relative input paths relative to dir.
func (C *RunConfig) resolve(dir string) {
	rel := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	rel(&C.PartitionFolder)
	rel(&C.StateFile)
	for i := range C.Molecules {
		rel(&C.Molecules[i].File)
	}
}

//Apply overlays the values set in env.
func (C *RunConfig) Apply(env Env) {
	if env.Workers > 0 {
		C.Workers = env.Workers
	}
	if env.PartitionFolder != "" {
		C.PartitionFolder = env.PartitionFolder
	}
	if env.Database != "" {
		C.Database = env.Database
	}
}

//Validate checks that the configuration describes a run that can be done.
func (C *RunConfig) Validate() error {
	bad := func(format string, args ...interface{}) error {
		return hitran.Errorf(hitran.ErrInvalidParameter, format, args...)
	}
	switch {
	case C.PartitionFolder == "":
		return bad("partition_folder not set")
	case len(C.Molecules) == 0:
		return hitran.NewError(hitran.ErrNoMoleculesLoaded, "no molecules in configuration")
	case !(C.Temperature > 0):
		return bad("temperature must be positive, got %g", C.Temperature)
	case !(C.Pressure >= 0):
		return bad("pressure must be non-negative, got %g", C.Pressure)
	case !(C.PathLength >= 0):
		return bad("path_length must be non-negative, got %g", C.PathLength)
	case !(C.OmegaWing > 0):
		return bad("omega_wing must be positive, got %g", C.OmegaWing)
	case C.Workers < 0:
		return bad("workers can't be negative")
	case !(C.Grid.Resolution > 0):
		return bad("grid resolution must be positive, got %g", C.Grid.Resolution)
	case C.HasGrid() && C.Grid.End < C.Grid.Start:
		return bad("grid end %g below start %g", C.Grid.End, C.Grid.Start)
	}
	if _, err := lineshape.ParseProfile(C.Profile); err != nil {
		return err
	}
	if C.Beta < 0 {
		return bad("negative beta %g", C.Beta)
	}
	if _, err := hitran.ParseQRounding(C.QRounding); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for i, m := range C.Molecules {
		if m.File == "" {
			return bad("molecule %d has no file", i+1)
		}
		if !(m.Concentration > 0 && m.Concentration <= 1) {
			return bad("molecule %d (%s): concentration must be in (0,1], got %g", i+1, m.File, m.Concentration)
		}
		if m.Name != "" {
			if seen[m.Name] {
				return bad("molecule name %q used twice", m.Name)
			}
			seen[m.Name] = true
		}
	}
	return nil
}

//HasGrid returns true if an explicit grid range was given.
func (C *RunConfig) HasGrid() bool {
	return C.Grid.Start != 0 || C.Grid.End != 0
}

//Conditions returns the gas state and path of the run.
func (C *RunConfig) Conditions() synth.Conditions {
	return synth.Conditions{T: C.Temperature, P: C.Pressure, PathLength: C.PathLength}
}

//Options returns the synthesis options of the run.
func (C *RunConfig) Options() (synth.Options, error) {
	profile, err := lineshape.ParseProfile(C.Profile)
	if err != nil {
		return synth.Options{}, err
	}
	q, err := hitran.ParseQRounding(C.QRounding)
	if err != nil {
		return synth.Options{}, err
	}
	return synth.Options{
		OmegaWing:  C.OmegaWing,
		Workers:    C.Workers,
		Profile:    profile,
		Beta:       C.Beta,
		QRounding:  q,
		Resolution: C.Grid.Resolution,
	}, nil
}

//SynthGrid returns the explicit grid of the run, or nil if the grid is to be derived from
//the line lists.
func (C *RunConfig) SynthGrid() (*synth.Grid, error) {
	if !C.HasGrid() {
		return nil, nil
	}
	g, err := synth.NewGrid(C.Grid.Start, C.Grid.End, C.Grid.Resolution)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
