/*
 * state.go, part of gohitran.
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
	"os"
	"sort"
	"strings"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/synth"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//GasState is the outcome of a chemical equilibrium calculation: temperature, pressure and
//the mole fraction of each species. It is read from YAML or JSON.
type GasState struct {
	Temperature   float64            `yaml:"temperature" json:"temperature"` //K
	Pressure      float64            `yaml:"pressure" json:"pressure"`       //Pa
	MoleFractions map[string]float64 `yaml:"mole_fractions" json:"mole_fractions"`
}

//LoadGasState reads a GasState from a YAML or JSON file.
func LoadGasState(path string) (*GasState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gas state: %w", err)
	}
	G := new(GasState)
	if err := yaml.Unmarshal(data, G); err != nil {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "decoding gas state: %v", err).InFile(path, 0)
	}
	if err := G.Check(); err != nil {
		if e, ok := err.(*hitran.Error); ok {
			e.InFile(path, 0)
		}
		return nil, err
	}
	return G, nil
}

//Check returns an error if the state is not physical.
func (G *GasState) Check() error {
	if !(G.Temperature > 0) {
		return hitran.Errorf(hitran.ErrInvalidParameter, "temperature must be positive, got %g", G.Temperature)
	}
	if !(G.Pressure >= 0) {
		return hitran.Errorf(hitran.ErrInvalidParameter, "pressure must be non-negative, got %g", G.Pressure)
	}
	for k, v := range G.MoleFractions {
		if !(v >= 0 && v <= 1) {
			return hitran.Errorf(hitran.ErrInvalidParameter, "mole fraction of %s must be in [0,1], got %g", k, v)
		}
	}
	return nil
}

//PressureAtm returns the pressure in atm.
func (G *GasState) PressureAtm() float64 {
	return G.Pressure * hitran.Pa2Atm
}

//Fraction returns the mole fraction of the named species, compared case-insensitively.
func (G *GasState) Fraction(name string) (float64, bool) {
	if v, ok := G.MoleFractions[name]; ok {
		return v, true
	}
	keys := make([]string, 0, len(G.MoleFractions))
	for k := range G.MoleFractions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return G.MoleFractions[k], true
		}
	}
	return 0, false
}

//ApplyTo sets the temperature and pressure of cond from the state, and the concentration of
//each molecule in the session from the mole fraction of the species with the same name,
//or, failing that, the same parent molecule. Molecules with a zero mole fraction are removed
//from the session. Molecules not in the state, and species not in the session, are left alone.
func (G *GasState) ApplyTo(S *synth.Session, cond *synth.Conditions) error {
	if err := G.Check(); err != nil {
		return err
	}
	cond.T = G.Temperature
	cond.P = G.PressureAtm()
	for _, d := range S.Datasets() {
		x, ok := G.Fraction(d.Name)
		if !ok {
			x, ok = G.Fraction(d.Info.Parent)
		}
		if !ok {
			log.Debug().Str("molecule", d.Name).Float64("concentration", d.Concentration).Msg("not in gas state, concentration kept")
			continue
		}
		if x == 0 {
			log.Warn().Str("molecule", d.Name).Msg("zero mole fraction in gas state, molecule skipped")
			S.Remove(d.Name)
			continue
		}
		if err := S.SetConcentration(d.Name, x); err != nil {
			return hitran.ErrDecorate(err, "GasState.ApplyTo")
		}
	}
	return nil
}
