/*
 * molecule.go, part of gohitran.
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

package hitran

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

//MoleculeDataset is the working data for one molecule: its lines, isotopologue,
//concentration and partition function. It is created by LoadMolecule and not
//modified afterwards.
type MoleculeDataset struct {
	Name          string
	Info          IsotopologueInfo //primary isotopologue
	Concentration float64          //mole fraction, 0 < c <= 1
	Mass          float64          //g/mol
	Lines         Lines
	Partition     *PartitionTable
	MinNu, MaxNu  float64 //coverage of the line list
	ParFile       string
	QFile         string
	MoleculeIDs   []int //all the molecule ids seen in the line list
	IsotopeIDs    []int //all the isotope ids seen
	Skipped       int   //rejected records
}

//NewMoleculeDataset assembles a dataset from data already in memory. If name is empty,
//the parent molecule name of info is used.
func NewMoleculeDataset(name string, info IsotopologueInfo, concentration float64, lines Lines, table *PartitionTable) (*MoleculeDataset, error) {
	if !(concentration > 0 && concentration <= 1) {
		return nil, Errorf(ErrInvalidParameter, "concentration must be in (0,1], got %g", concentration)
	}
	if table == nil {
		return nil, Errorf(ErrInvalidParameter, "nil partition function table")
	}
	if info.Mass <= 0 {
		return nil, Errorf(ErrInvalidParameter, "molar mass must be positive, got %g", info.Mass)
	}
	if name == "" {
		name = info.Parent
	}
	D := &MoleculeDataset{
		Name:          name,
		Info:          info,
		Concentration: concentration,
		Mass:          info.Mass,
		Lines:         lines,
		Partition:     table,
		MoleculeIDs:   []int{info.Molecule},
		IsotopeIDs:    []int{info.Isotope},
	}
	D.MinNu, D.MaxNu = lines.Coverage()
	return D, nil
}

//LoadMolecule reads the line list parFile, identifies its molecule and primary isotope,
//and loads the matching partition function (q<molecule id>.txt) from qFolder. If name
//is empty, the name of the molecule is used.
func LoadMolecule(parFile, qFolder string, concentration float64, name string) (*MoleculeDataset, error) {
	if !(concentration > 0 && concentration <= 1) {
		return nil, Errorf(ErrInvalidParameter, "concentration must be in (0,1], got %g", concentration).InFile(parFile, 0)
	}
	res, err := ReadParFile(parFile)
	if err != nil {
		return nil, errDecorate(err, "LoadMolecule")
	}
	molecule, isotope := res.Primary()
	if len(res.MoleculeIDs) > 1 {
		log.Warn().Str("file", parFile).Ints("molecules", res.MoleculeIDs).Msgf("more than one molecule in line list, using %d for all lines", molecule)
	}
	info, err := LookupIsotopologue(molecule, isotope)
	if err != nil && isotope != 1 {
		log.Warn().Str("file", parFile).Int("molecule", molecule).Int("isotope", isotope).Msg("isotopologue not catalogued, using isotope 1")
		info, err = LookupIsotopologue(molecule, 1)
	}
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.InFile(parFile, 0)
		}
		return nil, errDecorate(err, "LoadMolecule")
	}
	table, qfile, err := LoadPartitionFunction(molecule, qFolder)
	if err != nil {
		return nil, errDecorate(err, "LoadMolecule")
	}
	D, err := NewMoleculeDataset(name, info, concentration, res.Lines, table)
	if err != nil {
		return nil, errDecorate(err, "LoadMolecule")
	}
	D.ParFile = parFile
	D.QFile = qfile
	D.MoleculeIDs = res.MoleculeIDs
	D.IsotopeIDs = res.IsotopeIDs
	D.Skipped = res.Skipped()
	log.Info().Str("molecule", D.Name).Int("lines", len(D.Lines)).Int("skipped", D.Skipped).Float64("concentration", D.Concentration).Float64("min_nu", D.MinNu).Float64("max_nu", D.MaxNu).Float64("mass", D.Mass).Msg("molecule loaded")
	return D, nil
}

//Len returns the number of lines. With Line, it implements LineSource.
func (D *MoleculeDataset) Len() int { return len(D.Lines) }

//Line returns the i-th line.
func (D *MoleculeDataset) Line(i int) SpectralLine { return D.Lines[i] }

//IntensityRange returns the smallest and largest reference intensities.
func (D *MoleculeDataset) IntensityRange() (min, max float64) {
	if len(D.Lines) == 0 {
		return math.NaN(), math.NaN()
	}
	s := make([]float64, len(D.Lines))
	for i, v := range D.Lines {
		s[i] = v.S
	}
	return floats.Min(s), floats.Max(s)
}

//WithConcentration returns a copy of the dataset with another concentration. The lines
//and the partition table are shared with the original.
func (D *MoleculeDataset) WithConcentration(c float64) (*MoleculeDataset, error) {
	if !(c > 0 && c <= 1) {
		return nil, Errorf(ErrInvalidParameter, "concentration must be in (0,1], got %g", c)
	}
	r := *D
	r.Concentration = c
	return &r, nil
}

//Describe returns a human-readable summary of the dataset.
func (D *MoleculeDataset) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Molecule: %s\n", D.Name)
	fmt.Fprintf(&b, "Molecule ID: %d\n", D.Info.Molecule)
	fmt.Fprintf(&b, "Isotope ID: %d (%s)\n", D.Info.Isotope, D.Info.Name)
	fmt.Fprintf(&b, "Concentration: %g\n", D.Concentration)
	fmt.Fprintf(&b, "Molar mass: %.6f g/mol\n", D.Mass)
	fmt.Fprintf(&b, "Lines: %d", len(D.Lines))
	if D.Skipped > 0 {
		fmt.Fprintf(&b, " (%d records skipped)", D.Skipped)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Wavenumber range: %.4f - %.4f cm-1\n", D.MinNu, D.MaxNu)
	if D.QFile != "" {
		fmt.Fprintf(&b, "Partition function file: %s\n", D.QFile)
	}
	if D.ParFile != "" {
		fmt.Fprintf(&b, "Line list file: %s\n", D.ParFile)
	}
	if D.Partition != nil {
		tmin, tmax := D.Partition.Range()
		fmt.Fprintf(&b, "Partition function range: %g - %g K\n", tmin, tmax)
	}
	if len(D.Lines) > 0 {
		smin, smax := D.IntensityRange()
		fmt.Fprintf(&b, "Intensity range: %.2e - %.2e cm-1/(molecule cm-2)\n", smin, smax)
	}
	return b.String()
}
