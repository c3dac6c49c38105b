/*
 * line.go, part of gohitran.
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

import "fmt"

//SpectralLine is one transition, as read from a line list. Units are those of HITRAN:
//wavenumbers and energies in cm-1, intensities in cm-1/(molecule cm-2), half widths
//in cm-1/atm at 296 K.
type SpectralLine struct {
	Molecule  int
	Isotope   int
	Nu        float64 //line position
	S         float64 //intensity at TRef
	A         float64 //Einstein A coefficient, s-1
	GammaAir  float64 //air-broadened HWHM
	GammaSelf float64 //self-broadened HWHM
	E         float64 //lower state energy
	NAir      float64 //temperature exponent of GammaAir
	DeltaAir  float64 //air pressure shift, cm-1/atm
}

func (L SpectralLine) String() string {
	return fmt.Sprintf("%2d%1d %12.6f %10.3e %10.3e %5.4f %5.3f %10.4f %4.2f %8.6f", L.Molecule, L.Isotope, L.Nu, L.S, L.A, L.GammaAir, L.GammaSelf, L.E, L.NAir, L.DeltaAir)
}

//Lines is a slice of spectral lines that implements LineSource.
type Lines []SpectralLine

//Len returns the number of lines.
func (L Lines) Len() int { return len(L) }

//Line returns the i-th line.
func (L Lines) Line(i int) SpectralLine { return L[i] }

//ColumnKind tells how the content of a column is to be interpreted.
type ColumnKind int

const (
	IntColumn ColumnKind = iota
	FloatColumn
	StringColumn
)

//Column is a fixed-width column of a line-list record. Start is 0-based.
type Column struct {
	Name  string
	Start int
	Len   int
	Kind  ColumnKind
}

//End returns the first offset after the column.
func (C Column) End() int { return C.Start + C.Len }

//Names of the mandatory columns. A LineLayout must declare all of them.
const (
	ColMolecule  = "M"
	ColIsotope   = "I"
	ColNu        = "nu"
	ColS         = "S"
	ColA         = "A"
	ColGammaAir  = "gamma_air"
	ColGammaSelf = "gamma_self"
	ColE         = "E"
	ColNAir      = "n_air"
	ColDeltaAir  = "delta_air"
)

var mandatoryColumns = []string{ColMolecule, ColIsotope, ColNu, ColS, ColA, ColGammaAir, ColGammaSelf, ColE, ColNAir, ColDeltaAir}

//LineLayout describes a fixed-width record.
type LineLayout struct {
	Width   int //minimum record length
	Columns []Column
}

//HITRAN160 is the layout of the 160-character HITRAN 2004+ records.
//Only the first ten columns are read; the rest are metadata.
var HITRAN160 = LineLayout{
	Width: 160,
	Columns: []Column{
		{ColMolecule, 0, 2, IntColumn},
		{ColIsotope, 2, 1, IntColumn},
		{ColNu, 3, 12, FloatColumn},
		{ColS, 15, 10, FloatColumn},
		{ColA, 25, 10, FloatColumn},
		{ColGammaAir, 35, 5, FloatColumn},
		{ColGammaSelf, 40, 5, FloatColumn},
		{ColE, 45, 10, FloatColumn},
		{ColNAir, 55, 4, FloatColumn},
		{ColDeltaAir, 59, 8, FloatColumn},
		{"V", 67, 15, StringColumn},
		{"V_", 82, 15, StringColumn},
		{"Q", 97, 15, StringColumn},
		{"Q_", 112, 15, StringColumn},
		{"Ierr", 127, 6, StringColumn},
		{"Iref", 133, 12, StringColumn},
		{"flag", 145, 1, StringColumn},
		{"g", 146, 7, FloatColumn},
		{"g_", 153, 7, FloatColumn},
	},
}

//Column returns the column with the given name.
func (L LineLayout) Column(name string) (Column, bool) {
	for _, v := range L.Columns {
		if v.Name == name {
			return v, true
		}
	}
	return Column{}, false
}

//index returns the spans of the mandatory columns, in the order of mandatoryColumns.
func (L LineLayout) index() ([]Column, error) {
	ret := make([]Column, len(mandatoryColumns))
	for i, name := range mandatoryColumns {
		c, ok := L.Column(name)
		if !ok {
			return nil, Errorf(ErrInvalidParameter, "layout lacks mandatory column %q", name)
		}
		if c.Start < 0 || c.Len <= 0 || c.End() > L.Width {
			return nil, Errorf(ErrInvalidParameter, "column %q [%d:%d] does not fit in a %d-character record", name, c.Start, c.End(), L.Width)
		}
		ret[i] = c
	}
	return ret, nil
}
