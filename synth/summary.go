/*
 * summary.go, part of gohitran.
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Summary contains the main features of a Result.
type Summary struct {
	Points int

	CoefMax, CoefMaxAt float64 //largest total coefficient, and where it is
	CoefMin, CoefMean  float64

	ODMax, ODMin float64

	AbMax, AbMaxAt float64 //largest absorbance, and where it is
	TrMin, TrMinAt float64 //smallest transmittance, and where it is
}

//Summarize returns the summary of r. An empty result gives a zero Summary.
func Summarize(r *Result) Summary {
	var S Summary
	S.Points = r.Len()
	if S.Points == 0 {
		return S
	}
	i := floats.MaxIdx(r.Total)
	S.CoefMax, S.CoefMaxAt = r.Total[i], r.Wavenumbers[i]
	S.CoefMin = floats.Min(r.Total)
	S.CoefMean = stat.Mean(r.Total, nil)
	S.ODMax, S.ODMin = floats.Max(r.OD), floats.Min(r.OD)
	i = floats.MaxIdx(r.Ab)
	S.AbMax, S.AbMaxAt = r.Ab[i], r.Wavenumbers[i]
	i = floats.MinIdx(r.Tr)
	S.TrMin, S.TrMinAt = r.Tr[i], r.Wavenumbers[i]
	return S
}

func (S Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Points: %d\n", S.Points)
	if S.Points == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "Absorption coefficient:\n")
	fmt.Fprintf(&b, "  max:  %.6e at %.4f cm-1\n", S.CoefMax, S.CoefMaxAt)
	fmt.Fprintf(&b, "  min:  %.6e\n", S.CoefMin)
	fmt.Fprintf(&b, "  mean: %.6e\n", S.CoefMean)
	fmt.Fprintf(&b, "Optical depth: %.6e - %.6e\n", S.ODMin, S.ODMax)
	fmt.Fprintf(&b, "Absorbance max: %.6f at %.4f cm-1\n", S.AbMax, S.AbMaxAt)
	fmt.Fprintf(&b, "Transmittance min: %.6f at %.4f cm-1\n", S.TrMin, S.TrMinAt)
	return b.String()
}
