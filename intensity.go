/*
 * intensity.go, part of gohitran.
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
	"math"
)

//ScaleIntensity converts the intensity S of a line at TRef to the temperature T.
//E is the lower state energy and nu the line position, both in cm-1, and qT and
//qRef are the partition function at T and at TRef.
func ScaleIntensity(S, E, nu, T, qT, qRef float64) (float64, error) {
	if T <= 0 {
		return 0, Errorf(ErrInvalidParameter, "temperature must be positive, got %g", T)
	}
	if qT == 0 {
		return 0, Errorf(ErrDataError, "zero partition function at %g K", T)
	}
	return S * scaleFactor(E, nu, T, qRef/qT), nil
}

//scaleFactor is the ratio S(T)/S(TRef), given qratio = Q(TRef)/Q(T).
func scaleFactor(E, nu, T, qratio float64) float64 {
	boltzmann := math.Exp(-C2 * E * (1/T - 1/TRef))
	stimulated := -math.Expm1(-C2*nu/T) / -math.Expm1(-C2*nu/TRef)
	return qratio * boltzmann * stimulated
}

//QRounding selects how the partition function is evaluated at the working temperature.
type QRounding int

const (
	//QInterpolate interpolates the table at the exact temperature.
	QInterpolate QRounding = iota
	//QRoundOnIntegerGrid rounds the temperatures to the nearest Kelvin if the table
	//is given on integer temperatures, and interpolates otherwise.
	QRoundOnIntegerGrid
)

func (Q QRounding) String() string {
	if Q == QRoundOnIntegerGrid {
		return "round"
	}
	return "interpolate"
}

//ParseQRounding returns the QRounding named by s ("interpolate" or "round", or empty
//for the default).
func ParseQRounding(s string) (QRounding, error) {
	switch s {
	case "", "interpolate":
		return QInterpolate, nil
	case "round":
		return QRoundOnIntegerGrid, nil
	}
	return QInterpolate, Errorf(ErrInvalidParameter, "unknown partition function rounding %q", s)
}

//Scaler scales line intensities of one molecule to one temperature. The partition
//function ratio is computed once. A Scaler is read-only, and can be shared.
type Scaler struct {
	T      float64
	QT     float64
	QRef   float64
	qratio float64
}

//NewScaler returns a Scaler for the molecule with the partition function table, at temperature T.
func NewScaler(table *PartitionTable, T float64, rounding QRounding) (*Scaler, error) {
	if T <= 0 {
		return nil, Errorf(ErrInvalidParameter, "temperature must be positive, got %g", T)
	}
	t, tref := T, TRef
	if rounding == QRoundOnIntegerGrid && table.IntegerGrid() {
		t, tref = math.Round(t), math.Round(tref)
	}
	S := &Scaler{T: T, QT: table.Query(t), QRef: table.Query(tref)}
	if S.QT == 0 {
		return nil, Errorf(ErrDataError, "zero partition function at %g K", t)
	}
	S.qratio = S.QRef / S.QT
	return S, nil
}

//Scale returns the intensity of the line at the temperature of the Scaler.
func (S *Scaler) Scale(l SpectralLine) float64 {
	return l.S * scaleFactor(l.E, l.Nu, S.T, S.qratio)
}
