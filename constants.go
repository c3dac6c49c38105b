/*
 * constants.go, part of gohitran.
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

import "math"

//Physical constants, in CGS units unless stated otherwise.
const (
	TRef       = 296.0          //HITRAN reference temperature, K
	Boltzmann  = 1.380649e-16   //erg/K
	LightSpeed = 2.99792458e10  //cm/s
	Avogadro   = 6.02214076e23  //1/mol
	C2         = 1.4387768775   //second radiation constant, cm K
	Atm2Ba     = 1013250.0      //one standard atmosphere in Ba
	Pa2Atm     = 1.0 / 101325.0 //Pa to atm
)

//Numerical constants used by the line shapes.
const (
	SqrtPi   = 1.7724538509055160273
	Sqrt2Pi  = 2.5066282746310005024
	Sqrt2Ln2 = 1.1774100225154746910
)

//DefaultWing is the default omega_wing, the number of combined half widths
//at which a line is truncated.
const DefaultWing = 10.0

//CGammaD is the Doppler width constant sqrt(2 kB NA ln2)/c. The Doppler HWHM of a line
//at nu is CGammaD*sqrt(T/M)*nu, with M in g/mol.
var CGammaD = math.Sqrt(2*Boltzmann*Avogadro*math.Ln2) / LightSpeed

//NumberDensity returns the total number density, in molecules/cm3, of an ideal gas
//at temperature T (K) and pressure p (atm).
func NumberDensity(T, p float64) float64 {
	return p * Atm2Ba / (Boltzmann * T)
}
