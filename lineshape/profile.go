/*
 * profile.go, part of gohitran.
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

package lineshape

import (
	"math"
	"strings"

	"github.com/rmera/gohitran"
)

const sqrtPi = hitran.SqrtPi

//State is the thermodynamic state of the absorbing gas.
type State struct {
	T float64 //temperature, K
	P float64 //total pressure, atm
	C float64 //mole fraction of the absorbing molecule
}

//Check returns an error wrapping hitran.ErrInvalidParameter if the state is not physical.
func (S State) Check() error {
	switch {
	case !(S.T > 0) || math.IsInf(S.T, 0):
		return hitran.Errorf(hitran.ErrInvalidParameter, "temperature must be positive and finite, got %g", S.T)
	case !(S.P >= 0) || math.IsInf(S.P, 0):
		return hitran.Errorf(hitran.ErrInvalidParameter, "pressure must be non-negative and finite, got %g", S.P)
	case !(S.C >= 0 && S.C <= 1):
		return hitran.Errorf(hitran.ErrInvalidParameter, "mole fraction must be in [0,1], got %g", S.C)
	}
	return nil
}

//Line contains the parameters of a transition that determine its shape.
type Line struct {
	Nu        float64 //cm-1
	GammaAir  float64 //cm-1/atm
	GammaSelf float64 //cm-1/atm
	NAir      float64
	DeltaAir  float64 //cm-1/atm
	Mass      float64 //g/mol
}

//FromSpectral returns the shape parameters of l, for an isotopologue of mass mass.
func FromSpectral(l hitran.SpectralLine, mass float64) Line {
	return Line{Nu: l.Nu, GammaAir: l.GammaAir, GammaSelf: l.GammaSelf, NAir: l.NAir, DeltaAir: l.DeltaAir, Mass: mass}
}

//PressureWidth returns the pressure-broadened HWHM of the line, in cm-1.
func PressureWidth(l Line, s State) float64 {
	tdep := math.Pow(hitran.TRef/s.T, l.NAir)
	return l.GammaAir*s.P*(1-s.C)*tdep + l.GammaSelf*s.P*s.C*tdep
}

//DopplerWidth returns the Doppler HWHM, in cm-1, of a line at nu for a molecule
//of mass mass (g/mol) at temperature T.
func DopplerWidth(nu, T, mass float64) float64 {
	return hitran.CGammaD * math.Sqrt(T/mass) * nu
}

//Profile is a line shape function.
type Profile int

const (
	VoigtProfile Profile = iota
	DickeProfile
)

func (P Profile) String() string {
	if P == DickeProfile {
		return "dicke"
	}
	return "voigt"
}

//ParseProfile returns the profile with the given name, "voigt" or "dicke".
//An empty string means Voigt.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(s) {
	case "", "voigt":
		return VoigtProfile, nil
	case "dicke":
		return DickeProfile, nil
	}
	return VoigtProfile, hitran.Errorf(hitran.ErrInvalidParameter, "unknown line profile %q", s)
}

//Shape is a line shape ready to be evaluated. The widths are computed once, when
//the Shape is created.
type Shape struct {
	Profile Profile
	Center  float64 //shifted line position
	Gamma   float64 //pressure HWHM
	GammaD  float64 //Doppler HWHM
	sigma   float64
	zd      float64 //Dicke narrowing, in units of sigma sqrt(2)
	yd      float64 //imaginary part of the argument of w
}

//NewShape returns the shape of line l in state s. beta, the Dicke narrowing
//parameter in cm-1/atm, is only used by DickeProfile.
func NewShape(p Profile, l Line, s State, beta float64) (Shape, error) {
	if err := s.Check(); err != nil {
		return Shape{}, err
	}
	if !(l.Nu > 0) || !(l.Mass > 0) {
		return Shape{}, hitran.Errorf(hitran.ErrInvalidParameter, "line position and mass must be positive, got %g and %g", l.Nu, l.Mass)
	}
	if p == DickeProfile && beta < 0 {
		return Shape{}, hitran.Errorf(hitran.ErrInvalidParameter, "negative Dicke parameter %g", beta)
	}
	S := Shape{
		Profile: p,
		Center:  l.Nu + l.DeltaAir*s.P,
		Gamma:   PressureWidth(l, s),
		GammaD:  DopplerWidth(l.Nu, s.T, l.Mass),
	}
	S.sigma = S.GammaD / hitran.Sqrt2Ln2
	scale := 1 / (S.sigma * math.Sqrt2)
	S.yd = S.Gamma * scale
	if p == DickeProfile {
		S.yd = (S.Gamma + beta*s.P) * scale
		S.zd = beta * s.P * scale
	}
	return S, nil
}

//HalfWidth returns the sum of the Doppler and pressure half widths. It is
//the unit in which line wings are truncated.
func (S Shape) HalfWidth() float64 {
	return S.GammaD + S.Gamma
}

//Eval puts in dst the value of the shape at each wavenumber of wn, and returns dst.
//If dst is nil or too short, a new slice is allocated.
func (S Shape) Eval(dst, wn []float64) []float64 {
	if cap(dst) < len(wn) {
		dst = make([]float64, len(wn))
	}
	dst = dst[:len(wn)]
	scale := 1 / (S.sigma * math.Sqrt2)
	norm := 1 / (S.sigma * hitran.Sqrt2Pi)
	if S.Profile == DickeProfile {
		czd := complex(sqrtPi*S.zd, 0)
		for i, v := range wn {
			w := Faddeeva(complex((v-S.Center)*scale, S.yd))
			dst[i] = real(w/(1-czd*w)) * norm
		}
		return dst
	}
	for i, v := range wn {
		dst[i] = Re((v-S.Center)*scale, S.yd) * norm
	}
	return dst
}

//Voigt evaluates the area-normalized Voigt profile of line l, in state s,
//at the wavenumbers wn. The result is put in dst, if it has enough capacity,
//and returned.
func Voigt(dst, wn []float64, l Line, s State) ([]float64, error) {
	S, err := NewShape(VoigtProfile, l, s, 0)
	if err != nil {
		return nil, err
	}
	return S.Eval(dst, wn), nil
}

//Dicke evaluates the Dicke-narrowed profile of line l, with narrowing parameter
//beta (cm-1/atm), in state s at the wavenumbers wn.
func Dicke(dst, wn []float64, l Line, s State, beta float64) ([]float64, error) {
	S, err := NewShape(DickeProfile, l, s, beta)
	if err != nil {
		return nil, err
	}
	return S.Eval(dst, wn), nil
}
