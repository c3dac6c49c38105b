/*
 * lineshape_test.go, part of gohitran.
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
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/rmera/gohitran"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
)

func relErr(got, want complex128) float64 {
	return cmplx.Abs(got-want) / cmplx.Abs(want)
}

//TestFaddeevaReference checks w(z) against values that can be obtained
//independently.
func TestFaddeevaReference(Te *testing.T) {
	assert.InDelta(Te, 1.0, real(Faddeeva(0)), 1e-12)
	assert.InDelta(Te, 0.0, imag(Faddeeva(0)), 1e-12)

	//w(1+i), from published tables.
	w := Faddeeva(complex(1, 1))
	assert.Less(Te, relErr(w, complex(0.30474420525691259, 0.20821893820283163)), 1e-9)

	//On the imaginary axis w(iy) = exp(y^2)erfc(y), which is real.
	for _, y := range []float64{0.01, 0.5, 1, 2, 4, 5, 8, 10, 12} {
		want := math.Exp(y*y) * math.Erfc(y)
		got := Faddeeva(complex(0, y))
		assert.InDelta(Te, 0, imag(got), 1e-12*want, "y=%g", y)
		assert.InDelta(Te, want, real(got), 1e-9*want, "y=%g", y)
	}
	//On the real axis Re w(x) = exp(-x^2).
	for _, x := range []float64{0.3, 1, 2.5, 5} {
		assert.InDelta(Te, math.Exp(-x*x), real(Faddeeva(complex(x, 0))), 1e-15, "x=%g", x)
	}
}

//TestFaddeevaRegions checks that both approximations agree around the
//boundary between them, and the symmetry w(-conj(z)) = conj(w(z)).
func TestFaddeevaRegions(Te *testing.T) {
	for _, z := range []complex128{complex(6.2, 0.1), complex(3, 4.3), complex(0.5, 4.35), complex(4.4, 3.1)} {
		wr := weideman(z)
		cf := continuedFraction(z, 60)
		assert.Less(Te, relErr(wr, cf), 1e-7, "z=%v", z)
		sym := Faddeeva(-cmplx.Conj(z))
		assert.Less(Te, relErr(sym, cmplx.Conj(Faddeeva(z))), 1e-12, "z=%v", z)
	}
	//lower half plane, through the reflection formula.
	z := complex(0.7, -0.4)
	assert.Less(Te, relErr(Faddeeva(z), 2*cmplx.Exp(-z*z)-Faddeeva(-z)), 1e-12)
}

//dawson returns Dawson's function F(x) = sum (-2x^2)^n x / (2n+1)!!, summed with
//256-bit floats.
func dawson(x float64) *big.Float {
	const prec = 256
	bx := new(big.Float).SetPrec(prec).SetFloat64(x)
	mx2 := new(big.Float).SetPrec(prec).Mul(bx, bx)
	mx2.Mul(mx2, big.NewFloat(-2))
	term := new(big.Float).SetPrec(prec).Set(bx)
	sum := new(big.Float).SetPrec(prec).Set(bx)
	tiny := big.NewFloat(1e-60)
	for n := 0; ; n++ {
		term.Mul(term, mx2)
		term.Quo(term, big.NewFloat(float64(2*n+3)))
		sum.Add(sum, term)
		if float64(n) > 2*x*x+50 && new(big.Float).Abs(term).Cmp(tiny) < 0 {
			return sum
		}
	}
}

//TestFaddeevaNearAxis checks the real part of w close to the real axis, where it is
//tiny, against Re w(x+iy) = exp(y^2-x^2)cos(2xy) - (2/sqrt(pi)) Im F(x+iy), with
//Im F(x+iy) = y F1(x) - y^3 F3(x)/6 + O(y^5), Fn being the n-th derivative of F.
func TestFaddeevaNearAxis(Te *testing.T) {
	for _, z := range []complex128{complex(5.5, 1e-6), complex(6, 1e-5), complex(7, 1e-6), complex(2, 1e-4), complex(5.5, 1e-3), complex(-4, 1e-6)} {
		x, y := real(z), imag(z)
		F := dawson(x)
		//F1 = 1 - 2xF, with the cancellation done in high precision.
		dF := new(big.Float).SetPrec(256).Mul(F, big.NewFloat(-2*x))
		dF.Add(dF, big.NewFloat(1))
		f, _ := F.Float64()
		f1, _ := dF.Float64()
		f2 := -2*f - 2*x*f1
		f3 := -4*f1 - 2*x*f2
		want := math.Exp(y*y-x*x)*math.Cos(2*x*y) - 2/math.Sqrt(math.Pi)*(y*f1-y*y*y/6*f3)
		got := Faddeeva(z)
		fmt.Println("Re w", z, real(got), want)
		assert.InEpsilon(Te, want, real(got), 1e-9, "z=%v", z)
		//Im w(x+iy) = (2/sqrt(pi))F(x) + O(y^2).
		assert.InEpsilon(Te, 2/math.Sqrt(math.Pi)*f, imag(got), 1e-6, "z=%v", z)
	}
}

func co2Line() Line {
	return Line{Nu: 2396.98, GammaAir: 0.0707, GammaSelf: 0.0937, NAir: 0.75, DeltaAir: -0.0019, Mass: 43.98983}
}

//normalization integrates S with the trapezoidal rule, over w half widths to each side
//of the center and n points per half width.
func normalization(Te *testing.T, S Shape, w float64, n int) float64 {
	h := S.HalfWidth()
	step := h / float64(n)
	npts := int(2*w*float64(n)) + 1
	x := make([]float64, npts)
	for i := range x {
		x[i] = S.Center - w*h + float64(i)*step
	}
	y := S.Eval(nil, x)
	return integrate.Trapezoidal(x, y)
}

//lorentzInside is the fraction of the area of a Lorentzian of half width gamma that lies
//within +/-X of its center. Far from the center the Voigt profile has the same tail.
func lorentzInside(gamma, X float64) float64 {
	return 1 - 2/math.Pi*math.Atan(gamma/X)
}

//TestVoigtNormalization checks the area of the profile within a window against the
//area of a Lorentzian with the same pressure width.
func TestVoigtNormalization(Te *testing.T) {
	l := co2Line()
	cases := []struct {
		s   State
		w   float64
		n   int
		tol float64
	}{
		{State{T: 600, P: 0.05, C: 0.1}, 50, 200, 1e-5},
		{State{T: 296, P: 0.02, C: 0.5}, 50, 200, 1e-5},
		{State{T: 1800, P: 0.1, C: 1}, 50, 200, 1e-5},
		//at 1 atm the Lorentzian tails dominate, and the window has to be wide.
		{State{T: 296, P: 1, C: 0.1}, 2000, 20, 1e-5},
		{State{T: 1000, P: 1, C: 0.5}, 2000, 20, 1e-5},
	}
	for _, c := range cases {
		S, err := NewShape(VoigtProfile, l, c.s, 0)
		require.NoError(Te, err)
		area := normalization(Te, S, c.w, c.n)
		want := lorentzInside(S.Gamma, c.w*S.HalfWidth())
		fmt.Println("Voigt area", c.s, area, want)
		assert.InDelta(Te, want, area, c.tol, "state %+v", c.s)
	}
	//Pure Doppler limit. The Gaussian is entirely inside the window.
	S, err := NewShape(VoigtProfile, l, State{T: 600, P: 0, C: 0.1}, 0)
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, S.Gamma)
	assert.InDelta(Te, 1.0, normalization(Te, S, 50, 200), 1e-6)
	//At the center of a Gaussian the profile is sqrt(ln2/pi)/GammaD
	peak := S.Eval(nil, []float64{S.Center})[0]
	assert.InEpsilon(Te, math.Sqrt(math.Ln2/math.Pi)/S.GammaD, peak, 1e-9)
}

//TestDicke checks the Dicke profile reduces to Voigt without narrowing, and stays normalized with it.
func TestDicke(Te *testing.T) {
	l := co2Line()
	s := State{T: 1764, P: 0.05, C: 0.1}
	wn := []float64{2396.9, 2396.95, 2396.98, 2397.0, 2397.1}
	v, err := Voigt(nil, wn, l, s)
	require.NoError(Te, err)
	d, err := Dicke(nil, wn, l, s, 0)
	require.NoError(Te, err)
	for i := range v {
		assert.InEpsilon(Te, v[i], d[i], 1e-12)
	}
	S, err := NewShape(DickeProfile, l, s, 0.01)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, normalization(Te, S, 50, 200), 0.02)
	_, err = NewShape(DickeProfile, l, s, -1)
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
}

//TestWidths checks the widths are non-negative, and the parameter checks.
func TestWidths(Te *testing.T) {
	l := co2Line()
	for _, T := range []float64{1, 100, 296, 1000, 3000} {
		for _, p := range []float64{0, 0.1, 1, 10} {
			s := State{T: T, P: p, C: 0.3}
			assert.GreaterOrEqual(Te, PressureWidth(l, s), 0.0)
			assert.Greater(Te, DopplerWidth(l.Nu, T, l.Mass), 0.0)
		}
	}
	//the reference width at 296 K and 1 atm of a pure air mixture is gamma_air.
	assert.InDelta(Te, l.GammaAir, PressureWidth(l, State{T: 296, P: 1, C: 0}), 1e-15)
	//CO2 at 296 K near 2400 cm-1 has a Doppler HWHM of about 2.229e-3 cm-1.
	assert.InDelta(Te, 2.229e-3, DopplerWidth(2400, 296, 44), 1e-6)

	for _, s := range []State{{T: 0, P: 1}, {T: -5, P: 1}, {T: 300, P: -1}, {T: 300, P: 1, C: 1.5}} {
		_, err := Voigt(nil, []float64{2396.98}, l, s)
		assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter), "state %+v", s)
	}
	_, err := ParseProfile("lorentz")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	p, err := ParseProfile("Dicke")
	assert.NoError(Te, err)
	assert.Equal(Te, DickeProfile, p)
}
