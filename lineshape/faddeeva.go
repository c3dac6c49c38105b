/*
 * faddeeva.go, part of gohitran.
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
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

//Number of terms in Weideman's rational approximation. 32 terms give
//around 13 significant digits in the region where it is used.
const weidemanN = 32

var (
	weidemanL = math.Sqrt(weidemanN / math.Sqrt2)
	weidemanA [weidemanN]float64 //weidemanA[n] multiplies Z^n
)

func init() {
	weidemanCoefficients(weidemanA[:])
}

//weidemanCoefficients obtains the expansion coefficients from the FFT of
//exp(-t^2)(L^2+t^2) sampled at t = L tan(theta/2), theta = k pi/M.
func weidemanCoefficients(a []float64) {
	N := len(a)
	M := 2 * N
	M2 := 2 * M
	L := math.Sqrt(float64(N) / math.Sqrt2)
	f := make([]complex128, M2) //f[0] stays 0.
	for j := 1; j < M2; j++ {
		k := j - M
		t := L * math.Tan(float64(k)*math.Pi/float64(2*M))
		f[j] = complex(math.Exp(-t*t)*(L*L+t*t), 0)
	}
	shifted := make([]complex128, M2)
	for i := range shifted {
		shifted[i] = f[(i+M)%M2]
	}
	fft := fourier.NewCmplxFFT(M2)
	c := fft.Coefficients(nil, shifted)
	for n := 0; n < N; n++ {
		a[n] = real(c[n+1]) / float64(M2)
	}
}

//Close to the real axis, for Im z < axisY and |Re z| < axisX, the real part of w
//is a small difference that both approximations give only to an absolute precision
//of about 1e-14. It is taken instead from the expansion of w around the real axis.
const (
	axisY = 1e-3
	axisX = 8
)

//Faddeeva returns the scaled complex complementary error function
//w(z) = exp(-z^2) erfc(-iz).
//In the upper half plane, Weideman's rational approximation is used close to the
//origin and the Laplace continued fraction far from it. The lower half plane is
//obtained from w(z) = 2 exp(-z^2) - w(-z).
func Faddeeva(z complex128) complex128 {
	if imag(z) < 0 {
		return 2*cmplx.Exp(-z*z) - Faddeeva(-z)
	}
	x, y := real(z), imag(z)
	var w complex128
	rho2 := (x/6.3)*(x/6.3) + (y/4.4)*(y/4.4)
	if rho2 >= 1 {
		w = continuedFraction(z, 3+int(1442/(26+77*math.Sqrt(rho2))))
	} else {
		w = weideman(z)
	}
	if y == 0 {
		//on the real axis the real part is exactly exp(-x^2), which both
		//approximations only reproduce to an absolute precision.
		w = complex(math.Exp(-x*x), imag(w))
	} else if y < axisY && math.Abs(x) < axisX {
		w = complex(realNearAxis(x, y), imag(w))
	}
	return w
}

//realNearAxis returns Re w(x+iy) from the Taylor series of w around x, up to y^4.
//On the real axis w(x) = exp(-x^2) + ib, and the derivatives follow from
//w' = -2zw + 2i/sqrt(pi). The error is of order y^5.
func realNearAxis(x, y float64) float64 {
	a := math.Exp(-x * x)
	b := imag(Faddeeva(complex(x, 0)))
	c := 2 / sqrtPi
	x2, y2 := x*x, y*y
	re := a
	re += y * (2*x*b - c)
	re -= y2 / 2 * (4*x2 - 2) * a
	re += y2 * y / 6 * ((12*x-8*x2*x)*b + c*(4*x2-4))
	re += y2 * y2 / 24 * (16*x2*x2 - 48*x2 + 12) * a
	return re
}

//weideman evaluates Weideman's approximation, valid for Im z >= 0.
func weideman(z complex128) complex128 {
	iz := complex(-imag(z), real(z))
	L := complex(weidemanL, 0)
	den := L - iz
	Z := (L + iz) / den
	p := complex(weidemanA[weidemanN-1], 0)
	for n := weidemanN - 2; n >= 0; n-- {
		p = p*Z + complex(weidemanA[n], 0)
	}
	return 2*p/(den*den) + complex(1/sqrtPi, 0)/den
}

//continuedFraction evaluates the Laplace continued fraction for w(z),
//w(z) = (i/sqrt(pi)) / (z - (1/2)/(z - 1/(z - (3/2)/(z - ...)))), with n terms.
//Valid for Im z > 0 and |z| not small.
func continuedFraction(z complex128, n int) complex128 {
	r := z
	for k := n; k >= 1; k-- {
		r = z - complex(float64(k)/2, 0)/r
	}
	return complex(0, 1/sqrtPi) / r
}

//Re returns the real part of w(x+iy), which is the Voigt function K(x,y).
func Re(x, y float64) float64 {
	return real(Faddeeva(complex(x, y)))
}
