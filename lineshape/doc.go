//Package lineshape evaluates normalized spectral line shapes: the Voigt
//profile and its Dicke-narrowed variant, both through the Faddeeva function.
//Widths and positions are in cm-1, pressures in atm.

package lineshape
