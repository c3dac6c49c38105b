/*Package hitran is the main package of the goHitran library. It reads HITRAN line lists and
partition functions, and provides the isotopologue reference data and the line intensity scaling
needed to compute line-by-line absorption spectra.

	**goHitran Capabilities**

    Reads HITRAN 160-character line lists, plain or compressed (zstd, gzip, bzip2, flate, lzw).
    Malformed records are skipped and reported, not fatal.

    Reads partition function tables and interpolates them at any temperature.

    Looks up mass, abundance and names for all HITRAN isotopologues.

    Scales line intensities from the 296 K reference to any temperature.

    Computes Voigt and Dicke-narrowed line shapes (package lineshape).

    Accumulates lines on a wavenumber grid in parallel, and computes the optical
	depth, absorbance and transmittance of gas mixtures (package synth).

    Writes and reads spectra as text tables (package specio), plots them (package specplot)
	and archives runs in SQLite (package specdb).

Units are CGS, with wavenumbers in cm-1 and pressures in atm, as in HITRAN.

Errors returned by all packages are *hitran.Error values, which wrap one of the Err* kinds
of this package and can be tested with errors.Is.
*/
package hitran
