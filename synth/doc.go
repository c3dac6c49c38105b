//Package synth computes line-by-line absorption spectra. Synthesize accumulates the
//lines of one molecule on a wavenumber grid, and SynthesizeMixture combines several
//molecules into the optical depth, absorbance and transmittance of the mixture.
//Session keeps the molecules loaded for a calculation. Fit finds the temperature and
//concentrations that best reproduce a measured spectrum.
package synth
