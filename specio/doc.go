//Package specio writes synthesized spectra as tab-delimited text files, and reads them back.

package specio
