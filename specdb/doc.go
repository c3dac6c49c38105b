//Package specdb keeps an archive of synthesized spectra in an SQLite database. Each run
//stores its conditions, the molecules with their absorption coefficients, and the mixture
//spectrum. Arrays are stored as little-endian float64 blobs.

package specdb
