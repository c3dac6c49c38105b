//Package specplot draws synthesized spectra with gonum/plot. Each molecule gets its own
//line, and the mixture is drawn dashed.

package specplot
