package specplot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lorentzResult(Te *testing.T) *synth.Result {
	n := 400
	wn := make([]float64, n)
	coefs := [][]float64{make([]float64, n), make([]float64, n)}
	for i := range wn {
		wn[i] = 2396 + 0.005*float64(i)
		for k, c := range []float64{2396.98, 2397.28} {
			d := wn[i] - c
			coefs[k][i] = 1e-21 * 0.05 / math.Pi / (d*d + 0.0025)
		}
	}
	R := &synth.Result{Wavenumbers: wn, Names: []string{"CO2", "CO"}, Concentrations: []float64{0.1, 0.2}, Coefficients: coefs}
	R.Total = make([]float64, n)
	for i := range wn {
		R.Total[i] = coefs[0][i] + coefs[1][i]
	}
	var err error
	R.OD, R.Ab, R.Tr, R.MoleculeOD, err = synth.Aggregate(coefs, 296, 1, 1)
	require.NoError(Te, err)
	return R
}

func TestPlotResult(Te *testing.T) {
	R := lorentzResult(Te)
	dir := Te.TempDir()
	for _, q := range []string{"coef", "od", "ab", "tr"} {
		quantity, err := ParseQuantity(q)
		require.NoError(Te, err)
		assert.Equal(Te, q, quantity.String())
		for _, ext := range []string{".png", ".svg"} {
			path := filepath.Join(dir, q+ext)
			require.NoError(Te, PlotResult(R, quantity, "Test "+q, path))
			st, err := os.Stat(path)
			require.NoError(Te, err)
			assert.Greater(Te, st.Size(), int64(0))
		}
	}
	_, err := ParseQuantity("radiance")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	assert.Error(Te, PlotResult(&synth.Result{}, OpticalDepth, "", filepath.Join(dir, "x.png")))
	assert.Error(Te, PlotResult(R, OpticalDepth, "", filepath.Join(dir, "x.unknown")))
	s := resultSeries(R, Transmittance)
	require.Len(Te, s, 3)
	assert.InDelta(Te, math.Exp(-R.MoleculeOD[1][10]), s[1].y[10], 1e-15)
}

func TestPlotTable(Te *testing.T) {
	R := lorentzResult(Te)
	dir := Te.TempDir()
	file := filepath.Join(dir, "spec.tsv")
	require.NoError(Te, specio.SaveSpectrum(file, R, specio.Header{}))
	T, err := specio.LoadSpectrum(file)
	require.NoError(Te, err)
	require.NoError(Te, PlotTable(T, nil, "all OD", filepath.Join(dir, "od.png")))
	require.NoError(Te, PlotTable(T, []string{specio.ColTr}, "Tr", filepath.Join(dir, "tr.pdf")))
	assert.Error(Te, PlotTable(T, []string{"nope"}, "", filepath.Join(dir, "n.png")))
	assert.Error(Te, PlotTable(&specio.Table{}, nil, "", filepath.Join(dir, "e.png")))
	for i := 0; i < 5; i++ {
		r, g, b := colors(i, 5)
		assert.False(Te, r == 255 && g == 255 && b == 255)
	}
}
