package specio

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(Te *testing.T) *synth.Result {
	coefs := [][]float64{{1e-22, 3e-22, 2e-22, 0}, {0, 1.234567e-23, 5e-21, 7e-24}}
	R := &synth.Result{
		Wavenumbers:    []float64{2396.98, 2396.99, 2397, 2397.01},
		Names:          []string{"CO2", "carbon monoxide"},
		Concentrations: []float64{0.1, 0.05},
		Coefficients:   coefs,
		Conditions:     synth.Conditions{T: 600, P: 1, PathLength: 10},
		Options:        synth.Options{OmegaWing: 10},
		Resolution:     0.01,
	}
	R.Total = make([]float64, 4)
	for i := range R.Total {
		R.Total[i] = coefs[0][i] + coefs[1][i]
	}
	var err error
	R.OD, R.Ab, R.Tr, R.MoleculeOD, err = synth.Aggregate(coefs, 600, 1, 10)
	require.NoError(Te, err)
	return R
}

func TestWriteRead(Te *testing.T) {
	R := testResult(Te)
	var b bytes.Buffer
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(Te, WriteSpectrum(&b, R, Header{Program: "gohitran test", Created: created, Notes: []string{"note"}}))
	fmt.Print(b.String())
	assert.Contains(Te, b.String(), "# molecule: CO2 concentration: 0.1\n")
	assert.Contains(Te, b.String(), "wavenumber\tcoef_total\tOD\tAb\tTr\tOD_CO2\tOD_carbon_monoxide\n")
	assert.Contains(Te, b.String(), "# created: 2024-03-01T12:00:00Z")

	T, err := ReadSpectrum(&b)
	require.NoError(Te, err)
	assert.Equal(Te, 4, T.Len())
	assert.Equal(Te, Columns(R), T.Names)
	assert.Equal(Te, []string{"CO2", "carbon_monoxide"}, T.Molecules())
	assert.Contains(Te, T.Comments, "note")
	check := func(name string, want []float64) {
		got, ok := T.Column(name)
		require.True(Te, ok, name)
		require.Len(Te, got, len(want))
		for i := range want {
			assert.InDelta(Te, want[i], got[i], 1e-6*abs(want[i]), name)
		}
	}
	check(ColWavenumber, R.Wavenumbers)
	check(ColCoef, R.Total)
	check(ColOD, R.OD)
	check(ColAb, R.Ab)
	check(ColTr, R.Tr)
	check("OD_carbon_monoxide", R.MoleculeOD[1])
	_, ok := T.Column("nothing")
	assert.False(Te, ok)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestReadErrors(Te *testing.T) {
	for _, in := range []string{
		"",
		"# only comments\n",
		"wavenumber\tOD\n1\t2\t3\n",
		"wavenumber\tOD\n1\tx\n",
		"OD\twavenumber\n1\t2\n",
	} {
		_, err := ReadSpectrum(strings.NewReader(in))
		assert.True(Te, errors.Is(err, hitran.ErrDataError), in)
	}
}

func TestSaveLoad(Te *testing.T) {
	R := testResult(Te)
	dir := Te.TempDir()
	for _, name := range []string{"spec.tsv", "spec.tsv.gz", "spec.tsv.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, SaveSpectrum(path, R, Header{}))
		T, err := LoadSpectrum(path)
		require.NoError(Te, err, name)
		assert.Equal(Te, R.Len(), T.Len())
		tr, _ := T.Column(ColTr)
		assert.InDelta(Te, R.Tr[2], tr[2], 1e-6)
	}
	assert.Error(Te, SaveSpectrum(filepath.Join(dir, "spec.bz2"), R, Header{}))
	_, err := LoadSpectrum(filepath.Join(dir, "missing.tsv"))
	assert.Error(Te, err)
}
