/*
 * hitran_test.go, part of gohitran.
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

package hitran

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//linearQ is the partition function used in the tests, Q(T) = 0.5T+10.
func linearQ(T float64) float64 { return 0.5*T + 10 }

var qTemps = []float64{1, 100, 296, 600, 1000}

func writeQ(Te *testing.T, folder, name string) string {
	var b strings.Builder
	b.WriteString("# T Q\n\n")
	for _, t := range qTemps {
		fmt.Fprintf(&b, "%g %g\n", t, linearQ(t))
	}
	path := filepath.Join(folder, name)
	require.NoError(Te, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func writePar(Te *testing.T, folder, name string, lines Lines) string {
	path := filepath.Join(folder, name)
	f, err := os.Create(path)
	require.NoError(Te, err)
	require.NoError(Te, WriteLines(f, lines))
	require.NoError(Te, f.Close())
	return path
}

func TestPartitionTable(Te *testing.T) {
	dir := Te.TempDir()
	writeQ(Te, dir, "Q2.TXT")
	P, name, err := LoadPartitionFunction(2, dir)
	require.NoError(Te, err)
	assert.Equal(Te, filepath.Join(dir, "Q2.TXT"), name)
	assert.Equal(Te, len(qTemps), P.Len())
	for _, t := range qTemps {
		assert.Equal(Te, linearQ(t), P.Query(t))
	}
	assert.InDelta(Te, linearQ(450), P.Query(450), 1e-9)
	assert.InDelta(Te, linearQ(37.5), P.Query(37.5), 1e-9)
	assert.Equal(Te, linearQ(1), P.Query(0.2))
	assert.Equal(Te, linearQ(1000), P.Query(5000))
	min, max := P.Range()
	assert.Equal(Te, 1.0, min)
	assert.Equal(Te, 1000.0, max)
	assert.True(Te, P.IntegerGrid())
	t := P.Temperatures()
	t[0] = -1
	assert.Equal(Te, qTemps, P.Temperatures())
	buf := make([]float64, 0, 10)
	v := P.Values(buf)
	assert.Equal(Te, linearQ(296), v[2])

	_, _, err = LoadPartitionFunction(6, dir)
	assert.True(Te, errors.Is(err, ErrMissingPartitionFunctionFile))
	_, _, err = LoadPartitionFunction(2, filepath.Join(dir, "nothere"))
	assert.True(Te, errors.Is(err, ErrMissingPartitionFunctionFile))

	Pf, err := NewPartitionTable([]float64{100.5, 200}, []float64{1, 2})
	require.NoError(Te, err)
	assert.False(Te, Pf.IntegerGrid())
}

func TestPartitionFormat(Te *testing.T) {
	bad := map[string]int{
		"100 20\n200\n":        2,
		"100 20\n200 x\n":      2,
		"100 20\n# c\nabc 1\n": 3,
		"100 20\n90 10\n":      2,
		"100 20\n100 10\n":     2,
		"100 20\nNaN 10\n":     0,
		"100 20\n200 NaN\n":    0,
		"# only a comment\n":   0,
		"":                     0,
	}
	for in, line := range bad {
		_, err := ReadPartitionTable(strings.NewReader(in))
		require.Error(Te, err, in)
		assert.True(Te, errors.Is(err, ErrInvalidPartitionFunctionFormat), in)
		var fe FileError
		require.True(Te, errors.As(err, &fe))
		assert.Equal(Te, line, fe.Line(), in)
	}
	P, err := ReadPartitionTable(strings.NewReader("  100 20 extra\n\n200 40\n"))
	require.NoError(Te, err)
	assert.Equal(Te, 30.0, P.Query(150))
	_, err = NewPartitionTable([]float64{1, 2}, []float64{1})
	assert.True(Te, errors.Is(err, ErrInvalidPartitionFunctionFormat))
	_, err = NewPartitionTable([]float64{1, math.NaN()}, []float64{1, 2})
	assert.True(Te, errors.Is(err, ErrInvalidPartitionFunctionFormat))
	_, err = NewPartitionTable([]float64{1, 2}, []float64{2, 1})
	require.NoError(Te, err)

	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "q5.txt"), []byte("100 1\n50 2\n"), 0o644))
	_, _, err = LoadPartitionFunction(5, dir)
	var fe FileError
	require.True(Te, errors.As(err, &fe))
	assert.Equal(Te, filepath.Join(dir, "q5.txt"), fe.FileName())
	assert.Equal(Te, 2, fe.Line())
	fmt.Println(err)
}

func TestScaleIntensity(Te *testing.T) {
	S, err := ScaleIntensity(1e-20, 500, 2000, TRef, 300, 300)
	require.NoError(Te, err)
	assert.InEpsilon(Te, 1e-20, S, 1e-14)

	S, err = ScaleIntensity(1e-20, 2000, 2000, 600, 700, 300)
	require.NoError(Te, err)
	want := 1e-20 * (300.0 / 700.0) * math.Exp(-C2*2000/600) / math.Exp(-C2*2000/TRef) *
		(1 - math.Exp(-C2*2000/600)) / (1 - math.Exp(-C2*2000/TRef))
	assert.InEpsilon(Te, want, S, 1e-12)
	assert.Greater(Te, S, 1e-20*300/700) //a hot band gains intensity.

	_, err = ScaleIntensity(1e-20, 0, 2000, 600, 0, 300)
	assert.True(Te, errors.Is(err, ErrDataError))
	_, err = ScaleIntensity(1e-20, 0, 2000, 0, 1, 300)
	assert.True(Te, errors.Is(err, ErrInvalidParameter))
	//huge lower state energies must not give NaN
	S, err = ScaleIntensity(1e-20, 1e5, 2000, 100, 1, 1)
	require.NoError(Te, err)
	assert.False(Te, math.IsNaN(S))
	assert.Equal(Te, 0.0, S)
}

func TestScaler(Te *testing.T) {
	P, err := NewPartitionTable(qTemps, []float64{linearQ(1), linearQ(100), linearQ(296), linearQ(600), linearQ(1000)})
	require.NoError(Te, err)
	l := SpectralLine{Molecule: 2, Isotope: 1, Nu: 2300, S: 1e-21, E: 800}

	s, err := NewScaler(P, 450.4, QInterpolate)
	require.NoError(Te, err)
	assert.InDelta(Te, linearQ(450.4), s.QT, 1e-9)
	want, _ := ScaleIntensity(l.S, l.E, l.Nu, 450.4, s.QT, s.QRef)
	assert.InEpsilon(Te, want, s.Scale(l), 1e-12)

	r, err := NewScaler(P, 450.4, QRoundOnIntegerGrid)
	require.NoError(Te, err)
	assert.InDelta(Te, linearQ(450), r.QT, 1e-9)
	assert.NotEqual(Te, s.Scale(l), r.Scale(l))

	_, err = NewScaler(P, -3, QInterpolate)
	assert.True(Te, errors.Is(err, ErrInvalidParameter))
	Z, _ := NewPartitionTable([]float64{200, 300}, []float64{0, 0})
	_, err = NewScaler(Z, 250, QInterpolate)
	assert.True(Te, errors.Is(err, ErrDataError))

	for in, want := range map[string]QRounding{"": QInterpolate, "interpolate": QInterpolate, "round": QRoundOnIntegerGrid} {
		q, err := ParseQRounding(in)
		require.NoError(Te, err)
		assert.Equal(Te, want, q)
	}
	_, err = ParseQRounding("nearest")
	assert.Error(Te, err)
}

func TestIsotopologues(Te *testing.T) {
	info, err := LookupIsotopologue(2, 1)
	require.NoError(Te, err)
	assert.Equal(Te, "CO2", info.Parent)
	assert.InDelta(Te, 43.98983, info.Mass, 1e-5)
	assert.Equal(Te, 7, info.GlobalID)
	_, err = LookupIsotopologue(2, 13)
	assert.True(Te, errors.Is(err, ErrIsotopologueNotFound))
	id, ok := MoleculeID("co2")
	assert.True(Te, ok)
	assert.Equal(Te, 2, id)
	name, ok := MoleculeName(6)
	assert.True(Te, ok)
	assert.Equal(Te, "CH4", name)
	_, ok = MoleculeName(99)
	assert.False(Te, ok)
	isos := IsotopologuesOf(2)
	require.Len(Te, isos, 12)
	for i, v := range isos {
		assert.Equal(Te, i+1, v.Isotope)
	}
	fmt.Println(isos[0])
}

func TestLoadMolecule(Te *testing.T) {
	dir := Te.TempDir()
	qfile := writeQ(Te, dir, "q2.txt")
	par := writePar(Te, dir, "co2.par", sampleLines())
	D, err := LoadMolecule(par, dir, 0.1, "")
	require.NoError(Te, err)
	assert.Equal(Te, "CO2", D.Name)
	assert.Equal(Te, 1, D.Info.Isotope)
	assert.InDelta(Te, 43.98983, D.Mass, 1e-5)
	assert.Equal(Te, 5, D.Len())
	assert.Equal(Te, 2396.98, D.MinNu)
	assert.Equal(Te, 2399.001, D.MaxNu)
	assert.Equal(Te, qfile, D.QFile)
	assert.Equal(Te, []int{1, 2, 3}, D.IsotopeIDs)
	assert.Equal(Te, D.Lines[3], D.Line(3))
	smin, smax := D.IntensityRange()
	assert.Equal(Te, 1e-26, smin)
	assert.Equal(Te, 3.1e-22, smax)
	desc := D.Describe()
	for _, s := range []string{"Molecule: CO2", "Molecule ID: 2", "Isotope ID: 1", "Concentration: 0.1", "Molar mass: 43.98983", "Lines: 5", "Wavenumber range: 2396.9800 - 2399.0010", "Partition function range: 1 - 1000 K"} {
		assert.Contains(Te, desc, s)
	}
	fmt.Println(desc)

	D2, err := D.WithConcentration(0.05)
	require.NoError(Te, err)
	assert.Equal(Te, 0.05, D2.Concentration)
	assert.Equal(Te, 0.1, D.Concentration)
	_, err = D.WithConcentration(1.5)
	assert.True(Te, errors.Is(err, ErrInvalidParameter))

	named, err := LoadMolecule(par, dir, 1, "carbon dioxide")
	require.NoError(Te, err)
	assert.Equal(Te, "carbon dioxide", named.Name)

	_, err = LoadMolecule(par, dir, 0, "")
	assert.True(Te, errors.Is(err, ErrInvalidParameter))
	_, err = LoadMolecule(par, Te.TempDir(), 0.1, "")
	assert.True(Te, errors.Is(err, ErrMissingPartitionFunctionFile))
	_, err = LoadMolecule(filepath.Join(dir, "none.par"), dir, 0.1, "")
	assert.Error(Te, err)
}

//TestLoadMoleculeIsotopes checks the fallback to isotope 1 and the unknown molecule error.
func TestLoadMoleculeIsotopes(Te *testing.T) {
	dir := Te.TempDir()
	writeQ(Te, dir, "q10.txt")
	lines := Lines{
		{Molecule: 10, Isotope: 5, Nu: 1600, S: 1e-20, GammaAir: 0.06, GammaSelf: 0.1, NAir: 0.7},
		{Molecule: 10, Isotope: 5, Nu: 1601, S: 1e-20, GammaAir: 0.06, GammaSelf: 0.1, NAir: 0.7},
	}
	D, err := LoadMolecule(writePar(Te, dir, "no2.par", lines), dir, 0.5, "")
	require.NoError(Te, err)
	assert.Equal(Te, "NO2", D.Name)
	assert.Equal(Te, 1, D.Info.Isotope)
	assert.Equal(Te, []int{5}, D.IsotopeIDs)

	for i := range lines {
		lines[i].Molecule = 60
		lines[i].Isotope = 1
	}
	_, err = LoadMolecule(writePar(Te, dir, "x.par", lines), dir, 0.5, "")
	assert.True(Te, errors.Is(err, ErrIsotopologueNotFound))
	var fe FileError
	require.True(Te, errors.As(err, &fe))
	assert.Equal(Te, filepath.Join(dir, "x.par"), fe.FileName())

	_, err = NewMoleculeDataset("x", IsotopologueInfo{Mass: 0}, 0.5, lines, &PartitionTable{})
	assert.True(Te, errors.Is(err, ErrInvalidParameter))
}

func TestErrors(Te *testing.T) {
	e := NewError(ErrDataError, "bad value", "first")
	e.InFile("a.par", 12)
	err := ErrDecorate(e, "second")
	assert.Equal(Te, "data error in a.par:12: bad value [first < second]", err.Error())
	assert.True(Te, e.Critical())
	assert.False(Te, e.Warning().Critical())
	assert.Nil(Te, ErrDecorate(nil, "x"))
	plain := errors.New("plain")
	assert.Equal(Te, plain, ErrDecorate(plain, "x"))
	assert.Equal(Te, "invalid parameter at line 3", Errorf(ErrInvalidParameter, "").InFile("", 3).Error())
}
