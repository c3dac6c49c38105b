package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/specdb"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//fixtures writes a CO2 and a CO line list, with their partition functions, to a
//temporary folder, and returns it.
func fixtures(Te *testing.T) string {
	dir := Te.TempDir()
	var q strings.Builder
	for _, t := range []float64{100, 200, 296, 400, 600, 800, 1000} {
		fmt.Fprintf(&q, "%g %g\n", t, 0.5*t+10)
	}
	for _, name := range []string{"q2.txt", "q5.txt"} {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, name), []byte(q.String()), 0o644))
	}
	co2 := hitran.Lines{
		{Molecule: 2, Isotope: 1, Nu: 2396.98, S: 1e-19, GammaAir: 0.0707, GammaSelf: 0.094, NAir: 0.75, DeltaAir: -0.0019},
		{Molecule: 2, Isotope: 1, Nu: 2397.28, S: 1e-19, GammaAir: 0.0707, GammaSelf: 0.094, NAir: 0.75, DeltaAir: -0.0019},
	}
	co := hitran.Lines{
		{Molecule: 5, Isotope: 1, Nu: 2397.5, S: 5e-20, GammaAir: 0.06, GammaSelf: 0.07, E: 100, NAir: 0.7},
	}
	writePar(Te, filepath.Join(dir, "co2.par"), co2)
	writePar(Te, filepath.Join(dir, "co.par.zst"), co)
	return dir
}

func writePar(Te *testing.T, path string, lines hitran.Lines) {
	f, err := hitran.CreateFile(path)
	require.NoError(Te, err)
	require.NoError(Te, hitran.WriteLines(f, lines))
	require.NoError(Te, f.Close())
}

//run executes the command line args and returns what it printed.
func run(Te *testing.T, args ...string) (string, error) {
	cmd := rootCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(Te.TempDir(), "none.env"), "--log-level", "warn"}, args...))
	err := cmd.ExecuteContext(context.Background())
	if logs.Len() > 0 {
		fmt.Print(logs.String())
	}
	return out.String(), err
}

func TestSynthFlags(Te *testing.T) {
	dir := fixtures(Te)
	out := filepath.Join(dir, "out.tsv.gz")
	png := filepath.Join(dir, "od.png")
	db := filepath.Join(dir, "runs.db")
	text, err := run(Te, "synth", "-q", dir,
		"--par", filepath.Join(dir, "co2.par")+":0.1",
		"--par", filepath.Join(dir, "co.par.zst")+":0.05:carbon monoxide",
		"-T", "600", "-p", "1", "-l", "10", "--start", "2396", "--end", "2398", "--res", "0.01",
		"-o", out, "--plot", png, "--db", db, "--note", "flags run")
	require.NoError(Te, err)
	fmt.Println(text)
	g, err := synth.NewGrid(2396, 2398, 0.01)
	require.NoError(Te, err)
	assert.Contains(Te, text, fmt.Sprintf("Points: %d", g.Len()))
	assert.Contains(Te, text, "Molecule: CO2")
	assert.Contains(Te, text, "Molecule: carbon monoxide")
	assert.Contains(Te, text, "T: 600 K, p: 1 atm, path length: 10 cm")
	assert.FileExists(Te, png)

	t, err := specio.LoadSpectrum(out)
	require.NoError(Te, err)
	assert.Equal(Te, g.Len(), t.Len())
	assert.Equal(Te, []string{"CO2", "carbon_monoxide"}, t.Molecules())

	store, err := specdb.Open(db)
	require.NoError(Te, err)
	runs, err := store.ListRuns(context.Background())
	require.NoError(Te, err)
	require.NoError(Te, store.Close())
	require.Len(Te, runs, 1)
	assert.Equal(Te, "flags run", runs[0].Note)
	assert.Equal(Te, []string{"CO2", "carbon monoxide"}, runs[0].Molecules)
	id := runs[0].ID

	text, err = run(Te, "runs", "list", "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, text, id)
	assert.Contains(Te, text, "flags run")

	text, err = run(Te, "runs", "show", id[:8], "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, text, "Run: "+id)
	assert.Contains(Te, text, "Molecule 2: carbon monoxide, concentration 0.05, 1 lines")

	exported := filepath.Join(dir, "exported.tsv")
	svg := filepath.Join(dir, "tr.svg")
	_, err = run(Te, "runs", "export", id, "--db", db, "-o", exported, "--plot", svg, "--plot-quantity", "tr")
	require.NoError(Te, err)
	assert.FileExists(Te, svg)
	e, err := specio.LoadSpectrum(exported)
	require.NoError(Te, err)
	for _, name := range t.Names {
		a, _ := t.Column(name)
		b, ok := e.Column(name)
		require.True(Te, ok, name)
		assert.Equal(Te, a, b, name) //both written from the same float64 values
	}

	_, err = run(Te, "plot", out, "-o", filepath.Join(dir, "table.png"))
	require.NoError(Te, err)
	assert.FileExists(Te, filepath.Join(dir, "table.png"))
	_, err = run(Te, "plot", out, "-o", filepath.Join(dir, "bad.png"), "--columns", "nothere")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))

	_, err = run(Te, "runs", "export", id, "--db", db)
	assert.Error(Te, err)
	_, err = run(Te, "runs", "show", "zzz", "--db", db)
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	text, err = run(Te, "runs", "delete", id, "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, text, id)
	text, err = run(Te, "runs", "list", "--db", db)
	require.NoError(Te, err)
	assert.Contains(Te, text, "No runs")
}

func TestSynthConfig(Te *testing.T) {
	dir := fixtures(Te)
	runFile := `partition_folder: .
temperature: 296
pressure: 0.5
path_length: 1
grid:
  start: 2396.5
  end: 2397.5
  resolution: 0.005
molecules:
  - file: co2.par
    concentration: 0.3
  - file: co.par.zst
    concentration: 0.1
`
	state := "temperature: 800\npressure: 202650\nmole_fractions:\n  CO2: 0.2\n  CO: 0\n"
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "run.yaml"), []byte(runFile), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "eq.yaml"), []byte(state), 0o644))

	text, err := run(Te, "synth", "-c", filepath.Join(dir, "run.yaml"), "-p", "2")
	require.NoError(Te, err)
	assert.Contains(Te, text, "T: 296 K, p: 2 atm")
	assert.Contains(Te, text, "Molecule: CO\n")

	text, err = run(Te, "synth", "-c", filepath.Join(dir, "run.yaml"), "--state", filepath.Join(dir, "eq.yaml"))
	require.NoError(Te, err)
	assert.Contains(Te, text, "1 molecule(s) loaded")
	assert.Contains(Te, text, "T: 800 K, p: 2 atm")
	assert.Contains(Te, text, "Concentration: 0.2")

	_, err = run(Te, "synth", "-c", filepath.Join(dir, "run.yaml"), "--profile", "gauss")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	_, err = run(Te, "synth", "-q", dir)
	assert.True(Te, errors.Is(err, hitran.ErrNoMoleculesLoaded))
	_, err = run(Te, "synth", "-q", dir, "--par", "co2.par")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
}

//TestSynthDuplicates checks that two line lists can't end up with the same molecule name.
func TestSynthDuplicates(Te *testing.T) {
	dir := fixtures(Te)
	co2 := filepath.Join(dir, "co2.par")
	hot := filepath.Join(dir, "co2hot.par")
	writePar(Te, hot, hitran.Lines{
		{Molecule: 2, Isotope: 1, Nu: 2397.1, S: 2e-19, GammaAir: 0.0707, GammaSelf: 0.094, E: 3000, NAir: 0.75},
	})
	grid := []string{"-q", dir, "--start", "2396", "--end", "2398", "--res", "0.01"}
	//both get the default name, CO2.
	_, err := run(Te, append([]string{"synth", "--par", co2 + ":0.1", "--par", hot + ":0.1"}, grid...)...)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	assert.Contains(Te, err.Error(), "already loaded")
	//an explicit name that clashes with a default one.
	_, err = run(Te, append([]string{"synth", "--par", co2 + ":0.1", "--par", hot + ":0.1:CO2"}, grid...)...)
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	//the same explicit name twice is caught by the configuration check.
	_, err = run(Te, append([]string{"synth", "--par", co2 + ":0.1:a", "--par", hot + ":0.1:a"}, grid...)...)
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))

	text, err := run(Te, append([]string{"synth", "--par", co2 + ":0.1", "--par", hot + ":0.1:CO2 hot"}, grid...)...)
	require.NoError(Te, err)
	assert.Contains(Te, text, "2 molecule(s) loaded")
	assert.Contains(Te, text, "Molecule: CO2 hot")
}

//TestFitCommand fits the temperature back from a spectrum written by synth.
func TestFitCommand(Te *testing.T) {
	dir := fixtures(Te)
	co2 := filepath.Join(dir, "co2.par") + ":0.1"
	measured := filepath.Join(dir, "measured.tsv")
	_, err := run(Te, "synth", "-q", dir, "--par", co2, "-T", "600", "-p", "1", "-l", "10",
		"--start", "2396", "--end", "2398", "--res", "0.01", "-o", measured)
	require.NoError(Te, err)

	//OD, Ab and Tr give the same optical depths where the absorption is not saturated.
	wn, od, isOD, err := measuredSpectrum(measured, specio.ColOD)
	require.NoError(Te, err)
	assert.True(Te, isOD)
	for _, col := range []string{specio.ColAb, specio.ColTr} {
		wn2, y, isOD, err := measuredSpectrum(measured, col)
		require.NoError(Te, err)
		assert.True(Te, isOD)
		assert.Equal(Te, wn, wn2)
		for i := range y {
			if od[i] < 2 {
				assert.InDelta(Te, od[i], y[i], 1e-5*(1+od[i]), "%s at %g", col, wn[i])
			}
		}
	}
	_, _, isOD, err = measuredSpectrum(measured, specio.ColCoef)
	require.NoError(Te, err)
	assert.False(Te, isOD)
	_, _, _, err = measuredSpectrum(measured, "OD_CO2")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	_, _, _, err = measuredSpectrum(measured, "nothere")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))

	fitted := filepath.Join(dir, "fitted.tsv")
	text, err := run(Te, "fit", "-q", dir, "--par", co2, "-T", "500", "-p", "1", "-l", "10",
		"--t-min", "300", "--t-max", "1000", "--measured", measured, "--column", "OD", "-o", fitted)
	require.NoError(Te, err)
	fmt.Println(text)
	var T float64
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "T: ") {
			_, err := fmt.Sscanf(line, "T: %f K", &T)
			require.NoError(Te, err)
		}
	}
	assert.InDelta(Te, 600, T, 1)
	assert.Contains(Te, text, "Concentration of CO2: 0.1\n")
	assert.NotContains(Te, text, "did not converge")
	t, err := specio.LoadSpectrum(fitted)
	require.NoError(Te, err)
	assert.Equal(Te, len(wn), t.Len())

	_, err = run(Te, "fit", "-q", dir, "--par", co2, "-T", "500")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	_, err = run(Te, "fit", "-q", dir, "--par", co2, "-T", "500", "--measured", measured, "--fit-concentration", "CO")
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	_, err = run(Te, "fit", "-q", dir, "--par", co2, "-T", "500", "--measured", filepath.Join(dir, "none.tsv"))
	assert.Error(Te, err)
}

func TestParseMolecule(Te *testing.T) {
	m, err := parseMolecule("a.par:0.5")
	require.NoError(Te, err)
	assert.Equal(Te, "a.par", m.File)
	assert.Equal(Te, 0.5, m.Concentration)
	assert.Equal(Te, "", m.Name)
	m, err = parseMolecule("b.par.zst:1e-3:CO2 hot")
	require.NoError(Te, err)
	assert.Equal(Te, 1e-3, m.Concentration)
	assert.Equal(Te, "CO2 hot", m.Name)
	m, err = parseMolecule(`C:\data\co2.par:0.1`)
	require.NoError(Te, err)
	assert.Equal(Te, `C:\data\co2.par`, m.File)
	assert.Equal(Te, 0.1, m.Concentration)
	assert.Equal(Te, "", m.Name)
	m, err = parseMolecule(`C:\data\co2.par:0.2:CO2`)
	require.NoError(Te, err)
	assert.Equal(Te, `C:\data\co2.par`, m.File)
	assert.Equal(Te, 0.2, m.Concentration)
	assert.Equal(Te, "CO2", m.Name)
	m, err = parseMolecule("a.par:0.5:12")
	require.NoError(Te, err)
	assert.Equal(Te, "a.par", m.File)
	assert.Equal(Te, "12", m.Name)
	for _, bad := range []string{"a.par", ":0.5", "a.par:x", "a:1:b:c", `C:\co2.par`} {
		_, err := parseMolecule(bad)
		assert.Error(Te, err, bad)
	}
}

func TestLineCommands(Te *testing.T) {
	dir := fixtures(Te)
	text, err := run(Te, "scan", filepath.Join(dir, "co2.par"))
	require.NoError(Te, err)
	assert.Contains(Te, text, "2 lines\t2396.9800 - 2397.2800 cm-1")

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "broken.par"), []byte("not a line list\n"), 0o644))
	text, err = run(Te, "list", dir)
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(Te, lines, 3)
	assert.Contains(Te, lines[0], "broken.par\tunreadable")
	assert.Contains(Te, lines[1], "co.par.zst\t1 lines\t2397.5000 - 2397.5000 cm-1")
	assert.Contains(Te, lines[2], "co2.par\t2 lines")

	text, err = run(Te, "list", Te.TempDir())
	require.NoError(Te, err)
	assert.Contains(Te, text, "No line lists")

	text, err = run(Te, "describe", "-q", dir, filepath.Join(dir, "co2.par"), filepath.Join(dir, "co.par.zst"))
	require.NoError(Te, err)
	assert.Contains(Te, text, "Molecule: CO2")
	assert.Contains(Te, text, "Molecule: CO\n")
	_, err = run(Te, "describe", filepath.Join(dir, "co2.par"))
	assert.True(Te, errors.Is(err, hitran.ErrInvalidParameter))
	_, err = run(Te, "describe", "-q", Te.TempDir(), filepath.Join(dir, "co2.par"))
	assert.True(Te, errors.Is(err, hitran.ErrMissingPartitionFunctionFile))
}

func TestLogging(Te *testing.T) {
	var b bytes.Buffer
	require.NoError(Te, setupLogging(&b, "info", "json"))
	require.NoError(Te, setupLogging(&b, "debug", "console"))
	assert.Error(Te, setupLogging(&b, "loud", "json"))
	assert.Error(Te, setupLogging(&b, "info", "xml"))
	_, err := run(Te, "--log-format", "xml", "list", Te.TempDir())
	assert.Error(Te, err)
	require.NoError(Te, setupLogging(&b, "warn", "console"))
}
