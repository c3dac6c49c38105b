/*
 * specio.go, part of gohitran.
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

package specio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/synth"
)

//Fixed column names of a spectrum file. Per-molecule optical depths follow, named
//ODPrefix+molecule.
const (
	ColWavenumber = "wavenumber"
	ColCoef       = "coef_total"
	ColOD         = "OD"
	ColAb         = "Ab"
	ColTr         = "Tr"
	ODPrefix      = "OD_"
)

//Header contains the free information written at the top of a spectrum file.
type Header struct {
	Program string
	Created time.Time
	Notes   []string
}

//Table is a spectrum file read back. Columns are stored in file order.
type Table struct {
	Comments []string //header lines, without the leading "# "
	Names    []string
	Columns  [][]float64
}

//Len returns the number of rows.
func (T *Table) Len() int {
	if len(T.Columns) == 0 {
		return 0
	}
	return len(T.Columns[0])
}

//Column returns the named column, or nil and false if there is no such column.
func (T *Table) Column(name string) ([]float64, bool) {
	for i, v := range T.Names {
		if v == name {
			return T.Columns[i], true
		}
	}
	return nil, false
}

//Molecules returns the names of the molecules with an optical depth column.
func (T *Table) Molecules() []string {
	var ret []string
	for _, v := range T.Names {
		if strings.HasPrefix(v, ODPrefix) {
			ret = append(ret, strings.TrimPrefix(v, ODPrefix))
		}
	}
	return ret
}

//Columns returns the names of the columns written for r.
func Columns(r *synth.Result) []string {
	names := []string{ColWavenumber, ColCoef, ColOD, ColAb, ColTr}
	for _, v := range r.Names {
		names = append(names, ODPrefix+sanitize(v))
	}
	return names
}

//sanitize replaces the whitespace in a molecule name, so it can be used as a column name.
func sanitize(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

//WriteSpectrum writes r to w as tab-delimited text, preceded by a commented header
//that describes the calculation.
func WriteSpectrum(w io.Writer, r *synth.Result, meta Header) error {
	bw := bufio.NewWriter(w)
	if meta.Program != "" {
		fmt.Fprintf(bw, "# %s\n", meta.Program)
	}
	if !meta.Created.IsZero() {
		fmt.Fprintf(bw, "# created: %s\n", meta.Created.Format(time.RFC3339))
	}
	for i, v := range r.Names {
		fmt.Fprintf(bw, "# molecule: %s concentration: %g\n", v, r.Concentrations[i])
	}
	c := r.Conditions
	fmt.Fprintf(bw, "# T: %g K p: %g atm path_length: %g cm\n", c.T, c.P, c.PathLength)
	if r.Len() > 0 {
		fmt.Fprintf(bw, "# wavenumber range: %.6f - %.6f cm-1, %d points, resolution %g cm-1\n", r.Wavenumbers[0], r.Wavenumbers[r.Len()-1], r.Len(), r.Resolution)
	}
	fmt.Fprintf(bw, "# omega_wing: %g profile: %s\n", r.Options.OmegaWing, r.Options.Profile)
	for _, v := range meta.Notes {
		fmt.Fprintf(bw, "# %s\n", v)
	}
	bw.WriteString(strings.Join(Columns(r), "\t"))
	bw.WriteByte('\n')
	cols := append([][]float64{r.Wavenumbers, r.Total, r.OD, r.Ab, r.Tr}, r.MoleculeOD...)
	for i := 0; i < r.Len(); i++ {
		for j, v := range cols {
			if j > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(strconv.FormatFloat(v[i], 'e', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

//ReadSpectrum reads a file written by WriteSpectrum.
func ReadSpectrum(r io.Reader) (*Table, error) {
	T := new(Table)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			T.Comments = append(T.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		fields := strings.Split(line, "\t")
		if T.Names == nil {
			T.Names = fields
			T.Columns = make([][]float64, len(fields))
			continue
		}
		if len(fields) != len(T.Names) {
			return nil, hitran.Errorf(hitran.ErrDataError, "%d fields, %d expected", len(fields), len(T.Names)).InFile("", n)
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, hitran.Errorf(hitran.ErrDataError, "column %s: %v", T.Names[i], err).InFile("", n)
			}
			T.Columns[i] = append(T.Columns[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ReadSpectrum: %w", err)
	}
	if T.Names == nil {
		return nil, hitran.Errorf(hitran.ErrDataError, "no column names found")
	}
	if T.Names[0] != ColWavenumber {
		return nil, hitran.Errorf(hitran.ErrDataError, "first column is %q, not %q", T.Names[0], ColWavenumber)
	}
	return T, nil
}

//SaveSpectrum writes r to the file name, compressed according to its extension.
func SaveSpectrum(name string, r *synth.Result, meta Header) error {
	f, err := hitran.CreateFile(name)
	if err != nil {
		return hitran.ErrDecorate(err, "SaveSpectrum")
	}
	if err := WriteSpectrum(f, r, meta); err != nil {
		f.Close()
		return fmt.Errorf("SaveSpectrum %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("SaveSpectrum %s: %w", name, err)
	}
	return nil
}

//LoadSpectrum reads a spectrum file, which can be compressed.
func LoadSpectrum(name string) (*Table, error) {
	f, err := hitran.OpenFile(name)
	if err != nil {
		return nil, hitran.ErrDecorate(err, "LoadSpectrum")
	}
	defer f.Close()
	T, err := ReadSpectrum(f)
	if err != nil {
		if e, ok := err.(*hitran.Error); ok {
			e.InFile(name, e.Line())
		}
		return nil, hitran.ErrDecorate(err, "LoadSpectrum")
	}
	return T, nil
}
