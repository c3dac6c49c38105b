/*
 * partition.go, part of gohitran.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//PartitionTable holds the total internal partition function of a molecule on a
//temperature grid. It is not modified after it is read, so it can be shared
//among goroutines.
type PartitionTable struct {
	t []float64 //strictly increasing, K
	q []float64
}

//NewPartitionTable builds a table from temperatures and values, which are copied.
func NewPartitionTable(temperatures, values []float64) (*PartitionTable, error) {
	if len(temperatures) == 0 || len(temperatures) != len(values) {
		return nil, Errorf(ErrInvalidPartitionFunctionFormat, "%d temperatures for %d values", len(temperatures), len(values))
	}
	if floats.HasNaN(temperatures) || floats.HasNaN(values) {
		return nil, Errorf(ErrInvalidPartitionFunctionFormat, "NaN in the table")
	}
	for i := 1; i < len(temperatures); i++ {
		if temperatures[i] <= temperatures[i-1] {
			return nil, Errorf(ErrInvalidPartitionFunctionFormat, "temperature axis not increasing at point %d (%g after %g)", i+1, temperatures[i], temperatures[i-1])
		}
	}
	P := &PartitionTable{
		t: make([]float64, len(temperatures)),
		q: make([]float64, len(values)),
	}
	copy(P.t, temperatures)
	copy(P.q, values)
	return P, nil
}

//ReadPartitionTable reads whitespace-delimited (temperature, Q) rows from r.
//Columns after the second are ignored, as are blank lines and lines starting with #.
func ReadPartitionTable(r io.Reader) (*PartitionTable, error) {
	var t, q []float64
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, Errorf(ErrInvalidPartitionFunctionFormat, "%d column(s), 2 needed", len(fields)).InFile("", n)
		}
		T, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, Errorf(ErrInvalidPartitionFunctionFormat, "temperature %q", fields[0]).InFile("", n)
		}
		Q, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, Errorf(ErrInvalidPartitionFunctionFormat, "value %q", fields[1]).InFile("", n)
		}
		if len(t) > 0 && T <= t[len(t)-1] {
			return nil, Errorf(ErrInvalidPartitionFunctionFormat, "temperature %g does not increase", T).InFile("", n)
		}
		t = append(t, T)
		q = append(q, Q)
	}
	if err := scanner.Err(); err != nil {
		return nil, Errorf(ErrInvalidPartitionFunctionFormat, "%v", err).InFile("", n+1)
	}
	if len(t) == 0 {
		return nil, Errorf(ErrInvalidPartitionFunctionFormat, "empty table")
	}
	return NewPartitionTable(t, q)
}

//PartitionFileName returns the conventional name of the partition function file of a molecule.
func PartitionFileName(molecule int) string {
	return fmt.Sprintf("q%d.txt", molecule)
}

//FindPartitionFile looks for q<molecule>.txt in folder, ignoring case.
func FindPartitionFile(molecule int, folder string) (string, error) {
	want := PartitionFileName(molecule)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", Errorf(ErrMissingPartitionFunctionFile, "can't read folder: %v", err).InFile(filepath.Join(folder, want), 0)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(folder, e.Name()), nil
		}
	}
	return "", Errorf(ErrMissingPartitionFunctionFile, "no %s for molecule %d", want, molecule).InFile(filepath.Join(folder, want), 0)
}

//LoadPartitionFunction reads the partition function of the molecule from folder.
//It returns the table and the path of the file read.
func LoadPartitionFunction(molecule int, folder string) (*PartitionTable, string, error) {
	name, err := FindPartitionFile(molecule, folder)
	if err != nil {
		return nil, "", errDecorate(err, "LoadPartitionFunction")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", Errorf(ErrMissingPartitionFunctionFile, "%v", err).InFile(name, 0)
	}
	defer f.Close()
	P, err := ReadPartitionTable(f)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.InFile(name, e.Line())
		}
		return nil, "", errDecorate(err, "LoadPartitionFunction")
	}
	return P, name, nil
}

//Len returns the number of points in the table.
func (P *PartitionTable) Len() int { return len(P.t) }

//Range returns the lowest and highest temperatures in the table.
func (P *PartitionTable) Range() (min, max float64) {
	return P.t[0], P.t[len(P.t)-1]
}

//Temperatures returns a copy of the temperature axis. If a slice is given
//with enough capacity, it is used.
func (P *PartitionTable) Temperatures(dest ...[]float64) []float64 {
	d := getCopySlice(len(P.t), dest...)
	copy(d, P.t)
	return d
}

//Values returns a copy of the partition function values.
func (P *PartitionTable) Values(dest ...[]float64) []float64 {
	d := getCopySlice(len(P.q), dest...)
	copy(d, P.q)
	return d
}

//IntegerGrid returns true if all the temperatures in the table are integers.
func (P *PartitionTable) IntegerGrid() bool {
	for _, v := range P.t {
		if v != math.Trunc(v) {
			return false
		}
	}
	return true
}

//Query returns the partition function at T, linearly interpolated between
//the neighboring points. Outside the table the value at the nearest edge is
//returned.
func (P *PartitionTable) Query(T float64) float64 {
	n := len(P.t)
	if T <= P.t[0] {
		return P.q[0]
	}
	if T >= P.t[n-1] {
		return P.q[n-1]
	}
	//first index with t[i] >= T; 1 <= i <= n-1 here.
	i := sort.SearchFloat64s(P.t, T)
	if P.t[i] == T {
		return P.q[i]
	}
	t0, t1 := P.t[i-1], P.t[i]
	q0, q1 := P.q[i-1], P.q[i]
	return q0 + (q1-q0)*(T-t0)/(t1-t0)
}

//getCopySlice returns the first element of dest if it has capacity for
//n elements, or a new slice otherwise.
func getCopySlice(n int, dest ...[]float64) []float64 {
	if len(dest) > 0 && dest[0] != nil && cap(dest[0]) >= n {
		return dest[0][:n]
	}
	return make([]float64, n)
}
