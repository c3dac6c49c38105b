/*
 * parfile.go, part of gohitran.
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

	"github.com/rs/zerolog/log"
)

//maxLoggedWarnings is the number of record warnings that are logged one by one
//for each file. The rest are only counted.
const maxLoggedWarnings = 10

//ParseResult contains the lines read from a line list, and what was learned
//about the file while reading it.
type ParseResult struct {
	Lines         Lines       //valid lines, in file order
	MoleculeIDs   []int       //distinct molecule ids, in order of first appearance
	IsotopeIDs    []int       //distinct isotope ids, ascending
	IsotopeCounts map[int]int //number of valid lines per isotope id
	Warnings      []*Error    //one per rejected record, all wrapping ErrRecordParse
	Records       int         //non-blank records seen
}

//Skipped returns the number of rejected records.
func (P *ParseResult) Skipped() int { return len(P.Warnings) }

//Primary returns the primary molecule and isotope of the file: the first molecule id
//found, and the isotope id with most lines (the smallest one in case of a tie).
func (P *ParseResult) Primary() (molecule, isotope int) {
	if len(P.MoleculeIDs) == 0 {
		return 0, 0
	}
	molecule = P.MoleculeIDs[0]
	best := -1
	for _, iso := range P.IsotopeIDs { //ascending, so ties keep the smallest id.
		if c := P.IsotopeCounts[iso]; c > best {
			best = c
			isotope = iso
		}
	}
	return molecule, isotope
}

//Coverage returns the smallest and largest line positions.
func (P *ParseResult) Coverage() (min, max float64) {
	return P.Lines.Coverage()
}

//Coverage returns the smallest and largest line positions, or two zeros for
//an empty set of lines.
func (L Lines) Coverage() (min, max float64) {
	if len(L) == 0 {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range L {
		min = math.Min(min, v.Nu)
		max = math.Max(max, v.Nu)
	}
	return min, max
}

//ParseLines reads fixed-width line-list records from r according to layout.
//Malformed records are skipped and reported in the Warnings of the result.
//If no valid record is found, the error wraps ErrMalformedDatabase.
func ParseLines(r io.Reader, layout LineLayout) (*ParseResult, error) {
	res, err := parseLines(r, layout, "")
	return res, errDecorate(err, "ParseLines")
}

func parseLines(r io.Reader, layout LineLayout, filename string) (*ParseResult, error) {
	cols, err := layout.index()
	if err != nil {
		return nil, err
	}
	ret := &ParseResult{IsotopeCounts: make(map[int]int)}
	seenMol := make(map[int]bool)
	warn := func(n int, format string, args ...interface{}) {
		w := Errorf(ErrRecordParse, format, args...).InFile(filename, n).Warning()
		ret.Warnings = append(ret.Warnings, w)
		if len(ret.Warnings) <= maxLoggedWarnings {
			log.Warn().Str("file", filename).Int("line", n).Msg(w.Message())
		}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ret.Records++
		if len(line) < layout.Width {
			warn(n, "record has %d characters, at least %d needed", len(line), layout.Width)
			continue
		}
		l, reason := parseRecord(line, cols, filename, n)
		if reason != "" {
			warn(n, "%s", reason)
			continue
		}
		if !seenMol[l.Molecule] {
			seenMol[l.Molecule] = true
			ret.MoleculeIDs = append(ret.MoleculeIDs, l.Molecule)
		}
		ret.IsotopeCounts[l.Isotope]++
		ret.Lines = append(ret.Lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, Errorf(ErrMalformedDatabase, "reading record after line %d: %v", n, err).InFile(filename, n+1)
	}
	if len(ret.Warnings) > maxLoggedWarnings {
		log.Warn().Str("file", filename).Int("skipped", len(ret.Warnings)).Msg("further record warnings not shown")
	}
	if len(ret.MoleculeIDs) == 0 {
		return nil, Errorf(ErrMalformedDatabase, "no valid record among %d", ret.Records).InFile(filename, 0)
	}
	for k := range ret.IsotopeCounts {
		ret.IsotopeIDs = append(ret.IsotopeIDs, k)
	}
	sort.Ints(ret.IsotopeIDs)
	return ret, nil
}

//parseRecord decodes one record. It returns a non-empty reason if the record
//must be rejected. cols follows the order of mandatoryColumns.
func parseRecord(line string, cols []Column, filename string, n int) (SpectralLine, string) {
	var l SpectralLine
	field := func(i int) string {
		return strings.TrimSpace(line[cols[i].Start:cols[i].End()])
	}
	mol := field(0)
	if mol == "" {
		return l, "missing molecule id"
	}
	var err error
	l.Molecule, err = strconv.Atoi(mol)
	if err != nil || l.Molecule <= 0 {
		return l, fmt.Sprintf("invalid molecule id %q", mol)
	}
	iso := field(1)
	switch iso {
	case "", "0":
		//isotope 0 is not a catalogued isotopologue, it is taken as 1. HITRAN also
		//writes isotope 10 as "0", so those lines end up as isotope 1 too.
		l.Isotope = 1
	case "A":
		l.Isotope = 11
	case "B":
		l.Isotope = 12
	default:
		l.Isotope, err = strconv.Atoi(iso)
		if err != nil {
			log.Warn().Str("file", filename).Int("line", n).Msgf("isotope id %q is not an integer, using 1", iso)
			l.Isotope = 1
		}
	}
	targets := [...]*float64{&l.Nu, &l.S, &l.A, &l.GammaAir, &l.GammaSelf, &l.E, &l.NAir, &l.DeltaAir}
	for i, t := range targets {
		s := field(i + 2)
		if s == "" {
			return l, fmt.Sprintf("missing field %s", cols[i+2].Name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return l, fmt.Sprintf("invalid %s %q", cols[i+2].Name, s)
		}
		*t = v
	}
	switch {
	case l.Nu <= 0:
		return l, fmt.Sprintf("non-positive line position %g", l.Nu)
	case l.GammaAir < 0 || l.GammaSelf < 0:
		return l, fmt.Sprintf("negative half width (air %g, self %g)", l.GammaAir, l.GammaSelf)
	}
	return l, ""
}

//ReadParFile reads a HITRAN 160-character line list. The file can be compressed;
//the format is chosen from its extension (see OpenFile).
func ReadParFile(name string) (*ParseResult, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, errDecorate(err, "ReadParFile")
	}
	defer f.Close()
	res, err := parseLines(f, HITRAN160, name)
	if err != nil {
		return nil, errDecorate(err, "ReadParFile")
	}
	log.Debug().Str("file", name).Int("lines", len(res.Lines)).Int("skipped", res.Skipped()).Ints("molecules", res.MoleculeIDs).Ints("isotopes", res.IsotopeIDs).Msg("line list read")
	return res, nil
}

//ScanParRange returns the smallest and largest line positions in a line list, and
//the number of lines where a position could be read, without parsing the records.
//Lines where the position can't be read are ignored.
func ScanParRange(name string) (min, max float64, n int, err error) {
	f, err := OpenFile(name)
	if err != nil {
		return 0, 0, 0, errDecorate(err, "ScanParRange")
	}
	defer f.Close()
	col, _ := HITRAN160.Column(ColNu)
	min, max = math.Inf(1), math.Inf(-1)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < col.End() {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line[col.Start:col.End()]), 64)
		if err != nil || v <= 0 {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, 0, Errorf(ErrMalformedDatabase, "%v", err).InFile(name, 0)
	}
	if n == 0 {
		return 0, 0, 0, Errorf(ErrMalformedDatabase, "no line positions found").InFile(name, 0)
	}
	return min, max, n, nil
}

//parSuffixes are the extensions recognized as line lists by FindParFiles.
var parSuffixes = []string{".par", ".par.gz", ".par.zst", ".par.bz2"}

//FindParFiles returns the paths of the line lists in folder, sorted by name.
func FindParFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("FindParFiles: %w", err)
	}
	var ret []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		for _, s := range parSuffixes {
			if strings.HasSuffix(name, s) {
				ret = append(ret, filepath.Join(folder, e.Name()))
				break
			}
		}
	}
	sort.Strings(ret)
	return ret, nil
}

//fortranFloat formats v with d decimals in at most w characters, dropping the
//leading zero of numbers below 1 if needed, as HITRAN files do.
func fortranFloat(v float64, w, d int) (string, error) {
	s := strconv.FormatFloat(v, 'f', d, 64)
	if len(s) > w {
		switch {
		case strings.HasPrefix(s, "0."):
			s = s[1:]
		case strings.HasPrefix(s, "-0."):
			s = "-" + s[2:]
		}
	}
	if len(s) > w {
		return "", Errorf(ErrInvalidParameter, "%g does not fit in %d characters", v, w)
	}
	return fmt.Sprintf("%*s", w, s), nil
}

//isotopeChars are the HITRAN isotope codes for isotopes 11 and 12.
var isotopeChars = map[int]string{11: "A", 12: "B"}

//FormatRecord returns l as a 160-character HITRAN record. The quantum numbers and
//references are left blank. Isotope 10 is rejected: its code, "0", is read back as
//isotope 1.
func FormatRecord(l SpectralLine) (string, error) {
	if l.Molecule < 1 || l.Molecule > 99 || l.Isotope < 1 || l.Isotope > 12 || l.Isotope == 10 {
		return "", Errorf(ErrInvalidParameter, "molecule %d isotope %d can't be written", l.Molecule, l.Isotope)
	}
	iso := strconv.Itoa(l.Isotope)
	if c, ok := isotopeChars[l.Isotope]; ok {
		iso = c
	}
	var b strings.Builder
	var err error
	put := func(v float64, w, d int) {
		if err != nil {
			return
		}
		var s string
		s, err = fortranFloat(v, w, d)
		b.WriteString(s)
	}
	fmt.Fprintf(&b, "%2d%s", l.Molecule, iso)
	put(l.Nu, 12, 6)
	fmt.Fprintf(&b, "%10.3E%10.3E", l.S, l.A)
	put(l.GammaAir, 5, 4)
	put(l.GammaSelf, 5, 3)
	put(l.E, 10, 4)
	put(l.NAir, 4, 2)
	put(l.DeltaAir, 8, 6)
	if err != nil {
		return "", err
	}
	if b.Len() != 67 {
		return "", Errorf(ErrInvalidParameter, "line %v does not fit the record format", l)
	}
	return fmt.Sprintf("%-160s", b.String()), nil
}

//WriteLines writes lines to w as 160-character HITRAN records, one per line.
func WriteLines(w io.Writer, lines Lines) error {
	bw := bufio.NewWriter(w)
	for i, l := range lines {
		s, err := FormatRecord(l)
		if err != nil {
			return errDecorate(err, fmt.Sprintf("WriteLines: line %d", i))
		}
		bw.WriteString(s)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
