/*
 * isotopologues.go, part of gohitran.
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
	"fmt"
	"sort"
	"strings"
)

//IsotopologueInfo is the reference data for one HITRAN isotopologue.
type IsotopologueInfo struct {
	Molecule  int     //HITRAN molecule id
	Isotope   int     //local isotope id within the molecule
	GlobalID  int     //HITRAN global isotopologue id
	Name      string  //chemical notation, e.g. (12C)(16O)2
	Abundance float64 //natural terrestrial abundance fraction
	Mass      float64 //molar mass, g/mol
	Parent    string  //parent molecule name, e.g. CO2
}

func (I IsotopologueInfo) String() string {
	return fmt.Sprintf("%s %s (M=%d I=%d global=%d, %.6f g/mol, abundance %.6e)", I.Parent, I.Name, I.Molecule, I.Isotope, I.GlobalID, I.Mass, I.Abundance)
}

type isoKey struct {
	molecule, isotope int
}

//isotopologues and molecules are filled once, from isotopologueData, in init.
//They are never modified afterwards.
var (
	isotopologues map[isoKey]IsotopologueInfo
	molecules     map[int][]IsotopologueInfo
)

func init() {
	isotopologues = make(map[isoKey]IsotopologueInfo, len(isotopologueData))
	molecules = make(map[int][]IsotopologueInfo)
	for _, v := range isotopologueData {
		info := IsotopologueInfo{
			Molecule:  v.molecule,
			Isotope:   v.isotope,
			GlobalID:  v.global,
			Name:      v.name,
			Abundance: v.abundance,
			Mass:      v.mass,
			Parent:    v.parent,
		}
		isotopologues[isoKey{v.molecule, v.isotope}] = info
		molecules[v.molecule] = append(molecules[v.molecule], info)
	}
	for _, v := range molecules {
		sort.Slice(v, func(i, j int) bool { return v[i].Isotope < v[j].Isotope })
	}
}

//LookupIsotopologue returns the reference data for the isotope isotope of the molecule molecule,
//or an error wrapping ErrIsotopologueNotFound.
func LookupIsotopologue(molecule, isotope int) (IsotopologueInfo, error) {
	info, ok := isotopologues[isoKey{molecule, isotope}]
	if !ok {
		return IsotopologueInfo{}, Errorf(ErrIsotopologueNotFound, "molecule %d isotope %d", molecule, isotope)
	}
	return info, nil
}

//MoleculeName returns the name of the molecule with the given HITRAN id.
func MoleculeName(molecule int) (string, bool) {
	iso, ok := molecules[molecule]
	if !ok {
		return "", false
	}
	return iso[0].Parent, true
}

//MoleculeID returns the HITRAN id for the molecule name, which is compared
//case-insensitively.
func MoleculeID(name string) (int, bool) {
	for k, v := range molecules {
		if strings.EqualFold(v[0].Parent, name) {
			return k, true
		}
	}
	return 0, false
}

//IsotopologuesOf returns a copy of the isotopologues catalogued for molecule,
//sorted by isotope id.
func IsotopologuesOf(molecule int) []IsotopologueInfo {
	return append([]IsotopologueInfo(nil), molecules[molecule]...)
}

//From the HITRAN isotopologue list: molecule id, isotope id, global id, name,
//abundance, mass (g/mol), parent molecule.
var isotopologueData = []struct {
	molecule, isotope, global int
	name                      string
	abundance, mass           float64
	parent                    string
}{
	{1, 1, 1, "H2(16O)", 9.973173E-01, 1.801056E+01, "H2O"},
	{1, 2, 2, "H2(18O)", 1.999827E-03, 2.001481E+01, "H2O"},
	{1, 3, 3, "H2(17O)", 3.718841E-04, 1.901478E+01, "H2O"},
	{1, 4, 4, "HD(16O)", 3.106928E-04, 1.901674E+01, "H2O"},
	{1, 5, 5, "HD(18O)", 6.230031E-07, 2.102098E+01, "H2O"},
	{1, 6, 6, "HD(17O)", 1.158526E-07, 2.002096E+01, "H2O"},
	{1, 7, 129, "D2(16O)", 2.419741E-08, 2.002292E+01, "H2O"},
	{2, 1, 7, "(12C)(16O)2", 9.842043E-01, 4.398983E+01, "CO2"},
	{2, 2, 8, "(13C)(16O)2", 1.105736E-02, 4.499318E+01, "CO2"},
	{2, 3, 9, "(16O)(12C)(18O)", 3.947066E-03, 4.599408E+01, "CO2"},
	{2, 4, 10, "(16O)(12C)(17O)", 7.339890E-04, 4.499404E+01, "CO2"},
	{2, 5, 11, "(16O)(13C)(18O)", 4.434456E-05, 4.699743E+01, "CO2"},
	{2, 6, 12, "(16O)(13C)(17O)", 8.246233E-06, 4.599740E+01, "CO2"},
	{2, 7, 13, "(12C)(18O)2", 3.957340E-06, 4.799832E+01, "CO2"},
	{2, 8, 14, "(17O)(12C)(18O)", 1.471799E-06, 4.699829E+01, "CO2"},
	{2, 9, 121, "(12C)(17O)2", 1.368466E-07, 4.599826E+01, "CO2"},
	{2, 10, 15, "(13C)(18O)2", 4.446000E-08, 4.900167E+01, "CO2"},
	{2, 11, 120, "(18O)(13C)(17O)", 1.653540E-08, 4.800165E+01, "CO2"},
	{2, 12, 122, "(13C)(17O)2", 1.537446E-09, 4.700162E+01, "CO2"},
	{3, 1, 16, "(16O)3", 9.929009E-01, 4.798474E+01, "O3"},
	{3, 2, 17, "(16O)(16O)(18O)", 3.981942E-03, 4.998899E+01, "O3"},
	{3, 3, 18, "(16O)(18O)(16O)", 1.990971E-03, 4.998899E+01, "O3"},
	{3, 4, 19, "(16O)(16O)(17O)", 7.404746E-04, 4.898896E+01, "O3"},
	{3, 5, 20, "(16O)(17O)(16O)", 3.702373E-04, 4.898896E+01, "O3"},
	{4, 1, 21, "(14N)2(16O)", 9.903328E-01, 4.400106E+01, "N2O"},
	{4, 2, 22, "(14N)(15N)(16O)", 3.640926E-03, 4.499810E+01, "N2O"},
	{4, 3, 23, "(15N)(14N)(16O)", 3.640926E-03, 4.499810E+01, "N2O"},
	{4, 4, 24, "(14N)2(18O)", 1.985822E-03, 4.600531E+01, "N2O"},
	{4, 5, 25, "(14N)2(17O)", 3.692797E-04, 4.500528E+01, "N2O"},
	{5, 1, 26, "(12C)(16O)", 9.865444E-01, 2.799491E+01, "CO"},
	{5, 2, 27, "(13C)(16O)", 1.108364E-02, 2.899827E+01, "CO"},
	{5, 3, 28, "(12C)(18O)", 1.978224E-03, 2.999916E+01, "CO"},
	{5, 4, 29, "(12C)(17O)", 3.678671E-04, 2.899913E+01, "CO"},
	{5, 5, 30, "(13C)(18O)", 2.222500E-05, 3.100252E+01, "CO"},
	{5, 6, 31, "(13C)(17O)", 4.132920E-06, 3.000249E+01, "CO"},
	{6, 1, 32, "(12C)H4", 9.882741E-01, 1.603130E+01, "CH4"},
	{6, 2, 33, "(13C)H4", 1.110308E-02, 1.703466E+01, "CH4"},
	{6, 3, 34, "(12C)H3D", 6.157511E-04, 1.703748E+01, "CH4"},
	{6, 4, 35, "(13C)H3D", 6.917852E-06, 1.804083E+01, "CH4"},
	{7, 1, 36, "(16O)2", 9.952616E-01, 3.198983E+01, "O2"},
	{7, 2, 37, "(16O)(18O)", 3.991410E-03, 3.399408E+01, "O2"},
	{7, 3, 38, "(16O)(17O)", 7.422352E-04, 3.299404E+01, "O2"},
	{8, 1, 39, "(14N)(16O)", 9.939737E-01, 2.999799E+01, "NO"},
	{8, 2, 40, "(15N)(16O)", 3.654311E-03, 3.099502E+01, "NO"},
	{8, 3, 41, "(14N)(18O)", 1.993122E-03, 3.200223E+01, "NO"},
	{9, 1, 42, "(32S)(16O)2", 9.456777E-01, 6.396190E+01, "SO2"},
	{9, 2, 43, "(34S)(16O)2", 4.195028E-02, 6.595770E+01, "SO2"},
	{9, 3, 137, "(33S)(16O)2", 7.464462E-03, 6.496129E+01, "SO2"},
	{9, 4, 138, "(16O)(32S)(18O)", 3.792558E-03, 6.596615E+01, "SO2"},
	{10, 1, 44, "(14N)(16O)2", 9.916160E-01, 4.599290E+01, "NO2"},
	{10, 2, 130, "(15N)(16O)2", 3.645643E-03, 4.698994E+01, "NO2"},
	{11, 1, 45, "(14N)H3", 9.958716E-01, 1.702655E+01, "NH3"},
	{11, 2, 46, "(15N)H3", 3.661289E-03, 1.802358E+01, "NH3"},
	{12, 1, 47, "H(14N)(16O)3", 9.891098E-01, 6.299564E+01, "HNO3"},
	{12, 2, 117, "H(15N)(16O)3", 3.636429E-03, 6.399268E+01, "HNO3"},
	{13, 1, 48, "(16O)H", 9.974726E-01, 1.700274E+01, "OH"},
	{13, 2, 49, "(18O)H", 2.000138E-03, 1.900699E+01, "OH"},
	{13, 3, 50, "(16O)D", 1.553706E-04, 1.800891E+01, "OH"},
	{14, 1, 51, "H(19F)", 9.998443E-01, 2.000623E+01, "HF"},
	{14, 2, 110, "D(19F)", 1.557410E-04, 2.101240E+01, "HF"},
	{15, 1, 52, "H(35Cl)", 7.575870E-01, 3.597668E+01, "HCl"},
	{15, 2, 53, "H(37Cl)", 2.422573E-01, 3.797373E+01, "HCl"},
	{15, 3, 107, "D(35Cl)", 1.180050E-04, 3.698285E+01, "HCl"},
	{15, 4, 108, "D(37Cl)", 3.773502E-05, 3.897990E+01, "HCl"},
	{16, 1, 54, "H(79Br)", 5.067811E-01, 7.992616E+01, "HBr"},
	{16, 2, 55, "H(81Br)", 4.930632E-01, 8.192412E+01, "HBr"},
	{16, 3, 111, "D(79Br)", 7.893838E-05, 8.093234E+01, "HBr"},
	{16, 4, 112, "D(81Br)", 7.680162E-05, 8.293029E+01, "HBr"},
	{17, 1, 56, "H(127I)", 9.998443E-01, 1.279123E+02, "HI"},
	{17, 2, 113, "D(127I)", 1.557410E-04, 1.289185E+02, "HI"},
	{18, 1, 57, "(35Cl)(16O)", 7.559077E-01, 5.096377E+01, "ClO"},
	{18, 2, 58, "(37Cl)(16O)", 2.417203E-01, 5.296082E+01, "ClO"},
	{19, 1, 59, "(16O)(12C)(32S)", 9.373947E-01, 5.996699E+01, "OCS"},
	{19, 2, 60, "(16O)(12C)(34S)", 4.158284E-02, 6.196278E+01, "OCS"},
	{19, 3, 61, "(16O)(13C)(32S)", 1.053146E-02, 6.097034E+01, "OCS"},
	{19, 4, 62, "(16O)(12C)(33S)", 7.399083E-03, 6.096637E+01, "OCS"},
	{19, 5, 63, "(18O)(12C)(32S)", 1.879670E-03, 6.197123E+01, "OCS"},
	{19, 6, 135, "(16O)(13C)(34S)", 4.671757E-04, 6.296614E+01, "OCS"},
	{20, 1, 64, "H2(12C)(16O)", 9.862371E-01, 3.001056E+01, "H2CO"},
	{20, 2, 65, "H2(13C)(16O)", 1.108020E-02, 3.101392E+01, "H2CO"},
	{20, 3, 66, "H2(12C)(18O)", 1.977609E-03, 3.201481E+01, "H2CO"},
	{21, 1, 67, "H(16O)(35Cl)", 7.557900E-01, 5.197159E+01, "HOCl"},
	{21, 2, 68, "H(16O)(37Cl)", 2.416826E-01, 5.396864E+01, "HOCl"},
	{22, 1, 69, "(14N)2", 9.926874E-01, 2.800615E+01, "N2"},
	{22, 2, 118, "(14N)(15N)", 7.299165E-03, 2.900318E+01, "N2"},
	{23, 1, 70, "H(12C)(14N)", 9.851143E-01, 2.701090E+01, "HCN"},
	{23, 2, 71, "H(13C)(14N)", 1.106758E-02, 2.801425E+01, "HCN"},
	{23, 3, 72, "H(12C)(15N)", 3.621740E-03, 2.800793E+01, "HCN"},
	{24, 1, 73, "(12C)H3(35Cl)", 7.489369E-01, 4.999233E+01, "CH3Cl"},
	{24, 2, 74, "(12C)H3(37Cl)", 2.394912E-01, 5.198938E+01, "CH3Cl"},
	{25, 1, 75, "H2(16O)2", 9.949516E-01, 3.400548E+01, "H2O2"},
	{26, 1, 76, "(12C)2H2", 9.775989E-01, 2.601565E+01, "C2H2"},
	{26, 2, 77, "(12C)(13C)H2", 2.196629E-02, 2.701900E+01, "C2H2"},
	{26, 3, 105, "(12C)2HD", 3.045499E-04, 2.702182E+01, "C2H2"},
	{27, 1, 78, "(12C)2H6", 9.769900E-01, 3.004695E+01, "C2H6"},
	{27, 2, 106, "(12C)H3(13C)H3", 2.195261E-02, 3.105031E+01, "C2H6"},
	{28, 1, 79, "(31P)H3", 9.995329E-01, 3.399724E+01, "PH3"},
	{29, 1, 80, "(12C)(16O)(19F)2", 9.865444E-01, 6.599172E+01, "COF2"},
	{29, 2, 119, "(13C)(16O)(19F)2", 1.108366E-02, 6.699508E+01, "COF2"},
	{30, 1, 126, "(32S)(19F)6", 9.501800E-01, 1.459625E+02, "SF6"},
	{31, 1, 81, "H2(32S)", 9.498841E-01, 3.398772E+01, "H2S"},
	{31, 2, 82, "H2(34S)", 4.213687E-02, 3.598351E+01, "H2S"},
	{31, 3, 83, "H2(33S)", 7.497664E-03, 3.498710E+01, "H2S"},
	{32, 1, 84, "H(12C)(16O)(16O)H", 9.838977E-01, 4.600548E+01, "HCOOH"},
	{33, 1, 85, "H(16O)2", 9.951066E-01, 3.299766E+01, "HO2"},
	{34, 1, 86, "(16O)", 9.976280E-01, 1.599492E+01, "O"},
	{35, 1, 127, "(35Cl)(16O)(14N)(16O)2", 7.495702E-01, 9.695667E+01, "ClONO2"},
	{35, 2, 128, "(37Cl)(16O)(14N)(16O)2", 2.396937E-01, 9.895372E+01, "ClONO2"},
	{36, 1, 87, "(14N)(16O)+", 9.939737E-01, 2.999799E+01, "NOp"},
	{37, 1, 88, "H(16O)(79Br)", 5.055790E-01, 9.592108E+01, "HOBr"},
	{37, 2, 89, "H(16O)(81Br)", 4.918937E-01, 9.791903E+01, "HOBr"},
	{38, 1, 90, "(12C)2H4", 9.772944E-01, 2.803130E+01, "C2H4"},
	{38, 2, 91, "(12C)H2(13C)H2", 2.195946E-02, 2.903466E+01, "C2H4"},
	{39, 1, 92, "(12C)H3(16O)H", 9.859299E-01, 3.202622E+01, "CH3OH"},
	{40, 1, 93, "(12C)H3(79Br)", 5.009946E-01, 9.394181E+01, "CH3Br"},
	{40, 2, 94, "(12C)H3(81Br)", 4.874334E-01, 9.593976E+01, "CH3Br"},
	{41, 1, 95, "(12C)H3(12C)(14N)", 9.738662E-01, 4.102655E+01, "CH3CN"},
	{42, 1, 96, "(12C)(19F)4", 9.888900E-01, 8.799362E+01, "CF4"},
	{43, 1, 116, "(12C)4H2", 9.559980E-01, 5.001565E+01, "C4H2"},
	{44, 1, 109, "H(12C)3(14N)", 9.633460E-01, 5.101090E+01, "HC3N"},
	{45, 1, 103, "H2", 9.996885E-01, 2.015650E+00, "H2"},
	{45, 2, 115, "HD", 3.114316E-04, 3.021825E+00, "H2"},
	{46, 1, 97, "(12C)(32S)", 9.396236E-01, 4.397207E+01, "CS"},
	{46, 2, 98, "(12C)(34S)", 4.168171E-02, 4.596787E+01, "CS"},
	{46, 3, 99, "(13C)(32S)", 1.055650E-02, 4.497543E+01, "CS"},
	{46, 4, 100, "(12C)(33S)", 7.416675E-03, 4.497146E+01, "CS"},
	{47, 1, 114, "(32S)(16O)3", 9.434345E-01, 7.995682E+01, "SO3"},
	{48, 1, 123, "(12C)2(14N)2", 9.707524E-01, 5.200615E+01, "C2N2"},
	{49, 1, 124, "(12C)(16O)(35Cl)2", 5.663918E-01, 9.793262E+01, "COCl2"},
	{49, 2, 125, "(12C)(16O)(35Cl)(37Cl)", 3.622350E-01, 9.992967E+01, "COCl2"},
	{50, 1, 146, "(32S)(16O)", 9.479262E-01, 4.796699E+01, "SO"},
	{50, 2, 147, "(34S)(16O)", 4.205002E-02, 4.996278E+01, "SO"},
	{50, 3, 148, "(32S)(18O)", 1.900788E-03, 4.997123E+01, "SO"},
	{51, 1, 144, "(12C)H3(19F)", 9.884280E-01, 3.402188E+01, "CH3F"},
	{52, 1, 139, "(74Ge)H4", 3.651724E-01, 7.795248E+01, "GeH4"},
	{52, 2, 140, "(72Ge)H4", 2.741292E-01, 7.595338E+01, "GeH4"},
	{52, 3, 141, "(70Ge)H4", 2.050722E-01, 7.395555E+01, "GeH4"},
	{52, 4, 142, "(73Ge)H4", 7.755167E-02, 7.695476E+01, "GeH4"},
	{52, 5, 143, "(76Ge)H4", 7.755167E-02, 7.995270E+01, "GeH4"},
	{53, 1, 131, "(12C)(32S)2", 8.928115E-01, 7.594414E+01, "CS2"},
	{53, 2, 132, "(32S)(12C)(34S)", 7.921026E-02, 7.793994E+01, "CS2"},
	{53, 3, 133, "(32S)(12C)(33S)", 1.409435E-02, 7.694353E+01, "CS2"},
	{53, 4, 134, "(13C)(32S)2", 1.003057E-02, 7.694750E+01, "CS2"},
	{54, 1, 145, "(12C)H3(127I)", 9.884280E-01, 1.419279E+02, "CH3I"},
	{55, 1, 136, "(14N)(19F)3", 9.963370E-01, 7.099829E+01, "NF3"},
}
