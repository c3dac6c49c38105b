/*
 * session.go, part of gohitran.
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

package synth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rmera/gohitran"
)

//Session holds the molecules loaded for a calculation, in the order in which they
//were loaded. It is safe for concurrent use.
type Session struct {
	QFolder string //where the partition functions are looked for

	mu       sync.RWMutex
	datasets []*hitran.MoleculeDataset
}

//NewSession returns an empty session that reads partition functions from qFolder.
func NewSession(qFolder string) *Session {
	return &Session{QFolder: qFolder}
}

//Load reads a line list and adds the molecule to the session. A molecule already loaded
//with the same name is replaced, keeping its position.
func (S *Session) Load(parFile string, concentration float64, name string) (*hitran.MoleculeDataset, error) {
	if S.QFolder == "" {
		return nil, hitran.Errorf(hitran.ErrInvalidParameter, "no partition function folder set").InFile(parFile, 0)
	}
	d, err := hitran.LoadMolecule(parFile, S.QFolder, concentration, name)
	if err != nil {
		return nil, hitran.ErrDecorate(err, "Session.Load")
	}
	S.Add(d)
	return d, nil
}

//Add adds a dataset to the session, replacing one with the same name.
func (S *Session) Add(d *hitran.MoleculeDataset) {
	S.mu.Lock()
	defer S.mu.Unlock()
	if i := S.index(d.Name); i >= 0 {
		S.datasets[i] = d
		return
	}
	S.datasets = append(S.datasets, d)
}

//Insert adds d to the session only if no molecule with its name is loaded.
//It returns false, leaving the session unchanged, otherwise.
func (S *Session) Insert(d *hitran.MoleculeDataset) bool {
	S.mu.Lock()
	defer S.mu.Unlock()
	if S.index(d.Name) >= 0 {
		return false
	}
	S.datasets = append(S.datasets, d)
	return true
}

//index returns the position of the named molecule, or -1. S.mu must be held.
func (S *Session) index(name string) int {
	for i, v := range S.datasets {
		if v.Name == name {
			return i
		}
	}
	return -1
}

//Remove removes the named molecule. It returns false if it was not loaded.
func (S *Session) Remove(name string) bool {
	S.mu.Lock()
	defer S.mu.Unlock()
	i := S.index(name)
	if i < 0 {
		return false
	}
	S.datasets = append(S.datasets[:i], S.datasets[i+1:]...)
	return true
}

//Get returns the named molecule.
func (S *Session) Get(name string) (*hitran.MoleculeDataset, bool) {
	S.mu.RLock()
	defer S.mu.RUnlock()
	if i := S.index(name); i >= 0 {
		return S.datasets[i], true
	}
	return nil, false
}

//SetConcentration replaces the named molecule by a copy with concentration c.
//The lock is held throughout, so a concurrent Remove or Add of the same name
//is never undone.
func (S *Session) SetConcentration(name string, c float64) error {
	S.mu.Lock()
	defer S.mu.Unlock()
	i := S.index(name)
	if i < 0 {
		return hitran.Errorf(hitran.ErrInvalidParameter, "molecule %q not loaded", name)
	}
	n, err := S.datasets[i].WithConcentration(c)
	if err != nil {
		return hitran.ErrDecorate(err, "Session.SetConcentration")
	}
	S.datasets[i] = n
	return nil
}

//Datasets returns the loaded molecules, in load order.
func (S *Session) Datasets() []*hitran.MoleculeDataset {
	S.mu.RLock()
	defer S.mu.RUnlock()
	return append([]*hitran.MoleculeDataset(nil), S.datasets...)
}

//Len returns the number of loaded molecules.
func (S *Session) Len() int {
	S.mu.RLock()
	defer S.mu.RUnlock()
	return len(S.datasets)
}

//Synthesize computes the spectrum of the mixture of all loaded molecules. See SynthesizeMixture.
func (S *Session) Synthesize(ctx context.Context, cond Conditions, grid *Grid, opts Options) (*Result, error) {
	r, err := SynthesizeMixture(ctx, S.Datasets(), cond, grid, opts)
	return r, hitran.ErrDecorate(err, "Session.Synthesize")
}

//Describe returns the description of the named molecule.
func (S *Session) Describe(name string) (string, error) {
	d, ok := S.Get(name)
	if !ok {
		return "", hitran.Errorf(hitran.ErrInvalidParameter, "molecule %q not loaded", name)
	}
	return d.Describe(), nil
}

//DescribeAll returns a short description of every loaded molecule.
func (S *Session) DescribeAll() string {
	ds := S.Datasets()
	var b strings.Builder
	fmt.Fprintf(&b, "%d molecule(s) loaded\n", len(ds))
	for _, d := range ds {
		fmt.Fprintf(&b, "\nMolecule: %s\n", d.Name)
		fmt.Fprintf(&b, "  Molecule ID: %d, isotope ID: %d\n", d.Info.Molecule, d.Info.Isotope)
		fmt.Fprintf(&b, "  Concentration: %g\n", d.Concentration)
		fmt.Fprintf(&b, "  Molar mass: %.6f g/mol\n", d.Mass)
		fmt.Fprintf(&b, "  Lines: %d\n", d.Len())
		fmt.Fprintf(&b, "  Wavenumber range: %.4f - %.4f cm-1\n", d.MinNu, d.MaxNu)
	}
	return b.String()
}
