/*
 * plot.go, part of gohitran.
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

package specplot

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/specio"
	"github.com/rmera/gohitran/synth"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Size of the images produced.
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

//Quantity is the spectral quantity to plot.
type Quantity int

const (
	Coefficient Quantity = iota
	OpticalDepth
	Absorbance
	Transmittance
)

func (Q Quantity) String() string {
	switch Q {
	case Coefficient:
		return "coef"
	case OpticalDepth:
		return "od"
	case Absorbance:
		return "ab"
	case Transmittance:
		return "tr"
	}
	return fmt.Sprintf("Quantity(%d)", int(Q))
}

//ParseQuantity returns the quantity named s: coef, od, ab or tr.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(s) {
	case "coef", "coefficient":
		return Coefficient, nil
	case "od":
		return OpticalDepth, nil
	case "ab", "absorbance":
		return Absorbance, nil
	case "tr", "transmittance":
		return Transmittance, nil
	}
	return Coefficient, hitran.Errorf(hitran.ErrInvalidParameter, "unknown quantity %q, use coef, od, ab or tr", s)
}

func (Q Quantity) label() string {
	switch Q {
	case Coefficient:
		return "Absorption coefficient (cm2/molecule)"
	case OpticalDepth:
		return "Optical depth"
	case Absorbance:
		return "Absorbance"
	}
	return "Transmittance"
}

//series is one line of a plot.
type series struct {
	name string
	y    []float64
}

//resultSeries returns the lines for the quantity q of r: one per molecule, and the total.
func resultSeries(r *synth.Result, q Quantity) []series {
	var ret []series
	switch q {
	case Coefficient:
		for i, v := range r.Names {
			ret = append(ret, series{v, r.Coefficients[i]})
		}
		return append(ret, series{"total", r.Total})
	case OpticalDepth:
		for i, v := range r.Names {
			ret = append(ret, series{v, r.MoleculeOD[i]})
		}
		return append(ret, series{"total", r.OD})
	}
	//absorbance and transmittance of each molecule alone
	f := func(od float64) float64 { return math.Exp(-od) }
	total := r.Tr
	if q == Absorbance {
		f = func(od float64) float64 { return -math.Expm1(-od) }
		total = r.Ab
	}
	for i, v := range r.Names {
		y := make([]float64, len(r.MoleculeOD[i]))
		for j, od := range r.MoleculeOD[i] {
			y[j] = f(od)
		}
		ret = append(ret, series{v, y})
	}
	return append(ret, series{"total", total})
}

//PlotResult draws the quantity q of r against the wavenumber, with a line for each molecule
//and one for the mixture, and saves it to path. The image format is given by the extension
//of path (png, svg, pdf, eps, jpg or tif).
func PlotResult(r *synth.Result, q Quantity, title, path string) error {
	if r.Len() == 0 {
		return hitran.Errorf(hitran.ErrInvalidParameter, "nothing to plot")
	}
	if q < Coefficient || q > Transmittance {
		return hitran.Errorf(hitran.ErrInvalidParameter, "invalid quantity %d", int(q))
	}
	err := draw(r.Wavenumbers, resultSeries(r, q), q.label(), title, path)
	return hitran.ErrDecorate(err, "PlotResult")
}

//PlotTable draws the given columns of a spectrum file against the wavenumber, and saves the
//plot to path. If columns is empty, all the optical depths are plotted.
func PlotTable(t *specio.Table, columns []string, title, path string) error {
	wn, ok := t.Column(specio.ColWavenumber)
	if !ok || len(wn) == 0 {
		return hitran.Errorf(hitran.ErrInvalidParameter, "no data to plot")
	}
	if len(columns) == 0 {
		for _, v := range t.Names {
			if v == specio.ColOD || strings.HasPrefix(v, specio.ODPrefix) {
				columns = append(columns, v)
			}
		}
	}
	var s []series
	for _, v := range columns {
		y, ok := t.Column(v)
		if !ok {
			return hitran.Errorf(hitran.ErrInvalidParameter, "no column %q", v)
		}
		s = append(s, series{v, y})
	}
	ylabel := strings.Join(columns, ", ")
	err := draw(wn, s, ylabel, title, path)
	return hitran.ErrDecorate(err, "PlotTable")
}

func draw(x []float64, data []series, ylabel, title, path string) error {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Wavenumber (cm-1)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	for i, s := range data {
		pts := make(plotter.XYs, len(x))
		for j := range x {
			pts[j].X = x[j]
			pts[j].Y = s.y[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.name, err)
		}
		r, g, b := colors(i, len(data))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1)
		if s.name == "total" {
			l.LineStyle.Color = color.Black
			l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
