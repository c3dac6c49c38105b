/*
 * interfaces.go, part of gohitran.
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

//Errors

//Decorator is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Decorator interface {
	Error() string
	Decorate(string) []string //Each call returns the decoration slice resulting from the current call. An empty string just returns the current value.
}

//FileError is the interface for errors associated to an input file.
type FileError interface {
	Decorator
	Critical() bool
	FileName() string
	Line() int
}

//LineSource is anything that can provide a sequence of spectral lines, in the order
//in which they should be accumulated.
type LineSource interface {
	//Len returns the number of lines.
	Len() int
	//Line returns the i-th line. Should panic if i is out of range.
	Line(i int) SpectralLine
}
