/*
 * errors.go, part of gohitran.
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
	"strings"
)

//Error kinds. Every *Error returned by this module wraps exactly one of these,
//so callers can test for them with errors.Is.
var (
	ErrMalformedDatabase              = errors.New("malformed line-list database")
	ErrRecordParse                    = errors.New("unparseable line-list record")
	ErrIsotopologueNotFound           = errors.New("isotopologue not found")
	ErrInvalidPartitionFunctionFormat = errors.New("invalid partition function format")
	ErrMissingPartitionFunctionFile   = errors.New("missing partition function file")
	ErrInvalidParameter               = errors.New("invalid parameter")
	ErrNoMoleculesLoaded              = errors.New("no molecules loaded")
	ErrDataError                      = errors.New("data error")
)

//Error is the error type for all gohitran packages. It fulfills the Decorator interface.
//The line field is 1-based, and 0 means the error is not associated with a line.
type Error struct {
	kind     error
	message  string
	filename string
	line     int
	deco     []string
	critical bool
}

//NewError returns a new critical error of the given kind.
func NewError(kind error, message string, deco ...string) *Error {
	return &Error{kind: kind, message: message, deco: deco, critical: true}
}

//Errorf is like NewError but formats the message.
func Errorf(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), critical: true}
}

//InFile sets the file name and line number associated to the error and returns it.
func (E *Error) InFile(filename string, line int) *Error {
	E.filename = filename
	E.line = line
	return E
}

//Warning marks the error as non-critical and returns it.
func (E *Error) Warning() *Error {
	E.critical = false
	return E
}

func (E *Error) Error() string {
	var b strings.Builder
	b.WriteString(E.kind.Error())
	if E.filename != "" {
		b.WriteString(" in ")
		b.WriteString(E.filename)
		if E.line > 0 {
			fmt.Fprintf(&b, ":%d", E.line)
		}
	} else if E.line > 0 {
		fmt.Fprintf(&b, " at line %d", E.line)
	}
	if E.message != "" {
		b.WriteString(": ")
		b.WriteString(E.message)
	}
	if len(E.deco) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(E.deco, " < "))
	}
	return b.String()
}

//Unwrap returns the kind of the error.
func (E *Error) Unwrap() error { return E.kind }

//Decorate adds new information to the error and returns the
//decoration trail. An empty string just returns the current trail.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the error is associated, if any.
func (E *Error) FileName() string { return E.filename }

//Line returns the line of the file where the problem was found, or 0.
func (E *Error) Line() int { return E.line }

//Message returns the error message without the kind, file or decoration.
func (E *Error) Message() string { return E.message }

//Critical returns true if the error aborted the operation that produced it.
//Record parse warnings are not critical.
func (E *Error) Critical() bool { return E.critical }

//errDecorate decorates err with the caller's name if it is a Decorator,
//and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var d Decorator
	if errors.As(err, &d) {
		d.Decorate(caller)
	}
	return err
}

//ErrDecorate is errDecorate, exported for the other packages in this module.
func ErrDecorate(err error, caller string) error {
	return errDecorate(err, caller)
}
