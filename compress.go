/*
 * compress.go, part of gohitran.
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
	"compress/bzip2"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const lzwLitwidth int = 8

//Compression is a stream format, chosen from the extension of a file name.
type Compression int

const (
	Plain Compression = iota
	Zstd
	Gzip
	Bzip2
	Flate
	LZW
)

func (C Compression) String() string {
	switch C {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case Flate:
		return "flate"
	case LZW:
		return "lzw"
	}
	return "plain"
}

//CompressionOf returns the compression corresponding to the extension of name.
//Unknown extensions mean plain text.
func CompressionOf(name string) Compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	case ".bz2":
		return Bzip2
	case ".z", ".flate":
		return Flate
	case ".lzw":
		return LZW
	}
	return Plain
}

//multiCloser closes the decompressor and then the file under it.
type multiCloser struct {
	io.Reader
	closers []func() error
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//OpenFile opens name for reading, decompressing it according to its extension.
//Closing the returned reader closes the file.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Errorf(ErrInvalidParameter, "%v", err).InFile(name, 0)
	}
	r, err := NewReader(f, CompressionOf(name))
	if err != nil {
		f.Close()
		return nil, Errorf(ErrMalformedDatabase, "can't open %s stream: %v", CompressionOf(name), err).InFile(name, 0)
	}
	return &multiCloser{Reader: r, closers: []func() error{r.Close, f.Close}}, nil
}

//NewReader returns a reader that decompresses r with the given compression.
//Closing it does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	b := bufio.NewReader(r)
	switch c {
	case Zstd:
		d, err := zstd.NewReader(b)
		if err != nil {
			return nil, err
		}
		return &multiCloser{Reader: d, closers: []func() error{func() error { d.Close(); return nil }}}, nil
	case Gzip:
		return gzip.NewReader(b)
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(b)), nil
	case Flate:
		return flate.NewReader(b), nil
	case LZW:
		return lzw.NewReader(b, lzw.MSB, lzwLitwidth), nil
	}
	return io.NopCloser(b), nil
}

//writeCloser flushes and closes the compressor, and then the file.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//CreateFile creates name for writing, compressing according to its extension.
//bzip2 can only be read. The returned writer must be closed to flush the data.
func CreateFile(name string) (io.WriteCloser, error) {
	c := CompressionOf(name)
	if c == Bzip2 {
		return nil, Errorf(ErrInvalidParameter, "bzip2 output is not supported").InFile(name, 0)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, Errorf(ErrInvalidParameter, "%v", err).InFile(name, 0)
	}
	buf := bufio.NewWriter(f)
	var z io.WriteCloser
	switch c {
	case Zstd:
		z, err = zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case Gzip:
		z, err = gzip.NewWriterLevel(buf, gzip.DefaultCompression)
	case Flate:
		z, err = flate.NewWriter(buf, flate.DefaultCompression)
	case LZW:
		z = lzw.NewWriter(buf, lzw.MSB, lzwLitwidth)
	}
	if err != nil {
		f.Close()
		return nil, Errorf(ErrInvalidParameter, "can't create %s stream: %v", c, err).InFile(name, 0)
	}
	if z == nil {
		return &writeCloser{Writer: buf, closers: []func() error{buf.Flush, f.Close}}, nil
	}
	return &writeCloser{Writer: z, closers: []func() error{z.Close, buf.Flush, f.Close}}, nil
}
