/*
 * compressed.go, part of confwater.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 */

package dcd

import (
	"bufio"
	"compress/gzip"
	"compress/lzw"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
)

//*zstd.Decoder's Close doesn't return an error, so it needs a wrapper to be an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//prepSource takes a filename and format string, opens the file and returns an object that will
//read data from the file, either 'as is' or decompressing first, depending on the format string.
//If the format string is empty, it will try to deduce it form the file extension. File extensions supported are
//.dcd (non-compressed dcd), .gz (gzip), .zst (zstd) and .lzw. If the extension doesn't
//match any supported type, a message will be logged and the non-compressed dcd format will be assumed.
func (D *DCDObj) prepSource(fname string, format string) (io.ReadCloser, error) {
	var err error
	fk := format
	if fk == "" {
		temp := strings.Split(fname, ".")
		fk = strings.ToLower(temp[len(temp)-1])
	}
	D.filename = fname
	D.fhandle, err = os.Open(fname)
	if err != nil {
		return nil, Error{err.Error(), D.filename, []string{"os.Open", "prepSource"}, true}
	}
	reader := bufio.NewReader(D.fhandle)
	switch fk {
	case "dcd":
		return D.fhandle, nil
	case "lzw":
		return lzw.NewReader(reader, lzwOrder, lzwLitwidth), nil
	case "gz":
		ret, err := gzip.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"gzip.NewReader", "prepSource"}, true}
		}
		return ret, nil
	case "zst":
		ret, err := zstd.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"zstd.NewReader", "prepSource"}, true}
		}
		return zstdCloser{ret}, nil
	default:
		//if it's not a plain DCD, you'll get an error later.
		log.Printf("Format %s not supported. %s will be assumed to be a plain DCD file", fk, D.filename)
		return D.fhandle, nil
	}
}
