/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package receive

import (
	"archive/tar"
	"io"

	libentry "github.com/nabbar/catbus/entry"
	liberr "github.com/nabbar/catbus/errors"
	libtar "github.com/nabbar/catbus/tarutil"
)

// decodeIndex gunzips and parses a gzip(tar) index stream into the ordered
// archive-entry list the rest of the Receiver walks: every regular-file
// record becomes a Lookup carrying its digest, everything else becomes an
// already-Concrete entry holding its verbatim payload.
func decodeIndex(r io.Reader) (libentry.List, liberr.Error) {
	gr, err := libtar.NewGzipReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gr.Close() }()

	var list libentry.List

	e := libtar.Walk(gr, func(hdr *tar.Header, tr *tar.Reader) liberr.Error {
		clone := libtar.CloneHeader(hdr)
		path := hdr.Name

		if libtar.IsRegular(hdr) {
			digest, errDigest := libtar.ReadDigest(tr, hdr.Size)
			if errDigest != nil {
				return errDigest
			}
			list = append(list, libentry.NewLookup(clone, path, digest))
			return nil
		}

		payload, errRead := io.ReadAll(tr)
		if errRead != nil {
			return ErrorDecodeIndex.Error(errRead)
		}
		list = append(list, libentry.NewConcrete(clone, path, payload))
		return nil
	})
	if e != nil {
		return nil, ErrorDecodeIndex.Error(e)
	}

	return list, nil
}

// decodePlainTar parses an uncompressed tar stream (a parts tarball, either
// the sender's or a library candidate's) into path-keyed materials.
func decodePlainTar(r io.Reader) (map[string]libentry.Material, liberr.Error) {
	out := make(map[string]libentry.Material)

	e := libtar.Walk(r, func(hdr *tar.Header, tr *tar.Reader) liberr.Error {
		payload, errRead := io.ReadAll(tr)
		if errRead != nil {
			return ErrorDecodeParts.Error(errRead)
		}
		out[hdr.Name] = libentry.Material{Header: libtar.CloneHeader(hdr), Payload: payload}
		return nil
	})
	if e != nil {
		return nil, ErrorDecodeParts.Error(e)
	}

	return out, nil
}
