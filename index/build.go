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

package index

import (
	"archive/tar"
	"bytes"
	"os"

	liberr "github.com/nabbar/catbus/errors"
	liblog "github.com/nabbar/catbus/logger"
	libtar "github.com/nabbar/catbus/tarutil"
)

// Build streams the tar archive at path into a gzip-compressed index:
// regular-file payloads are replaced by their 20-byte SHA-1 digest; every
// other entry is copied verbatim. Entry order and count are preserved.
//
// Memory use is bounded by one header and the gzip window at a time; only
// the finished compressed bytes are buffered, since the wire framing that
// consumes them needs the length up front.
func Build(path string, log liblog.Logger) ([]byte, liberr.Error) {
	if path == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	f, e := os.Open(path)
	if e != nil {
		return nil, ErrorOpenSource.Error(e)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	gz := libtar.NewGzipWriter(&buf)
	tw := tar.NewWriter(gz)

	var entries int

	err := libtar.Walk(f, func(hdr *tar.Header, r *tar.Reader) liberr.Error {
		entries++
		clone := libtar.CloneHeader(hdr)

		if libtar.IsRegular(hdr) {
			digest, errDigest := libtar.DigestEntry(tw, clone, r)
			if errDigest != nil {
				return errDigest
			}
			if log != nil {
				log.Entry(liblog.DebugLevel, "hashed regular entry").
					Data("path", hdr.Name).Data("digest", digest).Log()
			}
			return nil
		}

		return libtar.CopyEntry(tw, clone, r)
	})
	if err != nil {
		return nil, ErrorBuild.Error(err)
	}

	if e = tw.Close(); e != nil {
		return nil, ErrorBuild.Error(e)
	}
	if errGz := gz.Close(); errGz != nil {
		return nil, errGz
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "built index").
			Data("source", path).Data("entries", entries).Data("bytes", buf.Len()).Log()
	}

	return buf.Bytes(), nil
}
