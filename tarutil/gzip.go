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

package tarutil

import (
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	liberr "github.com/nabbar/catbus/errors"
)

// GzipWriter wraps w with a gzip.Writer, matching the teacher's CreateGzip
// helper but operating on an arbitrary stream instead of a destination file.
type GzipWriter struct {
	gz *gzip.Writer
}

// NewGzipWriter pins ModTime to the Unix epoch so two runs over identical
// input produce byte-identical gzip output; the library otherwise stamps the
// header with the time of writing, which would break index determinism.
func NewGzipWriter(w io.Writer) *GzipWriter {
	gz := gzip.NewWriter(w)
	gz.ModTime = time.Unix(0, 0)
	return &GzipWriter{gz: gz}
}

func (g *GzipWriter) Write(p []byte) (int, error) {
	return g.gz.Write(p)
}

func (g *GzipWriter) Close() liberr.Error {
	if e := g.gz.Close(); e != nil {
		return ErrorGzipClose.Error(e)
	}
	return nil
}

// NewGzipReader opens a gzip.Reader over r. The caller is responsible for
// closing the returned reader once the underlying tar stream has been fully
// consumed.
func NewGzipReader(r io.Reader) (*gzip.Reader, liberr.Error) {
	gr, e := gzip.NewReader(r)
	if e != nil {
		return nil, ErrorGzipCreate.Error(e)
	}
	return gr, nil
}
