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
	"archive/tar"
	"crypto/sha1"
	"io"

	liberr "github.com/nabbar/catbus/errors"
)

// DigestSize is the length in bytes of a SHA-1 digest, the size every
// regular-file entry is shrunk to inside a catbus index.
const DigestSize = sha1.Size

// CopyEntry writes hdr to w (tar.Writer recomputes the checksum itself) then
// streams exactly hdr.Size bytes from r into the archive body.
func CopyEntry(w *tar.Writer, hdr *tar.Header, r io.Reader) liberr.Error {
	if w == nil || hdr == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if e := w.WriteHeader(hdr); e != nil {
		return ErrorTarHeaderWrite.Error(e)
	}

	if hdr.Size == 0 {
		return nil
	}

	if _, e := io.CopyN(w, r, hdr.Size); e != nil {
		return ErrorIOCopy.Error(e)
	}

	return nil
}

// DigestEntry reads hdr.Size bytes of payload from r, hashes them with
// SHA-1, and writes a shrunk copy of hdr (Size set to DigestSize) followed by
// the raw digest bytes into w. It returns the digest it wrote so the caller
// (IndexBuilder) can record it in the index's entry list.
func DigestEntry(w *tar.Writer, hdr *tar.Header, r io.Reader) ([DigestSize]byte, liberr.Error) {
	var digest [DigestSize]byte

	if w == nil || hdr == nil {
		return digest, ErrorParamEmpty.Error(nil)
	}

	h := sha1.New()
	if _, e := io.CopyN(h, r, hdr.Size); e != nil {
		return digest, ErrorIOHash.Error(e)
	}
	copy(digest[:], h.Sum(nil))

	stub := CloneHeader(hdr)
	stub.Size = DigestSize

	if e := w.WriteHeader(stub); e != nil {
		return digest, ErrorTarHeaderWrite.Error(e)
	}

	if _, e := w.Write(digest[:]); e != nil {
		return digest, ErrorIOCopy.Error(e)
	}

	return digest, nil
}

// ReadDigest reads exactly DigestSize bytes from r, the full body of an
// index entry standing in for a regular file's content.
func ReadDigest(r io.Reader, size int64) ([DigestSize]byte, liberr.Error) {
	var digest [DigestSize]byte

	if size != DigestSize {
		return digest, ErrorDigestSize.Error(nil)
	}

	if _, e := io.ReadFull(r, digest[:]); e != nil {
		return digest, ErrorIOCopy.Error(e)
	}

	return digest, nil
}

// Visitor is called once per tar entry encountered by Walk, with hdr already
// read and r positioned at the start of the entry's payload (hdr.Size bytes
// available before the next call to r.Next).
type Visitor func(hdr *tar.Header, r *tar.Reader) liberr.Error

// Walk iterates every entry of the tar stream read from src, invoking visit
// for each one in archive order until EOF or the first error.
func Walk(src io.Reader, visit Visitor) liberr.Error {
	if src == nil || visit == nil {
		return ErrorParamEmpty.Error(nil)
	}

	tr := tar.NewReader(src)

	for {
		hdr, e := tr.Next()
		if e == io.EOF {
			return nil
		} else if e != nil {
			return ErrorTarNext.Error(e)
		}

		if err := visit(hdr, tr); err != nil {
			return err
		}
	}
}
