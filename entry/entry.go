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

package entry

import (
	"archive/tar"

	libtar "github.com/nabbar/catbus/tarutil"
)

// Kind tags which shape an Entry currently holds. A Lookup becomes a
// Concrete exactly once, during a merge pass; it never goes back.
type Kind uint8

const (
	Lookup Kind = iota
	Concrete
)

// Entry is the sum type the Receiver walks: either a Lookup, carrying only
// the digest read from the index, or a Concrete, carrying the materialised
// payload ready to be written into the output tarball.
type Entry struct {
	Header  *tar.Header
	Path    string
	kind    Kind
	Digest  [libtar.DigestSize]byte
	Payload []byte
}

// NewLookup builds an unresolved entry from an index regular-file record.
func NewLookup(hdr *tar.Header, path string, digest [libtar.DigestSize]byte) *Entry {
	return &Entry{Header: hdr, Path: path, kind: Lookup, Digest: digest}
}

// NewConcrete builds an already-resolved entry, used for every non-regular
// index record (it travels through the index with its payload verbatim).
func NewConcrete(hdr *tar.Header, path string, payload []byte) *Entry {
	return &Entry{Header: hdr, Path: path, kind: Concrete, Payload: payload}
}

// IsConcrete reports whether e holds a materialised payload.
func (e *Entry) IsConcrete() bool {
	return e.kind == Concrete
}

// Material is a header/payload pair discovered for some path, either in the
// local library or in the sender's parts tarball. Its header carries the
// entry's real size, never the digest-shrunk header the index recorded.
type Material struct {
	Header  *tar.Header
	Payload []byte
}

// Resolve turns a Lookup into a Concrete by attaching the discovered header
// and payload. The index's own header (size rewritten to the digest length)
// is discarded in favour of the one read off the library or parts tarball,
// which carries the entry's real size. Calling Resolve on an already-Concrete
// entry is a no-op: a Concrete is never demoted, and the first resolution
// wins.
func (e *Entry) Resolve(m Material) {
	if e.kind == Concrete {
		return
	}
	e.Header = m.Header
	e.Payload = m.Payload
	e.kind = Concrete
}

// List is the ordered sequence of archive-entries for one tarball, index
// position preserved end to end.
type List []*Entry

// WantSet returns the (path, digest) pairs of every still-unresolved entry,
// the internal want-list consulted by local scanning. A path is treated as a
// unique key: if it occurs more than once among the unresolved entries, the
// first occurrence wins and later ones are ignored (see the duplicate-path
// design note in DESIGN.md).
func (l List) WantSet() map[string][libtar.DigestSize]byte {
	m := make(map[string][libtar.DigestSize]byte)
	for _, e := range l {
		if e.IsConcrete() {
			continue
		}
		if _, dup := m[e.Path]; dup {
			continue
		}
		m[e.Path] = e.Digest
	}
	return m
}

// OutstandingPaths returns the paths of every still-unresolved entry, in
// list (index) order - the order in which the wire want-list must be sent.
func (l List) OutstandingPaths() []string {
	paths := make([]string, 0, len(l))
	for _, e := range l {
		if !e.IsConcrete() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// Merge walks l in order and, for every Lookup whose path is present in
// mapping, resolves it with the discovered header and payload. It returns
// the number of bytes resolved by this pass.
func (l List) Merge(mapping map[string]Material) int64 {
	var n int64

	for _, e := range l {
		if e.IsConcrete() {
			continue
		}
		if m, ok := mapping[e.Path]; ok {
			e.Resolve(m)
			n += int64(len(m.Payload))
		}
	}

	return n
}

// FirstOutstanding returns the path of the first entry still in Lookup
// shape, or "" with ok=false if every entry is Concrete.
func (l List) FirstOutstanding() (path string, ok bool) {
	for _, e := range l {
		if !e.IsConcrete() {
			return e.Path, true
		}
	}
	return "", false
}
