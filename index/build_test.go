/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package index_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha1"
	"os"
	"path/filepath"

	libidx "github.com/nabbar/catbus/index"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// writeSourceTarball builds an uncompressed tar at dir/name.tar with the
// given entries and returns its path.
func writeSourceTarball(dir, name string, entries []tarEntry) string {
	p := filepath.Join(dir, name)
	f, e := os.Create(p)
	Expect(e).To(BeNil())
	defer func() { _ = f.Close() }()

	tw := tar.NewWriter(f)
	for _, ent := range entries {
		hdr := &tar.Header{
			Name:     ent.path,
			Typeflag: ent.kind,
			Size:     int64(len(ent.body)),
			Mode:     0o644,
		}
		if ent.kind == tar.TypeSymlink {
			hdr.Linkname = ent.body
			hdr.Size = 0
		}
		Expect(tw.WriteHeader(hdr)).To(BeNil())
		if hdr.Size > 0 {
			_, e = tw.Write([]byte(ent.body))
			Expect(e).To(BeNil())
		}
	}
	Expect(tw.Close()).To(BeNil())

	return p
}

type tarEntry struct {
	path string
	body string
	kind byte
}

// readIndexEntries decompresses and parses an index tarball into an ordered
// list of (header, body) pairs for assertion purposes.
func readIndexEntries(raw []byte) []tarEntry {
	gr, e := gzip.NewReader(bytes.NewReader(raw))
	Expect(e).To(BeNil())
	defer func() { _ = gr.Close() }()

	tr := tar.NewReader(gr)
	var out []tarEntry
	for {
		hdr, e := tr.Next()
		if e != nil {
			break
		}
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(tr)
		out = append(out, tarEntry{path: hdr.Name, body: buf.String(), kind: hdr.Typeflag})
	}
	return out
}

var _ = Describe("Build", func() {
	It("preserves entry count and order, substituting digests for regular files", func() {
		dir := GinkgoT().TempDir()
		src := writeSourceTarball(dir, "src.tar", []tarEntry{
			{path: "dir/", kind: tar.TypeDir},
			{path: "dir/a", body: "AAA", kind: tar.TypeReg},
			{path: "dir/link", body: "dir/a", kind: tar.TypeSymlink},
		})

		raw, err := libidx.Build(src, nil)
		Expect(err).To(BeNil())

		got := readIndexEntries(raw)
		Expect(got).To(HaveLen(3))
		Expect(got[0].path).To(Equal("dir/"))
		Expect(got[1].path).To(Equal("dir/a"))
		Expect(got[2].path).To(Equal("dir/link"))

		sum := sha1.Sum([]byte("AAA"))
		Expect([]byte(got[1].body)).To(Equal(sum[:]))
		Expect(got[2].kind).To(Equal(byte(tar.TypeSymlink)))
	})

	It("is deterministic across runs over identical input", func() {
		dir := GinkgoT().TempDir()
		src := writeSourceTarball(dir, "src.tar", []tarEntry{
			{path: "hello.txt", body: "hello\n", kind: tar.TypeReg},
		})

		a, errA := libidx.Build(src, nil)
		Expect(errA).To(BeNil())
		b, errB := libidx.Build(src, nil)
		Expect(errB).To(BeNil())

		Expect(a).To(Equal(b))
	})

	It("fails on a missing source path", func() {
		_, err := libidx.Build(filepath.Join(GinkgoT().TempDir(), "absent.tar"), nil)
		Expect(err).ToNot(BeNil())
	})
})
