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

import "archive/tar"

// CloneHeader returns a deep copy of h so callers can mutate Size/Typeflag
// on the copy (e.g. to swap a regular file's payload for a digest stand-in)
// without aliasing the original entry read off the wire.
func CloneHeader(h *tar.Header) *tar.Header {
	if h == nil {
		return nil
	}

	c := *h

	if h.PAXRecords != nil {
		c.PAXRecords = make(map[string]string, len(h.PAXRecords))
		for k, v := range h.PAXRecords {
			c.PAXRecords[k] = v
		}
	}

	return &c
}

// IsRegular reports whether h names an entry that carries file content, as
// opposed to directories, symlinks, hardlinks, fifos or device nodes, all of
// which must pass through a catbus index unmodified.
func IsRegular(h *tar.Header) bool {
	if h == nil {
		return false
	}
	return h.Typeflag == tar.TypeReg || h.Typeflag == tar.TypeRegA
}
