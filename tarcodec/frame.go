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

package tarcodec

import (
	"bufio"
	"io"
	"strconv"

	liberr "github.com/nabbar/catbus/errors"
)

// flusher is satisfied by *bufio.Writer and any other stream that exposes an
// explicit Flush, letting Write push a frame out immediately on transports
// that buffer internally (e.g. the reference deployment's stdout pipe).
type flusher interface {
	Flush() error
}

// Write drains r fully into memory, then emits the decimal byte count, a NUL
// terminator, and the bytes themselves into w, flushing w if it supports it.
// name is a diagnostic tag for operator-visible logging only; it never
// travels on the wire.
func Write(name string, r io.Reader, w io.Writer) liberr.Error {
	_ = name

	if r == nil || w == nil {
		return ErrorParamEmpty.Error(nil)
	}

	buf, e := io.ReadAll(r)
	if e != nil {
		return ErrorWrite.Error(e)
	}

	prefix := strconv.Itoa(len(buf))

	if _, e = w.Write([]byte(prefix)); e != nil {
		return ErrorWrite.Error(e)
	}
	if _, e = w.Write([]byte{0}); e != nil {
		return ErrorWrite.Error(e)
	}
	if len(buf) > 0 {
		if _, e = w.Write(buf); e != nil {
			return ErrorWrite.Error(e)
		}
	}

	if f, ok := w.(flusher); ok {
		if e = f.Flush(); e != nil {
			return ErrorFlush.Error(e)
		}
	}

	return nil
}

// Read consumes one frame from r: an ASCII decimal length, a NUL terminator,
// then exactly that many bytes, returning the payload. name is a diagnostic
// tag for operator-visible logging only.
func Read(name string, r io.Reader) ([]byte, liberr.Error) {
	_ = name

	if r == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var prefix []byte
	for {
		b, e := br.ReadByte()
		if e != nil {
			return nil, ErrorReadPrefix.Error(e)
		}
		if b == 0 {
			break
		}
		if b < '0' || b > '9' {
			return nil, ErrorPrefixFormat.Error(nil)
		}
		prefix = append(prefix, b)
	}

	if len(prefix) == 0 {
		return nil, ErrorPrefixFormat.Error(nil)
	}

	n, e := strconv.ParseInt(string(prefix), 10, 64)
	if e != nil || n < 0 {
		return nil, ErrorPrefixFormat.Error(e)
	}

	payload := make([]byte, n)

	// br may be a bufio.Reader wrapping r (when r lacked ReadByte); in that
	// case further reads must go through br too, or buffered bytes are lost.
	var src io.Reader = r
	if _, wrapped := r.(io.ByteReader); !wrapped {
		src = br
	}

	if _, e = io.ReadFull(src, payload); e != nil {
		return nil, ErrorReadPayload.Error(e)
	}

	return payload, nil
}
