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

// Package tarcodec frames opaque byte blobs on a shared byte stream: an ASCII
// decimal length, a NUL terminator, then exactly that many bytes. It carries
// no knowledge of what the blob contains - index tarballs and parts tarballs
// both pass through it unmodified.
package tarcodec

import (
	"fmt"

	liberr "github.com/nabbar/catbus/errors"
)

const pkgName = "catbus/tarcodec"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgTarCodec
	ErrorWrite
	ErrorFlush
	ErrorReadPrefix
	ErrorPrefixFormat
	ErrorReadPayload
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorWrite:
		return "cannot write frame to stream"
	case ErrorFlush:
		return "cannot flush stream after writing frame"
	case ErrorReadPrefix:
		return "cannot read frame length prefix"
	case ErrorPrefixFormat:
		return "frame length prefix is not a valid ascii decimal"
	case ErrorReadPayload:
		return "short read of frame payload"
	}

	return liberr.NullMessage
}
