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

// Package tarutil provides tar-stream-to-tar-stream helpers: reading a tar
// entry header, cloning it, and copying or substituting its payload without
// ever touching a filesystem tree.
package tarutil

import (
	"fmt"

	liberr "github.com/nabbar/catbus/errors"
)

const pkgName = "catbus/tarutil"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgTarUtil
	ErrorTarNext
	ErrorTarHeaderWrite
	ErrorIOCopy
	ErrorIOHash
	ErrorDigestSize
	ErrorGzipCreate
	ErrorGzipClose
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
	case ErrorTarNext:
		return "cannot get next tar entry"
	case ErrorTarHeaderWrite:
		return "cannot write tar header"
	case ErrorIOCopy:
		return "io copy occurs error"
	case ErrorIOHash:
		return "error occurred while hashing entry payload"
	case ErrorDigestSize:
		return "digest payload does not match the expected size"
	case ErrorGzipCreate:
		return "cannot create gzip compression"
	case ErrorGzipClose:
		return "closing gzip writer occurs error"
	}

	return liberr.NullMessage
}
