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

// Package upload implements the sender side of the catbus transfer protocol:
// frame the index, absorb a want-list, frame the requested parts.
package upload

import (
	"fmt"

	liberr "github.com/nabbar/catbus/errors"
)

const pkgName = "catbus/upload"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgUpload
	ErrorOpenIndex
	ErrorOpenSource
	ErrorSendIndex
	ErrorReadWantList
	ErrorBuildParts
	ErrorSendParts
	ErrorCloseDownstream
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
	case ErrorOpenIndex:
		return "cannot open index file"
	case ErrorOpenSource:
		return "cannot open source tarball"
	case ErrorSendIndex:
		return "cannot send index frame"
	case ErrorReadWantList:
		return "cannot read want-list from peer"
	case ErrorBuildParts:
		return "cannot build parts tarball"
	case ErrorSendParts:
		return "cannot send parts frame"
	case ErrorCloseDownstream:
		return "cannot close downstream writer"
	}

	return liberr.NullMessage
}
