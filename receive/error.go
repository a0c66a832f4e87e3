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

// Package receive implements the receiver side of the catbus transfer
// protocol: ingest the index, scan a local library of parts in parallel,
// request whatever is still missing, then assemble the output tarball and
// cache a copy of the index.
package receive

import (
	"fmt"

	liberr "github.com/nabbar/catbus/errors"
)

const pkgName = "catbus/receive"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgReceive
	ErrorReadIndex
	ErrorDecodeIndex
	ErrorDecodeParts
	ErrorSendWantList
	ErrorReadParts
	ErrorNonConcreteEntry
	ErrorWriteOutput
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
	case ErrorReadIndex:
		return "cannot read index frame"
	case ErrorDecodeIndex:
		return "cannot decode index tarball"
	case ErrorDecodeParts:
		return "cannot decode parts tarball"
	case ErrorSendWantList:
		return "cannot send want-list to peer"
	case ErrorReadParts:
		return "cannot read parts frame"
	case ErrorNonConcreteEntry:
		return "archive entry remains unresolved after both merge passes"
	case ErrorWriteOutput:
		return "cannot write reconstructed output"
	}

	return liberr.NullMessage
}
