/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package ioutils

import (
	"os"
	"path/filepath"

	liberr "github.com/nabbar/catbus/errors"
)

// NewTempFile creates an anonymous temporary file used as scratch space while
// a tarball or index is being assembled before it is renamed into place.
func NewTempFile(dir string) (*os.File, liberr.Error) {
	f, e := os.CreateTemp(dir, "catbus-*.tmp")
	if e != nil {
		return nil, ErrorIOFileTempNew.Error(e)
	}
	return f, nil
}

func GetTempFilePath(f *os.File) string {
	if f == nil {
		return ""
	}

	return f.Name()
}

// DelTempFile closes and removes a temporary file. Safe to call after the
// file has already been renamed away (Remove then no-ops with ErrNotExist).
func DelTempFile(f *os.File) liberr.Error {
	if f == nil {
		return nil
	}

	n := GetTempFilePath(f)

	var err liberr.Error
	if e := f.Close(); e != nil {
		err = ErrorIOFileTempClose.Error(e)
	}

	if e := os.Remove(n); e != nil && !os.IsNotExist(e) {
		if err != nil {
			err.Add(ErrorIOFileTempRemove.Error(e))
		} else {
			err = ErrorIOFileTempRemove.Error(e)
		}
	}

	return err
}

// RenameInto atomically publishes a finished temp file at dst, creating dst's
// parent directory first if needed.
func RenameInto(tmpPath, dst string, dirPerm os.FileMode) liberr.Error {
	if e := PathCheckCreate(false, filepath.Dir(dst), 0o644, dirPerm); e != nil {
		return ErrorPathCreate.Error(e)
	}

	if e := os.Rename(tmpPath, dst); e != nil {
		return ErrorPathCreate.Error(e)
	}

	return nil
}
