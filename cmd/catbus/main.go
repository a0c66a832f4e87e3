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

// Command catbus streams tar archives between two peers, skipping content the
// receiver already has on disk.
package main

import (
	"fmt"
	"os"

	libcli "github.com/nabbar/catbus/cli"
	libver "github.com/nabbar/catbus/version"
)

var (
	Version = "0.0.0-dev"
	BuildId = "none"
	Release = "dev"
	Author  = "Keith Duncan"
	Date    = "2026-01-01T00:00:00Z"
)

// marker anchors GetRootPackagePath to this binary's package.
type marker struct{}

func main() {
	vers := libver.NewVersion(
		libver.License_MIT,
		"catbus",
		"stream tarballs between two peers efficiently",
		Date,
		BuildId,
		Release,
		Author,
		"CATBUS",
		marker{},
		0,
	)

	app := libcli.New(vers)

	if err := app.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
