/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package version carries build metadata (release, commit, author, license)
// stamped at link time via -ldflags, and renders it for the --version flag
// and the CLI's startup banner.
package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// License identifies the license a binary is distributed under.
type License uint8

const (
	License_MIT License = iota
	License_GNU_GPL_v3
	License_Apache_v2
)

func (l License) Name() string {
	switch l {
	case License_GNU_GPL_v3:
		return "GNU GENERAL PUBLIC LICENSE v3"
	case License_Apache_v2:
		return "Apache License v2.0"
	default:
		return "MIT License"
	}
}

// Version exposes build metadata registered at startup.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string
	GetLicenseName() string
}

type vers struct {
	lic     License
	pkg     string
	desc    string
	date    time.Time
	build   string
	release string
	author  string
	prefix  string
	appId   string
	root    string
}

// NewVersion builds a Version. ref is any value living in the package whose
// import path should be reported by GetRootPackagePath; numSubPackage trims
// that many trailing path segments (0 keeps the package itself, 1 goes up
// one directory, and so on).
func NewVersion(lic License, pkg, desc, date, build, release, author, prefix string, ref any, numSubPackage int) Version {
	t, e := time.Parse(time.RFC3339, date)
	if e != nil {
		t = time.Now()
	}

	root := reflect.TypeOf(ref).PkgPath()
	for i := 0; i < numSubPackage; i++ {
		root = root[:strings.LastIndex(root, "/")]
	}

	if pkg == "" || pkg == "noname" {
		pkg = root[strings.LastIndex(root, "/")+1:]
	}

	return &vers{
		lic:     lic,
		pkg:     pkg,
		desc:    desc,
		date:    t,
		build:   build,
		release: release,
		author:  author,
		prefix:  strings.ToUpper(prefix),
		appId:   fmt.Sprintf("%s-%s", pkg, build),
		root:    root,
	}
}

func (v *vers) GetPackage() string          { return v.pkg }
func (v *vers) GetDescription() string      { return v.desc }
func (v *vers) GetBuild() string            { return v.build }
func (v *vers) GetRelease() string          { return v.release }
func (v *vers) GetAuthor() string           { return v.author }
func (v *vers) GetPrefix() string           { return v.prefix }
func (v *vers) GetDate() string             { return v.date.Format(time.RFC3339) }
func (v *vers) GetTime() time.Time          { return v.date }
func (v *vers) GetAppId() string            { return v.appId }
func (v *vers) GetRootPackagePath() string  { return v.root }
func (v *vers) GetLicenseName() string      { return v.lic.Name() }

func (v *vers) GetInfo() string {
	return fmt.Sprintf("Hash: %s\nVersion: %s\nRuntime: %s\nAuthor: %s\nDate: %s\nLicence: %s",
		v.build, v.release, runtime.Version(), v.author, v.GetDate(), v.lic.Name())
}

func (v *vers) GetHeader() string {
	return fmt.Sprintf("%s (%s) - %s\n%s", v.pkg, v.release, v.desc, v.GetInfo())
}
