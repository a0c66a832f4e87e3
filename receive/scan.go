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

package receive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	libatm "github.com/nabbar/catbus/atomic"
	libentry "github.com/nabbar/catbus/entry"
	liberr "github.com/nabbar/catbus/errors"
	libpool "github.com/nabbar/catbus/errors/pool"
	liblog "github.com/nabbar/catbus/logger"
	libmet "github.com/nabbar/catbus/metrics"
	libsem "github.com/nabbar/catbus/semaphore/sem"
	libtar "github.com/nabbar/catbus/tarutil"
)

// candidate is one (index, tarball) pair discovered in the destination
// directory: a library of parts from some prior transfer.
type candidate struct {
	indexPath   string
	tarballPath string
}

// discoverCandidates enumerates dir for files named *.idx and pairs each
// with the sibling path obtained by stripping the extension. A candidate
// whose partner tarball does not exist is dropped here rather than left to
// fail later opening it.
func discoverCandidates(dir string) []candidate {
	ents, e := os.ReadDir(dir)
	if e != nil {
		return nil
	}

	var out []candidate
	for _, d := range ents {
		if d.IsDir() || filepath.Ext(d.Name()) != ".idx" {
			continue
		}

		idxPath := filepath.Join(dir, d.Name())
		tarballPath := filepath.Join(dir, strings.TrimSuffix(d.Name(), ".idx"))

		if _, e := os.Stat(tarballPath); e != nil {
			continue
		}

		out = append(out, candidate{indexPath: idxPath, tarballPath: tarballPath})
	}

	return out
}

// scanLibrary scans every (index, tarball) pair in dir concurrently, one
// worker per pair bounded by the host's parallelism, and returns the union
// of everything found that the global want-set still needs. A candidate
// whose intersection with want is empty only pays the cost of opening its
// index, never its tarball. Per-candidate failures are logged and otherwise
// ignored: a faulty library entry must never prevent discovering good ones.
func scanLibrary(ctx context.Context, dir string, want map[string][libtar.DigestSize]byte, log liblog.Logger, met *libmet.Collector) map[string]libentry.Material {
	candidates := discoverCandidates(dir)
	if log != nil {
		log.Entry(liblog.DebugLevel, "discovered library candidates").Data("count", len(candidates)).Log()
	}

	results := libatm.NewMapTyped[string, libentry.Material]()
	failures := libpool.New()
	s := libsem.New(ctx, 0)

	for _, c := range candidates {
		if e := s.NewWorker(); e != nil {
			break
		}
		go func(c candidate) {
			defer s.DeferWorker()
			scanCandidate(c, want, results, failures, log, met)
		}(c)
	}
	_ = s.WaitAll()

	if failures.Len() > 0 && log != nil {
		log.Entry(liblog.WarnLevel, "some library candidates failed to scan").
			Data("count", failures.Len()).ErrorAdd(failures.Error()).Log()
	}

	out := make(map[string]libentry.Material)
	results.Range(func(path string, m libentry.Material) bool {
		out[path] = m
		return true
	})

	return out
}

// scanCandidate opens one library pair, intersects its own (path, digest)
// list against want, and - only if that intersection is non-empty - opens
// the paired tarball to materialise the matching entries into results. Any
// failure is recorded into failures rather than aborting the scan: a faulty
// candidate must never prevent discovering good ones.
func scanCandidate(c candidate, want map[string][libtar.DigestSize]byte, results libatm.MapTyped[string, libentry.Material], failures libpool.Pool, log liblog.Logger, met *libmet.Collector) {
	start := time.Now()
	defer func() { met.ScanCandidateDuration(time.Since(start)) }()

	idxFile, e := os.Open(c.indexPath)
	if e != nil {
		failures.Add(e)
		if log != nil {
			log.Entry(liblog.WarnLevel, "cannot open candidate index").Data("path", c.indexPath).ErrorAdd(e).Log()
		}
		return
	}
	defer func() { _ = idxFile.Close() }()

	candidateEntries, err := decodeIndex(idxFile)
	if err != nil {
		failures.Add(err)
		if log != nil {
			log.Entry(liblog.WarnLevel, "cannot decode candidate index").Data("path", c.indexPath).ErrorAdd(err).Log()
		}
		return
	}

	extract := make(map[string]struct{})
	for path, digest := range candidateEntries.WantSet() {
		if wantDigest, ok := want[path]; ok && wantDigest == digest {
			extract[path] = struct{}{}
		}
	}
	if len(extract) == 0 {
		return
	}

	tarFile, e := os.Open(c.tarballPath)
	if e != nil {
		failures.Add(e)
		if log != nil {
			log.Entry(liblog.WarnLevel, "cannot open candidate tarball").Data("path", c.tarballPath).ErrorAdd(e).Log()
		}
		return
	}
	defer func() { _ = tarFile.Close() }()

	err = libtar.Walk(tarFile, func(hdr *tar.Header, tr *tar.Reader) liberr.Error {
		if _, ok := extract[hdr.Name]; !ok {
			return nil
		}

		buf := make([]byte, hdr.Size)
		if _, e := io.ReadFull(tr, buf); e != nil {
			failures.Add(e)
			return nil
		}

		results.Store(hdr.Name, libentry.Material{Header: libtar.CloneHeader(hdr), Payload: buf})
		return nil
	})
	if err != nil {
		failures.Add(err)
		if log != nil {
			log.Entry(liblog.WarnLevel, "error scanning candidate tarball").Data("path", c.tarballPath).ErrorAdd(err).Log()
		}
	}
}
