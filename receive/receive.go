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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"

	libentry "github.com/nabbar/catbus/entry"
	liberr "github.com/nabbar/catbus/errors"
	libiou "github.com/nabbar/catbus/ioutils"
	liblog "github.com/nabbar/catbus/logger"
	libmet "github.com/nabbar/catbus/metrics"
	libtcd "github.com/nabbar/catbus/tarcodec"
	libtar "github.com/nabbar/catbus/tarutil"
)

const subsystem = "receive-index"

// Config names where the Receiver writes its two outputs: the reconstructed
// tarball and the cached copy of the index, both under Destination. Metrics
// is optional: a nil value disables Prometheus reporting without changing
// any protocol behaviour.
type Config struct {
	Destination string
	File        string
	Metrics     *libmet.Collector
}

// Run drives the receiver side of the protocol to completion: ingest the
// index from in, scan Destination in parallel for content it can satisfy
// locally, request whatever remains from the peer over out, ingest the
// parts it sends back, then write the reconstructed tarball and a cached
// copy of the index into Destination.
//
// Every transition is forward-only; any error aborts the transfer with
// nothing guaranteed about partial output already on disk.
func Run(cfg Config, in io.Reader, out io.WriteCloser, log liblog.Logger) liberr.Error {
	if in == nil || out == nil || cfg.Destination == "" || cfg.File == "" {
		return ErrorParamEmpty.Error(nil)
	}
	if log != nil {
		log = log.WithSubsystem(subsystem)
		log.Entry(liblog.InfoLevel, "starting receive").Data("transfer", uuid.NewString()).Log()
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "receiving index tarball").Log()
	}
	indexBytes, err := libtcd.Read(subsystem, in)
	if err != nil {
		return ErrorReadIndex.Error(err)
	}
	cfg.Metrics.FrameReceived("index", len(indexBytes))

	entries, err := decodeIndex(bytes.NewReader(indexBytes))
	if err != nil {
		return err
	}

	want := entries.WantSet()
	local := scanLibrary(context.Background(), cfg.Destination, want, log, cfg.Metrics)
	mergedLocal := entries.Merge(local)
	if log != nil {
		log.Entry(liblog.InfoLevel, "merged bytes from local parts").Data("bytes", mergedLocal).Log()
	}

	outstanding := entries.OutstandingPaths()
	for i := 0; i < len(want)-len(outstanding); i++ {
		cfg.Metrics.ScanHit()
	}
	for range outstanding {
		cfg.Metrics.ScanMiss()
	}
	if err := sendWantList(out, outstanding, log); err != nil {
		return err
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "receiving wanted tarball").Log()
	}
	partsBytes, errRead := libtcd.Read(subsystem, in)
	if errRead != nil {
		return ErrorReadParts.Error(errRead)
	}
	cfg.Metrics.FrameReceived("parts", len(partsBytes))

	remote, err := decodePlainTar(bytes.NewReader(partsBytes))
	if err != nil {
		return err
	}
	mergedRemote := entries.Merge(remote)
	if log != nil {
		log.Entry(liblog.InfoLevel, "merged bytes from remote parts").Data("bytes", mergedRemote).Log()
	}

	if path, ok := entries.FirstOutstanding(); ok {
		return ErrorNonConcreteEntry.Error(fmt.Errorf("entry %q never resolved", path))
	}

	return finalise(cfg, entries, indexBytes, log)
}

// sendWantList writes the still-outstanding paths, one per line, onto out in
// index order, then closes out: the half-close that tells the sender the
// want-list is complete.
func sendWantList(out io.WriteCloser, paths []string, log liblog.Logger) liberr.Error {
	bw := bufio.NewWriter(out)

	for _, p := range paths {
		if !utf8.ValidString(p) {
			return ErrorSendWantList.Error(fmt.Errorf("path %q is not valid utf-8", p))
		}
		if log != nil {
			log.Entry(liblog.DebugLevel, "sending want").Data("path", p).Log()
		}
		if _, e := fmt.Fprintf(bw, "%s\n", p); e != nil {
			return ErrorSendWantList.Error(e)
		}
	}

	if e := bw.Flush(); e != nil {
		return ErrorSendWantList.Error(e)
	}
	if e := out.Close(); e != nil {
		return ErrorSendWantList.Error(e)
	}

	return nil
}

// finalise writes the reconstructed tarball and a verbatim copy of the
// index into cfg.Destination, each via a temp file renamed into place.
func finalise(cfg Config, entries libentry.List, indexBytes []byte, log liblog.Logger) liberr.Error {
	outPath := filepath.Join(cfg.Destination, cfg.File)

	if log != nil {
		log.Entry(liblog.InfoLevel, "writing output tarball").Data("path", outPath).Log()
	}
	if err := writeAtomic(cfg.Destination, outPath, func(f *os.File) liberr.Error {
		tw := tar.NewWriter(f)
		for _, e := range entries {
			if err := libtar.CopyEntry(tw, e.Header, bytes.NewReader(e.Payload)); err != nil {
				return ErrorWriteOutput.Error(err)
			}
		}
		if e := tw.Close(); e != nil {
			return ErrorWriteOutput.Error(e)
		}
		return nil
	}); err != nil {
		return err
	}

	idxPath := outPath + ".idx"
	if log != nil {
		log.Entry(liblog.InfoLevel, "writing index tarball").Data("path", idxPath).Log()
	}
	return writeAtomic(cfg.Destination, idxPath, func(f *os.File) liberr.Error {
		if _, e := f.Write(indexBytes); e != nil {
			return ErrorWriteOutput.Error(e)
		}
		return nil
	})
}

// writeAtomic stages write's output in a temp file under dest and renames it
// onto finalPath only once write has fully succeeded, so a failure never
// leaves a half-written file at finalPath.
func writeAtomic(dest, finalPath string, write func(*os.File) liberr.Error) liberr.Error {
	tmp, err := libiou.NewTempFile(dest)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = libiou.DelTempFile(tmp)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}

	tmpPath := libiou.GetTempFilePath(tmp)
	if e := tmp.Close(); e != nil {
		return ErrorWriteOutput.Error(e)
	}

	if err := libiou.RenameInto(tmpPath, finalPath, 0o755); err != nil {
		return err
	}
	committed = true

	return nil
}
