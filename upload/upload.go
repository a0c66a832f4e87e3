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

package upload

import (
	"archive/tar"
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/google/uuid"

	liberr "github.com/nabbar/catbus/errors"
	liblog "github.com/nabbar/catbus/logger"
	libmet "github.com/nabbar/catbus/metrics"
	libtcd "github.com/nabbar/catbus/tarcodec"
	libtar "github.com/nabbar/catbus/tarutil"
)

const subsystem = "upload-index"

// Config names the two filesystem inputs the Uploader reads from: the
// prebuilt index and the source tarball it indexes. Metrics is optional: a
// nil value disables Prometheus reporting without changing any protocol
// behaviour.
type Config struct {
	SourcePath string
	IndexPath  string
	Metrics    *libmet.Collector
}

// Run drives the sender side of the protocol to completion: it frames the
// index onto out, blocks reading a newline-delimited want-list from in until
// EOF, then frames the requested subset of the source tarball onto out and
// closes it, signalling the receiver with a half-close.
//
// out must be closed by Run even on error so a peer blocked reading never
// hangs past a failure on this side.
func Run(cfg Config, out io.WriteCloser, in io.Reader, log liblog.Logger) (rerr liberr.Error) {
	if out == nil || in == nil {
		return ErrorParamEmpty.Error(nil)
	}
	transferID := uuid.NewString()
	if log != nil {
		log = log.WithSubsystem(subsystem)
		log.Entry(liblog.InfoLevel, "starting upload").Data("transfer", transferID).Log()
	}
	defer func() {
		if e := out.Close(); e != nil && rerr == nil {
			rerr = ErrorCloseDownstream.Error(e)
		}
	}()

	if log != nil {
		log.Entry(liblog.InfoLevel, "sending index tarball").Log()
	}
	if err := sendIndex(cfg.IndexPath, out, cfg.Metrics); err != nil {
		return err
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "reading want lines").Log()
	}
	want, err := readWantList(in, log)
	if err != nil {
		return err
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "generating wanted tarball").Data("count", len(want)).Log()
	}
	parts, err := buildParts(cfg.SourcePath, want)
	if err != nil {
		return err
	}

	if log != nil {
		log.Entry(liblog.InfoLevel, "sending wanted tarball").Data("bytes", len(parts)).Log()
	}
	return sendParts(parts, out, cfg.Metrics)
}

func sendIndex(path string, out io.Writer, met *libmet.Collector) liberr.Error {
	f, e := os.Open(path)
	if e != nil {
		return ErrorOpenIndex.Error(e)
	}
	defer func() { _ = f.Close() }()

	info, e := f.Stat()
	if e != nil {
		return ErrorOpenIndex.Error(e)
	}

	if err := libtcd.Write(subsystem, f, out); err != nil {
		return ErrorSendIndex.Error(err)
	}
	met.FrameSent("index", int(info.Size()))
	return nil
}

// readWantList reads newline-delimited paths from in until EOF, the
// receiver's half-close signalling the end of the want-list.
func readWantList(in io.Reader, log liblog.Logger) (map[string]struct{}, liberr.Error) {
	want := make(map[string]struct{})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if log != nil {
			log.Entry(liblog.DebugLevel, "wanted").Data("path", line).Log()
		}
		want[line] = struct{}{}
	}
	if e := scanner.Err(); e != nil {
		return nil, ErrorReadWantList.Error(e)
	}

	return want, nil
}

// buildParts iterates the source tarball in its own order and copies every
// entry whose path was requested into an in-memory, uncompressed tar. Paths
// requested but absent from the source are silently skipped; the receiver
// detects them at finalisation.
func buildParts(path string, want map[string]struct{}) ([]byte, liberr.Error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, ErrorOpenSource.Error(e)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err := libtar.Walk(f, func(hdr *tar.Header, r *tar.Reader) liberr.Error {
		if _, ok := want[hdr.Name]; !ok {
			return nil
		}
		return libtar.CopyEntry(tw, libtar.CloneHeader(hdr), r)
	})
	if err != nil {
		return nil, ErrorBuildParts.Error(err)
	}

	if e = tw.Close(); e != nil {
		return nil, ErrorBuildParts.Error(e)
	}

	return buf.Bytes(), nil
}

func sendParts(parts []byte, out io.Writer, met *libmet.Collector) liberr.Error {
	if err := libtcd.Write(subsystem, bytes.NewReader(parts), out); err != nil {
		return ErrorSendParts.Error(err)
	}
	met.FrameSent("parts", len(parts))
	return nil
}
