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

package cli

import (
	"os"

	libcbr "github.com/nabbar/catbus/cobra"
	liberr "github.com/nabbar/catbus/errors"
	libidx "github.com/nabbar/catbus/index"
	liblog "github.com/nabbar/catbus/logger"
	librcv "github.com/nabbar/catbus/receive"
	libupl "github.com/nabbar/catbus/upload"
	libver "github.com/nabbar/catbus/version"
	spfcbr "github.com/spf13/cobra"
)

// New builds the catbus cobra application: "index create" and the two
// "transport" subcommands, backed by the index, upload and receive packages.
func New(vers libver.Version) libcbr.Cobra {
	app := libcbr.New()
	app.SetVersion(vers)
	app.Init()

	var verbose int
	app.SetFlagVerbose(true, &verbose)

	app.AddCommand(newIndexCommand(app))
	app.AddCommand(newTransportCommand(app))

	return app
}

func newIndexCommand(app libcbr.Cobra) *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:   "index",
		Short: "controls tarball indexes",
	}
	cmd.AddCommand(newIndexCreateCommand(app))
	return cmd
}

func newIndexCreateCommand(app libcbr.Cobra) *spfcbr.Command {
	var file, output string

	cmd := app.NewCommand("create", "create an index file for a tarball", "", "-f <file> -o <output>", "-f archive.tar -o archive.tar.idx")
	cmd.RunE = func(_ *spfcbr.Command, _ []string) error {
		return runCreateIndex(newLogger(), file, output)
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the tarball file to generate an index of")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path to write the index file to")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runCreateIndex(log liblog.Logger, file, output string) liberr.Error {
	if file == "" || output == "" {
		return ErrorParamEmpty.Error(nil)
	}

	raw, err := libidx.Build(file, log)
	if err != nil {
		return ErrorCreateIndex.Error(err)
	}

	if e := os.WriteFile(output, raw, 0o644); e != nil {
		return ErrorWriteIndex.Error(e)
	}

	return nil
}

func newTransportCommand(app libcbr.Cobra) *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:   "transport",
		Short: "streams a tarball to or from a remote peer over stdin/stdout",
	}
	cmd.AddCommand(newUploadIndexCommand(app))
	cmd.AddCommand(newReceiveIndexCommand(app))
	return cmd
}

func newUploadIndexCommand(app libcbr.Cobra) *spfcbr.Command {
	var file, index, metricsAddr string

	cmd := app.NewCommand("upload-index", "write an index on stdout, receive part requests on stdin and send those", "", "-f <file> -i <index>", "-f archive.tar -i archive.tar.idx")
	cmd.RunE = func(_ *spfcbr.Command, _ []string) error {
		log := newLogger()
		met := startMetrics(metricsAddr, log)
		err := libupl.Run(libupl.Config{SourcePath: file, IndexPath: index, Metrics: met}, os.Stdout, os.Stdin, log)
		if err != nil {
			return ErrorUploadIndex.Error(err)
		}
		return nil
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the tarball file to transport to the remote peer")
	cmd.Flags().StringVarP(&index, "index", "i", "", "path to the index file to transport to the remote peer")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9100)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func newReceiveIndexCommand(app libcbr.Cobra) *spfcbr.Command {
	var destination, file, metricsAddr string

	cmd := app.NewCommand("receive-index", "receive an index on stdin, construct a tarball from a library of parts or requests over stdout", "", "-d <destination> -f <file>", "-d ./library -f archive.tar")
	cmd.RunE = func(_ *spfcbr.Command, _ []string) error {
		log := newLogger()
		met := startMetrics(metricsAddr, log)
		err := librcv.Run(librcv.Config{Destination: destination, File: file, Metrics: met}, os.Stdin, os.Stdout, log)
		if err != nil {
			return ErrorReceiveIndex.Error(err)
		}
		return nil
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", "", "path to the directory of tarball and index files to use for tarball construction, and ultimate tarball write")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file name to create in the destination directory")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9100)")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
