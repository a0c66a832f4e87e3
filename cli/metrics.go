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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	libmet "github.com/nabbar/catbus/metrics"
	liblog "github.com/nabbar/catbus/logger"
)

// startMetrics builds a Collector and, when addr is non-empty, registers it
// against a private Prometheus registry and serves it at addr on "/metrics"
// in the background. A transfer never blocks on whether anyone scrapes it:
// the listener failing to bind is logged and otherwise ignored, since
// metrics are an operator convenience, not part of the wire protocol.
func startMetrics(addr string, log liblog.Logger) *libmet.Collector {
	met := libmet.New()
	if addr == "" {
		return met
	}

	reg := prometheus.NewRegistry()
	if e := met.Register(reg); e != nil {
		if log != nil {
			log.Entry(liblog.WarnLevel, "cannot register metrics").ErrorAdd(e).Log()
		}
		return met
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if e := http.ListenAndServe(addr, mux); e != nil && log != nil {
			log.Entry(liblog.WarnLevel, "metrics listener stopped").Data("addr", addr).ErrorAdd(e).Log()
		}
	}()

	if log != nil {
		log.Entry(liblog.InfoLevel, "serving metrics").Data("addr", addr).Log()
	}

	return met
}
