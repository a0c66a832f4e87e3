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

// Package metrics exposes the Prometheus collectors a transfer optionally
// reports into: frame counts, bytes moved over the wire, and the hit rate of
// the receiver's local-library scan. A nil *Collector is always safe to call
// into, the same convention the logger package uses, so wiring metrics in is
// opt-in for every caller of upload.Run and receive.Run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the counters and histogram a single catbus process
// reports into. Register attaches them to a prometheus.Registerer of the
// caller's choosing (the default registry, or a private one for tests).
type Collector struct {
	framesSent       *prometheus.CounterVec
	framesReceived   *prometheus.CounterVec
	bytesTransferred *prometheus.CounterVec
	scanResults      *prometheus.CounterVec
	scanDuration     prometheus.Histogram
}

// New builds a Collector with unregistered collectors; call Register before
// any Observe/Inc call reaches a scrape.
func New() *Collector {
	return &Collector{
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catbus",
			Name:      "frames_sent_total",
			Help:      "Number of framed blobs written to the peer, by frame kind.",
		}, []string{"frame"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catbus",
			Name:      "frames_received_total",
			Help:      "Number of framed blobs read from the peer, by frame kind.",
		}, []string{"frame"}),
		bytesTransferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catbus",
			Name:      "bytes_transferred_total",
			Help:      "Bytes moved across the wire protocol, by frame kind and direction.",
		}, []string{"frame", "direction"}),
		scanResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catbus",
			Name:      "local_scan_results_total",
			Help:      "Local-library scan outcomes, by whether the path was resolved locally.",
		}, []string{"result"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catbus",
			Name:      "local_scan_candidate_seconds",
			Help:      "Wall-clock time spent scanning one (index, tarball) library candidate.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register attaches every collector in c to reg. A second registration
// against the same Registerer returns nil: an AlreadyRegisteredError is
// ignored, and any other registration error is returned.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil || reg == nil {
		return nil
	}
	for _, coll := range []prometheus.Collector{c.framesSent, c.framesReceived, c.bytesTransferred, c.scanResults, c.scanDuration} {
		if e := reg.Register(coll); e != nil {
			if _, ok := e.(prometheus.AlreadyRegisteredError); !ok {
				return e
			}
		}
	}
	return nil
}

// FrameSent records one framed blob ("index" or "parts") written to the peer.
func (c *Collector) FrameSent(frame string, bytes int) {
	if c == nil {
		return
	}
	c.framesSent.WithLabelValues(frame).Inc()
	c.bytesTransferred.WithLabelValues(frame, "sent").Add(float64(bytes))
}

// FrameReceived records one framed blob read from the peer.
func (c *Collector) FrameReceived(frame string, bytes int) {
	if c == nil {
		return
	}
	c.framesReceived.WithLabelValues(frame).Inc()
	c.bytesTransferred.WithLabelValues(frame, "received").Add(float64(bytes))
}

// ScanHit records one path the local-library scan resolved without asking
// the peer.
func (c *Collector) ScanHit() {
	if c == nil {
		return
	}
	c.scanResults.WithLabelValues("hit").Inc()
}

// ScanMiss records one path that still needed a remote part after the local
// scan completed.
func (c *Collector) ScanMiss() {
	if c == nil {
		return
	}
	c.scanResults.WithLabelValues("miss").Inc()
}

// ScanCandidateDuration records how long one (index, tarball) candidate took
// to scan, success or failure.
func (c *Collector) ScanCandidateDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.scanDuration.Observe(d.Seconds())
}
