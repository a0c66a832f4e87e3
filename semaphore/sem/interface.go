/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package sem bounds the fan-out of the local-library scan: one goroutine per
// (index, tarball) candidate pair would otherwise let a large library
// stampede the filesystem. New picks between a weighted semaphore (bounded
// concurrency) and a WaitGroup (unlimited concurrency) based on the sign of
// the requested limit.
package sem

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Sem bounds concurrent workers and doubles as the context.Context it was
// built from, so callers can pass it straight through to blocking calls that
// need cancellation.
type Sem interface {
	context.Context

	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error
	// NewWorkerTry acquires a slot without blocking, returning false if none
	// is immediately available.
	NewWorkerTry() bool
	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()
	// WaitAll blocks until every outstanding worker has called DeferWorker.
	WaitAll() error
	// DeferMain is a convenience wrapper for WaitAll meant to be deferred
	// right after New.
	DeferMain()
	// Weighted returns the configured limit: >=0 for a bounded semaphore,
	// -1 for unlimited (WaitGroup-based) mode.
	Weighted() int64
}

// MaxSimultaneous returns the number of logical CPUs usable by the runtime,
// the default bound when New is called with nbrSimultaneous == 0.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous clamps n to MaxSimultaneous: any n < 1 or n > MaxSimultaneous
// becomes MaxSimultaneous, any n in between passes through unchanged.
func SetSimultaneous(n int64) int64 {
	if n < 1 || n > int64(MaxSimultaneous()) {
		return int64(MaxSimultaneous())
	}
	return n
}

// New returns a Sem bounding concurrency to nbrSimultaneous workers.
// nbrSimultaneous == 0 uses MaxSimultaneous; nbrSimultaneous < 0 removes the
// bound entirely (a sync.WaitGroup backs NewWorker, which then never
// blocks).
func New(ctx context.Context, nbrSimultaneous int64) Sem {
	if nbrSimultaneous < 0 {
		return &wgSem{ctx: ctx}
	}

	n := nbrSimultaneous
	if n == 0 {
		n = int64(MaxSimultaneous())
	}

	return &weightedSem{
		ctx:    ctx,
		weight: n,
		sem:    semaphore.NewWeighted(n),
	}
}

type weightedSem struct {
	ctx    context.Context
	weight int64
	sem    *semaphore.Weighted
}

func (w *weightedSem) Deadline() (deadline time.Time, ok bool) { return w.ctx.Deadline() }
func (w *weightedSem) Done() <-chan struct{}                   { return w.ctx.Done() }
func (w *weightedSem) Err() error                              { return w.ctx.Err() }
func (w *weightedSem) Value(key any) any                       { return w.ctx.Value(key) }

func (w *weightedSem) NewWorker() error {
	return w.sem.Acquire(w.ctx, 1)
}

func (w *weightedSem) NewWorkerTry() bool {
	return w.sem.TryAcquire(1)
}

func (w *weightedSem) DeferWorker() {
	w.sem.Release(1)
}

func (w *weightedSem) WaitAll() error {
	if e := w.sem.Acquire(w.ctx, w.weight); e != nil {
		return e
	}
	w.sem.Release(w.weight)
	return nil
}

func (w *weightedSem) DeferMain() {
	_ = w.WaitAll()
}

func (w *weightedSem) Weighted() int64 {
	return w.weight
}

type wgSem struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func (w *wgSem) Deadline() (deadline time.Time, ok bool) { return w.ctx.Deadline() }
func (w *wgSem) Done() <-chan struct{}                   { return w.ctx.Done() }
func (w *wgSem) Err() error                              { return w.ctx.Err() }
func (w *wgSem) Value(key any) any                       { return w.ctx.Value(key) }

func (w *wgSem) NewWorker() error {
	w.wg.Add(1)
	return nil
}

func (w *wgSem) NewWorkerTry() bool {
	w.wg.Add(1)
	return true
}

func (w *wgSem) DeferWorker() {
	w.wg.Done()
}

func (w *wgSem) WaitAll() error {
	w.wg.Wait()
	return nil
}

func (w *wgSem) DeferMain() {
	w.wg.Wait()
}

func (w *wgSem) Weighted() int64 {
	return -1
}
