/*
 * minios62 - Host clock source: delivers discrete pulses to the Scheduler.
 *
 * Copyright 2026, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package clock is the host clock source spec.md section 1 scopes out
// of the core: an external collaborator that delivers discrete pulses
// to the Scheduler. Adapted from the teacher's emu/core run/stop
// goroutine, simplified since there is no master-packet protocol here
// and only one ticker to drive, not a whole channel subsystem.
package clock

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is stepped once per pulse. *scheduler.Scheduler satisfies this.
type Ticker interface {
	Tick() error
}

// DefaultInterval is the host-side pacing between pulses. It exists
// only so the console goroutine gets a fair scheduling slice between
// pulses; it has no bearing on simulated time (spec.md section 5: the
// CORE itself has no concept of wall-clock time).
const DefaultInterval = time.Millisecond

// Clock drives a Ticker at a steady pace on its own goroutine.
type Clock struct {
	wg       sync.WaitGroup
	done     chan struct{}
	running  atomic.Bool
	ticker   Ticker
	log      *slog.Logger
	interval time.Duration
}

// New creates a Clock over the given Ticker. It does not start running
// until Start is called.
func New(ticker Ticker, log *slog.Logger) *Clock {
	if log == nil {
		log = slog.Default()
	}
	return &Clock{ticker: ticker, log: log, done: make(chan struct{}), interval: DefaultInterval}
}

// Start launches the pulse loop on its own goroutine. Safe to call once.
func (c *Clock) Start() {
	c.running.Store(true)
	c.wg.Add(1)
	go c.run()
}

func (c *Clock) run() {
	defer c.wg.Done()
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			if !c.running.Load() {
				continue
			}
			if err := c.ticker.Tick(); err != nil {
				c.log.Warn("pulse error", "error", err)
			}
		}
	}
}

// Pause stops delivering pulses without tearing down the goroutine.
func (c *Clock) Pause() {
	c.running.Store(false)
}

// Resume resumes delivering pulses after Pause.
func (c *Clock) Resume() {
	c.running.Store(true)
}

// Stop shuts the pulse loop down, waiting up to one second.
func (c *Clock) Stop() {
	close(c.done)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		c.log.Warn("timed out waiting for clock to stop")
	}
}
