/*
 * minios62 - Queued software interrupts processed at pipeline boundaries.
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

// Package interrupt is a thread-safe FIFO of pending software traps,
// drained by the CPU's InterruptCheck pipeline step. Only software
// traps are modeled (spec.md Non-goals exclude hardware interrupts);
// the queue exists so a "kill" issued from the console goroutine can
// reach a RUNNING process safely without the Scheduler and CPU taking a
// lock on every pulse.
package interrupt

import "sync"

// Kind distinguishes the small set of software interrupts this
// simulator needs.
type Kind int

const (
	// Halt asks the CPU to stop executing at the next pipeline
	// boundary, as if the running process had hit opcode 00.
	Halt Kind = iota
)

// Interrupt is one queued software trap.
type Interrupt struct {
	Kind Kind
	PID  int
}

// Queue is a thread-safe FIFO of pending interrupts.
type Queue struct {
	mu      sync.Mutex
	pending []Interrupt
}

// New creates an empty interrupt queue.
func New() *Queue {
	return &Queue{}
}

// Post enqueues an interrupt. Safe to call from any goroutine.
func (q *Queue) Post(i Interrupt) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, i)
}

// Drain removes and returns every pending interrupt, in FIFO order.
func (q *Queue) Drain() []Interrupt {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
