/*
 * minios62 - CPU Scheduler: ready queue, dispatch, and swap protocol.
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

// Package scheduler orders READY process control blocks and dispatches
// them into the CPU one pulse at a time (spec.md section 4.6). It owns
// the only mutable notion of "which process is running" in the system;
// the CPU itself is stateless across dispatches beyond its own register
// file.
package scheduler

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/rcornwell/minios62/internal/cpu"
	"github.com/rcornwell/minios62/internal/interrupt"
	"github.com/rcornwell/minios62/internal/memmgr"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
)

// Algorithm selects the ready-queue ordering and preemption policy.
type Algorithm int

const (
	RoundRobin Algorithm = iota
	FCFS
	Priority
)

func (a Algorithm) String() string {
	switch a {
	case RoundRobin:
		return "ROUND ROBIN"
	case FCFS:
		return "FCFS"
	case Priority:
		return "PRIORITY"
	default:
		return "UNKNOWN"
	}
}

// DefaultQuantum is the pulse budget a RUNNING process gets under
// Round-Robin before it is preempted (spec.md section 4.6).
const DefaultQuantum = 6

// ErrNoRAMAvailable is returned when a DSK-resident process needs to be
// swapped in but every RAM-resident process is currently RUNNING (so
// none can be chosen as a swap-out victim). This can only happen with a
// single RAM partition and a running process of the same priority; it
// is surfaced so the caller can re-enqueue and retry on a later pulse.
var ErrNoRAMAvailable = errors.New("no RAM partition available to swap in process")

// StdOut is where trap/halt messages are printed (spec.md section 6).
type StdOut interface {
	PutText(s string)
}

// Scheduler dispatches PCBs into a shared CPU, one pulse per tick.
type Scheduler struct {
	memmgr     *memmgr.Manager
	acc        *memory.Accessor
	cpu        *cpu.CPU
	interrupts *interrupt.Queue
	stdout     StdOut
	log        *slog.Logger
	algorithm  Algorithm
	quantum    int
	ready      []*pcb.PCB
	running    *pcb.PCB
	pulseCount uint64
}

// New creates a Scheduler. acc, c, and interrupts must be the
// Accessor/CPU/interrupt-queue set the Memory Manager's partitions and
// the CPU's pipeline were built from.
func New(mm *memmgr.Manager, acc *memory.Accessor, c *cpu.CPU, interrupts *interrupt.Queue, stdout StdOut, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		memmgr:     mm,
		acc:        acc,
		cpu:        c,
		interrupts: interrupts,
		stdout:     stdout,
		log:        log,
		algorithm:  RoundRobin,
		quantum:    DefaultQuantum,
	}
}

// SetSchedule changes the ordering/preemption policy.
func (s *Scheduler) SetSchedule(a Algorithm) {
	s.algorithm = a
}

// GetSchedule returns the current ordering/preemption policy.
func (s *Scheduler) GetSchedule() Algorithm {
	return s.algorithm
}

// SetQuantum changes the Round-Robin pulse budget. Rejects n<1.
func (s *Scheduler) SetQuantum(n int) error {
	if n < 1 {
		return errors.New("quantum must be >= 1")
	}
	s.quantum = n
	return nil
}

// Quantum returns the current Round-Robin pulse budget.
func (s *Scheduler) Quantum() int {
	return s.quantum
}

// Running returns the currently dispatched PCB, or nil if the CPU is idle.
func (s *Scheduler) Running() *pcb.PCB {
	return s.running
}

// Ready returns the ready queue in its current dispatch order, for "ps".
func (s *Scheduler) Ready() []*pcb.PCB {
	return s.ready
}

// Enqueue admits a RESIDENT or READY PCB into the ready queue, ordered
// by the active policy. DSK-resident PCBs are enqueued as-is; swap-in
// happens lazily on dispatch.
func (s *Scheduler) Enqueue(p *pcb.PCB) {
	p.SetState(pcb.Ready)
	s.ready = append(s.ready, p)
	if s.algorithm == Priority {
		sort.SliceStable(s.ready, func(i, j int) bool {
			return s.ready[i].Priority < s.ready[j].Priority
		})
	}
}

// Extract removes pid from the ready queue, or reports the running PCB
// if pid is currently RUNNING (the caller is responsible for acting on
// a running target, e.g. posting a kill interrupt).
func (s *Scheduler) Extract(pid int) (*pcb.PCB, bool) {
	if s.running != nil && s.running.ProcessID == pid {
		return s.running, true
	}
	for i, p := range s.ready {
		if p.ProcessID == pid {
			s.ready = append(s.ready[:i:i], s.ready[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// Clear empties the ready queue without touching an already-running process.
func (s *Scheduler) Clear() []*pcb.PCB {
	cleared := s.ready
	s.ready = nil
	return cleared
}

// Kill cancels a process (spec.md section 5): if it is RUNNING, posting
// a Halt interrupt defers the actual stop to the InterruptCheck stage of
// the next pulse, where Tick's normal halt handling deallocates it in
// that same pulse; if it is READY, it is extracted and deallocated
// immediately.
func (s *Scheduler) Kill(pid int) error {
	if s.running != nil && s.running.ProcessID == pid {
		s.interrupts.Post(interrupt.Interrupt{Kind: interrupt.Halt, PID: pid})
		return nil
	}
	p, ok := s.Extract(pid)
	if !ok {
		return nil
	}
	return s.memmgr.Deallocate(p)
}

// HaltRunning immediately detaches the running PCB from the CPU without
// going through the deferred interrupt path Kill uses, for killAll's
// synchronous stop-everything semantics (spec.md section 6). The caller
// is responsible for deallocating the returned PCB.
func (s *Scheduler) HaltRunning() *pcb.PCB {
	p := s.running
	s.running = nil
	return p
}

// Tick runs one clock pulse: dispatch if idle, step the running
// process, and handle halt or quantum preemption.
func (s *Scheduler) Tick() error {
	s.pulseCount++

	if s.running == nil {
		if err := s.dispatchNext(); err != nil {
			return err
		}
		if s.running == nil {
			return nil // nothing runnable
		}
	}

	res := s.cpu.Step()
	s.running.Snapshot(s.cpu.Registers())
	s.running.QuantumUsed++

	if res.Halted {
		if res.Message != "" {
			s.stdout.PutText(res.Message)
		}
		if err := s.memmgr.Deallocate(s.running); err != nil {
			return err
		}
		s.log.Debug("process halted", "pid", s.running.ProcessID)
		s.running = nil
		return nil
	}

	if s.preempts() && s.running.QuantumUsed >= s.quantum && len(s.ready) > 0 {
		s.preemptRunning()
	}
	return nil
}

func (s *Scheduler) preempts() bool {
	return s.algorithm == RoundRobin
}

// preemptRunning snapshots the running process back to READY and
// re-enqueues it at the back of the FIFO (Round-Robin only).
func (s *Scheduler) preemptRunning() {
	p := s.running
	p.SetState(pcb.Ready)
	p.QuantumUsed = 0
	s.ready = append(s.ready, p)
	s.running = nil
	s.log.Debug("preempted process", "pid", p.ProcessID)
}

// dequeue pops the next PCB to dispatch per the active policy. Priority
// keeps the queue pre-sorted on Enqueue; Round-Robin and FCFS are both
// plain FIFO.
func (s *Scheduler) dequeue() *pcb.PCB {
	if len(s.ready) == 0 {
		return nil
	}
	p := s.ready[0]
	s.ready = s.ready[1:]
	return p
}

// dispatchNext pops the next ready PCB, swapping it into RAM first if
// it is DSK-resident, and loads it into the CPU.
func (s *Scheduler) dispatchNext() error {
	p := s.dequeue()
	if p == nil {
		return nil
	}

	if p.Location == pcb.DSK {
		if err := s.swapIn(p); err != nil {
			// Put the process back and surface the error; a later
			// tick may find RAM free (e.g. after a kill).
			s.ready = append([]*pcb.PCB{p}, s.ready...)
			return err
		}
	}

	limit := s.memmgr.Memory().PartitionSize()
	s.acc.Bind(p.StartingAddress, limit)
	p.QuantumUsed = 0
	p.SetState(pcb.Running)
	p.LastDispatched = s.pulseCount
	s.cpu.Load(p.ProcessID, p.Restore())
	s.running = p
	s.log.Debug("dispatched process", "pid", p.ProcessID, "base", p.StartingAddress)
	return nil
}

// swapIn implements the swap-in/out protocol of spec.md section 4.6:
// swap-out a victim first if no RAM partition is free, then swap the
// incoming process in.
func (s *Scheduler) swapIn(p *pcb.PCB) error {
	base, ok := s.memmgr.FreeRAMBase()
	if !ok {
		victim, ok := s.findSwapVictim()
		if !ok {
			return ErrNoRAMAvailable
		}
		base = victim.StartingAddress
		if err := s.memmgr.SwapOut(victim); err != nil {
			return err
		}
	}
	return s.memmgr.SwapIn(p, base)
}

// findSwapVictim selects the least-recently-dispatched RAM-resident PCB
// that is not currently running (spec.md section 4.6 step 1, resolving
// the Open Question on victim selection per SPEC_FULL.md).
func (s *Scheduler) findSwapVictim() (*pcb.PCB, bool) {
	var victim *pcb.PCB
	for _, p := range s.memmgr.Processes() {
		if p.State == pcb.Terminated || p.Location != pcb.RAM {
			continue
		}
		if s.running != nil && p.ProcessID == s.running.ProcessID {
			continue
		}
		if victim == nil || p.LastDispatched < victim.LastDispatched {
			victim = p
		}
	}
	return victim, victim != nil
}
