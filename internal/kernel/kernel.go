/*
 * minios62 - Kernel: wires Memory, Memory Manager, Disk, Scheduler, CPU,
 * and StdOut into one no-globals context and serves the shell's
 * core-visible command set.
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

// Package kernel assembles the CORE subsystems (internal/memory,
// internal/memmgr, internal/disk, internal/cpu, internal/scheduler)
// behind one collaborator, avoiding the package-level globals the
// teacher's emu/* packages lean on: every piece of state here is a
// field reachable only through a *Kernel value the caller constructs
// explicitly, the way command/parser threads its *system.SysModel.
package kernel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcornwell/minios62/internal/clock"
	"github.com/rcornwell/minios62/internal/cpu"
	"github.com/rcornwell/minios62/internal/device"
	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/hexprogram"
	"github.com/rcornwell/minios62/internal/interrupt"
	"github.com/rcornwell/minios62/internal/memmgr"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
	"github.com/rcornwell/minios62/internal/scheduler"
	"github.com/rcornwell/minios62/util/logger"
)

// StdOut is the terminal-output collaborator of spec.md section 6.
type StdOut interface {
	PutText(s string)
}

// ErrUnknownProcess is returned by operations naming a pid the Memory
// Manager has no record of.
var ErrUnknownProcess = errors.New("unknown process id")

// Config is the subset of config.Config the Kernel needs to build its
// subsystems; kept separate so internal/kernel does not import
// internal/config (the dependency runs the other way, from main).
type Config struct {
	PartitionSize  int
	PartitionCount int
	DiskTracks     int
	DiskSectors    int
	DiskBlocks     int
	DiskDataLen    int
	Quantum        int
	Algorithm      scheduler.Algorithm
}

// Kernel is the no-globals context wiring every CORE subsystem
// together, plus the trace/trapError/haltProgramSilent callbacks of
// spec.md section 6.
type Kernel struct {
	mem    *memory.Memory
	disk   *disk.Disk
	memmgr *memmgr.Manager
	acc    *memory.Accessor
	interr *interrupt.Queue
	cpu    *cpu.CPU
	sched  *scheduler.Scheduler
	stdout StdOut
	log    *slog.Logger
}

// New builds a fully wired Kernel from cfg.
func New(cfg Config, stdout StdOut, log *slog.Logger) *Kernel {
	if log == nil {
		log = slog.Default()
	}
	mem := memory.New(cfg.PartitionSize, cfg.PartitionCount)
	d := disk.New(cfg.DiskTracks, cfg.DiskSectors, cfg.DiskBlocks, cfg.DiskDataLen, logger.Component(log, "disk"))
	mm := memmgr.New(mem, d, logger.Component(log, "memmgr"))
	acc := memory.NewAccessor(mem)
	q := interrupt.New()
	c := cpu.New(acc, stdout, q)
	s := scheduler.New(mm, acc, c, q, stdout, logger.Component(log, "scheduler"))
	s.SetSchedule(cfg.Algorithm)
	if cfg.Quantum > 0 {
		_ = s.SetQuantum(cfg.Quantum)
	}
	return &Kernel{mem: mem, disk: d, memmgr: mm, acc: acc, interr: q, cpu: c, sched: s, stdout: stdout, log: log}
}

// Tick implements clock.Ticker, letting a Kernel drive its own Scheduler
// directly from a Clock.
func (k *Kernel) Tick() error {
	return k.sched.Tick()
}

// trace logs a low-severity, user-invisible diagnostic.
func (k *Kernel) trace(msg string, args ...any) {
	k.log.Debug(msg, args...)
}

// trapError logs and surfaces a user-visible error, matching the
// teacher's pattern of logging at Warn while also returning the error
// for the shell to print.
func (k *Kernel) trapError(msg string, err error) error {
	k.log.Warn(msg, "error", err)
	return fmt.Errorf("%s: %w", msg, err)
}

// haltProgramSilent deallocates p without emitting a trap message, used
// when a process is killed rather than trapped by the CPU itself.
func (k *Kernel) haltProgramSilent(p *pcb.PCB) error {
	return k.memmgr.Deallocate(p)
}

// Load parses a hex program image and allocates it as a new, RESIDENT PCB.
func (k *Kernel) Load(program string, priority uint) (*pcb.PCB, error) {
	bytes, err := hexprogram.Parse(program)
	if err != nil {
		return nil, k.trapError("load", err)
	}
	p, err := k.memmgr.Allocate(bytes, priority)
	if err != nil {
		return nil, k.trapError("load", err)
	}
	k.trace("loaded program", "pid", p.ProcessID, "priority", priority)
	return p, nil
}

// Run enqueues pid if it is RESIDENT.
func (k *Kernel) Run(pid int) error {
	p, ok := k.memmgr.Lookup(pid)
	if !ok {
		return ErrUnknownProcess
	}
	if p.State != pcb.Resident {
		return fmt.Errorf("run %d: process is %s, not RESIDENT", pid, p.State)
	}
	k.sched.Enqueue(p)
	return nil
}

// RunAll enqueues every RESIDENT PCB.
func (k *Kernel) RunAll() int {
	n := 0
	for _, p := range k.memmgr.Processes() {
		if p.State == pcb.Resident {
			k.sched.Enqueue(p)
			n++
		}
	}
	return n
}

// PS reports every registered PCB for the shell's "ps" command.
func (k *Kernel) PS() []*pcb.PCB {
	return k.memmgr.Processes()
}

// Kill halts/extracts pid and deallocates it.
func (k *Kernel) Kill(pid int) error {
	p, ok := k.memmgr.Lookup(pid)
	if !ok {
		return ErrUnknownProcess
	}
	if p.State == pcb.Resident {
		return k.haltProgramSilent(p)
	}
	return k.sched.Kill(pid)
}

// KillAll halts the running process, clears the ready queue, and
// deallocates every non-terminated PCB, all synchronously (unlike a
// single Kill, this never defers to a pulse boundary).
func (k *Kernel) KillAll() error {
	if running := k.sched.HaltRunning(); running != nil {
		if err := k.haltProgramSilent(running); err != nil {
			return err
		}
	}
	for _, p := range k.sched.Clear() {
		if err := k.haltProgramSilent(p); err != nil {
			return err
		}
	}
	for _, p := range k.memmgr.Processes() {
		if p.State != pcb.Terminated {
			if err := k.haltProgramSilent(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearMem deallocates every non-terminated RAM-resident PCB, refusing
// while the CPU is actively running a process.
func (k *Kernel) ClearMem() error {
	if k.sched.Running() != nil {
		return errors.New("clearmem: a process is running")
	}
	for _, p := range k.memmgr.Processes() {
		if p.State != pcb.Terminated && p.Location == pcb.RAM {
			if err := k.haltProgramSilent(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetQuantum sets the scheduler quantum, rejecting n<1.
func (k *Kernel) SetQuantum(n int) error {
	return k.sched.SetQuantum(n)
}

// GetSchedule reports the active scheduling algorithm.
func (k *Kernel) GetSchedule() scheduler.Algorithm {
	return k.sched.GetSchedule()
}

// SetSchedule sets the active scheduling algorithm.
func (k *Kernel) SetSchedule(a scheduler.Algorithm) {
	k.sched.SetSchedule(a)
}

// Format formats the disk. A full format zeroes every record except the
// MBR; a quick format resets only active flags and headers and leaves
// data bytes in place.
func (k *Kernel) Format(quick bool) {
	if quick {
		k.disk.FormatQuick()
		return
	}
	k.disk.Format()
}

// Create, Read, Write, Delete, Copy, Rename, and List are direct
// disk-driver passthroughs for the shell's filesystem commands.
func (k *Kernel) Create(name string) error                 { return k.disk.Create(name) }
func (k *Kernel) Read(name string) ([]byte, error)          { return k.disk.Read(name) }
func (k *Kernel) Write(name string, data []byte) error      { return k.disk.Write(name, data) }
func (k *Kernel) Delete(name string) error                  { return k.disk.Delete(name) }
func (k *Kernel) Copy(existing, newName string) error       { return k.disk.Copy(existing, newName) }
func (k *Kernel) Rename(oldName, newName string) error      { return k.disk.Rename(oldName, newName) }
func (k *Kernel) List() ([]string, error)                   { return k.disk.List() }

// Examine returns a raw dump of pid's partition image for the shell's
// "examine" command. It only works while the process is RAM-resident;
// a swapped-out process has nothing in physical memory to show.
func (k *Kernel) Examine(pid int) ([]byte, error) {
	p, ok := k.memmgr.Lookup(pid)
	if !ok {
		return nil, ErrUnknownProcess
	}
	if p.Location != pcb.RAM {
		return nil, fmt.Errorf("examine %d: process is swapped to disk", pid)
	}
	limit := k.mem.PartitionSize()
	dump := make([]byte, limit)
	for i := 0; i < limit; i++ {
		dump[i] = k.mem.ReadByte(p.StartingAddress + i)
	}
	return dump, nil
}

// SetDebug toggles verbose tracing on the Disk Driver and Memory
// Manager, the two components tagged as device.Device.
func (k *Kernel) SetDebug(on bool) error {
	option := "off"
	if on {
		option = "on"
	}
	devices := []device.Device{k.disk, k.memmgr}
	for _, d := range devices {
		if err := d.Debug(option); err != nil {
			return err
		}
	}
	return nil
}

// NewClock builds a Clock driving this Kernel's Scheduler one pulse at
// a time.
func (k *Kernel) NewClock() *clock.Clock {
	return clock.New(k, k.log)
}
