/*
 * minios62 - Memory Manager: partition allocation and disk swap overflow.
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

// Package memmgr finds a free RAM partition for a new program, or, when
// every partition is occupied, spills the program onto disk as a hidden
// swap file so the process can still be registered and later dispatched.
package memmgr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/hexprogram"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
)

// Disk is the subset of the disk driver the Memory Manager needs to
// create and populate a process's swap file. Swap file names are built
// only by SwapFileName; the Scheduler reaches swap files solely through
// the Manager's SwapOut and SwapIn.
type Disk interface {
	Create(filename string) error
	Write(filename string, data []byte) error
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

// SwapFileName is the hidden-file naming convention shared with the
// Scheduler's swap-in/out protocol (spec.md section 4.6).
func SwapFileName(pid int) string {
	return fmt.Sprintf(".process%d.swp", pid)
}

// Manager owns partition allocation and the registered-process list.
type Manager struct {
	mem       *memory.Memory
	disk      Disk
	log       *slog.Logger
	processes []*pcb.PCB
	nextID    int
	debug     bool
}

// New creates a Memory Manager over the given physical memory and disk.
func New(mem *memory.Memory, disk Disk, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{mem: mem, disk: disk, log: log}
}

// Debug implements device.Device, letting the shell's "set debug" command
// raise this manager's trace verbosity without a restart.
func (m *Manager) Debug(option string) error {
	switch option {
	case "on":
		m.debug = true
	case "off":
		m.debug = false
	default:
		return fmt.Errorf("memmgr debug option invalid: %s", option)
	}
	return nil
}

// trace logs at Info when debug mode is on, Debug otherwise.
func (m *Manager) trace(msg string, args ...any) {
	if m.debug {
		m.log.Info(msg, args...)
		return
	}
	m.log.Debug(msg, args...)
}

// Processes returns every registered PCB, in registration order.
func (m *Manager) Processes() []*pcb.PCB {
	return m.processes
}

// Lookup finds a registered PCB by process ID.
func (m *Manager) Lookup(pid int) (*pcb.PCB, bool) {
	for _, p := range m.processes {
		if p.ProcessID == pid {
			return p, true
		}
	}
	return nil, false
}

// partitionFree reports whether a partition is free: its base byte
// reads 0x00 AND no live (non-terminated) PCB currently claims it. The
// process registry is authoritative; the zero-byte scan is advisory.
func (m *Manager) partitionFree(base int) bool {
	if m.mem.ReadByte(base) != 0 {
		return false
	}
	for _, p := range m.processes {
		if p.State != pcb.Terminated && p.Location == pcb.RAM && p.StartingAddress == base {
			return false
		}
	}
	return true
}

// HasFreePartition reports whether any partition base reads 0x00 (per
// spec.md, this is the byte-scan definition, not the registry check).
func (m *Manager) HasFreePartition() bool {
	for i := 0; i < m.mem.PartitionCount(); i++ {
		if m.mem.ReadByte(m.mem.PartitionBase(i)) == 0 {
			return true
		}
	}
	return false
}

// FreeRAMBase returns the base address of the first partition the
// process registry considers free, for the Scheduler's swap-in path.
func (m *Manager) FreeRAMBase() (int, bool) {
	for i := 0; i < m.mem.PartitionCount(); i++ {
		base := m.mem.PartitionBase(i)
		if m.partitionFree(base) {
			return base, true
		}
	}
	return 0, false
}

// Allocate installs program either into the first free RAM partition,
// or, on overflow, as a hidden swap file on disk.
func (m *Manager) Allocate(program []byte, priority uint) (*pcb.PCB, error) {
	limit := m.mem.PartitionSize()
	if len(program) > limit {
		return nil, memory.ErrProgramTooLarge
	}

	for i := 0; i < m.mem.PartitionCount(); i++ {
		base := m.mem.PartitionBase(i)
		if !m.partitionFree(base) {
			continue
		}
		p := pcb.New(m.nextID, base, pcb.RAM, priority)
		m.nextID++
		if err := m.mem.WriteProgram(base, limit, program); err != nil {
			return nil, err
		}
		m.processes = append(m.processes, p)
		m.trace("allocated RAM partition", "pid", p.ProcessID, "base", base)
		return p, nil
	}

	p := pcb.New(m.nextID, pcb.NoStartingAddress, pcb.DSK, priority)
	m.nextID++
	if err := m.writeSwapFile(p.ProcessID, program); err != nil {
		return nil, err
	}
	m.processes = append(m.processes, p)
	m.trace("allocated disk swap file", "pid", p.ProcessID)
	return p, nil
}

// Deallocate terminates a PCB: zeroing its RAM partition or deleting its
// swap file. Idempotent on already-terminated PCBs.
func (m *Manager) Deallocate(p *pcb.PCB) error {
	if p.State == pcb.Terminated {
		return nil
	}
	p.SetState(pcb.Terminated)
	switch p.Location {
	case pcb.RAM:
		m.mem.ClearProgram(p.StartingAddress, m.mem.PartitionSize())
	case pcb.DSK:
		if err := m.disk.Delete(SwapFileName(p.ProcessID)); err != nil {
			return err
		}
	}
	m.trace("deallocated process", "pid", p.ProcessID)
	return nil
}

// writeSwapFile creates the swap file on its first use and overwrites it
// on every later swap-out for the same process.
func (m *Manager) writeSwapFile(pid int, program []byte) error {
	name := SwapFileName(pid)
	if err := m.disk.Create(name); err != nil && !errors.Is(err, disk.ErrNameInUse) {
		return err
	}
	return m.disk.Write(name, []byte(hexprogram.Format(program)))
}

// ReadSwapFile loads and decodes a process's swap file, for the
// Scheduler's swap-in path.
func (m *Manager) ReadSwapFile(pid int) ([]byte, error) {
	raw, err := m.disk.Read(SwapFileName(pid))
	if err != nil {
		return nil, err
	}
	// The disk pads the text with '0' to a whole number of blocks. Every
	// token Format writes is two characters, so whatever follows the last
	// token's two characters is that padding.
	text := string(raw)
	last := strings.LastIndexByte(text, ' ') + 1
	if len(text) > last+2 {
		text = text[:last+2]
	}
	return hexprogram.Parse(text)
}

// WriteSwapFile creates (or overwrites) a process's swap file, for the
// Scheduler's swap-out path.
func (m *Manager) WriteSwapFile(pid int, program []byte) error {
	return m.writeSwapFile(pid, program)
}

// SwapOut copies a RAM-resident process's partition out to its swap
// file and frees the partition (spec.md section 4.6, swap-in/out
// protocol step 1). The caller must not currently be dispatching p.
func (m *Manager) SwapOut(p *pcb.PCB) error {
	base := p.StartingAddress
	limit := m.mem.PartitionSize()
	program := make([]byte, limit)
	for i := 0; i < limit; i++ {
		program[i] = m.mem.ReadByte(base + i)
	}
	if err := m.writeSwapFile(p.ProcessID, program); err != nil {
		return err
	}
	m.mem.ClearProgram(base, limit)
	p.Location = pcb.DSK
	p.StartingAddress = pcb.NoStartingAddress
	m.trace("swapped out process", "pid", p.ProcessID)
	return nil
}

// SwapIn installs a DSK-resident process's swap file into the given
// free RAM partition and deletes the swap file (spec.md section 4.6,
// swap-in/out protocol step 2).
func (m *Manager) SwapIn(p *pcb.PCB, base int) error {
	program, err := m.ReadSwapFile(p.ProcessID)
	if err != nil {
		return err
	}
	limit := m.mem.PartitionSize()
	if err := m.mem.WriteProgram(base, limit, program); err != nil {
		return err
	}
	if err := m.disk.Delete(SwapFileName(p.ProcessID)); err != nil {
		return err
	}
	p.Location = pcb.RAM
	p.StartingAddress = base
	m.trace("swapped in process", "pid", p.ProcessID, "base", base)
	return nil
}

// Memory exposes the backing physical memory, e.g. for the shell's
// "examine" command.
func (m *Manager) Memory() *memory.Memory {
	return m.mem
}
