/*
 * minios62 - Process Control Block.
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

// Package pcb implements the saved-state-plus-metadata record the
// Scheduler dispatches and the Memory Manager allocates: one Process
// Control Block per registered process.
package pcb

// Location is where a process's program image currently lives.
type Location int

const (
	RAM Location = iota
	DSK
)

func (l Location) String() string {
	if l == DSK {
		return "DSK"
	}
	return "RAM"
}

// State is a PCB's lifecycle state.
type State int

const (
	Resident State = iota
	Ready
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Resident:
		return "RESIDENT"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// DefaultPriority is used when load does not specify one.
const DefaultPriority = 32

// NoStartingAddress is the sentinel for a disk-resident process.
const NoStartingAddress = -1

// Registers is the CPU's saved state, copied to and from a PCB across
// context switches.
type Registers struct {
	ProgramCounter      uint16
	InstructionRegister byte
	Accumulator         byte
	XRegister           byte
	YRegister           byte
	ZFlag               byte // only the low bit is meaningful
}

// PCB is one process's control block.
type PCB struct {
	ProcessID       int
	StartingAddress int
	Location        Location
	State           State
	Registers       Registers
	Priority        uint
	QuantumUsed     int

	// LastDispatched is scheduler-internal bookkeeping (not part of
	// spec.md's PCB attribute list, same status as QuantumUsed) used to
	// pick an LRU swap-out victim.
	LastDispatched uint64
}

// New creates a PCB in state Resident for a freshly allocated process.
func New(processID int, startingAddress int, location Location, priority uint) *PCB {
	return &PCB{
		ProcessID:       processID,
		StartingAddress: startingAddress,
		Location:        location,
		State:           Resident,
		Priority:        priority,
	}
}

// Snapshot copies CPU registers into the PCB, e.g. on preemption or halt.
func (p *PCB) Snapshot(regs Registers) {
	p.Registers = regs
}

// Restore returns the saved registers for loading into the CPU on dispatch.
func (p *PCB) Restore() Registers {
	return p.Registers
}

// SetState transitions the PCB. Transitions are only ever performed by
// the Scheduler and the CPU's halt path.
func (p *PCB) SetState(newState State) {
	p.State = newState
}
