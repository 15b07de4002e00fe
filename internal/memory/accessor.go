/*
 * minios62 - Memory accessor: logical/physical translation and MAR.
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

package memory

import "errors"

// ErrBoundsViolation is returned when an access falls outside the
// running process's partition window.
var ErrBoundsViolation = errors.New("memory access outside partition bounds")

// Accessor translates the running process's logical accesses to
// physical ones and holds the operand-address register (MAR) the CPU's
// decode stage assembles. One Accessor is bound to whichever process is
// RUNNING; the Scheduler rebinds it on every context switch.
type Accessor struct {
	mem *Memory

	startingAddress int // physical base of the running process
	limit           int // partition size, i.e. the bound on logical addresses

	lowOrder  byte
	highOrder byte // latched already offset by startingAddress/256 (see SetHighOrder)
}

// NewAccessor builds an Accessor over the given physical memory.
func NewAccessor(mem *Memory) *Accessor {
	return &Accessor{mem: mem}
}

// Bind points the accessor at the partition of the process about to run.
func (a *Accessor) Bind(startingAddress, limit int) {
	a.startingAddress = startingAddress
	a.limit = limit
	a.lowOrder = 0
	a.highOrder = 0
}

// ReadImmediate reads a byte at a physical address with no relocation,
// used for fetching opcodes and operands (the PC is already relocated by
// the CPU before calling in).
func (a *Accessor) ReadImmediate(physicalAddr uint16) byte {
	return a.mem.ReadByte(int(physicalAddr))
}

// SetLowOrder latches the low byte of the operand address register.
func (a *Accessor) SetLowOrder(b byte) {
	a.lowOrder = b
}

// SetHighOrder latches the high byte of the operand address register.
// Callers pass the high byte already offset by startingAddress/256, so
// the assembled MAR is a physical address.
func (a *Accessor) SetHighOrder(b byte) {
	a.highOrder = b
}

// mar assembles the 16-bit operand address register from its two halves.
func (a *Accessor) mar() uint16 {
	return uint16(a.highOrder)<<8 | uint16(a.lowOrder)
}

// LowOrder returns the latched low byte of the operand address
// register, used directly as a branch offset by opcode D0.
func (a *Accessor) LowOrder() byte {
	return a.lowOrder
}

// MAR exposes the assembled operand address register for tracing.
func (a *Accessor) MAR() uint16 {
	return a.mar()
}

// inBounds reports whether a physical address falls within the running
// process's partition window.
func (a *Accessor) inBounds(physicalAddr int) bool {
	return physicalAddr >= a.startingAddress && physicalAddr < a.startingAddress+a.limit
}

// ReadAt reads an arbitrary physical address within the running
// process's partition, bounds-checked like Read but independent of the
// operand address register. Used by syscalls that walk a NUL-terminated
// string starting at a computed address.
func (a *Accessor) ReadAt(physicalAddr int) (byte, error) {
	if !a.inBounds(physicalAddr) {
		return 0, ErrBoundsViolation
	}
	return a.mem.ReadByte(physicalAddr), nil
}

// Base returns the physical base address (startingAddress) of the
// process currently bound to this accessor.
func (a *Accessor) Base() int {
	return a.startingAddress
}

// Read returns the byte at the operand address register, trapping if it
// falls outside the running process's partition.
func (a *Accessor) Read() (byte, error) {
	addr := int(a.mar())
	if !a.inBounds(addr) {
		return 0, ErrBoundsViolation
	}
	return a.mem.ReadByte(addr), nil
}

// Write stores value at the operand address register, trapping if it
// falls outside the running process's partition.
func (a *Accessor) Write(value byte) error {
	addr := int(a.mar())
	if !a.inBounds(addr) {
		return ErrBoundsViolation
	}
	a.mem.bytes[addr] = value
	return nil
}

// WriteProgram installs a program image into the bound partition.
func (a *Accessor) WriteProgram(program []byte) error {
	return a.mem.WriteProgram(a.startingAddress, a.limit, program)
}

// ClearProgram zeroes the bound partition.
func (a *Accessor) ClearProgram() {
	a.mem.ClearProgram(a.startingAddress, a.limit)
}
