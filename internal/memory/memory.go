/*
 * minios62 - Physical memory and partition table.
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

// Package memory implements the physical byte array and the fixed-size
// partition table it is divided into. It knows nothing about processes
// or logical addressing; that is the Accessor's job.
package memory

import "errors"

// ErrProgramTooLarge is returned when a program image does not fit a partition.
var ErrProgramTooLarge = errors.New("program too large for partition")

// Canonical defaults (spec.md section 3).
const (
	DefaultPartitionSize  = 256
	DefaultPartitionCount = 3
)

// Memory is the physical byte array shared by every partition.
type Memory struct {
	bytes          []byte
	partitionSize  int
	partitionCount int
}

// New allocates a zeroed memory of partitionCount partitions, each
// partitionSize bytes.
func New(partitionSize, partitionCount int) *Memory {
	return &Memory{
		bytes:          make([]byte, partitionSize*partitionCount),
		partitionSize:  partitionSize,
		partitionCount: partitionCount,
	}
}

// Size returns the total byte count of memory.
func (m *Memory) Size() int {
	return len(m.bytes)
}

// PartitionSize returns the limit register value (bytes per partition).
func (m *Memory) PartitionSize() int {
	return m.partitionSize
}

// PartitionCount returns the number of partitions.
func (m *Memory) PartitionCount() int {
	return m.partitionCount
}

// PartitionBase returns the physical base address of partition i.
func (m *Memory) PartitionBase(i int) int {
	return i * m.partitionSize
}

// ReadByte reads a single byte at a physical address with no relocation
// or bounds checking against any process's window. Used for the
// advisory free-partition scan and for trace/dump tooling.
func (m *Memory) ReadByte(physicalAddr int) byte {
	return m.bytes[physicalAddr]
}

// WriteProgram installs a program image at [base, base+limit), zero
// filling the tail. Fails with ErrProgramTooLarge if the image overflows
// the partition.
func (m *Memory) WriteProgram(base, limit int, program []byte) error {
	if len(program) > limit {
		return ErrProgramTooLarge
	}
	window := m.bytes[base : base+limit]
	n := copy(window, program)
	for i := n; i < limit; i++ {
		window[i] = 0x00
	}
	return nil
}

// ClearProgram zeroes [base, base+limit).
func (m *Memory) ClearProgram(base, limit int) {
	window := m.bytes[base : base+limit]
	for i := range window {
		window[i] = 0x00
	}
}
