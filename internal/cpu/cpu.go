/*
 * minios62 - Single-accumulator CPU: pipelined decode/execute.
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

// Package cpu implements the single-accumulator CPU and its seven-step
// pipeline (spec.md section 4.5). This implementation takes the
// "reference" option the spec allows: one call to Step runs Fetch
// through InterruptCheck for exactly one instruction, matching the
// Scheduler's one-pulse-per-instruction quantum counting.
package cpu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/minios62/internal/interrupt"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
)

// Step names a pipeline stage (spec.md / design notes section 9: a
// finite enum, not a raw counter).
type Step int

const (
	StepFetch Step = iota
	StepDecode1
	StepDecode2
	StepExecute1
	StepExecute2
	StepWriteBack
	StepInterruptCheck
)

// TrapKind classifies why a Step halted a process involuntarily.
type TrapKind int

const (
	NoTrap TrapKind = iota
	TrapInvalidInstruction
	TrapBoundsViolation
)

// StdOut is the terminal-abstraction collaborator syscalls print to
// (spec.md section 6); the CPU only ever calls PutText.
type StdOut interface {
	PutText(s string)
}

// Result reports what happened during one Step call.
type Result struct {
	Halted  bool
	Trap    TrapKind
	Message string // user-facing trap message, empty unless Trap != NoTrap
}

// CPU is the pipelined single-accumulator processor. One CPU instance is
// shared across processes; the Scheduler rebinds its Accessor and loads
// saved registers on every dispatch.
type CPU struct {
	acc         *memory.Accessor
	stdout      StdOut
	interrupts  *interrupt.Queue
	regs        pcb.Registers
	carry       bool
	pid         int
	isExecuting bool
	step        Step
}

// New creates a CPU bound to the given accessor, output sink, and
// software-interrupt queue.
func New(acc *memory.Accessor, stdout StdOut, interrupts *interrupt.Queue) *CPU {
	return &CPU{acc: acc, stdout: stdout, interrupts: interrupts}
}

// Load installs a process's saved registers and starts it executing.
// The Scheduler must already have called Accessor.Bind for this process
// before calling Load.
func (c *CPU) Load(pid int, regs pcb.Registers) {
	c.pid = pid
	c.regs = regs
	c.carry = false
	c.isExecuting = true
	c.step = StepFetch
}

// Registers returns the CPU's current register file, for the Scheduler
// to snapshot into the PCB.
func (c *CPU) Registers() pcb.Registers {
	return c.regs
}

// IsExecuting reports whether the loaded process is still running.
func (c *CPU) IsExecuting() bool {
	return c.isExecuting
}

// Step runs exactly one instruction: Fetch, Decode1, (Decode2), Execute1,
// (Execute2), (WriteBack), InterruptCheck.
func (c *CPU) Step() Result {
	if !c.isExecuting {
		return Result{Halted: true}
	}

	// Fetch
	opcode := c.acc.ReadImmediate(uint16(c.acc.Base() + int(c.regs.ProgramCounter)))
	c.regs.ProgramCounter++
	c.regs.InstructionRegister = opcode
	c.step = StepDecode1

	op, known := opcodeTable[opcode]
	if !known {
		c.isExecuting = false
		return Result{Halted: true, Trap: TrapInvalidInstruction, Message: invalidInstructionMsg(opcode)}
	}

	operands := op.Operands
	if operands == OperandsFF {
		if c.regs.XRegister == 3 {
			operands = Operands2
		} else {
			operands = Operands0
		}
	}

	switch operands {
	case Operands0:
		// Decode1: skip Decode2 and Execute2, jump straight to Execute1.
	case Operands1:
		if isImmediateLoad(opcode) {
			val := c.fetchOperand()
			switch opcode {
			case 0xA0:
				c.regs.YRegister = val
			case 0xA2:
				c.regs.XRegister = val
			case 0xA9:
				c.regs.Accumulator = val
			}
			c.step = StepInterruptCheck
			c.processInterrupts()
			return Result{Halted: !c.isExecuting}
		}
		// D0: latch low-order (the branch offset) and skip Decode2.
		c.acc.SetLowOrder(c.fetchOperand())
		c.step = StepExecute1
	case Operands2:
		c.step = StepDecode2
		c.acc.SetLowOrder(c.fetchOperand())
		high := c.fetchOperand()
		c.acc.SetHighOrder(high + byte(c.acc.Base()/256))
	}

	c.step = StepExecute1
	trap, msg := c.execute(opcode)
	if trap != NoTrap {
		c.isExecuting = false
		return Result{Halted: true, Trap: trap, Message: msg}
	}

	if opcode == 0x00 {
		c.isExecuting = false
		return Result{Halted: true}
	}

	c.step = StepInterruptCheck
	c.processInterrupts()
	return Result{Halted: !c.isExecuting}
}

// fetchOperand reads the next program byte and advances the logical PC.
func (c *CPU) fetchOperand() byte {
	val := c.acc.ReadImmediate(uint16(c.acc.Base() + int(c.regs.ProgramCounter)))
	c.regs.ProgramCounter++
	return val
}

// execute runs the Execute1/Execute2/WriteBack phases for one opcode.
func (c *CPU) execute(opcode byte) (TrapKind, string) {
	switch opcode {
	case 0x00: // HLT
	case 0x6D: // ADC: Accumulator += mem[MAR], wrap+carry on overflow.
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		sum := int(c.regs.Accumulator) + int(val)
		if sum > 0xFF {
			c.carry = true
			c.regs.Accumulator = byte(sum - 0x100)
		} else {
			c.carry = false
			c.regs.Accumulator = byte(sum)
		}
	case 0x8A: // TXA
		c.regs.Accumulator = c.regs.XRegister
	case 0x8D: // STA
		if err := c.acc.Write(c.regs.Accumulator); err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
	case 0x98: // TYA
		c.regs.Accumulator = c.regs.YRegister
	case 0xA8: // TAY
		c.regs.YRegister = c.regs.Accumulator
	case 0xAA: // TAX
		c.regs.XRegister = c.regs.Accumulator
	case 0xAC: // LDY
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.regs.YRegister = val
	case 0xAD: // LDA
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.regs.Accumulator = val
	case 0xAE: // LDX
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.regs.XRegister = val
	case 0xD0: // BNE: branch if zFlag low bit is 0.
		if c.regs.ZFlag&1 == 0 {
			offset := int8(c.acc.LowOrder())
			c.regs.ProgramCounter = uint16(int(c.regs.ProgramCounter) + int(offset))
		}
	case 0xEA: // NOP
	case 0xEC: // CPX
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		if c.regs.XRegister == val {
			c.regs.ZFlag = 1
		} else {
			c.regs.ZFlag = 0
		}
	case 0xEE: // INC: stage mem[MAR] in Accumulator, bounds-check, write back.
		val, err := c.acc.Read()
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.regs.Accumulator = val
		c.step = StepExecute2
		if c.regs.Accumulator == 0xFF {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.regs.Accumulator++
		c.step = StepWriteBack
		if err := c.acc.Write(c.regs.Accumulator); err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
	case 0xFF: // Syscall
		return c.syscall()
	}
	return NoTrap, ""
}

// syscall dispatches opcode FF on the current X register.
func (c *CPU) syscall() (TrapKind, string) {
	switch c.regs.XRegister {
	case 1:
		c.stdout.PutText(strconv.Itoa(int(c.regs.YRegister)))
	case 2:
		s, err := c.readCString(c.acc.Base() + int(c.regs.YRegister))
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.stdout.PutText(s)
	case 3:
		s, err := c.readCString(int(c.acc.MAR()))
		if err != nil {
			return TrapBoundsViolation, boundsViolationMsg()
		}
		c.stdout.PutText(s)
	}
	return NoTrap, ""
}

func (c *CPU) readCString(start int) (string, error) {
	var b strings.Builder
	for addr := start; ; addr++ {
		v, err := c.acc.ReadAt(addr)
		if err != nil {
			return "", err
		}
		if v == 0 {
			break
		}
		b.WriteByte(v)
	}
	return b.String(), nil
}

// processInterrupts drains the software-interrupt queue. Only a Halt
// interrupt addressed to the currently loaded process is acted on;
// anything else is stale (its process is no longer running) and is
// simply dropped.
func (c *CPU) processInterrupts() {
	for _, it := range c.interrupts.Drain() {
		if it.Kind == interrupt.Halt && it.PID == c.pid {
			c.isExecuting = false
		}
	}
}

func invalidInstructionMsg(opcode byte) string {
	return fmt.Sprintf("ERR: %02X is not a valid instruction. Halting program...", opcode)
}

func boundsViolationMsg() string {
	return "ERR: bounds violation. Halting program..."
}
