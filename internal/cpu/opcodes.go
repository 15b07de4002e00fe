/*
 * minios62 - Opcode table: a tagged sum indexed by opcode byte.
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

package cpu

// Operands is the operand-byte count an opcode consumes during decode.
// OperandsFF is a sentinel: the real count for opcode FF is resolved at
// decode time from the current X register (spec.md section 4.5).
type Operands int

const (
	Operands0 Operands = iota
	Operands1
	Operands2
	OperandsFF
)

// Opcode names one ISA entry: its mnemonic (for tracing) and how many
// operand bytes follow it in the program image.
type Opcode struct {
	Mnemonic string
	Operands Operands
}

// Opcodes indexed by opcode byte is the entire ISA (spec.md section 4.5).
// Unknown bytes are simply absent from this map, so an unknown opcode is
// a distinct, checkable case rather than a silently-wrong default.
var opcodeTable = map[byte]Opcode{
	0x00: {"HLT", Operands0},
	0x6D: {"ADC", Operands2},
	0x8A: {"TXA", Operands0},
	0x8D: {"STA", Operands2},
	0x98: {"TYA", Operands0},
	0xA0: {"LDY#", Operands1},
	0xA2: {"LDX#", Operands1},
	0xA8: {"TAY", Operands0},
	0xA9: {"LDA#", Operands1},
	0xAA: {"TAX", Operands0},
	0xAC: {"LDY", Operands2},
	0xAD: {"LDA", Operands2},
	0xAE: {"LDX", Operands2},
	0xD0: {"BNE", Operands1},
	0xEA: {"NOP", Operands0},
	0xEC: {"CPX", Operands2},
	0xEE: {"INC", Operands2},
	0xFF: {"SYS", OperandsFF},
}

// isImmediateLoad reports whether opcode loads a register directly from
// its single operand byte, bypassing the Execute phases entirely.
func isImmediateLoad(opcode byte) bool {
	switch opcode {
	case 0xA0, 0xA2, 0xA9:
		return true
	default:
		return false
	}
}
