/*
	   Core War disassembler.

		Copyright (c) 2024, Richard Cornwell

		Permission is hereby granted, free of charge, to any person obtaining a
		copy of this software and associated documentation files (the "Software"),
		to deal in the Software without restriction, including without limitation
		the rights to use, copy, modify, merge, publish, distribute, sublicense,
		and/or sell copies of the Software, and to permit persons to whom the
		Software is furnished to do so, subject to the following conditions:

		The above copyright notice and this permission notice shall be included in
		all copies or substantial portions of the Software.

		THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
		IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
		FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
		RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
		IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
		CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package disassembler renders a decoded instruction back into the
// mnemonic text an observer console or dump command would print.
package disassembler

import (
	"fmt"

	"github.com/rcornwell/corewar/emu/cpu"
	"github.com/rcornwell/corewar/emu/memory"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

// Disassemble decodes and formats the instruction at addr. It never
// returns an error: an invalid opcode, operand-type byte or register
// number falls back to a raw hex rendering of the single byte at addr, the
// same way a disassembler must handle data that only looks like code. The
// returned int is the number of bytes the instruction occupies, or 1 for
// the fallback.
func Disassemble(mem *memory.Memory, addr int) (string, int) {
	op, err := cpu.DecodeOp(mem, addr)
	if err != nil {
		return undefined(mem, addr)
	}

	instr, err := cpu.DecodeInstr(mem, op, addr)
	if err != nil {
		return undefined(mem, addr)
	}

	spec := opcodemap.Spec(op)
	text := spec.Mnemonic + "        "
	text = text[:8]

	for i := 0; i < spec.ParamCount; i++ {
		if i > 0 {
			text += ", "
		}
		text += formatParam(instr.Params[i])
	}

	return text, instr.ByteSize
}

func formatParam(p cpu.Param) string {
	switch p.Kind {
	case opcodemap.Register:
		return fmt.Sprintf("r%d", p.Value)
	case opcodemap.Direct:
		return fmt.Sprintf("%%%d", p.Value)
	default: // Indirect
		return fmt.Sprintf("%d", p.Value)
	}
}

// undefined formats a cell that doesn't decode as a valid instruction, in
// the style a hex dump would: a "??" placeholder padded to the mnemonic
// column, then the raw byte at addr. Only that one byte is consumed.
func undefined(mem *memory.Memory, addr int) (string, int) {
	return fmt.Sprintf("??      0x%02x", mem.ReadByte(addr)), 1
}
