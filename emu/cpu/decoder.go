package cpu

/*
 * Core War - Instruction decoder.
 *
 * Copyright 2024, Richard Cornwell
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

import (
	"fmt"

	"github.com/rcornwell/corewar/emu/memory"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

// Param is one decoded operand: its resolved type and raw numeric value
// (a register number, a literal, or an indirect displacement).
type Param struct {
	Kind  opcodemap.ParamType
	Value int32
}

// Instruction is a fully decoded instruction: its opcode, operands in wire
// order, and total byte size (opcode + optional PCB + operands).
type Instruction struct {
	Kind     opcodemap.OpType
	Params   [opcodemap.MaxParams]Param
	ByteSize int
}

// InvalidOpCode means the byte at an instruction's address isn't 1..=16.
type InvalidOpCode struct{ Code uint8 }

func (e InvalidOpCode) Error() string {
	return fmt.Sprintf("invalid opcode: 0x%X", e.Code)
}

// InvalidPCB means the operand-type byte was malformed: either its unused
// low bits were non-zero, or an operand's 2-bit code wasn't allowed by the
// opcode's parameter mask.
type InvalidPCB struct{ PCB uint8 }

func (e InvalidPCB) Error() string {
	return fmt.Sprintf("invalid operand-type byte: 0x%X", e.PCB)
}

// InvalidRegNumber means a register operand byte was outside [1,16].
type InvalidRegNumber struct{ Reg uint8 }

func (e InvalidRegNumber) Error() string {
	return fmt.Sprintf("invalid register number: %d", e.Reg)
}

// DecodeOp reads and validates the opcode byte at idx.
func DecodeOp(mem *memory.Memory, idx int) (opcodemap.OpType, error) {
	code := mem.ReadByte(idx)
	op, ok := opcodemap.FromCode(code)
	if !ok {
		return 0, InvalidOpCode{Code: code}
	}
	return op, nil
}

// DecodeInstr decodes the full instruction for op starting at addr (addr
// points at the opcode byte itself). It never mutates memory.
func DecodeInstr(mem *memory.Memory, op opcodemap.OpType, addr int) (Instruction, error) {
	spec := opcodemap.Spec(op)

	var paramTypes [opcodemap.MaxParams]opcodemap.ParamType
	byteSize := 1

	if spec.HasPCB {
		pcb := mem.ReadByte(addr + 1)
		types, err := readPCBParams(pcb, spec)
		if err != nil {
			return Instruction{}, err
		}
		paramTypes = types
		byteSize = 2
	} else {
		paramTypes = paramsFromUnambiguousMasks(spec.ParamMasks)
	}

	var params [opcodemap.MaxParams]Param
	for i := range spec.ParamCount {
		param, size, err := decodeParam(mem, paramTypes[i], addr+byteSize, spec.DirSize)
		if err != nil {
			return Instruction{}, err
		}
		byteSize += size
		params[i] = param
	}

	return Instruction{Kind: op, Params: params, ByteSize: byteSize}, nil
}

func decodeParam(mem *memory.Memory, kind opcodemap.ParamType, addr int, dirSize opcodemap.DirectSize) (Param, int, error) {
	switch kind {
	case opcodemap.Register:
		reg := mem.ReadByte(addr)
		if reg < 1 || reg > opcodemap.RegCount {
			return Param{}, 0, InvalidRegNumber{Reg: reg}
		}
		return Param{Kind: kind, Value: int32(reg)}, 1, nil
	case opcodemap.Direct:
		if dirSize == opcodemap.FourBytes {
			return Param{Kind: kind, Value: mem.ReadI32(addr)}, 4, nil
		}
		return Param{Kind: kind, Value: int32(mem.ReadI16(addr))}, 2, nil
	default: // Indirect
		return Param{Kind: kind, Value: int32(mem.ReadI16(addr))}, 2, nil
	}
}

func paramsFromUnambiguousMasks(masks [opcodemap.MaxParams]uint8) [opcodemap.MaxParams]opcodemap.ParamType {
	var types [opcodemap.MaxParams]opcodemap.ParamType
	for i, mask := range masks {
		switch mask {
		case opcodemap.TReg:
			types[i] = opcodemap.Register
		case opcodemap.TDir:
			types[i] = opcodemap.Direct
		case opcodemap.TInd:
			types[i] = opcodemap.Indirect
		}
	}
	return types
}

// readPCBParams validates and decodes the operand-type byte for an opcode
// with param_count parameters: the unused low bits must be zero, and each
// decoded 2-bit field must be one of the opcode's allowed param types.
func readPCBParams(pcb uint8, spec opcodemap.OpSpec) ([opcodemap.MaxParams]opcodemap.ParamType, error) {
	var types [opcodemap.MaxParams]opcodemap.ParamType

	unusedMask := uint8(0b11_11_11_11) >> uint(spec.ParamCount*2)
	if pcb&unusedMask != 0 {
		return types, InvalidPCB{PCB: pcb}
	}

	for i := range spec.ParamCount {
		bits := (pcb >> (6 - 2*uint(i))) & 0b11
		kind, maskFlag, ok := paramCodeToType(bits)
		if !ok {
			return types, InvalidPCB{PCB: pcb}
		}
		if spec.ParamMasks[i]&maskFlag != maskFlag {
			return types, InvalidPCB{PCB: pcb}
		}
		types[i] = kind
	}

	return types, nil
}

func paramCodeToType(code uint8) (opcodemap.ParamType, uint8, bool) {
	switch code {
	case opcodemap.RegParamCode:
		return opcodemap.Register, opcodemap.TReg, true
	case opcodemap.DirParamCode:
		return opcodemap.Direct, opcodemap.TDir, true
	case opcodemap.IndParamCode:
		return opcodemap.Indirect, opcodemap.TInd, true
	default:
		return 0, 0, false
	}
}
