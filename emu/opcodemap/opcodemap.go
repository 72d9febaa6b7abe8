/*
   Core War instruction set specification.

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
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package opcodemap holds the Core War instruction set: the fixed table of
// opcodes, their cycle costs, operand counts and allowed operand types, and
// the wire-level arena/header constants every other package builds on.
package opcodemap

// Arena and header sizing, fixed for the life of a VM.
const (
	MemSize    = 4096        // Size of the circular memory arena, in bytes.
	IdxMod     = MemSize / 8 // Short (Limited) reach modulus.
	MaxAge     = 1024        // Age a cell is reset to on write.
	MaxPlayers = 4
	RegCount   = 16
	MaxParams  = 3

	ChampMaxSize = MemSize / 6 // Largest code section a champion may compile to.

	HeaderMagic       = 0x00EA83F3
	ProgNameLength    = 128
	ProgCommentLength = 2048
	HeaderSize        = 4 + ProgNameLength + 1 + 4 + ProgCommentLength + 1

	CheckInterval = 1536
	CycleDelta    = 50
	NbrLive       = 21
	MaxChecks     = 10
)

// Operand type codes, as packed into the operand-type byte.
const (
	RegParamCode = 0b01
	DirParamCode = 0b10
	IndParamCode = 0b11
)

// Operand type mask bits, used in an OpSpec's ParamMasks to say which
// operand kinds an opcode's parameter accepts.
const (
	TReg uint8 = 1 << iota
	TDir
	TInd
)

// ParamType is the decoded kind of an operand once its 2-bit code (or its
// opcode-implied mask) has been resolved.
type ParamType int

const (
	Register ParamType = iota
	Direct
	Indirect
)

func (t ParamType) String() string {
	switch t {
	case Register:
		return "register"
	case Direct:
		return "direct"
	case Indirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// DirectSize is the wire width, in bytes, of a direct operand: most
// opcodes use 4 bytes, the "fast" opcodes (zjmp, fork, ldi family...) use 2.
type DirectSize int

const (
	TwoBytes  DirectSize = 2
	FourBytes DirectSize = 4
)

// OpType enumerates the 16 Core War opcodes. The numeric value is the wire
// opcode byte.
type OpType uint8

const (
	Live OpType = iota + 1
	Ld
	St
	Add
	Sub
	And
	Or
	Xor
	Zjmp
	Ldi
	Sti
	Fork
	Lld
	Lldi
	Lfork
	Aff
)

// OpSpec is the static description of one opcode: its cycle cost, how many
// parameters it takes, what type each parameter may hold, whether an
// operand-type byte precedes the parameters on the wire, and how wide a
// direct operand is for this opcode.
type OpSpec struct {
	Code       uint8
	Mnemonic   string
	Cycles     uint32
	ParamCount int
	ParamMasks [MaxParams]uint8
	HasPCB     bool
	DirSize    DirectSize
}

// specTable is keyed by OpType; index 0 is unused so OpType values (which
// start at 1) index it directly.
var specTable = [Aff + 1]OpSpec{
	Live: {Code: uint8(Live), Mnemonic: "live", Cycles: 10, ParamCount: 1,
		ParamMasks: [MaxParams]uint8{TDir}, HasPCB: false, DirSize: FourBytes},
	Ld: {Code: uint8(Ld), Mnemonic: "ld", Cycles: 5, ParamCount: 2,
		ParamMasks: [MaxParams]uint8{TDir | TInd, TReg}, HasPCB: true, DirSize: FourBytes},
	St: {Code: uint8(St), Mnemonic: "st", Cycles: 5, ParamCount: 2,
		ParamMasks: [MaxParams]uint8{TReg, TReg | TInd}, HasPCB: true, DirSize: FourBytes},
	Add: {Code: uint8(Add), Mnemonic: "add", Cycles: 10, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg, TReg, TReg}, HasPCB: true, DirSize: FourBytes},
	Sub: {Code: uint8(Sub), Mnemonic: "sub", Cycles: 10, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg, TReg, TReg}, HasPCB: true, DirSize: FourBytes},
	And: {Code: uint8(And), Mnemonic: "and", Cycles: 6, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg | TDir | TInd, TReg | TDir | TInd, TReg}, HasPCB: true, DirSize: FourBytes},
	Or: {Code: uint8(Or), Mnemonic: "or", Cycles: 6, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg | TDir | TInd, TReg | TDir | TInd, TReg}, HasPCB: true, DirSize: FourBytes},
	Xor: {Code: uint8(Xor), Mnemonic: "xor", Cycles: 6, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg | TDir | TInd, TReg | TDir | TInd, TReg}, HasPCB: true, DirSize: FourBytes},
	Zjmp: {Code: uint8(Zjmp), Mnemonic: "zjmp", Cycles: 20, ParamCount: 1,
		ParamMasks: [MaxParams]uint8{TDir}, HasPCB: false, DirSize: TwoBytes},
	Ldi: {Code: uint8(Ldi), Mnemonic: "ldi", Cycles: 25, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg | TDir | TInd, TReg | TDir, TReg}, HasPCB: true, DirSize: TwoBytes},
	Sti: {Code: uint8(Sti), Mnemonic: "sti", Cycles: 25, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg, TReg | TDir | TInd, TReg | TDir}, HasPCB: true, DirSize: TwoBytes},
	Fork: {Code: uint8(Fork), Mnemonic: "fork", Cycles: 800, ParamCount: 1,
		ParamMasks: [MaxParams]uint8{TDir}, HasPCB: false, DirSize: TwoBytes},
	Lld: {Code: uint8(Lld), Mnemonic: "lld", Cycles: 10, ParamCount: 2,
		ParamMasks: [MaxParams]uint8{TDir | TInd, TReg}, HasPCB: true, DirSize: FourBytes},
	Lldi: {Code: uint8(Lldi), Mnemonic: "lldi", Cycles: 50, ParamCount: 3,
		ParamMasks: [MaxParams]uint8{TReg | TDir | TInd, TReg | TDir, TReg}, HasPCB: true, DirSize: TwoBytes},
	Lfork: {Code: uint8(Lfork), Mnemonic: "lfork", Cycles: 1000, ParamCount: 1,
		ParamMasks: [MaxParams]uint8{TDir}, HasPCB: false, DirSize: TwoBytes},
	Aff: {Code: uint8(Aff), Mnemonic: "aff", Cycles: 2, ParamCount: 1,
		ParamMasks: [MaxParams]uint8{TReg}, HasPCB: true, DirSize: FourBytes},
}

// mnemonicTable maps a source mnemonic back to its OpType, built once from
// specTable so the two stay in sync.
var mnemonicTable = func() map[string]OpType {
	m := make(map[string]OpType, len(specTable)-1)
	for op := Live; op <= Aff; op++ {
		m[specTable[op].Mnemonic] = op
	}
	return m
}()

// Spec returns the static specification for op.
func Spec(op OpType) OpSpec {
	return specTable[op]
}

// FromCode maps a wire opcode byte to an OpType. ok is false for any byte
// outside 1..=16.
func FromCode(code uint8) (op OpType, ok bool) {
	if code < uint8(Live) || code > uint8(Aff) {
		return 0, false
	}
	return OpType(code), true
}

// FromMnemonic maps a source mnemonic (already lower-cased) to an OpType.
func FromMnemonic(mnemonic string) (op OpType, ok bool) {
	op, ok = mnemonicTable[mnemonic]
	return op, ok
}
