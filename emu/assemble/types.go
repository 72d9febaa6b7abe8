package assembler

import "github.com/rcornwell/corewar/emu/opcodemap"

// Operand is one parsed parameter of an instruction: a register number,
// or a direct/indirect value that is either a numeric literal or a
// reference to a label resolved later by the compiler. Pos is the source
// byte offset of the operand's own token, for error reporting against the
// operand rather than the instruction's mnemonic.
type Operand struct {
	Kind  opcodemap.ParamType
	Reg   uint8
	Label string
	Value int32
	Pos   int
}

func regOperand(r uint8, pos int) Operand {
	return Operand{Kind: opcodemap.Register, Reg: r, Pos: pos}
}

func numericOperand(kind opcodemap.ParamType, v int32, pos int) Operand {
	return Operand{Kind: kind, Value: v, Pos: pos}
}

func labelOperand(kind opcodemap.ParamType, label string, pos int) Operand {
	return Operand{Kind: kind, Label: label, Pos: pos}
}

// Instruction is a fully parsed, not-yet-compiled operation and its
// parameters. Pos is the source byte offset of the mnemonic, for error
// reporting.
type Instruction struct {
	Op     opcodemap.OpType
	Params []Operand
	Pos    int
}

// LineKind tags which variant of ParsedLine is populated.
type LineKind int

const (
	LineLabel LineKind = iota
	LineInstr
	LineChampionName
	LineChampionComment
	LineCode
)

// ParsedLine is one assembled source line: a label declaration, an
// instruction, a .name/.comment directive, or raw .code bytes.
type ParsedLine struct {
	Kind  LineKind
	Label string
	Instr Instruction
	Text  string
	Code  []byte
}
