package assembler

import (
	"fmt"

	"github.com/rcornwell/corewar/emu/header"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

// CompileErrorKind enumerates why a Champion could not be compiled.
type CompileErrorKind int

const (
	ProgramNameTooLong CompileErrorKind = iota
	ProgramCommentTooLong
	MissingLabel
	DuplicateLabel
	ProgramTooLong
)

// CompileError reports why compilation failed.
type CompileError struct {
	Kind  CompileErrorKind
	Label string
	Got   int
	Max   int
}

func (e CompileError) Error() string {
	switch e.Kind {
	case ProgramNameTooLong:
		return fmt.Sprintf("champion name is %d bytes, longer than %d", e.Got, e.Max)
	case ProgramCommentTooLong:
		return fmt.Sprintf("champion comment is %d bytes, longer than %d", e.Got, e.Max)
	case MissingLabel:
		return fmt.Sprintf("undefined label %q", e.Label)
	case DuplicateLabel:
		return fmt.Sprintf("label %q defined more than once", e.Label)
	case ProgramTooLong:
		return fmt.Sprintf("compiled code is %d bytes, longer than %d", e.Got, e.Max)
	default:
		return "compile error"
	}
}

// labelPlaceholder records where a not-yet-resolved label reference was
// written, so its value can be patched once every label position is known.
type labelPlaceholder struct {
	writePos int
	opPos    int
	name     string
	size     int
}

// compileState accumulates a champion's code section as it is emitted,
// resolving forward label references in a second pass.
type compileState struct {
	out            []byte
	labelPositions map[string]int
	labelsToFill   []labelPlaceholder
	currentOpPos   int
}

func newCompileState() *compileState {
	return &compileState{labelPositions: make(map[string]int)}
}

func (s *compileState) registerLabel(name string) error {
	if _, exists := s.labelPositions[name]; exists {
		return CompileError{Kind: DuplicateLabel, Label: name}
	}
	s.labelPositions[name] = len(s.out)
	return nil
}

func (s *compileState) resolveLabels() error {
	for _, ph := range s.labelsToFill {
		pos, ok := s.labelPositions[ph.name]
		if !ok {
			return CompileError{Kind: MissingLabel, Label: ph.name}
		}
		relative := int32(pos - ph.opPos)
		writeNumeric(s.out, ph.writePos, relative, ph.size)
	}
	return nil
}

// writeNumeric truncates n to size bytes (2 or 4) and writes it
// big-endian at out[pos:pos+size].
func writeNumeric(out []byte, pos int, n int32, size int) {
	v := uint32(n)
	switch size {
	case 2:
		out[pos] = byte(v >> 8)
		out[pos+1] = byte(v)
	case 4:
		out[pos] = byte(v >> 24)
		out[pos+1] = byte(v >> 16)
		out[pos+2] = byte(v >> 8)
		out[pos+3] = byte(v)
	}
}

// pcb packs each parameter's 2-bit type code into the operand-type byte,
// at bit positions 6, 4, 2 in parameter order.
func pcb(params []Operand) byte {
	var b byte
	for i, p := range params {
		var code byte
		switch p.Kind {
		case opcodemap.Register:
			code = opcodemap.RegParamCode
		case opcodemap.Direct:
			code = opcodemap.DirParamCode
		case opcodemap.Indirect:
			code = opcodemap.IndParamCode
		}
		b |= code << (6 - 2*uint(i))
	}
	return b
}

func (s *compileState) writeOp(instr Instruction) error {
	s.currentOpPos = len(s.out)
	spec := opcodemap.Spec(instr.Op)

	s.out = append(s.out, spec.Code)
	if spec.HasPCB {
		s.out = append(s.out, pcb(instr.Params))
	}

	for _, p := range instr.Params {
		if err := s.writeParam(p, spec.DirSize); err != nil {
			return err
		}
	}
	return nil
}

func (s *compileState) writeParam(p Operand, dirSize opcodemap.DirectSize) error {
	switch p.Kind {
	case opcodemap.Register:
		s.out = append(s.out, p.Reg)
		return nil
	case opcodemap.Direct:
		return s.writeValue(p, int(dirSize))
	default: // Indirect
		return s.writeValue(p, 2)
	}
}

func (s *compileState) writeValue(p Operand, size int) error {
	writePos := len(s.out)
	s.out = append(s.out, make([]byte, size)...)

	if p.Label == "" {
		writeNumeric(s.out, writePos, p.Value, size)
		return nil
	}
	s.labelsToFill = append(s.labelsToFill, labelPlaceholder{
		writePos: writePos,
		opPos:    s.currentOpPos,
		name:     p.Label,
		size:     size,
	})
	return nil
}

// CompileChampion emits the binary wire-format bytes for champion: a
// fixed-size header followed by its compiled code section, with every
// label reference resolved to a PC-relative offset.
func CompileChampion(champion Champion) ([]byte, error) {
	if len(champion.Name) > opcodemap.ProgNameLength {
		return nil, CompileError{Kind: ProgramNameTooLong, Got: len(champion.Name), Max: opcodemap.ProgNameLength}
	}
	if len(champion.Comment) > opcodemap.ProgCommentLength {
		return nil, CompileError{Kind: ProgramCommentTooLong, Got: len(champion.Comment), Max: opcodemap.ProgCommentLength}
	}

	state := newCompileState()

	for _, instr := range champion.Instructions {
		switch instr.Kind {
		case InstrLabel:
			if err := state.registerLabel(instr.Label); err != nil {
				return nil, err
			}
		case InstrOp:
			if err := state.writeOp(instr.Op); err != nil {
				return nil, err
			}
		case InstrCode:
			state.out = append(state.out, instr.Code...)
		}
	}

	if err := state.resolveLabels(); err != nil {
		return nil, err
	}

	if len(state.out) > opcodemap.ChampMaxSize {
		return nil, CompileError{Kind: ProgramTooLong, Got: len(state.out), Max: opcodemap.ChampMaxSize}
	}

	raw, err := header.Encode(header.Header{
		Name:    champion.Name,
		Comment: champion.Comment,
		Size:    uint32(len(state.out)),
	})
	if err != nil {
		return nil, err
	}

	return append(raw, state.out...), nil
}
