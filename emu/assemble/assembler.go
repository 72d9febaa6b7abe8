/*
	   Core War champion assembler.

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

// Package assembler turns Core War champion source into the compiled
// binary a VM can load: a lexer and parser produce one ParsedLine per
// source line, a ChampionBuilder accumulates those into a Champion, and
// the compiler emits the wire-format bytes with label back-patching.
package assembler

import (
	"fmt"
	"strings"
)

// InstrKind tags which field of a ParsedInstruction is populated.
type InstrKind int

const (
	InstrLabel InstrKind = iota
	InstrOp
	InstrCode
)

// ParsedInstruction is one instruction-stream entry: a label declaration,
// an operation, or a run of raw .code bytes.
type ParsedInstruction struct {
	Kind  InstrKind
	Label string
	Op    Instruction
	Code  []byte
}

// Champion is a fully parsed, not-yet-compiled program.
type Champion struct {
	Name         string
	Comment      string
	Instructions []ParsedInstruction
}

// AssembleErrorKind enumerates why a champion could not be built.
type AssembleErrorKind int

const (
	NameAlreadySet AssembleErrorKind = iota
	CommentAlreadySet
	MissingName
	MissingComment
)

// AssembleError reports a structural problem with a champion's directives.
type AssembleError struct {
	Kind AssembleErrorKind
	Line int
}

func (e AssembleError) Error() string {
	switch e.Kind {
	case NameAlreadySet:
		return fmt.Sprintf("line %d: .name already set", e.Line)
	case CommentAlreadySet:
		return fmt.Sprintf("line %d: .comment already set", e.Line)
	case MissingName:
		return "champion is missing a .name directive"
	case MissingComment:
		return "champion is missing a .comment directive"
	default:
		return "assemble error"
	}
}

// ChampionBuilder accumulates parsed lines into a Champion, rejecting a
// second .name or .comment directive.
type ChampionBuilder struct {
	name         *string
	comment      *string
	instructions []ParsedInstruction
}

// NewChampionBuilder returns an empty builder.
func NewChampionBuilder() *ChampionBuilder {
	return &ChampionBuilder{}
}

func (b *ChampionBuilder) withName(name string, line int) error {
	if b.name != nil {
		return AssembleError{Kind: NameAlreadySet, Line: line}
	}
	b.name = &name
	return nil
}

func (b *ChampionBuilder) withComment(comment string, line int) error {
	if b.comment != nil {
		return AssembleError{Kind: CommentAlreadySet, Line: line}
	}
	b.comment = &comment
	return nil
}

func (b *ChampionBuilder) addInstr(pi ParsedInstruction) {
	b.instructions = append(b.instructions, pi)
}

// finish validates that both directives were seen and returns the
// assembled Champion.
func (b *ChampionBuilder) finish() (Champion, error) {
	if b.name == nil {
		return Champion{}, AssembleError{Kind: MissingName}
	}
	if b.comment == nil {
		return Champion{}, AssembleError{Kind: MissingComment}
	}
	return Champion{Name: *b.name, Comment: *b.comment, Instructions: b.instructions}, nil
}

// parseSource runs the lexer and parser over every line of src and folds
// the result into a ChampionBuilder. A parse or structural error is
// annotated with its 1-based source line number.
func parseSource(src string) (*ChampionBuilder, error) {
	builder := NewChampionBuilder()

	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1

		parsed, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if parsed == nil {
			continue
		}

		switch parsed.Kind {
		case LineChampionName:
			if err := builder.withName(parsed.Text, lineNo); err != nil {
				return nil, err
			}
		case LineChampionComment:
			if err := builder.withComment(parsed.Text, lineNo); err != nil {
				return nil, err
			}
		case LineCode:
			builder.addInstr(ParsedInstruction{Kind: InstrCode, Code: parsed.Code})
		case LineLabel:
			builder.addInstr(ParsedInstruction{Kind: InstrLabel, Label: parsed.Label})
		case LineInstr:
			if parsed.Label != "" {
				builder.addInstr(ParsedInstruction{Kind: InstrLabel, Label: parsed.Label})
			}
			builder.addInstr(ParsedInstruction{Kind: InstrOp, Op: parsed.Instr})
		}
	}

	return builder, nil
}

// Assemble runs the full pipeline - lex, parse, build, compile - over
// champion source text and returns the binary wire-format champion ready
// to load into a VM.
func Assemble(src string) ([]byte, error) {
	builder, err := parseSource(src)
	if err != nil {
		return nil, err
	}
	champion, err := builder.finish()
	if err != nil {
		return nil, err
	}
	return CompileChampion(champion)
}
