/*
	   Core War assembler lexer.

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
package assembler

import (
	"fmt"
	"unicode/utf8"
)

// Term names the kind of a lexed token.
type Term int

const (
	ChampionNameCmd Term = iota
	ChampionCommentCmd
	CodeCmd
	QuotedString
	Comment
	LabelDef
	LabelUse
	ParamSeparator
	DirectChar
	Number
	Ident
)

func (t Term) String() string {
	switch t {
	case ChampionNameCmd:
		return "name directive"
	case ChampionCommentCmd:
		return "comment directive"
	case CodeCmd:
		return "code directive"
	case QuotedString:
		return "quoted string"
	case Comment:
		return "comment"
	case LabelDef:
		return "label declaration"
	case LabelUse:
		return "label reference"
	case ParamSeparator:
		return "parameter separator"
	case DirectChar:
		return "direct character"
	case Number:
		return "number"
	case Ident:
		return "identifier"
	default:
		return "unknown token"
	}
}

// NumberBase distinguishes a decimal literal from a 0x-prefixed hex one.
type NumberBase int

const (
	Decimal NumberBase = iota
	Hexadecimal
)

func (b NumberBase) radix() int {
	if b == Hexadecimal {
		return 16
	}
	return 10
}

// Token is one lexed unit: its kind, source byte range [Start, End), and
// (only meaningful for Number tokens) its base.
type Token struct {
	Term  Term
	Start int
	End   int
	Base  NumberBase
}

// Text returns the token's source slice out of input.
func (t Token) Text(input string) string {
	return input[t.Start:t.End]
}

// LexErrorKind enumerates why the lexer could not produce a token.
type LexErrorKind int

const (
	NoMatch LexErrorKind = iota
	InvalidDirective
	UnclosedQuotedString
	NoNumberAfterMinus
	EmptyLabel
)

func (k LexErrorKind) String() string {
	switch k {
	case NoMatch:
		return "no token matched"
	case InvalidDirective:
		return "unknown directive"
	case UnclosedQuotedString:
		return "missing end quote for string"
	case NoNumberAfterMinus:
		return "missing number after minus sign"
	case EmptyLabel:
		return "missing label name"
	default:
		return "lexer error"
	}
}

// LexError is a lexing failure at a specific source byte range.
type LexError struct {
	Kind  LexErrorKind
	Start int
	End   int
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s at [%d..%d)", e.Kind, e.Start, e.End)
}

const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"

func isIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func isDigit(r rune, radix int) bool {
	switch {
	case r >= '0' && r <= '9':
		return int(r-'0') < radix
	case radix == 16 && r >= 'a' && r <= 'f':
		return true
	case radix == 16 && r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}

// Tokenizer scans assembler source one token at a time. Call Next
// repeatedly; ok is false once the input is exhausted.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer returns a tokenizer over input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

func (t *Tokenizer) peek() (rune, int, bool) {
	if t.pos >= len(t.input) {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	return r, size, true
}

func (t *Tokenizer) advance() {
	if _, size, ok := t.peek(); ok {
		t.pos += size
	}
}

func (t *Tokenizer) skipWhile(pred func(rune) bool) {
	for {
		r, _, ok := t.peek()
		if !ok || !pred(r) {
			return
		}
		t.advance()
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

// Next returns the next token. ok is false when the input is exhausted
// (no error, nothing left to scan); otherwise err is non-nil on a lex
// failure and nil with a valid tok on success.
func (t *Tokenizer) Next() (tok Token, err error, ok bool) {
	t.skipWhile(isSpace)

	r, _, hasNext := t.peek()
	if !hasNext {
		return Token{}, nil, false
	}

	start := t.pos

	switch {
	case r == ':':
		tok, err = t.lexLabelUse(start)
	case r == ',':
		t.advance()
		tok = Token{Term: ParamSeparator, Start: start, End: t.pos}
	case r == '%':
		t.advance()
		tok = Token{Term: DirectChar, Start: start, End: t.pos}
	case r == '.':
		tok, err = t.lexDirective(start)
	case r == '"':
		tok, err = t.lexQuotedString(start)
	case r == '#':
		t.skipWhile(func(rune) bool { return true })
		tok = Token{Term: Comment, Start: start, End: len(t.input)}
	case r == '-':
		tok, err = t.lexNegativeNumber(start)
	case isDigit(r, 10):
		tok, err = t.lexNumber(start)
	case isIdentChar(r):
		tok = t.lexIdent(start)
	default:
		t.advance()
		err = LexError{Kind: NoMatch, Start: start, End: start + 1}
	}

	return tok, err, true
}

func (t *Tokenizer) lexLabelUse(start int) (Token, error) {
	t.advance() // consume ':'
	r, _, ok := t.peek()
	if !ok || !isIdentChar(r) {
		return Token{}, LexError{Kind: EmptyLabel, Start: start, End: start + 1}
	}
	t.skipWhile(isIdentChar)
	return Token{Term: LabelUse, Start: start, End: t.pos}, nil
}

var directives = []struct {
	text string
	term Term
}{
	{".name", ChampionNameCmd},
	{".comment", ChampionCommentCmd},
	{".code", CodeCmd},
}

func (t *Tokenizer) lexDirective(start int) (Token, error) {
	rest := t.input[start:]

	for _, d := range directives {
		if len(rest) < len(d.text) || rest[:len(d.text)] != d.text {
			continue
		}
		end := start + len(d.text)
		if end == len(t.input) {
			t.pos = end
			return Token{Term: d.term, Start: start, End: end}, nil
		}
		r, size := utf8.DecodeRuneInString(t.input[end:])
		if isSpace(r) {
			t.pos = end
			return Token{Term: d.term, Start: start, End: end}, nil
		}
		t.pos = end + size
		return Token{}, LexError{Kind: InvalidDirective, Start: start, End: end}
	}

	t.skipWhile(func(r rune) bool { return !isSpace(r) })
	return Token{}, LexError{Kind: InvalidDirective, Start: start, End: t.pos}
}

func (t *Tokenizer) lexQuotedString(start int) (Token, error) {
	t.advance() // skip opening quote
	contentStart := t.pos
	t.skipWhile(func(r rune) bool { return r != '"' })

	_, _, ok := t.peek()
	if !ok {
		return Token{}, LexError{Kind: UnclosedQuotedString, Start: start, End: t.pos}
	}
	contentEnd := t.pos
	t.advance() // skip closing quote
	return Token{Term: QuotedString, Start: contentStart, End: contentEnd}, nil
}

func (t *Tokenizer) lexNegativeNumber(start int) (Token, error) {
	t.advance() // consume '-'
	r, _, ok := t.peek()
	if !ok || !isDigit(r, 10) {
		return Token{}, LexError{Kind: NoNumberAfterMinus, Start: start, End: start + 1}
	}
	return t.lexNumberFrom(start)
}

func (t *Tokenizer) lexNumber(start int) (Token, error) {
	return t.lexNumberFrom(start)
}

func (t *Tokenizer) lexNumberFrom(start int) (Token, error) {
	// Advance past the sign, if this is a negative literal.
	if t.input[t.pos] == '-' {
		t.advance()
	}

	firstDigitPos := t.pos
	t.advance() // consume first digit

	base := Decimal
	if t.input[firstDigitPos] == '0' {
		if r, size, ok := t.peek(); ok {
			switch r {
			case 'x':
				base = Hexadecimal
				t.pos += size
			case 'd':
				base = Decimal
				t.pos += size
			}
		}
	}

	t.skipWhile(func(r rune) bool { return isDigit(r, base.radix()) })
	return Token{Term: Number, Start: start, End: t.pos, Base: base}, nil
}

func (t *Tokenizer) lexIdent(start int) Token {
	t.skipWhile(isIdentChar)

	if r, size, ok := t.peek(); ok && r == ':' {
		t.pos += size
		return Token{Term: LabelDef, Start: start, End: t.pos}
	}
	return Token{Term: Ident, Start: start, End: t.pos}
}
