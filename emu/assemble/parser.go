package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

// ParseErrorKind enumerates why a line failed to parse.
type ParseErrorKind int

const (
	RemainingInput ParseErrorKind = iota
	LexerErrorKind
	Unexpected
	ExpectedButGot
	ExpectedButGotEof
	ExpectedOneOf
	InvalidRegisterCount
	InvalidRegisterPrefix
	MissingRegisterPrefix
	ParseIntErrorKind
	InvalidOpMnemonic
)

// ParseError is a parse failure at a specific source byte offset.
type ParseError struct {
	Kind      ParseErrorKind
	Pos       int
	Want      Term
	WantOneOf []Term
	Got       Term
	Text      string
	Cause     error
}

func (e ParseError) Error() string {
	switch e.Kind {
	case RemainingInput:
		return fmt.Sprintf("unparsed input remaining at %d: %q", e.Pos, e.Text)
	case LexerErrorKind:
		return fmt.Sprintf("lex error: %v", e.Cause)
	case Unexpected:
		return fmt.Sprintf("unexpected %s at %d", e.Got, e.Pos)
	case ExpectedButGot:
		return fmt.Sprintf("expected %s but got %s at %d", e.Want, e.Got, e.Pos)
	case ExpectedButGotEof:
		return fmt.Sprintf("expected %s but reached end of line", e.Want)
	case ExpectedOneOf:
		return fmt.Sprintf("expected one of %v but got %s at %d", e.WantOneOf, e.Got, e.Pos)
	case InvalidRegisterCount:
		return fmt.Sprintf("register number %q out of range 1..%d at %d", e.Text, opcodemap.RegCount, e.Pos)
	case InvalidRegisterPrefix:
		return fmt.Sprintf("register %q must start with 'r' at %d", e.Text, e.Pos)
	case MissingRegisterPrefix:
		return fmt.Sprintf("%q is not a register reference at %d", e.Text, e.Pos)
	case ParseIntErrorKind:
		return fmt.Sprintf("invalid integer %q at %d: %v", e.Text, e.Pos, e.Cause)
	case InvalidOpMnemonic:
		return fmt.Sprintf("unknown mnemonic %q at %d", e.Text, e.Pos)
	default:
		return "parse error"
	}
}

// tokenStream is a buffered, rewindable view over one line's tokens, with
// comment tokens already discarded.
type tokenStream struct {
	input  string
	tokens []Token
	pos    int
}

func tokenize(line string) (*tokenStream, error) {
	tz := NewTokenizer(line)
	stream := &tokenStream{input: line}

	for {
		tok, err, ok := tz.Next()
		if !ok {
			break
		}
		if err != nil {
			lerr := err.(LexError)
			return nil, ParseError{Kind: LexerErrorKind, Pos: lerr.Start, Cause: lerr}
		}
		if tok.Term == Comment {
			continue
		}
		stream.tokens = append(stream.tokens, tok)
	}
	return stream, nil
}

func (s *tokenStream) atEnd() bool {
	return s.pos >= len(s.tokens)
}

func (s *tokenStream) peek() (Token, bool) {
	if s.atEnd() {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

// next consumes and returns the next token if it has the given term.
func (s *tokenStream) next(term Term) (Token, error) {
	tok, ok := s.peek()
	if !ok {
		return Token{}, ParseError{Kind: ExpectedButGotEof, Want: term}
	}
	if tok.Term != term {
		return Token{}, ParseError{Kind: ExpectedButGot, Want: term, Got: tok.Term, Pos: tok.Start}
	}
	s.pos++
	return tok, nil
}

func (s *tokenStream) endOfLine() error {
	if !s.atEnd() {
		tok := s.tokens[s.pos]
		return ParseError{Kind: RemainingInput, Pos: tok.Start, Text: s.input[tok.Start:]}
	}
	return nil
}

// ParseLine parses a single line of champion source. It returns (nil, nil)
// for a blank or comment-only line.
func ParseLine(line string) (*ParsedLine, error) {
	stream, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if stream.atEnd() {
		return nil, nil
	}

	first, _ := stream.peek()

	switch first.Term {
	case ChampionNameCmd:
		stream.pos++
		text, err := stream.next(QuotedString)
		if err != nil {
			return nil, err
		}
		if err := stream.endOfLine(); err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineChampionName, Text: text.Text(stream.input)}, nil

	case ChampionCommentCmd:
		stream.pos++
		text, err := stream.next(QuotedString)
		if err != nil {
			return nil, err
		}
		if err := stream.endOfLine(); err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineChampionComment, Text: text.Text(stream.input)}, nil

	case CodeCmd:
		stream.pos++
		code, err := parseCodeBytes(stream)
		if err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineCode, Code: code}, nil

	case LabelDef:
		stream.pos++
		label := strings.TrimSuffix(first.Text(stream.input), ":")
		if stream.atEnd() {
			return &ParsedLine{Kind: LineLabel, Label: label}, nil
		}
		instr, err := parseInstruction(stream)
		if err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineInstr, Label: label, Instr: instr}, nil

	case Ident:
		instr, err := parseInstruction(stream)
		if err != nil {
			return nil, err
		}
		return &ParsedLine{Kind: LineInstr, Instr: instr}, nil

	default:
		return nil, ParseError{Kind: Unexpected, Got: first.Term, Pos: first.Start}
	}
}

func parseCodeBytes(stream *tokenStream) ([]byte, error) {
	var out []byte
	for {
		tok, err := stream.next(Number)
		if err != nil {
			return nil, err
		}
		n, err := parseNumberToken(stream.input, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(n))

		if _, ok := stream.peek(); !ok {
			return out, nil
		}
		if _, err := stream.next(ParamSeparator); err != nil {
			return nil, err
		}
	}
}

func parseInstruction(stream *tokenStream) (Instruction, error) {
	mnemTok, err := stream.next(Ident)
	if err != nil {
		return Instruction{}, err
	}
	mnemonic := strings.ToLower(mnemTok.Text(stream.input))
	op, ok := opcodemap.FromMnemonic(mnemonic)
	if !ok {
		return Instruction{}, ParseError{Kind: InvalidOpMnemonic, Text: mnemonic, Pos: mnemTok.Start}
	}

	spec := opcodemap.Spec(op)
	params := make([]Operand, 0, spec.ParamCount)

	for i := 0; i < spec.ParamCount; i++ {
		if i > 0 {
			if _, err := stream.next(ParamSeparator); err != nil {
				return Instruction{}, err
			}
		}
		operand, err := parseOperand(stream)
		if err != nil {
			return Instruction{}, err
		}
		if !maskAllows(spec.ParamMasks[i], operand.Kind) {
			return Instruction{}, ParseError{
				Kind:      ExpectedOneOf,
				WantOneOf: allowedKindTerms(spec.ParamMasks[i]),
				Got:       kindToTerm(operand.Kind),
				Pos:       operand.Pos,
			}
		}
		params = append(params, operand)
	}

	if err := stream.endOfLine(); err != nil {
		return Instruction{}, err
	}

	return Instruction{Op: op, Params: params, Pos: mnemTok.Start}, nil
}

func maskAllows(mask uint8, kind opcodemap.ParamType) bool {
	switch kind {
	case opcodemap.Register:
		return mask&opcodemap.TReg != 0
	case opcodemap.Direct:
		return mask&opcodemap.TDir != 0
	case opcodemap.Indirect:
		return mask&opcodemap.TInd != 0
	default:
		return false
	}
}

func allowedKindTerms(mask uint8) []Term {
	var terms []Term
	if mask&opcodemap.TReg != 0 {
		terms = append(terms, Ident)
	}
	if mask&opcodemap.TDir != 0 {
		terms = append(terms, DirectChar)
	}
	if mask&opcodemap.TInd != 0 {
		terms = append(terms, Number)
	}
	return terms
}

func kindToTerm(kind opcodemap.ParamType) Term {
	switch kind {
	case opcodemap.Register:
		return Ident
	case opcodemap.Direct:
		return DirectChar
	default:
		return Number
	}
}

// parseOperand parses one parameter: a register (r<n>), a direct value
// (%<number> or %<label>), or an indirect value (a bare number or label).
func parseOperand(stream *tokenStream) (Operand, error) {
	tok, ok := stream.peek()
	if !ok {
		return Operand{}, ParseError{Kind: ExpectedButGotEof}
	}

	switch tok.Term {
	case DirectChar:
		stream.pos++
		return parseDirectOrIndirectValue(stream, opcodemap.Direct)

	case LabelUse:
		stream.pos++
		label := strings.TrimPrefix(tok.Text(stream.input), ":")
		return labelOperand(opcodemap.Indirect, label, tok.Start), nil

	case Number:
		stream.pos++
		n, err := parseNumberToken(stream.input, tok)
		if err != nil {
			return Operand{}, err
		}
		return numericOperand(opcodemap.Indirect, n, tok.Start), nil

	case Ident:
		stream.pos++
		return parseRegister(stream.input, tok)

	default:
		return Operand{}, ParseError{Kind: Unexpected, Got: tok.Term, Pos: tok.Start}
	}
}

func parseDirectOrIndirectValue(stream *tokenStream, kind opcodemap.ParamType) (Operand, error) {
	tok, ok := stream.peek()
	if !ok {
		return Operand{}, ParseError{Kind: ExpectedButGotEof}
	}
	switch tok.Term {
	case Number:
		stream.pos++
		n, err := parseNumberToken(stream.input, tok)
		if err != nil {
			return Operand{}, err
		}
		return numericOperand(kind, n, tok.Start), nil
	case LabelUse:
		stream.pos++
		label := strings.TrimPrefix(tok.Text(stream.input), ":")
		return labelOperand(kind, label, tok.Start), nil
	default:
		return Operand{}, ParseError{
			Kind:      ExpectedOneOf,
			WantOneOf: []Term{Number, LabelUse},
			Got:       tok.Term,
			Pos:       tok.Start,
		}
	}
}

// parseRegister parses an identifier token as a register reference. The
// trailing digits are parsed first; only once they parse as an integer is
// the leading character checked, so a non-'r' prefix with otherwise valid
// digits reports InvalidRegisterPrefix (e.g. "g18") rather than a bad
// integer. MissingRegisterPrefix is reserved for the empty-token case,
// which tokenize never actually produces for an Ident.
func parseRegister(input string, tok Token) (Operand, error) {
	text := tok.Text(input)
	if text == "" {
		return Operand{}, ParseError{Kind: MissingRegisterPrefix, Text: text, Pos: tok.Start}
	}

	digits := text[1:]
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Operand{}, ParseError{Kind: ParseIntErrorKind, Text: digits, Pos: tok.Start, Cause: err}
	}
	if text[0] != 'r' && text[0] != 'R' {
		return Operand{}, ParseError{Kind: InvalidRegisterPrefix, Text: text, Pos: tok.Start}
	}
	if n < 1 || n > opcodemap.RegCount {
		return Operand{}, ParseError{Kind: InvalidRegisterCount, Text: text, Pos: tok.Start}
	}
	return regOperand(uint8(n), tok.Start), nil
}

func parseNumberToken(input string, tok Token) (int32, error) {
	text := tok.Text(input)
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	if tok.Base == Hexadecimal {
		text = strings.TrimPrefix(text, "0x")
	} else if strings.HasPrefix(text, "0d") {
		text = strings.TrimPrefix(text, "0d")
	}
	n, err := strconv.ParseInt(text, tok.Base.radix(), 64)
	if err != nil {
		return 0, ParseError{Kind: ParseIntErrorKind, Text: tok.Text(input), Pos: tok.Start, Cause: err}
	}
	if neg {
		n = -n
	}
	return int32(n), nil
}
