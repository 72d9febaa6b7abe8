package assembler

import "testing"

func collectTokens(t *testing.T, input string) []Token {
	t.Helper()
	tz := NewTokenizer(input)
	var toks []Token
	for {
		tok, err, ok := tz.Next()
		if !ok {
			break
		}
		if err != nil {
			t.Fatalf("unexpected lex error on %q: %v", input, err)
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexIdentAndRegister(t *testing.T) {
	toks := collectTokens(t, "add r1, r2, r3")
	want := []Term{Ident, Ident, ParamSeparator, Ident, ParamSeparator, Ident}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, term := range want {
		if toks[i].Term != term {
			t.Errorf("token %d = %v, want %v", i, toks[i].Term, term)
		}
	}
}

func TestLexLabelDefAndUse(t *testing.T) {
	toks := collectTokens(t, "loop: zjmp :loop")
	if toks[0].Term != LabelDef {
		t.Errorf("toks[0] = %v, want LabelDef", toks[0].Term)
	}
	if toks[1].Term != Ident {
		t.Errorf("toks[1] = %v, want Ident", toks[1].Term)
	}
	if toks[2].Term != LabelUse {
		t.Errorf("toks[2] = %v, want LabelUse", toks[2].Term)
	}
}

func TestLexDirectives(t *testing.T) {
	toks := collectTokens(t, `.name "zork"`)
	if toks[0].Term != ChampionNameCmd {
		t.Errorf("toks[0] = %v, want ChampionNameCmd", toks[0].Term)
	}
	if toks[1].Term != QuotedString {
		t.Errorf("toks[1] = %v, want QuotedString", toks[1].Term)
	}
	if got := toks[1].Text(`.name "zork"`); got != "zork" {
		t.Errorf("quoted text = %q, want %q", got, "zork")
	}
}

func TestLexNegativeAndHexNumbers(t *testing.T) {
	toks := collectTokens(t, "-12 0x1F")
	if toks[0].Term != Number || toks[0].Base != Decimal {
		t.Errorf("toks[0] = %+v, want decimal Number", toks[0])
	}
	if toks[1].Term != Number || toks[1].Base != Hexadecimal {
		t.Errorf("toks[1] = %+v, want hex Number", toks[1])
	}
}

func TestLexCommentIsLastToken(t *testing.T) {
	toks := collectTokens(t, "aff r1 # halt and catch fire")
	if toks[len(toks)-1].Term != Comment {
		t.Errorf("last token = %v, want Comment", toks[len(toks)-1].Term)
	}
}

func TestLexUnclosedQuotedString(t *testing.T) {
	tz := NewTokenizer(`.name "zork`)
	tz.Next() // ChampionNameCmd
	_, err, ok := tz.Next()
	if !ok || err == nil {
		t.Fatal("expected an unclosed-quote error")
	}
	if lerr, ok := err.(LexError); !ok || lerr.Kind != UnclosedQuotedString {
		t.Errorf("err = %v, want UnclosedQuotedString", err)
	}
}

func TestLexEmptyLabelUse(t *testing.T) {
	tz := NewTokenizer(":")
	_, err, ok := tz.Next()
	if !ok || err == nil {
		t.Fatal("expected an empty-label error")
	}
	if lerr, ok := err.(LexError); !ok || lerr.Kind != EmptyLabel {
		t.Errorf("err = %v, want EmptyLabel", err)
	}
}
