package assembler

import (
	"testing"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

func TestParseSimpleInstruction(t *testing.T) {
	pl, err := ParseLine("add r1, r2, r3")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl.Kind != LineInstr {
		t.Fatalf("Kind = %v, want LineInstr", pl.Kind)
	}
	if pl.Instr.Op != opcodemap.Add {
		t.Errorf("Op = %v, want Add", pl.Instr.Op)
	}
	if len(pl.Instr.Params) != 3 {
		t.Fatalf("got %d params, want 3", len(pl.Instr.Params))
	}
	for i, p := range pl.Instr.Params {
		if p.Kind != opcodemap.Register || p.Reg != uint8(i+1) {
			t.Errorf("Params[%d] = %+v, want register %d", i, p, i+1)
		}
	}
}

func TestParseBlankLineIsNil(t *testing.T) {
	pl, err := ParseLine("   ")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl != nil {
		t.Errorf("ParseLine(blank) = %+v, want nil", pl)
	}
}

func TestParseLabelOnly(t *testing.T) {
	pl, err := ParseLine("loop:")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl.Kind != LineLabel || pl.Label != "loop" {
		t.Errorf("got %+v, want label %q", pl, "loop")
	}
}

func TestParseLabelWithInstruction(t *testing.T) {
	pl, err := ParseLine("loop: live %1")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl.Kind != LineInstr || pl.Label != "loop" {
		t.Fatalf("got %+v, want instr with label %q", pl, "loop")
	}
	if pl.Instr.Op != opcodemap.Live {
		t.Errorf("Op = %v, want Live", pl.Instr.Op)
	}
}

func TestParseInvalidRegisterCount(t *testing.T) {
	_, err := ParseLine("aff r18")
	if err == nil {
		t.Fatal("expected an error for register r18")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != InvalidRegisterCount {
		t.Errorf("err = %v, want InvalidRegisterCount", err)
	}
}

func TestParseRemainingInput(t *testing.T) {
	_, err := ParseLine("live %1 woops")
	if err == nil {
		t.Fatal("expected a remaining-input error")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != RemainingInput {
		t.Errorf("err = %v, want RemainingInput", err)
	}
}

func TestParseExpectedOneOf(t *testing.T) {
	_, err := ParseLine("ldi r1, :start, r1")
	if err == nil {
		t.Fatal("expected an ExpectedOneOf error")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != ExpectedOneOf {
		t.Fatalf("err = %v, want ExpectedOneOf", err)
	}
	if perr.Pos != 8 {
		t.Errorf("Pos = %d, want 8 (the :start token, not the mnemonic)", perr.Pos)
	}
}

func TestParseUnknownMnemonic(t *testing.T) {
	_, err := ParseLine("bogus r1")
	if err == nil {
		t.Fatal("expected an invalid-mnemonic error")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != InvalidOpMnemonic {
		t.Errorf("err = %v, want InvalidOpMnemonic", err)
	}
}

func TestParseInvalidRegisterPrefix(t *testing.T) {
	_, err := ParseLine("aff g18")
	if err == nil {
		t.Fatal("expected an invalid-register-prefix error")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != InvalidRegisterPrefix {
		t.Errorf("err = %v, want InvalidRegisterPrefix", err)
	}
}

func TestParseRegisterWithNonDigitSuffix(t *testing.T) {
	_, err := ParseLine("aff foo")
	if err == nil {
		t.Fatal("expected a parse-int error")
	}
	perr, ok := err.(ParseError)
	if !ok || perr.Kind != ParseIntErrorKind {
		t.Errorf("err = %v, want ParseIntErrorKind", err)
	}
}

func TestParseDirectives(t *testing.T) {
	pl, err := ParseLine(`.comment "hello world"`)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl.Kind != LineChampionComment || pl.Text != "hello world" {
		t.Errorf("got %+v, want comment %q", pl, "hello world")
	}
}

func TestParseCodeDirective(t *testing.T) {
	pl, err := ParseLine(".code 1, 2, 255")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if pl.Kind != LineCode {
		t.Fatalf("Kind = %v, want LineCode", pl.Kind)
	}
	want := []byte{1, 2, 255}
	if len(pl.Code) != len(want) {
		t.Fatalf("Code = %v, want %v", pl.Code, want)
	}
	for i := range want {
		if pl.Code[i] != want[i] {
			t.Errorf("Code[%d] = %d, want %d", i, pl.Code[i], want[i])
		}
	}
}
