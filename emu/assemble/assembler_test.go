package assembler

import (
	"strings"
	"testing"
)

func TestBuilderRejectsDuplicateName(t *testing.T) {
	b := NewChampionBuilder()
	if err := b.withName("zork", 1); err != nil {
		t.Fatalf("first withName: %v", err)
	}
	err := b.withName("zork2", 2)
	if err == nil {
		t.Fatal("expected NameAlreadySet")
	}
	if aerr, ok := err.(AssembleError); !ok || aerr.Kind != NameAlreadySet {
		t.Errorf("err = %v, want NameAlreadySet", err)
	}
}

func TestBuilderRejectsDuplicateComment(t *testing.T) {
	b := NewChampionBuilder()
	if err := b.withComment("first", 1); err != nil {
		t.Fatalf("first withComment: %v", err)
	}
	err := b.withComment("second", 2)
	if err == nil {
		t.Fatal("expected CommentAlreadySet")
	}
	if aerr, ok := err.(AssembleError); !ok || aerr.Kind != CommentAlreadySet {
		t.Errorf("err = %v, want CommentAlreadySet", err)
	}
}

func TestBuilderMissingNameOrComment(t *testing.T) {
	b := NewChampionBuilder()
	if _, err := b.finish(); err == nil {
		t.Fatal("expected MissingName")
	} else if aerr, ok := err.(AssembleError); !ok || aerr.Kind != MissingName {
		t.Errorf("err = %v, want MissingName", err)
	}

	b2 := NewChampionBuilder()
	b2.withName("n", 1)
	if _, err := b2.finish(); err == nil {
		t.Fatal("expected MissingComment")
	} else if aerr, ok := err.(AssembleError); !ok || aerr.Kind != MissingComment {
		t.Errorf("err = %v, want MissingComment", err)
	}
}

func TestParseSourceBuildsChampion(t *testing.T) {
	src := `.name "zork"
.comment "a simple champion"
loop:
  live %1
  zjmp %:loop
`
	builder, err := parseSource(src)
	if err != nil {
		t.Fatalf("parseSource: %v", err)
	}
	champ, err := builder.finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if champ.Name != "zork" || champ.Comment != "a simple champion" {
		t.Errorf("got name=%q comment=%q", champ.Name, champ.Comment)
	}

	var ops int
	for _, instr := range champ.Instructions {
		if instr.Kind == InstrOp {
			ops++
		}
	}
	if ops != 2 {
		t.Errorf("got %d ops, want 2", ops)
	}
}

func TestParseSourceReportsLineNumber(t *testing.T) {
	src := ".name \"z\"\n.comment \"c\"\naff r18\n"
	_, err := parseSource(src)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("err = %v, want it to name line 3", err)
	}
}
