package cpu

import (
	"testing"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

func TestAdvanceWraps(t *testing.T) {
	pc := ProgramCounter(opcodemap.MemSize - 1)
	pc.Advance(2)
	if pc.Addr() != 1 {
		t.Errorf("Addr() = %d, want 1", pc.Addr())
	}
}

func TestAdvanceNegativeWraps(t *testing.T) {
	pc := ProgramCounter(1)
	pc.Advance(-2)
	if pc.Addr() != opcodemap.MemSize-1 {
		t.Errorf("Addr() = %d, want %d", pc.Addr(), opcodemap.MemSize-1)
	}
}

func TestOffsetLimitedReach(t *testing.T) {
	pc := ProgramCounter(0)
	// offset greater than IdxMod must be taken mod IdxMod before adding.
	got := pc.Offset(opcodemap.IdxMod+5, Limited)
	if got != 5 {
		t.Errorf("Offset() = %d, want 5", got)
	}
}

func TestOffsetLongReach(t *testing.T) {
	pc := ProgramCounter(0)
	got := pc.Offset(opcodemap.MemSize+7, Long)
	if got != 7 {
		t.Errorf("Offset() = %d, want 7", got)
	}
}

func TestOffsetDoesNotAffectAdvance(t *testing.T) {
	pc := ProgramCounter(10)
	_ = pc.Offset(1000, Limited)
	if pc.Addr() != 10 {
		t.Errorf("Offset must not mutate the counter, got Addr() = %d", pc.Addr())
	}
}
