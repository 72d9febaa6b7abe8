package cpu

import (
	"testing"

	"github.com/rcornwell/corewar/emu/memory"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

func TestDecodeOpInvalid(t *testing.T) {
	mem := memory.New()
	mem.Write(0, []byte{0}, 1)

	if _, err := DecodeOp(mem, 0); err == nil {
		t.Fatal("expected an error for opcode 0")
	} else if _, ok := err.(InvalidOpCode); !ok {
		t.Errorf("error = %v (%T), want InvalidOpCode", err, err)
	}
}

func TestDecodeLiveNoPCB(t *testing.T) {
	mem := memory.New()
	// live has no PCB; a direct 4-byte operand follows directly.
	mem.Write(0, []byte{byte(opcodemap.Live), 0, 0, 0, 1}, 1)

	op, err := DecodeOp(mem, 0)
	if err != nil {
		t.Fatalf("DecodeOp: %v", err)
	}
	instr, err := DecodeInstr(mem, op, 0)
	if err != nil {
		t.Fatalf("DecodeInstr: %v", err)
	}
	if instr.ByteSize != 5 {
		t.Errorf("ByteSize = %d, want 5", instr.ByteSize)
	}
	if instr.Params[0].Value != 1 {
		t.Errorf("Params[0].Value = %d, want 1", instr.Params[0].Value)
	}
}

func TestDecodeLdWithPCB(t *testing.T) {
	mem := memory.New()
	// ld %5, r3 -> opcode, pcb(DIR,REG), dir(4 bytes)=5, reg=3
	pcb := byte(opcodemap.DirParamCode<<6 | opcodemap.RegParamCode<<4)
	mem.Write(0, []byte{byte(opcodemap.Ld), pcb, 0, 0, 0, 5, 3}, 1)

	op, _ := DecodeOp(mem, 0)
	instr, err := DecodeInstr(mem, op, 0)
	if err != nil {
		t.Fatalf("DecodeInstr: %v", err)
	}
	if instr.ByteSize != 7 {
		t.Errorf("ByteSize = %d, want 7", instr.ByteSize)
	}
	if instr.Params[0].Kind != opcodemap.Direct || instr.Params[0].Value != 5 {
		t.Errorf("Params[0] = %+v, want Direct(5)", instr.Params[0])
	}
	if instr.Params[1].Kind != opcodemap.Register || instr.Params[1].Value != 3 {
		t.Errorf("Params[1] = %+v, want Register(3)", instr.Params[1])
	}
}

func TestDecodeInvalidPCBDisallowedType(t *testing.T) {
	mem := memory.New()
	// add requires REG,REG,REG; encode the first as DIR -> invalid.
	pcb := byte(opcodemap.DirParamCode<<6 | opcodemap.RegParamCode<<4 | opcodemap.RegParamCode<<2)
	mem.Write(0, []byte{byte(opcodemap.Add), pcb}, 1)

	op, _ := DecodeOp(mem, 0)
	if _, err := DecodeInstr(mem, op, 0); err == nil {
		t.Fatal("expected InvalidPCB")
	} else if _, ok := err.(InvalidPCB); !ok {
		t.Errorf("error = %v (%T), want InvalidPCB", err, err)
	}
}

func TestDecodeInvalidPCBUnusedBits(t *testing.T) {
	mem := memory.New()
	// aff takes 1 param; bits below the top pair must be zero.
	pcb := byte(opcodemap.RegParamCode<<6 | 0b11)
	mem.Write(0, []byte{byte(opcodemap.Aff), pcb, 1}, 1)

	op, _ := DecodeOp(mem, 0)
	if _, err := DecodeInstr(mem, op, 0); err == nil {
		t.Fatal("expected InvalidPCB for non-zero unused bits")
	}
}

func TestDecodeInvalidRegNumber(t *testing.T) {
	mem := memory.New()
	pcb := byte(opcodemap.RegParamCode << 6)
	mem.Write(0, []byte{byte(opcodemap.Aff), pcb, 17}, 1)

	op, _ := DecodeOp(mem, 0)
	if _, err := DecodeInstr(mem, op, 0); err == nil {
		t.Fatal("expected InvalidRegNumber")
	} else if _, ok := err.(InvalidRegNumber); !ok {
		t.Errorf("error = %v (%T), want InvalidRegNumber", err, err)
	}
}

func TestDecodeNeverMutatesMemory(t *testing.T) {
	mem := memory.New()
	pcb := byte(opcodemap.RegParamCode << 6)
	mem.Write(0, []byte{byte(opcodemap.Aff), pcb, 1}, 1)

	before := make([]byte, 8)
	for i := range before {
		before[i] = mem.ReadByte(i)
	}

	op, _ := DecodeOp(mem, 0)
	_, _ = DecodeInstr(mem, op, 0)

	for i := range before {
		if mem.ReadByte(i) != before[i] {
			t.Fatalf("decode mutated memory at %d", i)
		}
	}
}
