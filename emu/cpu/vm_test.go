package cpu

import (
	"testing"

	"github.com/rcornwell/corewar/emu/opcodemap"
)

func assembleLive(dir int32) []byte {
	b := make([]byte, 5)
	b[0] = byte(opcodemap.Live)
	v := uint32(dir)
	b[1], b[2], b[3], b[4] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	return b
}

func newTestVM(code []byte) *VM {
	vm := New()
	vm.LoadPlayers([]ChampionEntry{{ID: 1, Name: "t", Comment: "t", Code: code}})
	return vm
}

func TestTickOnEmptyVMIsNoOp(t *testing.T) {
	vm := New()
	vm.Tick()
	if vm.Cycles != 0 {
		t.Errorf("Cycles = %d, want 0 on an empty VM", vm.Cycles)
	}
}

func TestLiveAdvancesAfterItsCycleCost(t *testing.T) {
	vm := newTestVM(assembleLive(1))

	for i := 0; i < int(opcodemap.Spec(opcodemap.Live).Cycles); i++ {
		vm.Tick()
	}

	if vm.ProcessCount() != 1 {
		t.Fatalf("ProcessCount() = %d, want 1", vm.ProcessCount())
	}
	proc := vm.AllProcesses()[0]
	if proc.PC != 5 {
		t.Errorf("PC = %d, want 5 after one live instruction", proc.PC)
	}
}

func TestForkDoesNotExecuteSameTick(t *testing.T) {
	code := make([]byte, 4)
	code[0] = byte(opcodemap.Fork)
	// fork offset 100, 2-byte direct
	code[1], code[2] = 0, 100

	vm := newTestVM(code)

	for i := 0; i < int(opcodemap.Spec(opcodemap.Fork).Cycles); i++ {
		vm.Tick()
	}

	if vm.ProcessCount() != 2 {
		t.Fatalf("ProcessCount() = %d, want 2 after fork fires", vm.ProcessCount())
	}

	// The child sits on a zero byte; had it been stepped this tick, the
	// failed decode would have moved it on to 101.
	child := vm.AllProcesses()[1]
	if child.PC != 100 || child.State != Idle {
		t.Errorf("child PC = %d state = %v, want 100 and Idle (not yet stepped)", child.PC, child.State)
	}

	sum := uint32(0)
	for _, c := range vm.ProcessCountPerCell {
		sum += c
	}
	if int(sum) != vm.ProcessCount() {
		t.Errorf("sum(ProcessCountPerCell) = %d, want %d", sum, vm.ProcessCount())
	}
}

func TestLiveCheckEvictsProcessesThatNeverLived(t *testing.T) {
	// aff never calls live, so it must be evicted at the first check.
	pcb := byte(opcodemap.RegParamCode << 6)
	code := []byte{byte(opcodemap.Aff), pcb, 1}

	vm := newTestVM(code)

	for vm.Cycles < vm.CheckInterval+1 {
		vm.Tick()
		if len(vm.Processes) == 0 {
			break
		}
	}

	if len(vm.Processes) != 0 {
		t.Errorf("expected all processes evicted by the first live check, got %d", len(vm.Processes))
	}

	before := vm.Cycles
	vm.Tick()
	if vm.Cycles != before {
		t.Errorf("tick on an empty VM must be a no-op, cycles advanced to %d", vm.Cycles)
	}
}
