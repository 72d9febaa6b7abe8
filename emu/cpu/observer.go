package cpu

/*
 * Core War - Read-only observer query surface.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// This file is the library's contract with observers (the CLI's run
// report, the interactive console, and any future TUI/WASM front end):
// every method here is read-only and safe to call between ticks.

// ProcessSnapshot is an immutable view of one process, returned by
// ProcessesAt so an observer never holds a pointer into VM-owned state.
type ProcessSnapshot struct {
	PID           Pid
	Owner         uint8
	PC            int
	ZF            bool
	State         ProcessState
	Registers     [16]int32
	LastLiveCycle uint32
}

// ProcessCount returns the number of live processes.
func (vm *VM) ProcessCount() int {
	return len(vm.Processes)
}

// PlayerCount returns the number of loaded champions.
func (vm *VM) PlayerCount() int {
	return len(vm.Players)
}

// LastLive returns the cycle at which player index idx last executed live.
func (vm *VM) LastLive(idx int) uint32 {
	return vm.LastLives[idx]
}

// ProcessCountForOwner returns the live process count for player index idx.
func (vm *VM) ProcessCountForOwner(idx int) uint32 {
	return vm.ProcessCountByOwner[idx]
}

// ProcessesAt returns a snapshot of every live process whose PC equals
// addr (mod MemSize is the caller's responsibility, same as any other
// arena index).
func (vm *VM) ProcessesAt(addr int) []ProcessSnapshot {
	var out []ProcessSnapshot
	for _, p := range vm.Processes {
		if p.PC.Addr() == addr {
			out = append(out, ProcessSnapshot{
				PID: p.PID, Owner: p.Owner, PC: p.PC.Addr(), ZF: p.ZF,
				State: p.State, Registers: p.Registers, LastLiveCycle: p.LastLiveCycle,
			})
		}
	}
	return out
}

// AllProcesses returns a snapshot of every live process, in scheduler
// (insertion) order.
func (vm *VM) AllProcesses() []ProcessSnapshot {
	out := make([]ProcessSnapshot, len(vm.Processes))
	for i, p := range vm.Processes {
		out[i] = ProcessSnapshot{
			PID: p.PID, Owner: p.Owner, PC: p.PC.Addr(), ZF: p.ZF,
			State: p.State, Registers: p.Registers, LastLiveCycle: p.LastLiveCycle,
		}
	}
	return out
}

// Decode decodes the instruction at addr for disassembly. It never mutates
// VM state; decode errors are returned, not swallowed, unlike the
// scheduler's own silent recovery.
func (vm *VM) Decode(addr int) (Instruction, error) {
	op, err := DecodeOp(vm.Memory, addr)
	if err != nil {
		return Instruction{}, err
	}
	return DecodeInstr(vm.Memory, op, addr)
}

// ReadByte, ReadAge and ReadOwner give observers direct, read-only access
// to the three parallel arena arrays (value, age, owner) described in the
// data model, for memory-dump rendering.
func (vm *VM) ReadByte(i int) byte   { return vm.Memory.ReadByte(i) }
func (vm *VM) ReadAge(i int) uint16  { return vm.Memory.Age(i) }
func (vm *VM) ReadOwner(i int) uint8 { return vm.Memory.Owner(i) }
