package cpu

/*
 * Core War - Virtual machine: process scheduler and live-check eviction.
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

import (
	"github.com/rcornwell/corewar/emu/memory"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

// Player is one champion loaded into a VM: its caller-supplied id, name and
// comment (read back from the champion binary's header), code size, and
// the owner index the VM tags its memory writes with.
type Player struct {
	ID      int32
	Name    string
	Comment string
	Size    int
	Owner   uint8
}

// VM is a Core War virtual machine: the shared memory arena, the live
// process list, and the scheduling counters the live-check loop tunes as
// the match runs. A VM is single-threaded and cycle-driven — Tick is the
// only way time advances, and nothing inside it may block or yield.
type VM struct {
	Players []Player
	Memory  *memory.Memory

	Processes []*Process
	pidPool   PidPool

	LastLives [opcodemap.MaxPlayers]uint32

	Cycles                      uint32
	LastLiveCheck               uint32
	CheckInterval               uint32
	LiveCountSinceLastCheck     uint32
	ChecksWithoutCycleDecrement uint32

	ProcessCountPerCell [opcodemap.MemSize]uint32
	ProcessCountByOwner [opcodemap.MaxPlayers]uint32

	forks   []*Process
	liveIDs map[int32]struct{}
}

// New returns a VM with an empty arena and no players loaded.
func New() *VM {
	return &VM{
		Memory:        memory.New(),
		CheckInterval: opcodemap.CheckInterval,
		liveIDs:       make(map[int32]struct{}),
	}
}

// ChampionEntry is one roster slot passed to LoadPlayers: a caller-supplied
// player id and the champion binary's name, comment and code section (the
// header is not included; use header.Parse to split a loaded .cor file).
type ChampionEntry struct {
	ID      int32
	Name    string
	Comment string
	Code    []byte
}

// LoadPlayers loads a full roster at once, spacing each champion evenly
// around the arena the way a real match setup does. Register 1 of every
// new process is seeded with its player id, the convention champion boot
// code relies on.
func (vm *VM) LoadPlayers(entries []ChampionEntry) {
	spacing := opcodemap.MemSize / max(len(entries), 1)
	for idx, e := range entries {
		vm.loadPlayerAt(e.ID, e.Name, e.Comment, e.Code, uint8(idx), idx*spacing)
	}
}

func (vm *VM) loadPlayerAt(playerID int32, name, comment string, code []byte, owner uint8, at int) {
	vm.Players = append(vm.Players, Player{
		ID: playerID, Name: name, Comment: comment, Size: len(code), Owner: owner,
	})

	vm.Memory.Write(at, code, owner)

	proc := NewProcess(vm.pidPool.Next(), owner, ProgramCounter(at))
	proc.Registers[0] = playerID
	vm.Processes = append(vm.Processes, proc)

	vm.ProcessCountPerCell[at]++
	vm.ProcessCountByOwner[owner] = 1
}

// Tick advances logical time by exactly one cycle. With no processes left
// it is a no-op: a quiescent VM stays quiescent until a caller stops
// ticking it.
func (vm *VM) Tick() {
	if len(vm.Processes) == 0 {
		return
	}

	vm.runProcesses()
	vm.Memory.Tick()
	vm.Cycles++

	if vm.Cycles-vm.LastLiveCheck >= vm.CheckInterval {
		vm.liveCheck()
	}
}

// runProcesses steps every process once, in reverse insertion order, then
// merges any forks spawned this tick into the tail of the process list.
func (vm *VM) runProcesses() {
	vm.forks = vm.forks[:0]

	for i := len(vm.Processes) - 1; i >= 0; i-- {
		vm.step(vm.Processes[i])
	}

	for _, child := range vm.forks {
		vm.ProcessCountPerCell[child.PC.Addr()]++
		vm.ProcessCountByOwner[child.Owner]++
	}
	vm.Processes = append(vm.Processes, vm.forks...)

	for idx, player := range vm.Players {
		if _, live := vm.liveIDs[player.ID]; live {
			vm.LastLives[idx] = vm.Cycles
		}
	}
	for k := range vm.liveIDs {
		delete(vm.liveIDs, k)
	}
}

func (vm *VM) step(proc *Process) {
	switch proc.State {
	case Idle:
		op, err := DecodeOp(vm.Memory, proc.PC.Addr())
		if err != nil {
			vm.moveCell(proc, 1)
			return
		}
		proc.ExecOp = op
		proc.ExecAt = vm.Cycles + opcodemap.Spec(op).Cycles - 1
		proc.State = Executing

	case Executing:
		if proc.ExecAt != vm.Cycles {
			return
		}

		instr, err := DecodeInstr(vm.Memory, proc.ExecOp, proc.PC.Addr())
		if err != nil {
			vm.moveCell(proc, 1)
			proc.State = Idle
			return
		}

		ctx := &executionContext{
			memory:    vm.Memory,
			process:   proc,
			forks:     &vm.forks,
			cycle:     vm.Cycles,
			liveCount: &vm.LiveCountSinceLastCheck,
			pidPool:   &vm.pidPool,
			liveIDs:   vm.liveIDs,
		}

		start := proc.PC.Addr()
		opTable[instr.Kind](instr, ctx)
		proc.PC.Advance(instr.ByteSize)
		vm.ProcessCountPerCell[start]--
		vm.ProcessCountPerCell[proc.PC.Addr()]++

		proc.State = Idle
	}
}

// moveCell advances a process's PC by delta and keeps the per-cell count
// cache in sync, used for the "decode failed, limp forward one byte" path.
func (vm *VM) moveCell(proc *Process, delta int) {
	start := proc.PC.Addr()
	proc.PC.Advance(delta)
	vm.ProcessCountPerCell[start]--
	vm.ProcessCountPerCell[proc.PC.Addr()]++
}

// liveCheck evicts any process that has not executed `live` since the
// previous check, then retunes check_interval per the tuning rules.
func (vm *VM) liveCheck() {
	kept := vm.Processes[:0]
	for _, proc := range vm.Processes {
		if proc.LastLiveCycle <= vm.LastLiveCheck {
			vm.ProcessCountPerCell[proc.PC.Addr()]--
			vm.ProcessCountByOwner[proc.Owner]--
			continue
		}
		kept = append(kept, proc)
	}
	vm.Processes = kept

	if vm.LiveCountSinceLastCheck >= opcodemap.NbrLive {
		vm.CheckInterval = saturatingSub(vm.CheckInterval, opcodemap.CycleDelta)
		vm.ChecksWithoutCycleDecrement = 0
	} else {
		vm.ChecksWithoutCycleDecrement++
	}

	if vm.ChecksWithoutCycleDecrement >= opcodemap.MaxChecks {
		vm.CheckInterval = saturatingSub(vm.CheckInterval, opcodemap.CycleDelta)
		vm.ChecksWithoutCycleDecrement = 0
	}

	vm.LiveCountSinceLastCheck = 0
	vm.LastLiveCheck = vm.Cycles
}

func saturatingSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
