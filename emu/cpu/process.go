package cpu

/*
 * Core War - Process state.
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

import "github.com/rcornwell/corewar/emu/opcodemap"

// Pid is a monotonically increasing process identifier.
type Pid uint64

// ProcessState is the two-state machine driving a process's fetch/execute
// cycle: Idle between instructions, Executing while a decoded opcode's
// cycle cost is counting down.
type ProcessState int

const (
	Idle ProcessState = iota
	Executing
)

// Process is one running thread of a champion: its own program counter,
// registers and zero flag, plus the scheduling state the VM drives it
// with. Processes never touch memory directly; the VM's execution context
// mediates all access.
type Process struct {
	PID           Pid
	Owner         uint8 // player index, 0..MaxPlayers
	PC            ProgramCounter
	Registers     [opcodemap.RegCount]int32
	ZF            bool
	State         ProcessState
	ExecOp        opcodemap.OpType
	ExecAt        uint32
	LastLiveCycle uint32
}

// NewProcess creates a freshly loaded process at pc, owned by owner.
func NewProcess(pid Pid, owner uint8, pc ProgramCounter) *Process {
	return &Process{PID: pid, Owner: owner, PC: pc, State: Idle}
}

// Fork creates a child process inheriting the parent's owner, registers and
// zero flag; the child starts Idle at pc with no live-check credit.
func (p *Process) Fork(pid Pid, pc ProgramCounter) *Process {
	child := &Process{
		PID:       pid,
		Owner:     p.Owner,
		PC:        pc,
		Registers: p.Registers,
		ZF:        p.ZF,
		State:     Idle,
	}
	return child
}

// PidPool hands out monotonically increasing process identifiers.
type PidPool struct {
	next Pid
}

// Next returns the next unused Pid.
func (p *PidPool) Next() Pid {
	pid := p.next
	p.next++
	return pid
}
