package cpu

/*
 * Core War - Execution context for instruction effects.
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

// executionContext bundles everything an instruction's effect function may
// touch during a single step: the memory it reads/writes, the process it
// mutates, the side buffer forks get queued to, and the VM-wide counters
// updated as a byproduct of execution. Holding these as one value (rather
// than letting effects reach back into the VM) keeps the process list's
// iteration-by-index free of aliasing the slice element it is mutating.
type executionContext struct {
	memory     *memory.Memory
	process    *Process
	forks      *[]*Process
	cycle      uint32
	liveCount  *uint32
	pidPool    *PidPool
	liveIDs    map[int32]struct{}
}

func (ctx *executionContext) getParam(p Param, reach Reach) int32 {
	switch p.Kind {
	case opcodemap.Register:
		return ctx.process.Registers[p.Value-1]
	case opcodemap.Direct:
		return p.Value
	default: // indirect
		at := ctx.process.PC.Offset(int(p.Value), reach)
		return ctx.memory.ReadI32(at)
	}
}

func (ctx *executionContext) getReg(p Param) int32 {
	return ctx.process.Registers[p.Value-1]
}

func (ctx *executionContext) setReg(p Param, value int32) {
	ctx.process.Registers[p.Value-1] = value
}
