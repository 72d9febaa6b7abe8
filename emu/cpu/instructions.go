package cpu

/*
 * Core War - Instruction semantics.
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

// effectFunc is the signature every opcode's semantic effect implements.
// The instruction's byte-size advance is applied by the caller after the
// effect runs, except zjmp which cancels it explicitly.
type effectFunc func(instr Instruction, ctx *executionContext)

// opTable dispatches on opcode via a flat array of function values, built
// once, indexed directly by the (1-based) OpType.
var opTable = [opcodemap.Aff + 1]effectFunc{
	opcodemap.Live:  execLive,
	opcodemap.Ld:    execLd,
	opcodemap.St:    execSt,
	opcodemap.Add:   execAdd,
	opcodemap.Sub:   execSub,
	opcodemap.And:   execAnd,
	opcodemap.Or:    execOr,
	opcodemap.Xor:   execXor,
	opcodemap.Zjmp:  execZjmp,
	opcodemap.Ldi:   execLdi,
	opcodemap.Sti:   execSti,
	opcodemap.Fork:  execFork,
	opcodemap.Lld:   execLld,
	opcodemap.Lldi:  execLldi,
	opcodemap.Lfork: execLfork,
	opcodemap.Aff:   execAff,
}

func execLive(instr Instruction, ctx *executionContext) {
	*ctx.liveCount++
	ctx.process.LastLiveCycle = ctx.cycle
	ctx.liveIDs[instr.Params[0].Value] = struct{}{}
}

func execLd(instr Instruction, ctx *executionContext) {
	src, dst := instr.Params[0], instr.Params[1]
	value := ctx.getParam(src, Limited)
	ctx.setReg(dst, value)
	ctx.process.ZF = value == 0
}

func execSt(instr Instruction, ctx *executionContext) {
	src, dst := instr.Params[0], instr.Params[1]
	value := ctx.getReg(src)
	if dst.Kind == opcodemap.Register {
		ctx.setReg(dst, value)
		return
	}
	at := ctx.process.PC.Offset(int(dst.Value), Limited)
	ctx.memory.WriteI32(at, value, ctx.process.Owner)
}

func execAdd(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	result := ctx.getReg(lhs) + ctx.getReg(rhs)
	ctx.setReg(dst, result)
	ctx.process.ZF = result == 0
}

func execSub(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	result := ctx.getReg(lhs) - ctx.getReg(rhs)
	ctx.setReg(dst, result)
	ctx.process.ZF = result == 0
}

func execAnd(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	result := ctx.getParam(lhs, Limited) & ctx.getParam(rhs, Limited)
	ctx.setReg(dst, result)
	ctx.process.ZF = result == 0
}

func execOr(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	result := ctx.getParam(lhs, Limited) | ctx.getParam(rhs, Limited)
	ctx.setReg(dst, result)
	ctx.process.ZF = result == 0
}

func execXor(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	result := ctx.getParam(lhs, Limited) ^ ctx.getParam(rhs, Limited)
	ctx.setReg(dst, result)
	ctx.process.ZF = result == 0
}

func execZjmp(instr Instruction, ctx *executionContext) {
	if !ctx.process.ZF {
		return
	}
	target := ctx.process.PC.Offset(int(instr.Params[0].Value), Limited)
	ctx.process.PC = ProgramCounter(target)
	// Cancel the post-effect advance the caller is about to apply.
	ctx.process.PC.Advance(-instr.ByteSize)
}

func execLdi(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	offset := int(ctx.getParam(lhs, Limited) + ctx.getParam(rhs, Limited))
	at := ctx.process.PC.Offset(offset, Limited)
	ctx.setReg(dst, ctx.memory.ReadI32(at))
}

func execSti(instr Instruction, ctx *executionContext) {
	src, lhs, rhs := instr.Params[0], instr.Params[1], instr.Params[2]
	value := ctx.getReg(src)
	offset := int(ctx.getParam(lhs, Limited) + ctx.getParam(rhs, Limited))
	at := ctx.process.PC.Offset(offset, Limited)
	ctx.memory.WriteI32(at, value, ctx.process.Owner)
}

func execFork(instr Instruction, ctx *executionContext) {
	target := ctx.process.PC.Offset(int(instr.Params[0].Value), Limited)
	child := ctx.process.Fork(ctx.pidPool.Next(), ProgramCounter(target))
	*ctx.forks = append(*ctx.forks, child)
}

func execLld(instr Instruction, ctx *executionContext) {
	src, dst := instr.Params[0], instr.Params[1]
	value := ctx.getParam(src, Long)
	ctx.setReg(dst, value)
	ctx.process.ZF = value == 0
}

func execLldi(instr Instruction, ctx *executionContext) {
	lhs, rhs, dst := instr.Params[0], instr.Params[1], instr.Params[2]
	offset := int(ctx.getParam(lhs, Long) + ctx.getParam(rhs, Long))
	at := ctx.process.PC.Offset(offset, Long)
	value := ctx.memory.ReadI32(at)
	ctx.setReg(dst, value)
	ctx.process.ZF = value == 0
}

func execLfork(instr Instruction, ctx *executionContext) {
	target := ctx.process.PC.Offset(int(instr.Params[0].Value), Long)
	child := ctx.process.Fork(ctx.pidPool.Next(), ProgramCounter(target))
	*ctx.forks = append(*ctx.forks, child)
}

// execAff is a no-op: routing a register to an observer-visible display is
// outside the core's responsibility, but the instruction still costs cycles.
func execAff(_ Instruction, _ *executionContext) {}
