package cpu

/*
 * Core War - Program counter.
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

// Reach selects the modulus an operand offset is taken under before being
// added to a program counter: Limited for most opcodes, Long for the three
// opcodes (lld, lldi, lfork) that may address the whole arena.
type Reach int

const (
	Limited Reach = iota
	Long
)

func (r Reach) modulus() int {
	if r == Long {
		return opcodemap.MemSize
	}
	return opcodemap.IdxMod
}

// ProgramCounter is a modular address into the memory arena.
type ProgramCounter int

func memOffset(at, offset int) int {
	m := (at + offset) % opcodemap.MemSize
	if m < 0 {
		m += opcodemap.MemSize
	}
	return m
}

// Advance moves the counter by delta cells, wrapping.
func (pc *ProgramCounter) Advance(delta int) {
	*pc = ProgramCounter(memOffset(int(*pc), delta))
}

// Offset computes pc + (offset mod reach), wrapped to the arena. The reach
// modulus is applied to the operand, never to the counter's own advance.
func (pc ProgramCounter) Offset(offset int, reach Reach) int {
	return memOffset(int(pc), offset%reach.modulus())
}

// Addr returns the counter as a plain arena index.
func (pc ProgramCounter) Addr() int {
	return int(pc)
}
