package memory

/*
 * Core War - Wrapping circular memory arena.
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

// NoOwner is the owner tag for a cell nobody has ever written. It lies
// outside the player index range 0..MaxPlayers-1.
const NoOwner uint8 = 0xFF

// Memory is the shared circular arena every process reads and writes
// through. All indices wrap modulo opcodemap.MemSize; a multi-byte access
// straddling the end of the arena wraps byte-wise back to the start.
type Memory struct {
	values [opcodemap.MemSize]byte
	ages   [opcodemap.MemSize]uint16
	owners [opcodemap.MemSize]uint8
}

// New returns a freshly zeroed arena, ages initialized to MaxAge (matching
// a never-written cell's fade state) and owners to NoOwner.
func New() *Memory {
	m := &Memory{}
	for i := range m.ages {
		m.ages[i] = opcodemap.MaxAge
		m.owners[i] = NoOwner
	}
	return m
}

func wrap(i int) int {
	m := i % opcodemap.MemSize
	if m < 0 {
		m += opcodemap.MemSize
	}
	return m
}

// Size returns the arena length, always opcodemap.MemSize.
func (m *Memory) Size() int {
	return opcodemap.MemSize
}

// Tick decays every cell's age by one, saturating at zero.
func (m *Memory) Tick() {
	for i := range m.ages {
		if m.ages[i] > 0 {
			m.ages[i]--
		}
	}
}

// ReadByte returns the raw byte at i.
func (m *Memory) ReadByte(i int) byte {
	return m.values[wrap(i)]
}

// Age returns the decaying age counter at i.
func (m *Memory) Age(i int) uint16 {
	return m.ages[wrap(i)]
}

// Owner returns the owner tag at i.
func (m *Memory) Owner(i int) uint8 {
	return m.owners[wrap(i)]
}

// ReadI16 reads a big-endian signed 16-bit value starting at addr.
func (m *Memory) ReadI16(addr int) int16 {
	hi := m.ReadByte(addr)
	lo := m.ReadByte(addr + 1)
	return int16(uint16(hi)<<8 | uint16(lo))
}

// ReadI32 reads a big-endian signed 32-bit value starting at addr.
func (m *Memory) ReadI32(addr int) int32 {
	b0 := m.ReadByte(addr)
	b1 := m.ReadByte(addr + 1)
	b2 := m.ReadByte(addr + 2)
	b3 := m.ReadByte(addr + 3)
	return int32(uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3))
}

// Write copies bytes into the arena starting at at, wrapping as needed, and
// stamps every touched cell's owner and age.
func (m *Memory) Write(at int, bytes []byte, owner uint8) {
	for i, b := range bytes {
		idx := wrap(at + i)
		m.values[idx] = b
		m.ages[idx] = opcodemap.MaxAge
		m.owners[idx] = owner
	}
}

// WriteI32 writes value as 4 big-endian bytes starting at at.
func (m *Memory) WriteI32(at int, value int32, owner uint8) {
	v := uint32(value)
	m.Write(at, []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}, owner)
}
