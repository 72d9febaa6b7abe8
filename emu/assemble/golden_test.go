/*
 * Core War - Assembler-to-VM golden regression tests.
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

// Golden-path tests exercising the full pipeline: source text through the
// lexer, parser, builder and compiler, then the resulting binary loaded
// straight into a VM and ticked a known number of cycles. These stand in
// for named-champion regression fixtures that aren't available in this
// tree; the property under test — assembler and VM agreeing on an exact
// cycle-by-cycle trace — is the same one a full champion fixture would
// exercise.
package assembler_test

import (
	"testing"

	"github.com/rcornwell/corewar/emu/assemble"
	"github.com/rcornwell/corewar/emu/cpu"
	"github.com/rcornwell/corewar/emu/header"
	"github.com/rcornwell/corewar/emu/opcodemap"
)

func loadChampion(t *testing.T, src string) *cpu.VM {
	t.Helper()

	bin, err := assembler.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	hdr, err := header.Parse(bin)
	if err != nil {
		t.Fatalf("header.Parse() error: %v", err)
	}
	code := bin[opcodemap.HeaderSize : opcodemap.HeaderSize+int(hdr.Size)]

	vm := cpu.New()
	vm.LoadPlayers([]cpu.ChampionEntry{{ID: 1, Name: hdr.Name, Comment: hdr.Comment, Code: code}})
	return vm
}

// TestGoldenLiveThenZjmpNeverTaken assembles a two-instruction champion
// (live, then a backward zjmp) and ticks it exactly as many cycles as the
// two instructions cost. live never touches the zero flag, so the jump is
// never taken and the process falls through to just past both
// instructions — a hand-traceable stand-in for the named-champion
// end-to-end cycle counts.
func TestGoldenLiveThenZjmpNeverTaken(t *testing.T) {
	src := `.name "looper"
.comment "golden"
loop: live %1
zjmp %:loop
`
	vm := loadChampion(t, src)

	want := int(opcodemap.Spec(opcodemap.Live).Cycles) + int(opcodemap.Spec(opcodemap.Zjmp).Cycles)
	for i := 0; i < want; i++ {
		vm.Tick()
	}

	if vm.ProcessCount() != 1 {
		t.Fatalf("ProcessCount() = %d, want 1", vm.ProcessCount())
	}
	proc := vm.AllProcesses()[0]
	if proc.ZF {
		t.Error("ZF = true, want false: live never sets the zero flag")
	}
	if proc.PC != 8 {
		t.Errorf("PC = %d, want 8 (past both instructions, zjmp not taken)", proc.PC)
	}
	if vm.Cycles != uint32(want) {
		t.Errorf("Cycles = %d, want %d", vm.Cycles, want)
	}
}

// TestGoldenAffNeverLivesIsEvicted assembles a champion that never calls
// live and asserts the live-check loop evicts it at the first check, the
// same property TestLiveCheckEvictsProcessesThatNeverLived in emu/cpu
// asserts directly against a hand-built instruction, now exercised
// through the assembler too.
func TestGoldenAffNeverLivesIsEvicted(t *testing.T) {
	src := `.name "silent"
.comment "golden"
aff r1
`
	vm := loadChampion(t, src)

	for vm.Cycles < vm.CheckInterval+1 {
		vm.Tick()
		if vm.ProcessCount() == 0 {
			break
		}
	}

	if vm.ProcessCount() != 0 {
		t.Errorf("ProcessCount() = %d, want 0: a champion that never calls live must be evicted", vm.ProcessCount())
	}
}
