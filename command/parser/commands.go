/*
 * Core War - Observer console commands.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/corewar/emu/cpu"
	"github.com/rcornwell/corewar/emu/disassemble"
	"github.com/rcornwell/corewar/emu/opcodemap"
	"github.com/rcornwell/corewar/util/hexfmt"
)

// maxRunCycles bounds an unbounded "run" so a hung champion can't wedge
// the console forever.
const maxRunCycles = 1_000_000

func regs(line *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command regs")

	if pid, ok := line.getNumber(); ok {
		for _, p := range vm.AllProcesses() {
			if int(p.PID) == pid {
				printProcess(p)
				return false, nil
			}
		}
		return false, fmt.Errorf("no such process: %d", pid)
	}

	for _, p := range vm.AllProcesses() {
		printProcess(p)
	}
	return false, nil
}

func printProcess(p cpu.ProcessSnapshot) {
	state := "idle"
	if p.State == cpu.Executing {
		state = "executing"
	}
	fmt.Printf("pid=%d owner=%d pc=0x%03x zf=%v state=%s last_live=%d\n",
		p.PID, p.Owner, p.PC, p.ZF, state, p.LastLiveCycle)
	for i, r := range p.Registers {
		if i > 0 && i%4 == 0 {
			fmt.Println()
		}
		fmt.Printf("  r%-2d=%-10d", i+1, r)
	}
	fmt.Println()
}

func mem(line *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command mem")

	addr, ok := line.getNumber()
	if !ok {
		return false, errors.New("mem requires an address")
	}
	count, ok := line.getNumber()
	if !ok {
		count = 64
	}

	for off := 0; off < count; off += 16 {
		n := count - off
		if n > 16 {
			n = 16
		}
		row := make([]byte, n)
		for i := range row {
			row[i] = vm.ReadByte((addr + off + i) % opcodemap.MemSize)
		}
		fmt.Println(hexfmt.Dump((addr+off)%opcodemap.MemSize, row))
	}
	return false, nil
}

func dis(line *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command dis")

	addr, ok := line.getNumber()
	if !ok {
		return false, errors.New("dis requires an address")
	}
	count, ok := line.getNumber()
	if !ok {
		count = 1
	}

	for i := 0; i < count; i++ {
		addr %= opcodemap.MemSize
		text, size := disassembler.Disassemble(vm.Memory, addr)
		fmt.Printf("0x%03x  %s\n", addr, text)
		addr += size
	}
	return false, nil
}

func players(_ *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command players")

	for i, p := range vm.Players {
		fmt.Printf("%d: %-16s procs=%-4d last_live=%-8d %s\n",
			p.ID, p.Name, vm.ProcessCountForOwner(i), vm.LastLive(i), p.Comment)
	}
	return false, nil
}

func step(line *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command step")

	n, ok := line.getNumber()
	if !ok {
		n = 1
	}
	for i := 0; i < n; i++ {
		vm.Tick()
	}
	fmt.Printf("cycle %d, %d processes live\n", vm.Cycles, vm.ProcessCount())
	return false, nil
}

func run(line *cmdLine, vm *cpu.VM) (bool, error) {
	slog.Debug("Command run")

	limit, ok := line.getNumber()
	if !ok {
		limit = maxRunCycles
	}

	start := vm.Cycles
	for vm.ProcessCount() > 0 && int(vm.Cycles-start) < limit {
		vm.Tick()
	}
	fmt.Printf("stopped at cycle %d, %d processes live\n", vm.Cycles, vm.ProcessCount())
	return false, nil
}

func help(_ *cmdLine, _ *cpu.VM) (bool, error) {
	names := make([]string, len(cmdList))
	for i, c := range cmdList {
		names[i] = c.name
	}
	fmt.Println("commands: " + strings.Join(names, ", "))
	return false, nil
}

func quit(_ *cmdLine, _ *cpu.VM) (bool, error) {
	slog.Info("Command quit")
	return true, nil
}
