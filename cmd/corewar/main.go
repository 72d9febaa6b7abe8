/*
 * Core War - Command line front end.
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

// Command corewar is the library's front end: an "asm" subcommand that
// compiles champion source into the binary wire format, and a "run"
// subcommand that loads compiled champions into a VM and either drives it
// to completion or hands it to the observer console.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/corewar/command/reader"
	"github.com/rcornwell/corewar/emu/assemble"
	"github.com/rcornwell/corewar/emu/cpu"
	"github.com/rcornwell/corewar/emu/header"
	"github.com/rcornwell/corewar/emu/opcodemap"
	logger "github.com/rcornwell/corewar/util/logger"
)

var Logger *slog.Logger

func main() {
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	Logger = slog.New(logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debug))
	slog.SetDefault(Logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "asm":
		err = runAsm(os.Args[2:])
	case "run":
		err = runMatch(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "corewar: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: corewar asm -o out.cor champion.s")
	fmt.Fprintln(os.Stderr, "       corewar run [--max-cycles n] [-i] champ1.cor[=id] [champ2.cor[=id] ...]")
}

// runAsm implements the "asm" subcommand: source in, champion binary out.
func runAsm(args []string) error {
	optOut := getopt.StringLong("output", 'o', "out.cor", "Output champion file")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	os.Args = append([]string{"corewar asm"}, args...)
	getopt.Parse()
	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	rest := getopt.Args()
	if len(rest) != 1 {
		return fmt.Errorf("asm: expected exactly one champion source file")
	}

	src, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("asm: read %s: %w", rest[0], err)
	}

	Logger.Info("assembling " + rest[0])
	compiled, err := assembler.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("asm: compile %s: %w", rest[0], err)
	}

	if err := os.WriteFile(*optOut, compiled, 0o644); err != nil {
		return fmt.Errorf("asm: write %s: %w", *optOut, err)
	}
	Logger.Info(fmt.Sprintf("wrote %s (%d bytes)", *optOut, len(compiled)))
	return nil
}

// runMatch implements the "run" subcommand: load champion binaries, play
// the match to completion (or hand it off to the interactive console).
func runMatch(args []string) error {
	optMaxCycles := getopt.IntLong("max-cycles", 'm', 0, "Maximum cycles to run, 0 for unbounded")
	optInteractive := getopt.BoolLong("interactive", 'i', "Start the observer console instead of running to completion")
	optHelp := getopt.BoolLong("help", 'h', "Help")

	os.Args = append([]string{"corewar run"}, args...)
	getopt.Parse()
	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	rest := getopt.Args()
	if len(rest) == 0 {
		return fmt.Errorf("run: expected at least one champion binary")
	}
	if len(rest) > opcodemap.MaxPlayers {
		return fmt.Errorf("run: too many champions (%d), max %d", len(rest), opcodemap.MaxPlayers)
	}

	entries := make([]cpu.ChampionEntry, 0, len(rest))
	for idx, spec := range rest {
		path, id := splitChampionSpec(spec, int32(idx+1))

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("run: read %s: %w", path, err)
		}
		if len(raw) < opcodemap.HeaderSize {
			return fmt.Errorf("run: %s: truncated champion header", path)
		}

		hdr, err := header.Parse(raw)
		if err != nil {
			return fmt.Errorf("run: %s: %w", path, err)
		}
		code := raw[opcodemap.HeaderSize : opcodemap.HeaderSize+int(hdr.Size)]

		Logger.Info(fmt.Sprintf("loaded %s as player %d: %q", path, id, hdr.Name))
		entries = append(entries, cpu.ChampionEntry{ID: id, Name: hdr.Name, Comment: hdr.Comment, Code: code})
	}

	vm := cpu.New()
	vm.LoadPlayers(entries)

	if *optInteractive {
		reader.ConsoleReader(vm)
		return nil
	}

	limit := *optMaxCycles
	for vm.ProcessCount() > 0 && (limit <= 0 || int(vm.Cycles) < limit) {
		vm.Tick()
	}

	fmt.Printf("match ended at cycle %d\n", vm.Cycles)
	for i, p := range vm.Players {
		fmt.Printf("%d: %-16s procs=%-4d last_live=%d\n",
			p.ID, p.Name, vm.ProcessCountForOwner(i), vm.LastLive(i))
	}

	winner := -1
	for i, p := range vm.Players {
		if winner < 0 || vm.LastLive(i) > vm.LastLive(winner) ||
			(vm.LastLive(i) == vm.LastLive(winner) && p.ID < vm.Players[winner].ID) {
			winner = i
		}
	}
	if winner >= 0 {
		fmt.Printf("winner: %d %s\n", vm.Players[winner].ID, vm.Players[winner].Name)
	}
	return nil
}

// splitChampionSpec parses a "file.cor" or "file.cor=id" argument, falling
// back to def when no id is given.
func splitChampionSpec(spec string, def int32) (path string, id int32) {
	if i := strings.LastIndexByte(spec, '='); i >= 0 {
		if n, err := strconv.ParseInt(spec[i+1:], 10, 32); err == nil {
			return spec[:i], int32(n)
		}
	}
	return spec, def
}
