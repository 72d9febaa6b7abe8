/*
 * Core War - Observer console command parser.
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

// Package parser implements the observer console's command language: a
// small set of read-only inspection commands plus step/run, matched by
// unique-prefix against a fixed command table.
package parser

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/corewar/emu/cpu"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *cpu.VM) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList []cmd

// cmdList is filled in init because help reads it; a package-level
// initializer would form an initialization cycle.
func init() {
	cmdList = []cmd{
		{name: "regs", min: 1, process: regs},
		{name: "mem", min: 1, process: mem},
		{name: "dis", min: 3, process: dis},
		{name: "players", min: 1, process: players},
		{name: "step", min: 2, process: step},
		{name: "run", min: 2, process: run},
		{name: "help", min: 1, process: help},
		{name: "quit", min: 1, process: quit},
	}
}

// ProcessCommand parses and executes one command line against vm. It
// returns true when the console should exit.
func ProcessCommand(commandLine string, vm *cpu.VM) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}

	return match[0].process(&line, vm)
}

// CompleteCmd returns the set of command names matching the partial line,
// for interactive tab completion.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	matches := make([]string, len(match))
	for i, m := range match {
		matches[i] = m.name
	}
	return matches
}

func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.name) {
		return false
	}
	l := 0
	for l = range len(command) {
		if match.name[l] != command[l] {
			return false
		}
	}
	return (l + 1) >= match.min
}

func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line)
}

func (line *cmdLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

// getWord returns the next run of letters, lower-cased.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}

	value := ""
	by := line.line[line.pos]
	for {
		if !unicode.IsLetter(rune(by)) {
			break
		}
		value += string(by)
		by = line.getNext()
		if line.isEOL() || unicode.IsSpace(rune(by)) {
			break
		}
	}
	return strings.ToLower(value)
}

// getNumber returns the next decimal or 0x-prefixed hex integer. ok is
// false when no number was present.
func (line *cmdLine) getNumber() (int, bool) {
	line.skipSpace()
	if line.isEOL() {
		return 0, false
	}

	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	text := line.line[start:line.pos]
	if text == "" {
		return 0, false
	}

	base := 10
	if strings.HasPrefix(text, "0x") {
		base = 16
		text = text[2:]
	}
	n, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		slog.Debug("invalid number in console command: " + text)
		return 0, false
	}
	return int(n), true
}
