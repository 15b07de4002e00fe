/*
 * minios62 - Shell: command parser and table for the core-visible
 * command set of spec.md section 6.
 *
 * Copyright 2026, Richard Cornwell
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

// Package shell is the command shell spec.md section 1 scopes out of
// the core as an external collaborator: a line parser plus a table of
// commands dispatched against a *kernel.Kernel, adapted from the
// teacher's command/parser (cmdList-of-structs, minimum-prefix name
// matching) but working over this domain's much smaller verb set
// instead of device attach/set/show.
package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/minios62/internal/kernel"
	"github.com/rcornwell/minios62/internal/pcb"
	"github.com/rcornwell/minios62/internal/scheduler"
	"github.com/rcornwell/minios62/util/hex"
)

// StdOut is where command output is printed. Unlike the CPU's and
// Scheduler's narrower StdOut interfaces (PutText only, for syscall and
// trap-message output), the shell drives the full spec.md section 6
// terminal contract: it tracks the cursor column so an interactive
// session never double-breaks or runs two results together on one line.
type StdOut interface {
	PutText(s string)
	AdvanceLine()
	ClearScreen()
	ResetXY()
	CurrentXPosition() int
}

// printLine writes s followed by a line break, the shell's one spot for
// turning a result string into a terminal line instead of hand-appending
// "\n" at every call site.
func printLine(out StdOut, s string) {
	out.PutText(s)
	out.AdvanceLine()
}

type cmd struct {
	name    string
	min     int
	process func(args []string, k *kernel.Kernel, out StdOut) (bool, error)
}

// cmdList is the core-visible command table of spec.md section 6, plus
// "examine", "cls", "set debug", "help", and "quit", which the shell
// adds on top of the core command set.
var cmdList = []cmd{
	{name: "load", min: 2, process: cmdLoad},
	{name: "run", min: 3, process: cmdRun},
	{name: "runall", min: 4, process: cmdRunAll},
	{name: "ps", min: 2, process: cmdPS},
	{name: "kill", min: 2, process: cmdKill},
	{name: "killall", min: 5, process: cmdKillAll},
	{name: "clearmem", min: 6, process: cmdClearMem},
	{name: "quantum", min: 2, process: cmdQuantum},
	{name: "getschedule", min: 4, process: cmdGetSchedule},
	{name: "setschedule", min: 4, process: cmdSetSchedule},
	{name: "format", min: 3, process: cmdFormat},
	{name: "create", min: 2, process: cmdCreate},
	{name: "read", min: 2, process: cmdRead},
	{name: "write", min: 2, process: cmdWrite},
	{name: "delete", min: 3, process: cmdDelete},
	{name: "copy", min: 2, process: cmdCopy},
	{name: "rename", min: 3, process: cmdRename},
	{name: "ls", min: 2, process: cmdLs},
	{name: "examine", min: 2, process: cmdExamine},
	{name: "cls", min: 3, process: cmdCls},
	{name: "set", min: 3, process: cmdSet},
	{name: "help", min: 1, process: cmdHelp},
	{name: "quit", min: 1, process: cmdQuit},
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var exact *cmd
	var prefix []cmd
	for i := range cmdList {
		c := cmdList[i]
		if c.name == name {
			exact = &c
			continue
		}
		if len(name) >= c.min && strings.HasPrefix(c.name, name) {
			prefix = append(prefix, c)
		}
	}
	if exact != nil {
		return []cmd{*exact}
	}
	return prefix
}

// Dispatch tokenizes and runs one command line against k, printing
// results and errors to out. It reports whether the shell should exit.
func Dispatch(line string, k *kernel.Kernel, out StdOut) (bool, error) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return false, nil
	}
	name := strings.ToLower(tokens[0])
	args := tokens[1:]

	matches := matchList(name)
	switch len(matches) {
	case 0:
		return false, fmt.Errorf("command not found: %s", name)
	case 1:
		return matches[0].process(args, k, out)
	default:
		return false, fmt.Errorf("ambiguous command: %s", name)
	}
}

// CompleteCmd lists command names usable for liner's tab completion.
func CompleteCmd(line string) []string {
	name := strings.ToLower(strings.TrimSpace(line))
	var names []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, name) {
			names = append(names, c.name)
		}
	}
	sort.Strings(names)
	return names
}

// tokenize splits a command line on whitespace, treating a
// double-quoted run as a single token (so "write foo \"hello world\""
// passes the file's payload through intact).
func tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	hasToken := false

	flush := func() {
		if hasToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	flush()
	return tokens
}

func cmdLoad(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("load requires a hex program")
	}
	priority := uint(pcb.DefaultPriority)
	program := args[0]
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("load: invalid priority %q", args[1])
		}
		priority = uint(n)
	}
	p, err := k.Load(program, priority)
	if err != nil {
		return false, err
	}
	printLine(out, fmt.Sprintf("loaded pid %d", p.ProcessID))
	return false, nil
}

func cmdRun(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("run requires a pid")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("run: invalid pid %q", args[0])
	}
	return false, k.Run(pid)
}

func cmdRunAll(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	n := k.RunAll()
	printLine(out, fmt.Sprintf("enqueued %d process(es)", n))
	return false, nil
}

func cmdPS(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	for _, p := range k.PS() {
		printLine(out, fmt.Sprintf("%d %s", p.ProcessID, p.State))
	}
	return false, nil
}

func cmdKill(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("kill requires a pid")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("kill: invalid pid %q", args[0])
	}
	return false, k.Kill(pid)
}

func cmdKillAll(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	return false, k.KillAll()
}

func cmdClearMem(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	return false, k.ClearMem()
}

func cmdQuantum(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("quantum requires a count")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("quantum: invalid value %q", args[0])
	}
	return false, k.SetQuantum(n)
}

func cmdGetSchedule(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	printLine(out, k.GetSchedule().String())
	return false, nil
}

func cmdSetSchedule(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("setschedule requires an algorithm")
	}
	alg, err := parseAlgorithm(args[0])
	if err != nil {
		return false, err
	}
	k.SetSchedule(alg)
	return false, nil
}

func parseAlgorithm(s string) (scheduler.Algorithm, error) {
	switch strings.ToUpper(s) {
	case "ROUNDROBIN", "RR":
		return scheduler.RoundRobin, nil
	case "FCFS":
		return scheduler.FCFS, nil
	case "PRIORITY":
		return scheduler.Priority, nil
	default:
		return 0, fmt.Errorf("setschedule: unknown algorithm %q", s)
	}
}

func cmdFormat(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	quick := len(args) == 1 && args[0] == "-quick"
	k.Format(quick)
	return false, nil
}

func cmdCreate(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("create requires a filename")
	}
	return false, k.Create(args[0])
}

func cmdRead(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("read requires a filename")
	}
	data, err := k.Read(args[0])
	if err != nil {
		return false, err
	}
	printLine(out, string(data))
	return false, nil
}

func cmdWrite(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("write requires a filename and contents")
	}
	return false, k.Write(args[0], []byte(args[1]))
}

func cmdDelete(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("delete requires a filename")
	}
	return false, k.Delete(args[0])
}

func cmdCopy(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("copy requires an existing and a new filename")
	}
	return false, k.Copy(args[0], args[1])
}

func cmdRename(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("rename requires an old and a new filename")
	}
	return false, k.Rename(args[0], args[1])
}

func cmdLs(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	all := len(args) == 1 && args[0] == "-a"
	names, err := k.List()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if !all && strings.HasPrefix(name, ".") {
			continue
		}
		printLine(out, name)
	}
	return false, nil
}

// cmdExamine dumps a RAM-resident process's partition image 16 bytes
// to a line, in the style of the teacher's hex-formatted trace output.
func cmdExamine(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("examine requires a pid")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("examine: invalid pid %q", args[0])
	}
	dump, err := k.Examine(pid)
	if err != nil {
		return false, err
	}
	const perLine = 16
	for i := 0; i < len(dump); i += perLine {
		end := i + perLine
		if end > len(dump) {
			end = len(dump)
		}
		var b strings.Builder
		hex.FormatBytes(&b, true, dump[i:end])
		printLine(out, b.String())
	}
	return false, nil
}

// cmdCls clears the terminal and homes the cursor, wiring the StdOut
// collaborator's screen-control methods into a shell verb rather than
// leaving them reachable only through direct syscalls.
func cmdCls(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	out.ClearScreen()
	return false, nil
}

func cmdSet(args []string, k *kernel.Kernel, out StdOut) (bool, error) {
	if len(args) != 2 || args[0] != "debug" {
		return false, errors.New(`set: usage "set debug on|off"`)
	}
	switch args[1] {
	case "on":
		return false, k.SetDebug(true)
	case "off":
		return false, k.SetDebug(false)
	default:
		return false, fmt.Errorf("set debug: invalid option %q", args[1])
	}
}

func cmdHelp(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	names := make([]string, len(cmdList))
	for i, c := range cmdList {
		names[i] = c.name
	}
	sort.Strings(names)
	printLine(out, strings.Join(names, " "))
	return false, nil
}

func cmdQuit(_ []string, k *kernel.Kernel, out StdOut) (bool, error) {
	return true, nil
}
