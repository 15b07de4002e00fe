/*
 * minios62 - Terminal output collaborator.
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

// Package stdout is the terminal I/O abstraction spec.md section 1 scopes
// out of the core as an external collaborator: a synchronous, in-process
// leaf with no network I/O (unlike the teacher's telnet package, which
// this one replaces for this simulator's much smaller surface).
package stdout

import (
	"io"
	"os"
	"sync"
)

// Terminal is the StdOut collaborator of spec.md section 6: putText,
// advanceLine, clearScreen, resetXY, and the currentXPosition column
// counter that syscall FF's X=2/X=3 string prints advance.
type Terminal struct {
	mu  sync.Mutex
	w   io.Writer
	col int
}

// New creates a Terminal writing to w. A nil w writes to os.Stdout.
func New(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stdout
	}
	return &Terminal{w: w}
}

// PutText writes s verbatim and advances the column counter, resetting
// it at each embedded newline.
func (t *Terminal) PutText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	io.WriteString(t.w, s)
	for _, r := range s {
		if r == '\n' {
			t.col = 0
		} else {
			t.col++
		}
	}
}

// AdvanceLine emits a newline and resets the column counter.
func (t *Terminal) AdvanceLine() {
	t.mu.Lock()
	defer t.mu.Unlock()
	io.WriteString(t.w, "\n")
	t.col = 0
}

// ClearScreen emits the ANSI clear-and-home sequence and resets the
// column counter.
func (t *Terminal) ClearScreen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	io.WriteString(t.w, "\x1b[2J\x1b[H")
	t.col = 0
}

// ResetXY resets the column counter without touching the screen.
func (t *Terminal) ResetXY() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.col = 0
}

// CurrentXPosition reports the current column, zero-based.
func (t *Terminal) CurrentXPosition() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.col
}
