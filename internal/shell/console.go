/*
 * minios62 - Interactive console loop.
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

package shell

import (
	"errors"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/rcornwell/minios62/internal/kernel"
)

// Console runs the liner-backed read-eval-print loop, adapted from the
// teacher's command/reader.ConsoleReader.
func Console(k *kernel.Kernel, out StdOut, prompt string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return CompleteCmd(partial)
	})

	for {
		command, err := line.Prompt(prompt)
		if err == nil {
			// liner owns the terminal while editing the line and already
			// echoed the user's newline on Enter; resync our column
			// tracker instead of assuming it followed along.
			out.ResetXY()
			line.AppendHistory(command)
			quit, dispatchErr := Dispatch(command, k, out)
			if dispatchErr != nil {
				if out.CurrentXPosition() != 0 {
					out.AdvanceLine()
				}
				printLine(out, "Error: "+dispatchErr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line", "error", err)
		return
	}
}
