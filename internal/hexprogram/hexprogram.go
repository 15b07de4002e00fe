/*
 * minios62 - Program image format: whitespace-separated hex byte tokens.
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

// Package hexprogram converts between a program image's in-memory byte
// slice and the external text format (spec.md section 6): whitespace
// separated two-character hex tokens, ASCII, case-insensitive. It is the
// one place both the shell's "load" command and the Memory Manager's
// disk swap-file format agree on.
package hexprogram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidToken is returned when a token isn't a two-character hex byte.
var ErrInvalidToken = errors.New("invalid hex token")

// Parse splits s on whitespace and decodes each token as a byte.
func Parse(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, tok := range fields {
		if len(tok) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, tok)
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, tok)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// Format renders a program image as space-separated upper-case hex tokens.
func Format(program []byte) string {
	var b strings.Builder
	for i, by := range program {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", by)
	}
	return b.String()
}
