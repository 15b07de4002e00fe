/*
 * minios62 - TSB (track/sector/block) addressing.
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

package disk

import "fmt"

// TSB is a track/sector/block address. Track and sector/block digits
// stay in [0,7] on the canonical geometry so the packed three-digit
// header representation ("000".."777") never collides with the 999
// chain-terminator sentinel.
type TSB struct {
	Track  int
	Sector int
	Block  int
}

// Special header-field values. A header's three decimal digits are
// track, sector, block, so 999 is never a real TSB and is safe as the
// chain terminator.
const (
	HeaderUnlinked    = 0
	HeaderTerminator  = 999
	HeaderMasterBlock = 0 // TSB 0:0:0, also header 000
)

// Header packs a TSB into its header-field encoding.
func (t TSB) Header() int {
	return t.Track*100 + t.Sector*10 + t.Block
}

// FromHeader unpacks a header-field value into a TSB.
func FromHeader(h int) TSB {
	return TSB{Track: h / 100, Sector: (h / 10) % 10, Block: h % 10}
}

func (t TSB) String() string {
	return fmt.Sprintf("%d:%d:%d", t.Track, t.Sector, t.Block)
}
