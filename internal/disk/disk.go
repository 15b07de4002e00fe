/*
 * minios62 - Disk device driver: TSB store and chained-block filesystem.
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

// Package disk implements the TSB-addressed disk device driver: a
// directory track plus chained data blocks, matching the teacher's
// device-driver leaf packages (util/tape, util/card) in spirit but
// providing random-access block chains instead of sequential tape
// records.
package disk

import (
	"bytes"
	"fmt"
	"log/slog"
)

// Canonical geometry (spec.md section 3).
const (
	DefaultTracks  = 4
	DefaultSectors = 8
	DefaultBlocks  = 8
	DefaultDataLen = 60
)

type state int

const (
	unformatted state = iota
	formatted
)

type record struct {
	active bool
	header int
	data   []byte
}

// Disk is the TSB-addressed store and the filesystem built on top of it.
type Disk struct {
	tracks, sectors, blocks, dataLen int
	store                            [][][]record
	state                            state
	log                              *slog.Logger
	debug                            bool
}

// New creates an unformatted disk of the given geometry. TSB 0:0:0 (the
// Master Boot Record) is always active with a zeroed data field,
// independent of formatting state.
func New(tracks, sectors, blocks, dataLen int, log *slog.Logger) *Disk {
	if log == nil {
		log = slog.Default()
	}
	d := &Disk{tracks: tracks, sectors: sectors, blocks: blocks, dataLen: dataLen, log: log}
	d.store = make([][][]record, tracks)
	for t := range d.store {
		d.store[t] = make([][]record, sectors)
		for s := range d.store[t] {
			d.store[t][s] = make([]record, blocks)
			for b := range d.store[t][s] {
				d.store[t][s][b] = record{data: make([]byte, dataLen)}
			}
		}
	}
	d.store[0][0][0] = record{active: true, header: HeaderMasterBlock, data: make([]byte, dataLen)}
	return d
}

func (d *Disk) rec(t TSB) *record {
	return &d.store[t.Track][t.Sector][t.Block]
}

// Debug implements device.Device, letting the shell's "set debug" command
// raise or lower this driver's trace verbosity without a restart.
func (d *Disk) Debug(option string) error {
	switch option {
	case "on":
		d.debug = true
	case "off":
		d.debug = false
	default:
		return fmt.Errorf("disk debug option invalid: %s", option)
	}
	return nil
}

// trace logs at Info when debug mode is on, Debug otherwise.
func (d *Disk) trace(msg string, args ...any) {
	if d.debug {
		d.log.Info(msg, args...)
		return
	}
	d.log.Debug(msg, args...)
}

// Format writes zero records to every TSB except the MBR and marks the
// disk formatted.
func (d *Disk) Format() {
	d.zeroAllButMBR(true)
	d.state = formatted
	d.trace("disk formatted")
}

// FormatQuick resets active flags and headers but leaves data bytes
// untouched (except the MBR, which is never touched).
func (d *Disk) FormatQuick() {
	d.zeroAllButMBR(false)
	d.state = formatted
	d.trace("disk quick-formatted")
}

func (d *Disk) zeroAllButMBR(clearData bool) {
	for t := 0; t < d.tracks; t++ {
		for s := 0; s < d.sectors; s++ {
			for b := 0; b < d.blocks; b++ {
				if t == 0 && s == 0 && b == 0 {
					continue
				}
				r := &d.store[t][s][b]
				r.active = false
				r.header = HeaderUnlinked
				if clearData {
					for i := range r.data {
						r.data[i] = 0
					}
				}
			}
		}
	}
}

// Formatted reports whether the disk is ready for file operations.
func (d *Disk) Formatted() bool {
	return d.state == formatted
}

func (d *Disk) requireFormatted() error {
	if d.state != formatted {
		return ErrNotFormatted
	}
	return nil
}

func (d *Disk) encodeName(name string) ([]byte, error) {
	if len(name) > d.dataLen {
		return nil, ErrNameTooLong
	}
	enc := make([]byte, d.dataLen)
	copy(enc, name)
	for i := len(name); i < d.dataLen; i++ {
		enc[i] = '0'
	}
	return enc, nil
}

func decodeName(data []byte) string {
	return string(bytes.TrimRight(data, "0"))
}

// findDirEntry returns the TSB of the first active directory record, in
// TSB order, whose data matches the encoded filename, and whether one
// was found.
func (d *Disk) findDirEntry(encoded []byte) (TSB, bool) {
	for s := 0; s < d.sectors; s++ {
		for b := 0; b < d.blocks; b++ {
			tsb := TSB{Track: 0, Sector: s, Block: b}
			r := d.rec(tsb)
			if r.active && bytes.Equal(r.data, encoded) {
				return tsb, true
			}
		}
	}
	return TSB{}, false
}

func (d *Disk) findFreeDirEntry() (TSB, bool) {
	for s := 0; s < d.sectors; s++ {
		for b := 0; b < d.blocks; b++ {
			tsb := TSB{Track: 0, Sector: s, Block: b}
			if !d.rec(tsb).active {
				return tsb, true
			}
		}
	}
	return TSB{}, false
}

// dataBlockCount is the number of addressable data blocks across tracks 1..T-1.
func (d *Disk) dataBlockCount() int {
	return (d.tracks - 1) * d.sectors * d.blocks
}

func (d *Disk) dataTSBAt(index int) TSB {
	perTrack := d.sectors * d.blocks
	t := 1 + index/perTrack
	rem := index % perTrack
	return TSB{Track: t, Sector: rem / d.blocks, Block: rem % d.blocks}
}

func (d *Disk) dataIndexOf(tsb TSB) int {
	perTrack := d.sectors * d.blocks
	return (tsb.Track-1)*perTrack + tsb.Sector*d.blocks + tsb.Block
}

func (d *Disk) findFreeDataBlock() (TSB, bool) {
	count := d.dataBlockCount()
	for i := 0; i < count; i++ {
		tsb := d.dataTSBAt(i)
		if !d.rec(tsb).active {
			return tsb, true
		}
	}
	return TSB{}, false
}

// findNextFreeDataBlock searches forward from (and excluding) cur,
// preferentially adjacent, wrapping upward through the data tracks but
// never onto track 0.
func (d *Disk) findNextFreeDataBlock(cur TSB) (TSB, bool) {
	count := d.dataBlockCount()
	start := d.dataIndexOf(cur)
	for i := 1; i <= count; i++ {
		idx := (start + i) % count
		tsb := d.dataTSBAt(idx)
		if !d.rec(tsb).active {
			return tsb, true
		}
	}
	return TSB{}, false
}

// deactivateChain walks the chain starting at header, deactivating every
// visited block (data left intact) until the terminator. A header of
// HeaderUnlinked or HeaderTerminator means there is nothing to do.
func (d *Disk) deactivateChain(header int) {
	for header != HeaderTerminator && header != HeaderUnlinked {
		tsb := FromHeader(header)
		r := d.rec(tsb)
		next := r.header
		r.active = false
		header = next
	}
}

// Create adds a new, empty file to the directory.
func (d *Disk) Create(filename string) error {
	if err := d.requireFormatted(); err != nil {
		return err
	}
	encoded, err := d.encodeName(filename)
	if err != nil {
		return err
	}
	if _, found := d.findDirEntry(encoded); found {
		return ErrNameInUse
	}
	block, ok := d.findFreeDataBlock()
	if !ok {
		return ErrNoSpace
	}
	entry, ok := d.findFreeDirEntry()
	if !ok {
		return ErrNoSpace
	}
	*d.rec(entry) = record{active: true, header: block.Header(), data: encoded}
	*d.rec(block) = record{active: true, header: HeaderTerminator, data: d.rec(block).data}
	d.trace("created file", "name", filename)
	return nil
}

// Read returns a file's full contents (ASCII-padded to a multiple of
// the block data length).
func (d *Disk) Read(filename string) ([]byte, error) {
	if err := d.requireFormatted(); err != nil {
		return nil, err
	}
	encoded, err := d.encodeName(filename)
	if err != nil {
		return nil, err
	}
	entry, found := d.findDirEntry(encoded)
	if !found {
		return nil, ErrNotFound
	}
	var out []byte
	header := d.rec(entry).header
	seen := 0
	limit := d.tracks * d.sectors * d.blocks
	for header != HeaderTerminator {
		if seen > limit {
			// Defensive only: chains are built so they cannot cycle.
			break
		}
		seen++
		tsb := FromHeader(header)
		r := d.rec(tsb)
		out = append(out, r.data...)
		header = r.header
	}
	return out, nil
}

// Write replaces a file's contents, extending or shrinking its chain as needed.
func (d *Disk) Write(filename string, data []byte) error {
	if err := d.requireFormatted(); err != nil {
		return err
	}
	encoded, err := d.encodeName(filename)
	if err != nil {
		return err
	}
	entry, found := d.findDirEntry(encoded)
	if !found {
		return ErrNotFound
	}

	numChunks := len(data) / d.dataLen
	if len(data)%d.dataLen != 0 {
		numChunks++
	}
	if numChunks == 0 {
		numChunks = 1
	}
	padded := make([]byte, numChunks*d.dataLen)
	n := copy(padded, data)
	for i := n; i < len(padded); i++ {
		padded[i] = '0'
	}

	cur := FromHeader(d.rec(entry).header)
	oldNext := d.rec(cur).header // chain link as it existed before this write
	for i := 0; i < numChunks; i++ {
		chunk := padded[i*d.dataLen : (i+1)*d.dataLen]
		r := d.rec(cur)
		r.active = true
		copy(r.data, chunk)
		if i < numChunks-1 {
			next, ok := d.findNextFreeDataBlock(cur)
			if !ok {
				return ErrNoSpace
			}
			r.header = next.Header()
			cur = next
		}
	}
	d.deactivateChain(oldNext)
	d.rec(cur).header = HeaderTerminator
	d.trace("wrote file", "name", filename, "bytes", len(data))
	return nil
}

// Delete removes a file: its directory entry and its whole block chain
// are deactivated (data left intact for forensic recovery after a quick
// format).
func (d *Disk) Delete(filename string) error {
	if err := d.requireFormatted(); err != nil {
		return err
	}
	encoded, err := d.encodeName(filename)
	if err != nil {
		return err
	}
	entry, found := d.findDirEntry(encoded)
	if !found {
		return ErrNotFound
	}
	d.deactivateChain(d.rec(entry).header)
	d.rec(entry).active = false
	d.trace("deleted file", "name", filename)
	return nil
}

// Copy duplicates an existing file's contents under a new name.
func (d *Disk) Copy(existing, newName string) error {
	contents, err := d.Read(existing)
	if err != nil {
		return err
	}
	if err := d.Create(newName); err != nil {
		return err
	}
	return d.Write(newName, contents)
}

// Rename changes a file's directory entry without touching its data
// blocks. Renaming to an already-used name fails, matching Create's
// uniqueness rule (an Open Question in spec.md, resolved here per its
// recommended behavior).
func (d *Disk) Rename(oldName, newName string) error {
	if err := d.requireFormatted(); err != nil {
		return err
	}
	oldEncoded, err := d.encodeName(oldName)
	if err != nil {
		return err
	}
	entry, found := d.findDirEntry(oldEncoded)
	if !found {
		return ErrNotFound
	}
	newEncoded, err := d.encodeName(newName)
	if err != nil {
		return err
	}
	if oldName != newName {
		if _, inUse := d.findDirEntry(newEncoded); inUse {
			return ErrNameInUse
		}
	}
	copy(d.rec(entry).data, newEncoded)
	return nil
}

// List returns the decoded filenames of every active directory entry,
// in TSB order, including hidden (dot-prefixed) files. Hidden-file
// filtering for "ls" vs "ls -a" is the shell's job (spec.md section 6).
func (d *Disk) List() ([]string, error) {
	if err := d.requireFormatted(); err != nil {
		return nil, err
	}
	var names []string
	for s := 0; s < d.sectors; s++ {
		for b := 0; b < d.blocks; b++ {
			tsb := TSB{Track: 0, Sector: s, Block: b}
			r := d.rec(tsb)
			if r.active && !(tsb == (TSB{0, 0, 0})) {
				names = append(names, decodeName(r.data))
			}
		}
	}
	return names, nil
}
