/*
 * minios62 - Wrapper for slog
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

// Package logger is a logfmt-style slog.Handler for the kernel's
// component loggers (disk/memmgr/scheduler each get their own
// *slog.Logger via Component, i.e. With("component", name)): every line carries
// key=value attrs instead of just their bare values, so a log file can
// be grepped by component or field instead of only read top to bottom.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Handler formats records as logfmt and optionally echoes a subset of
// them to stderr for interactive runs.
type Handler struct {
	out     io.Writer
	level   slog.Leveler
	fields  []slog.Attr
	mu      *sync.Mutex
	verbose bool
}

// NewHandler builds a Handler writing to file (may be nil, meaning no
// log file was requested) honoring opts's level. *verbose, read once
// here when the handler is built, controls whether Debug-level records
// are also echoed to stderr; Info, Warn, and Error always are.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, verbose *bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		out:     file,
		level:   level,
		mu:      &sync.Mutex{},
		verbose: *verbose,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &Handler{out: h.out, level: h.level, mu: h.mu, verbose: h.verbose}
	next.fields = append(next.fields, h.fields...)
	next.fields = append(next.fields, attrs...)
	return next
}

func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}

// Handle renders one record as a single logfmt line: time, level, the
// handler's bound fields (e.g. component=disk), the message, then the
// record's own attrs, every field as key=value with values quoted when
// they contain whitespace.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	writeField(&b, "time", r.Time.Format("2006-01-02T15:04:05"))
	writeField(&b, "level", r.Level.String())
	for _, a := range h.fields {
		writeField(&b, a.Key, a.Value.String())
	}
	writeField(&b, "msg", r.Message)
	r.Attrs(func(a slog.Attr) bool {
		writeField(&b, a.Key, a.Value.String())
		return true
	})
	b.WriteByte('\n')
	line := b.String()

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = io.WriteString(h.out, line)
	}
	if h.verbose || r.Level > slog.LevelDebug {
		if _, werr := io.WriteString(os.Stderr, line); err == nil {
			err = werr
		}
	}
	return err
}

func writeField(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(key)
	b.WriteByte('=')
	if strings.ContainsAny(value, " \t\"") {
		b.WriteString(strconv.Quote(value))
	} else {
		b.WriteString(value)
	}
}

// Component returns a logger tagged with a "component" field, the way
// internal/kernel hands each subsystem (disk, memmgr, scheduler) its
// own named logger instead of sharing the kernel's bare one.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}
