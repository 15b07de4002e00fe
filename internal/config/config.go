/*
 * minios62 - Configuration file parser.
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

// Package config is a small line-oriented parser in the style of
// config/configparser, shrunk down from that package's device-model
// grammar to this simulator's much smaller settings surface: '#'
// comments, "key = value" pairs, unknown keys are a soft warning rather
// than a fatal error.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/kernel"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/scheduler"
)

// Config holds every setting the shell/kernel care about at startup.
type Config struct {
	PartitionSize  int
	PartitionCount int
	DiskTracks     int
	DiskSectors    int
	DiskBlocks     int
	DiskDataLen    int
	Quantum        int
	Algorithm      scheduler.Algorithm
	LogFile        string
}

// Default returns the built-in defaults, used when no config file is
// given or a key is left unset: the canonical 3*256=768-byte memory
// model of spec.md's example configuration.
func Default() Config {
	return Config{
		PartitionSize:  memory.DefaultPartitionSize,
		PartitionCount: memory.DefaultPartitionCount,
		DiskTracks:     disk.DefaultTracks,
		DiskSectors:    disk.DefaultSectors,
		DiskBlocks:     disk.DefaultBlocks,
		DiskDataLen:    disk.DefaultDataLen,
		Quantum:        scheduler.DefaultQuantum,
		Algorithm:      scheduler.RoundRobin,
	}
}

// KernelConfig adapts this package's Config to kernel.Config.
func (c Config) KernelConfig() kernel.Config {
	return kernel.Config{
		PartitionSize:  c.PartitionSize,
		PartitionCount: c.PartitionCount,
		DiskTracks:     c.DiskTracks,
		DiskSectors:    c.DiskSectors,
		DiskBlocks:     c.DiskBlocks,
		DiskDataLen:    c.DiskDataLen,
		Quantum:        c.Quantum,
		Algorithm:      c.Algorithm,
	}
}

func parseAlgorithm(s string) (scheduler.Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROUNDROBIN", "ROUND_ROBIN", "ROUND ROBIN", "RR":
		return scheduler.RoundRobin, nil
	case "FCFS":
		return scheduler.FCFS, nil
	case "PRIORITY":
		return scheduler.Priority, nil
	default:
		return 0, fmt.Errorf("unknown scheduling algorithm: %s", s)
	}
}

// Load reads a config file into cfg (starting from Default), applying
// each recognized "key = value" line and warning on unrecognized keys.
func Load(path string, log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warn("config: malformed line, expected key = value", "line", lineNumber)
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := apply(&cfg, key, value); err != nil {
			log.Warn("config: ignoring line", "line", lineNumber, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

func apply(cfg *Config, key, value string) error {
	switch key {
	case "partitionsize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.PartitionSize = n
	case "partitioncount":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.PartitionCount = n
	case "disktracks":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.DiskTracks = n
	case "disksectors":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.DiskSectors = n
	case "diskblocks":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.DiskBlocks = n
	case "diskdatalen":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.DiskDataLen = n
	case "quantum":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Quantum = n
	case "algorithm":
		a, err := parseAlgorithm(value)
		if err != nil {
			return err
		}
		cfg.Algorithm = a
	case "logfile":
		cfg.LogFile = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
