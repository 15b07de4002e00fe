package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/minios62/internal/scheduler"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "minios62.cfg")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultMatchesCanonicalMemoryModel(t *testing.T) {
	cfg := Default()
	if cfg.PartitionSize != 256 || cfg.PartitionCount != 3 {
		t.Fatalf("Default() = %+v, want the canonical 3*256=768 memory model", cfg)
	}
}

func TestLoadAppliesRecognizedKeys(t *testing.T) {
	path := writeTempConfig(t, `
# a comment line
partitionsize = 128
partitioncount = 8
quantum = 4
algorithm = FCFS
logfile = minios62.log
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PartitionSize != 128 || cfg.PartitionCount != 8 || cfg.Quantum != 4 {
		t.Fatalf("cfg = %+v, want overridden sizes", cfg)
	}
	if cfg.Algorithm != scheduler.FCFS {
		t.Fatalf("cfg.Algorithm = %v, want FCFS", cfg.Algorithm)
	}
	if cfg.LogFile != "minios62.log" {
		t.Fatalf("cfg.LogFile = %q, want minios62.log", cfg.LogFile)
	}
}

func TestLoadTolerantOfUnknownKeys(t *testing.T) {
	path := writeTempConfig(t, "bogus = 1\npartitionsize = 64\n")
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v, want no error for unknown key", err)
	}
	if cfg.PartitionSize != 64 {
		t.Fatalf("cfg.PartitionSize = %d, want 64", cfg.PartitionSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.cfg"), nil); err == nil {
		t.Fatalf("Load() error = nil, want an error for a missing file")
	}
}

func TestLoadUnknownAlgorithmWarnsAndKeepsDefault(t *testing.T) {
	path := writeTempConfig(t, "algorithm = BOGUS\n")
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Algorithm != scheduler.RoundRobin {
		t.Fatalf("cfg.Algorithm = %v, want default RoundRobin", cfg.Algorithm)
	}
}
