package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU: filepath.Join(dir, "cpu.pprof"),
		Mem: filepath.Join(dir, "mem.pprof"),
	}
	if !opts.Enabled() {
		t.Fatal("options should be enabled")
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	for _, p := range []string{opts.CPU, opts.Mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing profile %s: %v", p, err)
		}
	}
}

func TestNilSessionStop(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil Stop = %v", err)
	}
	if (Options{}).Enabled() {
		t.Fatal("empty options should be disabled")
	}
}
