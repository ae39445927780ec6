package stats

import (
	"strings"
	"testing"

	"github.com/c9s/goprocinfo/linux"
)

func TestDerivedValues(t *testing.T) {
	s := &Stats{
		MemStats:  &linux.MemInfo{MemTotal: 1000, MemAvailable: 250},
		DiskStats: &linux.Disk{All: 4096, Free: 1024, Used: 3072},
		CpuStats:  &linux.CPUStat{User: 30, System: 10, Idle: 50, IOWait: 10},
		LoadStats: &linux.LoadAvg{Last1Min: 0.5},
	}

	if s.MemUsedKb() != 750 {
		t.Errorf("expected 750 KiB used, got %d", s.MemUsedKb())
	}
	if s.MemUsedPercent() != 75 {
		t.Errorf("expected 75%% used, got %v", s.MemUsedPercent())
	}
	if got := s.CpuUsage(); got != 0.4 {
		t.Errorf("expected cpu usage 0.4, got %v", got)
	}
	summary := s.String()
	for _, want := range []string{"750KiB used", "250KiB available", "3KiB used", "1KiB free", "load 0.50"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected %q in summary, got %q", want, summary)
		}
	}
}

func TestZeroStats(t *testing.T) {
	s := &Stats{
		MemStats:  &linux.MemInfo{},
		DiskStats: &linux.Disk{},
		CpuStats:  &linux.CPUStat{},
		LoadStats: &linux.LoadAvg{},
	}

	if s.MemUsedPercent() != 0 || s.CpuUsage() != 0 {
		t.Errorf("expected zero usage for empty stats")
	}
}
