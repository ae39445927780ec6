package stats

import (
	"fmt"
	"log"

	"github.com/c9s/goprocinfo/linux"
	"github.com/docker/go-units"
)

// Stats is a snapshot of the host the service runs on. Callers use it to
// pick budgets that leave room for other work on the machine.
type Stats struct {
	MemStats  *linux.MemInfo `json:"mem_stats"`
	DiskStats *linux.Disk    `json:"disk_stats"`
	CpuStats  *linux.CPUStat `json:"cpu_stats"`
	LoadStats *linux.LoadAvg `json:"load_stats"`
	RunCount  int            `json:"run_count"`
}

func Get() *Stats {
	return &Stats{
		MemStats:  getMemoryInfo(),
		DiskStats: getDiskInfo(),
		CpuStats:  getCpuStats(),
		LoadStats: getLoadAverage(),
	}
}

func (s *Stats) MemTotalKb() uint64 {
	return s.MemStats.MemTotal
}

func (s *Stats) MemAvailableKb() uint64 {
	return s.MemStats.MemAvailable
}

func (s *Stats) MemUsedKb() uint64 {
	return s.MemStats.MemTotal - s.MemStats.MemAvailable
}

func (s *Stats) MemUsedPercent() float64 {
	if s.MemStats.MemTotal == 0 {
		return 0
	}
	return float64(s.MemUsedKb()) / float64(s.MemStats.MemTotal) * 100
}

func (s *Stats) DiskTotal() uint64 {
	return s.DiskStats.All
}

func (s *Stats) DiskFree() uint64 {
	return s.DiskStats.Free
}

func (s *Stats) DiskUsed() uint64 {
	return s.DiskStats.Used
}

func (s *Stats) CpuUsage() float64 {
	idle := s.CpuStats.Idle + s.CpuStats.IOWait
	nonIdle := s.CpuStats.User + s.CpuStats.Nice + s.CpuStats.System + s.CpuStats.IRQ + s.CpuStats.SoftIRQ + s.CpuStats.Steal
	total := idle + nonIdle

	if total == 0 {
		return 0.00
	}

	return (float64(total) - float64(idle)) / float64(total)
}

// String renders the snapshot with human-readable sizes.
func (s *Stats) String() string {
	return fmt.Sprintf("mem %s used, %s available of %s (%.1f%%) disk %s used, %s free of %s load %.2f runs %d",
		units.BytesSize(float64(s.MemUsedKb()*1024)),
		units.BytesSize(float64(s.MemAvailableKb()*1024)),
		units.BytesSize(float64(s.MemTotalKb()*1024)),
		s.MemUsedPercent(),
		units.BytesSize(float64(s.DiskUsed())),
		units.BytesSize(float64(s.DiskFree())),
		units.BytesSize(float64(s.DiskTotal())),
		s.LoadStats.Last1Min,
		s.RunCount,
	)
}

func getMemoryInfo() *linux.MemInfo {
	m, err := linux.ReadMemInfo("/proc/meminfo")
	if err != nil {
		log.Printf("[stats] reading /proc/meminfo: %v", err)
		return &linux.MemInfo{}
	}
	return m
}

func getDiskInfo() *linux.Disk {
	d, err := linux.ReadDisk("/")
	if err != nil {
		log.Printf("[stats] reading disk usage of /: %v", err)
		return &linux.Disk{}
	}
	return d
}

func getCpuStats() *linux.CPUStat {
	st, err := linux.ReadStat("/proc/stat")
	if err != nil {
		log.Printf("[stats] reading /proc/stat: %v", err)
		return &linux.CPUStat{}
	}
	return &st.CPUStatAll
}

func getLoadAverage() *linux.LoadAvg {
	l, err := linux.ReadLoadAvg("/proc/loadavg")
	if err != nil {
		log.Printf("[stats] reading /proc/loadavg: %v", err)
		return &linux.LoadAvg{}
	}
	return l
}
