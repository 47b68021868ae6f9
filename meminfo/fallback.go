package meminfo

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"memfo/history"
)

// fallbackFields is the subset of canonical /proc/meminfo names the
// cross-platform source can supply, in display order.
var fallbackFields = []string{
	"MemTotal",
	"MemFree",
	"MemAvailable",
	"Buffers",
	"Cached",
	"SwapCached",
	"Active",
	"Inactive",
	"SwapTotal",
	"SwapFree",
	"Dirty",
	"Writeback",
	"Slab",
	"Shmem",
	"CommitLimit",
	"Committed_AS",
}

// FallbackSource reports memory counters through gopsutil on hosts where
// /proc/meminfo is not readable.
type FallbackSource struct {
	start  time.Time
	fields []string
}

func NewFallbackSource() (*FallbackSource, error) {
	// Fail fast at startup rather than skipping every tick later.
	if _, err := mem.VirtualMemory(); err != nil {
		return nil, fmt.Errorf("virtual memory stats unavailable: %w", err)
	}
	return &FallbackSource{start: time.Now()}, nil
}

func (f *FallbackSource) Read() (history.Snapshot, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("virtual memory stats: %w", err)
	}
	swap, err := mem.SwapMemory()
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("swap stats: %w", err)
	}
	values := map[string]int64{
		"MemTotal":     int64(vm.Total),
		"MemFree":      int64(vm.Free),
		"MemAvailable": int64(vm.Available),
		"Buffers":      int64(vm.Buffers),
		"Cached":       int64(vm.Cached),
		"SwapCached":   int64(vm.SwapCached),
		"Active":       int64(vm.Active),
		"Inactive":     int64(vm.Inactive),
		"SwapTotal":    int64(swap.Total),
		"SwapFree":     int64(swap.Free),
		"Dirty":        int64(vm.Dirty),
		"Writeback":    int64(vm.WriteBack),
		"Slab":         int64(vm.Slab),
		"Shmem":        int64(vm.Shared),
		"CommitLimit":  int64(vm.CommitLimit),
		"Committed_AS": int64(vm.CommittedAS),
	}
	if f.fields == nil {
		f.fields = fallbackFields
	}
	return history.Snapshot{
		Mono:   time.Since(f.start).Seconds(),
		Wall:   time.Now(),
		Values: values,
	}, nil
}

func (f *FallbackSource) Fields() []string { return f.fields }
