// Package meminfo acquires snapshots of the kernel's memory counters.
// The primary source re-reads /proc/meminfo each tick; hosts without a
// readable procfs fall back to gopsutil.
package meminfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"memfo/history"
)

const procPath = "/proc/meminfo"

// Source produces one snapshot per sampling tick. A failed Read means the
// tick is skipped and retried on the next cadence; it is never fatal.
type Source interface {
	Read() (history.Snapshot, error)
	// Fields returns the field names in display order, as learned from
	// the first successful Read. Empty before then.
	Fields() []string
}

var lineRe = regexp.MustCompile(`^([^:]+):\s*(\d+)\s*(|kB)$`)

// parse decodes /proc/meminfo content into byte values plus the field
// order in which the kernel listed them.
func parse(r io.Reader, includeVmallocTotal bool) (map[string]int64, []string, error) {
	values := make(map[string]int64)
	var order []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := lineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		key := m[1]
		if key == "VmallocTotal" && !includeVmallocTotal {
			continue
		}
		val, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		if m[3] == "kB" {
			val *= 1024
		}
		values[key] = val
		order = append(order, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no counters parsed")
	}
	return values, order, nil
}

// ProcSource reads /proc/meminfo, keeping the file open across ticks and
// seeking back to the start for each read.
type ProcSource struct {
	f                   *os.File
	start               time.Time
	includeVmallocTotal bool
	fields              []string
}

func NewProcSource(includeVmallocTotal bool) (*ProcSource, error) {
	f, err := os.Open(procPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", procPath, err)
	}
	return &ProcSource{f: f, start: time.Now(), includeVmallocTotal: includeVmallocTotal}, nil
}

func (p *ProcSource) Read() (history.Snapshot, error) {
	if _, err := p.f.Seek(0, io.SeekStart); err != nil {
		return history.Snapshot{}, fmt.Errorf("seek %s: %w", procPath, err)
	}
	values, order, err := parse(p.f, p.includeVmallocTotal)
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("read %s: %w", procPath, err)
	}
	if p.fields == nil {
		p.fields = order
	}
	return history.Snapshot{
		Mono:   time.Since(p.start).Seconds(),
		Wall:   time.Now(),
		Values: values,
	}, nil
}

func (p *ProcSource) Fields() []string { return p.fields }

func (p *ProcSource) Close() error { return p.f.Close() }

// Open returns the procfs source when available, the gopsutil fallback
// otherwise.
func Open(includeVmallocTotal bool) (Source, error) {
	if src, err := NewProcSource(includeVmallocTotal); err == nil {
		return src, nil
	}
	return NewFallbackSource()
}
