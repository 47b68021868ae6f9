package tui

import (
	"sync/atomic"
	"time"
)

// durationRing keeps the most recent read latencies; the footer shows
// last, windowed average and windowed max.
type durationRing struct {
	buf   []time.Duration
	last  time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.last = d
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	st := durationStats{last: r.last}
	var sum time.Duration
	for _, d := range r.buf[:r.count] {
		sum += d
		if d > st.max {
			st.max = d
		}
	}
	st.avg = sum / time.Duration(r.count)
	return st
}

// samplerStats tracks the acquisition loop for the debug footer: how many
// ticks landed, how many were skipped because the source was unreadable,
// and how long each read took.
type samplerStats struct {
	enabled atomic.Bool

	startedNs atomic.Int64
	ticks     atomic.Uint64
	skips     atomic.Uint64
	discards  atomic.Uint64

	acquire *durationRing
}

func newSamplerStats(window int) *samplerStats {
	s := &samplerStats{acquire: newDurationRing(window)}
	s.startedNs.Store(time.Now().UnixNano())
	return s
}

func (s *samplerStats) setEnabled(v bool) { s.enabled.Store(v) }
func (s *samplerStats) isEnabled() bool   { return s.enabled.Load() }

func (s *samplerStats) observeTick(d time.Duration) {
	if !s.isEnabled() {
		return
	}
	s.ticks.Add(1)
	s.acquire.add(d)
}

func (s *samplerStats) observeSkip() {
	if !s.isEnabled() {
		return
	}
	s.skips.Add(1)
}

func (s *samplerStats) observeDiscard() {
	if !s.isEnabled() {
		return
	}
	s.discards.Add(1)
}

type statsSnapshot struct {
	uptime   time.Duration
	ticks    uint64
	skips    uint64
	discards uint64
	acquire  durationStats
}

func (s *samplerStats) snapshot() statsSnapshot {
	if !s.isEnabled() {
		return statsSnapshot{}
	}
	return statsSnapshot{
		uptime:   time.Since(time.Unix(0, s.startedNs.Load())),
		ticks:    s.ticks.Load(),
		skips:    s.skips.Load(),
		discards: s.discards.Load(),
		acquire:  s.acquire.snapshot(),
	}
}
