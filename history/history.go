// Package history stores the bounded, time-ordered sequence of meminfo
// snapshots that every other component reads from.
package history

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

var (
	// ErrOutOfOrder is returned by Append for a snapshot whose monotonic
	// time does not strictly exceed the last stored one.
	ErrOutOfOrder = errors.New("snapshot out of order")
	// ErrEmptyHistory is returned by queries made before any snapshot
	// has been recorded.
	ErrEmptyHistory = errors.New("no snapshots recorded")
)

// Snapshot is one timestamped reading of all tracked fields.
// Values are bytes, keyed by the /proc/meminfo field name.
type Snapshot struct {
	Mono   float64 // seconds since run start, monotonic
	Wall   time.Time
	Values map[string]int64
}

// DefaultMaxSamples bounds retained history. 600 columns is more than any
// terminal shows, and with compaction enabled it stretches to about a day.
const DefaultMaxSamples = 600

// retentionSec caps how far back compacted history reaches.
const retentionSec = 24 * 60 * 60

// compactionFactors is the cycle of down-sampling multipliers applied each
// time compaction triggers. Starting from a 1s cadence the resulting bucket
// widths step through 5s, 15s, 30s, 1m, 5m, 15m, 30m, 1h, 4h, 12h, 1d, ...
var compactionFactors = []int{5, 3, 2, 2, 5, 3, 2, 2, 4, 3, 2, 2, 2, 2}

// Store is an append-only ring of snapshots, oldest first.
//
// The baseline policy is a plain bounded ring: on overflow the oldest
// snapshot is dropped. With WithCompaction the store instead down-samples
// the whole sequence (keeping every Nth snapshot) so that total wall-clock
// coverage can exceed maxSamples at degraded resolution, up to 24h.
type Store struct {
	snaps      []Snapshot
	maxSamples int

	compact bool
	compIdx int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxSamples overrides the retained snapshot bound.
func WithMaxSamples(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSamples = n
		}
	}
}

// WithCompaction switches overflow handling from drop-oldest to
// down-sampling.
func WithCompaction() Option {
	return func(s *Store) {
		s.compact = true
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		maxSamples: DefaultMaxSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records a snapshot, then trims history to the retention bound.
// Amortized O(1) in the baseline ring policy.
func (s *Store) Append(snap Snapshot) error {
	if n := len(s.snaps); n > 0 && snap.Mono <= s.snaps[n-1].Mono {
		return fmt.Errorf("%w: mono %.3f <= last %.3f",
			ErrOutOfOrder, snap.Mono, s.snaps[n-1].Mono)
	}
	s.snaps = append(s.snaps, snap)
	if len(s.snaps) <= s.maxSamples {
		return nil
	}
	if !s.compact {
		s.snaps = s.snaps[len(s.snaps)-s.maxSamples:]
		return nil
	}
	s.prune(snap.Mono)
	if len(s.snaps) > s.maxSamples {
		s.downsample()
	}
	return nil
}

// prune drops snapshots older than the retention horizon.
func (s *Store) prune(nowMono float64) {
	cutoff := nowMono - retentionSec
	i := 0
	for len(s.snaps)-i > s.maxSamples && s.snaps[i].Mono < cutoff {
		i++
	}
	s.snaps = s.snaps[i:]
}

// downsample keeps every factor-th snapshot. The live-edge snapshot is
// outside the compacted region and always survives; only older data
// loses resolution.
func (s *Store) downsample() {
	factor := compactionFactors[s.compIdx%len(compactionFactors)]
	newest := s.snaps[len(s.snaps)-1]
	kept := s.snaps[:0]
	for i := 0; i < len(s.snaps)-1; i += factor {
		kept = append(kept, s.snaps[i])
	}
	s.snaps = append(kept, newest)
	s.compIdx++
}

// Len reports the number of retained snapshots.
func (s *Store) Len() int { return len(s.snaps) }

// Earliest returns the oldest retained snapshot.
func (s *Store) Earliest() (Snapshot, error) {
	if len(s.snaps) == 0 {
		return Snapshot{}, ErrEmptyHistory
	}
	return s.snaps[0], nil
}

// Latest returns the newest retained snapshot.
func (s *Store) Latest() (Snapshot, error) {
	if len(s.snaps) == 0 {
		return Snapshot{}, ErrEmptyHistory
	}
	return s.snaps[len(s.snaps)-1], nil
}

// Range yields snapshots with mono time in [from, to), ascending.
// The sequence is restartable and never mutates the store.
func (s *Store) Range(from, to float64) iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for _, snap := range s.snaps {
			if snap.Mono < from {
				continue
			}
			if snap.Mono >= to {
				return
			}
			if !yield(snap) {
				return
			}
		}
	}
}

// At returns the i-th retained snapshot, oldest first.
func (s *Store) At(i int) Snapshot { return s.snaps[i] }

// LastBefore returns the index of the newest snapshot with mono time in
// [from, to), or -1 if none falls inside. Binary search over the ordered
// sequence.
func (s *Store) LastBefore(from, to float64) int {
	// first index with mono >= to
	lo, hi := 0, len(s.snaps)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.snaps[mid].Mono < to {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	i := lo - 1
	if i < 0 || s.snaps[i].Mono < from {
		return -1
	}
	return i
}

// DumpAll returns a copy of the full ordered history for export.
func (s *Store) DumpAll() []Snapshot {
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}
