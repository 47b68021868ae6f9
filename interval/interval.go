// Package interval buckets retained history into fixed or adaptive time
// spans and reduces each span to one representative snapshot.
package interval

import (
	"math"
	"time"

	"memfo/history"
)

// Mode selects the column interval. Adaptive ("Var") stretches the whole
// retained history across the visible columns; the fixed widths align
// buckets to multiples of the width since run start.
type Mode int

const (
	Adaptive Mode = iota
	Fixed5s
	Fixed15s
	Fixed30s
	Fixed1m
	Fixed5m
	Fixed15m
	Fixed1h
)

// Modes returns all modes in spinner order.
func Modes() []Mode {
	return []Mode{Adaptive, Fixed5s, Fixed15s, Fixed30s, Fixed1m, Fixed5m, Fixed15m, Fixed1h}
}

// Width returns the fixed bucket width, or 0 for Adaptive.
func (m Mode) Width() time.Duration {
	switch m {
	case Fixed5s:
		return 5 * time.Second
	case Fixed15s:
		return 15 * time.Second
	case Fixed30s:
		return 30 * time.Second
	case Fixed1m:
		return time.Minute
	case Fixed5m:
		return 5 * time.Minute
	case Fixed15m:
		return 15 * time.Minute
	case Fixed1h:
		return time.Hour
	default:
		return 0
	}
}

// String returns the spinner label.
func (m Mode) String() string {
	switch m {
	case Fixed5s:
		return "5s"
	case Fixed15s:
		return "15s"
	case Fixed30s:
		return "30s"
	case Fixed1m:
		return "1m"
	case Fixed5m:
		return "5m"
	case Fixed15m:
		return "15m"
	case Fixed1h:
		return "1h"
	default:
		return "Var"
	}
}

// ModeFromString resolves a spinner label; unknown labels fall back to
// Adaptive.
func ModeFromString(s string) Mode {
	for _, m := range Modes() {
		if m.String() == s {
			return m
		}
	}
	return Adaptive
}

// Span is one bucket's half-open time range [Start, End).
type Span struct {
	Start, End float64
}

// Bucket is a span reduced to its representative snapshot.
type Bucket struct {
	Span
	Rep      history.Snapshot
	Empty    bool // no snapshot fell inside the span
	Complete bool // End <= now at reduce time
}

// Boundaries computes the ordered bucket spans for the given mode, from the
// bucket holding the earliest retained snapshot through the bucket holding
// now. An empty store yields no spans.
//
// Fixed mode boundaries are runStart + k*width; once a bucket has closed its
// span never changes on later calls. Adaptive mode divides [earliest, now]
// evenly across columnCount spans and is recomputed from scratch every call,
// so its boundaries shift as data arrives. That instability is the price of
// whole-history-at-a-glance coverage.
func Boundaries(store *history.Store, mode Mode, runStart, now float64, columnCount int) []Span {
	earliest, err := store.Earliest()
	if err != nil {
		return nil
	}
	if mode == Adaptive {
		return adaptiveBoundaries(earliest.Mono, now, columnCount)
	}
	return fixedBoundaries(mode.Width().Seconds(), runStart, earliest.Mono, now)
}

func fixedBoundaries(width, runStart, earliest, now float64) []Span {
	if now < earliest {
		now = earliest
	}
	k0 := int(math.Floor((earliest - runStart) / width))
	if k0 < 0 {
		k0 = 0
	}
	kEnd := int(math.Floor((now - runStart) / width))
	spans := make([]Span, 0, kEnd-k0+1)
	for k := k0; k <= kEnd; k++ {
		spans = append(spans, Span{
			Start: runStart + float64(k)*width,
			End:   runStart + float64(k+1)*width,
		})
	}
	return spans
}

func adaptiveBoundaries(earliest, now float64, columnCount int) []Span {
	if columnCount < 1 {
		columnCount = 1
	}
	width := (now - earliest) / float64(columnCount)
	if width <= 0 {
		// single snapshot so far
		return []Span{{Start: earliest, End: now}}
	}
	spans := make([]Span, columnCount)
	for k := range spans {
		spans[k] = Span{
			Start: earliest + float64(k)*width,
			End:   earliest + float64(k+1)*width,
		}
	}
	// guard against float drift on the live edge
	spans[columnCount-1].End = now
	return spans
}

// Reduce resolves each span to the newest snapshot inside it
// (latest-in-bucket). The final span is the live one: it is inclusive of its
// end so the newest snapshot is always represented, and it is marked
// incomplete while End > now has not yet been crossed.
func Reduce(store *history.Store, spans []Span, now float64) []Bucket {
	buckets := make([]Bucket, len(spans))
	for i, span := range spans {
		to := span.End
		if i == len(spans)-1 {
			to = math.Nextafter(span.End, math.Inf(1))
		}
		b := Bucket{Span: span, Complete: span.End <= now}
		if j := store.LastBefore(span.Start, to); j >= 0 {
			b.Rep = store.At(j)
		} else {
			b.Empty = true
		}
		buckets[i] = b
	}
	return buckets
}
