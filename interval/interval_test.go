package interval

import (
	"testing"
	"time"

	"memfo/history"
)

func fill(t *testing.T, monos []float64, frees []int64) *history.Store {
	t.Helper()
	s := history.NewStore()
	for i, mono := range monos {
		err := s.Append(history.Snapshot{
			Mono:   mono,
			Wall:   time.Unix(1700000000+int64(mono), 0),
			Values: map[string]int64{"MemFree": frees[i]},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestModeLabels(t *testing.T) {
	want := []string{"Var", "5s", "15s", "30s", "1m", "5m", "15m", "1h"}
	modes := Modes()
	if len(modes) != len(want) {
		t.Fatalf("%d modes, want %d", len(modes), len(want))
	}
	for i, m := range modes {
		if m.String() != want[i] {
			t.Errorf("mode %d label %q, want %q", i, m, want[i])
		}
	}
	if Adaptive.Width() != 0 {
		t.Error("Adaptive has a fixed width")
	}
	if Fixed5m.Width() != 5*time.Minute {
		t.Errorf("Fixed5m width %v", Fixed5m.Width())
	}
}

func TestEmptyStoreYieldsNoBuckets(t *testing.T) {
	s := history.NewStore()
	if spans := Boundaries(s, Fixed5s, 0, 100, 4); spans != nil {
		t.Fatalf("got %v spans for empty store", spans)
	}
	if spans := Boundaries(s, Adaptive, 0, 100, 4); spans != nil {
		t.Fatalf("got %v adaptive spans for empty store", spans)
	}
}

func TestFixedBoundariesAlignToRunStart(t *testing.T) {
	s := fill(t, []float64{0, 5, 10, 15, 20}, []int64{400, 390, 410, 405, 402})
	spans := Boundaries(s, Fixed15s, 0, 20, 10)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 15 || spans[1].Start != 15 || spans[1].End != 30 {
		t.Fatalf("spans %v", spans)
	}
}

func TestFixedClosedBucketsAreStable(t *testing.T) {
	s := fill(t, []float64{0, 5, 10, 15, 20}, []int64{400, 390, 410, 405, 402})
	first := Reduce(s, Boundaries(s, Fixed30s, 0, 20, 10), 20)

	// More snapshots arrive inside the still-open bucket.
	for _, mono := range []float64{22, 24, 26} {
		s.Append(history.Snapshot{Mono: mono, Values: map[string]int64{"MemFree": 1}})
	}
	second := Reduce(s, Boundaries(s, Fixed30s, 0, 26, 10), 26)

	if len(first) != len(second) {
		t.Fatalf("bucket count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Complete {
			continue
		}
		a, b := first[i], second[i]
		if a.Start != b.Start || a.End != b.End || a.Rep.Mono != b.Rep.Mono {
			t.Fatalf("closed bucket %d changed: %+v -> %+v", i, a, b)
		}
	}
	// Only the trailing open bucket tracks the newest snapshot.
	last := second[len(second)-1]
	if last.Complete {
		t.Fatal("trailing bucket reported complete at now=26 with end=30")
	}
	if last.Rep.Mono != 26 {
		t.Fatalf("open bucket rep mono %v, want 26", last.Rep.Mono)
	}
}

func TestLatestInBucketRepresentatives(t *testing.T) {
	s := fill(t, []float64{0, 5, 10, 15, 20}, []int64{400, 390, 410, 405, 402})
	buckets := Reduce(s, Boundaries(s, Fixed15s, 0, 20, 10), 20)
	// [0,15) holds t=0,5,10 -> rep t=10; open [15,30) -> rep t=20.
	if got := buckets[0].Rep.Values["MemFree"]; got != 410 {
		t.Errorf("closed bucket rep %d, want 410", got)
	}
	if got := buckets[1].Rep.Values["MemFree"]; got != 402 {
		t.Errorf("open bucket rep %d, want 402", got)
	}
	if !buckets[0].Complete || buckets[1].Complete {
		t.Errorf("completeness flags %v, %v", buckets[0].Complete, buckets[1].Complete)
	}
}

func TestFastWidthProducesEmptyBuckets(t *testing.T) {
	// 5s buckets over 15s-spaced samples: two of every three buckets empty.
	s := fill(t, []float64{0, 15, 30}, []int64{1, 2, 3})
	buckets := Reduce(s, Boundaries(s, Fixed5s, 0, 30, 10), 30)
	if len(buckets) != 7 {
		t.Fatalf("got %d buckets, want 7", len(buckets))
	}
	var empty int
	for _, b := range buckets {
		if b.Empty {
			empty++
		}
	}
	if empty != 4 {
		t.Fatalf("%d empty buckets, want 4", empty)
	}
}

func TestAdaptiveSpanCoverage(t *testing.T) {
	for _, cols := range []int{1, 2, 3, 7} {
		s := fill(t, []float64{2, 5, 10, 15, 20}, []int64{1, 2, 3, 4, 5})
		spans := Boundaries(s, Adaptive, 0, 23, cols)
		if len(spans) != cols {
			t.Fatalf("cols=%d: got %d spans", cols, len(spans))
		}
		if spans[0].Start != 2 || spans[len(spans)-1].End != 23 {
			t.Fatalf("cols=%d: spans cover [%v,%v], want [2,23]",
				cols, spans[0].Start, spans[len(spans)-1].End)
		}
		// Live edge snapshot is always represented.
		buckets := Reduce(s, spans, 23)
		last := buckets[len(buckets)-1]
		if last.Empty || last.Rep.Mono != 20 {
			t.Fatalf("cols=%d: live bucket %+v", cols, last)
		}
	}
}

func TestAdaptiveSingleSnapshot(t *testing.T) {
	s := fill(t, []float64{3}, []int64{7})
	buckets := Reduce(s, Boundaries(s, Adaptive, 0, 3, 4), 3)
	if len(buckets) != 1 || buckets[0].Empty || buckets[0].Rep.Mono != 3 {
		t.Fatalf("buckets %+v", buckets)
	}
}
