package view

import (
	"testing"

	"memfo/history"
	"memfo/interval"
)

func mkBuckets(reps ...int64) []interval.Bucket {
	buckets := make([]interval.Bucket, len(reps))
	for i, v := range reps {
		buckets[i] = interval.Bucket{
			Span:     interval.Span{Start: float64(i * 10), End: float64(i*10 + 10)},
			Rep:      history.Snapshot{Mono: float64(i * 10), Values: map[string]int64{"MemFree": v}},
			Complete: i < len(reps)-1,
		}
	}
	return buckets
}

func TestVisibleLiveEdge(t *testing.T) {
	w := NewWindow(2)
	vis, prev, ok := w.Visible(mkBuckets(400, 390, 410, 405))
	if len(vis) != 2 {
		t.Fatalf("got %d visible buckets, want 2", len(vis))
	}
	if vis[0].Rep.Values["MemFree"] != 410 || vis[1].Rep.Values["MemFree"] != 405 {
		t.Fatalf("visible %v", vis)
	}
	if !ok || prev.Rep.Values["MemFree"] != 390 {
		t.Fatalf("prev base wrong: ok=%v prev=%v", ok, prev)
	}
	if w.IsScrolled() {
		t.Fatal("live window reports scrolled")
	}
}

func TestScrollClampingAtCapacity(t *testing.T) {
	// columnCount == totalBuckets: no extra history, any back-scroll is a no-op.
	w := NewWindow(4)
	buckets := mkBuckets(1, 2, 3, 4)
	for _, cmd := range []Command{StepBack, PageBack, OldestEdge} {
		w.Scroll(cmd, len(buckets))
		if w.Offset() != 0 {
			t.Fatalf("cmd %v: offset %d, want 0", cmd, w.Offset())
		}
	}
	vis, _, ok := w.Visible(buckets)
	if len(vis) != 4 || ok {
		t.Fatalf("visible %d buckets, prev ok=%v", len(vis), ok)
	}
}

func TestScrollStateMachine(t *testing.T) {
	w := NewWindow(2)
	total := 10

	w.Scroll(StepBack, total)
	if !w.IsScrolled() || w.Offset() != 1 {
		t.Fatalf("after '<': offset=%d", w.Offset())
	}
	w.Scroll(OldestEdge, total)
	if w.Offset() != 8 {
		t.Fatalf("after '[': offset=%d, want 8", w.Offset())
	}
	w.Scroll(StepBack, total)
	if w.Offset() != 8 {
		t.Fatalf("past oldest edge: offset=%d, want 8", w.Offset())
	}
	w.Scroll(LiveEdge, total)
	if w.IsScrolled() {
		t.Fatal("']' did not return to live")
	}
	w.Scroll(StepForward, total)
	if w.Offset() != 0 {
		t.Fatalf("forward past live: offset=%d", w.Offset())
	}
}

func TestPageScrollIsEighthOfSpan(t *testing.T) {
	w := NewWindow(2)
	w.Scroll(PageBack, 80) // 80/8 = 10
	if w.Offset() != 10 {
		t.Fatalf("offset %d, want 10", w.Offset())
	}
	w.Scroll(PageForward, 80)
	if w.Offset() != 0 {
		t.Fatalf("offset %d, want 0", w.Offset())
	}
	// Tiny histories still move at least one bucket.
	w.Scroll(PageBack, 4)
	if w.Offset() != 1 {
		t.Fatalf("offset %d, want 1", w.Offset())
	}
}

func TestWindowReclampsWhenHistoryShrinks(t *testing.T) {
	w := NewWindow(2)
	w.Scroll(OldestEdge, 10)
	// A mode switch dropped the bucket count from 10 to 3.
	vis, _, _ := w.Visible(mkBuckets(1, 2, 3))
	if len(vis) != 2 || w.Offset() != 1 {
		t.Fatalf("after shrink: %d visible, offset=%d", len(vis), w.Offset())
	}
}

func TestColumnValueAbsoluteAndDelta(t *testing.T) {
	buckets := mkBuckets(100, 137)
	abs := ColumnValue(buckets[1], &buckets[0], "MemFree", false)
	if !abs.Defined || abs.Value != 137 || abs.Delta {
		t.Fatalf("absolute cell %+v", abs)
	}
	delta := ColumnValue(buckets[1], &buckets[0], "MemFree", true)
	if !delta.Defined || delta.Value != 37 || !delta.Delta {
		t.Fatalf("delta cell %+v", delta)
	}
	if !delta.Partial {
		t.Fatal("trailing bucket cell not marked partial")
	}
}

func TestFirstBucketDeltaUndefined(t *testing.T) {
	buckets := mkBuckets(100)
	cell := ColumnValue(buckets[0], nil, "MemFree", true)
	if cell.Defined {
		t.Fatalf("first-bucket delta defined as %d, want undefined", cell.Value)
	}
}

func TestAbsentFieldAndEmptyBucketUndefined(t *testing.T) {
	buckets := mkBuckets(100, 200)
	if cell := ColumnValue(buckets[1], &buckets[0], "Hugetlb", false); cell.Defined {
		t.Fatal("absent field produced a defined cell")
	}
	empty := interval.Bucket{Empty: true, Complete: true}
	if cell := ColumnValue(empty, &buckets[0], "MemFree", false); cell.Defined {
		t.Fatal("empty bucket produced a defined cell")
	}
	// Delta against an empty previous bucket is undefined too.
	if cell := ColumnValue(buckets[1], &empty, "MemFree", true); cell.Defined {
		t.Fatal("delta against empty bucket defined")
	}
}
