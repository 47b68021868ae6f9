// Package view maps the ordered bucket sequence to the columns on screen:
// a horizontal scroll cursor plus the absolute/delta cell transform.
package view

import "memfo/interval"

// Command is one horizontal scroll action. The key-to-command mapping
// lives in the renderer; this package only moves and clamps the cursor.
type Command int

const (
	StepBack    Command = iota // '<' one bucket older
	StepForward                // '>' one bucket newer
	PageBack                   // '{' about an eighth of the span older
	PageForward                // '}' about an eighth of the span newer
	OldestEdge                 // '[' all the way back
	LiveEdge                   // ']' back to live
)

// Window is the scroll cursor over the bucket sequence. Offset 0 is the
// live edge; a positive offset freezes the view that many buckets back.
type Window struct {
	offset int
	cols   int
}

func NewWindow(columnCount int) *Window {
	if columnCount < 1 {
		columnCount = 1
	}
	return &Window{cols: columnCount}
}

// Columns reports the display width in buckets.
func (w *Window) Columns() int { return w.cols }

// SetColumns resizes the window, re-clamping the offset on next use.
func (w *Window) SetColumns(n int) {
	if n < 1 {
		n = 1
	}
	w.cols = n
}

// Offset reports how many buckets back from live the window sits.
func (w *Window) Offset() int { return w.offset }

// IsScrolled reports whether the window has left the live edge.
func (w *Window) IsScrolled() bool { return w.offset > 0 }

func (w *Window) maxOffset(total int) int {
	if total <= w.cols {
		return 0
	}
	return total - w.cols
}

// Scroll applies one command against the current bucket count. The result
// is clamped, never an error: scrolling past either edge pins to the edge,
// and reaching offset 0 returns the window to live.
func (w *Window) Scroll(cmd Command, totalBuckets int) {
	page := totalBuckets / 8
	if page < 1 {
		page = 1
	}
	switch cmd {
	case StepBack:
		w.offset++
	case StepForward:
		w.offset--
	case PageBack:
		w.offset += page
	case PageForward:
		w.offset -= page
	case OldestEdge:
		w.offset = w.maxOffset(totalBuckets)
	case LiveEdge:
		w.offset = 0
	}
	w.clamp(totalBuckets)
}

func (w *Window) clamp(total int) {
	if max := w.maxOffset(total); w.offset > max {
		w.offset = max
	}
	if w.offset < 0 {
		w.offset = 0
	}
}

// Visible selects the displayed sub-sequence
// buckets[len-cols-offset : len-offset], silently re-clamping the offset
// when history shrank since the last call (mode switches do that). The
// second return is the bucket immediately before the visible range, used
// as the delta base for the leftmost column; ok is false at the oldest
// edge where no prior bucket exists.
func (w *Window) Visible(buckets []interval.Bucket) (vis []interval.Bucket, prev interval.Bucket, ok bool) {
	w.clamp(len(buckets))
	hi := len(buckets) - w.offset
	lo := hi - w.cols
	if lo < 0 {
		lo = 0
	}
	if lo > 0 {
		return buckets[lo:hi], buckets[lo-1], true
	}
	return buckets[lo:hi], interval.Bucket{}, false
}

// Cell is one rendered value: absolute or delta, possibly undefined.
// Undefined is distinct from zero; the renderer must show it distinctly
// (an empty cell, not "0").
type Cell struct {
	Value   int64
	Defined bool
	Delta   bool
	Partial bool // from the still-open trailing bucket
}

// ColumnValue computes one cell. In delta mode the value is the change
// versus the previous bucket's representative; the first bucket in retained
// history has no prior, so its delta is undefined. Empty buckets and fields
// absent from a representative snapshot are undefined in either mode.
func ColumnValue(b interval.Bucket, prev *interval.Bucket, field string, deltaMode bool) Cell {
	cell := Cell{Delta: deltaMode, Partial: !b.Complete}
	if b.Empty {
		return cell
	}
	cur, present := b.Rep.Values[field]
	if !present {
		return cell
	}
	if !deltaMode {
		cell.Value = cur
		cell.Defined = true
		return cell
	}
	if prev == nil || prev.Empty {
		return cell
	}
	base, present := prev.Rep.Values[field]
	if !present {
		return cell
	}
	cell.Value = cur - base
	cell.Defined = true
	return cell
}
