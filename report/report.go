// Package report drives the sampling-to-columns pipeline: it owns the
// history store, the interval mode, the scroll window and the field
// selector, and answers "what should column N show".
package report

import (
	"log/slog"
	"sync"

	"memfo/history"
	"memfo/interval"
	"memfo/view"
)

// Column is one displayed bucket: a timestamp row plus one cell per field.
type Column struct {
	Mono    float64 // representative snapshot's mono time, or span end if empty
	Start   float64
	End     float64
	Wall    int64 // unix seconds of the representative, 0 if empty
	Partial bool  // trailing open bucket
	Empty   bool
	Cells   map[string]view.Cell
}

// Engine ties the store, interval model and view window together behind
// one mutex so a concurrent reader never sees a half-appended snapshot.
type Engine struct {
	mu       sync.Mutex
	store    *history.Store
	window   *view.Window
	sel      *Selector
	log      *slog.Logger
	mode     interval.Mode
	runStart float64
	delta    bool
}

func NewEngine(store *history.Store, sel *Selector, runStart float64, columnCount int, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:    store,
		window:   view.NewWindow(columnCount),
		sel:      sel,
		log:      log,
		runStart: runStart,
	}
}

// Observe ingests one acquisition tick. An out-of-order snapshot is
// discarded and logged; sampling continues. The return reports whether
// the snapshot was kept.
func (e *Engine) Observe(snap history.Snapshot) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Append(snap); err != nil {
		e.log.Warn("snapshot discarded", "err", err)
		return false
	}
	e.sel.Observe(snap.Values)
	return true
}

// Selector exposes the field selector for the renderer's edit screen.
func (e *Engine) Selector() *Selector { return e.sel }

// Mode returns the current interval mode.
func (e *Engine) Mode() interval.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode switches the interval mode. Pure state change: nothing is
// recomputed until columns are next requested, and history is untouched.
func (e *Engine) SetMode(m interval.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

// DeltaMode reports whether cells show deltas instead of absolutes.
func (e *Engine) DeltaMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delta
}

func (e *Engine) SetDeltaMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delta = on
}

// SetColumns resizes the view window (terminal width changed).
func (e *Engine) SetColumns(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.window.SetColumns(n)
}

// Scroll applies one horizontal scroll command against the current bucket
// count for the active mode.
func (e *Engine) Scroll(cmd view.Command, now float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	spans := interval.Boundaries(e.store, e.mode, e.runStart, now, e.window.Columns())
	e.window.Scroll(cmd, len(spans))
}

// IsScrolled reports whether the view has left the live edge.
func (e *Engine) IsScrolled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.IsScrolled()
}

// Columns computes the visible columns for the given query time. An empty
// history yields no columns; callers render "no data yet".
func (e *Engine) Columns(now float64) []Column {
	e.mu.Lock()
	defer e.mu.Unlock()

	spans := interval.Boundaries(e.store, e.mode, e.runStart, now, e.window.Columns())
	if len(spans) == 0 {
		return nil
	}
	buckets := interval.Reduce(e.store, spans, now)
	vis, prevBucket, havePrev := e.window.Visible(buckets)

	fields := e.sel.All()
	cols := make([]Column, len(vis))
	for i, b := range vis {
		var prev *interval.Bucket
		if i > 0 {
			prev = &vis[i-1]
		} else if havePrev {
			prev = &prevBucket
		}
		col := Column{
			Mono:    b.End,
			Start:   b.Start,
			End:     b.End,
			Partial: !b.Complete,
			Empty:   b.Empty,
			Cells:   make(map[string]view.Cell, len(fields)),
		}
		if !b.Empty {
			col.Mono = b.Rep.Mono
			col.Wall = b.Rep.Wall.Unix()
		}
		for _, f := range fields {
			col.Cells[f] = view.ColumnValue(b, prev, f, e.delta)
		}
		cols[i] = col
	}
	return cols
}

// Dump returns the full retained history for export.
func (e *Engine) Dump() []history.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DumpAll()
}
