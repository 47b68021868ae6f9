// Package tui renders the scrolling meminfo report with bubbletea.
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"memfo/config"
	"memfo/history"
	"memfo/interval"
	"memfo/meminfo"
	"memfo/report"
	"memfo/view"
)

type page int

const (
	pageNormal page = iota
	pageEdit
	pageHelp
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	scrolledStyle = lipgloss.NewStyle().Reverse(true)
	partialStyle  = lipgloss.NewStyle().Faint(true)
	pinnedStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Italic(true)
)

// Options is the render-side configuration assembled in main.
type Options struct {
	SampleInterval time.Duration
	Units          Units
	Mode           interval.Mode
	ShowZeros      bool
	Debug          bool
	CSVPath        string
	ConfigPath     string
}

// Model is the bubbletea model for the live viewer.
type Model struct {
	opts    Options
	engine  *report.Engine
	source  meminfo.Source
	cfg     *config.Config
	log     *slog.Logger
	metrics *samplerStats

	rend     renderer
	units    Units
	zeros    bool
	page     page
	cursor   int
	graph    bool
	spark    *sparkline
	help     help.Model
	width    int
	height   int
	keyWidth int

	// mono clock bridge: engine time is run-relative seconds, advanced
	// from the last accepted sample.
	lastMono float64
	lastAt   time.Time

	status      string
	statusUntil time.Time
}

func NewModel(engine *report.Engine, source meminfo.Source, cfg *config.Config, opts Options, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	m := &Model{
		opts:    opts,
		engine:  engine,
		source:  source,
		cfg:     cfg,
		log:     log,
		metrics: newSamplerStats(256),
		units:   opts.Units,
		zeros:   opts.ShowZeros,
		help:    help.New(),
		spark:   newSparkline(80, 8, 600),
		lastAt:  time.Now(),
	}
	m.metrics.setEnabled(opts.Debug)
	m.rend = newRenderer(m.units, 0)
	m.engine.SetMode(opts.Mode)
	return m
}

// now extrapolates the run-relative mono clock between samples.
func (m *Model) now() float64 {
	return m.lastMono + time.Since(m.lastAt).Seconds()
}

type sampleTickMsg time.Time

type sampleMsg struct {
	snap    history.Snapshot
	err     error
	latency time.Duration
}

func (m *Model) sampleTick() tea.Cmd {
	return tea.Every(m.opts.SampleInterval, func(t time.Time) tea.Msg {
		return sampleTickMsg(t)
	})
}

func (m *Model) acquire() tea.Cmd {
	return func() tea.Msg {
		t0 := time.Now()
		snap, err := m.source.Read()
		return sampleMsg{snap: snap, err: err, latency: time.Since(t0)}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.acquire(), m.sampleTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sampleTickMsg:
		return m, tea.Batch(m.acquire(), m.sampleTick())

	case sampleMsg:
		if msg.err != nil {
			// transient: skip this tick, retry on the next cadence
			m.metrics.observeSkip()
			m.log.Warn("sample skipped", "err", msg.err)
			return m, nil
		}
		m.engine.Selector().Learn(m.source.Fields())
		if !m.engine.Observe(msg.snap) {
			m.metrics.observeDiscard()
			return m, nil
		}
		m.metrics.observeTick(msg.latency)
		m.lastMono = msg.snap.Mono
		m.lastAt = time.Now()
		m.refreshLayout()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refreshLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// refreshLayout recomputes how many value columns fit the terminal.
func (m *Model) refreshLayout() {
	m.keyWidth = 0
	for _, f := range m.engine.Selector().All() {
		if len(f) > m.keyWidth {
			m.keyWidth = len(f)
		}
	}
	avail := m.width - m.keyWidth - 1
	if m.page == pageEdit {
		avail -= 4 // " ***" flag column
	}
	cols := avail / (m.rend.width + 1)
	if cols < 1 {
		cols = 1
	}
	m.engine.SetColumns(cols)
	if m.graph {
		m.spark.resize(m.width-2, 8)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.page == pageHelp {
		switch {
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Enter):
			m.page = pageNormal
		case key.Matches(msg, keys.Quit):
			return m.quit()
		}
		return m, nil
	}
	if m.page == pageEdit {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.page = pageHelp
	case key.Matches(msg, keys.Edit):
		m.page = pageEdit
		m.cursor = 0
		m.refreshLayout()
	case key.Matches(msg, keys.Units):
		m.units = nextUnits(m.units)
		m.rend = newRenderer(m.units, 0)
		m.refreshLayout()
	case key.Matches(msg, keys.Interval):
		m.engine.SetMode(nextMode(m.engine.Mode()))
	case key.Matches(msg, keys.Delta):
		m.engine.SetDeltaMode(!m.engine.DeltaMode())
	case key.Matches(msg, keys.Zeros):
		m.zeros = !m.zeros
	case key.Matches(msg, keys.Graph):
		m.graph = !m.graph
		m.refreshLayout()
	case key.Matches(msg, keys.Dump):
		m.dumpCSV()
	case key.Matches(msg, keys.StepBack):
		m.engine.Scroll(view.StepBack, m.now())
	case key.Matches(msg, keys.StepForward):
		m.engine.Scroll(view.StepForward, m.now())
	case key.Matches(msg, keys.PageBack):
		m.engine.Scroll(view.PageBack, m.now())
	case key.Matches(msg, keys.PageForward):
		m.engine.Scroll(view.PageForward, m.now())
	case key.Matches(msg, keys.OldestEdge):
		m.engine.Scroll(view.OldestEdge, m.now())
	case key.Matches(msg, keys.LiveEdge):
		m.engine.Scroll(view.LiveEdge, m.now())
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.engine.Selector()
	rows := sel.All()
	clampCursor := func() {
		if m.cursor > len(rows)-1 {
			m.cursor = len(rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		m.page = pageNormal
		m.commitConfig()
		m.refreshLayout()
	case key.Matches(msg, keys.Up):
		m.cursor--
		clampCursor()
	case key.Matches(msg, keys.Down):
		m.cursor++
		clampCursor()
	case key.Matches(msg, keys.Pin):
		if len(rows) > 0 {
			sel.Pin(rows[m.cursor])
			m.cursor++
			clampCursor()
		}
	case key.Matches(msg, keys.Hide):
		if len(rows) > 0 {
			sel.Hide(rows[m.cursor])
			m.cursor++
			clampCursor()
		}
	case key.Matches(msg, keys.Reset):
		if len(rows) > 0 {
			sel.Reset(rows[m.cursor])
			m.cursor++
			clampCursor()
		}
	case key.Matches(msg, keys.ResetA):
		sel.ResetAll()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.commitConfig()
	return m, tea.Quit
}

// commitConfig persists pins, hides and the sticky display options.
func (m *Model) commitConfig() {
	if m.opts.ConfigPath == "" {
		return
	}
	sel := m.engine.Selector()
	pinned, hidden := sel.Commit()
	m.cfg.Pinned = pinned
	m.cfg.Hidden = hidden
	m.cfg.Units = m.units.String()
	m.cfg.Interval = m.engine.Mode().String()
	if err := config.Save(m.cfg, m.opts.ConfigPath); err != nil {
		m.log.Warn("config save failed", "path", m.opts.ConfigPath, "err", err)
	}
}

func (m *Model) dumpCSV() {
	snaps := m.engine.Dump()
	f, err := os.Create(m.opts.CSVPath)
	if err != nil {
		m.setStatus(fmt.Sprintf("dump failed: %v", err))
		return
	}
	defer f.Close()
	if err := report.WriteCSV(f, snaps, m.engine.Selector().All()); err != nil {
		m.setStatus(fmt.Sprintf("dump failed: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("dumped %d samples to %s", len(snaps), m.opts.CSVPath))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusUntil = time.Now().Add(10 * time.Second)
}

func (m *Model) View() string {
	switch m.page {
	case pageHelp:
		return m.viewHelp()
	case pageEdit:
		return m.viewEdit()
	default:
		return m.viewNormal()
	}
}

func (m *Model) viewHelp() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("-- HELP ['?' or ENTER closes; q quits] --"))
	sb.WriteString("\n\n")
	m.help.ShowAll = true
	sb.WriteString(m.help.View(keys))
	return sb.String()
}

func (m *Model) headerLine() string {
	onOff := func(v bool) string {
		if v {
			return "ON"
		}
		return "off"
	}
	line := fmt.Sprintf("[u]nits:%s [i]tvl=%s [d]eltas:%s [z]eros=%s [e]dit ?=help",
		m.units, m.engine.Mode(), onOff(m.engine.DeltaMode()), onOff(m.zeros))
	if m.engine.IsScrolled() {
		line += " " + scrolledStyle.Render("SCROLLED")
	}
	if m.status != "" && time.Now().Before(m.statusUntil) {
		line += "  " + statusStyle.Render(m.status)
	}
	return headerStyle.Render(line)
}

// ageLine renders the per-column time row: run-relative ages, with the
// rightmost column carrying the wall clock.
func (m *Model) ageLine(cols []report.Column) string {
	now := m.now()
	parts := make([]string, 0, len(cols))
	for i, col := range cols {
		label := fmt.Sprintf("%*s", m.rend.width, agoStr(now-col.Mono))
		if col.Partial {
			label = partialStyle.Render(label)
		}
		parts = append(parts, label)
		if i == len(cols)-1 && col.Wall != 0 {
			parts = append(parts, time.Unix(col.Wall, 0).Format("01/02 15:04:05"))
		}
	}
	line := strings.Join(parts, " ")
	if m.engine.IsScrolled() {
		return scrolledStyle.Render(line)
	}
	return headerStyle.Render(line)
}

func (m *Model) fieldLine(cols []report.Column, field string) string {
	parts := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		cell, ok := col.Cells[field]
		if !ok || !cell.Defined {
			parts = append(parts, m.rend.Blank())
			continue
		}
		text := m.rend.Cell(cell.Value, cell.Delta)
		if cell.Partial {
			text = partialStyle.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ") + " " + field
}

func (m *Model) viewNormal() string {
	cols := m.engine.Columns(m.now())
	var sb strings.Builder
	sb.WriteString(m.headerLine())
	sb.WriteString("\n")
	if len(cols) == 0 {
		sb.WriteString("\n  no data yet\n")
		return sb.String()
	}
	sb.WriteString(m.ageLine(cols))
	sb.WriteString("\n")

	pinned, normal := m.engine.Selector().Rows(m.zeros)
	for _, f := range pinned {
		sb.WriteString(pinnedStyle.Render(m.fieldLine(cols, f)))
		sb.WriteString("\n")
	}
	for _, f := range normal {
		sb.WriteString(m.fieldLine(cols, f))
		sb.WriteString("\n")
	}

	if m.graph {
		sb.WriteString("\n")
		sb.WriteString(m.renderGraph(pinned))
	}
	if m.opts.Debug {
		sb.WriteString(m.renderStats())
	}
	return sb.String()
}

func (m *Model) viewEdit() string {
	cols := m.engine.Columns(m.now())
	sel := m.engine.Selector()
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(
		"EDIT:  e,ENTER:return  *:put-on-top  -:hide-line  r:reset-line  R:reset-all  ?=help"))
	sb.WriteString("\n")
	if len(cols) > 0 {
		sb.WriteString(m.ageLine(cols))
		sb.WriteString("\n")
	}
	for i, f := range sel.All() {
		flag := "   "
		switch {
		case sel.IsPinned(f):
			flag = "***"
		case sel.IsHidden(f):
			flag = "---"
		}
		line := m.fieldLineEdit(cols, f, flag)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) fieldLineEdit(cols []report.Column, field, flag string) string {
	parts := make([]string, 0, len(cols)+2)
	for _, col := range cols {
		cell, ok := col.Cells[field]
		if !ok || !cell.Defined {
			parts = append(parts, m.rend.Blank())
			continue
		}
		parts = append(parts, m.rend.Cell(cell.Value, cell.Delta))
	}
	parts = append(parts, flag, field)
	return strings.Join(parts, " ")
}

// renderGraph plots the first pinned field (or MemAvailable) across the
// whole retained history.
func (m *Model) renderGraph(pinned []string) string {
	field := "MemAvailable"
	if len(pinned) > 0 {
		field = pinned[0]
	}
	snaps := m.engine.Dump()
	series := make([]float64, 0, len(snaps))
	for _, snap := range snaps {
		if v, ok := snap.Values[field]; ok {
			series = append(series, float64(v))
		}
	}
	if len(series) < 2 {
		return ""
	}
	return field + "\n" + m.spark.render(series)
}

func (m *Model) renderStats() string {
	snap := m.metrics.snapshot()
	return fmt.Sprintf(
		"\nSAMPLER  up:%s ticks:%d skips:%d discards:%d read(last/avg/max): %s/%s/%s\n",
		agoStr(snap.uptime.Seconds()),
		snap.ticks, snap.skips, snap.discards,
		fmtMs(snap.acquire.last), fmtMs(snap.acquire.avg), fmtMs(snap.acquire.max))
}

func fmtMs(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

func nextUnits(u Units) Units {
	all := AllUnits()
	for i, v := range all {
		if v == u {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func nextMode(mode interval.Mode) interval.Mode {
	all := interval.Modes()
	for i, v := range all {
		if v == mode {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
