package tui

import (
	"strings"

	"memfo/report"
)

// RenderOnce prints the current report as plain text, for -dump mode
// where the data is printed once instead of displayed.
func RenderOnce(engine *report.Engine, units Units, showZeros bool, now float64) string {
	cols := engine.Columns(now)
	if len(cols) == 0 {
		return "no data yet\n"
	}
	rend := newRenderer(units, 0)
	var sb strings.Builder

	ages := make([]string, len(cols))
	for i, col := range cols {
		ages[i] = padLeft(agoStr(now-col.Mono), rend.width)
	}
	sb.WriteString(strings.Join(ages, " "))
	sb.WriteString("\n")

	pinned, normal := engine.Selector().Rows(showZeros)
	for _, f := range append(pinned, normal...) {
		parts := make([]string, 0, len(cols)+1)
		for _, col := range cols {
			cell, ok := col.Cells[f]
			if !ok || !cell.Defined {
				parts = append(parts, rend.Blank())
				continue
			}
			parts = append(parts, rend.Cell(cell.Value, cell.Delta))
		}
		parts = append(parts, f)
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func padLeft(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}
