package tui

import (
	"fmt"
	"math"
	"strings"
)

// Units is the memory unit spinner: KiB, MB, MiB, GB, GiB, human.
type Units int

const (
	UnitsKiB Units = iota
	UnitsMB
	UnitsMiB
	UnitsGB
	UnitsGiB
	UnitsHuman
)

// AllUnits returns the units in spinner order.
func AllUnits() []Units {
	return []Units{UnitsKiB, UnitsMB, UnitsMiB, UnitsGB, UnitsGiB, UnitsHuman}
}

func (u Units) String() string {
	switch u {
	case UnitsKiB:
		return "KiB"
	case UnitsMB:
		return "MB"
	case UnitsMiB:
		return "MiB"
	case UnitsGB:
		return "GB"
	case UnitsGiB:
		return "GiB"
	default:
		return "human"
	}
}

// UnitsFromString resolves a config label; unknown labels fall back to MiB.
func UnitsFromString(s string) Units {
	for _, u := range AllUnits() {
		if u.String() == s {
			return u
		}
	}
	return UnitsMiB
}

func (u Units) divisor() (float64, int) {
	switch u {
	case UnitsKiB:
		return 1024, 0
	case UnitsMB:
		return 1000 * 1000, 1
	case UnitsMiB:
		return 1024 * 1024, 1
	case UnitsGB:
		return 1000 * 1000 * 1000, 1
	case UnitsGiB:
		return 1024 * 1024 * 1024, 1
	default:
		return 0, 0 // human
	}
}

// human renders a byte count on the 1024 ladder with one decimal,
// e.g. "3.9G".
func human(n float64) string {
	if n < 0 {
		return "-" + human(-n)
	}
	suffixes := []string{"K", "M", "G", "T"}
	for i, suffix := range suffixes {
		n /= 1024
		if n < 999.95 || i == len(suffixes)-1 {
			return fmt.Sprintf("%.1f%s", n, suffix)
		}
	}
	return ""
}

// renderer formats cell values at a fixed width so columns line up.
type renderer struct {
	units     Units
	div       float64
	precision int
	width     int
}

// maxRenderValue bounds the column width computation; nothing in
// /proc/meminfo exceeds it except VmallocTotal.
const maxRenderValue = 999 * 1000 * 1000 * 1000

func newRenderer(units Units, maxValue int64) renderer {
	if maxValue <= 0 {
		maxValue = maxRenderValue
	}
	r := renderer{units: units}
	r.div, r.precision = units.divisor()
	r.width = len(r.format(-maxValue, false))
	return r
}

func (r renderer) format(v int64, signed bool) string {
	if r.div == 0 {
		s := human(float64(v))
		if signed && !strings.HasPrefix(s, "-") {
			s = "+" + s
		}
		return s
	}
	scaled := float64(v) / r.div
	sign := ""
	if signed {
		sign = "+"
	}
	if r.precision > 0 {
		return fmt.Sprintf("%"+sign+".*f", r.precision, scaled)
	}
	return fmt.Sprintf("%"+sign+"d", int64(math.Round(scaled)))
}

// Cell renders one value right-aligned to the renderer width.
func (r renderer) Cell(v int64, signed bool) string {
	return fmt.Sprintf("%*s", r.width, r.format(v, signed))
}

// Blank renders an undefined cell at column width.
func (r renderer) Blank() string {
	return strings.Repeat(" ", r.width)
}

// agoStr compacts an age in seconds, e.g. 67→"1m7s", 67140→"18h39m".
func agoStr(secs float64) string {
	ago := int(math.Round(math.Abs(secs)))
	units := []string{"s", "m", "h", "d", "w", "y"}
	lo, hi := ago%60, ago/60
	uidx := 1
	for _, div := range []int{60, 24, 7, 52, math.MaxInt32} {
		if hi < div {
			break
		}
		lo, hi = hi%div, hi/div
		uidx++
	}
	if hi > 0 {
		return fmt.Sprintf("%d%s%d%s", hi, units[uidx], lo, units[uidx-1])
	}
	return fmt.Sprintf("%d%s", lo, units[uidx-1])
}
