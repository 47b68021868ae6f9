package tui

import (
	"strings"
	"testing"
)

func TestAgoStr(t *testing.T) {
	cases := []struct {
		secs float64
		want string
	}{
		{0, "0s"},
		{59, "59s"},
		{67, "1m7s"},
		{3600, "1h0m"},
		{3700, "1h1m"},
		{67140, "18h39m"},
		{2 * 86400, "2d0h"},
		{-90, "1m30s"},
	}
	for _, c := range cases {
		if got := agoStr(c.secs); got != c.want {
			t.Errorf("agoStr(%v) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestHuman(t *testing.T) {
	cases := []struct {
		n    float64
		want string
	}{
		{0, "0.0K"},
		{1024, "1.0K"},
		{1536, "1.5K"},
		{4 * 1024 * 1024 * 1024, "4.0G"},
		{-2048, "-2.0K"},
	}
	for _, c := range cases {
		if got := human(c.n); got != c.want {
			t.Errorf("human(%v) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestRendererUnits(t *testing.T) {
	kib := newRenderer(UnitsKiB, 0)
	if got := strings.TrimSpace(kib.Cell(2048, false)); got != "2" {
		t.Errorf("KiB cell %q, want 2", got)
	}
	mib := newRenderer(UnitsMiB, 0)
	if got := strings.TrimSpace(mib.Cell(3*1024*1024, false)); got != "3.0" {
		t.Errorf("MiB cell %q, want 3.0", got)
	}
	gb := newRenderer(UnitsGB, 0)
	if got := strings.TrimSpace(gb.Cell(2_500_000_000, false)); got != "2.5" {
		t.Errorf("GB cell %q, want 2.5", got)
	}
	h := newRenderer(UnitsHuman, 0)
	if got := strings.TrimSpace(h.Cell(1536, false)); got != "1.5K" {
		t.Errorf("human cell %q, want 1.5K", got)
	}
}

func TestRendererSignedDeltas(t *testing.T) {
	r := newRenderer(UnitsKiB, 0)
	if got := strings.TrimSpace(r.Cell(37*1024, true)); got != "+37" {
		t.Errorf("positive delta %q, want +37", got)
	}
	if got := strings.TrimSpace(r.Cell(-5*1024, true)); got != "-5" {
		t.Errorf("negative delta %q, want -5", got)
	}
}

func TestRendererFixedWidth(t *testing.T) {
	for _, u := range AllUnits() {
		r := newRenderer(u, 0)
		if r.width < 1 {
			t.Fatalf("%s: width %d", u, r.width)
		}
		for _, v := range []int64{0, 1, 1024, maxRenderValue, -maxRenderValue} {
			if got := len(r.Cell(v, false)); got != r.width {
				t.Errorf("%s: Cell(%d) width %d, want %d", u, v, got, r.width)
			}
		}
		if len(r.Blank()) != r.width {
			t.Errorf("%s: blank width %d", u, len(r.Blank()))
		}
	}
}

func TestSpinnerCycles(t *testing.T) {
	u := UnitsMiB
	for range AllUnits() {
		u = nextUnits(u)
	}
	if u != UnitsMiB {
		t.Errorf("units spinner did not wrap: %v", u)
	}
}
