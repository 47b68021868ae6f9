package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Units != def.Units || cfg.Interval != def.Interval || cfg.SampleSec != def.SampleSec {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
	if len(cfg.Pinned) != 2 || cfg.Pinned[0] != "MemTotal" {
		t.Fatalf("pinned defaults %v", cfg.Pinned)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "memfo.yaml")
	want := Default()
	want.Pinned = []string{"SwapFree"}
	want.Hidden = nil
	want.Units = "human"
	want.Interval = "5m"
	want.SampleSec = 2.5
	if err := Save(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Units != "human" || got.Interval != "5m" || got.SampleSec != 2.5 {
		t.Fatalf("got %+v", got)
	}
	if len(got.Pinned) != 1 || got.Pinned[0] != "SwapFree" {
		t.Fatalf("pinned %v", got.Pinned)
	}
}

func TestLoadPartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memfo.yaml")
	if err := os.WriteFile(path, []byte("units: GiB\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Units != "GiB" {
		t.Fatalf("units %q", cfg.Units)
	}
	if cfg.Interval != "Var" || cfg.SampleSec != 1.0 {
		t.Fatalf("defaults not merged: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		mutate func(*Config)
		ok     bool
	}{
		{func(c *Config) {}, true},
		{func(c *Config) { c.Units = "TB" }, false},
		{func(c *Config) { c.Interval = "2h" }, false},
		{func(c *Config) { c.SampleSec = 0.1 }, false},
		{func(c *Config) { c.SampleSec = 7200 }, false},
		{func(c *Config) { c.Units = "human"; c.Interval = "1h"; c.SampleSec = 0.5 }, true},
	}
	for i, c := range cases {
		cfg := Default()
		c.mutate(cfg)
		err := cfg.Validate()
		if (err == nil) != c.ok {
			t.Errorf("case %d: err=%v, want ok=%v", i, err, c.ok)
		}
	}
}
