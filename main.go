// memfo is a long-running viewer for /proc/meminfo: it samples the
// kernel's memory counters once a second, keeps a bounded history, and
// renders it as fixed- or adaptive-interval columns you can scroll
// through horizontally.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"memfo/config"
	"memfo/history"
	"memfo/interval"
	"memfo/meminfo"
	"memfo/report"
	"memfo/tui"
)

type Config struct {
	Units        string
	ConfigName   string
	IntervalSec  float64
	VmallocTotal bool
	Zeros        bool
	Dump         bool
	Debug        bool
	AltScreen    bool
	MaxSamples   int
	Compact      bool
	CSVPath      string
}

var cfg = Config{
	Units:        "",
	ConfigName:   "memfo",
	IntervalSec:  1.0,
	VmallocTotal: false,
	Zeros:        false,
	Dump:         false,
	Debug:        false,
	AltScreen:    true,
	MaxSamples:   history.DefaultMaxSamples,
	Compact:      true,
	CSVPath:      "/tmp/memfo.csv",
}

func main() {
	log.SetOutput(os.Stderr)
	flag.StringVar(&cfg.Units, "u", cfg.Units, "Memory units: KiB, MB, MiB, GB, GiB, human (default: from config)")
	flag.StringVar(&cfg.ConfigName, "c", cfg.ConfigName, "Use ~/.config/memfo/<name>.yaml for configuration")
	flag.Float64Var(&cfg.IntervalSec, "i", cfg.IntervalSec, "Sampling interval in seconds")
	flag.BoolVar(&cfg.VmallocTotal, "vmalloc-total", cfg.VmallocTotal, "Show the VmallocTotal row (mostly useless)")
	flag.BoolVar(&cfg.Zeros, "z", cfg.Zeros, "Show lines that have always been zero")
	flag.BoolVar(&cfg.Dump, "d", cfg.Dump, "Print the report once instead of displaying it")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Show sampler stats in the footer")
	flag.BoolVar(&cfg.AltScreen, "alt-screen", cfg.AltScreen, "Use the terminal alternate screen buffer")
	flag.IntVar(&cfg.MaxSamples, "max-samples", cfg.MaxSamples, "Retained snapshot bound")
	flag.BoolVar(&cfg.Compact, "compact", cfg.Compact, "Down-sample old history instead of dropping it (24h coverage)")
	flag.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "Target file for the 'c' history dump")
	flag.Parse()

	if err := validateAndNormalizeConfig(); err != nil {
		log.Fatal(err)
	}

	cfgPath, err := config.Path(cfg.ConfigName)
	if err != nil {
		log.Fatal(err)
	}
	fileCfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Units != "" {
		fileCfg.Units = cfg.Units
	}
	// -i overrides the configured cadence only when given explicitly.
	iSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			iSet = true
		}
	})
	if iSet {
		fileCfg.SampleSec = cfg.IntervalSec
	} else {
		cfg.IntervalSec = fileCfg.SampleSec
	}
	if err := fileCfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := newLogger(fileCfg.LogFile)

	source, err := meminfo.Open(cfg.VmallocTotal)
	if err != nil {
		log.Fatal(err)
	}

	storeOpts := []history.Option{history.WithMaxSamples(cfg.MaxSamples)}
	if cfg.Compact {
		storeOpts = append(storeOpts, history.WithCompaction())
	}
	store := history.NewStore(storeOpts...)
	sel := report.NewSelector(fileCfg.Pinned, fileCfg.Hidden)
	engine := report.NewEngine(store, sel, 0, 80, logger)
	engine.SetMode(interval.ModeFromString(fileCfg.Interval))

	units := tui.UnitsFromString(fileCfg.Units)

	if cfg.Dump {
		if err := dumpOnce(engine, source, units); err != nil {
			log.Fatal(err)
		}
		return
	}

	model := tui.NewModel(engine, source, fileCfg, tui.Options{
		SampleInterval: time.Duration(cfg.IntervalSec * float64(time.Second)),
		Units:          units,
		Mode:           interval.ModeFromString(fileCfg.Interval),
		ShowZeros:      cfg.Zeros,
		Debug:          cfg.Debug,
		CSVPath:        cfg.CSVPath,
		ConfigPath:     cfgPath,
	}, logger)

	opts := []tea.ProgramOption{tea.WithInputTTY()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		log.Fatal(err)
	}
}

func validateAndNormalizeConfig() error {
	if cfg.Units != "" {
		switch cfg.Units {
		case "KiB", "MB", "MiB", "GB", "GiB", "human":
		default:
			return fmt.Errorf("-u must be one of KiB, MB, MiB, GB, GiB, human")
		}
	}
	if cfg.ConfigName == "" {
		return fmt.Errorf("-c must not be empty")
	}
	if cfg.IntervalSec < 0.5 {
		cfg.IntervalSec = 0.5
	}
	if cfg.IntervalSec > 3600 {
		cfg.IntervalSec = 3600
	}
	if cfg.MaxSamples < 2 {
		return fmt.Errorf("-max-samples must be >= 2")
	}
	return nil
}

// newLogger sends diagnostics to the configured file, or drops them:
// the TUI owns the terminal.
func newLogger(path string) *slog.Logger {
	if cfg.Dump {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("cannot open log file %s: %v", path, err)
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, nil))
}

// dumpOnce samples the source one time and prints the report.
func dumpOnce(engine *report.Engine, source meminfo.Source, units tui.Units) error {
	snap, err := source.Read()
	if err != nil {
		return err
	}
	engine.Selector().Learn(source.Fields())
	engine.Observe(snap)

	cols := 80
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		cols = w
	}
	// leave room for the field-name column
	engine.SetColumns(max(1, (cols-28)/10))
	fmt.Print(tui.RenderOnce(engine, units, cfg.Zeros, snap.Mono))
	return nil
}
