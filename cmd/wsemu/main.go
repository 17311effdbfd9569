package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	base := flag.String("base", ".", "base path containing workshop rule files and CSV seeds")
	ticks := flag.Int("ticks", 60, "ticks to run in plain mode")
	tickRate := flag.Float64("tick-rate", 60, "simulated ticks per second")
	budget := flag.Int("budget", 0, "max actions per rule instance per tick (0 = default)")
	mode := flag.String("mode", "plain", "frontend: plain|tui|repl")
	trace := flag.Bool("trace", false, "log every executed action to stderr")
	save := flag.String("save", "", "write a variable snapshot here after running")
	load := flag.String("load", "", "restore a variable snapshot before the first tick")
	dump := flag.Bool("csv", false, "print final variables as CSV in plain mode")
	flag.Parse()

	resolvedBase := strings.TrimSpace(*base)
	if resolvedBase == "" {
		resolvedBase = "."
	}

	cfg := appConfig{
		base:     resolvedBase,
		ticks:    *ticks,
		tickRate: *tickRate,
		budget:   *budget,
		trace:    *trace,
		save:     strings.TrimSpace(*save),
		load:     strings.TrimSpace(*load),
		dumpCSV:  *dump,
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(*mode)) {
	case "plain", "":
		err = runPlain(cfg, os.Stdout)
	case "repl":
		err = runREPL(cfg)
	case "tui":
		p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui: %v\n", err)
			os.Exit(1)
		}
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "wsemu: %v\n", err)
		os.Exit(1)
	}
}
