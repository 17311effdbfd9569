package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/gosuda/wsemu/parser"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

const historyFile = ".wsemu_history"

func runREPL(cfg appConfig) error {
	em, err := openEmulator(cfg)
	if err != nil {
		return err
	}
	em.SetLogger(wsruntime.LoggerFunc(func(text string) {
		fmt.Println(text)
	}))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("wsemu repl. :help lists commands.")
	for {
		line, err := ln.Prompt("wsemu> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		quit, err := replCommand(em, line, os.Stdout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if quit {
			break
		}
	}
	return saveEmulator(cfg, em)
}

// replCommand runs one REPL line. Lines not starting with ':' are evaluated
// as expressions against the current variables.
func replCommand(em *wsruntime.Emulator, line string, out io.Writer) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		n, err := parser.ParseExpr(line)
		if err != nil {
			return false, err
		}
		v, err := em.Evaluate(n)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, v)
		return false, nil
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "q", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(out, ":tick [n]  :vars  :csv  :active  :clock  :set name expr  :save path  :load path  :quit")
	case "tick":
		n := 1
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v <= 0 {
				return false, fmt.Errorf("invalid tick count %q", arg)
			}
			n = v
		}
		if err := em.Run(n); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "tick %d, clock %.3fs\n", em.Ticks(), em.Clock())
	case "vars":
		vars := em.Variables()
		for _, name := range em.Store().Names() {
			fmt.Fprintf(out, "%s = %s\n", name, vars[name])
		}
	case "csv":
		return false, wsruntime.WriteVariablesCSV(out, em.Variables())
	case "active":
		active := em.Active()
		names := make([]string, 0, len(active))
		for name := range active {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s: depth %d\n", name, active[name])
		}
	case "clock":
		fmt.Fprintf(out, "tick %d, clock %.3fs\n", em.Ticks(), em.Clock())
	case "set":
		name, src, ok := strings.Cut(arg, " ")
		if !ok {
			return false, fmt.Errorf("usage: :set name expr")
		}
		n, err := parser.ParseExpr(src)
		if err != nil {
			return false, err
		}
		v, err := em.Evaluate(n)
		if err != nil {
			return false, err
		}
		em.Store().Set(name, v)
	case "save":
		if arg == "" {
			return false, fmt.Errorf("usage: :save path")
		}
		return false, em.SaveVariables(arg)
	case "load":
		if arg == "" {
			return false, fmt.Errorf("usage: :load path")
		}
		ok, err := em.LoadVariables(arg)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%s: no snapshot", arg)
		}
	default:
		return false, fmt.Errorf("unknown command %q, try :help", cmd)
	}
	return false, nil
}
