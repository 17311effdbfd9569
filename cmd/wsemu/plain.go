package main

import (
	"fmt"
	"io"

	wsruntime "github.com/gosuda/wsemu/runtime"
)

func runPlain(cfg appConfig, out io.Writer) error {
	em, err := openEmulator(cfg)
	if err != nil {
		return err
	}
	em.SetLogger(wsruntime.LoggerFunc(func(text string) {
		fmt.Fprintln(out, text)
	}))

	runErr := em.Run(cfg.ticks)
	if runErr != nil {
		fmt.Fprintf(out, "errors: %v\n", runErr)
	}
	if cfg.dumpCSV {
		if err := wsruntime.WriteVariablesCSV(out, em.Variables()); err != nil {
			return err
		}
	}
	if err := saveEmulator(cfg, em); err != nil {
		return err
	}
	fmt.Fprintf(out, "ran %d ticks (%.3fs simulated)\n", em.Ticks(), em.Clock())
	return nil
}
