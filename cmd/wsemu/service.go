package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gosuda/wsemu"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

// openEmulator loads and compiles cfg.base and applies the runtime options.
func openEmulator(cfg appConfig) (*wsruntime.Emulator, error) {
	files, err := loadScripts(cfg.base)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	em, err := wsemu.Compile(files)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if cfg.tickRate > 0 {
		if err := em.SetTickRate(cfg.tickRate); err != nil {
			return nil, err
		}
	}
	if cfg.budget > 0 {
		if err := em.SetStepBudget(cfg.budget); err != nil {
			return nil, err
		}
	}
	if cfg.trace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		em.SetTracer(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
	}
	if cfg.load != "" {
		ok, err := em.LoadVariables(cfg.load)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "snapshot %s not found, starting empty\n", cfg.load)
		}
	}
	return em, nil
}

func saveEmulator(cfg appConfig, em *wsruntime.Emulator) error {
	if cfg.save == "" {
		return nil
	}
	if err := em.SaveVariables(cfg.save); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
