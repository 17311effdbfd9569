package main

import (
	wsruntime "github.com/gosuda/wsemu/runtime"
)

type appConfig struct {
	base     string
	ticks    int
	tickRate float64
	budget   int
	trace    bool
	save     string
	load     string
	dumpCSV  bool
}

type emuStartedMsg struct {
	em  *wsruntime.Emulator
	err error
}

type emuTickedMsg struct {
	ran int
	err error
}
