//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/gosuda/wsemu"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

type runResult struct {
	Variables map[string]wsruntime.Value `json:"variables,omitempty"`
	Ticks     int64                      `json:"ticks"`
	Error     string                     `json:"error,omitempty"`
}

// logSink forwards log messages to the page's wsemuLog callback if present.
func logSink(text string) {
	fn := js.Global().Get("wsemuLog")
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(text)
}

func runRules(this js.Value, args []js.Value) any {
	result := runResult{}
	if len(args) < 1 {
		result.Error = "wsemuRun requires files JSON object"
		b, _ := json.Marshal(result)
		return string(b)
	}

	var files map[string]string
	if err := json.Unmarshal([]byte(args[0].String()), &files); err != nil {
		result.Error = fmt.Sprintf("invalid files json: %v", err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	if len(files) == 0 {
		result.Error = "no files provided"
		b, _ := json.Marshal(result)
		return string(b)
	}

	ticks := 60
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		if n := args[1].Int(); n > 0 {
			ticks = n
		}
	}

	em, err := wsemu.Compile(files)
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	em.SetLogger(wsruntime.LoggerFunc(logSink))

	if err := em.Run(ticks); err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	result.Variables = em.Variables()
	result.Ticks = em.Ticks()

	b, _ := json.Marshal(result)
	return string(b)
}

func main() {
	js.Global().Set("wsemuRun", js.FuncOf(runRules))
	select {}
}
