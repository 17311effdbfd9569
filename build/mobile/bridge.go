package mobile

import (
	"encoding/json"
	"fmt"

	"github.com/gosuda/wsemu"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

type runResult struct {
	Logs      []string                   `json:"logs"`
	Variables map[string]wsruntime.Value `json:"variables,omitempty"`
	Ticks     int64                      `json:"ticks"`
	Error     string                     `json:"error,omitempty"`
}

// Run compiles workshop rule files provided as a JSON map, runs them for ticks
// ticks and returns a JSON result.
// filesJSON format: {"main.ow":"rule(\"A\") { ... }","seed.csv":"x, 1"}
// snapshotJSON is optional and uses the SaveVariables format.
func Run(filesJSON string, ticks int, snapshotJSON string) string {
	result := runResult{}

	var files map[string]string
	if err := json.Unmarshal([]byte(filesJSON), &files); err != nil {
		result.Error = fmt.Sprintf("invalid files json: %v", err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	if len(files) == 0 {
		result.Error = "no files provided"
		b, _ := json.Marshal(result)
		return string(b)
	}
	if ticks <= 0 {
		ticks = 1
	}

	em, err := wsemu.Compile(files)
	if err != nil {
		result.Error = fmt.Sprintf("compile: %v", err)
		b, _ := json.Marshal(result)
		return string(b)
	}
	if snapshotJSON != "" {
		_, vars, err := wsruntime.DecodeSnapshot([]byte(snapshotJSON))
		if err != nil {
			result.Error = fmt.Sprintf("snapshot: %v", err)
			b, _ := json.Marshal(result)
			return string(b)
		}
		em.Store().Replace(vars)
	}

	if err := em.Run(ticks); err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	result.Logs = em.Logs()
	result.Variables = em.Variables()
	result.Ticks = em.Ticks()

	b, _ := json.Marshal(result)
	return string(b)
}
