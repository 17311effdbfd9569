package wsemu

import (
	"fmt"
	"sort"

	"github.com/gosuda/wsemu/ast"
	"github.com/gosuda/wsemu/parser"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

// Compile parses workshop rule files and builds an emulator.
// The input map key is the virtual file name (e.g. "main.ow"). CSV files
// seed initial variables before the first tick.
func Compile(files map[string]string) (*wsruntime.Emulator, error) {
	rules, err := parser.ParseProgram(files)
	if err != nil {
		return nil, err
	}
	em, err := wsruntime.New(rules)
	if err != nil {
		return nil, err
	}
	seeds := []string{}
	for file := range files {
		if wsruntime.IsCSVFile(file) {
			seeds = append(seeds, file)
		}
	}
	sort.Strings(seeds)
	for _, file := range seeds {
		if err := em.SeedVariablesCSV(files[file]); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return em, nil
}

// Parse only returns the rules for tooling use.
func Parse(files map[string]string) ([]*ast.Rule, error) {
	return parser.ParseProgram(files)
}
