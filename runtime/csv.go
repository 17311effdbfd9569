package wsruntime

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gosuda/wsemu/ast"
	"github.com/gosuda/wsemu/parser"
)

// SeedVariablesCSV sets initial variables from "name, expression" rows.
// Blank lines and lines starting with ';' are ignored.
func (em *Emulator) SeedVariablesCSV(raw string) error {
	for i, row := range parseCSVContent(raw) {
		if len(row) < 2 {
			return fmt.Errorf("row %d: expected name and value", i+1)
		}
		name := strings.TrimSpace(row[0])
		src := strings.TrimSpace(strings.Join(row[1:], ","))
		n, err := parser.ParseExpr(src)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i+1, name, err)
		}
		v, err := Evaluate(n, em.store)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i+1, name, err)
		}
		em.store.Set(name, v)
	}
	return nil
}

// WriteVariablesCSV writes vars as "name,expression" rows in name order, in
// the format SeedVariablesCSV reads back.
func WriteVariablesCSV(w io.Writer, vars map[string]Value) error {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	cw := csv.NewWriter(w)
	for _, k := range names {
		if err := cw.Write([]string{k, ast.String(vars[k].Node())}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseCSVContent(raw string) [][]string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rec, err := r.Read()
		if err != nil {
			rows = append(rows, strings.Split(line, ","))
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}

// IsCSVFile reports whether name is a variable seed file.
func IsCSVFile(name string) bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(name)), ".CSV")
}
