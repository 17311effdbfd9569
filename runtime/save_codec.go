package wsruntime

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/gosuda/wsemu/ast"
)

// ConvertSnapshot rewrites the snapshot at inputPath either as normalized JSON
// or CSV seed rows, or as a workshop rule that restores every variable when it
// runs.
func ConvertSnapshot(inputPath, outputPath, outputFormat string) error {
	outputFormat = strings.ToLower(strings.TrimSpace(outputFormat))
	switch outputFormat {
	case "json", "csv", "rules":
	default:
		return fmt.Errorf("unsupported output format %q (use json|csv|rules)", outputFormat)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	tick, vars, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}

	var out []byte
	switch outputFormat {
	case "json":
		out, err = EncodeSnapshot(tick, vars)
		if err != nil {
			return err
		}
	case "csv":
		var b bytes.Buffer
		if err := WriteVariablesCSV(&b, vars); err != nil {
			return err
		}
		out = b.Bytes()
	case "rules":
		out = []byte(ast.FormatRule(RestoreRule(fmt.Sprintf("Restore tick %d", tick), vars)))
	}
	return os.WriteFile(outputPath, out, 0o644)
}

// RestoreRule builds a rule that sets every variable in vars, in name order.
// It runs once: its condition holds only while the first variable differs.
func RestoreRule(name string, vars map[string]Value) *ast.Rule {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	r := &ast.Rule{Name: name, Event: ast.OngoingGlobal}
	for _, k := range names {
		r.Actions = append(r.Actions, ast.E("Set Global Variable", ast.Var(k), vars[k].Node()))
	}
	if len(names) > 0 {
		first := names[0]
		r.Conditions = []ast.Condition{{Left: ast.E("Global Variable", ast.Var(first)), Op: "!=", Right: vars[first].Node()}}
	}
	return r
}

// Node returns an expression that evaluates to v.
func (v Value) Node() ast.Node {
	switch v.kind {
	case NumberKind:
		return numberNode(v.n)
	case BooleanKind:
		if v.b {
			return ast.E("True")
		}
		return ast.E("False")
	case StringKind:
		return ast.E("Custom String", ast.Text{Value: v.s})
	case VectorKind:
		return ast.E("Vector", numberNode(v.vec[0]), numberNode(v.vec[1]), numberNode(v.vec[2]))
	case ArrayKind:
		if len(v.arr) == 0 {
			return ast.E("Empty Array")
		}
		items := make([]ast.Node, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Node()
		}
		return ast.E("Array", items...)
	default:
		return ast.E("Null")
	}
}

func numberNode(f float64) ast.Node {
	switch {
	case math.IsInf(f, 1):
		return ast.E("Divide", ast.Num(1), ast.Num(0))
	case math.IsInf(f, -1):
		return ast.E("Divide", ast.Num(-1), ast.Num(0))
	case math.IsNaN(f):
		return ast.E("Divide", ast.Num(0), ast.Num(0))
	default:
		return ast.Num(f)
	}
}
