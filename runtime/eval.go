package wsruntime

import (
	"math"
	"sort"
	"strconv"

	"github.com/gosuda/wsemu/ast"
)

// Deferred is a host-side closure standing in for an expression, used when a
// harness synthesizes instructions instead of parsing them.
type Deferred func() Value

func (Deferred) NodeName() string { return "Deferred" }

type exprKey struct {
	name  string
	arity int
}

type exprFunc func(p []ast.Node, s *Store) (Value, error)

// anyArity marks variadic entries of the expression table.
const anyArity = -1

var exprTable map[exprKey]exprFunc

func init() {
	exprTable = map[exprKey]exprFunc{
		{"True", anyArity}:                 constant(Boolean(true)),
		{"False", anyArity}:                constant(Boolean(false)),
		{"Null", anyArity}:                 constant(Default),
		{"Empty Array", anyArity}:          constant(Array()),
		{"Add", 2}:                         arithmetic(Add),
		{"Subtract", 2}:                    arithmetic(Subtract),
		{"Multiply", 2}:                    arithmetic(Multiply),
		{"Divide", 2}:                      arithmetic(Divide),
		{"Modulo", 2}:                      arithmetic(Modulo),
		{"Raise To Power", 2}:              arithmetic(Pow),
		{"Min", 2}:                         arithmetic(Min),
		{"Max", 2}:                         arithmetic(Max),
		{"Compare", 3}:                     evalCompare,
		{"And", 2}:                         arithmetic(func(a, b Value) Value { return Boolean(a.AsBoolean() && b.AsBoolean()) }),
		{"Or", 2}:                          arithmetic(func(a, b Value) Value { return Boolean(a.AsBoolean() || b.AsBoolean()) }),
		{"Not", 1}:                         unary(func(v Value) Value { return Boolean(!v.AsBoolean()) }),
		{"If-Then-Else", 3}:                evalIfThenElse,
		{"Absolute Value", 1}:              unary(absolute),
		{"Count Of", 1}:                    unary(func(v Value) Value { return Number(float64(v.CountOf())) }),
		{"First Of", 1}:                    unary(Value.FirstOf),
		{"Last Of", 1}:                     unary(Value.LastOf),
		{"Array", anyArity}:                evalArray,
		{"Value In Array", 2}:              arithmetic(func(a, i Value) Value { return a.ValueInArray(i.AsNumber()) }),
		{"Index Of Array Value", 2}:        arithmetic(func(a, x Value) Value { return Number(float64(a.IndexOf(x))) }),
		{"Array Contains", 2}:              arithmetic(func(a, x Value) Value { return Boolean(a.IndexOf(x) >= 0) }),
		{"Append To Array", 2}:             arithmetic(Value.Append),
		{"Remove From Array", 2}:           arithmetic(removeAll),
		{"Global Variable", 1}:             evalGlobalVariable,
		{"String", anyArity}:               evalString,
		{"Custom String", anyArity}:        evalString,
		{"Vector", 3}:                      evalVector,
		{"X Component Of", 1}:              unary(func(v Value) Value { x, _, _ := v.Components(); return Number(x) }),
		{"Y Component Of", 1}:              unary(func(v Value) Value { _, y, _ := v.Components(); return Number(y) }),
		{"Z Component Of", 1}:              unary(func(v Value) Value { _, _, z := v.Components(); return Number(z) }),
	}
}

// Evaluate reduces n to a Value. It reads s but never writes to it.
func Evaluate(n ast.Node, s *Store) (Value, error) {
	switch node := n.(type) {
	case ast.Number:
		return Number(node.Value), nil
	case ast.Text:
		return String(node.Value), nil
	case ast.Variable:
		return s.Get(node.Name), nil
	case Deferred:
		return node(), nil
	case ast.Element:
		fn, ok := exprTable[exprKey{node.Name, len(node.Params)}]
		if !ok {
			fn, ok = exprTable[exprKey{node.Name, anyArity}]
		}
		if !ok {
			return Default, unsupported(node.Name, len(node.Params))
		}
		return fn(node.Params, s)
	case nil:
		return Default, evalErrorf("", "missing expression")
	default:
		return Default, evalErrorf(n.NodeName(), "workshop tree %s cannot be evaluated as a value", ast.String(n))
	}
}

func evaluateAll(p []ast.Node, s *Store) ([]Value, error) {
	out := make([]Value, len(p))
	for i, n := range p {
		v, err := Evaluate(n, s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func constant(v Value) exprFunc {
	return func([]ast.Node, *Store) (Value, error) { return v, nil }
}

func unary(f func(Value) Value) exprFunc {
	return func(p []ast.Node, s *Store) (Value, error) {
		v, err := Evaluate(p[0], s)
		if err != nil {
			return Default, err
		}
		return f(v), nil
	}
}

func arithmetic(f func(a, b Value) Value) exprFunc {
	return func(p []ast.Node, s *Store) (Value, error) {
		vs, err := evaluateAll(p, s)
		if err != nil {
			return Default, err
		}
		return f(vs[0], vs[1]), nil
	}
}

func evalCompare(p []ast.Node, s *Store) (Value, error) {
	left, err := Evaluate(p[0], s)
	if err != nil {
		return Default, err
	}
	op, err := operatorOf(p[1])
	if err != nil {
		return Default, err
	}
	right, err := Evaluate(p[2], s)
	if err != nil {
		return Default, err
	}
	return Compare(left, op, right), nil
}

func evalIfThenElse(p []ast.Node, s *Store) (Value, error) {
	vs, err := evaluateAll(p, s)
	if err != nil {
		return Default, err
	}
	if vs[0].AsBoolean() {
		return vs[1], nil
	}
	return vs[2], nil
}

func evalArray(p []ast.Node, s *Store) (Value, error) {
	vs, err := evaluateAll(p, s)
	if err != nil {
		return Default, err
	}
	return from(vs), nil
}

func evalGlobalVariable(p []ast.Node, s *Store) (Value, error) {
	name, err := variableName(p[0])
	if err != nil {
		return Default, err
	}
	return s.Get(name), nil
}

func evalVector(p []ast.Node, s *Store) (Value, error) {
	vs, err := evaluateAll(p, s)
	if err != nil {
		return Default, err
	}
	return Vector(vs[0].AsNumber(), vs[1].AsNumber(), vs[2].AsNumber()), nil
}

func evalString(p []ast.Node, s *Store) (Value, error) {
	if len(p) == 0 {
		return Default, evalErrorf("String", "string element without a template")
	}
	tmpl, ok := p[0].(ast.Text)
	if !ok {
		return Default, evalErrorf("String", "string template must be text, got %s", ast.String(p[0]))
	}
	formats, err := evaluateAll(p[1:], s)
	if err != nil {
		return Default, err
	}
	return String(formatTemplate(tmpl.Value, formats)), nil
}

func absolute(v Value) Value {
	if v.kind != NumberKind {
		return Default
	}
	return Number(math.Abs(v.n))
}

func removeAll(a, x Value) Value {
	out := a
	for _, item := range x.Spread() {
		out = out.RemoveByValue(item)
	}
	return out
}

// variableName accepts a variable token or a bare parameterless element, which
// is how loaders that do not know parameter types spell a variable. Bare
// elements naming an expression such as True or Null are rejected.
func variableName(n ast.Node) (string, error) {
	switch v := n.(type) {
	case ast.Variable:
		return v.Name, nil
	case ast.Element:
		if len(v.Params) == 0 && v.Name != "" && !isExpressionName(v.Name) {
			return v.Name, nil
		}
	}
	return "", evalErrorf("Global Variable", "expected a variable name, got %s", ast.String(n))
}

func isExpressionName(name string) bool {
	if _, ok := exprTable[exprKey{name, 0}]; ok {
		return true
	}
	_, ok := exprTable[exprKey{name, anyArity}]
	return ok
}

func subroutineName(n ast.Node) (string, error) {
	switch v := n.(type) {
	case ast.Subroutine:
		return v.Name, nil
	case ast.Element:
		if len(v.Params) == 0 && v.Name != "" {
			return v.Name, nil
		}
	}
	return "", evalErrorf("Call Subroutine", "expected a subroutine name, got %s", ast.String(n))
}

func enumName(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case ast.Enum:
		return v.Name, true
	case ast.Text:
		return v.Value, true
	case ast.Element:
		if len(v.Params) == 0 {
			return v.Name, true
		}
	}
	return "", false
}

func operatorOf(n ast.Node) (Operator, error) {
	if name, ok := enumName(n); ok {
		if op, ok := ParseOperator(name); ok {
			return op, nil
		}
	}
	return 0, evalErrorf("Compare", "expected a comparison operator, got %s", ast.String(n))
}

func operationOf(n ast.Node) (Operation, error) {
	if name, ok := enumName(n); ok {
		if op, ok := ParseOperation(name); ok {
			return op, nil
		}
	}
	return 0, evalErrorf("Modify Global Variable", "expected an operation, got %s", ast.String(n))
}

// SupportedExpressions lists the expression table as "Name/arity" entries,
// with "*" for variadic ones.
func SupportedExpressions() []string {
	out := make([]string, 0, len(exprTable))
	for k := range exprTable {
		arity := "*"
		if k.arity != anyArity {
			arity = strconv.Itoa(k.arity)
		}
		out = append(out, k.name+"/"+arity)
	}
	sort.Strings(out)
	return out
}
