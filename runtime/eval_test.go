package wsruntime

import (
	"errors"
	"strings"
	"testing"

	"github.com/gosuda/wsemu/ast"
)

func mustEval(t *testing.T, n ast.Node, s *Store) Value {
	t.Helper()
	v, err := Evaluate(n, s)
	if err != nil {
		t.Fatalf("evaluate %s: %v", ast.String(n), err)
	}
	return v
}

func TestEvaluateCompareElement(t *testing.T) {
	n := ast.E("Compare", ast.Num(5), ast.Enum{Name: "GreaterThan"}, ast.Num(3))
	if got := mustEval(t, n, NewStore()); !got.Equal(Boolean(true)) {
		t.Fatalf("compare: %s", got)
	}
}

func TestEvaluateUnsupportedArity(t *testing.T) {
	_, err := Evaluate(ast.E("Add", ast.Num(1)), NewStore())
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	want := "emulation for workshop function 'Add' (with 1 parameters) is not supported"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestEvaluateReadsButNeverWrites(t *testing.T) {
	s := NewStore()
	s.Set("a", Number(2))
	n := ast.E("Add", ast.E("Global Variable", ast.Var("a")), ast.Num(3))
	if got := mustEval(t, n, s); !got.Equal(Number(5)) {
		t.Fatalf("add: %s", got)
	}
	if got := s.Get("a"); !got.Equal(Number(2)) {
		t.Fatalf("store changed: %s", got)
	}
}

func TestEvaluateArrays(t *testing.T) {
	s := NewStore()
	s.Set("list", Array(Number(4), Number(5), Number(6)))
	list := ast.E("Global Variable", ast.Var("list"))
	cases := []struct {
		n    ast.Node
		want Value
	}{
		{ast.E("Count Of", list), Number(3)},
		{ast.E("First Of", list), Number(4)},
		{ast.E("Last Of", list), Number(6)},
		{ast.E("Value In Array", list, ast.Num(1)), Number(5)},
		{ast.E("Value In Array", list, ast.Num(-1)), Default},
		{ast.E("Index Of Array Value", list, ast.Num(6)), Number(2)},
		{ast.E("Index Of Array Value", list, ast.Num(9)), Number(-1)},
		{ast.E("Array Contains", list, ast.Num(5)), Boolean(true)},
		{ast.E("Append To Array", list, ast.Num(7)), Array(Number(4), Number(5), Number(6), Number(7))},
		{ast.E("Remove From Array", list, ast.E("Array", ast.Num(4), ast.Num(6))), Array(Number(5))},
		{ast.E("Empty Array"), Array()},
		{ast.E("Count Of", ast.Num(3)), Number(0)},
	}
	for _, c := range cases {
		if got := mustEval(t, c.n, s); !got.Equal(c.want) {
			t.Fatalf("%s: got %s, want %s", ast.String(c.n), got, c.want)
		}
	}
}

func TestEvaluateLogicAndMath(t *testing.T) {
	s := NewStore()
	cases := []struct {
		n    ast.Node
		want Value
	}{
		{ast.E("And", ast.E("True"), ast.Num(0)), Boolean(false)},
		{ast.E("Or", ast.E("False"), ast.Num(2)), Boolean(true)},
		{ast.E("Not", ast.Num(0)), Boolean(true)},
		{ast.E("If-Then-Else", ast.E("False"), ast.Num(1), ast.Num(2)), Number(2)},
		{ast.E("Absolute Value", ast.Num(-4)), Number(4)},
		{ast.E("Absolute Value", ast.E("True")), Default},
		{ast.E("Subtract", ast.Num(1), ast.E("True")), Default},
		{ast.E("Max", ast.Num(1), ast.Num(9)), Number(9)},
		{ast.E("Null"), Default},
		{ast.E("Y Component Of", ast.E("Vector", ast.Num(1), ast.Num(2), ast.Num(3))), Number(2)},
		{ast.E("X Component Of", ast.Num(5)), Number(0)},
	}
	for _, c := range cases {
		if got := mustEval(t, c.n, s); !got.Equal(c.want) {
			t.Fatalf("%s: got %s, want %s", ast.String(c.n), got, c.want)
		}
	}
}

func TestEvaluateCustomString(t *testing.T) {
	n := ast.E("Custom String", ast.Text{Value: "{0} and {1}, {0}"}, ast.Num(1), ast.E("True"))
	if got := mustEval(t, n, NewStore()); got.String() != "1 and True, 1" {
		t.Fatalf("custom string: %q", got.String())
	}
	_, err := Evaluate(ast.E("Custom String", ast.Num(1)), NewStore())
	if err == nil || !strings.Contains(err.Error(), "template") {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestEvaluateVariableShapes(t *testing.T) {
	s := NewStore()
	s.Set("v", Number(3))
	for _, n := range []ast.Node{
		ast.Var("v"),
		ast.E("Global Variable", ast.Var("v")),
		ast.E("Global Variable", ast.E("v")),
	} {
		if got := mustEval(t, n, s); !got.Equal(Number(3)) {
			t.Fatalf("%s: %s", ast.String(n), got)
		}
	}
	if _, err := Evaluate(ast.E("Global Variable", ast.Num(1)), s); err == nil {
		t.Fatalf("a number is not a variable reference")
	}
	for _, name := range []string{"True", "Null", "Empty Array"} {
		if _, err := Evaluate(ast.E("Global Variable", ast.E(name)), s); err == nil {
			t.Fatalf("%s is not a variable reference", name)
		}
	}
	if _, err := Evaluate(ast.Subroutine{Name: "x"}, s); err == nil {
		t.Fatalf("a subroutine reference is not a value")
	}
}

func TestDeferredNode(t *testing.T) {
	calls := 0
	d := Deferred(func() Value { calls++; return String("late") })
	if got := mustEval(t, ast.E("Array", d, d), NewStore()); !got.Equal(Array(String("late"), String("late"))) {
		t.Fatalf("deferred: %s", got)
	}
	if calls != 2 {
		t.Fatalf("deferred should run on every evaluation, ran %d times", calls)
	}
}

func TestSupportedVocabulary(t *testing.T) {
	exprs := strings.Join(SupportedExpressions(), ",")
	for _, want := range []string{"Add/2", "Array/*", "Compare/3"} {
		if !strings.Contains(exprs, want) {
			t.Fatalf("missing %s in %s", want, exprs)
		}
	}
	ins := SupportedInstructions()
	if len(ins) != len(opcodes) || ins[0] > ins[len(ins)-1] {
		t.Fatalf("instructions should be sorted: %v", ins)
	}
}
