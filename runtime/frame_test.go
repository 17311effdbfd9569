package wsruntime

import (
	"errors"
	"strings"
	"testing"

	"github.com/gosuda/wsemu/ast"
)

func newTestFrame(t *testing.T, actions ...ast.Node) *frame {
	t.Helper()
	r := &ast.Rule{Name: "test", Event: ast.OngoingGlobal, Actions: actions}
	em, err := New([]*ast.Rule{r})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	return newFrame(em, em.instances[0].rule)
}

func runFrame(t *testing.T, f *frame) execResult {
	t.Helper()
	budget := 10_000
	res, err := f.run(&budget)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return res
}

func set(name string, v ast.Node) ast.Node {
	return ast.E("Set Global Variable", ast.Var(name), v)
}

func TestFrameLeavesBlockStackEmpty(t *testing.T) {
	f := newTestFrame(t,
		ast.E("If", ast.E("True")),
		ast.E("While", ast.E("False")),
		ast.E("If", ast.E("True")),
		ast.E("End"),
		ast.E("End"),
		ast.E("For Global Variable", ast.Var("i"), ast.Num(0), ast.Num(2), ast.Num(1)),
		ast.E("If", ast.E("False")),
		ast.E("Else If", ast.E("False")),
		ast.E("Else"),
		ast.E("End"),
		ast.E("End"),
		ast.E("End"),
	)
	res := runFrame(t, f)
	if res.kind != resultCompleted {
		t.Fatalf("unexpected result: %s", res.kind)
	}
	if len(f.blocks) != 0 {
		t.Fatalf("block stack not empty: %v", f.blocks)
	}
}

func TestProgressPastNestedElse(t *testing.T) {
	// The failed outer If must skip the inner If's Else and End.
	f := newTestFrame(t,
		ast.E("If", ast.E("False")),
		ast.E("If", ast.E("True")),
		set("wrong", ast.Num(1)),
		ast.E("Else"),
		set("wrong", ast.Num(2)),
		ast.E("End"),
		ast.E("Else"),
		set("right", ast.Num(1)),
		ast.E("End"),
	)
	runFrame(t, f)
	if got := f.em.store.Get("wrong"); !got.Equal(Default) {
		t.Fatalf("inner block ran: %s", got)
	}
	if got := f.em.store.Get("right"); !got.Equal(Number(1)) {
		t.Fatalf("outer else skipped: %s", got)
	}
}

func TestCallSuspendsFrame(t *testing.T) {
	f := newTestFrame(t,
		ast.E("If", ast.E("True")),
		ast.E("Call Subroutine", ast.Subroutine{Name: "Sub"}),
		set("after", ast.Num(1)),
		ast.E("End"),
	)
	res := runFrame(t, f)
	if res.kind != resultCall || res.target != "Sub" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.action != 2 || len(f.blocks) != 1 {
		t.Fatalf("frame state lost: action=%d blocks=%v", f.action, f.blocks)
	}
	res = runFrame(t, f)
	if res.kind != resultCompleted {
		t.Fatalf("resume: %s", res.kind)
	}
	if got := f.em.store.Get("after"); !got.Equal(Number(1)) {
		t.Fatalf("caller did not resume: %s", got)
	}
}

func TestWaitClampsToMinimum(t *testing.T) {
	f := newTestFrame(t, ast.E("Wait", ast.Num(0)))
	res := runFrame(t, f)
	if res.kind != resultWait || res.seconds != minWait || res.abortWhenFalse {
		t.Fatalf("unexpected wait: %+v", res)
	}
}

func TestStepBudgetExhaustion(t *testing.T) {
	f := newTestFrame(t,
		ast.E("While", ast.E("True")),
		ast.E("End"),
	)
	budget := 50
	_, err := f.run(&budget)
	if err == nil || !strings.Contains(err.Error(), "step budget") {
		t.Fatalf("expected budget error, got %v", err)
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("budget error should be an EvalError, got %T", err)
	}
}

func expectViolation(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		cv, ok := recover().(ContractViolation)
		if !ok {
			t.Fatalf("expected contract violation")
		}
		if !strings.Contains(cv.Error(), want) {
			t.Fatalf("unexpected violation %q, want %q", cv.Error(), want)
		}
	}()
	fn()
}

func TestContractViolations(t *testing.T) {
	expectViolation(t, "open blocks", func() {
		runFrame(t, newTestFrame(t, ast.E("If", ast.E("True"))))
	})
	expectViolation(t, "past the last action", func() {
		runFrame(t, newTestFrame(t, ast.E("If", ast.E("False"))))
	})
	expectViolation(t, "End without an open block", func() {
		runFrame(t, newTestFrame(t, ast.E("End")))
	})
	expectViolation(t, "ifBlock", func() {
		runFrame(t, newTestFrame(t, ast.E("If", ast.E("True")), ast.E("If", ast.E("True")), ast.E("End")))
	})
}

func TestCompileRuleRejectsBadActions(t *testing.T) {
	cases := []ast.Node{
		ast.Num(1),
		ast.E("Teleport"),
		ast.E("Set Global Variable", ast.Var("x")),
	}
	for _, a := range cases {
		if _, err := compileRule(&ast.Rule{Name: "bad", Actions: []ast.Node{a}}); err == nil {
			t.Fatalf("%s should not compile", ast.String(a))
		}
	}
}
