package wsruntime

import (
	"fmt"

	"github.com/kr/pretty"
)

// EvalError reports an expression or reference the emulator cannot evaluate.
// It is fatal for the rule instance that raised it, not for the emulator.
type EvalError struct {
	Name  string
	Arity int
	Msg   string
}

func (e *EvalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("emulation for workshop function '%s' (with %d parameters) is not supported", e.Name, e.Arity)
}

func unsupported(name string, arity int) error {
	return &EvalError{Name: name, Arity: arity}
}

func evalErrorf(name string, format string, args ...any) error {
	return &EvalError{Name: name, Msg: fmt.Sprintf(format, args...)}
}

// ContractViolation is the panic value for defects in the instruction stream
// (unbalanced blocks, unknown operations). These are never recovered by the
// emulator.
type ContractViolation struct {
	Msg string
}

func (c ContractViolation) Error() string {
	return "contract violation: " + c.Msg
}

func contractViolation(format string, args ...any) {
	panic(ContractViolation{Msg: fmt.Sprintf(format, args...)})
}

// blockViolation panics with a dump of the frame's block stack.
func (f *frame) blockViolation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	contractViolation("rule %q action %d: %s; block stack: %s", f.rule.Name, f.action, msg, pretty.Sprint(f.blocks))
}
