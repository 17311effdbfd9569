package wsruntime

import (
	"fmt"
	"sort"

	"github.com/gosuda/wsemu/ast"
)

type opcode int

const (
	opInvalid opcode = iota
	opSetVariable
	opSetVariableAtIndex
	opModifyVariable
	opModifyVariableAtIndex
	opIf
	opElseIf
	opElse
	opWhile
	opForGlobalVariable
	opEnd
	opBreak
	opContinue
	opSkip
	opSkipIf
	opCallSubroutine
	opStartRule
	opAbort
	opAbortIf
	opAbortIfConditionIsTrue
	opAbortIfConditionIsFalse
	opLoop
	opLoopIf
	opLoopIfConditionIsTrue
	opLoopIfConditionIsFalse
	opWait
	opSmallMessage
	opBigMessage
	opLogToInspector
)

type opInfo struct {
	op    opcode
	arity int // minimum parameter count
}

var opcodes = map[string]opInfo{
	"Set Global Variable":               {opSetVariable, 2},
	"Set Global Variable At Index":      {opSetVariableAtIndex, 3},
	"Modify Global Variable":            {opModifyVariable, 3},
	"Modify Global Variable At Index":   {opModifyVariableAtIndex, 4},
	"If":                                {opIf, 1},
	"Else If":                           {opElseIf, 1},
	"Else":                              {opElse, 0},
	"While":                             {opWhile, 1},
	"For Global Variable":               {opForGlobalVariable, 4},
	"End":                               {opEnd, 0},
	"Break":                             {opBreak, 0},
	"Continue":                          {opContinue, 0},
	"Skip":                              {opSkip, 1},
	"Skip If":                           {opSkipIf, 2},
	"Call Subroutine":                   {opCallSubroutine, 1},
	"Start Rule":                        {opStartRule, 1},
	"Abort":                             {opAbort, 0},
	"Abort If":                          {opAbortIf, 1},
	"Abort If Condition Is True":        {opAbortIfConditionIsTrue, 0},
	"Abort If Condition Is False":       {opAbortIfConditionIsFalse, 0},
	"Loop":                              {opLoop, 0},
	"Loop If":                           {opLoopIf, 1},
	"Loop If Condition Is True":         {opLoopIfConditionIsTrue, 0},
	"Loop If Condition Is False":        {opLoopIfConditionIsFalse, 0},
	"Wait":                              {opWait, 1},
	"Small Message":                     {opSmallMessage, 1},
	"Big Message":                       {opBigMessage, 1},
	"Log To Inspector":                  {opLogToInspector, 1},
}

type instruction struct {
	op     opcode
	name   string
	params []ast.Node
}

type compiledRule struct {
	*ast.Rule
	code []instruction
}

// compileRule resolves every action name to its opcode up front so that an
// unsupported action is reported when the emulator is built.
func compileRule(r *ast.Rule) (*compiledRule, error) {
	code := make([]instruction, len(r.Actions))
	for i, a := range r.Actions {
		el, ok := a.(ast.Element)
		if !ok {
			return nil, fmt.Errorf("rule %q action %d: %s is not an action", r.Name, i, ast.String(a))
		}
		info, ok := opcodes[el.Name]
		if !ok {
			return nil, fmt.Errorf("rule %q action %d: unhandled action %q", r.Name, i, el.Name)
		}
		if len(el.Params) < info.arity {
			return nil, fmt.Errorf("rule %q action %d: %s needs %d parameters, got %d", r.Name, i, el.Name, info.arity, len(el.Params))
		}
		code[i] = instruction{op: info.op, name: el.Name, params: el.Params}
	}
	return &compiledRule{Rule: r, code: code}, nil
}

// SupportedInstructions lists the action names the emulator executes.
func SupportedInstructions() []string {
	out := make([]string, 0, len(opcodes))
	for name := range opcodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
