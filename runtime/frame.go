package wsruntime

import (
	"math"

	"github.com/gosuda/wsemu/ast"
)

type resultKind int

const (
	resultNone resultKind = iota
	resultCall
	resultStart
	resultWait
	resultAborted
	resultCompleted
)

func (k resultKind) String() string {
	switch k {
	case resultNone:
		return "continue"
	case resultCall:
		return "call"
	case resultStart:
		return "start"
	case resultWait:
		return "wait"
	case resultAborted:
		return "aborted"
	case resultCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type execResult struct {
	kind    resultKind
	target  string
	restart bool
	seconds float64
	// abortWhenFalse makes a wait abort the rule if its conditions stop holding.
	abortWhenFalse bool
}

// frame is one activation of one rule: an instruction pointer over the flat
// action list plus the block stack that reconstructs its nesting.
type frame struct {
	em         *Emulator
	rule       *compiledRule
	action     int
	blocks     []blockEntry
	skip       int
	breaking   bool
	continuing bool
}

func newFrame(em *Emulator, rule *compiledRule) *frame {
	return &frame{em: em, rule: rule}
}

// run steps the frame until it needs the scheduler or reaches the end of its
// actions. budget is shared by every frame of one rule instance in one tick.
func (f *frame) run(budget *int) (execResult, error) {
	for f.action < len(f.rule.code) {
		if *budget <= 0 {
			return execResult{}, evalErrorf("", "step budget of %d actions exhausted in one tick", f.em.budget)
		}
		*budget--
		res, err := f.step()
		if err != nil {
			return execResult{}, err
		}
		if res.kind != resultNone {
			return res, nil
		}
	}
	if len(f.blocks) > 0 {
		f.blockViolation("rule ended with %d open blocks", len(f.blocks))
	}
	return execResult{kind: resultCompleted}, nil
}

func (f *frame) step() (execResult, error) {
	ins := f.rule.code[f.action]
	f.action++

	if e := f.em.tracer.Trace(); e.Enabled() {
		e.Str("rule", f.rule.Name).
			Int("action", f.action-1).
			Str("instruction", ins.name).
			Int("depth", len(f.blocks)).
			Int("skip", f.skip).
			Bool("breaking", f.breaking).
			Bool("continuing", f.continuing).
			Msg("step")
	}

	if f.breaking || f.continuing {
		return execResult{kind: resultNone}, f.escapeLoop(ins)
	}
	if f.skip > 0 {
		f.skip--
		f.skipAction(ins)
		return execResult{kind: resultNone}, nil
	}
	return f.execute(ins)
}

// skipAction keeps the block stack balanced for an action jumped over by Skip.
func (f *frame) skipAction(ins instruction) {
	switch {
	case opensBlock(ins.name):
		f.pushBlock(skippedBlock{})
	case ins.name == "End":
		f.popBlock()
	}
}

// escapeLoop classifies actions passed over by Break or Continue. The first
// End that closes a real loop ends the escape: Break drops the loop, Continue
// runs the loop's normal End.
func (f *frame) escapeLoop(ins instruction) error {
	switch {
	case opensBlock(ins.name):
		f.pushBlock(skippedBlock{})
	case ins.name == "End":
		top, ok := f.topBlock()
		if !ok || !top.isLoop() {
			f.popBlock()
			return nil
		}
		if f.breaking {
			f.breaking = false
			f.popBlock()
			return nil
		}
		f.continuing = false
		return f.endBlock()
	}
	return nil
}

func (f *frame) execute(ins instruction) (execResult, error) {
	p := ins.params
	store := f.em.store
	none := execResult{kind: resultNone}

	switch ins.op {
	case opSetVariable:
		name, err := variableName(p[0])
		if err != nil {
			return none, err
		}
		v, err := f.eval(p[1])
		if err != nil {
			return none, err
		}
		store.Set(name, v)

	case opSetVariableAtIndex:
		name, err := variableName(p[0])
		if err != nil {
			return none, err
		}
		index, err := f.eval(p[1])
		if err != nil {
			return none, err
		}
		v, err := f.eval(p[2])
		if err != nil {
			return none, err
		}
		store.Update(name, func(cur Value) Value { return cur.SetAtIndex(index.AsNumber(), v) })

	case opModifyVariable:
		name, err := variableName(p[0])
		if err != nil {
			return none, err
		}
		op, err := operationOf(p[1])
		if err != nil {
			return none, err
		}
		v, err := f.eval(p[2])
		if err != nil {
			return none, err
		}
		store.Update(name, func(cur Value) Value { return cur.Modify(op, v) })

	case opModifyVariableAtIndex:
		name, err := variableName(p[0])
		if err != nil {
			return none, err
		}
		index, err := f.eval(p[1])
		if err != nil {
			return none, err
		}
		op, err := operationOf(p[2])
		if err != nil {
			return none, err
		}
		v, err := f.eval(p[3])
		if err != nil {
			return none, err
		}
		store.Update(name, func(cur Value) Value { return cur.ModifyAtIndex(index.AsNumber(), op, v) })

	case opIf:
		return none, f.executeIf(p[0])

	case opElseIf:
		if f.runElse() {
			f.popBlock()
			return none, f.executeIf(p[0])
		}
		f.progressToEndOfBlock(ifChainBlock)

	case opElse:
		if !f.runElse() {
			f.progressToEndOfBlock(simpleBlock)
		}

	case opWhile:
		ok, err := f.evalBool(p[0])
		if err != nil {
			return none, err
		}
		if !ok {
			f.progressPastBlock(simpleBlock)
			break
		}
		f.pushBlock(whileBlock{Header: f.action, Cond: p[0]})

	case opForGlobalVariable:
		name, err := variableName(p[0])
		if err != nil {
			return none, err
		}
		vs, err := evaluateAll(p[1:4], store)
		if err != nil {
			return none, err
		}
		store.Set(name, vs[0])
		loop := forBlock{Header: f.action, Variable: name, End: vs[1].AsNumber(), Step: vs[2].AsNumber()}
		if !(store.Get(name).AsNumber() < loop.End) {
			f.progressPastBlock(simpleBlock)
			break
		}
		f.pushBlock(loop)

	case opEnd:
		return none, f.endBlock()

	case opBreak:
		f.breaking = true

	case opContinue:
		f.continuing = true

	case opSkip:
		n, err := f.eval(p[0])
		if err != nil {
			return none, err
		}
		f.skip = skipCount(n)

	case opSkipIf:
		ok, err := f.evalBool(p[0])
		if err != nil {
			return none, err
		}
		if ok {
			n, err := f.eval(p[1])
			if err != nil {
				return none, err
			}
			f.skip = skipCount(n)
		}

	case opCallSubroutine:
		name, err := subroutineName(p[0])
		if err != nil {
			return none, err
		}
		return execResult{kind: resultCall, target: name}, nil

	case opStartRule:
		name, err := subroutineName(p[0])
		if err != nil {
			return none, err
		}
		restart := false
		if len(p) > 1 {
			behavior, _ := enumName(p[1])
			restart = behavior == "Restart Rule" || behavior == "RestartRule"
		}
		return execResult{kind: resultStart, target: name, restart: restart}, nil

	case opAbort:
		return execResult{kind: resultAborted}, nil

	case opAbortIf, opLoopIf:
		ok, err := f.evalBool(p[0])
		if err != nil || !ok {
			return none, err
		}
		return f.abortOrLoop(ins.op == opAbortIf), nil

	case opAbortIfConditionIsTrue, opAbortIfConditionIsFalse, opLoopIfConditionIsTrue, opLoopIfConditionIsFalse:
		holds, err := f.em.conditionsHold(f.rule)
		if err != nil {
			return none, err
		}
		want := ins.op == opAbortIfConditionIsTrue || ins.op == opLoopIfConditionIsTrue
		if holds != want {
			return none, nil
		}
		return f.abortOrLoop(ins.op == opAbortIfConditionIsTrue || ins.op == opAbortIfConditionIsFalse), nil

	case opLoop:
		f.restart()

	case opWait:
		d, err := f.eval(p[0])
		if err != nil {
			return none, err
		}
		res := execResult{kind: resultWait, seconds: math.Max(d.AsNumber(), minWait)}
		if len(p) > 1 {
			behavior, _ := enumName(p[1])
			res.abortWhenFalse = behavior == "Abort When False" || behavior == "AbortWhenFalse"
		}
		return res, nil

	case opSmallMessage, opBigMessage, opLogToInspector:
		text, err := f.eval(p[len(p)-1])
		if err != nil {
			return none, err
		}
		f.em.log(text.String())

	default:
		contractViolation("rule %q action %d: unhandled action %q", f.rule.Name, f.action-1, ins.name)
	}
	return none, nil
}

func (f *frame) executeIf(cond ast.Node) error {
	ok, err := f.evalBool(cond)
	if err != nil {
		return err
	}
	if ok {
		f.pushBlock(ifBlock{RunElse: false})
		return nil
	}
	f.pushBlock(ifBlock{RunElse: true})
	f.progressToEndOfBlock(ifChainBlock)
	return nil
}

// endBlock handles End: loops jump back to their body while they still hold,
// every other block simply closes.
func (f *frame) endBlock() error {
	top, ok := f.topBlock()
	if !ok {
		f.blockViolation("End without an open block")
	}
	switch b := top.(type) {
	case whileBlock:
		again, err := f.evalBool(b.Cond)
		if err != nil {
			return err
		}
		if again {
			f.action = b.Header
			return nil
		}
	case forBlock:
		store := f.em.store
		store.Update(b.Variable, func(cur Value) Value { return Add(cur, Number(b.Step)) })
		// The step sign is ignored: a negative step never satisfies the
		// test once the variable starts below End.
		if store.Get(b.Variable).AsNumber() < b.End {
			f.action = b.Header
			return nil
		}
	}
	f.popBlock()
	return nil
}

func (f *frame) abortOrLoop(abort bool) execResult {
	if abort {
		return execResult{kind: resultAborted}
	}
	f.restart()
	return execResult{kind: resultNone}
}

// restart implements Loop: the rule's actions run again from the top.
func (f *frame) restart() {
	f.action = 0
	f.blocks = nil
	f.skip = 0
	f.breaking = false
	f.continuing = false
}

func (f *frame) eval(n ast.Node) (Value, error) {
	return Evaluate(n, f.em.store)
}

func (f *frame) evalBool(n ast.Node) (bool, error) {
	v, err := f.eval(n)
	if err != nil {
		return false, err
	}
	return v.AsBoolean(), nil
}

func skipCount(n Value) int {
	c := n.AsNumber()
	if !(c > 0) {
		return 0
	}
	if c > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(c)
}
