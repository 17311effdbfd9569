package wsruntime

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gosuda/wsemu/ast"
)

const (
	// DefaultTickRate is the number of simulated ticks per second.
	DefaultTickRate = 60
	// DefaultStepBudget caps the actions one rule instance may run per tick.
	DefaultStepBudget = 1_000_000

	minWait = 0.016
	clockEpsilon = 1e-9
)

// Logger receives the text of message and inspector-log actions.
type Logger interface {
	Log(text string)
}

type LoggerFunc func(text string)

func (f LoggerFunc) Log(text string) { f(text) }

// Emulator runs a set of workshop rules tick by tick against one variable
// store.
type Emulator struct {
	mu          sync.Mutex
	store       *Store
	instances   []*ruleInstance
	subroutines map[string]*ruleInstance
	logs        []string
	logger      Logger
	tracer      zerolog.Logger
	tickRate    float64
	budget      int
	ticks       int64
}

// ruleInstance is the call stack of one rule. The bottom frame runs the rule
// itself; called subroutines are pushed on top of their caller.
type ruleInstance struct {
	rule     *compiledRule
	stack    []*frame
	waiting  bool
	resumeAt float64
	// abortWhenFalse is set by Wait(…, Abort When False).
	abortWhenFalse bool
	pendingStart   bool
	pendingRestart bool
}

func (ri *ruleInstance) top() *frame {
	return ri.stack[len(ri.stack)-1]
}

func (ri *ruleInstance) reset() {
	ri.stack = nil
	ri.waiting = false
	ri.abortWhenFalse = false
}

func New(rules []*ast.Rule) (*Emulator, error) {
	em := &Emulator{
		store:       NewStore(),
		subroutines: map[string]*ruleInstance{},
		tracer:      zerolog.Nop(),
		tickRate:    DefaultTickRate,
		budget:      DefaultStepBudget,
	}
	for _, r := range rules {
		if r == nil {
			continue
		}
		cr, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		inst := &ruleInstance{rule: cr}
		em.instances = append(em.instances, inst)
		if r.IsSubroutine() {
			if r.Subroutine == "" {
				return nil, fmt.Errorf("rule %q: subroutine rule without a subroutine name", r.Name)
			}
			if _, dup := em.subroutines[r.Subroutine]; !dup {
				em.subroutines[r.Subroutine] = inst
			}
		}
	}
	return em, nil
}

func (em *Emulator) SetLogger(l Logger) {
	em.logger = l
}

// SetTracer installs a zerolog logger for per-action tracing and scheduler
// warnings.
func (em *Emulator) SetTracer(l zerolog.Logger) {
	em.tracer = l
}

func (em *Emulator) SetTickRate(perSecond float64) error {
	if perSecond <= 0 {
		return fmt.Errorf("tick rate must be positive, got %v", perSecond)
	}
	em.tickRate = perSecond
	return nil
}

func (em *Emulator) SetStepBudget(n int) error {
	if n <= 0 {
		return fmt.Errorf("step budget must be positive, got %d", n)
	}
	em.budget = n
	return nil
}

func (em *Emulator) Store() *Store {
	return em.store
}

func (em *Emulator) GetGlobalVariableValue(name string) Value {
	return em.store.Get(name)
}

func (em *Emulator) Variables() map[string]Value {
	return em.store.Snapshot()
}

// Evaluate evaluates an expression against the current variables.
func (em *Emulator) Evaluate(n ast.Node) (Value, error) {
	return Evaluate(n, em.store)
}

// RuleFromSubroutineName returns the rule defining the named subroutine.
func (em *Emulator) RuleFromSubroutineName(name string) (*ast.Rule, bool) {
	inst, ok := em.subroutines[name]
	if !ok {
		return nil, false
	}
	return inst.rule.Rule, true
}

func (em *Emulator) Ticks() int64 {
	em.mu.Lock()
	defer em.mu.Unlock()
	return em.ticks
}

// Clock is the simulated time of the next tick, in seconds.
func (em *Emulator) Clock() float64 {
	em.mu.Lock()
	defer em.mu.Unlock()
	return em.now()
}

func (em *Emulator) now() float64 {
	return float64(em.ticks) / em.tickRate
}

// Logs returns every message logged so far.
func (em *Emulator) Logs() []string {
	em.mu.Lock()
	defer em.mu.Unlock()
	return append([]string(nil), em.logs...)
}

// Active lists the rules that currently hold a call stack, with its depth.
func (em *Emulator) Active() map[string]int {
	em.mu.Lock()
	defer em.mu.Unlock()
	out := map[string]int{}
	for _, inst := range em.instances {
		if len(inst.stack) > 0 {
			out[inst.rule.Name] = len(inst.stack)
		}
	}
	return out
}

func (em *Emulator) log(text string) {
	em.logs = append(em.logs, text)
	if em.logger != nil {
		em.logger.Log(text)
	}
}

// TickOne advances every rule by one tick. A rule instance that fails is torn
// down and the others keep running; the failures are returned joined.
func (em *Emulator) TickOne() error {
	em.mu.Lock()
	defer em.mu.Unlock()

	var errs []error
	for _, inst := range em.instances {
		if err := em.tickRule(inst); err != nil {
			em.tracer.Warn().Err(err).Str("rule", inst.rule.Name).Int64("tick", em.ticks).Msg("rule instance torn down")
			inst.reset()
			errs = append(errs, err)
		}
	}
	em.ticks++
	return errors.Join(errs...)
}

// Run ticks n times and stops at the first tick that reports an error.
func (em *Emulator) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := em.TickOne(); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}
	return nil
}

func (em *Emulator) tickRule(inst *ruleInstance) error {
	if inst.pendingRestart {
		inst.pendingRestart = false
		inst.reset()
		inst.pendingStart = true
	}

	if len(inst.stack) == 0 {
		start := inst.pendingStart
		inst.pendingStart = false
		if !start {
			if inst.rule.IsSubroutine() || inst.rule.Disabled {
				return nil
			}
			ok, err := em.conditionsHold(inst.rule)
			if err != nil {
				return fmt.Errorf("rule %q conditions: %w", inst.rule.Name, err)
			}
			if !ok {
				return nil
			}
		}
		em.tracer.Debug().Str("rule", inst.rule.Name).Int64("tick", em.ticks).Msg("rule triggered")
		inst.stack = append(inst.stack, newFrame(em, inst.rule))
	}

	if inst.waiting {
		if em.now()+clockEpsilon < inst.resumeAt {
			return nil
		}
		inst.waiting = false
		if inst.abortWhenFalse {
			inst.abortWhenFalse = false
			ok, err := em.conditionsHold(inst.rule)
			if err != nil {
				return fmt.Errorf("rule %q conditions: %w", inst.rule.Name, err)
			}
			if !ok {
				inst.reset()
				return nil
			}
		}
	}

	budget := em.budget
	for len(inst.stack) > 0 {
		f := inst.top()
		res, err := f.run(&budget)
		if err != nil {
			return fmt.Errorf("rule %q action %d: %w", f.rule.Name, f.action-1, err)
		}
		switch res.kind {
		case resultCompleted, resultAborted:
			inst.stack = inst.stack[:len(inst.stack)-1]
		case resultCall:
			callee, ok := em.subroutines[res.target]
			if !ok {
				return fmt.Errorf("rule %q: failed to find rule with subroutine named %q", f.rule.Name, res.target)
			}
			inst.stack = append(inst.stack, newFrame(em, callee.rule))
		case resultStart:
			if err := em.startRule(res.target, res.restart); err != nil {
				return fmt.Errorf("rule %q: %w", f.rule.Name, err)
			}
		case resultWait:
			inst.waiting = true
			inst.resumeAt = em.now() + res.seconds
			inst.abortWhenFalse = res.abortWhenFalse
			return nil
		}
	}
	return nil
}

// startRule marks a subroutine instance to start on its next turn. A running
// instance is left alone unless restart is set.
func (em *Emulator) startRule(name string, restart bool) error {
	inst, ok := em.subroutines[name]
	if !ok {
		return fmt.Errorf("failed to find rule with subroutine named %q", name)
	}
	if len(inst.stack) > 0 {
		inst.pendingRestart = restart
		return nil
	}
	inst.pendingStart = true
	return nil
}

// conditionsHold reports whether every condition of r is true. A rule
// without conditions always holds.
func (em *Emulator) conditionsHold(r *compiledRule) (bool, error) {
	for _, c := range r.Conditions {
		op, ok := ParseOperator(c.Op)
		if !ok {
			return false, evalErrorf("Condition", "unknown comparison operator %q", c.Op)
		}
		left, err := Evaluate(c.Left, em.store)
		if err != nil {
			return false, err
		}
		right, err := Evaluate(c.Right, em.store)
		if err != nil {
			return false, err
		}
		if !Compare(left, op, right).AsBoolean() {
			return false, nil
		}
	}
	return true, nil
}
