package wsruntime

import "github.com/gosuda/wsemu/ast"

// blockEntry is one element of a frame's block stack. Every block-opening
// instruction pushes exactly one entry and the matching End pops it.
type blockEntry interface {
	isLoop() bool
}

type ifBlock struct {
	RunElse bool
}

// forBlock and whileBlock remember the index of the first body instruction;
// End jumps back there while the loop holds.
type forBlock struct {
	Header   int
	Variable string
	End      float64
	Step     float64
}

type whileBlock struct {
	Header int
	Cond   ast.Node
}

// skippedBlock stands in for a block opened while skipping or breaking.
type skippedBlock struct{}

func (ifBlock) isLoop() bool      { return false }
func (forBlock) isLoop() bool     { return true }
func (whileBlock) isLoop() bool   { return true }
func (skippedBlock) isLoop() bool { return false }

type blockKind int

const (
	ifChainBlock blockKind = iota
	simpleBlock
)

// blockKinds maps an instruction to the kind of block it opens or continues.
var blockKinds = map[string]blockKind{
	"If":                  ifChainBlock,
	"Else If":             ifChainBlock,
	"Else":                simpleBlock,
	"While":               simpleBlock,
	"For Global Variable": simpleBlock,
	"For Player Variable": simpleBlock,
}

var blockTerminators = map[blockKind][]string{
	ifChainBlock: {"Else If", "Else", "End"},
	simpleBlock:  {"End"},
}

func (k blockKind) terminatedBy(name string) bool {
	for _, t := range blockTerminators[k] {
		if t == name {
			return true
		}
	}
	return false
}

// opensBlock reports whether an instruction pushes a block entry, which is
// what the skip and break classifiers need to keep the stack balanced.
func opensBlock(name string) bool {
	switch name {
	case "If", "While", "For Global Variable", "For Player Variable":
		return true
	default:
		return false
	}
}

func (f *frame) pushBlock(b blockEntry) {
	f.blocks = append(f.blocks, b)
}

func (f *frame) topBlock() (blockEntry, bool) {
	if len(f.blocks) == 0 {
		return nil, false
	}
	return f.blocks[len(f.blocks)-1], true
}

func (f *frame) popBlock() blockEntry {
	if len(f.blocks) == 0 {
		f.blockViolation("End without an open block")
	}
	b := f.blocks[len(f.blocks)-1]
	f.blocks = f.blocks[:len(f.blocks)-1]
	return b
}

// runElse reports whether the innermost block is an if-chain still waiting
// for a branch to run.
func (f *frame) runElse() bool {
	top, ok := f.topBlock()
	if !ok {
		return false
	}
	b, ok := top.(ifBlock)
	return ok && b.RunElse
}

func (f *frame) currentName() string {
	if f.action >= len(f.rule.code) {
		f.blockViolation("block scan ran past the last action")
	}
	return f.rule.code[f.action].name
}

// progressToEndOfBlock moves the instruction pointer forward to the
// terminator of the current block without consuming it. Nested blocks are
// skipped as a whole, so their own Else/End never end the scan.
func (f *frame) progressToEndOfBlock(kind blockKind) {
	for {
		name := f.currentName()
		if kind.terminatedBy(name) {
			return
		}
		f.action++
		if inner, ok := blockKinds[name]; ok {
			f.progressPastBlock(inner)
		}
	}
}

// progressPastBlock skips the remainder of a nested block whose opener was
// just consumed, including every branch of an if-chain and the final End.
func (f *frame) progressPastBlock(kind blockKind) {
	for {
		f.progressToEndOfBlock(kind)
		name := f.currentName()
		f.action++
		if name == "End" {
			return
		}
		kind = blockKinds[name]
	}
}
