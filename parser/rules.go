package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosuda/wsemu/ast"
)

// paramKind tells the parser how to type a bare name in a given parameter
// slot. Unlisted slots keep bare names as parameterless elements.
type paramKind int

const (
	paramExpr paramKind = iota
	paramVariable
	paramSubroutine
	paramEnum
)

var paramKinds = map[string][]paramKind{
	"Set Global Variable":             {paramVariable},
	"Set Global Variable At Index":    {paramVariable},
	"Modify Global Variable":          {paramVariable, paramEnum},
	"Modify Global Variable At Index": {paramVariable, paramExpr, paramEnum},
	"For Global Variable":             {paramVariable},
	"Global Variable":                 {paramVariable},
	"Call Subroutine":                 {paramSubroutine},
	"Start Rule":                      {paramSubroutine, paramEnum},
	"Wait":                            {paramExpr, paramEnum},
	"Compare":                         {paramExpr, paramEnum},
}

type ruleParser struct {
	tokens []token
	pos    int
	depth  int
}

// ParseRules parses workshop rule text:
//
//	rule("Count") {
//		event { Ongoing - Global; }
//		conditions { Global.ready == True; }
//		actions { Modify Global Variable(count, Add, 1); }
//	}
func ParseRules(src string) ([]*ast.Rule, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &ruleParser{tokens: toks}
	rules := []*ast.Rule{}
	for p.peek().kind != tokEOF {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParseExpr parses a single workshop expression such as "Add(Global.a, 1)".
func ParseExpr(src string) (ast.Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &ruleParser{tokens: toks}
	n, err := p.parseExpr(paramExpr)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %s %q after expression", p.peek().kind, p.peek().lit)
	}
	return n, nil
}

func (p *ruleParser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokEOF}
	}
	return p.tokens[p.pos]
}

func (p *ruleParser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *ruleParser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.peek().line, fmt.Sprintf(format, args...))
}

func (p *ruleParser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf("expected %s, got %s %q", kind, t.kind, t.lit)
	}
	p.pos++
	return t, nil
}

func (p *ruleParser) parseRule() (*ast.Rule, error) {
	head, err := p.expect(tokName)
	if err != nil {
		return nil, err
	}
	r := &ast.Rule{Event: ast.OngoingGlobal}
	switch strings.ToLower(head.lit) {
	case "rule":
	case "disabled rule":
		r.Disabled = true
	default:
		p.pos--
		return nil, p.errorf("expected rule, got %q", head.lit)
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	name, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	r.Name = name.lit
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	for p.peek().kind != tokRBrace {
		section, err := p.expect(tokName)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLBrace); err != nil {
			return nil, err
		}
		switch strings.ToLower(section.lit) {
		case "event":
			err = p.parseEvent(r)
		case "conditions":
			err = p.parseConditions(r)
		case "actions":
			err = p.parseActions(r)
		default:
			return nil, fmt.Errorf("line %d: unknown section %q in rule %q", section.line, section.lit, r.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	p.next()
	return r, nil
}

// parseEvent reads "event { Ongoing - Global; }" or
// "event { Subroutine; Name; }". Further items (team, player) are ignored.
func (p *ruleParser) parseEvent(r *ast.Rule) error {
	items := []string{}
	for p.peek().kind != tokRBrace {
		parts := []string{}
		for p.peek().kind != tokSemi {
			t := p.next()
			if t.kind == tokEOF || t.kind == tokRBrace {
				return p.errorf("unterminated event item")
			}
			parts = append(parts, t.lit)
		}
		p.next()
		items = append(items, strings.Join(parts, " "))
	}
	p.next()
	if len(items) == 0 {
		return p.errorf("empty event")
	}
	switch ast.Event(items[0]) {
	case ast.OngoingGlobal, ast.OngoingPlayer:
		r.Event = ast.Event(items[0])
	case ast.SubroutineEvt:
		if len(items) < 2 || items[1] == "" {
			return p.errorf("subroutine event without a subroutine name")
		}
		r.Event = ast.SubroutineEvt
		r.Subroutine = items[1]
	default:
		return p.errorf("unsupported event %q", items[0])
	}
	return nil
}

// parseConditions reads "left op right;" entries. A lone expression is
// shorthand for "expr == True".
func (p *ruleParser) parseConditions(r *ast.Rule) error {
	for p.peek().kind != tokRBrace {
		left, err := p.parseExpr(paramExpr)
		if err != nil {
			return err
		}
		c := ast.Condition{Left: left, Op: "==", Right: ast.E("True")}
		if p.peek().kind == tokOp {
			c.Op = p.next().lit
			if c.Right, err = p.parseExpr(paramExpr); err != nil {
				return err
			}
		}
		if _, err := p.expect(tokSemi); err != nil {
			return err
		}
		r.Conditions = append(r.Conditions, c)
	}
	p.next()
	return nil
}

func (p *ruleParser) parseActions(r *ast.Rule) error {
	for p.peek().kind != tokRBrace {
		a, err := p.parseExpr(paramExpr)
		if err != nil {
			return err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return err
		}
		r.Actions = append(r.Actions, a)
	}
	p.next()
	return nil
}

func (p *ruleParser) parseExpr(kind paramKind) (ast.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > 256 {
		return nil, p.errorf("expression nesting too deep")
	}

	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.lit, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %q", t.line, t.lit)
		}
		return ast.Num(v), nil
	case tokString:
		return ast.Text{Value: t.lit}, nil
	case tokOp:
		return ast.Enum{Name: t.lit}, nil
	case tokName:
	default:
		p.pos--
		return nil, p.errorf("unexpected %s %q", t.kind, t.lit)
	}

	if t.lit == "Global" && p.peek().kind == tokDot {
		p.next()
		name, err := p.expect(tokName)
		if err != nil {
			return nil, err
		}
		return ast.E("Global Variable", ast.Var(name.lit)), nil
	}

	if p.peek().kind != tokLParen {
		switch kind {
		case paramVariable:
			return ast.Var(t.lit), nil
		case paramSubroutine:
			return ast.Subroutine{Name: t.lit}, nil
		case paramEnum:
			return ast.Enum{Name: t.lit}, nil
		default:
			return ast.E(t.lit), nil
		}
	}

	p.next()
	el := ast.Element{Name: t.lit, Params: []ast.Node{}}
	kinds := paramKinds[t.lit]
	for p.peek().kind != tokRParen {
		slot := paramExpr
		if i := len(el.Params); i < len(kinds) {
			slot = kinds[i]
		}
		arg, err := p.parseExpr(slot)
		if err != nil {
			return nil, err
		}
		el.Params = append(el.Params, arg)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf("expected ',' or ')' in %s, got %q", t.lit, p.peek().lit)
		}
	}
	p.next()
	if len(el.Params) == 0 {
		el.Params = nil
	}
	return el, nil
}
