package ast

import "strconv"

// Event is the workshop event a rule listens to.
type Event string

const (
	OngoingGlobal Event = "Ongoing - Global"
	OngoingPlayer Event = "Ongoing - Each Player"
	SubroutineEvt Event = "Subroutine"
)

// Rule is one workshop rule as emitted by the code generator.
type Rule struct {
	Name       string
	Event      Event
	Subroutine string
	Disabled   bool
	Conditions []Condition
	Actions    []Node
}

// IsSubroutine reports whether the rule only runs when called or started.
func (r *Rule) IsSubroutine() bool {
	return r.Event == SubroutineEvt
}

type Condition struct {
	Left  Node
	Op    string
	Right Node
}

// Node is an instruction or an expression. Every workshop tree is either an
// element (name + parameters) or one of the leaf kinds below.
type Node interface {
	NodeName() string
}

type Element struct {
	Name   string
	Params []Node
}

func (e Element) NodeName() string { return e.Name }

type Number struct {
	Value float64
}

func (Number) NodeName() string { return "Number" }

// Text is the literal template of a String/Custom String element.
type Text struct {
	Value string
}

func (Text) NodeName() string { return "Text" }

// Variable names a global variable slot.
type Variable struct {
	Name string
}

func (Variable) NodeName() string { return "Variable" }

type Subroutine struct {
	Name string
}

func (Subroutine) NodeName() string { return "Subroutine" }

// Enum is a workshop enumerator such as an Operation, an Operator, or a wait behavior.
type Enum struct {
	Name string
}

func (Enum) NodeName() string { return "Enum" }

// E builds an element; it keeps hand-written rules in tests short.
func E(name string, params ...Node) Element {
	return Element{Name: name, Params: params}
}

func Num(v float64) Number {
	return Number{Value: v}
}

func Var(name string) Variable {
	return Variable{Name: name}
}

// String renders a node in workshop syntax.
func String(n Node) string {
	switch v := n.(type) {
	case nil:
		return "<nil>"
	case Number:
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case Text:
		return strconv.Quote(v.Value)
	case Variable:
		return v.Name
	case Subroutine:
		return v.Name
	case Enum:
		return v.Name
	case Element:
		if v.Name == "Global Variable" && len(v.Params) == 1 {
			if name, ok := v.Params[0].(Variable); ok {
				return "Global." + name.Name
			}
		}
		if len(v.Params) == 0 {
			return v.Name
		}
		s := v.Name + "("
		for i, p := range v.Params {
			if i > 0 {
				s += ", "
			}
			s += String(p)
		}
		return s + ")"
	default:
		return n.NodeName()
	}
}
