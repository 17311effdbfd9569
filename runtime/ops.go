package wsruntime

import (
	"fmt"
	"math"
	"strings"
)

// Operation is the operator of Modify Global Variable.
type Operation int

const (
	OpAdd Operation = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpRaiseToPower
	OpMin
	OpMax
	OpAppendToArray
	OpRemoveFromArrayByValue
	OpRemoveFromArrayByIndex
)

var operationNames = map[string]Operation{
	"Add":                        OpAdd,
	"Subtract":                   OpSubtract,
	"Multiply":                   OpMultiply,
	"Divide":                     OpDivide,
	"Modulo":                     OpModulo,
	"Raise To Power":             OpRaiseToPower,
	"Min":                        OpMin,
	"Max":                        OpMax,
	"Append To Array":            OpAppendToArray,
	"Remove From Array By Value": OpRemoveFromArrayByValue,
	"Remove From Array By Index": OpRemoveFromArrayByIndex,
}

// ParseOperation accepts both the workshop spelling ("Append To Array") and
// the compact one ("AppendToArray").
func ParseOperation(name string) (Operation, bool) {
	if op, ok := operationNames[name]; ok {
		return op, true
	}
	for k, op := range operationNames {
		if strings.ReplaceAll(k, " ", "") == name {
			return op, true
		}
	}
	return 0, false
}

func (op Operation) String() string {
	for k, v := range operationNames {
		if v == op {
			return k
		}
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Modify applies op with operand. An operation outside the table is a
// defect in the caller and panics.
func (v Value) Modify(op Operation, operand Value) Value {
	switch op {
	case OpAdd:
		return Add(v, operand)
	case OpSubtract:
		return Subtract(v, operand)
	case OpMultiply:
		return Multiply(v, operand)
	case OpDivide:
		return Divide(v, operand)
	case OpModulo:
		return Modulo(v, operand)
	case OpRaiseToPower:
		return Pow(v, operand)
	case OpMin:
		return Min(v, operand)
	case OpMax:
		return Max(v, operand)
	case OpAppendToArray:
		return v.Append(operand)
	case OpRemoveFromArrayByValue:
		return v.RemoveByValue(operand)
	case OpRemoveFromArrayByIndex:
		return v.RemoveAtIndex(operand.AsNumber())
	default:
		contractViolation("modify with unknown operation %d", int(op))
		return Default
	}
}

func numOp(a, b Value, f func(x, y float64) float64) Value {
	if a.kind == NumberKind && b.kind == NumberKind {
		return Number(f(a.n, b.n))
	}
	return Default
}

func Add(a, b Value) Value {
	return numOp(a, b, func(x, y float64) float64 { return x + y })
}

func Subtract(a, b Value) Value {
	return numOp(a, b, func(x, y float64) float64 { return x - y })
}

func Multiply(a, b Value) Value {
	return numOp(a, b, func(x, y float64) float64 { return x * y })
}

func Divide(a, b Value) Value {
	return numOp(a, b, func(x, y float64) float64 { return x / y })
}

func Modulo(a, b Value) Value {
	return numOp(a, b, math.Mod)
}

func Pow(a, b Value) Value {
	return numOp(a, b, math.Pow)
}

func Min(a, b Value) Value {
	return numOp(a, b, math.Min)
}

func Max(a, b Value) Value {
	return numOp(a, b, math.Max)
}

// Operator is the comparison token of a Compare element.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var operatorNames = map[string]Operator{
	"==": Equal, "=": Equal, "Equal": Equal,
	"!=": NotEqual, "≠": NotEqual, "NotEqual": NotEqual,
	"<": LessThan, "LessThan": LessThan,
	"<=": LessThanOrEqual, "≤": LessThanOrEqual, "LessThanOrEqual": LessThanOrEqual,
	">": GreaterThan, "GreaterThan": GreaterThan,
	">=": GreaterThanOrEqual, "≥": GreaterThanOrEqual, "GreaterThanOrEqual": GreaterThanOrEqual,
}

func ParseOperator(tok string) (Operator, bool) {
	op, ok := operatorNames[strings.TrimSpace(tok)]
	return op, ok
}

func (op Operator) String() string {
	switch op {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Compare uses structural equality for == and != and numeric coercion for
// the ordering operators.
func Compare(a Value, op Operator, b Value) Value {
	switch op {
	case Equal:
		return Boolean(a.Equal(b))
	case NotEqual:
		return Boolean(!a.Equal(b))
	case LessThan:
		return Boolean(a.AsNumber() < b.AsNumber())
	case LessThanOrEqual:
		return Boolean(a.AsNumber() <= b.AsNumber())
	case GreaterThan:
		return Boolean(a.AsNumber() > b.AsNumber())
	case GreaterThanOrEqual:
		return Boolean(a.AsNumber() >= b.AsNumber())
	default:
		contractViolation("compare with unknown operator %d", int(op))
		return Default
	}
}
