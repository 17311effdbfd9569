package wsruntime

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	NumberKind ValueKind = iota
	BooleanKind
	ArrayKind
	StringKind
	VectorKind
)

func (k ValueKind) String() string {
	switch k {
	case NumberKind:
		return "number"
	case BooleanKind:
		return "boolean"
	case ArrayKind:
		return "array"
	case StringKind:
		return "string"
	case VectorKind:
		return "vector"
	default:
		return "unknown"
	}
}

// Value is an immutable workshop datum. The zero Value is Number(0).
type Value struct {
	kind ValueKind
	n    float64
	b    bool
	s    string
	arr  []Value
	vec  [3]float64
}

// Default is the value every failed or mistyped operation degrades to.
var Default = Number(0)

func Number(v float64) Value {
	return Value{kind: NumberKind, n: v}
}

func Boolean(v bool) Value {
	return Value{kind: BooleanKind, b: v}
}

func String(v string) Value {
	return Value{kind: StringKind, s: v}
}

func Vector(x, y, z float64) Value {
	return Value{kind: VectorKind, vec: [3]float64{x, y, z}}
}

// Array copies items so later changes to the caller's slice never leak in.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: ArrayKind, arr: cp}
}

// from wraps a slice the caller has just built and will not touch again.
func from(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ArrayKind, arr: items}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) AsNumber() float64 {
	switch v.kind {
	case NumberKind:
		return v.n
	case BooleanKind:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) AsBoolean() bool {
	switch v.kind {
	case NumberKind:
		return v.n != 0
	case BooleanKind:
		return v.b
	case ArrayKind:
		return len(v.arr) > 0
	case StringKind:
		return v.s != ""
	case VectorKind:
		return v.vec[0]+v.vec[1]+v.vec[2] != 0
	default:
		return false
	}
}

// Components returns the vector components; non-vectors report zeros.
func (v Value) Components() (x, y, z float64) {
	if v.kind != VectorKind {
		return 0, 0, 0
	}
	return v.vec[0], v.vec[1], v.vec[2]
}

// Spread is the array projection of v: arrays project to their items, every
// other value to a one-element slice holding itself. The result must not be
// modified.
func (v Value) Spread() []Value {
	if v.kind == ArrayKind {
		return v.arr
	}
	return []Value{v}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NumberKind:
		return v.n == o.n
	case BooleanKind:
		return v.b == o.b
	case StringKind:
		return v.s == o.s
	case VectorKind:
		return v.vec == o.vec
	case ArrayKind:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case NumberKind:
		return formatNumber(v.n)
	case BooleanKind:
		if v.b {
			return "True"
		}
		return "False"
	case StringKind:
		return v.s
	case VectorKind:
		return "(" + formatNumber(v.vec[0]) + ", " + formatNumber(v.vec[1]) + ", " + formatNumber(v.vec[2]) + ")"
	case ArrayKind:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
