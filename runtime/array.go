package wsruntime

import "math"

// CountOf reports the length of an array; scalars count as 0.
func (v Value) CountOf() int {
	if v.kind != ArrayKind {
		return 0
	}
	return len(v.arr)
}

func (v Value) FirstOf() Value {
	if v.kind != ArrayKind || len(v.arr) == 0 {
		return Default
	}
	return v.arr[0]
}

func (v Value) LastOf() Value {
	if v.kind != ArrayKind || len(v.arr) == 0 {
		return Default
	}
	return v.arr[len(v.arr)-1]
}

// ValueInArray never fails: negative, fractional-negative, NaN and
// out-of-range indices all yield Default.
func (v Value) ValueInArray(index float64) Value {
	items := v.Spread()
	if !(index >= 0) || index >= float64(len(items)) {
		return Default
	}
	return items[int(index)]
}

func (v Value) IndexOf(x Value) int {
	for i, item := range v.Spread() {
		if item.Equal(x) {
			return i
		}
	}
	return -1
}

// Append concatenates the spreads of v and x, so appending an array appends
// each of its items.
func (v Value) Append(x Value) Value {
	a, b := v.Spread(), x.Spread()
	out := make([]Value, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return from(out)
}

// RemoveByValue drops the first item structurally equal to x.
func (v Value) RemoveByValue(x Value) Value {
	items := v.Spread()
	out := make([]Value, 0, len(items))
	removed := false
	for _, item := range items {
		if !removed && item.Equal(x) {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return from(out)
}

func (v Value) RemoveAtIndex(index float64) Value {
	items := v.Spread()
	out := make([]Value, 0, len(items))
	out = append(out, items...)
	if index >= 0 && index < float64(len(out)) {
		i := int(index)
		out = append(out[:i], out[i+1:]...)
	}
	return from(out)
}

// MaxArrayLength bounds arrays grown by SetAtIndex.
const MaxArrayLength = 1000

// SetAtIndex clamps the index to 0 and pads with Default up to it. An index at
// or past MaxArrayLength, including +Inf, leaves the items unchanged.
func (v Value) SetAtIndex(index float64, x Value) Value {
	if math.IsNaN(index) || index < 0 {
		index = 0
	}
	items := v.Spread()
	if index >= MaxArrayLength {
		return from(append([]Value(nil), items...))
	}
	i := int(index)
	size := len(items)
	if i >= size {
		size = i + 1
	}
	out := make([]Value, size)
	copy(out, items)
	for j := len(items); j < size; j++ {
		out[j] = Default
	}
	out[i] = x
	return from(out)
}

func (v Value) ModifyAtIndex(index float64, op Operation, operand Value) Value {
	return v.SetAtIndex(index, v.ValueInArray(index).Modify(op, operand))
}
