package wsruntime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// saveValue is the JSON form of a Value. Numbers are kept as text so that
// infinities and NaN survive the round trip.
type saveValue struct {
	Kind  string      `json:"kind"`
	N     string      `json:"n,omitempty"`
	B     bool        `json:"b,omitempty"`
	S     string      `json:"s,omitempty"`
	Items []saveValue `json:"items,omitempty"`
	Vec   []string    `json:"vec,omitempty"`
}

type saveSnapshot struct {
	Tick      int64                `json:"tick"`
	Variables map[string]saveValue `json:"variables"`
}

func toSaveValue(v Value) saveValue {
	sv := saveValue{Kind: v.kind.String()}
	switch v.kind {
	case NumberKind:
		sv.N = strconv.FormatFloat(v.n, 'g', -1, 64)
	case BooleanKind:
		sv.B = v.b
	case StringKind:
		sv.S = v.s
	case VectorKind:
		sv.Vec = make([]string, 3)
		for i, c := range v.vec {
			sv.Vec[i] = strconv.FormatFloat(c, 'g', -1, 64)
		}
	case ArrayKind:
		sv.Items = make([]saveValue, len(v.arr))
		for i, item := range v.arr {
			sv.Items[i] = toSaveValue(item)
		}
	}
	return sv
}

func fromSaveValue(sv saveValue) (Value, error) {
	switch sv.Kind {
	case "number":
		if sv.N == "" {
			return Default, nil
		}
		f, err := strconv.ParseFloat(sv.N, 64)
		if err != nil {
			return Default, fmt.Errorf("number %q: %w", sv.N, err)
		}
		return Number(f), nil
	case "boolean":
		return Boolean(sv.B), nil
	case "string":
		return String(sv.S), nil
	case "vector":
		if len(sv.Vec) != 3 {
			return Default, fmt.Errorf("vector needs 3 components, got %d", len(sv.Vec))
		}
		var c [3]float64
		for i, s := range sv.Vec {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Default, fmt.Errorf("vector component %q: %w", s, err)
			}
			c[i] = f
		}
		return Vector(c[0], c[1], c[2]), nil
	case "array":
		items := make([]Value, len(sv.Items))
		for i, item := range sv.Items {
			v, err := fromSaveValue(item)
			if err != nil {
				return Default, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = v
		}
		return from(items), nil
	default:
		return Default, fmt.Errorf("unknown value kind %q", sv.Kind)
	}
}

// MarshalJSON encodes the value in the snapshot format.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(toSaveValue(v))
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var sv saveValue
	if err := json.Unmarshal(b, &sv); err != nil {
		return err
	}
	out, err := fromSaveValue(sv)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// EncodeSnapshot renders the variable namespace as indented JSON.
func EncodeSnapshot(tick int64, vars map[string]Value) ([]byte, error) {
	snap := saveSnapshot{Tick: tick, Variables: map[string]saveValue{}}
	for k, v := range vars {
		snap.Variables[k] = toSaveValue(v)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

func DecodeSnapshot(b []byte) (int64, map[string]Value, error) {
	var snap saveSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return 0, nil, fmt.Errorf("parse snapshot: %w", err)
	}
	vars := make(map[string]Value, len(snap.Variables))
	for k, sv := range snap.Variables {
		v, err := fromSaveValue(sv)
		if err != nil {
			return 0, nil, fmt.Errorf("variable %q: %w", k, err)
		}
		vars[k] = v
	}
	return snap.Tick, vars, nil
}

// SaveVariables writes the current variables to path, creating its directory.
func (em *Emulator) SaveVariables(path string) error {
	em.mu.Lock()
	tick := em.ticks
	em.mu.Unlock()
	b, err := EncodeSnapshot(tick, em.store.Snapshot())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadVariables replaces every variable with the contents of the snapshot at
// path. A missing file reports false and leaves the store untouched.
func (em *Emulator) LoadVariables(path string) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	_, vars, err := DecodeSnapshot(b)
	if err != nil {
		return false, err
	}
	em.store.Replace(vars)
	return true, nil
}
