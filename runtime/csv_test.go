package wsruntime

import (
	"bytes"
	"strings"
	"testing"
)

func TestSeedVariablesCSV(t *testing.T) {
	em := mustNew(t)
	raw := `
; initial values
count, 3
greeting, Custom String("hi, {0}", 2)
list, Array(1, 2)
copy, Global.count
`
	if err := em.SeedVariablesCSV(raw); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	want := map[string]Value{
		"count":    Number(3),
		"greeting": String("hi, 2"),
		"list":     Array(Number(1), Number(2)),
		"copy":     Number(3),
	}
	for k, v := range want {
		if got := em.GetGlobalVariableValue(k); !got.Equal(v) {
			t.Fatalf("%s: got %s, want %s", k, got, v)
		}
	}
	if err := em.SeedVariablesCSV("lonely"); err == nil {
		t.Fatalf("row without value accepted")
	}
	if err := em.SeedVariablesCSV("x, Teleport(1)"); err == nil {
		t.Fatalf("unsupported expression accepted")
	}
}

func TestWriteVariablesCSVRoundTrip(t *testing.T) {
	vars := map[string]Value{
		"b":    String(`say "a, b"`),
		"a":    Vector(1, 2, 3),
		"list": Array(Boolean(false), Array()),
	}
	var buf bytes.Buffer
	if err := WriteVariablesCSV(&buf, vars); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "a,") {
		t.Fatalf("rows should be sorted:\n%s", buf.String())
	}
	em := mustNew(t)
	if err := em.SeedVariablesCSV(buf.String()); err != nil {
		t.Fatalf("seed failed: %v\n%s", err, buf.String())
	}
	for k, v := range vars {
		if got := em.GetGlobalVariableValue(k); !got.Equal(v) {
			t.Fatalf("%s: got %s, want %s", k, got, v)
		}
	}
}

func TestFormatTemplate(t *testing.T) {
	args := []Value{Number(1), String("{0}")}
	cases := map[string]string{
		"{0}-{1}":   "1-{0}",
		"{ 0 }":     "1",
		"{2}":       "{2}",
		"open {":    "open {",
		"{x} {0}":   "{x} 1",
		"no braces": "no braces",
	}
	for in, want := range cases {
		if got := formatTemplate(in, args); got != want {
			t.Fatalf("%q: got %q, want %q", in, got, want)
		}
	}
}
