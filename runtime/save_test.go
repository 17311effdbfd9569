package wsruntime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gosuda/wsemu/parser"
)

func TestConvertSnapshotToRules(t *testing.T) {
	vars := map[string]Value{
		"a":    Number(-2.5),
		"flag": Boolean(true),
		"name": String("hi {0}"),
		"pos":  Vector(1, 0, 3),
		"list": Array(Number(1), Array(String("x")), Array()),
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "vars.json")
	b, err := EncodeSnapshot(12, vars)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(in, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := filepath.Join(dir, "restore.ow")
	if err := ConvertSnapshot(in, out, "rules"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	text, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rules, err := parser.ParseRules(string(text))
	if err != nil {
		t.Fatalf("restore rule does not parse: %v\n%s", err, text)
	}
	if rules[0].Name != "Restore tick 12" {
		t.Fatalf("unexpected rule name %q", rules[0].Name)
	}

	em, err := New(rules)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := em.Run(2); err != nil {
		t.Fatalf("run: %v", err)
	}
	for k, want := range vars {
		if got := em.GetGlobalVariableValue(k); !got.Equal(want) {
			t.Fatalf("%s: got %s, want %s", k, got, want)
		}
	}
}

func TestConvertSnapshotJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, []byte(`{"tick":1,"variables":{"x":{"kind":"boolean","b":true}}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := filepath.Join(dir, "out.json")
	if err := ConvertSnapshot(in, out, "JSON"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, vars, err := DecodeSnapshot(b)
	if err != nil || !vars["x"].Equal(Boolean(true)) {
		t.Fatalf("decode: %v %v", vars, err)
	}
	csvOut := filepath.Join(dir, "out.csv")
	if err := ConvertSnapshot(in, csvOut, "csv"); err != nil {
		t.Fatalf("convert csv: %v", err)
	}
	if b, _ := os.ReadFile(csvOut); string(b) != "x,True\n" {
		t.Fatalf("unexpected csv %q", b)
	}
	if err := ConvertSnapshot(in, out, "binary"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}
