package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterRules = `
rule("Counter") {
	actions {
		Modify Global Variable(n, Add, 1);
		Log To Inspector(Custom String("n={0}", Global.n));
	}
}
`

func writeBase(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	return dir
}

func TestLoadScriptsFiltersExtensions(t *testing.T) {
	dir := writeBase(t, map[string]string{
		"rules/main.ow":  counterRules,
		"seed.csv":       "n, 10\n",
		"notes.md":       "ignored",
		"nested/a/b.ows": "",
	})
	files, err := loadScripts(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for _, want := range []string{"rules/main.ow", "seed.csv", "nested/a/b.ows"} {
		if _, ok := files[want]; !ok {
			t.Fatalf("missing %s in %v", want, files)
		}
	}
	if _, ok := files["notes.md"]; ok {
		t.Fatalf("non-workshop file loaded")
	}

	if _, err := loadScripts(t.TempDir()); err == nil || !strings.Contains(err.Error(), "no workshop files") {
		t.Fatalf("expected empty tree error, got %v", err)
	}
}

func TestRunPlainSeedsAndSaves(t *testing.T) {
	dir := writeBase(t, map[string]string{
		"main.ow":  counterRules,
		"seed.csv": "n, 10\n",
	})
	save := filepath.Join(dir, "out", "snap.json")
	var out bytes.Buffer
	cfg := appConfig{base: dir, ticks: 3, tickRate: 60, save: save, dumpCSV: true}
	if err := runPlain(cfg, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"n=11", "n=13", "n,13", "ran 3 ticks"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in output:\n%s", want, text)
		}
	}
	if _, err := os.Stat(save); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	out.Reset()
	cfg = appConfig{base: dir, ticks: 1, load: save}
	if err := runPlain(cfg, &out); err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if !strings.Contains(out.String(), "n=14") {
		t.Fatalf("snapshot not restored:\n%s", out.String())
	}
}

func TestReplCommands(t *testing.T) {
	dir := writeBase(t, map[string]string{"main.ow": counterRules})
	em, err := openEmulator(appConfig{base: dir, budget: 100})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	var out bytes.Buffer
	run := func(line string) string {
		t.Helper()
		out.Reset()
		quit, err := replCommand(em, line, &out)
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		if quit {
			t.Fatalf("%s: unexpected quit", line)
		}
		return out.String()
	}

	if got := run(":tick 2"); !strings.Contains(got, "tick 2") {
		t.Fatalf("unexpected tick output %q", got)
	}
	if got := run("Add(Global.n, 40)"); strings.TrimSpace(got) != "42" {
		t.Fatalf("unexpected eval output %q", got)
	}
	run(":set label Custom String(\"hi\")")
	if got := run(":vars"); !strings.Contains(got, "label = hi") || !strings.Contains(got, "n = 2") {
		t.Fatalf("unexpected vars output %q", got)
	}
	if got := run(":csv"); !strings.HasPrefix(got, "label,") {
		t.Fatalf("unexpected csv output %q", got)
	}

	if _, err := replCommand(em, ":tick -1", &out); err == nil {
		t.Fatalf("negative tick count accepted")
	}
	if _, err := replCommand(em, ":bogus", &out); err == nil {
		t.Fatalf("unknown command accepted")
	}
	if _, err := replCommand(em, "Teleport(1)", &out); err == nil {
		t.Fatalf("unsupported expression accepted")
	}
	if quit, _ := replCommand(em, ":quit", &out); !quit {
		t.Fatalf(":quit did not quit")
	}
}
