package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gosuda/wsemu/ast"
	"github.com/gosuda/wsemu/parser"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

// Reports workshop elements used by rule files (or listed as `case "Name":`
// labels in a reference source) that the emulator does not implement.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./tools <rules dir> [reference source]")
		os.Exit(2)
	}

	used, err := extractUsedElements(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read rules: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 2 {
		ref, err := extractCaseLabels(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "read reference: %v\n", err)
			os.Exit(1)
		}
		for n := range ref {
			used[n] = struct{}{}
		}
	}
	known := knownElements()

	missing := diff(used, known)
	unused := diff(known, used)

	fmt.Printf("referenced element count: %d\n", len(used))
	fmt.Printf("emulator element count: %d\n", len(known))
	fmt.Printf("missing in emulator: %d\n", len(missing))
	for _, n := range missing {
		fmt.Println("  - " + n)
	}
	fmt.Printf("never referenced: %d\n", len(unused))
	for _, n := range unused {
		fmt.Println("  + " + n)
	}
}

func extractUsedElements(root string) (map[string]struct{}, error) {
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !parser.IsWorkshopFile(path) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[path] = string(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rules, err := parser.ParseProgram(files)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, r := range rules {
		for _, c := range r.Conditions {
			collect(c.Left, set)
			collect(c.Right, set)
		}
		for _, a := range r.Actions {
			collect(a, set)
		}
	}
	return set, nil
}

func collect(n ast.Node, set map[string]struct{}) {
	el, ok := n.(ast.Element)
	if !ok {
		return
	}
	set[el.Name] = struct{}{}
	for _, p := range el.Params {
		collect(p, set)
	}
}

func extractCaseLabels(path string) (map[string]struct{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`case\s+"([A-Z][A-Za-z0-9 \-]*)"\s*:`)
	set := map[string]struct{}{}
	for _, m := range re.FindAllStringSubmatch(string(b), -1) {
		set[m[1]] = struct{}{}
	}
	return set, nil
}

func knownElements() map[string]struct{} {
	set := map[string]struct{}{}
	for _, n := range wsruntime.SupportedInstructions() {
		set[n] = struct{}{}
	}
	for _, n := range wsruntime.SupportedExpressions() {
		name, _, _ := strings.Cut(n, "/")
		set[name] = struct{}{}
	}
	return set
}

func diff(base, comp map[string]struct{}) []string {
	out := make([]string, 0)
	for n := range base {
		if _, ok := comp[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
