package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosuda/wsemu/ast"
)

// Extensions lists the file suffixes ParseProgram treats as workshop text.
var Extensions = []string{".ow", ".ows", ".owrules", ".txt"}

// ParseProgram parses every workshop file in files, keyed by virtual file
// name, in file-name order so rule order is stable.
func ParseProgram(files map[string]string) ([]*ast.Rule, error) {
	names := make([]string, 0, len(files))
	for file := range files {
		if IsWorkshopFile(file) {
			names = append(names, file)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no workshop files found")
	}
	sort.Strings(names)

	rules := []*ast.Rule{}
	for _, file := range names {
		rs, err := ParseRules(files[file])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		rules = append(rules, rs...)
	}
	return rules, nil
}

func IsWorkshopFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
