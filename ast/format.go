package ast

import (
	"strconv"
	"strings"
)

// FormatRule renders r in the workshop text format read by parser.ParseRules.
func FormatRule(r *Rule) string {
	var b strings.Builder
	if r.Disabled {
		b.WriteString("disabled ")
	}
	b.WriteString("rule(" + strconv.Quote(r.Name) + ") {\n")
	b.WriteString("\tevent {\n\t\t" + string(r.Event) + ";\n")
	if r.IsSubroutine() {
		b.WriteString("\t\t" + r.Subroutine + ";\n")
	}
	b.WriteString("\t}\n")
	if len(r.Conditions) > 0 {
		b.WriteString("\tconditions {\n")
		for _, c := range r.Conditions {
			b.WriteString("\t\t" + String(c.Left) + " " + c.Op + " " + String(c.Right) + ";\n")
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("\tactions {\n")
	depth := 1
	for _, a := range r.Actions {
		name := a.NodeName()
		if name == "End" || name == "Else" || name == "Else If" {
			depth--
		}
		if depth < 1 {
			depth = 1
		}
		b.WriteString(strings.Repeat("\t", depth+1) + String(a) + ";\n")
		switch name {
		case "If", "Else If", "Else", "While", "For Global Variable", "For Player Variable":
			depth++
		}
	}
	b.WriteString("\t}\n}\n")
	return b.String()
}

// Format renders every rule, separated by blank lines.
func Format(rules []*Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = FormatRule(r)
	}
	return strings.Join(parts, "\n")
}
