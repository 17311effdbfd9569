package wsruntime

import (
	"strconv"
	"strings"
)

// formatTemplate substitutes {0}, {1}, ... in a Custom String template.
// Placeholders without a matching argument and unbalanced braces are kept
// verbatim; substituted text is never rescanned.
func formatTemplate(tmpl string, args []Value) string {
	b := strings.Builder{}
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		j := strings.IndexByte(tmpl[i+1:], '}')
		if j < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		j += i + 1
		n, err := strconv.Atoi(strings.TrimSpace(tmpl[i+1 : j]))
		if err != nil || n < 0 || n >= len(args) {
			b.WriteString(tmpl[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString(args[n].String())
		i = j + 1
	}
	return b.String()
}
