package parser

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokName
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokSemi
	tokDot
	tokOp
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokName:
		return "name"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokComma:
		return "','"
	case tokSemi:
		return "';'"
	case tokDot:
		return "'.'"
	case tokOp:
		return "operator"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	lit  string
	line int
}

// operatorRunes are the characters that start a comparison operator.
const operatorRunes = "=!<>≠≤≥-"

// tokenize splits workshop text into tokens. Names may span several words
// ("Set Global Variable") and contain inner hyphens ("If-Then-Else").
func tokenize(raw string) ([]token, error) {
	raw = normalize(raw)
	r := []rune(raw)
	toks := make([]token, 0, len(r)/3)
	line := 1
	for i := 0; i < len(r); {
		ch := r[i]
		if ch == '\n' {
			line++
			i++
			continue
		}
		if unicode.IsSpace(ch) {
			i++
			continue
		}
		if ch == '/' && i+1 < len(r) && r[i+1] == '/' {
			for i < len(r) && r[i] != '\n' {
				i++
			}
			continue
		}
		if unicode.IsDigit(ch) || (ch == '-' || ch == '.') && i+1 < len(r) && unicode.IsDigit(r[i+1]) {
			j := i + 1
			for j < len(r) && (unicode.IsDigit(r[j]) || r[j] == '.' || r[j] == 'e' || r[j] == 'E') {
				if (r[j] == 'e' || r[j] == 'E') && j+1 < len(r) && (r[j+1] == '-' || r[j+1] == '+') {
					j++
				}
				j++
			}
			toks = append(toks, token{kind: tokNumber, lit: string(r[i:j]), line: line})
			i = j
			continue
		}
		if ch == '"' {
			j := i + 1
			escape := false
			for j < len(r) {
				if escape {
					escape = false
					j++
					continue
				}
				if r[j] == '\\' {
					escape = true
					j++
					continue
				}
				if r[j] == '"' || r[j] == '\n' {
					break
				}
				j++
			}
			if j >= len(r) || r[j] != '"' {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			v, ok := unquoteString(string(r[i : j+1]))
			if !ok {
				return nil, fmt.Errorf("line %d: invalid string literal", line)
			}
			toks = append(toks, token{kind: tokString, lit: v, line: line})
			i = j + 1
			continue
		}
		if isIdentStart(ch) {
			j := scanWord(r, i)
			end := j
			// Join following words separated by blanks on the same line.
			for {
				k := end
				for k < len(r) && (r[k] == ' ' || r[k] == '\t') {
					k++
				}
				if k == end || k >= len(r) || !isIdentStart(r[k]) {
					break
				}
				end = scanWord(r, k)
			}
			toks = append(toks, token{kind: tokName, lit: string(r[i:end]), line: line})
			i = end
			continue
		}
		switch ch {
		case '(':
			toks = append(toks, token{kind: tokLParen, lit: "(", line: line})
		case ')':
			toks = append(toks, token{kind: tokRParen, lit: ")", line: line})
		case '{':
			toks = append(toks, token{kind: tokLBrace, lit: "{", line: line})
		case '}':
			toks = append(toks, token{kind: tokRBrace, lit: "}", line: line})
		case ',':
			toks = append(toks, token{kind: tokComma, lit: ",", line: line})
		case ';':
			toks = append(toks, token{kind: tokSemi, lit: ";", line: line})
		case '.':
			toks = append(toks, token{kind: tokDot, lit: ".", line: line})
		default:
			if !strings.ContainsRune(operatorRunes, ch) {
				return nil, fmt.Errorf("line %d: unexpected character %q", line, ch)
			}
			j := i + 1
			if j < len(r) && r[j] == '=' && strings.ContainsRune("=!<>", ch) {
				j++
			}
			toks = append(toks, token{kind: tokOp, lit: string(r[i:j]), line: line})
			i = j
			continue
		}
		i++
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

// scanWord returns the end of the word starting at i. A hyphen belongs to the
// word only when a letter follows it.
func scanWord(r []rune, i int) int {
	j := i + 1
	for j < len(r) {
		if isIdentPart(r[j]) {
			j++
			continue
		}
		if r[j] == '-' && j+1 < len(r) && unicode.IsLetter(r[j+1]) {
			j++
			continue
		}
		break
	}
	return j
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		raw = after
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

func unquoteString(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}
	b := strings.Builder{}
	escape := false
	for _, r := range raw[1 : len(raw)-1] {
		if escape {
			switch r {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(r)
			}
			escape = false
			continue
		}
		if r == '\\' {
			escape = true
			continue
		}
		b.WriteRune(r)
	}
	if escape {
		return "", false
	}
	return b.String(), true
}
