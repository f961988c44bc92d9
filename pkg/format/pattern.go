package format

import "strings"

// token is one element of a compiled date pattern: either a run of the same
// field letter ("yyyy") or literal text.
type token struct {
	field   byte
	width   int
	literal string
}

func (t token) isLiteral() bool {
	return t.field == 0
}

// numeric reports whether the token renders as digits.
func (t token) numeric() bool {
	switch t.field {
	case 'y', 'Y', 'd', 'D', 'h', 'H', 'k', 'K', 'm', 's', 'S', 'w':
		return true
	case 'M', 'L':
		return t.width <= 2
	case 'c', 'e':
		return t.width <= 2
	}
	return false
}

const fieldLetters = "GyYMLdDEceahHkKmsSwzZXx"

// compile splits a Unicode date pattern into tokens. Text between single
// quotes is literal and "''" is a quote. ASCII letters that are not fields
// are kept as literal text.
func compile(pattern string) []token {
	var (
		out []token
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		ch := pattern[i]
		switch {
		case ch == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				lit.WriteByte('\'')
				i += 2
				continue
			}
			i++
			for i < len(pattern) {
				if pattern[i] == '\'' {
					if i+1 < len(pattern) && pattern[i+1] == '\'' {
						lit.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				lit.WriteByte(pattern[i])
				i++
			}
		case strings.IndexByte(fieldLetters, ch) >= 0:
			j := i
			for j < len(pattern) && pattern[j] == ch {
				j++
			}
			flush()
			out = append(out, token{field: ch, width: j - i})
			i = j
		default:
			lit.WriteByte(ch)
			i++
		}
	}
	flush()
	return out
}
