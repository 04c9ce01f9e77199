// Package jsonrepair implements best-effort syntactic repair of near-JSON
// text emitted by a generative model. The model is untrusted with respect to
// output shape: it fences payloads in markdown, leaves trailing commas, drops
// closing brackets and forgets to escape quotes inside strings. Repair is
// purely syntactic; it never invents or reorders content.
package jsonrepair

import (
	"strings"
)

// StripFences removes enclosing markdown code-fence markers, if present, and
// trims surrounding prose down to the outermost JSON object.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// The model sometimes wraps the object in prose even without fences.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	return s
}

// Repair applies the structural fixes in sequence: escaping quotes inside
// strings, closing unbalanced brackets, and removing trailing commas. The
// result still has to survive a strict parse; Repair itself never fails.
func Repair(s string) string {
	s = escapeInnerQuotes(s)
	s = balanceBrackets(s)
	s = removeTrailingCommas(s)
	return s
}

// escapeInnerQuotes escapes double quotes that appear inside a string value.
// A quote inside a string is assumed to close it only when the next
// non-space character is structural (comma, colon, closing bracket) or the
// input ends; everything else is an unescaped interior quote.
func escapeInnerQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if inString && c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if !inString {
			inString = true
			b.WriteByte(c)
			continue
		}
		if closesString(s[i+1:]) {
			inString = false
			b.WriteByte(c)
		} else {
			b.WriteString(`\"`)
		}
	}

	return b.String()
}

// closesString reports whether a quote followed by rest plausibly terminates
// a JSON string.
func closesString(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	return true // end of input
}

// balanceBrackets closes any string left open, drops mismatched closing
// brackets and appends the closers still owed at the end of the input.
func balanceBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case '{', '[':
			stack = append(stack, c)
			b.WriteByte(c)
		case '}', ']':
			opener := byte('{')
			if c == ']' {
				opener = '['
			}
			if len(stack) > 0 && stack[len(stack)-1] == opener {
				stack = stack[:len(stack)-1]
				b.WriteByte(c)
			}
			// Mismatched closer: drop it.
		default:
			b.WriteByte(c)
		}
	}

	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}

// removeTrailingCommas deletes commas that directly precede a closing bracket.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			if next, ok := nextStructural(s[i+1:]); ok && (next == '}' || next == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}

	return b.String()
}

// nextStructural returns the next non-whitespace byte, if any.
func nextStructural(rest string) (byte, bool) {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return rest[i], true
		}
	}
	return 0, false
}
