package utility

import (
	"fmt"
	"strings"
)

// Candidate is a class name split into its parts:
// [variant:]*[!][-]utility[-value]
type Candidate struct {
	Raw       string   // As found in content, e.g. "md:hover:!-mt-4"
	Variants  []string // Outermost first: ["md", "hover"]
	Important bool
	Negative  bool
	Utility   string // Without '!' and '-' prefixes: "mt-4"
}

// ParseCandidate splits a raw class name. It reports false for strings
// that cannot be a utility class at all.
func ParseCandidate(raw string) (Candidate, bool) {
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return Candidate{}, false
	}

	parts, ok := splitVariants(raw)
	if !ok {
		return Candidate{}, false
	}

	c := Candidate{Raw: raw, Variants: parts[:len(parts)-1]}
	base := parts[len(parts)-1]

	if strings.HasPrefix(base, "!") {
		c.Important = true
		base = base[1:]
	}
	if strings.HasPrefix(base, "-") {
		c.Negative = true
		base = base[1:]
	}
	if base == "" {
		return Candidate{}, false
	}

	c.Utility = base
	return c, true
}

// splitVariants splits on ':' outside of brackets and parentheses
func splitVariants(raw string) ([]string, bool) {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ':':
			if depth == 0 {
				if i == start {
					return nil, false
				}
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 || start >= len(raw) {
		return nil, false
	}

	return append(parts, raw[start:]), true
}

// splitArbitrary returns the decoded value of a bracketed key such as
// "[3px]" or "[calc(100%_-_1rem)]".
func splitArbitrary(key string) (string, bool) {
	if len(key) < 3 || key[0] != '[' || key[len(key)-1] != ']' {
		return "", false
	}
	return decodeArbitrary(key[1 : len(key)-1]), true
}

// validArbitrary reports whether a decoded arbitrary value can be pasted
// into a declaration as is. Brackets must balance and nest and quotes must
// close. Outside quotes the value may not hold a brace, a comment marker,
// a top-level ';' or ':', or a trailing backslash: each would end the
// declaration early or swallow the rest of the stylesheet.
func validArbitrary(v string) bool {
	var stack []byte
	var quote byte

	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\\' {
			if i == len(v)-1 {
				return false
			}
			i++
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			stack = append(stack, c)
		case ')', ']':
			open := byte('(')
			if c == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return false
			}
			stack = stack[:len(stack)-1]
		case '{', '}':
			return false
		case ';', ':':
			if len(stack) == 0 {
				return false
			}
		case '/', '*':
			if i+1 < len(v) && (v[i+1] == '*' || v[i+1] == '/') && v[i+1] != c {
				return false
			}
		}
	}

	return len(stack) == 0 && quote == 0
}

// decodeArbitrary turns '_' into spaces; "\_" keeps a literal underscore.
func decodeArbitrary(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch {
		case v[i] == '\\' && i+1 < len(v) && v[i+1] == '_':
			b.WriteByte('_')
			i++
		case v[i] == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

// EscapeClass escapes a class name for use in a selector.
func EscapeClass(class string) string {
	var b strings.Builder
	for i, r := range class {
		switch {
		case r >= '0' && r <= '9':
			if i == 0 || (i == 1 && class[0] == '-') {
				fmt.Fprintf(&b, "\\3%c ", r)
				continue
			}
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_', r >= 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// negate flips the sign of a CSS value
func negate(v string) string {
	switch {
	case v == "0" || v == "0px":
		return v
	case strings.HasPrefix(v, "-"):
		return v[1:]
	case v != "" && (v[0] >= '0' && v[0] <= '9' || v[0] == '.'):
		return "-" + v
	default:
		return "calc(" + v + " * -1)"
	}
}

// isColorValue guesses whether an arbitrary value is a color
func isColorValue(v string) bool {
	lower := strings.ToLower(v)
	for _, prefix := range []string{"#", "rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color-mix(", "var(--color"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	switch lower {
	case "transparent", "currentcolor", "inherit":
		return true
	}
	return false
}

// isLengthValue guesses whether an arbitrary value is a length
func isLengthValue(v string) bool {
	if v == "" {
		return false
	}
	if v[0] >= '0' && v[0] <= '9' || v[0] == '.' || v[0] == '-' {
		return true
	}
	for _, prefix := range []string{"calc(", "min(", "max(", "clamp(", "var("} {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
