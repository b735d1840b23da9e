package templates

import (
	"strconv"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/metrics"
)

// maxPasses bounds conditional resolution so pathological input cannot spin
// the scanner forever. Real templates nest two or three levels at most.
const maxPasses = 100

const (
	recoveryPercentageKey = "recovery_percentage"
	bountyPercentageKey   = "bounty_percentage"
)

// Render interpolates values into a template. Conditional spans
// `${key? content}` are dropped entirely when key is blank and spliced in
// otherwise, with arbitrary nesting. After all conditionals are resolved,
// remaining bare `${key}` tokens become the trimmed value, an empty string
// for unfilled optional variables, or the literal `[key]` placeholder for
// unfilled required ones.
func Render(t Template, values map[string]string) string {
	resolved := withDerived(values)

	out := t.TemplateString
	for i := 0; i < maxPasses; i++ {
		next, changed := resolveOneConditional(out, resolved)
		if !changed {
			break
		}
		out = next
	}

	out = replaceBareTokens(out, resolved, t.Variables)
	metrics.TemplatesRendered.Inc()
	return out
}

// withDerived copies values and computes derived variables. Presently there
// is one: the bounty percentage, the complement of the recovery percentage.
// It is derived only when the recovery percentage parses to an integer in
// (0,100] and the caller has not supplied the bounty key themselves.
func withDerived(values map[string]string) map[string]string {
	out := make(map[string]string, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	if strings.TrimSpace(out[bountyPercentageKey]) != "" {
		return out
	}
	raw := strings.TrimSpace(out[recoveryPercentageKey])
	raw = strings.TrimSuffix(raw, "%")
	pct, err := strconv.Atoi(raw)
	if err != nil || pct <= 0 || pct > 100 {
		return out
	}
	out[bountyPercentageKey] = strconv.Itoa(100 - pct)
	return out
}

// resolveOneConditional finds the first `${key? content}` span and resolves
// it: blank key deletes the span, a filled key splices content back in for
// further scanning. Returns the updated string and whether anything changed.
func resolveOneConditional(s string, values map[string]string) (string, bool) {
	for start := 0; ; {
		open := strings.Index(s[start:], "${")
		if open < 0 {
			return s, false
		}
		open += start

		keyEnd := open + 2
		for keyEnd < len(s) && isKeyChar(s[keyEnd]) {
			keyEnd++
		}
		if keyEnd >= len(s) || s[keyEnd] != '?' {
			// Bare token; the final pass handles it.
			start = keyEnd
			continue
		}

		key := s[open+2 : keyEnd]
		contentStart := keyEnd + 1
		contentEnd, ok := matchBrace(s, contentStart)
		if !ok {
			// Unterminated conditional; leave it as literal text.
			start = contentStart
			continue
		}

		if strings.TrimSpace(values[key]) == "" {
			return s[:open] + s[contentEnd+1:], true
		}
		return s[:open] + s[contentStart:contentEnd] + s[contentEnd+1:], true
	}
}

// matchBrace scans from pos for the `}` closing the span opened before pos,
// counting nested `${` opens so inner tokens stay intact.
func matchBrace(s string, pos int) (int, bool) {
	depth := 1
	for i := pos; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '{' {
			depth++
			i++
			continue
		}
		if s[i] == '}' {
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func replaceBareTokens(s string, values map[string]string, declared []TemplateVariable) string {
	optional := make(map[string]bool, len(declared))
	for _, v := range declared {
		optional[v.Key] = v.Optional
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 >= len(s) || s[i+1] != '{' {
			b.WriteByte(s[i])
			i++
			continue
		}
		keyEnd := i + 2
		for keyEnd < len(s) && isKeyChar(s[keyEnd]) {
			keyEnd++
		}
		if keyEnd >= len(s) || s[keyEnd] != '}' {
			b.WriteByte(s[i])
			i++
			continue
		}
		key := s[i+2 : keyEnd]
		value := strings.TrimSpace(values[key])
		switch {
		case value != "":
			b.WriteString(value)
		case optional[key]:
			// Drop it.
		default:
			b.WriteString("[" + key + "]")
		}
		i = keyEnd + 1
	}
	return b.String()
}

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
