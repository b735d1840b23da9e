package templates

import (
	"regexp"
	"strings"
)

// Anchored patterns applied at the start of the text following a variable's
// prefix.
var (
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}`)
	txHashPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}`)
	numberPattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?%?`)
	wordPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9'-]*`)
)

// knownTokenSymbols is the heuristic vocabulary for token-typed variables.
var knownTokenSymbols = []string{
	"ETH", "WETH", "BTC", "WBTC", "USDT", "USDC", "DAI", "BNB", "MATIC",
	"POL", "ARB", "OP", "LINK", "UNI", "AAVE", "SHIB", "PEPE",
}

// extractionStopWords terminate a free-text phrase.
var extractionStopWords = map[string]bool{
	"to": true, "the": true, "and": true, "for": true, "with": true,
	"from": true, "by": true, "on": true, "in": true, "at": true,
	"of": true, "or": true, "is": true, "a": true, "an": true,
}

// Extract attempts to read a variable's value back out of a rendered
// message by anchoring on the variable's declared prefix. Short prefixes
// like "to " recur in prose, so every occurrence is tried until one is
// followed by a value of the right shape. The contract is "a plausible
// value or empty", never "the historically-correct value": free-text
// heuristics are approximate by design.
func Extract(v TemplateVariable, message string) string {
	if v.Prefix == "" || message == "" {
		return ""
	}
	lower := strings.ToLower(message)
	prefix := strings.ToLower(v.Prefix)
	for from := 0; ; {
		idx := strings.Index(lower[from:], prefix)
		if idx < 0 {
			return ""
		}
		idx += from
		remainder := strings.TrimLeft(message[idx+len(prefix):], " ")
		if value := extractTyped(v.Type, remainder); value != "" {
			return value
		}
		from = idx + len(prefix)
	}
}

func extractTyped(t VariableType, remainder string) string {
	switch t {
	case TypeAddress:
		return addressPattern.FindString(remainder)
	case TypeTxHash:
		return txHashPattern.FindString(remainder)
	case TypeNumber, TypePercentage:
		return strings.TrimSuffix(numberPattern.FindString(remainder), "%")
	case TypeToken:
		return matchTokenSymbol(remainder)
	default:
		return extractPhrase(remainder)
	}
}

func matchTokenSymbol(s string) string {
	word := wordPattern.FindString(s)
	if word == "" {
		return ""
	}
	for _, sym := range knownTokenSymbols {
		if strings.EqualFold(word, sym) {
			return sym
		}
	}
	return ""
}

// extractPhrase takes words until a stop word, punctuation, or a length cap.
// A leading run of capitalized words (a name) is preferred when present.
func extractPhrase(s string) string {
	const maxWords = 6
	fields := strings.Fields(s)

	var words []string
	capitalizedRun := true
	for _, f := range fields {
		trimmed := strings.TrimRight(f, ".,!?;:")
		if trimmed == "" || extractionStopWords[strings.ToLower(trimmed)] {
			break
		}
		if capitalizedRun && (trimmed[0] < 'A' || trimmed[0] > 'Z') {
			capitalizedRun = false
		}
		words = append(words, trimmed)
		// Punctuation inside the original token ends the phrase.
		if trimmed != f || len(words) == maxWords {
			break
		}
	}

	if len(words) == 0 {
		return ""
	}
	if capitalizedRun {
		// Keep only the capitalized run when the phrase looks like a name.
		run := words[:0:0]
		for _, w := range words {
			if w[0] < 'A' || w[0] > 'Z' {
				break
			}
			run = append(run, w)
		}
		if len(run) > 0 {
			return strings.Join(run, " ")
		}
	}
	return strings.Join(words, " ")
}
