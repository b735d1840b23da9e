// Package templates renders negotiation message templates with conditional
// blocks and best-effort reverses rendered messages back into variable
// values.
package templates

import (
	"strings"
)

// VariableType selects the extraction pattern used when reading a value
// back out of a rendered message.
type VariableType string

const (
	TypeAddress    VariableType = "address"
	TypeTxHash     VariableType = "tx_hash"
	TypeNumber     VariableType = "number"
	TypePercentage VariableType = "percentage"
	TypeToken      VariableType = "token"
	TypeText       VariableType = "text"
)

// TemplateVariable declares one fillable slot of a template. Prefix is the
// literal text that precedes the value in the rendered message; extraction
// anchors on it.
type TemplateVariable struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Type     VariableType `json:"type"`
	Optional bool         `json:"optional"`
	Prefix   string       `json:"prefix,omitempty"`
}

// Template is a message template. Every ${key} or ${key? ...} token in
// TemplateString should correspond to a declared variable or a derived key;
// a missing declaration is a catalog defect, not a runtime error.
type Template struct {
	ID             string             `json:"id"`
	CategoryID     string             `json:"category_id"`
	TemplateString string             `json:"template_string"`
	Variables      []TemplateVariable `json:"variables"`
}

// AllFilled reports whether every required variable has a non-blank value.
// This is the send-readiness gate.
func AllFilled(t Template, values map[string]string) bool {
	for _, v := range t.Variables {
		if v.Optional {
			continue
		}
		if strings.TrimSpace(values[v.Key]) == "" {
			return false
		}
	}
	return true
}

// Progress counts filled variables over all declared ones, optional
// included. Informational only; use AllFilled to gate sending.
func Progress(t Template, values map[string]string) (filled, total int) {
	total = len(t.Variables)
	for _, v := range t.Variables {
		if strings.TrimSpace(values[v.Key]) != "" {
			filled++
		}
	}
	return filled, total
}
