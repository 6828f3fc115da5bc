package validation

import "strings"

// FieldError is a single violation. Path is empty for errors about the body
// as a whole.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Errors collects every violation found in one input
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Path == "" {
			msgs = append(msgs, fe.Message)
			continue
		}
		msgs = append(msgs, fe.Path+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Headline is the message surfaced alongside the full list
func (e Errors) Headline(fallback string) string {
	if len(e) == 0 || e[0].Message == "" {
		return fallback
	}
	return e[0].Message
}

// Has reports whether any violation refers to path
func (e Errors) Has(path string) bool {
	for _, fe := range e {
		if fe.Path == path {
			return true
		}
	}
	return false
}
